package models

import "time"

// ProcessorTransaction is an append-only log of every call made to an
// external processor adapter, kept whether or not the logical payment was
// created. Never updated or deleted.
type ProcessorTransaction struct {
	ID                     uint      `gorm:"primaryKey" json:"id"`
	CompanyID              uint      `gorm:"not null;index" json:"company_id"`
	ProcessorType          string    `gorm:"size:50;not null" json:"processor_type"`
	ProcessorTransactionID string    `gorm:"size:255;index" json:"processor_transaction_id"`
	Channel                string    `gorm:"size:32" json:"channel"`
	Amount                 int64     `gorm:"not null" json:"amount"`
	Currency               string    `gorm:"size:3" json:"currency"`
	Status                 string    `gorm:"size:32;not null" json:"status"`
	ProcessorMetadata      string    `gorm:"type:text" json:"processor_metadata"` // JSON
	ProcessorResponse      string    `gorm:"type:text" json:"processor_response"` // raw body
	ProcessedAt            time.Time `json:"processed_at"`
	CreatedAt              time.Time `json:"created_at"`
}

func (ProcessorTransaction) TableName() string {
	return "payment_processor_transactions"
}
