package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment is the immutable record of money having moved for an invoice.
// Reversal never mutates it; removing a payment from an invoice deletes the
// allocation row instead, so audit history survives.
type Payment struct {
	ID                     uint           `gorm:"primaryKey" json:"id"`
	CompanyID              uint           `gorm:"not null;index;uniqueIndex:idx_payments_company_number" json:"company_id"`
	CustomerID             uint           `gorm:"not null;index" json:"customer_id"`
	InvoiceID              uint           `gorm:"not null;index" json:"invoice_id"`
	PaymentNumber          string         `gorm:"size:64;not null;uniqueIndex:idx_payments_company_number" json:"payment_number"`
	Amount                 int64          `gorm:"not null" json:"amount"`
	Currency               string         `gorm:"size:3;default:'USD'" json:"currency"`
	PaymentMethod          string         `gorm:"size:32;not null" json:"payment_method"`
	Status                 string         `gorm:"size:20;not null;index" json:"status"` // processing, completed, failed, refunded
	ProcessorName          string         `gorm:"size:50" json:"processor_name"`
	ProcessorTransactionID string         `gorm:"size:255" json:"processor_transaction_id"`
	ProcessorFee           int64          `gorm:"default:0" json:"processor_fee"`
	NetAmount              int64          `gorm:"default:0" json:"net_amount"`
	RefundedAmount         int64          `gorm:"default:0" json:"refunded_amount"`
	RefundReason           string         `gorm:"size:512" json:"refund_reason,omitempty"`
	IsReconciled           bool           `gorm:"default:false" json:"is_reconciled"`
	ReconciledAt           *time.Time     `json:"reconciled_at"`
	IdempotencyKey         *string        `gorm:"uniqueIndex;size:255" json:"-"` // nil when the caller supplied no key (avoids duplicate '' on unique index)
	ProcessedAt            *time.Time     `json:"processed_at"`
	CreatedAt              time.Time      `json:"created_at"`
	UpdatedAt              time.Time      `json:"updated_at"`
	DeletedAt              gorm.DeletedAt `gorm:"index" json:"-"`

	Company  Company  `gorm:"foreignKey:CompanyID" json:"-"`
	Customer Customer `gorm:"foreignKey:CustomerID" json:"-"`
	Invoice  Invoice  `gorm:"foreignKey:InvoiceID" json:"-"`
}

func (Payment) TableName() string {
	return "payments"
}
