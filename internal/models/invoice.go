package models

import (
	"time"

	"gorm.io/gorm"
)

// Invoice carries the running ledger for a billable document. At rest,
// balance_amount == total_amount - paid_amount, and paid_amount equals the
// sum of live invoice_payments allocations. All amounts are minor units.
type Invoice struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CompanyID     uint           `gorm:"not null;index" json:"company_id"`
	CustomerID    uint           `gorm:"not null;index" json:"customer_id"`
	InvoiceNumber string         `gorm:"size:64;not null" json:"invoice_number"`
	TotalAmount   int64          `gorm:"not null" json:"total_amount"`
	PaidAmount    int64          `gorm:"not null;default:0" json:"paid_amount"`
	BalanceAmount int64          `gorm:"not null;default:0" json:"balance_amount"`
	Status        string         `gorm:"size:20;not null;index" json:"status"` // draft, sent, viewed, partial, paid, void
	Currency      string         `gorm:"size:3;default:'USD'" json:"currency"`
	PaidAt        *time.Time     `json:"paid_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Company  Company  `gorm:"foreignKey:CompanyID" json:"-"`
	Customer Customer `gorm:"foreignKey:CustomerID" json:"-"`
}

func (Invoice) TableName() string {
	return "invoices"
}
