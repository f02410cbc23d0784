package models

import "time"

// InvoicePayment records how much of a payment was applied to an invoice.
// It is the unit of reversal: removal deletes this row, not the payment.
// Hard-deleted on removal, so no soft-delete column.
type InvoicePayment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CompanyID     uint      `gorm:"not null;index" json:"company_id"`
	InvoiceID     uint      `gorm:"not null;index" json:"invoice_id"`
	PaymentID     uint      `gorm:"not null;index" json:"payment_id"`
	AmountApplied int64     `gorm:"not null" json:"amount_applied"`
	AppliedAt     time.Time `json:"applied_at"`
	Notes         string    `gorm:"size:512" json:"notes,omitempty"`

	Invoice Invoice `gorm:"foreignKey:InvoiceID" json:"-"`
	Payment Payment `gorm:"foreignKey:PaymentID" json:"payment,omitempty"`
}

func (InvoicePayment) TableName() string {
	return "invoice_payments"
}
