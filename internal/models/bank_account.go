package models

import (
	"time"

	"gorm.io/gorm"
)

// BankAccount is a settlement destination. A payment is never taken for a
// tenant with no active account configured.
type BankAccount struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CompanyID    uint           `gorm:"not null;index" json:"company_id"`
	Name         string         `gorm:"size:255;not null" json:"name"`
	BankName     string         `gorm:"size:255" json:"bank_name"`
	AccountLast4 string         `gorm:"size:4" json:"account_last4"`
	IsActive     bool           `gorm:"default:true;index" json:"is_active"`
	IsDefault    bool           `gorm:"default:false" json:"is_default"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Company Company `gorm:"foreignKey:CompanyID" json:"-"`
}

func (BankAccount) TableName() string {
	return "finance_bank_accounts"
}
