package models

import (
	"time"

	"gorm.io/gorm"
)

// ProcessorConfig is one row of the Processor Router's rule table: which
// processor handles which channel for a tenant, with an optional amount cap.
// An empty Channel matches any channel; MaxAmount is in minor units and 0
// means no cap.
type ProcessorConfig struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CompanyID     uint           `gorm:"not null;index" json:"company_id"`
	ProcessorType string         `gorm:"size:50;not null" json:"processor_type"`
	Channel       string         `gorm:"size:32" json:"channel"`
	MaxAmount     int64          `gorm:"default:0" json:"max_amount"`
	Priority      int            `gorm:"default:0;index" json:"priority"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Company Company `gorm:"foreignKey:CompanyID" json:"-"`
}

func (ProcessorConfig) TableName() string {
	return "company_payment_processors"
}
