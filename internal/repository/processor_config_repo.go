package repository

import (
	"fieldpay/internal/models"

	"gorm.io/gorm"
)

type ProcessorConfigRepository struct {
	db *gorm.DB
}

func NewProcessorConfigRepository(db *gorm.DB) *ProcessorConfigRepository {
	return &ProcessorConfigRepository{db: db}
}

func (r *ProcessorConfigRepository) Create(cfg *models.ProcessorConfig) error {
	return r.db.Create(cfg).Error
}

// ActiveByCompany returns the tenant's routing rules, highest priority first.
func (r *ProcessorConfigRepository) ActiveByCompany(companyID uint) ([]models.ProcessorConfig, error) {
	var configs []models.ProcessorConfig
	err := r.db.Where("company_id = ? AND is_active = ?", companyID, true).
		Order("priority DESC").
		Find(&configs).Error
	return configs, err
}
