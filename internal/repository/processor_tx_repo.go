package repository

import (
	"fieldpay/internal/models"

	"gorm.io/gorm"
)

// ProcessorTxRepository owns the append-only processor call log. No update
// or delete methods exist on purpose.
type ProcessorTxRepository struct {
	db *gorm.DB
}

func NewProcessorTxRepository(db *gorm.DB) *ProcessorTxRepository {
	return &ProcessorTxRepository{db: db}
}

func (r *ProcessorTxRepository) Create(tx *models.ProcessorTransaction) error {
	return r.db.Create(tx).Error
}

func (r *ProcessorTxRepository) ListByCompany(companyID uint, limit int) ([]models.ProcessorTransaction, error) {
	if limit <= 0 {
		limit = 50
	}
	var txs []models.ProcessorTransaction
	err := r.db.Where("company_id = ?", companyID).
		Order("id DESC").
		Limit(limit).
		Find(&txs).Error
	return txs, err
}
