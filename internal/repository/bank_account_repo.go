package repository

import (
	"fieldpay/internal/models"

	"gorm.io/gorm"
)

type BankAccountRepository struct {
	db *gorm.DB
}

func NewBankAccountRepository(db *gorm.DB) *BankAccountRepository {
	return &BankAccountRepository{db: db}
}

func (r *BankAccountRepository) Create(a *models.BankAccount) error {
	return r.db.Create(a).Error
}

func (r *BankAccountRepository) ActiveCount(companyID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.BankAccount{}).
		Where("company_id = ? AND is_active = ?", companyID, true).
		Count(&count).Error
	return count, err
}

func (r *BankAccountRepository) ListByCompany(companyID uint) ([]models.BankAccount, error) {
	var accounts []models.BankAccount
	err := r.db.Where("company_id = ?", companyID).Find(&accounts).Error
	return accounts, err
}
