package repository

import (
	"fieldpay/internal/domain"
	"fieldpay/internal/models"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(p *models.Payment) error {
	return r.db.Create(p).Error
}

func (r *PaymentRepository) GetByID(id uint) (*models.Payment, error) {
	var p models.Payment
	err := r.db.First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) GetByIdempotencyKey(companyID uint, key string) (*models.Payment, error) {
	var p models.Payment
	err := r.db.Where("company_id = ? AND idempotency_key = ?", companyID, key).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// LatestByCompany returns the most recently created payment for a tenant.
func (r *PaymentRepository) LatestByCompany(companyID uint) (*models.Payment, error) {
	var p models.Payment
	err := r.db.Where("company_id = ?", companyID).Order("id DESC").First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) NumberExists(companyID uint, number string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Payment{}).
		Where("company_id = ? AND payment_number = ?", companyID, number).
		Count(&count).Error
	return count > 0, err
}

// PaymentStats aggregates historical outcomes for the trust scorer.
func (r *PaymentRepository) PaymentStats(companyID uint) (completed, failed, completedTotal int64, err error) {
	type row struct {
		Status string
		N      int64
		Total  int64
	}
	var rows []row
	err = r.db.Model(&models.Payment{}).
		Select("status, COUNT(*) AS n, COALESCE(SUM(amount), 0) AS total").
		Where("company_id = ?", companyID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return 0, 0, 0, err
	}
	for _, rw := range rows {
		switch rw.Status {
		case domain.PaymentStatusCompleted:
			completed = rw.N
			completedTotal = rw.Total
		case domain.PaymentStatusFailed:
			failed = rw.N
		}
	}
	return completed, failed, completedTotal, nil
}

func (r *PaymentRepository) Update(p *models.Payment) error {
	return r.db.Save(p).Error
}
