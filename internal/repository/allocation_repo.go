package repository

import (
	"fieldpay/internal/models"

	"gorm.io/gorm"
)

type AllocationRepository struct {
	db *gorm.DB
}

func NewAllocationRepository(db *gorm.DB) *AllocationRepository {
	return &AllocationRepository{db: db}
}

func (r *AllocationRepository) Create(a *models.InvoicePayment) error {
	return r.db.Create(a).Error
}

func (r *AllocationRepository) GetByID(id uint) (*models.InvoicePayment, error) {
	var a models.InvoicePayment
	err := r.db.First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Delete hard-deletes an allocation. Removal of the row is the unit of
// reversal; the payment record itself is never touched.
func (r *AllocationRepository) Delete(id uint) error {
	res := r.db.Delete(&models.InvoicePayment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SumByInvoice recomputes the invoice's paid amount from its live
// allocations, the source of truth.
func (r *AllocationRepository) SumByInvoice(invoiceID uint) (int64, error) {
	var total int64
	err := r.db.Model(&models.InvoicePayment{}).
		Where("invoice_id = ?", invoiceID).
		Select("COALESCE(SUM(amount_applied), 0)").
		Scan(&total).Error
	return total, err
}

func (r *AllocationRepository) ListByInvoice(invoiceID uint) ([]models.InvoicePayment, error) {
	var allocations []models.InvoicePayment
	err := r.db.Preload("Payment").
		Where("invoice_id = ?", invoiceID).
		Order("applied_at DESC").
		Find(&allocations).Error
	return allocations, err
}
