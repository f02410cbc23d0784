package repository

import (
	"time"

	"fieldpay/internal/models"

	"gorm.io/gorm"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) Create(inv *models.Invoice) error {
	return r.db.Create(inv).Error
}

func (r *InvoiceRepository) GetByID(id uint) (*models.Invoice, error) {
	var inv models.Invoice
	err := r.db.First(&inv, id).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// SetLedger writes a fully recomputed ledger state. paidAt semantics: nil
// leaves the column untouched except when clearPaidAt is set.
func (r *InvoiceRepository) SetLedger(id uint, paid, balance int64, status string, paidAt *time.Time, clearPaidAt bool) error {
	updates := map[string]interface{}{
		"paid_amount":    paid,
		"balance_amount": balance,
		"status":         status,
	}
	if paidAt != nil {
		updates["paid_at"] = paidAt
	} else if clearPaidAt {
		updates["paid_at"] = nil
	}
	return r.db.Model(&models.Invoice{}).Where("id = ?", id).Updates(updates).Error
}

// ApplyLedger writes the recomputed ledger only if it would not overdraw the
// invoice. Returns false when the guard rejects the write, which means a
// concurrent request won the race between validation and reconciliation.
func (r *InvoiceRepository) ApplyLedger(id uint, paid int64, status string, paidAt *time.Time) (bool, error) {
	updates := map[string]interface{}{
		"paid_amount":    paid,
		"balance_amount": gorm.Expr("total_amount - ?", paid),
		"status":         status,
	}
	if paidAt != nil {
		updates["paid_at"] = paidAt
	}
	res := r.db.Model(&models.Invoice{}).
		Where("id = ? AND total_amount >= ?", id, paid).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
