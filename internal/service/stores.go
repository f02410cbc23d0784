package service

import (
	"time"

	"fieldpay/internal/models"
)

// Persistence surfaces the payment core needs. The repository package
// satisfies all of these; tests substitute in-memory fakes.

type InvoiceStore interface {
	GetByID(id uint) (*models.Invoice, error)
	SetLedger(id uint, paid, balance int64, status string, paidAt *time.Time, clearPaidAt bool) error
	ApplyLedger(id uint, paid int64, status string, paidAt *time.Time) (bool, error)
}

type PaymentStore interface {
	Create(p *models.Payment) error
	GetByID(id uint) (*models.Payment, error)
	GetByIdempotencyKey(companyID uint, key string) (*models.Payment, error)
	LatestByCompany(companyID uint) (*models.Payment, error)
	NumberExists(companyID uint, number string) (bool, error)
	PaymentStats(companyID uint) (completed, failed, completedTotal int64, err error)
	Update(p *models.Payment) error
}

type AllocationStore interface {
	Create(a *models.InvoicePayment) error
	GetByID(id uint) (*models.InvoicePayment, error)
	Delete(id uint) error
	SumByInvoice(invoiceID uint) (int64, error)
}

type BankAccountStore interface {
	ActiveCount(companyID uint) (int64, error)
}

type ProcessorConfigStore interface {
	ActiveByCompany(companyID uint) ([]models.ProcessorConfig, error)
}

type ProcessorTxStore interface {
	Create(tx *models.ProcessorTransaction) error
}

// ViewInvalidator tells presentation layers their cached views are stale.
// Fire-and-forget: implementations must not fail the calling operation.
type ViewInvalidator interface {
	InvoiceChanged(companyID, invoiceID uint)
	PaymentChanged(companyID, paymentID uint)
}
