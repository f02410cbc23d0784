package service

import (
	"errors"
	"time"

	"fieldpay/internal/domain"
	"fieldpay/internal/logger"
	"fieldpay/internal/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Reconciler owns the ledger invariant balance_amount == total_amount -
// paid_amount and the derived invoice status, for both directions: applying
// a payment and removing one. paid_amount is always recomputed from the
// allocation rows, never incremented from a cached counter.
type Reconciler struct {
	invoices    InvoiceStore
	allocations AllocationStore
	invalidator ViewInvalidator
	locks       *InvoiceLocks
	log         zerolog.Logger
	now         func() time.Time
}

func NewReconciler(invoices InvoiceStore, allocations AllocationStore, invalidator ViewInvalidator, locks *InvoiceLocks) *Reconciler {
	return &Reconciler{
		invoices:    invoices,
		allocations: allocations,
		invalidator: invalidator,
		locks:       locks,
		log:         logger.WithComponent("reconciler"),
		now:         time.Now,
	}
}

// ApplyPayment records an allocation and folds it into the invoice ledger.
// The caller must hold the invoice lock; the orchestrator acquires it before
// validation so the balance it checked is the balance written here. The
// conditional ledger write is the backstop: if it would overdraw the
// invoice, the allocation is rolled back and a PartialFailure names the
// refund obligation, because by this point the external charge succeeded.
func (r *Reconciler) ApplyPayment(invoiceID, paymentID uint, amount int64, success bool) error {
	if !success {
		return nil
	}
	inv, err := r.invoices.GetByID(invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.E(domain.CodeNotFound, "invoice not found")
		}
		return domain.Wrap(domain.CodePersistence, "loading invoice for reconciliation", err)
	}

	alloc := &models.InvoicePayment{
		CompanyID:     inv.CompanyID,
		InvoiceID:     invoiceID,
		PaymentID:     paymentID,
		AmountApplied: amount,
		AppliedAt:     r.now(),
	}
	if err := r.allocations.Create(alloc); err != nil {
		return domain.Wrap(domain.CodePartialFailure, "charge succeeded but the payment was not applied to the invoice", err)
	}

	paid, err := r.allocations.SumByInvoice(invoiceID)
	if err != nil {
		return domain.Wrap(domain.CodePartialFailure, "charge succeeded but the invoice balance was not recomputed", err)
	}

	balance := inv.TotalAmount - paid
	status := inv.Status
	var paidAt *time.Time
	if balance == 0 && paid > 0 {
		status = domain.InvoiceStatusPaid
		now := r.now()
		paidAt = &now
	} else if paid > 0 && balance > 0 {
		status = domain.InvoiceStatusPartial
	}

	applied, err := r.invoices.ApplyLedger(invoiceID, paid, status, paidAt)
	if err != nil {
		return domain.Wrap(domain.CodePartialFailure, "charge succeeded but the invoice ledger update failed", err)
	}
	if !applied {
		// A concurrent payment filled the invoice between our validation
		// and this write. Roll the allocation back; the caller owes the
		// customer a processor-side refund.
		if delErr := r.allocations.Delete(alloc.ID); delErr != nil {
			r.log.Error().Err(delErr).Uint("allocation_id", alloc.ID).Msg("allocation rollback failed after overdraw rejection")
		}
		return domain.E(domain.CodePartialFailure, "charge succeeded but applying it would overdraw the invoice; a processor refund is required")
	}
	return nil
}

// RemovePaymentFromInvoice undoes a previously-applied payment by deleting
// its allocation and recomputing the ledger from the remaining ones. The
// payment record itself is never mutated so audit history survives.
func (r *Reconciler) RemovePaymentFromInvoice(allocationID uint) error {
	alloc, err := r.allocations.GetByID(allocationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.E(domain.CodeNotFound, "payment allocation not found")
		}
		return domain.Wrap(domain.CodePersistence, "loading allocation", err)
	}

	unlock := r.locks.Lock(alloc.InvoiceID)
	defer unlock()

	// Re-check under the lock so a concurrent removal of the same
	// allocation fails with NotFound instead of double-decrementing.
	alloc, err = r.allocations.GetByID(allocationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.E(domain.CodeNotFound, "payment allocation not found")
		}
		return domain.Wrap(domain.CodePersistence, "loading allocation", err)
	}

	inv, err := r.invoices.GetByID(alloc.InvoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.E(domain.CodeNotFound, "invoice not found")
		}
		return domain.Wrap(domain.CodePersistence, "loading invoice", err)
	}

	if err := r.allocations.Delete(alloc.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.E(domain.CodeNotFound, "payment allocation not found")
		}
		return domain.Wrap(domain.CodePersistence, "removing allocation", err)
	}

	paid, err := r.allocations.SumByInvoice(inv.ID)
	if err != nil {
		return domain.Wrap(domain.CodePartialFailure, "payment unlinked but invoice balance not updated", err)
	}
	balance := inv.TotalAmount - paid

	status := inv.Status
	switch {
	case balance == 0 && paid > 0:
		status = domain.InvoiceStatusPaid
	case paid > 0 && paid < inv.TotalAmount:
		status = domain.InvoiceStatusPartial
	case paid == 0:
		// Revert to sent only from a payment-derived status; a status the
		// invoice held before any payment (e.g. viewed) is preserved.
		if inv.Status == domain.InvoiceStatusPaid || inv.Status == domain.InvoiceStatusPartial {
			status = domain.InvoiceStatusSent
		}
	}

	clearPaidAt := status != domain.InvoiceStatusPaid
	if err := r.invoices.SetLedger(inv.ID, paid, balance, status, nil, clearPaidAt); err != nil {
		return domain.Wrap(domain.CodePartialFailure, "payment unlinked but invoice balance not updated", err)
	}

	if r.invalidator != nil {
		r.invalidator.InvoiceChanged(inv.CompanyID, inv.ID)
		r.invalidator.PaymentChanged(inv.CompanyID, alloc.PaymentID)
	}
	return nil
}
