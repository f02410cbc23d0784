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

// PaymentService covers payment bookkeeping outside the orchestration path:
// refund accounting and reconciliation flags. Refunds mutate only the
// payment row; undoing the invoice ledger is the reconciler's allocation
// removal.
type PaymentService struct {
	payments    PaymentStore
	invalidator ViewInvalidator
	log         zerolog.Logger
}

func NewPaymentService(payments PaymentStore, invalidator ViewInvalidator) *PaymentService {
	return &PaymentService{
		payments:    payments,
		invalidator: invalidator,
		log:         logger.WithComponent("payments"),
	}
}

// Refund records a refund of amount (minor units) against a completed
// payment, capped at what has not already been refunded.
func (s *PaymentService) Refund(companyID, paymentID uint, amount int64, reason string) (*models.Payment, error) {
	p, err := s.payments.GetByID(paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.E(domain.CodeNotFound, "payment not found")
		}
		return nil, domain.Wrap(domain.CodePersistence, "loading payment", err)
	}
	if p.CompanyID != companyID {
		return nil, domain.E(domain.CodeNotFound, "payment not found")
	}
	if p.Status != domain.PaymentStatusCompleted {
		return nil, domain.Ef(domain.CodeConflict, "cannot refund a %s payment", p.Status)
	}
	if amount <= 0 {
		return nil, domain.E(domain.CodeInvalidAmount, "refund amount must be greater than zero")
	}
	maxRefundable := p.Amount - p.RefundedAmount
	if amount > maxRefundable {
		return nil, domain.Ef(domain.CodeInvalidAmount, "maximum refundable amount is %d", maxRefundable)
	}

	p.RefundedAmount += amount
	p.RefundReason = reason
	if p.RefundedAmount >= p.Amount {
		p.Status = domain.PaymentStatusRefunded
	}
	if err := s.payments.Update(p); err != nil {
		return nil, domain.Wrap(domain.CodePersistence, "recording refund", err)
	}
	if s.invalidator != nil {
		s.invalidator.PaymentChanged(p.CompanyID, p.ID)
	}
	return p, nil
}

// MarkReconciled flags a payment as matched against a bank statement.
func (s *PaymentService) MarkReconciled(companyID, paymentID uint) (*models.Payment, error) {
	p, err := s.payments.GetByID(paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.E(domain.CodeNotFound, "payment not found")
		}
		return nil, domain.Wrap(domain.CodePersistence, "loading payment", err)
	}
	if p.CompanyID != companyID {
		return nil, domain.E(domain.CodeNotFound, "payment not found")
	}
	now := time.Now()
	p.IsReconciled = true
	p.ReconciledAt = &now
	if err := s.payments.Update(p); err != nil {
		return nil, domain.Wrap(domain.CodePersistence, "marking payment reconciled", err)
	}
	return p, nil
}
