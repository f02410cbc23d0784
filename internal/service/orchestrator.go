package service

import (
	"context"
	"errors"
	"time"

	"fieldpay/internal/domain"
	"fieldpay/internal/logger"
	"fieldpay/internal/models"
	"fieldpay/pkg/processor"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentRequest is one "pay this invoice" request from the handling layer.
type PaymentRequest struct {
	InvoiceID       uint
	CompanyID       uint
	ActorID         uint
	Amount          *decimal.Decimal // major units; nil means the full remaining balance
	PaymentMethodID string
	PaymentMethod   string
	Channel         string
	IdempotencyKey  string
}

// PaymentResult distinguishes "succeeded", "soft stop, needs a human
// decision" and (via the error return) "hard failure, nothing happened".
type PaymentResult struct {
	Success          bool   `json:"success"`
	RequiresApproval bool   `json:"requires_approval,omitempty"`
	PaymentID        uint   `json:"payment_id,omitempty"`
	PaymentNumber    string `json:"payment_number,omitempty"`
	TransactionID    string `json:"transaction_id,omitempty"`
	ClientSecret     string `json:"client_secret,omitempty"`
}

// Orchestrator sequences a single invoice payment: trust gate, processor
// routing, the external charge, transaction recording, payment creation and
// ledger reconciliation. Everything before the charge is pure validation;
// everything after it must surface loudly on failure because the external
// world then holds a charge with no matching internal record.
type Orchestrator struct {
	invoices     InvoiceStore
	payments     PaymentStore
	bankAccounts BankAccountStore
	trust        TrustEvaluator
	router       ProcessorRouter
	sequencer    *PaymentSequencer
	recorder     *TransactionRecorder
	reconciler   *Reconciler
	invalidator  ViewInvalidator
	locks        *InvoiceLocks
	log          zerolog.Logger
}

func NewOrchestrator(
	invoices InvoiceStore,
	payments PaymentStore,
	bankAccounts BankAccountStore,
	trust TrustEvaluator,
	router ProcessorRouter,
	sequencer *PaymentSequencer,
	recorder *TransactionRecorder,
	reconciler *Reconciler,
	invalidator ViewInvalidator,
	locks *InvoiceLocks,
) *Orchestrator {
	return &Orchestrator{
		invoices:     invoices,
		payments:     payments,
		bankAccounts: bankAccounts,
		trust:        trust,
		router:       router,
		sequencer:    sequencer,
		recorder:     recorder,
		reconciler:   reconciler,
		invalidator:  invalidator,
		locks:        locks,
		log:          logger.WithComponent("orchestrator"),
	}
}

func (o *Orchestrator) ProcessInvoicePayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	if req.ActorID == 0 {
		return nil, domain.E(domain.CodeUnauthenticated, "no authenticated actor")
	}

	unlock := o.locks.Lock(req.InvoiceID)
	defer unlock()

	// A repeated request with the same key returns the recorded outcome
	// instead of charging again. Checked under the invoice lock so two
	// in-flight requests with the same key cannot both miss the lookup
	// and charge twice.
	if req.IdempotencyKey != "" {
		prior, err := o.payments.GetByIdempotencyKey(req.CompanyID, req.IdempotencyKey)
		if err == nil {
			return &PaymentResult{
				Success:       true,
				PaymentID:     prior.ID,
				PaymentNumber: prior.PaymentNumber,
				TransactionID: prior.ProcessorTransactionID,
			}, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.Wrap(domain.CodePersistence, "idempotency lookup", err)
		}
	}

	inv, err := o.invoices.GetByID(req.InvoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.E(domain.CodeNotFound, "invoice not found")
		}
		return nil, domain.Wrap(domain.CodePersistence, "loading invoice", err)
	}
	if inv.CompanyID != req.CompanyID {
		return nil, domain.E(domain.CodeNotFound, "invoice not found")
	}
	if inv.BalanceAmount <= 0 {
		return nil, domain.E(domain.CodeConflict, "invoice is already paid")
	}

	amount := inv.BalanceAmount
	if req.Amount != nil {
		amount = req.Amount.Mul(decimal.NewFromInt(100)).IntPart()
		if amount <= 0 {
			return nil, domain.E(domain.CodeInvalidAmount, "payment amount must be greater than zero")
		}
		if amount > inv.BalanceAmount {
			return nil, domain.E(domain.CodeInvalidAmount, "payment amount exceeds remaining balance")
		}
	}

	active, err := o.bankAccounts.ActiveCount(req.CompanyID)
	if err != nil {
		return nil, domain.Wrap(domain.CodePersistence, "checking settlement accounts", err)
	}
	if active == 0 {
		return nil, domain.E(domain.CodePreconditionFailed, "no active bank account configured to receive funds")
	}

	verdict, err := o.trust.Evaluate(ctx, req.CompanyID, amount)
	if err != nil {
		// Fail closed: an unavailable risk oracle denies, never allows.
		return nil, domain.Wrap(domain.CodeRiskDenied, "risk evaluation unavailable", err)
	}
	if !verdict.Allowed {
		return nil, domain.Ef(domain.CodeRiskDenied, "payment denied: %s", verdict.Reason)
	}
	if verdict.RequiresApproval {
		// Soft stop, not a failure: no side effects have happened.
		return &PaymentResult{Success: false, RequiresApproval: true}, nil
	}

	adapter, err := o.router.SelectProcessor(req.CompanyID, amount, req.Channel)
	if err != nil {
		return nil, err
	}

	currency := inv.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	reference := uuid.New().String()
	outcome, procErr := adapter.ProcessPayment(ctx, processor.Request{
		Amount:          amount,
		Currency:        currency,
		InvoiceID:       inv.ID,
		CustomerID:      inv.CustomerID,
		PaymentMethodID: req.PaymentMethodID,
		Channel:         req.Channel,
		Reference:       reference,
		Description:     "Payment for invoice " + inv.InvoiceNumber,
	})
	if procErr != nil || !outcome.Success {
		o.trust.ReportOutcome(ctx, req.CompanyID, false, amount)
		msg := "payment was declined"
		if procErr != nil {
			o.recorder.Record(req.CompanyID, adapter.Kind(), req.Channel, currency, amount,
				&processor.Outcome{Status: "error", Error: procErr.Error()})
			return nil, domain.Wrap(domain.CodeProcessorDeclined, msg, procErr)
		}
		o.recorder.Record(req.CompanyID, adapter.Kind(), req.Channel, currency, amount, outcome)
		if outcome.Error != "" {
			msg = outcome.Error
		}
		return nil, domain.E(domain.CodeProcessorDeclined, msg)
	}

	// Point of no return: money has moved. Audit log first (best-effort),
	// then the payment row and the ledger, which must surface loudly.
	o.recorder.Record(req.CompanyID, adapter.Kind(), req.Channel, currency, amount, outcome)

	number, err := o.sequencer.NextPaymentNumber(req.CompanyID)
	if err != nil {
		return nil, domain.Wrap(domain.CodePartialFailure, "charge succeeded but no payment number could be allocated", err)
	}

	status := domain.PaymentStatusProcessing
	var processedAt *time.Time
	if outcome.Succeeded() {
		status = domain.PaymentStatusCompleted
		now := time.Now()
		processedAt = &now
	}
	pay := &models.Payment{
		CompanyID:              req.CompanyID,
		CustomerID:             inv.CustomerID,
		InvoiceID:              inv.ID,
		PaymentNumber:          number,
		Amount:                 amount,
		Currency:               currency,
		PaymentMethod:          req.PaymentMethod,
		Status:                 status,
		ProcessorName:          string(adapter.Kind()),
		ProcessorTransactionID: outcome.TransactionID,
		ProcessorFee:           outcome.ProcessorFee,
		NetAmount:              amount - outcome.ProcessorFee,
		ProcessedAt:            processedAt,
	}
	if req.IdempotencyKey != "" {
		key := req.IdempotencyKey
		pay.IdempotencyKey = &key
	}
	if err := o.payments.Create(pay); err != nil {
		o.log.Error().Err(err).
			Uint("invoice_id", inv.ID).
			Str("transaction_id", outcome.TransactionID).
			Msg("charge succeeded but payment record creation failed")
		return nil, domain.Wrap(domain.CodePartialFailure, "charge succeeded but the payment record was not created", err)
	}

	if outcome.Succeeded() {
		if err := o.reconciler.ApplyPayment(inv.ID, pay.ID, amount, true); err != nil {
			o.log.Error().Err(err).
				Uint("invoice_id", inv.ID).
				Uint("payment_id", pay.ID).
				Msg("charge succeeded but ledger reconciliation failed")
			return nil, err
		}
		o.trust.ReportOutcome(ctx, req.CompanyID, true, amount)
	}

	if o.invalidator != nil {
		o.invalidator.InvoiceChanged(inv.CompanyID, inv.ID)
		o.invalidator.PaymentChanged(inv.CompanyID, pay.ID)
	}

	return &PaymentResult{
		Success:       true,
		PaymentID:     pay.ID,
		PaymentNumber: number,
		TransactionID: outcome.TransactionID,
		ClientSecret:  outcome.ClientSecret,
	}, nil
}
