package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"fieldpay/internal/domain"
	"fieldpay/pkg/processor"

	"github.com/shopspring/decimal"
)

type fakeTrust struct {
	mu       sync.Mutex
	verdict  TrustVerdict
	err      error
	outcomes []bool
}

func (f *fakeTrust) Evaluate(ctx context.Context, companyID uint, amount int64) (*TrustVerdict, error) {
	if f.err != nil {
		return nil, f.err
	}
	v := f.verdict
	return &v, nil
}

func (f *fakeTrust) ReportOutcome(ctx context.Context, companyID uint, success bool, amount int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, success)
}

func (f *fakeTrust) reported() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bool(nil), f.outcomes...)
}

type fixedRouter struct {
	adapter processor.Adapter
	err     error
}

func (r fixedRouter) SelectProcessor(companyID uint, amount int64, channel string) (processor.Adapter, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.adapter, nil
}

type countingAdapter struct {
	inner processor.Adapter
	mu    sync.Mutex
	calls int
}

func (a *countingAdapter) Kind() processor.Kind { return a.inner.Kind() }

func (a *countingAdapter) ProcessPayment(ctx context.Context, req processor.Request) (*processor.Outcome, error) {
	a.mu.Lock()
	a.calls++
	a.mu.Unlock()
	return a.inner.ProcessPayment(ctx, req)
}

func (a *countingAdapter) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

type orchestratorFixture struct {
	orchestrator *Orchestrator
	invoices     *memInvoices
	payments     *memPayments
	allocations  *memAllocations
	txLog        *memTxLog
	trust        *fakeTrust
	adapter      *countingAdapter
}

func newOrchestratorFixture(t *testing.T, inner processor.Adapter) *orchestratorFixture {
	t.Helper()
	invoices := newMemInvoices(sentInvoice(1, 10000))
	payments := newMemPayments()
	allocations := newMemAllocations()
	txLog := &memTxLog{}
	trust := &fakeTrust{verdict: TrustVerdict{Allowed: true, Score: 80}}
	adapter := &countingAdapter{inner: inner}
	locks := NewInvoiceLocks()
	reconciler := NewReconciler(invoices, allocations, nopInvalidator{}, locks)
	o := NewOrchestrator(
		invoices, payments, &memBankAccounts{active: 1},
		trust, fixedRouter{adapter: adapter},
		NewPaymentSequencer(payments),
		NewTransactionRecorder(txLog),
		reconciler, nopInvalidator{}, locks,
	)
	return &orchestratorFixture{
		orchestrator: o,
		invoices:     invoices,
		payments:     payments,
		allocations:  allocations,
		txLog:        txLog,
		trust:        trust,
		adapter:      adapter,
	}
}

func payReq() PaymentRequest {
	return PaymentRequest{
		InvoiceID:     1,
		CompanyID:     1,
		ActorID:       7,
		PaymentMethod: domain.MethodCard,
		Channel:       domain.ChannelOnline,
	}
}

func TestProcessPaymentFullBalanceSuccess(t *testing.T) {
	f := newOrchestratorFixture(t, &processor.StubAdapter{})

	result, err := f.orchestrator.ProcessInvoicePayment(context.Background(), payReq())
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success {
		t.Fatal("expected success")
	}
	if !strings.HasPrefix(result.PaymentNumber, "PAY-") {
		t.Errorf("payment number = %q, want PAY- prefix", result.PaymentNumber)
	}

	p, err := f.payments.GetByID(result.PaymentID)
	if err != nil {
		t.Fatal(err)
	}
	if p.Status != domain.PaymentStatusCompleted {
		t.Errorf("payment status = %q, want completed", p.Status)
	}
	if p.Amount != 10000 {
		t.Errorf("payment amount = %d, want 10000", p.Amount)
	}

	inv := f.invoices.get(1)
	if inv.Status != domain.InvoiceStatusPaid || inv.BalanceAmount != 0 {
		t.Errorf("invoice = status %q balance %d, want paid/0", inv.Status, inv.BalanceAmount)
	}
	if f.allocations.count() != 1 {
		t.Errorf("allocation count = %d, want 1", f.allocations.count())
	}
	if f.txLog.count() != 1 {
		t.Errorf("transaction log count = %d, want 1", f.txLog.count())
	}
	if got := f.trust.reported(); len(got) != 1 || !got[0] {
		t.Errorf("trust outcomes = %v, want [true]", got)
	}
}

func TestProcessPaymentNoActor(t *testing.T) {
	f := newOrchestratorFixture(t, &processor.StubAdapter{})
	req := payReq()
	req.ActorID = 0

	_, err := f.orchestrator.ProcessInvoicePayment(context.Background(), req)
	if !domain.IsCode(err, domain.CodeUnauthenticated) {
		t.Fatalf("err = %v, want UNAUTHENTICATED", err)
	}
}

func TestProcessPaymentCrossTenantIsNotFound(t *testing.T) {
	f := newOrchestratorFixture(t, &processor.StubAdapter{})
	req := payReq()
	req.CompanyID = 2

	_, err := f.orchestrator.ProcessInvoicePayment(context.Background(), req)
	if !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
}

func TestProcessPaymentAmountExceedsBalance(t *testing.T) {
	f := newOrchestratorFixture(t, &processor.StubAdapter{})
	req := payReq()
	amt := decimal.NewFromInt(150) // 15000 minor against a 10000 balance
	req.Amount = &amt

	_, err := f.orchestrator.ProcessInvoicePayment(context.Background(), req)
	if !domain.IsCode(err, domain.CodeInvalidAmount) {
		t.Fatalf("err = %v, want INVALID_AMOUNT", err)
	}
	if f.adapter.callCount() != 0 {
		t.Error("processor was called for an invalid amount")
	}
	if f.payments.count() != 0 || f.allocations.count() != 0 || f.txLog.count() != 0 {
		t.Error("invalid amount left side effects behind")
	}
}

func TestProcessPaymentZeroAmount(t *testing.T) {
	f := newOrchestratorFixture(t, &processor.StubAdapter{})
	req := payReq()
	amt := decimal.Zero
	req.Amount = &amt

	_, err := f.orchestrator.ProcessInvoicePayment(context.Background(), req)
	if !domain.IsCode(err, domain.CodeInvalidAmount) {
		t.Fatalf("err = %v, want INVALID_AMOUNT", err)
	}
}

func TestProcessPaymentNoBankAccount(t *testing.T) {
	f := newOrchestratorFixture(t, &processor.StubAdapter{})
	f.orchestrator.bankAccounts = &memBankAccounts{active: 0}

	_, err := f.orchestrator.ProcessInvoicePayment(context.Background(), payReq())
	if !domain.IsCode(err, domain.CodePreconditionFailed) {
		t.Fatalf("err = %v, want PRECONDITION_FAILED", err)
	}
}

func TestProcessPaymentRiskDenied(t *testing.T) {
	f := newOrchestratorFixture(t, &processor.StubAdapter{})
	f.trust.verdict = TrustVerdict{Allowed: false, Reason: "failure rate too high", Score: 10}

	_, err := f.orchestrator.ProcessInvoicePayment(context.Background(), payReq())
	if !domain.IsCode(err, domain.CodeRiskDenied) {
		t.Fatalf("err = %v, want RISK_DENIED", err)
	}
	if f.adapter.callCount() != 0 {
		t.Error("processor was called after a risk denial")
	}
}

func TestProcessPaymentRiskOracleDownFailsClosed(t *testing.T) {
	f := newOrchestratorFixture(t, &processor.StubAdapter{})
	f.trust.err = errors.New("oracle unreachable")

	_, err := f.orchestrator.ProcessInvoicePayment(context.Background(), payReq())
	if !domain.IsCode(err, domain.CodeRiskDenied) {
		t.Fatalf("err = %v, want RISK_DENIED", err)
	}
	if f.adapter.callCount() != 0 {
		t.Error("processor was called while the risk oracle was down")
	}
}

func TestProcessPaymentRequiresApprovalHasNoSideEffects(t *testing.T) {
	f := newOrchestratorFixture(t, &processor.StubAdapter{})
	f.trust.verdict = TrustVerdict{Allowed: true, RequiresApproval: true, Score: 60}

	result, err := f.orchestrator.ProcessInvoicePayment(context.Background(), payReq())
	if err != nil {
		t.Fatal(err)
	}
	if result.Success || !result.RequiresApproval {
		t.Fatalf("result = %+v, want requires_approval soft stop", result)
	}
	if f.adapter.callCount() != 0 {
		t.Error("processor was called before approval")
	}
	if f.payments.count() != 0 || f.allocations.count() != 0 || f.txLog.count() != 0 {
		t.Error("approval hold left records behind")
	}
	inv := f.invoices.get(1)
	if inv.PaidAmount != 0 || inv.Status != domain.InvoiceStatusSent {
		t.Error("approval hold mutated the invoice")
	}
}

func TestProcessPaymentDeclined(t *testing.T) {
	f := newOrchestratorFixture(t, &processor.StubAdapter{Decline: "insufficient funds"})

	_, err := f.orchestrator.ProcessInvoicePayment(context.Background(), payReq())
	if !domain.IsCode(err, domain.CodeProcessorDeclined) {
		t.Fatalf("err = %v, want PROCESSOR_DECLINED", err)
	}
	if f.payments.count() != 0 {
		t.Error("declined charge created a payment row")
	}
	if f.txLog.count() != 1 {
		t.Errorf("transaction log count = %d, want 1 (the declined attempt)", f.txLog.count())
	}
	if got := f.trust.reported(); len(got) != 1 || got[0] {
		t.Errorf("trust outcomes = %v, want [false]", got)
	}
	inv := f.invoices.get(1)
	if inv.PaidAmount != 0 || inv.BalanceAmount != 10000 {
		t.Error("declined charge mutated the ledger")
	}
}

func TestProcessPaymentIdempotentReplay(t *testing.T) {
	f := newOrchestratorFixture(t, &processor.StubAdapter{})
	req := payReq()
	req.IdempotencyKey = "req-abc-123"

	first, err := f.orchestrator.ProcessInvoicePayment(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	second, err := f.orchestrator.ProcessInvoicePayment(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if second.PaymentID != first.PaymentID || second.PaymentNumber != first.PaymentNumber {
		t.Errorf("replay returned %+v, want the original %+v", second, first)
	}
	if f.adapter.callCount() != 1 {
		t.Errorf("processor called %d times, want 1", f.adapter.callCount())
	}
	if f.payments.count() != 1 {
		t.Errorf("payment count = %d, want 1", f.payments.count())
	}
}

func TestProcessPaymentConcurrentSameIdempotencyKey(t *testing.T) {
	f := newOrchestratorFixture(t, &processor.StubAdapter{})

	var wg sync.WaitGroup
	results := make([]*PaymentResult, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := payReq()
			amt := decimal.NewFromInt(40) // partial: a re-charge would fit the balance
			req.Amount = &amt
			req.IdempotencyKey = "retry-key"
			results[i], errs[i] = f.orchestrator.ProcessInvoicePayment(context.Background(), req)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 2; i++ {
		if errs[i] != nil {
			t.Fatalf("request %d: %v", i, errs[i])
		}
	}
	if results[0].PaymentID != results[1].PaymentID {
		t.Errorf("payment ids %d and %d, want the same payment replayed", results[0].PaymentID, results[1].PaymentID)
	}
	if f.adapter.callCount() != 1 {
		t.Errorf("processor called %d times, want 1", f.adapter.callCount())
	}
	if f.payments.count() != 1 {
		t.Errorf("payment count = %d, want 1", f.payments.count())
	}
	inv := f.invoices.get(1)
	if inv.PaidAmount != 4000 {
		t.Errorf("paid = %d, want 4000 applied once", inv.PaidAmount)
	}
}

func TestProcessPaymentConcurrentFullBalance(t *testing.T) {
	f := newOrchestratorFixture(t, &processor.StubAdapter{})

	var wg sync.WaitGroup
	results := make([]*PaymentResult, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.orchestrator.ProcessInvoicePayment(context.Background(), payReq())
		}(i)
	}
	wg.Wait()

	var successes, conflicts int
	for i := 0; i < 2; i++ {
		if errs[i] == nil && results[i].Success {
			successes++
		}
		if domain.IsCode(errs[i], domain.CodeConflict) {
			conflicts++
		}
	}
	if successes != 1 || conflicts != 1 {
		t.Fatalf("successes = %d conflicts = %d, want exactly one of each (errs: %v)", successes, conflicts, errs)
	}
	inv := f.invoices.get(1)
	if inv.PaidAmount != 10000 || inv.BalanceAmount != 0 {
		t.Errorf("ledger = paid %d balance %d, want 10000/0", inv.PaidAmount, inv.BalanceAmount)
	}
	if f.allocations.count() != 1 {
		t.Errorf("allocation count = %d, want 1", f.allocations.count())
	}
}

func TestProcessPaymentPartialKeepsBalanceOpen(t *testing.T) {
	f := newOrchestratorFixture(t, &processor.StubAdapter{})
	req := payReq()
	amt := decimal.NewFromInt(40) // 4000 minor
	req.Amount = &amt

	result, err := f.orchestrator.ProcessInvoicePayment(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success {
		t.Fatal("expected success")
	}
	inv := f.invoices.get(1)
	if inv.Status != domain.InvoiceStatusPartial {
		t.Errorf("status = %q, want partial", inv.Status)
	}
	if inv.PaidAmount != 4000 || inv.BalanceAmount != 6000 {
		t.Errorf("ledger = paid %d balance %d, want 4000/6000", inv.PaidAmount, inv.BalanceAmount)
	}
}

func TestProcessPaymentAlreadyPaidInvoice(t *testing.T) {
	f := newOrchestratorFixture(t, &processor.StubAdapter{})

	if _, err := f.orchestrator.ProcessInvoicePayment(context.Background(), payReq()); err != nil {
		t.Fatal(err)
	}
	_, err := f.orchestrator.ProcessInvoicePayment(context.Background(), payReq())
	if !domain.IsCode(err, domain.CodeConflict) {
		t.Fatalf("err = %v, want CONFLICT", err)
	}
}
