package service

import (
	"sync"
	"time"

	"fieldpay/internal/models"

	"gorm.io/gorm"
)

// In-memory stores backing the service tests. All are safe for concurrent
// use because the orchestrator tests race goroutines against them.

type memInvoices struct {
	mu             sync.Mutex
	invoices       map[uint]*models.Invoice
	setLedgerErr   error
	setLedgerCnt   int
	applyLedgerCnt int
}

func newMemInvoices(invs ...*models.Invoice) *memInvoices {
	m := &memInvoices{invoices: make(map[uint]*models.Invoice)}
	for _, inv := range invs {
		cp := *inv
		m.invoices[inv.ID] = &cp
	}
	return m
}

func (m *memInvoices) GetByID(id uint) (*models.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *inv
	return &cp, nil
}

func (m *memInvoices) SetLedger(id uint, paid, balance int64, status string, paidAt *time.Time, clearPaidAt bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setLedgerCnt++
	if m.setLedgerErr != nil {
		return m.setLedgerErr
	}
	inv, ok := m.invoices[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	inv.PaidAmount = paid
	inv.BalanceAmount = balance
	inv.Status = status
	if paidAt != nil {
		inv.PaidAt = paidAt
	} else if clearPaidAt {
		inv.PaidAt = nil
	}
	return nil
}

func (m *memInvoices) ApplyLedger(id uint, paid int64, status string, paidAt *time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applyLedgerCnt++
	inv, ok := m.invoices[id]
	if !ok {
		return false, nil
	}
	if inv.TotalAmount < paid {
		return false, nil
	}
	inv.PaidAmount = paid
	inv.BalanceAmount = inv.TotalAmount - paid
	inv.Status = status
	if paidAt != nil {
		inv.PaidAt = paidAt
	}
	return true, nil
}

func (m *memInvoices) get(id uint) models.Invoice {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.invoices[id]
}

type memPayments struct {
	mu       sync.Mutex
	nextID   uint
	payments []*models.Payment
}

func newMemPayments(ps ...*models.Payment) *memPayments {
	m := &memPayments{}
	for _, p := range ps {
		cp := *p
		if cp.ID == 0 {
			m.nextID++
			cp.ID = m.nextID
		} else if cp.ID > m.nextID {
			m.nextID = cp.ID
		}
		m.payments = append(m.payments, &cp)
	}
	return m
}

func (m *memPayments) Create(p *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	p.ID = m.nextID
	cp := *p
	m.payments = append(m.payments, &cp)
	return nil
}

func (m *memPayments) GetByID(id uint) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memPayments) GetByIdempotencyKey(companyID uint, key string) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.CompanyID == companyID && p.IdempotencyKey != nil && *p.IdempotencyKey == key {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memPayments) LatestByCompany(companyID uint) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *models.Payment
	for _, p := range m.payments {
		if p.CompanyID == companyID && (latest == nil || p.ID > latest.ID) {
			latest = p
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *latest
	return &cp, nil
}

func (m *memPayments) NumberExists(companyID uint, number string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.CompanyID == companyID && p.PaymentNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (m *memPayments) PaymentStats(companyID uint) (completed, failed, completedTotal int64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.CompanyID != companyID {
			continue
		}
		switch p.Status {
		case "completed":
			completed++
			completedTotal += p.Amount
		case "failed":
			failed++
		}
	}
	return completed, failed, completedTotal, nil
}

func (m *memPayments) Update(p *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.payments {
		if existing.ID == p.ID {
			cp := *p
			m.payments[i] = &cp
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memPayments) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.payments)
}

type memAllocations struct {
	mu          sync.Mutex
	nextID      uint
	allocations map[uint]*models.InvoicePayment
}

func newMemAllocations() *memAllocations {
	return &memAllocations{allocations: make(map[uint]*models.InvoicePayment)}
}

func (m *memAllocations) Create(a *models.InvoicePayment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	a.ID = m.nextID
	cp := *a
	m.allocations[a.ID] = &cp
	return nil
}

func (m *memAllocations) GetByID(id uint) (*models.InvoicePayment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.allocations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAllocations) Delete(id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.allocations[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.allocations, id)
	return nil
}

func (m *memAllocations) SumByInvoice(invoiceID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for _, a := range m.allocations {
		if a.InvoiceID == invoiceID {
			total += a.AmountApplied
		}
	}
	return total, nil
}

func (m *memAllocations) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.allocations)
}

type memBankAccounts struct {
	active int64
}

func (m *memBankAccounts) ActiveCount(companyID uint) (int64, error) {
	return m.active, nil
}

type memConfigs struct {
	rules []models.ProcessorConfig
}

func (m *memConfigs) ActiveByCompany(companyID uint) ([]models.ProcessorConfig, error) {
	var out []models.ProcessorConfig
	for _, r := range m.rules {
		if r.CompanyID == companyID && r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}

type memTxLog struct {
	mu  sync.Mutex
	txs []models.ProcessorTransaction
}

func (m *memTxLog) Create(tx *models.ProcessorTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txs = append(m.txs, *tx)
	return nil
}

func (m *memTxLog) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.txs)
}

type nopInvalidator struct{}

func (nopInvalidator) InvoiceChanged(companyID, invoiceID uint) {}
func (nopInvalidator) PaymentChanged(companyID, paymentID uint) {}
