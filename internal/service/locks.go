package service

import "sync"

// InvoiceLocks serializes ledger mutation per invoice. The orchestrator
// holds the lock from amount validation through reconciliation so two
// concurrent payments cannot both validate against the same stale balance.
type InvoiceLocks struct {
	mu      sync.Mutex
	entries map[uint]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func NewInvoiceLocks() *InvoiceLocks {
	return &InvoiceLocks{entries: make(map[uint]*lockEntry)}
}

// Lock blocks until the per-invoice lock is held and returns its release func.
func (l *InvoiceLocks) Lock(invoiceID uint) func() {
	l.mu.Lock()
	e := l.entries[invoiceID]
	if e == nil {
		e = &lockEntry{}
		l.entries[invoiceID] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.entries, invoiceID)
		}
		l.mu.Unlock()
	}
}
