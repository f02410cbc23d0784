package service

import (
	"sync"
	"testing"
)

func TestInvoiceLocksSerializeSameInvoice(t *testing.T) {
	locks := NewInvoiceLocks()
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock(1)
			counter++
			unlock()
		}()
	}
	wg.Wait()
	if counter != 50 {
		t.Errorf("counter = %d, want 50", counter)
	}
}

func TestInvoiceLocksIndependentInvoices(t *testing.T) {
	locks := NewInvoiceLocks()
	unlock1 := locks.Lock(1)
	done := make(chan struct{})
	go func() {
		unlock2 := locks.Lock(2)
		unlock2()
		close(done)
	}()
	<-done // holding invoice 1 must not block invoice 2
	unlock1()
}

func TestInvoiceLocksEntryReclaimed(t *testing.T) {
	locks := NewInvoiceLocks()
	unlock := locks.Lock(1)
	unlock()
	locks.mu.Lock()
	defer locks.mu.Unlock()
	if len(locks.entries) != 0 {
		t.Errorf("entries = %d after release, want 0", len(locks.entries))
	}
}
