package processor

import (
	"context"
	"fmt"
	"time"
)

// StubAdapter is a no-op adapter for development and tests.
type StubAdapter struct {
	// Decline, when set, makes every call fail with this message.
	Decline string
}

func (s *StubAdapter) Kind() Kind { return KindStub }

func (s *StubAdapter) ProcessPayment(ctx context.Context, req Request) (*Outcome, error) {
	if s.Decline != "" {
		return &Outcome{
			Success: false,
			Status:  "declined",
			Error:   s.Decline,
		}, nil
	}
	ref := fmt.Sprintf("stub_%d_%d", time.Now().UnixNano(), req.InvoiceID)
	return &Outcome{
		Success:                true,
		Status:                 StatusSucceeded,
		TransactionID:          ref,
		ProcessorTransactionID: ref,
	}, nil
}
