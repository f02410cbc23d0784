package processor

import (
	"context"
	"strings"
	"testing"
)

func TestStubAdapterSucceeds(t *testing.T) {
	a := &StubAdapter{}
	out, err := a.ProcessPayment(context.Background(), Request{Amount: 1000, InvoiceID: 7})
	if err != nil {
		t.Fatal(err)
	}
	if !out.Succeeded() {
		t.Fatalf("outcome = %+v, want succeeded", out)
	}
	if !strings.HasPrefix(out.TransactionID, "stub_") {
		t.Errorf("transaction id = %q, want stub_ prefix", out.TransactionID)
	}
}

func TestStubAdapterDecline(t *testing.T) {
	a := &StubAdapter{Decline: "card expired"}
	out, err := a.ProcessPayment(context.Background(), Request{Amount: 1000})
	if err != nil {
		t.Fatal(err)
	}
	if out.Success || out.Succeeded() {
		t.Fatalf("outcome = %+v, want declined", out)
	}
	if out.Error != "card expired" {
		t.Errorf("error = %q, want the configured decline message", out.Error)
	}
}

func TestOutcomeSucceededRequiresFinalStatus(t *testing.T) {
	// A processing intent moved money's promise, not money; only a final
	// succeeded status applies to the ledger.
	out := &Outcome{Success: true, Status: "processing"}
	if out.Succeeded() {
		t.Error("processing outcome reported as succeeded")
	}
}
