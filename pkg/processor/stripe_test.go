package processor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStripeAdapterSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payment_intents" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test" {
			t.Errorf("authorization = %q", got)
		}
		if r.Header.Get("Idempotency-Key") == "" {
			t.Error("missing idempotency key")
		}
		w.Write([]byte(`{"id":"pi_123","status":"succeeded","client_secret":"cs_abc","latest_charge":"ch_456"}`))
	}))
	defer srv.Close()

	a := NewStripeAdapter(srv.URL, "sk_test")
	out, err := a.ProcessPayment(context.Background(), Request{
		Amount:    10000,
		Currency:  "USD",
		InvoiceID: 1,
		Reference: "ref-1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !out.Succeeded() {
		t.Fatalf("outcome = %+v, want succeeded", out)
	}
	if out.TransactionID != "pi_123" || out.ProcessorTransactionID != "ch_456" {
		t.Errorf("ids = %q/%q", out.TransactionID, out.ProcessorTransactionID)
	}
}

func TestStripeAdapterCardError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":{"message":"Your card was declined.","code":"card_declined"}}`))
	}))
	defer srv.Close()

	a := NewStripeAdapter(srv.URL, "sk_test")
	out, err := a.ProcessPayment(context.Background(), Request{Amount: 10000, Currency: "USD"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Success {
		t.Fatal("declined card reported as success")
	}
	if out.Error != "Your card was declined." {
		t.Errorf("error = %q", out.Error)
	}
}
