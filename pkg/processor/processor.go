package processor

import "context"

// Kind tags an adapter with its provider identity at construction time.
// Routing and transaction records use this tag, never runtime type names.
type Kind string

const (
	KindStub   Kind = "stub"
	KindStripe Kind = "stripe"
	KindAdyen  Kind = "adyen"
)

// StatusSucceeded is the only provider status the core treats as terminal
// success; everything else leaves the payment in "processing".
const StatusSucceeded = "succeeded"

type Request struct {
	Amount          int64 // minor units
	Currency        string
	InvoiceID       uint
	CustomerID      uint
	PaymentMethodID string
	Channel         string
	Reference       string // caller-generated order reference
	Description     string
	Metadata        map[string]interface{}
}

type Outcome struct {
	Success                bool
	Status                 string // provider-defined
	TransactionID          string
	ProcessorTransactionID string
	ClientSecret           string
	ProcessorFee           int64
	Metadata               map[string]interface{}
	RawResponse            string
	Error                  string
}

// Succeeded reports whether the provider reached its terminal success state.
func (o *Outcome) Succeeded() bool {
	return o.Success && o.Status == StatusSucceeded
}

type Adapter interface {
	Kind() Kind
	ProcessPayment(ctx context.Context, req Request) (*Outcome, error)
}
