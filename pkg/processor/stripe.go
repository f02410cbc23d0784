package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// StripeAdapter charges cards through the Stripe PaymentIntents API.
type StripeAdapter struct {
	BaseURL   string
	SecretKey string
	client    *http.Client
}

func NewStripeAdapter(baseURL, secretKey string) *StripeAdapter {
	if baseURL == "" {
		baseURL = "https://api.stripe.com"
	}
	return &StripeAdapter{
		BaseURL:   baseURL,
		SecretKey: secretKey,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (a *StripeAdapter) Kind() Kind { return KindStripe }

type stripeIntentResp struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	ClientSecret string `json:"client_secret"`
	LatestCharge string `json:"latest_charge"`
	Error        *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (a *StripeAdapter) ProcessPayment(ctx context.Context, req Request) (*Outcome, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(req.Amount, 10))
	form.Set("currency", strings.ToLower(req.Currency))
	form.Set("description", req.Description)
	form.Set("metadata[invoice_id]", strconv.FormatUint(uint64(req.InvoiceID), 10))
	form.Set("metadata[reference]", req.Reference)
	if req.PaymentMethodID != "" {
		form.Set("payment_method", req.PaymentMethodID)
		form.Set("confirm", "true")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+a.SecretKey)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Idempotency-Key", req.Reference)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("stripe payment_intents: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	var out stripeIntentResp
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("stripe response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || out.Error != nil {
		msg := "payment declined"
		if out.Error != nil {
			msg = out.Error.Message
		}
		return &Outcome{
			Success:     false,
			Status:      "declined",
			RawResponse: string(body),
			Error:       msg,
		}, nil
	}

	return &Outcome{
		Success:                out.Status == StatusSucceeded || out.Status == "processing" || out.Status == "requires_action",
		Status:                 out.Status,
		TransactionID:          out.ID,
		ProcessorTransactionID: out.LatestCharge,
		ClientSecret:           out.ClientSecret,
		RawResponse:            string(body),
	}, nil
}
