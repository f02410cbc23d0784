package service

import (
	"encoding/json"
	"time"

	"fieldpay/internal/logger"
	"fieldpay/internal/models"
	"fieldpay/pkg/processor"

	"github.com/rs/zerolog"
)

// TransactionRecorder appends one row per processor call attempt, success
// or failure. Writes are best-effort: a failed audit write is logged loudly
// but never blocks the logical payment.
type TransactionRecorder struct {
	store ProcessorTxStore
	log   zerolog.Logger
	now   func() time.Time
}

func NewTransactionRecorder(store ProcessorTxStore) *TransactionRecorder {
	return &TransactionRecorder{
		store: store,
		log:   logger.WithComponent("recorder"),
		now:   time.Now,
	}
}

func (r *TransactionRecorder) Record(companyID uint, kind processor.Kind, channel, currency string, amount int64, out *processor.Outcome) {
	meta := ""
	if out.Metadata != nil {
		if b, err := json.Marshal(out.Metadata); err == nil {
			meta = string(b)
		}
	}
	tx := &models.ProcessorTransaction{
		CompanyID:              companyID,
		ProcessorType:          string(kind),
		ProcessorTransactionID: out.ProcessorTransactionID,
		Channel:                channel,
		Amount:                 amount,
		Currency:               currency,
		Status:                 out.Status,
		ProcessorMetadata:      meta,
		ProcessorResponse:      out.RawResponse,
		ProcessedAt:            r.now(),
	}
	if err := r.store.Create(tx); err != nil {
		r.log.Error().
			Err(err).
			Uint("company_id", companyID).
			Str("processor", string(kind)).
			Str("processor_transaction_id", out.ProcessorTransactionID).
			Msg("processor transaction log write failed; charge is not reflected in the audit log")
	}
}
