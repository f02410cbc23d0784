package service

import (
	"context"
	"sync"

	"fieldpay/config"
	"fieldpay/internal/logger"

	"github.com/rs/zerolog"
)

type TrustVerdict struct {
	Allowed          bool    `json:"allowed"`
	RequiresApproval bool    `json:"requires_approval"`
	Reason           string  `json:"reason,omitempty"`
	Score            float64 `json:"score"`
}

// TrustEvaluator is the risk oracle consulted before every charge attempt
// and informed of every terminal outcome. It must be called fresh per
// request; risk state changes with each payment.
type TrustEvaluator interface {
	Evaluate(ctx context.Context, companyID uint, amount int64) (*TrustVerdict, error)
	ReportOutcome(ctx context.Context, companyID uint, success bool, amount int64)
}

// HistoryTrustEvaluator scores a tenant from its historical payment
// outcomes. Declined charge attempts never produce a payment row, so those
// are tallied in-process and merged with the persisted stats.
type HistoryTrustEvaluator struct {
	cfg      config.TrustConfig
	payments PaymentStore
	log      zerolog.Logger

	mu       sync.Mutex
	declined map[uint]int64
}

func NewHistoryTrustEvaluator(cfg config.TrustConfig, payments PaymentStore) *HistoryTrustEvaluator {
	return &HistoryTrustEvaluator{
		cfg:      cfg,
		payments: payments,
		log:      logger.WithComponent("trust"),
		declined: make(map[uint]int64),
	}
}

func (e *HistoryTrustEvaluator) Evaluate(ctx context.Context, companyID uint, amount int64) (*TrustVerdict, error) {
	completed, failed, completedTotal, err := e.payments.PaymentStats(companyID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	failed += e.declined[companyID]
	e.mu.Unlock()

	total := completed + failed
	if total == 0 {
		v := &TrustVerdict{Allowed: true, Score: 50}
		if amount > e.cfg.NewTenantAmount {
			v.RequiresApproval = true
			v.Reason = "no payment history for an amount this large"
		}
		return v, nil
	}

	score := float64(completed) / float64(total) * 100
	if total >= e.cfg.MinSample && score < e.cfg.DenyBelowScore {
		return &TrustVerdict{
			Allowed: false,
			Reason:  "payment failure rate too high for this account",
			Score:   score,
		}, nil
	}

	v := &TrustVerdict{Allowed: true, Score: score}
	if amount > e.cfg.ApprovalAmount {
		v.RequiresApproval = true
		v.Reason = "amount above the approval threshold"
	} else if completed > 0 {
		avg := completedTotal / completed
		if avg > 0 && amount > avg*10 {
			v.RequiresApproval = true
			v.Reason = "amount far above this account's historical average"
		}
	}
	return v, nil
}

func (e *HistoryTrustEvaluator) ReportOutcome(ctx context.Context, companyID uint, success bool, amount int64) {
	if !success {
		e.mu.Lock()
		e.declined[companyID]++
		e.mu.Unlock()
	}
	e.log.Info().
		Uint("company_id", companyID).
		Bool("success", success).
		Int64("amount", amount).
		Msg("payment outcome reported")
}
