package service

import (
	"fieldpay/internal/domain"
	"fieldpay/pkg/processor"
)

// ProcessorRouter selects which adapter handles a transaction. "None
// selected" is a user-facing configuration error, never a crash.
type ProcessorRouter interface {
	SelectProcessor(companyID uint, amount int64, channel string) (processor.Adapter, error)
}

// RuleRouter walks the tenant's company_payment_processors rows, highest
// priority first, and picks the first rule whose channel and amount cap
// match a registered adapter.
type RuleRouter struct {
	configs  ProcessorConfigStore
	adapters map[processor.Kind]processor.Adapter
}

func NewRuleRouter(configs ProcessorConfigStore) *RuleRouter {
	return &RuleRouter{
		configs:  configs,
		adapters: make(map[processor.Kind]processor.Adapter),
	}
}

func (r *RuleRouter) Register(a processor.Adapter) {
	r.adapters[a.Kind()] = a
}

func (r *RuleRouter) SelectProcessor(companyID uint, amount int64, channel string) (processor.Adapter, error) {
	rules, err := r.configs.ActiveByCompany(companyID)
	if err != nil {
		return nil, domain.Wrap(domain.CodePersistence, "loading processor rules", err)
	}
	for _, rule := range rules {
		if rule.Channel != "" && rule.Channel != channel {
			continue
		}
		if rule.MaxAmount > 0 && amount > rule.MaxAmount {
			continue
		}
		if a, ok := r.adapters[processor.Kind(rule.ProcessorType)]; ok {
			return a, nil
		}
	}
	return nil, domain.E(domain.CodeNoProcessorConfigured, "no payment processor configured for this amount and channel")
}
