// Package reconciler runs the obligation status sweeps that reclassify
// unpaid past-due records as overdue.
package reconciler

import (
	"context"
	"time"

	"madeirart/internal/domain/fixedcost"
	"madeirart/internal/domain/installment"
	"madeirart/internal/domain/variablecost"
	"madeirart/pkg/logger"
)

// Result reports how many records each sweep changed.
type Result struct {
	Installments  int `json:"installments"`
	FixedCosts    int `json:"fixed_costs"`
	VariableCosts int `json:"variable_costs"`
}

// Total returns the number of records changed across all sweeps.
func (r *Result) Total() int {
	return r.Installments + r.FixedCosts + r.VariableCosts
}

// Service coordinates the three overdue sweeps.
type Service struct {
	installments  *installment.Service
	fixedCosts    *fixedcost.Service
	variableCosts *variablecost.Service
}

// NewService creates a new reconciler.
func NewService(
	installments *installment.Service,
	fixedCosts *fixedcost.Service,
	variableCosts *variablecost.Service,
) *Service {
	return &Service{
		installments:  installments,
		fixedCosts:    fixedCosts,
		variableCosts: variableCosts,
	}
}

// Run executes the installment, fixed cost and variable cost sweeps in
// order. Sweeps are independent: a failing sweep is logged and the
// remaining sweeps still run. Each sweep is idempotent, so a failed run
// can be retried whole. The first error is returned alongside the
// counts from the sweeps that succeeded.
func (s *Service) Run(ctx context.Context, today time.Time) (*Result, error) {
	result := &Result{}
	var firstErr error

	n, err := s.installments.MarkOverdue(ctx, today)
	if err != nil {
		logger.Error(ctx, "installment overdue sweep failed", "error", err)
		firstErr = err
	} else {
		result.Installments = n
	}

	n, err = s.fixedCosts.MarkOverdue(ctx, today)
	if err != nil {
		logger.Error(ctx, "fixed cost overdue sweep failed", "error", err)
		if firstErr == nil {
			firstErr = err
		}
	} else {
		result.FixedCosts = n
	}

	n, err = s.variableCosts.MarkOverdue(ctx, today)
	if err != nil {
		logger.Error(ctx, "variable cost overdue sweep failed", "error", err)
		if firstErr == nil {
			firstErr = err
		}
	} else {
		result.VariableCosts = n
	}

	logger.Info(ctx, "reconciliation sweep finished",
		"installments", result.Installments,
		"fixed_costs", result.FixedCosts,
		"variable_costs", result.VariableCosts)
	return result, firstErr
}
