// Package cashflow computes the workshop's cash position: the current
// balance reconstructed from the opening balance and settled records,
// and the forward month-by-month projection.
package cashflow

import (
	"context"
	"time"

	"madeirart/internal/core/apperror"
	"madeirart/internal/core/id"
	"madeirart/internal/core/period"
	"madeirart/internal/core/types"
)

// Origin identifies which record family a cash flow entry came from.
type Origin string

const (
	OriginInstallment  Origin = "INSTALLMENT"
	OriginFixedCost    Origin = "FIXED_COST"
	OriginVariableCost Origin = "VARIABLE_COST"
)

// OpeningBalance is the cash-on-hand value used as the starting point
// for balance reconstruction. At most one record exists.
type OpeningBalance struct {
	ID        id.ID       `json:"id" db:"id"`
	Amount    types.Money `json:"amount" db:"amount"`
	Note      string      `json:"note,omitempty" db:"note"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
}

const maxNoteLength = 500

// Validate checks opening balance invariants.
func (b *OpeningBalance) Validate(_ context.Context) error {
	if b.Amount.IsNegative() {
		return apperror.NewValidation("opening balance must not be negative")
	}
	if len(b.Note) > maxNoteLength {
		return apperror.NewValidation("note must not exceed 500 characters")
	}
	return nil
}

// Config tunes balance and projection computation.
type Config struct {
	// ProjectionMonths is how many future months the forecaster covers.
	ProjectionMonths int
	// AccrualLookbackYears anchors the fixed-cost accrual window at
	// January of (current year - lookback).
	AccrualLookbackYears int
}

// DefaultConfig returns the standard two-month projection with a
// one-year accrual lookback.
func DefaultConfig() Config {
	return Config{
		ProjectionMonths:     2,
		AccrualLookbackYears: 1,
	}
}

// Entry is a single itemized inflow or outflow.
type Entry struct {
	ID          id.ID       `json:"id"`
	Description string      `json:"description"`
	Amount      types.Money `json:"amount"`
	Date        time.Time   `json:"date"`
	Origin      Origin      `json:"origin"`
	StatusLabel string      `json:"status_label"`
}

// Balance is the reconstructed cash position as of a given day.
type Balance struct {
	AsOf                 time.Time   `json:"as_of"`
	Opening              types.Money `json:"opening"`
	InstallmentsReceived types.Money `json:"installments_received"`
	VariableCostsIssued  types.Money `json:"variable_costs_issued"`
	FixedCostAccrual     types.Money `json:"fixed_cost_accrual"`
	Balance              types.Money `json:"balance"`
}

// MonthProjection is one projected month: the seeded start balance,
// itemized scheduled entries and the resulting end balance.
type MonthProjection struct {
	Month         period.Month `json:"-"`
	Label         string       `json:"label"`
	StartBalance  types.Money  `json:"start_balance"`
	Inflows       []Entry      `json:"inflows"`
	Outflows      []Entry      `json:"outflows"`
	TotalInflows  types.Money  `json:"total_inflows"`
	TotalOutflows types.Money  `json:"total_outflows"`
	EndBalance    types.Money  `json:"end_balance"`
}
