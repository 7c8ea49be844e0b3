// Package calendar builds display-oriented financial views: the
// day-by-day month calendar, the month outlook and the dashboard
// summary.
package calendar

import (
	"time"

	"madeirart/internal/core/period"
	"madeirart/internal/core/types"
	"madeirart/internal/domain/cashflow"
)

// DayBucket holds every transaction falling on one day of the month.
type DayBucket struct {
	Day         int              `json:"day"`
	HasInflows  bool             `json:"has_inflows"`
	HasOutflows bool             `json:"has_outflows"`
	Inflows     []cashflow.Entry `json:"inflows"`
	Outflows    []cashflow.Entry `json:"outflows"`
}

// MonthCalendar maps each day of one month to its transactions.
// Days with no transactions are absent from the map.
type MonthCalendar struct {
	Month period.Month       `json:"-"`
	Label string             `json:"label"`
	Days  map[int]*DayBucket `json:"days"`
}

// MonthOutlook aggregates one month's expected movement.
type MonthOutlook struct {
	Month           period.Month `json:"-"`
	Label           string       `json:"label"`
	ExpectedRevenue types.Money  `json:"expected_revenue"`
	ExpectedExpense types.Money  `json:"expected_expense"`
	Net             types.Money  `json:"net"`
}

// Delivery is an upcoming delivery shown on the dashboard.
type Delivery struct {
	BudgetID  string    `json:"budget_id"`
	Client    string    `json:"client"`
	Furniture string    `json:"furniture"`
	Date      time.Time `json:"date"`
}

// Summary is the dashboard snapshot: record counts by state plus the
// deliveries due soon.
type Summary struct {
	BudgetsWaiting      int        `json:"budgets_waiting"`
	BudgetsInProduction int        `json:"budgets_in_production"`
	BudgetsFinished     int        `json:"budgets_finished"`
	OverdueInstallments int        `json:"overdue_installments"`
	OverdueCosts        int        `json:"overdue_costs"`
	UpcomingDeliveries  []Delivery `json:"upcoming_deliveries"`
}
