package postgres

import (
	"context"
	"fmt"

	"madeirart/pkg/logger"
)

// schema holds the DDL applied at startup. Statements are idempotent so
// every boot converges the database to the expected shape.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS budgets (
		id                UUID PRIMARY KEY,
		client            TEXT NOT NULL,
		furniture         TEXT NOT NULL,
		date              DATE NOT NULL,
		delivery_forecast DATE,
		labor_factor      NUMERIC(14,4) NOT NULL DEFAULT 0,
		extra_costs       NUMERIC(14,2) NOT NULL DEFAULT 0,
		markup            NUMERIC(14,2) NOT NULL DEFAULT 0,
		status            TEXT NOT NULL,
		created_at        TIMESTAMPTZ NOT NULL,
		updated_at        TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_budgets_status ON budgets (status)`,

	`CREATE TABLE IF NOT EXISTS budget_items (
		id          UUID PRIMARY KEY,
		budget_id   UUID NOT NULL REFERENCES budgets (id) ON DELETE CASCADE,
		position    INT NOT NULL,
		quantity    NUMERIC(14,3) NOT NULL,
		unit_price  NUMERIC(14,2) NOT NULL,
		description TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_budget_items_budget ON budget_items (budget_id, position)`,

	`CREATE TABLE IF NOT EXISTS budget_snapshots (
		id          UUID PRIMARY KEY,
		budget_id   UUID NOT NULL,
		snapshot    BYTEA NOT NULL,
		compression TEXT NOT NULL,
		reason      TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_budget_snapshots_budget ON budget_snapshots (budget_id, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS installments (
		id         UUID PRIMARY KEY,
		budget_id  UUID NOT NULL REFERENCES budgets (id) ON DELETE CASCADE,
		number     INT NOT NULL,
		amount     NUMERIC(14,2) NOT NULL,
		due_date   DATE NOT NULL,
		paid_date  DATE,
		status     TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_installments_budget ON installments (budget_id, number)`,
	`CREATE INDEX IF NOT EXISTS idx_installments_status_due ON installments (status, due_date)`,

	`CREATE TABLE IF NOT EXISTS fixed_costs (
		id          UUID PRIMARY KEY,
		name        TEXT NOT NULL,
		amount      NUMERIC(14,2) NOT NULL,
		due_day     INT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		active      BOOLEAN NOT NULL DEFAULT TRUE,
		status      TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_fixed_costs_active ON fixed_costs (active, due_day)`,

	`CREATE TABLE IF NOT EXISTS variable_costs (
		id            UUID PRIMARY KEY,
		name          TEXT NOT NULL,
		amount        NUMERIC(14,2) NOT NULL,
		issue_date    DATE NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		status        TEXT NOT NULL,
		split         BOOLEAN NOT NULL DEFAULT FALSE,
		parcel_number INT NOT NULL DEFAULT 0,
		parcel_total  INT NOT NULL DEFAULT 0,
		origin_id     UUID,
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_variable_costs_issue ON variable_costs (issue_date)`,
	`CREATE INDEX IF NOT EXISTS idx_variable_costs_status ON variable_costs (status, issue_date)`,

	// singleton column keeps the table to exactly one row
	`CREATE TABLE IF NOT EXISTS opening_balance (
		id         UUID PRIMARY KEY,
		singleton  BOOLEAN NOT NULL DEFAULT TRUE UNIQUE,
		amount     NUMERIC(14,2) NOT NULL,
		note       VARCHAR(500) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
}

// EnsureSchema applies the DDL. Safe to run on every startup.
func EnsureSchema(ctx context.Context, pool *Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	logger.Info(ctx, "database schema ensured", "statements", len(schema))
	return nil
}
