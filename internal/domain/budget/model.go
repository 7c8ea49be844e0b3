// Package budget provides price quotations for furniture pieces and their
// production lifecycle. A budget's total is always derived from its line
// items at read time; no cached total is ever trusted.
package budget

import (
	"context"
	"time"

	"madeirart/internal/core/apperror"
	"madeirart/internal/core/id"
	"madeirart/internal/core/types"
)

// Status is the lifecycle state of a budget.
type Status string

const (
	StatusWaiting      Status = "WAITING"
	StatusInProduction Status = "IN_PRODUCTION"
	StatusFinished     Status = "FINISHED"
	StatusCancelled    Status = "CANCELLED"
)

// statusLabels maps statuses to display text.
var statusLabels = map[Status]string{
	StatusWaiting:      "Waiting",
	StatusInProduction: "In production",
	StatusFinished:     "Finished",
	StatusCancelled:    "Cancelled",
}

// Label returns the display text for a status.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// LineItem is one material line of a budget. Owned by exactly one budget;
// its subtotal is always derived, never stored.
type LineItem struct {
	ID          id.ID       `db:"id" json:"id"`
	Quantity    types.Money `db:"quantity" json:"quantity"`
	UnitPrice   types.Money `db:"unit_price" json:"unitPrice"`
	Description string      `db:"description" json:"description"`
}

// Subtotal returns quantity x unit price.
func (li LineItem) Subtotal() types.Money {
	return li.Quantity.Mul(li.UnitPrice)
}

// Budget represents a price quotation for a piece of furniture.
// It becomes a production order once an installment plan is accepted.
type Budget struct {
	ID               id.ID       `db:"id" json:"id"`
	Client           string      `db:"client" json:"client"`
	Furniture        string      `db:"furniture" json:"furniture"`
	Date             time.Time   `db:"date" json:"date"`
	DeliveryForecast *time.Time  `db:"delivery_forecast" json:"deliveryForecast,omitempty"`
	LaborFactor      types.Money `db:"labor_factor" json:"laborFactor"`
	ExtraCosts       types.Money `db:"extra_costs" json:"extraCosts"`
	Markup           types.Money `db:"markup" json:"markup"`
	Status           Status      `db:"status" json:"status"`
	Items            []LineItem  `db:"-" json:"items"`
	CreatedAt        time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time   `db:"updated_at" json:"updatedAt"`
}

// New creates a waiting budget with generated id and timestamps.
func New(client, furniture string, date time.Time) *Budget {
	now := time.Now().UTC()
	return &Budget{
		ID:         id.New(),
		Client:     client,
		Furniture:  furniture,
		Date:       date,
		LaborFactor: types.Zero(),
		ExtraCosts: types.Zero(),
		Markup:     types.Zero(),
		Status:     StatusWaiting,
		Items:      make([]LineItem, 0),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// AddItem appends a line item with a generated id.
func (b *Budget) AddItem(quantity, unitPrice types.Money, description string) {
	b.Items = append(b.Items, LineItem{
		ID:          id.New(),
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Description: description,
	})
}

// MaterialsSubtotal sums quantity x unit price over all line items.
func (b *Budget) MaterialsSubtotal() types.Money {
	subtotal := types.Zero()
	for _, item := range b.Items {
		subtotal = subtotal.Add(item.Subtotal())
	}
	return subtotal
}

// LaborValue returns the materials subtotal times the labor factor.
func (b *Budget) LaborValue() types.Money {
	return b.MaterialsSubtotal().Mul(b.LaborFactor)
}

// Total computes the budget's full value:
// materials subtotal + labor + extra costs + markup.
// Re-derived on every call; every other component validates against this.
func (b *Budget) Total() types.Money {
	return b.MaterialsSubtotal().
		Add(b.LaborValue()).
		Add(b.ExtraCosts).
		Add(b.Markup)
}

// Validate checks budget invariants.
func (b *Budget) Validate(ctx context.Context) error {
	if b.Client == "" {
		return apperror.NewValidation("client is required").
			WithDetail("field", "client")
	}
	if b.Furniture == "" {
		return apperror.NewValidation("furniture description is required").
			WithDetail("field", "furniture")
	}
	if b.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	if b.LaborFactor.IsNegative() {
		return apperror.NewValidation("labor factor cannot be negative").
			WithDetail("field", "laborFactor")
	}
	if b.ExtraCosts.IsNegative() {
		return apperror.NewValidation("extra costs cannot be negative").
			WithDetail("field", "extraCosts")
	}
	if b.Markup.IsNegative() {
		return apperror.NewValidation("markup cannot be negative").
			WithDetail("field", "markup")
	}

	for i, item := range b.Items {
		if !item.Quantity.IsPositive() {
			return apperror.NewValidation("item quantity must be positive").
				WithDetail("field", "items").
				WithDetail("itemNo", i+1)
		}
		if !item.UnitPrice.IsPositive() {
			return apperror.NewValidation("item unit price must be positive").
				WithDetail("field", "items").
				WithDetail("itemNo", i+1)
		}
		if item.Description == "" {
			return apperror.NewValidation("item description is required").
				WithDetail("field", "items").
				WithDetail("itemNo", i+1)
		}
	}

	return nil
}

// View is the budget's full computed state: stored fields plus every
// derived value. Snapshots and API responses are built from it.
type View struct {
	ID                id.ID       `json:"id"`
	Client            string      `json:"client"`
	Furniture         string      `json:"furniture"`
	Date              time.Time   `json:"date"`
	DeliveryForecast  *time.Time  `json:"deliveryForecast,omitempty"`
	LaborFactor       types.Money `json:"laborFactor"`
	ExtraCosts        types.Money `json:"extraCosts"`
	Markup            types.Money `json:"markup"`
	Status            Status      `json:"status"`
	StatusLabel       string      `json:"statusLabel"`
	Items             []ItemView  `json:"items"`
	MaterialsSubtotal types.Money `json:"materialsSubtotal"`
	LaborValue        types.Money `json:"laborValue"`
	Total             types.Money `json:"total"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

// ItemView is a line item with its derived subtotal.
type ItemView struct {
	ID          id.ID       `json:"id"`
	Quantity    types.Money `json:"quantity"`
	UnitPrice   types.Money `json:"unitPrice"`
	Description string      `json:"description"`
	Subtotal    types.Money `json:"subtotal"`
}

// ComputedView derives the full view from the budget's current state.
func (b *Budget) ComputedView() View {
	items := make([]ItemView, 0, len(b.Items))
	for _, item := range b.Items {
		items = append(items, ItemView{
			ID:          item.ID,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Description: item.Description,
			Subtotal:    item.Subtotal(),
		})
	}

	return View{
		ID:                b.ID,
		Client:            b.Client,
		Furniture:         b.Furniture,
		Date:              b.Date,
		DeliveryForecast:  b.DeliveryForecast,
		LaborFactor:       b.LaborFactor,
		ExtraCosts:        b.ExtraCosts,
		Markup:            b.Markup,
		Status:            b.Status,
		StatusLabel:       b.Status.Label(),
		Items:             items,
		MaterialsSubtotal: b.MaterialsSubtotal(),
		LaborValue:        b.LaborValue(),
		Total:             b.Total(),
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}
