package services

import (
	"context"
	"fmt"
	"time"

	"github.com/diewo77/cafe-billing/internal/models"
	"github.com/shopspring/decimal"
)

// LedgerSaver persists a full snapshot of the order history.
type LedgerSaver interface {
	SaveLedger(ctx context.Context, orders []models.Order) error
}

// OrderFilter narrows Ledger.List. Zero fields match everything.
type OrderFilter struct {
	// Query is matched against the customer name and line item names.
	Query string
	// Date keeps orders created on the same calendar day, in the ledger's
	// location. The time of day is ignored.
	Date time.Time
}

// SalesStats are the figures shown on the dashboard.
type SalesStats struct {
	TodaySales decimal.Decimal `json:"today_sales"`
	TotalSales decimal.Decimal `json:"total_sales"`
	CountToday int             `json:"count_today"`
	CountTotal int             `json:"count_total"`
}

// LedgerOption configures a Ledger.
type LedgerOption func(*Ledger)

// WithLocation sets the time zone that defines a calendar day.
func WithLocation(loc *time.Location) LedgerOption {
	return func(l *Ledger) {
		if loc != nil {
			l.loc = loc
		}
	}
}

// Ledger is the append-only history of paid orders, most recent first.
type Ledger struct {
	orders []models.Order
	saver  LedgerSaver
	loc    *time.Location
}

// NewLedger wraps orders loaded from storage (most recent first).
// saver may be nil to disable persistence.
func NewLedger(orders []models.Order, saver LedgerSaver, opts ...LedgerOption) *Ledger {
	l := &Ledger{
		orders: make([]models.Order, 0, len(orders)),
		saver:  saver,
		loc:    time.Local,
	}
	for i := range orders {
		l.orders = append(l.orders, orders[i].Clone())
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append records a finalized order at the head of the history. If only the
// save fails, the order stays recorded and the error matches ErrPersistence.
func (l *Ledger) Append(ctx context.Context, order models.Order) error {
	if order.ID == "" {
		return invalidField("id", "required")
	}
	if len(order.Items) == 0 {
		return ErrEmptyOrder
	}
	if _, exists := l.Find(order.ID); exists {
		return invalidField("id", fmt.Sprintf("order %q already recorded", order.ID))
	}

	l.orders = append([]models.Order{order.Clone()}, l.orders...)
	if l.saver == nil {
		return nil
	}
	if err := l.saver.SaveLedger(ctx, l.List(OrderFilter{})); err != nil {
		return fmt.Errorf("save orders: %w", wrapPersistence(err))
	}
	return nil
}

// List returns the orders matching filter, most recent first.
func (l *Ledger) List(filter OrderFilter) []models.Order {
	out := make([]models.Order, 0, len(l.orders))
	for i := range l.orders {
		o := &l.orders[i]
		if !o.Matches(filter.Query) {
			continue
		}
		if !filter.Date.IsZero() && !l.sameDay(o.CreatedAt, filter.Date) {
			continue
		}
		out = append(out, o.Clone())
	}
	return out
}

// Find returns the order with the given id.
func (l *Ledger) Find(id string) (models.Order, bool) {
	for i := range l.orders {
		if l.orders[i].ID == id {
			return l.orders[i].Clone(), true
		}
	}
	return models.Order{}, false
}

// Stats sums every recorded order and the ones created on asOf's day.
func (l *Ledger) Stats(asOf time.Time) SalesStats {
	s := SalesStats{TodaySales: decimal.Zero, TotalSales: decimal.Zero}
	for i := range l.orders {
		o := &l.orders[i]
		s.TotalSales = s.TotalSales.Add(o.Total)
		s.CountTotal++
		if l.sameDay(o.CreatedAt, asOf) {
			s.TodaySales = s.TodaySales.Add(o.Total)
			s.CountToday++
		}
	}
	return s
}

// Len returns the number of recorded orders.
func (l *Ledger) Len() int { return len(l.orders) }

func (l *Ledger) sameDay(a, b time.Time) bool {
	ay, am, ad := a.In(l.loc).Date()
	by, bm, bd := b.In(l.loc).Date()
	return ay == by && am == bm && ad == bd
}
