package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/diewo77/cafe-billing/internal/models"
	"github.com/diewo77/cafe-billing/internal/money"
	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the rate a new draft starts with (8%).
var DefaultTaxRate = decimal.RequireFromString("0.08")

// DraftState is the lifecycle stage of a draft.
type DraftState int

const (
	DraftEmpty DraftState = iota
	DraftBuilding
	DraftFinalized
)

func (s DraftState) String() string {
	switch s {
	case DraftEmpty:
		return "empty"
	case DraftBuilding:
		return "building"
	case DraftFinalized:
		return "finalized"
	default:
		return fmt.Sprintf("DraftState(%d)", int(s))
	}
}

// CatalogView is the read-only part of the menu a draft prices against.
type CatalogView interface {
	Find(id string) (models.MenuItem, bool)
}

// DraftOption configures a Draft.
type DraftOption func(*Draft)

// WithTaxRate sets the starting tax rate. Negative rates are ignored.
func WithTaxRate(rate decimal.Decimal) DraftOption {
	return func(d *Draft) {
		if !rate.IsNegative() {
			d.taxRate = rate
		}
	}
}

// WithClock replaces time.Now for the order timestamp.
func WithClock(now func() time.Time) DraftOption {
	return func(d *Draft) {
		if now != nil {
			d.now = now
		}
	}
}

// Draft accumulates priced lines until checkout. A finalized draft cannot be
// reused; start a new one for the next order.
type Draft struct {
	catalog CatalogView
	ids     IDGenerator
	now     func() time.Time
	lines   []models.LineItem
	taxRate decimal.Decimal
	state   DraftState
}

// NewDraft starts an empty draft against catalog.
func NewDraft(catalog CatalogView, ids IDGenerator, opts ...DraftOption) *Draft {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	d := &Draft{
		catalog: catalog,
		ids:     ids,
		now:     time.Now,
		taxRate: DefaultTaxRate,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// AddLine adds quantity units of a menu item. A line with the same item and
// note absorbs the quantity; otherwise a new line is inserted first, copying
// the item's current name and price.
func (d *Draft) AddLine(menuItemID string, quantity int, note string) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	item, ok := d.catalog.Find(menuItemID)
	if !ok {
		return fmt.Errorf("menu item %q: %w", menuItemID, ErrNotFound)
	}
	if quantity <= 0 {
		return invalidField("quantity", "must be at least 1")
	}

	note = strings.TrimSpace(note)
	for i := range d.lines {
		if d.lines[i].MenuItemID == menuItemID && d.lines[i].Note == note {
			if quantity > math.MaxInt-d.lines[i].Quantity {
				return invalidField("quantity", "too large")
			}
			d.lines[i].Quantity += quantity
			return nil
		}
	}

	line := models.LineItem{
		MenuItemID: item.ID,
		Name:       item.Name,
		UnitPrice:  item.Price,
		Quantity:   quantity,
		Note:       note,
	}
	d.lines = append([]models.LineItem{line}, d.lines...)
	d.state = DraftBuilding
	return nil
}

// RemoveLine drops the line at index whatever its quantity.
func (d *Draft) RemoveLine(index int) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	if err := d.checkIndex(index); err != nil {
		return err
	}
	d.lines = append(d.lines[:index:index], d.lines[index+1:]...)
	if len(d.lines) == 0 {
		d.state = DraftEmpty
	}
	return nil
}

// SetLineQuantity replaces the quantity of the line at index. Quantities
// below one are rejected rather than clamped.
func (d *Draft) SetLineQuantity(index, quantity int) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	if err := d.checkIndex(index); err != nil {
		return err
	}
	if quantity < 1 {
		return invalidField("quantity", "must be at least 1")
	}
	d.lines[index].Quantity = quantity
	return nil
}

// SetTaxRate sets the rate applied at checkout, e.g. 0.08 for 8%.
func (d *Draft) SetTaxRate(rate float64) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		return invalidField("tax_rate", "must be a non-negative number")
	}
	d.taxRate = decimal.NewFromFloat(rate)
	return nil
}

// ComputeTotals prices the current lines. It never changes the draft.
func (d *Draft) ComputeTotals() (money.Totals, error) {
	lines := make([]money.Line, len(d.lines))
	for i, l := range d.lines {
		lines[i] = money.Line{UnitPrice: l.UnitPrice, Quantity: l.Quantity}
	}
	return money.ComputeTotals(lines, d.taxRate)
}

// OrderRecorder stores a finalized order.
type OrderRecorder interface {
	Append(ctx context.Context, order models.Order) error
}

// Finalize turns the draft into a paid order and closes the draft.
func (d *Draft) Finalize(customerName string, method models.PaymentMethod) (models.Order, error) {
	order, err := d.buildOrder(customerName, method)
	if err != nil {
		return models.Order{}, err
	}
	d.close()
	return order, nil
}

// Checkout finalizes the draft and hands the order to rec. The draft closes
// only once rec has taken the order; a failed save still counts as taken and
// its ErrPersistence error is returned with the order. Any other rejection
// leaves the draft open with its lines.
func (d *Draft) Checkout(ctx context.Context, rec OrderRecorder, customerName string, method models.PaymentMethod) (models.Order, error) {
	order, err := d.buildOrder(customerName, method)
	if err != nil {
		return models.Order{}, err
	}
	err = rec.Append(ctx, order)
	if err != nil && !errors.Is(err, ErrPersistence) {
		return models.Order{}, err
	}
	d.close()
	return order, err
}

func (d *Draft) buildOrder(customerName string, method models.PaymentMethod) (models.Order, error) {
	if err := d.checkOpen(); err != nil {
		return models.Order{}, err
	}
	if len(d.lines) == 0 {
		return models.Order{}, ErrEmptyOrder
	}
	pm, ok := models.ParsePaymentMethod(string(method))
	if !ok {
		return models.Order{}, invalidField("payment_method", "must be one of Cash, Card, Online")
	}

	totals, err := d.ComputeTotals()
	if err != nil {
		return models.Order{}, err
	}
	subtotal, err := money.RoundCurrency(totals.Subtotal)
	if err != nil {
		return models.Order{}, err
	}

	customerName = strings.TrimSpace(customerName)
	if customerName == "" {
		customerName = models.GuestCustomer
	}

	return models.Order{
		ID:            d.ids.NewID(),
		CreatedAt:     d.now(),
		CustomerName:  customerName,
		PaymentMethod: pm,
		Items:         d.Lines(),
		Subtotal:      subtotal,
		Tax:           totals.Tax,
		Total:         totals.Total,
		Status:        models.OrderStatusPaid,
	}, nil
}

func (d *Draft) close() {
	d.state = DraftFinalized
	d.lines = nil
}

// Lines returns a copy of the current lines, newest first.
func (d *Draft) Lines() []models.LineItem {
	out := make([]models.LineItem, len(d.lines))
	copy(out, d.lines)
	return out
}

// ItemCount returns the number of units across all lines.
func (d *Draft) ItemCount() int {
	n := 0
	for _, l := range d.lines {
		n += l.Quantity
	}
	return n
}

func (d *Draft) TaxRate() decimal.Decimal { return d.taxRate }

func (d *Draft) State() DraftState { return d.state }

func (d *Draft) checkOpen() error {
	if d.state == DraftFinalized {
		return ErrDraftFinalized
	}
	return nil
}

func (d *Draft) checkIndex(index int) error {
	if index < 0 || index >= len(d.lines) {
		return fmt.Errorf("line %d of %d: %w", index, len(d.lines), ErrOutOfRange)
	}
	return nil
}
