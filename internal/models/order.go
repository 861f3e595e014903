package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how a customer settled an order.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "Cash"
	PaymentCard   PaymentMethod = "Card"
	PaymentOnline PaymentMethod = "Online"
)

// PaymentMethods lists the accepted methods in display order.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentCard, PaymentOnline}

// ParsePaymentMethod accepts a method name regardless of case.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	for _, m := range PaymentMethods {
		if strings.EqualFold(strings.TrimSpace(s), string(m)) {
			return m, true
		}
	}
	return "", false
}

// OrderStatus represents the status of an order.
type OrderStatus string

// OrderStatusPaid is the only status an order can currently have.
const OrderStatusPaid OrderStatus = "Paid"

// GuestCustomer replaces a blank customer name at checkout.
const GuestCustomer = "Guest"

// LineItem is one priced entry of a draft or order. Name and UnitPrice are
// copied from the menu when the line is created and never follow later
// menu edits.
type LineItem struct {
	MenuItemID string          `json:"menu_item_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	Note       string          `json:"note,omitempty"`
}

// LineTotal returns the exact unit price × quantity.
func (l *LineItem) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// HasNote reports whether the line carries a note.
func (l *LineItem) HasNote() bool {
	return l.Note != ""
}

// Order is a finalized, paid order. Orders are never edited once created.
type Order struct {
	ID            string          `json:"id"`
	CreatedAt     time.Time       `json:"created_at"`
	CustomerName  string          `json:"customer_name"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Items         []LineItem      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	Status        OrderStatus     `json:"status"`
}

// IsPaid returns true if the order has been paid.
func (o *Order) IsPaid() bool {
	return o.Status == OrderStatusPaid
}

// ItemCount returns the number of units across all lines.
func (o *Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// Matches reports whether query is a case-insensitive substring of the
// customer name or of any line name. An empty query matches.
func (o *Order) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(o.CustomerName), q) {
		return true
	}
	for _, it := range o.Items {
		if strings.Contains(strings.ToLower(it.Name), q) {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with o.
func (o *Order) Clone() Order {
	c := *o
	c.Items = append([]LineItem(nil), o.Items...)
	return c
}
