package handlers

import (
	"time"

	"github.com/diewo77/cafe-billing/internal/models"
	"github.com/diewo77/cafe-billing/internal/money"
	"github.com/diewo77/cafe-billing/internal/services"
	"github.com/shopspring/decimal"
)

// Amounts leave the API as fixed two-place strings, e.g. "4.50".
func amount(d decimal.Decimal) string { return d.StringFixed(money.CurrencyPlaces) }

type menuItemJSON struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Category string `json:"category"`
	Warning  string `json:"warning,omitempty"`
}

func toMenuItemJSON(it models.MenuItem) menuItemJSON {
	return menuItemJSON{ID: it.ID, Name: it.Name, Price: amount(it.Price), Category: it.CategoryOrDefault()}
}

func toMenuItemsJSON(items []models.MenuItem) []menuItemJSON {
	out := make([]menuItemJSON, len(items))
	for i, it := range items {
		out[i] = toMenuItemJSON(it)
	}
	return out
}

type lineJSON struct {
	Index      int    `json:"index"`
	MenuItemID string `json:"menu_item_id"`
	Name       string `json:"name"`
	UnitPrice  string `json:"unit_price"`
	Quantity   int    `json:"quantity"`
	Note       string `json:"note,omitempty"`
	LineTotal  string `json:"line_total"`
}

func toLinesJSON(lines []models.LineItem) []lineJSON {
	out := make([]lineJSON, len(lines))
	for i := range lines {
		l := &lines[i]
		out[i] = lineJSON{
			Index:      i,
			MenuItemID: l.MenuItemID,
			Name:       l.Name,
			UnitPrice:  amount(l.UnitPrice),
			Quantity:   l.Quantity,
			Note:       l.Note,
			LineTotal:  amount(l.LineTotal()),
		}
	}
	return out
}

type draftJSON struct {
	State     string     `json:"state"`
	Lines     []lineJSON `json:"lines"`
	ItemCount int        `json:"item_count"`
	TaxRate   string     `json:"tax_rate"`
	Subtotal  string     `json:"subtotal"`
	Tax       string     `json:"tax"`
	Total     string     `json:"total"`
}

func toDraftJSON(d *services.Draft) (draftJSON, error) {
	totals, err := d.ComputeTotals()
	if err != nil {
		return draftJSON{}, err
	}
	return draftJSON{
		State:     d.State().String(),
		Lines:     toLinesJSON(d.Lines()),
		ItemCount: d.ItemCount(),
		TaxRate:   d.TaxRate().String(),
		Subtotal:  amount(totals.Subtotal),
		Tax:       amount(totals.Tax),
		Total:     amount(totals.Total),
	}, nil
}

type orderJSON struct {
	ID            string     `json:"id"`
	CreatedAt     time.Time  `json:"created_at"`
	CustomerName  string     `json:"customer_name"`
	PaymentMethod string     `json:"payment_method"`
	Items         []lineJSON `json:"items"`
	ItemCount     int        `json:"item_count"`
	Subtotal      string     `json:"subtotal"`
	Tax           string     `json:"tax"`
	Total         string     `json:"total"`
	Status        string     `json:"status"`
	Warning       string     `json:"warning,omitempty"`
}

func toOrderJSON(o models.Order) orderJSON {
	return orderJSON{
		ID:            o.ID,
		CreatedAt:     o.CreatedAt,
		CustomerName:  o.CustomerName,
		PaymentMethod: string(o.PaymentMethod),
		Items:         toLinesJSON(o.Items),
		ItemCount:     o.ItemCount(),
		Subtotal:      amount(o.Subtotal),
		Tax:           amount(o.Tax),
		Total:         amount(o.Total),
		Status:        string(o.Status),
	}
}

type statsJSON struct {
	Date       string `json:"date"`
	TodaySales string `json:"today_sales"`
	TotalSales string `json:"total_sales"`
	CountToday int    `json:"count_today"`
	CountTotal int    `json:"count_total"`
}
