package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/diewo77/cafe-billing/internal/models"
	"github.com/diewo77/cafe-billing/internal/money"
	"github.com/shopspring/decimal"
)

// Record keys.
const (
	MenuKey   = "cafe_menu"
	OrdersKey = "cafe_orders"
)

// Gateway loads and saves the menu and the order history.
// Loads never fail: missing or damaged data yields an empty collection.
type Gateway struct {
	kv  KV
	log *slog.Logger
}

func NewGateway(kv KV, log *slog.Logger) *Gateway {
	if log == nil {
		log = slog.Default()
	}
	return &Gateway{kv: kv, log: log}
}

// Persisted shapes. Amounts are JSON numbers.

type menuItemRecord struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

type lineItemRecord struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Qty   int     `json:"qty"`
	Note  string  `json:"note,omitempty"`
}

type orderRecord struct {
	ID            string           `json:"id"`
	CreatedAt     string           `json:"createdAt"`
	CustomerName  string           `json:"customerName"`
	PaymentMethod string           `json:"paymentMethod"`
	Items         []lineItemRecord `json:"items"`
	Subtotal      float64          `json:"subtotal"`
	Tax           float64          `json:"tax"`
	Total         float64          `json:"total"`
	Status        string           `json:"status"`
}

// LoadCatalog returns the stored menu, or an empty one.
func (g *Gateway) LoadCatalog(ctx context.Context) []models.MenuItem {
	var recs []menuItemRecord
	if !g.load(ctx, MenuKey, &recs) {
		return []models.MenuItem{}
	}
	items := make([]models.MenuItem, 0, len(recs))
	for i, r := range recs {
		item, err := r.toModel()
		if err != nil {
			g.log.Warn("skipping stored menu item", "key", MenuKey, "index", i, "error", err)
			continue
		}
		items = append(items, item)
	}
	return items
}

// SaveCatalog replaces the stored menu with items.
func (g *Gateway) SaveCatalog(ctx context.Context, items []models.MenuItem) error {
	recs := make([]menuItemRecord, len(items))
	for i, it := range items {
		recs[i] = menuItemRecord{
			ID:       it.ID,
			Name:     it.Name,
			Price:    it.Price.InexactFloat64(),
			Category: it.Category,
		}
	}
	return g.save(ctx, MenuKey, recs)
}

// LoadLedger returns the stored orders, most recent first, or none.
func (g *Gateway) LoadLedger(ctx context.Context) []models.Order {
	var recs []orderRecord
	if !g.load(ctx, OrdersKey, &recs) {
		return []models.Order{}
	}
	orders := make([]models.Order, 0, len(recs))
	for i, r := range recs {
		o, err := r.toModel()
		if err != nil {
			g.log.Warn("skipping stored order", "key", OrdersKey, "index", i, "error", err)
			continue
		}
		orders = append(orders, o)
	}
	return orders
}

// SaveLedger replaces the stored order history with orders.
func (g *Gateway) SaveLedger(ctx context.Context, orders []models.Order) error {
	recs := make([]orderRecord, len(orders))
	for i, o := range orders {
		items := make([]lineItemRecord, len(o.Items))
		for j, it := range o.Items {
			items[j] = lineItemRecord{
				ID:    it.MenuItemID,
				Name:  it.Name,
				Price: it.UnitPrice.InexactFloat64(),
				Qty:   it.Quantity,
				Note:  it.Note,
			}
		}
		recs[i] = orderRecord{
			ID:            o.ID,
			CreatedAt:     o.CreatedAt.UTC().Format(time.RFC3339Nano),
			CustomerName:  o.CustomerName,
			PaymentMethod: string(o.PaymentMethod),
			Items:         items,
			Subtotal:      o.Subtotal.InexactFloat64(),
			Tax:           o.Tax.InexactFloat64(),
			Total:         o.Total.InexactFloat64(),
			Status:        string(o.Status),
		}
	}
	return g.save(ctx, OrdersKey, recs)
}

// load decodes the record under key into dst. It reports false, after
// logging why, when there is nothing usable.
func (g *Gateway) load(ctx context.Context, key string, dst any) bool {
	raw, ok, err := g.kv.Get(ctx, key)
	if err != nil {
		g.log.Warn("stored record unreadable, starting empty", "key", key, "error", err)
		return false
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		g.log.Warn("stored record corrupt, starting empty", "key", key, "error", err)
		return false
	}
	return true
}

func (g *Gateway) save(ctx context.Context, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrPersistence, key, err)
	}
	if err := g.kv.Put(ctx, key, string(body)); err != nil {
		g.log.Error("failed to persist record", "key", key, "error", err)
		return err
	}
	return nil
}

func (r menuItemRecord) toModel() (models.MenuItem, error) {
	if r.ID == "" {
		return models.MenuItem{}, fmt.Errorf("missing id")
	}
	if strings.TrimSpace(r.Name) == "" {
		return models.MenuItem{}, fmt.Errorf("item %s: missing name", r.ID)
	}
	price, err := money.FromFloat(r.Price)
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("item %s: %w", r.ID, err)
	}
	category := r.Category
	if strings.TrimSpace(category) == "" {
		category = models.DefaultCategory
	}
	return models.MenuItem{ID: r.ID, Name: r.Name, Price: price, Category: category}, nil
}

func (r orderRecord) toModel() (models.Order, error) {
	if r.ID == "" {
		return models.Order{}, fmt.Errorf("missing id")
	}
	if len(r.Items) == 0 {
		return models.Order{}, fmt.Errorf("order %s: no items", r.ID)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return models.Order{}, fmt.Errorf("order %s: createdAt: %w", r.ID, err)
	}

	items := make([]models.LineItem, len(r.Items))
	for i, it := range r.Items {
		if it.Qty < 1 {
			return models.Order{}, fmt.Errorf("order %s: line %d: quantity %d", r.ID, i, it.Qty)
		}
		price, err := money.FromFloat(it.Price)
		if err != nil {
			return models.Order{}, fmt.Errorf("order %s: line %d: %w", r.ID, i, err)
		}
		items[i] = models.LineItem{
			MenuItemID: it.ID,
			Name:       it.Name,
			UnitPrice:  price,
			Quantity:   it.Qty,
			Note:       strings.TrimSpace(it.Note),
		}
	}

	amounts := make([]decimal.Decimal, 3)
	for i, f := range []float64{r.Subtotal, r.Tax, r.Total} {
		if amounts[i], err = money.FromFloat(f); err != nil {
			return models.Order{}, fmt.Errorf("order %s: %w", r.ID, err)
		}
	}

	pm, ok := models.ParsePaymentMethod(r.PaymentMethod)
	if !ok {
		pm = models.PaymentMethod(r.PaymentMethod)
	}
	status := models.OrderStatus(r.Status)
	if status == "" {
		status = models.OrderStatusPaid
	}
	customer := r.CustomerName
	if strings.TrimSpace(customer) == "" {
		customer = models.GuestCustomer
	}

	return models.Order{
		ID:            r.ID,
		CreatedAt:     createdAt,
		CustomerName:  customer,
		PaymentMethod: pm,
		Items:         items,
		Subtotal:      amounts[0],
		Tax:           amounts[1],
		Total:         amounts[2],
		Status:        status,
	}, nil
}
