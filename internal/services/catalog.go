package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diewo77/cafe-billing/internal/models"
	"github.com/diewo77/cafe-billing/internal/money"
	"github.com/shopspring/decimal"
)

// maxIDAttempts bounds retries when the generator returns an id already used.
const maxIDAttempts = 5

// CatalogSaver persists a full snapshot of the menu.
type CatalogSaver interface {
	SaveCatalog(ctx context.Context, items []models.MenuItem) error
}

// MenuItemInput carries the fields of a new menu item.
type MenuItemInput struct {
	Name     string
	Price    float64
	Category string
}

// MenuItemPatch updates only the fields that are set.
type MenuItemPatch struct {
	Name     *string
	Price    *float64
	Category *string
}

// Catalog is the in-memory menu. It is the source of truth for item prices
// while orders are built. Items are kept newest first.
type Catalog struct {
	items []models.MenuItem
	used  map[string]struct{}
	ids   IDGenerator
	saver CatalogSaver
}

// NewCatalog wraps the loaded items. saver may be nil to disable persistence.
func NewCatalog(items []models.MenuItem, ids IDGenerator, saver CatalogSaver) *Catalog {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	c := &Catalog{
		items: append([]models.MenuItem(nil), items...),
		used:  make(map[string]struct{}, len(items)),
		ids:   ids,
		saver: saver,
	}
	for _, it := range items {
		c.used[it.ID] = struct{}{}
	}
	return c
}

// Add validates in and inserts a new item ahead of the existing ones.
// If only the save fails, the item is returned along with an error matching
// ErrPersistence; the item stays in the catalog.
func (c *Catalog) Add(ctx context.Context, in MenuItemInput) (models.MenuItem, error) {
	name, err := validateName(in.Name)
	if err != nil {
		return models.MenuItem{}, err
	}
	price, err := validatePrice(in.Price)
	if err != nil {
		return models.MenuItem{}, err
	}
	id, err := c.freshID()
	if err != nil {
		return models.MenuItem{}, err
	}

	item := models.MenuItem{
		ID:       id,
		Name:     name,
		Price:    price,
		Category: normalizeCategory(in.Category),
	}
	c.items = append([]models.MenuItem{item}, c.items...)
	c.used[id] = struct{}{}
	return item, c.save(ctx)
}

// Update applies patch to the item with the given id.
func (c *Catalog) Update(ctx context.Context, id string, patch MenuItemPatch) (models.MenuItem, error) {
	i := c.indexOf(id)
	if i < 0 {
		return models.MenuItem{}, fmt.Errorf("menu item %q: %w", id, ErrNotFound)
	}

	item := c.items[i]
	if patch.Name != nil {
		name, err := validateName(*patch.Name)
		if err != nil {
			return models.MenuItem{}, err
		}
		item.Name = name
	}
	if patch.Price != nil {
		price, err := validatePrice(*patch.Price)
		if err != nil {
			return models.MenuItem{}, err
		}
		item.Price = price
	}
	if patch.Category != nil {
		item.Category = normalizeCategory(*patch.Category)
	}

	c.items[i] = item
	return item, c.save(ctx)
}

// Remove deletes the item. Orders that already captured it keep their copy.
func (c *Catalog) Remove(ctx context.Context, id string) error {
	i := c.indexOf(id)
	if i < 0 {
		return fmt.Errorf("menu item %q: %w", id, ErrNotFound)
	}
	c.items = append(c.items[:i:i], c.items[i+1:]...)
	return c.save(ctx)
}

// Find looks an item up by id.
func (c *Catalog) Find(id string) (models.MenuItem, bool) {
	if i := c.indexOf(id); i >= 0 {
		return c.items[i], true
	}
	return models.MenuItem{}, false
}

// List returns the items whose name or category contains query, ignoring
// case. An empty query returns every item.
func (c *Catalog) List(query string) []models.MenuItem {
	out := make([]models.MenuItem, 0, len(c.items))
	for i := range c.items {
		if c.items[i].Matches(query) {
			out = append(out, c.items[i])
		}
	}
	return out
}

// ListCategory returns the items of one category; "" or "All" returns all.
func (c *Catalog) ListCategory(category string) []models.MenuItem {
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, "All") {
		return c.List("")
	}
	out := make([]models.MenuItem, 0)
	for i := range c.items {
		if strings.EqualFold(c.items[i].CategoryOrDefault(), category) {
			out = append(out, c.items[i])
		}
	}
	return out
}

// Search returns the items in category whose name or category matches query.
// Both filters apply; blank values match everything.
func (c *Catalog) Search(query, category string) []models.MenuItem {
	items := c.ListCategory(category)
	out := items[:0]
	for i := range items {
		if items[i].Matches(query) {
			out = append(out, items[i])
		}
	}
	return out
}

// Categories returns the distinct categories in menu order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for i := range c.items {
		cat := c.items[i].CategoryOrDefault()
		if _, ok := seen[cat]; ok {
			continue
		}
		seen[cat] = struct{}{}
		out = append(out, cat)
	}
	return out
}

// Len returns the number of items on the menu.
func (c *Catalog) Len() int { return len(c.items) }

func (c *Catalog) indexOf(id string) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Catalog) freshID() (string, error) {
	for range maxIDAttempts {
		id := c.ids.NewID()
		if id == "" {
			continue
		}
		if _, taken := c.used[id]; !taken {
			return id, nil
		}
	}
	return "", errors.New("id generator keeps returning used ids")
}

func (c *Catalog) save(ctx context.Context) error {
	if c.saver == nil {
		return nil
	}
	if err := c.saver.SaveCatalog(ctx, c.List("")); err != nil {
		return fmt.Errorf("save menu: %w", wrapPersistence(err))
	}
	return nil
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalidField("name", "required")
	}
	return name, nil
}

func validatePrice(price float64) (decimal.Decimal, error) {
	d, err := money.FromFloat(price)
	if err != nil {
		return decimal.Zero, invalidField("price", "must be a non-negative number")
	}
	return d, nil
}

func normalizeCategory(category string) string {
	if c := strings.TrimSpace(category); c != "" {
		return c
	}
	return models.DefaultCategory
}

func wrapPersistence(err error) error {
	if errors.Is(err, ErrPersistence) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}
