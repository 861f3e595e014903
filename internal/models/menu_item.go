package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCategory is used for menu items saved without a category.
const DefaultCategory = "Other"

// MenuItem is one sellable entry of the cafe menu.
type MenuItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}

// CategoryOrDefault returns the item's category, or DefaultCategory if blank.
func (m *MenuItem) CategoryOrDefault() string {
	if c := strings.TrimSpace(m.Category); c != "" {
		return c
	}
	return DefaultCategory
}

// Matches reports whether query is a case-insensitive substring of the
// item's name or category. An empty query matches every item.
func (m *MenuItem) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(m.Name), q) ||
		strings.Contains(strings.ToLower(m.CategoryOrDefault()), q)
}
