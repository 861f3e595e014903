package services

import (
	"context"
	"errors"
	"testing"

	"github.com/diewo77/cafe-billing/internal/models"
	"github.com/shopspring/decimal"
)

func TestCatalogAddPrependsAndSaves(t *testing.T) {
	saver := &recordingSaver{}
	c := newTestCatalog(t, saver)

	items := c.List("")
	if len(items) != 2 {
		t.Fatalf("expected 2 items got %d", len(items))
	}
	if items[0].Name != "Bagel" || items[1].Name != "Latte" {
		t.Fatalf("expected newest first, got %s, %s", items[0].Name, items[1].Name)
	}
	if saver.menuSaves != 2 || len(saver.lastMenu) != 2 {
		t.Fatalf("expected 2 saves of the full menu, got %d saves of %d items", saver.menuSaves, len(saver.lastMenu))
	}
	if !items[1].Price.Equal(decimal.RequireFromString("4.5")) {
		t.Fatalf("unexpected price %s", items[1].Price)
	}
}

func TestCatalogAddValidation(t *testing.T) {
	c := NewCatalog(nil, seqIDs("m"), nil)
	tests := []struct {
		name  string
		in    MenuItemInput
		field string
	}{
		{"blank name", MenuItemInput{Name: "   ", Price: 1}, "name"},
		{"negative price", MenuItemInput{Name: "Tea", Price: -0.5}, "price"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Add(context.Background(), tt.in)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput got %v", err)
			}
			var fe *FieldError
			if !errors.As(err, &fe) || fe.Field != tt.field {
				t.Fatalf("expected field %q got %v", tt.field, err)
			}
		})
	}
	if c.Len() != 0 {
		t.Fatalf("rejected items must not be added")
	}
}

func TestCatalogAddDefaultsAndTrims(t *testing.T) {
	c := NewCatalog(nil, seqIDs("m"), nil)
	item, err := c.Add(context.Background(), MenuItemInput{Name: "  Water ", Price: 0})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if item.Name != "Water" {
		t.Fatalf("expected trimmed name got %q", item.Name)
	}
	if item.Category != models.DefaultCategory {
		t.Fatalf("expected default category got %q", item.Category)
	}
	if !item.Price.IsZero() {
		t.Fatalf("zero price should be allowed")
	}
}

func TestCatalogNeverReusesIDs(t *testing.T) {
	calls := 0
	ids := IDFunc(func() string {
		calls++
		if calls <= 3 {
			return "dup"
		}
		return "fresh"
	})
	c := NewCatalog([]models.MenuItem{{ID: "dup", Name: "Old", Price: decimal.NewFromInt(1)}}, ids, nil)
	if err := c.Remove(context.Background(), "dup"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	item, err := c.Add(context.Background(), MenuItemInput{Name: "New", Price: 1})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if item.ID != "fresh" {
		t.Fatalf("expected a fresh id got %q", item.ID)
	}
}

func TestCatalogUpdate(t *testing.T) {
	c := newTestCatalog(t, nil)
	price := 5.25
	cat := " "
	item, err := c.Update(context.Background(), "m1", MenuItemPatch{Price: &price, Category: &cat})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if item.Name != "Latte" {
		t.Fatalf("name should be unchanged, got %q", item.Name)
	}
	if !item.Price.Equal(decimal.RequireFromString("5.25")) {
		t.Fatalf("expected 5.25 got %s", item.Price)
	}
	if item.Category != models.DefaultCategory {
		t.Fatalf("expected default category got %q", item.Category)
	}

	found, _ := c.Find("m1")
	if !found.Price.Equal(item.Price) {
		t.Fatalf("update not stored")
	}

	if _, err := c.Update(context.Background(), "missing", MenuItemPatch{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
	empty := ""
	if _, err := c.Update(context.Background(), "m1", MenuItemPatch{Name: &empty}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput got %v", err)
	}
}

func TestCatalogRemove(t *testing.T) {
	c := newTestCatalog(t, nil)
	if err := c.Remove(context.Background(), "m1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := c.Find("m1"); ok {
		t.Fatalf("item still present")
	}
	if err := c.Remove(context.Background(), "m1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
}

func TestCatalogListFilters(t *testing.T) {
	c := newTestCatalog(t, nil)
	if got := c.List("LAT"); len(got) != 1 || got[0].Name != "Latte" {
		t.Fatalf("name search failed: %+v", got)
	}
	if got := c.List("food"); len(got) != 1 || got[0].Name != "Bagel" {
		t.Fatalf("category search failed: %+v", got)
	}
	if got := c.List("pizza"); len(got) != 0 {
		t.Fatalf("expected no match got %d", len(got))
	}
	if got := c.ListCategory("drinks"); len(got) != 1 {
		t.Fatalf("expected 1 drink got %d", len(got))
	}
	if got := c.ListCategory("All"); len(got) != 2 {
		t.Fatalf("All should list every item, got %d", len(got))
	}
	cats := c.Categories()
	if len(cats) != 2 || cats[0] != "Food" || cats[1] != "Drinks" {
		t.Fatalf("unexpected categories %v", cats)
	}
}

func TestCatalogSearchAppliesBothFilters(t *testing.T) {
	c := newTestCatalog(t, nil)

	tests := []struct {
		query, category string
		want            int
	}{
		{"lat", "", 1},
		{"", "Food", 1},
		{"lat", "Drinks", 1},
		{"lat", "Food", 0},
		{"", "All", 2},
		{"", "", 2},
	}
	for _, tt := range tests {
		if got := c.Search(tt.query, tt.category); len(got) != tt.want {
			t.Errorf("Search(%q, %q): expected %d got %d", tt.query, tt.category, tt.want, len(got))
		}
	}
	if c.Len() != 2 || len(c.List("")) != 2 {
		t.Fatalf("search must not change the menu")
	}
}

func TestCatalogSaveFailureKeepsMutation(t *testing.T) {
	saver := &recordingSaver{fail: errDiskFull}
	c := NewCatalog(nil, seqIDs("m"), saver)

	item, err := c.Add(context.Background(), MenuItemInput{Name: "Tea", Price: 2})
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence got %v", err)
	}
	if !errors.Is(err, errDiskFull) {
		t.Fatalf("cause should be kept, got %v", err)
	}
	if _, ok := c.Find(item.ID); !ok {
		t.Fatalf("item should stay in the catalog after a failed save")
	}
}
