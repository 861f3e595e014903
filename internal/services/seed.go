package services

import (
	"context"
	"errors"
	"strings"
)

// starterMenu is loaded by SeedMenu on a fresh install.
var starterMenu = []MenuItemInput{
	{Name: "Espresso", Price: 3.00, Category: "Drinks"},
	{Name: "Latte", Price: 4.50, Category: "Drinks"},
	{Name: "Cappuccino", Price: 4.25, Category: "Drinks"},
	{Name: "Brown Sugar Boba", Price: 5.50, Category: "Drinks"},
	{Name: "Croissant", Price: 3.25, Category: "Food"},
	{Name: "Bagel", Price: 2.75, Category: "Food"},
	{Name: "Cheesecake", Price: 5.00, Category: "Dessert"},
}

// SeedMenu adds the starter items whose names are not on the menu yet and
// returns how many were added. Running it twice adds nothing the second time.
// A persistence failure is reported once, after every item has been added.
func SeedMenu(ctx context.Context, c *Catalog) (int, error) {
	existing := make(map[string]struct{}, c.Len())
	for _, it := range c.List("") {
		existing[strings.ToLower(it.Name)] = struct{}{}
	}

	added := 0
	var saveErr error
	for _, in := range starterMenu {
		if _, ok := existing[strings.ToLower(in.Name)]; ok {
			continue
		}
		_, err := c.Add(ctx, in)
		if err != nil && !errors.Is(err, ErrPersistence) {
			return added, err
		}
		if err != nil {
			saveErr = err
		}
		added++
	}
	return added, saveErr
}
