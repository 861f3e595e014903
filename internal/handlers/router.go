package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/diewo77/cafe-billing/internal/httpx"
	"github.com/diewo77/cafe-billing/internal/services"
)

// RouterConfig holds the configured handlers of the till.
type RouterConfig struct {
	MenuHandler  *MenuHandler
	DraftHandler *DraftHandler
	OrderHandler *OrderHandler
}

// NewRouterConfig wires handlers around the loaded catalog and ledger.
// newDraft starts each order; loc defines the business day.
func NewRouterConfig(catalog *services.Catalog, ledger *services.Ledger, newDraft DraftFactory, loc *time.Location, log *slog.Logger) *RouterConfig {
	return &RouterConfig{
		MenuHandler:  NewMenuHandler(catalog, log),
		DraftHandler: NewDraftHandler(ledger, newDraft, log),
		OrderHandler: NewOrderHandler(ledger, loc, nil, log),
	}
}

// Register mounts every route on mux.
func (c *RouterConfig) Register(mux *http.ServeMux) {
	mh := c.MenuHandler
	mux.HandleFunc("GET /menu", mh.List)
	mux.HandleFunc("GET /menu/categories", mh.Categories)
	mux.HandleFunc("POST /menu", mh.Create)
	mux.HandleFunc("GET /menu/{id}", mh.View)
	mux.HandleFunc("PATCH /menu/{id}", mh.Update)
	mux.HandleFunc("DELETE /menu/{id}", mh.Delete)

	dh := c.DraftHandler
	mux.HandleFunc("GET /draft", dh.View)
	mux.HandleFunc("POST /draft/lines", dh.AddLine)
	mux.HandleFunc("PATCH /draft/lines/{index}", dh.UpdateLine)
	mux.HandleFunc("DELETE /draft/lines/{index}", dh.RemoveLine)
	mux.HandleFunc("PUT /draft/tax-rate", dh.SetTaxRate)
	mux.HandleFunc("POST /draft/checkout", dh.Checkout)
	mux.HandleFunc("DELETE /draft", dh.Discard)

	oh := c.OrderHandler
	mux.HandleFunc("GET /orders", oh.List)
	mux.HandleFunc("GET /orders/{id}", oh.View)
	mux.HandleFunc("GET /orders/{id}/receipt", oh.Receipt)
	mux.HandleFunc("GET /stats", oh.Stats)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}
