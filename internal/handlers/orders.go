package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/diewo77/cafe-billing/internal/httpx"
	"github.com/diewo77/cafe-billing/internal/services"
	"github.com/diewo77/cafe-billing/internal/validation"
	"github.com/diewo77/cafe-billing/internal/view"
)

type OrderHandler struct {
	ledger *services.Ledger
	loc    *time.Location
	now    func() time.Time
	log    *slog.Logger
}

func NewOrderHandler(ledger *services.Ledger, loc *time.Location, now func() time.Time, log *slog.Logger) *OrderHandler {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &OrderHandler{ledger: ledger, loc: loc, now: now, log: log}
}

// List serves the order history filtered by ?q= and ?date=YYYY-MM-DD.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	v := make(validation.Violations)
	filter := services.OrderFilter{
		Query: r.URL.Query().Get("q"),
		Date:  validation.Date("date", r.URL.Query().Get("date"), h.loc, v),
	}
	if !v.Empty() {
		writeError(w, h.log, v)
		return
	}
	orders := h.ledger.List(filter)
	items := make([]orderJSON, len(orders))
	for i, o := range orders {
		items[i] = toOrderJSON(o)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": len(items),
	})
}

func (h *OrderHandler) View(w http.ResponseWriter, r *http.Request) {
	order, ok := h.ledger.Find(r.PathValue("id"))
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, toOrderJSON(order))
}

// Receipt renders the printable receipt; ?print=1 opens the print dialog.
func (h *OrderHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	order, ok := h.ledger.Find(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	autoPrint := r.URL.Query().Get("print") == "1"
	if err := view.WriteReceipt(w, order, h.loc, autoPrint); err != nil {
		h.log.Error("render receipt", "order_id", order.ID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Stats serves the dashboard figures as of now.
func (h *OrderHandler) Stats(w http.ResponseWriter, r *http.Request) {
	now := h.now().In(h.loc)
	s := h.ledger.Stats(now)
	httpx.JSON(w, http.StatusOK, statsJSON{
		Date:       now.Format(time.DateOnly),
		TodaySales: amount(s.TodaySales),
		TotalSales: amount(s.TotalSales),
		CountToday: s.CountToday,
		CountTotal: s.CountTotal,
	})
}
