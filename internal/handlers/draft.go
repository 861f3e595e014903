package handlers

import (
	"log/slog"
	"net/http"

	"github.com/diewo77/cafe-billing/internal/httpx"
	"github.com/diewo77/cafe-billing/internal/models"
	"github.com/diewo77/cafe-billing/internal/services"
	"github.com/diewo77/cafe-billing/internal/validation"
)

// MaxTaxRate caps the rate a till can set (100%).
const MaxTaxRate = 1.0

// DraftFactory starts a new draft.
type DraftFactory func(opts ...services.DraftOption) *services.Draft

// DraftHandler owns the till's current draft. After checkout or discard the
// draft is replaced by a new one carrying the same tax rate.
type DraftHandler struct {
	ledger   *services.Ledger
	newDraft DraftFactory
	draft    *services.Draft
	log      *slog.Logger
}

func NewDraftHandler(ledger *services.Ledger, newDraft DraftFactory, log *slog.Logger) *DraftHandler {
	return &DraftHandler{ledger: ledger, newDraft: newDraft, draft: newDraft(), log: log}
}

type addLineRequest struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   *int   `json:"quantity"`
	Note       string `json:"note"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

type taxRateRequest struct {
	TaxRate *float64 `json:"tax_rate"`
}

type checkoutRequest struct {
	CustomerName  string `json:"customer_name"`
	PaymentMethod string `json:"payment_method"`
}

func (h *DraftHandler) View(w http.ResponseWriter, r *http.Request) {
	h.writeDraft(w, http.StatusOK)
}

// AddLine adds a menu item; quantity defaults to one.
func (h *DraftHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	var req addLineRequest
	if err := httpx.Decode(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	v := make(validation.Violations)
	validation.Required("menu_item_id", req.MenuItemID, v)
	if !v.Empty() {
		writeError(w, h.log, v)
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
		validation.PositiveInt("quantity", qty, v)
	}
	if !v.Empty() {
		writeError(w, h.log, v)
		return
	}
	if err := h.draft.AddLine(req.MenuItemID, qty, req.Note); err != nil {
		writeError(w, h.log, err)
		return
	}
	h.writeDraft(w, http.StatusCreated)
}

func (h *DraftHandler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	v := make(validation.Violations)
	index := validation.Index("index", r.PathValue("index"), v)
	var req quantityRequest
	if err := httpx.Decode(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	if req.Quantity == nil {
		v["quantity"] = "required"
	} else {
		validation.PositiveInt("quantity", *req.Quantity, v)
	}
	if !v.Empty() {
		writeError(w, h.log, v)
		return
	}
	if err := h.draft.SetLineQuantity(index, *req.Quantity); err != nil {
		writeError(w, h.log, err)
		return
	}
	h.writeDraft(w, http.StatusOK)
}

func (h *DraftHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	v := make(validation.Violations)
	index := validation.Index("index", r.PathValue("index"), v)
	if !v.Empty() {
		writeError(w, h.log, v)
		return
	}
	if err := h.draft.RemoveLine(index); err != nil {
		writeError(w, h.log, err)
		return
	}
	h.writeDraft(w, http.StatusOK)
}

func (h *DraftHandler) SetTaxRate(w http.ResponseWriter, r *http.Request) {
	var req taxRateRequest
	if err := httpx.Decode(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	if req.TaxRate == nil {
		writeError(w, h.log, validation.Violations{"tax_rate": "required"})
		return
	}
	v := make(validation.Violations)
	validation.RangeFloat("tax_rate", *req.TaxRate, 0, MaxTaxRate, v)
	if !v.Empty() {
		writeError(w, h.log, v)
		return
	}
	if err := h.draft.SetTaxRate(*req.TaxRate); err != nil {
		writeError(w, h.log, err)
		return
	}
	h.writeDraft(w, http.StatusOK)
}

// Checkout finalizes the draft, records the order and starts a new draft.
// The order is kept even if saving the history fails. A rejected order
// leaves the draft as it was.
func (h *DraftHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := httpx.Decode(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	order, err := h.draft.Checkout(r.Context(), h.ledger, req.CustomerName, models.PaymentMethod(req.PaymentMethod))
	warning, ok := persistWarning(w, h.log, err)
	if !ok {
		return
	}
	h.reset()
	h.log.Info("order recorded", "order_id", order.ID, "total", amount(order.Total), "items", order.ItemCount())
	resp := toOrderJSON(order)
	resp.Warning = warning
	httpx.JSON(w, http.StatusCreated, resp)
}

// Discard drops the current lines.
func (h *DraftHandler) Discard(w http.ResponseWriter, r *http.Request) {
	h.reset()
	h.writeDraft(w, http.StatusOK)
}

func (h *DraftHandler) reset() {
	h.draft = h.newDraft(services.WithTaxRate(h.draft.TaxRate()))
}

func (h *DraftHandler) writeDraft(w http.ResponseWriter, status int) {
	body, err := toDraftJSON(h.draft)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, status, body)
}
