package handlers

import (
	"log/slog"
	"net/http"

	"github.com/diewo77/cafe-billing/internal/httpx"
	"github.com/diewo77/cafe-billing/internal/services"
	"github.com/diewo77/cafe-billing/internal/validation"
)

type MenuHandler struct {
	catalog *services.Catalog
	log     *slog.Logger
}

func NewMenuHandler(catalog *services.Catalog, log *slog.Logger) *MenuHandler {
	return &MenuHandler{catalog: catalog, log: log}
}

type menuItemRequest struct {
	Name     *string  `json:"name"`
	Price    *float64 `json:"price"`
	Category *string  `json:"category"`
}

// List serves the menu, filtered by ?q= (name or category search) and
// ?category= (exact category, "All" for everything).
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items := h.catalog.Search(q.Get("q"), q.Get("category"))
	httpx.JSON(w, http.StatusOK, map[string]any{
		"items": toMenuItemsJSON(items),
		"total": len(items),
	})
}

func (h *MenuHandler) Categories(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{
		"categories": append([]string{"All"}, h.catalog.Categories()...),
	})
}

func (h *MenuHandler) View(w http.ResponseWriter, r *http.Request) {
	item, ok := h.catalog.Find(r.PathValue("id"))
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, toMenuItemJSON(item))
}

func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if err := httpx.Decode(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}

	v := make(validation.Violations)
	in := services.MenuItemInput{}
	if req.Name != nil {
		in.Name = *req.Name
	}
	validation.Required("name", in.Name, v)
	if req.Price == nil {
		v["price"] = "required"
	} else {
		in.Price = *req.Price
		validation.NonNegativeFloat("price", in.Price, v)
	}
	if req.Category != nil {
		in.Category = *req.Category
	}
	if !v.Empty() {
		writeError(w, h.log, v)
		return
	}

	item, err := h.catalog.Add(r.Context(), in)
	warning, ok := persistWarning(w, h.log, err)
	if !ok {
		return
	}
	resp := toMenuItemJSON(item)
	resp.Warning = warning
	httpx.JSON(w, http.StatusCreated, resp)
}

func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if err := httpx.Decode(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}

	v := make(validation.Violations)
	if req.Name != nil {
		validation.Required("name", *req.Name, v)
	}
	if req.Price != nil {
		validation.NonNegativeFloat("price", *req.Price, v)
	}
	if !v.Empty() {
		writeError(w, h.log, v)
		return
	}

	patch := services.MenuItemPatch{Name: req.Name, Price: req.Price, Category: req.Category}
	item, err := h.catalog.Update(r.Context(), r.PathValue("id"), patch)
	warning, ok := persistWarning(w, h.log, err)
	if !ok {
		return
	}
	resp := toMenuItemJSON(item)
	resp.Warning = warning
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	warning, ok := persistWarning(w, h.log, h.catalog.Remove(r.Context(), id))
	if !ok {
		return
	}
	resp := map[string]any{"deleted": id}
	if warning != "" {
		resp["warning"] = warning
	}
	httpx.JSON(w, http.StatusOK, resp)
}
