package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/diewo77/cafe-billing/internal/httpx"
	"github.com/diewo77/cafe-billing/internal/services"
	"github.com/diewo77/cafe-billing/internal/validation"
)

// WarningPersistenceFailed is set on a successful mutation whose save failed.
const WarningPersistenceFailed = "persistence_failed"

// writeError maps core errors onto status codes and JSON error bodies.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	var fe *services.FieldError
	var v validation.Violations
	switch {
	case errors.As(err, &v):
		httpx.JSONError(w, http.StatusBadRequest, "invalid_input", v)
	case errors.As(err, &fe):
		httpx.JSONError(w, http.StatusBadRequest, "invalid_input", map[string]string{fe.Field: fe.Message})
	case errors.Is(err, httpx.ErrBadJSON):
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
	case errors.Is(err, services.ErrInvalidAmount):
		httpx.JSONError(w, http.StatusBadRequest, "invalid_amount", err.Error())
	case errors.Is(err, services.ErrInvalidInput):
		httpx.JSONError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, services.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.Is(err, services.ErrOutOfRange):
		httpx.JSONError(w, http.StatusNotFound, "out_of_range", nil)
	case errors.Is(err, services.ErrEmptyOrder):
		httpx.JSONError(w, http.StatusConflict, "empty_order", nil)
	case errors.Is(err, services.ErrDraftFinalized):
		httpx.JSONError(w, http.StatusConflict, "draft_finalized", nil)
	default:
		log.Error("request failed", "error", err)
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}

// persistWarning reports whether err is only a failed save. Any other error
// is written to w and the caller must stop.
func persistWarning(w http.ResponseWriter, log *slog.Logger, err error) (warning string, ok bool) {
	if err == nil {
		return "", true
	}
	if errors.Is(err, services.ErrPersistence) {
		log.Warn("change kept in memory but not saved", "error", err)
		return WarningPersistenceFailed, true
	}
	writeError(w, log, err)
	return "", false
}
