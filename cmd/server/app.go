package main

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/diewo77/cafe-billing/internal/handlers"
)

// App is the main application handler that sets up all routes.
// Requests are served one at a time so the in-memory catalog, draft and
// ledger never see concurrent calls.
type App struct {
	mu        sync.Mutex
	mux       *http.ServeMux
	routerCfg *handlers.RouterConfig
}

// NewApp creates a new application with all routes configured.
func NewApp(routerCfg *handlers.RouterConfig) *App {
	app := &App{
		mux:       http.NewServeMux(),
		routerCfg: routerCfg,
	}
	app.routerCfg.Register(app.mux)
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mux.ServeHTTP(w, r)
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging middleware.
func withLogging(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String(),
		)
	})
}
