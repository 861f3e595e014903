package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/cafe-billing/internal/config"
	"github.com/diewo77/cafe-billing/internal/db"
	"github.com/diewo77/cafe-billing/internal/handlers"
	"github.com/diewo77/cafe-billing/internal/logger"
	"github.com/diewo77/cafe-billing/internal/services"
	"github.com/diewo77/cafe-billing/internal/store"
	"github.com/joho/godotenv"
)

const serviceName = "cafe-billing"

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Add the starter menu and exit")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(os.Stdout, serviceName, cfg.App.LogLevel)
	slog.SetDefault(log)

	dbConn, err := db.Open(cfg.Database, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if *migrateOnlyFlag || cfg.App.Migrations {
		if err := db.Migrate(dbConn); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrations completed")
		if *migrateOnlyFlag {
			return
		}
	}

	gateway := store.NewGateway(store.NewGormKV(dbConn), log)
	ctx := context.Background()
	ids := services.UUIDGenerator{}
	catalog := services.NewCatalog(gateway.LoadCatalog(ctx), ids, gateway)
	loc := cfg.App.Location()
	ledger := services.NewLedger(gateway.LoadLedger(ctx), gateway, services.WithLocation(loc))
	log.Info("state loaded", "menu_items", catalog.Len(), "orders", ledger.Len())

	if *seedOnlyFlag {
		added, err := services.SeedMenu(ctx, catalog)
		if err != nil {
			log.Error("seeding failed", "added", added, "error", err)
			os.Exit(1)
		}
		log.Info("seeding completed", "added", added)
		return
	}

	taxRate := cfg.App.TaxRate
	newDraft := func(opts ...services.DraftOption) *services.Draft {
		return services.NewDraft(catalog, ids, append([]services.DraftOption{services.WithTaxRate(taxRate)}, opts...)...)
	}

	routerCfg := handlers.NewRouterConfig(catalog, ledger, newDraft, loc, log)
	appHandler := NewApp(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      withLogging(log, appHandler),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Server.Port, "dev", cfg.App.Dev, "driver", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("error during shutdown", "error", err)
	}
	log.Info("server stopped gracefully")
}
