package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-agenda/internal/audit"
	"github.com/BruksfildServices01/barber-agenda/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-agenda/internal/db"
	"github.com/BruksfildServices01/barber-agenda/internal/reminder"
	"github.com/BruksfildServices01/barber-agenda/internal/routes"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(log)

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return err
	}
	if err := dbpkg.Migrate(db); err != nil {
		return err
	}

	auditDispatcher := audit.NewDispatcher(audit.New(db), log)
	defer auditDispatcher.Close()

	r := gin.New()
	r.Use(gin.Recovery())

	if err := routes.RegisterRoutes(r, db, cfg, auditDispatcher, log); err != nil {
		return err
	}

	// --------------------------------------------------
	// Lembretes (opcional)
	// --------------------------------------------------
	if cfg.Reminders.Enabled {
		svc, closeLedger, err := reminder.FromConfig(cfg, db, log)
		if err != nil {
			return err
		}
		defer closeLedger()

		scheduler, err := reminder.NewScheduler(svc, cfg.Reminders.Schedule, log)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			scheduler.Stop(ctx)
		}()

		log.Info("reminder scheduler started",
			"schedule", cfg.Reminders.Schedule,
			"dispatcher", cfg.Reminders.Dispatcher,
			"redis_ledger", cfg.Redis.URL != "",
		)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", "addr", cfg.Addr(), "grid", cfg.AvailabilityGrid)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
