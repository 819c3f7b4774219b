package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deauport/deauport/internal/api"
	"github.com/deauport/deauport/internal/app"
	"github.com/deauport/deauport/internal/config"
	"github.com/deauport/deauport/internal/database"
	"github.com/deauport/deauport/internal/resources"
	"github.com/deauport/deauport/internal/routing"
	"github.com/deauport/deauport/internal/service"
	"github.com/gorilla/handlers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []service.Option
	if cfg.DBPath != "" {
		db, err := database.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			log.Fatalf("failed to open audit log: %v\n", err)
		}
		defer db.Close()
		pruneAudit(db, cfg.AuditRetention)
		opts = append(opts, service.WithAudit(db.AuditLog()))
	}
	svc := service.New(cfg, opts...)

	templates, err := resources.LoadTemplates(cfg.TemplatesDir)
	if err != nil {
		log.Fatalf("failed to load templates: %v\n", err)
	}
	if err := templates.Watch(ctx); err != nil {
		log.Printf("template hot reload disabled: %v\n", err)
	}

	r := routing.BuildRouter(
		api.New(svc, api.NewThrottle(cfg.LoginRate, cfg.LoginBurst)),
		app.New(svc, templates),
	)

	var handler http.Handler = handlers.LoggingHandler(os.Stdout, r)
	if cfg.TrustProxy {
		handler = handlers.ProxyHeaders(handler)
	}

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v\n", err)
		}
	}()

	log.Printf("listening on %s\n", cfg.ListenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server failed: %v\n", err)
	}
}

func pruneAudit(db *database.SQLiteStore, retention time.Duration) {
	n, err := db.PruneEvents(time.Now().Add(-retention))
	if err != nil {
		log.Printf("failed to prune audit log: %v\n", err)
		return
	}
	if n > 0 {
		log.Printf("pruned %d audit events older than %v\n", n, retention)
	}
}
