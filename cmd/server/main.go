// Command server is the catalog's HTTP edge entrypoint: it parses the CLI
// surface spec.md §6 fixes (--host, --port, --debug), wires the store,
// domain engine and handlers, and serves until signaled to stop.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"shopunit-catalog/internal/config"
	"shopunit-catalog/internal/delivery/http/handler"
	"shopunit-catalog/internal/delivery/http/routes"
	"shopunit-catalog/internal/domain/aggregate"
	"shopunit-catalog/internal/domain/executor"
	"shopunit-catalog/internal/domain/planner"
	"shopunit-catalog/internal/infrastructure/database"
	"shopunit-catalog/internal/service"
	pkglogger "shopunit-catalog/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "shopunit-catalog:", err)
		os.Exit(1)
	}
}

func run() error {
	host := flag.String("host", "", "listen host (overrides APP_HOST)")
	port := flag.String("port", "", "listen port (overrides APP_PORT)")
	debug := flag.Bool("debug", false, "enable debug mode (verbose logging, gin debug mode)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if *host != "" {
		cfg.App.Host = *host
	}
	if *port != "" {
		cfg.App.Port = *port
	}
	if *debug {
		cfg.App.Debug = true
		cfg.Log.Level = "debug"
	}

	pkglogger.Init(cfg.App.Env, cfg.Log.Level)

	if cfg.App.IsProduction() && !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	txManager := database.NewTxManager(db)
	catalogService := service.New(txManager, planner.New(), executor.New(aggregate.New()))
	catalogHandler := handler.NewCatalogHandler(catalogService)

	router := gin.New()
	routes.SetupRoutes(router, catalogHandler)

	srv := &http.Server{
		Addr:    cfg.App.GetAddress(),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		pkglogger.Info("server listening", pkglogger.Fields{"address": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen and serve: %w", err)
		}
	case <-ctx.Done():
		pkglogger.Info("shutdown signal received", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
	}

	pkglogger.Info("server stopped", nil)
	return nil
}
