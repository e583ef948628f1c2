package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"ordercrm/internal/account"
	"ordercrm/internal/auth"
	"ordercrm/internal/config"
	"ordercrm/internal/customer"
	"ordercrm/internal/infrastructure/logger"
	"ordercrm/internal/infrastructure/mysql"
	"ordercrm/internal/order"
	"ordercrm/internal/product"
	"ordercrm/internal/report"
	"ordercrm/internal/server"
	"ordercrm/internal/view"
)

func main() {
	// A missing .env is fine; the environment and config.yaml still apply.
	_ = godotenv.Load()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	if cfg.Security.EphemeralKeys {
		zapLogger.Warn("SESSION_KEY or CSRF_KEY not set, using random keys; sessions will not survive a restart")
	}

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	sessions := auth.NewSessionManager(auth.NewCookieStore(cfg.Security.SessionKey, cfg.Security.CookieSecure))

	render, err := view.New(sessions, zapLogger)
	if err != nil {
		zapLogger.Fatal("loading templates", zap.Error(err))
	}

	routes := server.Routes{
		Account:  account.NewModule(db, sessions, render, zapLogger),
		Customer: customer.NewModule(db, sessions, render, zapLogger),
		Order:    order.NewModule(db, cfg, render, zapLogger),
		Product:  product.NewModule(db, render, zapLogger),
		Report:   report.NewModule(db, render, zapLogger),
	}

	router := server.NewRouter(routes, sessions, render, server.Options{
		RequestTimeout: cfg.Server.RequestTimeout,
		CSRFKey:        cfg.Security.CSRFKey,
		CookieSecure:   cfg.Security.CookieSecure,
	}, zapLogger)

	srv := server.New(cfg.Server, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
