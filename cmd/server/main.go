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

	"go-pos-inventory/internal/ai"
	"go-pos-inventory/internal/auth"
	"go-pos-inventory/internal/config"
	"go-pos-inventory/internal/database"
	"go-pos-inventory/internal/filestore"
	"go-pos-inventory/internal/logger"
	"go-pos-inventory/internal/server"
	"go-pos-inventory/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found")
	}

	cfg := config.LoadEnv()
	zlog, err := logger.New(cfg.Server.AppEnv, cfg.Logger)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := openStore(cfg, zlog)
	if err != nil {
		zlog.Fatal("Failed to open store", zap.Error(err))
	}
	defer st.Close()

	opts := server.Options{
		Store:             st,
		Log:               zlog,
		LowStockThreshold: cfg.Inventory.LowStockThreshold,
		AllowedOrigins:    cfg.Server.CORSAllowedOrigins,
		WebDir:            cfg.Server.WebDir,
	}

	// --- FEATURE FLAG: Operator logins ---
	if cfg.Auth.Enabled {
		accounts, err := auth.NewAccounts(cfg.Auth.AdminUsername, cfg.Auth.AdminPassword, cfg.Auth.CashierUsername, cfg.Auth.CashierPassword)
		if err != nil {
			zlog.Fatal("Failed to hash operator passwords", zap.Error(err))
		}
		if accounts.Len() == 0 {
			zlog.Fatal("AUTH_ENABLED is set but neither ADMIN_PASSWORD nor CASHIER_PASSWORD is configured")
		}
		opts.Issuer = auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		opts.Accounts = accounts
	} else {
		zlog.Warn("Authentication is DISABLED; every /api route is open")
	}

	// --- FEATURE FLAG: Assistant ---
	if cfg.Assistant.GeminiAPIKey != "" {
		agent, err := ai.NewAgent(context.Background(), cfg.Assistant.GeminiAPIKey, cfg.Assistant.Model, st, cfg.Inventory.LowStockThreshold, zlog)
		if err != nil {
			zlog.Fatal("Failed to start assistant", zap.Error(err))
		}
		defer agent.Close()
		opts.Assistant = agent
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.HTTPPort,
		Handler:      server.NewRouter(opts),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		zlog.Info("Server starting",
			zap.String("url", cfg.Server.BaseURL),
			zap.String("store", st.Kind()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("Server forced to shutdown", zap.Error(err))
	}
}

// openStore picks the JSON file store or the SQL database.
func openStore(cfg *config.Config, zlog *zap.Logger) (store.Store, error) {
	if cfg.Store.UseFileDB {
		zlog.Info("Using file store", zap.String("path", cfg.Store.FileDBPath))
		return filestore.Open(cfg.Store.FileDBPath, zlog)
	}
	return database.Open(cfg.Database, zlog)
}
