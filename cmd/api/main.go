package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/caixa/internal/auth"
	"github.com/MrJamesThe3rd/caixa/internal/cash"
	cashStore "github.com/MrJamesThe3rd/caixa/internal/cash/store"
	"github.com/MrJamesThe3rd/caixa/internal/config"
	"github.com/MrJamesThe3rd/caixa/internal/database"
	"github.com/MrJamesThe3rd/caixa/internal/export"
	caixaHttp "github.com/MrJamesThe3rd/caixa/internal/http"
	exportHandler "github.com/MrJamesThe3rd/caixa/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/caixa/internal/http/importcsv"
	movementHandler "github.com/MrJamesThe3rd/caixa/internal/http/movement"
	sessionHandler "github.com/MrJamesThe3rd/caixa/internal/http/session"
	"github.com/MrJamesThe3rd/caixa/internal/importer"
	"github.com/MrJamesThe3rd/caixa/internal/user"
	userStore "github.com/MrJamesThe3rd/caixa/internal/user/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(cfg.Logger())

	if cfg.Auth.JWTSecret == "" {
		slog.Error("JWT_SECRET must be set")
		os.Exit(1)
	}

	loc, err := cfg.Location()
	if err != nil {
		slog.Error("failed to load timezone", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString(), cfg.Pool())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.DB.Migrate {
		if err := database.Migrate(db); err != nil {
			slog.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
	}

	var (
		ledger        = cash.NewService(cashStore.New(db), loc)
		userService   = user.NewService(userStore.New(db))
		exportService = export.NewService(ledger)
		authenticator = auth.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	)

	var (
		movementH = movementHandler.NewHandler(ledger, userService)
		sessionH  = sessionHandler.NewHandler(ledger)
		importH   = importHandler.NewHandler(importer.New(), ledger, cfg.Server.MaxUploadBytes)
		exportH   = exportHandler.NewHandler(exportService)
	)

	router := caixaHttp.New(authenticator, movementH, sessionH, importH, exportH, caixaHttp.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      http.TimeoutHandler(router, cfg.Server.Timeout, `{"error":"request timed out"}`),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		slog.Info("starting server", "addr", server.Addr, "app", cfg.App.Name)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	slog.Info("server stopped")
}
