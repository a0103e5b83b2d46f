// API server: frontend-facing HTTP API for the voice agent.
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

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/sukanya1426/Voice-Agent/internal/api"
	"github.com/sukanya1426/Voice-Agent/internal/bot"
	"github.com/sukanya1426/Voice-Agent/internal/catalog"
	"github.com/sukanya1426/Voice-Agent/internal/config"
	"github.com/sukanya1426/Voice-Agent/internal/dialer"
	"github.com/sukanya1426/Voice-Agent/internal/middleware"
	"github.com/sukanya1426/Voice-Agent/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	variant, err := bot.VariantByName(cfg.BotVariant)
	if err != nil {
		slog.Error("Failed to select bot variant", "error", err)
		os.Exit(1)
	}
	slog.Info("Starting API server", "port", cfg.Port, "variant", variant.Name)

	products, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		slog.Warn("Failed to load product catalog, continuing with an empty one",
			"path", cfg.CatalogPath, "error", err)
		products = catalog.New(nil)
	} else {
		slog.Info("Product catalog loaded", "path", cfg.CatalogPath, "products", products.Len())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Web chat transcripts have no hangup to clean them up; the janitor
	// drops sessions idle longer than the configured TTL.
	transcripts := store.NewMemory()
	transcripts.StartJanitor(ctx, cfg.WebChatTTL)

	responder := bot.NewResponder(bot.NewOpenAICompleter(cfg.Chat), transcripts, variant.SystemPrompt)
	handler := api.NewHandler(products, dialer.New(cfg.Fonoster), responder)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	handler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("API server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("API server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("API server stopped")
}
