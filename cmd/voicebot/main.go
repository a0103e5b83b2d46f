// Voice application server: answers calls and runs the conversation loop.
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
	"github.com/sukanya1426/Voice-Agent/internal/domain"
	"github.com/sukanya1426/Voice-Agent/internal/events"
	"github.com/sukanya1426/Voice-Agent/internal/reservations"
	"github.com/sukanya1426/Voice-Agent/internal/store"
	"github.com/sukanya1426/Voice-Agent/internal/voice"
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
	slog.Info("Starting voice application", "port", cfg.VoicePort, "variant", variant.Name)

	// Catalog load failures are non-fatal: the bot runs with an empty
	// catalog and product searches return no matches.
	products, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		slog.Warn("Failed to load product catalog, continuing with an empty one",
			"path", cfg.CatalogPath, "error", err)
		products = catalog.New(nil)
	} else {
		slog.Info("Product catalog loaded", "path", cfg.CatalogPath, "products", products.Len())
	}

	var handler bot.DomainHandler
	var checker *reservations.SQLiteChecker
	switch variant.Name {
	case config.VariantRestaurant:
		checker, err = reservations.NewSQLite(cfg.BookingsDB)
		if err != nil {
			slog.Error("Failed to open bookings database", "error", err)
			os.Exit(1)
		}
		defer func() {
			if closeErr := checker.Close(); closeErr != nil {
				slog.Error("Failed to close bookings database", "error", closeErr)
			}
		}()
		handler = bot.NewReservationFlow(checker)
		slog.Info("Bookings database ready", "path", cfg.BookingsDB)
	default:
		handler = bot.NewProductInquiry(products)
	}

	transcripts := store.NewMemory()
	responder := bot.NewResponder(bot.NewOpenAICompleter(cfg.Chat), transcripts, variant.SystemPrompt)
	bus := events.NewBus()

	voiceServer := voice.NewServer(func(ctx context.Context, info *domain.CallInfo, call voice.Call) {
		bot.NewSession(info, variant, handler, responder, transcripts, bus).Run(ctx, call)
	})

	r := chi.NewRouter()
	r.Use(chiMiddleware.Recoverer)
	r.Handle("/", voiceServer)
	r.Get("/ws/calls", api.NewEventsHandler(bus).ServeHTTP)

	// Calls hold their websocket open for minutes; no write timeout.
	srv := &http.Server{
		Addr:         ":" + cfg.VoicePort,
		Handler:      r,
		ReadTimeout:  0,
		WriteTimeout: 0,
		IdleTimeout:  0,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Voice application listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Voice server failed", "error", err)
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

	slog.Info("Voice application stopped")
}
