// LearnHub storefront - cart, wishlist and checkout over the LearnHub API.
// Serves the REST and MCP surfaces from a single process.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learnhub-storefront/internal/api"
	"learnhub-storefront/internal/auth"
	"learnhub-storefront/internal/config"
	"learnhub-storefront/internal/handler"
	"learnhub-storefront/internal/metrics"
	"learnhub-storefront/internal/middleware"
	"learnhub-storefront/internal/prefs"
	"learnhub-storefront/internal/store"
	"learnhub-storefront/internal/storefront"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := initLogger(cfg)

	logger.Info("configuration loaded",
		slog.String("environment", cfg.Environment),
		slog.String("api_base_url", cfg.APIBaseURL),
		slog.String("locale", string(cfg.Locale)),
		slog.String("currency", cfg.Currency),
		slog.Bool("chrome_tls", cfg.ChromeTLS),
	)

	m := metrics.New()
	creds := credentialStore(cfg)
	guard := auth.NewGuard(creds, logger)

	client, err := api.New(api.Config{
		BaseURL:       cfg.APIBaseURL,
		Locale:        cfg.Locale,
		RateLimit:     cfg.RateLimitRPS,
		Burst:         cfg.RateBurst,
		MinAPIVersion: cfg.MinAPIVersion,
		ChromeTLS:     cfg.ChromeTLS,
		Timeout:       cfg.RequestTimeout,
		Metrics:       m,
	}, creds, guard, logger)
	if err != nil {
		return fmt.Errorf("creating API client: %w", err)
	}

	svc := storefront.New(client, store.New(), creds, logger, storefront.Options{
		Guard:   guard,
		Metrics: m,
	})
	defer svc.Close()

	defaults := prefs.Prefs{Locale: cfg.Locale, Currency: cfg.Currency}
	h := handler.New(svc, defaults, m, logger)

	// Setup routes
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	// Apply middleware chain: recovery → request ID → logging → prefs → handler
	// Recovery must be outermost to catch panics from logging middleware
	httpHandler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logging(logger),
		prefs.Middleware(defaults, logger),
	)(mux)

	// Create HTTP server with timeouts
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      httpHandler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Channel for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Channel for server errors
	serverErr := make(chan error, 1)

	go func() {
		logger.Info("server starting",
			slog.String("port", cfg.Port),
			slog.String("addr", server.Addr),
		)
		serverErr <- server.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErr:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-shutdown:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		// Give outstanding requests time to complete
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			// Force close if graceful shutdown fails
			server.Close()
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	logger.Info("server stopped")
	return nil
}

// credentialStore picks where the session token lives. A configured service
// token pins the session in memory; otherwise the token file is used.
func credentialStore(cfg *config.Config) auth.CredentialStore {
	if cfg.ServiceToken != "" {
		return auth.NewMemoryStore(cfg.ServiceToken)
	}
	return auth.NewFileStore(cfg.CredentialsPath)
}

// initLogger creates a structured logger configured for the environment.
// Production uses JSON format for GCP Cloud Logging compatibility.
// Development uses text format for readability.
func initLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
		// Add source location in debug mode
		AddSource: level == slog.LevelDebug,
	}

	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
