package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/spaops/ledgersync/internal/api/handlers"
	"github.com/spaops/ledgersync/internal/api/middleware"
	"github.com/spaops/ledgersync/internal/cache"
	"github.com/spaops/ledgersync/internal/logger"
)

func main() {
	var (
		port        = flag.String("port", "8080", "HTTP server port")
		platformKey = flag.String("platform-key", "qhyg", "Accounting platform key used for auth links")
		currency    = flag.String("currency", "USD", "Journal line currency")
	)
	flag.Parse()

	log := logger.New()

	cfg := handlers.Config{
		LedgerAPIKey:  os.Getenv("CODAT_API_KEY"),
		LedgerBaseURL: os.Getenv("CODAT_BASE_URL"),
		SourceBaseURL: os.Getenv("ZENOTI_BASE_URL"),
		Currency:      *currency,
		PlatformKey:   *platformKey,
	}
	if cfg.LedgerAPIKey == "" {
		log.Warn().Msg("CODAT_API_KEY not set - sync and auth-link requests will be rejected")
	}

	companyCache := cache.NewStore()

	syncHandler := handlers.NewSyncHandler(cfg, companyCache, log)
	centersHandler := handlers.NewCentersHandler(cfg, log)
	authLinkHandler := handlers.NewAuthLinkHandler(cfg, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))

	r.Post("/api/centers", centersHandler.ListCenters)
	r.Post("/api/auth-link", authLinkHandler.AuthLink)
	r.Post("/api/sync", syncHandler.Sync)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute, // sync requests poll push operations
	}

	go func() {
		log.Info().Str("port", *port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info().Msg("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
