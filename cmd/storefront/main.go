package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/depiwhite/storefront/internal/auth"
	"github.com/depiwhite/storefront/internal/catalog"
	"github.com/depiwhite/storefront/internal/config"
	"github.com/depiwhite/storefront/internal/db"
	storeHttp "github.com/depiwhite/storefront/internal/handler/http"
	"github.com/depiwhite/storefront/internal/order"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Logger = log.With().Str("service", "storefront").Logger()

	log.Info().Msg("Storefront starting...")

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	dbConn, err := db.New(context.Background(), cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbConn.Close()

	authRepo := auth.NewRepository(dbConn.Pool)
	authSvc := auth.NewService(authRepo)
	adminGuard := auth.NewGuard(authRepo)

	catalogRepo := catalog.NewRepository(dbConn.Pool)
	catalogSvc := catalog.NewService(catalogRepo)

	orderRepo := order.NewRepository(dbConn.Pool)
	orderSvc := order.NewService(orderRepo)

	authHandler := storeHttp.NewAuthHandler(authSvc)
	storeHandler := storeHttp.NewStoreHandler(catalogSvc, orderSvc, authSvc)
	adminHandler := storeHttp.NewAdminHandler(adminGuard, catalogSvc, orderSvc)

	router := storeHttp.NewRouter(authHandler, storeHandler, adminHandler)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	<-stopCh

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("Storefront stopped gracefully")
}
