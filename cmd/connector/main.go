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

	"golang.org/x/sync/errgroup"

	"github.com/odyssey-erp/ordergroove-connector/internal/app"
	"github.com/odyssey-erp/ordergroove-connector/internal/commercetools"
	"github.com/odyssey-erp/ordergroove-connector/internal/events"
	"github.com/odyssey-erp/ordergroove-connector/internal/integration"
	"github.com/odyssey-erp/ordergroove-connector/internal/observability"
	"github.com/odyssey-erp/ordergroove-connector/internal/ordergroove"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	metrics := observability.NewMetrics()

	partner := ordergroove.NewClient(ordergroove.ClientConfig{
		BaseURL: cfg.OrdergrooveAPIURL,
		APIKey:  cfg.OrdergrooveAPIKey,
		Timeout: cfg.OrdergrooveHTTPTimeout,
	}, logger, metrics)

	catalog := commercetools.NewClient(commercetools.Config{
		Region:                cfg.CTPRegion,
		ProjectKey:            cfg.CTPProjectKey,
		ClientID:              cfg.CTPClientID,
		ClientSecret:          cfg.CTPClientSecret,
		Scope:                 cfg.CTPScope,
		AuthURL:               cfg.CTPAuthURL,
		APIURL:                cfg.CTPAPIURL,
		CurrencyCode:          cfg.CurrencyCode,
		CountryCode:           cfg.CountryCode,
		DistributionChannelID: cfg.DistributionChannelID,
	}, nil, logger)

	hooks := integration.NewHooks(logger, partner, catalog, integration.Settings{
		LanguageCode:             cfg.LanguageCode,
		CurrencyCode:             cfg.CurrencyCode,
		CountryCode:              cfg.CountryCode,
		DistributionChannelID:    cfg.DistributionChannelID,
		InventorySupplyChannelID: cfg.InventorySupplyChannelID,
		ProductStoreURL:          cfg.ProductStoreURL,
	})
	dispatcher := events.NewDispatcher(logger, metrics)
	hooks.Register(dispatcher)

	router := app.NewRouter(app.RouterParams{
		Logger:       logger,
		Config:       cfg,
		EventHandler: events.NewHandler(logger, dispatcher),
		Metrics:      metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Error("http server", slog.Any("error", err))
		os.Exit(1)
	}
}
