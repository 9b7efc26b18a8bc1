package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/osse101/Atelier_Go/internal/bootstrap"
	"github.com/osse101/Atelier_Go/internal/capacity"
	"github.com/osse101/Atelier_Go/internal/concurrency"
	"github.com/osse101/Atelier_Go/internal/config"
	"github.com/osse101/Atelier_Go/internal/database"
	"github.com/osse101/Atelier_Go/internal/handler"
	"github.com/osse101/Atelier_Go/internal/logger"
	"github.com/osse101/Atelier_Go/internal/production"
	"github.com/osse101/Atelier_Go/internal/recipe"
	"github.com/osse101/Atelier_Go/internal/server"
)

func main() {
	if err := run(); err != nil {
		logger.Error("Atelier exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	bootstrap.SetupLogger(cfg, handler.CurrentBuild().Version, os.Stdout)

	if warnings, err := config.ValidateEnvWithWarnings(); err != nil {
		logger.Warn("Environment validation failed, continuing with defaults", "error", err)
	} else {
		for _, w := range warnings {
			logger.Warn(w)
		}
	}

	engineSettings, err := config.LoadEngineSettings(cfg.EngineSettingsPath)
	if err != nil {
		return err
	}
	logger.Info(bootstrap.LogMsgEngineSettings,
		"path", cfg.EngineSettingsPath,
		"mix_factor", engineSettings.Recipe.DefaultMixFactor,
		"wastage_percent", engineSettings.Recipe.DefaultWastagePercent,
		"top_n", engineSettings.Summary.TopN)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := bootstrap.InitTracer(ctx, cfg.OTLPEndpoint, handler.CurrentBuild().Version)
	if err != nil {
		return err
	}

	dbPool, err := database.NewPool(ctx, cfg.GetDBConnString(), database.PoolOptions{
		MaxConns:        cfg.DBMaxConns,
		MaxConnIdleTime: cfg.DBMaxConnIdleTime,
		MaxConnLifetime: cfg.DBMaxConnLifetime,
		ConnectAttempts: database.DefaultConnectAttempts,
	})
	if err != nil {
		return err
	}

	if err := database.RunMigrations(cfg.GetDBConnString(), cfg.MigrationsDir); err != nil {
		dbPool.Close()
		return err
	}

	repos := bootstrap.InitializeRepositories(dbPool)
	if _, err := bootstrap.SyncCatalog(ctx, repos.Catalog, bootstrap.DefaultCatalogSeedPath); err != nil {
		dbPool.Close()
		return err
	}

	eventBus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		dbPool.Close()
		return err
	}
	capacityCache := capacity.NewCache(cfg.CapacityCacheSize, cfg.CapacityCacheTTL)
	bootstrap.RegisterEventHandlers(bootstrap.EventHandlerDependencies{
		EventBus:      eventBus,
		CapacityCache: capacityCache,
	})

	resolver := recipe.NewResolver(engineSettings.Recipe)
	capacityService := capacity.NewService(repos.Catalog, repos.Ledger, capacity.NewEngine(resolver), capacityCache, capacity.Config{
		Concurrency: cfg.AnalysisConcurrency,
		Summary:     engineSettings.Summary,
	})
	productionService := production.NewService(repos.Catalog, repos.Ledger, resolver, concurrency.NewLockManager(), publisher)

	srv := server.NewServer(cfg.Port, cfg.APIKey, cfg.TrustedProxies, dbPool, capacityService, productionService)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
	case err = <-serverErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), bootstrap.ShutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:         srv,
		Publisher:      publisher,
		ShutdownTracer: shutdownTracer,
		DBPool:         dbPool,
	})

	return err
}
