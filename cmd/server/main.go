package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"

	docs "backtest_server/docs"
	"backtest_server/internal/config"
	"backtest_server/internal/domain"
	"backtest_server/internal/infra/db"
	applogger "backtest_server/internal/infra/logger"
	"backtest_server/internal/infra/marketdata"
	"backtest_server/internal/infra/repository"
	httptransport "backtest_server/internal/transport/http"
	"backtest_server/internal/transport/ws"
	"backtest_server/internal/usecase"
)

// @title Backtest Simulation Server API
// @version 1.0
// @description API for trade-setup backtesting simulations, stored setups, and run history.
// @BasePath /api/v1

func main() {
	rootCtx := context.Background()

	applogger.Init("info")
	logger := applogger.Logger

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	applogger.Init(cfg.Logging.Level)
	logger = applogger.Logger
	logger.Info().Str("level", cfg.Logging.Level).Msg("logger initialized")

	docs.SwaggerInfo.Title = "Backtest Simulation Server API"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.BasePath = "/api/v1"

	logger.Info().Str("dsn", maskDSN(cfg.Database.DSN)).Msg("connecting to database")
	gormDB, err := db.Connect(rootCtx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal().Err(err).Msg("underlying sql db")
	}
	defer sqlDB.Close()

	if err := db.ApplyMigrations(rootCtx, gormDB); err != nil {
		logger.Fatal().Err(err).Msg("apply migrations")
	}
	logger.Info().Msg("migrations applied")

	provider, err := marketdata.NewTimeSeriesClient(cfg.MarketData.BaseURL, cfg.MarketData.APIKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("init market data client")
	}

	setupRepo, err := repository.NewGormSetupRepository(gormDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("init setup repository")
	}
	runRepo, err := repository.NewGormSimulationRepository(gormDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("init simulation repository")
	}

	hub := ws.NewHub(logger)
	go hub.Run()
	go func() {
		if err := hub.Serve(":" + cfg.Server.WSPort); err != nil {
			logger.Error().Err(err).Msg("notification hub stopped")
		}
	}()

	simService, err := usecase.NewSimulationService(provider, setupRepo, runRepo, hub, domain.SimulationParams{
		PositionSize: cfg.Simulation.PositionSize,
		Leverage:     cfg.Simulation.Leverage,
		ExtendDays:   cfg.Simulation.ExtendDays,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("init simulation service")
	}

	router := httptransport.New(simService)

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		logger.Fatal().Err(err).Msg("init scheduler")
	}
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			logger.Error().Err(err).Msg("scheduler shutdown error")
		}
	}()

	_, err = scheduler.NewJob(
		gocron.DurationJob(cfg.Scheduler.Interval),
		gocron.NewTask(func(ctx context.Context) {
			logger.Info().Msg("scheduled portfolio simulation started")
			run, err := simService.RunPortfolio(ctx, domain.SimulationParams{})
			switch {
			case err == usecase.ErrNoSetups:
				logger.Info().Msg("scheduled simulation skipped, no setups stored")
			case err != nil:
				logger.Error().Err(err).Msg("scheduled simulation error")
			default:
				logger.Info().
					Int64("run_id", run.ID).
					Int("trades", run.Stats.TotalTrades).
					Float64("total_pnl", run.Stats.TotalPnL).
					Msg("scheduled portfolio simulation completed")
			}
		}),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("schedule job")
	}
	scheduler.Start()
	logger.Info().Dur("interval", cfg.Scheduler.Interval).Msg("scheduler started")

	serverErr := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Info().Str("addr", addr).Msg("server listening")
		serverErr <- router.App().Listen(addr)
	}()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Fatal().Err(err).Msg("fiber server error")
		}
	case sig := <-signalCh:
		logger.Info().Str("signal", sig.String()).Msg("received signal, shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := router.App().ShutdownWithContext(ctx); err != nil {
			logger.Error().Err(err).Msg("server shutdown error")
		}
		logger.Info().Msg("server shutdown complete")
	}
}

func maskDSN(dsn string) string {
	if len(dsn) > 20 {
		return dsn[:10] + "***" + dsn[len(dsn)-10:]
	}
	return "***"
}
