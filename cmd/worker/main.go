package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/matchdaylabs/football-sync/internal/app"
	"github.com/matchdaylabs/football-sync/internal/config"
	"github.com/matchdaylabs/football-sync/internal/infrastructure/queue"
	"github.com/matchdaylabs/football-sync/internal/observability"
	"github.com/matchdaylabs/football-sync/internal/platform/logging"
	"github.com/matchdaylabs/football-sync/internal/usecase"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(2)
	}

	logger, logShutdown, err := observability.InitBetterStackLogger(cfg, logging.NewJSON(cfg.LogLevel))
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}

	uptraceShutdown, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}
	pyroscopeStop, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}
	pprofSrv, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		logger.Error("start pprof server", "error", err)
		os.Exit(1)
	}

	components, closeComponents, err := app.NewComponents(cfg, logger)
	if err != nil {
		logger.Error("build components", "error", err)
		os.Exit(1)
	}

	teamSync := usecase.NewTeamSyncService(components.Source, components.Countries, components.Teams, cfg.SyncMaxAttempts, logger)
	teamWorker := usecase.NewTeamBatchWorker(teamSync, components.Countries, logger)
	standingsSync := usecase.NewStandingsSyncService(components.Source, components.Teams, components.Standings, cfg.SyncMaxAttempts, logger)
	standingsWorker := usecase.NewStandingsBatchWorker(standingsSync, components.Leagues, logger)

	runner, err := queue.NewRunner(components.Queue, queue.RunnerConfig{
		PoolSize: cfg.WorkerPoolSize,
		PopWait:  cfg.QueuePopWait,
	}, logger)
	if err != nil {
		logger.Error("build worker runner", "error", err)
		os.Exit(1)
	}

	validate := validator.New()
	runner.Register(queue.TaskSyncTeams,
		usecase.RetryPolicy{MaxAttempts: cfg.SyncMaxAttempts, Backoff: usecase.FixedBackoff(cfg.TeamRetryDelay)},
		func(ctx context.Context, raw json.RawMessage, attempt int) usecase.Outcome {
			var payload queue.TeamBatchPayload
			if err := decodePayload(validate, raw, &payload); err != nil {
				return usecase.Permanent("decode team batch payload", err)
			}
			return teamWorker.Run(ctx, payload.Countries, attempt)
		},
	)
	runner.Register(queue.TaskSyncStandings,
		usecase.RetryPolicy{MaxAttempts: cfg.SyncMaxAttempts, Backoff: usecase.ExponentialBackoff(cfg.StandingsBackoffBase)},
		func(ctx context.Context, raw json.RawMessage, attempt int) usecase.Outcome {
			var payload queue.StandingsBatchPayload
			if err := decodePayload(validate, raw, &payload); err != nil {
				return usecase.Permanent("decode standings batch payload", err)
			}
			return standingsWorker.Run(ctx, payload.LeagueIDs, attempt)
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var scheduler *cron.Cron
	if cfg.FixtureRefreshEnabled {
		fixtureSync := usecase.NewFixtureSyncService(components.Source, components.Leagues, components.Teams, components.Fixtures, logger)
		scheduler = cron.New()
		_, err := scheduler.AddFunc(cfg.FixtureRefreshSpec, func() {
			if err := fixtureSync.SyncLeagues(ctx, cfg.TrackedLeagueIDs); err != nil {
				logger.ErrorContext(ctx, "scheduled fixture refresh failed", "error", err)
			}
		})
		if err != nil {
			logger.Error("schedule fixture refresh", "spec", cfg.FixtureRefreshSpec, "error", err)
			os.Exit(1)
		}
		scheduler.Start()
		logger.Info("fixture refresh scheduled", "spec", cfg.FixtureRefreshSpec, "leagues", len(cfg.TrackedLeagueIDs))
	}

	runner.Run(ctx)

	if scheduler != nil {
		<-scheduler.Stop().Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := closeComponents(shutdownCtx); err != nil {
		logger.Warn("close components", "error", err)
	}
	if err := observability.StopPprofServer(pprofSrv, logger, 5*time.Second); err != nil {
		logger.Warn("stop pprof server", "error", err)
	}
	if err := pyroscopeStop(); err != nil {
		logger.Warn("stop pyroscope", "error", err)
	}
	if err := uptraceShutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown uptrace", "error", err)
	}
	if err := logShutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown logger: %v\n", err)
	}
}

func decodePayload(validate *validator.Validate, raw json.RawMessage, out any) error {
	if err := sonic.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	if err := validate.Struct(out); err != nil {
		return fmt.Errorf("validate payload: %w", err)
	}
	return nil
}
