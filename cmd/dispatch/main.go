package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/matchdaylabs/football-sync/internal/app"
	"github.com/matchdaylabs/football-sync/internal/config"
	"github.com/matchdaylabs/football-sync/internal/infrastructure/queue"
	"github.com/matchdaylabs/football-sync/internal/observability"
	"github.com/matchdaylabs/football-sync/internal/platform/logging"
	"github.com/matchdaylabs/football-sync/internal/usecase"
)

func main() {
	entity := flag.String("entity", "", "what to dispatch: teams, standings, leagues or fixtures")
	batchSize := flag.Int("batch-size", 0, "keys per batch (default from DISPATCH_BATCH_SIZE)")
	maxQueue := flag.Int("max-queue", 0, "queue depth ceiling (default from DISPATCH_MAX_QUEUE_DEPTH)")
	wait := flag.Duration("wait", 0, "poll interval while the queue is full (default from DISPATCH_WAIT_INTERVAL)")
	start := flag.Int("start", 0, "skip keys before this offset")
	end := flag.Int("end", 0, "stop at this offset, 0 means all")
	dryRun := flag.Bool("dry-run", false, "log batches without submitting them")
	flag.Parse()

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

	components, closeComponents, err := app.NewComponents(cfg, logger)
	if err != nil {
		logger.Error("build components", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	exitCode := run(ctx, cfg, components, logger, runOptions{
		Entity:    *entity,
		BatchSize: *batchSize,
		MaxQueue:  *maxQueue,
		Wait:      *wait,
		Start:     *start,
		End:       *end,
		DryRun:    *dryRun,
	})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := closeComponents(shutdownCtx); err != nil {
		logger.Warn("close components", "error", err)
	}
	if err := uptraceShutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown uptrace", "error", err)
	}
	if err := logShutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown logger: %v\n", err)
	}

	os.Exit(exitCode)
}

type runOptions struct {
	Entity    string
	BatchSize int
	MaxQueue  int
	Wait      time.Duration
	Start     int
	End       int
	DryRun    bool
}

func run(ctx context.Context, cfg config.Config, components *app.Components, logger *logging.Logger, opts runOptions) int {
	if opts.BatchSize < 1 {
		opts.BatchSize = cfg.DispatchBatchSize
	}
	if opts.MaxQueue < 1 {
		opts.MaxQueue = cfg.DispatchMaxQueueDepth
	}
	if opts.Wait <= 0 {
		opts.Wait = cfg.DispatchWaitInterval
	}

	dispatcher := usecase.NewDispatchService(components.Queue, components.Queue, usecase.DispatcherConfig{
		MaxQueueDepth: opts.MaxQueue,
		WaitInterval:  opts.Wait,
		SubmitDelay:   cfg.DispatchSubmitDelay,
		DryRun:        opts.DryRun,
	}, logger)

	switch opts.Entity {
	case "teams":
		names, err := components.Countries.ListNames(ctx)
		if err != nil {
			logger.WarnContext(ctx, "list countries failed, dispatching nothing", "error", err)
			names = nil
		}
		names = sliceRange(names, opts.Start, opts.End)

		batches := make([]usecase.Batch, 0, len(names)/opts.BatchSize+1)
		for _, chunk := range usecase.Partition(names, opts.BatchSize) {
			batches = append(batches, usecase.Batch{
				Payload: queue.TeamBatchPayload{Countries: chunk},
				Size:    len(chunk),
			})
		}

		summary := dispatcher.Run(ctx, queue.TaskSyncTeams, batches)
		reportSummary(ctx, logger, queue.TaskSyncTeams, summary)
		return 0

	case "standings":
		ids, err := components.Leagues.ListIDs(ctx)
		if err != nil {
			logger.WarnContext(ctx, "list leagues failed, dispatching nothing", "error", err)
			ids = nil
		}
		ids = sliceRange(ids, opts.Start, opts.End)

		batches := make([]usecase.Batch, 0, len(ids)/opts.BatchSize+1)
		for _, chunk := range usecase.Partition(ids, opts.BatchSize) {
			batches = append(batches, usecase.Batch{
				Payload: queue.StandingsBatchPayload{LeagueIDs: chunk},
				Size:    len(chunk),
			})
		}

		summary := dispatcher.Run(ctx, queue.TaskSyncStandings, batches)
		reportSummary(ctx, logger, queue.TaskSyncStandings, summary)
		return 0

	case "leagues":
		svc := usecase.NewLeagueSyncService(components.Source, components.Countries, components.Leagues, logger)
		if err := svc.Sync(ctx); err != nil {
			logger.ErrorContext(ctx, "league catalogue sync failed", "error", err)
			return 1
		}
		return 0

	case "fixtures":
		svc := usecase.NewFixtureSyncService(components.Source, components.Leagues, components.Teams, components.Fixtures, logger)
		if err := svc.SyncLeagues(ctx, cfg.TrackedLeagueIDs); err != nil {
			logger.ErrorContext(ctx, "fixture sync failed", "error", err)
			return 1
		}
		return 0

	default:
		fmt.Fprintln(os.Stderr, "usage: dispatch -entity <teams|standings|leagues|fixtures> [-batch-size N] [-max-queue N] [-wait 10s] [-start N] [-end N] [-dry-run]")
		return 2
	}
}

func reportSummary(ctx context.Context, logger *logging.Logger, task string, summary usecase.DispatchSummary) {
	logger.InfoContext(ctx, "dispatch summary",
		"task", task,
		"submitted", summary.Submitted,
		"failed", summary.Failed,
		"total", summary.Total,
		"aborted", summary.Aborted,
	)
}

// sliceRange clamps [start, end) onto keys. end == 0 means the rest.
func sliceRange[T any](keys []T, start, end int) []T {
	if start < 0 {
		start = 0
	}
	if end <= 0 || end > len(keys) {
		end = len(keys)
	}
	if start >= end {
		return nil
	}
	return keys[start:end]
}
