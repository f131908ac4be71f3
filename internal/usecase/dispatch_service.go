package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/matchdaylabs/football-sync/internal/platform/logging"
)

// Submission failure classes reported by TaskQueue implementations.
var (
	// ErrSubmitConnection marks a connection-class failure. The dispatch loop
	// treats it as fatal and stops submitting.
	ErrSubmitConnection = errors.New("task submission connection failure")
	// ErrSubmitTimeout marks a timeout-class failure. The dispatch loop drops
	// the current batch and moves on.
	ErrSubmitTimeout = errors.New("task submission timeout")
)

// QueueGauge reports the number of pending jobs on the dispatch queue. The
// reading is advisory: depth can change between check and submission.
type QueueGauge interface {
	Depth(ctx context.Context) (int, error)
}

// TaskQueue accepts asynchronous units of work.
type TaskQueue interface {
	Enqueue(ctx context.Context, task string, payload any) error
}

// Batch is one unit of work ready for submission. Size is kept separately so
// the dispatcher can skip empty batches without inspecting the payload.
type Batch struct {
	Payload any
	Size    int
}

type DispatcherConfig struct {
	MaxQueueDepth int
	WaitInterval  time.Duration
	SubmitDelay   time.Duration
	DryRun        bool
}

type DispatchSummary struct {
	Submitted int
	Failed    int
	Total     int
	// Aborted is set when a connection-class failure stopped the loop early.
	// Batches submitted before the abort still execute.
	Aborted bool
}

// DispatchService feeds batches onto the task queue without exceeding the
// configured queue depth. It runs synchronously in one control flow and never
// waits for a batch to complete.
type DispatchService struct {
	gauge  QueueGauge
	queue  TaskQueue
	cfg    DispatcherConfig
	logger *logging.Logger
	sleep  Sleeper
}

func NewDispatchService(gauge QueueGauge, queue TaskQueue, cfg DispatcherConfig, logger *logging.Logger) *DispatchService {
	if cfg.MaxQueueDepth < 1 {
		cfg.MaxQueueDepth = 100
	}
	if cfg.WaitInterval <= 0 {
		cfg.WaitInterval = 10 * time.Second
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	return &DispatchService{
		gauge:  gauge,
		queue:  queue,
		cfg:    cfg,
		logger: logger,
		sleep:  SleepWithContext,
	}
}

// WithSleeper replaces the delay function. Tests use it to observe requested
// waits without blocking.
func (s *DispatchService) WithSleeper(sleep Sleeper) *DispatchService {
	if sleep != nil {
		s.sleep = sleep
	}
	return s
}

// Run submits every batch under the given task name and reports aggregate
// counts. Submission failures never surface as an error: connection-class
// failures abort the remaining loop, everything else drops the current batch
// and continues.
func (s *DispatchService) Run(ctx context.Context, task string, batches []Batch) DispatchSummary {
	ctx, span := startUsecaseSpan(ctx, "DispatchService.Run")
	defer span.End()

	summary := DispatchSummary{Total: len(batches)}

	for i, batch := range batches {
		if batch.Size == 0 {
			s.logger.InfoContext(ctx, "skip empty batch", "task", task, "batch", i+1, "total", summary.Total)
			continue
		}

		if s.cfg.DryRun {
			// Dry-run batches count as submitted so the summary matches a
			// real run over the same key list.
			summary.Submitted++
			s.logger.InfoContext(ctx, "dry run: would submit batch",
				"task", task,
				"batch", i+1,
				"total", summary.Total,
				"size", batch.Size,
			)
			continue
		}

		if !s.waitForCapacity(ctx, task) {
			summary.Aborted = true
			break
		}

		if err := s.queue.Enqueue(ctx, task, batch.Payload); err != nil {
			summary.Failed++
			if errors.Is(err, ErrSubmitConnection) {
				s.logger.ErrorContext(ctx, "queue connection lost, aborting dispatch",
					"task", task,
					"batch", i+1,
					"total", summary.Total,
					"error", err,
				)
				summary.Aborted = true
				break
			}
			if errors.Is(err, ErrSubmitTimeout) {
				s.logger.WarnContext(ctx, "submission timed out, dropping batch",
					"task", task,
					"batch", i+1,
					"error", err,
				)
				continue
			}
			s.logger.WarnContext(ctx, "submission failed, dropping batch",
				"task", task,
				"batch", i+1,
				"error", err,
			)
			continue
		}

		summary.Submitted++
		s.logger.InfoContext(ctx, "submitted batch", "task", task, "batch", i+1, "total", summary.Total, "size", batch.Size)

		if s.cfg.SubmitDelay > 0 {
			if err := s.sleep(ctx, s.cfg.SubmitDelay); err != nil {
				summary.Aborted = true
				break
			}
		}
	}

	s.logger.InfoContext(ctx, "dispatch finished",
		"task", task,
		"submitted", summary.Submitted,
		"failed", summary.Failed,
		"total", summary.Total,
		"aborted", summary.Aborted,
	)
	return summary
}

// waitForCapacity blocks until the queue is below the depth ceiling. Returns
// false only when the context is cancelled.
func (s *DispatchService) waitForCapacity(ctx context.Context, task string) bool {
	for {
		depth, err := s.gauge.Depth(ctx)
		if err != nil {
			// The gauge is advisory; a failed reading must not stall dispatch.
			s.logger.WarnContext(ctx, "queue depth check failed, assuming capacity", "task", task, "error", err)
			return ctx.Err() == nil
		}
		if depth < s.cfg.MaxQueueDepth {
			return true
		}

		s.logger.InfoContext(ctx, "queue limit reached, waiting",
			"task", task,
			"depth", depth,
			"ceiling", s.cfg.MaxQueueDepth,
			"wait", s.cfg.WaitInterval,
		)
		if err := s.sleep(ctx, s.cfg.WaitInterval); err != nil {
			return false
		}
	}
}
