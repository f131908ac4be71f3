package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc"

	"github.com/matchdaylabs/football-sync/internal/platform/logging"
	"github.com/matchdaylabs/football-sync/internal/usecase"
)

// HandlerFunc processes one unit of work. attempt is the zero-based retry
// counter carried on the envelope.
type HandlerFunc func(ctx context.Context, payload json.RawMessage, attempt int) usecase.Outcome

type taskHandler struct {
	policy usecase.RetryPolicy
	handle HandlerFunc
}

type RunnerConfig struct {
	PoolSize     int
	PopWait      time.Duration
	PumpInterval time.Duration
}

// Runner consumes envelopes from the queue and executes them on a bounded
// worker pool. Retryable outcomes are re-enqueued with the task's backoff
// delay until the attempt budget is spent.
type Runner struct {
	queue        *RedisQueue
	pool         *ants.Pool
	validate     *validator.Validate
	logger       *logging.Logger
	handlers     map[string]taskHandler
	popWait      time.Duration
	pumpInterval time.Duration
	jobs         sync.WaitGroup
}

func NewRunner(q *RedisQueue, cfg RunnerConfig, logger *logging.Logger) (*Runner, error) {
	if cfg.PoolSize < 1 {
		cfg.PoolSize = 8
	}
	if cfg.PopWait <= 0 {
		cfg.PopWait = 5 * time.Second
	}
	if cfg.PumpInterval <= 0 {
		cfg.PumpInterval = time.Second
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	pool, err := ants.NewPool(cfg.PoolSize)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	return &Runner{
		queue:        q,
		pool:         pool,
		validate:     validator.New(),
		logger:       logger,
		handlers:     make(map[string]taskHandler),
		popWait:      cfg.PopWait,
		pumpInterval: cfg.PumpInterval,
	}, nil
}

// Register binds a task name to its handler and retry policy. Not safe to call
// once Run has started.
func (r *Runner) Register(task string, policy usecase.RetryPolicy, handle HandlerFunc) {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	r.handlers[task] = taskHandler{policy: policy, handle: handle}
}

// Run blocks until ctx is cancelled, then waits for in-flight jobs to finish.
func (r *Runner) Run(ctx context.Context) {
	var background conc.WaitGroup
	background.Go(func() {
		r.pumpLoop(ctx)
	})

	r.logger.InfoContext(ctx, "worker runner started",
		"pool_size", r.pool.Cap(),
		"tasks", len(r.handlers),
	)

	for ctx.Err() == nil {
		env, err := r.queue.Dequeue(ctx, r.popWait)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			r.logger.WarnContext(ctx, "dequeue failed", "error", err)
			_ = usecase.SleepWithContext(ctx, time.Second)
			continue
		}
		if env == nil {
			continue
		}
		r.submit(ctx, *env)
	}

	background.Wait()
	r.jobs.Wait()
	r.pool.Release()
	r.logger.Info("worker runner stopped")
}

func (r *Runner) submit(ctx context.Context, env Envelope) {
	if err := r.validate.Struct(env); err != nil {
		r.logger.ErrorContext(ctx, "invalid envelope, dropping", "task", env.Task, "error", err)
		return
	}

	handler, ok := r.handlers[env.Task]
	if !ok {
		r.logger.ErrorContext(ctx, "unknown task, dropping", "task", env.Task)
		return
	}

	r.jobs.Add(1)
	if err := r.pool.Submit(func() {
		defer r.jobs.Done()
		r.execute(ctx, handler, env)
	}); err != nil {
		r.jobs.Done()
		r.logger.ErrorContext(ctx, "submit to worker pool failed", "task", env.Task, "error", err)
	}
}

func (r *Runner) execute(ctx context.Context, handler taskHandler, env Envelope) {
	start := time.Now()
	out := handler.handle(ctx, env.Payload, env.Attempt)

	switch out.Kind {
	case usecase.OutcomeSuccess:
		r.logger.DebugContext(ctx, "task done",
			"task", env.Task,
			"attempt", env.Attempt,
			"duration_ms", time.Since(start).Milliseconds(),
		)

	case usecase.OutcomeRetryable:
		next := env.Attempt + 1
		if next >= handler.policy.MaxAttempts {
			r.logger.ErrorContext(ctx, "task retry budget exhausted",
				"task", env.Task,
				"attempt", env.Attempt,
				"reason", out.Reason,
				"error", out.Err,
			)
			return
		}

		delay := time.Duration(0)
		if handler.policy.Backoff != nil {
			delay = handler.policy.Backoff(env.Attempt)
		}
		retry := Envelope{Task: env.Task, Attempt: next, Payload: env.Payload}
		if err := r.queue.EnqueueDelayed(ctx, retry, delay); err != nil {
			r.logger.ErrorContext(ctx, "schedule retry failed",
				"task", env.Task,
				"attempt", env.Attempt,
				"error", err,
			)
			return
		}
		r.logger.WarnContext(ctx, "task retry scheduled",
			"task", env.Task,
			"next_attempt", next,
			"delay", delay,
			"reason", out.Reason,
		)

	case usecase.OutcomePermanent:
		r.logger.ErrorContext(ctx, "task failed permanently",
			"task", env.Task,
			"attempt", env.Attempt,
			"reason", out.Reason,
			"error", out.Err,
		)
	}
}

func (r *Runner) pumpLoop(ctx context.Context) {
	ticker := time.NewTicker(r.pumpInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			moved, err := r.queue.PumpDelayed(ctx)
			if err != nil && ctx.Err() == nil {
				r.logger.WarnContext(ctx, "pump delayed jobs failed", "error", err)
				continue
			}
			if moved > 0 {
				r.logger.DebugContext(ctx, "delayed jobs promoted", "count", moved)
			}
		}
	}
}
