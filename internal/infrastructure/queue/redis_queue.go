package queue

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"strconv"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"github.com/valyala/bytebufferpool"

	"github.com/matchdaylabs/football-sync/internal/platform/logging"
	"github.com/matchdaylabs/football-sync/internal/platform/resilience"
	"github.com/matchdaylabs/football-sync/internal/usecase"
)

// RedisQueue is a Redis-list backed job queue. Ready jobs live on a plain
// list; delayed retries sit in a sorted set scored by due time and are moved
// back onto the list by PumpDelayed.
type RedisQueue struct {
	client         *redis.Client
	queueKey       string
	delayedKey     string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

type RedisQueueConfig struct {
	URL            string
	QueueName      string
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

func NewRedisQueue(cfg RedisQueueConfig) (*RedisQueue, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	queueKey := cfg.QueueName
	if queueKey == "" {
		queueKey = "football-sync:jobs"
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &RedisQueue{
		client:         redis.NewClient(opts),
		queueKey:       queueKey,
		delayedKey:     queueKey + ":delayed",
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}, nil
}

func (q *RedisQueue) Close() error {
	return q.client.Close()
}

// Enqueue marshals one unit of work and pushes it onto the ready list.
func (q *RedisQueue) Enqueue(ctx context.Context, task string, payload any) error {
	raw, err := sonic.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload task=%s: %w", task, err)
	}

	env := Envelope{Task: task, Attempt: 0, Payload: raw}
	return q.push(ctx, env)
}

func (q *RedisQueue) push(ctx context.Context, env Envelope) error {
	if q.circuitEnabled {
		if err := q.breaker.Allow(); err != nil {
			return fmt.Errorf("%w: circuit open", usecase.ErrSubmitConnection)
		}
	}

	body, err := sonic.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope task=%s: %w", env.Task, err)
	}

	if err := q.client.RPush(ctx, q.queueKey, body).Err(); err != nil {
		if q.circuitEnabled {
			q.breaker.RecordFailure()
		}
		q.logger.ErrorContext(ctx, "queue push failed",
			"task", env.Task,
			"attempt", env.Attempt,
			"payload_preview", previewPayload(env.Payload),
			"error", err,
		)
		return classifySubmitError("push job", err)
	}

	if q.circuitEnabled {
		q.breaker.RecordSuccess()
	}
	return nil
}

// EnqueueDelayed schedules a unit of work to become ready after delay.
func (q *RedisQueue) EnqueueDelayed(ctx context.Context, env Envelope, delay time.Duration) error {
	body, err := sonic.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope task=%s: %w", env.Task, err)
	}

	due := float64(time.Now().Add(delay).UnixMilli())
	if err := q.client.ZAdd(ctx, q.delayedKey, redis.Z{Score: due, Member: body}).Err(); err != nil {
		return classifySubmitError("schedule delayed job", err)
	}
	return nil
}

// Depth reports the number of ready jobs. Delayed jobs are not counted: the
// gauge throttles producers against work the consumers can already see.
func (q *RedisQueue) Depth(ctx context.Context) (int, error) {
	v, err := q.client.LLen(ctx, q.queueKey).Result()
	if err != nil {
		return 0, classifySubmitError("read queue depth", err)
	}
	return int(v), nil
}

// Dequeue blocks up to wait for the next ready job. Returns nil with no error
// when the wait expires without work.
func (q *RedisQueue) Dequeue(ctx context.Context, wait time.Duration) (*Envelope, error) {
	res, err := q.client.BLPop(ctx, wait, q.queueKey).Result()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, classifySubmitError("pop job", err)
	}
	if len(res) != 2 {
		return nil, fmt.Errorf("unexpected BLPOP reply length %d", len(res))
	}

	var env Envelope
	if err := sonic.Unmarshal([]byte(res[1]), &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	return &env, nil
}

// PumpDelayed moves due delayed jobs back onto the ready list. Returns the
// number of jobs moved.
func (q *RedisQueue) PumpDelayed(ctx context.Context) (int, error) {
	now := strconv.FormatInt(time.Now().UnixMilli(), 10)
	members, err := q.client.ZRangeByScore(ctx, q.delayedKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: now,
	}).Result()
	if err != nil {
		return 0, classifySubmitError("list due jobs", err)
	}

	moved := 0
	for _, member := range members {
		removed, err := q.client.ZRem(ctx, q.delayedKey, member).Result()
		if err != nil {
			return moved, classifySubmitError("remove due job", err)
		}
		// Another worker already claimed this member.
		if removed == 0 {
			continue
		}
		if err := q.client.RPush(ctx, q.queueKey, member).Err(); err != nil {
			return moved, classifySubmitError("requeue due job", err)
		}
		moved++
	}

	return moved, nil
}

func classifySubmitError(op string, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %v", op, usecase.ErrSubmitTimeout, err)
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%s: %w: %v", op, usecase.ErrSubmitTimeout, err)
	}
	return fmt.Errorf("%s: %w: %v", op, usecase.ErrSubmitConnection, err)
}

func previewPayload(raw []byte) string {
	const limit = 256

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if len(raw) > limit {
		_, _ = buf.Write(raw[:limit])
		_, _ = buf.WriteString("...")
	} else {
		_, _ = buf.Write(raw)
	}
	return buf.String()
}
