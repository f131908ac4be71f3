package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"
)

type stubGauge struct {
	depths []int
	err    error
	calls  int
}

func (g *stubGauge) Depth(context.Context) (int, error) {
	if g.err != nil {
		return 0, g.err
	}
	idx := g.calls
	if idx >= len(g.depths) {
		idx = len(g.depths) - 1
	}
	g.calls++
	return g.depths[idx], nil
}

type stubQueue struct {
	errs      []error
	submitted []any
}

func (q *stubQueue) Enqueue(_ context.Context, _ string, payload any) error {
	call := len(q.submitted)
	q.submitted = append(q.submitted, payload)
	if call < len(q.errs) {
		return q.errs[call]
	}
	return nil
}

func noSleep(delays *[]time.Duration) Sleeper {
	return func(_ context.Context, d time.Duration) error {
		if delays != nil {
			*delays = append(*delays, d)
		}
		return nil
	}
}

func batchesOf(sizes ...int) []Batch {
	out := make([]Batch, 0, len(sizes))
	for i, size := range sizes {
		out = append(out, Batch{Payload: fmt.Sprintf("payload-%d", i), Size: size})
	}
	return out
}

func TestDispatchRun_SubmitsAllBatches(t *testing.T) {
	gauge := &stubGauge{depths: []int{0}}
	q := &stubQueue{}
	svc := NewDispatchService(gauge, q, DispatcherConfig{MaxQueueDepth: 100, WaitInterval: time.Second}, nil).
		WithSleeper(noSleep(nil))

	summary := svc.Run(context.Background(), "sync_teams_batch", batchesOf(3, 3, 1))

	if summary.Submitted != 3 || summary.Failed != 0 || summary.Total != 3 || summary.Aborted {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(q.submitted) != 3 {
		t.Fatalf("expected 3 submissions, got %d", len(q.submitted))
	}
}

func TestDispatchRun_WaitsWhileQueueAtCeiling(t *testing.T) {
	// First reading is at the ceiling, the second is below it: exactly one
	// wait interval before the batch goes out.
	gauge := &stubGauge{depths: []int{100, 50}}
	q := &stubQueue{}
	var delays []time.Duration
	svc := NewDispatchService(gauge, q, DispatcherConfig{MaxQueueDepth: 100, WaitInterval: 10 * time.Second}, nil).
		WithSleeper(noSleep(&delays))

	summary := svc.Run(context.Background(), "sync_standings_batch", batchesOf(5))

	if summary.Submitted != 1 {
		t.Fatalf("expected 1 submission, got %+v", summary)
	}
	if len(delays) != 1 || delays[0] != 10*time.Second {
		t.Fatalf("expected one 10s wait, got %v", delays)
	}
	if gauge.calls != 2 {
		t.Fatalf("expected 2 depth checks, got %d", gauge.calls)
	}
}

func TestDispatchRun_GaugeErrorAssumesCapacity(t *testing.T) {
	gauge := &stubGauge{err: fmt.Errorf("gauge offline")}
	q := &stubQueue{}
	svc := NewDispatchService(gauge, q, DispatcherConfig{MaxQueueDepth: 100, WaitInterval: time.Second}, nil).
		WithSleeper(noSleep(nil))

	summary := svc.Run(context.Background(), "sync_teams_batch", batchesOf(2, 2))

	if summary.Submitted != 2 || summary.Aborted {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestDispatchRun_ConnectionFailureAborts(t *testing.T) {
	gauge := &stubGauge{depths: []int{0}}
	q := &stubQueue{errs: []error{nil, fmt.Errorf("dial redis: %w", ErrSubmitConnection)}}
	svc := NewDispatchService(gauge, q, DispatcherConfig{MaxQueueDepth: 100, WaitInterval: time.Second}, nil).
		WithSleeper(noSleep(nil))

	summary := svc.Run(context.Background(), "sync_teams_batch", batchesOf(1, 1, 1))

	if !summary.Aborted {
		t.Fatalf("expected aborted summary, got %+v", summary)
	}
	if summary.Submitted != 1 || summary.Failed != 1 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
	if len(q.submitted) != 2 {
		t.Fatalf("expected loop to stop after connection failure, got %d submissions", len(q.submitted))
	}
}

func TestDispatchRun_TimeoutDropsBatchAndContinues(t *testing.T) {
	gauge := &stubGauge{depths: []int{0}}
	q := &stubQueue{errs: []error{fmt.Errorf("blpush: %w", ErrSubmitTimeout)}}
	svc := NewDispatchService(gauge, q, DispatcherConfig{MaxQueueDepth: 100, WaitInterval: time.Second}, nil).
		WithSleeper(noSleep(nil))

	summary := svc.Run(context.Background(), "sync_teams_batch", batchesOf(1, 1))

	if summary.Aborted {
		t.Fatalf("timeout must not abort the loop: %+v", summary)
	}
	if summary.Submitted != 1 || summary.Failed != 1 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
}

func TestDispatchRun_EmptyBatchSkipped(t *testing.T) {
	gauge := &stubGauge{depths: []int{0}}
	q := &stubQueue{}
	svc := NewDispatchService(gauge, q, DispatcherConfig{MaxQueueDepth: 100, WaitInterval: time.Second}, nil).
		WithSleeper(noSleep(nil))

	summary := svc.Run(context.Background(), "sync_teams_batch", batchesOf(0, 2))

	if summary.Submitted != 1 || summary.Failed != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(q.submitted) != 1 {
		t.Fatalf("empty batch must not reach the queue, got %d submissions", len(q.submitted))
	}
}

func TestDispatchRun_DryRunCountsWithoutSubmitting(t *testing.T) {
	gauge := &stubGauge{depths: []int{100}}
	q := &stubQueue{}
	svc := NewDispatchService(gauge, q, DispatcherConfig{MaxQueueDepth: 100, WaitInterval: time.Second, DryRun: true}, nil).
		WithSleeper(noSleep(nil))

	summary := svc.Run(context.Background(), "sync_teams_batch", batchesOf(3, 3))

	if summary.Submitted != 2 || summary.Failed != 0 || summary.Total != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(q.submitted) != 0 {
		t.Fatalf("dry run must not submit, got %d", len(q.submitted))
	}
	if gauge.calls != 0 {
		t.Fatalf("dry run must not poll the gauge, got %d calls", gauge.calls)
	}
}
