package logging

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(level Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return FromZap(zap.New(core)), logs
}

func TestLoggerWritesKeyValuePairs(t *testing.T) {
	logger, logs := newObservedLogger(LevelDebug)

	logger.Info("teams synced", "country", "England", "count", 20)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["country"] != "England" || fields["count"] != int64(20) {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestLoggerNamesErrors(t *testing.T) {
	logger, logs := newObservedLogger(LevelDebug)

	logger.Error("standings sync failed", "error", errors.New("pq: timeout"))

	fields := logs.All()[0].ContextMap()
	if fields["error"] != "pq: timeout" {
		t.Fatalf("error field lost: %v", fields)
	}
}

func TestLoggerDanglingKeyGetsNilValue(t *testing.T) {
	logger, logs := newObservedLogger(LevelDebug)

	logger.Info("half pair", "league_id")

	fields := logs.All()[0].ContextMap()
	if v, ok := fields["league_id"]; !ok || v != nil {
		t.Fatalf("expected nil placeholder, got %v", fields)
	}
}

func TestMirrorReceivesRecords(t *testing.T) {
	logger, _ := newObservedLogger(LevelDebug)

	type record struct {
		level Level
		msg   string
		args  []any
	}
	var got []record
	logger.SetMirror(func(_ context.Context, level Level, msg string, args ...any) {
		got = append(got, record{level, msg, args})
	})

	logger.InfoContext(context.Background(), "submitted batch", "task", "sync_teams_batch")
	logger.Warn("queue depth check failed, assuming capacity")

	if len(got) != 2 {
		t.Fatalf("expected 2 mirrored records, got %d", len(got))
	}
	if got[0].msg != "submitted batch" || got[0].level != LevelInfo {
		t.Fatalf("unexpected first record: %+v", got[0])
	}
	if len(got[0].args) != 2 || got[0].args[0] != "task" {
		t.Fatalf("args lost in mirror: %+v", got[0].args)
	}

	logger.SetMirror(nil)
	logger.Info("after removal")
	if len(got) != 2 {
		t.Fatalf("mirror still active after removal")
	}
}

func TestMirrorSharedWithDerivedLoggers(t *testing.T) {
	logger, _ := newObservedLogger(LevelDebug)
	derived := logger.With("component", "worker")

	var count int
	logger.SetMirror(func(context.Context, Level, string, ...any) { count++ })

	derived.Info("worker runner started")
	if count != 1 {
		t.Fatalf("derived logger missed the mirror, count=%d", count)
	}

	// Installing through the derived logger reaches the parent too.
	derived.SetMirror(func(context.Context, Level, string, ...any) { count += 10 })
	logger.Info("dispatch finished")
	if count != 11 {
		t.Fatalf("parent logger missed the replacement, count=%d", count)
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *Logger
	logger.Info("no-op")
	logger.SetMirror(func(context.Context, Level, string, ...any) {})
	if err := logger.Sync(); err != nil {
		t.Fatalf("nil logger Sync: %v", err)
	}
	if derived := logger.With("k", "v"); derived == nil {
		t.Fatal("With on nil logger must return a usable logger")
	}
}
