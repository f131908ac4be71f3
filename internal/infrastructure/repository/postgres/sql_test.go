package postgres

import (
	"database/sql"
	"errors"
	"testing"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatalf("expected true for sql.ErrNoRows")
	}
	if isNotFound(errors.New("pq: connection refused")) {
		t.Fatalf("expected false for unrelated error")
	}
}

func TestEmptyJSONToNull(t *testing.T) {
	if got := emptyJSONToNull(nil); got != nil {
		t.Fatalf("expected nil for nil input, got %v", got)
	}
	if got := emptyJSONToNull([]byte{}); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
	if got := emptyJSONToNull([]byte(`{"played":5}`)); string(got) != `{"played":5}` {
		t.Fatalf("unexpected passthrough value: %s", got)
	}
}
