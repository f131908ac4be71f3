package usecase

import (
	"reflect"
	"testing"
)

func TestPartition(t *testing.T) {
	t.Run("splits with remainder", func(t *testing.T) {
		got := Partition([]string{"a", "b", "c", "d", "e", "f", "g"}, 3)
		want := [][]string{{"a", "b", "c"}, {"d", "e", "f"}, {"g"}}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("unexpected chunks: %v", got)
		}
	})

	t.Run("short tail", func(t *testing.T) {
		got := Partition([]int64{1, 2, 3, 4, 5, 6, 7}, 5)
		want := [][]int64{{1, 2, 3, 4, 5}, {6, 7}}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("unexpected chunks: %v", got)
		}
	})

	t.Run("exact multiple", func(t *testing.T) {
		got := Partition([]int64{1, 2, 3, 4}, 2)
		if len(got) != 2 || len(got[0]) != 2 || len(got[1]) != 2 {
			t.Fatalf("unexpected chunks: %v", got)
		}
	})

	t.Run("empty input yields no chunks", func(t *testing.T) {
		if got := Partition([]string(nil), 3); got != nil {
			t.Fatalf("expected nil, got %v", got)
		}
	})

	t.Run("non-positive size keeps everything together", func(t *testing.T) {
		got := Partition([]string{"a", "b"}, 0)
		want := [][]string{{"a", "b"}}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("unexpected chunks: %v", got)
		}
	})
}
