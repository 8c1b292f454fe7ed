package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBackoffRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := NewBackoff(time.Millisecond, 3).Do(context.Background(), func(i int) error {
		calls++
		if i < 2 {
			return errors.New("flaky")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestBackoffGivesUp(t *testing.T) {
	calls := 0
	want := errors.New("down")
	err := NewBackoff(time.Millisecond, 2).Do(context.Background(), func(int) error {
		calls++
		return want
	})
	if !errors.Is(err, want) {
		t.Fatalf("expected last error, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 1 try + 2 retries, got %d", calls)
	}
}

func TestBackoffStopsOnPermanent(t *testing.T) {
	calls := 0
	want := errors.New("not found")
	err := NewBackoff(time.Millisecond, 5).Do(context.Background(), func(int) error {
		calls++
		return Permanent(want)
	})
	if !errors.Is(err, want) {
		t.Fatalf("expected unwrapped permanent error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("permanent error must not be retried, got %d calls", calls)
	}
}

func TestBackoffHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewBackoff(time.Hour, 3).Do(ctx, func(int) error { return errors.New("x") })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
