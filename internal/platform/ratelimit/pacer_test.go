package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestTokenBucketPacesAfterBurst(t *testing.T) {
	pacer := NewTokenBucket(30*time.Millisecond, 1)
	ctx := context.Background()

	if err := pacer.Wait(ctx); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	started := time.Now()
	if err := pacer.Wait(ctx); err != nil {
		t.Fatalf("second wait: %v", err)
	}
	if elapsed := time.Since(started); elapsed < 20*time.Millisecond {
		t.Fatalf("second wait returned after %s, expected pacing delay", elapsed)
	}
}

func TestTokenBucketNoIntervalNeverBlocks(t *testing.T) {
	pacer := NewTokenBucket(0, 1)
	ctx := context.Background()

	started := time.Now()
	for i := 0; i < 100; i++ {
		if err := pacer.Wait(ctx); err != nil {
			t.Fatalf("wait %d: %v", i, err)
		}
	}
	if elapsed := time.Since(started); elapsed > 100*time.Millisecond {
		t.Fatalf("unlimited pacer blocked for %s", elapsed)
	}
}

func TestTokenBucketHonorsContextCancellation(t *testing.T) {
	pacer := NewTokenBucket(time.Hour, 1)
	ctx, cancel := context.WithCancel(context.Background())

	if err := pacer.Wait(ctx); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	cancel()
	if err := pacer.Wait(ctx); err == nil {
		t.Fatal("expected error from canceled context")
	}
}

func TestNoopPacer(t *testing.T) {
	var pacer NoopPacer

	if err := pacer.Wait(context.Background()); err != nil {
		t.Fatalf("noop wait: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := pacer.Wait(ctx); err == nil {
		t.Fatal("expected canceled context error")
	}
}
