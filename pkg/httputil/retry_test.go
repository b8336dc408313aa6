package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errBoom = errors.New("boom")

func TestRetrySuccessFirstTry(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("should call once: %d", calls)
	}
}

func TestRetryNonRetryableStopsImmediately(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), func() error {
		calls++
		return errBoom
	})
	if err != errBoom {
		t.Errorf("should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("should not retry non-retryable error: %d", calls)
	}
}

func TestRetryRetryableEventuallySucceeds(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 2 {
			return Retryable(errBoom)
		}
		return nil
	})
	if err != nil {
		t.Errorf("should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("should retry once: %d", calls)
	}
}

func TestRetryBudgetExhaustion(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return Retryable(errBoom)
	})
	if !errors.Is(err, errBoom) {
		t.Errorf("should surface last error after exhaustion: %v", err)
	}
	if calls != 3 {
		t.Errorf("should stop at the attempt budget: %d", calls)
	}
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(errBoom)
	})
	if err != context.Canceled {
		t.Errorf("should return context error: %v", err)
	}
}

func TestRetryableNil(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	if IsRetryable(errBoom) {
		t.Error("unwrapped error should not be retryable")
	}
	wrapped := Retryable(errBoom)
	if !IsRetryable(wrapped) {
		t.Error("wrapped error should be retryable")
	}
	if wrapped.Error() != errBoom.Error() {
		t.Errorf("message should be preserved: %s", wrapped.Error())
	}
	if !errors.Is(wrapped, errBoom) {
		t.Error("wrapped error should unwrap to the original")
	}
}
