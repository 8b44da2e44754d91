package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(3, 2, time.Minute)

	for i := 0; i < 2; i++ {
		cb.RecordFailure()
	}
	if err := cb.Allow(); err != nil {
		t.Fatalf("breaker should still be closed: %v", err)
	}

	cb.RecordFailure()
	if err := cb.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected open circuit, got %v", err)
	}
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cb := NewCircuitBreaker(1, 2, 10*time.Millisecond)

	cb.RecordFailure()
	if err := cb.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatal("expected open circuit")
	}

	time.Sleep(20 * time.Millisecond)
	if err := cb.Allow(); err != nil {
		t.Fatalf("expected half-open probe to be allowed: %v", err)
	}

	cb.RecordSuccess()
	cb.RecordSuccess()
	state, _, _ := cb.Metrics()
	if state != CircuitClosed {
		t.Errorf("expected closed after recovery, got %s", state)
	}
}

func TestCircuitBreaker_ReopensOnProbeFailure(t *testing.T) {
	cb := NewCircuitBreaker(1, 2, 10*time.Millisecond)

	cb.RecordFailure()
	time.Sleep(20 * time.Millisecond)
	if err := cb.Allow(); err != nil {
		t.Fatal("probe should be allowed")
	}
	cb.RecordFailure()
	if err := cb.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Error("failure during probe should reopen immediately")
	}
}

func TestIsRetriableError(t *testing.T) {
	retriable := []error{
		fmt.Errorf("429 Too Many Requests"),
		fmt.Errorf("rate limit exceeded"),
		fmt.Errorf("503 service unavailable"),
		fmt.Errorf("connection refused"),
		context.DeadlineExceeded,
	}
	for _, err := range retriable {
		if !isRetriableError(err) {
			t.Errorf("expected retriable: %v", err)
		}
	}

	permanent := []error{
		nil,
		fmt.Errorf("401 unauthorized"),
		fmt.Errorf("invalid request body"),
	}
	for _, err := range permanent {
		if isRetriableError(err) {
			t.Errorf("expected non-retriable: %v", err)
		}
	}
}
