package retry

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRetryer_SucceedsAfterFailures(t *testing.T) {
	retryer, err := NewRetryer(Config{
		Enabled:     true,
		MaxAttempts: 5,
		Strategy:    StrategyConstant,
		InitialWait: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Failed to create retryer: %v", err)
	}

	attempts := 0
	err = retryer.Do(context.Background(), func(_ context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary failure")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("Expected eventual success, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

func TestRetryer_MaxAttemptsExceeded(t *testing.T) {
	retryer, err := NewRetryer(Config{
		Enabled:     true,
		MaxAttempts: 3,
		Strategy:    StrategyConstant,
		InitialWait: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Failed to create retryer: %v", err)
	}

	attempts := 0
	failure := errors.New("broker unavailable")
	err = retryer.Do(context.Background(), func(_ context.Context) error {
		attempts++
		return failure
	})

	if err == nil {
		t.Fatal("Expected error after exhausting attempts")
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
	if !errors.Is(err, failure) {
		t.Error("Expected wrapped original error")
	}
	if !strings.Contains(err.Error(), "max retry attempts") {
		t.Errorf("Expected max attempts message, got: %v", err)
	}
}

func TestRetryer_DisabledRunsOnce(t *testing.T) {
	retryer, err := NewRetryer(Config{Enabled: false})
	if err != nil {
		t.Fatalf("Failed to create retryer: %v", err)
	}

	attempts := 0
	failure := errors.New("failure")
	err = retryer.Do(context.Background(), func(_ context.Context) error {
		attempts++
		return failure
	})

	if !errors.Is(err, failure) {
		t.Errorf("Expected original error without wrapping, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected exactly 1 attempt when disabled, got %d", attempts)
	}
}

func TestRetryer_ContextCancellation(t *testing.T) {
	retryer, err := NewRetryer(Config{
		Enabled:     true,
		MaxAttempts: 0, // без лимита
		Strategy:    StrategyConstant,
		InitialWait: 50 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Failed to create retryer: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err = retryer.Do(ctx, func(_ context.Context) error {
		return errors.New("always fails")
	})

	if err == nil {
		t.Fatal("Expected error after context cancellation")
	}
	if !strings.Contains(err.Error(), "context cancelled") {
		t.Errorf("Expected cancellation message, got: %v", err)
	}
}

func TestRetryer_OnRetryCallback(t *testing.T) {
	var callbacks []int

	retryer, err := NewRetryer(Config{
		Enabled:     true,
		MaxAttempts: 3,
		Strategy:    StrategyConstant,
		InitialWait: time.Millisecond,
		OnRetry: func(attempt int, _ error, _ time.Duration) {
			callbacks = append(callbacks, attempt)
		},
	})
	if err != nil {
		t.Fatalf("Failed to create retryer: %v", err)
	}

	_ = retryer.Do(context.Background(), func(_ context.Context) error {
		return errors.New("failure")
	})

	// Callback вызывается перед каждой повторной попыткой
	if len(callbacks) != 2 {
		t.Fatalf("Expected 2 callbacks, got %d", len(callbacks))
	}
	if callbacks[0] != 1 || callbacks[1] != 2 {
		t.Errorf("Unexpected callback attempts: %v", callbacks)
	}
}

func TestCalculateDelay(t *testing.T) {
	tests := []struct {
		strategy Strategy
		attempt  int
		want     time.Duration
	}{
		{StrategyConstant, 1, 100 * time.Millisecond},
		{StrategyConstant, 5, 100 * time.Millisecond},
		{StrategyLinear, 1, 100 * time.Millisecond},
		{StrategyLinear, 3, 300 * time.Millisecond},
		{StrategyExponential, 1, 100 * time.Millisecond},
		{StrategyExponential, 3, 400 * time.Millisecond},
	}

	for _, tt := range tests {
		retryer, err := NewRetryer(Config{
			Enabled:     true,
			Strategy:    tt.strategy,
			InitialWait: 100 * time.Millisecond,
			MaxWait:     10 * time.Second,
		})
		if err != nil {
			t.Fatalf("Failed to create retryer: %v", err)
		}

		if got := retryer.calculateDelay(tt.attempt); got != tt.want {
			t.Errorf("%s attempt %d: expected %v, got %v", tt.strategy, tt.attempt, tt.want, got)
		}
	}
}

func TestCalculateDelay_MaxWaitCap(t *testing.T) {
	retryer, err := NewRetryer(Config{
		Enabled:     true,
		Strategy:    StrategyExponential,
		InitialWait: time.Second,
		MaxWait:     5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to create retryer: %v", err)
	}

	if got := retryer.calculateDelay(10); got != 5*time.Second {
		t.Errorf("Expected delay capped at 5s, got %v", got)
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := (Config{Enabled: true, Strategy: "quadratic"}).Validate(); err == nil {
		t.Error("Expected error for unknown strategy")
	}
	if err := (Config{Enabled: true, MaxAttempts: -1}).Validate(); err == nil {
		t.Error("Expected error for negative max attempts")
	}
	// Выключенный retry не валидируется
	if err := (Config{Enabled: false, Strategy: "quadratic"}).Validate(); err != nil {
		t.Errorf("Expected disabled config to pass validation, got %v", err)
	}
}
