package retry

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Strategy - стратегия вычисления задержки между попытками
type Strategy string

const (
	StrategyConstant    Strategy = "constant"
	StrategyLinear      Strategy = "linear"
	StrategyExponential Strategy = "exponential"
)

// Config - конфигурация retry
type Config struct {
	Enabled     bool
	MaxAttempts int           // 0 = без лимита
	Strategy    Strategy      // по умолчанию exponential
	InitialWait time.Duration // задержка первой повторной попытки
	MaxWait     time.Duration // потолок задержки

	// OnRetry - callback перед повторной попыткой
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Validate проверяет конфигурацию
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.MaxAttempts < 0 {
		return fmt.Errorf("max_attempts must not be negative")
	}
	switch c.Strategy {
	case "", StrategyConstant, StrategyLinear, StrategyExponential:
	default:
		return fmt.Errorf("unknown retry strategy: %s", c.Strategy)
	}
	return nil
}

// RetryableFunc - функция, которую можно повторять
type RetryableFunc func(ctx context.Context) error

// Retryer выполняет функцию с повторами.
// Используется для публикации результатов в брокеры и Redis -
// сам пайплайн очистки повторов не имеет (fail-fast)
type Retryer struct {
	config Config
}

// NewRetryer создает новый Retryer
func NewRetryer(config Config) (*Retryer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid retry config: %w", err)
	}
	if config.InitialWait <= 0 {
		config.InitialWait = 500 * time.Millisecond
	}
	if config.MaxWait <= 0 {
		config.MaxWait = 30 * time.Second
	}
	if config.Strategy == "" {
		config.Strategy = StrategyExponential
	}
	return &Retryer{config: config}, nil
}

// Do выполняет функцию с retry
func (r *Retryer) Do(ctx context.Context, fn RetryableFunc) error {
	if !r.config.Enabled {
		return fn(ctx)
	}

	var lastErr error
	attempts := 0

	for {
		attempts++

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if r.config.MaxAttempts > 0 && attempts >= r.config.MaxAttempts {
			return fmt.Errorf("max retry attempts (%d) exceeded: %w", r.config.MaxAttempts, lastErr)
		}

		if ctx.Err() != nil {
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		}

		delay := r.calculateDelay(attempts)
		if r.config.OnRetry != nil {
			r.config.OnRetry(attempts, err, delay)
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		}
	}
}

// calculateDelay вычисляет задержку перед попыткой attempt+1
func (r *Retryer) calculateDelay(attempt int) time.Duration {
	var delay time.Duration

	switch r.config.Strategy {
	case StrategyConstant:
		delay = r.config.InitialWait
	case StrategyLinear:
		delay = time.Duration(attempt) * r.config.InitialWait
	default: // exponential
		delay = time.Duration(float64(r.config.InitialWait) * math.Pow(2, float64(attempt-1)))
	}

	if delay > r.config.MaxWait {
		delay = r.config.MaxWait
	}
	return delay
}
