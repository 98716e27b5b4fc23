// Package providers holds the concrete model backends (Anthropic, OpenAI,
// Ollama) implementing llm.Provider, plus the retry helper and error
// classification shared across them.
package providers

import (
	"context"
	"time"
)

// Base is embedded by each concrete provider to share retry behavior. It
// holds no transport-specific state.
type Base struct {
	name       string
	maxRetries int
	retryDelay time.Duration
}

// NewBase returns a Base with the given name. maxRetries<=0 defaults to 3,
// retryDelay<=0 defaults to one second.
func NewBase(name string, maxRetries int, retryDelay time.Duration) Base {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelay <= 0 {
		retryDelay = time.Second
	}
	return Base{name: name, maxRetries: maxRetries, retryDelay: retryDelay}
}

// Name returns the provider name this Base was constructed with.
func (b Base) Name() string { return b.name }

// Retry runs op, retrying with linear backoff (retryDelay * attempt number)
// while isRetryable(err) holds and attempts remain. It honors ctx
// cancellation between attempts and returns the last error otherwise.
func (b Base) Retry(ctx context.Context, isRetryable func(error) bool, op func() error) error {
	var lastErr error
	for attempt := 0; attempt < b.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(b.retryDelay * time.Duration(attempt)):
			}
		}
		err := op()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isRetryable(err) {
			return err
		}
	}
	return lastErr
}
