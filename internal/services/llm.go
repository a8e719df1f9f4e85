package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net"
	"time"
)

// CompletionRequest is one system+user exchange with a text-completion model.
type CompletionRequest struct {
	System string
	Prompt string
}

// LLMClient sends a single completion request and returns the raw model text.
// Failures are reported as *ProviderError.
type LLMClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Name() string
}

// RetryPolicy controls transport-level retries of provider calls.
type RetryPolicy struct {
	MaxRetries  int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

var DefaultRetryPolicy = RetryPolicy{
	MaxRetries:  2,
	InitialWait: 500 * time.Millisecond,
	MaxWait:     8 * time.Second,
	Multiplier:  2.0,
}

// retryDo runs fn until it succeeds, returns a non-retryable error, or the
// policy is exhausted. Waits grow exponentially and respect ctx.
func retryDo[T any](ctx context.Context, rp RetryPolicy, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= rp.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRetryable(err) {
			return zero, err
		}

		if attempt < rp.MaxRetries {
			wait := time.Duration(float64(rp.InitialWait) * math.Pow(rp.Multiplier, float64(attempt)))
			if wait > rp.MaxWait {
				wait = rp.MaxWait
			}
			log.Printf("⚠️ Attempt %d failed: %v. Retrying in %s...", attempt+1, err, wait)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}
	}
	return zero, lastErr
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var provErr *ProviderError
	if errors.As(err, &provErr) && provErr.StatusCode != 0 {
		return isRetryableStatus(provErr.StatusCode)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return false
}

func isRetryableStatus(code int) bool {
	switch code {
	case 429, 500, 502, 503, 504:
		return true
	}
	return false
}

// LLMOptions configures NewLLMClient.
type LLMOptions struct {
	Provider string

	PerplexityAPIKey  string
	PerplexityBaseURL string
	PerplexityModel   string

	GeminiAPIKey string
	GeminiModel  string

	RequestsPerMinute int
	Retry             RetryPolicy
	HTTPTimeout       time.Duration
}

// NewLLMClient builds the completion client for the configured provider.
func NewLLMClient(ctx context.Context, opts LLMOptions) (LLMClient, error) {
	switch opts.Provider {
	case "", "perplexity":
		return NewPerplexityClient(PerplexityOptions{
			APIKey:            opts.PerplexityAPIKey,
			BaseURL:           opts.PerplexityBaseURL,
			Model:             opts.PerplexityModel,
			RequestsPerMinute: opts.RequestsPerMinute,
			Retry:             opts.Retry,
			Timeout:           opts.HTTPTimeout,
		})
	case "gemini":
		return NewGeminiClient(ctx, GeminiOptions{
			APIKey: opts.GeminiAPIKey,
			Model:  opts.GeminiModel,
			Retry:  opts.Retry,
		})
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", opts.Provider)
	}
}
