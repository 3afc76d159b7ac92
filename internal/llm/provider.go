package llm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tomkidron/DigitalFootprintInvestigator/internal/config"
)

// Provider is the language-model oracle: prompt text in, narrative text out.
// The rest of the system treats it as opaque.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Close() error
	Name() string
}

// RateLimiter implements token bucket rate limiting.
type RateLimiter struct {
	mu         sync.Mutex
	tokens     int
	maxTokens  int
	refillRate time.Duration
	lastRefill time.Time
}

// NewRateLimiter creates a limiter allowing requestsPerMinute requests.
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 30
	}
	return &RateLimiter{
		tokens:     requestsPerMinute,
		maxTokens:  requestsPerMinute,
		refillRate: time.Minute / time.Duration(requestsPerMinute),
		lastRefill: time.Now(),
	}
}

// Wait blocks until a token is available or the context is cancelled.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	rl.mu.Lock()

	now := time.Now()
	elapsed := now.Sub(rl.lastRefill)
	tokensToAdd := int(elapsed / rl.refillRate)
	if tokensToAdd > 0 {
		rl.tokens += tokensToAdd
		if rl.tokens > rl.maxTokens {
			rl.tokens = rl.maxTokens
		}
		rl.lastRefill = now
	}

	if rl.tokens <= 0 {
		waitTime := rl.refillRate
		rl.mu.Unlock()

		select {
		case <-time.After(waitTime):
			rl.mu.Lock()
			rl.tokens = 1
			rl.lastRefill = time.Now()
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	rl.tokens--
	rl.mu.Unlock()
	return nil
}

// MultiProviderClient fans a completion out to the first healthy provider,
// rotating to the next one after repeated failures.
type MultiProviderClient struct {
	providers    []Provider
	limiters     []*RateLimiter
	currentIndex int
	failures     int
	maxFailures  int
	mu           sync.Mutex
	logger       *zap.Logger
}

// NewMultiProviderClient builds providers from configuration. At least one
// provider must initialize successfully.
func NewMultiProviderClient(configs []config.ProviderConfig, logger *zap.Logger) (*MultiProviderClient, error) {
	client := &MultiProviderClient{
		maxFailures: 3,
		logger:      logger,
	}

	for _, cfg := range configs {
		provider, err := newProvider(cfg, logger)
		if err != nil {
			logger.Warn("Skipping LLM provider",
				zap.String("type", cfg.Type),
				zap.Error(err))
			continue
		}
		client.providers = append(client.providers, provider)
		client.limiters = append(client.limiters, NewRateLimiter(cfg.RequestsPerMinute))
	}

	if len(client.providers) == 0 {
		return nil, fmt.Errorf("no usable LLM providers configured")
	}

	logger.Info("Multi-provider LLM client initialized",
		zap.Int("provider_count", len(client.providers)))
	return client, nil
}

func newProvider(cfg config.ProviderConfig, logger *zap.Logger) (Provider, error) {
	switch cfg.Type {
	case "gemini":
		return NewGeminiClient(cfg, logger)
	case "groq":
		return NewGroqClient(cfg, logger)
	case "openrouter":
		return NewOpenRouterClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}

// Complete sends the prompt to the current provider, rotating to the next
// after maxFailures consecutive errors.
func (m *MultiProviderClient) Complete(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for attempt := 0; attempt < len(m.providers); attempt++ {
		m.mu.Lock()
		idx := m.currentIndex
		m.mu.Unlock()

		if err := m.limiters[idx].Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit wait cancelled: %w", err)
		}

		result, err := m.providers[idx].Complete(ctx, prompt)
		if err == nil {
			m.mu.Lock()
			m.failures = 0
			m.mu.Unlock()
			return result, nil
		}

		lastErr = err
		m.logger.Warn("LLM provider failed",
			zap.String("provider", m.providers[idx].Name()),
			zap.Error(err))

		m.mu.Lock()
		m.failures++
		if m.failures >= m.maxFailures || len(m.providers) > 1 {
			m.currentIndex = (m.currentIndex + 1) % len(m.providers)
			m.failures = 0
			m.logger.Info("Switched LLM provider",
				zap.String("provider", m.providers[m.currentIndex].Name()))
		}
		m.mu.Unlock()
	}

	return "", fmt.Errorf("all LLM providers failed: %w", lastErr)
}

// Close closes every underlying provider.
func (m *MultiProviderClient) Close() error {
	var firstErr error
	for _, p := range m.providers {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Name reports the currently selected provider.
func (m *MultiProviderClient) Name() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.providers[m.currentIndex].Name()
}
