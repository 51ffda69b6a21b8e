package cascade

import (
	"context"
	"fmt"
	"time"

	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/internal/pkg/logger"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/llm"
)

// Completion is the structured outcome of a cascade call. Failure is a value,
// not an error: callers branch on Success and fall back to canned narratives
// instead of propagating the provider error upward.
type Completion struct {
	Success  bool
	Content  string
	Provider string
	Elapsed  time.Duration
	Err      error
}

// Client runs a primary provider with an optional fallback. Each provider
// gets up to attemptsPerProvider tries before the cascade moves on; every
// attempt first clears the shared rate limiter.
type Client struct {
	primary  llm.Provider
	fallback llm.Provider
	limiter  *RateLimiter
	attempts int
	timeout  time.Duration
	log      logger.ILogger
}

type Config struct {
	AttemptsPerProvider int
	Timeout             time.Duration
	MaxPerMinute        int
}

func NewClient(primary, fallback llm.Provider, cfg Config, log logger.ILogger) *Client {
	if cfg.AttemptsPerProvider <= 0 {
		cfg.AttemptsPerProvider = 2
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	return &Client{
		primary:  primary,
		fallback: fallback,
		limiter:  NewRateLimiter(cfg.MaxPerMinute),
		attempts: cfg.AttemptsPerProvider,
		timeout:  cfg.Timeout,
		log:      log,
	}
}

// Complete walks the cascade until one attempt succeeds. The returned
// Completion carries the last error when everything fails.
func (c *Client) Complete(ctx context.Context, history []llm.Message, options ...llm.Option) Completion {
	start := time.Now()

	var lastErr error
	for _, provider := range []llm.Provider{c.primary, c.fallback} {
		if provider == nil {
			continue
		}
		for attempt := 1; attempt <= c.attempts; attempt++ {
			if err := c.limiter.Wait(ctx); err != nil {
				return Completion{
					Provider: provider.Name(),
					Elapsed:  time.Since(start),
					Err:      fmt.Errorf("rate limit wait: %w", err),
				}
			}

			callCtx, cancel := context.WithTimeout(ctx, c.timeout)
			content, err := provider.Chat(callCtx, history, options...)
			cancel()

			if err == nil && content != "" {
				return Completion{
					Success:  true,
					Content:  content,
					Provider: provider.Name(),
					Elapsed:  time.Since(start),
				}
			}
			if err == nil {
				err = fmt.Errorf("%s returned an empty completion", provider.Name())
			}
			lastErr = err

			c.log.Warn("cascade", "completion attempt failed", map[string]interface{}{
				"provider": provider.Name(),
				"attempt":  attempt,
				"error":    err.Error(),
			})

			// A cancelled parent context makes further attempts
			// pointless on any provider.
			if ctx.Err() != nil {
				return Completion{
					Provider: provider.Name(),
					Elapsed:  time.Since(start),
					Err:      ctx.Err(),
				}
			}
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no providers configured")
	}
	return Completion{
		Elapsed: time.Since(start),
		Err:     lastErr,
	}
}
