package llm

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/qirim/qirim/internal/logging"
)

type purposeKey struct{}

// WithPurpose labels calls made with ctx in the logs.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// Purpose returns the label set by WithPurpose, or "unspecified".
func Purpose(ctx context.Context) string {
	if p, ok := ctx.Value(purposeKey{}).(string); ok {
		return p
	}
	return "unspecified"
}

type loggingProvider struct {
	Provider
	log *slog.Logger
}

// WithLogging logs every call with its purpose, latency and token usage.
// Prompts and outputs are logged at debug level only.
func WithLogging(p Provider, logger *slog.Logger) Provider {
	return &loggingProvider{Provider: p, log: logging.OrDiscard(logger).With("model", p.ModelID())}
}

func (l *loggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.Provider.Generate(ctx, req)
	attrs := []any{"purpose", Purpose(ctx), "latency", time.Since(start)}

	if err != nil {
		kind, _ := KindOf(err)
		l.log.Warn("llm call failed", append(attrs, "kind", kind.String(), "err", err)...)
		return nil, err
	}
	l.log.Info("llm call", append(attrs, "input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens, "stop", resp.StopReason)...)
	if l.log.Enabled(ctx, slog.LevelDebug) {
		l.log.Debug("llm exchange", "system", req.System, "messages", len(req.Messages),
			"output", string(resp.Content))
	}
	return resp, nil
}

type retryProvider struct {
	Provider
	policy RetryPolicy
	sleep  func(ctx context.Context, d time.Duration) error
}

// WithRetry retries rate limits and unavailability with jittered
// exponential backoff. An invalid response is retried once. Truncated and
// rejected calls are never retried.
func WithRetry(p Provider, policy RetryPolicy) Provider {
	return &retryProvider{Provider: p, policy: policy, sleep: sleepCtx}
}

func (r *retryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(r.policy.Attempts, 1)
	invalidSeen := false
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		resp, err := r.Provider.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		kind, _ := KindOf(err)
		switch kind {
		case KindTruncated, KindRejected:
			return nil, err
		case KindInvalid:
			if invalidSeen {
				return nil, err
			}
			invalidSeen = true
		}

		if attempt == attempts-1 {
			break
		}
		if err := r.sleep(ctx, r.delay(attempt, err)); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

func (r *retryProvider) delay(attempt int, err error) time.Duration {
	var e *Error
	if errors.As(err, &e) && e.RetryAfter > 0 {
		return e.RetryAfter
	}
	d := r.policy.Base << attempt
	if r.policy.Max > 0 && (d > r.policy.Max || d <= 0) {
		d = r.policy.Max
	}
	// full jitter in [d/2, d)
	half := d / 2
	if half <= 0 {
		return d
	}
	return half + time.Duration(rand.Int64N(int64(half)))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type timeoutProvider struct {
	Provider
	timeout time.Duration
}

// WithTimeout bounds each Generate call, retries included.
func WithTimeout(p Provider, d time.Duration) Provider {
	return &timeoutProvider{Provider: p, timeout: d}
}

func (t *timeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Provider.Generate(ctx, req)
}
