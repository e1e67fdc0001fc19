package idempotency

import (
	"context"
	"errors"
	"log/slog"

	"github.com/fjod/go_cart/internal/domain"
	"golang.org/x/sync/singleflight"
)

// Guard runs a checkout at most once per idempotency key while the key is cached.
type Guard struct {
	cache OutcomeCache
	sfg   singleflight.Group // collapses concurrent requests with the same key
}

func NewGuard(cache OutcomeCache) *Guard {
	return &Guard{cache: cache}
}

type result struct {
	outcome  domain.Outcome
	replayed bool
}

// Do returns the cached outcome for key, or runs fn and caches its outcome.
// replayed reports whether the outcome came from an earlier request.
// Cache failures are logged and fn runs as if the key were new.
func (g *Guard) Do(ctx context.Context, key string, fn func(ctx context.Context) (domain.Outcome, error)) (domain.Outcome, bool, error) {
	v, err, _ := g.sfg.Do(key, func() (interface{}, error) {
		outcome, err := g.cache.Get(ctx, key)
		if err == nil {
			return result{outcome: outcome, replayed: true}, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			slog.WarnContext(ctx, "idempotency cache get failed", slog.String("key", key), slog.Any("error", err))
		}

		outcome, err = fn(ctx)
		if err != nil {
			return nil, err
		}

		stored, errSet := g.cache.SetNX(ctx, key, outcome)
		if errSet != nil {
			slog.WarnContext(ctx, "idempotency cache set failed", slog.String("key", key), slog.Any("error", errSet))
		} else if !stored {
			slog.WarnContext(ctx, "idempotency key stored concurrently", slog.String("key", key))
		}
		return result{outcome: outcome}, nil
	})
	if err != nil {
		return domain.Outcome{}, false, err
	}

	r := v.(result)
	return r.outcome, r.replayed, nil
}
