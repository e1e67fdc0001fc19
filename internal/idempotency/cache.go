// Package idempotency replays checkout outcomes for repeated Idempotency-Key requests.
package idempotency

import (
	"context"
	"errors"

	"github.com/fjod/go_cart/internal/domain"
)

type OutcomeCache interface {
	Get(ctx context.Context, key string) (domain.Outcome, error)
	// SetNX stores the outcome unless the key is already present
	SetNX(ctx context.Context, key string, outcome domain.Outcome) (bool, error)
}

var ErrCacheMiss = errors.New("cache miss")
