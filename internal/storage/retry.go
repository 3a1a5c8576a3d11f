package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/ericogr/vault-battles/internal/battle"
)

// DefaultMaxAttempts bounds optimistic retries of one transaction.
const DefaultMaxAttempts = 10

// RetryPolicy controls how conflicting transactions are retried.
type RetryPolicy struct {
	MaxAttempts     uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy is tuned for a handful of players racing on one
// session: short sleeps and a small budget.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: DefaultMaxAttempts, InitialInterval: 2 * time.Millisecond, MaxInterval: 50 * time.Millisecond}
}

func (p RetryPolicy) backOff() backoff.BackOff {
	def := DefaultRetryPolicy()
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = def.InitialInterval
	b.MaxInterval = def.MaxInterval
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}
	return b
}

// RetryOnConflict runs attempt until it commits, fails with something
// other than ErrConflict, or the policy runs out of attempts.
func RetryOnConflict(ctx context.Context, p RetryPolicy, id string, attempt func() (*battle.Session, error)) (*battle.Session, error) {
	tries := p.MaxAttempts
	if tries == 0 {
		tries = DefaultMaxAttempts
	}
	out, err := backoff.Retry(ctx, func() (*battle.Session, error) {
		s, err := attempt()
		if err != nil && !errors.Is(err, ErrConflict) {
			return nil, backoff.Permanent(err)
		}
		return s, err
	}, backoff.WithBackOff(p.backOff()), backoff.WithMaxTries(tries))
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("session %s after %d attempts: %w", id, tries, ErrConflict)
		}
		return nil, err
	}
	return out, nil
}
