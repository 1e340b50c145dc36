package clockmock

import (
	"context"
	"time"

	"lendsim/internal/domain/simclock"
)

var _ simclock.Repository = (*Clock)(nil)

// Clock is a function-backed mock that satisfies simclock.Repository.
// Fixed is the common case: a clock pinned to one instant.
type Clock struct {
	GetFn func(ctx context.Context) (time.Time, error)
	SetFn func(ctx context.Context, t time.Time) error
}

// Fixed returns a clock whose Get always yields t and whose Set is a no-op.
func Fixed(t time.Time) *Clock {
	return &Clock{GetFn: func(context.Context) (time.Time, error) { return t, nil }}
}

func (m *Clock) Get(ctx context.Context) (time.Time, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx)
	}
	return time.Time{}, simclock.ErrNotInitialized
}

func (m *Clock) Set(ctx context.Context, t time.Time) error {
	if m.SetFn != nil {
		return m.SetFn(ctx, t)
	}
	return nil
}
