// Package simclock models the application-controlled clock: a single row of
// simulated time advanced only by an explicit operator action. Every
// date-sensitive decision in the system reads this value; nothing in the
// core consults the wall clock.
package simclock

import (
	"context"
	"errors"
	"time"
)

var ErrNotInitialized = errors.New("simulated clock not initialized")

type SystemTime struct {
	ID                       uint64    `gorm:"primaryKey;column:id"`
	CurrentSimulatedDatetime time.Time `gorm:"column:current_simulated_datetime"`
}

func (SystemTime) TableName() string { return "system_time" }

type Repository interface {
	Get(ctx context.Context) (time.Time, error)
	Set(ctx context.Context, t time.Time) error
}
