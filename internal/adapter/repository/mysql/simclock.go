package mysql

import (
	"context"
	"errors"
	"time"

	clockDomain "lendsim/internal/domain/simclock"

	"gorm.io/gorm"
)

// system_time holds exactly one row.
const clockRowID = 1

type SimClockRepository struct{ db *gorm.DB }

func NewSimClockRepository(db *gorm.DB) *SimClockRepository { return &SimClockRepository{db: db} }

func (r *SimClockRepository) Get(ctx context.Context) (time.Time, error) {
	var row clockDomain.SystemTime
	res := r.db.WithContext(ctx).Where("id = ?", clockRowID).First(&row)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return time.Time{}, clockDomain.ErrNotInitialized
		}
		return time.Time{}, res.Error
	}
	return row.CurrentSimulatedDatetime, nil
}

func (r *SimClockRepository) Set(ctx context.Context, t time.Time) error {
	row := clockDomain.SystemTime{ID: clockRowID, CurrentSimulatedDatetime: t.UTC()}
	return r.db.WithContext(ctx).Save(&row).Error
}
