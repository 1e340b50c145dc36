package mysql

import (
	"context"

	actionDomain "lendsim/internal/domain/adminaction"

	"gorm.io/gorm"
)

type AdminActionRepository struct{ db *gorm.DB }

func NewAdminActionRepository(db *gorm.DB) *AdminActionRepository {
	return &AdminActionRepository{db: db}
}

func (r *AdminActionRepository) Create(ctx context.Context, l *actionDomain.Log) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *AdminActionRepository) Save(ctx context.Context, l *actionDomain.Log) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *AdminActionRepository) GetByActionID(ctx context.Context, actionID string) (*actionDomain.Log, error) {
	var out actionDomain.Log
	res := r.db.WithContext(ctx).Where("action_id = ?", actionID).First(&out)
	return &out, res.Error
}

func (r *AdminActionRepository) GetByActionIDForUpdate(ctx context.Context, actionID string) (*actionDomain.Log, error) {
	var out actionDomain.Log
	res := forUpdate(r.db.WithContext(ctx)).
		Where("action_id = ?", actionID).
		First(&out)
	return &out, res.Error
}

func (r *AdminActionRepository) ListPending(ctx context.Context) ([]actionDomain.Log, error) {
	var out []actionDomain.Log
	res := r.db.WithContext(ctx).
		Where("status = ?", actionDomain.StatusPending).
		Order("created_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}
