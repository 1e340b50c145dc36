package adminaction

import "context"

type Repository interface {
	Create(ctx context.Context, l *Log) error
	GetByActionID(ctx context.Context, actionID string) (*Log, error)
	// GetByActionIDForUpdate locks the row so a request cannot be reviewed
	// twice concurrently.
	GetByActionIDForUpdate(ctx context.Context, actionID string) (*Log, error)
	ListPending(ctx context.Context) ([]Log, error)
	Save(ctx context.Context, l *Log) error
}
