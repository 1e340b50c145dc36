package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByUserID(ctx context.Context, userID string) (*User, error)
	// GetByUserIDForUpdate locks the row; credit-score adjustments read,
	// clamp, and save inside the owning transaction.
	GetByUserIDForUpdate(ctx context.Context, userID string) (*User, error)
	Save(ctx context.Context, u *User) error
}
