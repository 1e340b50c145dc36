package loanmock

import (
	"context"
	"time"

	domain "lendsim/internal/domain/loan"
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Fill in the function fields a test needs; nil getters return
// context.Canceled, nil mutators are no-ops.
type Repo struct {
	CreateFn                 func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn            func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn   func(ctx context.Context, loanID string) (*domain.Loan, error)
	SaveFn                   func(ctx context.Context, l *domain.Loan) error
	ListByUserIDFn           func(ctx context.Context, userID string) ([]domain.Loan, error)
	GetPendingLoanByUserIDFn func(ctx context.Context, userID string) (*domain.Loan, error)
	CountByUserIDAndStatusFn func(ctx context.Context, userID string, s domain.Status) (int64, error)
	ActivateDueFn            func(ctx context.Context, asOf time.Time) (int64, error)
	ListForAccrualFn         func(ctx context.Context) ([]domain.Loan, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) ListByUserID(ctx context.Context, userID string) ([]domain.Loan, error) {
	if m.ListByUserIDFn != nil {
		return m.ListByUserIDFn(ctx, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetPendingLoanByUserID(ctx context.Context, userID string) (*domain.Loan, error) {
	if m.GetPendingLoanByUserIDFn != nil {
		return m.GetPendingLoanByUserIDFn(ctx, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) CountByUserIDAndStatus(ctx context.Context, userID string, s domain.Status) (int64, error) {
	if m.CountByUserIDAndStatusFn != nil {
		return m.CountByUserIDAndStatusFn(ctx, userID, s)
	}
	return 0, nil
}

func (m *Repo) ActivateDue(ctx context.Context, asOf time.Time) (int64, error) {
	if m.ActivateDueFn != nil {
		return m.ActivateDueFn(ctx, asOf)
	}
	return 0, nil
}

func (m *Repo) ListForAccrual(ctx context.Context) ([]domain.Loan, error) {
	if m.ListForAccrualFn != nil {
		return m.ListForAccrualFn(ctx)
	}
	return nil, context.Canceled
}
