package loan

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the loan row for the enclosing transaction.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	Save(ctx context.Context, l *Loan) error

	ListByUserID(ctx context.Context, userID string) ([]Loan, error)
	GetPendingLoanByUserID(ctx context.Context, userID string) (*Loan, error)
	CountByUserIDAndStatus(ctx context.Context, userID string, s Status) (int64, error)

	// ActivateDue flips every approved loan whose start date has been
	// reached to active, in one statement. Returns the number of rows hit.
	ActivateDue(ctx context.Context, asOf time.Time) (int64, error)
	// ListForAccrual returns the loans the time-advance engine walks:
	// everything currently active or defaulted.
	ListForAccrual(ctx context.Context) ([]Loan, error)
}
