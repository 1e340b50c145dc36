package uow

import (
	"context"

	"lendsim/internal/domain/adminaction"
	"lendsim/internal/domain/loan"
	"lendsim/internal/domain/payment"
	"lendsim/internal/domain/simclock"
	"lendsim/internal/domain/user"
)

type Repos struct {
	Users    user.Repository
	Loans    loan.Repository
	Payments payment.Repository
	Actions  adminaction.Repository
	Clock    simclock.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the loan row first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
