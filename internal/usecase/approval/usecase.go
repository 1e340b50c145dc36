// Package approval implements the admin decision on a pending loan. Approval
// freezes the amortization schedule: amount, rate, EMI-derived total, start
// and end dates, and the first due date all come from the simulated instant
// of approval and never change afterwards.
package approval

import (
	"context"
	"errors"
	"time"

	loanDomain "lendsim/internal/domain/loan"
	"lendsim/internal/domain/uow"
	"lendsim/pkg/finance"

	"gorm.io/gorm"
)

var ErrNotPending = errors.New("loan is not pending approval")

type Usecase struct{ uow uow.UnitOfWork }

func NewUsecase(tx uow.UnitOfWork) *Usecase { return &Usecase{uow: tx} }

type DecisionDTO struct {
	LoanID             string     `json:"loan_id"`
	Status             string     `json:"status"`
	AmountApproved     float64    `json:"amount_approved,omitempty"`
	StartDate          *time.Time `json:"start_date,omitempty"`
	TheoreticalEndDate *time.Time `json:"theoretical_end_date,omitempty"`
	NextPaymentDueDate *time.Time `json:"next_payment_due_date,omitempty"`
	TotalRepayment     float64    `json:"total_repayment_amount,omitempty"`
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Approve moves a pending loan to approved. Policy: the approved amount
// equals the requested amount. The activation sweep of the time-advance
// engine flips it to active once the start date is reached.
func (u *Usecase) Approve(ctx context.Context, loanID string) (*DecisionDTO, error) {
	var dto *DecisionDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loanDomain.Loan) error {
		if l.Status != loanDomain.StatusPending {
			return ErrNotPending
		}
		now, err := r.Clock.Get(ctx)
		if err != nil {
			return err
		}

		start := dateOnly(now)
		end := start.AddDate(0, l.TermMonths, 0)
		firstDue := start.AddDate(0, 1, 0)

		l.Status = loanDomain.StatusApproved
		l.AmountApproved = l.AmountRequested
		l.ApprovalDate = &now
		l.StartDate = &start
		l.TheoreticalEndDate = &end
		l.NextPaymentDueDate = &firstDue
		l.TotalRepaymentAmount = finance.TotalRepayment(l.AmountApproved, l.InterestRateMonthly, l.TermMonths)
		l.RemainingBalance = l.TotalRepaymentAmount

		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		dto = &DecisionDTO{
			LoanID:             l.LoanID,
			Status:             string(l.Status),
			AmountApproved:     l.AmountApproved,
			StartDate:          l.StartDate,
			TheoreticalEndDate: l.TheoreticalEndDate,
			NextPaymentDueDate: l.NextPaymentDueDate,
			TotalRepayment:     l.TotalRepaymentAmount,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loanDomain.ErrNotFound
		}
		return nil, err
	}
	return dto, nil
}

// Reject marks a pending loan rejected, stamping the simulated decision time.
func (u *Usecase) Reject(ctx context.Context, loanID string) (*DecisionDTO, error) {
	var dto *DecisionDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loanDomain.Loan) error {
		if l.Status != loanDomain.StatusPending {
			return ErrNotPending
		}
		now, err := r.Clock.Get(ctx)
		if err != nil {
			return err
		}
		l.Status = loanDomain.StatusRejected
		l.ApprovalDate = &now
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		dto = &DecisionDTO{LoanID: l.LoanID, Status: string(l.Status)}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loanDomain.ErrNotFound
		}
		return nil, err
	}
	return dto, nil
}
