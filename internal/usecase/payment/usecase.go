// Package payment applies borrower payments against active loans: append a
// ledger row, reduce the balance, roll the due date or close the loan, and
// reward on-time behavior with a small credit-score bump. Everything happens
// inside one loan-locked transaction.
package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lendsim/internal/config"
	loanDomain "lendsim/internal/domain/loan"
	paymentDomain "lendsim/internal/domain/payment"
	"lendsim/internal/domain/uow"
	"lendsim/pkg/finance"
	"lendsim/pkg/id"

	"gorm.io/gorm"
)

var (
	ErrInvalidAmount = errors.New("payment amount must be positive")
	ErrNotEligible   = errors.New("loan not found, not owned by caller, or not active")
)

// payoffEpsilon absorbs cent-level float drift when the final installment
// lands within a cent of the balance.
const payoffEpsilon = 0.01

type Usecase struct {
	uow    uow.UnitOfWork
	params config.EngineParams
}

func NewUsecase(tx uow.UnitOfWork, params config.EngineParams) *Usecase {
	return &Usecase{uow: tx, params: params}
}

type Result struct {
	LoanID     string     `json:"loan_id"`
	NewBalance float64    `json:"new_balance"`
	NewStatus  string     `json:"new_status"`
	NewDueDate *time.Time `json:"new_due_date,omitempty"`
}

func (u *Usecase) MakePayment(ctx context.Context, loanID, userID string, amount float64) (*Result, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var out *Result
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loanDomain.Loan) error {
		if l.UserID != userID || l.Status != loanDomain.StatusActive {
			return ErrNotEligible
		}
		now, err := r.Clock.Get(ctx)
		if err != nil {
			return err
		}
		dueBefore := l.NextPaymentDueDate

		p := &paymentDomain.Payment{
			PaymentID:   id.NewID32(),
			LoanID:      l.ID,
			UserID:      l.UserID,
			AmountPaid:  finance.Round2(amount),
			PaymentDate: now,
			PaymentType: paymentDomain.TypeScheduled,
		}
		if err := r.Payments.Create(ctx, p); err != nil {
			return err
		}

		l.RemainingBalance = finance.Round2(l.RemainingBalance - amount)
		if l.RemainingBalance <= payoffEpsilon {
			l.RemainingBalance = 0
			l.Status = loanDomain.StatusPaidOff
			l.NextPaymentDueDate = nil
		} else if l.NextPaymentDueDate != nil {
			next := l.NextPaymentDueDate.AddDate(0, 1, 0)
			l.NextPaymentDueDate = &next
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		// On-time payment: paid on or before the due date that was current
		// when the payment arrived.
		if dueBefore != nil && !now.After(endOfDay(*dueBefore)) {
			usr, err := r.Users.GetByUserIDForUpdate(ctx, l.UserID)
			if err != nil {
				return fmt.Errorf("adjust credit score: %w", err)
			}
			usr.CreditScore = finance.ClampCreditScore(usr.CreditScore + u.params.OnTimePaymentScoreDelta)
			if err := r.Users.Save(ctx, usr); err != nil {
				return err
			}
		}

		out = &Result{
			LoanID:     l.LoanID,
			NewBalance: l.RemainingBalance,
			NewStatus:  string(l.Status),
			NewDueDate: l.NextPaymentDueDate,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotEligible
		}
		return nil, err
	}
	return out, nil
}

// endOfDay widens a date-typed due date to its last instant so a payment at
// any time on the due day still counts as on time.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
}
