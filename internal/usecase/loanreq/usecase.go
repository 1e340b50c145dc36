// Package loanreq handles borrower-side loan operations: requesting a loan
// against the credit-tier policy and reading back loan state.
package loanreq

import (
	"context"
	"errors"
	"fmt"
	"time"

	loanDomain "lendsim/internal/domain/loan"
	paymentDomain "lendsim/internal/domain/payment"
	"lendsim/internal/domain/simclock"
	userDomain "lendsim/internal/domain/user"
	"lendsim/pkg/finance"
	"lendsim/pkg/id"

	"gorm.io/gorm"
)

var (
	ErrInvalidAmount     = errors.New("loan amount must be greater than zero")
	ErrAmountExceedsTier = errors.New("loan amount exceeds the maximum for the credit tier")
	ErrInvalidTerm       = errors.New("loan term not available for the credit tier")
	ErrDelinquent        = errors.New("borrower has a defaulted loan; new requests are restricted")
	ErrPendingExists     = errors.New("borrower already has a pending loan")
)

// Tier is the request policy attached to a credit-score band.
type Tier struct {
	Rating    string
	MaxAmount float64
	Terms     []int
}

func TierFor(creditScore int) Tier {
	switch {
	case creditScore < 450:
		return Tier{Rating: "Very Poor", MaxAmount: 200, Terms: []int{3}}
	case creditScore <= 549:
		return Tier{Rating: "Poor", MaxAmount: 500, Terms: []int{3}}
	case creditScore <= 649:
		return Tier{Rating: "Fair", MaxAmount: 2000, Terms: []int{3, 6}}
	case creditScore <= 749:
		return Tier{Rating: "Good", MaxAmount: 5000, Terms: []int{3, 6, 9, 12}}
	default:
		return Tier{Rating: "Excellent", MaxAmount: 10000, Terms: []int{3, 6, 9, 12, 18, 24}}
	}
}

func (t Tier) allowsTerm(months int) bool {
	for _, m := range t.Terms {
		if m == months {
			return true
		}
	}
	return false
}

type Usecase struct {
	loans    loanDomain.Repository
	payments paymentDomain.Repository
	users    userDomain.Repository
	clock    simclock.Repository
}

func NewUsecase(loans loanDomain.Repository, payments paymentDomain.Repository, users userDomain.Repository, clock simclock.Repository) *Usecase {
	return &Usecase{loans: loans, payments: payments, users: users, clock: clock}
}

type RequestInput struct {
	UserID     string
	Amount     float64
	TermMonths int
	Purpose    string
}

type LoanDTO struct {
	LoanID              string     `json:"loan_id"`
	UserID              string     `json:"user_id"`
	Purpose             string     `json:"purpose,omitempty"`
	AmountRequested     float64    `json:"amount_requested"`
	AmountApproved      float64    `json:"amount_approved,omitempty"`
	InterestRateMonthly float64    `json:"interest_rate_monthly"`
	TermMonths          int        `json:"term_months"`
	Status              string     `json:"status"`
	RequestDate         time.Time  `json:"request_date"`
	StartDate           *time.Time `json:"start_date,omitempty"`
	TheoreticalEndDate  *time.Time `json:"theoretical_end_date,omitempty"`
	NextPaymentDueDate  *time.Time `json:"next_payment_due_date,omitempty"`
	TotalRepayment      float64    `json:"total_repayment_amount,omitempty"`
	RemainingBalance    float64    `json:"remaining_balance"`
}

func toDTO(l *loanDomain.Loan) *LoanDTO {
	return &LoanDTO{
		LoanID:              l.LoanID,
		UserID:              l.UserID,
		Purpose:             l.Purpose,
		AmountRequested:     l.AmountRequested,
		AmountApproved:      l.AmountApproved,
		InterestRateMonthly: l.InterestRateMonthly,
		TermMonths:          l.TermMonths,
		Status:              string(l.Status),
		RequestDate:         l.RequestDate,
		StartDate:           l.StartDate,
		TheoreticalEndDate:  l.TheoreticalEndDate,
		NextPaymentDueDate:  l.NextPaymentDueDate,
		TotalRepayment:      l.TotalRepaymentAmount,
		RemainingBalance:    l.RemainingBalance,
	}
}

// Request validates the amount and term against the borrower's credit tier,
// computes the dynamic rate from the live score, and stores the loan as
// pending. Nothing is mutated when validation fails.
func (u *Usecase) Request(ctx context.Context, in RequestInput) (*LoanDTO, error) {
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	usr, err := u.users.GetByUserID(ctx, in.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userDomain.ErrNotFound
		}
		return nil, err
	}

	// Delinquency hold: any defaulted loan blocks new requests.
	defaulted, err := u.loans.CountByUserIDAndStatus(ctx, in.UserID, loanDomain.StatusDefaulted)
	if err != nil {
		return nil, err
	}
	if defaulted > 0 {
		return nil, ErrDelinquent
	}

	tier := TierFor(usr.CreditScore)
	if in.Amount > tier.MaxAmount {
		return nil, fmt.Errorf("%w: tier %q allows up to %.2f", ErrAmountExceedsTier, tier.Rating, tier.MaxAmount)
	}
	if !tier.allowsTerm(in.TermMonths) {
		return nil, fmt.Errorf("%w: tier %q allows terms %v", ErrInvalidTerm, tier.Rating, tier.Terms)
	}

	// One pending request at a time.
	pending, err := u.loans.GetPendingLoanByUserID(ctx, in.UserID)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: %s", ErrPendingExists, pending.LoanID)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	now, err := u.clock.Get(ctx)
	if err != nil {
		return nil, err
	}

	l := &loanDomain.Loan{
		LoanID:              id.NewID32(),
		UserID:              in.UserID,
		Purpose:             in.Purpose,
		AmountRequested:     finance.Round2(in.Amount),
		InterestRateMonthly: finance.MonthlyRate(usr.CreditScore, in.Amount, in.TermMonths),
		TermMonths:          in.TermMonths,
		Status:              loanDomain.StatusPending,
		RequestDate:         now,
	}
	if err := u.loans.Create(ctx, l); err != nil {
		return nil, err
	}
	return toDTO(l), nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loanDomain.ErrNotFound
		}
		return nil, err
	}
	return toDTO(l), nil
}

func (u *Usecase) ListByUser(ctx context.Context, userID string) ([]LoanDTO, error) {
	ls, err := u.loans.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]LoanDTO, 0, len(ls))
	for i := range ls {
		out = append(out, *toDTO(&ls[i]))
	}
	return out, nil
}

// ListPayments returns the append-only ledger rows for a loan the caller owns.
func (u *Usecase) ListPayments(ctx context.Context, loanID, userID string) ([]paymentDomain.Payment, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loanDomain.ErrNotFound
		}
		return nil, err
	}
	if userID != "" && l.UserID != userID {
		return nil, loanDomain.ErrNotFound
	}
	return u.payments.ListByLoanID(ctx, l.ID)
}
