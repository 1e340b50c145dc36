// Package quote serves the synchronous rate/EMI preview used by the
// request-loan form and the admin screens. Quotes must agree exactly with
// the rate a loan gets at request time, so both paths call pkg/finance.
package quote

import (
	"context"
	"errors"

	userDomain "lendsim/internal/domain/user"
	"lendsim/pkg/finance"

	"gorm.io/gorm"
)

type Usecase struct{ users userDomain.Repository }

func NewUsecase(users userDomain.Repository) *Usecase { return &Usecase{users: users} }

type Input struct {
	Amount      float64 `json:"amount"`
	TermMonths  int     `json:"term_months"`
	CreditScore int     `json:"credit_score"`
}

type DTO struct {
	MonthlyRate    float64 `json:"monthly_rate"`
	EMI            float64 `json:"emi"`
	TotalRepayment float64 `json:"total_repayment"`
}

// Preview is pure: no I/O, fully determined by the inputs.
func Preview(in Input) DTO {
	rate := finance.MonthlyRate(in.CreditScore, in.Amount, in.TermMonths)
	return DTO{
		MonthlyRate:    rate,
		EMI:            finance.EMI(in.Amount, rate, in.TermMonths),
		TotalRepayment: finance.TotalRepayment(in.Amount, rate, in.TermMonths),
	}
}

// PreviewForUser looks up the borrower's live credit score first.
func (u *Usecase) PreviewForUser(ctx context.Context, userID string, amount float64, termMonths int) (*DTO, error) {
	usr, err := u.users.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userDomain.ErrNotFound
		}
		return nil, err
	}
	dto := Preview(Input{Amount: amount, TermMonths: termMonths, CreditScore: usr.CreditScore})
	return &dto, nil
}
