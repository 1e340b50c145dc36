package loanreq

import (
	"context"
	"errors"
	"testing"
	"time"

	loanDomain "lendsim/internal/domain/loan"
	paymentDomain "lendsim/internal/domain/payment"
	userDomain "lendsim/internal/domain/user"
	"lendsim/internal/testutil/clockmock"
	"lendsim/internal/testutil/loanmock"
	"lendsim/internal/testutil/paymentmock"
	"lendsim/internal/testutil/usermock"
	"lendsim/pkg/finance"

	"gorm.io/gorm"
)

var simNow = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

func userWithScore(score int) *usermock.Repo {
	return &usermock.Repo{
		GetByUserIDFn: func(ctx context.Context, userID string) (*userDomain.User, error) {
			return &userDomain.User{UserID: userID, CreditScore: score}, nil
		},
	}
}

// cleanLoans mocks a borrower with no defaulted and no pending loans.
func cleanLoans() *loanmock.Repo {
	return &loanmock.Repo{
		GetPendingLoanByUserIDFn: func(ctx context.Context, userID string) (*loanDomain.Loan, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
}

func TestTierFor(t *testing.T) {
	cases := []struct {
		score     int
		rating    string
		maxAmount float64
		terms     []int
	}{
		{300, "Very Poor", 200, []int{3}},
		{449, "Very Poor", 200, []int{3}},
		{450, "Poor", 500, []int{3}},
		{549, "Poor", 500, []int{3}},
		{550, "Fair", 2000, []int{3, 6}},
		{649, "Fair", 2000, []int{3, 6}},
		{650, "Good", 5000, []int{3, 6, 9, 12}},
		{749, "Good", 5000, []int{3, 6, 9, 12}},
		{750, "Excellent", 10000, []int{3, 6, 9, 12, 18, 24}},
		{850, "Excellent", 10000, []int{3, 6, 9, 12, 18, 24}},
	}
	for _, tc := range cases {
		got := TierFor(tc.score)
		if got.Rating != tc.rating || got.MaxAmount != tc.maxAmount {
			t.Fatalf("TierFor(%d) = %+v, want %s/%.0f", tc.score, got, tc.rating, tc.maxAmount)
		}
		if len(got.Terms) != len(tc.terms) {
			t.Fatalf("TierFor(%d) terms = %v, want %v", tc.score, got.Terms, tc.terms)
		}
		for i := range tc.terms {
			if got.Terms[i] != tc.terms[i] {
				t.Fatalf("TierFor(%d) terms = %v, want %v", tc.score, got.Terms, tc.terms)
			}
		}
	}
}

func TestRequest_Success(t *testing.T) {
	loans := cleanLoans()
	var created *loanDomain.Loan
	loans.CreateFn = func(ctx context.Context, l *loanDomain.Loan) error {
		created = l
		return nil
	}
	u := NewUsecase(loans, &paymentmock.Repo{}, userWithScore(700), clockmock.Fixed(simNow))

	dto, err := u.Request(context.Background(), RequestInput{
		UserID: "u1", Amount: 3000, TermMonths: 6, Purpose: "inventory",
	})
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if created == nil {
		t.Fatalf("loan was not persisted")
	}
	if dto.Status != string(loanDomain.StatusPending) {
		t.Fatalf("status = %s, want pending", dto.Status)
	}
	if len(dto.LoanID) != 32 {
		t.Fatalf("loan_id = %q, want 32-char id", dto.LoanID)
	}
	if want := finance.MonthlyRate(700, 3000, 6); dto.InterestRateMonthly != want {
		t.Fatalf("rate = %v, want %v", dto.InterestRateMonthly, want)
	}
	if !dto.RequestDate.Equal(simNow) {
		t.Fatalf("request date = %v, want simulated now %v", dto.RequestDate, simNow)
	}
	if dto.RemainingBalance != 0 || dto.AmountApproved != 0 {
		t.Fatalf("pending loan must carry no schedule: %+v", dto)
	}
}

func TestRequest_InvalidAmount(t *testing.T) {
	u := NewUsecase(cleanLoans(), &paymentmock.Repo{}, userWithScore(700), clockmock.Fixed(simNow))
	if _, err := u.Request(context.Background(), RequestInput{UserID: "u1", Amount: 0, TermMonths: 3}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
}

func TestRequest_AmountExceedsTier(t *testing.T) {
	// score 500 → Poor tier, max 500
	u := NewUsecase(cleanLoans(), &paymentmock.Repo{}, userWithScore(500), clockmock.Fixed(simNow))
	_, err := u.Request(context.Background(), RequestInput{UserID: "u1", Amount: 501, TermMonths: 3})
	if !errors.Is(err, ErrAmountExceedsTier) {
		t.Fatalf("err = %v, want ErrAmountExceedsTier", err)
	}
}

func TestRequest_InvalidTermForTier(t *testing.T) {
	// score 600 → Fair tier, terms {3, 6}
	u := NewUsecase(cleanLoans(), &paymentmock.Repo{}, userWithScore(600), clockmock.Fixed(simNow))
	_, err := u.Request(context.Background(), RequestInput{UserID: "u1", Amount: 1000, TermMonths: 12})
	if !errors.Is(err, ErrInvalidTerm) {
		t.Fatalf("err = %v, want ErrInvalidTerm", err)
	}
}

func TestRequest_DelinquentHold(t *testing.T) {
	loans := cleanLoans()
	loans.CountByUserIDAndStatusFn = func(ctx context.Context, userID string, s loanDomain.Status) (int64, error) {
		if s != loanDomain.StatusDefaulted {
			t.Fatalf("counted status %s, want defaulted", s)
		}
		return 1, nil
	}
	u := NewUsecase(loans, &paymentmock.Repo{}, userWithScore(700), clockmock.Fixed(simNow))
	_, err := u.Request(context.Background(), RequestInput{UserID: "u1", Amount: 1000, TermMonths: 6})
	if !errors.Is(err, ErrDelinquent) {
		t.Fatalf("err = %v, want ErrDelinquent", err)
	}
}

func TestRequest_PendingAlreadyExists(t *testing.T) {
	loans := cleanLoans()
	loans.GetPendingLoanByUserIDFn = func(ctx context.Context, userID string) (*loanDomain.Loan, error) {
		return &loanDomain.Loan{LoanID: "existing0000000000000000000000ab"}, nil
	}
	u := NewUsecase(loans, &paymentmock.Repo{}, userWithScore(700), clockmock.Fixed(simNow))
	_, err := u.Request(context.Background(), RequestInput{UserID: "u1", Amount: 1000, TermMonths: 6})
	if !errors.Is(err, ErrPendingExists) {
		t.Fatalf("err = %v, want ErrPendingExists", err)
	}
}

func TestRequest_UserNotFound(t *testing.T) {
	users := &usermock.Repo{
		GetByUserIDFn: func(ctx context.Context, userID string) (*userDomain.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	u := NewUsecase(cleanLoans(), &paymentmock.Repo{}, users, clockmock.Fixed(simNow))
	_, err := u.Request(context.Background(), RequestInput{UserID: "ghost", Amount: 1000, TermMonths: 6})
	if !errors.Is(err, userDomain.ErrNotFound) {
		t.Fatalf("err = %v, want user.ErrNotFound", err)
	}
}

func TestGet_TranslatesNotFound(t *testing.T) {
	loans := &loanmock.Repo{
		GetByLoanIDFn: func(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	u := NewUsecase(loans, &paymentmock.Repo{}, userWithScore(700), clockmock.Fixed(simNow))
	if _, err := u.Get(context.Background(), "missing"); !errors.Is(err, loanDomain.ErrNotFound) {
		t.Fatalf("err = %v, want loan.ErrNotFound", err)
	}
}

func TestListPayments_OwnerCheck(t *testing.T) {
	loans := &loanmock.Repo{
		GetByLoanIDFn: func(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
			return &loanDomain.Loan{ID: 7, LoanID: loanID, UserID: "owner"}, nil
		},
	}
	payments := &paymentmock.Repo{
		ListByLoanIDFn: func(ctx context.Context, loanID uint64) ([]paymentDomain.Payment, error) {
			if loanID != 7 {
				t.Fatalf("ledger queried with loanID %d, want 7", loanID)
			}
			return nil, nil
		},
	}
	u := NewUsecase(loans, payments, userWithScore(700), clockmock.Fixed(simNow))

	// a different borrower must not see the ledger
	if _, err := u.ListPayments(context.Background(), "ln1", "intruder"); !errors.Is(err, loanDomain.ErrNotFound) {
		t.Fatalf("err = %v, want loan.ErrNotFound", err)
	}
	// the owner (and admins, via empty userID) may
	if _, err := u.ListPayments(context.Background(), "ln1", "owner"); err != nil {
		t.Fatalf("ListPayments owner: %v", err)
	}
	if _, err := u.ListPayments(context.Background(), "ln1", ""); err != nil {
		t.Fatalf("ListPayments admin: %v", err)
	}
}
