package mysql

import (
	"context"
	"time"

	loanDomain "lendsim/internal/domain/loan"

	"gorm.io/gorm"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := forUpdate(r.db.WithContext(ctx)).
		Where("loan_id = ?", loanID).
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) ListByUserID(ctx context.Context, userID string) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("request_date DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) GetPendingLoanByUserID(ctx context.Context, userID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, loanDomain.StatusPending).
		Order("request_date DESC, id DESC").
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) CountByUserIDAndStatus(ctx context.Context, userID string, s loanDomain.Status) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).
		Where("user_id = ? AND status = ?", userID, s).
		Count(&n)
	return n, res.Error
}

func (r *LoanRepository) ActivateDue(ctx context.Context, asOf time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).
		Where("status = ? AND start_date IS NOT NULL AND start_date <= ?", loanDomain.StatusApproved, asOf).
		Update("status", loanDomain.StatusActive)
	return res.RowsAffected, res.Error
}

func (r *LoanRepository) ListForAccrual(ctx context.Context) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("status IN ?", []loanDomain.Status{loanDomain.StatusActive, loanDomain.StatusDefaulted}).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
