package adminflow

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	actionDomain "lendsim/internal/domain/adminaction"
	loanDomain "lendsim/internal/domain/loan"
	paymentDomain "lendsim/internal/domain/payment"
	userDomain "lendsim/internal/domain/user"
	"lendsim/internal/testutil/dbtest"
	"lendsim/pkg/id"

	"gorm.io/gorm"
)

var simNow = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func strPtr(s string) *string   { return &s }
func intPtr(n int) *int         { return &n }
func f64Ptr(f float64) *float64 { return &f }

func newFlow(t *testing.T) (*gorm.DB, *Usecase) {
	t.Helper()
	db := dbtest.Open(t, simNow)
	repos, tx := dbtest.Repos(db)
	return db, NewUsecase(tx, repos.Loans, repos.Users)
}

func seedDefaultedLoan(t *testing.T, db *gorm.DB, userID string, balance float64) *loanDomain.Loan {
	t.Helper()
	end := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := &loanDomain.Loan{
		LoanID:             id.NewID32(),
		UserID:             userID,
		AmountRequested:    1000,
		AmountApproved:     1000,
		TermMonths:         6,
		Status:             loanDomain.StatusDefaulted,
		RequestDate:        end.AddDate(0, -6, 0),
		TheoreticalEndDate: &end,
		RemainingBalance:   balance,
	}
	if err := db.Create(l).Error; err != nil {
		t.Fatalf("seed loan: %v", err)
	}
	return l
}

func TestUserEdit_ProposeAndApprove(t *testing.T) {
	db, flow := newFlow(t)
	usr := dbtest.SeedUser(t, db, 700)
	ctx := context.Background()

	patch := actionDomain.UserPatch{
		FullName:    strPtr("New Name"),
		CreditScore: intPtr(9999), // clamped on apply
	}
	lg, err := flow.ProposeUserEdit(ctx, "adminxx0000000000000000000000000", usr.UserID, patch, "typo in name")
	if err != nil {
		t.Fatalf("ProposeUserEdit: %v", err)
	}
	if lg.Status != string(actionDomain.StatusPending) {
		t.Fatalf("status = %s, want pending", lg.Status)
	}

	// current values snapshot only the touched fields
	var cur actionDomain.UserPatch
	if err := json.Unmarshal([]byte(lg.CurrentValues), &cur); err != nil {
		t.Fatalf("decode current values: %v", err)
	}
	if cur.FullName == nil || *cur.FullName != "Test Borrower" {
		t.Fatalf("captured full name = %v", cur.FullName)
	}
	if cur.CreditScore == nil || *cur.CreditScore != 700 {
		t.Fatalf("captured credit score = %v", cur.CreditScore)
	}
	if cur.Email != nil || cur.MonthlyIncome != nil {
		t.Fatalf("untouched fields captured: %+v", cur)
	}

	// the user is untouched until review
	var before userDomain.User
	if err := db.Where("user_id = ?", usr.UserID).First(&before).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if before.FullName != "Test Borrower" {
		t.Fatalf("user mutated before review: %q", before.FullName)
	}

	reviewed, err := flow.Review(ctx, lg.ActionID, "superxx0000000000000000000000000", "approve", "ok")
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if reviewed.Status != string(actionDomain.StatusApproved) {
		t.Fatalf("status = %s, want approved", reviewed.Status)
	}
	if reviewed.ReviewedBy != "superxx0000000000000000000000000" || reviewed.ReviewedAt == nil {
		t.Fatalf("reviewer stamp missing: %+v", reviewed)
	}

	var after userDomain.User
	if err := db.Where("user_id = ?", usr.UserID).First(&after).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if after.FullName != "New Name" {
		t.Fatalf("full name = %q, want New Name", after.FullName)
	}
	if after.CreditScore != userDomain.MaxCreditScore {
		t.Fatalf("credit score = %d, want clamped to %d", after.CreditScore, userDomain.MaxCreditScore)
	}

	// a settled request cannot be reviewed again
	if _, err := flow.Review(ctx, lg.ActionID, "superxx0000000000000000000000000", "reject", ""); !errors.Is(err, actionDomain.ErrAlreadyReviewed) {
		t.Fatalf("second review err = %v, want ErrAlreadyReviewed", err)
	}
}

func TestUserEdit_RejectLeavesTargetUntouched(t *testing.T) {
	db, flow := newFlow(t)
	usr := dbtest.SeedUser(t, db, 700)
	ctx := context.Background()

	lg, err := flow.ProposeUserEdit(ctx, "adminxx0000000000000000000000000", usr.UserID,
		actionDomain.UserPatch{CreditScore: intPtr(300)}, "suspected fraud")
	if err != nil {
		t.Fatalf("ProposeUserEdit: %v", err)
	}

	reviewed, err := flow.Review(ctx, lg.ActionID, "superxx0000000000000000000000000", "reject", "insufficient evidence")
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if reviewed.Status != string(actionDomain.StatusRejected) {
		t.Fatalf("status = %s, want rejected", reviewed.Status)
	}
	if reviewed.SuperAdminRemarks != "insufficient evidence" {
		t.Fatalf("remarks = %q", reviewed.SuperAdminRemarks)
	}

	var after userDomain.User
	if err := db.Where("user_id = ?", usr.UserID).First(&after).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if after.CreditScore != 700 {
		t.Fatalf("rejected edit applied: score = %d", after.CreditScore)
	}
}

func TestLoanEdit_SettlementClosesDefaultedLoan(t *testing.T) {
	db, flow := newFlow(t)
	usr := dbtest.SeedUser(t, db, 585)
	l := seedDefaultedLoan(t, db, usr.UserID, 3000)
	ctx := context.Background()

	patch := actionDomain.LoanPatch{
		Status:                    strPtr(string(loanDomain.StatusSettledDefault)),
		SettlementPaymentRecorded: f64Ptr(1500),
	}
	lg, err := flow.ProposeLoanEdit(ctx, "adminxx0000000000000000000000000", l.LoanID, patch, "negotiated settlement")
	if err != nil {
		t.Fatalf("ProposeLoanEdit: %v", err)
	}
	if lg.TargetUserID != usr.UserID || lg.TargetLoanID != l.LoanID {
		t.Fatalf("targets: %+v", lg)
	}

	if _, err := flow.Review(ctx, lg.ActionID, "superxx0000000000000000000000000", "approve", ""); err != nil {
		t.Fatalf("Review: %v", err)
	}

	var after loanDomain.Loan
	if err := db.Where("loan_id = ?", l.LoanID).First(&after).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if after.Status != loanDomain.StatusSettledDefault {
		t.Fatalf("status = %s, want settled_default", after.Status)
	}
	// settlement statuses force the balance to zero
	if after.RemainingBalance != 0 {
		t.Fatalf("balance = %v, want 0", after.RemainingBalance)
	}

	var rows []paymentDomain.Payment
	if err := db.Where("loan_id = ?", l.ID).Find(&rows).Error; err != nil {
		t.Fatalf("ledger: %v", err)
	}
	if len(rows) != 1 || rows[0].PaymentType != paymentDomain.TypeSettlement || rows[0].AmountPaid != 1500 {
		t.Fatalf("unexpected ledger: %+v", rows)
	}
}

func TestLoanEdit_DatePatchAndClear(t *testing.T) {
	db, flow := newFlow(t)
	usr := dbtest.SeedUser(t, db, 700)
	l := seedDefaultedLoan(t, db, usr.UserID, 3000)
	ctx := context.Background()

	lg, err := flow.ProposeLoanEdit(ctx, "adminxx0000000000000000000000000", l.LoanID, actionDomain.LoanPatch{
		NextPaymentDueDate: strPtr("2024-04-15"),
		TheoreticalEndDate: strPtr(""), // explicit clear
	}, "rework schedule")
	if err != nil {
		t.Fatalf("ProposeLoanEdit: %v", err)
	}
	if _, err := flow.Review(ctx, lg.ActionID, "superxx0000000000000000000000000", "approve", ""); err != nil {
		t.Fatalf("Review: %v", err)
	}

	var after loanDomain.Loan
	if err := db.Where("loan_id = ?", l.LoanID).First(&after).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	want := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
	if after.NextPaymentDueDate == nil || !after.NextPaymentDueDate.Equal(want) {
		t.Fatalf("due = %v, want %v", after.NextPaymentDueDate, want)
	}
	if after.TheoreticalEndDate != nil {
		t.Fatalf("end date not cleared: %v", after.TheoreticalEndDate)
	}
}

func TestLoanDeletion_Workflow(t *testing.T) {
	db, flow := newFlow(t)
	usr := dbtest.SeedUser(t, db, 700)
	l := seedDefaultedLoan(t, db, usr.UserID, 3000)
	ctx := context.Background()

	lg, err := flow.ProposeLoanDeletion(ctx, "adminxx0000000000000000000000000", l.LoanID, "duplicate entry")
	if err != nil {
		t.Fatalf("ProposeLoanDeletion: %v", err)
	}
	if lg.ActionType != string(actionDomain.ActionRequestLoanDeletion) {
		t.Fatalf("action type = %s", lg.ActionType)
	}

	if _, err := flow.Review(ctx, lg.ActionID, "superxx0000000000000000000000000", "approve", ""); err != nil {
		t.Fatalf("Review: %v", err)
	}
	var after loanDomain.Loan
	if err := db.Where("loan_id = ?", l.LoanID).First(&after).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if after.Status != loanDomain.StatusCancelledByAdmin {
		t.Fatalf("status = %s, want cancelled_by_admin", after.Status)
	}
}

func TestListPending_OnlyPending(t *testing.T) {
	db, flow := newFlow(t)
	usr := dbtest.SeedUser(t, db, 700)
	ctx := context.Background()

	a, err := flow.ProposeUserEdit(ctx, "adminxx0000000000000000000000000", usr.UserID,
		actionDomain.UserPatch{FullName: strPtr("A")}, "first")
	if err != nil {
		t.Fatalf("propose a: %v", err)
	}
	b, err := flow.ProposeUserEdit(ctx, "adminxx0000000000000000000000000", usr.UserID,
		actionDomain.UserPatch{FullName: strPtr("B")}, "second")
	if err != nil {
		t.Fatalf("propose b: %v", err)
	}
	if _, err := flow.Review(ctx, a.ActionID, "superxx0000000000000000000000000", "reject", ""); err != nil {
		t.Fatalf("review: %v", err)
	}

	pending, err := flow.ListPending(ctx)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(pending) != 1 || pending[0].ActionID != b.ActionID {
		t.Fatalf("pending = %+v, want only %s", pending, b.ActionID)
	}
}

func TestGuards(t *testing.T) {
	db, flow := newFlow(t)
	usr := dbtest.SeedUser(t, db, 700)
	ctx := context.Background()

	if _, err := flow.ProposeUserEdit(ctx, "adminxx0000000000000000000000000", usr.UserID, actionDomain.UserPatch{}, "noop"); !errors.Is(err, actionDomain.ErrNothingToPropose) {
		t.Fatalf("empty user patch err = %v, want ErrNothingToPropose", err)
	}
	if _, err := flow.ProposeLoanEdit(ctx, "adminxx0000000000000000000000000", id.NewID32(), actionDomain.LoanPatch{TermMonths: intPtr(9)}, "x"); !errors.Is(err, loanDomain.ErrNotFound) {
		t.Fatalf("unknown loan err = %v, want loan.ErrNotFound", err)
	}
	if _, err := flow.ProposeUserEdit(ctx, "adminxx0000000000000000000000000", id.NewID32(), actionDomain.UserPatch{FullName: strPtr("x")}, "x"); !errors.Is(err, userDomain.ErrNotFound) {
		t.Fatalf("unknown user err = %v, want user.ErrNotFound", err)
	}
	if _, err := flow.Review(ctx, id.NewID32(), "superxx0000000000000000000000000", "approve", ""); !errors.Is(err, actionDomain.ErrNotFound) {
		t.Fatalf("unknown action err = %v, want adminaction.ErrNotFound", err)
	}
	lg, err := flow.ProposeUserEdit(ctx, "adminxx0000000000000000000000000", usr.UserID, actionDomain.UserPatch{FullName: strPtr("x")}, "x")
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if _, err := flow.Review(ctx, lg.ActionID, "superxx0000000000000000000000000", "maybe", ""); !errors.Is(err, ErrInvalidDecision) {
		t.Fatalf("bad decision err = %v, want ErrInvalidDecision", err)
	}
}
