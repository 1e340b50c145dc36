// Package adminflow is the two-tier admin change workflow: a non-privileged
// admin stages a typed change request against a user or loan, a super admin
// applies or discards it. Application and the log-status flip happen in one
// all-or-nothing transaction, so a failed apply leaves the request pending
// for retry.
package adminflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	actionDomain "lendsim/internal/domain/adminaction"
	loanDomain "lendsim/internal/domain/loan"
	paymentDomain "lendsim/internal/domain/payment"
	"lendsim/internal/domain/uow"
	userDomain "lendsim/internal/domain/user"
	"lendsim/pkg/finance"
	"lendsim/pkg/id"

	"gorm.io/gorm"
)

var ErrInvalidDecision = errors.New("decision must be approve or reject")

const dateLayout = "2006-01-02"

type Usecase struct {
	uow   uow.UnitOfWork
	loans loanDomain.Repository
	users userDomain.Repository
}

func NewUsecase(tx uow.UnitOfWork, loans loanDomain.Repository, users userDomain.Repository) *Usecase {
	return &Usecase{uow: tx, loans: loans, users: users}
}

type LogDTO struct {
	ActionID          string     `json:"action_id"`
	ActionType        string     `json:"action_type"`
	TargetUserID      string     `json:"target_user_id"`
	TargetLoanID      string     `json:"target_loan_id,omitempty"`
	ProposedChanges   string     `json:"proposed_changes"`
	CurrentValues     string     `json:"current_values"`
	AdminReason       string     `json:"admin_reason"`
	Status            string     `json:"status"`
	ReviewedBy        string     `json:"reviewed_by,omitempty"`
	ReviewedAt        *time.Time `json:"reviewed_at,omitempty"`
	SuperAdminRemarks string     `json:"super_admin_remarks,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func toDTO(lg *actionDomain.Log) *LogDTO {
	return &LogDTO{
		ActionID:          lg.ActionID,
		ActionType:        string(lg.ActionType),
		TargetUserID:      lg.TargetUserID,
		TargetLoanID:      lg.TargetLoanID,
		ProposedChanges:   lg.ProposedChanges,
		CurrentValues:     lg.CurrentValues,
		AdminReason:       lg.AdminReason,
		Status:            string(lg.Status),
		ReviewedBy:        lg.ReviewedBy,
		ReviewedAt:        lg.ReviewedAt,
		SuperAdminRemarks: lg.SuperAdminRemarks,
		CreatedAt:         lg.CreatedAt,
	}
}

func fmtDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(dateLayout)
	return &s
}

// ProposeLoanEdit stages a loan change request. Current values of exactly
// the touched fields are captured now, so the reviewer sees the diff as it
// stood at proposal time.
func (u *Usecase) ProposeLoanEdit(ctx context.Context, adminUserID, loanID string, patch actionDomain.LoanPatch, reason string) (*LogDTO, error) {
	if patch.Empty() {
		return nil, actionDomain.ErrNothingToPropose
	}
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loanDomain.ErrNotFound
		}
		return nil, err
	}

	cur := actionDomain.LoanPatch{}
	if patch.AmountRequested != nil {
		cur.AmountRequested = &l.AmountRequested
	}
	if patch.AmountApproved != nil {
		cur.AmountApproved = &l.AmountApproved
	}
	if patch.TermMonths != nil {
		cur.TermMonths = &l.TermMonths
	}
	if patch.Status != nil {
		s := string(l.Status)
		cur.Status = &s
	}
	if patch.RemainingBalance != nil || patch.SettlementPaymentRecorded != nil {
		cur.RemainingBalance = &l.RemainingBalance
	}
	if patch.NextPaymentDueDate != nil {
		cur.NextPaymentDueDate = fmtDatePtr(l.NextPaymentDueDate)
	}
	if patch.TheoreticalEndDate != nil {
		cur.TheoreticalEndDate = fmtDatePtr(l.TheoreticalEndDate)
	}

	return u.createLog(ctx, adminUserID, l.UserID, l.LoanID, actionDomain.ActionEditLoanDetails, patch, cur, reason)
}

// ProposeUserEdit stages a user-detail change request.
func (u *Usecase) ProposeUserEdit(ctx context.Context, adminUserID, targetUserID string, patch actionDomain.UserPatch, reason string) (*LogDTO, error) {
	if patch.Empty() {
		return nil, actionDomain.ErrNothingToPropose
	}
	usr, err := u.users.GetByUserID(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userDomain.ErrNotFound
		}
		return nil, err
	}

	cur := actionDomain.UserPatch{}
	if patch.FullName != nil {
		cur.FullName = &usr.FullName
	}
	if patch.Email != nil {
		cur.Email = &usr.Email
	}
	if patch.CreditScore != nil {
		cur.CreditScore = &usr.CreditScore
	}
	if patch.MonthlyIncome != nil {
		cur.MonthlyIncome = &usr.MonthlyIncome
	}

	return u.createLog(ctx, adminUserID, usr.UserID, "", actionDomain.ActionEditUserDetails, patch, cur, reason)
}

// ProposeLoanDeletion stages a soft delete (status cancelled_by_admin).
func (u *Usecase) ProposeLoanDeletion(ctx context.Context, adminUserID, loanID, reason string) (*LogDTO, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loanDomain.ErrNotFound
		}
		return nil, err
	}
	s := string(l.Status)
	cur := actionDomain.LoanPatch{Status: &s, RemainingBalance: &l.RemainingBalance}
	return u.createLog(ctx, adminUserID, l.UserID, l.LoanID, actionDomain.ActionRequestLoanDeletion, actionDomain.LoanPatch{}, cur, reason)
}

func (u *Usecase) createLog(ctx context.Context, adminUserID, targetUserID, targetLoanID string, t actionDomain.ActionType, proposed, current any, reason string) (*LogDTO, error) {
	proposedJSON, err := json.Marshal(proposed)
	if err != nil {
		return nil, err
	}
	currentJSON, err := json.Marshal(current)
	if err != nil {
		return nil, err
	}
	lg := &actionDomain.Log{
		ActionID:        id.NewID32(),
		AdminUserID:     adminUserID,
		TargetUserID:    targetUserID,
		TargetLoanID:    targetLoanID,
		ActionType:      t,
		ProposedChanges: string(proposedJSON),
		CurrentValues:   string(currentJSON),
		AdminReason:     reason,
		Status:          actionDomain.StatusPending,
	}
	var out *LogDTO
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Actions.Create(ctx, lg); err != nil {
			return err
		}
		out = toDTO(lg)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) ListPending(ctx context.Context) ([]LogDTO, error) {
	var out []LogDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		logs, err := r.Actions.ListPending(ctx)
		if err != nil {
			return err
		}
		out = make([]LogDTO, 0, len(logs))
		for i := range logs {
			out = append(out, *toDTO(&logs[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Review settles a pending request. On approve, the staged patch is applied
// to the target entity and the log flips to approved in the same
// transaction; any failure rolls the whole unit back and the request stays
// pending.
func (u *Usecase) Review(ctx context.Context, actionID, reviewerID, decision, remarks string) (*LogDTO, error) {
	if decision != "approve" && decision != "reject" {
		return nil, ErrInvalidDecision
	}

	var out *LogDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		lg, err := r.Actions.GetByActionIDForUpdate(ctx, actionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return actionDomain.ErrNotFound
			}
			return err
		}
		if lg.Status != actionDomain.StatusPending {
			return actionDomain.ErrAlreadyReviewed
		}

		now, err := r.Clock.Get(ctx)
		if err != nil {
			return err
		}

		if decision == "approve" {
			switch lg.ActionType {
			case actionDomain.ActionEditUserDetails:
				err = applyUserPatch(ctx, r, lg)
			case actionDomain.ActionEditLoanDetails:
				err = applyLoanPatch(ctx, r, lg, now)
			case actionDomain.ActionRequestLoanDeletion:
				err = applyLoanDeletion(ctx, r, lg)
			default:
				err = fmt.Errorf("unknown action type %q", lg.ActionType)
			}
			if err != nil {
				return err
			}
			lg.Status = actionDomain.StatusApproved
		} else {
			lg.Status = actionDomain.StatusRejected
		}

		lg.ReviewedBy = reviewerID
		lg.ReviewedAt = &now
		lg.SuperAdminRemarks = remarks
		if err := r.Actions.Save(ctx, lg); err != nil {
			return err
		}
		out = toDTO(lg)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func applyUserPatch(ctx context.Context, r uow.Repos, lg *actionDomain.Log) error {
	var patch actionDomain.UserPatch
	if err := json.Unmarshal([]byte(lg.ProposedChanges), &patch); err != nil {
		return fmt.Errorf("decode user patch: %w", err)
	}
	usr, err := r.Users.GetByUserIDForUpdate(ctx, lg.TargetUserID)
	if err != nil {
		return err
	}
	if patch.FullName != nil {
		usr.FullName = *patch.FullName
	}
	if patch.Email != nil {
		usr.Email = *patch.Email
	}
	if patch.CreditScore != nil {
		usr.CreditScore = finance.ClampCreditScore(*patch.CreditScore)
	}
	if patch.MonthlyIncome != nil {
		usr.MonthlyIncome = *patch.MonthlyIncome
	}
	return r.Users.Save(ctx, usr)
}

func applyLoanPatch(ctx context.Context, r uow.Repos, lg *actionDomain.Log, now time.Time) error {
	var patch actionDomain.LoanPatch
	if err := json.Unmarshal([]byte(lg.ProposedChanges), &patch); err != nil {
		return fmt.Errorf("decode loan patch: %w", err)
	}
	l, err := r.Loans.GetByLoanIDForUpdate(ctx, lg.TargetLoanID)
	if err != nil {
		return err
	}

	// Settlement is a pseudo-field: it lands in the payment ledger, not on
	// the loan row.
	if patch.SettlementPaymentRecorded != nil && *patch.SettlementPaymentRecorded > 0 {
		p := &paymentDomain.Payment{
			PaymentID:   id.NewID32(),
			LoanID:      l.ID,
			UserID:      l.UserID,
			AmountPaid:  finance.Round2(*patch.SettlementPaymentRecorded),
			PaymentDate: now,
			PaymentType: paymentDomain.TypeSettlement,
			Notes:       "Settlement payment recorded upon super admin approval",
		}
		if err := r.Payments.Create(ctx, p); err != nil {
			return fmt.Errorf("record settlement: %w", err)
		}
	}

	if patch.AmountRequested != nil {
		l.AmountRequested = *patch.AmountRequested
	}
	if patch.AmountApproved != nil {
		l.AmountApproved = *patch.AmountApproved
	}
	if patch.TermMonths != nil {
		l.TermMonths = *patch.TermMonths
	}
	if patch.RemainingBalance != nil {
		l.RemainingBalance = *patch.RemainingBalance
	}
	if patch.NextPaymentDueDate != nil {
		t, err := parseDatePtr(*patch.NextPaymentDueDate)
		if err != nil {
			return fmt.Errorf("next_payment_due_date: %w", err)
		}
		l.NextPaymentDueDate = t
	}
	if patch.TheoreticalEndDate != nil {
		t, err := parseDatePtr(*patch.TheoreticalEndDate)
		if err != nil {
			return fmt.Errorf("theoretical_end_date: %w", err)
		}
		l.TheoreticalEndDate = t
	}
	if patch.Status != nil {
		l.Status = loanDomain.Status(*patch.Status)
		// Settling a defaulted loan closes the book: the balance is forced
		// to zero whatever the patch said.
		if l.Status == loanDomain.StatusSettledDefault || l.Status == loanDomain.StatusPaidPostDefault {
			l.RemainingBalance = 0
		}
	}
	return r.Loans.Save(ctx, l)
}

func applyLoanDeletion(ctx context.Context, r uow.Repos, lg *actionDomain.Log) error {
	l, err := r.Loans.GetByLoanIDForUpdate(ctx, lg.TargetLoanID)
	if err != nil {
		return err
	}
	l.Status = loanDomain.StatusCancelledByAdmin
	return r.Loans.Save(ctx, l)
}

// parseDatePtr turns a patch date string into a *time.Time; empty clears it.
func parseDatePtr(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
