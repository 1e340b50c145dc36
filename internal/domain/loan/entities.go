package loan

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("loan not found")
	ErrNotEligible       = errors.New("loan not eligible for this operation")
	ErrInvalidTransition = errors.New("invalid loan state transition")
)

type Status string

const (
	StatusPending          Status = "pending"
	StatusApproved         Status = "approved"
	StatusActive           Status = "active"
	StatusPaidOff          Status = "paid_off"
	StatusRejected         Status = "rejected"
	StatusDefaulted        Status = "defaulted"
	StatusCancelledByAdmin Status = "cancelled_by_admin"
	StatusSettledDefault   Status = "settled_default"
	StatusPaidPostDefault  Status = "paid_post_default"
)

// Terminal reports whether no further lifecycle mutation may touch the loan
// (admin overrides through the change-request workflow excepted).
func (s Status) Terminal() bool {
	switch s {
	case StatusPaidOff, StatusRejected, StatusCancelledByAdmin, StatusSettledDefault, StatusPaidPostDefault:
		return true
	}
	return false
}

type Loan struct {
	ID     uint64 `gorm:"primaryKey;column:id" json:"-"`
	LoanID string `gorm:"size:32;uniqueIndex:ux_loans_loan_id_active" json:"loan_id"`
	// UserID is the owner's public id; immutable after creation.
	UserID              string  `gorm:"size:32;index:idx_loans_user_active" json:"user_id"`
	Purpose             string  `gorm:"type:text" json:"purpose"`
	AmountRequested     float64 `gorm:"type:decimal(18,2)" json:"amount_requested"`
	AmountApproved      float64 `gorm:"type:decimal(18,2)" json:"amount_approved"`
	InterestRateMonthly float64 `gorm:"type:decimal(6,4)" json:"interest_rate_monthly"`
	TermMonths          int     `json:"term_months"`
	Status              Status  `gorm:"size:24;default:'pending'" json:"status"`

	RequestDate        time.Time  `json:"request_date"`
	ApprovalDate       *time.Time `json:"approval_date,omitempty"`
	StartDate          *time.Time `gorm:"type:date" json:"start_date,omitempty"`
	TheoreticalEndDate *time.Time `gorm:"type:date" json:"theoretical_end_date,omitempty"`
	NextPaymentDueDate *time.Time `gorm:"type:date" json:"next_payment_due_date,omitempty"`

	TotalRepaymentAmount float64 `gorm:"type:decimal(18,2)" json:"total_repayment_amount"`
	RemainingBalance     float64 `gorm:"type:decimal(18,2)" json:"remaining_balance"`

	// Idempotence markers for the time-advance engine; nil means the
	// corresponding accrual has never fired for this loan.
	LastPenalizedDueDate           *time.Time `gorm:"type:date" json:"last_penalized_due_date,omitempty"`
	LastEscalatedPenaltyDate       *time.Time `gorm:"type:date" json:"last_escalated_penalty_date,omitempty"`
	LastDefaultInterestAccrualDate *time.Time `gorm:"type:date" json:"last_default_interest_accrual_date,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	DeletedBy string         `gorm:"size:32" json:"-"`
}

func (Loan) TableName() string { return "loans" }
