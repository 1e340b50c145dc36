package adminaction

import (
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("admin action not found")
	ErrAlreadyReviewed  = errors.New("admin action already reviewed")
	ErrNothingToPropose = errors.New("proposed change set is empty")
)

type ActionType string

const (
	ActionEditUserDetails     ActionType = "edit_user_details"
	ActionEditLoanDetails     ActionType = "edit_loan_details"
	ActionRequestLoanDeletion ActionType = "request_loan_deletion"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Log is one staged change request. A non-privileged admin creates it
// pending; a super admin sets the terminal status exactly once, together
// with the entity mutation, in a single transaction.
type Log struct {
	ID       uint64 `gorm:"primaryKey;column:id" json:"-"`
	ActionID string `gorm:"size:32;uniqueIndex:ux_admin_actions_action_id" json:"action_id"`
	// AdminUserID is the proposing admin; TargetUserID is the user context
	// (the edited user, or the loan owner for loan actions).
	AdminUserID  string     `gorm:"size:32" json:"admin_user_id"`
	TargetUserID string     `gorm:"size:32" json:"target_user_id"`
	TargetLoanID string     `gorm:"size:32" json:"target_loan_id,omitempty"`
	ActionType   ActionType `gorm:"size:32" json:"action_type"`
	// ProposedChanges and CurrentValues hold the JSON-encoded typed patch
	// and the field values captured at proposal time.
	ProposedChanges   string     `gorm:"type:text" json:"proposed_changes"`
	CurrentValues     string     `gorm:"type:text" json:"current_values"`
	AdminReason       string     `gorm:"type:text" json:"admin_reason"`
	Status            Status     `gorm:"size:16;default:'pending'" json:"status"`
	ReviewedBy        string     `gorm:"size:32" json:"reviewed_by,omitempty"`
	ReviewedAt        *time.Time `json:"reviewed_at,omitempty"`
	SuperAdminRemarks string     `gorm:"type:text" json:"super_admin_remarks,omitempty"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Log) TableName() string { return "admin_actions_log" }
