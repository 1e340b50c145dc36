package payment

import "time"

type Type string

const (
	TypeScheduled        Type = "scheduled"
	TypePenalty          Type = "penalty"
	TypeEscalatedPenalty Type = "escalated_penalty"
	TypeDefaultInterest  Type = "default_interest"
	TypeSettlement       Type = "settlement"
)

// Payment is one row of the append-only loan ledger. Rows are never updated
// or deleted; charges (penalties, accrued interest) appear here with the
// amount they added to the loan's remaining balance.
type Payment struct {
	ID        uint64 `gorm:"primaryKey;column:id" json:"-"`
	PaymentID string `gorm:"size:32;uniqueIndex:ux_loan_payments_payment_id" json:"payment_id"`
	// LoanID is the numeric FK to loans.id.
	LoanID      uint64    `gorm:"index:idx_loan_payments_loan" json:"-"`
	UserID      string    `gorm:"size:32" json:"user_id"`
	AmountPaid  float64   `gorm:"type:decimal(18,2)" json:"amount_paid"`
	PaymentDate time.Time `json:"payment_date"`
	PaymentType Type      `gorm:"size:24" json:"payment_type"`
	Notes       string    `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Payment) TableName() string { return "loan_payments" }
