package adminaction

// Typed patches enumerate exactly the fields an admin may stage for change.
// Nil pointer = field untouched. They marshal to the log's proposed_changes
// JSON, so a pending request is fully self-describing.

// LoanPatch covers edit_loan_details. Dates travel as "2006-01-02" strings;
// an explicit empty string clears the field.
type LoanPatch struct {
	AmountRequested    *float64 `json:"amount_requested,omitempty"`
	AmountApproved     *float64 `json:"amount_approved,omitempty"`
	TermMonths         *int     `json:"term_months,omitempty"`
	Status             *string  `json:"status,omitempty"`
	RemainingBalance   *float64 `json:"remaining_balance,omitempty"`
	NextPaymentDueDate *string  `json:"next_payment_due_date,omitempty"`
	TheoreticalEndDate *string  `json:"theoretical_end_date,omitempty"`
	// SettlementPaymentRecorded is a pseudo-field: on approval it becomes a
	// settlement row in the payment ledger instead of a loan column.
	SettlementPaymentRecorded *float64 `json:"settlement_payment_recorded,omitempty"`
}

func (p LoanPatch) Empty() bool {
	return p.AmountRequested == nil && p.AmountApproved == nil && p.TermMonths == nil &&
		p.Status == nil && p.RemainingBalance == nil && p.NextPaymentDueDate == nil &&
		p.TheoreticalEndDate == nil && p.SettlementPaymentRecorded == nil
}

// UserPatch covers edit_user_details. Credit score edits pass through the
// same clamp as every other score mutation when applied.
type UserPatch struct {
	FullName      *string  `json:"full_name,omitempty"`
	Email         *string  `json:"email,omitempty"`
	CreditScore   *int     `json:"credit_score,omitempty"`
	MonthlyIncome *float64 `json:"monthly_income,omitempty"`
}

func (p UserPatch) Empty() bool {
	return p.FullName == nil && p.Email == nil && p.CreditScore == nil && p.MonthlyIncome == nil
}
