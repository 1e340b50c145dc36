// Package timeadvance is the batch engine behind the operator's "advance
// time" action. Given the new simulated instant and the number of days
// jumped, it activates approved loans, charges missed-payment penalties,
// escalates loans past their end date, accrues default interest, and
// transitions long-overdue loans to defaulted. Every loan is its own
// transaction: one bad loan never blocks the rest of the batch, and
// re-running the same target date applies nothing thanks to the last-applied
// date markers on each loan.
package timeadvance

import (
	"context"
	"fmt"
	"time"

	"lendsim/internal/config"
	loanDomain "lendsim/internal/domain/loan"
	paymentDomain "lendsim/internal/domain/payment"
	"lendsim/internal/domain/simclock"
	"lendsim/internal/domain/uow"
	"lendsim/pkg/finance"
	"lendsim/pkg/id"
)

type Engine struct {
	uow    uow.UnitOfWork
	loans  loanDomain.Repository
	clock  simclock.Repository
	params config.EngineParams
}

func NewEngine(tx uow.UnitOfWork, loans loanDomain.Repository, clock simclock.Repository, params config.EngineParams) *Engine {
	return &Engine{uow: tx, loans: loans, clock: clock, params: params}
}

// Result reports the batch outcome as dual lists so the operator sees
// exactly which loans were touched and which failed. Partial success is
// normal, not an error.
type Result struct {
	Successes []string `json:"successes"`
	Errors    []string `json:"errors"`
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(dateOnly(to).Sub(dateOnly(from)).Hours() / 24)
}

// AdvanceBy moves the simulated clock forward by whole days and/or months
// from its current value, then runs the batch.
func (e *Engine) AdvanceBy(ctx context.Context, days, months int) (*Result, error) {
	cur, err := e.clock.Get(ctx)
	if err != nil {
		return nil, err
	}
	target := cur.AddDate(0, months, days)
	elapsed := daysBetween(cur, target)
	return e.Advance(ctx, target, elapsed)
}

// Advance persists the new simulated time and walks all eligible loans.
// Failures are collected per loan; the returned error covers only faults
// that prevent the batch from running at all.
func (e *Engine) Advance(ctx context.Context, newTime time.Time, daysAdvanced int) (*Result, error) {
	newTime = newTime.UTC()
	res := &Result{Successes: []string{}, Errors: []string{}}

	if err := e.clock.Set(ctx, newTime); err != nil {
		return nil, fmt.Errorf("persist simulated time: %w", err)
	}
	res.Successes = append(res.Successes,
		fmt.Sprintf("simulated time advanced to %s", newTime.Format("2006-01-02 15:04:05")))

	// Activation sweep: approved loans whose start date has arrived.
	activated, err := e.loans.ActivateDue(ctx, dateOnly(newTime))
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("activating loans: %v", err))
	} else if activated > 0 {
		res.Successes = append(res.Successes,
			fmt.Sprintf("%d loan(s) activated as their start date was reached", activated))
	}

	candidates, err := e.loans.ListForAccrual(ctx)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("fetching loans for accrual: %v", err))
		return res, nil
	}

	for i := range candidates {
		loanID := candidates[i].LoanID
		err := e.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loanDomain.Loan) error {
			return e.processLoan(ctx, r, l, newTime, daysAdvanced, res)
		})
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("loan %s: %v", loanID, err))
		}
	}
	return res, nil
}

// processLoan applies the per-loan accrual steps in order. Each step's
// balance delta feeds the next, so ordering is part of the contract:
// standard penalty, escalated penalty, default interest, default transition.
func (e *Engine) processLoan(ctx context.Context, r uow.Repos, l *loanDomain.Loan, now time.Time, daysAdvanced int, res *Result) error {
	today := dateOnly(now)
	dirty := false
	scoreDelta := 0

	// Step 1: standard penalty for a missed payment past the grace period.
	// last_penalized_due_date guards against charging the same due date twice.
	if l.Status == loanDomain.StatusActive && l.NextPaymentDueDate != nil {
		due := dateOnly(*l.NextPaymentDueDate)
		graceEnd := due.AddDate(0, 0, e.params.GracePeriodDays)
		alreadyCharged := l.LastPenalizedDueDate != nil && !dateOnly(*l.LastPenalizedDueDate).Before(due)
		if today.After(graceEnd) && !alreadyCharged {
			amt := finance.Round2(e.params.PenaltyAmount)
			p := &paymentDomain.Payment{
				PaymentID:   id.NewID32(),
				LoanID:      l.ID,
				UserID:      l.UserID,
				AmountPaid:  amt,
				PaymentDate: now,
				PaymentType: paymentDomain.TypePenalty,
				Notes:       fmt.Sprintf("Overdue payment penalty applied on %s for due date %s", today.Format("2006-01-02"), due.Format("2006-01-02")),
			}
			if err := r.Payments.Create(ctx, p); err != nil {
				return fmt.Errorf("record penalty: %w", err)
			}
			l.RemainingBalance = finance.Round2(l.RemainingBalance + amt)
			l.LastPenalizedDueDate = &due
			dirty = true
			scoreDelta += e.params.PenaltyScoreDelta
			res.Successes = append(res.Successes,
				fmt.Sprintf("loan %s: penalty of %.2f applied for due date %s", l.LoanID, amt, due.Format("2006-01-02")))
		}
	}

	// Step 2: escalated weekly penalty past the theoretical end date. Whole
	// weeks since the later of the end date and the last escalation; all
	// pending weeks are summed into one ledger row per cycle, and the score
	// hit lands once per cycle regardless of the week count.
	if l.TheoreticalEndDate != nil && l.RemainingBalance > 0 && l.Status != loanDomain.StatusPaidOff {
		end := dateOnly(*l.TheoreticalEndDate)
		if today.After(end) {
			since := end
			if l.LastEscalatedPenaltyDate != nil && dateOnly(*l.LastEscalatedPenaltyDate).After(end) {
				since = dateOnly(*l.LastEscalatedPenaltyDate)
			}
			weeks := daysBetween(since, today) / 7
			if weeks >= 1 {
				amt := finance.Round2(float64(weeks) * e.params.EscalatedWeeklyAmount)
				p := &paymentDomain.Payment{
					PaymentID:   id.NewID32(),
					LoanID:      l.ID,
					UserID:      l.UserID,
					AmountPaid:  amt,
					PaymentDate: now,
					PaymentType: paymentDomain.TypeEscalatedPenalty,
					Notes:       fmt.Sprintf("Escalated penalty for %d overdue week(s) past term end", weeks),
				}
				if err := r.Payments.Create(ctx, p); err != nil {
					return fmt.Errorf("record escalated penalty: %w", err)
				}
				l.RemainingBalance = finance.Round2(l.RemainingBalance + amt)
				l.LastEscalatedPenaltyDate = &today
				dirty = true
				scoreDelta += e.params.PenaltyScoreDelta
				res.Successes = append(res.Successes,
					fmt.Sprintf("loan %s: escalated penalty of %.2f applied (%d week(s))", l.LoanID, amt, weeks))
			}
		}
	}

	// Step 3: daily default interest on the outstanding defaulted balance.
	// No score effect: the default transition already charged it.
	if l.Status == loanDomain.StatusDefaulted && l.RemainingBalance > 0 {
		days := daysAdvanced
		if l.LastDefaultInterestAccrualDate != nil {
			days = daysBetween(*l.LastDefaultInterestAccrualDate, today)
		}
		if days > 0 {
			interest := finance.Round2(l.RemainingBalance * e.params.DefaultAnnualRate / 365 * float64(days))
			if interest > 0 {
				p := &paymentDomain.Payment{
					PaymentID:   id.NewID32(),
					LoanID:      l.ID,
					UserID:      l.UserID,
					AmountPaid:  interest,
					PaymentDate: now,
					PaymentType: paymentDomain.TypeDefaultInterest,
					Notes:       fmt.Sprintf("Default interest accrued for %d day(s)", days),
				}
				if err := r.Payments.Create(ctx, p); err != nil {
					return fmt.Errorf("record default interest: %w", err)
				}
				l.RemainingBalance = finance.Round2(l.RemainingBalance + interest)
				l.LastDefaultInterestAccrualDate = &today
				dirty = true
				res.Successes = append(res.Successes,
					fmt.Sprintf("loan %s: default interest of %.2f accrued (%d day(s))", l.LoanID, interest, days))
			}
		}
	}

	// Step 4: default transition once the loan is far enough past its end.
	if l.Status != loanDomain.StatusDefaulted && l.TheoreticalEndDate != nil {
		if daysBetween(*l.TheoreticalEndDate, today) > e.params.DefaultAfterDays {
			l.Status = loanDomain.StatusDefaulted
			dirty = true
			scoreDelta += e.params.DefaultScoreDelta
			res.Successes = append(res.Successes, fmt.Sprintf("loan %s: marked defaulted", l.LoanID))
		}
	}

	if !dirty {
		return nil
	}
	if err := r.Loans.Save(ctx, l); err != nil {
		return fmt.Errorf("save loan: %w", err)
	}
	if scoreDelta != 0 {
		usr, err := r.Users.GetByUserIDForUpdate(ctx, l.UserID)
		if err != nil {
			return fmt.Errorf("adjust credit score: %w", err)
		}
		usr.CreditScore = finance.ClampCreditScore(usr.CreditScore + scoreDelta)
		if err := r.Users.Save(ctx, usr); err != nil {
			return fmt.Errorf("save credit score: %w", err)
		}
	}
	return nil
}
