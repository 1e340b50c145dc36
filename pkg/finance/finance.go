// Package finance holds the pure rate and amortization math shared by the
// quote endpoint, loan approval, and admin displays. Everything here is
// deterministic: stored loan rates must reproduce bit-for-bit what a quote
// returned, so callers never re-round the results.
package finance

import (
	"github.com/shopspring/decimal"
)

const (
	baseMonthlyRate = 0.0050
	minMonthlyRate  = 0.0030
	maxMonthlyRate  = 0.0100
)

// MonthlyRate computes the dynamic monthly interest rate (a decimal
// fraction, e.g. 0.005 for 0.50%) from the borrower's credit score, the
// requested amount, and the term. Adjustments are additive per tier and the
// result is clamped to [0.30%, 1.00%] and rounded to 4 decimal places.
func MonthlyRate(creditScore int, amount float64, termMonths int) float64 {
	rate := decimal.NewFromFloat(baseMonthlyRate)

	var scoreAdj float64
	switch {
	case creditScore >= 750:
		scoreAdj = -0.0005
	case creditScore >= 650:
		scoreAdj = 0
	case creditScore >= 550:
		scoreAdj = 0.0005
	case creditScore >= 450:
		scoreAdj = 0.0010
	default:
		scoreAdj = 0.0015
	}

	var amountAdj float64
	switch {
	case amount > 50000:
		amountAdj = -0.0002
	case amount <= 5000:
		amountAdj = 0.0002
	}

	var termAdj float64
	switch {
	case termMonths >= 18:
		termAdj = 0.0005
	case termMonths <= 6:
		termAdj = -0.0002
	}

	rate = rate.
		Add(decimal.NewFromFloat(scoreAdj)).
		Add(decimal.NewFromFloat(amountAdj)).
		Add(decimal.NewFromFloat(termAdj))

	min := decimal.NewFromFloat(minMonthlyRate)
	max := decimal.NewFromFloat(maxMonthlyRate)
	if rate.LessThan(min) {
		rate = min
	}
	if rate.GreaterThan(max) {
		rate = max
	}
	f, _ := rate.Round(4).Float64()
	return f
}

// EMI returns the equated monthly installment for a principal amortized at
// monthlyRate over termMonths: P*r*(1+r)^n / ((1+r)^n - 1), rounded to
// currency precision. A zero rate degenerates to principal/term.
func EMI(principal, monthlyRate float64, termMonths int) float64 {
	if principal <= 0 || termMonths <= 0 {
		return 0
	}
	p := decimal.NewFromFloat(principal)
	n := decimal.NewFromInt(int64(termMonths))
	if monthlyRate == 0 {
		f, _ := p.DivRound(n, 2).Float64()
		return f
	}
	r := decimal.NewFromFloat(monthlyRate)
	compound := decimal.NewFromInt(1).Add(r).Pow(n) // (1+r)^n
	num := p.Mul(r).Mul(compound)
	den := compound.Sub(decimal.NewFromInt(1))
	f, _ := num.DivRound(den, 2).Float64()
	return f
}

// TotalRepayment is the amount frozen on the loan at approval time: the
// rounded EMI times the term, rounded again to currency precision.
func TotalRepayment(principal, monthlyRate float64, termMonths int) float64 {
	emi := decimal.NewFromFloat(EMI(principal, monthlyRate, termMonths))
	f, _ := emi.Mul(decimal.NewFromInt(int64(termMonths))).Round(2).Float64()
	return f
}

// Round2 rounds an amount to currency precision. Balance arithmetic on
// loans goes through here so float drift never accumulates past a cent.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// ClampCreditScore keeps a credit score inside the valid [300, 850] band.
func ClampCreditScore(score int) int {
	if score < 300 {
		return 300
	}
	if score > 850 {
		return 850
	}
	return score
}
