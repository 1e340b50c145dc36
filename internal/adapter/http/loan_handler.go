package http

import (
	"net/http"
	"strconv"

	mw "lendsim/internal/adapter/middleware"
	"lendsim/internal/usecase/loanreq"
	"lendsim/internal/usecase/quote"

	"github.com/labstack/echo/v4"
)

type requestLoanReq struct {
	Amount     float64 `json:"amount" validate:"required,gt=0,dec2"`
	TermMonths int     `json:"term_months" validate:"required,gt=0"`
	Purpose    string  `json:"purpose"`
}

func (h *Handler) RequestLoan(c echo.Context) error {
	var req requestLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	dto, err := h.loans.Request(c.Request().Context(), loanreq.RequestInput{
		UserID:     mw.CurrentUserID(c),
		Amount:     req.Amount,
		TermMonths: req.TermMonths,
		Purpose:    req.Purpose,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *Handler) GetLoan(c echo.Context) error {
	dto, err := h.loans.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return fail(c, err)
	}
	// Borrowers see only their own loans; admins see everything.
	if mw.CurrentRole(c) == mw.RoleUser && dto.UserID != mw.CurrentUserID(c) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "loan not found"})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *Handler) MyLoans(c echo.Context) error {
	out, err := h.loans.ListByUser(c.Request().Context(), mw.CurrentUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) ListLoanPayments(c echo.Context) error {
	owner := mw.CurrentUserID(c)
	if mw.CurrentRole(c) != mw.RoleUser {
		owner = "" // admins may inspect any loan's ledger
	}
	out, err := h.loans.ListPayments(c.Request().Context(), c.Param("loan_id"), owner)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// QuoteLoan previews rate/EMI/total. With an explicit credit_score the
// computation is pure; without one the caller's stored score is used.
func (h *Handler) QuoteLoan(c echo.Context) error {
	amount, err := strconv.ParseFloat(c.QueryParam("amount"), 64)
	if err != nil || amount <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "amount must be a positive number"})
	}
	term, err := strconv.Atoi(c.QueryParam("term_months"))
	if err != nil || term <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "term_months must be a positive integer"})
	}

	if raw := c.QueryParam("credit_score"); raw != "" {
		score, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "credit_score must be an integer"})
		}
		dto := quote.Preview(quote.Input{Amount: amount, TermMonths: term, CreditScore: score})
		return c.JSON(http.StatusOK, dto)
	}

	dto, err := h.quotes.PreviewForUser(c.Request().Context(), mw.CurrentUserID(c), amount, term)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
