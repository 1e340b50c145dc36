package http

import (
	"errors"
	"net/http"
	"strings"

	"lendsim/internal/domain/adminaction"
	"lendsim/internal/domain/loan"
	"lendsim/internal/domain/user"
	"lendsim/internal/usecase/adminflow"
	"lendsim/internal/usecase/approval"
	"lendsim/internal/usecase/loanreq"
	"lendsim/internal/usecase/payment"

	"github.com/labstack/echo/v4"
)

// fail translates domain/usecase errors into HTTP responses. Anything
// unmapped is a 500 with an opaque message.
func fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, loan.ErrNotFound),
		errors.Is(err, user.ErrNotFound),
		errors.Is(err, adminaction.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, approval.ErrNotPending),
		errors.Is(err, payment.ErrNotEligible),
		errors.Is(err, adminaction.ErrAlreadyReviewed),
		errors.Is(err, loanreq.ErrPendingExists),
		errors.Is(err, loanreq.ErrDelinquent),
		errors.Is(err, loan.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.Is(err, payment.ErrInvalidAmount),
		errors.Is(err, loanreq.ErrInvalidAmount),
		errors.Is(err, loanreq.ErrAmountExceedsTier),
		errors.Is(err, loanreq.ErrInvalidTerm),
		errors.Is(err, adminflow.ErrInvalidDecision),
		errors.Is(err, adminaction.ErrNothingToPropose):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func validationFailed(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
}

// ---- helpers ----

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
