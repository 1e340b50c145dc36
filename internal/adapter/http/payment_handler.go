package http

import (
	"net/http"

	mw "lendsim/internal/adapter/middleware"

	"github.com/labstack/echo/v4"
)

type makePaymentReq struct {
	Amount float64 `json:"amount" validate:"required,gt=0,dec2"`
}

func (h *Handler) MakePayment(c echo.Context) error {
	var req makePaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	res, err := h.payments.MakePayment(c.Request().Context(), c.Param("loan_id"), mw.CurrentUserID(c), req.Amount)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
