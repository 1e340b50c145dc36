package http

import (
	"net/http"

	"lendsim/internal/domain/simclock"
	"lendsim/internal/usecase/adminflow"
	"lendsim/internal/usecase/approval"
	"lendsim/internal/usecase/loanreq"
	"lendsim/internal/usecase/payment"
	"lendsim/internal/usecase/quote"
	"lendsim/internal/usecase/timeadvance"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	quotes    *quote.Usecase
	loans     *loanreq.Usecase
	approvals *approval.Usecase
	payments  *payment.Usecase
	engine    *timeadvance.Engine
	adminFlow *adminflow.Usecase
	clock     simclock.Repository
}

func NewHandler(
	quotes *quote.Usecase,
	loans *loanreq.Usecase,
	approvals *approval.Usecase,
	payments *payment.Usecase,
	engine *timeadvance.Engine,
	adminFlow *adminflow.Usecase,
	clock simclock.Repository,
) *Handler {
	return &Handler{
		quotes:    quotes,
		loans:     loans,
		approvals: approvals,
		payments:  payments,
		engine:    engine,
		adminFlow: adminFlow,
		clock:     clock,
	}
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
	})
}
