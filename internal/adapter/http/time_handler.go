package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

func (h *Handler) GetSimulatedTime(c echo.Context) error {
	t, err := h.clock.Get(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"current_simulated_datetime": t.UTC().Format(time.RFC3339),
	})
}

type advanceTimeReq struct {
	Days   int `json:"days" validate:"gte=0"`
	Months int `json:"months" validate:"gte=0"`
}

// AdvanceTime is the operator action that drives the accrual engine: jump
// the simulated clock by N days and/or months, then process every eligible
// loan. The response carries the dual success/error lists so partial
// failures stay visible.
func (h *Handler) AdvanceTime(c echo.Context) error {
	var req advanceTimeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	if req.Days == 0 && req.Months == 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "advance requires days or months"})
	}
	res, err := h.engine.AdvanceBy(c.Request().Context(), req.Days, req.Months)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
