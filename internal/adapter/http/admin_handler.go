package http

import (
	"net/http"

	mw "lendsim/internal/adapter/middleware"
	"lendsim/internal/domain/adminaction"

	"github.com/labstack/echo/v4"
)

func (h *Handler) ApproveLoan(c echo.Context) error {
	dto, err := h.approvals.Approve(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *Handler) RejectLoan(c echo.Context) error {
	dto, err := h.approvals.Reject(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type proposeLoanEditReq struct {
	Patch  adminaction.LoanPatch `json:"patch"`
	Reason string                `json:"reason" validate:"required"`
}

func (h *Handler) ProposeLoanEdit(c echo.Context) error {
	var req proposeLoanEditReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	dto, err := h.adminFlow.ProposeLoanEdit(c.Request().Context(), mw.CurrentUserID(c), c.Param("loan_id"), req.Patch, req.Reason)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type proposeUserEditReq struct {
	Patch  adminaction.UserPatch `json:"patch"`
	Reason string                `json:"reason" validate:"required"`
}

func (h *Handler) ProposeUserEdit(c echo.Context) error {
	var req proposeUserEditReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	dto, err := h.adminFlow.ProposeUserEdit(c.Request().Context(), mw.CurrentUserID(c), c.Param("user_id"), req.Patch, req.Reason)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type proposeDeletionReq struct {
	Reason string `json:"reason" validate:"required"`
}

func (h *Handler) ProposeLoanDeletion(c echo.Context) error {
	var req proposeDeletionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	dto, err := h.adminFlow.ProposeLoanDeletion(c.Request().Context(), mw.CurrentUserID(c), c.Param("loan_id"), req.Reason)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *Handler) ListPendingActions(c echo.Context) error {
	out, err := h.adminFlow.ListPending(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type reviewActionReq struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
	Remarks  string `json:"remarks"`
}

func (h *Handler) ReviewAction(c echo.Context) error {
	var req reviewActionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	dto, err := h.adminFlow.Review(c.Request().Context(), c.Param("action_id"), mw.CurrentUserID(c), req.Decision, req.Remarks)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
