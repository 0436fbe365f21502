package handler

import (
	"errors"
	"net/http"

	"storefront/api/middleware"
	"storefront/internal/dto"
	"storefront/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CheckoutHandler struct {
	Service  *service.CheckoutService
	Validate *validator.Validate
}

func NewCheckoutHandler(svc *service.CheckoutService, validate *validator.Validate) *CheckoutHandler {
	return &CheckoutHandler{Service: svc, Validate: validate}
}

// ApplyCoupon previews a coupon against the current cart. Nothing is
// redeemed; the redemption slot is only consumed at checkout.
func (h *CheckoutHandler) ApplyCoupon(c echo.Context) error {
	sessionID, ok := middleware.SessionIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusInternalServerError, errors.New("session not resolved"))
	}
	var req dto.CouponApplyRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	preview, err := h.Service.PreviewCoupon(c.Request().Context(), sessionID, req.Code)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.CouponPreviewResponse{
		Code:           preview.Code,
		ItemsTotal:     preview.ItemsTotal,
		CouponDiscount: preview.CouponDiscount,
		Total:          preview.Total,
	})
}

func (h *CheckoutHandler) Checkout(c echo.Context) error {
	sessionID, ok := middleware.SessionIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusInternalServerError, errors.New("session not resolved"))
	}
	var req dto.CheckoutRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}

	var userID *uuid.UUID
	if principal, ok := middleware.PrincipalFromContext(c); ok {
		userID = &principal.UserID
	}
	input := service.CheckoutInput{
		SessionID:  sessionID,
		UserID:     userID,
		Email:      req.Email,
		CouponCode: req.CouponCode,
		IPAddress:  stringPtr(c.RealIP()),
	}
	order, err := h.Service.Checkout(c.Request().Context(), input)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.OrderResponseFromEntity(order))
}

func (h *CheckoutHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}
