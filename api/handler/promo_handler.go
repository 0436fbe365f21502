package handler

import (
	"errors"
	"net/http"

	"storefront/internal/dto"
	"storefront/internal/entity"
	"storefront/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// PromoHandler is the admin-only surface for discounts and coupon codes.
type PromoHandler struct {
	Service  *service.PromoService
	Validate *validator.Validate
}

func NewPromoHandler(svc *service.PromoService, validate *validator.Validate) *PromoHandler {
	return &PromoHandler{Service: svc, Validate: validate}
}

func (h *PromoHandler) ListDiscounts(c echo.Context) error {
	discounts, err := h.Service.ListDiscounts(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.DiscountResponsesFromEntities(discounts))
}

func (h *PromoHandler) CreateDiscount(c echo.Context) error {
	discount, err := h.decodeDiscount(c)
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Service.CreateDiscount(c.Request().Context(), discount); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.DiscountResponseFromEntity(discount))
}

func (h *PromoHandler) UpdateDiscount(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid discount id"))
	}
	discount, err := h.decodeDiscount(c)
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	discount.ID = id
	if err := h.Service.UpdateDiscount(c.Request().Context(), discount); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.DiscountResponseFromEntity(discount))
}

func (h *PromoHandler) DeleteDiscount(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid discount id"))
	}
	if err := h.Service.DeleteDiscount(c.Request().Context(), id); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PromoHandler) ListCoupons(c echo.Context) error {
	coupons, err := h.Service.ListCoupons(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.CouponResponsesFromEntities(coupons))
}

func (h *PromoHandler) CreateCoupon(c echo.Context) error {
	coupon, err := h.decodeCoupon(c)
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Service.CreateCoupon(c.Request().Context(), coupon); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.CouponResponseFromEntity(coupon))
}

func (h *PromoHandler) UpdateCoupon(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid coupon id"))
	}
	coupon, err := h.decodeCoupon(c)
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	coupon.ID = id
	if err := h.Service.UpdateCoupon(c.Request().Context(), coupon); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.CouponResponseFromEntity(coupon))
}

func (h *PromoHandler) DeleteCoupon(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid coupon id"))
	}
	if err := h.Service.DeleteCoupon(c.Request().Context(), id); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PromoHandler) decodeDiscount(c echo.Context) (*entity.Discount, error) {
	var req dto.DiscountRequest
	if err := decodeJSON(c, &req); err != nil {
		return nil, err
	}
	if err := h.validate(req); err != nil {
		return nil, err
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, errors.New("invalid product id")
	}
	return &entity.Discount{
		ProductID: productID,
		Name:      req.Name,
		Rule:      req.Rule.ToRule(),
	}, nil
}

func (h *PromoHandler) decodeCoupon(c echo.Context) (*entity.CouponCode, error) {
	var req dto.CouponRequest
	if err := decodeJSON(c, &req); err != nil {
		return nil, err
	}
	if err := h.validate(req); err != nil {
		return nil, err
	}
	return &entity.CouponCode{
		Code:              req.Code,
		Rule:              req.Rule.ToRule(),
		UsageLimitPerUser: req.UsageLimitPerUser,
	}, nil
}

func (h *PromoHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}
