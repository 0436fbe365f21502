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

// CartHandler operates on the cart of the resolved session. Guests and
// authenticated users go through the same paths.
type CartHandler struct {
	Service  *service.CartService
	Validate *validator.Validate
}

func NewCartHandler(svc *service.CartService, validate *validator.Validate) *CartHandler {
	return &CartHandler{Service: svc, Validate: validate}
}

func (h *CartHandler) Get(c echo.Context) error {
	sessionID, ok := middleware.SessionIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusInternalServerError, errors.New("session not resolved"))
	}
	cart, err := h.Service.GetPricedCart(c.Request().Context(), sessionID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.CartResponseFromPricedCart(cart))
}

func (h *CartHandler) AddItem(c echo.Context) error {
	sessionID, ok := middleware.SessionIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusInternalServerError, errors.New("session not resolved"))
	}
	var req dto.CartAddRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid product id"))
	}
	if err := h.Service.AddItem(c.Request().Context(), sessionID, productID, req.Quantity); err != nil {
		return writeServiceError(c, err)
	}
	return h.Get(c)
}

func (h *CartHandler) UpdateItem(c echo.Context) error {
	sessionID, ok := middleware.SessionIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusInternalServerError, errors.New("session not resolved"))
	}
	productID, err := uuid.Parse(c.Param("productID"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid product id"))
	}
	var req dto.CartUpdateRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Service.UpdateItem(c.Request().Context(), sessionID, productID, req.Quantity); err != nil {
		return writeServiceError(c, err)
	}
	return h.Get(c)
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	sessionID, ok := middleware.SessionIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusInternalServerError, errors.New("session not resolved"))
	}
	productID, err := uuid.Parse(c.Param("productID"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid product id"))
	}
	if err := h.Service.RemoveItem(c.Request().Context(), sessionID, productID); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) Clear(c echo.Context) error {
	sessionID, ok := middleware.SessionIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusInternalServerError, errors.New("session not resolved"))
	}
	if err := h.Service.Clear(c.Request().Context(), sessionID); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}
