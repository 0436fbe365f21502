package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/service"

	"github.com/labstack/echo/v4"
)

func decodeJSON(c echo.Context, target any) error {
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeError(c echo.Context, status int, err error) error {
	return c.JSON(status, map[string]string{"message": err.Error()})
}

// writeServiceError maps service sentinels onto HTTP statuses. Credential
// failures always come back as a 400 with a constant body: the caller learns
// nothing about which part of the credential was wrong.
func writeServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return writeError(c, http.StatusBadRequest, errors.New("Unauthorized"))
	case errors.Is(err, service.ErrInvalidInput):
		return writeError(c, http.StatusBadRequest, err)
	case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrInvalidMFACode):
		return writeError(c, http.StatusUnauthorized, err)
	case errors.Is(err, service.ErrEmailAlreadyRegistered), errors.Is(err, service.ErrCategoryInUse):
		return writeError(c, http.StatusConflict, err)
	case errors.Is(err, service.ErrMFARequired):
		return writeError(c, http.StatusPreconditionRequired, err)
	case errors.Is(err, service.ErrMFANotConfigured):
		return writeError(c, http.StatusFailedDependency, err)
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrDiscountNotFound),
		errors.Is(err, service.ErrCouponNotFound),
		errors.Is(err, service.ErrCartItemNotFound):
		return writeError(c, http.StatusNotFound, err)
	case errors.Is(err, service.ErrCartEmpty):
		return writeError(c, http.StatusBadRequest, err)
	case errors.Is(err, service.ErrCouponNotApplicable):
		return writeError(c, http.StatusUnprocessableEntity, err)
	}
	return writeError(c, http.StatusInternalServerError, errors.New("internal server error"))
}

func parseLimitOffset(c echo.Context) (int, int) {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	return limit, offset
}

func stringPtr(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
