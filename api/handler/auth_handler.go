package handler

import (
	"errors"
	"net/http"

	"storefront/api/middleware"
	"storefront/internal/dto"
	"storefront/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	Service  *service.AuthService
	Validate *validator.Validate
}

func NewAuthHandler(svc *service.AuthService, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{Service: svc, Validate: validate}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	sessionID, _ := middleware.SessionIDFromContext(c)
	input := service.RegisterInput{Name: req.Name, Email: req.Email, Password: req.Password}
	result, err := h.Service.Register(c.Request().Context(), input, sessionID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, mapLoginResponse(result))
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	sessionID, _ := middleware.SessionIDFromContext(c)
	input := service.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		SessionID: sessionID,
		IPAddress: stringPtr(c.RealIP()),
	}
	result, err := h.Service.Login(c.Request().Context(), input)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, mapLoginResponse(result))
}

func (h *AuthHandler) AppLogin(c echo.Context) error {
	var req dto.AppLoginRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	sessionID, _ := middleware.SessionIDFromContext(c)
	input := service.AppLoginInput{
		Email:       req.Email,
		Password:    req.Password,
		DeviceToken: req.DeviceToken,
		DeviceType:  req.DeviceType,
		SessionID:   sessionID,
		IPAddress:   stringPtr(c.RealIP()),
	}
	result, err := h.Service.AppLogin(c.Request().Context(), input)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, mapLoginResponse(result))
}

func (h *AuthHandler) Logout(c echo.Context) error {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		return writeError(c, http.StatusBadRequest, errors.New("Unauthorized"))
	}
	sessionID, _ := middleware.SessionIDFromContext(c)
	if err := h.Service.Logout(c.Request().Context(), principal.UserID, sessionID, stringPtr(c.RealIP())); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) Me(c echo.Context) error {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		return writeError(c, http.StatusBadRequest, errors.New("Unauthorized"))
	}
	user, err := h.Service.GetCurrentUser(c.Request().Context(), principal.UserID)
	if err != nil {
		return writeServiceError(c, err)
	}
	if user == nil {
		return writeError(c, http.StatusNotFound, errors.New("user not found"))
	}
	return c.JSON(http.StatusOK, dto.UserResponseFromEntity(user))
}

func (h *AuthHandler) ListUsers(c echo.Context) error {
	limit, offset := parseLimitOffset(c)
	users, err := h.Service.ListUsers(c.Request().Context(), limit, offset)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.UserResponsesFromEntities(users))
}

func (h *AuthHandler) PasswordForgot(c echo.Context) error {
	var req dto.PasswordForgotRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Service.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusAccepted)
}

func (h *AuthHandler) PasswordReset(c echo.Context) error {
	var req dto.PasswordResetRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Service.ResetPassword(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}

func mapLoginResponse(result *service.LoginResult) *dto.LoginResponse {
	if result == nil {
		return &dto.LoginResponse{}
	}
	return &dto.LoginResponse{
		Token: result.Token,
		User:  dto.UserResponseFromEntity(result.User),
	}
}
