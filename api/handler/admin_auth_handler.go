package handler

import (
	"errors"
	"net/http"
	"time"

	"storefront/api/middleware"
	"storefront/internal/dto"
	"storefront/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// AdminAuthHandler covers the admin login flow, including the TOTP step-up,
// and the MFA enrollment endpoints.
type AdminAuthHandler struct {
	Service       *service.AuthService
	Validate      *validator.Validate
	CookieDomain  string
	SecureCookies bool
	TokenMaxAge   time.Duration
}

func NewAdminAuthHandler(svc *service.AuthService, validate *validator.Validate) *AdminAuthHandler {
	return &AdminAuthHandler{
		Service:       svc,
		Validate:      validate,
		SecureCookies: true,
		TokenMaxAge:   12 * time.Hour,
	}
}

func (h *AdminAuthHandler) Login(c echo.Context) error {
	var req dto.AdminLoginRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	input := service.AdminLoginInput{
		Email:     req.Email,
		Password:  req.Password,
		IPAddress: stringPtr(c.RealIP()),
	}
	result, err := h.Service.AdminLogin(c.Request().Context(), input)
	if err != nil {
		return writeServiceError(c, err)
	}
	return h.respond(c, result)
}

func (h *AdminAuthHandler) LoginMFA(c echo.Context) error {
	var req dto.AdminLoginMFARequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	result, err := h.Service.AdminLoginMFA(c.Request().Context(), req.MFAToken, req.Code, stringPtr(c.RealIP()))
	if err != nil {
		return writeServiceError(c, err)
	}
	return h.respond(c, result)
}

func (h *AdminAuthHandler) EnableMFA(c echo.Context) error {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		return writeError(c, http.StatusBadRequest, errors.New("Unauthorized"))
	}
	qr, err := h.Service.EnableMFA(c.Request().Context(), principal.UserID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MFAEnableResponse{QRCode: qr})
}

func (h *AdminAuthHandler) VerifyMFA(c echo.Context) error {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		return writeError(c, http.StatusBadRequest, errors.New("Unauthorized"))
	}
	var req dto.MFAVerifyRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Service.VerifyMFA(c.Request().Context(), principal.UserID, req.Code); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminAuthHandler) DisableMFA(c echo.Context) error {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		return writeError(c, http.StatusBadRequest, errors.New("Unauthorized"))
	}
	if err := h.Service.DisableMFA(c.Request().Context(), principal.UserID); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminAuthHandler) respond(c echo.Context, result *service.AdminLoginResult) error {
	response := dto.AdminLoginResponse{
		AdminToken:        result.AdminToken,
		MFARequired:       result.MFARequired,
		MFAToken:          result.MFAToken,
		MFATokenExpiresIn: result.MFATokenExpiresIn,
	}
	if result.AdminToken != "" {
		h.setAdminCookie(c, result.AdminToken)
	}
	return c.JSON(http.StatusOK, response)
}

func (h *AdminAuthHandler) setAdminCookie(c echo.Context, token string) {
	maxAge := h.TokenMaxAge
	if maxAge <= 0 {
		maxAge = 12 * time.Hour
	}
	c.SetCookie(&http.Cookie{
		Name:     "admin_token",
		Value:    token,
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   int(maxAge.Seconds()),
		Expires:  time.Now().Add(maxAge),
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AdminAuthHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}
