package middleware

import (
	"net/http"
	"strings"
	"time"

	"storefront/internal/service"

	"github.com/labstack/echo/v4"
)

const (
	sessionIDHeader   = "X-Session-ID"
	sessionIDCookie   = "session_id"
	authTokenCookie   = "auth_token"
	sessionCookieDays = 30
)

// IdentityMiddleware resolves every request to a principal (possibly none)
// and a session id, upserting the session row as a side effect. A failure to
// reach the store is a server error, never a silent downgrade to guest.
type IdentityMiddleware struct {
	Identity      *service.IdentityService
	CookieDomain  string
	SecureCookies bool
}

func (m IdentityMiddleware) Resolve(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		request := c.Request()
		bearer := extractBearerToken(request)
		if bearer == "" {
			// The auth_token cookie carries the same opaque bearer value for
			// browser clients that never set an Authorization header.
			bearer = strings.TrimSpace(readCookie(c, authTokenCookie))
		}
		creds := service.Credentials{
			BearerToken:     bearer,
			HeaderSessionID: strings.TrimSpace(request.Header.Get(sessionIDHeader)),
			CookieSessionID: readCookie(c, sessionIDCookie),
			UserAgent:       optionalString(request.UserAgent()),
			IPAddress:       optionalString(c.RealIP()),
		}

		resolution, err := m.Identity.Resolve(request.Context(), creds)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "service unavailable")
		}

		m.refreshSessionCookie(c, resolution.SessionID)
		c.Response().Header().Set(sessionIDHeader, resolution.SessionID)
		SetIdentity(c, resolution.Principal, resolution.SessionID)
		return next(c)
	}
}

func (m IdentityMiddleware) refreshSessionCookie(c echo.Context, sessionID string) {
	c.SetCookie(&http.Cookie{
		Name:     sessionIDCookie,
		Value:    sessionID,
		Path:     "/",
		Domain:   m.CookieDomain,
		MaxAge:   sessionCookieDays * 24 * 60 * 60,
		Expires:  time.Now().AddDate(0, 0, sessionCookieDays),
		HttpOnly: true,
		Secure:   m.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func extractBearerToken(r *http.Request) string {
	authorization := r.Header.Get("Authorization")
	if authorization == "" {
		return ""
	}
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func readCookie(c echo.Context, name string) string {
	cookie, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func optionalString(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
