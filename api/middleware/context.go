package middleware

import (
	"storefront/internal/service"

	"github.com/labstack/echo/v4"
)

const (
	contextPrincipalKey = "identity_principal"
	contextSessionKey   = "identity_session_id"
)

func SetIdentity(c echo.Context, principal *service.Principal, sessionID string) {
	c.Set(contextPrincipalKey, principal)
	c.Set(contextSessionKey, sessionID)
}

func PrincipalFromContext(c echo.Context) (*service.Principal, bool) {
	value := c.Get(contextPrincipalKey)
	principal, ok := value.(*service.Principal)
	if !ok || principal == nil {
		return nil, false
	}
	return principal, true
}

func SessionIDFromContext(c echo.Context) (string, bool) {
	value := c.Get(contextSessionKey)
	sessionID, ok := value.(string)
	if !ok || sessionID == "" {
		return "", false
	}
	return sessionID, true
}
