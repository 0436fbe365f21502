package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireAuthenticated rejects requests whose identity resolved to guest.
// The body mirrors credential-failure responses elsewhere: a generic message
// that does not reveal whether a credential was absent or invalid.
func RequireAuthenticated(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Unauthorized"})
		}
		return next(c)
	}
}
