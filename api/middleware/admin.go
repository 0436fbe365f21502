package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"storefront/internal/entity"
	"storefront/internal/service"

	"github.com/labstack/echo/v4"
)

const adminTokenCookie = "admin_token"

// Clients have been observed sending the admin header under several
// spellings; matching is case-insensitive across all of them.
var adminHeaderNames = []string{"AdminToken", "Admin-Token", "X-Admin-Token"}

var adminCookiePattern = regexp.MustCompile(`(?:^|;\s*)admin_token=([^;]+)`)

// AdminGate enforces the admin-token protocol on back-office routes. Every
// failure mode (missing token, undecryptable blob, unknown or non-admin
// user) yields the same HTTP 400 "Unauthorized" response.
type AdminGate struct {
	Tokens *service.TokenService
}

func (g AdminGate) Require(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := ExtractAdminToken(c.Request())
		if token == "" {
			return unauthorized(c)
		}
		user, err := g.Tokens.VerifyAdmin(c.Request().Context(), token)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "service unavailable")
		}
		if user == nil {
			return unauthorized(c)
		}
		sessionID, _ := SessionIDFromContext(c)
		SetIdentity(c, &service.Principal{UserID: user.ID, Role: entity.UserRoleAdmin}, sessionID)
		return next(c)
	}
}

// ExtractAdminToken pulls the admin token from, in order: the known header
// spellings (case-insensitive), the admin_token cookie, and finally a regex
// scan of the raw Cookie header.
func ExtractAdminToken(r *http.Request) string {
	for name := range r.Header {
		for _, candidate := range adminHeaderNames {
			if strings.EqualFold(name, candidate) {
				if value := strings.TrimSpace(r.Header.Get(name)); value != "" {
					return value
				}
			}
		}
	}

	if cookie, err := r.Cookie(adminTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	if raw := r.Header.Get("Cookie"); raw != "" {
		if match := adminCookiePattern.FindStringSubmatch(raw); match != nil {
			return strings.TrimSpace(match[1])
		}
	}
	return ""
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"message": "Unauthorized"})
}
