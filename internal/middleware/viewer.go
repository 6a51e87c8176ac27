package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

// ViewerIDKey is the context key under which the authenticated viewer's
// user ID is stored. Absent for anonymous requests.
const ViewerIDKey = "viewerID"

// ViewerClaims are custom claims extending standard jwt.RegisteredClaims
type ViewerClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// ViewerIdentity resolves the requesting viewer from an optional Bearer
// token. No Authorization header means an anonymous viewer, which most
// read endpoints accept; a present but invalid token is rejected.
func ViewerIdentity(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c) // anonymous
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}

			claims := &ViewerClaims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unexpected signing method")
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid || claims.UserID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set(ViewerIDKey, claims.UserID)
			return next(c)
		}
	}
}

// RequireViewer rejects anonymous requests. Applied to mutating routes and
// feeds that have no anonymous form.
func RequireViewer() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := c.Get(ViewerIDKey).(string); !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}
			return next(c)
		}
	}
}
