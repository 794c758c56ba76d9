// Package middleware contains reusable HTTP middleware.  The engine
// does not issue tokens; authentication is an external collaborator
// and the middleware here only verifies its tokens and extracts the
// opaque holder identity.
package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// holderKey is the context key carrying the authenticated holder id.
const holderKey = "holder_id"

// JWTAuth returns an Echo middleware that validates a Bearer access
// token signed with the shared secret and injects the holder identity
// into the request context.  The holder id comes from the token's
// "sub" claim (falling back to "user_id"); handlers read it back via
// HolderID.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			id, ok := holderFromClaims(claims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing subject claim"})
			}
			c.Set(holderKey, id)
			return next(c)
		}
	}
}

// HolderID returns the authenticated holder id injected by JWTAuth,
// or false when the request is unauthenticated.
func HolderID(c echo.Context) (uint64, bool) {
	v, ok := c.Get(holderKey).(uint64)
	return v, ok
}

func holderFromClaims(claims jwt.MapClaims) (uint64, bool) {
	for _, key := range []string{"sub", "user_id"} {
		switch v := claims[key].(type) {
		case string:
			if n, err := strconv.ParseUint(v, 10, 64); err == nil {
				return n, true
			}
		case float64:
			if v >= 0 {
				return uint64(v), true
			}
		}
	}
	return 0, false
}
