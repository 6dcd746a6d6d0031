package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/KruthikaDR/EventFlow-main/internal/tokens"
)

const identityKey = "identity"

// BearerToken extracts the token from an "Authorization: Bearer ..."
// header, or returns "" when absent.
func BearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireLogin gates a route on a verifying access token. The decoded
// claims are placed on the request context for downstream handlers; no
// store lookup happens here.
func RequireLogin(codec *tokens.Codec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := BearerToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			claims, err := codec.ParseAccess(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			c.Set(identityKey, claims)
			return next(c)
		}
	}
}

// RequireRoles allows only the listed roles through; run it after
// RequireLogin.
func RequireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := Identity(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			for _, role := range roles {
				if claims.Role == role {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
		}
	}
}

// Identity returns the claims RequireLogin stored for this request.
func Identity(c echo.Context) (*tokens.AccessClaims, bool) {
	claims, ok := c.Get(identityKey).(*tokens.AccessClaims)
	return claims, ok
}
