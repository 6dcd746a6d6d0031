package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/KruthikaDR/EventFlow-main/internal/middleware/auth"
	"github.com/KruthikaDR/EventFlow-main/internal/models"
	"github.com/KruthikaDR/EventFlow-main/internal/tokens"
)

type Deps struct {
	Codec  *tokens.Codec
	Auth   *AuthHTTP
	Search *SearchHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "service": "auth-service"})
	})

	auth := e.Group("/api/auth")

	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/refresh-token", d.Auth.Refresh)
	auth.POST("/logout", d.Auth.Logout)
	auth.GET("/me", d.Auth.Me, authmw.RequireLogin(d.Codec))

	if d.Search != nil {
		auth.GET("/users/search", d.Search.Users,
			authmw.RequireLogin(d.Codec),
			authmw.RequireRoles(models.RoleOrganizer, models.RoleAdmin))
	}
}
