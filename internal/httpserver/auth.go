package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/KruthikaDR/EventFlow-main/internal/logging"
	authmw "github.com/KruthikaDR/EventFlow-main/internal/middleware/auth"
	"github.com/KruthikaDR/EventFlow-main/internal/models"
	"github.com/KruthikaDR/EventFlow-main/internal/mykafka"
	"github.com/KruthikaDR/EventFlow-main/internal/search"
	"github.com/KruthikaDR/EventFlow-main/internal/service"
)

const eventTimeout = 5 * time.Second

type AuthHTTP struct {
	Svc      *service.AuthService
	Producer *mykafka.Producer
	Indexer  *search.Indexer
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Username  string `json:"username"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		College   string `json:"college"`
		Role      string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("register failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, pair, err := h.Svc.Register(ctx, service.RegisterInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		College:     req.College,
		Role:        req.Role,
		CallerToken: authmw.BearerToken(c),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			return echo.NewHTTPError(http.StatusBadRequest, "User already exists with this email")
		case errors.Is(err, service.ErrUsernameTaken):
			return echo.NewHTTPError(http.StatusBadRequest, "Username already taken")
		case errors.Is(err, service.ErrAllocationExhausted):
			return echo.NewHTTPError(http.StatusBadRequest, "Could not allocate a username")
		case errors.Is(err, service.ErrForbidden):
			return echo.NewHTTPError(http.StatusForbidden, "Forbidden: Only admins can create organizer accounts")
		case errors.Is(err, service.ErrElevationToken):
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		default:
			l.Error("register failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Server error during registration")
		}
	}

	h.publishEvent(ctx, "account_registered", user)
	h.indexProfile(ctx, user)

	return c.JSON(http.StatusCreated, echo.Map{
		"message":      "User registered successfully",
		"user":         user,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, pair, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
		}
		l.Error("login failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error during login")
	}

	h.publishEvent(ctx, "account_logged_in", user)

	return c.JSON(http.StatusOK, echo.Map{
		"message":      "Login successful",
		"user":         user,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("refresh failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	pair, err := h.Svc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		// one generic denial for bad signatures, expiry and superseded
		// sessions alike
		if errors.Is(err, service.ErrUnauthenticated) || errors.Is(err, service.ErrSessionInvalidated) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid refresh token")
		}
		l.Error("refresh failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error during token refresh")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("logout failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Logout(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrMissingToken) {
			return echo.NewHTTPError(http.StatusBadRequest, "Refresh token is required")
		}
		l.Error("logout failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error during logout")
	}

	// only a real session ending is an event; an unheld token cleared
	// nothing
	if user != nil {
		h.publishEvent(ctx, "account_logged_out", user)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Logged out successfully",
	})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()

	claims, ok := authmw.Identity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
	}

	user, err := h.Svc.AccountByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		logging.FromContext(ctx).Error("me failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

// publishEvent pushes an account event to Kafka best-effort: delivery
// problems are logged, never surfaced to the client.
func (h *AuthHTTP) publishEvent(ctx context.Context, kind string, user *models.User) {
	event := map[string]any{
		"type":     kind,
		"userId":   user.ID,
		"username": user.Username,
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventTimeout)
	defer cancel()

	if err := h.Producer.PublishEvent(pubCtx, user.ID, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "event", kind, "error", err)
	}
}

func (h *AuthHTTP) indexProfile(ctx context.Context, user *models.User) {
	idxCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventTimeout)
	defer cancel()

	if err := h.Indexer.IndexUser(idxCtx, user); err != nil {
		logging.FromContext(ctx).Error("directory index error", "user_id", user.ID, "error", err)
	}
}
