package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KruthikaDR/EventFlow-main/internal/hash"
	"github.com/KruthikaDR/EventFlow-main/internal/logging"
	"github.com/KruthikaDR/EventFlow-main/internal/models"
	"github.com/KruthikaDR/EventFlow-main/internal/repo"
	"github.com/KruthikaDR/EventFlow-main/internal/tokens"
	"github.com/KruthikaDR/EventFlow-main/internal/username"
)

type AuthService struct {
	Repo  *repo.GormRepo
	Codec *tokens.Codec
}

func NewAuthService(r *repo.GormRepo, c *tokens.Codec) *AuthService {
	return &AuthService{Repo: r, Codec: c}
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type RegisterInput struct {
	FirstName   string
	LastName    string
	Username    string
	Email       string
	Password    string
	College     string
	Role        string
	CallerToken string
}

// Register creates an account and opens its first session. Uniqueness is
// pre-checked for precise errors, then enforced again by the store's
// unique indexes so concurrent duplicates cannot both land.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, *TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	email := strings.ToLower(in.Email)

	taken, err := s.Repo.EmailExists(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if taken {
		return nil, nil, ErrEmailTaken
	}

	if in.Username != "" {
		taken, err := s.Repo.UsernameExists(ctx, in.Username)
		if err != nil {
			return nil, nil, err
		}
		if taken {
			return nil, nil, ErrUsernameTaken
		}
	}

	if models.ElevatedRole(in.Role) {
		if err := s.requireRole(in.CallerToken, models.RoleAdmin); err != nil {
			l.Warn("role elevation denied", "requested_role", in.Role)
			return nil, nil, err
		}
	}

	handle := in.Username
	if handle == "" {
		handle, err = username.Allocate(ctx, s.Repo, in.FirstName, in.LastName)
		if err != nil {
			return nil, nil, err
		}
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		l.Error("password hash failed", "error", err)
		return nil, nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Username:     handle,
		Email:        email,
		PasswordHash: pwHash,
		Role:         models.NormalizeRole(in.Role),
		College:      in.College,
	}

	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, nil, err
	}

	pair, err := s.mint(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	l.Info("account registered", "user_id", user.ID, "username", user.Username, "role", user.Role)
	return user, pair, nil
}

// Login authenticates by email and password. Unknown email and wrong
// password collapse into the same error so accounts cannot be
// enumerated.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.UserByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login failed", "user_id", user.ID)
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.mint(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	l.Info("login successful", "user_id", user.ID)
	return user, pair, nil
}

// Refresh exchanges a still-held refresh token for a fresh pair and
// rotates the stored token so the presented one is dead afterwards.
// Reuse of an already-rotated token is the replay signal and fails.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	user, presented, err := s.AuthenticateRefresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	access, err := s.Codec.SignAccess(user, now)
	if err != nil {
		return nil, err
	}
	next, err := s.Codec.SignRefresh(user.ID, now)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.RotateRefreshToken(ctx, user.ID, presented, next); err != nil {
		return nil, err
	}

	l.Info("session rotated", "user_id", user.ID)
	return &TokenPair{AccessToken: access, RefreshToken: next}, nil
}

// Logout clears the stored session for whichever account holds the
// token and returns that account, or nil when no account held it.
// Signature and expiry are not checked: the intent is to drop state,
// and an expired-but-matching token should still manage that.
// Idempotent: an unheld token is still a success, so callers learn
// nothing about whether it ever existed.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) (*models.User, error) {
	if refreshToken == "" {
		return nil, ErrMissingToken
	}

	user, err := s.Repo.UserByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if err := s.Repo.ClearRefreshToken(ctx, refreshToken); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies an access token and returns its claims without
// touching the store. Consequence: a deleted or demoted account keeps a
// working access token until natural expiry.
func (s *AuthService) Authenticate(accessToken string) (*tokens.AccessClaims, error) {
	claims, err := s.Codec.ParseAccess(accessToken)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	return claims, nil
}

// AuthenticateRefresh verifies signature and expiry, then requires the
// token to be the exact value stored on the account it names. A
// cryptographically valid but superseded token fails with
// ErrSessionInvalidated.
func (s *AuthService) AuthenticateRefresh(ctx context.Context, refreshToken string) (*models.User, string, error) {
	claims, err := s.Codec.ParseRefresh(refreshToken)
	if err != nil {
		return nil, "", ErrUnauthenticated
	}

	user, err := s.Repo.UserByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, "", ErrSessionInvalidated
		}
		return nil, "", err
	}
	if user.ID != claims.Subject {
		return nil, "", ErrSessionInvalidated
	}

	return user, refreshToken, nil
}

// AccountByID backs /me: unlike Authenticate it reads the store, so it
// reflects deletions and profile changes immediately.
func (s *AuthService) AccountByID(ctx context.Context, id string) (*models.User, error) {
	return s.Repo.UserByID(ctx, id)
}

// requireRole is the reusable capability check behind role elevation: a
// bearer must verify and decode to the wanted role.
func (s *AuthService) requireRole(callerToken, role string) error {
	if callerToken == "" {
		return ErrForbidden
	}
	claims, err := s.Codec.ParseAccess(callerToken)
	if err != nil {
		return ErrElevationToken
	}
	if claims.Role != role {
		return ErrForbidden
	}
	return nil
}

// mint signs a fresh pair and stores the refresh half, displacing any
// previous session for the account.
func (s *AuthService) mint(ctx context.Context, user *models.User) (*TokenPair, error) {
	now := time.Now()

	access, err := s.Codec.SignAccess(user, now)
	if err != nil {
		return nil, err
	}
	refresh, err := s.Codec.SignRefresh(user.ID, now)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.SetRefreshToken(ctx, user.ID, refresh); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
