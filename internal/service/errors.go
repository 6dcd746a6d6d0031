package service

import (
	"errors"

	"github.com/KruthikaDR/EventFlow-main/internal/repo"
	"github.com/KruthikaDR/EventFlow-main/internal/username"
)

// Validation failures surface verbatim; the caller can correct them.
var (
	ErrEmailTaken          = repo.ErrEmailTaken
	ErrUsernameTaken       = repo.ErrUsernameTaken
	ErrAllocationExhausted = username.ErrAllocationExhausted
)

// Authentication failures are deliberately generic so callers cannot
// tell which factor failed.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrSessionInvalidated = repo.ErrSessionInvalidated
	ErrMissingToken       = errors.New("refresh token is required")
)

// Authorization failures: the caller is identified but not permitted
// (ErrForbidden), or presented an elevation bearer that does not verify
// (ErrElevationToken). The split only matters at the transport edge,
// where 403 and 401 diverge.
var (
	ErrForbidden      = errors.New("only admins can create organizer accounts")
	ErrElevationToken = errors.New("invalid token")
)

var ErrNotFound = repo.ErrNotFound
