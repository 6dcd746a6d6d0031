package repo

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/KruthikaDR/EventFlow-main/internal/models"
)

func initTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to connect to in-memory db")
	// each pooled connection gets its own :memory: database, so keep the
	// pool at a single connection
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}), "failed to migrate tables")

	return NewGormRepo(db)
}

func newUser(email, username string) *models.User {
	return &models.User{
		ID:           uuid.NewString(),
		FirstName:    "Ana",
		LastName:     "Lee",
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$10$fakefakefakefakefakefake",
		Role:         models.RoleParticipant,
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	t.Parallel()

	r := initTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.CreateUser(ctx, newUser("a@x.com", "analee")))

	err := r.CreateUser(ctx, newUser("a@x.com", "otherhandle"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	t.Parallel()

	r := initTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.CreateUser(ctx, newUser("a@x.com", "analee")))

	err := r.CreateUser(ctx, newUser("b@x.com", "analee"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestLookups(t *testing.T) {
	t.Parallel()

	r := initTestRepo(t)
	ctx := context.Background()

	u := newUser("a@x.com", "analee")
	require.NoError(t, r.CreateUser(ctx, u))

	byID, err := r.UserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Username, byID.Username)

	byEmail, err := r.UserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = r.UserByEmail(ctx, "missing@x.com")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.UserByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	taken, err := r.UsernameExists(ctx, "analee")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = r.EmailExists(ctx, "b@x.com")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestRefreshTokenLifecycle(t *testing.T) {
	t.Parallel()

	r := initTestRepo(t)
	ctx := context.Background()

	u := newUser("a@x.com", "analee")
	require.NoError(t, r.CreateUser(ctx, u))

	// no session yet: empty token must never resolve an account
	_, err := r.UserByRefreshToken(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, r.SetRefreshToken(ctx, u.ID, "tok-1"))

	holder, err := r.UserByRefreshToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, holder.ID)

	// compare-and-swap rotation: stale value loses
	require.NoError(t, r.RotateRefreshToken(ctx, u.ID, "tok-1", "tok-2"))
	err = r.RotateRefreshToken(ctx, u.ID, "tok-1", "tok-3")
	assert.ErrorIs(t, err, ErrSessionInvalidated)

	_, err = r.UserByRefreshToken(ctx, "tok-1")
	assert.ErrorIs(t, err, ErrNotFound)

	holder, err = r.UserByRefreshToken(ctx, "tok-2")
	require.NoError(t, err)
	assert.Equal(t, u.ID, holder.ID)
}

func TestRotateRefreshToken_ConcurrentSingleWinner(t *testing.T) {
	t.Parallel()

	r := initTestRepo(t)
	ctx := context.Background()

	u := newUser("a@x.com", "analee")
	require.NoError(t, r.CreateUser(ctx, u))
	require.NoError(t, r.SetRefreshToken(ctx, u.ID, "tok-1"))

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = r.RotateRefreshToken(ctx, u.ID, "tok-1", fmt.Sprintf("tok-next-%d", i))
		}()
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, ErrSessionInvalidated)
	}
	assert.Equal(t, 1, wins, "compare-and-swap rotation admits one winner")

	// the presented token no longer resolves anyone
	_, err := r.UserByRefreshToken(ctx, "tok-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClearRefreshToken_Idempotent(t *testing.T) {
	t.Parallel()

	r := initTestRepo(t)
	ctx := context.Background()

	u := newUser("a@x.com", "analee")
	require.NoError(t, r.CreateUser(ctx, u))
	require.NoError(t, r.SetRefreshToken(ctx, u.ID, "tok-1"))

	require.NoError(t, r.ClearRefreshToken(ctx, "tok-1"))

	_, err := r.UserByRefreshToken(ctx, "tok-1")
	assert.ErrorIs(t, err, ErrNotFound)

	// clearing again, or clearing a token nobody holds, still succeeds
	require.NoError(t, r.ClearRefreshToken(ctx, "tok-1"))
	require.NoError(t, r.ClearRefreshToken(ctx, "never-issued"))
	require.NoError(t, r.ClearRefreshToken(ctx, ""))
}

func TestSetRefreshToken_UnknownUser(t *testing.T) {
	t.Parallel()

	r := initTestRepo(t)
	err := r.SetRefreshToken(context.Background(), uuid.NewString(), "tok-1")
	assert.ErrorIs(t, err, ErrNotFound)
}
