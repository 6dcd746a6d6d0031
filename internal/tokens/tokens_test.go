package tokens

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KruthikaDR/EventFlow-main/internal/models"
)

func newTestCodec() *Codec {
	return NewCodec([]byte("test-access-secret"), []byte("test-refresh-secret"))
}

func testUser() *models.User {
	return &models.User{
		ID:        uuid.NewString(),
		FirstName: "Ana",
		LastName:  "Lee",
		Username:  "analee",
		Email:     "a@x.com",
		Role:      models.RoleParticipant,
	}
}

func TestCodec_AccessRoundTrip(t *testing.T) {
	t.Parallel()

	codec := newTestCodec()
	u := testUser()
	now := time.Now()

	raw, err := codec.SignAccess(u, now)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := codec.ParseAccess(raw)
	require.NoError(t, err)

	assert.Equal(t, u.ID, claims.Subject)
	assert.Equal(t, u.FirstName, claims.FirstName)
	assert.Equal(t, u.LastName, claims.LastName)
	assert.Equal(t, u.Username, claims.Username)
	assert.Equal(t, u.Email, claims.Email)
	assert.Equal(t, u.Role, claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, now.Add(AccessTTL), claims.ExpiresAt.Time, time.Second)
}

func TestCodec_RefreshRoundTrip(t *testing.T) {
	t.Parallel()

	codec := newTestCodec()
	id := uuid.NewString()
	now := time.Now()

	raw, err := codec.SignRefresh(id, now)
	require.NoError(t, err)

	claims, err := codec.ParseRefresh(raw)
	require.NoError(t, err)
	assert.Equal(t, id, claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, now.Add(RefreshTTL), claims.ExpiresAt.Time, time.Second)
}

func TestCodec_RefreshTokensNeverCollide(t *testing.T) {
	t.Parallel()

	codec := newTestCodec()
	id := uuid.NewString()
	now := time.Now()

	first, err := codec.SignRefresh(id, now)
	require.NoError(t, err)
	second, err := codec.SignRefresh(id, now)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestCodec_ParseAccess_Expired(t *testing.T) {
	t.Parallel()

	codec := newTestCodec()
	raw, err := codec.SignAccess(testUser(), time.Now().Add(-2*AccessTTL))
	require.NoError(t, err)

	_, err = codec.ParseAccess(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestCodec_ParseAccess_Tampered(t *testing.T) {
	t.Parallel()

	codec := newTestCodec()
	raw, err := codec.SignAccess(testUser(), time.Now())
	require.NoError(t, err)

	parts := strings.Split(raw, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + ".AAAA" + parts[2][4:]

	_, err = codec.ParseAccess(tampered)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestCodec_ParseAccess_Malformed(t *testing.T) {
	t.Parallel()

	codec := newTestCodec()
	_, err := codec.ParseAccess("not-a-token")
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenMalformed)
}

func TestCodec_ParseAccess_WrongSecret(t *testing.T) {
	t.Parallel()

	codec := newTestCodec()
	other := NewCodec([]byte("other-access"), []byte("other-refresh"))

	raw, err := codec.SignAccess(testUser(), time.Now())
	require.NoError(t, err)

	_, err = other.ParseAccess(raw)
	require.Error(t, err)
}

func TestCodec_SecretsNotInterchangeable(t *testing.T) {
	t.Parallel()

	codec := newTestCodec()
	raw, err := codec.SignRefresh(uuid.NewString(), time.Now())
	require.NoError(t, err)

	// a refresh token presented as an access token must not verify
	_, err = codec.ParseAccess(raw)
	require.Error(t, err)
}
