package username

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	taken map[string]bool
	err   error
}

func (f *fakeStore) UsernameExists(_ context.Context, username string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.taken[username], nil
}

func TestAllocate_BaseFree(t *testing.T) {
	t.Parallel()

	store := &fakeStore{taken: map[string]bool{}}
	got, err := Allocate(context.Background(), store, "Ana", "Lee")
	require.NoError(t, err)
	assert.Equal(t, "analee", got)
}

func TestAllocate_SuffixOnCollision(t *testing.T) {
	t.Parallel()

	store := &fakeStore{taken: map[string]bool{"analee": true}}
	got, err := Allocate(context.Background(), store, "Ana", "Lee")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^analee\d{4}$`), got)
	assert.NotEqual(t, "analee", got)
}

func TestAllocate_Exhausted(t *testing.T) {
	t.Parallel()

	// every candidate is taken, so the bounded retry loop must give up
	store := &fakeStore{taken: map[string]bool{"analee": true}}
	for i := 1000; i <= 9999; i++ {
		store.taken["analee"+strconv.Itoa(i)] = true
	}

	_, err := Allocate(context.Background(), store, "Ana", "Lee")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllocationExhausted)
}

func TestAllocate_StoreError(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("store unreachable")
	store := &fakeStore{err: storeErr}

	_, err := Allocate(context.Background(), store, "Ana", "Lee")
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
}
