package username

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

// maxAttempts bounds the suffix retries so a pathological store state
// cannot spin the allocator forever.
const maxAttempts = 5

var ErrAllocationExhausted = errors.New("username allocation exhausted")

// Store is the slice of the credential store the allocator needs.
type Store interface {
	UsernameExists(ctx context.Context, username string) (bool, error)
}

// Allocate derives a free handle from a name: the lowercased
// concatenation when free, otherwise the same base with a random 4-digit
// suffix, re-rolled until an unclaimed candidate turns up.
func Allocate(ctx context.Context, store Store, firstName, lastName string) (string, error) {
	base := strings.ToLower(firstName) + strings.ToLower(lastName)

	exists, err := store.UsernameExists(ctx, base)
	if err != nil {
		return "", err
	}
	if !exists {
		return base, nil
	}

	for range maxAttempts {
		candidate := fmt.Sprintf("%s%d", base, 1000+rand.IntN(9000))
		exists, err := store.UsernameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}

	return "", ErrAllocationExhausted
}
