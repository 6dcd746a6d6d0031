package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("account not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrSessionInvalidated = errors.New("session invalidated")
)

// GormRepo is the credential store. Uniqueness lives in the schema
// (unique indexes on email and username), so concurrent duplicate
// inserts resolve at the database rather than in read-then-write races.
type GormRepo struct {
	DB *gorm.DB
}

func NewGormRepo(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}
