// Package store holds every database operation behind the HTTP handlers.
// Multi-row changes (stock plus sale log, bulk archive, cascading deletes)
// run inside a single gorm transaction.
package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrInsufficientStock = errors.New("not enough stock")
	ErrArchived          = errors.New("part is archived")
	ErrInvalidPart       = errors.New("invalid part")
	ErrEmailTaken        = errors.New("email already registered")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrInvalidUsername   = errors.New("username must not contain @")
	ErrNoSelection       = errors.New("no parts selected")
	ErrSelf              = errors.New("cannot modify your own account")
	ErrInvalidCode       = errors.New("invalid or expired reset code")
	ErrTooManyAttempts   = errors.New("too many attempts for this reset code")
)

// Store wraps the gorm handle shared by all repositories
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

func New(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// DB exposes the underlying handle for health checks
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Ping checks the database connection
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// timestamp is the current time in UTC. Every time written or compared by
// the store goes through it so sqlite's text comparisons line up.
func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
