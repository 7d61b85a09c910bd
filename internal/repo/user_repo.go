// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User model.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/customercar/go-support-backend/internal/domain"
)

// ErrDuplicateEmail is returned by CreateUser when the email collides with
// an existing row. The unique index is the source of truth; any pre-insert
// existence check can lose a race with a concurrent registration.
var ErrDuplicateEmail = errors.New("email already registered")

// CreateUser inserts a new account row. The password must already be hashed
// by the caller; this layer never sees plaintext credentials.
func CreateUser(ctx context.Context, db *gorm.DB, name, email, passwordHash string, role domain.Role) (*domain.User, error) {
	u := &domain.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Password:  passwordHash,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		if isDuplicateEmail(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return u, nil
}

// isDuplicateEmail detects a unique-index violation on users.email. GORM
// only translates driver errors when TranslateError is set, so the SQLite
// message text is matched as well.
func isDuplicateEmail(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed: users.email")
}

// GetUser fetches a user by ID, or ErrNotFound if missing.
func GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail fetches a user by email, or ErrNotFound if missing.
func GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// EmailTaken reports whether an account with the given email already exists.
func EmailTaken(ctx context.Context, db *gorm.DB, email string) (bool, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.User{}).
		Where("email = ?", email).
		Count(&total).Error
	return total > 0, err
}
