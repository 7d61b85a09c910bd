// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository helpers for the Token model
// backing bearer authentication. Tokens are stored as SHA-256 digests; the
// plaintext never reaches this layer.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/customercar/go-support-backend/internal/domain"
)

// CreateToken persists a token digest for userID with the given lifetime.
func CreateToken(ctx context.Context, db *gorm.DB, userID, digest string, ttl time.Duration) (*domain.Token, error) {
	now := time.Now().UTC()
	tok := &domain.Token{
		ID:        uuid.NewString(),
		UserID:    userID,
		Digest:    digest,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := db.WithContext(ctx).Create(tok).Error; err != nil {
		return nil, err
	}
	return tok, nil
}

// UserByTokenDigest resolves a non-expired token digest to its owning user.
// Returns ErrNotFound for unknown or expired digests.
func UserByTokenDigest(ctx context.Context, db *gorm.DB, digest string, now time.Time) (*domain.User, error) {
	var tok domain.Token
	err := db.WithContext(ctx).
		Where("digest = ? AND expires_at > ?", digest, now).
		First(&tok).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return GetUser(ctx, db, tok.UserID)
}

// DeleteTokensForUser revokes every token issued to userID. Revocation is
// global and immediate: any request presenting a deleted digest fails auth.
func DeleteTokensForUser(ctx context.Context, db *gorm.DB, userID string) error {
	return db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&domain.Token{}).Error
}

// PurgeExpiredTokens removes rows whose lifetime has elapsed. Callers may
// run it opportunistically; auth correctness does not depend on it because
// lookups already exclude expired rows.
func PurgeExpiredTokens(ctx context.Context, db *gorm.DB, now time.Time) error {
	return db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&domain.Token{}).Error
}
