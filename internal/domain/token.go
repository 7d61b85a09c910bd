// Package domain defines the core persistence models for the application.
// These types are used by GORM for database schema mapping and are shared
// across the repository and service layers.
package domain

import "time"

// Token is a persisted bearer credential. Only the SHA-256 digest of the
// plaintext token is stored, so a database leak does not expose usable
// credentials. Revocation is a row delete: all tokens for a user are removed
// on logout, which invalidates every live session immediately.
type Token struct {
	ID        string    `gorm:"type:char(36);primaryKey"`
	UserID    string    `gorm:"type:char(36);not null;index:idx_tokens_user"`
	Digest    string    `gorm:"type:char(64);not null;uniqueIndex:ux_tokens_digest"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	ExpiresAt time.Time `gorm:"not null;index"`

	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName implements the GORM tabler interface.
func (Token) TableName() string { return "tokens" }
