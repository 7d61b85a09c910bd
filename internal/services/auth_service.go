// Package services – AuthService
//
// This file implements the AuthService, which owns account registration,
// credential verification, and the bearer-token lifecycle. Passwords are
// hashed with bcrypt; tokens are 256-bit random values whose SHA-256
// digests are persisted so that logout revokes every live session at once.
//
// Service-level errors (e.g. ErrInvalidCredentials, *ValidationError) are
// returned for predictable cases so handlers can map them to HTTP results
// consistently.
package services

import (
	"context"
	"crypto/rand"
	"errors"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/customercar/go-support-backend/internal/domain"
	"github.com/customercar/go-support-backend/internal/repo"
)

const (
	minPasswordLen = 8
	maxNameRunes   = 255
	tokenBytes     = 32 // 256 bits of entropy per bearer token
)

// AuthService implements registration, login, logout, and request
// authentication over the users and tokens tables.
type AuthService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// TokenTTL is the lifetime of issued bearer tokens.
	TokenTTL time.Duration
	// BcryptCost overrides the bcrypt work factor; 0 means bcrypt.DefaultCost.
	BcryptCost int
}

// NewAuthService constructs an AuthService with sane token defaults.
func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{DB: db, TokenTTL: 24 * time.Hour}
}

// RegisterInput is the raw registration payload, pre-validation.
type RegisterInput struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
	Role                 string
}

// Register validates the input, creates the account with a hashed password,
// and issues a fresh bearer token. On any field violation it returns a
// *ValidationError listing every failing field; nothing is persisted in
// that case.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	ve := newValidation()
	if in.Name == "" {
		ve.add("name", "name is required")
	} else if utf8.RuneCountInString(in.Name) > maxNameRunes {
		ve.add("name", "name must be at most 255 characters")
	}
	if in.Email == "" {
		ve.add("email", "email is required")
	} else if _, err := mail.ParseAddress(in.Email); err != nil {
		ve.add("email", "email must be a valid address")
	} else {
		taken, err := repo.EmailTaken(ctx, s.DB, in.Email)
		if err != nil {
			return nil, "", err
		}
		if taken {
			ve.add("email", "email is already registered")
		}
	}
	if utf8.RuneCountInString(in.Password) < minPasswordLen {
		ve.add("password", "password must be at least 8 characters")
	}
	if in.Password != in.PasswordConfirmation {
		ve.add("password", "password confirmation does not match")
	}
	role := domain.Role(in.Role)
	if !role.Valid() {
		ve.add("role", "role must be one of admin, agent, client")
	}
	if err := ve.orNil(); err != nil {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost())
	if err != nil {
		return nil, "", err
	}

	user, err := repo.CreateUser(ctx, s.DB, in.Name, in.Email, string(hash), role)
	if err != nil {
		// A concurrent registration can slip past the EmailTaken check and
		// hit the unique index instead; report it as the same field error.
		if errors.Is(err, repo.ErrDuplicateEmail) {
			ve.add("email", "email is already registered")
			return nil, "", ve
		}
		return nil, "", err
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies the credentials and issues a fresh token. Unknown email
// and wrong password both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := repo.GetUserByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Logout revokes every token issued to userID. All sessions die at once.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return repo.DeleteTokensForUser(ctx, s.DB, userID)
}

// Authenticate resolves a plaintext bearer token to its user. Unknown,
// revoked, and expired tokens all return repo.ErrNotFound.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	return repo.UserByTokenDigest(ctx, s.DB, digest(token), time.Now().UTC())
}

// issueToken generates a random 256-bit token, stores its digest, and
// returns the plaintext exactly once. Each issuance also sweeps expired
// token rows so the table does not grow without bound; lookups already
// exclude expired rows, so a failed sweep is not fatal.
func (s *AuthService) issueToken(ctx context.Context, userID string) (string, error) {
	_ = repo.PurgeExpiredTokens(ctx, s.DB, time.Now().UTC())

	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	token := base64.RawURLEncoding.EncodeToString(raw)
	if _, err := repo.CreateToken(ctx, s.DB, userID, digest(token), s.TokenTTL); err != nil {
		return "", err
	}
	return token, nil
}

func (s *AuthService) bcryptCost() int {
	if s.BcryptCost > 0 {
		return s.BcryptCost
	}
	return bcrypt.DefaultCost
}

// digest hashes a plaintext token for storage and lookup.
func digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
