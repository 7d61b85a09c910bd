package services

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/customercar/go-support-backend/internal/domain"
	"github.com/customercar/go-support-backend/internal/repo"
)

// newServiceDB opens a throwaway SQLite database with the full schema.
func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("svc_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// newTestAuth returns an AuthService tuned for test speed.
func newTestAuth(db *gorm.DB) *AuthService {
	svc := NewAuthService(db)
	svc.BcryptCost = bcrypt.MinCost
	return svc
}

// registerUser creates an account through the real registration path.
func registerUser(t *testing.T, auth *AuthService, name string, role domain.Role) (*domain.User, string) {
	t.Helper()
	u, tok, err := auth.Register(context.Background(), RegisterInput{
		Name:                 name,
		Email:                name + "@example.com",
		Password:             "correct horse",
		PasswordConfirmation: "correct horse",
		Role:                 string(role),
	})
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return u, tok
}
