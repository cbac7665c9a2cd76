package services

import (
	"testing"

	"github.com/pupskillswap/skillswap-api/internal/database"
	"github.com/pupskillswap/skillswap-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory SQLite database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func seedUser(t *testing.T, db *gorm.DB, id string, active bool) *models.User {
	t.Helper()

	user := &models.User{
		ID:       id,
		FullName: "User " + id,
		Email:    id + "@example.com",
		Skill:    "plumbing",
		IsActive: active,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", id, err)
	}
	// The model declares is_active with default:true, so GORM replaces a
	// zero-value false with the default on insert; set it explicitly.
	if !active {
		if err := db.Model(user).Update("is_active", false).Error; err != nil {
			t.Fatalf("failed to deactivate seeded user %s: %v", id, err)
		}
	}
	return user
}

func strptr(s string) *string {
	return &s
}
