package testutil

import (
	"path/filepath"
	"testing"

	"github.com/nik9hil/SELLX/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a throwaway sqlite database under t.TempDir with the full
// schema migrated.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Listing{}, &model.Payment{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// CreateUser inserts a user with a bcrypt-hashed password and returns it.
func CreateUser(t *testing.T, db *gorm.DB, username, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &model.User{
		Name:         username,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// CreateListing inserts an available listing owned by sellerID.
func CreateListing(t *testing.T, db *gorm.DB, sellerID uint64, category string, price int64) *model.Listing {
	t.Helper()
	listing := &model.Listing{
		Description: "test listing",
		Category:    category,
		Price:       price,
		Status:      model.ListingStatusAvailable,
		SellerID:    sellerID,
	}
	if err := db.Create(listing).Error; err != nil {
		t.Fatalf("create listing: %v", err)
	}
	return listing
}
