package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/nik9hil/SELLX/internal/config"
	"github.com/nik9hil/SELLX/internal/db"
	"github.com/nik9hil/SELLX/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seedListing struct {
	Description string
	Category    string
	Subcategory string
	Price       int64
	Location    string
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() error {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	if err := db.Migrate(gdb); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	canSeed, err := shouldSeed(ctx, gdb)
	if err != nil {
		return err
	}
	if !canSeed {
		log.Printf("listings already exist; skipping seed (set FORCE_SEED=true to override)")
		return nil
	}

	return gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seller, err := seedUser(tx, "Demo Seller", "demoseller", "seller@example.com")
		if err != nil {
			return err
		}
		for _, sl := range buildSeedListings() {
			listing := &model.Listing{
				Description: sl.Description,
				Category:    sl.Category,
				Subcategory: sl.Subcategory,
				Price:       sl.Price,
				Location:    sl.Location,
				Status:      model.ListingStatusAvailable,
				SellerID:    seller.ID,
			}
			if err := tx.Create(listing).Error; err != nil {
				return fmt.Errorf("create listing: %w", err)
			}
		}
		log.Printf("seeded %d listings for %s", len(buildSeedListings()), seller.Username)
		return nil
	})
}

func shouldSeed(ctx context.Context, gdb *gorm.DB) (bool, error) {
	if os.Getenv("FORCE_SEED") == "true" {
		return true, nil
	}
	var count int64
	if err := gdb.WithContext(ctx).Model(&model.Listing{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count listings: %w", err)
	}
	return count == 0, nil
}

func seedUser(tx *gorm.DB, name, username, email string) (*model.User, error) {
	var existing model.User
	err := tx.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("seed-password"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Name:         name,
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Address:      "1 Demo Street",
	}
	if err := tx.Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func buildSeedListings() []seedListing {
	return []seedListing{
		{"Mechanical keyboard, lightly used", "electronics", "accessories", 45, "Pune"},
		{"City bicycle with new tires", "vehicles", "bicycles", 120, "Pune"},
		{"Two-seater sofa, pickup only", "furniture", "living room", 80, "Mumbai"},
		{"Winter jacket, size M", "fashion", "outerwear", 25, "Delhi"},
		{"Paperback thriller bundle", "books", "fiction", 10, "Pune"},
		{"Assorted kitchenware box", "other", "", 15, "Mumbai"},
	}
}
