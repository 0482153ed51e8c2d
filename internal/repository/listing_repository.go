package repository

import (
	"context"

	"github.com/nik9hil/SELLX/internal/model"
	"gorm.io/gorm"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *model.Listing) error
	FindByID(ctx context.Context, id uint64) (*model.Listing, error)
	ListAvailable(ctx context.Context, category string, excludeSellerID uint64, limit, offset int) ([]model.Listing, int64, error)
	ListBySeller(ctx context.Context, sellerID uint64) ([]model.Listing, error)
	CountAvailableByCategory(ctx context.Context, excludeSellerID uint64) (map[string]int64, error)
	UpdateFields(ctx context.Context, id uint64, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint64) error
}

type listingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(ctx context.Context, listing *model.Listing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

func (r *listingRepository) FindByID(ctx context.Context, id uint64) (*model.Listing, error) {
	var listing model.Listing
	if err := r.db.WithContext(ctx).First(&listing, id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

func availableFilter(db *gorm.DB, category string, excludeSellerID uint64) *gorm.DB {
	q := db.Model(&model.Listing{}).Where("status = ?", model.ListingStatusAvailable)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if excludeSellerID != 0 {
		q = q.Where("seller_id <> ?", excludeSellerID)
	}
	return q
}

func (r *listingRepository) ListAvailable(ctx context.Context, category string, excludeSellerID uint64, limit, offset int) ([]model.Listing, int64, error) {
	var total int64
	if err := availableFilter(r.db.WithContext(ctx), category, excludeSellerID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var listings []model.Listing
	if err := availableFilter(r.db.WithContext(ctx), category, excludeSellerID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&listings).Error; err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

func (r *listingRepository) ListBySeller(ctx context.Context, sellerID uint64) ([]model.Listing, error) {
	var listings []model.Listing
	if err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("id DESC").
		Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *listingRepository) CountAvailableByCategory(ctx context.Context, excludeSellerID uint64) (map[string]int64, error) {
	type row struct {
		Category string
		N        int64
	}
	q := r.db.WithContext(ctx).
		Model(&model.Listing{}).
		Select("category, count(*) as n").
		Where("status = ?", model.ListingStatusAvailable)
	if excludeSellerID != 0 {
		q = q.Where("seller_id <> ?", excludeSellerID)
	}
	var rows []row
	if err := q.Group("category").Find(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Category] = rw.N
	}
	return counts, nil
}

func (r *listingRepository) UpdateFields(ctx context.Context, id uint64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.Listing{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *listingRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&model.Listing{}, id).Error
}
