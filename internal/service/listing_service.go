package service

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"github.com/nik9hil/SELLX/internal/model"
	"github.com/nik9hil/SELLX/internal/repository"
	"github.com/nik9hil/SELLX/internal/storage"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")
var ErrForbidden = errors.New("forbidden")

type ListingService interface {
	Create(ctx context.Context, in CreateListingInput) (*model.Listing, error)
	Get(ctx context.Context, id uint64) (*model.Listing, error)
	Browse(ctx context.Context, viewerID uint64, category string, limit, offset int) ([]model.Listing, int64, error)
	CategoryCounts(ctx context.Context, viewerID uint64) ([]CategoryCount, error)
	Edit(ctx context.Context, id, ownerID uint64, in EditListingInput) (*model.Listing, error)
	Delete(ctx context.Context, id, ownerID uint64) error
}

type CreateListingInput struct {
	SellerID    uint64
	Description string
	Category    string
	Subcategory string
	Price       int64
	Location    string
	Image       io.Reader
	ImageName   string
}

// EditListingInput carries the single-listing edit form. Empty strings and a
// nil price mean "leave unchanged".
type EditListingInput struct {
	Description string
	Subcategory string
	Location    string
	Price       *int64
}

type CategoryCount struct {
	Name  string
	Count int64
}

type listingService struct {
	listings repository.ListingRepository
	images   *storage.ImageStore
}

func NewListingService(listings repository.ListingRepository, images *storage.ImageStore) ListingService {
	return &listingService{listings: listings, images: images}
}

func (s *listingService) Create(ctx context.Context, in CreateListingInput) (*model.Listing, error) {
	description := strings.TrimSpace(in.Description)
	category := strings.ToLower(strings.TrimSpace(in.Category))
	if description == "" {
		return nil, errors.New("description is required")
	}
	if !model.ValidCategory(category) {
		return nil, errors.New("unknown category")
	}
	if in.Price < 0 {
		return nil, errors.New("price must not be negative")
	}
	if in.Image == nil {
		return nil, errors.New("image is required")
	}

	imagePath, err := s.images.Save(in.Image, in.ImageName)
	if err != nil {
		return nil, err
	}

	listing := &model.Listing{
		Description: description,
		Category:    category,
		Subcategory: strings.TrimSpace(in.Subcategory),
		Price:       in.Price,
		ImagePath:   imagePath,
		Location:    strings.TrimSpace(in.Location),
		Status:      model.ListingStatusAvailable,
		SellerID:    in.SellerID,
	}
	if err := s.listings.Create(ctx, listing); err != nil {
		if rmErr := s.images.Remove(imagePath); rmErr != nil {
			log.Printf("remove orphaned image %s: %v", imagePath, rmErr)
		}
		return nil, err
	}
	return listing, nil
}

func (s *listingService) Get(ctx context.Context, id uint64) (*model.Listing, error) {
	listing, err := s.listings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return listing, nil
}

func (s *listingService) Browse(ctx context.Context, viewerID uint64, category string, limit, offset int) ([]model.Listing, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	category = strings.ToLower(strings.TrimSpace(category))
	if category != "" && !model.ValidCategory(category) {
		return []model.Listing{}, 0, nil
	}
	return s.listings.ListAvailable(ctx, category, viewerID, limit, offset)
}

func (s *listingService) CategoryCounts(ctx context.Context, viewerID uint64) ([]CategoryCount, error) {
	counts, err := s.listings.CountAvailableByCategory(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	resp := make([]CategoryCount, 0, len(model.Categories))
	for _, name := range model.Categories {
		resp = append(resp, CategoryCount{Name: name, Count: counts[name]})
	}
	return resp, nil
}

func (s *listingService) Edit(ctx context.Context, id, ownerID uint64, in EditListingInput) (*model.Listing, error) {
	listing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.SellerID != ownerID {
		return nil, ErrForbidden
	}

	fields := map[string]interface{}{}
	if v := strings.TrimSpace(in.Description); v != "" {
		fields["description"] = v
	}
	if v := strings.TrimSpace(in.Subcategory); v != "" {
		fields["subcategory"] = v
	}
	if v := strings.TrimSpace(in.Location); v != "" {
		fields["location"] = v
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, errors.New("price must not be negative")
		}
		fields["price"] = *in.Price
	}
	if err := s.listings.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *listingService) Delete(ctx context.Context, id, ownerID uint64) error {
	listing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if listing.SellerID != ownerID {
		return ErrForbidden
	}
	if err := s.listings.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.images.Remove(listing.ImagePath); err != nil {
		log.Printf("remove image %s for deleted listing %d: %v", listing.ImagePath, id, err)
	}
	return nil
}
