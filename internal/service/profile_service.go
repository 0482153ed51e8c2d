package service

import (
	"context"
	"errors"

	"github.com/nik9hil/SELLX/internal/model"
	"github.com/nik9hil/SELLX/internal/repository"
	"gorm.io/gorm"
)

type ProfileService interface {
	Get(ctx context.Context, userID uint64) (*Profile, error)
}

type Profile struct {
	User      *model.User
	Listings  []model.Listing
	Purchases []PurchaseWithListing
}

type PurchaseWithListing struct {
	Payment model.Payment
	Listing *model.Listing
}

type profileService struct {
	users    repository.UserRepository
	listings repository.ListingRepository
	payments repository.PaymentRepository
}

func NewProfileService(users repository.UserRepository, listings repository.ListingRepository, payments repository.PaymentRepository) ProfileService {
	return &profileService{users: users, listings: listings, payments: payments}
}

func (s *profileService) Get(ctx context.Context, userID uint64) (*Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	own, err := s.listings.ListBySeller(ctx, userID)
	if err != nil {
		return nil, err
	}

	payments, err := s.payments.ListByPayer(ctx, userID)
	if err != nil {
		return nil, err
	}
	purchases := make([]PurchaseWithListing, 0, len(payments))
	for _, p := range payments {
		listing, err := s.listings.FindByID(ctx, p.ListingID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		purchases = append(purchases, PurchaseWithListing{Payment: p, Listing: listing})
	}

	return &Profile{User: user, Listings: own, Purchases: purchases}, nil
}
