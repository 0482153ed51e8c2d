package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/nik9hil/SELLX/internal/model"
	"github.com/nik9hil/SELLX/internal/repository"
	"gorm.io/gorm"
)

var ErrAlreadySold = errors.New("already_sold")
var ErrOwnListing = errors.New("cannot buy your own listing")

type PaymentService interface {
	Pay(ctx context.Context, listingID, payerID uint64, card CardInput) (*model.Payment, error)
	GetByListing(ctx context.Context, listingID, uid uint64) (*model.Payment, error)
}

// CardInput is presence-checked only; this is a record-keeping stub, not a
// gateway integration. CVV is required on the form but never persisted.
type CardInput struct {
	Number string
	Expiry string
	CVV    string
	Owner  string
}

type paymentService struct {
	payments repository.PaymentRepository
	listings repository.ListingRepository
}

func NewPaymentService(payments repository.PaymentRepository, listings repository.ListingRepository) PaymentService {
	return &paymentService{payments: payments, listings: listings}
}

func (s *paymentService) Pay(ctx context.Context, listingID, payerID uint64, card CardInput) (*model.Payment, error) {
	if payerID == 0 {
		return nil, errors.New("payer is required")
	}
	number := strings.TrimSpace(card.Number)
	expiry := strings.TrimSpace(card.Expiry)
	owner := strings.TrimSpace(card.Owner)
	if number == "" || expiry == "" || owner == "" || strings.TrimSpace(card.CVV) == "" {
		return nil, errors.New("card number, expiry, cvv and owner are required")
	}

	listing, err := s.lookupListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.SellerID == payerID {
		return nil, ErrOwnListing
	}
	if listing.Status != model.ListingStatusAvailable {
		return nil, ErrAlreadySold
	}

	// Price is filled in by RecordSale from the row it just locked, not
	// from the read above, which may already be stale.
	p := &model.Payment{
		Reference:  uuid.NewString(),
		CardNumber: number,
		CardExpiry: expiry,
		CardOwner:  owner,
		ListingID:  listingID,
		PayerID:    payerID,
	}
	if err := s.payments.RecordSale(ctx, p); err != nil {
		if errors.Is(err, repository.ErrListingUnavailable) {
			// lost the race to another buyer between the read and the flip
			return nil, ErrAlreadySold
		}
		return nil, err
	}
	return p, nil
}

// GetByListing returns the payment that closed a listing, visible only to
// the payer and the seller.
func (s *paymentService) GetByListing(ctx context.Context, listingID, uid uint64) (*model.Payment, error) {
	listing, err := s.lookupListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	p, err := s.payments.FindByListing(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if uid != p.PayerID && uid != listing.SellerID {
		return nil, ErrForbidden
	}
	return p, nil
}

func (s *paymentService) lookupListing(ctx context.Context, listingID uint64) (*model.Listing, error) {
	listing, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return listing, nil
}
