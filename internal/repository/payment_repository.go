package repository

import (
	"context"
	"errors"

	"github.com/nik9hil/SELLX/internal/model"
	"gorm.io/gorm"
)

// ErrListingUnavailable is returned when the guarded status flip matches no
// row, i.e. the listing was sold (or deleted) between render and submit.
var ErrListingUnavailable = errors.New("listing not available")

type PaymentRepository interface {
	RecordSale(ctx context.Context, p *model.Payment) error
	ListByPayer(ctx context.Context, payerID uint64) ([]model.Payment, error)
	FindByListing(ctx context.Context, listingID uint64) (*model.Payment, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// RecordSale flips the listing to sold and inserts the payment row in one
// transaction. The flip is a conditional UPDATE guarded on the current
// status; zero rows affected means another buyer won and everything rolls
// back, so at most one payment can ever reference a listing this way.
// The price on p is overwritten with the listing's price as read after the
// flip: the UPDATE holds the row lock, so an owner's price edit cannot land
// between the guard and the payment row.
func (r *paymentRepository) RecordSale(ctx context.Context, p *model.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Listing{}).
			Where("id = ? AND status = ?", p.ListingID, model.ListingStatusAvailable).
			Update("status", model.ListingStatusSold)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrListingUnavailable
		}
		var listing model.Listing
		if err := tx.First(&listing, p.ListingID).Error; err != nil {
			return err
		}
		p.Price = listing.Price
		return tx.Create(p).Error
	})
}

func (r *paymentRepository) ListByPayer(ctx context.Context, payerID uint64) ([]model.Payment, error) {
	var list []model.Payment
	if err := r.db.WithContext(ctx).
		Where("payer_id = ?", payerID).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *paymentRepository) FindByListing(ctx context.Context, listingID uint64) (*model.Payment, error) {
	var p model.Payment
	if err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("id DESC").
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}
