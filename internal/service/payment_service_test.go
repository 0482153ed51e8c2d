package service_test

import (
	"context"
	"testing"

	"github.com/nik9hil/SELLX/internal/model"
	"github.com/nik9hil/SELLX/internal/repository"
	"github.com/nik9hil/SELLX/internal/service"
	"github.com/nik9hil/SELLX/internal/testutil"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newPaymentService(t *testing.T) (service.PaymentService, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	return service.NewPaymentService(
		repository.NewPaymentRepository(db),
		repository.NewListingRepository(db),
	), db
}

func validCard() service.CardInput {
	return service.CardInput{
		Number: "4111111111111111",
		Expiry: "12/27",
		CVV:    "123",
		Owner:  "Bob Jones",
	}
}

func TestPayMarksListingSold(t *testing.T) {
	svc, db := newPaymentService(t)
	ctx := context.Background()
	alice, bob := uint64(1), uint64(2)

	listing := testutil.CreateListing(t, db, alice, "electronics", 100)

	p, err := svc.Pay(ctx, listing.ID, bob, validCard())
	assert.NoError(t, err)
	assert.Equal(t, int64(100), p.Price)
	assert.Equal(t, bob, p.PayerID)
	assert.NotEmpty(t, p.Reference)

	var after model.Listing
	assert.NoError(t, db.First(&after, listing.ID).Error)
	assert.Equal(t, model.ListingStatusSold, after.Status)

	var count int64
	assert.NoError(t, db.Model(&model.Payment{}).Where("listing_id = ?", listing.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPayTwiceConflicts(t *testing.T) {
	svc, db := newPaymentService(t)
	ctx := context.Background()
	alice, bob, carol := uint64(1), uint64(2), uint64(3)

	listing := testutil.CreateListing(t, db, alice, "electronics", 100)

	_, err := svc.Pay(ctx, listing.ID, bob, validCard())
	assert.NoError(t, err)

	_, err = svc.Pay(ctx, listing.ID, carol, validCard())
	assert.ErrorIs(t, err, service.ErrAlreadySold)

	// exactly one payment row regardless of retries
	var count int64
	assert.NoError(t, db.Model(&model.Payment{}).Where("listing_id = ?", listing.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPayGuardCatchesRaceAfterRead(t *testing.T) {
	// simulate the second buyer who read the listing as available but lost
	// the flip: the status changes underneath between lookup and update
	svc, db := newPaymentService(t)
	ctx := context.Background()

	listing := testutil.CreateListing(t, db, 1, "electronics", 100)
	assert.NoError(t, db.Model(&model.Listing{}).Where("id = ?", listing.ID).
		Update("status", model.ListingStatusSold).Error)

	_, err := svc.Pay(ctx, listing.ID, 2, validCard())
	assert.ErrorIs(t, err, service.ErrAlreadySold)
}

func TestPayOwnListingRejected(t *testing.T) {
	svc, db := newPaymentService(t)

	listing := testutil.CreateListing(t, db, 1, "electronics", 100)
	_, err := svc.Pay(context.Background(), listing.ID, 1, validCard())
	assert.ErrorIs(t, err, service.ErrOwnListing)
}

func TestPayMissingListing(t *testing.T) {
	svc, _ := newPaymentService(t)

	_, err := svc.Pay(context.Background(), 9999, 2, validCard())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestGetByListing(t *testing.T) {
	svc, db := newPaymentService(t)
	ctx := context.Background()
	alice, bob, carol := uint64(1), uint64(2), uint64(3)

	listing := testutil.CreateListing(t, db, alice, "electronics", 100)
	paid, err := svc.Pay(ctx, listing.ID, bob, validCard())
	assert.NoError(t, err)

	// payer and seller both see the payment
	p, err := svc.GetByListing(ctx, listing.ID, bob)
	assert.NoError(t, err)
	assert.Equal(t, paid.ID, p.ID)

	p, err = svc.GetByListing(ctx, listing.ID, alice)
	assert.NoError(t, err)
	assert.Equal(t, paid.ID, p.ID)

	// a third party does not
	_, err = svc.GetByListing(ctx, listing.ID, carol)
	assert.ErrorIs(t, err, service.ErrForbidden)

	// an unsold listing has no payment
	other := testutil.CreateListing(t, db, alice, "books", 10)
	_, err = svc.GetByListing(ctx, other.ID, alice)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestPayRequiresCardFields(t *testing.T) {
	svc, db := newPaymentService(t)
	ctx := context.Background()

	listing := testutil.CreateListing(t, db, 1, "electronics", 100)

	tests := []struct {
		name   string
		mutate func(*service.CardInput)
	}{
		{"missing number", func(c *service.CardInput) { c.Number = "" }},
		{"missing expiry", func(c *service.CardInput) { c.Expiry = " " }},
		{"missing cvv", func(c *service.CardInput) { c.CVV = "" }},
		{"missing owner", func(c *service.CardInput) { c.Owner = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := validCard()
			tt.mutate(&card)
			_, err := svc.Pay(ctx, listing.ID, 2, card)
			assert.Error(t, err)
		})
	}
}
