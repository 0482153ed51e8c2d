package repository_test

import (
	"context"
	"testing"

	"github.com/nik9hil/SELLX/internal/model"
	"github.com/nik9hil/SELLX/internal/repository"
	"github.com/nik9hil/SELLX/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordSaleFlipsStatusOnce(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewPaymentRepository(db)
	ctx := context.Background()

	listing := testutil.CreateListing(t, db, 1, "electronics", 100)

	first := &model.Payment{
		Reference: "ref-1", CardNumber: "4111", CardExpiry: "12/27",
		CardOwner: "Bob", ListingID: listing.ID, Price: 100, PayerID: 2,
	}
	assert.NoError(t, repo.RecordSale(ctx, first))

	second := &model.Payment{
		Reference: "ref-2", CardNumber: "4222", CardExpiry: "01/28",
		CardOwner: "Carol", ListingID: listing.ID, Price: 100, PayerID: 3,
	}
	assert.ErrorIs(t, repo.RecordSale(ctx, second), repository.ErrListingUnavailable)

	// the losing transaction rolled back entirely
	var count int64
	assert.NoError(t, db.Model(&model.Payment{}).Where("listing_id = ?", listing.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var after model.Listing
	assert.NoError(t, db.First(&after, listing.ID).Error)
	assert.Equal(t, model.ListingStatusSold, after.Status)
}

func TestRecordSaleUsesPriceAtFlipTime(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewPaymentRepository(db)
	ctx := context.Background()

	listing := testutil.CreateListing(t, db, 1, "electronics", 100)

	// the owner edits the price after the buyer's read but before the sale
	assert.NoError(t, db.Model(&model.Listing{}).Where("id = ?", listing.ID).
		Update("price", 200).Error)

	p := &model.Payment{
		Reference: "ref-1", CardNumber: "4111", CardExpiry: "12/27",
		CardOwner: "Bob", ListingID: listing.ID, Price: 100, PayerID: 2,
	}
	assert.NoError(t, repo.RecordSale(ctx, p))
	assert.Equal(t, int64(200), p.Price)

	var stored model.Payment
	assert.NoError(t, db.Where("listing_id = ?", listing.ID).First(&stored).Error)
	assert.Equal(t, int64(200), stored.Price)
}

func TestListByPayer(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewPaymentRepository(db)
	ctx := context.Background()

	a := testutil.CreateListing(t, db, 1, "electronics", 100)
	b := testutil.CreateListing(t, db, 1, "books", 10)

	assert.NoError(t, repo.RecordSale(ctx, &model.Payment{
		Reference: "ref-a", CardNumber: "4111", CardExpiry: "12/27",
		CardOwner: "Bob", ListingID: a.ID, Price: 100, PayerID: 2,
	}))
	assert.NoError(t, repo.RecordSale(ctx, &model.Payment{
		Reference: "ref-b", CardNumber: "4111", CardExpiry: "12/27",
		CardOwner: "Bob", ListingID: b.ID, Price: 10, PayerID: 2,
	}))

	mine, err := repo.ListByPayer(ctx, 2)
	assert.NoError(t, err)
	assert.Len(t, mine, 2)

	none, err := repo.ListByPayer(ctx, 3)
	assert.NoError(t, err)
	assert.Empty(t, none)
}
