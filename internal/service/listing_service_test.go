package service_test

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/nik9hil/SELLX/internal/model"
	"github.com/nik9hil/SELLX/internal/repository"
	"github.com/nik9hil/SELLX/internal/service"
	"github.com/nik9hil/SELLX/internal/storage"
	"github.com/nik9hil/SELLX/internal/testutil"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newListingService(t *testing.T) (service.ListingService, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	images, err := storage.NewImageStore(t.TempDir())
	assert.NoError(t, err)
	return service.NewListingService(repository.NewListingRepository(db), images), db
}

func createInput(sellerID uint64) service.CreateListingInput {
	return service.CreateListingInput{
		SellerID:    sellerID,
		Description: "Mechanical keyboard",
		Category:    "electronics",
		Subcategory: "accessories",
		Price:       100,
		Location:    "Pune",
		Image:       bytes.NewReader([]byte("fake-image")),
		ImageName:   "kb.jpg",
	}
}

func TestCreateListing(t *testing.T) {
	svc, _ := newListingService(t)
	alice := uint64(1)

	listing, err := svc.Create(context.Background(), createInput(alice))
	assert.NoError(t, err)
	assert.Equal(t, model.ListingStatusAvailable, listing.Status)
	assert.Equal(t, alice, listing.SellerID)
	assert.NotEmpty(t, listing.ImagePath)

	_, statErr := os.Stat(listing.ImagePath)
	assert.NoError(t, statErr)
}

func TestCreateListingValidation(t *testing.T) {
	svc, _ := newListingService(t)
	ctx := context.Background()

	in := createInput(1)
	in.Category = "spaceships"
	_, err := svc.Create(ctx, in)
	assert.Error(t, err)

	in = createInput(1)
	in.Description = "  "
	_, err = svc.Create(ctx, in)
	assert.Error(t, err)

	in = createInput(1)
	in.Price = -5
	_, err = svc.Create(ctx, in)
	assert.Error(t, err)
}

func TestBrowseExcludesOwnListings(t *testing.T) {
	svc, db := newListingService(t)
	ctx := context.Background()
	alice, bob := uint64(1), uint64(2)

	testutil.CreateListing(t, db, alice, "electronics", 100)
	testutil.CreateListing(t, db, bob, "electronics", 50)

	listings, total, err := svc.Browse(ctx, alice, "", 0, 0)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, listings, 1)
	assert.Equal(t, bob, listings[0].SellerID)

	// anonymous browse sees both
	_, total, err = svc.Browse(ctx, 0, "", 0, 0)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestBrowseFiltersByCategory(t *testing.T) {
	svc, db := newListingService(t)
	ctx := context.Background()

	testutil.CreateListing(t, db, 1, "electronics", 100)
	testutil.CreateListing(t, db, 1, "books", 10)

	listings, total, err := svc.Browse(ctx, 0, "books", 0, 0)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "books", listings[0].Category)

	// unknown category matches nothing rather than everything
	listings, total, err = svc.Browse(ctx, 0, "spaceships", 0, 0)
	assert.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, listings)
}

func TestBrowseSkipsSoldListings(t *testing.T) {
	svc, db := newListingService(t)

	sold := testutil.CreateListing(t, db, 1, "books", 10)
	assert.NoError(t, db.Model(sold).Update("status", model.ListingStatusSold).Error)
	testutil.CreateListing(t, db, 1, "books", 20)

	_, total, err := svc.Browse(context.Background(), 0, "books", 0, 0)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestCategoryCounts(t *testing.T) {
	svc, db := newListingService(t)
	ctx := context.Background()
	alice, bob := uint64(1), uint64(2)

	testutil.CreateListing(t, db, alice, "electronics", 100)
	testutil.CreateListing(t, db, bob, "electronics", 50)
	testutil.CreateListing(t, db, bob, "books", 10)

	counts, err := svc.CategoryCounts(ctx, alice)
	assert.NoError(t, err)
	assert.Len(t, counts, len(model.Categories))

	byName := map[string]int64{}
	for _, cc := range counts {
		byName[cc.Name] = cc.Count
	}
	assert.Equal(t, int64(1), byName["electronics"])
	assert.Equal(t, int64(1), byName["books"])
	assert.Zero(t, byName["vehicles"])
}

func TestEditAppliesOnlySubmittedFields(t *testing.T) {
	svc, db := newListingService(t)
	ctx := context.Background()
	alice := uint64(1)

	listing := testutil.CreateListing(t, db, alice, "electronics", 100)

	price := int64(80)
	updated, err := svc.Edit(ctx, listing.ID, alice, service.EditListingInput{
		Description: "updated description",
		Price:       &price,
	})
	assert.NoError(t, err)
	assert.Equal(t, "updated description", updated.Description)
	assert.Equal(t, int64(80), updated.Price)
	assert.Equal(t, "electronics", updated.Category)

	// empty strings and nil price leave everything untouched
	unchanged, err := svc.Edit(ctx, listing.ID, alice, service.EditListingInput{})
	assert.NoError(t, err)
	assert.Equal(t, "updated description", unchanged.Description)
	assert.Equal(t, int64(80), unchanged.Price)
}

func TestEditByNonOwnerIsForbidden(t *testing.T) {
	svc, db := newListingService(t)

	listing := testutil.CreateListing(t, db, 1, "electronics", 100)
	_, err := svc.Edit(context.Background(), listing.ID, 2, service.EditListingInput{Description: "hijacked"})
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestDeleteRemovesRowAndImage(t *testing.T) {
	svc, db := newListingService(t)
	ctx := context.Background()
	alice := uint64(1)

	listing, err := svc.Create(ctx, createInput(alice))
	assert.NoError(t, err)

	assert.NoError(t, svc.Delete(ctx, listing.ID, alice))

	_, err = svc.Get(ctx, listing.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, statErr := os.Stat(listing.ImagePath)
	assert.True(t, os.IsNotExist(statErr))

	var count int64
	assert.NoError(t, db.Model(&model.Listing{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteByNonOwnerIsForbidden(t *testing.T) {
	svc, db := newListingService(t)

	listing := testutil.CreateListing(t, db, 1, "electronics", 100)
	err := svc.Delete(context.Background(), listing.ID, 2)
	assert.ErrorIs(t, err, service.ErrForbidden)
}
