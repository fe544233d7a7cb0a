package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unimarket/internal/domain/entity"
	"unimarket/pkg/errors"
)

func newReviewEnv(t *testing.T) (*ReviewUseCase, *entity.Listing) {
	t.Helper()

	listingRepo := newFakeListingRepo()
	listing := &entity.Listing{SellerID: "seller-1", CategoryID: "books", Title: "Desk", Status: "active"}
	require.NoError(t, listingRepo.Create(context.Background(), listing))

	return NewReviewUseCase(newFakeReviewRepo(), listingRepo), listing
}

func TestReviewAverageFormatting(t *testing.T) {
	uc, listing := newReviewEnv(t)
	ctx := context.Background()

	for i, rating := range []int{5, 4, 3} {
		_, err := uc.CreateReview(ctx, "buyer", listing.ID, CreateReviewInput{Rating: rating})
		require.NoError(t, err, "review %d", i)
	}

	reviews, summary, err := uc.ListByListing(ctx, listing.ID)
	require.NoError(t, err)

	assert.Len(t, reviews, 3)
	assert.Equal(t, "4.0", summary.Average)
	assert.True(t, summary.HasReviews)
	assert.Equal(t, 3, summary.Count)
}

func TestZeroReviewsIsNoReviewsState(t *testing.T) {
	uc, listing := newReviewEnv(t)

	reviews, summary, err := uc.ListByListing(context.Background(), listing.ID)
	require.NoError(t, err)

	assert.Empty(t, reviews)
	assert.False(t, summary.HasReviews)
	assert.Empty(t, summary.Average, "zero reviews must not render as 0.0")
	assert.Equal(t, 0, summary.Count)
}

func TestSellerCannotReviewOwnListing(t *testing.T) {
	uc, listing := newReviewEnv(t)

	_, err := uc.CreateReview(context.Background(), "seller-1", listing.ID, CreateReviewInput{Rating: 5})

	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestReviewRatingBounds(t *testing.T) {
	uc, listing := newReviewEnv(t)
	ctx := context.Background()

	_, err := uc.CreateReview(ctx, "buyer", listing.ID, CreateReviewInput{Rating: 0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = uc.CreateReview(ctx, "buyer", listing.ID, CreateReviewInput{Rating: 6})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestReviewAverageNotWeighted(t *testing.T) {
	uc, listing := newReviewEnv(t)
	ctx := context.Background()

	for _, rating := range []int{5, 5, 1} {
		_, err := uc.CreateReview(ctx, "buyer", listing.ID, CreateReviewInput{Rating: rating})
		require.NoError(t, err)
	}

	_, summary, err := uc.ListByListing(ctx, listing.ID)
	require.NoError(t, err)

	assert.Equal(t, "3.7", summary.Average)
}
