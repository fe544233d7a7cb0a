package usecase

import (
	"context"
	"fmt"

	"unimarket/internal/domain/entity"
	"unimarket/internal/domain/repository"
	"unimarket/pkg/errors"
)

type ReviewUseCase struct {
	reviewRepo  repository.ReviewRepository
	listingRepo repository.ListingRepository
}

func NewReviewUseCase(
	reviewRepo repository.ReviewRepository,
	listingRepo repository.ListingRepository,
) *ReviewUseCase {
	return &ReviewUseCase{
		reviewRepo:  reviewRepo,
		listingRepo: listingRepo,
	}
}

type CreateReviewInput struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Text   string `json:"text" validate:"omitempty,max=2000"`
}

// CreateReview records a rating for the listing. The listing's own seller
// cannot review it.
func (uc *ReviewUseCase) CreateReview(ctx context.Context, reviewerID, listingID string, input CreateReviewInput) (*entity.Review, error) {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if listing.SellerID == reviewerID {
		return nil, errors.Forbidden("You cannot review your own listing", nil)
	}

	if input.Rating < 1 || input.Rating > 5 {
		return nil, errors.BadRequest("Rating must be between 1 and 5", nil)
	}

	review := &entity.Review{
		ListingID:  listingID,
		ReviewerID: reviewerID,
		Rating:     input.Rating,
		Text:       input.Text,
	}
	if err := uc.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

// ReviewSummary is the aggregate the listing page shows. Average is the
// unweighted mean formatted to one decimal; with zero reviews HasReviews is
// false and Average stays empty, never "0.0".
type ReviewSummary struct {
	Count      int    `json:"count"`
	Average    string `json:"average,omitempty"`
	HasReviews bool   `json:"has_reviews"`
}

// ListByListing reloads the full review list for the listing, newest first,
// together with the recomputed summary. No incremental append.
func (uc *ReviewUseCase) ListByListing(ctx context.Context, listingID string) ([]*entity.Review, *ReviewSummary, error) {
	reviews, err := uc.reviewRepo.ListByListingID(ctx, listingID)
	if err != nil {
		return nil, nil, err
	}

	return reviews, SummarizeReviews(reviews), nil
}

// SummarizeReviews computes the unweighted mean of all ratings.
func SummarizeReviews(reviews []*entity.Review) *ReviewSummary {
	if len(reviews) == 0 {
		return &ReviewSummary{Count: 0, HasReviews: false}
	}

	total := 0
	for _, review := range reviews {
		total += review.Rating
	}
	average := float64(total) / float64(len(reviews))

	return &ReviewSummary{
		Count:      len(reviews),
		Average:    fmt.Sprintf("%.1f", average),
		HasReviews: true,
	}
}
