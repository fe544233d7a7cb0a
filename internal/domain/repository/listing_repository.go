package repository

import (
	"context"

	"unimarket/internal/domain/entity"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	Update(ctx context.Context, listing *entity.Listing) error
	Delete(ctx context.Context, id string) error
	ListActive(ctx context.Context, limit, offset int) ([]*entity.Listing, int64, error)
	ListBySellerID(ctx context.Context, sellerID string) ([]*entity.Listing, error)
	ListRelated(ctx context.Context, categoryID, excludeID string, limit int) ([]*entity.Listing, error)
}

type ListingMediaRepository interface {
	CreateImage(ctx context.Context, image *entity.ListingImage) error
	CreateVideo(ctx context.Context, video *entity.ListingVideo) error
	ListImagesByListingID(ctx context.Context, listingID string) ([]*entity.ListingImage, error)
	ListVideosByListingID(ctx context.Context, listingID string) ([]*entity.ListingVideo, error)
	// ClearPrimary unsets the primary flag on every image of the listing.
	// Callers clear first, then set exactly one, so the at-most-one-primary
	// invariant holds after any mutation.
	ClearPrimary(ctx context.Context, listingID string) error
	SetPrimary(ctx context.Context, listingID, imageID string) error
	DeleteByListingID(ctx context.Context, listingID string) error
}
