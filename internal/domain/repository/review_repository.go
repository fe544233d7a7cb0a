package repository

import (
	"context"

	"unimarket/internal/domain/entity"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	ListByListingID(ctx context.Context, listingID string) ([]*entity.Review, error)
}
