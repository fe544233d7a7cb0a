package repository

import (
	"context"

	"unimarket/internal/domain/entity"
)

type CategoryRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	ListActive(ctx context.Context) ([]*entity.Category, error)
}
