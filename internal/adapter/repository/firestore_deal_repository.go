package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"unimarket/internal/domain/entity"
	"unimarket/internal/domain/repository"
	"unimarket/pkg/errors"
)

type firestoreDealRepository struct {
	client *firestore.Client
}

func NewFirestoreDealRepository(client *firestore.Client) repository.DealRepository {
	return &firestoreDealRepository{
		client: client,
	}
}

func (r *firestoreDealRepository) Create(ctx context.Context, deal *entity.Deal) error {
	if deal.ID == "" {
		deal.ID = uuid.New().String()
	}
	deal.CreatedAt = time.Now()

	_, err := r.client.Collection("deals").Doc(deal.ID).Set(ctx, deal)
	if err != nil {
		return errors.Internal("Failed to create deal", err)
	}

	return nil
}

func (r *firestoreDealRepository) GetByChatID(ctx context.Context, chatID string) (*entity.Deal, error) {
	iter := r.client.Collection("deals").
		Where("chatId", "==", chatID).
		Limit(1).
		Documents(ctx)

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("Deal", nil)
	}
	if err != nil {
		return nil, errors.Internal("Failed to query deal", err)
	}

	var deal entity.Deal
	if err := doc.DataTo(&deal); err != nil {
		return nil, errors.Internal("Failed to parse deal data", err)
	}

	return &deal, nil
}
