package repository

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"unimarket/internal/domain/entity"
	"unimarket/internal/domain/repository"
	"unimarket/pkg/errors"
)

type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

func (r *firestoreChatRepository) Create(ctx context.Context, chat *entity.Chat) error {
	if chat.ID == "" {
		chat.ID = uuid.New().String()
	}
	chat.CreatedAt = time.Now()

	_, err := r.client.Collection("chats").Doc(chat.ID).Set(ctx, chat)
	if err != nil {
		return errors.Internal("Failed to create chat", err)
	}

	return nil
}

func (r *firestoreChatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	doc, err := r.client.Collection("chats").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Chat", err)
		}
		return nil, errors.Internal("Failed to get chat", err)
	}

	var chat entity.Chat
	if err := doc.DataTo(&chat); err != nil {
		return nil, errors.Internal("Failed to parse chat data", err)
	}

	return &chat, nil
}

func (r *firestoreChatRepository) GetByKey(ctx context.Context, listingID, buyerID, sellerID string) (*entity.Chat, error) {
	iter := r.client.Collection("chats").
		Where("listingId", "==", listingID).
		Where("buyerId", "==", buyerID).
		Where("sellerId", "==", sellerID).
		Limit(1).
		Documents(ctx)

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("Chat", nil)
	}
	if err != nil {
		return nil, errors.Internal("Failed to query chat by key", err)
	}

	var chat entity.Chat
	if err := doc.DataTo(&chat); err != nil {
		return nil, errors.Internal("Failed to parse chat data", err)
	}

	return &chat, nil
}

func (r *firestoreChatRepository) ListByUserID(ctx context.Context, userID string) ([]*entity.Chat, error) {
	chats := make([]*entity.Chat, 0)
	seen := make(map[string]struct{})

	// Firestore has no OR filter across fields, so query both roles and merge.
	for _, field := range []string{"buyerId", "sellerId"} {
		iter := r.client.Collection("chats").
			Where(field, "==", userID).
			Documents(ctx)

		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return nil, errors.Internal("Failed to iterate chats", err)
			}

			var chat entity.Chat
			if err := doc.DataTo(&chat); err != nil {
				return nil, errors.Internal("Failed to parse chat data", err)
			}

			if _, ok := seen[chat.ID]; ok {
				continue
			}
			seen[chat.ID] = struct{}{}
			chats = append(chats, &chat)
		}
	}

	sort.Slice(chats, func(i, j int) bool {
		return chats[i].CreatedAt.After(chats[j].CreatedAt)
	})

	return chats, nil
}

func (r *firestoreChatRepository) ListIDsByUserID(ctx context.Context, userID string) ([]string, error) {
	chats, err := r.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(chats))
	for _, chat := range chats {
		ids = append(ids, chat.ID)
	}

	return ids, nil
}
