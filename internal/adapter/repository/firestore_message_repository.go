package repository

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"unimarket/internal/domain/entity"
	"unimarket/internal/domain/repository"
	"unimarket/pkg/errors"
)

// Firestore limits "in" filters to 10 values per query.
const chatIDChunkSize = 10

type firestoreMessageRepository struct {
	client *firestore.Client
}

func NewFirestoreMessageRepository(client *firestore.Client) repository.MessageRepository {
	return &firestoreMessageRepository{
		client: client,
	}
}

func (r *firestoreMessageRepository) Create(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.CreatedAt = time.Now()

	_, err := r.client.Collection("messages").Doc(message.ID).Set(ctx, message)
	if err != nil {
		return errors.Internal("Failed to create message", err)
	}

	return nil
}

func (r *firestoreMessageRepository) ListByChatID(ctx context.Context, chatID string) ([]*entity.Message, error) {
	iter := r.client.Collection("messages").
		Where("chatId", "==", chatID).
		OrderBy("createdAt", firestore.Asc).
		Documents(ctx)

	var messages []*entity.Message
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			log.Printf("Firestore error while iterating messages for chat %s: %v", chatID, err)
			return nil, errors.Internal("Failed to iterate messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			return nil, errors.Internal("Failed to parse message data", err)
		}

		messages = append(messages, &message)
	}

	return messages, nil
}

func (r *firestoreMessageRepository) GetLastByChatID(ctx context.Context, chatID string) (*entity.Message, error) {
	iter := r.client.Collection("messages").
		Where("chatId", "==", chatID).
		OrderBy("createdAt", firestore.Desc).
		Limit(1).
		Documents(ctx)

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("Message", nil)
	}
	if err != nil {
		return nil, errors.Internal("Failed to get last message", err)
	}

	var message entity.Message
	if err := doc.DataTo(&message); err != nil {
		return nil, errors.Internal("Failed to parse message data", err)
	}

	return &message, nil
}

func (r *firestoreMessageRepository) CountUnread(ctx context.Context, chatIDs []string, userID string) (int64, error) {
	var total int64

	for start := 0; start < len(chatIDs); start += chatIDChunkSize {
		end := start + chatIDChunkSize
		if end > len(chatIDs) {
			end = len(chatIDs)
		}

		iter := r.client.Collection("messages").
			Where("chatId", "in", chatIDs[start:end]).
			Where("isRead", "==", false).
			Documents(ctx)

		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return 0, errors.Internal("Failed to count unread messages", err)
			}

			var message entity.Message
			if err := doc.DataTo(&message); err != nil {
				return 0, errors.Internal("Failed to parse message data", err)
			}

			if message.SenderID != userID {
				total++
			}
		}
	}

	return total, nil
}

func (r *firestoreMessageRepository) CountUnreadByChatID(ctx context.Context, chatID, userID string) (int64, error) {
	return r.CountUnread(ctx, []string{chatID}, userID)
}

func (r *firestoreMessageRepository) MarkReadByCounterparty(ctx context.Context, chatID, userID string) (int, error) {
	iter := r.client.Collection("messages").
		Where("chatId", "==", chatID).
		Where("isRead", "==", false).
		Documents(ctx)

	updated := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return updated, errors.Internal("Failed to iterate unread messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			return updated, errors.Internal("Failed to parse message data", err)
		}

		// Only the recipient flips the flag; own messages are left alone.
		if message.SenderID == userID {
			continue
		}

		_, err = doc.Ref.Update(ctx, []firestore.Update{
			{Path: "isRead", Value: true},
		})
		if err != nil {
			return updated, errors.Internal("Failed to mark message read", err)
		}

		updated++
	}

	return updated, nil
}
