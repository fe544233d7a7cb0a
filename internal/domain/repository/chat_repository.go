package repository

import (
	"context"

	"unimarket/internal/domain/entity"
)

type ChatRepository interface {
	Create(ctx context.Context, chat *entity.Chat) error
	GetByID(ctx context.Context, id string) (*entity.Chat, error)
	// GetByKey looks up the chat for a (listing, buyer, seller) triple. The
	// get-or-create contract in the use case layer depends on this lookup.
	GetByKey(ctx context.Context, listingID, buyerID, sellerID string) (*entity.Chat, error)
	ListByUserID(ctx context.Context, userID string) ([]*entity.Chat, error)
	ListIDsByUserID(ctx context.Context, userID string) ([]string, error)
}

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	// ListByChatID returns messages ordered by creation time ascending.
	ListByChatID(ctx context.Context, chatID string) ([]*entity.Message, error)
	GetLastByChatID(ctx context.Context, chatID string) (*entity.Message, error)
	// CountUnread counts messages in the given chats that were not sent by
	// userID and have not been read.
	CountUnread(ctx context.Context, chatIDs []string, userID string) (int64, error)
	CountUnreadByChatID(ctx context.Context, chatID, userID string) (int64, error)
	// MarkReadByCounterparty flips is_read on every unread message in the chat
	// not authored by userID and returns how many were flipped.
	MarkReadByCounterparty(ctx context.Context, chatID, userID string) (int, error)
}

type DealRepository interface {
	Create(ctx context.Context, deal *entity.Deal) error
	GetByChatID(ctx context.Context, chatID string) (*entity.Deal, error)
}
