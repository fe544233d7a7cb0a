package usecase

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"unimarket/internal/domain/entity"
	"unimarket/internal/domain/repository"
	"unimarket/internal/infrastructure/websocket"
	"unimarket/pkg/errors"
)

type InboxUseCase struct {
	chatRepo    repository.ChatRepository
	messageRepo repository.MessageRepository
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	wsManager   EventPusher
}

func NewInboxUseCase(
	chatRepo repository.ChatRepository,
	messageRepo repository.MessageRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	wsManager EventPusher,
) *InboxUseCase {
	return &InboxUseCase{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		wsManager:   wsManager,
	}
}

// UnreadCount is the badge number: unread messages across every chat the user
// participates in, counted in two steps (chat ids first, then messages where
// sender is someone else and the read flag is unset). Zero chats short-circuits
// to 0 without the second read. The count is always a fresh recomputation, not
// an incremental delta, so it cannot drift; any read failure resets it to 0 and
// logs instead of propagating.
func (uc *InboxUseCase) UnreadCount(ctx context.Context, userID string) int64 {
	chatIDs, err := uc.chatRepo.ListIDsByUserID(ctx, userID)
	if err != nil {
		log.Printf("UnreadCount Error: failed to list chats for %s: %v", userID, err)
		return 0
	}

	if len(chatIDs) == 0 {
		return 0
	}

	count, err := uc.messageRepo.CountUnread(ctx, chatIDs, userID)
	if err != nil {
		log.Printf("UnreadCount Error: failed to count unread for %s: %v", userID, err)
		return 0
	}

	return count
}

// NotifyUnreadChanged recomputes the badge for each user and pushes it over
// their live connection. Called after message inserts and read-flag updates.
func (uc *InboxUseCase) NotifyUnreadChanged(ctx context.Context, userIDs ...string) {
	for _, userID := range userIDs {
		count := uc.UnreadCount(ctx, userID)

		payload, err := json.Marshal(websocket.WSMessage{
			Type:      websocket.MessageTypeUnreadCount,
			Data:      map[string]int64{"count": count},
			Timestamp: time.Now().Format(time.RFC3339),
		})
		if err != nil {
			log.Printf("NotifyUnreadChanged Error: %v", err)
			continue
		}

		uc.wsManager.SendToUser(userID, payload)
	}
}

// Conversation is one row of the inbox: the chat plus what the list view
// renders without further queries.
type Conversation struct {
	Chat        *entity.Chat    `json:"chat"`
	Listing     *entity.Listing `json:"listing,omitempty"`
	Other       *entity.User    `json:"other,omitempty"`
	LastMessage *entity.Message `json:"last_message,omitempty"`
	UnreadCount int64           `json:"unread_count"`
}

// ListConversations returns the user's chats newest first, each enriched with
// the listing summary, the counterparty profile, the last message, and the
// per-chat unread count. Enrichment failures degrade the row, not the list.
func (uc *InboxUseCase) ListConversations(ctx context.Context, userID string) ([]*Conversation, error) {
	chats, err := uc.chatRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	conversations := make([]*Conversation, 0, len(chats))
	for _, chat := range chats {
		conv := &Conversation{Chat: chat}

		listing, err := uc.listingRepo.GetByID(ctx, chat.ListingID)
		if err != nil {
			log.Printf("ListConversations: listing %s missing for chat %s: %v", chat.ListingID, chat.ID, err)
		} else {
			conv.Listing = listing
		}

		otherID := chat.OtherParticipant(userID)
		if other, err := uc.userRepo.GetByID(ctx, otherID); err == nil {
			conv.Other = other
		}

		last, err := uc.messageRepo.GetLastByChatID(ctx, chat.ID)
		if err != nil && !errors.Is(err, "NOT_FOUND") {
			log.Printf("ListConversations: last message lookup failed for chat %s: %v", chat.ID, err)
		}
		if err == nil {
			conv.LastMessage = last
		}

		unread, err := uc.messageRepo.CountUnreadByChatID(ctx, chat.ID, userID)
		if err != nil {
			log.Printf("ListConversations: unread count failed for chat %s: %v", chat.ID, err)
		} else {
			conv.UnreadCount = unread
		}

		conversations = append(conversations, conv)
	}

	return conversations, nil
}
