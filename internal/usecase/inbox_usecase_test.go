package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unimarket/internal/domain/entity"
)

func newInboxEnv() (*InboxUseCase, *fakeChatRepo, *fakeMessageRepo) {
	chatRepo := newFakeChatRepo()
	messageRepo := newFakeMessageRepo()
	inbox := NewInboxUseCase(chatRepo, messageRepo, newFakeListingRepo(), newFakeUserRepo(), newFakePusher())
	return inbox, chatRepo, messageRepo
}

func TestUnreadCountZeroChatsSkipsSecondQuery(t *testing.T) {
	inbox, _, messageRepo := newInboxEnv()

	count := inbox.UnreadCount(context.Background(), "user-1")

	assert.Equal(t, int64(0), count)
	assert.Equal(t, 0, messageRepo.countUnreadCalls, "no chats means the message query is skipped")
}

func TestUnreadCountCountsOnlyCounterpartyUnread(t *testing.T) {
	inbox, chatRepo, messageRepo := newInboxEnv()
	ctx := context.Background()

	chat := &entity.Chat{ListingID: "l1", BuyerID: "user-1", SellerID: "seller-1"}
	require.NoError(t, chatRepo.Create(ctx, chat))

	// Two unread from the seller, one unread from the user themselves, one
	// already-read from the seller. Only the first two count.
	require.NoError(t, messageRepo.Create(ctx, &entity.Message{ChatID: chat.ID, SenderID: "seller-1"}))
	require.NoError(t, messageRepo.Create(ctx, &entity.Message{ChatID: chat.ID, SenderID: "seller-1"}))
	require.NoError(t, messageRepo.Create(ctx, &entity.Message{ChatID: chat.ID, SenderID: "user-1"}))
	require.NoError(t, messageRepo.Create(ctx, &entity.Message{ChatID: chat.ID, SenderID: "seller-1", IsRead: true}))

	count := inbox.UnreadCount(ctx, "user-1")

	assert.Equal(t, int64(2), count)
}

func TestUnreadCountAlwaysRecomputes(t *testing.T) {
	inbox, chatRepo, messageRepo := newInboxEnv()
	ctx := context.Background()

	chat := &entity.Chat{ListingID: "l1", BuyerID: "user-1", SellerID: "seller-1"}
	require.NoError(t, chatRepo.Create(ctx, chat))
	require.NoError(t, messageRepo.Create(ctx, &entity.Message{ChatID: chat.ID, SenderID: "seller-1"}))

	assert.Equal(t, int64(1), inbox.UnreadCount(ctx, "user-1"))
	assert.Equal(t, int64(1), inbox.UnreadCount(ctx, "user-1"))

	// Each call hits the store again; the count is never cached.
	assert.Equal(t, 2, messageRepo.countUnreadCalls)
}

func TestUnreadCountReadFailureReturnsZero(t *testing.T) {
	inbox, chatRepo, messageRepo := newInboxEnv()
	ctx := context.Background()

	chat := &entity.Chat{ListingID: "l1", BuyerID: "user-1", SellerID: "seller-1"}
	require.NoError(t, chatRepo.Create(ctx, chat))
	require.NoError(t, messageRepo.Create(ctx, &entity.Message{ChatID: chat.ID, SenderID: "seller-1"}))

	messageRepo.countErr = fmt.Errorf("firestore unavailable")
	assert.Equal(t, int64(0), inbox.UnreadCount(ctx, "user-1"))

	chatRepo.listErr = fmt.Errorf("firestore unavailable")
	assert.Equal(t, int64(0), inbox.UnreadCount(ctx, "user-1"))
}

func TestListConversationsEnrichesRows(t *testing.T) {
	chatRepo := newFakeChatRepo()
	messageRepo := newFakeMessageRepo()
	listingRepo := newFakeListingRepo()
	userRepo := newFakeUserRepo()
	inbox := NewInboxUseCase(chatRepo, messageRepo, listingRepo, userRepo, newFakePusher())
	ctx := context.Background()

	listing := &entity.Listing{SellerID: "seller-1", CategoryID: "books", Title: "Lamp", Status: "active"}
	require.NoError(t, listingRepo.Create(ctx, listing))
	require.NoError(t, userRepo.Create(ctx, &entity.User{ID: "seller-1", Email: "s@uni.edu", FullName: "Sam"}))

	chat := &entity.Chat{ListingID: listing.ID, BuyerID: "user-1", SellerID: "seller-1"}
	require.NoError(t, chatRepo.Create(ctx, chat))
	require.NoError(t, messageRepo.Create(ctx, &entity.Message{ChatID: chat.ID, SenderID: "seller-1", Text: "still for sale"}))

	conversations, err := inbox.ListConversations(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, conversations, 1)

	row := conversations[0]
	assert.Equal(t, listing.ID, row.Listing.ID)
	assert.Equal(t, "Sam", row.Other.FullName)
	assert.Equal(t, "still for sale", row.LastMessage.Text)
	assert.Equal(t, int64(1), row.UnreadCount)
}
