package usecase

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unimarket/internal/domain/entity"
	"unimarket/pkg/errors"
)

type chatEnv struct {
	chatUC      *ChatUseCase
	chatRepo    *fakeChatRepo
	messageRepo *fakeMessageRepo
	listingRepo *fakeListingRepo
	dealRepo    *fakeDealRepo
	uploader    *fakeUploader
	pusher      *fakePusher
}

func newChatEnv(t *testing.T) *chatEnv {
	t.Helper()

	chatRepo := newFakeChatRepo()
	messageRepo := newFakeMessageRepo()
	listingRepo := newFakeListingRepo()
	userRepo := newFakeUserRepo()
	dealRepo := newFakeDealRepo()
	uploader := newFakeUploader()
	pusher := newFakePusher()

	inbox := NewInboxUseCase(chatRepo, messageRepo, listingRepo, userRepo, pusher)
	chatUC := NewChatUseCase(chatRepo, messageRepo, listingRepo, userRepo, dealRepo, uploader, pusher, inbox, nil)

	return &chatEnv{
		chatUC:      chatUC,
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		listingRepo: listingRepo,
		dealRepo:    dealRepo,
		uploader:    uploader,
		pusher:      pusher,
	}
}

func (env *chatEnv) seedChat(t *testing.T) *entity.Chat {
	t.Helper()

	listing := env.seedListing(t, "seller-1")
	chat, err := env.chatUC.GetOrCreateChat(context.Background(), "buyer-1", listing.ID)
	require.NoError(t, err)
	return chat
}

func mediaUpload(contentType string, size int64) MediaUpload {
	return MediaUpload{
		Reader:      bytes.NewReader([]byte("media-bytes")),
		Filename:    "upload",
		ContentType: contentType,
		Size:        size,
	}
}

func (env *chatEnv) seedListing(t *testing.T, sellerID string) *entity.Listing {
	t.Helper()

	listing := &entity.Listing{
		SellerID:   sellerID,
		CategoryID: "books",
		Title:      "Calculus textbook",
		Price:      25,
		Status:     "active",
	}
	require.NoError(t, env.listingRepo.Create(context.Background(), listing))
	return listing
}

func TestGetOrCreateChatReturnsSameChat(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()
	listing := env.seedListing(t, "seller-1")

	first, err := env.chatUC.GetOrCreateChat(ctx, "buyer-1", listing.ID)
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	second, err := env.chatUC.GetOrCreateChat(ctx, "buyer-1", listing.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, env.chatRepo.creates)
	assert.Equal(t, "seller-1", first.SellerID)
}

func TestGetOrCreateChatRejectsOwnListing(t *testing.T) {
	env := newChatEnv(t)
	listing := env.seedListing(t, "seller-1")

	_, err := env.chatUC.GetOrCreateChat(context.Background(), "seller-1", listing.ID)

	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestMarkChatAsReadIsIdempotent(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()
	listing := env.seedListing(t, "seller-1")

	chat, err := env.chatUC.GetOrCreateChat(ctx, "buyer-1", listing.ID)
	require.NoError(t, err)

	// Two unread from the seller, one from the buyer themselves.
	require.NoError(t, env.messageRepo.Create(ctx, &entity.Message{ChatID: chat.ID, SenderID: "seller-1", Text: "hi"}))
	require.NoError(t, env.messageRepo.Create(ctx, &entity.Message{ChatID: chat.ID, SenderID: "seller-1", Text: "still there?"}))
	require.NoError(t, env.messageRepo.Create(ctx, &entity.Message{ChatID: chat.ID, SenderID: "buyer-1", Text: "yes"}))

	require.NoError(t, env.chatUC.MarkChatAsRead(ctx, "buyer-1", chat.ID))

	for _, message := range env.messageRepo.messages {
		if message.SenderID == "seller-1" {
			assert.True(t, message.IsRead)
		} else {
			assert.False(t, message.IsRead, "own messages must not be flipped")
		}
	}

	// Clients resend mark_chat_read on visibility regain; nothing changes.
	require.NoError(t, env.chatUC.MarkChatAsRead(ctx, "buyer-1", chat.ID))
	require.NoError(t, env.chatUC.MarkChatAsRead(ctx, "buyer-1", chat.ID))

	readCount := 0
	for _, message := range env.messageRepo.messages {
		if message.IsRead {
			readCount++
		}
	}
	assert.Equal(t, 2, readCount)
}

func TestSendMessageRejectsEmptyText(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()
	listing := env.seedListing(t, "seller-1")

	chat, err := env.chatUC.GetOrCreateChat(ctx, "buyer-1", listing.ID)
	require.NoError(t, err)

	_, err = env.chatUC.SendMessage(ctx, "buyer-1", chat.ID, "   ")

	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
	assert.Empty(t, env.messageRepo.messages)
}

func TestSendMessageRejectsNonParticipant(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()
	listing := env.seedListing(t, "seller-1")

	chat, err := env.chatUC.GetOrCreateChat(ctx, "buyer-1", listing.ID)
	require.NoError(t, err)

	_, err = env.chatUC.SendMessage(ctx, "stranger", chat.ID, "hello")

	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestSendMessageBroadcastsWithMessageID(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()
	listing := env.seedListing(t, "seller-1")

	chat, err := env.chatUC.GetOrCreateChat(ctx, "buyer-1", listing.ID)
	require.NoError(t, err)

	message, err := env.chatUC.SendMessage(ctx, "buyer-1", chat.ID, "is this available?")
	require.NoError(t, err)

	// The room broadcast carries the message id so the hub can de-duplicate
	// replays, and the sender renders the echo instead of inserting locally.
	require.Len(t, env.pusher.broadcasts, 1)
	assert.Equal(t, message.ID, env.pusher.broadcasts[0])
}

func TestMarkSoldOncePerChat(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()
	listing := env.seedListing(t, "seller-1")

	chat, err := env.chatUC.GetOrCreateChat(ctx, "buyer-1", listing.ID)
	require.NoError(t, err)

	deal, err := env.chatUC.MarkSold(ctx, "seller-1", chat.ID)
	require.NoError(t, err)
	assert.Equal(t, "buyer-1", deal.BuyerID)
	assert.Equal(t, listing.ID, deal.ListingID)

	// Listing flips to sold and the announcement lands in the chat.
	updated, err := env.listingRepo.GetByID(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, "sold", updated.Status)

	messages, err := env.messageRepo.ListByChatID(ctx, chat.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, soldAnnouncement, messages[0].Text)

	_, err = env.chatUC.MarkSold(ctx, "seller-1", chat.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "CONFLICT"))
}

func TestMarkSoldIsSellerOnly(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()
	listing := env.seedListing(t, "seller-1")

	chat, err := env.chatUC.GetOrCreateChat(ctx, "buyer-1", listing.ID)
	require.NoError(t, err)

	_, err = env.chatUC.MarkSold(ctx, "buyer-1", chat.ID)

	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestSendMediaMessageRoutesImageAndVideo(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()
	chat := env.seedChat(t)

	image, err := env.chatUC.SendMediaMessage(ctx, "buyer-1", chat.ID, mediaUpload("image/gif", 1024))
	require.NoError(t, err)
	assert.Equal(t, entity.MediaKindImage, image.MediaKind)
	assert.NotEmpty(t, image.MediaURL)

	video, err := env.chatUC.SendMediaMessage(ctx, "buyer-1", chat.ID, mediaUpload("video/webm", 10*1024*1024))
	require.NoError(t, err)
	assert.Equal(t, entity.MediaKindVideo, video.MediaKind)
	assert.NotEmpty(t, video.MediaURL)

	// Both land in the chat and go out over the room broadcast.
	messages, err := env.messageRepo.ListByChatID(ctx, chat.ID)
	require.NoError(t, err)
	assert.Len(t, messages, 2)
	assert.Len(t, env.pusher.broadcasts, 2)
}

func TestSendMediaMessageImageSizeLimit(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()
	chat := env.seedChat(t)

	// Chat images get 6MB, looser than the 2MB listing limit.
	_, err := env.chatUC.SendMediaMessage(ctx, "buyer-1", chat.ID, mediaUpload("image/jpeg", 6*1024*1024))
	require.NoError(t, err)

	_, err = env.chatUC.SendMediaMessage(ctx, "buyer-1", chat.ID, mediaUpload("image/jpeg", 6*1024*1024+1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	messages, err := env.messageRepo.ListByChatID(ctx, chat.ID)
	require.NoError(t, err)
	assert.Len(t, messages, 1, "the oversize image must not produce a message row")
}

func TestSendMediaMessageVideoSizeLimit(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()
	chat := env.seedChat(t)

	_, err := env.chatUC.SendMediaMessage(ctx, "buyer-1", chat.ID, mediaUpload("video/mp4", 20*1024*1024))
	require.NoError(t, err)

	_, err = env.chatUC.SendMediaMessage(ctx, "buyer-1", chat.ID, mediaUpload("video/quicktime", 20*1024*1024+1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestSendMediaMessageRejectsUnsupportedType(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()
	chat := env.seedChat(t)

	_, err := env.chatUC.SendMediaMessage(ctx, "buyer-1", chat.ID, mediaUpload("application/pdf", 1024))

	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
	assert.Empty(t, env.messageRepo.messages)
	assert.Zero(t, env.uploader.uploads, "rejected types must not reach storage")
}

func TestSendMediaMessageSurfacesUploadFailure(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()
	chat := env.seedChat(t)

	env.uploader.failAfter = 0

	_, err := env.chatUC.SendMediaMessage(ctx, "buyer-1", chat.ID, mediaUpload("image/png", 1024))

	require.Error(t, err)
	assert.True(t, errors.Is(err, "INTERNAL_ERROR"))
	assert.Empty(t, env.messageRepo.messages, "a failed upload must not leave a message row")
}

func TestGetChatDetailWithoutDeal(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()
	listing := env.seedListing(t, "seller-1")

	chat, err := env.chatUC.GetOrCreateChat(ctx, "buyer-1", listing.ID)
	require.NoError(t, err)

	detail, err := env.chatUC.GetChatDetail(ctx, "buyer-1", chat.ID)
	require.NoError(t, err)

	assert.Equal(t, chat.ID, detail.Chat.ID)
	assert.Equal(t, listing.ID, detail.Listing.ID)
	assert.Nil(t, detail.Deal, "a missing deal means not sold, not an error")
}
