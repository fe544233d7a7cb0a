package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"unimarket/internal/domain/entity"
	"unimarket/internal/domain/repository"
	"unimarket/internal/infrastructure/websocket"
	"unimarket/pkg/errors"
)

const soldAnnouncement = "🎉 I have marked this item as SOLD! Transaction complete."

type ChatUseCase struct {
	chatRepo    repository.ChatRepository
	messageRepo repository.MessageRepository
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	dealRepo    repository.DealRepository
	uploader    MediaUploader
	wsManager   EventPusher
	inbox       *InboxUseCase
	limiter     ActionLimiter
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	messageRepo repository.MessageRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	dealRepo repository.DealRepository,
	uploader MediaUploader,
	wsManager EventPusher,
	inbox *InboxUseCase,
	limiter ActionLimiter,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		dealRepo:    dealRepo,
		uploader:    uploader,
		wsManager:   wsManager,
		inbox:       inbox,
		limiter:     limiter,
	}
}

// GetOrCreateChat returns the chat for (listing, buyer, seller), creating it
// on first contact. The seller is derived from the listing; a seller opening
// their own listing is rejected. Calling twice with the same arguments returns
// the same chat.
func (uc *ChatUseCase) GetOrCreateChat(ctx context.Context, buyerID, listingID string) (*entity.Chat, error) {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if listing.SellerID == buyerID {
		return nil, errors.BadRequest("You cannot start a chat on your own listing", nil)
	}

	chat, err := uc.chatRepo.GetByKey(ctx, listingID, buyerID, listing.SellerID)
	if err == nil {
		return chat, nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	if uc.limiter != nil {
		if allowed, wait := uc.limiter.Allow(buyerID, "create_chat"); !allowed {
			return nil, errors.TooManyRequests("Too many new chats, please slow down", wait)
		}
	}

	chat = &entity.Chat{
		ListingID: listingID,
		BuyerID:   buyerID,
		SellerID:  listing.SellerID,
	}
	if err := uc.chatRepo.Create(ctx, chat); err != nil {
		return nil, err
	}

	return chat, nil
}

// ChatDetail is the chat screen's header data.
type ChatDetail struct {
	Chat    *entity.Chat    `json:"chat"`
	Listing *entity.Listing `json:"listing,omitempty"`
	Buyer   *entity.User    `json:"buyer,omitempty"`
	Seller  *entity.User    `json:"seller,omitempty"`
	Deal    *entity.Deal    `json:"deal,omitempty"`
}

// GetChatDetail loads the chat with its listing, both participants' profiles,
// and the deal when one exists. A missing deal just means the item is not sold
// yet, not an error.
func (uc *ChatUseCase) GetChatDetail(ctx context.Context, userID, chatID string) (*ChatDetail, error) {
	chat, err := uc.memberChat(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	detail := &ChatDetail{Chat: chat}

	listing, err := uc.listingRepo.GetByID(ctx, chat.ListingID)
	if err != nil {
		log.Printf("GetChatDetail: listing %s missing for chat %s: %v", chat.ListingID, chat.ID, err)
	} else {
		detail.Listing = listing
	}

	if buyer, err := uc.userRepo.GetByID(ctx, chat.BuyerID); err == nil {
		detail.Buyer = buyer
	}
	if seller, err := uc.userRepo.GetByID(ctx, chat.SellerID); err == nil {
		detail.Seller = seller
	}

	deal, err := uc.dealRepo.GetByChatID(ctx, chat.ID)
	if err != nil && !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}
	if err == nil {
		detail.Deal = deal
	}

	return detail, nil
}

// GetChatMessages returns the chat's messages oldest first.
func (uc *ChatUseCase) GetChatMessages(ctx context.Context, userID, chatID string) ([]*entity.Message, error) {
	if _, err := uc.memberChat(ctx, userID, chatID); err != nil {
		return nil, err
	}

	return uc.messageRepo.ListByChatID(ctx, chatID)
}

// MarkChatAsRead flips the read flag on the counterparty's unread messages in
// the chat. The flag only moves false to true and only the recipient drives
// it, so re-running the call (clients resend it on regaining visibility) is a
// no-op after the first pass.
func (uc *ChatUseCase) MarkChatAsRead(ctx context.Context, userID, chatID string) error {
	if _, err := uc.memberChat(ctx, userID, chatID); err != nil {
		return err
	}

	updated, err := uc.messageRepo.MarkReadByCounterparty(ctx, chatID, userID)
	if err != nil {
		return err
	}

	if updated > 0 {
		uc.inbox.NotifyUnreadChanged(ctx, userID)
	}

	return nil
}

// SendMessage appends a text message. The sender's own view renders the
// message when it comes back over the realtime channel; there is no local
// optimistic insert, so the room broadcast includes the sender.
func (uc *ChatUseCase) SendMessage(ctx context.Context, userID, chatID, text string) (*entity.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.BadRequest("Message text cannot be empty", nil)
	}

	chat, err := uc.memberChat(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	if uc.limiter != nil {
		if allowed, wait := uc.limiter.Allow(userID, "send_message"); !allowed {
			return nil, errors.TooManyRequests("Sending too fast, please slow down", wait)
		}
	}

	message := &entity.Message{
		ChatID:   chatID,
		SenderID: userID,
		Text:     text,
	}
	if err := uc.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	uc.publishMessage(ctx, chat, message)
	return message, nil
}

// SendMediaMessage uploads the file and appends a media message carrying its
// public URL. Upload failures surface the underlying error; nothing retries.
func (uc *ChatUseCase) SendMediaMessage(ctx context.Context, userID, chatID string, upload MediaUpload) (*entity.Message, error) {
	chat, err := uc.memberChat(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	kind := entity.MediaKindImage
	if isVideoType(upload.ContentType) {
		kind = entity.MediaKindVideo
		if err := validateVideoUpload(upload, chatVideoTypes); err != nil {
			return nil, err
		}
	} else {
		if err := validateImageUpload(upload, chatImageTypes, maxChatImageSize); err != nil {
			return nil, err
		}
	}

	if uc.limiter != nil {
		if allowed, wait := uc.limiter.Allow(userID, "send_message"); !allowed {
			return nil, errors.TooManyRequests("Sending too fast, please slow down", wait)
		}
	}

	url, err := uc.uploader.UploadFile(ctx, upload.Reader, upload.ContentType, fmt.Sprintf("chat-media/%s/%s", chatID, userID))
	if err != nil {
		return nil, errors.Internal("Failed to upload media. Check the file and try again", err)
	}

	message := &entity.Message{
		ChatID:    chatID,
		SenderID:  userID,
		MediaURL:  url,
		MediaKind: kind,
	}
	if err := uc.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	uc.publishMessage(ctx, chat, message)
	return message, nil
}

// MarkSold records the deal and announces it in the chat. Seller-only, at most
// once per chat, and irreversible.
func (uc *ChatUseCase) MarkSold(ctx context.Context, userID, chatID string) (*entity.Deal, error) {
	chat, err := uc.memberChat(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	if chat.SellerID != userID {
		return nil, errors.Forbidden("Only the seller can mark an item as sold", nil)
	}

	if _, err := uc.dealRepo.GetByChatID(ctx, chatID); err == nil {
		return nil, errors.Conflict("This item has already been marked as sold")
	} else if !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	deal := &entity.Deal{
		ChatID:    chatID,
		ListingID: chat.ListingID,
		BuyerID:   chat.BuyerID,
		SellerID:  chat.SellerID,
	}
	if err := uc.dealRepo.Create(ctx, deal); err != nil {
		return nil, err
	}

	if listing, err := uc.listingRepo.GetByID(ctx, chat.ListingID); err == nil {
		listing.Status = "sold"
		listing.UpdatedAt = time.Now()
		if err := uc.listingRepo.Update(ctx, listing); err != nil {
			log.Printf("MarkSold: failed to update listing %s status: %v", listing.ID, err)
		}
	}

	announcement := &entity.Message{
		ChatID:   chatID,
		SenderID: userID,
		Text:     soldAnnouncement,
	}
	if err := uc.messageRepo.Create(ctx, announcement); err != nil {
		log.Printf("MarkSold: failed to append announcement in chat %s: %v", chatID, err)
	} else {
		uc.publishMessage(ctx, chat, announcement)
	}

	uc.pushDealCreated(chat, deal)
	return deal, nil
}

// AuthorizeJoin reports whether the user participates in the chat. Installed
// on the hub as its join check.
func (uc *ChatUseCase) AuthorizeJoin(ctx context.Context, userID, chatID string) bool {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return false
	}
	return chat.HasParticipant(userID)
}

func (uc *ChatUseCase) memberChat(ctx context.Context, userID, chatID string) (*entity.Chat, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if !chat.HasParticipant(userID) {
		return nil, errors.Forbidden("You are not a participant in this chat", nil)
	}

	return chat, nil
}

// publishMessage broadcasts the new message to the room (the sender included,
// per the no-optimistic-insert contract) and refreshes the counterparty's
// unread badge. Room delivery de-duplicates on the message id.
func (uc *ChatUseCase) publishMessage(ctx context.Context, chat *entity.Chat, message *entity.Message) {
	payload, err := json.Marshal(websocket.WSMessage{
		Type:      websocket.MessageTypeNewMessage,
		ChatID:    chat.ID,
		Data:      message,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("publishMessage Error: %v", err)
		return
	}

	uc.wsManager.BroadcastToChatRoom(chat.ID, message.ID, payload, "")
	uc.inbox.NotifyUnreadChanged(ctx, chat.OtherParticipant(message.SenderID))
}

func (uc *ChatUseCase) pushDealCreated(chat *entity.Chat, deal *entity.Deal) {
	payload, err := json.Marshal(websocket.WSMessage{
		Type:      websocket.MessageTypeDealCreated,
		ChatID:    chat.ID,
		Data:      deal,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("pushDealCreated Error: %v", err)
		return
	}

	uc.wsManager.SendToUser(chat.BuyerID, payload)
	uc.wsManager.SendToUser(chat.SellerID, payload)
}
