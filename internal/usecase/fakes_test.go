package usecase

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"unimarket/internal/domain/entity"
	"unimarket/pkg/errors"
)

// In-memory fakes for the repository interfaces. IDs are assigned on create,
// mirroring the Firestore adapters.

type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.users[user.ID] = user
	return nil
}

type fakeCategoryRepo struct {
	categories map[string]*entity.Category
}

func newFakeCategoryRepo(ids ...string) *fakeCategoryRepo {
	repo := &fakeCategoryRepo{categories: make(map[string]*entity.Category)}
	for i, id := range ids {
		repo.categories[id] = &entity.Category{ID: id, Name: id, SortOrder: i, IsActive: true}
	}
	return repo
}

func (r *fakeCategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, errors.NotFound("Category", nil)
	}
	return category, nil
}

func (r *fakeCategoryRepo) ListActive(ctx context.Context) ([]*entity.Category, error) {
	categories := make([]*entity.Category, 0, len(r.categories))
	for _, category := range r.categories {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].SortOrder < categories[j].SortOrder
	})
	return categories, nil
}

type fakeListingRepo struct {
	listings map[string]*entity.Listing
	deleted  []string
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{listings: make(map[string]*entity.Listing)}
}

func (r *fakeListingRepo) Create(ctx context.Context, listing *entity.Listing) error {
	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}
	listing.CreatedAt = time.Now()
	r.listings[listing.ID] = listing
	return nil
}

func (r *fakeListingRepo) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	listing, ok := r.listings[id]
	if !ok {
		return nil, errors.NotFound("Listing", nil)
	}
	return listing, nil
}

func (r *fakeListingRepo) Update(ctx context.Context, listing *entity.Listing) error {
	if _, ok := r.listings[listing.ID]; !ok {
		return errors.NotFound("Listing", nil)
	}
	r.listings[listing.ID] = listing
	return nil
}

func (r *fakeListingRepo) Delete(ctx context.Context, id string) error {
	delete(r.listings, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeListingRepo) ListActive(ctx context.Context, limit, offset int) ([]*entity.Listing, int64, error) {
	var active []*entity.Listing
	for _, listing := range r.listings {
		if listing.Status == "active" {
			active = append(active, listing)
		}
	}
	return active, int64(len(active)), nil
}

func (r *fakeListingRepo) ListBySellerID(ctx context.Context, sellerID string) ([]*entity.Listing, error) {
	var mine []*entity.Listing
	for _, listing := range r.listings {
		if listing.SellerID == sellerID {
			mine = append(mine, listing)
		}
	}
	return mine, nil
}

func (r *fakeListingRepo) ListRelated(ctx context.Context, categoryID, excludeID string, limit int) ([]*entity.Listing, error) {
	var related []*entity.Listing
	for _, listing := range r.listings {
		if listing.CategoryID == categoryID && listing.ID != excludeID && len(related) < limit {
			related = append(related, listing)
		}
	}
	return related, nil
}

type fakeMediaRepo struct {
	images []*entity.ListingImage
	videos []*entity.ListingVideo
}

func newFakeMediaRepo() *fakeMediaRepo {
	return &fakeMediaRepo{}
}

func (r *fakeMediaRepo) CreateImage(ctx context.Context, image *entity.ListingImage) error {
	if image.ID == "" {
		image.ID = uuid.New().String()
	}
	r.images = append(r.images, image)
	return nil
}

func (r *fakeMediaRepo) CreateVideo(ctx context.Context, video *entity.ListingVideo) error {
	if video.ID == "" {
		video.ID = uuid.New().String()
	}
	r.videos = append(r.videos, video)
	return nil
}

func (r *fakeMediaRepo) ListImagesByListingID(ctx context.Context, listingID string) ([]*entity.ListingImage, error) {
	var images []*entity.ListingImage
	for _, image := range r.images {
		if image.ListingID == listingID {
			images = append(images, image)
		}
	}
	sort.Slice(images, func(i, j int) bool {
		return images[i].SortOrder < images[j].SortOrder
	})
	return images, nil
}

func (r *fakeMediaRepo) ListVideosByListingID(ctx context.Context, listingID string) ([]*entity.ListingVideo, error) {
	var videos []*entity.ListingVideo
	for _, video := range r.videos {
		if video.ListingID == listingID {
			videos = append(videos, video)
		}
	}
	return videos, nil
}

func (r *fakeMediaRepo) ClearPrimary(ctx context.Context, listingID string) error {
	for _, image := range r.images {
		if image.ListingID == listingID {
			image.IsPrimary = false
		}
	}
	return nil
}

func (r *fakeMediaRepo) SetPrimary(ctx context.Context, listingID, imageID string) error {
	for _, image := range r.images {
		if image.ID == imageID {
			image.IsPrimary = true
			return nil
		}
	}
	return errors.NotFound("Listing image", nil)
}

func (r *fakeMediaRepo) DeleteByListingID(ctx context.Context, listingID string) error {
	var keptImages []*entity.ListingImage
	for _, image := range r.images {
		if image.ListingID != listingID {
			keptImages = append(keptImages, image)
		}
	}
	r.images = keptImages

	var keptVideos []*entity.ListingVideo
	for _, video := range r.videos {
		if video.ListingID != listingID {
			keptVideos = append(keptVideos, video)
		}
	}
	r.videos = keptVideos
	return nil
}

type fakeChatRepo struct {
	chats   map[string]*entity.Chat
	listErr error
	creates int
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{chats: make(map[string]*entity.Chat)}
}

func (r *fakeChatRepo) Create(ctx context.Context, chat *entity.Chat) error {
	if chat.ID == "" {
		chat.ID = uuid.New().String()
	}
	chat.CreatedAt = time.Now()
	r.chats[chat.ID] = chat
	r.creates++
	return nil
}

func (r *fakeChatRepo) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	chat, ok := r.chats[id]
	if !ok {
		return nil, errors.NotFound("Chat", nil)
	}
	return chat, nil
}

func (r *fakeChatRepo) GetByKey(ctx context.Context, listingID, buyerID, sellerID string) (*entity.Chat, error) {
	for _, chat := range r.chats {
		if chat.ListingID == listingID && chat.BuyerID == buyerID && chat.SellerID == sellerID {
			return chat, nil
		}
	}
	return nil, errors.NotFound("Chat", nil)
}

func (r *fakeChatRepo) ListByUserID(ctx context.Context, userID string) ([]*entity.Chat, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var chats []*entity.Chat
	for _, chat := range r.chats {
		if chat.HasParticipant(userID) {
			chats = append(chats, chat)
		}
	}
	return chats, nil
}

func (r *fakeChatRepo) ListIDsByUserID(ctx context.Context, userID string) ([]string, error) {
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

type fakeMessageRepo struct {
	messages         []*entity.Message
	countUnreadCalls int
	countErr         error
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.CreatedAt = time.Now()
	r.messages = append(r.messages, message)
	return nil
}

func (r *fakeMessageRepo) ListByChatID(ctx context.Context, chatID string) ([]*entity.Message, error) {
	var messages []*entity.Message
	for _, message := range r.messages {
		if message.ChatID == chatID {
			messages = append(messages, message)
		}
	}
	return messages, nil
}

func (r *fakeMessageRepo) GetLastByChatID(ctx context.Context, chatID string) (*entity.Message, error) {
	for i := len(r.messages) - 1; i >= 0; i-- {
		if r.messages[i].ChatID == chatID {
			return r.messages[i], nil
		}
	}
	return nil, errors.NotFound("Message", nil)
}

func (r *fakeMessageRepo) CountUnread(ctx context.Context, chatIDs []string, userID string) (int64, error) {
	r.countUnreadCalls++
	if r.countErr != nil {
		return 0, r.countErr
	}

	inScope := make(map[string]struct{}, len(chatIDs))
	for _, id := range chatIDs {
		inScope[id] = struct{}{}
	}

	var count int64
	for _, message := range r.messages {
		if _, ok := inScope[message.ChatID]; !ok {
			continue
		}
		if message.SenderID != userID && !message.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeMessageRepo) CountUnreadByChatID(ctx context.Context, chatID, userID string) (int64, error) {
	return r.CountUnread(ctx, []string{chatID}, userID)
}

func (r *fakeMessageRepo) MarkReadByCounterparty(ctx context.Context, chatID, userID string) (int, error) {
	updated := 0
	for _, message := range r.messages {
		if message.ChatID == chatID && message.SenderID != userID && !message.IsRead {
			message.IsRead = true
			updated++
		}
	}
	return updated, nil
}

type fakeDealRepo struct {
	deals map[string]*entity.Deal
}

func newFakeDealRepo() *fakeDealRepo {
	return &fakeDealRepo{deals: make(map[string]*entity.Deal)}
}

func (r *fakeDealRepo) Create(ctx context.Context, deal *entity.Deal) error {
	if deal.ID == "" {
		deal.ID = uuid.New().String()
	}
	deal.CreatedAt = time.Now()
	r.deals[deal.ChatID] = deal
	return nil
}

func (r *fakeDealRepo) GetByChatID(ctx context.Context, chatID string) (*entity.Deal, error) {
	deal, ok := r.deals[chatID]
	if !ok {
		return nil, errors.NotFound("Deal", nil)
	}
	return deal, nil
}

type fakeReviewRepo struct {
	reviews []*entity.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{}
}

func (r *fakeReviewRepo) Create(ctx context.Context, review *entity.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	review.CreatedAt = time.Now()
	r.reviews = append(r.reviews, review)
	return nil
}

func (r *fakeReviewRepo) ListByListingID(ctx context.Context, listingID string) ([]*entity.Review, error) {
	var reviews []*entity.Review
	for _, review := range r.reviews {
		if review.ListingID == listingID {
			reviews = append(reviews, review)
		}
	}
	return reviews, nil
}

// fakeUploader returns deterministic URLs and can be told to fail after a
// number of successful uploads.
type fakeUploader struct {
	uploads   int
	failAfter int
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{failAfter: -1}
}

func (u *fakeUploader) UploadFile(ctx context.Context, file io.Reader, contentType, folder string) (string, error) {
	if u.failAfter >= 0 && u.uploads >= u.failAfter {
		return "", fmt.Errorf("upload failed")
	}
	u.uploads++
	return fmt.Sprintf("https://storage.example.com/%s/file-%d", folder, u.uploads), nil
}

// fakePusher records everything sent over the hub.
type fakePusher struct {
	mu         sync.Mutex
	toUser     map[string][][]byte
	broadcasts []string
}

func newFakePusher() *fakePusher {
	return &fakePusher{toUser: make(map[string][][]byte)}
}

func (p *fakePusher) SendToUser(userID string, message []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.toUser[userID] = append(p.toUser[userID], message)
}

func (p *fakePusher) BroadcastToChatRoom(chatID, eventID string, message []byte, excludeUserID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.broadcasts = append(p.broadcasts, eventID)
}
