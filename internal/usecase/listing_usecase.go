package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"unimarket/internal/domain/entity"
	"unimarket/internal/domain/repository"
	"unimarket/pkg/errors"
)

type ListingUseCase struct {
	listingRepo  repository.ListingRepository
	mediaRepo    repository.ListingMediaRepository
	categoryRepo repository.CategoryRepository
	reviewRepo   repository.ReviewRepository
	uploader     MediaUploader
	limiter      ActionLimiter
	relatedLimit int
}

func NewListingUseCase(
	listingRepo repository.ListingRepository,
	mediaRepo repository.ListingMediaRepository,
	categoryRepo repository.CategoryRepository,
	reviewRepo repository.ReviewRepository,
	uploader MediaUploader,
	limiter ActionLimiter,
	relatedLimit int,
) *ListingUseCase {
	if relatedLimit <= 0 {
		relatedLimit = 5
	}
	return &ListingUseCase{
		listingRepo:  listingRepo,
		mediaRepo:    mediaRepo,
		categoryRepo: categoryRepo,
		reviewRepo:   reviewRepo,
		uploader:     uploader,
		limiter:      limiter,
		relatedLimit: relatedLimit,
	}
}

type ListingInput struct {
	CategoryID  string                   `json:"category_id" validate:"required"`
	Title       string                   `json:"title" validate:"required,max=120"`
	Description string                   `json:"description" validate:"required,max=5000"`
	Price       float64                  `json:"price" validate:"gte=0"`
	Currency    string                   `json:"currency" validate:"omitempty,len=3"`
	Condition   string                   `json:"condition" validate:"required,oneof=new like_new good fair poor"`
	Negotiable  bool                     `json:"negotiable"`
	Attributes  entity.ListingAttributes `json:"attributes"`
}

// CreateListing runs the publish pipeline: eligibility gate, listing row
// insert, media uploads in selection order, media rows with the first image
// primary, then back-fill of the listing's convenience URL fields. If any
// step fails after the listing row exists, the row is deleted best-effort;
// already-uploaded media is not cleaned up and nothing retries.
func (uc *ListingUseCase) CreateListing(ctx context.Context, sellerID, sellerEmail string, input ListingInput, images, videos []MediaUpload) (*entity.Listing, error) {
	if !IsUniversityEmail(sellerEmail) {
		return nil, errors.Forbidden("Student account required. Please use a university email (not Gmail/Yahoo/Outlook)", nil)
	}

	if len(images) == 0 {
		return nil, errors.BadRequest("At least one image is required", nil)
	}
	for _, image := range images {
		if err := validateImageUpload(image, listingImageTypes, maxListingImageSize); err != nil {
			return nil, err
		}
	}
	for _, video := range videos {
		if err := validateVideoUpload(video, listingVideoTypes); err != nil {
			return nil, err
		}
	}

	if _, err := uc.categoryRepo.GetByID(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	if uc.limiter != nil {
		if allowed, wait := uc.limiter.Allow(sellerID, "create_listing"); !allowed {
			return nil, errors.TooManyRequests("Too many listings created, please slow down", wait)
		}
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	listing := &entity.Listing{
		SellerID:    sellerID,
		CategoryID:  input.CategoryID,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Currency:    currency,
		Condition:   input.Condition,
		Negotiable:  input.Negotiable,
		Attributes:  input.Attributes,
		Status:      "active",
	}
	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}

	imageURLs, err := uc.attachMedia(ctx, listing, images, videos)
	if err != nil {
		uc.rollbackListing(ctx, listing.ID)
		return nil, err
	}

	listing.ImageURL = imageURLs[0]
	listing.ImageURLs = imageURLs
	listing.UpdatedAt = time.Now()
	if err := uc.listingRepo.Update(ctx, listing); err != nil {
		uc.rollbackListing(ctx, listing.ID)
		return nil, err
	}

	return listing, nil
}

func (uc *ListingUseCase) attachMedia(ctx context.Context, listing *entity.Listing, images, videos []MediaUpload) ([]string, error) {
	folder := fmt.Sprintf("listing-images/%s/%s", listing.SellerID, listing.ID)

	imageURLs := make([]string, 0, len(images))
	for i, image := range images {
		url, err := uc.uploader.UploadFile(ctx, image.Reader, image.ContentType, folder)
		if err != nil {
			return nil, errors.Internal("Failed to upload image. Check the file and try again", err)
		}

		row := &entity.ListingImage{
			ListingID: listing.ID,
			ImageURL:  url,
			IsPrimary: i == 0,
			SortOrder: i,
		}
		if err := uc.mediaRepo.CreateImage(ctx, row); err != nil {
			return nil, err
		}

		imageURLs = append(imageURLs, url)
	}

	videoFolder := fmt.Sprintf("listing-videos/%s/%s", listing.SellerID, listing.ID)
	for i, video := range videos {
		url, err := uc.uploader.UploadFile(ctx, video.Reader, video.ContentType, videoFolder)
		if err != nil {
			return nil, errors.Internal("Failed to upload video. Check the file and try again", err)
		}

		row := &entity.ListingVideo{
			ListingID: listing.ID,
			VideoURL:  url,
			SortOrder: i,
		}
		if err := uc.mediaRepo.CreateVideo(ctx, row); err != nil {
			return nil, err
		}
	}

	return imageURLs, nil
}

func (uc *ListingUseCase) ownListing(ctx context.Context, sellerID, listingID string) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if listing.SellerID != sellerID {
		return nil, errors.Forbidden("You do not own this listing", nil)
	}

	return listing, nil
}

func (uc *ListingUseCase) rollbackListing(ctx context.Context, listingID string) {
	if err := uc.listingRepo.Delete(ctx, listingID); err != nil {
		log.Printf("CreateListing: rollback of listing %s failed: %v", listingID, err)
	}
}

// UpdateListing replaces the listing's editable fields. Seller-only.
func (uc *ListingUseCase) UpdateListing(ctx context.Context, sellerID, listingID string, input ListingInput) (*entity.Listing, error) {
	listing, err := uc.ownListing(ctx, sellerID, listingID)
	if err != nil {
		return nil, err
	}

	if _, err := uc.categoryRepo.GetByID(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	listing.CategoryID = input.CategoryID
	listing.Title = input.Title
	listing.Description = input.Description
	listing.Price = input.Price
	if input.Currency != "" {
		listing.Currency = input.Currency
	}
	listing.Condition = input.Condition
	listing.Negotiable = input.Negotiable
	listing.Attributes = input.Attributes
	listing.UpdatedAt = time.Now()

	if err := uc.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}

	return listing, nil
}

// DeleteListing removes the listing and its media rows. Seller-only. Stored
// objects are left behind; only the rows go.
func (uc *ListingUseCase) DeleteListing(ctx context.Context, sellerID, listingID string) error {
	if _, err := uc.ownListing(ctx, sellerID, listingID); err != nil {
		return err
	}

	if err := uc.mediaRepo.DeleteByListingID(ctx, listingID); err != nil {
		return err
	}

	return uc.listingRepo.Delete(ctx, listingID)
}

// SetPrimaryImage clears every primary flag on the listing before setting the
// chosen one, so at most one image is primary after any mutation.
func (uc *ListingUseCase) SetPrimaryImage(ctx context.Context, sellerID, listingID, imageID string) error {
	if _, err := uc.ownListing(ctx, sellerID, listingID); err != nil {
		return err
	}

	images, err := uc.mediaRepo.ListImagesByListingID(ctx, listingID)
	if err != nil {
		return err
	}

	found := false
	for _, image := range images {
		if image.ID == imageID {
			found = true
			break
		}
	}
	if !found {
		return errors.NotFound("Listing image", nil)
	}

	if err := uc.mediaRepo.ClearPrimary(ctx, listingID); err != nil {
		return err
	}

	return uc.mediaRepo.SetPrimary(ctx, listingID, imageID)
}

func (uc *ListingUseCase) ListBySeller(ctx context.Context, sellerID string) ([]*entity.Listing, error) {
	return uc.listingRepo.ListBySellerID(ctx, sellerID)
}

// Browse returns active listings newest first with the total count.
func (uc *ListingUseCase) Browse(ctx context.Context, page, limit int) ([]*entity.Listing, int64, error) {
	offset := (page - 1) * limit
	if offset < 0 {
		offset = 0
	}

	return uc.listingRepo.ListActive(ctx, limit, offset)
}

// ListingDetail is everything the listing page renders.
type ListingDetail struct {
	Listing *entity.Listing        `json:"listing"`
	Images  []*entity.ListingImage `json:"images"`
	Videos  []*entity.ListingVideo `json:"videos,omitempty"`
	Related []*entity.Listing      `json:"related"`
	Reviews []*entity.Review       `json:"reviews"`
	Summary *ReviewSummary         `json:"review_summary"`
}

// GetDetail loads the listing with its media, related listings from the same
// category, and its reviews. Related and review lookups degrade to empty on
// failure rather than breaking the page.
func (uc *ListingUseCase) GetDetail(ctx context.Context, listingID string) (*ListingDetail, error) {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	detail := &ListingDetail{Listing: listing}

	images, err := uc.mediaRepo.ListImagesByListingID(ctx, listingID)
	if err != nil {
		log.Printf("GetDetail: image lookup failed for listing %s: %v", listingID, err)
	}
	detail.Images = images

	videos, err := uc.mediaRepo.ListVideosByListingID(ctx, listingID)
	if err != nil {
		log.Printf("GetDetail: video lookup failed for listing %s: %v", listingID, err)
	}
	detail.Videos = videos

	related, err := uc.listingRepo.ListRelated(ctx, listing.CategoryID, listing.ID, uc.relatedLimit)
	if err != nil {
		log.Printf("GetDetail: related lookup failed for listing %s: %v", listingID, err)
		related = nil
	}
	detail.Related = related

	reviews, err := uc.reviewRepo.ListByListingID(ctx, listingID)
	if err != nil {
		log.Printf("GetDetail: review lookup failed for listing %s: %v", listingID, err)
		reviews = nil
	}
	detail.Reviews = reviews
	detail.Summary = SummarizeReviews(reviews)

	return detail, nil
}

func (uc *ListingUseCase) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	return uc.categoryRepo.ListActive(ctx)
}
