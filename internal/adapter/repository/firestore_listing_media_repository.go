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

type firestoreListingMediaRepository struct {
	client *firestore.Client
}

func NewFirestoreListingMediaRepository(client *firestore.Client) repository.ListingMediaRepository {
	return &firestoreListingMediaRepository{
		client: client,
	}
}

func (r *firestoreListingMediaRepository) CreateImage(ctx context.Context, image *entity.ListingImage) error {
	if image.ID == "" {
		image.ID = uuid.New().String()
	}
	image.CreatedAt = time.Now()

	_, err := r.client.Collection("listing_images").Doc(image.ID).Set(ctx, image)
	if err != nil {
		return errors.Internal("Failed to create listing image", err)
	}

	return nil
}

func (r *firestoreListingMediaRepository) CreateVideo(ctx context.Context, video *entity.ListingVideo) error {
	if video.ID == "" {
		video.ID = uuid.New().String()
	}
	video.CreatedAt = time.Now()

	_, err := r.client.Collection("listing_videos").Doc(video.ID).Set(ctx, video)
	if err != nil {
		return errors.Internal("Failed to create listing video", err)
	}

	return nil
}

func (r *firestoreListingMediaRepository) ListImagesByListingID(ctx context.Context, listingID string) ([]*entity.ListingImage, error) {
	iter := r.client.Collection("listing_images").
		Where("listingId", "==", listingID).
		OrderBy("sortOrder", firestore.Asc).
		Documents(ctx)

	var images []*entity.ListingImage
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate listing images", err)
		}

		var image entity.ListingImage
		if err := doc.DataTo(&image); err != nil {
			return nil, errors.Internal("Failed to parse listing image data", err)
		}

		images = append(images, &image)
	}

	return images, nil
}

func (r *firestoreListingMediaRepository) ListVideosByListingID(ctx context.Context, listingID string) ([]*entity.ListingVideo, error) {
	iter := r.client.Collection("listing_videos").
		Where("listingId", "==", listingID).
		OrderBy("sortOrder", firestore.Asc).
		Documents(ctx)

	var videos []*entity.ListingVideo
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate listing videos", err)
		}

		var video entity.ListingVideo
		if err := doc.DataTo(&video); err != nil {
			return nil, errors.Internal("Failed to parse listing video data", err)
		}

		videos = append(videos, &video)
	}

	return videos, nil
}

func (r *firestoreListingMediaRepository) ClearPrimary(ctx context.Context, listingID string) error {
	iter := r.client.Collection("listing_images").
		Where("listingId", "==", listingID).
		Where("isPrimary", "==", true).
		Documents(ctx)

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return errors.Internal("Failed to iterate primary images", err)
		}

		_, err = doc.Ref.Update(ctx, []firestore.Update{
			{Path: "isPrimary", Value: false},
		})
		if err != nil {
			return errors.Internal("Failed to clear primary flag", err)
		}
	}

	return nil
}

func (r *firestoreListingMediaRepository) SetPrimary(ctx context.Context, listingID, imageID string) error {
	_, err := r.client.Collection("listing_images").Doc(imageID).Update(ctx, []firestore.Update{
		{Path: "isPrimary", Value: true},
	})
	if err != nil {
		return errors.Internal("Failed to set primary flag", err)
	}

	return nil
}

func (r *firestoreListingMediaRepository) DeleteByListingID(ctx context.Context, listingID string) error {
	for _, collection := range []string{"listing_images", "listing_videos"} {
		iter := r.client.Collection(collection).
			Where("listingId", "==", listingID).
			Documents(ctx)

		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return errors.Internal("Failed to iterate listing media", err)
			}

			if _, err := doc.Ref.Delete(ctx); err != nil {
				return errors.Internal("Failed to delete listing media", err)
			}
		}
	}

	return nil
}
