package usecase

import (
	"fmt"
	"io"

	"unimarket/pkg/errors"
)

// Chat media limits are deliberately looser than the listing-image limit.
const (
	maxListingImageSize = 2 * 1024 * 1024
	maxChatImageSize    = 6 * 1024 * 1024
	maxVideoSize        = 20 * 1024 * 1024
)

var listingImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

var listingVideoTypes = map[string]struct{}{
	"video/mp4": {},
}

var chatImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

var chatVideoTypes = map[string]struct{}{
	"video/mp4":       {},
	"video/webm":      {},
	"video/quicktime": {},
}

// MediaUpload is one file handed to an upload flow.
type MediaUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

func validateImageUpload(upload MediaUpload, allowed map[string]struct{}, maxSize int64) error {
	if _, ok := allowed[upload.ContentType]; !ok {
		return errors.BadRequest(fmt.Sprintf("Unsupported image type: %s", upload.ContentType), nil)
	}
	if upload.Size > maxSize {
		return errors.BadRequest(fmt.Sprintf("Each image must be <= %dMB", maxSize/(1024*1024)), nil)
	}
	return nil
}

func validateVideoUpload(upload MediaUpload, allowed map[string]struct{}) error {
	if _, ok := allowed[upload.ContentType]; !ok {
		return errors.BadRequest(fmt.Sprintf("Unsupported video type: %s", upload.ContentType), nil)
	}
	if upload.Size > maxVideoSize {
		return errors.BadRequest(fmt.Sprintf("Each video must be <= %dMB", maxVideoSize/(1024*1024)), nil)
	}
	return nil
}

func isVideoType(contentType string) bool {
	_, ok := chatVideoTypes[contentType]
	return ok
}
