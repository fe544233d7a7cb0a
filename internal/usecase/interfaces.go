package usecase

import (
	"context"
	"io"
	"time"

	"unimarket/internal/infrastructure/firebase"
)

// AuthClient is the slice of the Firebase auth client the use cases need.
type AuthClient interface {
	VerifyToken(ctx context.Context, idToken string) (*firebase.TokenInfo, error)
	SignOut(ctx context.Context, uid string) error
	GetUserEmail(ctx context.Context, uid string) (string, error)
}

// MediaUploader uploads a file and returns its public URL.
type MediaUploader interface {
	UploadFile(ctx context.Context, file io.Reader, contentType, folder string) (string, error)
}

// EventPusher delivers realtime events to connected users and chat rooms.
type EventPusher interface {
	SendToUser(userID string, message []byte)
	BroadcastToChatRoom(chatID, eventID string, message []byte, excludeUserID string)
}

// ActionLimiter guards write actions per user.
type ActionLimiter interface {
	Allow(userID, action string) (bool, time.Duration)
}
