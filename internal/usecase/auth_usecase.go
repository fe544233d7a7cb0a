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

type AuthUseCase struct {
	authClient AuthClient
	userRepo   repository.UserRepository
	wsManager  EventPusher
}

func NewAuthUseCase(
	authClient AuthClient,
	userRepo repository.UserRepository,
	wsManager EventPusher,
) *AuthUseCase {
	return &AuthUseCase{
		authClient: authClient,
		userRepo:   userRepo,
		wsManager:  wsManager,
	}
}

// GetCurrentSession verifies the ID token and returns the session together
// with the profile row. A missing profile row is tolerated: the session is
// returned with the auth identity only, so callers are never stuck waiting on
// a profile that was never created.
func (uc *AuthUseCase) GetCurrentSession(ctx context.Context, idToken string) (*entity.Session, error) {
	token, err := uc.authClient.VerifyToken(ctx, idToken)
	if err != nil {
		return nil, errors.Unauthorized("Invalid or expired token", err)
	}

	session := &entity.Session{
		UserID:    token.UID,
		Email:     token.Email,
		ExpiresAt: token.ExpiresAt,
	}

	user, err := uc.userRepo.GetByID(ctx, token.UID)
	if err != nil {
		log.Printf("GetCurrentSession: profile lookup failed for %s: %v", token.UID, err)
		return session, nil
	}
	session.User = user

	return session, nil
}

// SignOut revokes the user's refresh tokens and notifies their live
// connections so other tabs republish their session state. It does not
// redirect; callers navigate afterward.
func (uc *AuthUseCase) SignOut(ctx context.Context, userID string) error {
	if err := uc.authClient.SignOut(ctx, userID); err != nil {
		return errors.Internal("Failed to sign out", err)
	}

	uc.pushSessionChanged(userID)
	return nil
}

func (uc *AuthUseCase) pushSessionChanged(userID string) {
	payload, err := json.Marshal(websocket.WSMessage{
		Type:      websocket.MessageTypeSessionChanged,
		Data:      map[string]string{"user_id": userID},
		Timestamp: time.Now().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("pushSessionChanged Error: %v", err)
		return
	}

	uc.wsManager.SendToUser(userID, payload)
}
