package firebase

import (
	"context"
	"time"

	"firebase.google.com/go/v4/auth"
)

type FirebaseAuthClient struct {
	client *auth.Client
}

func NewFirebaseAuthClient(client *auth.Client) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client: client,
	}
}

// TokenInfo is the identity extracted from a verified ID token.
type TokenInfo struct {
	UID       string
	Email     string
	ExpiresAt time.Time
}

func (f *FirebaseAuthClient) VerifyToken(ctx context.Context, idToken string) (*TokenInfo, error) {
	result, err := f.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}

	email, _ := result.Claims["email"].(string)

	return &TokenInfo{
		UID:       result.UID,
		Email:     email,
		ExpiresAt: time.Unix(result.Expires, 0),
	}, nil
}

// SignOut revokes the user's refresh tokens. Existing ID tokens stay valid
// until they expire; revocation stops new sessions from being minted.
func (f *FirebaseAuthClient) SignOut(ctx context.Context, uid string) error {
	return f.client.RevokeRefreshTokens(ctx, uid)
}

func (f *FirebaseAuthClient) GetUserEmail(ctx context.Context, uid string) (string, error) {
	user, err := f.client.GetUser(ctx, uid)
	if err != nil {
		return "", err
	}

	return user.Email, nil
}
