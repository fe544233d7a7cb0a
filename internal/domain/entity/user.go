package entity

import (
	"time"
)

type User struct {
	ID        string `json:"id" firestore:"id"`
	Email     string `json:"email" firestore:"email"`
	FullName  string `json:"full_name,omitempty" firestore:"fullName,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty" firestore:"avatarURL,omitempty"`
	Bio       string `json:"bio,omitempty" firestore:"bio,omitempty"`
	Campus    string `json:"campus,omitempty" firestore:"campus,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// Session pairs the verified auth identity with the profile row. The profile
// may be nil when the row is missing; callers must not treat that as a failed
// session.
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user,omitempty"`
}
