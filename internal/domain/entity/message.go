package entity

import "time"

const (
	MediaKindImage = "image"
	MediaKindVideo = "video"
)

type Message struct {
	ID       string `json:"id" firestore:"id"`
	ChatID   string `json:"chat_id" firestore:"chatId"`
	SenderID string `json:"sender_id" firestore:"senderId"`
	Text     string `json:"text,omitempty" firestore:"text,omitempty"`

	MediaURL  string `json:"media_url,omitempty" firestore:"mediaURL,omitempty"`
	MediaKind string `json:"media_kind,omitempty" firestore:"mediaKind,omitempty"` // "image" or "video"

	// IsRead only ever transitions false -> true, and only the recipient
	// flips it.
	IsRead bool `json:"is_read" firestore:"isRead"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}
