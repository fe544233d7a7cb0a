package entity

import "time"

type Review struct {
	ID         string    `json:"id" firestore:"id"`
	ListingID  string    `json:"listing_id" firestore:"listingId"`
	ReviewerID string    `json:"reviewer_id" firestore:"reviewerId"`
	Rating     int       `json:"rating" firestore:"rating"` // 1-5
	Text       string    `json:"text,omitempty" firestore:"text,omitempty"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
}
