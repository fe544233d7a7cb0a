package entity

import "time"

type Category struct {
	ID        string    `json:"id" firestore:"id"`
	Name      string    `json:"name" firestore:"name"`
	SortOrder int       `json:"sort_order" firestore:"sortOrder"`
	IsActive  bool      `json:"is_active" firestore:"isActive"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}
