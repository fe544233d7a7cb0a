package entity

import "time"

// Deal marks a listing as sold to a specific buyer within a chat. At most one
// deal exists per chat; its presence is the terminal "sold" state.
type Deal struct {
	ID        string    `json:"id" firestore:"id"`
	ChatID    string    `json:"chat_id" firestore:"chatId"`
	ListingID string    `json:"listing_id" firestore:"listingId"`
	BuyerID   string    `json:"buyer_id" firestore:"buyerId"`
	SellerID  string    `json:"seller_id" firestore:"sellerId"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}
