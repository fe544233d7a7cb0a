package entity

import "time"

// Chat is a two-party buyer/seller conversation scoped to one listing.
// Buyer and seller are always distinct users.
type Chat struct {
	ID        string    `json:"id" firestore:"id"`
	ListingID string    `json:"listing_id" firestore:"listingId"`
	BuyerID   string    `json:"buyer_id" firestore:"buyerId"`
	SellerID  string    `json:"seller_id" firestore:"sellerId"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

// OtherParticipant returns the counterparty for userID, or "" when userID is
// not a participant.
func (c *Chat) OtherParticipant(userID string) string {
	switch userID {
	case c.BuyerID:
		return c.SellerID
	case c.SellerID:
		return c.BuyerID
	}
	return ""
}

func (c *Chat) HasParticipant(userID string) bool {
	return userID == c.BuyerID || userID == c.SellerID
}
