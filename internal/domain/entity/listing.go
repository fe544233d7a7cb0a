package entity

import (
	"time"
)

// ListingAttributes is the closed set of category-specific optional fields.
// Everything is a free-form string filled in by the seller; fields that do not
// apply to the category stay empty. Other catches anything the fixed fields
// don't cover.
type ListingAttributes struct {
	// General
	Brand      string `json:"brand,omitempty" firestore:"brand,omitempty"`
	Model      string `json:"model,omitempty" firestore:"model,omitempty"`
	Color      string `json:"color,omitempty" firestore:"color,omitempty"`
	Size       string `json:"size,omitempty" firestore:"size,omitempty"`
	Material   string `json:"material,omitempty" firestore:"material,omitempty"`
	Weight     string `json:"weight,omitempty" firestore:"weight,omitempty"`
	Dimensions string `json:"dimensions,omitempty" firestore:"dimensions,omitempty"`
	Warranty   string `json:"warranty,omitempty" firestore:"warranty,omitempty"`
	Year       string `json:"year,omitempty" firestore:"year,omitempty"`
	Quantity   string `json:"quantity,omitempty" firestore:"quantity,omitempty"`

	// Electronics
	Storage    string `json:"storage,omitempty" firestore:"storage,omitempty"`
	RAM        string `json:"ram,omitempty" firestore:"ram,omitempty"`
	Processor  string `json:"processor,omitempty" firestore:"processor,omitempty"`
	ScreenSize string `json:"screen_size,omitempty" firestore:"screenSize,omitempty"`
	Battery    string `json:"battery,omitempty" firestore:"battery,omitempty"`

	// Clothing
	Fabric  string `json:"fabric,omitempty" firestore:"fabric,omitempty"`
	FitType string `json:"fit_type,omitempty" firestore:"fitType,omitempty"`
	Gender  string `json:"gender,omitempty" firestore:"gender,omitempty"`

	// Books
	Author    string `json:"author,omitempty" firestore:"author,omitempty"`
	ISBN      string `json:"isbn,omitempty" firestore:"isbn,omitempty"`
	Publisher string `json:"publisher,omitempty" firestore:"publisher,omitempty"`
	Edition   string `json:"edition,omitempty" firestore:"edition,omitempty"`
	Language  string `json:"language,omitempty" firestore:"language,omitempty"`

	// Furniture
	AssemblyRequired string `json:"assembly_required,omitempty" firestore:"assemblyRequired,omitempty"`

	Other map[string]string `json:"other,omitempty" firestore:"other,omitempty"`
}

type Listing struct {
	ID          string            `json:"id" firestore:"id"`
	SellerID    string            `json:"seller_id" firestore:"sellerId"`
	CategoryID  string            `json:"category_id" firestore:"categoryId"`
	Title       string            `json:"title" firestore:"title"`
	Description string            `json:"description" firestore:"description"`
	Price       float64           `json:"price" firestore:"price"`
	Currency    string            `json:"currency" firestore:"currency"`
	Condition   string            `json:"condition" firestore:"condition"`
	Negotiable  bool              `json:"negotiable" firestore:"negotiable"`
	Attributes  ListingAttributes `json:"attributes" firestore:"attributes"`
	Status      string            `json:"status" firestore:"status"` // "active", "sold", "archived"

	// Convenience fields back-filled after media upload so list views don't
	// need a second query.
	ImageURL  string   `json:"image_url,omitempty" firestore:"imageURL,omitempty"`
	ImageURLs []string `json:"image_urls,omitempty" firestore:"imageURLs,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

type ListingImage struct {
	ID        string    `json:"id" firestore:"id"`
	ListingID string    `json:"listing_id" firestore:"listingId"`
	ImageURL  string    `json:"image_url" firestore:"imageURL"`
	IsPrimary bool      `json:"is_primary" firestore:"isPrimary"`
	SortOrder int       `json:"sort_order" firestore:"sortOrder"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

type ListingVideo struct {
	ID        string    `json:"id" firestore:"id"`
	ListingID string    `json:"listing_id" firestore:"listingId"`
	VideoURL  string    `json:"video_url" firestore:"videoURL"`
	SortOrder int       `json:"sort_order" firestore:"sortOrder"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}
