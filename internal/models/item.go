package models

import "time"

// Item is a row of the items_public_v projection: an item with the labels
// of its type, rarity and material joined in.
type Item struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	ItemTypeID     int64     `json:"item_type_id"`
	ItemTypeSlug   string    `json:"item_type_slug"`
	ItemTypeLabel  string    `json:"item_type_label"`
	RarityID       int64     `json:"rarity_id"`
	RaritySlug     string    `json:"rarity_slug"`
	RarityLabel    string    `json:"rarity_label"`
	RarityColorHex *string   `json:"rarity_color_hex"`
	MaterialID     int64     `json:"material_id"`
	MaterialSlug   string    `json:"material_slug"`
	MaterialLabel  string    `json:"material_label"`
	Stars          int       `json:"stars"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	OwnerUserID    string    `json:"owner_user_id"`
	ImageURL       *string   `json:"image_url"`
}

// NewItem is a validated creation payload. Title and Description are
// trimmed, ImageURL is nil or a canonical https URL.
type NewItem struct {
	Title       string
	Description string
	ItemTypeID  int64
	RarityID    int64
	MaterialID  int64
	Stars       int
	ImageURL    *string
	OwnerUserID string
}

// Pagination is reported alongside every item page.
type Pagination struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// ItemPage is one window of a filtered listing.
type ItemPage struct {
	Items      []Item
	Pagination Pagination
}
