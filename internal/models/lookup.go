package models

// Lookup is a row of an immutable reference table (item_types, materials).
type Lookup struct {
	ID    int64  `json:"id"`
	Slug  string `json:"slug"`
	Label string `json:"label"`
	Sort  int    `json:"sort"`
}

// Rarity is a lookup row with a display color. ColorHex is null when the
// rarity has no color.
type Rarity struct {
	Lookup
	ColorHex *string `json:"color_hex"`
}
