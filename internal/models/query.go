package models

// SortOrder is a whitelisted (column, direction) pair.
type SortOrder struct {
	Column     string
	Descending bool
}

// ItemQuery is a bounded listing request. Zero-valued filters are absent.
type ItemQuery struct {
	Page         int
	PageSize     int
	Sort         SortOrder
	TypeSlug     string
	RaritySlug   string
	MaterialSlug string
	StarsMin     *int
	StarsMax     *int
	// Search is already sanitized; empty means no text filter.
	Search string
}

// Offset is the zero-based index of the first row of the page.
func (q ItemQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// Limit is the number of rows in a full page.
func (q ItemQuery) Limit() int {
	return q.PageSize
}
