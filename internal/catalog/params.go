package catalog

import (
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/ayush/item-catalog/backend/internal/apperr"
	"github.com/ayush/item-catalog/backend/internal/models"
	"github.com/ayush/item-catalog/backend/internal/validate"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	DefaultSort     = "newest"

	// MaxPage keeps (page-1)*page_size within an int for any page size.
	MaxPage = math.MaxInt/MaxPageSize + 1

	maxTitleLen       = 200
	maxDescriptionLen = 2000
)

// SortOrders is the whitelist of accepted sort keys.
var SortOrders = map[string]models.SortOrder{
	"newest":     {Column: "created_at", Descending: true},
	"oldest":     {Column: "created_at"},
	"stars_desc": {Column: "stars", Descending: true},
	"stars_asc":  {Column: "stars"},
	"title_asc":  {Column: "title"},
	"title_desc": {Column: "title", Descending: true},
}

var (
	searchMetaChars = regexp.MustCompile(`[\\%_,]`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
)

// SanitizeSearch blanks out pattern metacharacters and collapses
// whitespace. An empty result means no text filter.
func SanitizeSearch(raw string) string {
	s := searchMetaChars.ReplaceAllString(raw, " ")
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}

// ParseItemQuery turns listing query parameters into a bounded query.
// Empty parameters take their defaults.
func ParseItemQuery(params url.Values) (models.ItemQuery, error) {
	q := models.ItemQuery{Page: 1, PageSize: DefaultPageSize}

	if raw := params.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 || page > MaxPage {
			return models.ItemQuery{}, apperr.Validation("Invalid page parameter")
		}
		q.Page = page
	}
	if raw := params.Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 || size > MaxPageSize {
			return models.ItemQuery{}, apperr.Validation("Invalid page_size parameter")
		}
		q.PageSize = size
	}

	var err error
	if q.StarsMin, err = parseStars(params.Get("stars_min"), "Invalid stars_min parameter"); err != nil {
		return models.ItemQuery{}, err
	}
	if q.StarsMax, err = parseStars(params.Get("stars_max"), "Invalid stars_max parameter"); err != nil {
		return models.ItemQuery{}, err
	}
	if q.StarsMin != nil && q.StarsMax != nil && *q.StarsMin > *q.StarsMax {
		return models.ItemQuery{}, apperr.Validation("stars_min cannot be greater than stars_max")
	}

	sortKey := params.Get("sort")
	if sortKey == "" {
		sortKey = DefaultSort
	}
	order, ok := SortOrders[sortKey]
	if !ok {
		return models.ItemQuery{}, apperr.Validation("Invalid sort parameter")
	}
	q.Sort = order

	q.TypeSlug = params.Get("type")
	q.RaritySlug = params.Get("rarity")
	q.MaterialSlug = params.Get("material")
	q.Search = SanitizeSearch(params.Get("q"))
	return q, nil
}

func parseStars(raw, message string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > 5 {
		return nil, apperr.Validation(message)
	}
	return &n, nil
}

// ParseNewItem validates a creation payload field by field and stops at
// the first failure, in the order the fields are listed below.
func ParseNewItem(body map[string]any, ownerID string) (models.NewItem, error) {
	item := models.NewItem{OwnerUserID: ownerID}
	var err error

	if item.Title, err = validate.NonEmptyString("title", body["title"], maxTitleLen); err != nil {
		return models.NewItem{}, err
	}
	if item.Description, err = validate.NonEmptyString("description", body["description"], maxDescriptionLen); err != nil {
		return models.NewItem{}, err
	}
	if item.ItemTypeID, err = validate.PositiveInteger("item_type_id", body["item_type_id"]); err != nil {
		return models.NewItem{}, err
	}
	if item.RarityID, err = validate.PositiveInteger("rarity_id", body["rarity_id"]); err != nil {
		return models.NewItem{}, err
	}
	if item.MaterialID, err = validate.PositiveInteger("material_id", body["material_id"]); err != nil {
		return models.NewItem{}, err
	}
	if raw, ok := body["stars"]; ok {
		stars, err := validate.BoundedInteger("stars", raw, 0, 5)
		if err != nil {
			return models.NewItem{}, err
		}
		item.Stars = int(stars)
	}
	if item.ImageURL, err = validate.OptionalHTTPSURL("image_url", body["image_url"]); err != nil {
		return models.NewItem{}, err
	}
	return item, nil
}
