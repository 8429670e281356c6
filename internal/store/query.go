package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ayush/item-catalog/backend/internal/models"
)

const itemColumns = `id, title, description,
	item_type_id, item_type_slug, item_type_label,
	rarity_id, rarity_slug, rarity_label, rarity_color_hex,
	material_id, material_slug, material_label,
	stars, created_at, updated_at, owner_user_id, image_url`

// sortableColumns is checked again here so a bad SortOrder can never reach SQL.
var sortableColumns = map[string]bool{
	"created_at": true,
	"stars":      true,
	"title":      true,
}

type listStatement struct {
	countSQL  string
	countArgs []any
	pageSQL   string
	pageArgs  []any
}

// buildListSQL renders an ItemQuery as a count query and a page query that
// share the same WHERE clause. Every client value is a bind parameter.
func buildListSQL(q models.ItemQuery) (listStatement, error) {
	if !sortableColumns[q.Sort.Column] {
		return listStatement{}, fmt.Errorf("unsortable column %q", q.Sort.Column)
	}
	if q.Page < 1 || q.PageSize < 1 {
		return listStatement{}, fmt.Errorf("invalid page window %d/%d", q.Page, q.PageSize)
	}

	var (
		conds []string
		args  []any
	)
	bind := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if q.TypeSlug != "" {
		conds = append(conds, "item_type_slug = "+bind(q.TypeSlug))
	}
	if q.RaritySlug != "" {
		conds = append(conds, "rarity_slug = "+bind(q.RaritySlug))
	}
	if q.MaterialSlug != "" {
		conds = append(conds, "material_slug = "+bind(q.MaterialSlug))
	}
	if q.StarsMin != nil {
		conds = append(conds, "stars >= "+bind(*q.StarsMin))
	}
	if q.StarsMax != nil {
		conds = append(conds, "stars <= "+bind(*q.StarsMax))
	}
	if q.Search != "" {
		p := bind("%" + q.Search + "%")
		conds = append(conds, fmt.Sprintf("(title ILIKE %s OR description ILIKE %s)", p, p))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	dir := "ASC"
	if q.Sort.Descending {
		dir = "DESC"
	}

	countArgs := append([]any(nil), args...)
	limit := bind(q.Limit())
	offset := bind(q.Offset())

	return listStatement{
		countSQL:  "SELECT count(*) FROM items_public_v" + where,
		countArgs: countArgs,
		pageSQL: fmt.Sprintf("SELECT %s FROM items_public_v%s ORDER BY %s %s, id %s LIMIT %s OFFSET %s",
			itemColumns, where, q.Sort.Column, dir, dir, limit, offset),
		pageArgs: args,
	}, nil
}
