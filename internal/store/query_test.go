package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/item-catalog/backend/internal/models"
)

func intPtr(n int) *int { return &n }

func TestBuildListSQLNoFilters(t *testing.T) {
	stmt, err := buildListSQL(models.ItemQuery{
		Page:     1,
		PageSize: 20,
		Sort:     models.SortOrder{Column: "created_at", Descending: true},
	})
	require.NoError(t, err)

	assert.Equal(t, "SELECT count(*) FROM items_public_v", stmt.countSQL)
	assert.Empty(t, stmt.countArgs)
	assert.Contains(t, stmt.pageSQL, "FROM items_public_v ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2")
	assert.NotContains(t, stmt.pageSQL, "WHERE")
	assert.Equal(t, []any{20, 0}, stmt.pageArgs)
}

func TestBuildListSQLAllFilters(t *testing.T) {
	stmt, err := buildListSQL(models.ItemQuery{
		Page:         3,
		PageSize:     10,
		Sort:         models.SortOrder{Column: "title"},
		TypeSlug:     "weapon",
		RaritySlug:   "legendary",
		MaterialSlug: "steel",
		StarsMin:     intPtr(2),
		StarsMax:     intPtr(4),
		Search:       "50 off deal",
	})
	require.NoError(t, err)

	wantWhere := " WHERE item_type_slug = $1 AND rarity_slug = $2 AND material_slug = $3" +
		" AND stars >= $4 AND stars <= $5 AND (title ILIKE $6 OR description ILIKE $6)"
	assert.Equal(t, "SELECT count(*) FROM items_public_v"+wantWhere, stmt.countSQL)
	assert.Equal(t, []any{"weapon", "legendary", "steel", 2, 4, "%50 off deal%"}, stmt.countArgs)

	assert.Contains(t, stmt.pageSQL, wantWhere+" ORDER BY title ASC, id ASC LIMIT $7 OFFSET $8")
	assert.Equal(t, []any{"weapon", "legendary", "steel", 2, 4, "%50 off deal%", 10, 20}, stmt.pageArgs)
}

func TestBuildListSQLWindow(t *testing.T) {
	for page, wantOffset := range map[int]int{1: 0, 2: 25, 5: 100} {
		stmt, err := buildListSQL(models.ItemQuery{
			Page:     page,
			PageSize: 25,
			Sort:     models.SortOrder{Column: "stars", Descending: true},
		})
		require.NoError(t, err)
		assert.Equal(t, []any{25, wantOffset}, stmt.pageArgs)
	}
}

func TestBuildListSQLRejectsUnknownColumn(t *testing.T) {
	_, err := buildListSQL(models.ItemQuery{
		Page:     1,
		PageSize: 20,
		Sort:     models.SortOrder{Column: "owner_user_id; DROP TABLE items"},
	})
	require.Error(t, err)
}

func TestBuildListSQLRejectsEmptyWindow(t *testing.T) {
	_, err := buildListSQL(models.ItemQuery{Sort: models.SortOrder{Column: "stars"}})
	require.Error(t, err)
}
