package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ayush/item-catalog/backend/internal/models"
)

// DB is the subset of *pgxpool.Pool the store needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// PostgresStore reads the catalog projection and writes items and profiles.
type PostgresStore struct {
	db DB
}

func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// ListItems runs the count and the page query in one round trip.
func (s *PostgresStore) ListItems(ctx context.Context, q models.ItemQuery) (models.ItemPage, error) {
	stmt, err := buildListSQL(q)
	if err != nil {
		return models.ItemPage{}, err
	}

	batch := &pgx.Batch{}
	batch.Queue(stmt.countSQL, stmt.countArgs...)
	batch.Queue(stmt.pageSQL, stmt.pageArgs...)

	br := s.db.SendBatch(ctx, batch)
	defer br.Close()

	var total int64
	if err := br.QueryRow().Scan(&total); err != nil {
		return models.ItemPage{}, fmt.Errorf("count items: %w", err)
	}

	rows, err := br.Query()
	if err != nil {
		return models.ItemPage{}, fmt.Errorf("list items: %w", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Item, error) {
		return scanItem(row)
	})
	if err != nil {
		return models.ItemPage{}, fmt.Errorf("scan items: %w", err)
	}

	return models.ItemPage{
		Items: items,
		Pagination: models.Pagination{
			Total:    total,
			Page:     q.Page,
			PageSize: q.PageSize,
		},
	}, nil
}

// InsertItem writes one item and returns its new id.
func (s *PostgresStore) InsertItem(ctx context.Context, item models.NewItem) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx,
		`INSERT INTO items (title, description, item_type_id, rarity_id, material_id, stars, owner_user_id, image_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		item.Title, item.Description, item.ItemTypeID, item.RarityID, item.MaterialID,
		item.Stars, item.OwnerUserID, item.ImageURL,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert item: %w", err)
	}
	return id, nil
}

// GetItem reads one item through the projection. A missing row is (nil, nil).
func (s *PostgresStore) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	row := s.db.QueryRow(ctx, `SELECT `+itemColumns+` FROM items_public_v WHERE id = $1`, id)
	item, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item %d: %w", id, err)
	}
	return &item, nil
}

func (s *PostgresStore) ListItemTypes(ctx context.Context) ([]models.Lookup, error) {
	return s.listLookups(ctx, "item_types")
}

func (s *PostgresStore) ListMaterials(ctx context.Context) ([]models.Lookup, error) {
	return s.listLookups(ctx, "materials")
}

// listLookups is only called with the fixed table names above.
func (s *PostgresStore) listLookups(ctx context.Context, table string) ([]models.Lookup, error) {
	rows, err := s.db.Query(ctx, fmt.Sprintf(`SELECT id, slug, label, sort FROM %s ORDER BY sort ASC, id ASC`, table))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	lookups, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Lookup, error) {
		var l models.Lookup
		err := row.Scan(&l.ID, &l.Slug, &l.Label, &l.Sort)
		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", table, err)
	}
	return lookups, nil
}

func (s *PostgresStore) ListRarities(ctx context.Context) ([]models.Rarity, error) {
	rows, err := s.db.Query(ctx, `SELECT id, slug, label, sort, color_hex FROM rarities ORDER BY sort ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list rarities: %w", err)
	}
	rarities, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Rarity, error) {
		var r models.Rarity
		err := row.Scan(&r.ID, &r.Slug, &r.Label, &r.Sort, &r.ColorHex)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan rarities: %w", err)
	}
	return rarities, nil
}

// GetProfile returns the profile of userID or (nil, nil) if there is none.
func (s *PostgresStore) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	var p models.UserProfile
	err := s.db.QueryRow(ctx,
		`SELECT user_id, username, created_at FROM user_profiles WHERE user_id = $1`, userID,
	).Scan(&p.UserID, &p.Username, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

// UpsertProfile creates or replaces the profile keyed by userID.
func (s *PostgresStore) UpsertProfile(ctx context.Context, userID string, username *string) (*models.UserProfile, error) {
	var p models.UserProfile
	err := s.db.QueryRow(ctx,
		`INSERT INTO user_profiles (user_id, username)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET username = EXCLUDED.username
		 RETURNING user_id, username, created_at`,
		userID, username,
	).Scan(&p.UserID, &p.Username, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return &p, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (models.Item, error) {
	var it models.Item
	err := row.Scan(
		&it.ID, &it.Title, &it.Description,
		&it.ItemTypeID, &it.ItemTypeSlug, &it.ItemTypeLabel,
		&it.RarityID, &it.RaritySlug, &it.RarityLabel, &it.RarityColorHex,
		&it.MaterialID, &it.MaterialSlug, &it.MaterialLabel,
		&it.Stars, &it.CreatedAt, &it.UpdatedAt, &it.OwnerUserID, &it.ImageURL,
	)
	return it, err
}
