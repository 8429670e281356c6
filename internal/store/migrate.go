package store

import (
	"context"
	"fmt"
)

// schema is the development schema. Production databases are managed
// outside this service; the statements are idempotent so they can be
// applied on every start when auto_migrate is set.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS item_types (
		id    BIGSERIAL PRIMARY KEY,
		slug  TEXT UNIQUE NOT NULL,
		label TEXT NOT NULL,
		sort  INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS rarities (
		id        BIGSERIAL PRIMARY KEY,
		slug      TEXT UNIQUE NOT NULL,
		label     TEXT NOT NULL,
		sort      INTEGER NOT NULL DEFAULT 0,
		color_hex TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS materials (
		id    BIGSERIAL PRIMARY KEY,
		slug  TEXT UNIQUE NOT NULL,
		label TEXT NOT NULL,
		sort  INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS items (
		id            BIGSERIAL PRIMARY KEY,
		title         VARCHAR(200)  NOT NULL CHECK (btrim(title) <> ''),
		description   VARCHAR(2000) NOT NULL CHECK (btrim(description) <> ''),
		item_type_id  BIGINT NOT NULL REFERENCES item_types (id),
		rarity_id     BIGINT NOT NULL REFERENCES rarities (id),
		material_id   BIGINT NOT NULL REFERENCES materials (id),
		stars         SMALLINT NOT NULL DEFAULT 0 CHECK (stars BETWEEN 0 AND 5),
		owner_user_id TEXT NOT NULL,
		image_url     TEXT CHECK (image_url IS NULL OR image_url LIKE 'https://%'),
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS items_created_at_idx ON items (created_at DESC, id DESC)`,
	`CREATE TABLE IF NOT EXISTS user_profiles (
		user_id    TEXT PRIMARY KEY,
		username   VARCHAR(32),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE OR REPLACE VIEW items_public_v AS
	SELECT i.id, i.title, i.description,
		i.item_type_id, t.slug AS item_type_slug, t.label AS item_type_label,
		i.rarity_id, r.slug AS rarity_slug, r.label AS rarity_label, r.color_hex AS rarity_color_hex,
		i.material_id, m.slug AS material_slug, m.label AS material_label,
		i.stars::INTEGER AS stars, i.created_at, i.updated_at, i.owner_user_id, i.image_url
	FROM items i
	JOIN item_types t ON t.id = i.item_type_id
	JOIN rarities r ON r.id = i.rarity_id
	JOIN materials m ON m.id = i.material_id`,
}

// Migrate applies the development schema.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
