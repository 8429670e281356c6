package catalog

import (
	"context"

	"github.com/ayush/item-catalog/backend/internal/apperr"
	"github.com/ayush/item-catalog/backend/internal/models"
)

// Store is the catalog persistence the service reads and writes.
type Store interface {
	ListItems(ctx context.Context, q models.ItemQuery) (models.ItemPage, error)
	InsertItem(ctx context.Context, item models.NewItem) (int64, error)
	GetItem(ctx context.Context, id int64) (*models.Item, error)
	ListItemTypes(ctx context.Context) ([]models.Lookup, error)
	ListRarities(ctx context.Context) ([]models.Rarity, error)
	ListMaterials(ctx context.Context) ([]models.Lookup, error)
}

// Service runs catalog reads and the create-then-read-back pipeline.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns one page of matching items and the total match count.
func (s *Service) List(ctx context.Context, q models.ItemQuery) (models.ItemPage, error) {
	page, err := s.store.ListItems(ctx, q)
	if err != nil {
		return models.ItemPage{}, apperr.Upstream("Failed to fetch items", err)
	}
	if page.Items == nil {
		page.Items = []models.Item{}
	}
	return page, nil
}

// Created is the outcome of a successful insert. Item is nil when the
// read-back found no row, in which case only ID is known.
type Created struct {
	ID   int64
	Item *models.Item
}

// View is the representation returned to the client.
func (c Created) View() any {
	if c.Item != nil {
		return c.Item
	}
	return map[string]int64{"id": c.ID}
}

// Create inserts item and re-reads it through the listing projection.
// The two calls are not transactional: if the read-back fails the row
// still exists and the caller gets an upstream error.
func (s *Service) Create(ctx context.Context, item models.NewItem) (Created, error) {
	id, err := s.store.InsertItem(ctx, item)
	if err != nil {
		return Created{}, apperr.Upstream("Failed to create item", err)
	}
	stored, err := s.store.GetItem(ctx, id)
	if err != nil {
		return Created{}, apperr.Upstream("Failed to load created item", err)
	}
	return Created{ID: id, Item: stored}, nil
}

// LookupKind names a reference table without extra columns.
type LookupKind int

const (
	ItemTypes LookupKind = iota
	Materials
)

// Lookups lists one reference table ordered by (sort, id).
func (s *Service) Lookups(ctx context.Context, kind LookupKind) ([]models.Lookup, error) {
	var (
		rows    []models.Lookup
		err     error
		message string
	)
	switch kind {
	case Materials:
		rows, err = s.store.ListMaterials(ctx)
		message = "Failed to fetch materials"
	default:
		rows, err = s.store.ListItemTypes(ctx)
		message = "Failed to fetch item types"
	}
	if err != nil {
		return nil, apperr.Upstream(message, err)
	}
	if rows == nil {
		rows = []models.Lookup{}
	}
	return rows, nil
}

// Rarities lists the rarities with their colors ordered by (sort, id).
func (s *Service) Rarities(ctx context.Context) ([]models.Rarity, error) {
	rows, err := s.store.ListRarities(ctx)
	if err != nil {
		return nil, apperr.Upstream("Failed to fetch rarities", err)
	}
	if rows == nil {
		rows = []models.Rarity{}
	}
	return rows, nil
}
