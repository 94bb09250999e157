package catalog

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/quinworks/pricematch/internal/match"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=catalog
type Repository interface {
	ListItems(ctx context.Context) ([]*Item, error)
	CreateItems(ctx context.Context, items []*Item) error
	DeleteAllItems(ctx context.Context) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ImportParams is one row of an uploaded price list.
type ImportParams struct {
	Description string
	Rate        decimal.Decimal
	Unit        string
	Category    string
	Subcategory string
}

// List returns all catalog items in insertion order.
func (s *Service) List(ctx context.Context) ([]*Item, error) {
	return s.repo.ListItems(ctx)
}

// Import stores a batch of price-list rows. With replace set, the
// existing catalog is cleared first so the upload becomes the new
// price list. Returns the number of stored items.
func (s *Service) Import(ctx context.Context, params []ImportParams, replace bool) (int, error) {
	if len(params) == 0 {
		return 0, fmt.Errorf("no price list rows to import")
	}

	if replace {
		if err := s.repo.DeleteAllItems(ctx); err != nil {
			return 0, fmt.Errorf("clearing catalog: %w", err)
		}
	}

	items := make([]*Item, len(params))
	for i, p := range params {
		items[i] = &Item{
			Description: p.Description,
			Rate:        p.Rate,
			Unit:        p.Unit,
			Category:    p.Category,
			Subcategory: p.Subcategory,
		}
	}

	if err := s.repo.CreateItems(ctx, items); err != nil {
		return 0, fmt.Errorf("storing catalog items: %w", err)
	}

	return len(items), nil
}

// Records maps the stored catalog to the plain records the matching
// engine consumes. Filtering of unusable rows is the engine's concern.
func (s *Service) Records(ctx context.Context) ([]match.CatalogRecord, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	records := make([]match.CatalogRecord, len(items))
	for i, item := range items {
		records[i] = match.CatalogRecord{
			Description: item.Description,
			Rate:        item.Rate,
			Unit:        item.Unit,
			Category:    item.Category,
			Subcategory: item.Subcategory,
		}
	}

	return records, nil
}
