package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/quinworks/pricematch/internal/catalog"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanItem reads a price item row.
// Expected column order: id, description, rate, unit, category, subcategory, created_at
func scanItem(s scanner) (*catalog.Item, error) {
	var item catalog.Item

	var unit, cat, sub sql.NullString

	if err := s.Scan(
		&item.ID, &item.Description, &item.Rate,
		&unit, &cat, &sub, &item.CreatedAt,
	); err != nil {
		return nil, err
	}

	item.Unit = unit.String
	item.Category = cat.String
	item.Subcategory = sub.String

	return &item, nil
}

func (s *Store) ListItems(ctx context.Context) ([]*catalog.Item, error) {
	query := `
		SELECT id, description, rate, unit, category, subcategory, created_at
		FROM price_items
		ORDER BY id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing price items: %w", err)
	}
	defer rows.Close()

	var items []*catalog.Item

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning price item: %w", err)
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating price items: %w", err)
	}

	return items, nil
}

func (s *Store) CreateItems(ctx context.Context, items []*catalog.Item) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning import tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO price_items (description, rate, unit, category, subcategory, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`

	for _, item := range items {
		err := tx.QueryRowContext(ctx, query,
			item.Description,
			item.Rate,
			nullable(item.Unit),
			nullable(item.Category),
			nullable(item.Subcategory),
		).Scan(&item.ID, &item.CreatedAt)
		if err != nil {
			return fmt.Errorf("creating price item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing import: %w", err)
	}

	return nil
}

func (s *Store) DeleteAllItems(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM price_items`); err != nil {
		return fmt.Errorf("deleting price items: %w", err)
	}

	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
