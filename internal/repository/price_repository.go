package repository

import (
	"context"
	"database/sql"

	"discount-service/internal/entity"
)

// PriceRepository handles the price lists stored in the database.
type PriceRepository struct {
	db *sql.DB
}

// NewPriceRepository creates a new instance of PriceRepository.
func NewPriceRepository(db *sql.DB) *PriceRepository {
	return &PriceRepository{db}
}

// GetCatalog fetches every price row of the named catalog, ordered by item.
// An unknown catalog yields an empty slice.
func (r *PriceRepository) GetCatalog(ctx context.Context, name string) ([]entity.PriceEntry, error) {
	query := `SELECT item_id, price FROM prices WHERE catalog_name = ? ORDER BY item_id`
	rows, err := r.db.QueryContext(ctx, query, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []entity.PriceEntry
	for rows.Next() {
		entry := entity.PriceEntry{CatalogName: name}
		if err := rows.Scan(&entry.ItemID, &entry.Price); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// ListCatalogNames returns the names of all stored catalogs.
func (r *PriceRepository) ListCatalogNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT catalog_name FROM prices ORDER BY catalog_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// UpsertPrice inserts a price row or replaces the price of an existing one.
func (r *PriceRepository) UpsertPrice(ctx context.Context, entry *entity.PriceEntry) error {
	query := `INSERT INTO prices (catalog_name, item_id, price) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE price = VALUES(price)`
	_, err := r.db.ExecContext(ctx, query, entry.CatalogName, entry.ItemID, entry.Price)
	return err
}
