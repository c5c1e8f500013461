package migrations

import (
	"context"
	"database/sql"
	"time"

	"discount-service/internal/catalog"
)

func execWithRetries(query string, retries int, dbs ...*sql.DB) error {
	var lastErr error
	for _, db := range dbs {
		_, err := db.Exec(query)
		if err != nil {
			// Retry creating the table
			for i := 0; i < retries; i++ {
				time.Sleep(1 * time.Second)
				_, err = db.Exec(query)
				if err == nil {
					break
				}
			}
		}
		if err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// AutoMigratePrices creates the prices table if it does not exist.
func AutoMigratePrices(retries int, dbs ...*sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS prices (
			catalog_name VARCHAR(64) NOT NULL,
			item_id VARCHAR(32) NOT NULL,
			price DOUBLE NOT NULL,
			PRIMARY KEY (catalog_name, item_id)
		);
	`
	return execWithRetries(query, retries, dbs...)
}

// AutoMigrateReceipts creates the receipts table if it does not exist.
func AutoMigrateReceipts(retries int, dbs ...*sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS receipts (
			id VARCHAR(36) PRIMARY KEY,
			catalog_name VARCHAR(64) NOT NULL,
			items TEXT NOT NULL,
			discounted DOUBLE NOT NULL,
			remainder DOUBLE NOT NULL,
			total DOUBLE NOT NULL,
			sold BOOLEAN NOT NULL,
			display VARCHAR(64) NOT NULL,
			created_at DATETIME NOT NULL
		);
	`
	return execWithRetries(query, retries, dbs...)
}

// AutoMigrateApplications creates the receipt_applications table if it does not exist.
func AutoMigrateApplications(retries int, dbs ...*sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS receipt_applications (
			id INT AUTO_INCREMENT PRIMARY KEY,
			receipt_id VARCHAR(36) NOT NULL,
			rule VARCHAR(64) NOT NULL,
			items TEXT NOT NULL,
			amount DOUBLE NOT NULL,
			FOREIGN KEY (receipt_id) REFERENCES receipts(id) ON DELETE CASCADE
		);
	`
	return execWithRetries(query, retries, dbs...)
}

// SeedReferenceCatalogs stores the two built-in price lists, keeping any
// prices already present.
func SeedReferenceCatalogs(ctx context.Context, db *sql.DB) error {
	query := `INSERT IGNORE INTO prices (catalog_name, item_id, price) VALUES (?, ?, ?)`
	for _, c := range []*catalog.Static{catalog.PriceList1, catalog.PriceList2} {
		for _, entry := range c.Entries() {
			if _, err := db.ExecContext(ctx, query, entry.CatalogName, entry.ItemID, entry.Price); err != nil {
				return err
			}
		}
	}
	return nil
}
