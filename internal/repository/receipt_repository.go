package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"discount-service/internal/entity"
	"discount-service/internal/sharding"
)

var ErrReceiptNotFound = errors.New("receipt not found")

type ReceiptRepository struct {
	dbShards []*sql.DB
	router   *sharding.ShardRouter
}

func NewReceiptRepository(dbShards []*sql.DB, router *sharding.ShardRouter) *ReceiptRepository {
	return &ReceiptRepository{dbShards, router}
}

func (r *ReceiptRepository) shard(id string) *sql.DB {
	return r.dbShards[r.router.GetShard(id)]
}

func (r *ReceiptRepository) GetReceiptByID(ctx context.Context, id string) (*entity.Receipt, error) {
	receiptQuery := `SELECT id, catalog_name, items, discounted, remainder, total, sold, display, created_at FROM receipts WHERE id = ?`
	applicationQuery := `SELECT rule, items, amount FROM receipt_applications WHERE receipt_id = ? ORDER BY id`

	db := r.shard(id)

	receipt := &entity.Receipt{}
	var items string
	err := db.QueryRowContext(ctx, receiptQuery, id).Scan(&receipt.ID, &receipt.CatalogName, &items, &receipt.Discounted, &receipt.Remainder, &receipt.Total, &receipt.Sold, &receipt.Display, &receipt.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReceiptNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal([]byte(items), &receipt.Items); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, applicationQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		application := entity.Application{}
		var applied string
		if err := rows.Scan(&application.Rule, &applied, &application.Amount); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(applied), &application.Items); err != nil {
			return nil, err
		}
		receipt.Applied = append(receipt.Applied, application)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return receipt, nil
}

func (r *ReceiptRepository) CreateReceipt(ctx context.Context, receipt *entity.Receipt) (*entity.Receipt, error) {
	db := r.shard(receipt.ID)

	items, err := json.Marshal(receipt.Items)
	if err != nil {
		return nil, err
	}

	// Start a transaction
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	receiptQuery := `INSERT INTO receipts (id, catalog_name, items, discounted, remainder, total, sold, display, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, receiptQuery, receipt.ID, receipt.CatalogName, string(items), receipt.Discounted, receipt.Remainder, receipt.Total, receipt.Sold, receipt.Display, receipt.CreatedAt)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if len(receipt.Applied) > 0 {
		// Insert applications with batch
		applicationQuery := `
		INSERT INTO receipt_applications (receipt_id, rule, items, amount)
		VALUES `

		var values []interface{}
		for _, application := range receipt.Applied {
			applied, err := json.Marshal(application.Items)
			if err != nil {
				tx.Rollback()
				return nil, err
			}
			applicationQuery += "(?, ?, ?, ?),"
			values = append(values, receipt.ID, application.Rule, string(applied), application.Amount)
		}

		// Remove the trailing comma
		applicationQuery = applicationQuery[:len(applicationQuery)-1]

		_, err = tx.ExecContext(ctx, applicationQuery, values...)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return receipt, nil
}

func (r *ReceiptRepository) DeleteReceipt(ctx context.Context, id string) error {
	db := r.shard(id)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM receipt_applications WHERE receipt_id = ?`, id)
	if err != nil {
		tx.Rollback()
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM receipts WHERE id = ?`, id)
	if err != nil {
		tx.Rollback()
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		tx.Rollback()
		return ErrReceiptNotFound
	}

	return tx.Commit()
}
