package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discount-service/internal/entity"
	"discount-service/internal/sharding"
)

func newShardedMock(t *testing.T) (*ReceiptRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewReceiptRepository([]*sql.DB{db}, sharding.NewShardRouter(1)), mock
}

func sampleReceipt() *entity.Receipt {
	return &entity.Receipt{
		ID:          "r-1",
		CatalogName: "1",
		Items:       []entity.ItemID{"A", "B", "C"},
		Applied: []entity.Application{
			{Rule: "pair-AB", Items: []entity.ItemID{"A", "B"}, Amount: 180.9},
		},
		Discounted: 180.9,
		Remainder:  102,
		Total:      282.9,
		Sold:       true,
		Display:    "Sold for 282.90",
		CreatedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestCreateReceipt(t *testing.T) {
	repo, mock := newShardedMock(t)
	receipt := sampleReceipt()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO receipts")).
		WithArgs("r-1", "1", `["A","B","C"]`, 180.9, 102.0, 282.9, true, "Sold for 282.90", receipt.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO receipt_applications")).
		WithArgs("r-1", "pair-AB", `["A","B"]`, 180.9).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	got, err := repo.CreateReceipt(context.Background(), receipt)

	require.NoError(t, err)
	assert.Same(t, receipt, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReceipt_NoApplications(t *testing.T) {
	repo, mock := newShardedMock(t)
	receipt := sampleReceipt()
	receipt.Applied = nil

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO receipts")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err := repo.CreateReceipt(context.Background(), receipt)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReceipt_RollsBackOnFailure(t *testing.T) {
	repo, mock := newShardedMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO receipts")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO receipt_applications")).WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	got, err := repo.CreateReceipt(context.Background(), sampleReceipt())

	assert.Nil(t, got)
	assert.EqualError(t, err, "boom")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetReceiptByID(t *testing.T) {
	repo, mock := newShardedMock(t)
	want := sampleReceipt()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, catalog_name, items")).
		WithArgs("r-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "catalog_name", "items", "discounted", "remainder", "total", "sold", "display", "created_at"}).
			AddRow("r-1", "1", `["A","B","C"]`, 180.9, 102.0, 282.9, true, "Sold for 282.90", want.CreatedAt))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT rule, items, amount FROM receipt_applications")).
		WithArgs("r-1").
		WillReturnRows(sqlmock.NewRows([]string{"rule", "items", "amount"}).
			AddRow("pair-AB", `["A","B"]`, 180.9))

	got, err := repo.GetReceiptByID(context.Background(), "r-1")

	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetReceiptByID_NotFound(t *testing.T) {
	repo, mock := newShardedMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, catalog_name, items")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	got, err := repo.GetReceiptByID(context.Background(), "missing")

	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrReceiptNotFound)
}

func TestDeleteReceipt(t *testing.T) {
	repo, mock := newShardedMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM receipt_applications")).WithArgs("r-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM receipts")).WithArgs("r-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteReceipt(context.Background(), "r-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteReceipt_NotFound(t *testing.T) {
	repo, mock := newShardedMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM receipt_applications")).WithArgs("nope").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM receipts")).WithArgs("nope").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	assert.ErrorIs(t, repo.DeleteReceipt(context.Background(), "nope"), ErrReceiptNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
