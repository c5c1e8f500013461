package service

import (
	"context"
	"errors"

	"github.com/segmentio/kafka-go"

	"discount-service/internal/entity"
)

var (
	ErrUnknownCatalog   = errors.New("unknown catalog")
	ErrDuplicateRequest = errors.New("idempotent key already exists")
	ErrStorageDisabled  = errors.New("storage is not configured")
	ErrInvalidPrice     = errors.New("invalid price entry")
)

// PriceStore is satisfied by *repository.PriceRepository.
type PriceStore interface {
	GetCatalog(ctx context.Context, name string) ([]entity.PriceEntry, error)
	ListCatalogNames(ctx context.Context) ([]string, error)
	UpsertPrice(ctx context.Context, entry *entity.PriceEntry) error
}

// ReceiptStore is satisfied by *repository.ReceiptRepository.
type ReceiptStore interface {
	CreateReceipt(ctx context.Context, receipt *entity.Receipt) (*entity.Receipt, error)
	GetReceiptByID(ctx context.Context, id string) (*entity.Receipt, error)
	DeleteReceipt(ctx context.Context, id string) error
}

// EventPublisher is satisfied by *kafka.Writer.
type EventPublisher interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}
