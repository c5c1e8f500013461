package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"discount-service/internal/basket"
	"discount-service/internal/checkout"
	"discount-service/internal/discount"
	"discount-service/internal/entity"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

const idempotentKeyTTL = 24 * time.Hour

// CheckoutService prices requests against the discount chain.
type CheckoutService struct {
	catalogs  *CatalogService
	chain     *discount.Chain
	receipts  ReceiptStore
	publisher EventPublisher
	rdb       *redis.Client

	now   func() time.Time
	newID func() string
}

// NewCheckoutService creates a new instance of CheckoutService. receipts,
// publisher and rdb are optional; a nil value skips persistence, event
// publishing and idempotency checks respectively.
func NewCheckoutService(catalogs *CatalogService, chain *discount.Chain, receipts ReceiptStore, publisher EventPublisher, rdb *redis.Client) *CheckoutService {
	return &CheckoutService{
		catalogs:  catalogs,
		chain:     chain,
		receipts:  receipts,
		publisher: publisher,
		rdb:       rdb,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Checkout runs one full pass over a fresh basket built from req.
func (s *CheckoutService) Checkout(ctx context.Context, req *entity.CheckoutRequest) (*entity.Receipt, error) {
	claimed, err := s.claimIdempotentKey(ctx, req.IdempotentKey)
	if err != nil {
		return nil, err
	}

	receipt, err := s.checkout(ctx, req)
	if err != nil {
		if claimed {
			s.releaseIdempotentKey(ctx, req.IdempotentKey)
		}
		return nil, err
	}
	return receipt, nil
}

func (s *CheckoutService) checkout(ctx context.Context, req *entity.CheckoutRequest) (*entity.Receipt, error) {
	c, err := s.catalogs.Resolve(ctx, req.CatalogName)
	if err != nil {
		return nil, err
	}

	b := basket.New(req.Items, c)
	sold := b.Contents()
	result := checkout.Total(s.chain, b)

	receipt := &entity.Receipt{
		ID:          s.newID(),
		CatalogName: c.Name(),
		Items:       sold,
		Applied:     result.Applied,
		Discounted:  result.Discounted,
		Remainder:   result.Remainder,
		Total:       result.Total,
		Sold:        result.Sold(),
		Display:     result.Display(),
		CreatedAt:   s.now().UTC(),
	}

	if s.receipts != nil {
		receipt, err = s.receipts.CreateReceipt(ctx, receipt)
		if err != nil {
			logger.Error().Err(err).Msg("Error creating receipt")
			return nil, err
		}
	}

	if s.publisher != nil {
		if err := s.publishReceiptEvent(ctx, receipt, "created"); err != nil {
			logger.Error().Err(err).Msgf("Error publishing receipt %s", receipt.ID)
		}
	}

	logger.Info().Msgf("Receipt %s: %s", receipt.ID, receipt.Display)
	return receipt, nil
}

// GetReceipt loads a stored receipt.
func (s *CheckoutService) GetReceipt(ctx context.Context, id string) (*entity.Receipt, error) {
	if s.receipts == nil {
		return nil, ErrStorageDisabled
	}
	receipt, err := s.receipts.GetReceiptByID(ctx, id)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting receipt %s", id)
		return nil, err
	}
	return receipt, nil
}

// VoidReceipt deletes a stored receipt and announces it.
func (s *CheckoutService) VoidReceipt(ctx context.Context, id string) error {
	if s.receipts == nil {
		return ErrStorageDisabled
	}
	receipt, err := s.receipts.GetReceiptByID(ctx, id)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting receipt %s", id)
		return err
	}
	if err := s.receipts.DeleteReceipt(ctx, id); err != nil {
		logger.Error().Err(err).Msgf("Error deleting receipt %s", id)
		return err
	}

	if s.publisher != nil {
		if err := s.publishReceiptEvent(ctx, receipt, "voided"); err != nil {
			logger.Error().Err(err).Msgf("Error publishing void of receipt %s", id)
		}
	}
	logger.Info().Msgf("Receipt %s voided", id)
	return nil
}

func (s *CheckoutService) publishReceiptEvent(ctx context.Context, receipt *entity.Receipt, key string) error {
	receiptJSON, err := json.Marshal(receipt)
	if err != nil {
		return err
	}

	// receipt-created-<id>
	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("receipt-%s-%s", key, receipt.ID)),
		Value: receiptJSON,
	}

	return s.publisher.WriteMessages(ctx, msg)
}

func idempotentRedisKey(key string) string {
	return fmt.Sprintf("idempotent-key:%s", key)
}

// claimIdempotentKey reports whether the key was claimed by this call.
func (s *CheckoutService) claimIdempotentKey(ctx context.Context, key string) (bool, error) {
	if key == "" || s.rdb == nil {
		return false, nil
	}

	ok, err := s.rdb.SetNX(ctx, idempotentRedisKey(key), "exists", idempotentKeyTTL).Result()
	if err != nil {
		logger.Error().Err(err).Msgf("Error claiming idempotent key %s", key)
		return false, err
	}
	if !ok {
		logger.Warn().Msgf("Duplicate checkout request %s", key)
		return false, ErrDuplicateRequest
	}
	return true, nil
}

func (s *CheckoutService) releaseIdempotentKey(ctx context.Context, key string) {
	if err := s.rdb.Del(ctx, idempotentRedisKey(key)).Err(); err != nil {
		logger.Error().Err(err).Msgf("Error releasing idempotent key %s", key)
	}
}
