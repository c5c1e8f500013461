package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"discount-service/internal/entity"
)

// MessageReader is satisfied by *kafka.Reader.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Checkouter is satisfied by *service.CheckoutService.
type Checkouter interface {
	Checkout(ctx context.Context, req *entity.CheckoutRequest) (*entity.Receipt, error)
}

type Consumer struct {
	reader   MessageReader
	checkout Checkouter
}

func NewConsumer(reader MessageReader, checkout Checkouter) *Consumer {
	return &Consumer{reader: reader, checkout: checkout}
}

// Start reads checkout requests until ctx is cancelled. Messages are handled
// one at a time, each with its own basket.
func (c *Consumer) Start(ctx context.Context) error {
	defer c.reader.Close()

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			if errors.Is(err, io.EOF) {
				return err
			}
			log.Error().Msgf("Error reading message: %v", err)
			continue
		}

		c.processMessage(ctx, msg)
	}
}

// processMessage runs the checkout described by one message.
func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) {
	var req entity.CheckoutRequest
	if err := json.Unmarshal(msg.Value, &req); err != nil {
		log.Error().Msgf("Error unmarshalling message: %v", err)
		return
	}
	if req.IdempotentKey == "" && len(msg.Key) > 0 {
		req.IdempotentKey = string(msg.Key)
	}

	receipt, err := c.checkout.Checkout(ctx, &req)
	if err != nil {
		log.Error().Msgf("Error processing checkout %s: %v", req.IdempotentKey, err)
		return
	}
	log.Info().Msgf("Processed checkout %s: %s", req.IdempotentKey, receipt.Display)
}
