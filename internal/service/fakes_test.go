package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"

	"discount-service/internal/entity"
	"discount-service/internal/repository"
)

type fakePriceStore struct {
	catalogs map[string][]entity.PriceEntry
	gets     int
	err      error
}

func (f *fakePriceStore) GetCatalog(ctx context.Context, name string) ([]entity.PriceEntry, error) {
	f.gets++
	if f.err != nil {
		return nil, f.err
	}
	return f.catalogs[name], nil
}

func (f *fakePriceStore) ListCatalogNames(ctx context.Context) ([]string, error) {
	var names []string
	for name := range f.catalogs {
		names = append(names, name)
	}
	return names, f.err
}

func (f *fakePriceStore) UpsertPrice(ctx context.Context, entry *entity.PriceEntry) error {
	if f.err != nil {
		return f.err
	}
	if f.catalogs == nil {
		f.catalogs = map[string][]entity.PriceEntry{}
	}
	f.catalogs[entry.CatalogName] = append(f.catalogs[entry.CatalogName], *entry)
	return nil
}

type fakeReceiptStore struct {
	receipts map[string]*entity.Receipt
	err      error
}

func (f *fakeReceiptStore) CreateReceipt(ctx context.Context, receipt *entity.Receipt) (*entity.Receipt, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.receipts == nil {
		f.receipts = map[string]*entity.Receipt{}
	}
	f.receipts[receipt.ID] = receipt
	return receipt, nil
}

func (f *fakeReceiptStore) GetReceiptByID(ctx context.Context, id string) (*entity.Receipt, error) {
	r, ok := f.receipts[id]
	if !ok {
		return nil, repository.ErrReceiptNotFound
	}
	return r, nil
}

func (f *fakeReceiptStore) DeleteReceipt(ctx context.Context, id string) error {
	if _, ok := f.receipts[id]; !ok {
		return repository.ErrReceiptNotFound
	}
	delete(f.receipts, id)
	return nil
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (f *fakePublisher) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

var errStore = errors.New("store unavailable")

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}
