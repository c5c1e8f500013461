package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discount-service/internal/catalog"
	"discount-service/internal/entity"
)

func TestResolve_BuiltinWithoutStorage(t *testing.T) {
	s := NewCatalogService(nil, nil, catalog.DefaultRegistry())

	c, err := s.Resolve(context.Background(), "1")

	require.NoError(t, err)
	assert.Same(t, catalog.PriceList1, c)
}

func TestResolve_Unknown(t *testing.T) {
	s := NewCatalogService(&fakePriceStore{}, nil, catalog.DefaultRegistry())

	c, err := s.Resolve(context.Background(), "9")

	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrUnknownCatalog)
}

func TestResolve_StorageOverridesBuiltin(t *testing.T) {
	store := &fakePriceStore{catalogs: map[string][]entity.PriceEntry{
		"1": {{CatalogName: "1", ItemID: "A", Price: 50}},
	}}
	s := NewCatalogService(store, nil, catalog.DefaultRegistry())

	c, err := s.Resolve(context.Background(), "1")

	require.NoError(t, err)
	price, ok := c.Price("A")
	require.True(t, ok)
	assert.Equal(t, 50.0, price)
	assert.False(t, c.Contains("B"))
}

func TestResolve_StorageError(t *testing.T) {
	s := NewCatalogService(&fakePriceStore{err: errStore}, nil, catalog.DefaultRegistry())

	_, err := s.Resolve(context.Background(), "1")

	assert.ErrorIs(t, err, errStore)
}

func TestResolve_CachesStoredCatalog(t *testing.T) {
	mr, rdb := newRedis(t)
	store := &fakePriceStore{catalogs: map[string][]entity.PriceEntry{
		"3": {{CatalogName: "3", ItemID: "Q", Price: 7}},
	}}
	s := NewCatalogService(store, rdb, nil)
	ctx := context.Background()

	_, err := s.Resolve(ctx, "3")
	require.NoError(t, err)
	_, err = s.Resolve(ctx, "3")
	require.NoError(t, err)

	assert.Equal(t, 1, store.gets)
	assert.True(t, mr.Exists("catalog:3"))
	assert.Equal(t, catalogCacheTTL, mr.TTL("catalog:3"))
}

func TestResolve_CorruptCacheFallsThrough(t *testing.T) {
	mr, rdb := newRedis(t)
	require.NoError(t, mr.Set("catalog:3", "not json"))
	store := &fakePriceStore{catalogs: map[string][]entity.PriceEntry{
		"3": {{CatalogName: "3", ItemID: "Q", Price: 7}},
	}}
	s := NewCatalogService(store, rdb, nil)

	c, err := s.Resolve(context.Background(), "3")

	require.NoError(t, err)
	assert.True(t, c.Contains("Q"))
	assert.Equal(t, 1, store.gets)
}

func TestUpsertPrice(t *testing.T) {
	mr, rdb := newRedis(t)
	require.NoError(t, mr.Set("catalog:1", "[]"))
	store := &fakePriceStore{}
	s := NewCatalogService(store, rdb, catalog.DefaultRegistry())

	err := s.UpsertPrice(context.Background(), &entity.PriceEntry{CatalogName: "1", ItemID: "A", Price: 95})

	require.NoError(t, err)
	assert.Len(t, store.catalogs["1"], 1)
	assert.False(t, mr.Exists("catalog:1"))
}

func TestUpsertPrice_Invalid(t *testing.T) {
	s := NewCatalogService(&fakePriceStore{}, nil, nil)
	ctx := context.Background()

	assert.ErrorIs(t, s.UpsertPrice(ctx, &entity.PriceEntry{CatalogName: "1", ItemID: "A", Price: -1}), ErrInvalidPrice)
	assert.ErrorIs(t, s.UpsertPrice(ctx, &entity.PriceEntry{CatalogName: "1", Price: 1}), ErrInvalidPrice)
	assert.ErrorIs(t, s.UpsertPrice(ctx, &entity.PriceEntry{ItemID: "A", Price: 1}), ErrInvalidPrice)
}

func TestUpsertPrice_NoStorage(t *testing.T) {
	s := NewCatalogService(nil, nil, nil)
	err := s.UpsertPrice(context.Background(), &entity.PriceEntry{CatalogName: "1", ItemID: "A", Price: 1})
	assert.ErrorIs(t, err, ErrStorageDisabled)
}

func TestPreWarmCache(t *testing.T) {
	mr, rdb := newRedis(t)
	store := &fakePriceStore{catalogs: map[string][]entity.PriceEntry{
		"1": catalog.PriceList1.Entries(),
		"2": catalog.PriceList2.Entries(),
	}}
	s := NewCatalogService(store, rdb, nil)

	require.NoError(t, s.PreWarmCache(context.Background()))

	assert.True(t, mr.Exists("catalog:1"))
	assert.True(t, mr.Exists("catalog:2"))
}
