package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"discount-service/internal/catalog"
	"discount-service/internal/entity"
)

const catalogCacheTTL = 10 * time.Minute

// CatalogService resolves price lists by name.
type CatalogService struct {
	prices   PriceStore
	rdb      *redis.Client
	builtins *catalog.Registry
}

// NewCatalogService creates a new instance of CatalogService. prices and rdb
// may be nil, in which case only the built-in catalogs are served.
func NewCatalogService(prices PriceStore, rdb *redis.Client, builtins *catalog.Registry) *CatalogService {
	if builtins == nil {
		builtins = catalog.NewRegistry()
	}
	return &CatalogService{
		prices:   prices,
		rdb:      rdb,
		builtins: builtins,
	}
}

func catalogKey(name string) string {
	return fmt.Sprintf("catalog:%s", name)
}

// Resolve looks the catalog up in cache, then storage, then the built-ins.
func (s *CatalogService) Resolve(ctx context.Context, name string) (catalog.Catalog, error) {
	if entries, ok := s.fromCache(ctx, name); ok {
		return catalog.FromEntries(name, entries), nil
	}

	if s.prices != nil {
		entries, err := s.prices.GetCatalog(ctx, name)
		if err != nil {
			logger.Error().Err(err).Msgf("Error getting catalog %s", name)
			return nil, err
		}
		if len(entries) > 0 {
			s.toCache(ctx, name, entries)
			return catalog.FromEntries(name, entries), nil
		}
	}

	if c, ok := s.builtins.Lookup(name); ok {
		return c, nil
	}

	logger.Warn().Msgf("Catalog %s not found", name)
	return nil, fmt.Errorf("%w: %q", ErrUnknownCatalog, name)
}

// UpsertPrice stores a price and drops the cached copy of its catalog.
func (s *CatalogService) UpsertPrice(ctx context.Context, entry *entity.PriceEntry) error {
	if entry.CatalogName == "" || entry.ItemID == "" || !(entry.Price >= 0) {
		return ErrInvalidPrice
	}
	if s.prices == nil {
		return ErrStorageDisabled
	}

	if err := s.prices.UpsertPrice(ctx, entry); err != nil {
		logger.Error().Err(err).Msgf("Error storing price for %s in catalog %s", entry.ItemID, entry.CatalogName)
		return err
	}

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, catalogKey(entry.CatalogName)).Err(); err != nil {
			logger.Error().Err(err).Msgf("Error evicting catalog %s from cache", entry.CatalogName)
		}
	}
	return nil
}

// PreWarmCache loads every stored catalog into the cache.
func (s *CatalogService) PreWarmCache(ctx context.Context) error {
	if s.prices == nil || s.rdb == nil {
		return nil
	}

	names, err := s.prices.ListCatalogNames(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing catalogs")
		return err
	}

	for _, name := range names {
		entries, err := s.prices.GetCatalog(ctx, name)
		if err != nil {
			logger.Error().Err(err).Msgf("Error getting catalog %s", name)
			return err
		}
		s.toCache(ctx, name, entries)
	}

	logger.Info().Msgf("Pre-warmed %d catalog(s)", len(names))
	return nil
}

func (s *CatalogService) fromCache(ctx context.Context, name string) ([]entity.PriceEntry, bool) {
	if s.rdb == nil {
		return nil, false
	}

	data, err := s.rdb.Get(ctx, catalogKey(name)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Error().Err(err).Msgf("Error getting catalog %s from cache", name)
		}
		return nil, false
	}

	var entries []entity.PriceEntry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		logger.Error().Err(err).Msgf("Error unmarshalling catalog %s", name)
		return nil, false
	}
	return entries, len(entries) > 0
}

func (s *CatalogService) toCache(ctx context.Context, name string, entries []entity.PriceEntry) {
	if s.rdb == nil {
		return
	}

	data, err := json.Marshal(entries)
	if err != nil {
		logger.Error().Err(err).Msgf("Error marshalling catalog %s", name)
		return
	}
	if err := s.rdb.Set(ctx, catalogKey(name), data, catalogCacheTTL).Err(); err != nil {
		logger.Error().Err(err).Msgf("Error setting catalog %s in cache", name)
	}
}
