package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"

	"discount-service/internal/api"
	"discount-service/internal/catalog"
	"discount-service/internal/config"
	"discount-service/internal/consumer"
	"discount-service/internal/discount"
	"discount-service/internal/repository"
	"discount-service/internal/service"
	"discount-service/internal/sharding"
	"discount-service/migrations"
)

func connectDB(cfg config.DBConfig) (*sql.DB, error) {
	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("mysql", cfg.DSN())
		if err == nil {
			err = db.Ping()
			if err == nil {
				log.Printf("✅ Connected to DB %s", cfg.Name)
				return db, nil
			}
		}
		log.Printf("❌ Retry %d: Failed to connect to DB %s (%s:%s): %v", i+1, cfg.Name, cfg.Host, cfg.Port, err)
		time.Sleep(3 * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to DB %s at %s:%s after retries: %v", cfg.Name, cfg.Host, cfg.Port, err)
}

func main() {
	demo := flag.Bool("demo", false, "Run the reference baskets and exit")
	flag.Parse()

	if *demo {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		runDemo(os.Stdout, discount.DefaultChain())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		prices   service.PriceStore
		receipts service.ReceiptStore
	)
	if len(cfg.Shards) > 0 {
		dbs := make([]*sql.DB, 0, len(cfg.Shards))
		for _, shard := range cfg.Shards {
			db, err := connectDB(shard)
			if err != nil {
				log.Fatalf("Failed to connect database: %v", err)
			}
			defer db.Close()
			dbs = append(dbs, db)
		}

		if err := migrations.AutoMigratePrices(3, dbs[0]); err != nil {
			log.Fatalf("Failed to migrate prices table: %v", err)
		}
		if err := migrations.AutoMigrateReceipts(3, dbs...); err != nil {
			log.Fatalf("Failed to migrate receipts table: %v", err)
		}
		if err := migrations.AutoMigrateApplications(3, dbs...); err != nil {
			log.Fatalf("Failed to migrate receipt_applications table: %v", err)
		}
		if err := migrations.SeedReferenceCatalogs(ctx, dbs[0]); err != nil {
			log.Fatalf("Failed to seed reference catalogs: %v", err)
		}

		// Price lists live on the first shard; receipts spread over all of them.
		prices = repository.NewPriceRepository(dbs[0])
		receipts = repository.NewReceiptRepository(dbs, sharding.NewShardRouter(len(dbs)))
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})
		defer rdb.Close()
	}

	var publisher service.EventPublisher
	if cfg.KafkaEnabled() {
		writer := config.NewKafkaWriter(cfg.Kafka)
		defer writer.Close()
		publisher = writer
	}

	catalogService := service.NewCatalogService(prices, rdb, catalog.DefaultRegistry())
	if err := catalogService.PreWarmCache(ctx); err != nil {
		log.Printf("Failed to pre-warm catalog cache: %v", err)
	}
	checkoutService := service.NewCheckoutService(catalogService, discount.DefaultChain(), receipts, publisher, rdb)

	if cfg.KafkaEnabled() {
		c := consumer.NewConsumer(config.NewKafkaReader(cfg.Kafka), checkoutService)
		go func() {
			if err := c.Start(ctx); err != nil {
				log.Printf("Checkout consumer stopped: %v", err)
			}
		}()
	}

	e := api.NewRouter(
		api.NewCheckoutHandler(checkoutService),
		api.NewCatalogHandler(catalogService),
		api.RouterConfig{JWTSecret: cfg.JWTSecret, RateLimit: cfg.RateLimit, RateBurst: cfg.RateBurst},
	)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			e.Logger.Info("shutting down the server")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Fatal(err)
	}
}
