package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds all configuration for the service.
type Config struct {
	Port      string
	LogLevel  zerolog.Level
	Shards    []DBConfig
	RedisAddr string
	Kafka     KafkaConfig
	JWTSecret string
	RateLimit float64
	RateBurst int
}

// DBConfig describes one MySQL shard.
type DBConfig struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

type KafkaConfig struct {
	Brokers      []string
	ReceiptTopic string
	RequestTopic string
	GroupID      string
}

// DSN returns the go-sql-driver/mysql connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", c.User, c.Pass, c.Host, c.Port, c.Name)
}

// Load reads configuration from the environment, after an optional .env file.
// DB shards are read as DB1_*, DB2_*, ... until the first missing DBn_HOST.
func Load() (*Config, error) {
	_ = godotenv.Load()

	level, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	rateLimit, err := strconv.ParseFloat(getEnv("RATE_LIMIT", "1"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT: %w", err)
	}
	rateBurst, err := strconv.Atoi(getEnv("RATE_BURST", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_BURST: %w", err)
	}

	cfg := &Config{
		Port:      getEnv("PORT", "8084"),
		LogLevel:  level,
		RedisAddr: os.Getenv("REDIS_ADDR"),
		Kafka: KafkaConfig{
			Brokers:      getKafkaBrokerURLs(),
			ReceiptTopic: getEnv("KAFKA_RECEIPT_TOPIC", "receipt-topic"),
			RequestTopic: getEnv("KAFKA_REQUEST_TOPIC", "checkout-request"),
			GroupID:      getEnv("KAFKA_GROUP_ID", "discount-service-group"),
		},
		JWTSecret: os.Getenv("JWT_SECRET"),
		RateLimit: rateLimit,
		RateBurst: rateBurst,
	}

	for i := 1; ; i++ {
		prefix := fmt.Sprintf("DB%d_", i)
		host := os.Getenv(prefix + "HOST")
		if host == "" {
			break
		}
		cfg.Shards = append(cfg.Shards, DBConfig{
			Host: host,
			Port: getEnv(prefix+"PORT", "3306"),
			User: getEnv(prefix+"USER", "root"),
			Pass: os.Getenv(prefix + "PASS"),
			Name: getEnv(prefix+"NAME", "discount-db"),
		})
	}

	return cfg, nil
}

// KafkaEnabled reports whether brokers were configured explicitly.
func (c *Config) KafkaEnabled() bool {
	return os.Getenv("KAFKA_BROKERS") != "" && len(c.Kafka.Brokers) > 0
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}
