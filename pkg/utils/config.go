package utils

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Upstream UpstreamConfig
	Booking  BookingConfig
	Catalog  CatalogConfig
	Broker   BrokerConfig
}

type AppConfig struct {
	Name          string
	Port          string
	Debug         bool
	LogPath       string
	DefaultLocale string
	CORSOrigins   []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// UpstreamConfig points at the ticketing backend the gateway fronts.
type UpstreamConfig struct {
	BaseURL        string
	APIPrefix      string
	BookingTimeout time.Duration
	FetchTimeout   time.Duration
}

type BookingConfig struct {
	Rows         int
	Columns      int
	PriceAdult   int64
	PriceChild   int64
	PriceStudent int64
	Inventory    string
	SelectionTTL time.Duration
	LockTTL      time.Duration
}

type CatalogConfig struct {
	CacheTTL time.Duration
}

type BrokerConfig struct {
	URL   string
	Queue string
}

const (
	InventoryStore  = "store"
	InventoryRandom = "random"
)

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "kino-tickets")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("DEFAULT_LOCALE", "kk")
	viper.SetDefault("CORS_ORIGINS", "*")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("API_BASE_URL", "http://localhost:8000")
	viper.SetDefault("API_PREFIX", "/api")
	viper.SetDefault("BOOKING_TIMEOUT", "15s")
	viper.SetDefault("FETCH_TIMEOUT", "10s")
	viper.SetDefault("SEAT_ROWS", 5)
	viper.SetDefault("SEAT_COLUMNS", 7)
	viper.SetDefault("PRICE_ADULT", 1200)
	viper.SetDefault("PRICE_CHILD", 800)
	viper.SetDefault("PRICE_STUDENT", 1000)
	viper.SetDefault("SEAT_INVENTORY", InventoryStore)
	viper.SetDefault("SELECTION_TTL", "30m")
	viper.SetDefault("SUBMIT_LOCK_TTL", "30s")
	viper.SetDefault("CATALOG_CACHE_TTL", "5m")
	viper.SetDefault("AMQP_URL", "")
	viper.SetDefault("AMQP_QUEUE", "ticket.issued")

	// .env boleh tidak ada, environment tetap dibaca
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:          viper.GetString("APP_NAME"),
			Port:          viper.GetString("PORT"),
			Debug:         viper.GetBool("DEBUG"),
			LogPath:       viper.GetString("LOG_PATH"),
			DefaultLocale: viper.GetString("DEFAULT_LOCALE"),
			CORSOrigins:   viper.GetStringSlice("CORS_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Upstream: UpstreamConfig{
			BaseURL:        viper.GetString("API_BASE_URL"),
			APIPrefix:      viper.GetString("API_PREFIX"),
			BookingTimeout: viper.GetDuration("BOOKING_TIMEOUT"),
			FetchTimeout:   viper.GetDuration("FETCH_TIMEOUT"),
		},
		Booking: BookingConfig{
			Rows:         viper.GetInt("SEAT_ROWS"),
			Columns:      viper.GetInt("SEAT_COLUMNS"),
			PriceAdult:   viper.GetInt64("PRICE_ADULT"),
			PriceChild:   viper.GetInt64("PRICE_CHILD"),
			PriceStudent: viper.GetInt64("PRICE_STUDENT"),
			Inventory:    viper.GetString("SEAT_INVENTORY"),
			SelectionTTL: viper.GetDuration("SELECTION_TTL"),
			LockTTL:      viper.GetDuration("SUBMIT_LOCK_TTL"),
		},
		Catalog: CatalogConfig{
			CacheTTL: viper.GetDuration("CATALOG_CACHE_TTL"),
		},
		Broker: BrokerConfig{
			URL:   viper.GetString("AMQP_URL"),
			Queue: viper.GetString("AMQP_QUEUE"),
		},
	}

	return config, nil
}
