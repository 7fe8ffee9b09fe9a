package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Log      LogConfig
	Commerce CommerceConfig
}

type ServerConfig struct {
	Address         string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	URL             string
	Name            string
	MigrationsURL   string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL     string
	Channel string
}

type LogConfig struct {
	Level  string
	Format string
}

// CommerceConfig holds the money constants of the marketplace.
type CommerceConfig struct {
	PlatformFeePercent    float64
	MinimumBidAmount      float64
	MaterialTaxRate       float64
	FreeDeliveryThreshold float64
	FlatDeliveryFee       float64
	BidExpiry             time.Duration
}

func DefaultCommerce() CommerceConfig {
	return CommerceConfig{
		PlatformFeePercent:    10,
		MinimumBidAmount:      25,
		MaterialTaxRate:       0.13,
		FreeDeliveryThreshold: 200,
		FlatDeliveryFee:       15,
		BidExpiry:             30 * 24 * time.Hour,
	}
}

// Load reads a .env file if there is one, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	def := DefaultCommerce()
	cfg := &Config{
		Server: ServerConfig{
			Address:         envString("SERVER_ADDRESS", ":8080"),
			ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("POSTGRES_CONN"),
			Name:            envString("POSTGRES_DATABASE", "postgres"),
			MigrationsURL:   envString("MIGRATIONS_URL", "file://migrations"),
			MaxOpenConns:    envInt("POSTGRES_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("POSTGRES_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL:     os.Getenv("REDIS_URL"),
			Channel: envString("NOTIFY_CHANNEL", "job-events"),
		},
		Log: LogConfig{
			Level:  envString("LOG_LEVEL", "info"),
			Format: envString("LOG_FORMAT", "text"),
		},
		Commerce: CommerceConfig{
			PlatformFeePercent:    envFloat("PLATFORM_FEE_PERCENT", def.PlatformFeePercent),
			MinimumBidAmount:      envFloat("MIN_BID_AMOUNT", def.MinimumBidAmount),
			MaterialTaxRate:       envFloat("MATERIAL_TAX_RATE", def.MaterialTaxRate),
			FreeDeliveryThreshold: envFloat("FREE_DELIVERY_THRESHOLD", def.FreeDeliveryThreshold),
			FlatDeliveryFee:       envFloat("FLAT_DELIVERY_FEE", def.FlatDeliveryFee),
			BidExpiry:             envDuration("BID_EXPIRY", def.BidExpiry),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("POSTGRES_CONN is required")
	}

	if c.Redis.URL != "" && !strings.HasPrefix(c.Redis.URL, "redis://") && !strings.HasPrefix(c.Redis.URL, "rediss://") {
		return fmt.Errorf("REDIS_URL must start with redis:// or rediss://, got %q", c.Redis.URL)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.Log.Format)
	}

	return c.Commerce.Validate()
}

func (c CommerceConfig) Validate() error {
	if c.PlatformFeePercent < 0 || c.PlatformFeePercent > 100 {
		return fmt.Errorf("PLATFORM_FEE_PERCENT must be between 0 and 100, got %v", c.PlatformFeePercent)
	}
	if c.MaterialTaxRate < 0 || c.MaterialTaxRate >= 1 {
		return fmt.Errorf("MATERIAL_TAX_RATE must be in [0, 1), got %v", c.MaterialTaxRate)
	}
	if c.MinimumBidAmount < 0 {
		return fmt.Errorf("MIN_BID_AMOUNT must not be negative, got %v", c.MinimumBidAmount)
	}
	if c.FreeDeliveryThreshold < 0 {
		return fmt.Errorf("FREE_DELIVERY_THRESHOLD must not be negative, got %v", c.FreeDeliveryThreshold)
	}
	if c.FlatDeliveryFee < 0 {
		return fmt.Errorf("FLAT_DELIVERY_FEE must not be negative, got %v", c.FlatDeliveryFee)
	}
	if c.BidExpiry <= 0 {
		return fmt.Errorf("BID_EXPIRY must be positive, got %v", c.BidExpiry)
	}

	return nil
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
