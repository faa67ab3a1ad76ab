package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		Database: DatabaseConfig{
			Host:           "localhost",
			Port:           5432,
			User:           "postgres",
			Database:       "proshop",
			MaxConnections: 25,
			MinConnections: 5,
		},
		Logger: LoggerConfig{Level: "info", Format: "json"},
		Auth: AuthConfig{
			JWTSecret:  "secret",
			TokenTTL:   time.Hour,
			CookieName: "jwt",
		},
		Pricing: PricingConfig{
			TaxRate:               decimal.RequireFromString("0.15"),
			FreeShippingThreshold: decimal.RequireFromString("100"),
			FlatShippingFee:       decimal.RequireFromString("10"),
		},
		PayPal:  PayPalConfig{BaseURL: "https://api-m.sandbox.paypal.com", Timeout: 10 * time.Second},
		Catalog: CatalogConfig{PageSize: 8},
	}
}

func TestConfig_Validate_Valid(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_Validate_MissingJWTSecret(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.JWTSecret = ""
	assert.Error(t, cfg.Validate())
}

func TestConfig_Validate_NegativeTaxRate(t *testing.T) {
	cfg := validConfig()
	cfg.Pricing.TaxRate = decimal.RequireFromString("-0.1")
	assert.Error(t, cfg.Validate())
}

func TestConfig_Validate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate())
}

func TestConfig_Validate_MinExceedsMaxConnections(t *testing.T) {
	cfg := validConfig()
	cfg.Database.MinConnections = 50
	assert.Error(t, cfg.Validate())
}

func TestConfig_Validate_InvalidLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logger.Level = "verbose"
	assert.Error(t, cfg.Validate())
}

func TestConfig_Validate_RedisEnabledWithoutAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = ""
	assert.Error(t, cfg.Validate())
}

func TestConfig_Validate_S3EnabledWithoutBucket(t *testing.T) {
	cfg := validConfig()
	cfg.S3.Enabled = true
	cfg.S3.Region = "us-east-1"
	assert.Error(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "jwt", cfg.Auth.CookieName)
	assert.True(t, cfg.Pricing.TaxRate.Equal(decimal.RequireFromString("0.15")))
	assert.True(t, cfg.Pricing.FreeShippingThreshold.Equal(decimal.RequireFromString("100")))
	assert.True(t, cfg.Pricing.FlatShippingFee.Equal(decimal.RequireFromString("10")))
	assert.Equal(t, 8, cfg.Catalog.PageSize)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.S3.Enabled)
}

func TestLoad_PricingOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PRICING_TAX_RATE", "0.10")
	t.Setenv("PRICING_FREE_SHIPPING_THRESHOLD", "50")
	t.Setenv("PRICING_FLAT_SHIPPING_FEE", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Pricing.TaxRate.Equal(decimal.RequireFromString("0.10")))
	assert.True(t, cfg.Pricing.FreeShippingThreshold.Equal(decimal.RequireFromString("50")))
	assert.True(t, cfg.Pricing.FlatShippingFee.Equal(decimal.RequireFromString("5")))
}

func TestLoad_MalformedPricingValueFails(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PRICING_TAX_RATE", "fifteen-percent")

	_, err := Load()
	assert.Error(t, err)
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.example.com",
		Port:     5433,
		User:     "app",
		Password: "pw",
		Database: "proshop",
	}
	assert.Equal(t, "postgres://app:pw@db.example.com:5433/proshop?sslmode=disable", cfg.ConnectionString())
}
