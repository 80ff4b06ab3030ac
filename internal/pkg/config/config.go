package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Cashfree CashfreeConfig
	Digitap  DigitapConfig
	Pricing  PricingConfig

	// HitLogWorkers sets the size of the sharded usage-log writer pool.
	HitLogWorkers int `env:"HITLOG_WORKERS, default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=vehinfo"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// CashfreeConfig holds the payment gateway credentials and callback targets.
type CashfreeConfig struct {
	APIURL     string `env:"CASHFREE_API_URL, default=https://sandbox.cashfree.com/pg"`
	AppID      string `env:"CASHFREE_APP_ID"`
	SecretKey  string `env:"CASHFREE_SECRET_KEY"`
	WebhookURL string `env:"CASHFREE_WEBHOOK_URL"`
	// ReturnURL is where the gateway sends the customer after checkout; the
	// order identifier is appended as a query parameter.
	ReturnURL string `env:"PAYMENT_RETURN_URL"`
}

// DigitapConfig holds the KYC vehicle-data provider credentials.
type DigitapConfig struct {
	BaseURL      string `env:"DIGITAP_BASE_URL, default=https://svc.digitap.ai/validation/kyc/v1"`
	ClientID     string `env:"DIGITAP_CLIENT_ID"`
	ClientSecret string `env:"DIGITAP_CLIENT_SECRET"`
}

// PricingConfig is the static per-service price table for metered lookups.
type PricingConfig struct {
	RC      float64 `env:"PRICE_RC,      default=50"`
	Chassis float64 `env:"PRICE_CHASSIS, default=60"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
