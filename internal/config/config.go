package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	Store       Store

	Stripe   Stripe   `envPrefix:"STRIPE_"`
	Firebase Firebase `envPrefix:"FIREBASE_"`
	Redis    Redis    `envPrefix:"REDIS_"`
}

// Store selects the document store backing purchases, sellers and bundles.
type Store struct {
	Driver      string `env:"STORE_DRIVER" envDefault:"mysql"` // mysql, sqlite, firestore
	DatabaseURL string `env:"DATABASE_URL"`
}

type Stripe struct {
	SecretKey         string `env:"SECRET_KEY"`
	WebhookSecret     string `env:"WEBHOOK_SECRET"`
	APIBaseURL        string `env:"API_BASE_URL"` // empty means api.stripe.com
	MaxNetworkRetries int64  `env:"MAX_NETWORK_RETRIES" envDefault:"2"`
	ConnectReturnURL  string `env:"CONNECT_RETURN_URL"`
	ConnectRefreshURL string `env:"CONNECT_REFRESH_URL"`
}

type Firebase struct {
	ProjectID       string `env:"PROJECT_ID"`
	CredentialsFile string `env:"CREDENTIALS_FILE"`
}

// Redis is optional. An empty Addr disables webhook event claims.
type Redis struct {
	Addr     string        `env:"ADDR"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0"`
	ClaimTTL time.Duration `env:"CLAIM_TTL" envDefault:"2m"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

func (c *Config) ConnectReturnURL() string {
	if c.Stripe.ConnectReturnURL != "" {
		return c.Stripe.ConnectReturnURL
	}
	return c.BaseURL + "/connect/return"
}

func (c *Config) ConnectRefreshURL() string {
	if c.Stripe.ConnectRefreshURL != "" {
		return c.Stripe.ConnectRefreshURL
	}
	return c.BaseURL + "/connect/refresh"
}
