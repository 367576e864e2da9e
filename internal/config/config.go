package config

import (
	"fmt"
	"os"
	"time"
)

const (
	defaultHTTPAddr        = ":8080"
	defaultShutdownTimeout = 10 * time.Second

	defaultReadHeaderTimeout    = 5 * time.Second
	defaultAPIRequestTimeout    = 10 * time.Second
	defaultSessionTTL           = 30 * time.Minute
	defaultSessionSweepInterval = time.Minute
)

type Storefront struct {
	ShopAPIURL string
	CDNURL     string
	HTTPAddr   string

	ShutdownTimeout      time.Duration
	ReadHeaderTimeout    time.Duration
	APIRequestTimeout    time.Duration
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
}

func LoadStorefront() (Storefront, error) {
	cfg := Storefront{
		ShopAPIURL:           getEnv("SHOP_API_URL", ""),
		CDNURL:               getEnv("CDN_URL", ""),
		HTTPAddr:             getEnv("HTTP_ADDR", defaultHTTPAddr),
		ShutdownTimeout:      defaultShutdownTimeout,
		ReadHeaderTimeout:    defaultReadHeaderTimeout,
		APIRequestTimeout:    defaultAPIRequestTimeout,
		SessionTTL:           defaultSessionTTL,
		SessionSweepInterval: defaultSessionSweepInterval,
	}

	if cfg.ShopAPIURL == "" {
		return Storefront{}, fmt.Errorf("SHOP_API_URL is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
