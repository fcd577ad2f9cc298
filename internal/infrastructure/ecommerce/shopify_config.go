package ecommerce

import (
	"errors"
	"time"

	"github.com/shopsight/backend/internal/infrastructure/config"
)

const (
	// ShopifyDefaultAPIVersion is the Admin REST API version used when a tenant does not pin one
	ShopifyDefaultAPIVersion = "2025-07"
	// ShopifyMaxPageSize is the largest page the Admin REST API serves
	ShopifyMaxPageSize = 250
	// ShopifyAccessTokenHeader carries the private app access token
	ShopifyAccessTokenHeader = "X-Shopify-Access-Token"
)

// Errors for Shopify configuration
var (
	ErrShopifyConfigPageSize = errors.New("shopify: page size must be between 1 and 250")
	ErrShopifyConfigRate     = errors.New("shopify: requests per second must be positive")
)

// ShopifyConfig holds configuration for the Shopify Admin REST API client
type ShopifyConfig struct {
	// APIVersion is the default Admin API version, e.g. "2025-07"
	APIVersion string
	// PageSize is the limit sent with every list request
	PageSize int
	// Timeout bounds each HTTP request
	Timeout time.Duration
	// RequestsPerSec and Burst shape the per-store token bucket
	RequestsPerSec float64
	Burst          int
	// MaxRetries is how many times a 429 response is retried
	MaxRetries int
	// BaseURL replaces https://{store domain} when set
	BaseURL string
}

// NewShopifyConfig creates a Shopify configuration with defaults
func NewShopifyConfig() *ShopifyConfig {
	return &ShopifyConfig{
		APIVersion:     ShopifyDefaultAPIVersion,
		PageSize:       ShopifyMaxPageSize,
		Timeout:        30 * time.Second,
		RequestsPerSec: 2,
		Burst:          4,
		MaxRetries:     2,
	}
}

// ShopifyConfigFrom adapts the application configuration
func ShopifyConfigFrom(cfg config.ShopifyConfig) *ShopifyConfig {
	c := NewShopifyConfig()
	if cfg.APIVersion != "" {
		c.APIVersion = cfg.APIVersion
	}
	if cfg.PageSize > 0 {
		c.PageSize = cfg.PageSize
	}
	if cfg.Timeout > 0 {
		c.Timeout = cfg.Timeout
	}
	if cfg.RequestsPerSec > 0 {
		c.RequestsPerSec = cfg.RequestsPerSec
	}
	if cfg.Burst > 0 {
		c.Burst = cfg.Burst
	}
	if cfg.MaxRetries >= 0 {
		c.MaxRetries = cfg.MaxRetries
	}
	return c
}

// Validate validates the Shopify configuration and fills in defaults
func (c *ShopifyConfig) Validate() error {
	if c.PageSize < 1 || c.PageSize > ShopifyMaxPageSize {
		return ErrShopifyConfigPageSize
	}
	if c.RequestsPerSec <= 0 {
		return ErrShopifyConfigRate
	}
	if c.APIVersion == "" {
		c.APIVersion = ShopifyDefaultAPIVersion
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.Burst <= 0 {
		c.Burst = 1
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	return nil
}
