package config

import (
	"time"

	"github.com/dmitrijs2005/gophbooks/internal/client/covers"
	"github.com/dmitrijs2005/gophbooks/internal/client/imagegen"
	"github.com/dmitrijs2005/gophbooks/internal/client/models"
)

// Config holds runtime settings for the bookstore CLI.
//
// Prices are in the store's smallest currency unit. ImageRPS of zero
// disables client-side rate limiting of the image generator.
type Config struct {
	APIBaseURL     string
	DatabasePath   string
	RequestTimeout time.Duration
	LogLevel       string

	PageSize         int
	DefaultUnitPrice int64

	ImageAPIBaseURL string
	PromptModel     string
	ImageModel      string
	ImageRPS        float64

	S3Endpoint      string
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3PublicBaseURL string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8080"
	c.DatabasePath = "gophbooks/client.db"
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "warn"
	c.PageSize = 10
	c.DefaultUnitPrice = models.DefaultUnitPrice
	c.ImageAPIBaseURL = "https://api.openai.com/v1"
	c.PromptModel = "gpt-4o-mini"
	c.ImageModel = "dall-e-3"
	c.ImageRPS = 1
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (and an optional .env file), JSON (if present) and
// command-line flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// ImageGen returns the image generator settings.
func (c *Config) ImageGen() imagegen.Config {
	return imagegen.Config{
		BaseURL:     c.ImageAPIBaseURL,
		PromptModel: c.PromptModel,
		ImageModel:  c.ImageModel,
		Timeout:     c.RequestTimeout,
		RPS:         c.ImageRPS,
	}
}

// Covers returns the cover storage settings.
func (c *Config) Covers() covers.Config {
	return covers.Config{
		Endpoint:      c.S3Endpoint,
		Region:        c.S3Region,
		Bucket:        c.S3Bucket,
		AccessKey:     c.S3AccessKey,
		SecretKey:     c.S3SecretKey,
		PublicBaseURL: c.S3PublicBaseURL,
	}
}
