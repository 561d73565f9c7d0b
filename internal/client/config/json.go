package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophbooks/internal/flagx"
	"github.com/dmitrijs2005/gophbooks/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from a zero value, so a file only overrides
// what it names. request_timeout accepts "10s" or integer nanoseconds.
type JsonConfig struct {
	APIBaseURL       *string         `json:"api_base_url"`
	DatabasePath     *string         `json:"database_path"`
	RequestTimeout   *timex.Duration `json:"request_timeout"`
	LogLevel         *string         `json:"log_level"`
	PageSize         *int            `json:"page_size"`
	DefaultUnitPrice *int64          `json:"default_unit_price"`

	ImageAPIBaseURL *string  `json:"image_api_base_url"`
	PromptModel     *string  `json:"prompt_model"`
	ImageModel      *string  `json:"image_model"`
	ImageRPS        *float64 `json:"image_rps"`

	S3Endpoint      *string `json:"s3_endpoint"`
	S3Region        *string `json:"s3_region"`
	S3Bucket        *string `json:"s3_bucket"`
	S3AccessKey     *string `json:"s3_access_key"`
	S3SecretKey     *string `json:"s3_secret_key"`
	S3PublicBaseURL *string `json:"s3_public_base_url"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without the flag nothing is loaded. Read and unmarshal
// errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFile()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	set(&cfg.APIBaseURL, jc.APIBaseURL)
	set(&cfg.DatabasePath, jc.DatabasePath)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	set(&cfg.LogLevel, jc.LogLevel)
	set(&cfg.PageSize, jc.PageSize)
	set(&cfg.DefaultUnitPrice, jc.DefaultUnitPrice)

	set(&cfg.ImageAPIBaseURL, jc.ImageAPIBaseURL)
	set(&cfg.PromptModel, jc.PromptModel)
	set(&cfg.ImageModel, jc.ImageModel)
	set(&cfg.ImageRPS, jc.ImageRPS)

	set(&cfg.S3Endpoint, jc.S3Endpoint)
	set(&cfg.S3Region, jc.S3Region)
	set(&cfg.S3Bucket, jc.S3Bucket)
	set(&cfg.S3AccessKey, jc.S3AccessKey)
	set(&cfg.S3SecretKey, jc.S3SecretKey)
	set(&cfg.S3PublicBaseURL, jc.S3PublicBaseURL)
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
