package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophbooks/internal/flagx"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable the CLI reads.
const EnvPrefix = "BOOKSTORE_"

// parseEnv overlays Config with BOOKSTORE_* environment variables. The
// dotenv file named by -e or -env is loaded first and must exist; without
// the flag a .env in the working directory is loaded when present. Variables
// already set in the process environment are never overridden by the file.
//
// Malformed numeric values panic.
func parseEnv(cfg *Config) {
	if f := flagx.EnvFile(); f != "" {
		if err := godotenv.Load(f); err != nil {
			panic(err)
		}
	} else {
		_ = godotenv.Load()
	}

	envString(&cfg.APIBaseURL, "API_URL")
	envString(&cfg.DatabasePath, "DATABASE_PATH")
	if v, ok := lookup("REQUEST_TIMEOUT"); ok {
		d, err := parseSeconds(v)
		if err != nil {
			panic(fmt.Errorf("%sREQUEST_TIMEOUT: %w", EnvPrefix, err))
		}
		cfg.RequestTimeout = d
	}
	envString(&cfg.LogLevel, "LOG_LEVEL")
	envParsed(&cfg.PageSize, "PAGE_SIZE", strconv.Atoi)
	envParsed(&cfg.DefaultUnitPrice, "DEFAULT_UNIT_PRICE", func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64)
	})

	envString(&cfg.ImageAPIBaseURL, "IMAGE_API_URL")
	envString(&cfg.PromptModel, "PROMPT_MODEL")
	envString(&cfg.ImageModel, "IMAGE_MODEL")
	envParsed(&cfg.ImageRPS, "IMAGE_RPS", func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})

	envString(&cfg.S3Endpoint, "S3_ENDPOINT")
	envString(&cfg.S3Region, "S3_REGION")
	envString(&cfg.S3Bucket, "S3_BUCKET")
	envString(&cfg.S3AccessKey, "S3_ACCESS_KEY")
	envString(&cfg.S3SecretKey, "S3_SECRET_KEY")
	envString(&cfg.S3PublicBaseURL, "S3_PUBLIC_BASE_URL")
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func envString(dst *string, name string) {
	if v, ok := lookup(name); ok {
		*dst = v
	}
}

func envParsed[T any](dst *T, name string, parse func(string) (T, error)) {
	v, ok := lookup(name)
	if !ok {
		return
	}
	parsed, err := parse(v)
	if err != nil {
		panic(fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
	}
	*dst = parsed
}

// parseSeconds accepts a Go duration ("15s") or a plain number of seconds.
func parseSeconds(s string) (time.Duration, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(s)
}
