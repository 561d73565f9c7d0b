// Package config loads runtime configuration for the bookstore CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables prefixed with BOOKSTORE_, after loading a dotenv
//     file (-e / -env, or ./.env when present).
//  3. Optional JSON file selected via -c or -config.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   bookstore API base URL
//	-d string   local database file
//	-t int      request timeout (seconds)
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so "10s" and integer nanoseconds both work:
//
//	{
//	  "api_base_url": "http://localhost:8080",
//	  "database_path": "gophbooks/client.db",
//	  "request_timeout": "10s",
//	  "log_level": "info",
//	  "page_size": 10,
//	  "default_unit_price": 15000,
//	  "image_api_base_url": "https://api.openai.com/v1",
//	  "prompt_model": "gpt-4o-mini",
//	  "image_model": "dall-e-3",
//	  "image_rps": 1,
//	  "s3_region": "eu-central-1",
//	  "s3_bucket": "covers"
//	}
//
// Environment variables
//
//	BOOKSTORE_API_URL  BOOKSTORE_DATABASE_PATH  BOOKSTORE_REQUEST_TIMEOUT
//	BOOKSTORE_LOG_LEVEL  BOOKSTORE_PAGE_SIZE  BOOKSTORE_DEFAULT_UNIT_PRICE
//	BOOKSTORE_IMAGE_API_URL  BOOKSTORE_PROMPT_MODEL  BOOKSTORE_IMAGE_MODEL
//	BOOKSTORE_IMAGE_RPS  BOOKSTORE_S3_ENDPOINT  BOOKSTORE_S3_REGION
//	BOOKSTORE_S3_BUCKET  BOOKSTORE_S3_ACCESS_KEY  BOOKSTORE_S3_SECRET_KEY
//	BOOKSTORE_S3_PUBLIC_BASE_URL
package config
