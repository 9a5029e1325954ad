// Package config provides configuration loading and validation for the CLI, server and worker.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Defaults applied by MergeWithDefaults and Default.
const (
	DefaultServerPort     = 8080
	DefaultConcurrency    = 8
	DefaultModelTimeout   = 10 * time.Second
	DefaultRateLimit      = 20
	DefaultCacheTTL       = 24 * time.Hour
	DefaultRequestQueue   = "match_requests"
	DefaultUpdateExchange = "match_updates"
	DefaultWorkerPool     = 4
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	// Extraction
	VocabularyPath    string  `json:"vocabulary_path,omitempty"`
	Backend           string  `json:"extraction_backend,omitempty" validate:"omitempty,oneof=none http llm"`
	NEREndpoint       string  `json:"ner_endpoint,omitempty" validate:"omitempty,url"`
	NERToken          string  `json:"ner_token,omitempty"`
	NERRatePerSecond  float64 `json:"ner_rate_per_second,omitempty" validate:"gte=0"`
	APIKey            string  `json:"api_key,omitempty"`                           // Gemini API key
	LLMModel          string  `json:"llm_model,omitempty"`                         // Gemini model for the llm backend
	ModelTimeoutMS    int     `json:"model_timeout_ms,omitempty" validate:"gte=0"` // Per-call recognizer timeout
	SerializeModel    bool    `json:"serialize_model,omitempty"`
	Concurrency       int     `json:"concurrency,omitempty" validate:"gte=0,lte=256"`
	UseBrowser        bool    `json:"use_browser,omitempty"` // Use headless browser for SPA job pages
	Verbose           bool    `json:"verbose,omitempty"`     // Print detailed debug information
	ValidateOutput    bool    `json:"validate_output,omitempty"`
	ResultSchemaPath  string  `json:"result_schema_path,omitempty"`
	MaxJobs           int     `json:"max_jobs,omitempty" validate:"gte=0"`
	DatabaseURL       string  `json:"database_url,omitempty"` // PostgreSQL connection URL
	RedisURL          string  `json:"redis_url,omitempty"`
	CacheTTLSeconds   int     `json:"cache_ttl_seconds,omitempty" validate:"gte=0"`
	ServerPort        int     `json:"server_port,omitempty" validate:"gte=0,lte=65535"`
	RateLimit         float64 `json:"rate_limit,omitempty" validate:"gte=0"` // Requests per second per client
	RabbitMQURL       string  `json:"rabbitmq_url,omitempty"`
	RequestQueue      string  `json:"request_queue,omitempty"`
	UpdateExchange    string  `json:"update_exchange,omitempty"`
	WorkerPoolSize    int     `json:"worker_pool_size,omitempty" validate:"gte=0,lte=128"`
	S3Bucket          string  `json:"s3_bucket,omitempty"`
	S3Region          string  `json:"s3_region,omitempty"`
	S3Endpoint        string  `json:"s3_endpoint,omitempty" validate:"omitempty,url"`
	S3AccessKeyID     string  `json:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string  `json:"s3_secret_access_key,omitempty"`
}

// Default returns a Config holding every default value.
func Default() Config {
	return Config{
		Backend:         "none",
		ModelTimeoutMS:  int(DefaultModelTimeout / time.Millisecond),
		Concurrency:     DefaultConcurrency,
		CacheTTLSeconds: int(DefaultCacheTTL / time.Second),
		ServerPort:      DefaultServerPort,
		RateLimit:       DefaultRateLimit,
		RequestQueue:    DefaultRequestQueue,
		UpdateExchange:  DefaultUpdateExchange,
		WorkerPoolSize:  DefaultWorkerPool,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// It does not check required fields; those are handled by each command.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.Backend == "http" && c.NEREndpoint == "" {
		return fmt.Errorf("config error: 'ner_endpoint' is required for the http extraction backend")
	}

	if c.VocabularyPath != "" {
		if _, err := os.Stat(c.VocabularyPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: vocabulary file not found: %s", c.VocabularyPath)
		}
	}

	return nil
}

// ApplyEnv fills empty fields from environment variables.
func (c *Config) ApplyEnv() {
	setString := func(dst *string, key string) {
		if *dst == "" {
			*dst = os.Getenv(key)
		}
	}
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.APIKey, "GEMINI_API_KEY")
	setString(&c.LLMModel, "GEMINI_MODEL")
	setString(&c.NEREndpoint, "NER_ENDPOINT")
	setString(&c.NERToken, "NER_API_TOKEN")
	setString(&c.Backend, "EXTRACTION_BACKEND")
	setString(&c.VocabularyPath, "VOCABULARY_PATH")
	setString(&c.RedisURL, "REDIS_URL")
	setString(&c.RabbitMQURL, "RABBITMQ_URL")
	setString(&c.S3Bucket, "S3_BUCKET")
	setString(&c.S3Region, "S3_REGION")
	setString(&c.S3Endpoint, "S3_ENDPOINT")
	setString(&c.S3AccessKeyID, "S3_ACCESS_KEY_ID")
	setString(&c.S3SecretAccessKey, "S3_SECRET_ACCESS_KEY")

	if c.ServerPort == 0 {
		if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil {
			c.ServerPort = port
		}
	}
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	mergeString := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	mergeString(&result.VocabularyPath, defaults.VocabularyPath)
	mergeString(&result.Backend, defaults.Backend)
	mergeString(&result.NEREndpoint, defaults.NEREndpoint)
	mergeString(&result.NERToken, defaults.NERToken)
	mergeString(&result.APIKey, defaults.APIKey)
	mergeString(&result.LLMModel, defaults.LLMModel)
	mergeString(&result.ResultSchemaPath, defaults.ResultSchemaPath)
	mergeString(&result.DatabaseURL, defaults.DatabaseURL)
	mergeString(&result.RedisURL, defaults.RedisURL)
	mergeString(&result.RabbitMQURL, defaults.RabbitMQURL)
	mergeString(&result.RequestQueue, defaults.RequestQueue)
	mergeString(&result.UpdateExchange, defaults.UpdateExchange)
	mergeString(&result.S3Bucket, defaults.S3Bucket)
	mergeString(&result.S3Region, defaults.S3Region)
	mergeString(&result.S3Endpoint, defaults.S3Endpoint)
	mergeString(&result.S3AccessKeyID, defaults.S3AccessKeyID)
	mergeString(&result.S3SecretAccessKey, defaults.S3SecretAccessKey)

	// Numeric fields: use default if zero
	if result.NERRatePerSecond == 0 {
		result.NERRatePerSecond = defaults.NERRatePerSecond
	}
	if result.ModelTimeoutMS == 0 {
		result.ModelTimeoutMS = defaults.ModelTimeoutMS
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}
	if result.MaxJobs == 0 {
		result.MaxJobs = defaults.MaxJobs
	}
	if result.CacheTTLSeconds == 0 {
		result.CacheTTLSeconds = defaults.CacheTTLSeconds
	}
	if result.ServerPort == 0 {
		result.ServerPort = defaults.ServerPort
	}
	if result.RateLimit == 0 {
		result.RateLimit = defaults.RateLimit
	}
	if result.WorkerPoolSize == 0 {
		result.WorkerPoolSize = defaults.WorkerPoolSize
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ModelTimeout returns the recognizer timeout as a duration.
func (c *Config) ModelTimeout() time.Duration {
	return time.Duration(c.ModelTimeoutMS) * time.Millisecond
}

// CacheTTL returns the match cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
