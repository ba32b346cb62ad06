package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// Default values
	defaultDatasetURL  = "https://bulk.meteostat.net/v2"
	defaultDatasetPath = "/stations/lib.csv.gz"
	defaultMaxAge      = 24 * time.Hour
	defaultMaxThreads  = 4
	defaultHTTPTimeout = 30 * time.Second
	defaultMaxRetries  = 3
)

// Config holds the explicit configuration of the station directory
// service. The zero value is not usable; build one with New or
// LoadFromEnv so defaults are filled in.
type Config struct {
	Environment string
	LogLevel    zerolog.Level
	HTTPTimeout time.Duration
	MaxRetries  int

	// DatasetURL and DatasetPath locate the gzipped station dataset.
	DatasetURL  string
	DatasetPath string

	// S3Bucket, when set, names a mirror bucket holding the dataset
	// under DatasetPath. The mirror is tried before the origin.
	S3Bucket string

	// CacheDir is where downloaded dataset files are kept between runs.
	CacheDir string

	// MaxAge bounds the staleness of cached dataset files and doubles as
	// the inventory matching tolerance: a station whose data-end date is
	// within MaxAge of a requested period end still counts as covered.
	MaxAge time.Duration

	// MaxThreads is the number of workers used to parse dataset rows.
	MaxThreads int
}

type Option func(*Config)

// WithEnvironment allows setting the environment
func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.Environment = env
	}
}

// WithLogLevel allows setting the log level
func WithLogLevel(level string) Option {
	return func(c *Config) {
		parsedLevel, err := zerolog.ParseLevel(level)
		if err != nil {
			parsedLevel = zerolog.InfoLevel
		}
		c.LogLevel = parsedLevel
	}
}

// WithCacheDir allows setting the dataset cache directory
func WithCacheDir(dir string) Option {
	return func(c *Config) {
		c.CacheDir = dir
	}
}

// WithMaxAge allows setting the cache staleness / inventory tolerance
func WithMaxAge(d time.Duration) Option {
	return func(c *Config) {
		c.MaxAge = d
	}
}

// WithMaxThreads allows setting the parser worker count
func WithMaxThreads(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxThreads = n
		}
	}
}

// WithS3Bucket allows setting the dataset mirror bucket
func WithS3Bucket(bucket string) Option {
	return func(c *Config) {
		c.S3Bucket = bucket
	}
}

// New creates a new configuration with default values
func New(opts ...Option) *Config {
	cfg := &Config{
		Environment: "production",
		LogLevel:    zerolog.InfoLevel,
		HTTPTimeout: defaultHTTPTimeout,
		MaxRetries:  defaultMaxRetries,
		DatasetURL:  defaultDatasetURL,
		DatasetPath: defaultDatasetPath,
		CacheDir:    defaultCacheDir(),
		MaxAge:      defaultMaxAge,
		MaxThreads:  defaultMaxThreads,
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	log.Debug().
		Str("DatasetURL", cfg.DatasetURL).
		Str("DatasetPath", cfg.DatasetPath).
		Str("CacheDir", cfg.CacheDir).
		Dur("MaxAge", cfg.MaxAge).
		Int("MaxThreads", cfg.MaxThreads).
		Str("S3Bucket", cfg.S3Bucket).
		Msg("Configuration loaded")

	return cfg
}

// InitializeLogging sets up logging based on the configuration
func (c *Config) InitializeLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(c.LogLevel)

	// Setup console logger for development environments
	if c.Environment == "local" || c.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	return New(
		WithEnvironment(getEnvOrDefault("ENV", "production")),
		WithLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
		WithCacheDir(getEnvOrDefault("STATION_CACHE_DIR", defaultCacheDir())),
		WithMaxAge(getDurationEnvOrDefault("STATION_MAX_AGE", defaultMaxAge)),
		WithMaxThreads(getIntEnvOrDefault("STATION_MAX_THREADS", defaultMaxThreads)),
		WithS3Bucket(getEnvOrDefault("STATION_S3_BUCKET", "")),
		func(c *Config) {
			c.DatasetURL = getEnvOrDefault("STATION_DATASET_URL", defaultDatasetURL)
			c.DatasetPath = getEnvOrDefault("STATION_DATASET_PATH", defaultDatasetPath)
			c.HTTPTimeout = getDurationEnvOrDefault("HTTP_TIMEOUT", defaultHTTPTimeout)
		},
	)
}

func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "stationdir")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Warn().Str("key", key).Msg("Invalid duration value in environment variable, using default")
	}
	return defaultValue
}

func getIntEnvOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Msg("Invalid integer value in environment variable, using default")
	}
	return defaultValue
}
