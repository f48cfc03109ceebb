package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP           HTTPConfig           `yaml:"http"`
	Upstream       UpstreamConfig       `yaml:"upstream"`
	Catalog        CatalogConfig        `yaml:"catalog"`
	Recommendation RecommendationConfig `yaml:"recommendation"`
	Location       LocationConfig       `yaml:"location"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	// TrustedProxies lists the proxy IPs or CIDRs whose X-Forwarded-For is honoured.
	TrustedProxies []string        `yaml:"trustedProxies"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// UpstreamConfig holds the third-party API settings.
type UpstreamConfig struct {
	Timeout     time.Duration    `yaml:"timeout"`
	Resilience  ResilienceConfig `yaml:"resilience"`
	OpenWeather APIConfig        `yaml:"openWeather"`
	AirVisual   APIConfig        `yaml:"airVisual"`
	IPInfo      APIConfig        `yaml:"ipinfo"`
	NASAAPIKey  string           `yaml:"nasaApiKey"`
}

// APIConfig is the base URL and credential of one upstream API.
type APIConfig struct {
	BaseURL string `yaml:"baseUrl"`
	APIKey  string `yaml:"apiKey"`
}

// ResilienceConfig tunes retries and the circuit breaker wrapped around upstream calls.
type ResilienceConfig struct {
	MaxRetries      int           `yaml:"maxRetries"`
	InitialInterval time.Duration `yaml:"initialInterval"`
	MaxInterval     time.Duration `yaml:"maxInterval"`
	BreakerTimeout  time.Duration `yaml:"breakerTimeout"`
	BreakerFailures uint32        `yaml:"breakerFailures"`
}

// CatalogConfig selects the plant store and its seed data.
type CatalogConfig struct {
	Postgres PostgresConfig `yaml:"postgres"`
	Seed     SeedConfig     `yaml:"seed"`
	Search   SearchConfig   `yaml:"search"`
}

// SearchConfig bounds catalog search requests.
type SearchConfig struct {
	Limit          int `yaml:"limit"`
	MaxQueryLength int `yaml:"maxQueryLength"`
	MaxTags        int `yaml:"maxTags"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// SeedConfig points at the catalog seed file, either on disk or in an S3 compatible bucket.
type SeedConfig struct {
	Enabled bool              `yaml:"enabled"`
	Path    string            `yaml:"path"`
	Object  ObjectStoreConfig `yaml:"object"`
}

// ObjectStoreConfig locates a single object in S3/R2/MinIO.
type ObjectStoreConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Key       string `yaml:"key"`
	Region    string `yaml:"region"`
}

// Enabled reports whether the seed should be read from object storage.
func (o ObjectStoreConfig) Enabled() bool {
	return strings.TrimSpace(o.Endpoint) != "" && strings.TrimSpace(o.Bucket) != ""
}

// RecommendationConfig bounds the scoring pass.
type RecommendationConfig struct {
	MaxCandidates  int `yaml:"maxCandidates"`
	MaxResults     int `yaml:"maxResults"`
	MaxPreferences int `yaml:"maxPreferences"`
}

// LocationConfig controls the IP geolocation cache.
type LocationConfig struct {
	CacheSize int           `yaml:"cacheSize"`
	CacheTTL  time.Duration `yaml:"cacheTtl"`
	Redis     RedisConfig   `yaml:"redis"`
}

// RedisConfig contains connection information for cache storage.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Load reads configuration from an optional .env file, a YAML file and environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	} else if v := os.Getenv("PORT"); v != "" {
		if strings.HasPrefix(v, ":") {
			cfg.HTTP.Address = v
		} else {
			cfg.HTTP.Address = ":" + v
		}
	}
	if v := os.Getenv("FRONTEND_ORIGIN"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v, ok := os.LookupEnv("HTTP_TRUSTED_PROXIES"); ok {
		cfg.HTTP.TrustedProxies = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_ENABLED"); v != "" {
		cfg.HTTP.Retry.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RETRY_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Retry.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_BASE_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.Retry.BaseBackoff = parsed
		}
	}
	if v := os.Getenv("UPSTREAM_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Upstream.Timeout = parsed
		}
	}
	if v := os.Getenv("OPENWEATHER_API_KEY"); v != "" {
		cfg.Upstream.OpenWeather.APIKey = v
	}
	if v := os.Getenv("OPENWEATHER_BASE_URL"); v != "" {
		cfg.Upstream.OpenWeather.BaseURL = v
	}
	if v := os.Getenv("AIRVISUAL_API_KEY"); v != "" {
		cfg.Upstream.AirVisual.APIKey = v
	}
	if v := os.Getenv("AIRVISUAL_BASE_URL"); v != "" {
		cfg.Upstream.AirVisual.BaseURL = v
	}
	if v := os.Getenv("IPINFO_TOKEN"); v != "" {
		cfg.Upstream.IPInfo.APIKey = v
	}
	if v := os.Getenv("IPINFO_BASE_URL"); v != "" {
		cfg.Upstream.IPInfo.BaseURL = v
	}
	if v := os.Getenv("NASA_API_KEY"); v != "" {
		cfg.Upstream.NASAAPIKey = v
	}
	if v := os.Getenv("CATALOG_POSTGRES_DSN"); v != "" {
		cfg.Catalog.Postgres.DSN = v
	}
	if v := os.Getenv("CATALOG_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Catalog.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("CATALOG_SEED_ENABLED"); v != "" {
		cfg.Catalog.Seed.Enabled = parseBool(v)
	}
	if v := os.Getenv("CATALOG_SEED_PATH"); v != "" {
		cfg.Catalog.Seed.Path = v
	}
	if v := os.Getenv("CATALOG_SEED_S3_ENDPOINT"); v != "" {
		cfg.Catalog.Seed.Object.Endpoint = v
	}
	if v := os.Getenv("CATALOG_SEED_S3_ACCESS_KEY"); v != "" {
		cfg.Catalog.Seed.Object.AccessKey = v
	}
	if v := os.Getenv("CATALOG_SEED_S3_SECRET_KEY"); v != "" {
		cfg.Catalog.Seed.Object.SecretKey = v
	}
	if v := os.Getenv("CATALOG_SEED_S3_BUCKET"); v != "" {
		cfg.Catalog.Seed.Object.Bucket = v
	}
	if v := os.Getenv("CATALOG_SEED_S3_KEY"); v != "" {
		cfg.Catalog.Seed.Object.Key = v
	}
	if v := os.Getenv("RECOMMENDATION_MAX_RESULTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Recommendation.MaxResults = parsed
		}
	}
	if v := os.Getenv("RECOMMENDATION_MAX_CANDIDATES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Recommendation.MaxCandidates = parsed
		}
	}
	if v := os.Getenv("LOCATION_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Location.CacheTTL = parsed
		}
	}
	if v := os.Getenv("LOCATION_REDIS_ENABLED"); v != "" {
		cfg.Location.Redis.Enabled = parseBool(v)
	}
	if v := os.Getenv("LOCATION_REDIS_ADDR"); v != "" {
		cfg.Location.Redis.Addr = v
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:        ":4000",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   30 * time.Second,
			AllowedOrigins: []string{"http://localhost:3000"},
			TrustedProxies: []string{"127.0.0.1", "::1"},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             60,
			},
			Retry: RetryConfig{
				Enabled:     false,
				MaxAttempts: 2,
				BaseBackoff: 200 * time.Millisecond,
				Exclude: []string{
					"/api/health",
				},
			},
		},
		Upstream: UpstreamConfig{
			Timeout: 10 * time.Second,
			Resilience: ResilienceConfig{
				MaxRetries:      1,
				InitialInterval: 300 * time.Millisecond,
				MaxInterval:     2 * time.Second,
				BreakerTimeout:  time.Minute,
				BreakerFailures: 5,
			},
			OpenWeather: APIConfig{BaseURL: "https://api.openweathermap.org/data/2.5/weather"},
			AirVisual:   APIConfig{BaseURL: "https://api.airvisual.com/v2/nearest_city"},
			IPInfo:      APIConfig{BaseURL: "https://ipinfo.io/json"},
		},
		Catalog: CatalogConfig{
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
			Seed: SeedConfig{
				Enabled: true,
				Path:    "configs/plants.seed.json",
				Object: ObjectStoreConfig{
					Key:    "plants.seed.json",
					Region: "us-east-1",
				},
			},
			Search: SearchConfig{
				Limit:          50,
				MaxQueryLength: 64,
				MaxTags:        10,
			},
		},
		Recommendation: RecommendationConfig{
			MaxCandidates:  500,
			MaxResults:     20,
			MaxPreferences: 10,
		},
		Location: LocationConfig{
			CacheSize: 1024,
			CacheTTL:  time.Hour,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.Upstream.Timeout <= 0 {
		return errors.New("upstream.timeout must be positive")
	}
	if c.Upstream.Resilience.MaxRetries < 0 {
		return errors.New("upstream.resilience.maxRetries cannot be negative")
	}
	if c.Upstream.Resilience.InitialInterval <= 0 {
		return errors.New("upstream.resilience.initialInterval must be positive")
	}
	if strings.TrimSpace(c.Upstream.OpenWeather.BaseURL) == "" {
		return errors.New("upstream.openWeather.baseUrl cannot be empty")
	}
	if strings.TrimSpace(c.Upstream.AirVisual.BaseURL) == "" {
		return errors.New("upstream.airVisual.baseUrl cannot be empty")
	}
	if strings.TrimSpace(c.Upstream.IPInfo.BaseURL) == "" {
		return errors.New("upstream.ipinfo.baseUrl cannot be empty")
	}
	if c.Recommendation.MaxCandidates <= 0 {
		return errors.New("recommendation.maxCandidates must be positive")
	}
	if c.Recommendation.MaxResults <= 0 {
		return errors.New("recommendation.maxResults must be positive")
	}
	if c.Recommendation.MaxPreferences <= 0 {
		return errors.New("recommendation.maxPreferences must be positive")
	}
	if c.Catalog.Search.Limit <= 0 {
		return errors.New("catalog.search.limit must be positive")
	}
	if c.Catalog.Search.MaxQueryLength <= 0 {
		return errors.New("catalog.search.maxQueryLength must be positive")
	}
	if c.Location.CacheSize <= 0 {
		return errors.New("location.cacheSize must be positive")
	}
	if c.Location.CacheTTL < 0 {
		return errors.New("location.cacheTtl cannot be negative")
	}
	if c.Location.Redis.Enabled && strings.TrimSpace(c.Location.Redis.Addr) == "" {
		return errors.New("location.redis.addr cannot be empty when redis cache is enabled")
	}
	if c.Catalog.Seed.Object.Enabled() && strings.TrimSpace(c.Catalog.Seed.Object.Key) == "" {
		return errors.New("catalog.seed.object.key cannot be empty when object storage is configured")
	}
	for _, proxy := range c.HTTP.TrustedProxies {
		if net.ParseIP(proxy) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(proxy); err != nil {
			return fmt.Errorf("http.trustedProxies: invalid entry %q", proxy)
		}
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	return nil
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
