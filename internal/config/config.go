package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Coast     CoastConfig
	Mapbox    MapboxConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Search    SearchConfig
	Dashboard DashboardConfig
	Log       LogConfig
	Worker    WorkerConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

// CoastConfig describes the upstream NC COAST counts API.
type CoastConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

type MapboxConfig struct {
	BaseURL        string
	AccessToken    string
	RequestTimeout time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	CountersCacheTTL time.Duration
	CountsCacheTTL   time.Duration
	GeocodeCacheTTL  time.Duration
}

type SearchConfig struct {
	DebounceDelay time.Duration
	MinAddressLen int
	TempMarkerTTL time.Duration
}

type DashboardConfig struct {
	BaseURL string
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled         bool
	RefreshInterval time.Duration
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// Missing .env is fine in containerized deployments where
	// everything comes from the environment.
	_ = viper.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Coast: CoastConfig{
			BaseURL:        viper.GetString("COAST_API_BASE_URL"),
			RequestTimeout: time.Duration(viper.GetInt("COAST_API_TIMEOUT")) * time.Second,
		},
		Mapbox: MapboxConfig{
			BaseURL:        viper.GetString("MAPBOX_BASE_URL"),
			AccessToken:    viper.GetString("MAPBOX_ACCESS_TOKEN"),
			RequestTimeout: time.Duration(viper.GetInt("MAPBOX_REQUEST_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			CountersCacheTTL: time.Duration(viper.GetInt("COUNTERS_CACHE_TTL")) * time.Second,
			CountsCacheTTL:   time.Duration(viper.GetInt("COUNTS_CACHE_TTL")) * time.Second,
			GeocodeCacheTTL:  time.Duration(viper.GetInt("GEOCODE_CACHE_TTL")) * time.Second,
		},
		Search: SearchConfig{
			DebounceDelay: time.Duration(viper.GetInt("SEARCH_DEBOUNCE_MS")) * time.Millisecond,
			MinAddressLen: viper.GetInt("SEARCH_MIN_ADDRESS_LEN"),
			TempMarkerTTL: time.Duration(viper.GetInt("TEMP_MARKER_TTL")) * time.Second,
		},
		Dashboard: DashboardConfig{
			BaseURL: viper.GetString("DASHBOARD_BASE_URL"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:         viper.GetBool("WORKER_ENABLED"),
			RefreshInterval: time.Duration(viper.GetInt("WORKER_REFRESH_INTERVAL")) * time.Second,
		},
	}

	// Set default values if not provided
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Coast.BaseURL == "" {
		cfg.Coast.BaseURL = "http://localhost:8000"
	}
	if cfg.Coast.RequestTimeout == 0 {
		cfg.Coast.RequestTimeout = 15 * time.Second
	}
	if cfg.Mapbox.BaseURL == "" {
		cfg.Mapbox.BaseURL = "https://api.mapbox.com"
	}
	if cfg.Mapbox.RequestTimeout == 0 {
		cfg.Mapbox.RequestTimeout = 10 * time.Second
	}
	if cfg.Cache.CountersCacheTTL == 0 {
		cfg.Cache.CountersCacheTTL = 5 * time.Minute
	}
	if cfg.Cache.CountsCacheTTL == 0 {
		cfg.Cache.CountsCacheTTL = 10 * time.Minute
	}
	if cfg.Cache.GeocodeCacheTTL == 0 {
		cfg.Cache.GeocodeCacheTTL = 24 * time.Hour
	}
	if cfg.Search.DebounceDelay == 0 {
		cfg.Search.DebounceDelay = 300 * time.Millisecond
	}
	if cfg.Search.MinAddressLen == 0 {
		cfg.Search.MinAddressLen = 3
	}
	if cfg.Search.TempMarkerTTL == 0 {
		cfg.Search.TempMarkerTTL = 10 * time.Second
	}
	if cfg.Worker.RefreshInterval == 0 {
		cfg.Worker.RefreshInterval = 15 * time.Minute
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// CacheEnabled reports whether a Redis cache is configured at all.
func (c *Config) CacheEnabled() bool {
	return c.Redis.Host != ""
}
