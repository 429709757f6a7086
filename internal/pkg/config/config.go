package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Search    SearchConfig    `mapstructure:"search"`
	Page      PageConfig      `mapstructure:"page"`
	Location  LocationConfig  `mapstructure:"location"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int32  `mapstructure:"max_conns"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// StorageConfig selects the parking store. A non-empty SeedFile serves
// parkings from memory instead of PostGIS.
type StorageConfig struct {
	SeedFile string `mapstructure:"seed_file"`
}

// SearchConfig bounds the parking search API.
type SearchConfig struct {
	DefaultRadius float64 `mapstructure:"default_radius"`
	MaxRadius     float64 `mapstructure:"max_radius"`
	MaxResults    int     `mapstructure:"max_results"`
}

// PageConfig holds the search page defaults.
type PageConfig struct {
	Endpoint        string  `mapstructure:"endpoint"`
	Radius          string  `mapstructure:"radius"`
	ResultLimit     int     `mapstructure:"result_limit"`
	Zoom            int     `mapstructure:"zoom"`
	FallbackLat     float64 `mapstructure:"fallback_lat"`
	FallbackLon     float64 `mapstructure:"fallback_lon"`
	SearchTimeoutMs int     `mapstructure:"search_timeout_ms"`
	FallbackMessage string  `mapstructure:"fallback_message"`
}

// LocationConfig picks the position source for the page.
// Provider is one of "ip", "static", "denied" or "none".
type LocationConfig struct {
	Provider     string  `mapstructure:"provider"`
	URL          string  `mapstructure:"url"`
	Lat          float64 `mapstructure:"lat"`
	Lon          float64 `mapstructure:"lon"`
	MaxRetries   int     `mapstructure:"max_retries"`
	RetryDelayMs int     `mapstructure:"retry_delay_ms"`
	TimeoutMs    int     `mapstructure:"timeout_ms"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var locationProviders = map[string]bool{"ip": true, "static": true, "denied": true, "none": true}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	return LoadFile(service, "")
}

// LoadFile is Load with an explicit config file. An empty path searches
// the default locations.
func LoadFile(service, path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, service)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		_ = v.ReadInConfig() // OK if missing
	}

	// Environment variables: PUMPEDCITY_DATABASE_HOST → database.host
	v.SetEnvPrefix("PUMPEDCITY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, service string) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "pumped")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "pumpedcity")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("storage.seed_file", "")
	v.SetDefault("search.default_radius", 500)
	v.SetDefault("search.max_radius", 5000)
	v.SetDefault("search.max_results", 50)
	v.SetDefault("page.endpoint", "http://localhost:8080/api/v1/parkings")
	v.SetDefault("page.radius", "500")
	v.SetDefault("page.result_limit", 5)
	v.SetDefault("page.zoom", 14)
	v.SetDefault("page.fallback_lat", 57.708659)
	v.SetDefault("page.fallback_lon", 11.972188)
	v.SetDefault("page.search_timeout_ms", 10000)
	v.SetDefault("page.fallback_message", "Ett okänt fel har uppstått")
	v.SetDefault("location.provider", "ip")
	v.SetDefault("location.url", "")
	v.SetDefault("location.lat", 0)
	v.SetDefault("location.lon", 0)
	v.SetDefault("location.max_retries", 3)
	v.SetDefault("location.retry_delay_ms", 1000)
	v.SetDefault("location.timeout_ms", 5000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Database.Host == "" {
		errs = append(errs, "database.host is required")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
	}
	if c.Database.User == "" {
		errs = append(errs, "database.user is required")
	}
	if c.Database.DBName == "" {
		errs = append(errs, "database.dbname is required")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Search.MaxRadius <= 0 {
		errs = append(errs, "search.max_radius must be positive")
	}
	if c.Search.DefaultRadius <= 0 || c.Search.DefaultRadius > c.Search.MaxRadius {
		errs = append(errs, fmt.Sprintf("search.default_radius must be in (0, %g], got %g", c.Search.MaxRadius, c.Search.DefaultRadius))
	}
	if c.Search.MaxResults <= 0 {
		errs = append(errs, "search.max_results must be positive")
	}
	if c.Page.Endpoint == "" {
		errs = append(errs, "page.endpoint is required")
	}
	if c.Page.ResultLimit <= 0 {
		errs = append(errs, "page.result_limit must be positive")
	}
	if c.Page.FallbackLat < -90 || c.Page.FallbackLat > 90 || c.Page.FallbackLon < -180 || c.Page.FallbackLon > 180 {
		errs = append(errs, "page fallback coordinate out of range")
	}
	if !locationProviders[c.Location.Provider] {
		errs = append(errs, fmt.Sprintf("location.provider must be ip, static, denied or none, got %q", c.Location.Provider))
	}
	if c.Location.MaxRetries < 0 {
		errs = append(errs, "location.max_retries must not be negative")
	}
	if c.Location.RetryDelayMs < 0 {
		errs = append(errs, "location.retry_delay_ms must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
