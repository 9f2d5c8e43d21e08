package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for themis.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - LogDir: Directory receiving the incident log.
// - MetricsFile: Optional prometheus textfile written after every command.
// - Match: Mapping table header names.
// - Geocoder: Optional district lookup for addresses the mapping cannot resolve.
// - Convert: Office suite location and per-file bounds.
// - Generate: Spreadsheet column naming the generated documents.
// - Database: Configuration settings for the PostgreSQL database.
type Config struct {
	Env         string         `mapstructure:"env"`
	LogDir      string         `mapstructure:"log_dir"`
	MetricsFile string         `mapstructure:"metrics_file"`
	Match       MatchConfig    `mapstructure:"match"`
	Geocoder    GeocoderConfig `mapstructure:"geocoder"`
	Convert     ConvertConfig  `mapstructure:"convert"`
	Generate    GenerateConfig `mapstructure:"generate"`
	Database    PostgresConfig `mapstructure:"postgres"`
}

// MatchConfig names the columns of the district mapping table.
type MatchConfig struct {
	CourtColumn  string `mapstructure:"court_column"`
	RegionColumn string `mapstructure:"region_column"`
}

// GeocoderConfig selects the fallback geocoding provider.
type GeocoderConfig struct {
	Type      string `mapstructure:"type"`       // none, google or nominatim
	APIKey    string `mapstructure:"api_key"`    // required for google
	RateLimit int    `mapstructure:"rate_limit"` // requests per second
	Language  string `mapstructure:"language"`
}

// ConvertConfig bounds the external office suite.
type ConvertConfig struct {
	OfficePath string        `mapstructure:"office_path"` // explicit soffice path, empty to search
	Timeout    time.Duration `mapstructure:"timeout"`     // per attempt
	Retries    int           `mapstructure:"retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

// GenerateConfig configures document generation.
type GenerateConfig struct {
	FilenameColumn string `mapstructure:"filename_column"`
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `mapstructure:"host"`     // Host is the database server address.
	Port     string `mapstructure:"port"`     // Port is the database server port.
	User     string `mapstructure:"user"`     // User is the database user.
	Password string `mapstructure:"password"` // Password is the database user's password.
	Name     string `mapstructure:"db_name"`  // Name is the name of the database.
}

// Enabled reports whether a database is configured.
func (p PostgresConfig) Enabled() bool {
	return p.Host != ""
}

var defaults = map[string]any{
	"env":                      "production",
	"log_dir":                  "logs",
	"metrics_file":             "",
	"match.court_column":       "基层人民法院",
	"match.region_column":      "管辖区域",
	"geocoder.type":            "none",
	"geocoder.api_key":         "",
	"geocoder.rate_limit":      1,
	"geocoder.language":        "zh-CN",
	"convert.office_path":      "",
	"convert.timeout":          "60s",
	"convert.retries":          1,
	"convert.retry_delay":      "2s",
	"generate.filename_column": "文件名",
	"postgres.host":            "",
	"postgres.port":            "5432",
	"postgres.user":            "",
	"postgres.password":        "",
	"postgres.db_name":         "",
}

// Database settings keep the environment names shared with our other services.
var postgresEnv = map[string]string{
	"postgres.host":     "DB_HOST",
	"postgres.port":     "DB_PORT",
	"postgres.user":     "DB_USERNAME",
	"postgres.password": "DB_PASSWORD",
	"postgres.db_name":  "DB_NAME",
}

// Load reads .env, then the optional config file at path, then THEMIS_*
// environment variables, later sources overriding earlier ones.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix("THEMIS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range postgresEnv {
		if err := v.BindEnv(key, "THEMIS_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error

	if c.Convert.Timeout <= 0 {
		errs = append(errs, errors.New("convert.timeout must be positive"))
	}
	if c.Convert.Retries < 0 {
		errs = append(errs, errors.New("convert.retries must not be negative"))
	}
	switch c.Geocoder.Type {
	case "none", "google", "nominatim":
	default:
		errs = append(errs, fmt.Errorf("unknown geocoder.type %q, want none, google or nominatim", c.Geocoder.Type))
	}

	return errors.Join(errs...)
}
