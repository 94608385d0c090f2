// Package config provides centralized configuration loaded from an optional
// config.yaml, a .env file and environment variables. Shared by cmd/api and
// cmd/playermap.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix prefixes every environment override, e.g. TOPINA_ESPN_DELAY.
const EnvPrefix = "TOPINA"

// --------------------------------------------------------------------------
// Table names — single source of truth, matches the migrations
// --------------------------------------------------------------------------

const (
	PlayerRefsTable   = "player_image_refs"
	CoverageRunsTable = "coverage_runs"
)

// --------------------------------------------------------------------------
// Config struct
// --------------------------------------------------------------------------

type Config struct {
	Environment string         `mapstructure:"environment"` // development, staging, production
	Paths       PathsConfig    `mapstructure:"paths"`
	Sleeper     SleeperConfig  `mapstructure:"sleeper"`
	ESPN        ESPNConfig     `mapstructure:"espn"`
	Validate    ValidateConfig `mapstructure:"validate"`
	Database    DatabaseConfig `mapstructure:"database"`
	API         APIConfig      `mapstructure:"api"`
	Log         LogConfig      `mapstructure:"log"`
}

// PathsConfig locates the file-based stores.
type PathsConfig struct {
	Roster       string `mapstructure:"roster"`
	Overrides    string `mapstructure:"overrides"`
	GeneratedMap string `mapstructure:"generated_map"`
	PlayerMap    string `mapstructure:"player_map"`
	TeamAbbr     string `mapstructure:"team_abbr"`
	TeamIDs      string `mapstructure:"team_ids"`
	DraftDir     string `mapstructure:"draft_dir"`
	Report       string `mapstructure:"report"`
}

// SleeperConfig selects the cross-reference field read from roster records.
type SleeperConfig struct {
	XRefField string `mapstructure:"xref_field"`
}

// ESPNConfig tunes the search client and image templating.
type ESPNConfig struct {
	SearchURL    string        `mapstructure:"search_url"`
	ImageHost    string        `mapstructure:"image_host"`
	Limit        int           `mapstructure:"limit"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Delay        time.Duration `mapstructure:"delay"`
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`
	UserAgent    string        `mapstructure:"user_agent"`
}

// ValidateConfig drives the coverage run.
type ValidateConfig struct {
	Strict      bool   `mapstructure:"strict"`
	SeasonFrom  int    `mapstructure:"season_from"`
	SeasonTo    int    `mapstructure:"season_to"`
	DraftSource string `mapstructure:"draft_source"` // remote REST base; empty reads paths.draft_dir
}

// DatabaseConfig configures the Postgres pool.
type DatabaseConfig struct {
	URL          string        `mapstructure:"url"`
	PoolMinConns int           `mapstructure:"pool_min_conns"`
	PoolMaxConns int           `mapstructure:"pool_max_conns"`
	PoolMaxLife  time.Duration `mapstructure:"pool_max_life"`
}

// APIConfig configures the read API server.
type APIConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	CORSAllowOrigins  []string      `mapstructure:"cors_allow_origins"`
	RateLimitEnabled  bool          `mapstructure:"rate_limit_enabled"`
	RateLimitRequests int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow   time.Duration `mapstructure:"rate_limit_window"`
	CacheEnabled      bool          `mapstructure:"cache_enabled"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
}

// LogConfig selects logger level and encoding ("json" or "console").
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration with sensible defaults. A missing config.yaml or
// .env is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	// Hosting platforms inject the unprefixed names.
	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv("DATABASE_URL")
	}
	if port := os.Getenv("PORT"); port != "" && os.Getenv(EnvPrefix+"_API_PORT") == "" {
		v.Set("api.port", port)
		cfg.API.Port = v.GetInt("api.port")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("paths.roster", "sleeper_players.json")
	v.SetDefault("paths.overrides", "data/manual_overrides.js")
	v.SetDefault("paths.generated_map", "data/sleeper_map.js")
	v.SetDefault("paths.player_map", "data/player_map.js")
	v.SetDefault("paths.team_abbr", "data/team_abbr.yaml")
	v.SetDefault("paths.team_ids", "data/team_ids.yaml")
	v.SetDefault("paths.draft_dir", "data/draft")
	v.SetDefault("paths.report", "validation_report.json")

	v.SetDefault("sleeper.xref_field", "espn_id")

	v.SetDefault("espn.search_url", "https://site.api.espn.com/apis/common/v3/search")
	v.SetDefault("espn.image_host", "a.espncdn.com")
	v.SetDefault("espn.limit", 5)
	v.SetDefault("espn.timeout", 5*time.Second)
	v.SetDefault("espn.delay", 50*time.Millisecond)
	v.SetDefault("espn.probe_timeout", 3*time.Second)
	v.SetDefault("espn.user_agent", "Mozilla/5.0")

	v.SetDefault("validate.strict", false)
	v.SetDefault("validate.season_from", 2019)
	v.SetDefault("validate.season_to", 2025)
	v.SetDefault("validate.draft_source", "")

	v.SetDefault("database.url", "")
	v.SetDefault("database.pool_min_conns", 2)
	v.SetDefault("database.pool_max_conns", 10)
	v.SetDefault("database.pool_max_life", 30*time.Minute)

	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8000)
	v.SetDefault("api.cors_allow_origins", []string{
		"http://localhost:3000",
		"http://localhost:5173",
	})
	v.SetDefault("api.rate_limit_enabled", true)
	v.SetDefault("api.rate_limit_requests", 100)
	v.SetDefault("api.rate_limit_window", time.Minute)
	v.SetDefault("api.cache_enabled", true)
	v.SetDefault("api.cache_ttl", 5*time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// RequireDatabase fails when no database URL is configured.
func (c *Config) RequireDatabase() error {
	if c.Database.URL == "" {
		return eris.New("config: TOPINA_DATABASE_URL or DATABASE_URL must be set")
	}
	return nil
}

// NewLogger builds a zap logger from cfg.
func NewLogger(cfg LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, eris.Wrap(err, "config: build logger")
	}
	return logger, nil
}
