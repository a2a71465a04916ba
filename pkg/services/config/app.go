package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const EnvPrefix = "ATLAS"

type Config struct {
	Logger   LoggerConfig    `mapstructure:"logger"`
	Server   ServerConfig    `mapstructure:"server"`
	Profiles string          `mapstructure:"profiles"`
	DuckDB   DuckDBConfig    `mapstructure:"duckdb"`
	Mappings string          `mapstructure:"mappings"`
	Reports  string          `mapstructure:"reports"`
	Sources  []SourceBinding `mapstructure:"sources"`
	Cache    CacheConfig     `mapstructure:"cache"`
	Digest   DigestConfig    `mapstructure:"digest"`
}

type LoggerConfig struct {
	Level string `mapstructure:"level"`
}

// ZerologLevel parses Level, falling back to info.
func (c LoggerConfig) ZerologLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.Level)
	if err != nil || c.Level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DuckDBConfig struct {
	Path string `mapstructure:"path"`
}

// Source binding kinds.
const (
	KindSQL    = "sql"
	KindFile   = "file"
	KindS3     = "s3"
	KindDuckDB = "duckdb"
)

// SourceBinding tells where the rows of one source type live.
type SourceBinding struct {
	SourceType string `mapstructure:"source_type"`
	Kind       string `mapstructure:"kind"`
	Profile    string `mapstructure:"profile"`
	Table      string `mapstructure:"table"`
	Path       string `mapstructure:"path"`
	Sheet      string `mapstructure:"sheet"`
	Bucket     string `mapstructure:"bucket"`
	Key        string `mapstructure:"key"`
	Region     string `mapstructure:"region"`
	NoCache    bool   `mapstructure:"no_cache"`
}

type CacheConfig struct {
	TTL  time.Duration `mapstructure:"ttl"`
	Size int           `mapstructure:"size"`
}

type DigestConfig struct {
	Report   string        `mapstructure:"report"`
	Interval time.Duration `mapstructure:"interval"`
	Subject  string        `mapstructure:"subject"`
	From     string        `mapstructure:"from"`
	To       []string      `mapstructure:"to"`
	APIKey   string        `mapstructure:"api_key"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("duckdb.path", "sales-atlas.db")
	v.SetDefault("cache.ttl", "5m")
	v.SetDefault("cache.size", 64)
	v.SetDefault("digest.report", "channel_overview")
	v.SetDefault("digest.interval", "24h")
	v.SetDefault("digest.subject", "Daily channel snapshot")
	v.SetDefault("digest.api_key", "")
	v.SetDefault("profiles", "")
	v.SetDefault("mappings", "")
	v.SetDefault("reports", "")
}

// LoadConfig reads the application config from path, if given, and applies
// ATLAS_ prefixed environment overrides (ATLAS_SERVER__PORT for server.port).
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	for _, b := range cfg.Sources {
		if err := b.Validate(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

func (b SourceBinding) Validate() error {
	if b.SourceType == "" {
		return fmt.Errorf("source binding without source_type")
	}
	switch b.Kind {
	case KindSQL:
		if b.Profile == "" || b.Table == "" {
			return fmt.Errorf("source %s: sql binding needs profile and table", b.SourceType)
		}
	case KindFile:
		if b.Path == "" {
			return fmt.Errorf("source %s: file binding needs path", b.SourceType)
		}
	case KindS3:
		if b.Bucket == "" || b.Key == "" {
			return fmt.Errorf("source %s: s3 binding needs bucket and key", b.SourceType)
		}
	case KindDuckDB:
	default:
		return fmt.Errorf("source %s: unknown kind %q", b.SourceType, b.Kind)
	}
	return nil
}

// Binding returns the binding of sourceType.
func (c *Config) Binding(sourceType string) (SourceBinding, bool) {
	for _, b := range c.Sources {
		if b.SourceType == sourceType {
			return b, true
		}
	}
	return SourceBinding{}, false
}
