package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. BOUNTY_MONGODB_URI.
const EnvPrefix = "BOUNTY"

// Store drivers
const (
	DriverMongoDB  = "mongodb"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Store    StoreConfig    `mapstructure:"store"`
	MongoDB  MongoDBConfig  `mapstructure:"mongodb"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Bounty   BountyConfig   `mapstructure:"bounty"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
}

// StoreConfig selects the persistence backend
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// PostgresConfig holds PostgreSQL-specific configuration
type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

// JWTConfig holds service token configuration. An empty secret disables
// the bearer token check on admin routes.
type JWTConfig struct {
	Secret    string        `mapstructure:"secret"`
	Issuer    string        `mapstructure:"issuer"`
	ExpiresIn time.Duration `mapstructure:"expires_in"`
}

// AuthConfig holds the static part of the admin allowlist
type AuthConfig struct {
	AdminWallets []string `mapstructure:"admin_wallets"`
}

// BountyConfig holds bounty defaults
type BountyConfig struct {
	DefaultTokenSymbol string `mapstructure:"default_token_symbol"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from an optional .env file, config.yaml and
// BOUNTY_-prefixed environment variables, in increasing precedence.
func Load() (*Config, error) {
	LoadDotEnv()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults
	setDefaults(v)

	// Read configuration
	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	config.Server.AllowedOrigins = trimAll(config.Server.AllowedOrigins)
	config.Auth.AdminWallets = trimAll(config.Auth.AdminWallets)
	config.Store.Driver = strings.ToLower(strings.TrimSpace(config.Store.Driver))

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks settings that would otherwise fail later at startup
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMongoDB:
		if c.MongoDB.URI == "" {
			return errors.New("mongodb.uri is required when store.driver is mongodb")
		}
	case DriverPostgres:
		if c.Postgres.DSN == "" {
			return errors.New("postgres.dsn is required when store.driver is postgres")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}
	if c.Server.RequestTimeout <= 0 {
		return errors.New("server.request_timeout must be positive")
	}
	return nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "4000")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.request_timeout", 10*time.Second)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("store.driver", DriverMongoDB)
	v.SetDefault("mongodb.uri", "mongodb://localhost:27017")
	v.SetDefault("mongodb.database", "hosico-bounties")
	v.SetDefault("mongodb.connect_timeout", 10*time.Second)
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "hosico-bounties")
	v.SetDefault("jwt.expires_in", 24*time.Hour)
	v.SetDefault("auth.admin_wallets", []string{})
	v.SetDefault("bounty.default_token_symbol", "HOSICO")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
