package config

import (
	"fmt"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "TODO"

// Store backends.
const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
)

const (
	defaultAddr            = "127.0.0.1:8080"
	defaultMongoURI        = "mongodb://localhost:27017"
	defaultLogLevel        = "info"
	defaultLogFormat       = "json"
	defaultShutdownTimeout = 5 * time.Second
)

// Config is the resolved process configuration.
type Config struct {
	Addr            string
	Store           string
	MongoURI        string
	PostgresDSN     string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// BindFlags registers the command line flags Load understands.
func BindFlags(flags *pflag.FlagSet) {
	flags.String("addr", defaultAddr, "HTTP listen address")
	flags.String("store", StoreMongo, "record store backend (mongo or postgres)")
	flags.String("mongo-uri", defaultMongoURI, "MongoDB connection string")
	flags.String("postgres-dsn", "", "Postgres connection string, required when --store=postgres")
	flags.String("log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	flags.String("log-format", defaultLogFormat, "log format (json or text)")
}

// Load resolves configuration from flags, TODO_* environment variables and a
// .env file, in that order of precedence. flags may be nil.
func Load(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("addr", defaultAddr)
	v.SetDefault("store", StoreMongo)
	v.SetDefault("mongo.uri", defaultMongoURI)
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.format", defaultLogFormat)
	v.SetDefault("shutdown.timeout", defaultShutdownTimeout)

	if flags != nil {
		for key, name := range map[string]string{
			"addr":         "addr",
			"store":        "store",
			"mongo.uri":    "mongo-uri",
			"postgres.dsn": "postgres-dsn",
			"log.level":    "log-level",
			"log.format":   "log-format",
		} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := Config{
		Addr:            v.GetString("addr"),
		Store:           strings.ToLower(v.GetString("store")),
		MongoURI:        v.GetString("mongo.uri"),
		PostgresDSN:     v.GetString("postgres.dsn"),
		LogLevel:        v.GetString("log.level"),
		LogFormat:       v.GetString("log.format"),
		ShutdownTimeout: v.GetDuration("shutdown.timeout"),
	}
	return cfg, cfg.Validate()
}

// Validate checks that the configuration can start a server.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	switch c.Store {
	case StoreMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("mongo uri must not be empty")
		}
	case StorePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("postgres dsn is required when store is %q", StorePostgres)
		}
	default:
		return fmt.Errorf("unknown store %q (want %q or %q)", c.Store, StoreMongo, StorePostgres)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}
