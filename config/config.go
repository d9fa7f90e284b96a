// Package config loads the activity service configuration.
//
// Settings are layered: built-in defaults, then an optional YAML file, then a
// .env file, then environment variables. The result is validated before it is
// returned; every failure is an *activity.ConfigurationError.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/fitness-app/activityservice/activity"
	clientsmongo "github.com/fitness-app/activityservice/features/activity/mongo/clients/mongo"
	"github.com/fitness-app/activityservice/features/mongo/provider"
)

const (
	// DefaultURI addresses a local MongoDB and names the activity database.
	DefaultURI = "mongodb://localhost:27017/fitnessactivity"
	// DefaultDatabase is the database holding activity documents.
	DefaultDatabase = "fitnessactivity"
	// DefaultHTTPAddr is the listen address of the health endpoint.
	DefaultHTTPAddr = ":8082"
	// DefaultTimeout bounds individual store operations.
	DefaultTimeout = 5 * time.Second
)

// Environment variables read by Load.
const (
	EnvMongoURI        = "ACTIVITY_MONGO_URI"
	EnvMongoDatabase   = "ACTIVITY_MONGO_DATABASE"
	EnvMongoCollection = "ACTIVITY_MONGO_COLLECTION"
	EnvMongoTimeout    = "ACTIVITY_MONGO_TIMEOUT"
	EnvHTTPAddr        = "ACTIVITY_HTTP_ADDR"
	EnvDebug           = "ACTIVITY_DEBUG"
)

type (
	// Config is the complete service configuration.
	Config struct {
		Mongo Mongo `yaml:"mongo"`
		HTTP  HTTP  `yaml:"http"`
		// Debug enables debug logs.
		Debug bool `yaml:"debug"`
	}

	// Mongo configures the document store.
	Mongo struct {
		// URI is the connection string, e.g. mongodb://host:port/database.
		URI string `yaml:"uri" validate:"required"`
		// Database names the database. Defaults to the database in URI.
		Database string `yaml:"database" validate:"required"`
		// Collection names the activity collection.
		Collection string `yaml:"collection" validate:"required"`
		// Timeout bounds individual store operations.
		Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
	}

	// HTTP configures the health endpoint.
	HTTP struct {
		Addr string `yaml:"addr" validate:"required"`
	}
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Mongo: Mongo{
			URI:        DefaultURI,
			Collection: clientsmongo.DefaultCollection,
			Timeout:    DefaultTimeout,
		},
		HTTP: HTTP{Addr: DefaultHTTPAddr},
	}
}

// Load builds the configuration. path names an optional YAML file; envFiles
// name dotenv files to load (".env" when none is given). Missing dotenv files
// are ignored.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, &activity.ConfigurationError{Field: "file", Err: err}
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, &activity.ConfigurationError{Field: "file", Err: fmt.Errorf("parse %s: %w", path, err)}
		}
	}
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, &activity.ConfigurationError{Field: "env", Err: fmt.Errorf("load %s: %w", f, err)}
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Mongo.Database == "" {
		db, err := provider.DatabaseFromURI(cfg.Mongo.URI)
		if err != nil {
			return Config{}, err
		}
		if db == "" {
			db = DefaultDatabase
		}
		cfg.Mongo.Database = db
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that all required settings are present.
func (c Config) Validate() error {
	err := validator.New(validator.WithRequiredStructEnabled()).Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &activity.ConfigurationError{
			Field: strings.ToLower(strings.TrimPrefix(fe.Namespace(), "Config.")),
			Err:   fmt.Errorf("failed %q validation", fe.Tag()),
		}
	}
	return &activity.ConfigurationError{Field: "config", Err: err}
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvMongoURI); v != "" {
		cfg.Mongo.URI = v
	}
	if v := os.Getenv(EnvMongoDatabase); v != "" {
		cfg.Mongo.Database = v
	}
	if v := os.Getenv(EnvMongoCollection); v != "" {
		cfg.Mongo.Collection = v
	}
	if v := os.Getenv(EnvMongoTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return &activity.ConfigurationError{Field: EnvMongoTimeout, Err: err}
		}
		cfg.Mongo.Timeout = d
	}
	if v := os.Getenv(EnvHTTPAddr); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv(EnvDebug); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return &activity.ConfigurationError{Field: EnvDebug, Err: err}
		}
		cfg.Debug = b
	}
	return nil
}
