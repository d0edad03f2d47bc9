// Package config handles loading and parsing application configuration.
// The YAML file path comes from (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// Every key can be overridden by the environment variable named in its
// env:"..." tag. A .env file in the working directory, when present, is
// loaded into the environment first.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Storage driver names accepted by storage.driver.
const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Config is the root configuration structure.
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	Storage    `yaml:"storage"`
	HTTPServer `yaml:"http_server"`
}

// Storage selects and configures the persistence backend.
type Storage struct {
	// Driver is one of "mongo", "sqlite", "memory".
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"mongo"`

	// Path is the SQLite database file, used only by the sqlite driver.
	Path string `yaml:"path" env:"STORAGE_PATH" env-default:"storage/persons.db"`

	Mongo Mongo `yaml:"mongo"`
}

// Mongo holds the document store connection settings.
type Mongo struct {
	// URI, when set, wins over Host and Port.
	URI        string        `yaml:"uri"        env:"MONGO_URI"`
	Host       string        `yaml:"host"       env:"MONGO_HOST"       env-default:"localhost"`
	Port       string        `yaml:"port"       env:"MONGO_PORT"       env-default:"27017"`
	Database   string        `yaml:"database"   env:"MONGO_DATABASE"   env-default:"test"`
	Collection string        `yaml:"collection" env:"MONGO_COLLECTION" env-default:"persondatas"`
	Timeout    time.Duration `yaml:"timeout"    env:"MONGO_TIMEOUT"    env-default:"5s"`
}

// ConnectionURI returns the mongodb:// URI the client connects to.
func (m Mongo) ConnectionURI() string {
	if m.URI != "" {
		return m.URI
	}
	return "mongodb://" + net.JoinHostPort(m.Host, m.Port)
}

// HTTPServer holds settings specific to the HTTP server.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:3000".
	Addr         string        `yaml:"address"       env:"HTTP_SERVER_ADDR"          env-default:"localhost:3000"`
	ReadTimeout  time.Duration `yaml:"read_timeout"  env:"HTTP_SERVER_READ_TIMEOUT"  env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_SERVER_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"  env:"HTTP_SERVER_IDLE_TIMEOUT"  env-default:"60s"`

	// RateLimit is the allowed requests per second per client IP.
	// Zero disables limiting.
	RateLimit float64 `yaml:"rate_limit" env:"HTTP_SERVER_RATE_LIMIT" env-default:"0"`
	RateBurst int     `yaml:"rate_burst" env:"HTTP_SERVER_RATE_BURST" env-default:"20"`
}

// Load reads the YAML file at path, applies env overrides and defaults,
// and validates the result.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverMongo:
		if c.Storage.Mongo.Database == "" || c.Storage.Mongo.Collection == "" {
			return errors.New("storage.mongo: database and collection are required")
		}
	case DriverSQLite:
		if c.Storage.Path == "" {
			return errors.New("storage.path is required for the sqlite driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.HTTPServer.RateLimit < 0 {
		return errors.New("http_server.rate_limit must not be negative")
	}

	return nil
}

// MustLoad reads, validates, and returns the application config.
// Functions prefixed with "Must" exit on failure: if this returns, the
// config is valid.
func MustLoad() *Config {
	// A missing .env file is fine; real deployments set the environment.
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err.Error())
	}

	return cfg
}
