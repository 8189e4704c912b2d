// Package config locates and loads belgraph configuration.
//
// Lookup order: an explicit file, else the first existing file among
// SearchPaths. The BELGRAPH_CONNECTION environment variable overrides the
// redis connection from any file and selects the redis backend.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

const (
	// ConnectionEnv holds a redis:// connection string.
	ConnectionEnv = "BELGRAPH_CONNECTION"
	// HomeEnv overrides the belgraph home directory.
	HomeEnv = "BELGRAPH_HOME"

	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type Config struct {
	Backend   string      `yaml:"backend"`
	Redis     RedisConfig `yaml:"redis"`
	LogLevel  string      `yaml:"log_level"`
	GraphFile string      `yaml:"graph_file"`
}

type RedisConfig struct {
	URL string `yaml:"url"`
	DB  int    `yaml:"db"`
}

func Default() Config {
	return Config{
		Backend:  BackendMemory,
		LogLevel: "info",
	}
}

// Home is the belgraph data directory, $BELGRAPH_HOME or ~/.belgraph.
func Home() string {
	if home := os.Getenv(HomeEnv); home != "" {
		return home
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return ".belgraph"
	}
	return filepath.Join(dir, ".belgraph")
}

// SearchPaths lists candidate configuration files in priority order.
func SearchPaths() []string {
	paths := []string{filepath.Join(Home(), "config.yaml")}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths,
			filepath.Join(dir, "belgraph.yaml"),
			filepath.Join(dir, "belgraph", "config.yaml"),
		)
	}
	return paths
}

// Load reads path over the defaults using strict parsing, then applies the
// environment. An empty path yields defaults plus environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to open config: %w", err)
		}
		defer file.Close()

		decoder := yaml.NewDecoder(file)
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("YAML syntax error in config %s: %w", path, err)
		}
		log.Debug("loaded config", "path", path)
	}

	cfg.applyEnv()
	return cfg, cfg.Validate()
}

// Discover loads the first configuration file found in SearchPaths.
func Discover() (Config, error) {
	for _, path := range SearchPaths() {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	log.Debug("no configuration file found, using defaults")
	return Load("")
}

func (c *Config) applyEnv() {
	if connection := os.Getenv(ConnectionEnv); connection != "" {
		log.Info("got environment-defined connection", "connection", connection)
		c.Backend = BackendRedis
		c.Redis.URL = connection
	}
}

func (c Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Redis.URL == "" {
			return errors.New("redis backend needs redis.url or " + ConnectionEnv)
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	return nil
}
