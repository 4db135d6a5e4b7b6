package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends for player preferences.
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr      string `yaml:"addr"`
		Password  string `yaml:"password"`
		DB        int    `yaml:"db"`
		TTL       string `yaml:"ttl"`
		Namespace string `yaml:"namespace"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		Bank       string `yaml:"bank"`
		BankPath   string `yaml:"bank_path"`
		BankTTL    string `yaml:"bank_ttl"`
		RoundTicks int    `yaml:"round_ticks"`
		Tick       string `yaml:"tick"`
	} `yaml:"quiz"`
	Storage struct {
		Backend string `yaml:"backend"`
		Path    string `yaml:"path"`
	} `yaml:"storage"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but treats a missing file as an empty config.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	return cfg, err
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
