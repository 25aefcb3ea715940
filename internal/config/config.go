package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const defaultFile = "sedump.yaml"

type Config struct {
	DataPath    string `yaml:"data_path"`
	SiteList    string `yaml:"site_list"`
	DBPath      string `yaml:"db_path"`
	Concurrency int    `yaml:"concurrency"`
}

func Default() Config {
	return Config{
		DataPath:    "./data",
		SiteList:    "site.list",
		DBPath:      "se.db",
		Concurrency: 3,
	}
}

// Load resolves configuration from, in increasing precedence: defaults, a
// YAML file, environment variables. path may be empty, in which case
// sedump.yaml is read when present and silently skipped otherwise; an
// explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = defaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file; defaults apply.
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg.DataPath = getEnv("SEDUMP_DATA_PATH", cfg.DataPath)
	cfg.SiteList = getEnv("SEDUMP_SITE_LIST", cfg.SiteList)
	cfg.DBPath = getEnv("SEDUMP_DB_PATH", cfg.DBPath)
	cfg.Concurrency = getEnvInt("SEDUMP_CONCURRENCY", cfg.Concurrency)

	if cfg.Concurrency <= 0 {
		return Config{}, fmt.Errorf("concurrency must be positive, got %d", cfg.Concurrency)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
