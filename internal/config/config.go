package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/crossings/gridlight/internal/domain"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Batch     BatchConfig     `yaml:"batch"`
	Exclusion ExclusionConfig `yaml:"exclusion"`
	Rules     []RuleConfig    `yaml:"rules"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// DatabaseConfig holds the PostgreSQL connection settings.
type DatabaseConfig struct {
	URL          string `yaml:"url"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

// RedisConfig holds the optional progress-publishing Redis settings.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// BatchConfig holds batch orchestrator settings.
type BatchConfig struct {
	ProgressInterval int `yaml:"progress_interval"` // spots between progress lines
	DefaultLimit     int `yaml:"default_limit"`     // bounded-batch size
	TestRunLimit     int `yaml:"test_run_limit"`
}

// ExclusionConfig holds the pre-check settings for spots that never
// get an assignment.
type ExclusionConfig struct {
	BillCodeKeywords []string `yaml:"bill_code_keywords"`
}

// RuleConfig is one sector business rule from the config file. When no
// rules are configured the built-in default set applies.
type RuleConfig struct {
	Name               string   `yaml:"name"`
	SectorCodes        []string `yaml:"sector_codes"`
	MinDurationMinutes *int     `yaml:"min_duration_minutes"`
	MaxDurationMinutes *int     `yaml:"max_duration_minutes"`
	ResultingIntent    string   `yaml:"resulting_intent"`
	AutoResolve        bool     `yaml:"auto_resolve"`
	Priority           int      `yaml:"priority"`
}

// BusinessRules converts configured rules to domain rules. Returns nil
// when no rules are configured, which callers treat as "use defaults".
func (c *Config) BusinessRules() []domain.BusinessRule {
	if len(c.Rules) == 0 {
		return nil
	}
	out := make([]domain.BusinessRule, 0, len(c.Rules))
	for _, r := range c.Rules {
		out = append(out, domain.BusinessRule{
			Name:               r.Name,
			SectorCodes:        r.SectorCodes,
			MinDurationMinutes: r.MinDurationMinutes,
			MaxDurationMinutes: r.MaxDurationMinutes,
			ResultingIntent:    domain.CustomerIntent(r.ResultingIntent),
			AutoResolve:        r.AutoResolve,
			Priority:           r.Priority,
		})
	}
	return out
}

// Load reads and parses the configuration file, applying defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 2
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Batch.ProgressInterval == 0 {
		cfg.Batch.ProgressInterval = 100
	}
	if cfg.Batch.DefaultLimit == 0 {
		cfg.Batch.DefaultLimit = 5000
	}
	if cfg.Batch.TestRunLimit == 0 {
		cfg.Batch.TestRunLimit = 25
	}
}

// LoadFromEnv loads configuration with environment variable overrides.
// It loads a .env file (if present) before reading env vars, so local
// runs can keep secrets out of config.yaml.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
		cfg.Redis.Enabled = true
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}

	return cfg, nil
}
