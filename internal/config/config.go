package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/claude/lungecoach/internal/engine"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Tuning    TuningConfig    `yaml:"tuning"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// TuningConfig overrides the engine thresholds. Zero-valued fields keep the
// defaults, so a config file only needs to name what it changes.
type TuningConfig struct {
	VisibilityThreshold float64 `yaml:"visibility_threshold"`
	MinKneeSeparation   float64 `yaml:"min_knee_separation"`
	AlignmentThreshold  float64 `yaml:"alignment_threshold"`
	EnterThreshold      float64 `yaml:"enter_threshold"`
	ExitThreshold       float64 `yaml:"exit_threshold"`
	SmoothingWindow     int     `yaml:"smoothing_window"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// EngineTuning merges the overrides onto the engine defaults.
func (t TuningConfig) EngineTuning() engine.Tuning {
	tuning := engine.DefaultTuning()
	if t.VisibilityThreshold != 0 {
		tuning.VisibilityThreshold = t.VisibilityThreshold
	}
	if t.MinKneeSeparation != 0 {
		tuning.MinKneeSeparation = t.MinKneeSeparation
	}
	if t.AlignmentThreshold != 0 {
		tuning.AlignmentThreshold = t.AlignmentThreshold
	}
	if t.EnterThreshold != 0 {
		tuning.EnterThreshold = t.EnterThreshold
	}
	if t.ExitThreshold != 0 {
		tuning.ExitThreshold = t.ExitThreshold
	}
	if t.SmoothingWindow != 0 {
		tuning.SmoothingWindow = t.SmoothingWindow
	}
	return tuning
}

// Load reads config from a YAML file, then applies environment variable
// overrides. Env vars use the prefix LUNGECOACH_ and underscore-separated
// paths:
//
//	LUNGECOACH_SERVER_HOST, LUNGECOACH_SERVER_PORT,
//	LUNGECOACH_DB_HOST, LUNGECOACH_DB_PORT, LUNGECOACH_DB_NAME,
//	LUNGECOACH_DB_USER, LUNGECOACH_DB_PASSWORD, LUNGECOACH_DB_SSLMODE,
//	LUNGECOACH_AUTH_API_KEY
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LUNGECOACH_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("LUNGECOACH_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("LUNGECOACH_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("LUNGECOACH_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("LUNGECOACH_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("LUNGECOACH_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("LUNGECOACH_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("LUNGECOACH_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("LUNGECOACH_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if err := c.Tuning.EngineTuning().Validate(); err != nil {
		return fmt.Errorf("tuning: %w", err)
	}
	return nil
}
