package infra

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application settings for both the simulation server and
// the CLI. Values loaded from YAML can be overridden through the
// environment (a .env file is honored, mirroring the venue tooling).
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Server struct {
		ListenAddr         string `yaml:"listen_addr"`
		ValidityWindowSec  int    `yaml:"validity_window_sec"`
		FluctuationLower   int    `yaml:"fluctuation_lower"`
		FluctuationUpper   int    `yaml:"fluctuation_upper"`
		DisableFluctuation bool   `yaml:"disable_fluctuation"`
		Seed               int64  `yaml:"seed"`
	} `yaml:"server"`

	Client struct {
		APIURL string `yaml:"api_url"`
		Token  string `yaml:"token"`
	} `yaml:"client"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file, then applies
// environment overrides and validates the result.
func LoadConfig(path string) (*Config, error) {
	// Missing .env is fine; the environment still applies.
	godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server listen_addr is required")
	}
	if c.Server.ValidityWindowSec < 0 {
		return fmt.Errorf("validity window must not be negative")
	}
	if !c.Server.DisableFluctuation && c.Server.FluctuationLower >= c.Server.FluctuationUpper {
		return fmt.Errorf("fluctuation range (%d, %d) is empty",
			c.Server.FluctuationLower, c.Server.FluctuationUpper)
	}
	return nil
}

// overrideWithEnv applies environment variables over the file values.
// Secrets never have to live in the YAML file.
func overrideWithEnv(cfg *Config) {
	if token := os.Getenv("OTC_TOKEN"); token != "" {
		cfg.Client.Token = token
	}
	if url := os.Getenv("OTC_API_URL"); url != "" {
		cfg.Client.APIURL = url
	}
	if addr := os.Getenv("OTC_LISTEN_ADDR"); addr != "" {
		cfg.Server.ListenAddr = addr
	}
}
