package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App       AppConfig                 `yaml:"app"`
	Planner   PlannerConfig             `yaml:"planner"`
	Scraper   ScraperConfig             `yaml:"scraper"`
	Search    SearchConfig              `yaml:"search"`
	SMTP      SMTPConfig                `yaml:"smtp"`
	Providers map[string]ProviderConfig `yaml:"providers"`
	Gateways  map[string]GatewayConfig  `yaml:"gateways"`
	Memory    MemoryConfig              `yaml:"memory"`
	Policy    PolicyConfig              `yaml:"policy"`
}

type AppConfig struct {
	Name      string `yaml:"name"`
	Workspace string `yaml:"workspace"`
	Listen    string `yaml:"listen"`
}

type PlannerConfig struct {
	Mode string `yaml:"mode"` // "rule" or "llm"
}

type ScraperConfig struct {
	Mode string `yaml:"mode"` // "http" or "browser"
}

type SearchConfig struct {
	SerpAPIKey     string `yaml:"serpapi_key"`
	GoogleAPIKey   string `yaml:"google_api_key"`
	GoogleEngineID string `yaml:"google_engine_id"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// Configured reports whether enough is present to actually send mail.
func (s SMTPConfig) Configured() bool {
	return s.Host != "" && s.User != "" && s.Password != ""
}

type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url,omitempty"`
	Enabled bool   `yaml:"enabled"`
}

type GatewayConfig struct {
	Token   string `yaml:"token"`
	Enabled bool   `yaml:"enabled"`
}

type MemoryConfig struct {
	Path string `yaml:"path"`
}

type PolicyConfig struct {
	DeniedTools    []string `yaml:"denied_tools"`
	DeniedPatterns []string `yaml:"denied_patterns"`
}

// Load reads the YAML config at path, fills defaults, and applies
// environment overrides. A missing file is not an error: the agent can run
// entirely from environment variables.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Providers: map[string]ProviderConfig{},
		Gateways:  map[string]GatewayConfig{},
	}

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "sahayak"
	}
	if c.App.Workspace == "" {
		c.App.Workspace = "./workspace"
	}
	if c.App.Listen == "" {
		c.App.Listen = ":8000"
	}
	if c.Planner.Mode == "" {
		c.Planner.Mode = "rule"
	}
	if c.Scraper.Mode == "" {
		c.Scraper.Mode = "http"
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}
	if c.Memory.Path == "" {
		c.Memory.Path = "./sahayak.db"
	}
	if c.Providers == nil {
		c.Providers = map[string]ProviderConfig{}
	}
	if c.Gateways == nil {
		c.Gateways = map[string]GatewayConfig{}
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PLANNER_MODE"); v != "" {
		c.Planner.Mode = v
	}
	if v := os.Getenv("SCRAPER_MODE"); v != "" {
		c.Scraper.Mode = v
	}
	if v := os.Getenv("SERPAPI_KEY"); v != "" {
		c.Search.SerpAPIKey = v
	}
	if v := os.Getenv("GOOGLE_SEARCH_API_KEY"); v != "" {
		c.Search.GoogleAPIKey = v
	}
	if v := os.Getenv("GOOGLE_SEARCH_ENGINE_ID"); v != "" {
		c.Search.GoogleEngineID = v
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		c.SMTP.Host = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.SMTP.Port = p
		}
	}
	if v := os.Getenv("SMTP_USER"); v != "" {
		c.SMTP.User = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		c.SMTP.Password = v
	}
	if v := os.Getenv("DEFAULT_FROM"); v != "" {
		c.SMTP.From = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		p := c.Providers["openai"]
		p.APIKey = v
		p.Enabled = true
		if p.Model == "" {
			p.Model = "gpt-4o-mini"
		}
		c.Providers["openai"] = p
	}
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		g := c.Gateways["telegram"]
		g.Token = v
		g.Enabled = true
		c.Gateways["telegram"] = g
	}
	if v := os.Getenv("DISCORD_TOKEN"); v != "" {
		g := c.Gateways["discord"]
		g.Token = v
		g.Enabled = true
		c.Gateways["discord"] = g
	}
}

// GetDefaultProvider returns the first enabled LLM provider, preferring
// openai when several are enabled.
func (c *Config) GetDefaultProvider() (string, ProviderConfig) {
	if p, ok := c.Providers["openai"]; ok && p.Enabled {
		return "openai", p
	}
	for name, p := range c.Providers {
		if p.Enabled {
			return name, p
		}
	}
	return "", ProviderConfig{}
}

// GetGateway returns the named gateway config if enabled and usable.
func (c *Config) GetGateway(name string) (GatewayConfig, bool) {
	g, ok := c.Gateways[name]
	if ok && g.Enabled && g.Token != "" {
		return g, true
	}
	return GatewayConfig{}, false
}
