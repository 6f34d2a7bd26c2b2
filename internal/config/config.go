package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	Provider    string `toml:"provider"`
	Model       string `toml:"model"`
	BackupModel string `toml:"backup_model"`
	APIKey      string `toml:"api_key"`
	BaseURL     string `toml:"base_url"`
}

type ServerConfig struct {
	Port           string   `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// GenerationConfig bounds the mind-map builder and selects the unlock rule.
// UnlockRule is "parents" (prerequisites must be completed) or "children".
type GenerationConfig struct {
	MaxDepth    int    `toml:"max_depth"`
	MaxChildren int    `toml:"max_children"`
	UnlockRule  string `toml:"unlock_rule"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type Config struct {
	LLM        LLMConfig        `toml:"llm"`
	Server     ServerConfig     `toml:"server"`
	Generation GenerationConfig `toml:"generation"`
	Memgraph   MemgraphConfig   `toml:"memgraph"`
	Redis      RedisConfig      `toml:"redis"`
}

func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    "claude",
			Model:       "claude-3-7-sonnet-20250219",
			BackupModel: "claude-3-sonnet-20240229",
		},
		Server: ServerConfig{
			Port: "8080",
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost:5173",
				"http://localhost:8000",
			},
		},
		Generation: GenerationConfig{
			MaxDepth:    3,
			MaxChildren: 4,
			UnlockRule:  "parents",
		},
	}
}

// Load reads a TOML config file and merges it over the defaults.
// A missing file is not an error; env overrides are applied either way.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config '%s': %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("LLM_BACKUP_MODEL"); v != "" {
		c.LLM.BackupModel = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("MEMGRAPH_URI"); v != "" {
		c.Memgraph.URI = v
	}
	if v := os.Getenv("MEMGRAPH_USER"); v != "" {
		c.Memgraph.User = v
	}
	if v := os.Getenv("MEMGRAPH_PASSWORD"); v != "" {
		c.Memgraph.Password = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
}
