// Package config loads the service configuration: an optional JSON file
// merged with environment variables. Environment wins for credentials so
// that keys never have to live on disk.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/puentesglobales/careermastery/internal/llm"
)

// Config represents the merged careermastery configuration.
type Config struct {
	Server  ServerConfig     `json:"server"`
	Session SessionConfig    `json:"session"`
	Router  llm.RouterConfig `json:"router"`
}

type ServerConfig struct {
	Port int `json:"port"`
}

type SessionConfig struct {
	TimeoutMinutes int    `json:"timeoutMinutes"`
	SweepSpec      string `json:"sweepSpec"`
}

// envKeys maps provider names to the environment variable carrying their
// credential. Matches the original deployment's variable names.
var envKeys = map[string]string{
	"gemini":   "GEMINI_API_KEY",
	"claude":   "ANTHROPIC_API_KEY",
	"deepseek": "DEEPSEEK_API_KEY",
	"openai":   "OPENAI_API_KEY",
}

// Load reads configuration from the given JSON file path (may be empty or
// missing) and overlays credentials from the environment. File values
// override the built-in defaults; environment keys override the file.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server:  ServerConfig{Port: 3080},
		Session: SessionConfig{TimeoutMinutes: 30, SweepSpec: "@every 10m"},
		Router:  llm.DefaultRouterConfig(),
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// No file is fine, defaults plus env carry the service.
		default:
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if port := os.Getenv("PORT"); port != "" {
		var p int
		if _, err := fmt.Sscanf(port, "%d", &p); err == nil && p > 0 {
			cfg.Server.Port = p
		}
	}

	return cfg, nil
}

// applyEnv copies provider credentials from the environment into the router
// config. An empty environment variable leaves the file value alone.
func (c *Config) applyEnv() {
	for name, envKey := range envKeys {
		key := os.Getenv(envKey)
		if key == "" {
			continue
		}
		pc, ok := c.Router.Providers[name]
		if !ok {
			continue
		}
		pc.APIKey = key
		c.Router.Providers[name] = pc
	}
}
