package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/windlant/mcp-toolbridge/internal/errs"
)

const (
	DefaultPath     = "config/config.yaml"
	DefaultEnvFile  = ".env"
	DefaultModel    = "claude-3-7-sonnet-20250219"
	DefaultTimeout  = 60 * time.Second
	DefaultLogLevel = "warn"
)

// Model providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderDeepSeek  = "deepseek"
)

type Config struct {
	APIKey  string        `yaml:"api_key"`
	Model   ModelConfig   `yaml:"model"`
	Server  ServerConfig  `yaml:"server"`
	Timeout time.Duration `yaml:"timeout"`
	Log     LogConfig     `yaml:"log"`
}

type ModelConfig struct {
	Provider  string `yaml:"provider"`
	ModelName string `yaml:"model_name"`
	BaseURL   string `yaml:"base_url"`
}

type ServerConfig struct {
	ScriptPath string            `yaml:"script_path"`
	Args       []string          `yaml:"args"`
	Env        map[string]string `yaml:"env"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func Default() Config {
	return Config{
		Model: ModelConfig{
			Provider: ProviderAnthropic,
		},
		Timeout: DefaultTimeout,
		Log:     LogConfig{Level: DefaultLogLevel},
	}
}

// Path returns the config file location: MCP_CLIENT_CONFIG or config/config.yaml.
func Path() string {
	if p := os.Getenv("MCP_CLIENT_CONFIG"); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads the YAML file at path (a missing file yields defaults), loads
// envFiles into the process environment without overriding variables that
// are already set, then applies environment overrides. The result is not
// validated; call Validate.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, errs.Config("read config %s: %v", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errs.Config("parse config %s: %v", path, err)
		}
	}

	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Config("load env file %s: %v", f, err)
		}
	}

	cfg.applyEnv()
	if cfg.Model.ModelName == "" {
		cfg.Model.ModelName = defaultModel(cfg.Model.Provider)
	}
	return &cfg, nil
}

func defaultModel(provider string) string {
	switch strings.ToLower(provider) {
	case ProviderOpenAI:
		return "gpt-4o"
	case ProviderDeepSeek:
		return "deepseek-chat"
	default:
		return DefaultModel
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv(c.apiKeyEnv()); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("MCP_SERVER_SCRIPT_PATH"); v != "" {
		c.Server.ScriptPath = v
	}
	if v := os.Getenv("MCP_CLIENT_MODEL"); v != "" {
		c.Model.ModelName = v
	}
	if v := os.Getenv("MCP_CLIENT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// apiKeyEnv names the environment variable holding the provider's credential.
func (c *Config) apiKeyEnv() string {
	switch strings.ToLower(c.Model.Provider) {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderDeepSeek:
		return "DEEPSEEK_API_KEY"
	default:
		return "ANTHROPIC_API_KEY"
	}
}

// Validate reports the first missing or invalid required setting as a
// ConfigError.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Model.Provider) {
	case ProviderAnthropic, ProviderOpenAI, ProviderDeepSeek:
	default:
		return errs.Config("unknown model provider %q", c.Model.Provider)
	}
	if c.APIKey == "" {
		return errs.Config("%s is not set", c.apiKeyEnv())
	}
	if c.Server.ScriptPath == "" {
		return errs.Config("MCP_SERVER_SCRIPT_PATH is not set")
	}
	if c.Timeout <= 0 {
		return errs.Config("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}

// ServerEnv is the child process environment: ours plus server.env.
func (c *Config) ServerEnv() []string {
	env := os.Environ()
	for k, v := range c.Server.Env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	return env
}
