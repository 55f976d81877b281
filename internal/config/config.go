package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is used when -config is not provided and the file exists.
	DefaultConfigPath = "podsum.yaml"

	defaultEndpoint        = "http://localhost:5000/summarize"
	defaultClientTimeout   = 2 * time.Minute
	defaultServerAddr      = ":5000"
	defaultLLMProvider     = "ollama"
	defaultOllamaHost      = "http://localhost:11434"
	defaultOllamaModel     = "ministral-3:latest"
	defaultOpenAIModel     = "gpt-4o-mini"
	defaultWhisperModel    = "whisper-1"
	defaultCacheTTL        = 24 * time.Hour
	defaultLogLevel        = "info"
	defaultShutdownTimeout = 10 * time.Second
)

// Theme selects the initial palette of the terminal UI.
type Theme string

const (
	ThemeAuto  Theme = "auto"
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Config is the root of podsum.yaml.
type Config struct {
	Client  ClientConfig  `yaml:"client"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

type ClientConfig struct {
	Endpoint      string        `yaml:"endpoint"`
	Timeout       time.Duration `yaml:"timeout"`
	Theme         Theme         `yaml:"theme"`
	SpeechCommand []string      `yaml:"speech_command"`
	WatchDir      string        `yaml:"watch_dir"`
	StartDir      string        `yaml:"start_dir"`
}

type ServerConfig struct {
	Addr            string              `yaml:"addr"`
	AllowedOrigins  []string            `yaml:"allowed_origins"`
	ShutdownTimeout time.Duration       `yaml:"shutdown_timeout"`
	Cache           CacheConfig         `yaml:"cache"`
	LLM             LLMConfig           `yaml:"llm"`
	Transcription   TranscriptionConfig `yaml:"transcription"`
}

type CacheConfig struct {
	Dir      string        `yaml:"dir"`
	TTL      time.Duration `yaml:"ttl"`
	Disabled bool          `yaml:"disabled"`
}

type LLMConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
}

type TranscriptionConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns a configuration that works against a local server.
func Default() *Config {
	cfg := &Config{}
	_ = cfg.Validate()
	return cfg
}

// Validate fills defaults and rejects values the programs cannot run with.
func (c *Config) Validate() error {
	c.Client.Endpoint = strings.TrimSpace(c.Client.Endpoint)
	if c.Client.Endpoint == "" {
		c.Client.Endpoint = defaultEndpoint
	}
	if !strings.HasPrefix(c.Client.Endpoint, "http://") && !strings.HasPrefix(c.Client.Endpoint, "https://") {
		return fmt.Errorf("client.endpoint must be an http(s) url, got %q", c.Client.Endpoint)
	}
	if c.Client.Timeout < 0 {
		return fmt.Errorf("client.timeout cannot be negative")
	}
	if c.Client.Timeout == 0 {
		c.Client.Timeout = defaultClientTimeout
	}
	switch Theme(strings.ToLower(string(c.Client.Theme))) {
	case "", ThemeAuto:
		c.Client.Theme = ThemeAuto
	case ThemeDark:
		c.Client.Theme = ThemeDark
	case ThemeLight:
		c.Client.Theme = ThemeLight
	default:
		return fmt.Errorf("client.theme must be auto, dark or light, got %q", c.Client.Theme)
	}

	if c.Server.Addr == "" {
		c.Server.Addr = defaultServerAddr
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = defaultShutdownTimeout
	}
	if c.Server.Cache.TTL == 0 {
		c.Server.Cache.TTL = defaultCacheTTL
	}

	c.Server.LLM.Provider = strings.ToLower(strings.TrimSpace(c.Server.LLM.Provider))
	switch c.Server.LLM.Provider {
	case "":
		c.Server.LLM.Provider = defaultLLMProvider
		fallthrough
	case "ollama":
		if c.Server.LLM.Endpoint == "" {
			c.Server.LLM.Endpoint = defaultOllamaHost
		}
		if c.Server.LLM.Model == "" {
			c.Server.LLM.Model = defaultOllamaModel
		}
	case "openai":
		if c.Server.LLM.Model == "" {
			c.Server.LLM.Model = defaultOpenAIModel
		}
	default:
		return fmt.Errorf("server.llm.provider must be ollama or openai, got %q", c.Server.LLM.Provider)
	}
	if c.Server.Transcription.Model == "" {
		c.Server.Transcription.Model = defaultWhisperModel
	}

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	switch c.Logging.Level {
	case "":
		c.Logging.Level = defaultLogLevel
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}
