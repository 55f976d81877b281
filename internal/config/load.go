package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML file at path, applies environment overrides and validates the result.
// A missing file at DefaultConfigPath is not an error; any other missing path is.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = DefaultConfigPath
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(data, cfg); err != nil {
			return nil, fmt.Errorf("decode config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(cfg, os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func applyEnv(cfg *Config, getenv func(string) string) {
	if v := strings.TrimSpace(getenv("PODSUM_ENDPOINT")); v != "" {
		cfg.Client.Endpoint = v
	}
	if v := strings.TrimSpace(getenv("PODSUM_LOG_LEVEL")); v != "" {
		cfg.Logging.Level = v
	}
	if usesOllama(cfg.Server.LLM.Provider) {
		if v := strings.TrimRight(strings.TrimSpace(getenv("OLLAMA_HOST")), "/"); v != "" && cfg.Server.LLM.Endpoint == "" {
			cfg.Server.LLM.Endpoint = v
		}
		if v := strings.TrimSpace(getenv("OLLAMA_MODEL")); v != "" && cfg.Server.LLM.Model == "" {
			cfg.Server.LLM.Model = v
		}
	}
	if v := strings.TrimSpace(getenv("OPENAI_API_KEY")); v != "" {
		if cfg.Server.LLM.APIKey == "" {
			cfg.Server.LLM.APIKey = v
		}
		if cfg.Server.Transcription.APIKey == "" {
			cfg.Server.Transcription.APIKey = v
		}
	}
}

// usesOllama reports whether provider resolves to the Ollama backend. Empty means the default.
func usesOllama(provider string) bool {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", "ollama":
		return true
	}
	return false
}
