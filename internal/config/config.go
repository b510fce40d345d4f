package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the project-level configuration file.
const FileName = "rlsboot.yaml"

// Config captures how the toolchain is verified and how the server is launched.
type Config struct {
	Version int           `yaml:"version"`
	Rustup  RustupConfig  `yaml:"rustup"`
	Server  ServerConfig  `yaml:"server"`
	Consent ConsentConfig `yaml:"consent"`
}

// RustupConfig names the toolchain manager, channel and required components.
type RustupConfig struct {
	Binary     string   `yaml:"binary"`
	Channel    string   `yaml:"channel"`
	Components []string `yaml:"components,omitempty"`
}

// ServerConfig describes the language server launched once ready.
type ServerConfig struct {
	Binary   string            `yaml:"binary"`
	Args     []string          `yaml:"args,omitempty"`
	Env      map[string]string `yaml:"env,omitempty"`
	EnvFiles []string          `yaml:"env_files,omitempty"`
}

// ConsentConfig sets the default answer policy for install offers.
type ConsentConfig struct {
	Policy string `yaml:"policy"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Version: 1,
		Rustup: RustupConfig{
			Binary:     "rustup",
			Channel:    "nightly",
			Components: []string{"rust-analysis", "rust-src", "rls"},
		},
		Server: ServerConfig{
			Binary: "rls",
		},
		Consent: ConsentConfig{
			Policy: "ask",
		},
	}
}

// Load reads the YAML configuration from disk if it exists, otherwise returns
// the default configuration. Env files are resolved relative to projectRoot.
func Load(path, projectRoot string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			cfg.ApplyDefaults()
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	cfg.applyEnvOverrides()
	if err := cfg.loadEnvFiles(projectRoot); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyDefaults fills fields the YAML omitted.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if c.Version == 0 {
		c.Version = defaults.Version
	}
	if strings.TrimSpace(c.Rustup.Binary) == "" {
		c.Rustup.Binary = defaults.Rustup.Binary
	}
	if strings.TrimSpace(c.Rustup.Channel) == "" {
		c.Rustup.Channel = defaults.Rustup.Channel
	}
	if len(c.Rustup.Components) == 0 {
		c.Rustup.Components = defaults.Rustup.Components
	}
	if strings.TrimSpace(c.Server.Binary) == "" {
		c.Server.Binary = defaults.Server.Binary
	}
	if strings.TrimSpace(c.Consent.Policy) == "" {
		c.Consent.Policy = defaults.Consent.Policy
	}
}

// EnvRustup overrides rustup.binary when set.
const EnvRustup = "RLSBOOT_RUSTUP"

func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv(EnvRustup)); v != "" {
		c.Rustup.Binary = v
	}
}

// ServerEnv overlays the configured server env onto base. base is not
// modified.
func (c Config) ServerEnv(base map[string]string) map[string]string {
	env := make(map[string]string, len(base)+len(c.Server.Env))
	for k, v := range base {
		env[k] = v
	}
	for k, v := range c.Server.Env {
		env[k] = v
	}
	return env
}

// Marshal returns the YAML encoding of the configuration.
func (c Config) Marshal() ([]byte, error) {
	buf, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return buf, nil
}
