// Package config loads storefront settings from defaults, an optional YAML
// file, STOREFRONT_* environment variables and command line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const (
	defaultAPIBaseURL   = "http://localhost:8080"
	defaultLogLevel     = "info"
	defaultTimeout      = 10 * time.Second
	defaultStubAddr     = ":8080"
	defaultStubTokenKey = "f53ac685bbceebd75043e6be2e06ee07"
)

// environment variables
const (
	envConfigFile   = "STOREFRONT_CONFIG"
	envAPIBaseURL   = "STOREFRONT_API_URL"
	envTokenFile    = "STOREFRONT_TOKEN_FILE"
	envLogLevel     = "STOREFRONT_LOG_LEVEL"
	envTimeout      = "STOREFRONT_TIMEOUT"
	envStubAddr     = "STOREFRONT_STUB_ADDR"
	envStubTokenKey = "STOREFRONT_STUB_TOKEN_KEY"
)

type Config struct {
	APIBaseURL string        `yaml:"api_url"`
	TokenFile  string        `yaml:"token_file"`
	LogLevel   string        `yaml:"log_level"`
	Timeout    time.Duration `yaml:"timeout"`
	StubAddr   string        `yaml:"stub_addr"`
	// StubTokenKey is the hex encoded key the stub backend signs tokens with.
	StubTokenKey string `yaml:"stub_token_key"`
}

// Default returns config with every field set to its default
func Default() Config {
	return Config{
		APIBaseURL:   defaultAPIBaseURL,
		TokenFile:    defaultTokenFile(),
		LogLevel:     defaultLogLevel,
		Timeout:      defaultTimeout,
		StubAddr:     defaultStubAddr,
		StubTokenKey: defaultStubTokenKey,
	}
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "storefront", "token")
}

// Flags holds the command line overrides registered on a flag set
type Flags struct {
	fs         *pflag.FlagSet
	configFile string
	values     Config
}

// RegisterFlags adds the config flags to fs
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	def := Default()

	fs.StringVarP(&f.configFile, "config", "c", "", "path to YAML config file")
	fs.StringVar(&f.values.APIBaseURL, "api-url", def.APIBaseURL, "base URL of the commerce API")
	fs.StringVar(&f.values.TokenFile, "token-file", def.TokenFile, "file holding the bearer token")
	fs.StringVarP(&f.values.LogLevel, "log-level", "l", def.LogLevel, "log level")
	fs.DurationVar(&f.values.Timeout, "timeout", def.Timeout, "request timeout")
	fs.StringVar(&f.values.StubAddr, "stub-addr", def.StubAddr, "listen address of the stub backend")
	fs.StringVar(&f.values.StubTokenKey, "stub-token-key", def.StubTokenKey, "hex key the stub backend signs tokens with")

	return f
}

// Load builds the config. Only flags set explicitly override file and environment values.
func (f *Flags) Load() (*Config, error) {
	cfg := Default()

	path := f.configFile
	if path == "" {
		path = os.Getenv(envConfigFile)
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	if err := loadEnv(&cfg); err != nil {
		return nil, err
	}

	// if flag is set, then using it
	for name, dst := range map[string]*string{
		"api-url":        &cfg.APIBaseURL,
		"token-file":     &cfg.TokenFile,
		"log-level":      &cfg.LogLevel,
		"stub-addr":      &cfg.StubAddr,
		"stub-token-key": &cfg.StubTokenKey,
	} {
		if flag := f.fs.Lookup(name); flag != nil && flag.Changed {
			*dst = flag.Value.String()
		}
	}
	if f.fs.Changed("timeout") {
		cfg.Timeout = f.values.Timeout
	}

	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}
	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file %s does not exist", path)
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func loadEnv(cfg *Config) error {
	// if environment variable is set, then using it
	for env, dst := range map[string]*string{
		envAPIBaseURL:   &cfg.APIBaseURL,
		envTokenFile:    &cfg.TokenFile,
		envLogLevel:     &cfg.LogLevel,
		envStubAddr:     &cfg.StubAddr,
		envStubTokenKey: &cfg.StubTokenKey,
	} {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv(envTimeout); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envTimeout, err)
		}
		cfg.Timeout = timeout
	}
	return nil
}
