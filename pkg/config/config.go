package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ssargent/octet/pkg/codec"
	"gopkg.in/yaml.v3"
)

// Config represents the octet configuration
type Config struct {
	DataDir  string   `yaml:"data_dir"`
	Port     int      `yaml:"port"`
	Bind     string   `yaml:"bind"`
	Security Security `yaml:"security"`
	Codec    Codec    `yaml:"codec"`
	Logging  Logging  `yaml:"logging"`
}

// Security contains security-related configuration
type Security struct {
	APIKey string `yaml:"api_key"`
}

// Codec selects the codec strategies and random sources
type Codec struct {
	Mode            string   `yaml:"mode"`
	UTF8            string   `yaml:"utf8"`
	RandomSources   []string `yaml:"random_sources"`
	MaxRandomLength int      `yaml:"max_random_length"`
}

// Logging contains logging configuration
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultMaxRandomLength caps a single random draw served over the API.
const DefaultMaxRandomLength = 65536

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		DataDir: "./data",
		Port:    8080,
		Bind:    "127.0.0.1",
		Security: Security{
			APIKey: "auto",
		},
		Codec: Codec{
			Mode:            codec.ModeModern.String(),
			UTF8:            codec.StrategyAuto,
			RandomSources:   append([]string(nil), codec.DefaultRandomSources...),
			MaxRandomLength: DefaultMaxRandomLength,
		},
		Logging: Logging{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadConfig loads configuration from the specified path. Fields missing
// from the file keep their default values.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	// Validate path to prevent directory traversal
	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path with secure permissions
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that every field holds a usable value
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	mode, err := codec.ParseMode(c.Codec.Mode)
	if err != nil {
		errs = append(errs, err)
	}
	if _, err := codec.SelectUTF8Codec(c.Codec.UTF8, mode); err != nil {
		errs = append(errs, err)
	}
	for _, name := range c.Codec.RandomSources {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, errors.New("random source names must not be empty"))
			break
		}
	}
	if c.Codec.MaxRandomLength <= 0 || c.Codec.MaxRandomLength > codec.MaxRandomLength {
		errs = append(errs, fmt.Errorf("max_random_length must be in [1, %d], got %d",
			codec.MaxRandomLength, c.Codec.MaxRandomLength))
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Logging.Level))
	}

	return errors.Join(errs...)
}

// ApplyCodec installs the configured mode and UTF-8 strategy as the process
// defaults and returns a random generator over provider.
func (c *Config) ApplyCodec(provider codec.Provider) (*codec.Random, error) {
	mode, err := codec.ParseMode(c.Codec.Mode)
	if err != nil {
		return nil, err
	}
	utf8Codec, err := codec.SelectUTF8Codec(c.Codec.UTF8, mode)
	if err != nil {
		return nil, err
	}

	codec.SetMode(mode)
	codec.SetDefaultUTF8Codec(utf8Codec)

	return codec.NewRandom(provider, mode, c.Codec.RandomSources...), nil
}

// GenerateSecureKey generates a cryptographically secure random key
func GenerateSecureKey(length int) (string, error) {
	bytes := codec.CryptoRandomBytesArray(codec.SystemProvider{}, length)
	if bytes == nil {
		return "", errors.New("failed to generate secure key: no random source available")
	}
	return hex.EncodeToString(bytes), nil
}

// BootstrapConfig creates a new configuration with a generated API key
func BootstrapConfig(configPath string, dataDir string) (*Config, error) {
	config := DefaultConfig()
	if dataDir != "" {
		config.DataDir = dataDir
	}

	apiKey, err := GenerateSecureKey(32) // 256 bits
	if err != nil {
		return nil, fmt.Errorf("failed to generate API key: %w", err)
	}
	config.Security.APIKey = apiKey

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./octet.yaml"
	}

	// For Linux/macOS, use ~/.config/octet/config.yaml
	configDir := filepath.Join(homeDir, ".config", "octet")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
