// Package config provides configuration management for the adapter layer.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Config represents the global configuration for adapter operations.
type Config struct {
	// CSV scanning configuration
	NullValues   []string `json:"null_values" yaml:"null_values"`     // Strings treated as null during CSV type inference
	CSVDelimiter string   `json:"csv_delimiter" yaml:"csv_delimiter"` // Field delimiter, single rune (default ",")

	// Semantics configuration
	StrictNulls bool `json:"strict_nulls" yaml:"strict_nulls"` // Reductions with SkipNulls=false return NaN when nulls are present; off skips nulls anyway

	// Debugging configuration
	VerboseLogging bool `json:"verbose_logging" yaml:"verbose_logging"` // Enable structured debug logging
}

// Global configuration instance.
var (
	globalConfig Config
	configMutex  sync.RWMutex
)

func init() {
	globalConfig = NewConfig()
}

// NewConfig creates a new configuration with default values.
func NewConfig() Config {
	return Config{
		NullValues:     []string{"", "null", "NA"},
		CSVDelimiter:   ",",
		StrictNulls:    true,
		VerboseLogging: false,
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if len(c.CSVDelimiter) != 1 {
		return fmt.Errorf("CSVDelimiter must be a single character, got %q", c.CSVDelimiter)
	}
	return nil
}

// WithDefaults returns a new configuration with defaults filled in for zero values.
func (c Config) WithDefaults() Config {
	defaults := NewConfig()

	if c.NullValues == nil {
		c.NullValues = defaults.NullValues
	}
	if c.CSVDelimiter == "" {
		c.CSVDelimiter = defaults.CSVDelimiter
	}

	// Boolean fields are intentionally not defaulted here so an explicit
	// false survives loading. Use NewConfig() for boolean defaults.

	return c
}

// SetGlobalConfig sets the global configuration.
func SetGlobalConfig(config Config) {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = config
}

// GetGlobalConfig returns the current global configuration.
func GetGlobalConfig() Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// LoadFromJSON loads configuration from JSON data.
func LoadFromJSON(data []byte) (Config, error) {
	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parsing JSON configuration: %w", err)
	}
	return config.WithDefaults(), nil
}

// LoadFromFile loads configuration from a JSON or YAML file.
func LoadFromFile(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", filename, err)
	}

	var config Config
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".json":
		err = json.Unmarshal(data, &config)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		return Config{}, fmt.Errorf("unsupported config file format: %s", ext)
	}

	if err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", filename, err)
	}

	return config.WithDefaults(), nil
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() Config {
	config := NewConfig()

	if val := os.Getenv("STDFRAME_NULL_VALUES"); val != "" {
		config.NullValues = strings.Split(val, ";")
	}

	if val := os.Getenv("STDFRAME_CSV_DELIMITER"); val != "" {
		config.CSVDelimiter = val
	}

	if val := os.Getenv("STDFRAME_STRICT_NULLS"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			config.StrictNulls = parsed
		}
	}

	if val := os.Getenv("STDFRAME_VERBOSE_LOGGING"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			config.VerboseLogging = parsed
		}
	}

	return config
}

// IsNullMarker reports whether the given CSV cell text denotes a null value
// under the current global configuration.
func IsNullMarker(value string) bool {
	cfg := GetGlobalConfig()
	for _, marker := range cfg.NullValues {
		if value == marker {
			return true
		}
	}
	return false
}
