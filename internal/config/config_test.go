package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, []string{"", "null", "NA"}, cfg.NullValues)
	assert.Equal(t, ",", cfg.CSVDelimiter)
	assert.True(t, cfg.StrictNulls)
	assert.False(t, cfg.VerboseLogging)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := NewConfig()
	cfg.CSVDelimiter = "||"
	require.Error(t, cfg.Validate())

	cfg.CSVDelimiter = "\t"
	require.NoError(t, cfg.Validate())
}

func TestLoadFromJSON(t *testing.T) {
	data := []byte(`{"null_values": ["", "N/A"], "strict_nulls": false}`)

	cfg, err := LoadFromJSON(data)
	require.NoError(t, err)

	assert.Equal(t, []string{"", "N/A"}, cfg.NullValues)
	assert.False(t, cfg.StrictNulls)
	assert.Equal(t, ",", cfg.CSVDelimiter) // default filled in
}

func TestLoadFromFile(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "csv_delimiter: \";\"\nverbose_logging: true\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg, err := LoadFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, ";", cfg.CSVDelimiter)
		assert.True(t, cfg.VerboseLogging)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("x = 1"), 0o600))

		_, err := LoadFromFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported config file format")
	})
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("STDFRAME_NULL_VALUES", ";NaN")
	t.Setenv("STDFRAME_STRICT_NULLS", "false")

	cfg := LoadFromEnv()
	assert.Equal(t, []string{"", "NaN"}, cfg.NullValues)
	assert.False(t, cfg.StrictNulls)
}

func TestGlobalConfig(t *testing.T) {
	original := GetGlobalConfig()
	defer SetGlobalConfig(original)

	cfg := NewConfig()
	cfg.NullValues = []string{"missing"}
	SetGlobalConfig(cfg)

	assert.True(t, IsNullMarker("missing"))
	assert.False(t, IsNullMarker(""))
}
