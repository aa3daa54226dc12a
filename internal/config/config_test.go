package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mcncl/respexample/internal/materializer"
	"github.com/mcncl/respexample/internal/synthesizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_DefaultValues(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, 3, cfg.Synthesis.ArrayCount)
	assert.False(t, cfg.Synthesis.Randomize)
	assert.Equal(t, 64, cfg.Synthesis.MaxDepth)
	assert.Equal(t, "<?>", cfg.Synthesis.UnknownToken)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, 2, cfg.Output.Indent)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_DefaultsMatchLibrary(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, synthesizer.DefaultArrayCount, cfg.Synthesis.ArrayCount)
	assert.Equal(t, synthesizer.DefaultMaxDepth, cfg.Synthesis.MaxDepth)
	assert.Equal(t, materializer.DefaultUnknownToken, cfg.Synthesis.UnknownToken)
}

func TestConfig_LoadFromYAML(t *testing.T) {
	yamlContent := `
synthesis:
  array_count: 1
  randomize: true
  seed: 42
  max_depth: 10
  unknown_token: "UNKNOWN"
output:
  format: yaml
  indent: 4
log:
  level: debug
  format: json
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0644))

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Synthesis.ArrayCount)
	assert.True(t, cfg.Synthesis.Randomize)
	assert.Equal(t, int64(42), cfg.Synthesis.Seed)
	assert.Equal(t, 10, cfg.Synthesis.MaxDepth)
	assert.Equal(t, "UNKNOWN", cfg.Synthesis.UnknownToken)
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.Equal(t, 4, cfg.Output.Indent)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestConfig_PartialYAMLKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("output:\n  format: yaml\n"), 0644))

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.Equal(t, 2, cfg.Output.Indent)
	assert.Equal(t, 3, cfg.Synthesis.ArrayCount)
	assert.Equal(t, "<?>", cfg.Synthesis.UnknownToken)
}

func TestConfig_LoadErrors(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(tmpDir, "missing.yml"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(tmpDir, "bad.yml")
		require.NoError(t, os.WriteFile(path, []byte("synthesis: [unclosed"), 0644))
		_, err := LoadConfig(path)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("invalid values", func(t *testing.T) {
		path := filepath.Join(tmpDir, "invalid.yml")
		require.NoError(t, os.WriteFile(path, []byte("synthesis:\n  array_count: -2\n"), 0644))
		_, err := LoadConfig(path)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "array_count")
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"zero array count", func(c *Config) { c.Synthesis.ArrayCount = 0 }, ""},
		{"negative array count", func(c *Config) { c.Synthesis.ArrayCount = -1 }, "array_count"},
		{"zero depth", func(c *Config) { c.Synthesis.MaxDepth = 0 }, "max_depth"},
		{"yml alias", func(c *Config) { c.Output.Format = "yml" }, ""},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, "output.format"},
		{"bad indent", func(c *Config) { c.Output.Indent = 12 }, "output.indent"},
		{"bad log format", func(c *Config) { c.Log.Format = "logfmt" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Apply(t *testing.T) {
	t.Run("no overrides keeps values", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Apply(NoOverrides())
		assert.Equal(t, NewConfig(), cfg)
	})

	t.Run("set overrides win", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Apply(Overrides{
			Format:     "yaml",
			Indent:     0,
			ArrayCount: 0,
			Randomize:  true,
			Seed:       7,
			MaxDepth:   5,
			LogLevel:   "debug",
			LogFormat:  "json",
		})

		assert.Equal(t, "yaml", cfg.Output.Format)
		assert.Equal(t, 0, cfg.Output.Indent)
		assert.Equal(t, 0, cfg.Synthesis.ArrayCount)
		assert.True(t, cfg.Synthesis.Randomize)
		assert.Equal(t, int64(7), cfg.Synthesis.Seed)
		assert.Equal(t, 5, cfg.Synthesis.MaxDepth)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "json", cfg.Log.Format)
	})
}

func TestLoadConfigWithCLI(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "respexample.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("synthesis:\n  array_count: 1\noutput:\n  format: yaml\n"), 0644))

	t.Run("file values without overrides", func(t *testing.T) {
		cfg, err := LoadConfigWithCLI(configPath, NoOverrides())
		require.NoError(t, err)
		assert.Equal(t, 1, cfg.Synthesis.ArrayCount)
		assert.Equal(t, "yaml", cfg.Output.Format)
	})

	t.Run("CLI overrides file", func(t *testing.T) {
		overrides := NoOverrides()
		overrides.ArrayCount = 5
		overrides.Format = "json"

		cfg, err := LoadConfigWithCLI(configPath, overrides)
		require.NoError(t, err)
		assert.Equal(t, 5, cfg.Synthesis.ArrayCount)
		assert.Equal(t, "json", cfg.Output.Format)
	})

	t.Run("no config file", func(t *testing.T) {
		cfg, err := LoadConfigWithCLI("", NoOverrides())
		require.NoError(t, err)
		assert.Equal(t, NewConfig(), cfg)
	})

	t.Run("invalid override", func(t *testing.T) {
		overrides := NoOverrides()
		overrides.Format = "toml"

		_, err := LoadConfigWithCLI("", overrides)
		assert.Error(t, err)
	})
}

func TestFindConfigFile(t *testing.T) {
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(originalDir) }()

	root := t.TempDir()
	nested := filepath.Join(root, "api", "v1")
	require.NoError(t, os.MkdirAll(nested, 0755))
	configPath := filepath.Join(root, ".respexample.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("output:\n  indent: 4\n"), 0644))

	require.NoError(t, os.Chdir(nested))

	found := FindConfigFile()
	resolvedFound, err := filepath.EvalSymlinks(found)
	require.NoError(t, err)
	resolvedExpected, err := filepath.EvalSymlinks(configPath)
	require.NoError(t, err)
	assert.Equal(t, resolvedExpected, resolvedFound)
}
