package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mcncl/respexample/internal/materializer"
	"github.com/mcncl/respexample/internal/synthesizer"
	"gopkg.in/yaml.v3"
)

// Defaults
const (
	DefaultArrayCount   = synthesizer.DefaultArrayCount
	DefaultMaxDepth     = synthesizer.DefaultMaxDepth
	DefaultUnknownToken = materializer.DefaultUnknownToken
	DefaultFormat       = "json"
	DefaultIndent       = 2
	DefaultLogLevel     = "warn"
	DefaultLogFormat    = "text"

	maxIndent = 8
)

// Config represents the complete configuration for respexample
type Config struct {
	Synthesis SynthesisConfig `yaml:"synthesis"`
	Output    OutputConfig    `yaml:"output"`
	Log       LogConfig       `yaml:"log"`
}

// SynthesisConfig controls how examples are synthesized
type SynthesisConfig struct {
	// ArrayCount is one less than the number of generated array elements.
	ArrayCount   int    `yaml:"array_count"`
	Randomize    bool   `yaml:"randomize"`
	Seed         int64  `yaml:"seed"`
	MaxDepth     int    `yaml:"max_depth"`
	UnknownToken string `yaml:"unknown_token"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Format string `yaml:"format"`
	Indent int    `yaml:"indent"`
}

// LogConfig controls diagnostic logging
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Synthesis: SynthesisConfig{
			ArrayCount:   DefaultArrayCount,
			Randomize:    false,
			MaxDepth:     DefaultMaxDepth,
			UnknownToken: DefaultUnknownToken,
		},
		Output: OutputConfig{
			Format: DefaultFormat,
			Indent: DefaultIndent,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".respexample.yml", ".respexample.yaml", "respexample.yml", "respexample.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks that configured values are usable
func (c *Config) Validate() error {
	if c.Synthesis.ArrayCount < 0 {
		return fmt.Errorf("synthesis.array_count must not be negative, got %d", c.Synthesis.ArrayCount)
	}
	if c.Synthesis.MaxDepth <= 0 {
		return fmt.Errorf("synthesis.max_depth must be positive, got %d", c.Synthesis.MaxDepth)
	}

	switch strings.ToLower(c.Output.Format) {
	case "json", "yaml", "yml":
	default:
		return fmt.Errorf("output.format must be json or yaml, got %q", c.Output.Format)
	}
	if c.Output.Indent < 0 || c.Output.Indent > maxIndent {
		return fmt.Errorf("output.indent must be between 0 and %d, got %d", maxIndent, c.Output.Indent)
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json", "":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	return nil
}

// Overrides holds command line values. Zero values (and -1 for counts
// where zero is meaningful) mean "not set".
type Overrides struct {
	Format     string
	Indent     int
	ArrayCount int
	Randomize  bool
	Seed       int64
	MaxDepth   int
	LogLevel   string
	LogFormat  string
}

// NoOverrides returns Overrides with every field unset
func NoOverrides() Overrides {
	return Overrides{Indent: -1, ArrayCount: -1}
}

// Apply copies set override values into the config
func (c *Config) Apply(o Overrides) {
	if o.Format != "" {
		c.Output.Format = o.Format
	}
	if o.Indent >= 0 {
		c.Output.Indent = o.Indent
	}
	if o.ArrayCount >= 0 {
		c.Synthesis.ArrayCount = o.ArrayCount
	}
	if o.Randomize {
		c.Synthesis.Randomize = true
	}
	if o.Seed != 0 {
		c.Synthesis.Seed = o.Seed
	}
	if o.MaxDepth > 0 {
		c.Synthesis.MaxDepth = o.MaxDepth
	}
	if o.LogLevel != "" {
		c.Log.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		c.Log.Format = o.LogFormat
	}
}

// LoadConfigWithCLI loads config with CLI argument precedence
func LoadConfigWithCLI(configPath string, overrides Overrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	cfg.Apply(overrides)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
