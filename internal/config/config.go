package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Output kinds
const (
	KindEntity = "entity"
	KindModel  = "model"
)

// Config represents the complete configuration for dartyper
type Config struct {
	ClassName  string           `yaml:"class_name"`
	Formatting FormattingConfig `yaml:"formatting"`
	Types      TypesConfig      `yaml:"types"`
	Naming     NamingConfig     `yaml:"naming"`
	Output     OutputConfig     `yaml:"output"`
	Dev        DevConfig        `yaml:"dev"`
}

// FormattingConfig controls the cosmetic spacing pass
type FormattingConfig struct {
	Enabled bool `yaml:"enabled"`
}

// TypesConfig controls type inference
type TypesConfig struct {
	// BoolLists types arrays of booleans as List<bool>; off, they are List<dynamic>.
	BoolLists bool `yaml:"bool_lists"`
}

// NamingConfig controls class, field and file naming
type NamingConfig struct {
	Singularizer     string `yaml:"singularizer"`
	CamelCaseFields  bool   `yaml:"camel_case_fields"`
	SnakeCaseImports bool   `yaml:"snake_case_imports"`
}

// OutputConfig controls where and what gets written
type OutputConfig struct {
	Dir     string   `yaml:"dir"`
	Kinds   []string `yaml:"kinds"`
	Workers int      `yaml:"workers"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Formatting: FormattingConfig{
			Enabled: true,
		},
		Types: TypesConfig{
			BoolLists: true,
		},
		Naming: NamingConfig{
			Singularizer:     "suffix",
			CamelCaseFields:  false,
			SnakeCaseImports: false,
		},
		Output: OutputConfig{
			Kinds:   []string{KindEntity, KindModel},
			Workers: 4,
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

// Validate checks enumerated settings
func (c *Config) Validate() error {
	switch c.Naming.Singularizer {
	case "suffix", "inflect":
	default:
		return fmt.Errorf("invalid singularizer '%s': want suffix or inflect", c.Naming.Singularizer)
	}
	for _, kind := range c.Output.Kinds {
		if kind != KindEntity && kind != KindModel {
			return fmt.Errorf("invalid output kind '%s': want %s or %s", kind, KindEntity, KindModel)
		}
	}
	if c.Output.Workers < 0 {
		return fmt.Errorf("invalid worker count %d", c.Output.Workers)
	}
	return nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".dartyper.yml", ".dartyper.yaml", "dartyper.yml", "dartyper.yaml"}

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
			break
		}
		currentDir = parentDir
	}

	return ""
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file '%s': %w", path, err)
	}
	return nil
}

// ParseKinds expands a CLI kind selector ("all", "entity", "model").
// An empty selector means all.
func ParseKinds(selector string) ([]string, error) {
	switch strings.ToLower(strings.TrimSpace(selector)) {
	case KindEntity:
		return []string{KindEntity}, nil
	case KindModel:
		return []string{KindModel}, nil
	case "all", "":
		return []string{KindEntity, KindModel}, nil
	default:
		return nil, fmt.Errorf("invalid kind '%s': want all, %s or %s", selector, KindEntity, KindModel)
	}
}

// Overrides carries values given on the command line or in the environment.
// Empty strings and nil pointers leave the file value in place.
type Overrides struct {
	ClassName string
	OutputDir string
	Kind      string
	Format    *bool
	Debug     bool
}

// LoadConfigWithCLI loads the config file (if any) and applies CLI overrides on top.
func LoadConfigWithCLI(configPath string, o Overrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if o.ClassName != "" {
		cfg.ClassName = o.ClassName
	}
	if o.OutputDir != "" {
		cfg.Output.Dir = o.OutputDir
	}
	if o.Kind != "" {
		kinds, err := ParseKinds(o.Kind)
		if err != nil {
			return nil, err
		}
		cfg.Output.Kinds = kinds
	}
	if o.Format != nil {
		cfg.Formatting.Enabled = *o.Format
	}
	if o.Debug {
		cfg.Dev.Debug = true
	}

	return cfg, nil
}
