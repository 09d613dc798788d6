package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/verolang/verogen/internal/domain"
)

// Config is the top-level configuration struct.
type Config struct {
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Generate GenerateConfig `yaml:"generate"`
	Plan     PlanConfig     `yaml:"plan"`
	Store    StoreConfig    `yaml:"store"`
	Logging  LoggingConfig  `yaml:"logging"`
	DryRun   bool           `yaml:"dry_run"`
}

type InputConfig struct {
	Directories []string `yaml:"directories"`
	Include     []string `yaml:"include"`
	Exclude     []string `yaml:"exclude"`
	Recursive   *bool    `yaml:"recursive"` // pointer to distinguish unset from false
}

type OutputConfig struct {
	Directory           string `yaml:"directory"`
	PagesDir            string `yaml:"pages_dir"`
	TestsDir            string `yaml:"tests_dir"`
	FixturesDir         string `yaml:"fixtures_dir"`
	CleanBeforeGenerate bool   `yaml:"clean_before_generate"`
}

type GenerateConfig struct {
	BaseURL  string `yaml:"base_url"`
	DataFile string `yaml:"data_file"`
	Debug    bool   `yaml:"debug"`
}

type PlanConfig struct {
	Format string `yaml:"format"` // "markdown" or "html"
	Output string `yaml:"output"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads a YAML configuration file and returns a Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewError("config", path, 0, "failed to read config file", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, domain.NewError("config", path, 0, "failed to parse config file", err)
	}

	return cfg, nil
}
