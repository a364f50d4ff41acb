// Package config parses the YAML configuration consumed by the CLI/worker
// orchestrator entry points. The sandbox core itself takes plain Go structs;
// this package exists only for the thin callers in cmd/.
package config

import (
	"fmt"
	"os"

	"github.com/oj-lab/judger/internal/langspec"
	"github.com/oj-lab/judger/internal/logger"
	"github.com/oj-lab/judger/internal/rlimit"

	"gopkg.in/yaml.v3"
)

const defaultHelperPath = "sandbox-helper"

// LanguageEntry describes one compile/run recipe read from config, keyed by
// the langspec.Language it overrides or extends.
type LanguageEntry struct {
	Language      langspec.Language `yaml:"language"`
	CompileTpl    string            `yaml:"compileTemplate"`
	BinaryName    string            `yaml:"binaryName"`
	ExtraCompile  []string          `yaml:"extraCompileArgs"`
}

// SandboxConfig controls how the Sandbox Primitive launches its helper
// process. Only HelperPath is consumed; EnableSeccomp is parsed but not
// read, since restricted/unrestricted mode is fixed per run by the judge
// packages.
type SandboxConfig struct {
	HelperPath    string `yaml:"helperPath"`
	EnableSeccomp bool   `yaml:"enableSeccomp"`
}

// Config is the root CLI/worker configuration document.
type Config struct {
	Logger    logger.Config   `yaml:"logger"`
	Sandbox   SandboxConfig   `yaml:"sandbox"`
	Limits    rlimit.Set      `yaml:"defaultLimits"`
	Languages []LanguageEntry `yaml:"languages"`
	WorkRoot  string          `yaml:"workRoot"`
}

// Load reads and defaults-fills a Config from path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns a defaults-filled Config for callers with no config file
// to load (e.g. a CLI invocation without --config).
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Logger.Level == "" {
		cfg.Logger.Level = "info"
	}
	if cfg.Logger.Format == "" {
		cfg.Logger.Format = "console"
	}
	if cfg.Logger.Service == "" {
		cfg.Logger.Service = "judger"
	}
	if cfg.Sandbox.HelperPath == "" {
		cfg.Sandbox.HelperPath = defaultHelperPath
	}
	if cfg.WorkRoot == "" {
		cfg.WorkRoot = "/tmp/judger"
	}
	if cfg.Limits == (rlimit.Set{}) {
		cfg.Limits = rlimit.DefaultProgramSet()
	}
}
