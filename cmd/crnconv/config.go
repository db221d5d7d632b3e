package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config is the crnconv configuration file (~/.config/crnconv/config.yaml).
// Flags given on the command line win over the file.
type Config struct {
	Format    string `yaml:"format"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	OutputDir string `yaml:"output_dir"`
}

const envConfigPath = "CRNCONV_CONFIG"

func configPath() string {
	if p := os.Getenv(envConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "crnconv", "config.yaml")
}

// LoadConfig reads the config file. A missing file yields a zero Config.
func LoadConfig() (Config, error) {
	path := configPath()
	if path == "" {
		return Config{}, nil
	}
	return loadConfigFile(path)
}

func loadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}

// isSet reports whether a flag was given explicitly.
type isSet interface {
	IsSet(name string) bool
}

var _ isSet = (*cli.Command)(nil)

func applyGlobalConfig(c isSet, cfg Config, level, format, outDir *string) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		*level = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		*format = cfg.LogFormat
	}
	if cfg.OutputDir != "" && !c.IsSet("output-dir") {
		*outDir = cfg.OutputDir
	}
}

func applyConvertConfig(c isSet, cfg Config, format *string) {
	if cfg.Format != "" && !c.IsSet("format") {
		*format = cfg.Format
	}
}
