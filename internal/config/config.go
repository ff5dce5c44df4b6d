// Package config loads the per-project minipas.yml file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/arnavsurve/minipas/internal/compiler/emitter"
)

const DefaultFile = "minipas.yml"

type Config struct {
	Project string        `yaml:"project"`
	Source  string        `yaml:"source"`
	Out     string        `yaml:"out"`
	Emit    string        `yaml:"emit"`
	History HistoryConfig `yaml:"history"`
	Serve   ServeConfig   `yaml:"serve"`
	Repl    ReplConfig    `yaml:"repl"`

	// Path is where the config was read from; empty for defaults.
	Path string `yaml:"-"`
}

type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type ServeConfig struct {
	Addr    string `yaml:"addr"`
	MaxBody int    `yaml:"max_body"`
}

type ReplConfig struct {
	HistoryFile string `yaml:"history_file"`
}

func Default() *Config {
	return &Config{
		Source: "src",
		Out:    "out",
		Emit:   string(emitter.FormatPascal),
		History: HistoryConfig{
			Enabled: false,
			Path:    filepath.Join(".minipas", "history.db"),
		},
		Serve: ServeConfig{
			Addr:    "127.0.0.1:8080",
			MaxBody: 64 << 10,
		},
		Repl: ReplConfig{
			HistoryFile: ".minipas_history",
		},
	}
}

// Load reads path over the defaults. A missing file is not an error; the
// defaults are returned unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := emitter.ParseFormat(c.Emit); err != nil {
		return err
	}
	if c.Serve.MaxBody <= 0 {
		return fmt.Errorf("serve.max_body must be positive, got %d", c.Serve.MaxBody)
	}
	if c.History.Enabled && c.History.Path == "" {
		return errors.New("history.path is required when history is enabled")
	}
	return nil
}

// Resolve makes a config-relative path absolute against the directory the
// config file lives in.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Path == "" {
		return p
	}
	return filepath.Join(filepath.Dir(c.Path), p)
}

func (c *Config) EmitFormat() emitter.Format {
	f, err := emitter.ParseFormat(c.Emit)
	if err != nil {
		return emitter.FormatPascal
	}
	return f
}
