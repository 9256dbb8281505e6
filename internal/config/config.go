package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Sim     SimConfig     `toml:"sim"`
	Scene   SceneConfig   `toml:"scene"`
	Logging LoggingConfig `toml:"logging"`
}

type SimConfig struct {
	TickRate    time.Duration `toml:"tick_rate"`
	Ticks       int           `toml:"ticks"`
	Seed        int64         `toml:"seed"`
	ReportEvery int           `toml:"report_every"` // ticks between stats reports
}

type SceneConfig struct {
	Path       string `toml:"path"`        // yaml scene file, empty = built-in default
	ScriptsDir string `toml:"scripts_dir"` // lua behavior scripts
	Behavior   string `toml:"behavior"`    // steering function name
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func Defaults() *Config {
	return &Config{
		Sim: SimConfig{
			TickRate:    50 * time.Millisecond,
			Ticks:       200,
			Seed:        1,
			ReportEvery: 50,
		},
		Scene: SceneConfig{
			Path:       "data/scene.yaml",
			ScriptsDir: "scripts",
			Behavior:   "steer",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
