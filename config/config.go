// Package config loads the optional YAML settings file of the labyrinth CLI.
package config

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var ErrInvalidSettings = errors.New("invalid settings")

const (
	DefaultLevelsDir       = "levels"
	DefaultSessionTTL      = 24 * time.Hour
	DefaultCleanupInterval = time.Hour
)

// Settings are the values a settings file may provide. Command line flags
// take precedence over them.
type Settings struct {
	LevelsDir       string        `yaml:"levels_dir"`
	SessionTTL      time.Duration `yaml:"session_ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
	Debug           bool          `yaml:"debug"`
	// DefaultLevel is the level new sessions start on; 0 picks a random one.
	DefaultLevel int `yaml:"default_level"`
}

// Default returns the settings used when no file is given
func Default() Settings {
	return Settings{
		LevelsDir:       DefaultLevelsDir,
		SessionTTL:      DefaultSessionTTL,
		CleanupInterval: DefaultCleanupInterval,
	}
}

// Load reads a settings file on top of the defaults. Keys missing from the
// file keep their default value.
func Load(path string) (Settings, error) {
	file, err := os.Open(path)
	if err != nil {
		return Settings{}, errors.WithMessage(err, "open settings")
	}
	defer func() {
		_ = file.Close()
	}()

	cfg := Default()
	if err := yaml.NewDecoder(file).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Settings{}, errors.Wrapf(err, "decode settings %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Settings{}, err
	}
	return cfg, nil
}

// Validate reports the first setting that cannot be used
func (s Settings) Validate() error {
	switch {
	case s.LevelsDir == "":
		return errors.WithMessage(ErrInvalidSettings, "levels_dir must not be empty")
	case s.SessionTTL <= 0:
		return errors.WithMessagef(ErrInvalidSettings, "session_ttl must be positive, got %s", s.SessionTTL)
	case s.CleanupInterval <= 0:
		return errors.WithMessagef(ErrInvalidSettings, "cleanup_interval must be positive, got %s", s.CleanupInterval)
	case s.DefaultLevel < 0:
		return errors.WithMessagef(ErrInvalidSettings, "default_level must not be negative, got %d", s.DefaultLevel)
	}
	return nil
}
