package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ValidateLevel validates a level description before a board is built from it
func ValidateLevel(level *Level) error {
	if level == nil {
		return fmt.Errorf("%w: level is nil", ErrInvalidLevel)
	}

	// Validate required fields
	if len(level.Tiles) == 0 {
		return fmt.Errorf("%w: at least one tile is required", ErrInvalidLevel)
	}
	if level.Exit == nil {
		return fmt.Errorf("%w: exit is required", ErrInvalidLevel)
	}
	if level.Theseus == nil {
		return fmt.Errorf("%w: theseus is required", ErrInvalidLevel)
	}
	if level.Minotaur == nil {
		return fmt.Errorf("%w: minotaur is required", ErrInvalidLevel)
	}

	// Validate tiles
	seen := make(map[Position]bool, len(level.Tiles))
	for i, t := range level.Tiles {
		if t.X < 0 || t.Y < 0 {
			return fmt.Errorf("%w: tile %d at (%d,%d) has a negative coordinate", ErrInvalidLevel, i, t.X, t.Y)
		}
		p := Position{X: t.X, Y: t.Y}
		if seen[p] {
			return fmt.Errorf("%w: duplicate tile at %s", ErrInvalidLevel, p)
		}
		seen[p] = true
	}

	width, height, err := Dimensions(level.Tiles)
	if err != nil {
		return err
	}
	if width > MaxMazeDimension || height > MaxMazeDimension {
		return fmt.Errorf("%w: maze is %dx%d, at most %dx%d is supported",
			ErrInvalidLevel, width, height, MaxMazeDimension, MaxMazeDimension)
	}

	// Validate markers
	markers := []struct {
		name string
		pos  Position
	}{{"exit", *level.Exit}, {"theseus", *level.Theseus}, {"minotaur", *level.Minotaur}}
	for _, m := range markers {
		if m.pos.X < 0 || m.pos.X >= width || m.pos.Y < 0 || m.pos.Y >= height {
			return fmt.Errorf("%w: %s %s is outside the %dx%d maze", ErrInvalidLevel, m.name, m.pos, width, height)
		}
	}
	if *level.Theseus == *level.Minotaur {
		return fmt.Errorf("%w: theseus and minotaur must start on different tiles", ErrInvalidLevel)
	}
	if *level.Theseus == *level.Exit {
		return fmt.Errorf("%w: theseus must not start on the exit", ErrInvalidLevel)
	}

	return nil
}

// DecodeLevel parses and validates a level. format is a file extension
// ("json", "yaml" or "yml", with or without the leading dot).
func DecodeLevel(data []byte, format string) (*Level, error) {
	var level Level

	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "", "json":
		if err := json.Unmarshal(data, &level); err != nil {
			return nil, fmt.Errorf("failed to parse level: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &level); err != nil {
			return nil, fmt.Errorf("failed to parse level: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported level format %q", format)
	}

	if err := ValidateLevel(&level); err != nil {
		return nil, err
	}

	return &level, nil
}

// LoadLevel loads a level from a JSON or YAML file
func LoadLevel(filename string) (*Level, error) {
	// Support LEVELS_DIR environment variable for alternative level directory
	levelPath := filename
	if levelsDir := os.Getenv("LEVELS_DIR"); levelsDir != "" {
		if strings.HasPrefix(filename, "levels/") {
			levelPath = filepath.Join(levelsDir, strings.TrimPrefix(filename, "levels/"))
		}
	}

	data, err := os.ReadFile(levelPath)
	if err != nil {
		return nil, err
	}

	ext := filepath.Ext(levelPath)
	level, err := DecodeLevel(data, ext)
	if err != nil {
		return nil, fmt.Errorf("invalid level '%s': %w", filepath.Base(levelPath), err)
	}

	if level.Name == "" {
		level.Name = strings.TrimSuffix(filepath.Base(levelPath), ext)
	}

	return level, nil
}

// EncodeLevel serializes a level as indented JSON
func EncodeLevel(level *Level) ([]byte, error) {
	return json.MarshalIndent(level, "", "  ")
}
