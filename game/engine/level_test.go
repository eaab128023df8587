package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLevel(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(l *Level)
		wantErr string
	}{
		{
			name:   "valid level",
			modify: func(l *Level) {},
		},
		{
			name:    "no tiles",
			modify:  func(l *Level) { l.Tiles = nil },
			wantErr: "at least one tile",
		},
		{
			name:    "missing exit",
			modify:  func(l *Level) { l.Exit = nil },
			wantErr: "exit is required",
		},
		{
			name:    "missing theseus",
			modify:  func(l *Level) { l.Theseus = nil },
			wantErr: "theseus is required",
		},
		{
			name:    "missing minotaur",
			modify:  func(l *Level) { l.Minotaur = nil },
			wantErr: "minotaur is required",
		},
		{
			name:    "negative tile",
			modify:  func(l *Level) { l.Tiles = append(l.Tiles, Tile{X: -1, Y: 0}) },
			wantErr: "negative coordinate",
		},
		{
			name:    "duplicate tile",
			modify:  func(l *Level) { l.Tiles = append(l.Tiles, Tile{X: 1, Y: 1, Top: true}) },
			wantErr: "duplicate tile",
		},
		{
			name:    "maze too wide",
			modify:  func(l *Level) { l.Tiles = append(l.Tiles, Tile{X: MaxMazeDimension, Y: 0}) },
			wantErr: "at most 64x64",
		},
		{
			name:    "exit outside",
			modify:  func(l *Level) { l.Exit = pos(3, 0) },
			wantErr: "exit (3,0) is outside",
		},
		{
			name:    "minotaur outside",
			modify:  func(l *Level) { l.Minotaur = pos(0, -1) },
			wantErr: "minotaur (0,-1) is outside",
		},
		{
			name:    "theseus on minotaur",
			modify:  func(l *Level) { l.Minotaur = pos(0, 0) },
			wantErr: "different tiles",
		},
		{
			name:    "theseus on exit",
			modify:  func(l *Level) { l.Exit = pos(0, 0) },
			wantErr: "must not start on the exit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level := createTestLevel()
			tt.modify(level)

			err := ValidateLevel(level)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidLevel)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	assert.ErrorIs(t, ValidateLevel(nil), ErrInvalidLevel)
}

func TestValidateLevelAllowsGaps(t *testing.T) {
	level := &Level{
		Tiles:    []Tile{{X: 0, Y: 0}, {X: 2, Y: 0}},
		Exit:     pos(2, 0),
		Theseus:  pos(0, 0),
		Minotaur: pos(1, 0),
	}
	assert.NoError(t, ValidateLevel(level), "a sparse tile list should be accepted")
}

func TestMissingTileIsFloor(t *testing.T) {
	// Only two corners of a 3x2 maze are declared
	tiles := []Tile{{X: 0, Y: 0}, {X: 2, Y: 1}}
	b := newTestBoard(t, tiles, Position{X: 2, Y: 1}, Position{X: 0, Y: 0}, Position{X: 0, Y: 1})

	assert.Equal(t, Open, b.Cell(1, 3), "the undeclared tile (1,0) is an open node")
	assert.True(t, b.IsValid(Position{X: 0, Y: 0}, Right))
	assert.Equal(t, 6, b.Reachable(Position{X: 0, Y: 0}).Size())
}

const trapLevelJSON = `{
  "name": "Trap",
  "tiles": [
    {"x": 0, "y": 0, "right": true},
    {"x": 1, "y": 0}
  ],
  "exit": {"x": 1, "y": 0},
  "theseus": {"x": 0, "y": 0},
  "minotaur": {"x": 1, "y": 0}
}`

const trapLevelYAML = `name: Trap
tiles:
  - {x: 0, y: 0, right: true}
  - {x: 1, y: 0}
exit: {x: 1, y: 0}
theseus: {x: 0, y: 0}
minotaur: {x: 1, y: 0}
`

func TestDecodeLevel(t *testing.T) {
	tests := []struct {
		format string
		data   string
	}{
		{"json", trapLevelJSON},
		{".json", trapLevelJSON},
		{"", trapLevelJSON},
		{"yaml", trapLevelYAML},
		{".yml", trapLevelYAML},
	}

	for _, tt := range tests {
		t.Run("format "+tt.format, func(t *testing.T) {
			level, err := DecodeLevel([]byte(tt.data), tt.format)
			require.NoError(t, err)
			assert.Equal(t, "Trap", level.Name)
			assert.Equal(t, []Tile{{X: 0, Y: 0, Right: true}, {X: 1, Y: 0}}, level.Tiles)
			require.NotNil(t, level.Minotaur)
			assert.Equal(t, Position{X: 1, Y: 0}, *level.Minotaur)
		})
	}
}

func TestDecodeLevelErrors(t *testing.T) {
	_, err := DecodeLevel([]byte("{not json"), "json")
	assert.Error(t, err)

	_, err = DecodeLevel([]byte(trapLevelJSON), "toml")
	assert.ErrorContains(t, err, "unsupported")

	_, err = DecodeLevel([]byte(`{"tiles": []}`), "json")
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestLoadLevel(t *testing.T) {
	dir := t.TempDir()
	unnamed := strings.Replace(trapLevelYAML, "name: Trap\n", "", 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "trap.yaml"), []byte(unnamed), 0o644))

	level, err := LoadLevel(filepath.Join(dir, "trap.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "trap", level.Name, "name should be derived from the file")

	_, err = LoadLevel(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadLevelFromLevelsDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "level1.json"), []byte(trapLevelJSON), 0o644))
	t.Setenv("LEVELS_DIR", dir)

	level, err := LoadLevel("levels/level1.json")
	require.NoError(t, err)
	assert.Equal(t, "Trap", level.Name)
}

func TestEncodeLevelRoundTrip(t *testing.T) {
	level, err := DecodeLevel([]byte(trapLevelJSON), "json")
	require.NoError(t, err)

	data, err := EncodeLevel(level)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"left"`, "unset wall flags should be omitted")

	again, err := DecodeLevel(data, "json")
	require.NoError(t, err)
	assert.Equal(t, level.Tiles, again.Tiles)
	assert.Equal(t, *level.Exit, *again.Exit)
}
