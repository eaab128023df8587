package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/labyrinth/game/engine"
	"github.com/wricardo/mcp-training/labyrinth/game/session"
)

func TestConstants(t *testing.T) {
	assert.NotEmpty(t, Version)
	assert.Equal(t, "Labyrinth", AppName)
}

// run executes the CLI against the bundled levels directory
func run(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	cmd := newCommand()
	var out bytes.Buffer
	cmd.Reader = strings.NewReader(input)
	cmd.Writer = &out
	cmd.ErrWriter = &out

	argv := append([]string{"labyrinth", "--levels-dir", "levels"}, args...)
	err := cmd.Run(context.Background(), argv)
	return out.String(), err
}

func TestLevelsCommand(t *testing.T) {
	out, err := run(t, "", "levels")
	require.NoError(t, err)

	for _, want := range []string{"Side Step", "The Long Way Round", "Back and Forth", "Patience", "level4.yaml"} {
		assert.Contains(t, out, want)
	}
}

func TestShowCommand(t *testing.T) {
	out, err := run(t, "", "show", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "Level 3: Back and Forth (4x4)")
	assert.Contains(t, out, "+-+-+-+-+", "expected the walled top row")
	assert.Contains(t, out, "Theseus (0,0), Minotaur (3,3), exit (2,3)")

	_, err = run(t, "", "show")
	assert.Error(t, err, "a level number is required")
	_, err = run(t, "", "show", "42")
	assert.Error(t, err)
}

func TestSolveCommand(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{"1", "PRRRU (5 turns"},
		{"2", "RPRRDD (6 turns"},
		{"3", "RLPRDRRDDL (10 turns"},
		{"4", "PRLLDDR (7 turns"},
	}

	for _, tt := range tests {
		t.Run("level "+tt.level, func(t *testing.T) {
			out, err := run(t, "", "solve", tt.level)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}

	_, err := run(t, "", "solve", "--max-turns", "2", "3")
	assert.Error(t, err, "expected a search limit error")
}

func TestPlayCommand(t *testing.T) {
	out, err := run(t, "up\nPRRRU\nl\nreset\nq\n", "play", "--level", "1")
	require.NoError(t, err)

	for _, want := range []string{
		"Level 1: Side Step",
		"Theseus can't move up",
		"Played 5 of 5 moves.",
		"Theseus escaped in 5 turns!",
		"New highscore: 5 turns!",
		"The game is over (won)",
		"Turn 0",
	} {
		assert.Contains(t, out, want)
	}
}

func TestPlayCommand_ChangeLevel(t *testing.T) {
	out, err := run(t, "prev\nnext\nn\nq\n", "play", "--level", "1")
	require.NoError(t, err)

	// Level 1 wraps back to the last level, then forward again
	first := strings.Index(out, "Level 1: Side Step")
	wrapped := strings.Index(out, "Level 4: Patience")
	forward := strings.Index(out, "Level 2: The Long Way Round")
	require.NotEqual(t, -1, first, out)
	require.NotEqual(t, -1, wrapped, out)
	require.NotEqual(t, -1, forward, out)
	assert.Less(t, first, wrapped)
	assert.Less(t, wrapped, forward)
}

func TestAdjacentLevel(t *testing.T) {
	tests := []struct {
		name    string
		numbers []int
		current int
		step    int
		want    int
	}{
		{"next", []int{1, 2, 3}, 1, 1, 2},
		{"previous", []int{1, 2, 3}, 2, -1, 1},
		{"wrap forward", []int{1, 2, 3}, 3, 1, 1},
		{"wrap backward", []int{1, 2, 3}, 1, -1, 3},
		{"gaps", []int{2, 5, 9}, 5, 1, 9},
		{"unknown current", []int{2, 5, 9}, 7, 1, 5},
		{"single level", []int{4}, 4, 1, 4},
		{"no levels", nil, 3, 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, adjacentLevel(tt.numbers, tt.current, tt.step))
		})
	}
}

func TestPlayCommand_UnknownInput(t *testing.T) {
	out, err := run(t, "jump\n", "play", "--level", "2")
	require.NoError(t, err)
	assert.Contains(t, out, `Unknown command "jump"`)
}

func TestSettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labyrinth.yml")
	require.NoError(t, os.WriteFile(path, []byte("levels_dir: /non/existent/path\n"), 0o644))

	cmd := newCommand()
	cmd.Writer = &bytes.Buffer{}
	err := cmd.Run(context.Background(), []string{"labyrinth", "--config", path, "levels"})
	assert.Error(t, err, "the settings file points at a missing levels directory")

	// The flag wins over the file
	out, err := run(t, "", "--config", path, "levels")
	require.NoError(t, err)
	assert.Contains(t, out, "Side Step")
}

func TestSplitCommands(t *testing.T) {
	commands, ok := splitCommands("rrDp")
	assert.True(t, ok)
	assert.Equal(t, []string{"R", "R", "D", "P"}, commands)

	_, ok = splitCommands("jump")
	assert.False(t, ok)
}

func TestSessionCleanupRoutine(t *testing.T) {
	manager := session.NewManager(zap.NewNop())
	level := &engine.Level{
		Tiles:    []engine.Tile{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}},
		Exit:     &engine.Position{X: 2, Y: 0},
		Theseus:  &engine.Position{X: 0, Y: 0},
		Minotaur: &engine.Position{X: 1, Y: 0},
	}
	sess, err := manager.Create("old", 1, level)
	require.NoError(t, err)
	sess.LastAccessedAt = time.Now().Add(-time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sessionCleanupRoutine(ctx, manager, 5*time.Millisecond, time.Minute, zap.NewNop())
		close(done)
	}()

	assert.Eventually(t, func() bool { return manager.Count() == 0 }, 2*time.Second, 5*time.Millisecond,
		"the idle session should be removed")
	cancel()
	<-done
}
