package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/labyrinth/game/engine"
	"github.com/wricardo/mcp-training/labyrinth/game/levels"
)

func corridor(minotaur engine.Position) *engine.Level {
	return &engine.Level{
		Name:     "Corridor",
		Tiles:    []engine.Tile{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}},
		Exit:     &engine.Position{X: 1, Y: 0},
		Theseus:  &engine.Position{X: 0, Y: 0},
		Minotaur: &minotaur,
	}
}

func TestAnalyzeLevel(t *testing.T) {
	a, err := analyzeLevel(7, corridor(engine.Position{X: 3, Y: 0}))
	require.NoError(t, err)

	assert.Equal(t, 7, a.Number)
	assert.Equal(t, "Corridor", a.Name)
	assert.Equal(t, 4, a.Width)
	assert.Equal(t, 1, a.Height)
	assert.Equal(t, 0, a.Walls)
	assert.Equal(t, 13, a.MaxWalls)
	assert.Equal(t, 1, a.TheseusToExit)
	assert.Equal(t, 3, a.TheseusToMinotaur)
	assert.Equal(t, 4, a.ReachableTiles)

	assert.True(t, a.Solvable)
	assert.Equal(t, "R", a.Solution)
	assert.Equal(t, 1, a.OptimalTurns)
	assert.Equal(t, 0, a.Passes)
}

func TestAnalyzeLevel_Unsolvable(t *testing.T) {
	level := corridor(engine.Position{X: 1, Y: 0})
	level.Exit = &engine.Position{X: 3, Y: 0}

	a, err := analyzeLevel(1, level)
	require.NoError(t, err)
	assert.False(t, a.Solvable, "the blocked corridor should be unsolvable")
	assert.NoError(t, a.SolverError)

	var out bytes.Buffer
	printAnalysis(&out, a)
	assert.Contains(t, out.String(), "CRITICAL: level cannot be won")
}

func TestAnalyzeLevel_InvalidLevel(t *testing.T) {
	_, err := analyzeLevel(1, corridor(engine.Position{X: 9, Y: 0}))
	assert.Error(t, err, "a Minotaur outside the maze should be rejected")
}

func TestPrintAnalysis(t *testing.T) {
	a, err := analyzeLevel(1, corridor(engine.Position{X: 3, Y: 0}))
	require.NoError(t, err)

	var out bytes.Buffer
	printAnalysis(&out, a)

	for _, want := range []string{
		"Name: Corridor",
		"Size: 4 x 1",
		"Walls: 0 of 13 possible edges (0%)",
		"Reachable tiles: 4 of 4",
		"✅ Solvable in 1 turns (0 passes): R",
		"the direct route works",
	} {
		assert.Contains(t, out.String(), want)
	}
}

func TestAnalyzeLevel_BundledLevel(t *testing.T) {
	manager, err := levels.NewManager(filepath.Join("..", "..", "levels"), zap.NewNop())
	if err != nil {
		t.Skip("Skipping test - levels directory not found")
	}
	level, err := manager.Get(2)
	require.NoError(t, err)

	a, err := analyzeLevel(2, level)
	require.NoError(t, err)
	assert.Equal(t, 25, a.Walls)
	assert.Equal(t, 40, a.MaxWalls)
	assert.Equal(t, "RPRRDD", a.Solution)
	assert.Equal(t, 1, a.Passes)
	assert.Equal(t, 5, a.TheseusToExit)
	assert.Equal(t, 5, a.TheseusToMinotaur)
}
