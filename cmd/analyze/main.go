// Command analyze prints quick, human-readable heuristics about the levels in
// the levels directory (LEVELS_DIR or ./levels). It summarizes dimensions,
// wall density and start distances, and reports whether each level can be
// solved and in how many turns.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/labyrinth/game/engine"
	"github.com/wricardo/mcp-training/labyrinth/game/levels"
	"github.com/wricardo/mcp-training/labyrinth/game/solver"
)

// Analysis is the summary of a single level
type Analysis struct {
	Number            int
	Name              string
	Width             int
	Height            int
	Walls             int
	MaxWalls          int
	TheseusToExit     int
	TheseusToMinotaur int
	ReachableTiles    int
	Solvable          bool
	Solution          string
	OptimalTurns      int
	Passes            int
	StatesExplored    int
	SolverError       error
}

func main() {
	dir := os.Getenv("LEVELS_DIR")
	if dir == "" {
		dir = "levels"
	}

	manager, err := levels.NewManager(dir, zap.NewNop())
	if err != nil {
		fmt.Printf("Error opening levels: %v\n", err)
		os.Exit(1)
	}

	for _, number := range manager.Numbers() {
		fmt.Printf("\n=== Analyzing level %d ===\n", number)
		level, err := manager.Get(number)
		if err != nil {
			fmt.Printf("Error loading level: %v\n", err)
			continue
		}
		analysis, err := analyzeLevel(number, level)
		if err != nil {
			fmt.Printf("Error analyzing level: %v\n", err)
			continue
		}
		printAnalysis(os.Stdout, analysis)
	}
}

func analyzeLevel(number int, level *engine.Level) (*Analysis, error) {
	board, err := engine.NewBoard(level.Tiles, *level.Exit, *level.Theseus, *level.Minotaur)
	if err != nil {
		return nil, err
	}

	w, h := board.Width(), board.Height()
	a := &Analysis{
		Number:            number,
		Name:              level.Name,
		Width:             w,
		Height:            h,
		Walls:             board.Walls().Count(),
		MaxWalls:          w*(h+1) + h*(w+1),
		TheseusToExit:     engine.ManhattanDistance(*level.Theseus, *level.Exit),
		TheseusToMinotaur: engine.ManhattanDistance(*level.Theseus, *level.Minotaur),
		ReachableTiles:    board.Reachable(*level.Theseus).Size(),
	}

	solution, err := solver.SolveBoard(board, solver.Options{})
	switch {
	case err == nil:
		a.Solvable = true
		a.Solution = solution.String()
		a.OptimalTurns = solution.Turns
		a.StatesExplored = solution.StatesExplored
		for _, d := range solution.Moves {
			if d == engine.Pass {
				a.Passes++
			}
		}
	case errors.Is(err, solver.ErrUnsolvable):
	default:
		a.SolverError = err
	}

	return a, nil
}

func printAnalysis(w io.Writer, a *Analysis) {
	fmt.Fprintf(w, "Name: %s\n", a.Name)
	fmt.Fprintf(w, "Size: %d x %d\n", a.Width, a.Height)
	fmt.Fprintf(w, "Walls: %d of %d possible edges (%.0f%%)\n", a.Walls, a.MaxWalls, 100*float64(a.Walls)/float64(a.MaxWalls))
	fmt.Fprintf(w, "Theseus to exit: %d\n", a.TheseusToExit)
	fmt.Fprintf(w, "Theseus to Minotaur: %d\n", a.TheseusToMinotaur)
	fmt.Fprintf(w, "Reachable tiles: %d of %d\n", a.ReachableTiles, a.Width*a.Height)

	switch {
	case a.SolverError != nil:
		fmt.Fprintf(w, "⚠️  Solver gave up: %v\n", a.SolverError)
	case !a.Solvable:
		fmt.Fprintf(w, "⚠️  CRITICAL: level cannot be won\n")
	default:
		fmt.Fprintf(w, "✅ Solvable in %d turns (%d passes): %s\n", a.OptimalTurns, a.Passes, a.Solution)
		fmt.Fprintf(w, "   Positions explored: %d\n", a.StatesExplored)
		if a.OptimalTurns == a.TheseusToExit {
			fmt.Fprintf(w, "   Note: the direct route works, the Minotaur never gets in the way\n")
		}
	}
}
