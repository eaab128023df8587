// Command validate provides a small CLI that validates the level files of a
// levels directory (the first argument, LEVELS_DIR, or ./levels). It checks:
//   - JSON/YAML structure and required fields
//   - Tile coordinates, duplicates and maze size
//   - Theseus, Minotaur and exit placement
//   - Connectivity: the exit is reachable from Theseus through open passages
//   - Solvability: a winning command sequence exists
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/mcp-training/labyrinth/game/engine"
	"github.com/wricardo/mcp-training/labyrinth/game/levels"
	"github.com/wricardo/mcp-training/labyrinth/game/solver"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...interface{}) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

// validateLevel loads and validates a single level file
func validateLevel(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	level, err := engine.DecodeLevel(data, filepath.Ext(filePath))
	if err != nil {
		result.fail("Invalid level: %v", err)
		return result
	}

	board, err := engine.NewBoard(level.Tiles, *level.Exit, *level.Theseus, *level.Minotaur)
	if err != nil {
		result.fail("Failed to build board: %v", err)
		return result
	}
	result.info("Maze: %dx%d with %d walls", board.Width(), board.Height(), board.Walls().Count())

	validateConnectivity(&result, board, level)
	if !result.Valid {
		return result
	}

	solution, err := solver.SolveBoard(board, solver.Options{})
	switch {
	case errors.Is(err, solver.ErrUnsolvable):
		result.fail("Unsolvable: the Minotaur catches Theseus on every path to the exit")
	case err != nil:
		result.fail("Solver gave up: %v", err)
	default:
		result.info("Solvable in %d turns: %s", solution.Turns, solution)
	}

	return result
}

// validateConnectivity checks that open passages lead from Theseus to the exit
func validateConnectivity(result *ValidationResult, board *engine.Board, level *engine.Level) {
	reachable := board.Reachable(*level.Theseus)
	if !reachable.Has(*level.Exit) {
		result.fail("Connectivity failure: exit %s unreachable from Theseus at %s", *level.Exit, *level.Theseus)
		return
	}

	total := board.Width() * board.Height()
	if reachable.Size() < total {
		result.info("Connectivity: exit reachable, %d/%d tiles reachable from Theseus", reachable.Size(), total)
		return
	}
	result.info("Connectivity: all %d tiles reachable from Theseus", total)
}

// levelFiles lists the files of dir the level manager would serve, in name order
func levelFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := levels.ParseFilename(entry.Name()); ok {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func levelsDir() string {
	if len(os.Args) > 1 {
		return os.Args[1]
	}
	if dir := os.Getenv("LEVELS_DIR"); dir != "" {
		return dir
	}
	return "levels"
}

// main validates each level file, printing a concise report and exiting
// with non-zero status if any are invalid.
func main() {
	dir := levelsDir()
	files, err := levelFiles(dir)
	if err != nil {
		fmt.Printf("Error finding level files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No level files found in %s\n", dir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateLevel(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All levels are valid!")
	} else {
		fmt.Println("❌ Some levels have errors")
		os.Exit(1)
	}
}
