// Package solver finds the shortest winning command sequence for a level by
// breadth-first search over Theseus and Minotaur positions.
package solver

import (
	"errors"
	"strings"

	"github.com/zyedidia/generic/mapset"

	"github.com/wricardo/mcp-training/labyrinth/game/engine"
)

var (
	ErrUnsolvable  = errors.New("level has no solution")
	ErrSearchLimit = errors.New("search limit reached")
)

const (
	DefaultMaxTurns  = 500
	DefaultMaxStates = 1 << 20
)

// Options bounds the search. Zero values select the defaults.
type Options struct {
	MaxTurns  int
	MaxStates int
}

// Solution is a shortest winning command sequence
type Solution struct {
	Moves          []engine.Direction `json:"moves"`
	Turns          int                `json:"turns"`
	StatesExplored int                `json:"states_explored"`
}

// String renders the moves in letter form, e.g. "RRDPL"
func (s *Solution) String() string {
	var b strings.Builder
	for _, d := range s.Moves {
		b.WriteString(d.Letter())
	}
	return b.String()
}

// Commands tried from every state, in order
var commands = []engine.Direction{engine.Left, engine.Right, engine.Up, engine.Down, engine.Pass}

type state struct {
	theseus  engine.Position
	minotaur engine.Position
}

type node struct {
	board  *engine.Board
	parent int
	move   engine.Direction
	depth  int
}

// Solve validates a level and searches it from its start positions
func Solve(level *engine.Level, opts Options) (*Solution, error) {
	if err := engine.ValidateLevel(level); err != nil {
		return nil, err
	}
	board, err := engine.NewBoard(level.Tiles, *level.Exit, *level.Theseus, *level.Minotaur)
	if err != nil {
		return nil, err
	}
	return SolveBoard(board, opts)
}

// SolveBoard searches from the board's current position. The board is not modified.
func SolveBoard(start *engine.Board, opts Options) (*Solution, error) {
	if opts.MaxTurns <= 0 {
		opts.MaxTurns = DefaultMaxTurns
	}
	if opts.MaxStates <= 0 {
		opts.MaxStates = DefaultMaxStates
	}

	switch start.Status() {
	case engine.Won:
		return &Solution{Moves: []engine.Direction{}}, nil
	case engine.Lost:
		return nil, ErrUnsolvable
	}

	visited := mapset.New[state]()
	visited.Put(keyOf(start))

	nodes := []node{{board: start.Clone(), parent: -1}}
	truncated := false

	for head := 0; head < len(nodes); head++ {
		current := nodes[head]
		if current.depth >= opts.MaxTurns {
			truncated = true
			continue
		}

		for _, d := range commands {
			next := current.board.Clone()
			result := next.PlayTurn(d)
			if !result.Valid || result.Status == engine.Lost {
				continue
			}

			key := keyOf(next)
			if visited.Has(key) {
				continue
			}
			visited.Put(key)

			nodes = append(nodes, node{board: next, parent: head, move: d, depth: current.depth + 1})
			if result.Status == engine.Won {
				return buildSolution(nodes, len(nodes)-1, visited.Size()), nil
			}

			if visited.Size() >= opts.MaxStates {
				return nil, ErrSearchLimit
			}
		}

		// Drop the board once expanded; only the path links are needed
		nodes[head].board = nil
	}

	if truncated {
		return nil, ErrSearchLimit
	}
	return nil, ErrUnsolvable
}

func keyOf(b *engine.Board) state {
	theseus, _ := b.Theseus()
	return state{theseus: theseus, minotaur: b.Minotaur()}
}

func buildSolution(nodes []node, last, explored int) *Solution {
	depth := nodes[last].depth
	moves := make([]engine.Direction, depth)
	for i := last; nodes[i].parent >= 0; i = nodes[i].parent {
		moves[nodes[i].depth-1] = nodes[i].move
	}
	return &Solution{
		Moves:          moves,
		Turns:          depth,
		StatesExplored: explored,
	}
}
