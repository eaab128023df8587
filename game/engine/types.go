package engine

import (
	"errors"
	"fmt"
	"strings"
)

// CellKind tags a single cell of the doubled-resolution board grid
type CellKind uint8

const (
	// Empty is an edge cell with no wall (a passage between two nodes)
	Empty CellKind = iota
	// Open is a node cell, one per maze tile
	Open
	// Wall is an edge cell that blocks movement
	Wall
	// Post is the unused corner filler between edges
	Post
)

// Validation constants
const (
	MaxMazeDimension = 64
	MinotaurSteps    = 2
)

var (
	ErrInvalidLevel     = errors.New("level validation")
	ErrUnknownDirection = errors.New("unknown direction")
)

// Position represents x,y tile coordinates
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Add returns the position shifted by the offset of d
func (p Position) Add(d Direction) Position {
	dx, dy := d.Offset()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Tile is one cell of the logical maze with its four wall flags
type Tile struct {
	X      int  `json:"x" yaml:"x"`
	Y      int  `json:"y" yaml:"y"`
	Left   bool `json:"left,omitempty" yaml:"left,omitempty"`
	Top    bool `json:"top,omitempty" yaml:"top,omitempty"`
	Right  bool `json:"right,omitempty" yaml:"right,omitempty"`
	Bottom bool `json:"bottom,omitempty" yaml:"bottom,omitempty"`
}

// Level is the description a game is built from
type Level struct {
	Name     string    `json:"name,omitempty" yaml:"name,omitempty"`
	Tiles    []Tile    `json:"tiles" yaml:"tiles"`
	Exit     *Position `json:"exit" yaml:"exit"`
	Theseus  *Position `json:"theseus" yaml:"theseus"`
	Minotaur *Position `json:"minotaur" yaml:"minotaur"`
}

// Direction is one of the five player commands
type Direction uint8

const (
	Left Direction = iota + 1
	Right
	Up
	Down
	Pass
)

// Cardinals lists the four movement directions in pursuit evaluation order
var Cardinals = []Direction{Left, Right, Up, Down}

// Offset returns the tile delta of the direction; Pass has none
func (d Direction) Offset() (dx, dy int) {
	switch d {
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	}
	return 0, 0
}

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	case Pass:
		return "pass"
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

// Letter returns the single-letter command form (L, R, U, D, P)
func (d Direction) Letter() string {
	switch d {
	case Left:
		return "L"
	case Right:
		return "R"
	case Up:
		return "U"
	case Down:
		return "D"
	case Pass:
		return "P"
	}
	return "?"
}

// MarshalText encodes the direction by name
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText accepts any form understood by ParseDirection
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDirection converts a command string into a Direction.
// Both the letter form (L, R, U, D, P) and names are accepted, case-insensitively.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "left":
		return Left, nil
	case "r", "right":
		return Right, nil
	case "u", "up":
		return Up, nil
	case "d", "down":
		return Down, nil
	case "p", "pass", "wait":
		return Pass, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// Status is the turn controller state
type Status string

const (
	Ongoing Status = "ongoing"
	Won     Status = "won"
	Lost    Status = "lost"
)

// TheseusMove describes the player's part of a turn
type TheseusMove struct {
	To *Position `json:"to,omitempty"`
}

// MinotaurMove is one recorded Minotaur relocation
type MinotaurMove struct {
	To Position `json:"to"`
}

// MoveResult describes the outcome of one full turn
type MoveResult struct {
	Valid    bool           `json:"valid"`
	Theseus  TheseusMove    `json:"theseus"`
	Minotaur []MinotaurMove `json:"minotaur"`
	Status   Status         `json:"status"`
}

// GameState is a serializable snapshot of a game
type GameState struct {
	LevelName   string             `json:"level_name,omitempty"`
	Width       int                `json:"width"`
	Height      int                `json:"height"`
	Theseus     *Position          `json:"theseus,omitempty"`
	Minotaur    Position           `json:"minotaur"`
	Exit        *Position          `json:"exit,omitempty"`
	Status      Status             `json:"status"`
	Turns       int                `json:"turns"`
	Board       []string           `json:"board"`
	MoveHistory []MoveHistoryEntry `json:"move_history"`
	TotalMoves  int                `json:"total_moves"`

	// CurrentMoves tracks only the moves since the last reset. It mirrors MoveHistory entries
	// but gets cleared on reset while MoveHistory remains cumulative.
	CurrentMoves      []MoveHistoryEntry `json:"current_moves"`
	CurrentMovesCount int                `json:"current_moves_count"`
}

// MoveHistoryEntry represents a single turn in the game history
type MoveHistoryEntry struct {
	Action       Direction  `json:"action"`
	FromPosition Position   `json:"from_position"`
	ToPosition   Position   `json:"to_position"`
	MinotaurPath []Position `json:"minotaur_path,omitempty"`
	Timestamp    int64      `json:"timestamp"`
	MoveNumber   int        `json:"move_number"`
	StatusAfter  Status     `json:"status_after"`
}
