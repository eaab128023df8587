package engine

import (
	"fmt"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	Reset() *GameState
	Status() Status
	HasWon() bool
	HasLost() bool
	Turns() int

	// Entity queries
	TheseusPosition() (Position, bool)
	MinotaurPosition() Position
	ExitPosition() (Position, bool)

	// Movement operations
	Move(d Direction) MoveResult
	IsValid(from Position, d Direction) bool
	GetPossibleMoves() []Direction

	// Level
	GetLevel() *Level
	Board() *Board

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
}

// GameEngine implements the Engine interface for one in-progress game.
// It is not safe for concurrent use.
type GameEngine struct {
	level *Level
	board *Board
	turns int

	moveHistory  []MoveHistoryEntry
	currentMoves []MoveHistoryEntry
}

// NewEngine creates a new game engine for the provided level
func NewEngine(level *Level) (*GameEngine, error) {
	if err := ValidateLevel(level); err != nil {
		return nil, err
	}

	board, err := newBoardFromLevel(level)
	if err != nil {
		return nil, err
	}

	return &GameEngine{
		level:        level,
		board:        board,
		moveHistory:  []MoveHistoryEntry{},
		currentMoves: []MoveHistoryEntry{},
	}, nil
}

func newBoardFromLevel(level *Level) (*Board, error) {
	board, err := NewBoard(level.Tiles, *level.Exit, *level.Theseus, *level.Minotaur)
	if err != nil {
		return nil, fmt.Errorf("failed to build board: %w", err)
	}
	return board, nil
}

// GetState returns a snapshot of the current game state
func (e *GameEngine) GetState() *GameState {
	state := &GameState{
		LevelName:         e.level.Name,
		Width:             e.board.Width(),
		Height:            e.board.Height(),
		Minotaur:          e.board.Minotaur(),
		Status:            e.board.Status(),
		Turns:             e.turns,
		Board:             e.board.Lines(),
		MoveHistory:       e.moveHistory,
		TotalMoves:        len(e.moveHistory),
		CurrentMoves:      e.currentMoves,
		CurrentMovesCount: len(e.currentMoves),
	}
	if p, ok := e.board.Theseus(); ok {
		state.Theseus = &p
	}
	if p, ok := e.board.Exit(); ok {
		state.Exit = &p
	}
	return state
}

// Reset restores the level's starting positions. The cumulative move history
// is preserved; only the current segment and the turn counter are cleared.
func (e *GameEngine) Reset() *GameState {
	board, err := newBoardFromLevel(e.level)
	if err != nil {
		// The level was validated when the engine was created
		panic(err)
	}
	e.board = board
	e.turns = 0
	e.currentMoves = []MoveHistoryEntry{}
	return e.GetState()
}

// Status returns the turn controller state
func (e *GameEngine) Status() Status {
	return e.board.Status()
}

// HasWon returns whether Theseus reached the exit
func (e *GameEngine) HasWon() bool {
	return e.board.Status() == Won
}

// HasLost returns whether the Minotaur caught Theseus
func (e *GameEngine) HasLost() bool {
	return e.board.Status() == Lost
}

// Turns returns the number of accepted turns since the last reset
func (e *GameEngine) Turns() int {
	return e.turns
}

// TheseusPosition returns Theseus's position, or false once captured
func (e *GameEngine) TheseusPosition() (Position, bool) {
	return e.board.Theseus()
}

// MinotaurPosition returns the Minotaur's position
func (e *GameEngine) MinotaurPosition() Position {
	return e.board.Minotaur()
}

// ExitPosition returns the exit position, or false once Theseus stands on it
func (e *GameEngine) ExitPosition() (Position, bool) {
	return e.board.Exit()
}

// Move plays one turn with the given command
func (e *GameEngine) Move(d Direction) MoveResult {
	from := e.board.theseus
	result := e.board.PlayTurn(d)
	if !result.Valid {
		return result
	}

	e.turns++
	e.addMoveToHistory(d, from, result)
	return result
}

// IsValid checks whether an entity at from may move in direction d
func (e *GameEngine) IsValid(from Position, d Direction) bool {
	return e.board.IsValid(from, d)
}

// GetPossibleMoves returns all directions Theseus can currently move
func (e *GameEngine) GetPossibleMoves() []Direction {
	if e.board.Status() != Ongoing {
		return nil
	}
	return e.board.PossibleMoves()
}

// GetLevel returns the level the engine was built from
func (e *GameEngine) GetLevel() *Level {
	return e.level
}

// Board returns the live board
func (e *GameEngine) Board() *Board {
	return e.board
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.moveHistory
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.moveHistory) == 0 {
		return nil
	}
	return &e.moveHistory[len(e.moveHistory)-1]
}

// Clone returns an independent engine in the same position
func (e *GameEngine) Clone() *GameEngine {
	return &GameEngine{
		level:        e.level,
		board:        e.board.Clone(),
		turns:        e.turns,
		moveHistory:  append([]MoveHistoryEntry{}, e.moveHistory...),
		currentMoves: append([]MoveHistoryEntry{}, e.currentMoves...),
	}
}

// BulkMove executes multiple moves in sequence, returning the result of each
func (e *GameEngine) BulkMove(moves []Direction) []MoveResult {
	results := make([]MoveResult, 0, len(moves))

	for _, d := range moves {
		// Stop if game is over
		if e.board.Status() != Ongoing {
			break
		}
		results = append(results, e.Move(d))
	}

	return results
}

func (e *GameEngine) addMoveToHistory(d Direction, from Position, result MoveResult) {
	entry := MoveHistoryEntry{
		Action:       d,
		FromPosition: from,
		ToPosition:   e.board.theseus,
		Timestamp:    time.Now().Unix(),
		MoveNumber:   len(e.moveHistory) + 1,
		StatusAfter:  result.Status,
	}
	for _, m := range result.Minotaur {
		entry.MinotaurPath = append(entry.MinotaurPath, m.To)
	}

	// Append to cumulative history (never cleared by reset)
	e.moveHistory = append(e.moveHistory, entry)
	e.currentMoves = append(e.currentMoves, entry)
}
