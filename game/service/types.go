package service

import (
	"time"

	"github.com/wricardo/mcp-training/labyrinth/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string            `json:"id"`
	LevelNumber    int               `json:"level_number"`
	LevelName      string            `json:"level_name"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	GameState      *engine.GameState `json:"game_state"`
	Highscore      int               `json:"highscore"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success     bool              `json:"success"`
	Command     string            `json:"command"`
	Turn        engine.MoveResult `json:"turn"`
	GameState   *engine.GameState `json:"game_state"`
	Message     string            `json:"message"`
	Events      []GameEvent       `json:"events,omitempty"`
	AttemptedTo *engine.Position  `json:"attempted_to,omitempty"`

	// Set on the winning move only
	NewHighscore bool `json:"new_highscore,omitempty"`
	Highscore    int  `json:"highscore"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	// Summary
	MovesExecuted  int               `json:"moves_executed"`
	RequestedMoves int               `json:"requested_moves"`
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`   // Human-readable reason
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // Machine-friendly code: invalid_command|blocked|game_over|won|lost
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"`  // 1-based index of the move that caused stop
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	// Per-step compact trace (only for this call)
	Steps []StepInfo `json:"steps,omitempty"`

	// Final status aids
	PossibleMoves []string `json:"possible_moves,omitempty"`
	NewHighscore  bool     `json:"new_highscore,omitempty"`
	Highscore     int      `json:"highscore"`
}

// StepInfo is a compact record for each executed turn in the bulk call
type StepInfo struct {
	Idx          int               `json:"idx"`
	Command      string            `json:"command"`
	From         engine.Position   `json:"from"`
	To           engine.Position   `json:"to"`
	MinotaurPath []engine.Position `json:"minotaur_path,omitempty"`
	Status       engine.Status     `json:"status"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string           `json:"type"` // "move", "pass", "minotaur", "victory", "captured", "highscore", "reset"
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Position  *engine.Position `json:"position,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// HighscoreResult reports the outcome of a highscore submission
type HighscoreResult struct {
	Level    int  `json:"level"`
	Score    int  `json:"score"`
	Updated  bool `json:"updated"`
	Previous int  `json:"previous"`
	Best     int  `json:"best"`
}
