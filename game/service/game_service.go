package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/mcp-training/labyrinth/game/engine"
	"github.com/wricardo/mcp-training/labyrinth/game/highscore"
	"github.com/wricardo/mcp-training/labyrinth/game/levels"
)

// MaxBulkMoves caps the number of commands accepted by one BulkMove call
const MaxBulkMoves = 100

var ErrInvalidScore = errors.New("score must not be negative")

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, levelNumber int) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID, command string) (*MoveResult, error)
	BulkMove(ctx context.Context, sessionID string, commands []string) (*BulkMoveResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Levels and highscores
	ListLevels(ctx context.Context) ([]*levels.LevelInfo, error)
	GetHighscore(ctx context.Context, level int) (int, error)
	ListHighscores(ctx context.Context) ([]highscore.Entry, error)
	SubmitHighscore(ctx context.Context, level, score int) (*HighscoreResult, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, number int, level *engine.Level) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, number int, level *engine.Level) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// LevelManager handles level loading
type LevelManager interface {
	Get(number int) (*engine.Level, error)
	Random() (int, *engine.Level, error)
	List() ([]*levels.LevelInfo, error)
	Numbers() []int
}

// HighscoreStore keeps the best score per level
type HighscoreStore interface {
	Get(level int) int
	Update(level, score int) (updated bool, previous int)
	All() []highscore.Entry
}

// Session represents an active game session
type Session struct {
	ID             string
	LevelNumber    int
	Level          *engine.Level
	Engine         *engine.GameEngine
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
