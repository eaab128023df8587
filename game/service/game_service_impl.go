package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/labyrinth/game/engine"
	"github.com/wricardo/mcp-training/labyrinth/game/highscore"
	"github.com/wricardo/mcp-training/labyrinth/game/levels"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	levels   LevelManager
	scores   HighscoreStore
	logger   *zap.Logger
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, levelManager LevelManager, scores HighscoreStore, logger *zap.Logger) GameService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &gameServiceImpl{
		sessions: sessions,
		levels:   levelManager,
		scores:   scores,
		logger:   logger,
	}
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		LevelNumber:    sess.LevelNumber,
		LevelName:      sess.Level.Name,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState(),
		Highscore:      s.scores.Get(sess.LevelNumber),
	}
}

// CreateSession creates a new game session. Level number 0 picks a random level.
func (s *gameServiceImpl) CreateSession(ctx context.Context, levelNumber int) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		level *engine.Level
		err   error
	)
	if levelNumber == 0 {
		levelNumber, level, err = s.levels.Random()
		if err != nil {
			return nil, fmt.Errorf("failed to pick a level: %w", err)
		}
	} else {
		level, err = s.levels.Get(levelNumber)
		if err != nil {
			// Provide helpful error message with available options
			if errors.Is(err, levels.ErrLevelNotFound) {
				return nil, fmt.Errorf("level %d not found, available levels: %v: %w", levelNumber, s.levels.Numbers(), err)
			}
			return nil, fmt.Errorf("failed to load level %d: %w", levelNumber, err)
		}
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", levelNumber, level)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("session created",
		zap.String("session", sess.ID),
		zap.Int("level", levelNumber),
		zap.String("level_name", level.Name))

	return s.sessionInfo(sess), nil
}

// GetSession retrieves session information. It touches the session's access
// time, so it takes the write lock.
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	_ = s.sessions.UpdateLastAccessed(sessionID)

	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions, oldest first
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
		}
		return sessions[i].ID < sessions[j].ID
	})

	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	s.logger.Info("session deleted", zap.String("session", sessionID))
	return nil
}

// Move plays one turn for a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, command string) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Get session
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	// Update last accessed time
	_ = s.sessions.UpdateLastAccessed(sessionID)

	d, err := engine.ParseDirection(command)
	if err != nil {
		return nil, err
	}

	from, _ := sess.Engine.TheseusPosition()
	turn := sess.Engine.Move(d)
	state := sess.Engine.GetState()

	result := &MoveResult{
		Success:   turn.Valid,
		Command:   d.String(),
		Turn:      turn,
		GameState: state,
		Events:    []GameEvent{},
	}

	if !turn.Valid {
		result.Message = rejectionMessage(d, from, turn.Status)
		if turn.Status == engine.Ongoing && d != engine.Pass {
			attempted := from.Add(d)
			result.AttemptedTo = &attempted
		}
		result.Highscore = s.scores.Get(sess.LevelNumber)
		return result, nil
	}

	result.Events = turnEvents(d, from, turn)
	result.Message = turnMessage(turn, state)

	if turn.Status == engine.Won {
		updated, previous := s.recordWin(sess)
		result.NewHighscore = updated
		if updated {
			result.Events = append(result.Events, highscoreEvent(sess.Engine.Turns(), previous))
		}
	}
	result.Highscore = s.scores.Get(sess.LevelNumber)

	s.logger.Debug("turn played",
		zap.String("session", sess.ID),
		zap.Stringer("command", d),
		zap.String("status", string(turn.Status)),
		zap.Int("minotaur_steps", len(turn.Minotaur)))

	return result, nil
}

// BulkMove plays commands in sequence until one is rejected or the game ends
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, commands []string) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	// Update last accessed
	_ = s.sessions.UpdateLastAccessed(sessionID)

	result := &BulkMoveResult{
		RequestedMoves: len(commands),
		Events:         make([]GameEvent, 0),
		Success:        true,
	}

	// Limit moves to prevent abuse
	if len(commands) > MaxBulkMoves {
		result.Truncated = true
		result.Limit = MaxBulkMoves
		commands = commands[:MaxBulkMoves]
	}

	// Execute moves
	for i, command := range commands {
		if sess.Engine.Status() != engine.Ongoing {
			result.StoppedReason = fmt.Sprintf("game already %s", sess.Engine.Status())
			result.StopReasonCode = "game_over"
			result.StoppedOnMove = i + 1
			break
		}

		d, err := engine.ParseDirection(command)
		if err != nil {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("move %d: %v", i+1, err)
			result.StopReasonCode = "invalid_command"
			result.StoppedOnMove = i + 1
			break
		}

		from, _ := sess.Engine.TheseusPosition()
		turn := sess.Engine.Move(d)
		if !turn.Valid {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("move %d blocked: %s", i+1, d)
			result.StopReasonCode = "blocked"
			result.StoppedOnMove = i + 1
			break
		}

		result.MovesExecuted++
		result.Events = append(result.Events, turnEvents(d, from, turn)...)

		to := from
		if turn.Theseus.To != nil {
			to = *turn.Theseus.To
		}
		step := StepInfo{
			Idx:     i + 1,
			Command: d.String(),
			From:    from,
			To:      to,
			Status:  turn.Status,
		}
		for _, m := range turn.Minotaur {
			step.MinotaurPath = append(step.MinotaurPath, m.To)
		}
		result.Steps = append(result.Steps, step)

		if turn.Status != engine.Ongoing {
			if i < len(commands)-1 {
				result.StoppedReason = fmt.Sprintf("game %s on move %d", turn.Status, i+1)
				result.StoppedOnMove = i + 1
			}
			break
		}
	}

	// Only a game that ended during this call is scored
	if n := len(result.Steps); n > 0 && result.StopReasonCode == "" {
		switch result.Steps[n-1].Status {
		case engine.Won:
			result.StopReasonCode = "won"
			updated, previous := s.recordWin(sess)
			result.NewHighscore = updated
			if updated {
				result.Events = append(result.Events, highscoreEvent(sess.Engine.Turns(), previous))
			}
		case engine.Lost:
			result.StopReasonCode = "lost"
		}
	}

	result.GameState = sess.Engine.GetState()
	result.Highscore = s.scores.Get(sess.LevelNumber)
	for _, d := range sess.Engine.GetPossibleMoves() {
		result.PossibleMoves = append(result.PossibleMoves, d.String())
	}

	return result, nil
}

// Reset resets a game session to initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	_ = s.sessions.UpdateLastAccessed(sessionID)
	s.logger.Debug("session reset", zap.String("session", sess.ID))
	return sess.Engine.Reset(), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	_ = s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	// Calculate pagination
	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	// Get the slice of moves
	moves := []engine.MoveHistoryEntry{}
	if opts.Order == "desc" {
		// Reverse order (most recent first)
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		// Normal chronological order
		moves = append(moves, history[start:end]...)
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListLevels returns the available levels
func (s *gameServiceImpl) ListLevels(ctx context.Context) ([]*levels.LevelInfo, error) {
	return s.levels.List()
}

// GetHighscore returns the best score for a level, or highscore.NoScore
func (s *gameServiceImpl) GetHighscore(ctx context.Context, level int) (int, error) {
	return s.scores.Get(level), nil
}

// ListHighscores returns every recorded best score
func (s *gameServiceImpl) ListHighscores(ctx context.Context) ([]highscore.Entry, error) {
	return s.scores.All(), nil
}

// SubmitHighscore records a score for an existing level
func (s *gameServiceImpl) SubmitHighscore(ctx context.Context, level, score int) (*HighscoreResult, error) {
	if score < 0 {
		return nil, ErrInvalidScore
	}
	if _, err := s.levels.Get(level); err != nil {
		return nil, fmt.Errorf("cannot record highscore: %w", err)
	}

	updated, previous := s.scores.Update(level, score)
	if updated {
		s.logger.Info("highscore updated", zap.Int("level", level), zap.Int("score", score), zap.Int("previous", previous))
	}

	return &HighscoreResult{
		Level:    level,
		Score:    score,
		Updated:  updated,
		Previous: previous,
		Best:     s.scores.Get(level),
	}, nil
}

// recordWin submits the session's turn count to the highscore table
func (s *gameServiceImpl) recordWin(sess *Session) (bool, int) {
	turns := sess.Engine.Turns()
	updated, previous := s.scores.Update(sess.LevelNumber, turns)

	s.logger.Info("game won",
		zap.String("session", sess.ID),
		zap.Int("level", sess.LevelNumber),
		zap.Int("turns", turns),
		zap.Bool("new_highscore", updated))

	return updated, previous
}

func turnEvents(d engine.Direction, from engine.Position, turn engine.MoveResult) []GameEvent {
	now := time.Now()
	events := []GameEvent{}

	if turn.Theseus.To != nil {
		to := *turn.Theseus.To
		events = append(events, GameEvent{
			Type:      "move",
			Message:   fmt.Sprintf("Theseus moved %s to %s", d, to),
			Timestamp: now,
			Position:  &to,
		})
	} else {
		at := from
		events = append(events, GameEvent{
			Type:      "pass",
			Message:   fmt.Sprintf("Theseus waits at %s", at),
			Timestamp: now,
			Position:  &at,
		})
	}

	for _, m := range turn.Minotaur {
		to := m.To
		events = append(events, GameEvent{
			Type:      "minotaur",
			Message:   fmt.Sprintf("Minotaur moved to %s", to),
			Timestamp: now,
			Position:  &to,
		})
	}

	switch turn.Status {
	case engine.Won:
		events = append(events, GameEvent{
			Type:      "victory",
			Message:   "Theseus reached the exit",
			Timestamp: now,
		})
	case engine.Lost:
		events = append(events, GameEvent{
			Type:      "captured",
			Message:   "The Minotaur caught Theseus",
			Timestamp: now,
		})
	}

	return events
}

func highscoreEvent(turns, previous int) GameEvent {
	msg := fmt.Sprintf("New highscore: %d turns", turns)
	if previous != highscore.NoScore {
		msg = fmt.Sprintf("New highscore: %d turns (previous best %d)", turns, previous)
	}
	return GameEvent{
		Type:      "highscore",
		Message:   msg,
		Timestamp: time.Now(),
	}
}

func turnMessage(turn engine.MoveResult, state *engine.GameState) string {
	switch turn.Status {
	case engine.Won:
		return fmt.Sprintf("Theseus escaped in %d turns!", state.Turns)
	case engine.Lost:
		return "The Minotaur caught Theseus!"
	}
	if len(turn.Minotaur) == 0 {
		return "The Minotaur stays put."
	}
	return fmt.Sprintf("The Minotaur is now at %s.", state.Minotaur)
}

func rejectionMessage(d engine.Direction, from engine.Position, status engine.Status) string {
	if status != engine.Ongoing {
		return fmt.Sprintf("The game is over (%s). Reset to play again.", status)
	}
	return fmt.Sprintf("Theseus can't move %s from %s.", d, from)
}
