package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/labyrinth/game/engine"
	"github.com/wricardo/mcp-training/labyrinth/game/highscore"
	"github.com/wricardo/mcp-training/labyrinth/game/service"
)

const (
	serverName    = "Labyrinth"
	serverVersion = "1.0.0"
)

// Server exposes a GameService as MCP tools
type Server struct {
	game      service.GameService
	logger    *zap.Logger
	tools     []server.ServerTool
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server backed by the given game service
func NewServer(game service.GameService, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		game:   game,
		logger: logger,
	}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Labyrinth - MCP Interface

Guide Theseus (T) out of the maze through the exit (E) before the Minotaur (M) catches him.
Every command is one turn: Theseus moves one tile (or passes) and then the Minotaur takes two steps towards him.

AVAILABLE TOOLS:
- list_levels: List the available levels
- create_session: Start a game on a level (random when omitted)
- list_sessions / get_session / delete_session: Manage sessions
- game_state: Current board and status
- move: Play one turn (left/right/up/down/pass)
- bulk_move: Play several turns at once
- reset_game: Restart the level
- move_history: View past turns
- highscore: Best scores per level
- game_instructions: Full rules`),
	)

	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves the tools over stdin/stdout until the input is closed
func (s *Server) ServeStdio() error {
	s.logger.Info("serving MCP over stdio", zap.Int("tools", len(s.tools)))
	return server.ServeStdio(s.mcpServer)
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func emptySchema() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: map[string]interface{}{},
	}
}

func sessionSchema() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"session_id": sessionIDProperty(),
		},
		Required: []string{"session_id"},
	}
}

var commandNames = []string{"left", "right", "up", "down", "pass"}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.tools = []server.ServerTool{
		{
			Tool: mcp.Tool{
				Name:        "list_levels",
				Description: "List the available levels with their size",
				InputSchema: emptySchema(),
			},
			Handler: s.handleListLevels,
		},
		{
			Tool: mcp.Tool{
				Name:        "create_session",
				Description: "Create a new game session",
				InputSchema: mcp.ToolInputSchema{
					Type: "object",
					Properties: map[string]interface{}{
						"level": map[string]interface{}{
							"type":        "integer",
							"description": "Level number to play (optional, a random level when omitted or 0)",
						},
					},
				},
			},
			Handler: s.handleCreateSession,
		},
		{
			Tool: mcp.Tool{
				Name:        "list_sessions",
				Description: "List all active game sessions",
				InputSchema: emptySchema(),
			},
			Handler: s.handleListSessions,
		},
		{
			Tool: mcp.Tool{
				Name:        "get_session",
				Description: "Get details of a specific session",
				InputSchema: sessionSchema(),
			},
			Handler: s.handleGetSession,
		},
		{
			Tool: mcp.Tool{
				Name:        "delete_session",
				Description: "End a session",
				InputSchema: sessionSchema(),
			},
			Handler: s.handleDeleteSession,
		},
		{
			Tool: mcp.Tool{
				Name:        "game_state",
				Description: "Get the current board and game status",
				InputSchema: sessionSchema(),
			},
			Handler: s.handleGameState,
		},
		{
			Tool: mcp.Tool{
				Name:        "move",
				Description: "Play one turn: move Theseus one tile or pass, then the Minotaur takes two steps",
				InputSchema: mcp.ToolInputSchema{
					Type: "object",
					Properties: map[string]interface{}{
						"session_id": sessionIDProperty(),
						"direction": map[string]interface{}{
							"type":        "string",
							"enum":        commandNames,
							"description": "Direction to move, or pass to stay in place",
						},
						"intent": map[string]interface{}{
							"type":        "string",
							"description": "Brief explanation of the intent behind this move",
						},
						"reset": map[string]interface{}{
							"type":        "boolean",
							"description": "Reset the level before moving",
						},
					},
					Required: []string{"session_id", "direction"},
				},
			},
			Handler: s.handleMove,
		},
		{
			Tool: mcp.Tool{
				Name:        "bulk_move",
				Description: fmt.Sprintf("Play several turns in sequence (at most %d). Stops at the first rejected command or when the game ends", service.MaxBulkMoves),
				InputSchema: mcp.ToolInputSchema{
					Type: "object",
					Properties: map[string]interface{}{
						"session_id": sessionIDProperty(),
						"moves": map[string]interface{}{
							"type": "array",
							"items": map[string]interface{}{
								"type": "string",
							},
							"description": "Commands to play: left/right/up/down/pass or the letters L/R/U/D/P",
						},
						"intent": map[string]interface{}{
							"type":        "string",
							"description": "Brief explanation of the intent behind this sequence of moves",
						},
						"reset": map[string]interface{}{
							"type":        "boolean",
							"description": "Reset the level before moving",
						},
					},
					Required: []string{"session_id", "moves"},
				},
			},
			Handler: s.handleBulkMove,
		},
		{
			Tool: mcp.Tool{
				Name:        "reset_game",
				Description: "Reset the game to the level's start positions",
				InputSchema: sessionSchema(),
			},
			Handler: s.handleReset,
		},
		{
			Tool: mcp.Tool{
				Name:        "move_history",
				Description: "Get move history for a session",
				InputSchema: mcp.ToolInputSchema{
					Type: "object",
					Properties: map[string]interface{}{
						"session_id": sessionIDProperty(),
						"page": map[string]interface{}{
							"type":        "integer",
							"description": "Page number",
						},
						"limit": map[string]interface{}{
							"type":        "integer",
							"description": "Items per page",
						},
						"order": map[string]interface{}{
							"type":        "string",
							"enum":        []string{"asc", "desc"},
							"description": "Sort order (default desc)",
						},
					},
					Required: []string{"session_id"},
				},
			},
			Handler: s.handleMoveHistory,
		},
		{
			Tool: mcp.Tool{
				Name:        "highscore",
				Description: "Get the best score (fewest turns) for a level, or for every level when none is given",
				InputSchema: mcp.ToolInputSchema{
					Type: "object",
					Properties: map[string]interface{}{
						"level": map[string]interface{}{
							"type":        "integer",
							"description": "Level number (optional)",
						},
					},
				},
			},
			Handler: s.handleHighscore,
		},
		{
			Tool: mcp.Tool{
				Name:        "game_instructions",
				Description: "Get the complete game rules",
				InputSchema: emptySchema(),
			},
			Handler: s.handleGameInstructions,
		},
	}

	s.mcpServer.AddTools(s.tools...)
}

// Tool handlers

func (s *Server) handleListLevels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	infos, err := s.game.ListLevels(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Available Levels (%d):\n\n", len(infos))
	for _, info := range infos {
		best, _ := s.game.GetHighscore(ctx, info.Number)
		fmt.Fprintf(&b, "• Level %d: %s (%dx%d)", info.Number, info.Name, info.Width, info.Height)
		if best != highscore.NoScore {
			fmt.Fprintf(&b, ", best %d turns", best)
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	level := request.GetInt("level", 0)

	info, err := s.game.CreateSession(ctx, level)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nLevel %d: %s\n\n%s",
		info.ID, info.LevelNumber, info.LevelName, formatGameState(info.GameState))
	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions, err := s.game.ListSessions(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", len(sessions))
	for _, info := range sessions {
		fmt.Fprintf(&b, "- %s (Level %d: %s, %s after %d turns, Created: %s)\n",
			info.ID, info.LevelNumber, info.LevelName,
			info.GameState.Status, info.GameState.Turns, info.CreatedAt.Format("15:04:05"))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	info, err := s.game.GetSession(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSessionInfo(info)), nil
}

func (s *Server) handleDeleteSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.game.DeleteSession(ctx, sessionID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Deleted session: %s", sessionID)), nil
}

func (s *Server) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	state, err := s.game.GetGameState(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGameState(state)), nil
}

func (s *Server) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	direction, err := request.RequireString("direction")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if request.GetBool("reset", false) {
		if _, err := s.game.Reset(ctx, sessionID); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	result, err := s.game.Move(ctx, sessionID, direction)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatMoveResult(result)), nil
}

func (s *Server) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	movesRaw, _ := args["moves"].([]interface{})
	if len(movesRaw) == 0 {
		return mcp.NewToolResultError("moves must be a non-empty array of commands"), nil
	}
	moves := make([]string, 0, len(movesRaw))
	for i, m := range movesRaw {
		move, ok := m.(string)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("moves[%d] must be a string, got %v", i, m)), nil
		}
		moves = append(moves, move)
	}

	if request.GetBool("reset", false) {
		if _, err := s.game.Reset(ctx, sessionID); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	result, err := s.game.BulkMove(ctx, sessionID, moves)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatBulkMoveResult(sessionID, result)), nil
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	state, err := s.game.Reset(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Game reset.\n\n" + formatGameState(state)), nil
}

func (s *Server) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := service.HistoryOptions{
		Page:  request.GetInt("page", 1),
		Limit: request.GetInt("limit", 20),
		Order: request.GetString("order", "desc"),
	}
	history, err := s.game.GetMoveHistory(ctx, sessionID, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatHistory(history)), nil
}

func (s *Server) handleHighscore(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if level := request.GetInt("level", 0); level > 0 {
		best, err := s.game.GetHighscore(ctx, level)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if best == highscore.NoScore {
			return mcp.NewToolResultText(fmt.Sprintf("Level %d has not been won yet.", level)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Level %d highscore: %d turns", level, best)), nil
	}

	entries, err := s.game.ListHighscores(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText("No highscores yet."), nil
	}

	var b strings.Builder
	b.WriteString("Highscores:\n\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "• Level %d: %d turns\n", e.Level, e.Score)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `Labyrinth - Complete Instructions

GAME OBJECTIVE:
Lead Theseus (T) to the exit (E). The Minotaur (M) hunts him and wins if it reaches his tile.

BOARD LEGEND:
• T - Theseus
• M - The Minotaur
• E - The exit
• + - Wall post between tiles
• - - Wall on the top or bottom side of a tile
• | - Wall on the left or right side of a tile
• (space) - Open floor or an open passage

COMMANDS:
• left / right / up / down (or L / R / U / D): move Theseus one tile
• pass (or P, wait): stay in place for a turn
A move into a wall, off the maze or onto the Minotaur is rejected and does not use a turn.

THE MINOTAUR:
After every accepted command the Minotaur takes two steps. For each step it:
1. Tries to move horizontally, but only if that brings it strictly closer to Theseus
2. Otherwise tries to move vertically under the same rule
3. Otherwise stays where it is
Distance is counted in tiles (|dx| + |dy|) and ignores walls, so the Minotaur can be trapped behind a wall.

END OF GAME:
• Victory: Theseus steps onto the exit. The game ends at once and the Minotaur does not move that turn
• Defeat: the Minotaur lands on Theseus during one of its two steps
Once the game is over every command is rejected until the level is reset.

SCORING:
Your score is the number of turns taken to win, passes included. Fewer is better.

STRATEGY:
• Pull the Minotaur behind a wall, then walk around it
• Passing is often the key move: it lets the Minotaur get stuck
• Use bulk_move to replay a known sequence after reset_game`

// Formatting helpers

func formatSessionInfo(info *service.SessionInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\nLevel %d: %s\nCreated: %s\nLast Accessed: %s\n",
		info.ID, info.LevelNumber, info.LevelName,
		info.CreatedAt.Format("15:04:05"), info.LastAccessedAt.Format("15:04:05"))
	if info.Highscore != highscore.NoScore {
		fmt.Fprintf(&b, "Highscore: %d turns\n", info.Highscore)
	}
	b.WriteString("\n")
	b.WriteString(formatGameState(info.GameState))
	return b.String()
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder
	if state.LevelName != "" {
		fmt.Fprintf(&b, "Level: %s (%dx%d)\n", state.LevelName, state.Width, state.Height)
	}
	fmt.Fprintf(&b, "Status: %s\nTurns: %d\n", statusLabel(state.Status), state.Turns)
	if state.Theseus != nil {
		fmt.Fprintf(&b, "Theseus: %s\n", *state.Theseus)
	}
	fmt.Fprintf(&b, "Minotaur: %s\n", state.Minotaur)
	if state.Exit != nil {
		fmt.Fprintf(&b, "Exit: %s\n", *state.Exit)
	}
	b.WriteString("\nBoard:\n")
	for _, line := range state.Board {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func statusLabel(status engine.Status) string {
	switch status {
	case engine.Won:
		return "🎉 VICTORY!"
	case engine.Lost:
		return "💀 CAUGHT BY THE MINOTAUR"
	}
	return string(status)
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Success {
		fmt.Fprintf(&b, "✅ %s: %s\n", result.Command, result.Message)
	} else {
		fmt.Fprintf(&b, "❌ %s rejected: %s\n", result.Command, result.Message)
		if result.AttemptedTo != nil {
			fmt.Fprintf(&b, "Attempted to reach %s\n", *result.AttemptedTo)
		}
	}

	for _, ev := range result.Events {
		fmt.Fprintf(&b, "  • %s\n", ev.Message)
	}
	if result.NewHighscore {
		fmt.Fprintf(&b, "🏆 New highscore: %d turns\n", result.Highscore)
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session %s: executed %d of %d moves\n", sessionID, result.MovesExecuted, result.RequestedMoves)
	if result.Truncated {
		fmt.Fprintf(&b, "⚠️ Only the first %d moves were played\n", result.Limit)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped: %s\n", result.StoppedReason)
	}

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps:\n")
		for _, step := range result.Steps {
			fmt.Fprintf(&b, "%3d. %-5s %s -> %s", step.Idx, step.Command, step.From, step.To)
			if len(step.MinotaurPath) > 0 {
				path := make([]string, len(step.MinotaurPath))
				for i, p := range step.MinotaurPath {
					path[i] = p.String()
				}
				fmt.Fprintf(&b, " | M %s", strings.Join(path, " -> "))
			}
			if step.Status != engine.Ongoing {
				fmt.Fprintf(&b, " [%s]", step.Status)
			}
			b.WriteString("\n")
		}
	}

	if result.NewHighscore {
		fmt.Fprintf(&b, "🏆 New highscore: %d turns\n", result.Highscore)
	}
	if len(result.PossibleMoves) > 0 {
		fmt.Fprintf(&b, "Possible moves: %s\n", strings.Join(result.PossibleMoves, ", "))
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d of %d, %d total):\n\n", history.Page, history.TotalPages, history.TotalMoves)
	for _, m := range history.Moves {
		fmt.Fprintf(&b, "#%d %s: %s -> %s", m.MoveNumber, m.Action, m.FromPosition, m.ToPosition)
		if len(m.MinotaurPath) > 0 {
			fmt.Fprintf(&b, ", Minotaur to %s", m.MinotaurPath[len(m.MinotaurPath)-1])
		}
		if m.StatusAfter != engine.Ongoing {
			fmt.Fprintf(&b, " [%s]", m.StatusAfter)
		}
		b.WriteString("\n")
	}
	if history.HasNext {
		b.WriteString("\nMore moves available on the next page.\n")
	}
	return b.String()
}
