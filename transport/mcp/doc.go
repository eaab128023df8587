// Package mcp provides the Model Context Protocol server for the labyrinth game.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for game operations
//   - Plain text rendering of boards, turns and histories
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - list_levels: List the available levels and their best scores
//   - create_session: Start a session on a level (random when omitted)
//   - list_sessions, get_session, delete_session: Session management
//   - game_state: Current board with status and positions
//   - move: Play a single turn (left/right/up/down/pass)
//   - bulk_move: Play several turns in sequence
//   - reset_game: Restore the level's start positions
//   - move_history: Retrieve move history with pagination
//   - highscore: Best scores per level
//   - game_instructions: Complete rules
//
// Transport:
//
// Tools are served over stdio. Every tool except the level, highscore and
// instruction tools needs a session_id returned by create_session.
//
// Usage:
//
//	server := mcp.NewServer(gameService, logger)
//	if err := server.ServeStdio(); err != nil {
//		log.Fatal(err)
//	}
package mcp
