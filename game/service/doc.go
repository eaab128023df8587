// Package service provides the business logic layer for the labyrinth game.
//
// The service package implements:
//   - Multi-session game management
//   - Level selection, including random levels
//   - Command parsing and turn processing
//   - Highscore bookkeeping on winning moves
//   - Move history tracking with pagination
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// LevelManager loads levels by number. HighscoreStore keeps the best score
// (fewest turns) per level.
//
// Architecture:
//
// The service layer sits between the surfaces (CLI and MCP) and the game
// engine. Each session owns its own engine instance; calls are serialized by
// the service so a session's engine is never mutated concurrently.
//
// Usage:
//
//	levelMgr, err := levels.NewManager("levels", logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	gameService := service.NewGameService(session.NewManager(logger), levelMgr, highscore.NewTable(), logger)
//
//	// Create a new session on level 1 (0 picks a random level)
//	sessionInfo, err := gameService.CreateSession(ctx, 1)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Play a turn
//	result, err := gameService.Move(ctx, sessionInfo.ID, "R")
package service
