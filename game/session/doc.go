// Package session provides in-memory session management for the labyrinth game.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session lifecycle management
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each service.Session owns its own engine instance together with the level
// number it was started on, so several games can run side by side.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. Lookups are
// case-insensitive and generated IDs never collide with live sessions.
//
// Usage:
//
//	manager := session.NewManager(logger)
//
//	// Create a new session on level 1
//	sess, err := manager.Create("", 1, level)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Retrieve existing session
//	sess, err = manager.Get(sessionID)
//
// Cleanup:
//
// Sessions can be explicitly deleted or removed by CleanupExpiredSessions
// once they have been idle longer than a given age. Stats reports lifetime
// counters.
package session
