// Package engine provides the core game logic for the Theseus and Minotaur
// labyrinth puzzle.
//
// The engine package implements the game mechanics including:
//   - Wall derivation from per-tile flags and the doubled-resolution board grid
//   - Move validation for both entities
//   - Greedy Minotaur pursuit, two steps per player turn
//   - Win and loss detection and move history
//   - Level decoding and validation
//
// Core Types:
//
// Board holds the immutable grid and the entity coordinates and knows how to
// play a single turn. The Engine interface, implemented by GameEngine, wraps a
// Board with turn counting, reset and history. Level is the JSON/YAML
// description a game is built from.
//
// Usage:
//
//	level, err := engine.LoadLevel("levels/level1.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(level)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result := gameEngine.Move(engine.Right)
//	fmt.Println(gameEngine.GetState().Status, result.Valid)
//
// Game Rules:
//
// Theseus moves one tile or passes. The Minotaur then takes two steps, each
// towards Theseus, trying horizontal moves before vertical ones and only
// moving when the Manhattan distance strictly shrinks. Theseus wins on the
// exit tile and loses when the Minotaur reaches the same tile.
package engine
