// Package levels provides level file discovery and loading for the labyrinth game.
//
// The levels package handles:
//   - Discovering level<N>.json, level<N>.yaml and level<N>.yml files
//   - Decoding and validating levels through the engine package
//   - Caching parsed levels and deduplicating concurrent loads
//   - Picking a random level for new sessions
//
// Level Format:
//
// A level lists its tiles with per-tile wall flags plus the exit, Theseus
// and Minotaur start positions:
//
//	{
//	  "name": "First Steps",
//	  "tiles": [{"x": 0, "y": 0, "left": true, "top": true}, ...],
//	  "exit": {"x": 2, "y": 0},
//	  "theseus": {"x": 0, "y": 0},
//	  "minotaur": {"x": 2, "y": 2}
//	}
//
// Usage:
//
//	manager, err := levels.NewManager("levels", logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	level, err := manager.Get(1)
//	number, level, err := manager.Random()
//	infos, err := manager.List()
package levels
