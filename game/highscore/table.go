// Package highscore keeps the best score per level in memory.
// A score is the number of turns taken to win; lower is better.
package highscore

import (
	"sort"
	"sync"
)

// NoScore is returned for levels that have not been won yet
const NoScore = -1

// Entry is one level's best score
type Entry struct {
	Level int `json:"level"`
	Score int `json:"score"`
}

// Table maps level numbers to their best score. It is safe for concurrent use.
type Table struct {
	mu     sync.RWMutex
	scores map[int]int
}

// NewTable creates an empty highscore table
func NewTable() *Table {
	return &Table{
		scores: make(map[int]int),
	}
}

// Get returns the best score for a level, or NoScore
func (t *Table) Get(level int) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if score, ok := t.scores[level]; ok {
		return score
	}
	return NoScore
}

// Update records score if it beats the current best. It reports whether the
// table changed and the previous best (NoScore when there was none).
func (t *Table) Update(level, score int) (updated bool, previous int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	previous, ok := t.scores[level]
	if !ok {
		t.scores[level] = score
		return true, NoScore
	}
	if score < previous {
		t.scores[level] = score
		return true, previous
	}
	return false, previous
}

// All returns every recorded score ordered by level
func (t *Table) All() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	entries := make([]Entry, 0, len(t.scores))
	for level, score := range t.scores {
		entries = append(entries, Entry{Level: level, Score: score})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Level < entries[j].Level
	})
	return entries
}
