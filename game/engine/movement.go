package engine

import "github.com/zyedidia/generic/mapset"

// IsValid reports whether an entity at from may step in direction d.
// A move is rejected when it leaves the maze, lands on the Minotaur, or
// crosses a wall edge. Theseus never blocks a move; only the Minotaur does.
func (b *Board) IsValid(from Position, d Direction) bool {
	dx, dy := d.Offset()
	if dx == 0 && dy == 0 {
		return false
	}

	to := Position{X: from.X + dx, Y: from.Y + dy}
	if !b.InBounds(to) {
		return false
	}
	if to == b.minotaur {
		return false
	}

	// The edge cell sits one grid step from the node cell of from
	return b.cells[2*from.Y+1+dy][2*from.X+1+dx] != Wall
}

// PossibleMoves returns every direction Theseus can currently take
func (b *Board) PossibleMoves() []Direction {
	var possible []Direction
	for _, d := range Cardinals {
		if b.IsValid(b.theseus, d) {
			possible = append(possible, d)
		}
	}
	return possible
}

// moveTheseus relocates Theseus one step; callers validate first
func (b *Board) moveTheseus(d Direction) Position {
	b.theseus = b.theseus.Add(d)
	return b.theseus
}

// Reachable returns every tile connected to from through open passages.
// The Minotaur is ignored.
func (b *Board) Reachable(from Position) mapset.Set[Position] {
	seen := mapset.New[Position]()
	if !b.InBounds(from) {
		return seen
	}

	seen.Put(from)
	queue := []Position{from}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		for _, d := range Cardinals {
			dx, dy := d.Offset()
			next := p.Add(d)
			if !b.InBounds(next) || seen.Has(next) || b.cells[2*p.Y+1+dy][2*p.X+1+dx] == Wall {
				continue
			}
			seen.Put(next)
			queue = append(queue, next)
		}
	}
	return seen
}
