package engine

import "math"

const unreachable = math.MaxInt

// NextMinotaurPosition computes one greedy pursuit step without applying it.
// Horizontal moves are considered first and only a strictly shorter Manhattan
// distance to Theseus qualifies; ties prefer Left, then Up. The boolean is
// false when no direction gets closer and the Minotaur stays put.
func (b *Board) NextMinotaurPosition() (Position, bool) {
	return b.pursue(b.minotaur, b.theseus)
}

func (b *Board) pursue(minotaur, theseus Position) (Position, bool) {
	current := ManhattanDistance(minotaur, theseus)

	var distances [Pass]int
	for _, d := range Cardinals {
		distances[d] = unreachable
		if b.IsValid(minotaur, d) {
			distances[d] = ManhattanDistance(minotaur.Add(d), theseus)
		}
	}

	if next, ok := closer(distances[Left], distances[Right], Left, Right, current); ok {
		return minotaur.Add(next), true
	}
	if next, ok := closer(distances[Up], distances[Down], Up, Down, current); ok {
		return minotaur.Add(next), true
	}
	return minotaur, false
}

// closer picks between two opposing directions on one axis
func closer(first, second int, a, b Direction, current int) (Direction, bool) {
	if first >= current && second >= current {
		return 0, false
	}
	if first <= second {
		return a, true
	}
	return b, true
}

// StepMinotaur applies one pursuit step and reports whether the Minotaur moved
func (b *Board) StepMinotaur() (Position, bool) {
	next, moved := b.NextMinotaurPosition()
	if moved {
		b.minotaur = next
	}
	return next, moved
}
