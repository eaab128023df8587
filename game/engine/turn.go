package engine

// PlayTurn runs one full turn: the player's command followed by up to two
// Minotaur pursuit steps. Terminal games and illegal commands return an
// invalid result and leave the board untouched.
func (b *Board) PlayTurn(d Direction) MoveResult {
	result := MoveResult{
		Minotaur: []MinotaurMove{},
		Status:   b.Status(),
	}

	if result.Status != Ongoing {
		return result
	}

	if d != Pass {
		if !b.IsValid(b.theseus, d) {
			return result
		}
		to := b.moveTheseus(d)
		result.Theseus.To = &to
	}
	result.Valid = true

	for i := 0; i < MinotaurSteps; i++ {
		// The game may already be over after Theseus's move or the first step
		if b.Status() != Ongoing {
			break
		}
		if to, moved := b.StepMinotaur(); moved {
			result.Minotaur = append(result.Minotaur, MinotaurMove{To: to})
		}
	}

	result.Status = b.Status()
	return result
}
