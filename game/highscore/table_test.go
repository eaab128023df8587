package highscore

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTable_Update(t *testing.T) {
	table := NewTable()

	t.Run("unknown level", func(t *testing.T) {
		assert.Equal(t, NoScore, table.Get(1))
	})

	t.Run("first score is always accepted", func(t *testing.T) {
		updated, previous := table.Update(1, 12)
		assert.True(t, updated)
		assert.Equal(t, NoScore, previous)
		assert.Equal(t, 12, table.Get(1))
	})

	t.Run("worse score is rejected", func(t *testing.T) {
		updated, previous := table.Update(1, 15)
		assert.False(t, updated)
		assert.Equal(t, 12, previous)
		assert.Equal(t, 12, table.Get(1))
	})

	t.Run("equal score is rejected", func(t *testing.T) {
		updated, _ := table.Update(1, 12)
		assert.False(t, updated)
	})

	t.Run("better score replaces", func(t *testing.T) {
		updated, previous := table.Update(1, 9)
		assert.True(t, updated)
		assert.Equal(t, 12, previous)
		assert.Equal(t, 9, table.Get(1))
	})
}

func TestTable_All(t *testing.T) {
	table := NewTable()
	table.Update(3, 7)
	table.Update(1, 4)
	table.Update(2, 10)

	assert.Equal(t, []Entry{{Level: 1, Score: 4}, {Level: 2, Score: 10}, {Level: 3, Score: 7}}, table.All())
	assert.Empty(t, NewTable().All())
}

func TestTable_Concurrent(t *testing.T) {
	table := NewTable()

	var wg sync.WaitGroup
	for score := 20; score > 0; score-- {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			table.Update(5, score)
		}(score)
	}
	wg.Wait()

	assert.Equal(t, 1, table.Get(5))
}
