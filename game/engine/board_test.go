package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTiles(width, height int) []Tile {
	tiles := make([]Tile, 0, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			tiles = append(tiles, Tile{X: x, Y: y})
		}
	}
	return tiles
}

func newTestBoard(t *testing.T, tiles []Tile, exit, theseus, minotaur Position) *Board {
	t.Helper()
	b, err := NewBoard(tiles, exit, theseus, minotaur)
	require.NoError(t, err)
	return b
}

func trapTiles() []Tile {
	return []Tile{
		{X: 0, Y: 0, Right: true},
		{X: 1, Y: 0},
	}
}

func TestDeriveWallsSharedEdges(t *testing.T) {
	tests := []struct {
		name       string
		tiles      []Tile
		horizontal []Position
		vertical   []Position
	}{
		{
			name:     "right wall of left tile",
			tiles:    []Tile{{X: 0, Y: 0, Right: true}, {X: 1, Y: 0}},
			vertical: []Position{{X: 1, Y: 0}},
		},
		{
			name:     "left wall of right tile",
			tiles:    []Tile{{X: 0, Y: 0}, {X: 1, Y: 0, Left: true}},
			vertical: []Position{{X: 1, Y: 0}},
		},
		{
			name:     "declared on both sides",
			tiles:    []Tile{{X: 0, Y: 0, Right: true}, {X: 1, Y: 0, Left: true}},
			vertical: []Position{{X: 1, Y: 0}},
		},
		{
			name:       "bottom and top of stacked tiles",
			tiles:      []Tile{{X: 0, Y: 0, Bottom: true}, {X: 0, Y: 1, Top: true}},
			horizontal: []Position{{X: 0, Y: 1}},
		},
		{
			name:       "outer frame",
			tiles:      []Tile{{X: 0, Y: 0, Left: true, Top: true, Right: true, Bottom: true}},
			horizontal: []Position{{X: 0, Y: 0}, {X: 0, Y: 1}},
			vertical:   []Position{{X: 0, Y: 0}, {X: 1, Y: 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			walls := DeriveWalls(tt.tiles)

			assertEdges(t, tt.horizontal, walls.HorizontalEdges())
			assertEdges(t, tt.vertical, walls.VerticalEdges())
			assert.Equal(t, len(tt.horizontal)+len(tt.vertical), walls.Count())
		})
	}
}

func assertEdges(t *testing.T, want, got []Position) {
	t.Helper()
	if len(want) == 0 {
		assert.Empty(t, got)
		return
	}
	assert.Equal(t, want, got)
}

func TestDimensions(t *testing.T) {
	width, height, err := Dimensions([]Tile{{X: 2, Y: 0}, {X: 0, Y: 4}})
	require.NoError(t, err)
	assert.Equal(t, 3, width)
	assert.Equal(t, 5, height)

	_, _, err = Dimensions(nil)
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestNewBoardGrid(t *testing.T) {
	b := newTestBoard(t, openTiles(3, 2), Position{X: 2, Y: 1}, Position{X: 0, Y: 0}, Position{X: 2, Y: 0})

	assert.Equal(t, 3, b.Width())
	assert.Equal(t, 2, b.Height())
	assert.Equal(t, 5, b.Rows())
	assert.Equal(t, 7, b.Cols())

	for r := 0; r < b.Rows(); r++ {
		for c := 0; c < b.Cols(); c++ {
			var want CellKind
			switch {
			case r%2 == 1 && c%2 == 1:
				want = Open
			case r%2 == 0 && c%2 == 0:
				want = Post
			default:
				want = Empty
			}
			assert.Equal(t, want, b.Cell(r, c), "cell (%d,%d)", r, c)
		}
	}
}

func TestNewBoardWallCells(t *testing.T) {
	tiles := []Tile{
		{X: 0, Y: 0, Top: true, Right: true},
		{X: 1, Y: 0},
		{X: 0, Y: 1, Left: true, Bottom: true},
		{X: 1, Y: 1},
	}
	b := newTestBoard(t, tiles, Position{X: 1, Y: 1}, Position{X: 0, Y: 0}, Position{X: 1, Y: 0})

	walls := []struct{ row, col int }{
		{0, 1}, // top of (0,0)
		{1, 2}, // right of (0,0)
		{3, 0}, // left of (0,1)
		{4, 1}, // bottom of (0,1)
	}
	for _, w := range walls {
		assert.Equal(t, Wall, b.Cell(w.row, w.col), "grid (%d,%d)", w.row, w.col)
	}
	assert.NotEqual(t, Wall, b.Cell(2, 1), "edge between (0,0) and (0,1) should be open")
}

func TestNewBoardRejectsMarkersOutside(t *testing.T) {
	tests := []struct {
		name     string
		exit     Position
		theseus  Position
		minotaur Position
	}{
		{"exit", Position{X: 3, Y: 0}, Position{X: 0, Y: 0}, Position{X: 1, Y: 0}},
		{"theseus", Position{X: 0, Y: 0}, Position{X: -1, Y: 0}, Position{X: 1, Y: 0}},
		{"minotaur", Position{X: 0, Y: 0}, Position{X: 1, Y: 0}, Position{X: 0, Y: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBoard(openTiles(2, 2), tt.exit, tt.theseus, tt.minotaur)
			assert.ErrorIs(t, err, ErrInvalidLevel)
		})
	}
}

func TestBoardRendering(t *testing.T) {
	b := newTestBoard(t, trapTiles(), Position{X: 1, Y: 0}, Position{X: 0, Y: 0}, Position{X: 1, Y: 0})

	assert.Equal(t, []string{
		"+ + +",
		" T|M ",
		"+ + +",
	}, b.Lines())
	assert.Equal(t, "+ + +\n T|M \n+ + +", b.String())
}

func TestBoardRenderingFrame(t *testing.T) {
	tiles := []Tile{
		{X: 0, Y: 0, Left: true, Top: true},
		{X: 1, Y: 0, Top: true, Right: true, Bottom: true},
	}
	b := newTestBoard(t, tiles, Position{X: 1, Y: 0}, Position{X: 0, Y: 0}, Position{X: 1, Y: 0})

	assert.Equal(t, []string{
		"+-+-+",
		"|T M|",
		"+ +-+",
	}, b.Lines())
}

func TestBoardStatus(t *testing.T) {
	b := newTestBoard(t, openTiles(3, 1), Position{X: 2, Y: 0}, Position{X: 0, Y: 0}, Position{X: 1, Y: 0})
	require.Equal(t, Ongoing, b.Status())

	won := b.Clone()
	won.theseus = Position{X: 2, Y: 0}
	assert.Equal(t, Won, won.Status())
	_, free := won.Exit()
	assert.False(t, free, "exit should be occupied once theseus stands on it")

	lost := b.Clone()
	lost.minotaur = lost.theseus
	assert.Equal(t, Lost, lost.Status())
	_, present := lost.Theseus()
	assert.False(t, present, "theseus should be absent after capture")

	// Clones are independent
	assert.Equal(t, Ongoing, b.Status())
}
