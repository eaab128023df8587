package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zyedidia/generic/mapset"
)

// WallSet holds the wall edges of a maze keyed by absolute edge coordinate.
// Horizontal edge (x,y) is the top side of tile (x,y); vertical edge (x,y) is its left side.
type WallSet struct {
	Horizontal mapset.Set[Position]
	Vertical   mapset.Set[Position]
}

// DeriveWalls unions the wall flags of every tile into a WallSet.
// A right wall on (x,y) and a left wall on (x+1,y) name the same vertical edge,
// so both declarations produce a single entry.
func DeriveWalls(tiles []Tile) WallSet {
	walls := WallSet{
		Horizontal: mapset.New[Position](),
		Vertical:   mapset.New[Position](),
	}

	for _, t := range tiles {
		if t.Left {
			walls.Vertical.Put(Position{X: t.X, Y: t.Y})
		}
		if t.Top {
			walls.Horizontal.Put(Position{X: t.X, Y: t.Y})
		}
		if t.Right {
			walls.Vertical.Put(Position{X: t.X + 1, Y: t.Y})
		}
		if t.Bottom {
			walls.Horizontal.Put(Position{X: t.X, Y: t.Y + 1})
		}
	}

	return walls
}

// Count returns the total number of distinct wall edges
func (w WallSet) Count() int {
	return w.Horizontal.Size() + w.Vertical.Size()
}

// HorizontalEdges returns the horizontal walls in row-major order
func (w WallSet) HorizontalEdges() []Position {
	return sortedPositions(w.Horizontal)
}

// VerticalEdges returns the vertical walls in row-major order
func (w WallSet) VerticalEdges() []Position {
	return sortedPositions(w.Vertical)
}

func sortedPositions(set mapset.Set[Position]) []Position {
	out := make([]Position, 0, set.Size())
	set.Each(func(p Position) {
		out = append(out, p)
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// Dimensions returns the maze extents implied by the largest tile coordinates
func Dimensions(tiles []Tile) (width, height int, err error) {
	if len(tiles) == 0 {
		return 0, 0, fmt.Errorf("%w: at least one tile is required", ErrInvalidLevel)
	}
	for _, t := range tiles {
		if t.X+1 > width {
			width = t.X + 1
		}
		if t.Y+1 > height {
			height = t.Y + 1
		}
	}
	return width, height, nil
}

// Board is the doubled-resolution maze grid plus the entity coordinate record.
// Node cells sit at (2y+1, 2x+1); the grid never changes after construction,
// only the Theseus and Minotaur coordinates do.
type Board struct {
	width  int
	height int
	cells  [][]CellKind
	walls  WallSet

	exit     Position
	theseus  Position
	minotaur Position
}

// NewBoard builds a board from a tile list and the three entity positions
func NewBoard(tiles []Tile, exit, theseus, minotaur Position) (*Board, error) {
	width, height, err := Dimensions(tiles)
	if err != nil {
		return nil, err
	}
	for _, t := range tiles {
		if t.X < 0 || t.Y < 0 {
			return nil, fmt.Errorf("%w: tile (%d,%d) has a negative coordinate", ErrInvalidLevel, t.X, t.Y)
		}
	}

	b := &Board{
		width:    width,
		height:   height,
		walls:    DeriveWalls(tiles),
		exit:     exit,
		theseus:  theseus,
		minotaur: minotaur,
	}

	markers := []struct {
		name string
		pos  Position
	}{{"exit", exit}, {"theseus", theseus}, {"minotaur", minotaur}}
	for _, m := range markers {
		if !b.InBounds(m.pos) {
			return nil, fmt.Errorf("%w: %s %s is outside the %dx%d maze", ErrInvalidLevel, m.name, m.pos, width, height)
		}
	}

	rows, cols := 2*height+1, 2*width+1
	b.cells = make([][]CellKind, rows)
	for r := range b.cells {
		b.cells[r] = make([]CellKind, cols)
		for c := range b.cells[r] {
			switch {
			case r%2 == 1 && c%2 == 1:
				b.cells[r][c] = Open
			case r%2 == 0 && c%2 == 0:
				b.cells[r][c] = Post
			default:
				b.cells[r][c] = Empty
			}
		}
	}

	b.walls.Horizontal.Each(func(p Position) {
		b.cells[2*p.Y][2*p.X+1] = Wall
	})
	b.walls.Vertical.Each(func(p Position) {
		b.cells[2*p.Y+1][2*p.X] = Wall
	})

	return b, nil
}

// Width returns the number of tile columns
func (b *Board) Width() int {
	return b.width
}

// Height returns the number of tile rows
func (b *Board) Height() int {
	return b.height
}

// Rows returns the number of grid rows (2*height+1)
func (b *Board) Rows() int {
	return len(b.cells)
}

// Cols returns the number of grid columns (2*width+1)
func (b *Board) Cols() int {
	return len(b.cells[0])
}

// Cell returns the kind of the grid cell at row, col
func (b *Board) Cell(row, col int) CellKind {
	return b.cells[row][col]
}

// Walls returns the derived wall set
func (b *Board) Walls() WallSet {
	return b.walls
}

// InBounds reports whether p lies within [0,width) x [0,height)
func (b *Board) InBounds(p Position) bool {
	return p.X >= 0 && p.X < b.width && p.Y >= 0 && p.Y < b.height
}

// Theseus returns the player position and whether it is still on the board
func (b *Board) Theseus() (Position, bool) {
	return b.theseus, b.Status() != Lost
}

// Minotaur returns the Minotaur's position
func (b *Board) Minotaur() Position {
	return b.minotaur
}

// Exit returns the exit position and whether it is still free
func (b *Board) Exit() (Position, bool) {
	return b.exit, b.Status() != Won
}

// Status derives the game status from the entity coordinates
func (b *Board) Status() Status {
	if b.theseus == b.minotaur {
		return Lost
	}
	if b.theseus == b.exit {
		return Won
	}
	return Ongoing
}

// Clone returns an independent copy. The grid is immutable and shared.
func (b *Board) Clone() *Board {
	c := *b
	return &c
}

func (b *Board) marker(p Position) byte {
	switch {
	case p == b.minotaur:
		return 'M'
	case p == b.theseus:
		return 'T'
	case p == b.exit:
		return 'E'
	}
	return ' '
}

// Lines renders the board one string per grid row
func (b *Board) Lines() []string {
	lines := make([]string, len(b.cells))
	for r, row := range b.cells {
		buf := make([]byte, len(row))
		for c, kind := range row {
			switch kind {
			case Post:
				buf[c] = '+'
			case Wall:
				if r%2 == 0 {
					buf[c] = '-'
				} else {
					buf[c] = '|'
				}
			case Open:
				buf[c] = b.marker(Position{X: (c - 1) / 2, Y: (r - 1) / 2})
			default:
				buf[c] = ' '
			}
		}
		lines[r] = string(buf)
	}
	return lines
}

// String renders the board with + posts, -/| walls and T/M/E markers
func (b *Board) String() string {
	return strings.Join(b.Lines(), "\n")
}
