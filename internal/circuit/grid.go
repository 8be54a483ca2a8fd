package circuit

import (
	"iter"

	"github.com/pkg/errors"
)

// ErrSizeMismatch is returned by FromCells when the cell count does not
// match width*height.
var ErrSizeMismatch = errors.New("circuit: cell count does not match grid size")

// Pos is a grid coordinate. X grows rightwards and Y downwards.
type Pos struct {
	X, Y int
}

// Add returns p moved one step in direction d.
func (p Pos) Add(d Direction) Pos {
	dx, dy := d.Offset()
	return Pos{X: p.X + dx, Y: p.Y + dy}
}

// Grid is a finite rectangular board of cells stored row-major.
//
// A Grid is not safe for concurrent use. Edits must not overlap Simulate.
type Grid struct {
	width  int
	height int
	cells  []Cell // visible state
	next   []Cell // scratch buffer for the combinational phase
	epoch  uint32

	stack []int // flood fill work list, reused across ticks
}

// New returns a width×height grid of Empty cells.
func New(width, height int) *Grid {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	n := width * height
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]Cell, n),
		next:   make([]Cell, n),
		epoch:  1,
	}
}

// FromCells builds a grid from row-major cells. The slice is copied.
func FromCells(width, height int, cells []Cell) (*Grid, error) {
	if width < 0 || height < 0 || len(cells) != width*height {
		return nil, errors.Wrapf(ErrSizeMismatch, "%dx%d with %d cells", width, height, len(cells))
	}
	g := New(width, height)
	copy(g.cells, cells)
	for i := range g.cells {
		// Stamps from another grid's lifetime are meaningless here.
		g.cells[i].Epoch = 0
	}
	return g, nil
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// Epoch returns the flood fill marker that the next component will use.
func (g *Grid) Epoch() uint32 { return g.epoch }

// InBounds reports whether (x, y) lies on the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

func (g *Grid) index(x, y int) int {
	return x + y*g.width
}

// Get returns the cell at (x, y), or false when off-grid.
func (g *Grid) Get(x, y int) (Cell, bool) {
	if !g.InBounds(x, y) {
		return Cell{}, false
	}
	return g.cells[g.index(x, y)], true
}

// Put places c at (x, y). It reports false when off-grid or when c has an
// unknown kind or direction. Placed Points start unstamped.
func (g *Grid) Put(x, y int, c Cell) bool {
	if !g.InBounds(x, y) || !c.Kind.Valid() || c.Dir > Left {
		return false
	}
	switch c.Kind {
	case Empty:
		c = Cell{}
	case Point:
		c.Dir = 0
		c.Epoch = 0
	default:
		c.Epoch = 0
	}
	g.cells[g.index(x, y)] = c
	return true
}

// Clear empties the cell at (x, y).
func (g *Grid) Clear(x, y int) bool {
	return g.Put(x, y, Cell{})
}

// Rotate turns the cell at (x, y) clockwise.
func (g *Grid) Rotate(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	g.cells[g.index(x, y)].Rotate()
	return true
}

// SetActive forces the signal of a directional cell. Points are driven only
// by the tick and Empty cells carry no signal, so both are left untouched.
func (g *Grid) SetActive(x, y int, active bool) bool {
	if !g.InBounds(x, y) {
		return false
	}
	c := &g.cells[g.index(x, y)]
	if !c.Kind.Directional() {
		return false
	}
	c.Set(active)
	return true
}

// All yields every cell with its coordinate in row-major order.
func (g *Grid) All() iter.Seq2[Pos, Cell] {
	return func(yield func(Pos, Cell) bool) {
		for i, c := range g.cells {
			if !yield(Pos{X: i % g.width, Y: i / g.width}, c) {
				return
			}
		}
	}
}

// Clone returns a deep copy, epoch included.
func (g *Grid) Clone() *Grid {
	out := &Grid{
		width:  g.width,
		height: g.height,
		cells:  make([]Cell, len(g.cells)),
		next:   make([]Cell, len(g.next)),
		epoch:  g.epoch,
	}
	copy(out.cells, g.cells)
	return out
}

// Equal reports whether both grids have the same size and equal cells.
func (g *Grid) Equal(o *Grid) bool {
	if g.width != o.width || g.height != o.height {
		return false
	}
	for i := range g.cells {
		if !g.cells[i].Equal(o.cells[i]) {
			return false
		}
	}
	return true
}

// neighbour returns the cell one step from (x, y) in direction d. Off-grid
// neighbours report false and count as carrying no signal.
func (g *Grid) neighbour(x, y int, d Direction) (Cell, bool) {
	n := Pos{X: x, Y: y}.Add(d)
	return g.Get(n.X, n.Y)
}

// signalFrom reports whether the neighbour of (x, y) on side from asserts a
// signal towards (x, y).
func (g *Grid) signalFrom(x, y int, from Direction) bool {
	n, ok := g.neighbour(x, y, from)
	return ok && n.SignalInDirection(from.Reverse())
}

// fill stamps the Point component containing (x, y) with the current epoch
// and sets every member's signal to active. It reports false, doing
// nothing, when (x, y) is not a Point or was already stamped this epoch.
func (g *Grid) fill(x, y int, active bool) bool {
	root := g.index(x, y)
	if c := &g.cells[root]; c.Kind != Point || c.Epoch == g.epoch {
		return false
	}
	g.cells[root].Epoch = g.epoch
	g.stack = append(g.stack[:0], root)
	for len(g.stack) > 0 {
		i := g.stack[len(g.stack)-1]
		g.stack = g.stack[:len(g.stack)-1]
		g.cells[i].Active = active

		cx, cy := i%g.width, i/g.width
		for _, d := range Directions() {
			dx, dy := d.Offset()
			nx, ny := cx+dx, cy+dy
			if !g.InBounds(nx, ny) {
				continue
			}
			j := g.index(nx, ny)
			if n := &g.cells[j]; n.Kind == Point && n.Epoch != g.epoch {
				n.Epoch = g.epoch
				g.stack = append(g.stack, j)
			}
		}
	}
	return true
}

// Simulate advances the grid by one tick.
//
// Point components are first reset to inactive, then every component with
// at least one neighbour asserting a signal into it is activated as a
// whole. The epoch advances after every fill, so a later member of a
// component filled earlier in the same phase holds a stale stamp and
// triggers another fill of that component. Finally each directional cell computes its next signal from the
// grid as it stands after the Point phases, writing into the scratch
// buffer, which then becomes the visible grid.
func (g *Grid) Simulate() {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.fill(x, y, false) {
				g.epoch++
			}
		}
	}

	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			c := g.cells[g.index(x, y)]
			if c.Kind != Point || c.Active {
				continue
			}
			for _, d := range Directions() {
				if !g.signalFrom(x, y, d) {
					continue
				}
				if g.fill(x, y, true) {
					g.epoch++
				}
				break
			}
		}
	}

	copy(g.next, g.cells)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			i := g.index(x, y)
			c := g.cells[i]
			switch c.Kind {
			case Cable, Tee:
				g.next[i].Active = g.signalFrom(x, y, c.Dir.Reverse())
			case Not:
				g.next[i].Active = !g.signalFrom(x, y, c.Dir.Reverse())
			case And:
				g.next[i].Active = g.signalFrom(x, y, c.Dir.RotateCW()) &&
					g.signalFrom(x, y, c.Dir.RotateCCW())
			}
		}
	}
	g.cells, g.next = g.next, g.cells
}
