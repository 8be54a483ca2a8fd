package circuit

import (
	"testing"

	"github.com/pkg/errors"
)

func mustGet(t *testing.T, g *Grid, x, y int) Cell {
	t.Helper()
	c, ok := g.Get(x, y)
	if !ok {
		t.Fatalf("(%d,%d) is off-grid", x, y)
	}
	return c
}

func TestNew_AllEmpty(t *testing.T) {
	g := New(4, 3)
	if g.Width() != 4 || g.Height() != 3 {
		t.Fatalf("got %dx%d, want 4x3", g.Width(), g.Height())
	}
	n := 0
	for _, c := range g.All() {
		if c != (Cell{}) {
			t.Fatalf("new grid holds %v", c)
		}
		n++
	}
	if n != 12 {
		t.Fatalf("All yielded %d cells, want 12", n)
	}
	if len(g.next) != len(g.cells) {
		t.Fatal("scratch buffer size differs from primary buffer")
	}
}

func TestFromCells_SizeMismatch(t *testing.T) {
	_, err := FromCells(3, 3, make([]Cell, 8))
	if errors.Cause(err) != ErrSizeMismatch {
		t.Fatalf("expected ErrSizeMismatch, got %v", err)
	}
}

func TestGrid_AllRowMajor(t *testing.T) {
	g := New(3, 2)
	var got []Pos
	for p := range g.All() {
		got = append(got, p)
	}
	want := []Pos{{0, 0}, {1, 0}, {2, 0}, {0, 1}, {1, 1}, {2, 1}}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestGrid_EditsOutOfBounds(t *testing.T) {
	g := New(2, 2)
	if g.Put(2, 0, Cell{Kind: Cable}) || g.Put(-1, 0, Cell{Kind: Cable}) {
		t.Fatal("Put off-grid should fail")
	}
	if g.Rotate(0, 5) || g.Clear(9, 9) || g.SetActive(-1, -1, true) {
		t.Fatal("off-grid edits should fail")
	}
	if _, ok := g.Get(0, 2); ok {
		t.Fatal("Get off-grid should report false")
	}
	if g.Put(0, 0, Cell{Kind: kindCount}) {
		t.Fatal("Put should reject an unknown kind")
	}
}

func TestGrid_RotateCell(t *testing.T) {
	g := New(2, 1)
	g.Put(0, 0, Cell{Kind: And, Dir: Up})
	g.Put(1, 0, Cell{Kind: Point, Active: true})
	for _, want := range []Direction{Right, Down, Left, Up} {
		g.Rotate(0, 0)
		g.Rotate(1, 0)
		if got := mustGet(t, g, 0, 0).Dir; got != want {
			t.Fatalf("and rotated to %s, want %s", got, want)
		}
		if p := mustGet(t, g, 1, 0); p.Kind != Point || !p.Active || p.Dir != Up {
			t.Fatalf("rotate changed the point: %v", p)
		}
	}
}

func TestSimulate_UndrivenPointsReset(t *testing.T) {
	g := New(3, 3)
	g.Put(1, 1, Cell{Kind: Point, Active: true})
	g.Put(2, 1, Cell{Kind: Point, Active: true})
	g.Simulate()
	if mustGet(t, g, 1, 1).Active || mustGet(t, g, 2, 1).Active {
		t.Fatal("adjacent points with no driver should both become inactive")
	}
}

func TestSimulate_CableDrivesWholeComponent(t *testing.T) {
	// C P P
	// . . P
	g := New(3, 2)
	g.Put(0, 0, Cell{Kind: Cable, Dir: Right, Active: true})
	g.Put(1, 0, Cell{Kind: Point})
	g.Put(2, 0, Cell{Kind: Point})
	g.Put(2, 1, Cell{Kind: Point})
	g.Simulate()
	for _, p := range []Pos{{1, 0}, {2, 0}, {2, 1}} {
		if !mustGet(t, g, p.X, p.Y).Active {
			t.Fatalf("point %v should be active in the same tick", p)
		}
	}
	if mustGet(t, g, 0, 0).Active {
		t.Fatal("cable with an off-grid input should go inactive")
	}
}

func TestSimulate_CableFacingAwayDoesNotDrive(t *testing.T) {
	g := New(2, 1)
	g.Put(0, 0, Cell{Kind: Cable, Dir: Left, Active: true})
	g.Put(1, 0, Cell{Kind: Point, Active: true})
	g.Simulate()
	if mustGet(t, g, 1, 0).Active {
		t.Fatal("a cable pointing away must not drive the point")
	}
}

func TestSimulate_SeparateComponentsIndependent(t *testing.T) {
	// C P . P
	g := New(4, 1)
	g.Put(0, 0, Cell{Kind: Cable, Dir: Right, Active: true})
	g.Put(1, 0, Cell{Kind: Point})
	g.Put(3, 0, Cell{Kind: Point, Active: true})
	g.Simulate()
	if !mustGet(t, g, 1, 0).Active {
		t.Fatal("driven point should be active")
	}
	if mustGet(t, g, 3, 0).Active {
		t.Fatal("point in another component should be inactive")
	}
}

func TestSimulate_PointFeedsCableSameTick(t *testing.T) {
	g := New(3, 1)
	g.Put(0, 0, Cell{Kind: Cable, Dir: Right, Active: true})
	g.Put(1, 0, Cell{Kind: Point})
	g.Put(2, 0, Cell{Kind: Cable, Dir: Right})
	g.Simulate()
	if !mustGet(t, g, 2, 0).Active {
		t.Fatal("cable after a junction should see the junction's new state")
	}
}

func TestSimulate_NotWithoutInput(t *testing.T) {
	g := New(3, 3)
	g.Put(0, 0, Cell{Kind: Not, Dir: Right}) // input is off-grid
	g.Put(1, 1, Cell{Kind: Not, Dir: Up})    // input (1,2) is empty
	g.Simulate()
	if !mustGet(t, g, 0, 0).Active {
		t.Fatal("not gate with an off-grid input should be active")
	}
	if !mustGet(t, g, 1, 1).Active {
		t.Fatal("not gate with an empty input should be active")
	}
}

func TestSimulate_NotInverts(t *testing.T) {
	g := New(2, 1)
	g.Put(0, 0, Cell{Kind: Cable, Dir: Right, Active: true})
	g.Put(1, 0, Cell{Kind: Not, Dir: Right, Active: true})
	g.Simulate()
	if mustGet(t, g, 1, 0).Active {
		t.Fatal("not gate with an asserted input should be inactive")
	}
}

func TestSimulate_AndNeedsBothInputs(t *testing.T) {
	// A . B
	// . & .
	g := New(3, 3)
	g.Put(0, 1, Cell{Kind: Cable, Dir: Right})
	g.Put(2, 1, Cell{Kind: Cable, Dir: Left})
	g.Put(1, 1, Cell{Kind: And, Dir: Up})

	g.SetActive(0, 1, true)
	g.SetActive(2, 1, true)
	g.Simulate()
	if !mustGet(t, g, 1, 1).Active {
		t.Fatal("and gate with both inputs asserted should be active")
	}

	g.SetActive(0, 1, true)
	g.SetActive(2, 1, false)
	g.Simulate()
	if mustGet(t, g, 1, 1).Active {
		t.Fatal("and gate with one input de-asserted should be inactive")
	}

	g.SetActive(0, 1, false)
	g.SetActive(2, 1, true)
	g.Simulate()
	if mustGet(t, g, 1, 1).Active {
		t.Fatal("and gate with the other input de-asserted should be inactive")
	}
}

func TestSimulate_AndIgnoresBackInput(t *testing.T) {
	g := New(3, 3)
	g.Put(1, 2, Cell{Kind: Cable, Dir: Up, Active: true})
	g.Put(1, 1, Cell{Kind: And, Dir: Up})
	g.Simulate()
	if mustGet(t, g, 1, 1).Active {
		t.Fatal("and gate must only read its two side inputs")
	}
}

func TestSimulate_TeeSplitsSideways(t *testing.T) {
	// . S .
	// L T R
	// . C .
	g := New(3, 3)
	g.Put(1, 2, Cell{Kind: Cable, Dir: Up, Active: true})
	g.Put(1, 1, Cell{Kind: Tee, Dir: Up})
	g.Put(0, 1, Cell{Kind: Cable, Dir: Left})
	g.Put(2, 1, Cell{Kind: Cable, Dir: Right})
	g.Put(1, 0, Cell{Kind: Cable, Dir: Up})

	g.Simulate()
	if !mustGet(t, g, 1, 1).Active {
		t.Fatal("tee should take its input from behind")
	}
	g.Simulate()
	if !mustGet(t, g, 0, 1).Active || !mustGet(t, g, 2, 1).Active {
		t.Fatal("tee should drive both side outputs")
	}
	if mustGet(t, g, 1, 0).Active {
		t.Fatal("tee must not drive straight through")
	}
}

func TestSimulate_OneCellPerTick(t *testing.T) {
	g := New(4, 1)
	g.Put(0, 0, Cell{Kind: Not, Dir: Right})
	for x := 1; x < 4; x++ {
		g.Put(x, 0, Cell{Kind: Cable, Dir: Right})
	}
	for tick := 1; tick <= 4; tick++ {
		g.Simulate()
		for x := 1; x < 4; x++ {
			want := x < tick
			if got := mustGet(t, g, x, 0).Active; got != want {
				t.Fatalf("tick %d: cable %d active=%t, want %t", tick, x, got, want)
			}
		}
	}
}

func TestSimulate_EpochPerFill(t *testing.T) {
	// C P . P
	// . P . P
	g := New(4, 2)
	g.Put(0, 0, Cell{Kind: Cable, Dir: Right, Active: true})
	g.Put(1, 0, Cell{Kind: Point})
	g.Put(1, 1, Cell{Kind: Point})
	g.Put(3, 0, Cell{Kind: Point})
	g.Put(3, 1, Cell{Kind: Point})

	start := g.Epoch()
	g.Simulate()
	// Reset visits (1,0) and (3,0), then refills (1,1) and (3,1) because
	// their stamps are older than the advanced epoch. Drive fills (1,0).
	if got, want := g.Epoch(), start+5; got != want {
		t.Fatalf("epoch = %d, want %d", got, want)
	}
	for p, c := range g.All() {
		if c.Kind == Point && c.Epoch > g.Epoch() {
			t.Fatalf("point %v stamped %d beyond grid epoch %d", p, c.Epoch, g.Epoch())
		}
	}

	prev := g.Epoch()
	g.Simulate()
	if g.Epoch() < prev {
		t.Fatal("epoch went backwards")
	}
}

func TestSimulate_EmptyGrid(t *testing.T) {
	g := New(0, 0)
	g.Simulate()
	if g.Epoch() != 1 {
		t.Fatalf("empty grid epoch changed to %d", g.Epoch())
	}
}

func TestSimulate_Deterministic(t *testing.T) {
	a := New(5, 5)
	a.Put(0, 2, Cell{Kind: Not, Dir: Right})
	a.Put(1, 2, Cell{Kind: Point})
	a.Put(2, 2, Cell{Kind: Point})
	a.Put(2, 1, Cell{Kind: Point})
	a.Put(3, 2, Cell{Kind: Tee, Dir: Right})
	a.Put(3, 1, Cell{Kind: Cable, Dir: Up})
	a.Put(3, 3, Cell{Kind: Cable, Dir: Down})
	a.Put(4, 1, Cell{Kind: And, Dir: Down})
	b := a.Clone()

	for i := 0; i < 10; i++ {
		a.Simulate()
		b.Simulate()
		if !a.Equal(b) || a.Epoch() != b.Epoch() {
			t.Fatalf("tick %d: equal grids diverged", i+1)
		}
	}
}

func TestSimulate_SwapsBuffers(t *testing.T) {
	g := New(2, 2)
	cells, next := &g.cells[0], &g.next[0]
	g.Simulate()
	if &g.cells[0] != next || &g.next[0] != cells {
		t.Fatal("buffers should be exchanged, not reallocated")
	}
}

func TestSimulate_LongPointChain(t *testing.T) {
	const n = 10000
	g := New(n, 1)
	g.Put(0, 0, Cell{Kind: Cable, Dir: Right, Active: true})
	for x := 1; x < n; x++ {
		g.Put(x, 0, Cell{Kind: Point})
	}
	g.Simulate()
	if !mustGet(t, g, n-1, 0).Active {
		t.Fatal("activation should cross the whole chain in one tick")
	}
}
