package game

import (
	"fmt"

	"github.com/Garsondee/Circuits/internal/circuit"
)

// TestSim is a headless simulation harness used by tests and the CLI.
// It mirrors Editor.Step without Ebiten and records every signal change in
// a SimLog.
type TestSim struct {
	Width    int
	Height   int
	Grid     *circuit.Grid
	SimLog   *SimLog
	Reporter *SimReporter

	// Err holds the first construction error, such as a bad save string.
	Err error

	save         string
	cells        []placedCell
	tick         int
	reportWindow int
}

type placedCell struct {
	x, y int
	cell circuit.Cell
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra simOptionKind = iota // grid size, save string, verbose: applied first
	simOptCell                       // cell placements: applied once the grid exists
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithGridSize sets the dimensions of a fresh grid.
func WithGridSize(w, h int) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.Width = w
		ts.Height = h
	}}
}

// WithSave starts from a decoded save string instead of a fresh grid.
func WithSave(save string) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.save = save
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.SimLog = NewSimLog(v)
	}}
}

// WithReportWindow sets the reporter's sliding window in ticks.
func WithReportWindow(ticks int) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.reportWindow = ticks
	}}
}

// WithCell places c at (x, y).
func WithCell(x, y int, c circuit.Cell) SimOption {
	return SimOption{simOptCell, func(ts *TestSim) {
		ts.cells = append(ts.cells, placedCell{x: x, y: y, cell: c})
	}}
}

// NewTestSim constructs a TestSim from the given options in ordered passes:
//  1. Infrastructure (grid size, save string, verbose, report window)
//  2. Build the grid
//  3. Cells, then the tick 0 report
//
// A save string that fails to decode falls back to a fresh grid of the
// configured size and leaves the error in Err.
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{
		Width:  10,
		Height: 10,
		SimLog: NewSimLog(false),
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}
	ts.buildGrid()
	for _, o := range opts {
		if o.kind == simOptCell {
			o.fn(ts)
		}
	}
	for _, p := range ts.cells {
		if !ts.Grid.Put(p.x, p.y, p.cell) && ts.Err == nil {
			ts.Err = fmt.Errorf("cell %s at %d,%d rejected", p.cell, p.x, p.y)
		}
	}
	ts.Reporter = NewSimReporter(ts.reportWindow)
	ts.Reporter.Collect(0, ts.Grid, 0, 0)
	return ts
}

func (ts *TestSim) buildGrid() {
	if ts.save != "" {
		g, err := circuit.DecodeSave(ts.save)
		if err == nil {
			ts.Grid = g
			ts.Width, ts.Height = g.Width(), g.Height()
			return
		}
		ts.Err = err
		ts.SimLog.Add(0, "--", "--", "grid", "load_failed", err.Error(), 0)
	}
	ts.Grid = circuit.New(ts.Width, ts.Height)
}

// RunTicks advances the simulation n ticks, logging events to SimLog.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.runOneTick()
	}
}

// RunUntil advances the simulation up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ts.runOneTick()
		if predicate(ts) {
			return ts.tick
		}
	}
	return -1
}

// runOneTick simulates once and logs every cell whose signal changed.
func (ts *TestSim) runOneTick() {
	ts.tick++
	tick := ts.tick

	prev := ts.Grid.Clone()
	epoch := ts.Grid.Epoch()
	ts.Grid.Simulate()

	changes := 0
	for p, c := range ts.Grid.All() {
		before, _ := prev.Get(p.X, p.Y)
		if before.IsActive() == c.IsActive() {
			continue
		}
		changes++
		key := "fall"
		if c.IsActive() {
			key = "rise"
		}
		ts.SimLog.Add(tick, fmt.Sprintf("%d,%d", p.X, p.Y), c.Kind.String(), "signal", key,
			fmt.Sprintf("%t → %t", before.IsActive(), c.IsActive()), 0)
	}

	// Each fill advances the epoch, so this counts passes, not components.
	fills := ts.Grid.Epoch() - epoch
	ts.Reporter.Collect(tick, ts.Grid, changes, int(fills))
	ts.SimLog.AddVerbose(tick, "--", "--", "point", "fills",
		fmt.Sprintf("%d flood fills", fills), float64(fills))
	ts.SimLog.AddVerbose(tick, "--", "--", "grid", "active",
		fmt.Sprintf("%d active cells", ts.ActiveCount()), float64(ts.ActiveCount()))
}

// CurrentTick returns the current simulation tick.
func (ts *TestSim) CurrentTick() int {
	return ts.tick
}

// Active reports whether the cell at (x, y) carries a signal.
func (ts *TestSim) Active(x, y int) bool {
	c, _ := ts.Grid.Get(x, y)
	return c.IsActive()
}

// ActiveCount returns the number of active cells.
func (ts *TestSim) ActiveCount() int {
	n := 0
	for _, c := range ts.Grid.All() {
		if c.IsActive() {
			n++
		}
	}
	return n
}

// SimSnapshot is a lightweight capture of the active cells at a tick.
type SimSnapshot struct {
	Tick   int
	Active []circuit.Pos
}

// Snapshot returns the active cells in row-major order.
func (ts *TestSim) Snapshot() SimSnapshot {
	snap := SimSnapshot{Tick: ts.tick}
	for p, c := range ts.Grid.All() {
		if c.IsActive() {
			snap.Active = append(snap.Active, p)
		}
	}
	return snap
}
