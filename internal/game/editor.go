package game

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Garsondee/Circuits/internal/circuit"
	"github.com/Garsondee/Circuits/internal/config"
	"github.com/Garsondee/Circuits/internal/logging"
	"github.com/Garsondee/Circuits/internal/share"
	"github.com/Garsondee/Circuits/internal/snapshot"
)

// hotbar lists the placeable cells in slot order.
var hotbar = [...]circuit.Cell{
	{Kind: circuit.And, Dir: circuit.Up},
	{Kind: circuit.Cable, Dir: circuit.Up},
	{Kind: circuit.Not, Dir: circuit.Up},
	{Kind: circuit.Tee, Dir: circuit.Up},
	{Kind: circuit.Point, Active: true},
}

// Hotbar returns the placeable cells in slot order.
func Hotbar() []circuit.Cell {
	out := make([]circuit.Cell, len(hotbar))
	copy(out, hotbar[:])
	return out
}

// Saver stores a grid under a name.
type Saver interface {
	Save(ctx context.Context, name string, g *circuit.Grid) error
}

// Options wires the editor to its collaborators. Nil Clipboard or Library
// disable the matching commands.
type Options struct {
	Config    config.EditorConfig
	Clipboard share.Clipboard
	Library   Saver
	Logger    *slog.Logger
}

// Editor is the input-independent editing state: the grid, the hand cell,
// the tick counter and the run flag.
type Editor struct {
	grid      *circuit.Grid
	hand      circuit.Cell
	tick      uint64
	running   bool
	tickAccum float64

	cfg    config.EditorConfig
	clip   share.Clipboard
	lib    Saver
	log    *slog.Logger
	events *EventLog
}

// NewEditor returns an editor over g. A nil g starts from an empty 10x10 grid.
func NewEditor(g *circuit.Grid, opts Options) *Editor {
	if g == nil {
		g = circuit.New(10, 10)
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Editor{
		grid:   g,
		cfg:    opts.Config,
		clip:   opts.Clipboard,
		lib:    opts.Library,
		log:    opts.Logger,
		events: NewEventLog(),
	}
}

func (e *Editor) Grid() *circuit.Grid { return e.grid }
func (e *Editor) Hand() circuit.Cell  { return e.hand }
func (e *Editor) Tick() uint64        { return e.tick }
func (e *Editor) Running() bool       { return e.running }
func (e *Editor) Events() *EventLog   { return e.events }

// SelectHotbar puts hotbar slot i in the hand.
func (e *Editor) SelectHotbar(i int) bool {
	if i < 0 || i >= len(hotbar) {
		return false
	}
	e.hand = hotbar[i]
	return true
}

// Click places the hand at (x, y), or clears the cell when erase is set.
// An empty hand places nothing.
func (e *Editor) Click(x, y int, erase bool) bool {
	if !e.grid.InBounds(x, y) {
		return false
	}
	if erase {
		e.grid.Clear(x, y)
		e.events.Add(e.tick, EventEdit, "cleared %d,%d", x, y)
		e.log.Debug("cell cleared", "x", x, "y", y)
		return true
	}
	if e.hand.Kind == circuit.Empty {
		return false
	}
	e.grid.Put(x, y, e.hand)
	e.events.Add(e.tick, EventEdit, "%s at %d,%d", e.hand, x, y)
	e.log.Debug("cell placed", "x", x, "y", y, "cell", e.hand.String())
	return true
}

// Rotate turns the hand if it holds a cell, else the cell at (x, y).
func (e *Editor) Rotate(x, y int) {
	if e.hand.Kind != circuit.Empty {
		e.hand.Rotate()
		return
	}
	e.grid.Rotate(x, y)
}

// ToggleActive flips the hand's signal if it holds a cell, else the signal
// of the non-Point cell at (x, y).
func (e *Editor) ToggleActive(x, y int) {
	if e.hand.Kind != circuit.Empty {
		e.hand.Set(!e.hand.IsActive())
		return
	}
	if c, ok := e.grid.Get(x, y); ok {
		e.grid.SetActive(x, y, !c.IsActive())
	}
}

// HoldActive forces the non-Point cell at (x, y) active.
func (e *Editor) HoldActive(x, y int) {
	e.grid.SetActive(x, y, true)
}

// Pick copies the cell at (x, y) into an empty hand, or empties the hand.
func (e *Editor) Pick(x, y int) {
	if e.hand.Kind != circuit.Empty {
		e.hand = circuit.Cell{}
		return
	}
	if c, ok := e.grid.Get(x, y); ok {
		e.hand = c
	}
}

// Step advances the grid by one tick.
func (e *Editor) Step() {
	e.grid.Simulate()
	e.tick++
	e.log.Log(context.Background(), logging.LevelTrace, "tick", "tick", e.tick, "epoch", e.grid.Epoch())
}

// ToggleRunning starts or stops continuous simulation.
func (e *Editor) ToggleRunning() {
	e.running = !e.running
	e.tickAccum = 0
	state := "paused"
	if e.running {
		state = "running"
	}
	e.events.Add(e.tick, EventInfo, "%s", state)
	e.log.Info("simulation "+state, "tick", e.tick)
}

// Advance accumulates dt seconds of running time and steps once per
// 1/ticks_per_second. It returns the number of ticks run.
func (e *Editor) Advance(dt float64) int {
	if !e.running {
		return 0
	}
	tps := e.cfg.TicksPerSecond
	if tps <= 0 {
		e.Step()
		return 1
	}
	e.tickAccum += dt * tps
	n := 0
	for e.tickAccum >= 1.0 {
		e.tickAccum -= 1.0
		e.Step()
		n++
	}
	return n
}

var errDisabled = errors.New("not configured")

// CopySave writes the share link (or the bare save string) to the clipboard.
func (e *Editor) CopySave() (string, error) {
	if e.clip == nil {
		return "", e.fail("copy", errDisabled)
	}
	text, err := share.Copy(e.clip, e.cfg.ShareBaseURL, e.grid)
	if err != nil {
		return "", e.fail("copy", err)
	}
	e.events.Add(e.tick, EventInfo, "copied save (%d bytes)", len(text))
	e.log.Info("save copied", "bytes", len(text), "save", text)
	return text, nil
}

// SaveToLibrary stores the grid in the library under the session name.
func (e *Editor) SaveToLibrary(ctx context.Context) error {
	if e.lib == nil {
		return e.fail("library save", errDisabled)
	}
	if err := e.lib.Save(ctx, e.cfg.SessionName, e.grid); err != nil {
		return e.fail("library save", err)
	}
	e.events.Add(e.tick, EventInfo, "saved %q to library", e.cfg.SessionName)
	e.log.Info("saved to library", "name", e.cfg.SessionName)
	return nil
}

// WriteSnapshot writes the grid and tick to the configured snapshot path.
func (e *Editor) WriteSnapshot() error {
	if e.cfg.SnapshotPath == "" {
		return e.fail("snapshot", errDisabled)
	}
	err := snapshot.Write(e.cfg.SnapshotPath, snapshot.Snapshot{
		Name: e.cfg.SessionName,
		Tick: e.tick,
		Grid: e.grid,
	})
	if err != nil {
		return e.fail("snapshot", err)
	}
	e.events.Add(e.tick, EventInfo, "snapshot %s", e.cfg.SnapshotPath)
	e.log.Info("snapshot written", "path", e.cfg.SnapshotPath, "tick", e.tick)
	return nil
}

func (e *Editor) fail(what string, err error) error {
	e.events.Add(e.tick, EventError, "%s failed: %v", what, err)
	e.log.Warn(what+" failed", "error", err)
	return err
}
