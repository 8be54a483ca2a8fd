package game

import (
	"strings"
	"testing"

	"github.com/Garsondee/Circuits/internal/circuit"
)

func TestSimReporter_WireSettles(t *testing.T) {
	ts := NewTestSim(
		WithGridSize(3, 1),
		WithCell(0, 0, circuit.Cell{Kind: circuit.Cable, Dir: circuit.Right, Active: true}),
		WithCell(1, 0, circuit.Cell{Kind: circuit.Cable, Dir: circuit.Right}),
		WithCell(2, 0, circuit.Cell{Kind: circuit.Cable, Dir: circuit.Right}),
	)
	ts.RunTicks(6)

	// The pulse leaves the grid after tick 3, which then stays dark.
	start, period, ok := ts.Reporter.Cycle()
	if !ok || start != 3 || period != 1 {
		t.Fatalf("Cycle() = %d, %d, %t; want 3, 1, true", start, period, ok)
	}
	if got := len(ts.Reporter.History()); got != 7 {
		t.Fatalf("expected 7 reports (tick 0..6), got %d", got)
	}
	if l := ts.Reporter.Latest(); l.Tick != 6 || l.ActiveCount() != 0 || l.Total[circuit.Cable] != 3 {
		t.Fatalf("unexpected latest report %+v", l)
	}
	if !strings.Contains(ts.Reporter.WindowSummary().Format(), "steady from T=3") {
		t.Fatalf("summary should report the steady state:\n%s", ts.Reporter.WindowSummary().Format())
	}
}

func TestSimReporter_RingOscillates(t *testing.T) {
	ts := NewTestSim(
		WithGridSize(3, 2),
		WithCell(0, 0, circuit.Cell{Kind: circuit.Point}),
		WithCell(1, 0, circuit.Cell{Kind: circuit.Not, Dir: circuit.Right}),
		WithCell(2, 0, circuit.Cell{Kind: circuit.Point}),
		WithCell(0, 1, circuit.Cell{Kind: circuit.Point}),
		WithCell(1, 1, circuit.Cell{Kind: circuit.Point}),
		WithCell(2, 1, circuit.Cell{Kind: circuit.Point}),
	)
	ts.RunTicks(8)

	start, period, ok := ts.Reporter.Cycle()
	if !ok || start != 1 || period != 2 {
		t.Fatalf("Cycle() = %d, %d, %t; want 1, 2, true", start, period, ok)
	}
	wr := ts.Reporter.WindowSummary()
	if wr.Behaviour() != "oscillates with period 2 from T=1" {
		t.Fatalf("unexpected behaviour %q", wr.Behaviour())
	}
	if wr.TotalChanges != ts.SimLog.Count("signal", "") {
		t.Fatalf("reporter counted %d changes, log has %d", wr.TotalChanges, ts.SimLog.Count("signal", ""))
	}
}

func TestSimReporter_Window(t *testing.T) {
	ts := NewTestSim(WithGridSize(2, 2), WithReportWindow(3))
	ts.RunTicks(10)
	wr := ts.Reporter.WindowSummary()
	if wr.FromTick != 7 || wr.ToTick != 10 || wr.SampleCount != 4 {
		t.Fatalf("window = T%d..%d (%d samples), want T7..10 (4)", wr.FromTick, wr.ToTick, wr.SampleCount)
	}
}

func TestSimReporter_Empty(t *testing.T) {
	r := NewSimReporter(0)
	if r.Latest() != nil || r.WindowSummary() != nil {
		t.Fatal("empty reporter should have no reports")
	}
	if _, _, ok := r.Cycle(); ok {
		t.Fatal("empty reporter should have no cycle")
	}
	var wr *WindowReport
	if wr.Format() != "No data collected yet.\n" || r.FormatLatest() != "No data.\n" {
		t.Fatal("unexpected empty formatting")
	}
}

func TestSimReporter_FillsCountRefills(t *testing.T) {
	// One three-cell Point bus. Reset fills it from (2,0), then again from
	// (1,1) and (2,1) as the epoch passes their stamps; drive fills it once.
	ts := NewTestSim(
		WithGridSize(5, 3),
		WithCell(0, 1, cable(circuit.Right, true)),
		WithCell(1, 1, circuit.Cell{Kind: circuit.Point}),
		WithCell(2, 1, circuit.Cell{Kind: circuit.Point}),
		WithCell(2, 0, circuit.Cell{Kind: circuit.Point}),
	)
	if l := ts.Reporter.Latest(); l.Fills != 0 {
		t.Fatalf("initial report has %d fills, want 0", l.Fills)
	}
	ts.RunTicks(1)

	l := ts.Reporter.Latest()
	if l.Fills != 4 {
		t.Fatalf("Fills = %d, want 4", l.Fills)
	}
	if n := pointComponent(ts.Grid, circuit.Pos{X: 1, Y: 1}); n != 3 {
		t.Fatalf("bus has %d cells, want 3", n)
	}
	if !strings.Contains(ts.Reporter.FormatLatest(), "fills=4") {
		t.Fatalf("latest report should show the fill passes:\n%s", ts.Reporter.FormatLatest())
	}
}
