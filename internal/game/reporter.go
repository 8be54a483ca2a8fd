package game

import (
	"fmt"
	"strings"

	"github.com/Garsondee/Circuits/internal/circuit"
)

// reportWindowTicks is the default sliding window for recent-activity reports.
const reportWindowTicks = 100

// reportKinds is the display order of cell kinds in reports.
var reportKinds = []circuit.Kind{circuit.Cable, circuit.And, circuit.Not, circuit.Tee, circuit.Point}

// SimReport is a snapshot of circuit activity at one tick.
type SimReport struct {
	Tick int

	Active map[circuit.Kind]int
	Total  map[circuit.Kind]int

	Changes int // cells whose signal flipped this tick
	Fills   int // flood fill passes this tick, refills of a component included
}

// ActiveCount sums active cells over every kind.
func (r *SimReport) ActiveCount() int {
	n := 0
	for _, c := range r.Active {
		n += c
	}
	return n
}

// SimReporter collects per-tick reports, summarises sliding windows and
// notices when the grid revisits an earlier state.
type SimReporter struct {
	history     []SimReport
	windowTicks int

	seen        map[string]int // encoded grid -> first tick it appeared
	cycleStart  int
	cyclePeriod int // 0 until a state repeats
}

// NewSimReporter creates a reporter with the given window size.
func NewSimReporter(windowTicks int) *SimReporter {
	if windowTicks <= 0 {
		windowTicks = reportWindowTicks
	}
	return &SimReporter{
		windowTicks: windowTicks,
		seen:        make(map[string]int),
	}
}

// Collect records the grid state after tick. Call it once with tick 0
// before the first Simulate so cycles back to the initial state are found.
func (r *SimReporter) Collect(tick int, g *circuit.Grid, changes, fills int) {
	report := SimReport{
		Tick:    tick,
		Active:  make(map[circuit.Kind]int),
		Total:   make(map[circuit.Kind]int),
		Changes: changes,
		Fills:   fills,
	}
	for _, c := range g.All() {
		if c.Kind == circuit.Empty {
			continue
		}
		report.Total[c.Kind]++
		if c.IsActive() {
			report.Active[c.Kind]++
		}
	}
	r.history = append(r.history, report)

	if r.cyclePeriod != 0 {
		return
	}
	data, _ := g.MarshalBinary()
	key := string(data)
	if first, ok := r.seen[key]; ok {
		r.cycleStart = first
		r.cyclePeriod = tick - first
		// Later states only repeat the cycle.
		r.seen = nil
		return
	}
	r.seen[key] = tick
}

// Cycle reports the first tick of the repeating part of the run and its
// period. A period of 1 means the grid settled.
func (r *SimReporter) Cycle() (start, period int, ok bool) {
	return r.cycleStart, r.cyclePeriod, r.cyclePeriod != 0
}

// Latest returns the most recent report, or nil if none collected yet.
func (r *SimReporter) Latest() *SimReport {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// History returns all collected reports.
func (r *SimReporter) History() []SimReport {
	return r.history
}

// WindowSummary aggregates the reports of the recent window.
func (r *SimReporter) WindowSummary() *WindowReport {
	if len(r.history) == 0 {
		return nil
	}

	latestTick := r.history[len(r.history)-1].Tick
	cutoff := latestTick - r.windowTicks
	var window []SimReport
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].Tick < cutoff {
			break
		}
		window = append(window, r.history[i])
	}

	n := float64(len(window))
	wr := &WindowReport{
		FromTick:    window[len(window)-1].Tick,
		ToTick:      window[0].Tick,
		SampleCount: len(window),
		AvgActive:   make(map[circuit.Kind]float64),
		Total:       window[0].Total,
		CycleStart:  r.cycleStart,
		CyclePeriod: r.cyclePeriod,
	}
	for _, rpt := range window {
		for k, c := range rpt.Active {
			wr.AvgActive[k] += float64(c)
		}
		wr.TotalChanges += rpt.Changes
		wr.AvgFills += float64(rpt.Fills)
	}
	for k := range wr.AvgActive {
		wr.AvgActive[k] /= n
	}
	wr.AvgChanges = float64(wr.TotalChanges) / n
	wr.AvgFills /= n
	return wr
}

// WindowReport is an aggregated summary over a tick window.
type WindowReport struct {
	FromTick, ToTick int
	SampleCount      int

	AvgActive    map[circuit.Kind]float64
	Total        map[circuit.Kind]int
	AvgChanges   float64
	AvgFills     float64
	TotalChanges int

	CycleStart, CyclePeriod int
}

// Behaviour names what the run settled into.
func (wr *WindowReport) Behaviour() string {
	switch {
	case wr.CyclePeriod == 0:
		return "no repeated state yet"
	case wr.CyclePeriod == 1:
		return fmt.Sprintf("steady from T=%d", wr.CycleStart)
	default:
		return fmt.Sprintf("oscillates with period %d from T=%d", wr.CyclePeriod, wr.CycleStart)
	}
}

// Format returns a human-readable multi-line string of the window summary.
func (wr *WindowReport) Format() string {
	if wr == nil {
		return "No data collected yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Activity Report (T=%d..%d, %d samples) ===\n",
		wr.FromTick, wr.ToTick, wr.SampleCount)

	sb.WriteString("\n--- Active Cells (avg / placed) ---\n")
	for _, k := range reportKinds {
		if wr.Total[k] > 0 {
			fmt.Fprintf(&sb, "  %-6s %6.2f / %d\n", k, wr.AvgActive[k], wr.Total[k])
		}
	}

	sb.WriteString("\n--- Signal Changes ---\n")
	fmt.Fprintf(&sb, "  total=%d  per tick=%.2f  point fills per tick=%.2f\n",
		wr.TotalChanges, wr.AvgChanges, wr.AvgFills)

	sb.WriteString("\n--- Behaviour ---\n")
	fmt.Fprintf(&sb, "  %s\n", wr.Behaviour())
	return sb.String()
}

// FormatLatest returns a concise snapshot of the most recent collected report.
func (r *SimReporter) FormatLatest() string {
	rpt := r.Latest()
	if rpt == nil {
		return "No data.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Snapshot T=%d ---\n", rpt.Tick)
	fmt.Fprintf(&sb, "active=%d changes=%d fills=%d  ", rpt.ActiveCount(), rpt.Changes, rpt.Fills)
	for _, k := range reportKinds {
		if rpt.Total[k] > 0 {
			fmt.Fprintf(&sb, "%s=%d/%d ", k, rpt.Active[k], rpt.Total[k])
		}
	}
	sb.WriteByte('\n')
	return sb.String()
}
