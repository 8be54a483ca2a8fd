package game

import (
	"fmt"
	"strings"

	"github.com/Garsondee/Circuits/internal/circuit"
)

// SimLogEntry is one recorded event during a headless simulation.
type SimLogEntry struct {
	Tick     int
	Cell     string  // "x,y" or "--" for grid-wide events
	Kind     string  // cell kind, or "--"
	Category string  // signal, point, grid
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=003] 2,0    cable  signal  rise        false → true
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-6s %-6s %-7s %-11s %s",
		e.Tick, e.Cell, e.Kind, e.Category, e.Key, e.Value)
}

// SimLog collects structured events during a headless simulation.
// Unlike EventLog (UI ring buffer), SimLog is unbounded and machine-readable.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog. If verbose is true, per-tick grid entries are
// also recorded.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

func (sl *SimLog) Verbose() bool { return sl.verbose }

// Add records a new entry.
func (sl *SimLog) Add(tick int, cell, kind, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Tick:     tick,
		Cell:     cell,
		Kind:     kind,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(tick int, cell, kind, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(tick, cell, kind, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// matches reports whether e has the given category and key. An empty
// argument matches anything.
func (e SimLogEntry) matches(category, key string) bool {
	return (category == "" || e.Category == category) && (key == "" || e.Key == key)
}

// Select returns the entries keep accepts, in log order.
func (sl *SimLog) Select(keep func(SimLogEntry) bool) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Filter returns entries by category and key; "" matches any.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	return sl.Select(func(e SimLogEntry) bool { return e.matches(category, key) })
}

func (sl *SimLog) Count(category, key string) int {
	n := 0
	for _, e := range sl.entries {
		if e.matches(category, key) {
			n++
		}
	}
	return n
}

// LastOf returns the newest entry with category and key.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	for i := len(sl.entries) - 1; i >= 0; i-- {
		if sl.entries[i].matches(category, key) {
			return sl.entries[i], true
		}
	}
	return SimLogEntry{}, false
}

// HasEntry reports whether some entry with category and key has a Value
// containing substr.
func (sl *SimLog) HasEntry(category, key, substr string) bool {
	for _, e := range sl.entries {
		if e.matches(category, key) && strings.Contains(e.Value, substr) {
			return true
		}
	}
	return false
}

// Format renders one line per entry.
func (sl *SimLog) Format() string {
	lines := make([]string, len(sl.entries))
	for i, e := range sl.entries {
		lines[i] = e.String() + "\n"
	}
	return strings.Join(lines, "")
}

// Summary returns a short human-readable summary of the grid at tick.
func (sl *SimLog) Summary(tick int, g *circuit.Grid) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%03d ---\n", tick)
	fmt.Fprintf(&sb, "Grid: %dx%d  epoch=%d\n", g.Width(), g.Height(), g.Epoch())

	total := map[circuit.Kind]int{}
	active := map[circuit.Kind]int{}
	for _, c := range g.All() {
		if c.Kind == circuit.Empty {
			continue
		}
		total[c.Kind]++
		if c.IsActive() {
			active[c.Kind]++
		}
	}
	sb.WriteString("Active: ")
	for _, k := range []circuit.Kind{circuit.Cable, circuit.And, circuit.Not, circuit.Tee, circuit.Point} {
		if total[k] > 0 {
			fmt.Fprintf(&sb, "%s=%d/%d  ", k, active[k], total[k])
		}
	}
	sb.WriteByte('\n')
	fmt.Fprintf(&sb, "Events: %d signal changes\n", sl.Count("signal", ""))
	return sb.String()
}
