package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	logPanelWidth = 320
	logMaxEntries = 60
	logLineHeight = 14
)

// EventKind colours an event log line.
type EventKind uint8

const (
	EventInfo EventKind = iota
	EventEdit
	EventError
)

// EventEntry is a single line in the event log.
type EventEntry struct {
	Tick    uint64
	Kind    EventKind
	Message string
}

// EventLog is a ring buffer of editor events rendered on-screen.
type EventLog struct {
	entries []EventEntry
	head    int
	count   int
}

// NewEventLog creates an event log with a fixed capacity.
func NewEventLog() *EventLog {
	return &EventLog{
		entries: make([]EventEntry, logMaxEntries),
	}
}

// Add appends an entry, overwriting the oldest when full.
func (el *EventLog) Add(tick uint64, kind EventKind, format string, args ...any) {
	el.entries[el.head] = EventEntry{
		Tick:    tick,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
	el.head = (el.head + 1) % logMaxEntries
	if el.count < logMaxEntries {
		el.count++
	}
}

// Recent returns entries in chronological order (oldest first).
func (el *EventLog) Recent() []EventEntry {
	result := make([]EventEntry, el.count)
	for i := 0; i < el.count; i++ {
		idx := (el.head - el.count + i + logMaxEntries) % logMaxEntries
		result[i] = el.entries[idx]
	}
	return result
}

// Last returns the newest entry.
func (el *EventLog) Last() (EventEntry, bool) {
	if el.count == 0 {
		return EventEntry{}, false
	}
	return el.entries[(el.head-1+logMaxEntries)%logMaxEntries], true
}

func (k EventKind) colour() color.RGBA {
	switch k {
	case EventEdit:
		return color.RGBA{R: 90, G: 170, B: 230, A: 255}
	case EventError:
		return color.RGBA{R: 230, G: 70, B: 70, A: 255}
	default:
		return color.RGBA{R: 90, G: 200, B: 90, A: 255}
	}
}

// Draw renders the event log panel at panelX, newest entry at the bottom.
func (el *EventLog) Draw(screen *ebiten.Image, panelX int, panelH int) {
	px := float32(panelX)
	vector.FillRect(screen, px, 0, logPanelWidth, float32(panelH), color.RGBA{R: 14, G: 12, B: 10, A: 248}, false)
	vector.StrokeLine(screen, px, 0, px, float32(panelH), 1.0, color.RGBA{R: 80, G: 60, B: 30, A: 255}, false)

	vector.FillRect(screen, px, 0, logPanelWidth, 18, color.RGBA{R: 40, G: 28, B: 12, A: 255}, false)
	drawText(screen, "EVENT LOG", panelX+8, 2, hudText)
	vector.StrokeLine(screen, px, 18, px+logPanelWidth, 18, 1.0, color.RGBA{R: 89, G: 59, B: 19, A: 200}, false)

	entries := el.Recent()
	maxVisible := (panelH - 26) / logLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}
	recent := 3

	y := 22
	for i, e := range entries {
		if i >= len(entries)-recent {
			vector.FillRect(screen, px+2, float32(y), logPanelWidth-4, logLineHeight, color.RGBA{R: 40, G: 32, B: 22, A: 160}, false)
		}
		vector.FillRect(screen, px+5, float32(y+4), 3, 6, e.Kind.colour(), false)
		drawText(screen, fmt.Sprintf("%4d %s", e.Tick, e.Message), panelX+12, y, hudText)
		y += logLineHeight
	}
}
