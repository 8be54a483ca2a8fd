package game

import (
	"strings"
	"testing"

	"github.com/Garsondee/Circuits/internal/circuit"
)

func TestSimLog_FilterAndVerbose(t *testing.T) {
	sl := NewSimLog(false)
	sl.Add(1, "0,0", "cable", "signal", "rise", "false → true", 0)
	sl.Add(2, "0,0", "cable", "signal", "fall", "true → false", 0)
	sl.Add(2, "1,0", "not", "signal", "rise", "false → true", 0)
	sl.AddVerbose(2, "--", "--", "point", "fills", "1 flood fills", 1)

	if len(sl.Entries()) != 3 {
		t.Fatalf("verbose entry recorded while quiet: %d entries", len(sl.Entries()))
	}
	if n := sl.Count("signal", "rise"); n != 2 {
		t.Fatalf("expected 2 rises, got %d", n)
	}
	if n := len(sl.Select(func(e SimLogEntry) bool { return e.Tick == 2 })); n != 2 {
		t.Fatalf("expected 2 entries on tick 2, got %d", n)
	}
	last, ok := sl.LastOf("signal", "rise")
	if !ok || last.Cell != "1,0" {
		t.Fatalf("unexpected last rise %+v", last)
	}
	if !sl.HasEntry("signal", "fall", "true") || sl.HasEntry("signal", "fall", "maybe") {
		t.Fatal("HasEntry substring match is wrong")
	}
	if !sl.HasEntry("signal", "", "") || sl.HasEntry("grid", "", "") {
		t.Fatal("empty filters should match any key and value")
	}
	if lines := strings.Count(sl.Format(), "\n"); lines != 3 {
		t.Fatalf("expected 3 lines, got %d", lines)
	}

	v := NewSimLog(true)
	v.AddVerbose(1, "--", "--", "grid", "active", "0 active cells", 0)
	if !v.Verbose() || len(v.Entries()) != 1 {
		t.Fatal("verbose log should keep verbose entries")
	}
}

func TestSimLogEntry_String(t *testing.T) {
	e := SimLogEntry{Tick: 3, Cell: "2,0", Kind: "cable", Category: "signal", Key: "rise", Value: "false → true"}
	got := e.String()
	if !strings.HasPrefix(got, "[T=003] 2,0") || !strings.HasSuffix(got, "false → true") {
		t.Fatalf("unexpected format %q", got)
	}
}

func TestSimLog_Summary(t *testing.T) {
	g := circuit.New(2, 1)
	g.Put(0, 0, circuit.Cell{Kind: circuit.Cable, Dir: circuit.Right, Active: true})
	g.Put(1, 0, circuit.Cell{Kind: circuit.Point})
	out := NewSimLog(false).Summary(7, g)
	for _, want := range []string{"T=007", "Grid: 2x1", "cable=1/1", "point=0/1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}
