package game

import (
	"strings"
	"testing"

	"github.com/Garsondee/Circuits/internal/circuit"
)

func TestInspector_TogglePin(t *testing.T) {
	gr := circuit.New(3, 3)
	var in Inspector

	in.togglePin(gr, 1, 1)
	if !in.pinned || in.pos != (circuit.Pos{X: 1, Y: 1}) {
		t.Fatalf("expected (1,1) pinned, got %+v", in)
	}
	in.togglePin(gr, 2, 0)
	if !in.pinned || in.pos != (circuit.Pos{X: 2, Y: 0}) {
		t.Fatalf("pinning another cell should move the pin, got %+v", in)
	}
	in.togglePin(gr, 2, 0)
	if in.pinned {
		t.Fatal("pinning the same cell again should unpin")
	}
	in.togglePin(gr, 1, 1)
	in.togglePin(gr, -1, 5)
	if in.pinned {
		t.Fatal("off-grid pin should unpin")
	}
}

func TestInspectCurated_AndInputs(t *testing.T) {
	gr := circuit.New(3, 3)
	gr.Put(1, 1, circuit.Cell{Kind: circuit.And, Dir: circuit.Up})
	// Left input driven, right input idle.
	gr.Put(0, 1, circuit.Cell{Kind: circuit.Cable, Dir: circuit.Right, Active: true})
	gr.Put(2, 1, circuit.Cell{Kind: circuit.Cable, Dir: circuit.Left})

	got := strings.Join(inspectCurated(gr, circuit.Pos{X: 1, Y: 1}), "\n")
	for _, want := range []string{"[ and (1,1) ]", "facing up  signal off", "from left  ON", "from right off", "to up    off"} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in:\n%s", want, got)
		}
	}
}

func TestInspectCurated_PointComponent(t *testing.T) {
	gr := circuit.New(4, 1)
	for x := 0; x < 3; x++ {
		gr.Put(x, 0, circuit.Cell{Kind: circuit.Point, Active: true})
	}
	got := strings.Join(inspectCurated(gr, circuit.Pos{X: 0, Y: 0}), "\n")
	if !strings.Contains(got, "signal ON  component 3") {
		t.Fatalf("expected a 3-cell component:\n%s", got)
	}
	if strings.Count(got, "to ") != 4 {
		t.Fatalf("a Point drives all four sides:\n%s", got)
	}
}

func TestInspectCurated_TeeOutputs(t *testing.T) {
	gr := circuit.New(1, 1)
	gr.Put(0, 0, circuit.Cell{Kind: circuit.Tee, Dir: circuit.Up, Active: true})
	got := strings.Join(inspectCurated(gr, circuit.Pos{}), "\n")
	if !strings.Contains(got, "to left  ON") || !strings.Contains(got, "to right ON") || strings.Contains(got, "to up") {
		t.Fatalf("tee should drive only its sides:\n%s", got)
	}
}

func TestInspect_EmptyAndOffGrid(t *testing.T) {
	gr := circuit.New(2, 2)
	if got := inspectCurated(gr, circuit.Pos{X: 1, Y: 1}); got[len(got)-1] != "nothing here" {
		t.Fatalf("unexpected empty-cell view %v", got)
	}
	if got := inspectRaw(gr, circuit.Pos{X: 5, Y: 0}); len(got) != 1 || !strings.Contains(got[0], "off grid") {
		t.Fatalf("unexpected off-grid view %v", got)
	}
}

func TestInspectRaw_EncodingAndEdges(t *testing.T) {
	gr := circuit.New(2, 1)
	gr.Put(0, 0, circuit.Cell{Kind: circuit.Cable, Dir: circuit.Right, Active: true})
	lines := inspectRaw(gr, circuit.Pos{})
	got := strings.Join(lines, "\n")
	// cable=1, right=1, active: 0b001011.
	if !strings.Contains(got, "byte=0b001011 hex=0b") {
		t.Fatalf("missing encoded byte:\n%s", got)
	}
	if !strings.Contains(got, "up    edge") || !strings.Contains(got, "right empty in=false") {
		t.Fatalf("unexpected neighbour lines:\n%s", got)
	}
}
