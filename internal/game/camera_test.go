package game

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestCamera_RoundTrip(t *testing.T) {
	c := camera{x: -1.5, y: 2, size: 10, screen: 800}
	wx, wy := c.screenToWorld(123, 456)
	sx, sy := c.worldToScreen(wx, wy)
	if !near(sx, 123) || !near(sy, 456) {
		t.Fatalf("round trip gave (%f,%f)", sx, sy)
	}
}

func TestCamera_CellAt(t *testing.T) {
	c := newCamera(10, 500)
	if x, y := c.cellAt(0, 0); x != 0 || y != 0 {
		t.Fatalf("origin maps to (%d,%d)", x, y)
	}
	if x, y := c.cellAt(499, 51); x != 9 || y != 1 {
		t.Fatalf("expected (9,1), got (%d,%d)", x, y)
	}
	c.x, c.y = 0.5, 0.5
	if x, y := c.cellAt(0, 0); x != 0 || y != 0 {
		t.Fatalf("expected (0,0) after pan, got (%d,%d)", x, y)
	}
	c.x, c.y = -1, -1
	if x, y := c.cellAt(10, 10); x != -1 || y != -1 {
		t.Fatalf("points left of the grid should be negative, got (%d,%d)", x, y)
	}
}

func TestCamera_ZoomKeepsCursorPoint(t *testing.T) {
	c := newCamera(10, 600)
	before, beforeY := c.screenToWorld(420, 130)
	c.zoom(1, 420, 130)
	if !near(c.size, 11) {
		t.Fatalf("expected size 11 after zooming out, got %f", c.size)
	}
	after, afterY := c.screenToWorld(420, 130)
	if !near(before, after) || !near(beforeY, afterY) {
		t.Fatalf("cursor point moved from (%f,%f) to (%f,%f)", before, beforeY, after, afterY)
	}
	c.zoom(-1, 420, 130)
	if !near(c.size, 10) {
		t.Fatalf("expected size 10 after zooming back in, got %f", c.size)
	}
}

func TestCamera_ZoomClamped(t *testing.T) {
	c := newCamera(minViewSize, 600)
	c.zoom(-1, 0, 0)
	if c.size != minViewSize {
		t.Fatalf("zoom in past minimum: %f", c.size)
	}
}

func TestCamera_Anchor(t *testing.T) {
	c := newCamera(10, 100)
	c.anchor(3, 4, 50, 50)
	wx, wy := c.screenToWorld(50, 50)
	if !near(wx, 3) || !near(wy, 4) {
		t.Fatalf("anchor put (%f,%f) under the cursor", wx, wy)
	}
}
