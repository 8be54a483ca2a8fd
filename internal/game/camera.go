package game

import "math"

// camera maps between screen pixels and grid (world) units. (x, y) is the
// world point at the top-left of the view, size the number of cells spanned
// by screen pixels.
type camera struct {
	x, y   float64
	size   float64
	screen float64
}

const (
	zoomStep    = 1.1
	minViewSize = 2.0
	maxViewSize = 200.0
)

func newCamera(viewCells, screen float64) camera {
	return camera{size: viewCells, screen: screen}
}

func (c camera) scale() float64 {
	return c.screen / c.size
}

func (c camera) screenToWorld(sx, sy float64) (float64, float64) {
	return sx/c.scale() + c.x, sy/c.scale() + c.y
}

func (c camera) worldToScreen(wx, wy float64) (float64, float64) {
	return (wx - c.x) * c.scale(), (wy - c.y) * c.scale()
}

// cellAt returns the grid coordinate under a screen point. Points left of or
// above the grid map to negative coordinates.
func (c camera) cellAt(sx, sy float64) (int, int) {
	wx, wy := c.screenToWorld(sx, sy)
	return int(math.Floor(wx)), int(math.Floor(wy))
}

// anchor shifts the view so world point (wx, wy) sits under screen point
// (sx, sy).
func (c *camera) anchor(wx, wy, sx, sy float64) {
	mx, my := c.screenToWorld(sx, sy)
	c.x += wx - mx
	c.y += wy - my
}

// zoom scrolls around the screen point (sx, sy): positive wheel values show
// more cells, negative fewer.
func (c *camera) zoom(wheel, sx, sy float64) {
	if wheel == 0 {
		return
	}
	wx, wy := c.screenToWorld(sx, sy)
	if wheel > 0 {
		c.size *= zoomStep
	} else {
		c.size /= zoomStep
	}
	c.size = math.Max(minViewSize, math.Min(maxViewSize, c.size))
	c.anchor(wx, wy, sx, sy)
}
