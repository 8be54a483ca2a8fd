package game

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Circuits/internal/circuit"
)

var (
	activeCol  = color.RGBA{R: 0xFF, A: 0xFF}
	pointOff   = color.RGBA{R: 0x88, A: 0xFF}
	glyphCol   = color.RGBA{R: 0xE8, G: 0xE8, B: 0xE8, A: 0xFF}
	glyphWidth = float32(0.08) // stroke width as a fraction of the cell size
)

// glyph draws in cell-local coordinates: (u, v) in [-1, 1]², v = -1 is the
// side the cell faces, rotated by the cell direction around the centre.
type glyph struct {
	dst      *ebiten.Image
	cx, cy   float32
	half     float32
	sin, cos float32
	col      color.Color
	width    float32
}

func newGlyph(dst *ebiten.Image, x, y, size float32, d circuit.Direction, alpha float32) glyph {
	a := d.Angle()
	return glyph{
		dst:   dst,
		cx:    x + size/2,
		cy:    y + size/2,
		half:  size / 2,
		sin:   float32(math.Sin(a)),
		cos:   float32(math.Cos(a)),
		col:   fade(glyphCol, alpha),
		width: max(1, size*glyphWidth),
	}
}

func (gl glyph) pt(u, v float32) (float32, float32) {
	rx := u*gl.cos - v*gl.sin
	ry := u*gl.sin + v*gl.cos
	return gl.cx + rx*gl.half, gl.cy + ry*gl.half
}

func (gl glyph) line(u0, v0, u1, v1 float32) {
	x0, y0 := gl.pt(u0, v0)
	x1, y1 := gl.pt(u1, v1)
	vector.StrokeLine(gl.dst, x0, y0, x1, y1, gl.width, gl.col, true)
}

// arrow draws a shaft ending in a head at (u1, v1).
func (gl glyph) arrow(u0, v0, u1, v1 float32) {
	gl.line(u0, v0, u1, v1)
	du, dv := u1-u0, v1-v0
	l := float32(math.Hypot(float64(du), float64(dv)))
	if l == 0 {
		return
	}
	du, dv = du/l*0.35, dv/l*0.35
	gl.line(u1, v1, u1-du-dv, v1-dv+du)
	gl.line(u1, v1, u1-du+dv, v1-dv-du)
}

func fade(c color.RGBA, alpha float32) color.RGBA {
	return color.RGBA{
		R: uint8(float32(c.R) * alpha),
		G: uint8(float32(c.G) * alpha),
		B: uint8(float32(c.B) * alpha),
		A: uint8(float32(c.A) * alpha),
	}
}

// drawCell renders c into the size×size square at (x, y). Active cells sit on
// a red square; Points are a plain square, bright when active.
func drawCell(dst *ebiten.Image, c circuit.Cell, x, y, size, alpha float32) {
	switch c.Kind {
	case circuit.Empty:
		return
	case circuit.Point:
		col := pointOff
		if c.Active {
			col = activeCol
		}
		vector.FillRect(dst, x, y, size, size, fade(col, alpha), false)
		return
	}
	if c.Active {
		vector.FillRect(dst, x, y, size, size, fade(activeCol, alpha), false)
	}

	gl := newGlyph(dst, x, y, size, c.Dir, alpha)
	switch c.Kind {
	case circuit.Cable:
		gl.arrow(0, 1, 0, -0.9)
	case circuit.Not:
		gl.line(0, 1, 0, 0.45)
		gl.line(-0.5, 0.45, 0.5, 0.45)
		gl.line(-0.5, 0.45, 0, -0.4)
		gl.line(0.5, 0.45, 0, -0.4)
		bx, by := gl.pt(0, -0.6)
		vector.StrokeCircle(dst, bx, by, gl.half*0.2, gl.width, gl.col, true)
		gl.line(0, -0.8, 0, -1)
	case circuit.And:
		gl.line(-1, 0, -0.5, 0)
		gl.line(1, 0, 0.5, 0)
		gl.line(-0.5, 0.5, 0.5, 0.5)
		gl.line(-0.5, 0.5, -0.5, -0.1)
		gl.line(0.5, 0.5, 0.5, -0.1)
		gl.line(-0.5, -0.1, 0, -0.5)
		gl.line(0.5, -0.1, 0, -0.5)
		gl.arrow(0, -0.5, 0, -0.95)
	case circuit.Tee:
		gl.line(0, 1, 0, 0)
		gl.arrow(0, 0, -0.9, 0)
		gl.arrow(0, 0, 0.9, 0)
	}
}
