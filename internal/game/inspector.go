package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Circuits/internal/circuit"
)

// Inspector panel: drawn into an offscreen buffer at 1x, then blitted at inspScale.
const (
	inspScale = 2
	inspBufW  = 200
	inspBufH  = 170
	inspPad   = 4
	inspLineH = 13
)

// Inspector holds the pinned cell and view toggle state.
type Inspector struct {
	pinned  bool
	pos     circuit.Pos
	rawView bool // false = curated, true = raw dump
}

// togglePin pins (x, y), or unpins when it is already pinned or off-grid.
func (in *Inspector) togglePin(gr *circuit.Grid, x, y int) {
	p := circuit.Pos{X: x, Y: y}
	if !gr.InBounds(x, y) || (in.pinned && in.pos == p) {
		in.pinned = false
		return
	}
	in.pinned = true
	in.pos = p
}

// inputSides lists the sides a cell reads its signal from.
func inputSides(c circuit.Cell) []circuit.Direction {
	switch c.Kind {
	case circuit.Cable, circuit.Not, circuit.Tee:
		return []circuit.Direction{c.Dir.Reverse()}
	case circuit.And:
		return []circuit.Direction{c.Dir.RotateCCW(), c.Dir.RotateCW()}
	case circuit.Point:
		d := circuit.Directions()
		return d[:]
	default:
		return nil
	}
}

// outputSides lists the sides a cell can drive.
func outputSides(c circuit.Cell) []circuit.Direction {
	switch c.Kind {
	case circuit.Cable, circuit.Not, circuit.And:
		return []circuit.Direction{c.Dir}
	case circuit.Tee:
		return []circuit.Direction{c.Dir.RotateCCW(), c.Dir.RotateCW()}
	case circuit.Point:
		d := circuit.Directions()
		return d[:]
	default:
		return nil
	}
}

// incoming reports whether the neighbour on side d of p asserts a signal
// into p.
func incoming(gr *circuit.Grid, p circuit.Pos, d circuit.Direction) bool {
	n := p.Add(d)
	c, ok := gr.Get(n.X, n.Y)
	return ok && c.SignalInDirection(d.Reverse())
}

// pointComponent returns the size of the Point component containing p.
func pointComponent(gr *circuit.Grid, p circuit.Pos) int {
	seen := map[circuit.Pos]bool{p: true}
	stack := []circuit.Pos{p}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range circuit.Directions() {
			n := cur.Add(d)
			if seen[n] {
				continue
			}
			if c, ok := gr.Get(n.X, n.Y); ok && c.Kind == circuit.Point {
				seen[n] = true
				stack = append(stack, n)
			}
		}
	}
	return len(seen)
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "off"
}

// inspectCurated describes the cell at p for humans: its state, the sides
// it reads and the sides it drives.
func inspectCurated(gr *circuit.Grid, p circuit.Pos) []string {
	c, ok := gr.Get(p.X, p.Y)
	if !ok {
		return []string{fmt.Sprintf("(%d,%d) off grid", p.X, p.Y)}
	}
	lines := []string{fmt.Sprintf("[ %s (%d,%d) ]", c.Kind, p.X, p.Y)}
	if c.Kind == circuit.Empty {
		return append(lines, "nothing here")
	}

	lines = append(lines, "-- STATE --")
	if d, ok := c.Direction(); ok {
		lines = append(lines, fmt.Sprintf("facing %s  signal %s", d, onOff(c.IsActive())))
	} else {
		lines = append(lines, fmt.Sprintf("signal %s  component %d", onOff(c.IsActive()), pointComponent(gr, p)))
	}

	lines = append(lines, "-- INPUTS --")
	for _, d := range inputSides(c) {
		lines = append(lines, fmt.Sprintf("from %-5s %s", d, onOff(incoming(gr, p, d))))
	}

	lines = append(lines, "-- OUTPUTS --")
	for _, d := range outputSides(c) {
		lines = append(lines, fmt.Sprintf("to %-5s %s", d, onOff(c.SignalInDirection(d))))
	}
	return lines
}

// inspectRaw dumps the encoded byte and every neighbour verbatim.
func inspectRaw(gr *circuit.Grid, p circuit.Pos) []string {
	c, ok := gr.Get(p.X, p.Y)
	if !ok {
		return []string{fmt.Sprintf("(%d,%d) off grid", p.X, p.Y)}
	}
	b := c.Encode()
	lines := []string{
		fmt.Sprintf("pos=(%d,%d) %s", p.X, p.Y, c),
		fmt.Sprintf("byte=0b%06b hex=%02x save=%q", b, b, rune(b+33)),
		fmt.Sprintf("epoch=%d grid=%d", c.Epoch, gr.Epoch()),
		"-- neighbours --",
	}
	for _, d := range circuit.Directions() {
		n := p.Add(d)
		nc, ok := gr.Get(n.X, n.Y)
		if !ok {
			lines = append(lines, fmt.Sprintf("%-5s edge", d))
			continue
		}
		lines = append(lines, fmt.Sprintf("%-5s %s in=%t", d, nc, nc.SignalInDirection(d.Reverse())))
	}
	return lines
}

// drawInspector blits the pinned cell's panel bottom-right of the play area.
func (g *Game) drawInspector(screen *ebiten.Image) {
	if !g.inspector.pinned {
		return
	}
	g.inspBuf.Clear()

	buf := g.inspBuf
	bw := float32(inspBufW)
	bh := float32(inspBufH)

	panelBg := color.RGBA{R: 14, G: 16, B: 14, A: 230}
	panelBorder := color.RGBA{R: 55, G: 80, B: 55, A: 255}
	vector.FillRect(buf, 0, 0, bw, bh, panelBg, false)
	vector.StrokeRect(buf, 0, 0, bw, bh, 1.0, panelBorder, false)

	viewName := "CURATED"
	lines := inspectCurated(g.editor.grid, g.inspector.pos)
	if g.inspector.rawView {
		viewName = "RAW"
		lines = inspectRaw(g.editor.grid, g.inspector.pos)
	}
	lx, ly := inspPad, inspPad
	ebitenutil.DebugPrintAt(buf, fmt.Sprintf("view: %s  [V] toggle", viewName), lx, ly)
	ly += inspLineH + 2
	vector.StrokeLine(buf, float32(lx), float32(ly), bw-float32(inspPad), float32(ly), 1.0, panelBorder, false)
	ly += 4
	for _, l := range lines {
		ebitenutil.DebugPrintAt(buf, l, lx, ly)
		ly += inspLineH
	}

	px := g.playWidth - inspBufW*inspScale - 8
	py := g.height - inspBufH*inspScale - hotbarSlot - 16
	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(inspScale), float64(inspScale))
	opts.GeoM.Translate(float64(px), float64(py))
	screen.DrawImage(buf, opts)

	// Outline the pinned cell in the world.
	sx, sy := g.cam.worldToScreen(float64(g.inspector.pos.X), float64(g.inspector.pos.Y))
	size := float32(g.cam.scale())
	vector.StrokeRect(screen, float32(sx), float32(sy), size, size, 2, panelBorder, false)
}
