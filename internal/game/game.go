package game

import (
	"context"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Circuits/internal/circuit"
)

// hotbarSlot is the pixel size of one hotbar slot.
const hotbarSlot = 50

var (
	backgroundCol = color.RGBA{R: 0x11, G: 0x11, B: 0x11, A: 255}
	gridLineCol   = color.RGBA{R: 0, G: 0x80, B: 0, A: 255}
	uiBackground  = color.RGBA{R: uiBrown, G: uiBrownG, B: uiBrownB, A: 255}
)

// Game is the ebiten front end of the editor.
type Game struct {
	width     int
	height    int
	playWidth int // editor area; the event log takes the rest

	editor *Editor
	cam    camera

	// World buffer clipped to the play area.
	worldBuf *ebiten.Image

	prevKeys  map[ebiten.Key]bool
	prevMouse map[ebiten.MouseButton]bool

	panning          bool
	panWX, panWY     float64 // world point held under the cursor while panning
	cursorX, cursorY int

	inspector Inspector
	inspBuf   *ebiten.Image

	showHUD bool
	quit    bool
}

// New builds the editor window around g.
func New(g *circuit.Grid, opts Options) *Game {
	ed := NewEditor(g, opts)
	w, h := opts.Config.WindowWidth, opts.Config.WindowHeight
	if w <= logPanelWidth {
		w = 1280
	}
	if h <= hotbarSlot {
		h = 800
	}
	playW := w - logPanelWidth
	viewCells := opts.Config.ViewCells
	if viewCells <= 0 {
		viewCells = 10
	}
	game := &Game{
		width:     w,
		height:    h,
		playWidth: playW,
		editor:    ed,
		cam:       newCamera(viewCells, float64(min(playW, h))),
		worldBuf:  ebiten.NewImage(playW, h),
		inspBuf:   ebiten.NewImage(inspBufW, inspBufH),
		prevKeys:  make(map[ebiten.Key]bool),
		prevMouse: make(map[ebiten.MouseButton]bool),
		showHUD:   true,
	}
	ed.events.Add(0, EventInfo, "grid %dx%d", ed.grid.Width(), ed.grid.Height())
	return game
}

// Editor exposes the editing state.
func (g *Game) Editor() *Editor { return g.editor }

func (g *Game) Update() error {
	g.handleInput()
	if g.quit {
		g.editor.log.Info("editor closed", "tick", g.editor.tick)
		return ebiten.Termination
	}
	g.editor.Advance(1 / float64(ebiten.TPS()))
	return nil
}

// hotbarRect returns the screen rectangle of hotbar slot i, centred along
// the bottom of the play area.
func (g *Game) hotbarRect(i int) (x, y, w, h float32) {
	startX := float32(g.playWidth)/2 - float32(len(hotbar)*hotbarSlot)/2
	return startX + float32(i*hotbarSlot), float32(g.height - hotbarSlot), hotbarSlot, hotbarSlot
}

// hotbarAt returns the hotbar slot under a screen point.
func (g *Game) hotbarAt(sx, sy int) (int, bool) {
	for i := range hotbar {
		x, y, w, h := g.hotbarRect(i)
		fx, fy := float32(sx), float32(sy)
		if fx >= x && fy >= y && fx <= x+w && fy <= y+h {
			return i, true
		}
	}
	return 0, false
}

// handleInput processes keyboard and mouse input. Key commands are
// edge-triggered; holding E keeps forcing the hovered cell active.
func (g *Game) handleInput() {
	currentKeys := map[ebiten.Key]bool{}
	pressed := func(k ebiten.Key) bool {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		return currentKeys[k] && !g.prevKeys[k]
	}
	currentMouse := map[ebiten.MouseButton]bool{}
	for _, b := range []ebiten.MouseButton{ebiten.MouseButtonLeft, ebiten.MouseButtonRight, ebiten.MouseButtonMiddle} {
		currentMouse[b] = ebiten.IsMouseButtonPressed(b)
	}
	down := func(b ebiten.MouseButton) bool { return currentMouse[b] && !g.prevMouse[b] }
	up := func(b ebiten.MouseButton) bool { return !currentMouse[b] && g.prevMouse[b] }

	g.cursorX, g.cursorY = ebiten.CursorPosition()
	sx, sy := float64(g.cursorX), float64(g.cursorY)
	cx, cy := g.cam.cellAt(sx, sy)
	ed := g.editor

	// Camera: right-drag pans, wheel zooms around the cursor.
	if down(ebiten.MouseButtonRight) {
		g.panning = true
		g.panWX, g.panWY = g.cam.screenToWorld(sx, sy)
	}
	if up(ebiten.MouseButtonRight) {
		g.panning = false
	}
	if g.panning {
		g.cam.anchor(g.panWX, g.panWY, sx, sy)
	}
	if _, wy := ebiten.Wheel(); wy != 0 {
		g.cam.zoom(-wy, sx, sy)
	}
	if up(ebiten.MouseButtonMiddle) {
		g.quit = true
	}

	if down(ebiten.MouseButtonLeft) && g.cursorX < g.playWidth {
		if i, ok := g.hotbarAt(g.cursorX, g.cursorY); ok {
			ed.SelectHotbar(i)
		} else {
			ed.Click(cx, cy, ebiten.IsKeyPressed(ebiten.KeyShift))
		}
	}

	if pressed(ebiten.KeyR) {
		ed.Rotate(cx, cy)
	}
	if pressed(ebiten.KeyE) {
		ed.ToggleActive(cx, cy)
	}
	if currentKeys[ebiten.KeyE] {
		ed.HoldActive(cx, cy)
	}
	if pressed(ebiten.KeyQ) {
		ed.Pick(cx, cy)
	}
	if pressed(ebiten.KeyArrowRight) {
		ed.Step()
	}
	if pressed(ebiten.KeySpace) {
		ed.ToggleRunning()
	}
	if pressed(ebiten.KeyS) {
		_, _ = ed.CopySave()
	}
	if pressed(ebiten.KeyL) {
		_ = ed.SaveToLibrary(context.Background())
	}
	if pressed(ebiten.KeyF5) {
		_ = ed.WriteSnapshot()
	}
	if pressed(ebiten.KeyI) {
		g.inspector.togglePin(ed.grid, cx, cy)
	}
	if pressed(ebiten.KeyV) {
		g.inspector.rawView = !g.inspector.rawView
	}
	if pressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}

	g.prevKeys = currentKeys
	g.prevMouse = currentMouse
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundCol)

	g.worldBuf.Clear()
	g.drawGrid(g.worldBuf)
	g.drawHover(g.worldBuf)
	g.drawHotbar(g.worldBuf)
	g.drawHUD(g.worldBuf)
	g.drawInspector(g.worldBuf)
	screen.DrawImage(g.worldBuf, nil)

	g.editor.events.Draw(screen, g.playWidth, g.height)
}

// drawGrid renders the grid lines and every non-empty cell.
func (g *Game) drawGrid(dst *ebiten.Image) {
	gr := g.editor.grid
	w, h := float64(gr.Width()), float64(gr.Height())
	for x := 0; x <= gr.Width(); x++ {
		x0, y0 := g.cam.worldToScreen(float64(x), 0)
		x1, y1 := g.cam.worldToScreen(float64(x), h)
		vector.StrokeLine(dst, float32(x0), float32(y0), float32(x1), float32(y1), 1, gridLineCol, false)
	}
	for y := 0; y <= gr.Height(); y++ {
		x0, y0 := g.cam.worldToScreen(0, float64(y))
		x1, y1 := g.cam.worldToScreen(w, float64(y))
		vector.StrokeLine(dst, float32(x0), float32(y0), float32(x1), float32(y1), 1, gridLineCol, false)
	}

	size := float32(g.cam.scale())
	for p, c := range gr.All() {
		if c.Kind == circuit.Empty {
			continue
		}
		sx, sy := g.cam.worldToScreen(float64(p.X), float64(p.Y))
		drawCell(dst, c, float32(sx), float32(sy), size, 1)
	}
}

// drawHover shows the hand cell over the cell under the cursor.
func (g *Game) drawHover(dst *ebiten.Image) {
	hand := g.editor.hand
	if hand.Kind == circuit.Empty || g.cursorX >= g.playWidth {
		return
	}
	cx, cy := g.cam.cellAt(float64(g.cursorX), float64(g.cursorY))
	sx, sy := g.cam.worldToScreen(float64(cx), float64(cy))
	drawCell(dst, hand, float32(sx), float32(sy), float32(g.cam.scale()), 0.5)
}

func (g *Game) drawHotbar(dst *ebiten.Image) {
	x, y, _, _ := g.hotbarRect(0)
	vector.FillRect(dst, x-5, y-5, float32(len(hotbar)*hotbarSlot+10), hotbarSlot+10, uiBackground, false)
	for i, c := range hotbar {
		sx, sy, size, _ := g.hotbarRect(i)
		drawCell(dst, c, sx, sy, size, 1)
		if g.editor.hand.Kind != circuit.Empty && g.editor.hand.Kind == c.Kind {
			vector.StrokeRect(dst, sx+1, sy+1, size-2, size-2, 2, hudText, false)
		}
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
