package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Circuits/internal/circuit"
)

var (
	hudFace = text.NewGoXFace(basicfont.Face7x13)
	hudText = color.RGBA{R: 230, G: 225, B: 210, A: 255}
)

const (
	hudCharW  = 7
	hudLineH  = 13
	hudPadX   = 6
	hudPadY   = 4
	uiBrown   = 0x59
	uiBrownG  = 0x3b
	uiBrownB  = 0x13
	hudMargin = 6
)

func drawText(dst *ebiten.Image, s string, x, y int, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c)
	text.Draw(dst, s, hudFace, op)
}

// hudLines is the status and key legend shown in the top-left corner.
func (g *Game) hudLines() []string {
	e := g.editor
	state := "PAUSED"
	if e.Running() {
		state = "RUNNING"
	}
	hand := "empty"
	if h := e.Hand(); h.Kind != circuit.Empty {
		hand = h.String()
	}
	lines := []string{
		fmt.Sprintf("%s  tick %d  epoch %d", state, e.Tick(), e.Grid().Epoch()),
		"hand: " + hand,
	}
	if !g.showHUD {
		return lines
	}
	return append(lines,
		"click=place  shift+click=clear",
		"R=rotate  E=signal  Q=pick",
		"Right=step  Space=run",
		"S=copy link  L=library  F5=snapshot",
		"I=inspect  V=raw view",
		"right-drag=pan  wheel=zoom",
		"middle click=quit  H=legend",
	)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	lines := g.hudLines()
	maxLen := 0
	for _, l := range lines {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}
	bx, by := float32(hudMargin), float32(hudMargin)
	boxW := float32(maxLen*hudCharW + hudPadX*2)
	boxH := float32(len(lines)*hudLineH + hudPadY*2)

	vector.FillRect(screen, bx, by, boxW, boxH, color.RGBA{R: 10, G: 8, B: 6, A: 210}, false)
	vector.StrokeRect(screen, bx, by, boxW, boxH, 1.0, color.RGBA{R: uiBrown, G: uiBrownG, B: uiBrownB, A: 220}, false)
	for i, line := range lines {
		drawText(screen, line, int(bx)+hudPadX, int(by)+hudPadY+i*hudLineH, hudText)
	}
}
