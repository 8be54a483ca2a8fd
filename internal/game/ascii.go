package game

import (
	"strings"

	"github.com/Garsondee/Circuits/internal/circuit"
)

var kindRune = map[circuit.Kind]byte{
	circuit.Cable: 'c',
	circuit.And:   'a',
	circuit.Not:   'n',
	circuit.Tee:   't',
	circuit.Point: 'o',
}

var dirRune = [4]byte{'^', '>', 'v', '<'}

// Render draws g as text, two characters per cell: a kind letter, upper-case
// when active, followed by the direction arrow. Empty cells are ". ".
//
//	C> n>
//	O  .
func Render(g *circuit.Grid) string {
	var sb strings.Builder
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if x > 0 {
				sb.WriteByte(' ')
			}
			c, _ := g.Get(x, y)
			sb.WriteString(renderCell(c))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func renderCell(c circuit.Cell) string {
	if c.Kind == circuit.Empty {
		return ". "
	}
	r := kindRune[c.Kind]
	if c.IsActive() {
		r -= 'a' - 'A'
	}
	d := byte(' ')
	if dir, ok := c.Direction(); ok {
		d = dirRune[dir]
	}
	return string([]byte{r, d})
}
