package circuit

import "math"

// Direction is one of the four cardinal orientations of a cell.
// The numeric values are the ids used by the binary cell encoding.
type Direction uint8

const (
	Up Direction = iota
	Right
	Down
	Left
)

// Directions returns the canonical neighbour order: Up, Right, Down, Left.
func Directions() [4]Direction {
	return [4]Direction{Up, Right, Down, Left}
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	return (d + 2) % 4
}

// RotateCW cycles Up→Right→Down→Left→Up.
func (d Direction) RotateCW() Direction {
	return (d + 1) % 4
}

// RotateCCW cycles Up→Left→Down→Right→Up.
func (d Direction) RotateCCW() Direction {
	return (d + 3) % 4
}

// Orthogonal reports whether o is perpendicular to d.
func (d Direction) Orthogonal(o Direction) bool {
	return o != d && o != d.Reverse()
}

// Offset returns the unit grid step for d. Y grows downwards.
func (d Direction) Offset() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Right:
		return 1, 0
	case Down:
		return 0, 1
	default:
		return -1, 0
	}
}

// Angle returns the display rotation in radians, clockwise from Up.
func (d Direction) Angle() float64 {
	switch d {
	case Right:
		return math.Pi * 0.5
	case Down:
		return math.Pi
	case Left:
		return math.Pi * -0.5
	default:
		return 0
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return "invalid"
	}
}

// ParseDirection maps "up", "right", "down" or "left" to its Direction.
func ParseDirection(s string) (Direction, bool) {
	for _, d := range Directions() {
		if d.String() == s {
			return d, true
		}
	}
	return 0, false
}
