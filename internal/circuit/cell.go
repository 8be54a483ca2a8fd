package circuit

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies the logic element held by a cell.
// The numeric values are the kind ids of the binary cell encoding.
type Kind uint8

const (
	Empty Kind = iota // no element
	Cable             // directed wire
	And               // 2-input AND, inputs on the sides orthogonal to Dir
	Not               // inverter
	Tee               // splitter, output on both sides orthogonal to Dir
	Point             // junction node, merges with adjacent Points
	kindCount
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Cable:
		return "cable"
	case And:
		return "and"
	case Not:
		return "not"
	case Tee:
		return "tee"
	case Point:
		return "point"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k < kindCount
}

// Directional reports whether cells of kind k carry a direction.
func (k Kind) Directional() bool {
	return k != Empty && k != Point
}

// Cell is one grid unit. Dir is meaningful only for directional kinds and
// Epoch only for Point, where it records the last tick-local flood fill
// that visited the cell.
type Cell struct {
	Kind   Kind
	Dir    Direction
	Active bool
	Epoch  uint32
}

// IsActive is false for Empty, else the stored flag.
func (c Cell) IsActive() bool {
	return c.Kind != Empty && c.Active
}

// Direction returns the cell's orientation, or false for Empty and Point.
func (c Cell) Direction() (Direction, bool) {
	if !c.Kind.Directional() {
		return 0, false
	}
	return c.Dir, true
}

// Set overwrites the active flag. No-op on Empty.
func (c *Cell) Set(signal bool) {
	if c.Kind == Empty {
		return
	}
	c.Active = signal
}

// Rotate turns a directional cell clockwise. No-op on Empty and Point.
func (c *Cell) Rotate() {
	if !c.Kind.Directional() {
		return
	}
	c.Dir = c.Dir.RotateCW()
}

// SignalInDirection reports whether c asserts a signal observable by the
// neighbour sitting on side dir of c.
func (c Cell) SignalInDirection(dir Direction) bool {
	if !c.IsActive() {
		return false
	}
	switch c.Kind {
	case Point:
		return true
	case Tee:
		return c.Dir.Orthogonal(dir)
	default:
		return c.Dir == dir
	}
}

// Equal compares kind, direction and signal. The Point epoch stamp is
// tick-local bookkeeping and is ignored.
func (c Cell) Equal(o Cell) bool {
	if c.Kind != o.Kind || c.IsActive() != o.IsActive() {
		return false
	}
	if c.Kind.Directional() {
		return c.Dir == o.Dir
	}
	return true
}

func (c Cell) String() string {
	switch {
	case c.Kind == Empty:
		return "empty"
	case c.Kind == Point:
		return fmt.Sprintf("point(active=%t)", c.Active)
	default:
		return fmt.Sprintf("%s(%s, active=%t)", c.Kind, c.Dir, c.Active)
	}
}

// Cell byte layout: bits [5:3] kind, bits [2:1] direction, bit 0 active.
const (
	kindShift = 3
	kindMask  = 0b111000
	dirShift  = 1
	dirMask   = 0b110
	activeBit = 0b1
)

// KindInvalidError reports a cell byte whose kind id is not a known Kind.
type KindInvalidError struct {
	Byte byte
	Kind uint8
}

func (e *KindInvalidError) Error() string {
	return fmt.Sprintf("cell byte %#02x: invalid kind id %d", e.Byte, e.Kind)
}

// DirectionInvalidError reports a cell byte whose direction id is out of range.
type DirectionInvalidError struct {
	Byte byte
	Dir  uint8
}

func (e *DirectionInvalidError) Error() string {
	return fmt.Sprintf("cell byte %#02x: invalid direction id %d", e.Byte, e.Dir)
}

// Encode packs c into its one-byte wire form. Points and empties store
// direction id 0.
func (c Cell) Encode() byte {
	var dir byte
	if d, ok := c.Direction(); ok {
		dir = byte(d)
	}
	var active byte
	if c.IsActive() {
		active = 1
	}
	return byte(c.Kind)<<kindShift | dir<<dirShift | active
}

// DecodeCell unpacks one cell byte. Decoded Points carry epoch 0; an Empty
// byte decodes to the zero Cell whatever its other bits hold.
func DecodeCell(b byte) (Cell, error) {
	kind := (b & kindMask) >> kindShift
	active := b&activeBit == 1
	if Kind(kind) == Point {
		return Cell{Kind: Point, Active: active}, nil
	}
	dirID := (b & dirMask) >> dirShift
	dir, ok := decodeDirection(dirID)
	if !ok {
		return Cell{}, errors.WithStack(&DirectionInvalidError{Byte: b, Dir: dirID})
	}
	switch Kind(kind) {
	case Empty:
		return Cell{}, nil
	case Cable, And, Not, Tee:
		return Cell{Kind: Kind(kind), Dir: dir, Active: active}, nil
	default:
		return Cell{}, errors.WithStack(&KindInvalidError{Byte: b, Kind: kind})
	}
}

func decodeDirection(id uint8) (Direction, bool) {
	if id > uint8(Left) {
		return 0, false
	}
	return Direction(id), true
}

// ParseKind maps a kind name as printed by Kind.String back to its Kind.
func ParseKind(s string) (Kind, bool) {
	for k := Empty; k < kindCount; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}
