package circuit

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// ErrInputTooShort is returned when a serialized grid ends before its
// header or before width*height cell bytes.
var ErrInputTooShort = errors.New("circuit: input too short")

// HeaderSize is the length of the [height u32][width u32] prefix.
const HeaderSize = 8

// saveOffset maps every serialized byte into printable ASCII for save
// strings.
const saveOffset = 33

// MarshalBinary encodes g as [height u32 LE][width u32 LE] followed by one
// byte per cell in row-major order.
func (g *Grid) MarshalBinary() ([]byte, error) {
	return g.AppendBinary(make([]byte, 0, HeaderSize+len(g.cells)))
}

// AppendBinary appends the encoding of g to b.
func (g *Grid) AppendBinary(b []byte) ([]byte, error) {
	b = binary.LittleEndian.AppendUint32(b, uint32(g.height))
	b = binary.LittleEndian.AppendUint32(b, uint32(g.width))
	for _, c := range g.cells {
		b = append(b, c.Encode())
	}
	return b, nil
}

// UnmarshalBinary replaces g with the grid encoded in data. On error g is
// left unchanged.
func (g *Grid) UnmarshalBinary(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*g = *decoded
	return nil
}

// Decode parses a serialized grid. Bytes past the last cell are ignored.
// The first malformed cell byte fails the decode with a wrapped
// *KindInvalidError or *DirectionInvalidError; a stream holding fewer than
// width*height cells fails with ErrInputTooShort.
func Decode(data []byte) (*Grid, error) {
	if len(data) < HeaderSize {
		return nil, errors.WithStack(ErrInputTooShort)
	}
	height := binary.LittleEndian.Uint32(data[0:4])
	width := binary.LittleEndian.Uint32(data[4:8])
	want := uint64(width) * uint64(height)

	body := data[HeaderSize:]
	if uint64(len(body)) > want {
		body = body[:want]
	}
	cells := make([]Cell, 0, len(body))
	for i, b := range body {
		c, err := DecodeCell(b)
		if err != nil {
			return nil, errors.Wrapf(err, "cell %d", i)
		}
		cells = append(cells, c)
	}
	if uint64(len(cells)) != want {
		return nil, errors.Wrapf(ErrInputTooShort, "have %d of %d cells", len(cells), want)
	}
	return FromCells(int(width), int(height), cells)
}

// EncodeSave returns the printable save string for g: every serialized
// byte shifted up by 33.
func EncodeSave(g *Grid) string {
	b, _ := g.MarshalBinary()
	for i := range b {
		b[i] += saveOffset
	}
	return string(b)
}

// DecodeSave reverses EncodeSave.
func DecodeSave(s string) (*Grid, error) {
	b := []byte(s)
	for i := range b {
		b[i] -= saveOffset
	}
	return Decode(b)
}
