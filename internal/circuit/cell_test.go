package circuit

import (
	"testing"

	"github.com/pkg/errors"
)

func TestCell_IsActiveAndDirection(t *testing.T) {
	if (Cell{Kind: Empty, Active: true}).IsActive() {
		t.Fatal("empty cell must never be active")
	}
	if _, ok := (Cell{Kind: Point, Active: true}).Direction(); ok {
		t.Fatal("point should have no direction")
	}
	d, ok := (Cell{Kind: Not, Dir: Left}).Direction()
	if !ok || d != Left {
		t.Fatalf("not cell direction = %s,%t, want left,true", d, ok)
	}
}

func TestCell_SetIgnoresEmpty(t *testing.T) {
	var c Cell
	c.Set(true)
	if c.Active {
		t.Fatal("Set should be a no-op on an empty cell")
	}
	c = Cell{Kind: Cable}
	c.Set(true)
	if !c.IsActive() {
		t.Fatal("Set(true) should activate a cable")
	}
}

func TestCell_RotateOnlyDirectional(t *testing.T) {
	c := Cell{Kind: Tee, Dir: Up}
	want := []Direction{Right, Down, Left, Up}
	for _, w := range want {
		c.Rotate()
		if c.Dir != w {
			t.Fatalf("rotate got %s, want %s", c.Dir, w)
		}
	}
	p := Cell{Kind: Point, Active: true}
	p.Rotate()
	if p != (Cell{Kind: Point, Active: true}) {
		t.Fatalf("rotate changed a point: %v", p)
	}
	var e Cell
	e.Rotate()
	if e != (Cell{}) {
		t.Fatalf("rotate changed an empty cell: %v", e)
	}
}

func TestCell_SignalInDirection(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		dir  Direction
		want bool
	}{
		{"inactive cable", Cell{Kind: Cable, Dir: Right}, Right, false},
		{"cable forward", Cell{Kind: Cable, Dir: Right, Active: true}, Right, true},
		{"cable backward", Cell{Kind: Cable, Dir: Right, Active: true}, Left, false},
		{"cable side", Cell{Kind: Cable, Dir: Right, Active: true}, Up, false},
		{"and forward", Cell{Kind: And, Dir: Down, Active: true}, Down, true},
		{"not forward", Cell{Kind: Not, Dir: Up, Active: true}, Up, true},
		{"not side", Cell{Kind: Not, Dir: Up, Active: true}, Left, false},
		{"tee forward", Cell{Kind: Tee, Dir: Up, Active: true}, Up, false},
		{"tee backward", Cell{Kind: Tee, Dir: Up, Active: true}, Down, false},
		{"tee left", Cell{Kind: Tee, Dir: Up, Active: true}, Left, true},
		{"tee right", Cell{Kind: Tee, Dir: Up, Active: true}, Right, true},
		{"point any", Cell{Kind: Point, Active: true}, Down, true},
		{"inactive point", Cell{Kind: Point}, Down, false},
		{"empty", Cell{Kind: Empty, Active: true}, Up, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cell.SignalInDirection(tt.dir); got != tt.want {
				t.Fatalf("SignalInDirection(%s) on %v = %t, want %t", tt.dir, tt.cell, got, tt.want)
			}
		})
	}
}

func TestCell_EncodeLayout(t *testing.T) {
	c := Cell{Kind: And, Dir: Left, Active: true}
	if got, want := c.Encode(), byte(2<<3|3<<1|1); got != want {
		t.Fatalf("Encode = %#08b, want %#08b", got, want)
	}
	p := Cell{Kind: Point, Active: true, Epoch: 42}
	if got, want := p.Encode(), byte(5<<3|1); got != want {
		t.Fatalf("point Encode = %#08b, want %#08b", got, want)
	}
}

func TestDecodeCell_RoundTrip(t *testing.T) {
	for k := Empty; k < kindCount; k++ {
		for _, d := range Directions() {
			for _, active := range []bool{false, true} {
				c := Cell{Kind: k, Dir: d, Active: active}
				got, err := DecodeCell(c.Encode())
				if err != nil {
					t.Fatalf("decode %v: %v", c, err)
				}
				if !got.Equal(c) {
					t.Fatalf("decode(encode(%v)) = %v", c, got)
				}
			}
		}
	}
}

func TestDecodeCell_InvalidKind(t *testing.T) {
	for _, b := range []byte{6 << 3, 7<<3 | 1, 6<<3 | 2<<1} {
		_, err := DecodeCell(b)
		if err == nil {
			t.Fatalf("byte %#08b: expected error", b)
		}
		kerr, ok := errors.Cause(err).(*KindInvalidError)
		if !ok {
			t.Fatalf("byte %#08b: expected *KindInvalidError, got %T", b, errors.Cause(err))
		}
		if kerr.Byte != b || kerr.Kind != b>>3 {
			t.Fatalf("byte %#08b: got %+v", b, kerr)
		}
	}
}

func TestDecodeDirection_OutOfRange(t *testing.T) {
	if _, ok := decodeDirection(4); ok {
		t.Fatal("direction id 4 should be rejected")
	}
	err := &DirectionInvalidError{Byte: 0xff, Dir: 4}
	if err.Error() == "" {
		t.Fatal("expected a message")
	}
}

func TestParseKind(t *testing.T) {
	for k := Empty; k < kindCount; k++ {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Fatalf("ParseKind(%q) = %v, %t", k.String(), got, ok)
		}
	}
	if _, ok := ParseKind("kind(6)"); ok {
		t.Fatal("invalid kind name parsed")
	}
}
