package snapshot

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/Garsondee/Circuits/internal/circuit"
)

func sample() *circuit.Grid {
	g := circuit.New(6, 3)
	g.Put(0, 0, circuit.Cell{Kind: circuit.Cable, Dir: circuit.Right, Active: true})
	g.Put(1, 0, circuit.Cell{Kind: circuit.Point})
	g.Put(2, 0, circuit.Cell{Kind: circuit.Tee, Dir: circuit.Right})
	return g
}

func TestWriteRead_RoundTrip(t *testing.T) {
	g := sample()
	g.Simulate()
	path := filepath.Join(t.TempDir(), "sub", "c.snap")
	if err := Write(path, Snapshot{Name: "demo", Tick: 7, Grid: g}); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Name != "demo" || got.Tick != 7 {
		t.Fatalf("header mismatch: %+v", got)
	}
	if !got.Grid.Equal(g) {
		t.Fatal("grid changed through snapshot")
	}
}

func TestDecode_HeaderIsFirstLine(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, Snapshot{Name: "h", Tick: 3, Grid: sample()}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		t.Fatalf("zstd: %v", err)
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(buf.Bytes(), nil)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	line, _, ok := bytes.Cut(raw, []byte("\n"))
	if !ok {
		t.Fatal("no header line")
	}
	want := `{"version":1,"name":"h","tick":3,"width":6,"height":3}`
	if string(line) != want {
		t.Fatalf("header = %s, want %s", line, want)
	}
	if len(raw)-len(line)-1 != circuit.HeaderSize+18 {
		t.Fatalf("unexpected body length %d", len(raw)-len(line)-1)
	}
}

func encodeRaw(t *testing.T, header string, body []byte) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatalf("zstd writer: %v", err)
	}
	enc.Write([]byte(header + "\n"))
	enc.Write(body)
	if err := enc.Close(); err != nil {
		t.Fatalf("zstd close: %v", err)
	}
	return &buf
}

func TestDecode_RejectsVersion(t *testing.T) {
	body, _ := sample().MarshalBinary()
	buf := encodeRaw(t, `{"version":9,"width":6,"height":3}`, body)
	if _, err := Decode(buf); err == nil || !strings.Contains(err.Error(), "version") {
		t.Fatalf("expected version error, got %v", err)
	}
}

func TestDecode_RejectsDimensionMismatch(t *testing.T) {
	body, _ := sample().MarshalBinary()
	buf := encodeRaw(t, `{"version":1,"width":3,"height":6}`, body)
	if _, err := Decode(buf); err == nil || !strings.Contains(err.Error(), "header says") {
		t.Fatalf("expected dimension error, got %v", err)
	}
}

func TestDecode_RejectsCorruptGrid(t *testing.T) {
	buf := encodeRaw(t, `{"version":1,"width":6,"height":3}`, []byte{3, 0, 0, 0})
	if _, err := Decode(buf); err == nil {
		t.Fatal("expected error for truncated grid")
	}
}

func TestDecode_NotZstd(t *testing.T) {
	if _, err := Decode(strings.NewReader("plain text\n")); err == nil {
		t.Fatal("expected error for uncompressed input")
	}
}

func TestEncode_NilGrid(t *testing.T) {
	if err := Encode(&bytes.Buffer{}, Snapshot{Name: "x"}); err == nil {
		t.Fatal("expected error for nil grid")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestEncode_WriteError(t *testing.T) {
	// Large enough to spill the buffered writer before Flush.
	g := circuit.New(200, 200)
	if err := Encode(failingWriter{}, Snapshot{Name: "big", Grid: g}); err == nil {
		t.Fatal("expected error from a failing writer")
	}
}
