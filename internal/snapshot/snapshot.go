// Package snapshot writes and reads compressed checkpoints of a running
// circuit: a JSON header line followed by the serialized grid, the whole
// stream zstd-compressed.
package snapshot

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/Garsondee/Circuits/internal/circuit"
)

// Version is the header version written by this package.
const Version = 1

// Header is the first line of a snapshot stream.
type Header struct {
	Version int    `json:"version"`
	Name    string `json:"name"`
	Tick    uint64 `json:"tick"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// Snapshot is a grid captured at a given tick.
type Snapshot struct {
	Name string
	Tick uint64
	Grid *circuit.Grid
}

// Encode writes s to w as a zstd stream.
func Encode(w io.Writer, s Snapshot) error {
	if s.Grid == nil {
		return fmt.Errorf("snapshot %q has no grid", s.Name)
	}
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(enc)

	hb, err := json.Marshal(Header{
		Version: Version,
		Name:    s.Name,
		Tick:    s.Tick,
		Width:   s.Grid.Width(),
		Height:  s.Grid.Height(),
	})
	if err != nil {
		_ = enc.Close()
		return err
	}
	body, err := s.Grid.MarshalBinary()
	if err != nil {
		_ = enc.Close()
		return err
	}
	for _, part := range [][]byte{hb, {'\n'}, body} {
		if _, err := bw.Write(part); err != nil {
			_ = enc.Close()
			return fmt.Errorf("write snapshot: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	return enc.Close()
}

// Decode reads a snapshot written by Encode. The header must carry the
// current Version and agree with the grid dimensions.
func Decode(r io.Reader) (Snapshot, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return Snapshot{}, err
	}
	defer dec.Close()

	br := bufio.NewReader(dec)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot header: %w", err)
	}
	var h Header
	if err := json.Unmarshal(bytes.TrimSpace(line), &h); err != nil {
		return Snapshot{}, fmt.Errorf("parse snapshot header: %w", err)
	}
	if h.Version != Version {
		return Snapshot{}, fmt.Errorf("unsupported snapshot version %d", h.Version)
	}
	body, err := io.ReadAll(br)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot body: %w", err)
	}
	g, err := circuit.Decode(body)
	if err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot grid: %w", err)
	}
	if g.Width() != h.Width || g.Height() != h.Height {
		return Snapshot{}, fmt.Errorf("snapshot header says %dx%d, grid is %dx%d",
			h.Width, h.Height, g.Width(), g.Height())
	}
	return Snapshot{Name: h.Name, Tick: h.Tick, Grid: g}, nil
}

// Write stores s at path, creating parent directories.
func Write(path string, s Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := Encode(f, s); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Read loads the snapshot at path.
func Read(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, err
	}
	defer f.Close()
	return Decode(f)
}
