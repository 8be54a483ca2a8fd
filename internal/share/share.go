// Package share moves grids in and out of save strings: the `save` query
// parameter of a share link and the system clipboard.
package share

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/Garsondee/Circuits/internal/circuit"
)

// QueryParam is the query parameter carrying the save string.
const QueryParam = "save"

// ErrNoSave is returned when a link carries no save parameter.
var ErrNoSave = errors.New("share: link has no save parameter")

// Link returns base with the save string of g set as its save parameter.
// An empty base yields just the encoded query, e.g. "?save=...".
func Link(base string, g *circuit.Grid) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	q := u.Query()
	q.Set(QueryParam, circuit.EncodeSave(g))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FromLink extracts and decodes the save parameter of raw. raw may be a
// full URL, a bare query ("?save=..." or "save=..."), or a bare save
// string.
func FromLink(raw string) (*circuit.Grid, error) {
	save, err := saveParam(raw)
	if err != nil {
		return nil, err
	}
	return circuit.DecodeSave(save)
}

// saveParam leaves bare save strings untrimmed: byte 0xff encodes as a
// space.
func saveParam(raw string) (string, error) {
	link := strings.TrimSpace(raw)
	switch {
	case strings.Contains(link, "://") || strings.HasPrefix(link, "?"):
		u, err := url.Parse(link)
		if err != nil {
			return "", fmt.Errorf("parse link: %w", err)
		}
		if !u.Query().Has(QueryParam) {
			return "", ErrNoSave
		}
		return u.Query().Get(QueryParam), nil
	case strings.HasPrefix(link, QueryParam+"="):
		q, err := url.ParseQuery(link)
		if err != nil {
			return "", fmt.Errorf("parse query: %w", err)
		}
		return q.Get(QueryParam), nil
	default:
		return raw, nil
	}
}

// Clipboard is the system clipboard seam; tests swap in a fake.
type Clipboard interface {
	WriteAll(text string) error
	ReadAll() (string, error)
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }
func (systemClipboard) ReadAll() (string, error)   { return clipboard.ReadAll() }

// System returns the OS clipboard.
func System() Clipboard { return systemClipboard{} }

// Copy writes the share link for g (or the bare save string when base is
// empty) to cb and returns the copied text.
func Copy(cb Clipboard, base string, g *circuit.Grid) (string, error) {
	text := circuit.EncodeSave(g)
	if base != "" {
		link, err := Link(base, g)
		if err != nil {
			return "", err
		}
		text = link
	}
	if err := cb.WriteAll(text); err != nil {
		return "", fmt.Errorf("write clipboard: %w", err)
	}
	return text, nil
}

// Paste decodes a save string or share link from cb.
func Paste(cb Clipboard) (*circuit.Grid, error) {
	text, err := cb.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read clipboard: %w", err)
	}
	return FromLink(text)
}
