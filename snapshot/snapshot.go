// Package snapshot persists element sets as zstd-compressed JSON so a scene
// can be replayed later with the same view and tier table.
package snapshot

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/kmadk/spacegen/element"
	"github.com/kmadk/spacegen/geom"
	"github.com/kmadk/spacegen/tier"
)

// Version is the snapshot format version written by Write.
const Version = 1

var (
	// ErrVersion is returned when reading a snapshot with an unknown version.
	ErrVersion = errors.New("snapshot: unsupported version")

	// ErrContent is returned when an element's content cannot be decoded.
	ErrContent = errors.New("snapshot: bad element content")
)

// Snapshot is a saved scene.
type Snapshot struct {
	ID       uuid.UUID
	Created  time.Time
	View     geom.ViewState
	Levels   []tier.Threshold
	Elements []*element.Element
}

// New returns a snapshot with a fresh id.
func New(view geom.ViewState, levels []tier.Threshold, els []*element.Element) *Snapshot {
	return &Snapshot{
		ID:       uuid.New(),
		Created:  time.Now().UTC(),
		View:     view,
		Levels:   levels,
		Elements: els,
	}
}

type wireSnapshot struct {
	Version  int            `json:"version"`
	ID       uuid.UUID      `json:"id"`
	Created  time.Time      `json:"created"`
	View     geom.ViewState `json:"view"`
	Levels   string         `json:"levels,omitempty"`
	Elements []wireElement  `json:"elements"`
}

type wireElement struct {
	*element.Element
	Content json.RawMessage `json:"content,omitempty"`
}

// Write encodes s to w.
func Write(w io.Writer, s *Snapshot) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("snapshot: create zstd writer: %w", err)
	}

	ws := wireSnapshot{
		Version:  Version,
		ID:       s.ID,
		Created:  s.Created,
		View:     s.View,
		Elements: make([]wireElement, 0, len(s.Elements)),
	}
	if len(s.Levels) > 0 {
		ws.Levels = tier.String(s.Levels)
	}
	for _, el := range s.Elements {
		we := wireElement{Element: el}
		if el.Content != nil {
			raw, err := json.Marshal(el.Content)
			if err != nil {
				enc.Close()
				return fmt.Errorf("snapshot: marshal content of %s: %w", el.ID, err)
			}
			we.Content = raw
		}
		ws.Elements = append(ws.Elements, we)
	}

	if err := json.NewEncoder(enc).Encode(ws); err != nil {
		enc.Close()
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("snapshot: close encoder: %w", err)
	}
	return nil
}

// Read decodes a snapshot written by Write. Elements come back unresolved.
func Read(r io.Reader) (*Snapshot, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("snapshot: create zstd reader: %w", err)
	}
	defer dec.Close()

	var ws wireSnapshot
	if err := json.NewDecoder(dec).Decode(&ws); err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	if ws.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, ws.Version)
	}

	s := &Snapshot{
		ID:       ws.ID,
		Created:  ws.Created,
		View:     ws.View,
		Elements: make([]*element.Element, 0, len(ws.Elements)),
	}
	if ws.Levels != "" {
		if s.Levels, err = tier.ParseTable(ws.Levels); err != nil {
			return nil, fmt.Errorf("snapshot: levels: %w", err)
		}
	}
	for _, we := range ws.Elements {
		if we.Element == nil {
			continue
		}
		el := we.Element
		if len(we.Content) > 0 {
			c := element.NewContent(el.Kind)
			if c == nil {
				return nil, fmt.Errorf("%w: %s has kind %v", ErrContent, el.ID, el.Kind)
			}
			if err := json.Unmarshal(we.Content, c); err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrContent, el.ID, err)
			}
			el.Content = c
		}
		s.Elements = append(s.Elements, el)
	}
	return s, nil
}

// Save writes s to path.
func Save(path string, s *Snapshot) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return fmt.Errorf("snapshot: create file: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriterSize(f, 1<<20)
	if err := Write(bw, s); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("snapshot: flush: %w", err)
	}
	return f.Close()
}

// Load reads a snapshot from path.
func Load(path string) (*Snapshot, error) {
	f, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, fmt.Errorf("snapshot: open file: %w", err)
	}
	defer f.Close()
	return Read(bufio.NewReader(f))
}
