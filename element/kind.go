package element

import (
	"errors"
	"fmt"
)

// ErrUnknownKind is returned when parsing a kind name that is not in the
// closed set.
var ErrUnknownKind = errors.New("element: unknown kind")

// Kind is the closed tag of an element. Every Kind has exactly one entry in
// the behavior table; adding a Kind without a behavior is a compile error
// because the table is sized by kindCount.
type Kind uint8

const (
	KindFrame Kind = iota
	KindGroup
	KindText
	KindShape
	KindImage
	KindComponent
	KindSummary

	kindCount
)

// PaintMode tells a draw surface how to render an element.
type PaintMode uint8

const (
	PaintStroke PaintMode = iota
	PaintFill
	PaintLabel
)

// Behavior is everything the per-frame pipeline needs to know about a Kind.
type Behavior struct {
	Name string
	// Z is the default overlay z-order when the payload does not set one.
	Z int
	// BoundsAware elements are culled by their full rectangle; the others
	// by their position only.
	BoundsAware bool
	// Summary marks kinds that stand in for collapsed groups.
	Summary bool
	Paint   PaintMode
}

var behaviors = [kindCount]Behavior{
	KindFrame:     {Name: "frame", Z: 0, BoundsAware: true, Paint: PaintStroke},
	KindGroup:     {Name: "group", Z: 1, BoundsAware: true, Paint: PaintStroke},
	KindText:      {Name: "text", Z: 3, BoundsAware: true, Paint: PaintLabel},
	KindShape:     {Name: "shape", Z: 2, BoundsAware: true, Paint: PaintFill},
	KindImage:     {Name: "image", Z: 2, BoundsAware: true, Paint: PaintFill},
	KindComponent: {Name: "component", Z: 4, BoundsAware: true, Paint: PaintStroke},
	KindSummary:   {Name: "summary", Z: 5, BoundsAware: true, Summary: true, Paint: PaintLabel},
}

// Valid reports whether k is a member of the closed set.
func (k Kind) Valid() bool {
	return k < kindCount
}

// Behavior returns the dispatch-table entry for k. Invalid kinds return the
// zero Behavior.
func (k Kind) Behavior() Behavior {
	if !k.Valid() {
		return Behavior{}
	}
	return behaviors[k]
}

// String returns the kind name.
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return behaviors[k].Name
}

// Kinds returns every valid kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// ParseKind resolves a kind name.
func ParseKind(s string) (Kind, error) {
	for k := Kind(0); k < kindCount; k++ {
		if behaviors[k].Name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, uint8(k))
	}
	return []byte(behaviors[k].Name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
