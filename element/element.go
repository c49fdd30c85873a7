// Package element defines the SpatialElement record consumed by the spatial
// engine: a positioned, optionally interactive item in world space with an
// optional visibility range and collapse target.
package element

import (
	"errors"
	"fmt"
	"math"

	"github.com/kmadk/spacegen/geom"
	"github.com/kmadk/spacegen/tier"
)

// Validation errors returned by Resolve.
var (
	ErrInvalidElement = errors.New("element: invalid element")
	ErrUnknownTier    = errors.New("element: unknown tier in visibility range")
	ErrKindMismatch   = errors.New("element: content does not match kind")
)

// Element is a SpatialElement. Position is the minimum corner of the
// element's world rectangle; Bounds extends it along +X and +Y. A zero
// Bounds makes the element point-like.
type Element struct {
	ID             string           `json:"id"`
	Kind           Kind             `json:"kind"`
	Position       geom.Point       `json:"position"`
	Bounds         geom.Size        `json:"bounds"`
	Visibility     *VisibilityRange `json:"visibility,omitempty"`
	CollapseTarget string           `json:"collapseTarget,omitempty"`
	SemanticData   map[string]any   `json:"semanticData,omitempty"`
	Content        Content          `json:"-"`
	Interactive    *Payload         `json:"interactive,omitempty"`

	behavior *Behavior
}

// Payload describes how to build the interactive overlay node of an element.
type Payload struct {
	Role  string            `json:"role,omitempty"`
	Label string            `json:"label,omitempty"`
	Z     *int              `json:"z,omitempty"`
	Attrs map[string]string `json:"attrs,omitempty"`
}

// ZOrder returns the payload's explicit z-order or the kind default.
func (p *Payload) ZOrder(b Behavior) int {
	if p != nil && p.Z != nil {
		return *p.Z
	}
	return b.Z
}

// Resolver looks up tiers by name. *tier.Classifier implements it.
type Resolver interface {
	Lookup(name string) (tier.Tier, bool)
}

// Resolve validates e and caches everything the per-frame path needs: the
// kind behavior and the tier ordinals of a tier-form visibility range. It
// must be called once before e enters the pipeline; the engine does this in
// AddElements.
func (e *Element) Resolve(r Resolver) error {
	if e.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidElement)
	}
	if !e.Kind.Valid() {
		return fmt.Errorf("%w: %s: %w", ErrInvalidElement, e.ID, ErrUnknownKind)
	}
	if e.Content != nil && e.Content.Kind() != e.Kind {
		return fmt.Errorf("%w: %s is %s, content is %s", ErrKindMismatch, e.ID, e.Kind, e.Content.Kind())
	}
	if !e.Position.IsFinite() || !e.Bounds.IsFinite() {
		return fmt.Errorf("%w: %s has non-finite geometry", ErrInvalidElement, e.ID)
	}
	if e.Bounds.Width < 0 || e.Bounds.Height < 0 {
		return fmt.Errorf("%w: %s has negative bounds", ErrInvalidElement, e.ID)
	}
	if e.Visibility != nil {
		if err := e.Visibility.resolve(r); err != nil {
			return fmt.Errorf("%s: %w", e.ID, err)
		}
	}
	b := behaviors[e.Kind]
	e.behavior = &b
	return nil
}

// Behavior returns the cached behavior, or a table lookup if Resolve has not
// run yet.
func (e *Element) Behavior() Behavior {
	if e.behavior != nil {
		return *e.behavior
	}
	return e.Kind.Behavior()
}

// Rect returns the world rectangle used for culling: the full bounds for
// bounds-aware kinds with non-zero bounds, the position alone otherwise.
func (e *Element) Rect() geom.Rect {
	if e.Bounds.IsZero() || !e.Behavior().BoundsAware {
		return geom.Rect{Min: e.Position, Max: e.Position}
	}
	return geom.RectFrom(e.Position, e.Bounds)
}

// Visible reports whether e is in range at lvl. Elements without a range
// are always visible.
func (e *Element) Visible(lvl tier.Level) bool {
	return e.Visibility == nil || e.Visibility.Contains(lvl)
}

// Semantic returns the semantic payload registered for the named tier.
func (e *Element) Semantic(tierName string) (any, bool) {
	v, ok := e.SemanticData[tierName]
	return v, ok
}

// Clone returns a copy of e with its own visibility range and cached state.
// SemanticData, Content and Interactive are shared.
func (e *Element) Clone() *Element {
	c := *e
	if e.Visibility != nil {
		v := *e.Visibility
		c.Visibility = &v
	}
	return &c
}

// VisibilityRange restricts the tiers or zooms at which an element renders
// individually. Build it with TierRange or ZoomRange.
//
// The tier form is inclusive on both ends; an empty name leaves that end
// open. The zoom form is [MinZoom, MaxZoom); MaxZoom 0 leaves it open.
type VisibilityRange struct {
	MinTier string  `json:"minTier,omitempty"`
	MaxTier string  `json:"maxTier,omitempty"`
	MinZoom float64 `json:"minZoom,omitempty"`
	MaxZoom float64 `json:"maxZoom,omitempty"`
	ByZoom  bool    `json:"byZoom,omitempty"`

	minIdx, maxIdx int
	resolved       bool
}

// TierRange returns a range over named tiers.
func TierRange(minTier, maxTier string) *VisibilityRange {
	return &VisibilityRange{MinTier: minTier, MaxTier: maxTier}
}

// ZoomRange returns a range over raw zoom values.
func ZoomRange(minZoom, maxZoom float64) *VisibilityRange {
	return &VisibilityRange{MinZoom: minZoom, MaxZoom: maxZoom, ByZoom: true}
}

func (v *VisibilityRange) resolve(r Resolver) error {
	if v.ByZoom {
		if math.IsNaN(v.MinZoom) || math.IsNaN(v.MaxZoom) || v.MinZoom < 0 ||
			(v.MaxZoom != 0 && v.MaxZoom < v.MinZoom) {
			return fmt.Errorf("%w: zoom range [%v, %v)", ErrInvalidElement, v.MinZoom, v.MaxZoom)
		}
		v.resolved = true
		return nil
	}
	v.minIdx, v.maxIdx = 0, math.MaxInt
	if v.MinTier != "" {
		t, ok := r.Lookup(v.MinTier)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownTier, v.MinTier)
		}
		v.minIdx = t.Index
	}
	if v.MaxTier != "" {
		t, ok := r.Lookup(v.MaxTier)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownTier, v.MaxTier)
		}
		v.maxIdx = t.Index
	}
	if v.minIdx > v.maxIdx {
		return fmt.Errorf("%w: tier range %s..%s is inverted", ErrInvalidElement, v.MinTier, v.MaxTier)
	}
	v.resolved = true
	return nil
}

// Contains reports whether lvl falls in the range. An unresolved tier-form
// range contains nothing.
func (v *VisibilityRange) Contains(lvl tier.Level) bool {
	if v.ByZoom {
		return lvl.Zoom >= v.MinZoom && (v.MaxZoom == 0 || lvl.Zoom < v.MaxZoom)
	}
	if !v.resolved {
		return false
	}
	return lvl.Index >= v.minIdx && lvl.Index <= v.maxIdx
}
