// Copyright 2026 The spacegen Authors
// SPDX-License-Identifier: BSD-3-Clause

package overlay

import (
	"github.com/kmadk/spacegen/element"
	"github.com/kmadk/spacegen/geom"
)

// Node is a live interactive node owned by Sync. Implementations wrap
// whatever the host renders overlays with.
type Node interface {
	// SetTransform positions the node with one combined translate+scale
	// matrix in container pixels.
	SetTransform(m geom.Matrix)

	// SetHidden toggles visibility without detaching.
	SetHidden(hidden bool)

	// SetPointerEvents enables or disables pointer interaction.
	SetPointerEvents(enabled bool)

	// Update applies a changed payload in place.
	Update(p *element.Payload) error

	// Destroy releases the node. Sync calls it exactly once.
	Destroy()
}

// Factory builds a node from an element's interactive payload.
type Factory interface {
	Build(el *element.Element) (Node, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(el *element.Element) (Node, error)

// Build calls f(el).
func (f FactoryFunc) Build(el *element.Element) (Node, error) { return f(el) }

// Region is the overlay container layered above the draw surface.
type Region interface {
	// Attach inserts n at z-order z. Higher z renders on top.
	Attach(n Node, z int) error

	// Detach removes n. Detaching an unknown node is a no-op.
	Detach(n Node)

	// SetPointerEvents toggles pointer interaction for the region itself.
	// Sync disables it at construction and enables it per node instead.
	SetPointerEvents(enabled bool)
}

// State is the lifecycle state of an overlay node.
type State uint8

const (
	StateDetached State = iota
	StateVisible
	StateHidden
)

func (s State) String() string {
	switch s {
	case StateVisible:
		return "visible"
	case StateHidden:
		return "hidden"
	}
	return "detached"
}
