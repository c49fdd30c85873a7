// Copyright 2026 The spacegen Authors
// SPDX-License-Identifier: BSD-3-Clause

package overlay

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/kmadk/spacegen/element"
	"github.com/kmadk/spacegen/geom"
)

// HeadlessRegion is an in-memory Region. Nodes are kept in ascending
// z-order, stable by attach sequence within one z.
//
// It is used by the demo host and tests; it is safe for concurrent use.
type HeadlessRegion struct {
	mu       sync.Mutex
	entries  map[Node]entry
	order    []Node // Cached render order, nil when stale
	seq      int
	pointers bool
}

type entry struct {
	z   int
	seq int
}

// NewHeadlessRegion creates an empty region with pointer events enabled.
func NewHeadlessRegion() *HeadlessRegion {
	return &HeadlessRegion{
		entries:  make(map[Node]entry),
		pointers: true,
	}
}

// Attach inserts n at z. Attaching the same node twice is an error.
func (r *HeadlessRegion) Attach(n Node, z int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n == nil {
		return ErrNilNode
	}
	if _, exists := r.entries[n]; exists {
		return fmt.Errorf("overlay: node already attached at z=%d", r.entries[n].z)
	}
	r.seq++
	r.entries[n] = entry{z: z, seq: r.seq}
	r.order = nil
	return nil
}

// Detach removes n if present.
func (r *HeadlessRegion) Detach(n Node) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[n]; exists {
		delete(r.entries, n)
		r.order = nil
	}
}

// SetPointerEvents toggles region-level pointer events.
func (r *HeadlessRegion) SetPointerEvents(enabled bool) {
	r.mu.Lock()
	r.pointers = enabled
	r.mu.Unlock()
}

// PointerEvents reports whether the region itself receives pointer events.
func (r *HeadlessRegion) PointerEvents() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pointers
}

// Len returns the number of attached nodes.
func (r *HeadlessRegion) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Nodes returns the attached nodes in render order (ascending z).
func (r *HeadlessRegion) Nodes() []Node {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.order == nil {
		r.order = make([]Node, 0, len(r.entries))
		for n := range r.entries {
			r.order = append(r.order, n)
		}
		slices.SortFunc(r.order, func(a, b Node) int {
			ea, eb := r.entries[a], r.entries[b]
			if c := cmp.Compare(ea.z, eb.z); c != 0 {
				return c
			}
			return cmp.Compare(ea.seq, eb.seq)
		})
	}
	return slices.Clone(r.order)
}

// HeadlessNode records every call Sync makes on it.
type HeadlessNode struct {
	ID        string
	Role      string
	Label     string
	Transform geom.Matrix
	Hidden    bool
	Pointer   bool
	Updates   int
	Destroyed int
}

func (n *HeadlessNode) SetTransform(m geom.Matrix)    { n.Transform = m }
func (n *HeadlessNode) SetHidden(hidden bool)         { n.Hidden = hidden }
func (n *HeadlessNode) SetPointerEvents(enabled bool) { n.Pointer = enabled }
func (n *HeadlessNode) Destroy()                      { n.Destroyed++ }

// Update copies the payload's role and label.
func (n *HeadlessNode) Update(p *element.Payload) error {
	if p == nil {
		return errors.New("overlay: nil payload")
	}
	n.Role, n.Label = p.Role, p.Label
	n.Updates++
	return nil
}

// HeadlessFactory builds HeadlessNodes. If Fail is set and returns a non-nil
// error for an element, Build returns that error instead.
type HeadlessFactory struct {
	Fail func(el *element.Element) error

	mu    sync.Mutex
	built map[string]*HeadlessNode
}

// Build creates a HeadlessNode for el.
func (f *HeadlessFactory) Build(el *element.Element) (Node, error) {
	if f.Fail != nil {
		if err := f.Fail(el); err != nil {
			return nil, err
		}
	}
	n := &HeadlessNode{ID: el.ID}
	if err := n.Update(el.Interactive); err != nil {
		return nil, err
	}
	n.Updates = 0

	f.mu.Lock()
	if f.built == nil {
		f.built = make(map[string]*HeadlessNode)
	}
	f.built[el.ID] = n
	f.mu.Unlock()
	return n, nil
}

// Node returns the most recent node built for id.
func (f *HeadlessFactory) Node(id string) *HeadlessNode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.built[id]
}
