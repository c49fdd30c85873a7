// Copyright 2026 The spacegen Authors
// SPDX-License-Identifier: BSD-3-Clause

package overlay

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/kmadk/spacegen/element"
	"github.com/kmadk/spacegen/geom"
	"github.com/kmadk/spacegen/internal/logx"
	"github.com/kmadk/spacegen/mapping"
)

// Record is the bookkeeping for one attached node (an OverlayNode).
type Record struct {
	ID     string
	Handle uuid.UUID
	Node   Node
	Z      int
	// World is the element position the node follows.
	World geom.Point
	// Screen and Scale are the last transform written to the node.
	Screen geom.Point
	Scale  float64
	State  State

	written bool
}

// Info is a read-only copy of a Record for introspection.
type Info struct {
	ID     string
	Handle uuid.UUID
	Z      int
	Screen geom.Point
	Scale  float64
	State  State
}

// Counts summarizes the attached nodes.
type Counts struct {
	Attached int
	Visible  int
	Hidden   int
	// Failures is the lifetime number of NodeConstructionErrors.
	Failures int
}

// AddReport describes the outcome of one AddElements batch.
type AddReport struct {
	Attached int
	Updated  int
	Detached int
	Failures []*NodeConstructionError
}

// UpdateReport describes the outcome of one UpdateTransform pass.
type UpdateReport struct {
	// Written counts SetTransform calls.
	Written int
	Shown   int
	Hidden  int
}

// Visibility answers whether an element id is in the current renderable set.
type Visibility interface {
	Contains(id string) bool
}

// Option configures a Sync.
type Option func(*Sync)

// WithLogger sets the logger for construction failures and lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sync) { s.log = logx.OrNop(l) }
}

// WithHandles overrides the node handle source. Handles default to random
// UUIDs.
func WithHandles(next func() uuid.UUID) Option {
	return func(s *Sync) {
		if next != nil {
			s.handle = next
		}
	}
}

// Sync is the DualRenderSync: it owns the overlay nodes of a Region.
type Sync struct {
	region  Region
	factory Factory
	nodes   map[string]*Record
	log     *slog.Logger
	handle  func() uuid.UUID

	failures int
	closed   bool
}

// NewSync creates a Sync over region. Pointer events are disabled on the
// region and enabled on each attached node.
func NewSync(region Region, factory Factory, opts ...Option) *Sync {
	s := &Sync{
		region:  region,
		factory: factory,
		nodes:   make(map[string]*Record),
		log:     logx.Nop(),
		handle:  uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	region.SetPointerEvents(false)
	return s
}

// AddElements attaches one node per element with an interactive payload.
// Re-adding an attached id updates the node in place; re-adding it without a
// payload detaches it. Per-element failures are collected in the report and
// never stop the batch.
func (s *Sync) AddElements(els []*element.Element) (AddReport, error) {
	var report AddReport
	if s.closed {
		return report, ErrClosed
	}
	for _, el := range els {
		rec, exists := s.nodes[el.ID]
		switch {
		case el.Interactive == nil && exists:
			s.destroy(rec)
			report.Detached++
		case el.Interactive == nil:
		case exists:
			if err := s.update(rec, el); err != nil {
				report.Failures = append(report.Failures, s.fail(el.ID, "update", err))
				continue
			}
			report.Updated++
		default:
			if err := s.attach(el); err != nil {
				report.Failures = append(report.Failures, s.fail(el.ID, "build", err))
				continue
			}
			report.Attached++
		}
	}
	return report, nil
}

// RemoveElements detaches and destroys the nodes for ids. Ids without a node
// are ignored. It returns the number of nodes destroyed.
func (s *Sync) RemoveElements(ids []string) int {
	n := 0
	for _, id := range ids {
		if rec, ok := s.nodes[id]; ok {
			s.destroy(rec)
			n++
		}
	}
	return n
}

// UpdateTransform positions every node in visible and hides the rest. The
// transform is the world-to-screen mapping of the node's element position
// combined with the view zoom, written only when it differs from the last
// write. Hidden nodes are not repositioned until they become visible.
func (s *Sync) UpdateTransform(v geom.ViewState, visible Visibility) UpdateReport {
	var report UpdateReport
	for _, rec := range s.nodes {
		if !visible.Contains(rec.ID) {
			if rec.State != StateHidden {
				rec.Node.SetHidden(true)
				rec.State = StateHidden
				report.Hidden++
			}
			continue
		}

		screen := mapping.WorldToScreen(rec.World, v)
		if !rec.written || screen != rec.Screen || v.Zoom != rec.Scale {
			rec.Node.SetTransform(geom.TranslateScale(screen.X, screen.Y, v.Zoom))
			rec.Screen, rec.Scale, rec.written = screen, v.Zoom, true
			report.Written++
		}
		if rec.State != StateVisible {
			rec.Node.SetHidden(false)
			rec.State = StateVisible
			report.Shown++
		}
	}
	return report
}

// Counts returns the current node counts.
func (s *Sync) Counts() Counts {
	c := Counts{Attached: len(s.nodes), Failures: s.failures}
	for _, rec := range s.nodes {
		switch rec.State {
		case StateVisible:
			c.Visible++
		case StateHidden:
			c.Hidden++
		}
	}
	return c
}

// Lookup returns the record for id.
func (s *Sync) Lookup(id string) (Info, bool) {
	rec, ok := s.nodes[id]
	if !ok {
		return Info{}, false
	}
	return rec.info(), true
}

// Records returns every attached node ordered by z, then id.
func (s *Sync) Records() []Info {
	out := make([]Info, 0, len(s.nodes))
	for _, rec := range s.nodes {
		out = append(out, rec.info())
	}
	slices.SortFunc(out, func(a, b Info) int {
		if c := cmp.Compare(a.Z, b.Z); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// Close destroys every node exactly once. Further calls are no-ops.
func (s *Sync) Close() error {
	if s.closed {
		return nil
	}
	for _, rec := range s.nodes {
		s.destroy(rec)
	}
	s.closed = true
	s.log.Debug("overlay: sync closed")
	return nil
}

func (s *Sync) attach(el *element.Element) error {
	node, err := s.build(el)
	if err != nil {
		return err
	}
	z := el.Interactive.ZOrder(el.Behavior())
	if err := guard(func() error { return s.region.Attach(node, z) }); err != nil {
		guardDestroy(node, s.log, el.ID)
		return err
	}
	node.SetPointerEvents(true)
	node.SetHidden(true)
	s.nodes[el.ID] = &Record{
		ID:     el.ID,
		Handle: s.handle(),
		Node:   node,
		Z:      z,
		World:  el.Position,
		State:  StateHidden,
	}
	return nil
}

// update follows el's position even when the payload update fails, so the
// node never drifts from the draw surface.
func (s *Sync) update(rec *Record, el *element.Element) error {
	if el.Position != rec.World {
		rec.World = el.Position
		rec.written = false
	}
	if err := guard(func() error { return rec.Node.Update(el.Interactive) }); err != nil {
		return err
	}
	if z := el.Interactive.ZOrder(el.Behavior()); z != rec.Z {
		s.region.Detach(rec.Node)
		if err := guard(func() error { return s.region.Attach(rec.Node, z) }); err != nil {
			// The node is no longer in the region; drop the record entirely.
			guardDestroy(rec.Node, s.log, rec.ID)
			delete(s.nodes, rec.ID)
			return err
		}
		rec.Z = z
	}
	return nil
}

func (s *Sync) build(el *element.Element) (node Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			node, err = nil, fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	node, err = s.factory.Build(el)
	if err == nil && node == nil {
		err = ErrNilNode
	}
	return node, err
}

func (s *Sync) destroy(rec *Record) {
	s.region.Detach(rec.Node)
	guardDestroy(rec.Node, s.log, rec.ID)
	rec.State = StateDetached
	delete(s.nodes, rec.ID)
}

func (s *Sync) fail(id, op string, err error) *NodeConstructionError {
	s.failures++
	nerr := &NodeConstructionError{ID: id, Op: op, Err: err}
	s.log.Warn("overlay: node construction failed", "id", id, "op", op, "err", err)
	return nerr
}

func (r *Record) info() Info {
	return Info{ID: r.ID, Handle: r.Handle, Z: r.Z, Screen: r.Screen, Scale: r.Scale, State: r.State}
}

func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return fn()
}

func guardDestroy(n Node, log *slog.Logger, id string) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("overlay: node destroy panicked", "id", id, "panic", r)
		}
	}()
	n.Destroy()
}
