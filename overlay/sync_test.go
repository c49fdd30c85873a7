// Copyright 2026 The spacegen Authors
// SPDX-License-Identifier: BSD-3-Clause

package overlay

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/kmadk/spacegen/element"
	"github.com/kmadk/spacegen/geom"
)

type idSet map[string]bool

func (s idSet) Contains(id string) bool { return s[id] }

func interactive(id string, x, y float64) *element.Element {
	return &element.Element{
		ID:          id,
		Kind:        element.KindComponent,
		Position:    geom.Pt(x, y),
		Interactive: &element.Payload{Role: "button", Label: id},
	}
}

func newTestSync(t *testing.T, f *HeadlessFactory) (*Sync, *HeadlessRegion) {
	t.Helper()
	region := NewHeadlessRegion()
	n := 0
	s := NewSync(region, f, WithHandles(func() uuid.UUID {
		n++
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte{byte(n)})
	}))
	return s, region
}

func TestNewSyncDisablesRegionPointerEvents(t *testing.T) {
	s, region := newTestSync(t, &HeadlessFactory{})
	defer s.Close()
	if region.PointerEvents() {
		t.Error("region pointer events enabled after NewSync")
	}
}

func TestAddElementsIdempotent(t *testing.T) {
	f := &HeadlessFactory{}
	s, region := newTestSync(t, f)
	defer s.Close()

	el := interactive("b", 10, 20)
	r1, err := s.AddElements([]*element.Element{el})
	if err != nil {
		t.Fatal(err)
	}
	r2, err := s.AddElements([]*element.Element{el})
	if err != nil {
		t.Fatal(err)
	}
	if r1.Attached != 1 || r2.Attached != 0 || r2.Updated != 1 {
		t.Errorf("reports = %+v, %+v", r1, r2)
	}
	if got := region.Len(); got != 1 {
		t.Errorf("region.Len() = %d, want 1", got)
	}
	if got := s.Counts().Attached; got != 1 {
		t.Errorf("Attached = %d, want 1", got)
	}
	n := f.Node("b")
	if !n.Pointer {
		t.Error("node pointer events not enabled")
	}
	if !n.Hidden {
		t.Error("new node should start hidden")
	}
	if n.Updates != 1 {
		t.Errorf("Updates = %d, want 1", n.Updates)
	}
}

func TestAddElementsSkipsNonInteractive(t *testing.T) {
	s, region := newTestSync(t, &HeadlessFactory{})
	defer s.Close()

	el := interactive("a", 0, 0)
	el.Interactive = nil
	r, err := s.AddElements([]*element.Element{el})
	if err != nil {
		t.Fatal(err)
	}
	if r.Attached != 0 || region.Len() != 0 {
		t.Errorf("report = %+v, region = %d", r, region.Len())
	}
}

func TestAddElementsPayloadRemovedDetaches(t *testing.T) {
	f := &HeadlessFactory{}
	s, region := newTestSync(t, f)
	defer s.Close()

	el := interactive("a", 0, 0)
	s.AddElements([]*element.Element{el})
	bare := el.Clone()
	bare.Interactive = nil
	r, _ := s.AddElements([]*element.Element{bare})
	if r.Detached != 1 {
		t.Errorf("Detached = %d, want 1", r.Detached)
	}
	if region.Len() != 0 {
		t.Errorf("region.Len() = %d, want 0", region.Len())
	}
	if got := f.Node("a").Destroyed; got != 1 {
		t.Errorf("Destroyed = %d, want 1", got)
	}
}

func TestAddElementsFailureIsolation(t *testing.T) {
	boom := errors.New("boom")
	f := &HeadlessFactory{Fail: func(el *element.Element) error {
		switch el.ID {
		case "bad":
			return boom
		case "panic":
			panic("factory exploded")
		}
		return nil
	}}
	s, _ := newTestSync(t, f)
	defer s.Close()

	els := []*element.Element{
		interactive("a", 0, 0),
		interactive("bad", 0, 0),
		interactive("panic", 0, 0),
		interactive("c", 0, 0),
	}
	r, err := s.AddElements(els)
	if err != nil {
		t.Fatal(err)
	}
	if r.Attached != 2 {
		t.Errorf("Attached = %d, want 2", r.Attached)
	}
	if len(r.Failures) != 2 {
		t.Fatalf("len(Failures) = %d, want 2", len(r.Failures))
	}
	if !errors.Is(r.Failures[0], boom) || r.Failures[0].ID != "bad" {
		t.Errorf("Failures[0] = %v", r.Failures[0])
	}
	var nerr *NodeConstructionError
	if !errors.As(r.Failures[1], &nerr) || !errors.Is(nerr, ErrPanic) || nerr.ID != "panic" {
		t.Errorf("Failures[1] = %v", r.Failures[1])
	}
	if got := s.Counts().Failures; got != 2 {
		t.Errorf("Counts().Failures = %d, want 2", got)
	}
}

func TestNilNodeIsFailure(t *testing.T) {
	s := NewSync(NewHeadlessRegion(), FactoryFunc(func(*element.Element) (Node, error) { return nil, nil }))
	defer s.Close()
	r, _ := s.AddElements([]*element.Element{interactive("a", 0, 0)})
	if len(r.Failures) != 1 || !errors.Is(r.Failures[0], ErrNilNode) {
		t.Errorf("Failures = %v, want ErrNilNode", r.Failures)
	}
}

func TestRemoveElements(t *testing.T) {
	f := &HeadlessFactory{}
	s, region := newTestSync(t, f)
	defer s.Close()

	s.AddElements([]*element.Element{interactive("a", 0, 0), interactive("b", 0, 0)})
	if got := s.RemoveElements([]string{"a", "missing"}); got != 1 {
		t.Errorf("RemoveElements() = %d, want 1", got)
	}
	if got := s.RemoveElements([]string{"a"}); got != 0 {
		t.Errorf("second RemoveElements() = %d, want 0", got)
	}
	if region.Len() != 1 {
		t.Errorf("region.Len() = %d, want 1", region.Len())
	}
	if got := f.Node("a").Destroyed; got != 1 {
		t.Errorf("Destroyed = %d, want 1", got)
	}
}

func TestUpdateTransform(t *testing.T) {
	f := &HeadlessFactory{}
	s, _ := newTestSync(t, f)
	defer s.Close()

	s.AddElements([]*element.Element{interactive("a", 10, 20), interactive("b", 0, 0)})
	v := geom.ViewState{X: 0, Y: 0, Zoom: 2, Width: 800, Height: 600}

	r := s.UpdateTransform(v, idSet{"a": true})
	if r.Written != 1 || r.Shown != 1 || r.Hidden != 0 {
		t.Errorf("first update = %+v", r)
	}
	a := f.Node("a")
	if a.Hidden {
		t.Error("a hidden, want visible")
	}
	want := geom.TranslateScale(420, 340, 2)
	if a.Transform != want {
		t.Errorf("a.Transform = %v, want %v", a.Transform, want)
	}
	if !f.Node("b").Hidden {
		t.Error("b visible, want hidden")
	}

	// Unchanged view writes nothing.
	r = s.UpdateTransform(v, idSet{"a": true})
	if r != (UpdateReport{}) {
		t.Errorf("repeat update = %+v, want zero", r)
	}

	// a leaves the set, b enters.
	r = s.UpdateTransform(v, idSet{"b": true})
	if r.Hidden != 1 || r.Shown != 1 || r.Written != 1 {
		t.Errorf("swap update = %+v", r)
	}
	c := s.Counts()
	if c.Visible != 1 || c.Hidden != 1 || c.Attached != 2 {
		t.Errorf("Counts() = %+v", c)
	}
	if info, _ := s.Lookup("b"); info.State != StateVisible || info.Screen != geom.Pt(400, 300) {
		t.Errorf("Lookup(b) = %+v", info)
	}
}

func TestUpdateMovesNode(t *testing.T) {
	f := &HeadlessFactory{}
	s, _ := newTestSync(t, f)
	defer s.Close()

	el := interactive("a", 0, 0)
	s.AddElements([]*element.Element{el})
	v := geom.ViewState{Zoom: 1, Width: 100, Height: 100}
	s.UpdateTransform(v, idSet{"a": true})

	moved := el.Clone()
	moved.Position = geom.Pt(10, 0)
	s.AddElements([]*element.Element{moved})
	if r := s.UpdateTransform(v, idSet{"a": true}); r.Written != 1 {
		t.Errorf("Written = %d, want 1", r.Written)
	}
	if got := f.Node("a").Transform; got != geom.TranslateScale(60, 50, 1) {
		t.Errorf("Transform = %v", got)
	}
}

// rejectingNode accepts its first payload at build time and rejects every
// later update.
type rejectingNode struct {
	*HeadlessNode
}

var errRejected = errors.New("update rejected")

func (n rejectingNode) Update(*element.Payload) error { return errRejected }

func TestFailedUpdateStillFollowsPosition(t *testing.T) {
	var node *HeadlessNode
	s := NewSync(NewHeadlessRegion(), FactoryFunc(func(el *element.Element) (Node, error) {
		node = &HeadlessNode{ID: el.ID}
		return rejectingNode{node}, nil
	}))
	defer s.Close()

	el := interactive("a", 0, 0)
	if _, err := s.AddElements([]*element.Element{el}); err != nil {
		t.Fatal(err)
	}
	v := geom.ViewState{Zoom: 1, Width: 400, Height: 400}
	s.UpdateTransform(v, idSet{"a": true})

	moved := el.Clone()
	moved.Position = geom.Pt(100, 100)
	rep, err := s.AddElements([]*element.Element{moved})
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Failures) != 1 || !errors.Is(rep.Failures[0], errRejected) {
		t.Fatalf("Failures = %v, want one rejected update", rep.Failures)
	}

	if r := s.UpdateTransform(v, idSet{"a": true}); r.Written != 1 {
		t.Errorf("Written = %d, want 1", r.Written)
	}
	if got, want := node.Transform, geom.TranslateScale(300, 300, 1); got != want {
		t.Errorf("Transform = %v, want %v", got, want)
	}
	if s.Counts().Failures != 1 {
		t.Errorf("Failures = %d, want 1", s.Counts().Failures)
	}
}

func TestRecordsOrderedByZ(t *testing.T) {
	s, region := newTestSync(t, &HeadlessFactory{})
	defer s.Close()

	hi, lo := 9, -1
	a := interactive("a", 0, 0)
	a.Interactive.Z = &hi
	b := interactive("b", 0, 0)
	c := interactive("c", 0, 0)
	c.Interactive.Z = &lo
	s.AddElements([]*element.Element{a, b, c})

	var ids []string
	for _, info := range s.Records() {
		ids = append(ids, info.ID)
	}
	if len(ids) != 3 || ids[0] != "c" || ids[1] != "b" || ids[2] != "a" {
		t.Errorf("Records() order = %v, want [c b a]", ids)
	}
	nodes := region.Nodes()
	if nodes[0].(*HeadlessNode).ID != "c" || nodes[2].(*HeadlessNode).ID != "a" {
		t.Error("region render order does not follow z")
	}

	// Changing z re-attaches.
	b2 := b.Clone()
	top := 20
	b2.Interactive = &element.Payload{Role: "button", Z: &top}
	s.AddElements([]*element.Element{b2})
	if info, _ := s.Lookup("b"); info.Z != 20 {
		t.Errorf("Z = %d, want 20", info.Z)
	}
	if last := region.Nodes()[2].(*HeadlessNode); last.ID != "b" {
		t.Errorf("top node = %s, want b", last.ID)
	}
}

func TestHandlesUnique(t *testing.T) {
	s := NewSync(NewHeadlessRegion(), &HeadlessFactory{})
	defer s.Close()
	s.AddElements([]*element.Element{interactive("a", 0, 0), interactive("b", 0, 0)})
	a, _ := s.Lookup("a")
	b, _ := s.Lookup("b")
	if a.Handle == uuid.Nil || a.Handle == b.Handle {
		t.Errorf("handles = %v, %v", a.Handle, b.Handle)
	}
}

func TestCloseDestroysOnce(t *testing.T) {
	f := &HeadlessFactory{}
	s, region := newTestSync(t, f)

	s.AddElements([]*element.Element{interactive("a", 0, 0), interactive("b", 0, 0)})
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"a", "b"} {
		if got := f.Node(id).Destroyed; got != 1 {
			t.Errorf("%s destroyed %d times, want 1", id, got)
		}
	}
	if region.Len() != 0 {
		t.Errorf("region.Len() = %d after Close", region.Len())
	}
	if _, err := s.AddElements([]*element.Element{interactive("c", 0, 0)}); !errors.Is(err, ErrClosed) {
		t.Errorf("AddElements after Close err = %v, want ErrClosed", err)
	}
	if got := s.Counts().Attached; got != 0 {
		t.Errorf("Attached = %d, want 0", got)
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{StateDetached, "detached"},
		{StateVisible, "visible"},
		{StateHidden, "hidden"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}
