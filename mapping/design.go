package mapping

import (
	"log/slog"
	"strings"

	"github.com/kmadk/spacegen/element"
	"github.com/kmadk/spacegen/geom"
)

// DesignNode is one node of an external design tree. Trees from design tools
// may repeat nodes or contain cycles; every traversal in this package keeps a
// per-pass visited set and skips what it has already seen.
type DesignNode struct {
	ID       string
	Name     string
	Type     string
	Hidden   bool
	Box      *Box
	Children []*DesignNode
}

// Stats summarizes one traversal.
type Stats struct {
	Visited   int
	Boundable int
	// BoundsWarnings counts visible nodes excluded for lacking a usable box.
	BoundsWarnings int
	// Repeated counts nodes skipped because their id or pointer was seen
	// earlier in the same pass.
	Repeated int
	// Aggregate is the union of all boundable boxes in design space.
	Aggregate Box
}

// walk visits every visible node reachable from root exactly once, depth
// first in child order. Hidden nodes prune their subtree.
func walk(root *DesignNode, log *slog.Logger, visit func(*DesignNode)) Stats {
	var stats Stats
	if root == nil {
		return stats
	}
	seenPtr := make(map[*DesignNode]struct{})
	seenID := make(map[string]struct{})
	stack := []*DesignNode{root}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil {
			continue
		}
		if _, dup := seenPtr[n]; dup {
			stats.Repeated++
			log.Warn("mapping: design node revisited, skipping", "id", n.ID, "name", n.Name)
			continue
		}
		seenPtr[n] = struct{}{}
		if n.ID != "" {
			if _, dup := seenID[n.ID]; dup {
				stats.Repeated++
				log.Warn("mapping: duplicate design node id, skipping", "id", n.ID, "name", n.Name)
				continue
			}
			seenID[n.ID] = struct{}{}
		}
		if n.Hidden {
			continue
		}
		stats.Visited++
		visit(n)
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return stats
}

func usableBox(n *DesignNode) bool {
	return n.Box != nil && n.Box.IsFinite() && n.Box.Width >= 0 && n.Box.Height >= 0
}

// AggregateBounds returns the union of every visible, boundable box under
// root. ok is false when no node has a usable box.
func (m *Mapper) AggregateBounds(root *DesignNode) (stats Stats, ok bool) {
	agg := geom.EmptyRect()
	boundable, warnings := 0, 0
	stats = walk(root, m.log, func(n *DesignNode) {
		if !usableBox(n) {
			warnings++
			m.log.Debug("mapping: node has no usable bounds", "id", n.ID, "name", n.Name)
			return
		}
		boundable++
		agg = agg.Union(geom.RectFrom(geom.Point{X: n.Box.X, Y: n.Box.Y},
			geom.Size{Width: n.Box.Width, Height: n.Box.Height}))
	})
	stats.Boundable = boundable
	stats.BoundsWarnings = warnings
	if boundable == 0 {
		return stats, false
	}
	stats.Aggregate = Box{X: agg.Min.X, Y: agg.Min.Y, Width: agg.Width(), Height: agg.Height()}
	return stats, true
}

// ComputeOptimalMapping fits the design tree into world space: the larger
// aggregate dimension spans TargetSpan world units and the aggregate center
// lands on the world origin. When no node is boundable the mapper is left
// unchanged and ok is false. A zero-extent aggregate keeps the current scale.
func (m *Mapper) ComputeOptimalMapping(root *DesignNode) (stats Stats, ok bool) {
	stats, ok = m.AggregateBounds(root)
	if !ok {
		m.log.Debug("mapping: no boundable nodes, mapping unchanged", "visited", stats.Visited)
		return stats, false
	}

	cfg := m.cfg
	agg := stats.Aggregate
	if maxDim := max(agg.Width, agg.Height); maxDim > 0 {
		cfg.Scale = cfg.TargetSpan * cfg.BaseUnit / maxDim
	}
	u := cfg.Scale / cfg.BaseUnit
	cx, cy := agg.X+agg.Width/2, agg.Y+agg.Height/2
	cfg.Origin.X = -cx * u
	if cfg.FlipY {
		cfg.Origin.Y = cy * u
	} else {
		cfg.Origin.Y = -cy * u
	}
	m.cfg = cfg

	m.log.Debug("mapping: computed optimal mapping",
		"scale", cfg.Scale, "originX", cfg.Origin.X, "originY", cfg.Origin.Y,
		"boundable", stats.Boundable, "excluded", stats.BoundsWarnings)
	return stats, true
}

// KindFunc picks the element kind and content for a design node.
type KindFunc func(*DesignNode) (element.Kind, element.Content)

// DefaultKind maps common design-tool node types onto element kinds.
func DefaultKind(n *DesignNode) (element.Kind, element.Content) {
	switch strings.ToUpper(n.Type) {
	case "FRAME", "CANVAS", "SECTION":
		return element.KindFrame, element.FrameContent{Title: n.Name}
	case "TEXT":
		return element.KindText, element.TextContent{Text: n.Name}
	case "RECTANGLE", "ELLIPSE", "VECTOR", "LINE", "POLYGON", "STAR", "BOOLEAN_OPERATION":
		return element.KindShape, element.ShapeContent{Shape: strings.ToLower(n.Type)}
	case "IMAGE":
		return element.KindImage, element.ImageContent{Ref: n.ID}
	case "COMPONENT", "COMPONENT_SET", "INSTANCE":
		return element.KindComponent, element.ComponentContent{Name: n.Name}
	}
	return element.KindGroup, element.GroupContent{Name: n.Name}
}

// Flatten converts every visible node with an id and a usable box into a
// world-space element, in traversal order. kind may be nil for DefaultKind.
func (m *Mapper) Flatten(root *DesignNode, kind KindFunc) ([]*element.Element, Stats) {
	if kind == nil {
		kind = DefaultKind
	}
	var out []*element.Element
	stats := walk(root, m.log, func(n *DesignNode) {
		if n.ID == "" || !usableBox(n) {
			return
		}
		r := m.WorldRect(*n.Box)
		k, content := kind(n)
		out = append(out, &element.Element{
			ID:       n.ID,
			Kind:     k,
			Position: r.Min,
			Bounds:   geom.Size{Width: r.Width(), Height: r.Height()},
			Content:  content,
		})
	})
	stats.Boundable = len(out)
	return out, stats
}
