// Package lod reduces an element set to what should render individually at
// a semantic tier, substituting shared summaries for out-of-range elements.
package lod

import (
	"github.com/kmadk/spacegen/element"
	"github.com/kmadk/spacegen/tier"
)

// Stats counts the outcome of one Collapse pass.
type Stats struct {
	// Kept elements rendered as themselves.
	Kept int
	// Collapsed elements replaced by a summary.
	Collapsed int
	// Summaries emitted on behalf of collapsed elements.
	Summaries int
	// Dropped elements with neither range membership nor a resolvable target.
	Dropped int
}

// Collapse returns the elements to render at lvl, in first-seen order:
//
//  1. elements without a visibility range are kept;
//  2. elements whose range contains lvl are kept;
//  3. out-of-range elements whose collapse target exists in elements emit
//     that target, at most once per target;
//  4. everything else is dropped. No summary is ever fabricated.
//
// Every id appears at most once in the output. The input is not modified.
func Collapse(elements []*element.Element, lvl tier.Level) []*element.Element {
	out, _ := CollapseWithStats(elements, lvl)
	return out
}

// CollapseWithStats is Collapse plus outcome counters.
func CollapseWithStats(elements []*element.Element, lvl tier.Level) ([]*element.Element, Stats) {
	var stats Stats
	if len(elements) == 0 {
		return nil, stats
	}

	byID := make(map[string]*element.Element, len(elements))
	for _, el := range elements {
		if _, dup := byID[el.ID]; !dup {
			byID[el.ID] = el
		}
	}

	out := make([]*element.Element, 0, len(elements))
	seen := make(map[string]struct{}, len(elements))
	emit := func(el *element.Element) bool {
		if _, dup := seen[el.ID]; dup {
			return false
		}
		seen[el.ID] = struct{}{}
		out = append(out, el)
		return true
	}

	for _, el := range elements {
		if el.Visible(lvl) {
			stats.Kept++
			emit(el)
			continue
		}
		if el.CollapseTarget == "" {
			stats.Dropped++
			continue
		}
		target, ok := byID[el.CollapseTarget]
		if !ok || target.ID == el.ID {
			stats.Dropped++
			continue
		}
		stats.Collapsed++
		if emit(target) {
			stats.Summaries++
		}
	}
	return out, stats
}
