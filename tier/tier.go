// Package tier classifies a continuous zoom factor into a discrete, ordered
// semantic tier using a caller-supplied threshold table.
//
// A table is a list of (upper bound exclusive, name) pairs evaluated in
// ascending order; the final entry catches every remaining zoom. The number
// of tiers and their names are data, the classifier assumes neither.
package tier

import (
	"errors"
	"fmt"
	"math"
)

// Configuration errors returned by New.
var (
	// ErrEmptyTable is returned for a table without entries.
	ErrEmptyTable = errors.New("tier: empty threshold table")

	// ErrUnorderedTable is returned when bounds are not strictly increasing.
	ErrUnorderedTable = errors.New("tier: threshold bounds are not strictly increasing")

	// ErrInvalidName is returned for empty or duplicate tier names.
	ErrInvalidName = errors.New("tier: invalid tier name")
)

// Threshold is one row of the table: zooms strictly below Below map to Name
// unless an earlier row already matched.
type Threshold struct {
	Below float64
	Name  string
}

// Tier is a classified level. Index is the ordinal position in the table,
// so comparing tiers is comparing indices.
type Tier struct {
	Index int
	Name  string
}

// Less reports whether t is a lower (more zoomed-out) tier than u.
func (t Tier) Less(u Tier) bool { return t.Index < u.Index }

func (t Tier) String() string { return t.Name }

// Level pairs a tier with the zoom that produced it. Consumers that filter
// by zoom ranges rather than tier ranges read Zoom.
type Level struct {
	Tier
	Zoom float64
}

// Classifier maps zoom to Tier. It is immutable after New and safe to share.
type Classifier struct {
	table  []Threshold
	byName map[string]int
}

// New validates table and returns a classifier over a copy of it.
func New(table []Threshold) (*Classifier, error) {
	if len(table) == 0 {
		return nil, ErrEmptyTable
	}
	c := &Classifier{
		table:  make([]Threshold, len(table)),
		byName: make(map[string]int, len(table)),
	}
	copy(c.table, table)

	for i, th := range c.table {
		if th.Name == "" {
			return nil, fmt.Errorf("%w: entry %d has no name", ErrInvalidName, i)
		}
		if _, dup := c.byName[th.Name]; dup {
			return nil, fmt.Errorf("%w: %q appears twice", ErrInvalidName, th.Name)
		}
		c.byName[th.Name] = i

		if math.IsNaN(th.Below) {
			return nil, fmt.Errorf("%w: entry %d (%s) bound is NaN", ErrUnorderedTable, i, th.Name)
		}
		if i > 0 && !(th.Below > c.table[i-1].Below) {
			return nil, fmt.Errorf("%w: entry %d (%s) bound %v <= %v",
				ErrUnorderedTable, i, th.Name, th.Below, c.table[i-1].Below)
		}
	}
	return c, nil
}

// MustNew is like New but panics on error.
// Use only for tables that are program constants.
func MustNew(table []Threshold) *Classifier {
	c, err := New(table)
	if err != nil {
		panic(err)
	}
	return c
}

// Classify returns the tier for zoom. The first row whose bound exceeds zoom
// wins; zooms beyond every bound fall into the last row.
func (c *Classifier) Classify(zoom float64) Tier {
	last := len(c.table) - 1
	for i := 0; i < last; i++ {
		if zoom < c.table[i].Below {
			return Tier{Index: i, Name: c.table[i].Name}
		}
	}
	return Tier{Index: last, Name: c.table[last].Name}
}

// Level classifies zoom and keeps the zoom alongside the tier.
func (c *Classifier) Level(zoom float64) Level {
	return Level{Tier: c.Classify(zoom), Zoom: zoom}
}

// Lookup resolves a tier by name.
func (c *Classifier) Lookup(name string) (Tier, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Tier{}, false
	}
	return Tier{Index: i, Name: name}, true
}

// Len returns the number of tiers.
func (c *Classifier) Len() int { return len(c.table) }

// Tiers returns every tier in ascending order.
func (c *Classifier) Tiers() []Tier {
	out := make([]Tier, len(c.table))
	for i, th := range c.table {
		out[i] = Tier{Index: i, Name: th.Name}
	}
	return out
}

// Table returns a copy of the threshold table.
func (c *Classifier) Table() []Threshold {
	out := make([]Threshold, len(c.table))
	copy(out, c.table)
	return out
}

// Distance returns the signed number of tiers between a and b.
func Distance(a, b Tier) int {
	return b.Index - a.Index
}

// ZoomLevel maps zoom onto a continuous log2 scale: every doubling of zoom
// adds one.
func ZoomLevel(zoom float64) float64 {
	return math.Log2(zoom)
}

// ZoomDistance returns how many zoom doublings separate from and to.
// Negative values mean zooming out.
func ZoomDistance(from, to float64) float64 {
	return math.Log2(to / from)
}
