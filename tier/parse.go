package tier

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrSyntax is returned by ParseTable for malformed input.
var ErrSyntax = errors.New("tier: malformed threshold table")

// ParseTable parses "bound:name" pairs separated by commas, for example
//
//	0.1:quantum,0.5:atomic,2:standard,inf:system
//
// The bound "inf" (any case) denotes +Inf. The result is not validated;
// pass it to New.
func ParseTable(s string) ([]Threshold, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptyTable
	}
	parts := strings.Split(s, ",")
	out := make([]Threshold, 0, len(parts))
	for _, part := range parts {
		bound, name, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("%w: %q lacks ':'", ErrSyntax, part)
		}
		bound = strings.TrimSpace(bound)
		var v float64
		if strings.EqualFold(bound, "inf") || bound == "∞" {
			v = math.Inf(1)
		} else {
			var err error
			v, err = strconv.ParseFloat(bound, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bound %q: %v", ErrSyntax, bound, err)
			}
		}
		out = append(out, Threshold{Below: v, Name: strings.TrimSpace(name)})
	}
	return out, nil
}

// String formats a table in the ParseTable syntax.
func String(table []Threshold) string {
	var b strings.Builder
	for i, th := range table {
		if i > 0 {
			b.WriteByte(',')
		}
		if math.IsInf(th.Below, 1) {
			b.WriteString("inf")
		} else {
			b.WriteString(strconv.FormatFloat(th.Below, 'g', -1, 64))
		}
		b.WriteByte(':')
		b.WriteString(th.Name)
	}
	return b.String()
}
