// Package positions implements sets of half-open character ranges over a
// text. A Set keeps its selectors sorted and non-overlapping, merging
// neighbors that touch, so that the selection and consolidation algorithms
// can treat it as a canonical union of spans.
package positions

import (
	"fmt"
	"sort"
	"strings"
)

// EndOfText is a sentinel end offset meaning "through the end of the text".
// Any selector whose End is at or beyond this value is clamped to the
// length of the text it is resolved against.
const EndOfText = 1<<31 - 1

// Selector is a half-open range [Start, End) of character offsets.
type Selector struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// NewSelector validates and returns a Selector. A negative start, a negative
// end, or an end at or before the start is rejected; End == 0 is shorthand
// for EndOfText.
func NewSelector(start, end int) (Selector, error) {
	if end == 0 {
		end = EndOfText
	}
	if start < 0 {
		return Selector{}, &InvalidPositionError{Start: start, End: end, Reason: "start is negative"}
	}
	if end <= start {
		return Selector{}, &InvalidPositionError{Start: start, End: end, Reason: "end is not after start"}
	}
	return Selector{Start: start, End: end}, nil
}

// InvalidPositionError reports a selector that does not describe a valid
// half-open range.
type InvalidPositionError struct {
	Start  int
	End    int
	Reason string
}

func (e *InvalidPositionError) Error() string {
	return fmt.Sprintf("invalid position selector [%d, %d): %s", e.Start, e.End, e.Reason)
}

// Len returns the number of characters the selector covers.
func (s Selector) Len() int {
	return s.End - s.Start
}

// Shift returns the selector moved by offset characters. An End of
// EndOfText stays open-ended.
func (s Selector) Shift(offset int) Selector {
	end := s.End
	if end < EndOfText {
		end += offset
	}
	return Selector{Start: s.Start + offset, End: end}
}

// Clamp limits the selector to [0, length). The second return value is
// false when nothing of the selector survives.
func (s Selector) Clamp(length int) (Selector, bool) {
	start, end := s.Start, s.End
	if start < 0 {
		start = 0
	}
	if end > length {
		end = length
	}
	if start >= end {
		return Selector{}, false
	}
	return Selector{Start: start, End: end}, true
}

// Overlaps reports whether the two selectors share any offset.
func (s Selector) Overlaps(other Selector) bool {
	return s.Start < other.End && other.Start < s.End
}

// Contains reports whether other lies entirely within s.
func (s Selector) Contains(other Selector) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// Set is an immutable union of non-overlapping selectors in ascending
// order. The zero Set is empty. Operations return new Sets.
type Set struct {
	selectors []Selector
}

// NewSet builds a Set from the given selectors, sorting and merging any
// that overlap or touch.
func NewSet(selectors ...Selector) Set {
	return Set{selectors: normalize(selectors)}
}

// normalize sorts selectors and merges overlapping or adjacent neighbors.
func normalize(selectors []Selector) []Selector {
	if len(selectors) == 0 {
		return nil
	}
	sorted := make([]Selector, len(selectors))
	copy(sorted, selectors)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})
	merged := sorted[:1]
	for _, sel := range sorted[1:] {
		last := &merged[len(merged)-1]
		if sel.Start <= last.End {
			if sel.End > last.End {
				last.End = sel.End
			}
			continue
		}
		merged = append(merged, sel)
	}
	return merged
}

// Selectors returns a copy of the set's selectors in ascending order.
func (s Set) Selectors() []Selector {
	out := make([]Selector, len(s.selectors))
	copy(out, s.selectors)
	return out
}

// IsEmpty reports whether the set selects nothing.
func (s Set) IsEmpty() bool {
	return len(s.selectors) == 0
}

// Size returns the number of disjoint selectors in the set.
func (s Set) Size() int {
	return len(s.selectors)
}

// Add returns the union of two sets.
func (s Set) Add(other Set) Set {
	if other.IsEmpty() {
		return s
	}
	if s.IsEmpty() {
		return other
	}
	return NewSet(append(s.Selectors(), other.selectors...)...)
}

// AddSelector returns the union of the set and one selector.
func (s Set) AddSelector(sel Selector) Set {
	return NewSet(append(s.Selectors(), sel)...)
}

// Intersect returns the offsets present in both sets.
func (s Set) Intersect(other Set) Set {
	var out []Selector
	i, j := 0, 0
	for i < len(s.selectors) && j < len(other.selectors) {
		a, b := s.selectors[i], other.selectors[j]
		start := a.Start
		if b.Start > start {
			start = b.Start
		}
		end := a.End
		if b.End < end {
			end = b.End
		}
		if start < end {
			out = append(out, Selector{Start: start, End: end})
		}
		if a.End < b.End {
			i++
		} else {
			j++
		}
	}
	return Set{selectors: out}
}

// Shift returns the set moved by offset characters. Selectors pushed
// entirely below zero are dropped; one straddling zero is clipped.
func (s Set) Shift(offset int) Set {
	var out []Selector
	for _, sel := range s.selectors {
		moved := sel.Shift(offset)
		if moved.End <= 0 {
			continue
		}
		if moved.Start < 0 {
			moved.Start = 0
		}
		out = append(out, moved)
	}
	return Set{selectors: out}
}

// Clamp returns the set limited to [0, length), resolving any open-ended
// selectors against the given text length.
func (s Set) Clamp(length int) Set {
	var out []Selector
	for _, sel := range s.selectors {
		if clamped, ok := sel.Clamp(length); ok {
			out = append(out, clamped)
		}
	}
	return Set{selectors: out}
}

// ContainsSelector reports whether sel lies entirely within one of the
// set's selectors.
func (s Set) ContainsSelector(sel Selector) bool {
	for _, member := range s.selectors {
		if member.Contains(sel) {
			return true
		}
	}
	return false
}

// Equal reports whether both sets cover exactly the same offsets.
func (s Set) Equal(other Set) bool {
	if len(s.selectors) != len(other.selectors) {
		return false
	}
	for i, sel := range s.selectors {
		if sel != other.selectors[i] {
			return false
		}
	}
	return true
}

// AddMargin returns the set with neighbors merged when the text between
// them is no longer than margin characters and consists only of whitespace
// and punctuation. This lets separately quoted phrases like "to Authors"
// and "and Inventors" collapse into one span even though the space between
// them was never selected.
func (s Set) AddMargin(text string, margin int) Set {
	if len(s.selectors) < 2 {
		return s
	}
	const cutset = " ,:;.”’)"
	out := []Selector{s.selectors[0]}
	for _, sel := range s.selectors[1:] {
		last := &out[len(out)-1]
		gapStart, gapEnd := last.End, sel.Start
		if gapEnd > len(text) {
			gapEnd = len(text)
		}
		if gapStart <= gapEnd && gapEnd-gapStart <= margin {
			gap := text[gapStart:gapEnd]
			if strings.Trim(gap, cutset) == "" {
				if sel.End > last.End {
					last.End = sel.End
				}
				continue
			}
		}
		out = append(out, sel)
	}
	return Set{selectors: out}
}

// String renders the set for diagnostics, e.g. "[0, 12) [20, 31)".
func (s Set) String() string {
	if s.IsEmpty() {
		return "[]"
	}
	parts := make([]string, len(s.selectors))
	for i, sel := range s.selectors {
		if sel.End >= EndOfText {
			parts[i] = fmt.Sprintf("[%d, end)", sel.Start)
		} else {
			parts[i] = fmt.Sprintf("[%d, %d)", sel.Start, sel.End)
		}
	}
	return strings.Join(parts, " ")
}
