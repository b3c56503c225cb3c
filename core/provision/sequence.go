package provision

import (
	"strings"

	"github.com/mscarey/legislice-sub000/core/positions"
)

// passageCutset is stripped from the edges of passages before comparing
// them, making equivalence insensitive to trailing punctuation and
// whitespace.
const passageCutset = ",:;. "

// Passage is one contiguous span of selected text.
type Passage struct {
	Text string
}

// Trimmed returns the passage text with edge punctuation and whitespace
// stripped.
func (p Passage) Trimmed() string {
	return strings.Trim(p.Text, passageCutset)
}

// Means reports whether two passages are legally equivalent: character
// equal after trimming.
func (p Passage) Means(other Passage) bool {
	return p.Trimmed() == other.Trimmed()
}

// Covers reports whether other's trimmed text appears literally within p.
func (p Passage) Covers(other Passage) bool {
	return strings.Contains(p.Text, other.Trimmed())
}

// TextSequence is the selected fragments of a passage in document order.
// A nil entry marks a stretch of unselected text; consecutive gaps are
// collapsed during construction, so a sequence never contains two nil
// entries in a row.
type TextSequence []*Passage

// sequenceFromSet builds the sequence for a position set over text.
// includeGaps controls whether unselected stretches appear as nil
// markers.
func sequenceFromSet(text string, set positions.Set, includeGaps bool) TextSequence {
	clamped := set.Clamp(len(text))
	var seq TextSequence
	cursor := 0
	for _, sel := range clamped.Selectors() {
		if includeGaps && sel.Start > cursor {
			seq = append(seq, nil)
		}
		seq = append(seq, &Passage{Text: text[sel.Start:sel.End]})
		cursor = sel.End
	}
	if includeGaps && cursor < len(text) {
		seq = append(seq, nil)
	}
	return seq
}

// String renders the sequence with "..." marking each omitted stretch.
// Consecutive omissions collapse into one marker, and adjacent selected
// fragments are joined with a single space unless the next fragment
// begins with punctuation.
func (ts TextSequence) String() string {
	var b strings.Builder
	lastWasFragment := false
	lastWasGap := false
	for _, passage := range ts {
		if passage == nil {
			if !lastWasGap {
				b.WriteString("...")
			}
			lastWasFragment = false
			lastWasGap = true
			continue
		}
		lastWasGap = false
		if lastWasFragment && passage.Text != "" &&
			!strings.ContainsRune(passageCutset, rune(passage.Text[0])) {
			b.WriteString(" ")
		}
		b.WriteString(passage.Text)
		lastWasFragment = true
	}
	return b.String()
}

// Means reports whether two sequences match in lockstep: the same length,
// with every position either a gap in both or an equivalent passage in
// both.
func (ts TextSequence) Means(other TextSequence) bool {
	if len(ts) != len(other) {
		return false
	}
	for i, passage := range ts {
		switch {
		case passage == nil && other[i] == nil:
		case passage == nil || other[i] == nil:
			return false
		case !passage.Means(*other[i]):
			return false
		}
	}
	return true
}

// Covers reports whether every fragment of other is contained in some
// fragment of ts. Containment is fragment-wise and permissive: the whole
// sequence need not match.
func (ts TextSequence) Covers(other TextSequence) bool {
	for _, theirs := range other {
		if theirs == nil {
			continue
		}
		found := false
		for _, ours := range ts {
			if ours != nil && ours.Covers(*theirs) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Comparable is anything with a node path and a selected-text sequence:
// a Provision (implicitly selecting all of its text), a ProvisionPassage,
// or any future passage type.
type Comparable interface {
	NodePath() string
	Sequence(includeGaps bool) TextSequence
}

// Means reports whether a and b select legally equivalent text from the
// same provision. Selections of different provisions are incomparable
// and never mean each other, whatever their text: citing different
// statutes is never the same act.
func Means(a, b Comparable) bool {
	if a.NodePath() != b.NodePath() {
		return false
	}
	return a.Sequence(true).Means(b.Sequence(true))
}

// Implies reports whether a's selection contains at least all the text of
// b's selection of the same provision. Different provisions are
// incomparable and report false both ways.
func Implies(a, b Comparable) bool {
	if a.NodePath() != b.NodePath() {
		return false
	}
	return a.Sequence(false).Covers(b.Sequence(false))
}

// ImpliesStrictly reports whether a implies b without meaning the same.
func ImpliesStrictly(a, b Comparable) bool {
	return !Means(a, b) && Implies(a, b)
}
