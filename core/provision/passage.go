package provision

import (
	"fmt"
	"time"

	"github.com/mscarey/legislice-sub000/core/positions"
)

// selectMoreMargin is the longest stretch of whitespace and punctuation
// bridged when merging a newly selected span into an existing selection.
const selectMoreMargin = 4

// ProvisionPassage binds a Provision to a selection of its subtree's
// text, expressed as global offsets into FullText. It is immutable: every
// re-selection produces a new passage.
type ProvisionPassage struct {
	provision *Provision
	selection positions.Set
}

// NewPassage binds a provision to a selection, clipping the selection to
// the available text.
func NewPassage(p *Provision, selection positions.Set) *ProvisionPassage {
	return &ProvisionPassage{
		provision: p,
		selection: selection.Clamp(len(p.FullText())),
	}
}

// Provision returns the underlying provision.
func (pp *ProvisionPassage) Provision() *Provision { return pp.provision }

// Selection returns the selected global offsets into FullText.
func (pp *ProvisionPassage) Selection() positions.Set { return pp.selection }

// NodePath implements Comparable.
func (pp *ProvisionPassage) NodePath() string { return pp.provision.Node }

// Text returns the subtree's whole text, selected or not.
func (pp *ProvisionPassage) Text() string { return pp.provision.FullText() }

// Sequence implements Comparable.
func (pp *ProvisionPassage) Sequence(includeGaps bool) TextSequence {
	return sequenceFromSet(pp.Text(), pp.selection, includeGaps)
}

// SelectedText renders only the selected passages, with "..." marking
// omitted stretches.
func (pp *ProvisionPassage) SelectedText() string {
	return pp.Sequence(true).String()
}

// Tree distributes the passage's global selection over the provision
// tree, splitting it at each node boundary.
func (pp *ProvisionPassage) Tree() *PassageNode {
	node, _ := distribute(pp.provision, pp.selection.Selectors())
	return node
}

// ChildPassages splits the passage at the first level of children: each
// child receives the part of the selection that falls within its span,
// re-addressed to the child's own text.
func (pp *ProvisionPassage) ChildPassages() []*ProvisionPassage {
	result := make([]*ProvisionPassage, 0, len(pp.provision.Children))
	offset := pp.provision.PaddedLength()
	for _, child := range pp.provision.Children {
		span := positions.NewSet(positions.Selector{Start: offset, End: offset + child.SpanLength()})
		within := pp.selection.Intersect(span).Shift(-offset)
		result = append(result, &ProvisionPassage{provision: child, selection: within})
		offset += child.SpanLength()
	}
	return result
}

// StartDate returns the latest start date among the provision versions
// whose text the selection touches. With nothing selected it falls back
// to the root provision's start date.
func (pp *ProvisionPassage) StartDate() time.Time {
	current := pp.provision.StartDate
	for _, memo := range pp.provision.versionSpans() {
		if pp.touches(memo.span) && memo.startDate.After(current) {
			current = memo.startDate
		}
	}
	return current
}

// EndDate returns the earliest end date among the provision versions
// whose text the selection touches, or nil when every touched version is
// still in force.
func (pp *ProvisionPassage) EndDate() *time.Time {
	current := pp.provision.EndDate
	for _, memo := range pp.provision.versionSpans() {
		if !pp.touches(memo.span) || memo.endDate == nil {
			continue
		}
		if current == nil || memo.endDate.Before(*current) {
			current = memo.endDate
		}
	}
	return current
}

// touches reports whether the selection overlaps the given span.
func (pp *ProvisionPassage) touches(span positions.Selector) bool {
	return !pp.selection.Intersect(positions.NewSet(span)).IsEmpty()
}

// SelectMore returns a new passage with additional offsets selected.
// Spans separated from the existing selection only by a short stretch of
// whitespace or punctuation merge with it.
func (pp *ProvisionPassage) SelectMore(added positions.Set) *ProvisionPassage {
	text := pp.Text()
	combined := pp.selection.Add(added.Clamp(len(text))).AddMargin(text, selectMoreMargin)
	return &ProvisionPassage{provision: pp.provision, selection: combined}
}

// SelectMoreQuotes returns a new passage with the quoted spans added to
// the selection.
func (pp *ProvisionPassage) SelectMoreQuotes(quotes ...QuoteSelector) (*ProvisionPassage, error) {
	set, err := resolveQuotes(pp.Text(), quotes)
	if err != nil {
		return nil, err
	}
	return pp.SelectMore(set), nil
}

// Means reports whether this passage selects legally equivalent text to
// other.
func (pp *ProvisionPassage) Means(other Comparable) bool { return Means(pp, other) }

// Implies reports whether this passage contains all of other's selected
// text.
func (pp *ProvisionPassage) Implies(other Comparable) bool { return Implies(pp, other) }

// ImpliesStrictly reports whether this passage implies other without
// meaning the same.
func (pp *ProvisionPassage) ImpliesStrictly(other Comparable) bool {
	return ImpliesStrictly(pp, other)
}

// String quotes the selected text with the node and start date.
func (pp *ProvisionPassage) String() string {
	return fmt.Sprintf("%q (%s %s)", pp.SelectedText(), pp.provision.Node,
		pp.StartDate().Format("2006-01-02"))
}
