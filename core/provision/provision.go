// Package provision models legislative text as a tree of addressable
// provisions, supports selecting arbitrary sub-passages of that text, and
// defines equivalence and implication relations between selections.
//
// A Provision is one node of the document tree. Selections are expressed
// as position sets over the subtree's concatenated text and distributed
// across nodes; a ProvisionPassage binds a Provision to one selection and
// is the unit of comparison.
package provision

import (
	"strings"
	"time"

	"github.com/mscarey/legislice-sub000/core/citation"
	"github.com/mscarey/legislice-sub000/core/positions"
)

// Provision is one node of a legislative document tree: a section,
// subsection, clause or similar unit, valid for a window of time.
// Treat a Provision and its subtree as read-only once constructed;
// selection operations return new values instead of mutating.
type Provision struct {
	// Node is the citation path where the provision is codified,
	// e.g. "/us/usc/t17/s103".
	Node string

	// Heading is the provision's display title, possibly empty.
	Heading string

	// Content is the literal text at this node only. Descendant text is
	// not included; FullText concatenates the whole subtree.
	Content string

	// StartDate is the date this version of the text took effect.
	StartDate time.Time

	// EndDate is the date the text was removed, or nil while in force.
	// The validity window is half-open: [StartDate, EndDate).
	EndDate *time.Time

	// Selection is this node's own local selection of Content. The zero
	// value selects all of Content. It does not cascade: clearing a
	// parent's selection leaves child selections untouched.
	Selection Selection

	// Children are the provisions nested beneath this node, in document
	// order.
	Children []*Provision
}

// path parses the provision's citation path.
func (p *Provision) path() (*citation.Path, error) {
	return citation.ParsePath(p.Node)
}

// Sovereign returns the jurisdiction part of the citation path.
func (p *Provision) Sovereign() (string, error) {
	parsed, err := p.path()
	if err != nil {
		return "", err
	}
	return parsed.Sovereign(), nil
}

// Code returns the code part of the citation path.
func (p *Provision) Code() (string, error) {
	parsed, err := p.path()
	if err != nil {
		return "", err
	}
	return parsed.Code(), nil
}

// Level classifies the provision as constitution, statute, regulation or
// court rule. An unrecognized code is a fatal input error, never a
// default.
func (p *Provision) Level() (citation.CodeLevel, error) {
	parsed, err := p.path()
	if err != nil {
		return 0, err
	}
	_, level, err := citation.IdentifyCode(parsed.Sovereign(), parsed.Code())
	if err != nil {
		return 0, err
	}
	return level, nil
}

// IsFederal reports whether the provision is from the federal
// jurisdiction. Malformed paths report false.
func (p *Provision) IsFederal() bool {
	sovereign, err := p.Sovereign()
	return err == nil && sovereign == "us"
}

// AsCitation builds a styled citation for the provision. Only statutes
// are supported.
func (p *Provision) AsCitation() (*citation.Citation, error) {
	revision := p.StartDate
	return citation.FromPath(p.Node, &revision)
}

// FullText returns the addressable character stream for the subtree: this
// node's content followed by each child's full text in document order,
// single-space-joined and trimmed.
func (p *Provision) FullText() string {
	parts := []string{p.Content}
	for _, child := range p.Children {
		if text := child.FullText(); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// PaddedLength is the number of offsets this node's own content consumes
// before its children's text begins: the content length plus one
// separator character, or zero when the content is empty.
func (p *Provision) PaddedLength() int {
	if p.Content == "" {
		return 0
	}
	return len(p.Content) + 1
}

// SpanLength is the number of offsets the whole subtree consumes,
// including separators.
func (p *Provision) SpanLength() int {
	length := p.PaddedLength()
	for _, child := range p.Children {
		length += child.SpanLength()
	}
	return length
}

// TreeSelection composes every node's local Selection into one position
// set over FullText offsets.
func (p *Provision) TreeSelection() positions.Set {
	set, _ := p.treeSelection(positions.NewSet(), 0)
	return set
}

func (p *Provision) treeSelection(acc positions.Set, offset int) (positions.Set, int) {
	local := p.Selection.resolve(len(p.Content))
	acc = acc.Add(local.Shift(offset))
	offset += p.PaddedLength()
	for _, child := range p.Children {
		acc, offset = child.treeSelection(acc, offset)
	}
	return acc, offset
}

// versionSpan records which validity window each stretch of FullText
// belongs to.
type versionSpan struct {
	node      string
	startDate time.Time
	endDate   *time.Time
	span      positions.Selector
}

// versionSpans maps each node's content to its offsets within FullText.
func (p *Provision) versionSpans() []versionSpan {
	spans, _ := p.versionSpansAt(nil, 0)
	return spans
}

func (p *Provision) versionSpansAt(acc []versionSpan, offset int) ([]versionSpan, int) {
	if p.Content != "" {
		acc = append(acc, versionSpan{
			node:      p.Node,
			startDate: p.StartDate,
			endDate:   p.EndDate,
			span:      positions.Selector{Start: offset, End: offset + len(p.Content)},
		})
	}
	offset += p.PaddedLength()
	for _, child := range p.Children {
		acc, offset = child.versionSpansAt(acc, offset)
	}
	return acc, offset
}

// SelectAll returns a passage selecting the subtree's entire text.
func (p *Provision) SelectAll() *ProvisionPassage {
	text := p.FullText()
	if text == "" {
		return &ProvisionPassage{provision: p}
	}
	return &ProvisionPassage{
		provision: p,
		selection: positions.NewSet(positions.Selector{Start: 0, End: len(text)}),
	}
}

// SelectNone returns a passage selecting nothing.
func (p *Provision) SelectNone() *ProvisionPassage {
	return &ProvisionPassage{provision: p}
}

// Passage returns a passage for the selection currently described by the
// tree's per-node Selection fields.
func (p *Provision) Passage() *ProvisionPassage {
	return &ProvisionPassage{provision: p, selection: p.TreeSelection()}
}

// SelectPositions returns a passage selecting the given global offsets
// into FullText. Ranges falling entirely past the end of available text
// are dropped; a range straddling the end is clipped. This is the
// "select as much as exists" policy, not an error.
func (p *Provision) SelectPositions(set positions.Set) *ProvisionPassage {
	return &ProvisionPassage{
		provision: p,
		selection: set.Clamp(len(p.FullText())),
	}
}

// SelectQuotes returns a passage selecting the text matched by the given
// quote selectors, resolved against the subtree's FullText. An unmatched
// quote is a fatal TextNotFoundError.
func (p *Provision) SelectQuotes(quotes ...QuoteSelector) (*ProvisionPassage, error) {
	set, err := resolveQuotes(p.FullText(), quotes)
	if err != nil {
		return nil, err
	}
	return &ProvisionPassage{provision: p, selection: set}, nil
}

// NodePath implements Comparable.
func (p *Provision) NodePath() string { return p.Node }

// Sequence implements Comparable: a Provision compares using its per-node
// Selection tree, which by default selects everything.
func (p *Provision) Sequence(includeGaps bool) TextSequence {
	return p.Passage().Sequence(includeGaps)
}

// Means reports whether the provision's selected text has the same
// meaning as other's.
func (p *Provision) Means(other Comparable) bool { return Means(p, other) }

// Implies reports whether the provision's selected text contains all of
// other's selected text.
func (p *Provision) Implies(other Comparable) bool { return Implies(p, other) }

// String describes the provision by node and start date.
func (p *Provision) String() string {
	return p.Node + " (" + p.StartDate.Format("2006-01-02") + ")"
}
