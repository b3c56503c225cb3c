package provision

import (
	"github.com/mscarey/legislice-sub000/core/positions"
)

// selectionKind discriminates the tri-state Selection variant.
type selectionKind int

const (
	selAll selectionKind = iota
	selNone
	selRanges
)

// Selection describes which part of one node's Content is selected:
// everything (the default), nothing, or an explicit set of ranges. The
// variant is resolved to concrete ranges at the earliest point, so the
// tree-walk algorithms branch on a closed enum.
type Selection struct {
	kind   selectionKind
	ranges positions.Set
}

// AllText selects the node's entire content. This is the zero value.
func AllText() Selection { return Selection{kind: selAll} }

// NoText selects nothing at the node.
func NoText() Selection { return Selection{kind: selNone} }

// InRanges selects explicit ranges over the node's content.
func InRanges(set positions.Set) Selection {
	return Selection{kind: selRanges, ranges: set}
}

// IsAll reports whether the selection is the whole-content fast path.
func (s Selection) IsAll() bool { return s.kind == selAll }

// IsNone reports whether the selection is empty.
func (s Selection) IsNone() bool { return s.kind == selNone }

// Ranges returns the explicit ranges, which are meaningful only when the
// selection was built with InRanges.
func (s Selection) Ranges() positions.Set { return s.ranges }

// resolve converts the variant to concrete ranges over a content of the
// given length, clamping explicit ranges to the content.
func (s Selection) resolve(contentLen int) positions.Set {
	switch s.kind {
	case selNone:
		return positions.Set{}
	case selRanges:
		return s.ranges.Clamp(contentLen)
	default:
		if contentLen == 0 {
			return positions.Set{}
		}
		return positions.NewSet(positions.Selector{Start: 0, End: contentLen})
	}
}

// PassageNode is one node of a distributed selection: the portion of a
// passage's global selection that lands on one Provision's own content,
// plus the distributed children.
type PassageNode struct {
	Provision *Provision
	Local     positions.Set
	Children  []*PassageNode
}

// distribute splits sorted, non-overlapping global ranges at this node's
// boundary: ranges beginning within the node's content are kept (split at
// the boundary if they continue past it), and the remainder is shifted
// past the node's own text and recursed into the children in document
// order. The returned leftover is expressed relative to the end of this
// node's span, ready for the next sibling. Input is never mutated.
//
// This is a linear greedy consumption, not interval-tree search: FullText
// is exactly the pre-order concatenation of node contents with single
// separators, so offsets are monotonic across siblings.
func distribute(p *Provision, ranges []positions.Selector) (*PassageNode, []positions.Selector) {
	contentLen := len(p.Content)
	paddedLen := p.PaddedLength()

	pending := make([]positions.Selector, len(ranges))
	copy(pending, ranges)

	var local []positions.Selector
	for len(pending) > 0 && pending[0].Start >= 0 && pending[0].Start < contentLen {
		r := pending[0]
		if r.End <= contentLen {
			local = append(local, r)
			pending = pending[1:]
			continue
		}
		// Keep the part on this node; the continuation starts past the
		// node's padded text so children can claim it.
		local = append(local, positions.Selector{Start: r.Start, End: contentLen})
		pending[0] = positions.Selector{Start: paddedLen, End: r.End}
	}

	// Shift what remains down past this node's own text. A range that
	// covered only the separator disappears here.
	rest := make([]positions.Selector, 0, len(pending))
	for _, r := range pending {
		shifted := r.Shift(-paddedLen)
		if shifted.End <= 0 {
			continue
		}
		if shifted.Start < 0 {
			shifted.Start = 0
		}
		rest = append(rest, shifted)
	}

	node := &PassageNode{Provision: p, Local: positions.NewSet(local...)}
	for _, child := range p.Children {
		var childNode *PassageNode
		childNode, rest = distribute(child, rest)
		node.Children = append(node.Children, childNode)
	}
	return node, rest
}

// SelectedText renders the node's locally selected fragments, without
// descendants.
func (n *PassageNode) SelectedText() string {
	return sequenceFromSet(n.Provision.Content, n.Local, true).String()
}

// Walk visits the node and its descendants in document order.
func (n *PassageNode) Walk(visit func(*PassageNode)) {
	visit(n)
	for _, child := range n.Children {
		child.Walk(visit)
	}
}
