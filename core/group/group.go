// Package group collects provision passages into deduplicated,
// consolidated, canonically ordered sets with set-style combination and
// implication.
package group

import (
	"sort"
	"strings"
	"time"

	"github.com/mscarey/legislice-sub000/core/provision"
)

// Group is an ordered collection of unique ProvisionPassages. On
// construction, passages referencing the same provision version are
// consolidated into one, and the result is sorted federal-first, then by
// code level, then by node path. Groups are immutable; combination
// returns new Groups.
type Group struct {
	passages []*provision.ProvisionPassage
}

// New builds a Group, consolidating and sorting the given passages.
func New(passages ...*provision.ProvisionPassage) *Group {
	return &Group{passages: sortPassages(consolidate(passages))}
}

// FromProvisions builds a Group of fully selected passages.
func FromProvisions(provisions ...*provision.Provision) *Group {
	passages := make([]*provision.ProvisionPassage, len(provisions))
	for i, p := range provisions {
		passages[i] = p.SelectAll()
	}
	return New(passages...)
}

// versionKey identifies one version of one provision: the node path, the
// validity window, and the text itself.
type versionKey struct {
	node      string
	startDate time.Time
	endDate   time.Time
	text      string
}

func keyFor(pp *provision.ProvisionPassage) versionKey {
	p := pp.Provision()
	key := versionKey{node: p.Node, startDate: p.StartDate, text: pp.Text()}
	if p.EndDate != nil {
		key.endDate = *p.EndDate
	}
	return key
}

// consolidate merges passages of the same provision version into the
// fewest passages representing the union of their selections, treating
// spans separated only by short punctuation gaps as mergeable.
func consolidate(passages []*provision.ProvisionPassage) []*provision.ProvisionPassage {
	var order []versionKey
	merged := make(map[versionKey]*provision.ProvisionPassage)
	for _, pp := range passages {
		if pp == nil {
			continue
		}
		key := keyFor(pp)
		existing, ok := merged[key]
		if !ok {
			order = append(order, key)
			merged[key] = pp
			continue
		}
		merged[key] = existing.SelectMore(pp.Selection())
	}
	result := make([]*provision.ProvisionPassage, len(order))
	for i, key := range order {
		result[i] = merged[key]
	}
	return result
}

// sortPassages orders federal before other jurisdictions, then
// constitution before statute before regulation, then alphabetically by
// node path, then older versions first.
func sortPassages(passages []*provision.ProvisionPassage) []*provision.ProvisionPassage {
	sorted := make([]*provision.ProvisionPassage, len(passages))
	copy(sorted, passages)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Provision(), sorted[j].Provision()
		if a.IsFederal() != b.IsFederal() {
			return a.IsFederal()
		}
		if la, lb := levelRank(a), levelRank(b); la != lb {
			return la < lb
		}
		if a.Node != b.Node {
			return a.Node < b.Node
		}
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.Before(b.StartDate)
		}
		// Same node and start: the version still in force sorts last.
		if (a.EndDate == nil) != (b.EndDate == nil) {
			return a.EndDate != nil
		}
		return false
	})
	return sorted
}

// levelRank orders code levels for sorting; unclassifiable provisions
// sort after everything recognized.
func levelRank(p *provision.Provision) int {
	level, err := p.Level()
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return int(level)
}

// Passages returns the group's members in canonical order.
func (g *Group) Passages() []*provision.ProvisionPassage {
	out := make([]*provision.ProvisionPassage, len(g.passages))
	copy(out, g.passages)
	return out
}

// Len returns the number of passages in the group.
func (g *Group) Len() int { return len(g.passages) }

// At returns the passage at index i.
func (g *Group) At(i int) *provision.ProvisionPassage { return g.passages[i] }

// Slice returns the sub-Group covering [from, to).
func (g *Group) Slice(from, to int) *Group {
	return New(g.passages[from:to]...)
}

// Add combines two groups, re-consolidating so selections that became
// adjacent or overlapping across the inputs merge. Addition is
// commutative up to ordering and idempotent.
func (g *Group) Add(other *Group) *Group {
	if other == nil {
		return New(g.passages...)
	}
	return New(append(g.Passages(), other.passages...)...)
}

// AddPassage returns the group with one more passage consolidated in.
func (g *Group) AddPassage(pp *provision.ProvisionPassage) *Group {
	return New(append(g.Passages(), pp)...)
}

// Implies reports whether some member of the group contains all of
// other's selected text.
func (g *Group) Implies(other provision.Comparable) bool {
	for _, pp := range g.passages {
		if pp.Implies(other) {
			return true
		}
	}
	return false
}

// ImpliesGroup reports whether every member of other is implied by some
// member of this group.
func (g *Group) ImpliesGroup(other *Group) bool {
	if other == nil {
		return true
	}
	for _, theirs := range other.passages {
		if !g.Implies(theirs) {
			return false
		}
	}
	return true
}

// String lists the group's passages, one per indented line.
func (g *Group) String() string {
	var b strings.Builder
	b.WriteString("the group of Enactments:")
	for _, pp := range g.passages {
		b.WriteString("\n  ")
		b.WriteString(pp.String())
	}
	return b.String()
}
