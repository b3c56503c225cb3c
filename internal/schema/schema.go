// Package schema defines the record shape exchanged with fetch, cache
// and serialization collaborators, and converts records into provision
// trees and passages.
package schema

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mscarey/legislice-sub000/core/positions"
	"github.com/mscarey/legislice-sub000/core/provision"
)

// RawSelector is a half-open position range in a record. A nil End means
// "through the end of the text".
type RawSelector struct {
	Start int  `json:"start" yaml:"start"`
	End   *int `json:"end" yaml:"end"`
}

// RawAnchor locates a reference to a provision within some external
// document, either by quote or by position.
type RawAnchor struct {
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Exact  string `json:"exact,omitempty" yaml:"exact,omitempty"`
	Suffix string `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	Start  int    `json:"start,omitempty" yaml:"start,omitempty"`
	End    *int   `json:"end,omitempty" yaml:"end,omitempty"`
}

// RawProvision is the tree-shaped input record for one provision node.
type RawProvision struct {
	Node      string         `json:"node" yaml:"node"`
	Heading   string         `json:"heading" yaml:"heading"`
	Content   string         `json:"content" yaml:"content"`
	StartDate string         `json:"start_date" yaml:"start_date"`
	EndDate   *string        `json:"end_date" yaml:"end_date"`
	URL       string         `json:"url,omitempty" yaml:"url,omitempty"`
	Children  []RawProvision `json:"children" yaml:"children"`

	// Selection optionally narrows what the record cites. On the root
	// record, position selectors address global offsets into the
	// subtree's full text; on nested records, they address the node's
	// own content.
	Selection *SelectionSpec `json:"selection,omitempty" yaml:"selection,omitempty"`

	// Name is a user-assigned label, used by the name index.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Anchors locate references to this provision in external documents.
	Anchors []RawAnchor `json:"anchors,omitempty" yaml:"anchors,omitempty"`
}

// DateError reports a record date that is missing or not an ISO date.
type DateError struct {
	Node  string
	Field string
	Value string
}

func (e *DateError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("provision %q: missing %s", e.Node, e.Field)
	}
	return fmt.Sprintf("provision %q: %s %q is not an ISO date", e.Node, e.Field, e.Value)
}

// parseDate parses an ISO date field.
func parseDate(node, field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, &DateError{Node: node, Field: field}
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, &DateError{Node: node, Field: field, Value: value}
	}
	return t, nil
}

// ReadProvision converts a record tree into a Provision tree. The code
// segment of every node path must classify; an unrecognized code is a
// fatal input error. Nested selection specs set each node's local
// selection of its own content.
func ReadProvision(raw RawProvision) (*provision.Provision, error) {
	start, err := parseDate(raw.Node, "start_date", raw.StartDate)
	if err != nil {
		return nil, err
	}
	var end *time.Time
	if raw.EndDate != nil && *raw.EndDate != "" {
		parsed, err := parseDate(raw.Node, "end_date", *raw.EndDate)
		if err != nil {
			return nil, err
		}
		end = &parsed
	}

	p := &provision.Provision{
		Node:      raw.Node,
		Heading:   raw.Heading,
		Content:   raw.Content,
		StartDate: start,
		EndDate:   end,
	}
	if _, err := p.Level(); err != nil {
		return nil, err
	}
	if raw.Selection != nil {
		selection, err := raw.Selection.localSelection(len(raw.Content))
		if err != nil {
			return nil, err
		}
		p.Selection = selection
	}
	for _, rawChild := range raw.Children {
		child, err := ReadProvision(rawChild)
		if err != nil {
			return nil, err
		}
		p.Children = append(p.Children, child)
	}
	return p, nil
}

// ReadPassage converts a record tree into a passage, applying the root
// record's selection spec: absent or true selects the whole subtree,
// false selects nothing, position selectors address global offsets into
// the full text, and quote selectors resolve against the full text.
func ReadPassage(raw RawProvision) (*provision.ProvisionPassage, error) {
	rootSelection := raw.Selection
	raw.Selection = nil
	p, err := ReadProvision(raw)
	if err != nil {
		return nil, err
	}
	if rootSelection == nil {
		return p.SelectAll(), nil
	}
	return rootSelection.Apply(p)
}

// PositionSet converts raw selectors to a position set, resolving nil
// ends to the open-ended sentinel.
func PositionSet(raw []RawSelector) (positions.Set, error) {
	selectors := make([]positions.Selector, 0, len(raw))
	for _, r := range raw {
		end := 0
		if r.End != nil {
			end = *r.End
		}
		sel, err := positions.NewSelector(r.Start, end)
		if err != nil {
			return positions.Set{}, err
		}
		selectors = append(selectors, sel)
	}
	return positions.NewSet(selectors...), nil
}

// MarshalProvision renders a provision tree back into the record shape.
func MarshalProvision(p *provision.Provision) RawProvision {
	raw := RawProvision{
		Node:      p.Node,
		Heading:   p.Heading,
		Content:   p.Content,
		StartDate: p.StartDate.Format("2006-01-02"),
	}
	if p.EndDate != nil {
		formatted := p.EndDate.Format("2006-01-02")
		raw.EndDate = &formatted
	}
	for _, child := range p.Children {
		raw.Children = append(raw.Children, MarshalProvision(child))
	}
	return raw
}

// DecodeJSON reads one record tree from JSON bytes.
func DecodeJSON(data []byte) (RawProvision, error) {
	var raw RawProvision
	if err := json.Unmarshal(data, &raw); err != nil {
		return RawProvision{}, fmt.Errorf("decoding provision record: %w", err)
	}
	return raw, nil
}
