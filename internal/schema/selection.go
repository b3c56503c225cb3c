package schema

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/mscarey/legislice-sub000/core/provision"
)

// SelectionSpec is the polymorphic selection field of a record: a bare
// boolean, a list of position selectors, a list of quote selectors, or an
// object with explicit "positions" and "quotes" lists.
type SelectionSpec struct {
	All       *bool                     `json:"-" yaml:"-"`
	Positions []RawSelector             `json:"positions,omitempty" yaml:"positions,omitempty"`
	Quotes    []provision.QuoteSelector `json:"quotes,omitempty" yaml:"quotes,omitempty"`
}

// selectorSet mirrors the explicit object form.
type selectorSet struct {
	Positions []RawSelector             `json:"positions,omitempty" yaml:"positions,omitempty"`
	Quotes    []provision.QuoteSelector `json:"quotes,omitempty" yaml:"quotes,omitempty"`
}

// rawSelectorItem is one element of the list form, which may carry
// either position or quote fields.
type rawSelectorItem struct {
	Start  *int   `json:"start" yaml:"start"`
	End    *int   `json:"end" yaml:"end"`
	Prefix string `json:"prefix" yaml:"prefix"`
	Exact  string `json:"exact" yaml:"exact"`
	Suffix string `json:"suffix" yaml:"suffix"`
}

// sortItems distributes mixed list items into positions and quotes.
func (s *SelectionSpec) sortItems(items []rawSelectorItem) error {
	for _, item := range items {
		switch {
		case item.Start != nil:
			s.Positions = append(s.Positions, RawSelector{Start: *item.Start, End: item.End})
		case item.Exact != "" || item.Prefix != "" || item.Suffix != "":
			s.Quotes = append(s.Quotes, provision.QuoteSelector{
				Prefix: item.Prefix,
				Exact:  item.Exact,
				Suffix: item.Suffix,
			})
		default:
			return fmt.Errorf("selection entry has neither position nor quote fields")
		}
	}
	return nil
}

// UnmarshalJSON accepts the boolean, list and object forms.
func (s *SelectionSpec) UnmarshalJSON(data []byte) error {
	var all bool
	if err := json.Unmarshal(data, &all); err == nil {
		s.All = &all
		return nil
	}
	var items []rawSelectorItem
	if err := json.Unmarshal(data, &items); err == nil {
		return s.sortItems(items)
	}
	var set selectorSet
	if err := json.Unmarshal(data, &set); err != nil {
		return fmt.Errorf("decoding selection spec: %w", err)
	}
	s.Positions = set.Positions
	s.Quotes = set.Quotes
	return nil
}

// MarshalJSON writes the most compact of the three forms.
func (s SelectionSpec) MarshalJSON() ([]byte, error) {
	if s.All != nil {
		return json.Marshal(*s.All)
	}
	return json.Marshal(selectorSet{Positions: s.Positions, Quotes: s.Quotes})
}

// UnmarshalYAML accepts the same forms as UnmarshalJSON.
func (s *SelectionSpec) UnmarshalYAML(value *yaml.Node) error {
	var all bool
	if err := value.Decode(&all); err == nil {
		s.All = &all
		return nil
	}
	var items []rawSelectorItem
	if err := value.Decode(&items); err == nil {
		return s.sortItems(items)
	}
	var set selectorSet
	if err := value.Decode(&set); err != nil {
		return fmt.Errorf("decoding selection spec: %w", err)
	}
	s.Positions = set.Positions
	s.Quotes = set.Quotes
	return nil
}

// localSelection converts the spec into one node's local selection of
// its own content.
func (s *SelectionSpec) localSelection(contentLen int) (provision.Selection, error) {
	switch {
	case s.All != nil && !*s.All:
		return provision.NoText(), nil
	case s.All != nil:
		return provision.AllText(), nil
	case len(s.Quotes) > 0:
		return provision.Selection{}, fmt.Errorf("quote selectors apply only to a root selection")
	case len(s.Positions) > 0:
		set, err := PositionSet(s.Positions)
		if err != nil {
			return provision.Selection{}, err
		}
		return provision.InRanges(set), nil
	default:
		return provision.AllText(), nil
	}
}

// Apply selects from a provision tree per the spec, treating position
// selectors as global offsets into the subtree's full text.
func (s *SelectionSpec) Apply(p *provision.Provision) (*provision.ProvisionPassage, error) {
	switch {
	case s.All != nil && !*s.All:
		return p.SelectNone(), nil
	case s.All != nil:
		return p.SelectAll(), nil
	case len(s.Quotes) > 0 && len(s.Positions) > 0:
		passage, err := p.SelectQuotes(s.Quotes...)
		if err != nil {
			return nil, err
		}
		set, err := PositionSet(s.Positions)
		if err != nil {
			return nil, err
		}
		return passage.SelectMore(set), nil
	case len(s.Quotes) > 0:
		return p.SelectQuotes(s.Quotes...)
	case len(s.Positions) > 0:
		set, err := PositionSet(s.Positions)
		if err != nil {
			return nil, err
		}
		return p.SelectPositions(set), nil
	default:
		return p.SelectAll(), nil
	}
}
