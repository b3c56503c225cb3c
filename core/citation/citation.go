// Package citation parses USLM-style citation paths and renders citations
// to statutes in Citation Style Language (CSL) JSON.
package citation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnsupportedLevel is returned when asked to build a styled citation
// for a provision that is not a statute.
var ErrUnsupportedLevel = errors.New("citation serialization is only implemented for statutes")

// Citation is a styled reference to a codified provision, intended for
// Citation Style Language output.
type Citation struct {
	Jurisdiction string     `json:"jurisdiction"`
	Code         string     `json:"code"`
	CodeLevel    CodeLevel  `json:"-"`
	Volume       string     `json:"volume,omitempty"`
	Section      string     `json:"section,omitempty"`
	RevisionDate *time.Time `json:"-"`
}

// FromPath builds a Citation from a citation path, standardizing the code
// name and section abbreviation. revisionDate may be nil when the revision
// date of the cited text is not known.
func FromPath(path string, revisionDate *time.Time) (*Citation, error) {
	parsed, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	name, level, err := IdentifyCode(parsed.Sovereign(), parsed.Code())
	if err != nil {
		return nil, err
	}
	if level != Statute {
		return nil, fmt.Errorf("%w: %q is a %s provision", ErrUnsupportedLevel, path, level)
	}
	section := parsed.Section()
	if section != "" {
		section = "sec. " + section
	}
	return &Citation{
		Jurisdiction: parsed.Sovereign(),
		Code:         name,
		CodeLevel:    level,
		Volume:       parsed.Title(),
		Section:      section,
		RevisionDate: revisionDate,
	}, nil
}

// String renders the citation in conventional form, e.g.
// "17 U.S. Code § 103 (2013)".
func (c *Citation) String() string {
	name := fmt.Sprintf("%s %s %s", c.Volume, c.Code, c.Section)
	if c.RevisionDate != nil {
		name += fmt.Sprintf(" (%d)", c.RevisionDate.Year())
	}
	return strings.ReplaceAll(name, "sec.", "§")
}

// cslDate is the CSL date-parts structure.
type cslDate struct {
	DateParts [][]any `json:"date-parts"`
}

// CSLDict returns the citation as a generic map in Citation Style
// Language form.
func (c *Citation) CSLDict() map[string]any {
	result := map[string]any{
		"type":            "legislation",
		"jurisdiction":    c.Jurisdiction,
		"container-title": c.Code,
	}
	if c.Volume != "" {
		result["volume"] = c.Volume
	}
	if c.Section != "" {
		result["section"] = c.Section
	}
	if c.RevisionDate != nil {
		result["event-date"] = cslDate{
			DateParts: [][]any{{
				fmt.Sprintf("%d", c.RevisionDate.Year()),
				int(c.RevisionDate.Month()),
				c.RevisionDate.Day(),
			}},
		}
	}
	return result
}

// CSLJSON returns the citation as Citation Style Language JSON.
func (c *Citation) CSLJSON() (string, error) {
	data, err := json.Marshal(c.CSLDict())
	if err != nil {
		return "", err
	}
	return string(data), nil
}
