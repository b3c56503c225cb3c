package provision

import (
	"fmt"
	"strings"

	"github.com/mscarey/legislice-sub000/core/positions"
)

// QuoteSelector selects text by quoting it: an exact phrase, optionally
// pinned down by the text immediately before and after it. With no Exact
// phrase, the selector spans from the end of Prefix to the start of
// Suffix (or to the relevant edge of the text).
type QuoteSelector struct {
	Prefix string `json:"prefix,omitempty"`
	Exact  string `json:"exact,omitempty"`
	Suffix string `json:"suffix,omitempty"`
}

// String renders the selector in prefix|exact|suffix form.
func (q QuoteSelector) String() string {
	return q.Prefix + "|" + q.Exact + "|" + q.Suffix
}

// TextNotFoundError reports a quote selector that did not resolve within
// the text it was applied to. It carries the offending quote for
// diagnostics.
type TextNotFoundError struct {
	Quote QuoteSelector
	Part  string
}

func (e *TextNotFoundError) Error() string {
	return fmt.Sprintf("quote selector %q: %s not found in text", e.Quote, e.Part)
}

// Resolve locates the quoted span within text, returning its position.
// When Exact is set, Prefix and Suffix pin which occurrence is meant:
// the prefix must end right before the exact phrase and the suffix must
// begin right after it, with only whitespace between.
func (q QuoteSelector) Resolve(text string) (positions.Selector, error) {
	if q.Exact != "" {
		return q.resolveExact(text)
	}

	start := 0
	if q.Prefix != "" {
		i := strings.Index(text, q.Prefix)
		if i < 0 {
			return positions.Selector{}, &TextNotFoundError{Quote: q, Part: "prefix"}
		}
		start = i + len(q.Prefix)
	}
	end := len(text)
	if q.Suffix != "" {
		k := strings.Index(text[start:], q.Suffix)
		if k < 0 {
			return positions.Selector{}, &TextNotFoundError{Quote: q, Part: "suffix"}
		}
		end = start + k
	}
	// Trim the unquoted span to the selected words.
	for start < end && text[start] == ' ' {
		start++
	}
	for end > start && text[end-1] == ' ' {
		end--
	}
	if start >= end {
		return positions.Selector{}, &TextNotFoundError{Quote: q, Part: "selected span"}
	}
	return positions.Selector{Start: start, End: end}, nil
}

// resolveExact scans occurrences of the exact phrase until one sits in
// the stated prefix and suffix context. An occurrence in the wrong
// context is skipped; exhausting the text is an error.
func (q QuoteSelector) resolveExact(text string) (positions.Selector, error) {
	prefix := strings.TrimSpace(q.Prefix)
	suffix := strings.TrimSpace(q.Suffix)
	for from := 0; ; {
		j := strings.Index(text[from:], q.Exact)
		if j < 0 {
			return positions.Selector{}, &TextNotFoundError{Quote: q, Part: "exact text"}
		}
		start := from + j
		end := start + len(q.Exact)
		if precededBy(text, start, prefix) && followedBy(text, end, suffix) {
			return positions.Selector{Start: start, End: end}, nil
		}
		from = start + 1
	}
}

// precededBy reports whether needle ends at position i in text,
// allowing whitespace between. An empty needle matches anywhere.
func precededBy(text string, i int, needle string) bool {
	if needle == "" {
		return true
	}
	for i > 0 && isSpace(text[i-1]) {
		i--
	}
	return strings.HasSuffix(text[:i], needle)
}

// followedBy reports whether needle begins at position i in text,
// allowing whitespace between. An empty needle matches anywhere.
func followedBy(text string, i int, needle string) bool {
	if needle == "" {
		return true
	}
	for i < len(text) && isSpace(text[i]) {
		i++
	}
	return strings.HasPrefix(text[i:], needle)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// resolveQuotes resolves each quote against the text and merges the
// results into one position set.
func resolveQuotes(text string, quotes []QuoteSelector) (positions.Set, error) {
	var selectors []positions.Selector
	for _, quote := range quotes {
		sel, err := quote.Resolve(text)
		if err != nil {
			return positions.Set{}, err
		}
		selectors = append(selectors, sel)
	}
	return positions.NewSet(selectors...), nil
}
