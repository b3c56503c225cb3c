package citation

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Path is a parsed USLM-style citation path such as "/us/usc/t17/s103".
// The first segment names the sovereign, the second the code; further
// segments address titles, sections and nested provisions.
type Path struct {
	Segments []string
}

// pathGrammar is the participle grammar for citation paths.
// Examples: "/us/const/amendment/IV", "/us/usc/t17/s103",
// "/test/acts/47/11/iii-con"
type pathGrammar struct {
	Segments []string `parser:"( '/' @Segment )+ '/'?"`
}

// pathLexer defines the lexer for citation paths. Segments may mix
// letters, digits and internal hyphens ("iii-con", "us-ca").
var pathLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Segment", Pattern: `[A-Za-z0-9][A-Za-z0-9.\-]*`},
	{Name: "Slash", Pattern: `/`},
})

var pathParser = participle.MustBuild[pathGrammar](
	participle.Lexer(pathLexer),
)

// MalformedPathError reports a citation path with too few segments to
// identify a sovereign and code, or one that does not parse at all.
type MalformedPathError struct {
	Path   string
	Reason string
}

func (e *MalformedPathError) Error() string {
	return fmt.Sprintf("malformed citation path %q: %s", e.Path, e.Reason)
}

// ParsePath parses a citation path. A path must contain at least a
// sovereign and a code segment.
func ParsePath(path string) (*Path, error) {
	parsed, err := pathParser.ParseString("", path)
	if err != nil {
		return nil, &MalformedPathError{Path: path, Reason: err.Error()}
	}
	if len(parsed.Segments) < 2 {
		return nil, &MalformedPathError{Path: path, Reason: "need at least sovereign and code segments"}
	}
	return &Path{Segments: parsed.Segments}, nil
}

// Sovereign returns the jurisdiction segment, e.g. "us".
func (p *Path) Sovereign() string { return p.Segments[0] }

// Code returns the code segment, e.g. "usc".
func (p *Path) Code() string { return p.Segments[1] }

// Title returns the title segment without its "t" prefix, or "".
func (p *Path) Title() string {
	if len(p.Segments) < 3 {
		return ""
	}
	return strings.TrimPrefix(p.Segments[2], "t")
}

// Section returns the section segment without its "s" prefix, or "".
func (p *Path) Section() string {
	if len(p.Segments) < 4 {
		return ""
	}
	return strings.TrimPrefix(p.Segments[3], "s")
}

// String reassembles the path with a leading slash.
func (p *Path) String() string {
	return "/" + strings.Join(p.Segments, "/")
}
