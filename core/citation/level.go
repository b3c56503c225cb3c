package citation

import "fmt"

// CodeLevel identifies the type of legislative code a provision belongs to.
type CodeLevel int

// Code level constants, ordered from most to least authoritative.
const (
	Constitution CodeLevel = iota + 1
	Statute
	Regulation
	CourtRule
)

// String returns the lowercase name of the level.
func (l CodeLevel) String() string {
	switch l {
	case Constitution:
		return "constitution"
	case Statute:
		return "statute"
	case Regulation:
		return "regulation"
	case CourtRule:
		return "court rule"
	default:
		return fmt.Sprintf("CodeLevel(%d)", int(l))
	}
}

// codeEntry pairs the display name of a code with its level.
type codeEntry struct {
	name  string
	level CodeLevel
}

// knownCodes maps sovereign and code path parts to the codes they identify.
var knownCodes = map[string]map[string]codeEntry{
	"test": {
		"acts": {"Test Acts", Statute},
	},
	"us": {
		"const": {"U.S. Const.", Constitution},
		"usc":   {"U.S. Code", Statute},
		"cfr":   {"CFR", Regulation},
	},
	"us-ca": {
		"const": {"Cal. Const.", Constitution},
		"code":  {"Cal. Codes", Statute},
		"ccr":   {"Cal. Code Regs.", Regulation},
		"roc":   {"Cal. Rules of Court", CourtRule},
	},
}

// UnrecognizedCodeError reports a sovereign or code path part that is not
// in the classification table.
type UnrecognizedCodeError struct {
	Sovereign string
	Code      string
}

func (e *UnrecognizedCodeError) Error() string {
	if _, ok := knownCodes[e.Sovereign]; !ok {
		return fmt.Sprintf("%q is not a known sovereign identifier", e.Sovereign)
	}
	return fmt.Sprintf("%q is not a known code identifier for sovereign %q", e.Code, e.Sovereign)
}

// IdentifyCode returns the display name and level of the code identified
// by the sovereign and code parts of a citation path.
func IdentifyCode(sovereign, code string) (string, CodeLevel, error) {
	codes, ok := knownCodes[sovereign]
	if !ok {
		return "", 0, &UnrecognizedCodeError{Sovereign: sovereign, Code: code}
	}
	entry, ok := codes[code]
	if !ok {
		return "", 0, &UnrecognizedCodeError{Sovereign: sovereign, Code: code}
	}
	return entry.name, entry.level, nil
}
