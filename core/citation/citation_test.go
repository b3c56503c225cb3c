package citation

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

// TestParsePath tests parsing of citation paths into segments.
func TestParsePath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want []string
	}{
		{name: "statute section", path: "/us/usc/t17/s103", want: []string{"us", "usc", "t17", "s103"}},
		{name: "constitutional amendment", path: "/us/const/amendment/IV", want: []string{"us", "const", "amendment", "IV"}},
		{name: "hyphenated segment", path: "/test/acts/47/11/iii-con", want: []string{"test", "acts", "47", "11", "iii-con"}},
		{name: "state sovereign", path: "/us-ca/code/evid/s351", want: []string{"us-ca", "code", "evid", "s351"}},
		{name: "trailing slash", path: "/us/cfr/t37/s202.1/", want: []string{"us", "cfr", "t37", "s202.1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePath(tt.path)
			if err != nil {
				t.Fatalf("ParsePath(%q) failed: %v", tt.path, err)
			}
			if len(got.Segments) != len(tt.want) {
				t.Fatalf("segments = %v, want %v", got.Segments, tt.want)
			}
			for i, seg := range got.Segments {
				if seg != tt.want[i] {
					t.Errorf("segment %d = %q, want %q", i, seg, tt.want[i])
				}
			}
		})
	}
}

// TestParsePathRejectsMalformed tests paths that cannot identify a code.
func TestParsePathRejectsMalformed(t *testing.T) {
	for _, path := range []string{"", "us/usc/t17", "/us", "/", "/us//usc"} {
		_, err := ParsePath(path)
		if err == nil {
			t.Errorf("ParsePath(%q) should have failed", path)
			continue
		}
		var malformed *MalformedPathError
		if !errors.As(err, &malformed) {
			t.Errorf("ParsePath(%q) error should be MalformedPathError, got %T", path, err)
		}
	}
}

// TestPathParts tests the accessor methods for path segments.
func TestPathParts(t *testing.T) {
	p, err := ParsePath("/us/usc/t17/s103")
	if err != nil {
		t.Fatalf("ParsePath failed: %v", err)
	}
	if p.Sovereign() != "us" {
		t.Errorf("Sovereign = %q", p.Sovereign())
	}
	if p.Code() != "usc" {
		t.Errorf("Code = %q", p.Code())
	}
	if p.Title() != "17" {
		t.Errorf("Title = %q, want the t prefix stripped", p.Title())
	}
	if p.Section() != "103" {
		t.Errorf("Section = %q, want the s prefix stripped", p.Section())
	}
	if p.String() != "/us/usc/t17/s103" {
		t.Errorf("String = %q", p.String())
	}

	short, err := ParsePath("/us/const")
	if err != nil {
		t.Fatalf("ParsePath failed: %v", err)
	}
	if short.Title() != "" || short.Section() != "" {
		t.Error("short path should have empty title and section")
	}
}

// TestIdentifyCode tests classification of sovereign and code segments.
func TestIdentifyCode(t *testing.T) {
	tests := []struct {
		sovereign string
		code      string
		wantName  string
		wantLevel CodeLevel
	}{
		{"us", "const", "U.S. Const.", Constitution},
		{"us", "usc", "U.S. Code", Statute},
		{"us", "cfr", "CFR", Regulation},
		{"us-ca", "roc", "Cal. Rules of Court", CourtRule},
		{"test", "acts", "Test Acts", Statute},
	}
	for _, tt := range tests {
		name, level, err := IdentifyCode(tt.sovereign, tt.code)
		if err != nil {
			t.Errorf("IdentifyCode(%q, %q) failed: %v", tt.sovereign, tt.code, err)
			continue
		}
		if name != tt.wantName || level != tt.wantLevel {
			t.Errorf("IdentifyCode(%q, %q) = %q, %v; want %q, %v",
				tt.sovereign, tt.code, name, level, tt.wantName, tt.wantLevel)
		}
	}
}

// TestIdentifyCodeUnrecognized tests that unknown codes are an error,
// never a default classification.
func TestIdentifyCodeUnrecognized(t *testing.T) {
	for _, tt := range []struct{ sovereign, code string }{
		{"us", "xyz"},
		{"narnia", "acts"},
	} {
		_, _, err := IdentifyCode(tt.sovereign, tt.code)
		if err == nil {
			t.Errorf("IdentifyCode(%q, %q) should have failed", tt.sovereign, tt.code)
			continue
		}
		var unrecognized *UnrecognizedCodeError
		if !errors.As(err, &unrecognized) {
			t.Errorf("error should be UnrecognizedCodeError, got %T", err)
		}
	}
}

// TestCodeLevelString tests the display names of code levels.
func TestCodeLevelString(t *testing.T) {
	if Constitution.String() != "constitution" || CourtRule.String() != "court rule" {
		t.Errorf("unexpected level names %q, %q", Constitution, CourtRule)
	}
}

// TestFromPath tests building a styled citation from a statute path.
func TestFromPath(t *testing.T) {
	revised := time.Date(2013, 7, 18, 0, 0, 0, 0, time.UTC)

	cite, err := FromPath("/test/acts/47/11", &revised)
	if err != nil {
		t.Fatalf("FromPath failed: %v", err)
	}
	if got := cite.String(); got != "47 Test Acts § 11 (2013)" {
		t.Errorf("String = %q", got)
	}

	usc, err := FromPath("/us/usc/t17/s103", &revised)
	if err != nil {
		t.Fatalf("FromPath failed: %v", err)
	}
	if got := usc.String(); got != "17 U.S. Code § 103 (2013)" {
		t.Errorf("String = %q", got)
	}

	undated, err := FromPath("/us/usc/t17/s103", nil)
	if err != nil {
		t.Fatalf("FromPath failed: %v", err)
	}
	if got := undated.String(); got != "17 U.S. Code § 103" {
		t.Errorf("String without revision date = %q", got)
	}
}

// TestFromPathRejectsNonStatutes tests that only statutes serialize.
func TestFromPathRejectsNonStatutes(t *testing.T) {
	_, err := FromPath("/us/const/amendment/IV", nil)
	if !errors.Is(err, ErrUnsupportedLevel) {
		t.Errorf("constitutional citation error = %v, want ErrUnsupportedLevel", err)
	}
	_, err = FromPath("/us/cfr/t37/s202.1", nil)
	if !errors.Is(err, ErrUnsupportedLevel) {
		t.Errorf("regulation citation error = %v, want ErrUnsupportedLevel", err)
	}
}

// TestCSLJSON tests the Citation Style Language rendering.
func TestCSLJSON(t *testing.T) {
	revised := time.Date(2013, 7, 18, 0, 0, 0, 0, time.UTC)
	cite, err := FromPath("/test/acts/47/11", &revised)
	if err != nil {
		t.Fatalf("FromPath failed: %v", err)
	}

	out, err := cite.CSLJSON()
	if err != nil {
		t.Fatalf("CSLJSON failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("CSLJSON output is not valid JSON: %v", err)
	}
	if decoded["type"] != "legislation" {
		t.Errorf("type = %v", decoded["type"])
	}
	if decoded["container-title"] != "Test Acts" {
		t.Errorf("container-title = %v", decoded["container-title"])
	}
	if decoded["volume"] != "47" {
		t.Errorf("volume = %v", decoded["volume"])
	}
	if decoded["section"] != "sec. 11" {
		t.Errorf("section = %v", decoded["section"])
	}
	if _, ok := decoded["event-date"]; !ok {
		t.Error("event-date missing")
	}
}
