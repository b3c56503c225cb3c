package uslm

import (
	"strings"
	"testing"

	"github.com/mscarey/legislice-sub000/internal/schema"
)

const sectionXML = `<?xml version="1.0" encoding="UTF-8"?>
<uscDoc xmlns="http://xml.house.gov/schemas/uslm/1.0">
  <main>
    <section identifier="/us/usc/t17/s103">
      <num value="103">&#167; 103.</num>
      <heading>
        Subject matter of copyright: Compilations and derivative works
      </heading>
      <chapeau>
        The subject matter of copyright as specified by section 102 includes
        compilations and derivative works,
      </chapeau>
      <subsection identifier="/us/usc/t17/s103/a">
        <num value="a">(a)</num>
        <content>
          but protection for a work employing preexisting material in which
          copyright subsists does not extend to any part of the work in which
          such material has been used unlawfully.
        </content>
      </subsection>
      <subsection identifier="/us/usc/t17/s103/b">
        <num value="b">(b)</num>
        <content>
          The copyright in a compilation or derivative work extends only to
          the material contributed by the author of such work.
        </content>
      </subsection>
    </section>
  </main>
</uscDoc>`

// TestParse tests building a record tree from a USLM section.
func TestParse(t *testing.T) {
	raw, err := Parse(strings.NewReader(sectionXML), "2013-07-18")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if raw.Node != "/us/usc/t17/s103" {
		t.Errorf("Node = %q", raw.Node)
	}
	if raw.Heading != "Subject matter of copyright: Compilations and derivative works" {
		t.Errorf("Heading = %q", raw.Heading)
	}
	if !strings.HasPrefix(raw.Content, "The subject matter of copyright") {
		t.Errorf("Content = %q", raw.Content)
	}
	if strings.Contains(raw.Content, "\n") {
		t.Error("content should have collapsed whitespace")
	}
	if len(raw.Children) != 2 {
		t.Fatalf("got %d children", len(raw.Children))
	}
	if raw.Children[0].Node != "/us/usc/t17/s103/a" {
		t.Errorf("child node = %q", raw.Children[0].Node)
	}
	if raw.StartDate != "2013-07-18" || raw.Children[1].StartDate != "2013-07-18" {
		t.Error("start date should propagate to every node")
	}
}

// TestParsedRecordBuildsProvision tests that a parsed record loads as a
// selectable provision.
func TestParsedRecordBuildsProvision(t *testing.T) {
	raw, err := Parse(strings.NewReader(sectionXML), "2013-07-18")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	passage, err := schema.ReadPassage(raw)
	if err != nil {
		t.Fatalf("ReadPassage failed: %v", err)
	}
	text := passage.SelectedText()
	if !strings.Contains(text, "used unlawfully.") {
		t.Errorf("SelectedText = %q", text)
	}
}

// TestParseRejectsUnidentifiedDocument tests the error for XML with no
// identifier attributes.
func TestParseRejectsUnidentifiedDocument(t *testing.T) {
	if _, err := Parse(strings.NewReader("<doc><p>text</p></doc>"), ""); err == nil {
		t.Error("document without identifiers should fail")
	}
}
