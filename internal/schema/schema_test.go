package schema

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mscarey/legislice-sub000/core/citation"
	"github.com/mscarey/legislice-sub000/core/provision"
)

func loadFixture(t *testing.T, name string) RawProvision {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("reading fixture %s: %v", name, err)
	}
	raw, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("decoding fixture %s: %v", name, err)
	}
	return raw
}

// TestReadProvision tests building a provision tree from a record.
func TestReadProvision(t *testing.T) {
	raw := loadFixture(t, "section6d.json")
	p, err := ReadProvision(raw)
	if err != nil {
		t.Fatalf("ReadProvision failed: %v", err)
	}
	if p.Node != "/test/acts/47/6D" {
		t.Errorf("Node = %q", p.Node)
	}
	if p.Heading != "Waiver of beard tax in special circumstances" {
		t.Errorf("Heading = %q", p.Heading)
	}
	if len(p.Children) != 2 {
		t.Fatalf("got %d children", len(p.Children))
	}
	if got := p.StartDate.Format("2006-01-02"); got != "1935-04-01" {
		t.Errorf("StartDate = %s", got)
	}
	if p.EndDate != nil {
		t.Errorf("EndDate = %v, want nil", p.EndDate)
	}
	if got := p.Children[0].StartDate.Format("2006-01-02"); got != "2013-07-18" {
		t.Errorf("child StartDate = %s", got)
	}
}

// TestReadProvisionRejectsBadDates tests the date validation errors.
func TestReadProvisionRejectsBadDates(t *testing.T) {
	missing := RawProvision{Node: "/test/acts/47/1"}
	if _, err := ReadProvision(missing); err == nil {
		t.Error("missing start_date should fail")
	} else {
		var dateErr *DateError
		if !errors.As(err, &dateErr) || dateErr.Field != "start_date" {
			t.Errorf("error = %v, want DateError for start_date", err)
		}
	}

	bad := "07/18/2013"
	malformed := RawProvision{Node: "/test/acts/47/1", StartDate: "2013-07-18", EndDate: &bad}
	if _, err := ReadProvision(malformed); err == nil {
		t.Error("non-ISO end_date should fail")
	}
}

// TestReadProvisionRejectsUnknownCode tests that classification failures
// surface at load time.
func TestReadProvisionRejectsUnknownCode(t *testing.T) {
	raw := RawProvision{Node: "/us/xyz/1", StartDate: "2013-07-18"}
	_, err := ReadProvision(raw)
	var unrecognized *citation.UnrecognizedCodeError
	if !errors.As(err, &unrecognized) {
		t.Errorf("error = %v, want UnrecognizedCodeError", err)
	}
}

// TestReadPassageDefaultsToAll tests that a record with no selection
// spec selects the whole subtree.
func TestReadPassageDefaultsToAll(t *testing.T) {
	raw := loadFixture(t, "section_11_subdivided.json")
	passage, err := ReadPassage(raw)
	if err != nil {
		t.Fatalf("ReadPassage failed: %v", err)
	}
	if got := passage.SelectedText(); got != passage.Text() {
		t.Errorf("default selection should cover everything, got %q", got)
	}
}

// TestReadPassageQuoteSelection tests quote selectors in the root spec,
// resolved against the whole subtree's text.
func TestReadPassageQuoteSelection(t *testing.T) {
	raw := loadFixture(t, "section_11_subdivided.json")
	raw.Selection = &SelectionSpec{
		Quotes: []provision.QuoteSelector{{Exact: "hairdressers"}},
	}
	passage, err := ReadPassage(raw)
	if err != nil {
		t.Fatalf("ReadPassage failed: %v", err)
	}
	if got := passage.SelectedText(); got != "...hairdressers..." {
		t.Errorf("SelectedText = %q", got)
	}
}

// TestNestedSelectionIsLocal tests that a selection spec on a nested
// record addresses the node's own content, not global offsets.
func TestNestedSelectionIsLocal(t *testing.T) {
	raw := loadFixture(t, "section_11_subdivided.json")
	no := false
	raw.Selection = &SelectionSpec{All: &no}
	end := 12
	for i := range raw.Children {
		if i == 1 {
			raw.Children[i].Selection = &SelectionSpec{
				Positions: []RawSelector{{Start: 0, End: &end}},
			}
			continue
		}
		raw.Children[i].Selection = &SelectionSpec{All: &no}
	}

	p, err := ReadProvision(raw)
	if err != nil {
		t.Fatalf("ReadProvision failed: %v", err)
	}
	if got := p.Passage().SelectedText(); got != "...hairdressers..." {
		t.Errorf("SelectedText = %q", got)
	}
}

// TestMarshalProvision tests the provision-to-record round trip.
func TestMarshalProvision(t *testing.T) {
	raw := loadFixture(t, "section6d.json")
	p, err := ReadProvision(raw)
	if err != nil {
		t.Fatalf("ReadProvision failed: %v", err)
	}
	out := MarshalProvision(p)
	if out.Node != raw.Node || out.StartDate != raw.StartDate {
		t.Errorf("marshaled record = %+v", out)
	}
	if len(out.Children) != len(raw.Children) {
		t.Fatalf("marshaled %d children", len(out.Children))
	}
	if out.Children[0].Content != raw.Children[0].Content {
		t.Errorf("child content = %q", out.Children[0].Content)
	}

	data, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	back, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON failed: %v", err)
	}
	if back.Node != raw.Node {
		t.Errorf("round trip node = %q", back.Node)
	}
}

// TestPositionSet tests raw selector conversion, including nil ends.
func TestPositionSet(t *testing.T) {
	end := 10
	set, err := PositionSet([]RawSelector{
		{Start: 0, End: &end},
		{Start: 20},
	})
	if err != nil {
		t.Fatalf("PositionSet failed: %v", err)
	}
	if set.Size() != 2 {
		t.Fatalf("set = %v", set)
	}
	if got := set.Clamp(25).Selectors()[1].End; got != 25 {
		t.Errorf("open-ended selector should clamp to the text length, got end %d", got)
	}

	bad := -1
	if _, err := PositionSet([]RawSelector{{Start: 5, End: &bad}}); err == nil {
		t.Error("negative end should fail")
	}
}
