package provision

import (
	"testing"
	"time"
)

func date(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("bad test date %q: %v", value, err)
	}
	return parsed
}

func datePtr(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed := date(t, value)
	return &parsed
}

// licenseSection is one section of a model statute, split into lettered
// subdivisions the way the API serves it.
func licenseSection(t *testing.T) *Provision {
	t.Helper()
	start := date(t, "2013-07-18")
	child := func(node, content string) *Provision {
		return &Provision{Node: node, Content: content, StartDate: start}
	}
	return &Provision{
		Node:      "/test/acts/47/11",
		Heading:   "Licensed repurchasers of beardcoin",
		Content:   "The Department of Beards may issue licenses to such",
		StartDate: start,
		Children: []*Provision{
			child("/test/acts/47/11/i", "barbers,"),
			child("/test/acts/47/11/ii", "hairdressers, or"),
			child("/test/acts/47/11/iii", "other male grooming professionals"),
			child("/test/acts/47/11/iii-con", "as they see fit to purchase a beardcoin from a customer"),
			child("/test/acts/47/11/iv", "whose beard they have removed,"),
			child("/test/acts/47/11/iv-con", "and to resell those beardcoins to the Department of Beards."),
		},
	}
}

// licenseSectionUndivided is the older version of the same section, with
// the whole text in one node.
func licenseSectionUndivided(t *testing.T) *Provision {
	t.Helper()
	return &Provision{
		Node:      "/test/acts/47/11",
		Heading:   "Licensed repurchasers of beardcoin",
		Content:   licenseSection(t).FullText(),
		StartDate: date(t, "1935-04-01"),
		EndDate:   datePtr(t, "2013-07-18"),
	}
}

// waiverSection mixes children enacted on different dates.
func waiverSection(t *testing.T) *Provision {
	t.Helper()
	return &Provision{
		Node:      "/test/acts/47/6D",
		Heading:   "Waiver of beard tax in special circumstances",
		StartDate: date(t, "1935-04-01"),
		Children: []*Provision{
			{
				Node:      "/test/acts/47/6D/1",
				Content:   "The Department of Beards shall waive the collection of beard tax upon issuance of beardcoin under Section 6C where the reason the maintainer wears a beard is due to bona fide religious, cultural, or medical reasons.",
				StartDate: date(t, "2013-07-18"),
			},
			{
				Node:      "/test/acts/47/6D/2",
				Content:   "The determination of the Department of Beards as to what constitutes bona fide religious or cultural reasons shall be final and no right of appeal shall exist.",
				StartDate: date(t, "1935-04-01"),
			},
		},
	}
}

// fourthAmendment is a single-node constitutional provision.
func fourthAmendment(t *testing.T) *Provision {
	t.Helper()
	return &Provision{
		Node:      "/us/const/amendment/IV",
		Heading:   "AMENDMENT IV.",
		Content:   "The right of the people to be secure in their persons, houses, papers, and effects, against unreasonable searches and seizures, shall not be violated, and no Warrants shall issue, but upon probable cause, supported by Oath or affirmation, and particularly describing the place to be searched, and the persons or things to be seized.",
		StartDate: date(t, "1791-12-15"),
	}
}

// copyrightClause is the intellectual property clause of the federal
// constitution.
func copyrightClause(t *testing.T) *Provision {
	t.Helper()
	return &Provision{
		Node:      "/us/const/article/I/8/8",
		Content:   "To promote the Progress of Science and useful Arts, by securing for limited Times to Authors and Inventors the exclusive Right to their respective Writings and Discoveries;",
		StartDate: date(t, "1788-09-13"),
	}
}
