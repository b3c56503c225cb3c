// Package uslm loads United States Legislative Markup XML into provision
// records. USLM addresses every provision with an identifier attribute
// holding the same citation path the API uses, so a title's XML can serve
// as an offline source of records.
package uslm

import (
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/mscarey/legislice-sub000/internal/schema"
)

// contentElements are the USLM elements whose text belongs to the
// provision itself rather than to a nested provision.
var contentElements = map[string]bool{
	"content":      true,
	"chapeau":      true,
	"continuation": true,
	"p":            true,
}

// identifierQuery finds the outermost element carrying a citation path.
var identifierQuery = xpath.MustCompile("//*[@identifier]")

// Parse reads a USLM document and builds the record tree rooted at its
// first identified provision. USLM carries no validity dates, so the
// caller supplies the start date recorded on every node.
func Parse(r io.Reader, startDate string) (schema.RawProvision, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return schema.RawProvision{}, fmt.Errorf("parsing USLM document: %w", err)
	}
	root := xmlquery.QuerySelector(doc, identifierQuery)
	if root == nil {
		return schema.RawProvision{}, fmt.Errorf("USLM document has no element with an identifier attribute")
	}
	return buildRecord(root, startDate), nil
}

// buildRecord converts one identified element and its identified
// descendants into records.
func buildRecord(node *xmlquery.Node, startDate string) schema.RawProvision {
	raw := schema.RawProvision{
		Node:      node.SelectAttr("identifier"),
		StartDate: startDate,
	}
	var contentParts []string
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != xmlquery.ElementNode {
			continue
		}
		switch {
		case child.Data == "heading":
			raw.Heading = collapseSpace(child.InnerText())
		case child.SelectAttr("identifier") != "":
			raw.Children = append(raw.Children, buildRecord(child, startDate))
		case contentElements[child.Data]:
			if text := collapseSpace(child.InnerText()); text != "" {
				contentParts = append(contentParts, text)
			}
		}
	}
	raw.Content = strings.Join(contentParts, " ")
	return raw
}

// collapseSpace trims and collapses runs of whitespace, which XML
// indentation otherwise leaves inside text nodes.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
