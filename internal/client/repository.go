package client

import (
	"context"
	"sort"
	"strings"

	"github.com/mscarey/legislice-sub000/internal/schema"
)

// JSONRepository resolves provision queries from local records instead of
// the network. Responses are indexed by path and then by ISO date, so a
// repository can hold several versions of the same provision.
type JSONRepository struct {
	responses map[string]map[string]schema.RawProvision
}

// NewJSONRepository returns an empty repository.
func NewJSONRepository() *JSONRepository {
	return &JSONRepository{responses: make(map[string]map[string]schema.RawProvision)}
}

// AddResponse stores a record under its own node path and start date.
func (r *JSONRepository) AddResponse(raw schema.RawProvision) {
	path := NormalizePath(raw.Node)
	if r.responses[path] == nil {
		r.responses[path] = make(map[string]schema.RawProvision)
	}
	r.responses[path][raw.StartDate] = raw
}

// Fetch implements Fetcher. The stored entry whose path most closely
// encloses the query is searched for the exact node; among that node's
// versions, the latest one starting on or before the requested date is
// chosen (the latest of all with an empty date).
func (r *JSONRepository) Fetch(_ context.Context, path, date string) (schema.RawProvision, error) {
	path = NormalizePath(path)
	byDate := r.closestEntry(path)
	if byDate == nil {
		return schema.RawProvision{}, &PathError{Path: path}
	}
	chosen, ok := pickVersion(byDate, date)
	if !ok {
		return schema.RawProvision{}, &PathError{Path: path}
	}
	found, ok := searchTree(chosen, path)
	if !ok {
		return schema.RawProvision{}, &PathError{Path: path}
	}
	return found, nil
}

// closestEntry finds the stored responses for the longest path that the
// query path starts with.
func (r *JSONRepository) closestEntry(path string) map[string]schema.RawProvision {
	if byDate, ok := r.responses[path]; ok {
		return byDate
	}
	best := ""
	for stored := range r.responses {
		if strings.HasPrefix(path, stored+"/") && len(stored) > len(best) {
			best = stored
		}
	}
	if best == "" {
		return nil
	}
	return r.responses[best]
}

// pickVersion chooses the latest version dated on or before the query
// date, or the latest overall when no date is given.
func pickVersion(byDate map[string]schema.RawProvision, date string) (schema.RawProvision, bool) {
	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	// ISO dates sort correctly as strings.
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	for _, d := range dates {
		if date == "" || d <= date {
			return byDate[d], true
		}
	}
	return schema.RawProvision{}, false
}

// searchTree descends a record tree looking for the exact node path.
func searchTree(branch schema.RawProvision, path string) (schema.RawProvision, bool) {
	if NormalizePath(branch.Node) == path {
		return branch, true
	}
	for _, child := range branch.Children {
		// Match on segment boundaries so /11/i does not claim /11/ii.
		if strings.HasPrefix(path, NormalizePath(child.Node)+"/") {
			return searchTree(child, path)
		}
		if NormalizePath(child.Node) == path {
			return child, true
		}
	}
	return schema.RawProvision{}, false
}
