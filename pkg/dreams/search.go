package dreams

import (
	"fmt"
	"sort"
	"strings"
)

// Search returns the records whose title, text, detected symbols or declared
// emotions contain query, case-insensitively. A blank query matches all.
func Search(query string, history []Record) []Record {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return append([]Record(nil), history...)
	}

	var out []Record
	for _, r := range history {
		if matches(r, q) {
			out = append(out, r)
		}
	}
	return out
}

// Matches reports whether r would be returned by Search(query).
func Matches(r Record, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	return q == "" || matches(r, q)
}

func matches(r Record, q string) bool {
	if strings.Contains(strings.ToLower(r.Title), q) || strings.Contains(strings.ToLower(r.Text), q) {
		return true
	}
	for _, s := range r.Analysis.Symbols {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	for _, e := range r.Metadata.Emotions {
		if strings.Contains(strings.ToLower(e), q) {
			return true
		}
	}
	return false
}

// FilterOptions narrows a history. Empty fields do not filter.
type FilterOptions struct {
	DreamType string
	Emotion   string
}

// Filter keeps the records matching every non-empty option. Filtering on
// TypeUnspecified selects records that have no dream type.
func Filter(history []Record, opts FilterOptions) []Record {
	var out []Record
	for _, r := range history {
		if opts.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Match reports whether r satisfies every non-empty option.
func (o FilterOptions) Match(r Record) bool {
	if o.DreamType != "" && dreamTypeOf(r) != o.DreamType {
		return false
	}
	if o.Emotion != "" && !containsString(r.Metadata.Emotions, o.Emotion) {
		return false
	}
	return true
}

// SortOrder names an ordering of a history listing.
type SortOrder string

const (
	SortDateDesc SortOrder = "date-desc"
	SortDateAsc  SortOrder = "date-asc"
	SortTitle    SortOrder = "title"
)

// ParseSortOrder validates a user-supplied order; empty means SortDateDesc.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case "":
		return SortDateDesc, nil
	case SortDateDesc, SortDateAsc, SortTitle:
		return SortOrder(s), nil
	}
	return "", fmt.Errorf("unknown sort order %q (want %s, %s or %s)", s, SortDateDesc, SortDateAsc, SortTitle)
}

// Sort returns a sorted copy of history.
func Sort(history []Record, order SortOrder) []Record {
	out := append([]Record(nil), history...)
	less := order.Less()
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Less returns the comparison behind order. Dates compare as strings, which
// orders correctly for the fixed-width layout records are stamped with.
func (o SortOrder) Less() func(a, b Record) bool {
	switch o {
	case SortDateAsc:
		return func(a, b Record) bool { return a.Date < b.Date }
	case SortTitle:
		return func(a, b Record) bool { return a.Title < b.Title }
	default:
		return func(a, b Record) bool { return a.Date > b.Date }
	}
}

// DistinctDreamTypes lists dream types in order of first appearance; records
// without one contribute TypeUnspecified.
func DistinctDreamTypes(history []Record) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, r := range history {
		t := dreamTypeOf(r)
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// DistinctEmotions lists declared emotions in order of first appearance.
func DistinctEmotions(history []Record) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, r := range history {
		for _, e := range r.Metadata.Emotions {
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			out = append(out, e)
		}
	}
	return out
}

func dreamTypeOf(r Record) string {
	if r.Metadata.DreamType == "" {
		return TypeUnspecified
	}
	return r.Metadata.DreamType
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
