// Package listquery implements the catalog list query grammar shared by the
// API and its clients.
//
// A serialized query looks like:
//
//	page=2&size=10&filter=name~~'flu' and manufacturer~~'gsk'&sort=price,asc
//
// Each filter predicate is a case-insensitive "contains" match on one column,
// AND-joined. The filter segment is omitted entirely when no filter fields
// are set. At most one sort directive is honored per query.
package listquery

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const (
	DefaultPage = 1
	DefaultSize = 10
	MaxSize     = 100
)

// FilterFields is the fixed set of free-text filterable columns, in
// serialization order.
var FilterFields = []string{"name", "manufacturer", "disease", "centerName"}

// SortFields is scanned in a fixed order when building. When several fields
// carry a direction, the last-checked one wins; multi-column sort is not
// supported.
var SortFields = []string{"name", "price", "createdAt"}

// Direction is a sort direction as reported by table UI state.
type Direction string

const (
	Ascend  Direction = "ascend"
	Descend Direction = "descend"
)

// short maps the UI direction to the wire form.
func (d Direction) short() string {
	if d == Descend {
		return "desc"
	}
	return "asc"
}

// Params carries the table UI state serialized into a list request.
type Params struct {
	Page    int
	Size    int
	Filters map[string]string // column → contains text
}

// Sort maps a column to its direction. Only one entry is honored; see
// SortFields for the precedence scan.
type Sort map[string]Direction

// Build serializes params and sort into the wire query string. The filter
// expression is emitted verbatim (not percent-encoded) because the backend
// filter grammar consumes it literally.
func Build(p Params, sort Sort) string {
	page := p.Page
	if page <= 0 {
		page = DefaultPage
	}
	size := p.Size
	if size <= 0 {
		size = DefaultSize
	}

	parts := []string{
		"page=" + strconv.Itoa(page),
		"size=" + strconv.Itoa(size),
	}

	var preds []string
	for _, field := range FilterFields {
		if v := p.Filters[field]; v != "" {
			preds = append(preds, fmt.Sprintf("%s~~'%s'", field, v))
		}
	}
	if len(preds) > 0 {
		parts = append(parts, "filter="+strings.Join(preds, " and "))
	}

	var sortField string
	var dir Direction
	for _, field := range SortFields {
		if d, ok := sort[field]; ok && d != "" {
			// last-checked field wins when several are set
			sortField, dir = field, d
		}
	}
	if sortField != "" {
		parts = append(parts, "sort="+sortField+","+dir.short())
	}

	return strings.Join(parts, "&")
}

// ErrInvalid marks a query string that does not conform to the grammar.
var ErrInvalid = errors.New("invalid list query")

// Predicate is one parsed contains-filter.
type Predicate struct {
	Field string
	Text  string
}

// Query is the parsed form consumed by the catalog service.
type Query struct {
	Page      int
	Size      int
	Filters   []Predicate
	SortField string
	SortAsc   bool
}

// HasSort reports whether a sort directive was present.
func (q Query) HasSort() bool { return q.SortField != "" }

var predicatePattern = regexp.MustCompile(`^(\w+)~~'(.*)'$`)

// Parse decodes the wire query into a Query. Unknown pagination values fall
// back to defaults; size is capped at MaxSize. A filter segment that does not
// match the grammar, or a sort parameter carrying more than one directive,
// yields an error wrapping ErrInvalid.
func Parse(values url.Values) (Query, error) {
	q := Query{
		Page: DefaultPage,
		Size: DefaultSize,
	}

	if v := values.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Query{}, fmt.Errorf("%w: bad page %q", ErrInvalid, v)
		}
		q.Page = n
	}
	if v := values.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Query{}, fmt.Errorf("%w: bad size %q", ErrInvalid, v)
		}
		if n > MaxSize {
			n = MaxSize
		}
		q.Size = n
	}

	if expr := values.Get("filter"); expr != "" {
		for _, raw := range strings.Split(expr, " and ") {
			m := predicatePattern.FindStringSubmatch(strings.TrimSpace(raw))
			if m == nil {
				return Query{}, fmt.Errorf("%w: bad filter predicate %q", ErrInvalid, raw)
			}
			q.Filters = append(q.Filters, Predicate{Field: m[1], Text: m[2]})
		}
	}

	switch sorts := values["sort"]; {
	case len(sorts) > 1:
		return Query{}, fmt.Errorf("%w: multi-column sort unsupported", ErrInvalid)
	case len(sorts) == 1 && sorts[0] != "":
		field, dir, ok := strings.Cut(sorts[0], ",")
		if !ok || field == "" || (dir != "asc" && dir != "desc") {
			return Query{}, fmt.Errorf("%w: bad sort %q", ErrInvalid, sorts[0])
		}
		q.SortField = field
		q.SortAsc = dir == "asc"
	}

	return q, nil
}
