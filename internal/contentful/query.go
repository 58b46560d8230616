package contentful

import (
	"net/url"
	"strconv"
	"strings"
)

// Filter operators understood by the Content Delivery API.
const (
	OpEq     = ""
	OpNe     = "ne"
	OpLt     = "lt"
	OpLte    = "lte"
	OpGt     = "gt"
	OpGte    = "gte"
	OpIn     = "in"
	OpNin    = "nin"
	OpExists = "exists"
	OpMatch  = "match"
)

// Filter constrains a single field, e.g. fields.startDate[lt]=2024-01-01.
type Filter struct {
	Field  string
	Op     string
	Values []string
}

// Param renders the query parameter name for the filter.
func (f Filter) Param() string {
	if f.Op == OpEq {
		return f.Field
	}
	return f.Field + "[" + f.Op + "]"
}

// Query describes a GET /entries request. Zero values are omitted.
type Query struct {
	ContentType string
	// Order is a field path; a leading "-" sorts descending.
	Order   string
	Search  string
	Limit   int
	Skip    int
	Include int
	Locale  string
	Filters []Filter
}

// Where appends a filter when at least one non-empty value is given.
func (q Query) Where(field, op string, values ...string) Query {
	vs := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			vs = append(vs, v)
		}
	}
	if len(vs) == 0 {
		return q
	}
	filters := make([]Filter, 0, len(q.Filters)+1)
	filters = append(filters, q.Filters...)
	q.Filters = append(filters, Filter{Field: field, Op: op, Values: vs})
	return q
}

// Values encodes the query as URL parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.ContentType != "" {
		v.Set("content_type", q.ContentType)
	}
	if q.Order != "" {
		v.Set("order", q.Order)
	}
	if q.Search != "" {
		v.Set("query", q.Search)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Skip > 0 {
		v.Set("skip", strconv.Itoa(q.Skip))
	}
	if q.Include > 0 {
		v.Set("include", strconv.Itoa(q.Include))
	}
	if q.Locale != "" {
		v.Set("locale", q.Locale)
	}
	for _, f := range q.Filters {
		v.Set(f.Param(), strings.Join(f.Values, ","))
	}
	return v
}

// Encode returns the canonical (key-sorted) encoding, stable across calls.
func (q Query) Encode() string {
	return q.Values().Encode()
}
