package contentful

import "encoding/json"

// maxLinkDepth bounds link resolution; the API itself never includes more
// than ten levels, and it stops reference cycles from expanding forever.
const maxLinkDepth = 10

type rawResource struct {
	Sys    Sys            `json:"sys"`
	Fields map[string]any `json:"fields"`
}

type entriesResponse struct {
	Total    int           `json:"total"`
	Skip     int           `json:"skip"`
	Limit    int           `json:"limit"`
	Items    []rawResource `json:"items"`
	Includes struct {
		Entry []rawResource `json:"Entry"`
		Asset []rawResource `json:"Asset"`
	} `json:"includes"`
}

type resolver struct {
	index map[string]rawResource
}

func linkKey(linkType, id string) string { return linkType + ":" + id }

func newResolver(resp *entriesResponse) *resolver {
	r := &resolver{index: make(map[string]rawResource, len(resp.Items)+len(resp.Includes.Entry)+len(resp.Includes.Asset))}
	for _, it := range resp.Items {
		r.index[linkKey("Entry", it.Sys.ID)] = it
	}
	for _, it := range resp.Includes.Entry {
		r.index[linkKey("Entry", it.Sys.ID)] = it
	}
	for _, it := range resp.Includes.Asset {
		r.index[linkKey("Asset", it.Sys.ID)] = it
	}
	return r
}

// collection converts the response into a RawCollection with resolved links.
func (r *resolver) collection(resp *entriesResponse) (*RawCollection, error) {
	out := &RawCollection{
		Total: resp.Total,
		Skip:  resp.Skip,
		Limit: resp.Limit,
		Items: make([]RawEntry, 0, len(resp.Items)),
	}
	for _, it := range resp.Items {
		e := RawEntry{Sys: it.Sys}
		if it.Fields != nil {
			b, err := JSON.Marshal(r.fields(it.Fields, 0))
			if err != nil {
				return nil, err
			}
			e.Fields = json.RawMessage(b)
		}
		out.Items = append(out.Items, e)
	}
	return out, nil
}

func (r *resolver) fields(f map[string]any, depth int) map[string]any {
	out := make(map[string]any, len(f))
	for k, v := range f {
		out[k] = r.value(v, depth)
	}
	return out
}

func (r *resolver) value(v any, depth int) any {
	switch t := v.(type) {
	case map[string]any:
		if target, ok := r.lookup(t); ok {
			if depth >= maxLinkDepth {
				return t
			}
			resolved := map[string]any{"sys": target.Sys}
			if target.Fields != nil {
				resolved["fields"] = r.fields(target.Fields, depth+1)
			}
			return resolved
		}
		return r.fields(t, depth)
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = r.value(vv, depth)
		}
		return out
	default:
		return v
	}
}

// lookup returns the included resource a link object points at.
func (r *resolver) lookup(m map[string]any) (rawResource, bool) {
	sys, ok := m["sys"].(map[string]any)
	if !ok || sys["type"] != "Link" {
		return rawResource{}, false
	}
	linkType, _ := sys["linkType"].(string)
	id, _ := sys["id"].(string)
	target, ok := r.index[linkKey(linkType, id)]
	return target, ok
}
