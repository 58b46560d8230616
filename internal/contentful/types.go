package contentful

import (
	"encoding/json"
	"fmt"
)

// Sys is the system metadata attached to every Contentful resource.
type Sys struct {
	ID          string `json:"id,omitempty"`
	Type        string `json:"type,omitempty"`
	LinkType    string `json:"linkType,omitempty"`
	ContentType *Link  `json:"contentType,omitempty"`
	Locale      string `json:"locale,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
	Revision    int    `json:"revision,omitempty"`
}

// ContentTypeID returns the id of the entry's content type, if present.
func (s Sys) ContentTypeID() string {
	if s.ContentType == nil {
		return ""
	}
	return s.ContentType.Sys.ID
}

// IsLink reports whether the resource is an unresolved link.
func (s Sys) IsLink() bool { return s.Type == "Link" }

// Link references another resource by id.
type Link struct {
	Sys Sys `json:"sys"`
}

// Asset is a media file managed by Contentful.
type Asset struct {
	Sys    Sys         `json:"sys"`
	Fields AssetFields `json:"fields"`
}

type AssetFields struct {
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	File        AssetFile `json:"file,omitempty"`
}

type AssetFile struct {
	URL         string       `json:"url,omitempty"`
	FileName    string       `json:"fileName,omitempty"`
	ContentType string       `json:"contentType,omitempty"`
	Details     AssetDetails `json:"details,omitempty"`
}

type AssetDetails struct {
	Size  int64 `json:"size,omitempty"`
	Image struct {
		Width  int `json:"width,omitempty"`
		Height int `json:"height,omitempty"`
	} `json:"image,omitempty"`
}

// RawEntry is an entry whose fields have not been decoded into a type yet.
// Links in Fields are already resolved against the response includes.
type RawEntry struct {
	Sys    Sys             `json:"sys"`
	Fields json.RawMessage `json:"fields,omitempty"`
}

// RawCollection is one page of raw entries.
type RawCollection struct {
	Total int        `json:"total"`
	Skip  int        `json:"skip"`
	Limit int        `json:"limit"`
	Items []RawEntry `json:"items"`
}

// Entry is a decoded entry with fields of type T.
type Entry[T any] struct {
	Sys    Sys `json:"sys"`
	Fields T   `json:"fields"`
}

// Collection is one page of decoded entries.
type Collection[T any] struct {
	Total int        `json:"total"`
	Skip  int        `json:"skip"`
	Limit int        `json:"limit"`
	Items []Entry[T] `json:"items"`
}

// DecodeEntry decodes the raw fields of e into T.
func DecodeEntry[T any](e RawEntry) (Entry[T], error) {
	out := Entry[T]{Sys: e.Sys}
	if len(e.Fields) == 0 {
		return out, nil
	}
	if err := JSON.Unmarshal(e.Fields, &out.Fields); err != nil {
		return out, fmt.Errorf("contentful: decode entry %s: %w", e.Sys.ID, err)
	}
	return out, nil
}

// DecodeCollection decodes every item of c into T, preserving order.
func DecodeCollection[T any](c *RawCollection) (Collection[T], error) {
	var out Collection[T]
	if c == nil {
		return out, nil
	}
	out.Total, out.Skip, out.Limit = c.Total, c.Skip, c.Limit
	out.Items = make([]Entry[T], 0, len(c.Items))
	for _, raw := range c.Items {
		e, err := DecodeEntry[T](raw)
		if err != nil {
			return Collection[T]{}, err
		}
		out.Items = append(out.Items, e)
	}
	return out, nil
}
