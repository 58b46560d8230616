package contentful

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

const (
	DeliveryBaseURL = "https://cdn.contentful.com"
	PreviewBaseURL  = "https://preview.contentful.com"
)

// JSON is the codec used for every CMS payload and cached response.
var JSON = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// Config configures a Content Delivery API client.
type Config struct {
	SpaceID     string
	AccessToken string
	Environment string // defaults to "master"
	BaseURL     string // overrides the delivery/preview host
	Preview     bool
	Locale      string // applied when a query sets none
	Include     int    // link depth applied when a query sets none
	Timeout     time.Duration
}

// Client is a minimal Contentful Content Delivery API client.
// Docs: https://www.contentful.com/developers/docs/references/content-delivery-api/
type Client struct {
	baseURL string
	token   string
	locale  string
	include int
	client  *http.Client
}

// NewClient creates a client for one space environment.
func NewClient(cfg Config) *Client {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = DeliveryBaseURL
		if cfg.Preview {
			base = PreviewBaseURL
		}
	}
	env := strings.TrimSpace(cfg.Environment)
	if env == "" {
		env = "master"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: fmt.Sprintf("%s/spaces/%s/environments/%s",
			strings.TrimRight(base, "/"), url.PathEscape(cfg.SpaceID), url.PathEscape(env)),
		token:   cfg.AccessToken,
		locale:  cfg.Locale,
		include: cfg.Include,
		client:  &http.Client{Timeout: timeout},
	}
}

// GetEntries runs an entries query and resolves links against the included
// entries and assets.
func (c *Client) GetEntries(ctx context.Context, q Query) (*RawCollection, error) {
	if q.Locale == "" {
		q.Locale = c.locale
	}
	if q.Include == 0 {
		q.Include = c.include
	}
	endpoint := c.baseURL + "/entries"
	if enc := q.Encode(); enc != "" {
		endpoint += "?" + enc
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeError(resp)
	}
	var body entriesResponse
	if err := JSON.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("contentful: decode entries: %w", err)
	}
	return newResolver(&body).collection(&body)
}

// GetEntry fetches one entry by id. It goes through the entries endpoint so
// that the entry's links are resolved like any other query.
func (c *Client) GetEntry(ctx context.Context, id string) (*RawEntry, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("contentful: empty entry id")
	}
	col, err := c.GetEntries(ctx, Query{}.Where("sys.id", OpEq, id))
	if err != nil {
		return nil, err
	}
	if len(col.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &col.Items[0], nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		RequestID:  resp.Header.Get("X-Contentful-Request-Id"),
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var env errorEnvelope
	if err := JSON.Unmarshal(b, &env); err == nil {
		apiErr.ID = env.Sys.ID
		apiErr.Message = env.Message
		if env.RequestID != "" {
			apiErr.RequestID = env.RequestID
		}
	}
	return apiErr
}
