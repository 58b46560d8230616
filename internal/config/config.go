package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"newsdesk/internal/search"

	"github.com/spf13/viper"
)

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"` // text or json
}

// ContentfulConfig holds Content Delivery API credentials.
type ContentfulConfig struct {
	SpaceID     string `mapstructure:"space_id"`
	AccessToken string `mapstructure:"access_token"`
	Environment string `mapstructure:"environment"`
	BaseURL     string `mapstructure:"base_url"`
	Preview     bool   `mapstructure:"preview"`
	Locale      string `mapstructure:"locale"`
	Include     int    `mapstructure:"include"`
	Timeout     string `mapstructure:"timeout"` // duration string, e.g., "10s"
}

// ContentConfig names the content types and entries the site reads.
type ContentConfig struct {
	EventType          string `mapstructure:"event_type"`
	NewsType           string `mapstructure:"news_type"`
	StoryType          string `mapstructure:"story_type"`
	PageEntryID        string `mapstructure:"page_entry_id"`
	PastEventsLookback int    `mapstructure:"past_events_lookback_years"`
}

// SearchConfig overrides the search-term substitution table.
type SearchConfig struct {
	Replacements []search.Replacement `mapstructure:"replacements"`
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig controls the Redis response cache.
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	TTL     string `mapstructure:"ttl"` // duration string, e.g., "5m"
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// WarmerConfig controls periodic landing prefetches.
type WarmerConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	Interval string   `mapstructure:"interval"` // duration string, e.g., "4m"
	Terms    []string `mapstructure:"terms"`    // "" warms the unfiltered landing page
	Limit    int      `mapstructure:"limit"`
}

// Config is the top-level configuration structure.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Contentful ContentfulConfig `mapstructure:"contentful"`
	Content    ContentConfig    `mapstructure:"content"`
	Search     SearchConfig     `mapstructure:"search"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Server     ServerConfig     `mapstructure:"server"`
	Warmer     WarmerConfig     `mapstructure:"warmer"`
}

// envBindings maps config keys to the environment variables the site's
// deployment already sets, in both spellings.
var envBindings = map[string][]string{
	"contentful.space_id":     {"CTF_SPACE_ID", "ctf_space_id"},
	"contentful.access_token": {"CTF_CDA_ACCESS_TOKEN", "ctf_cda_access_token"},
	"content.event_type":      {"CTF_EVENT_ID", "ctf_event_id"},
	"content.news_type":       {"CTF_NEWS_ID", "ctf_news_id"},
	"content.page_entry_id":   {"CTF_NEWS_AND_EVENTS_PAGE_ID", "ctf_news_and_events_page_id"},
}

// BindEnv registers environment overrides on v: NEWSDESK_<SECTION>_<KEY> for
// every config key, plus the CTF_* variables.
func BindEnv(v *viper.Viper) error {
	v.SetEnvPrefix("newsdesk")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range Keys() {
		prefixed := "NEWSDESK_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		args := append([]string{key, prefixed}, envBindings[key]...)
		if err := v.BindEnv(args...); err != nil {
			return err
		}
	}
	return nil
}

// Keys lists every dotted config key, e.g. "cache.enabled".
func Keys() []string {
	return leafKeys(reflect.TypeOf(Config{}), "")
}

func leafKeys(t reflect.Type, prefix string) []string {
	var keys []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := f.Tag.Get("mapstructure")
		if name == "" {
			continue
		}
		if prefix != "" {
			name = prefix + "." + name
		}
		if f.Type.Kind() == reflect.Struct {
			keys = append(keys, leafKeys(f.Type, name)...)
			continue
		}
		keys = append(keys, name)
	}
	return keys
}

// Load unmarshals v into a Config and applies defaults.
func Load(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("parse config: %w", err)
	}
	c.FillDefaults()
	return c, nil
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.LogFormat == "" {
		c.App.LogFormat = "text"
	}
	if c.Contentful.Environment == "" {
		c.Contentful.Environment = "master"
	}
	if c.Contentful.Timeout == "" {
		c.Contentful.Timeout = "10s"
	}
	if c.Content.StoryType == "" {
		c.Content.StoryType = "successStoryDisplay"
	}
	if c.Content.PastEventsLookback == 0 {
		c.Content.PastEventsLookback = 2
	}
	if len(c.Search.Replacements) == 0 {
		c.Search.Replacements = search.DefaultReplacements()
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
	if c.Cache.TTL == "" {
		c.Cache.TTL = "5m"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Warmer.Interval == "" {
		c.Warmer.Interval = "4m"
	}
	if len(c.Warmer.Terms) == 0 {
		c.Warmer.Terms = []string{""}
	}
	if c.Warmer.Limit == 0 {
		c.Warmer.Limit = 3
	}
}

// Validate reports missing required settings and unparsable durations.
func (c Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Contentful.SpaceID) == "" {
		missing = append(missing, "contentful.space_id")
	}
	if strings.TrimSpace(c.Contentful.AccessToken) == "" {
		missing = append(missing, "contentful.access_token")
	}
	if strings.TrimSpace(c.Content.EventType) == "" {
		missing = append(missing, "content.event_type")
	}
	if strings.TrimSpace(c.Content.NewsType) == "" {
		missing = append(missing, "content.news_type")
	}
	if strings.TrimSpace(c.Content.PageEntryID) == "" {
		missing = append(missing, "content.page_entry_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config missing: %s", strings.Join(missing, ", "))
	}
	for name, raw := range map[string]string{
		"contentful.timeout": c.Contentful.Timeout,
		"cache.ttl":          c.Cache.TTL,
		"warmer.interval":    c.Warmer.Interval,
	} {
		if d, err := time.ParseDuration(raw); err != nil || d <= 0 {
			return fmt.Errorf("invalid %s %q", name, raw)
		}
	}
	if c.Content.PastEventsLookback < 0 {
		return fmt.Errorf("content.past_events_lookback_years cannot be negative")
	}
	return nil
}

// Duration parses a duration field that Validate has already checked.
func Duration(raw string) time.Duration {
	d, _ := time.ParseDuration(raw)
	return d
}
