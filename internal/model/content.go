package model

import "newsdesk/internal/contentful"

// Event is the field set of an event entry.
type Event struct {
	Title     string            `json:"title,omitempty"`
	Summary   string            `json:"summary,omitempty"`
	URL       string            `json:"url,omitempty"`
	Location  string            `json:"location,omitempty"`
	StartDate string            `json:"startDate,omitempty"` // ISO 8601
	EndDate   string            `json:"endDate,omitempty"`   // ISO 8601
	EventType string            `json:"eventType,omitempty"`
	Image     *contentful.Asset `json:"image,omitempty"`
}

// NewsItem is the field set of a news entry.
type NewsItem struct {
	Title         string `json:"title,omitempty"`
	Summary       string `json:"summary,omitempty"`
	URL           string `json:"url,omitempty"`
	PublishedDate string `json:"publishedDate,omitempty"` // ISO 8601
}

// SuccessStory is the field set of a successStoryDisplay entry.
type SuccessStory struct {
	Title      string `json:"title,omitempty"`
	YoutubeURL string `json:"youtubeUrl,omitempty"`
}

// PageData is the news-and-events landing page singleton.
type PageData struct {
	FeaturedEvent *EventEntry       `json:"featuredEvent,omitempty"`
	PageTitle     string            `json:"page_title,omitempty"`
	HeroCopy      string            `json:"heroCopy,omitempty"`
	HeroImage     *contentful.Asset `json:"heroImage,omitempty"`
}

type (
	EventEntry      = contentful.Entry[Event]
	NewsEntry       = contentful.Entry[NewsItem]
	StoryEntry      = contentful.Entry[SuccessStory]
	PageEntry       = contentful.Entry[PageData]
	EventCollection = contentful.Collection[Event]
	NewsCollection  = contentful.Collection[NewsItem]
	StoryCollection = contentful.Collection[SuccessStory]
)
