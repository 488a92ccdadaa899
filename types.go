package blogapi

import (
	"strings"
	"time"
)

// Post is the core content type stored in SQLite and served over the API.
type Post struct {
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Excerpt    string    `json:"excerpt"`
	Content    string    `json:"content"`
	Author     string    `json:"author"`
	Tags       []string  `json:"tags"`
	CoverImage string    `json:"cover_image,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PostSummary is a Post without its content body. Listings are
// metadata-only; the full body is fetched via single-post retrieval.
type PostSummary struct {
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Excerpt    string    `json:"excerpt"`
	Author     string    `json:"author"`
	Tags       []string  `json:"tags"`
	CoverImage string    `json:"cover_image,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Validate checks the entity constraints that every stored post must
// satisfy, regardless of where it came from.
func (p Post) Validate() *ValidationError {
	if strings.TrimSpace(p.Title) == "" {
		return &ValidationError{Field: "title", Message: "title must not be empty"}
	}
	if strings.TrimSpace(p.Slug) == "" {
		return &ValidationError{Field: "slug", Message: "slug must not be empty"}
	}
	return nil
}

// Summary returns the metadata-only view of p.
func (p Post) Summary() PostSummary {
	return PostSummary{
		Title:      p.Title,
		Slug:       p.Slug,
		Excerpt:    p.Excerpt,
		Author:     p.Author,
		Tags:       p.Tags,
		CoverImage: p.CoverImage,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// ListPage is one window of a filtered, sorted listing.
type ListPage struct {
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	Total int           `json:"total"`
	Pages int           `json:"pages"`
	Items []PostSummary `json:"items"`
}

// SeedResult reports the outcome of a seeding run.
type SeedResult struct {
	Inserted int // records newly inserted by this run
	Existing int // posts already present before the run
	Total    int // posts in the store after the run
}
