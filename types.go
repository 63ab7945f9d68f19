package main

import (
	"errors"
	"fmt"
	"slices"
)

// Categories is the fixed rotation of NewsAPI top-headline categories.
var Categories = []string{"business", "technology", "sports", "health", "entertainment", "science"}

// PlaceholderDescription replaces a missing or null article description.
const PlaceholderDescription = "Read more about this news."

// PostMarker prefixes every composed post.
const PostMarker = "📰 "

// Article is the top headline of one category, held for a single cycle
type Article struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// CycleStatus represents the outcome of one fetch → summarize → publish cycle
type CycleStatus string

const (
	StatusPosted  CycleStatus = "posted"
	StatusSkipped CycleStatus = "skipped"
	StatusError   CycleStatus = "error"
)

// CycleResult tracks the outcome of a cycle
type CycleResult struct {
	Category string
	Status   CycleStatus
	Post     string
	Error    error
}

var (
	ErrNoArticle          = errors.New("no article found")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrEmptyInput         = errors.New("empty input")
	ErrMissingCredentials = errors.New("missing required credentials")
)

// HTTPError represents an HTTP error with status code
type HTTPError struct {
	StatusCode int
	URL        string
	Detail     string
}

func (e *HTTPError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("HTTP %d for %s: %s", e.StatusCode, e.URL, e.Detail)
	}
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

// FetchError wraps transport and decoding failures of the news source
type FetchError struct {
	Category string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s headlines: %v", e.Category, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// SummarizeError wraps failures of the summarization backend
type SummarizeError struct {
	Err error
}

func (e *SummarizeError) Error() string {
	return fmt.Sprintf("summarizing: %v", e.Err)
}

func (e *SummarizeError) Unwrap() error { return e.Err }

// PublishError wraps failures of the posting API
type PublishError struct {
	Err error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publishing: %v", e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

// ComposePost builds the post text: marker, title, summary and link
// separated by blank lines.
func ComposePost(title, summary, url string) string {
	return PostMarker + title + "\n\n" + summary + "\n\n" + url
}

// categoryIndex returns the rotation position of category, or -1
func categoryIndex(category string) int {
	return slices.Index(Categories, category)
}

func isCategory(category string) bool {
	return categoryIndex(category) >= 0
}
