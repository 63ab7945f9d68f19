package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// NewsSource returns the top headline for a category
type NewsSource interface {
	FetchTopHeadline(ctx context.Context, category string) (*Article, error)
}

// NewsAPIClient queries the NewsAPI top-headlines endpoint
type NewsAPIClient struct {
	apiKey    string
	baseURL   string
	country   string
	client    *http.Client
	converter *md.Converter
}

// NewNewsAPIClient creates a client scoped to a single country
func NewNewsAPIClient(apiKey, baseURL, country string) *NewsAPIClient {
	return &NewsAPIClient{
		apiKey:    apiKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		country:   country,
		client:    &http.Client{Timeout: 30 * time.Second},
		converter: newDescriptionConverter(),
	}
}

// newDescriptionConverter reduces description HTML to plain text. Markup and
// escapes would otherwise end up verbatim in the post.
func newDescriptionConverter() *md.Converter {
	conv := md.NewConverter("", true, &md.Options{EscapeMode: "disabled"})
	conv.AddRules(
		md.Rule{
			Filter:      []string{"a", "strong", "b", "em", "i", "code", "kbd", "samp", "tt", "del", "s", "strike"},
			Replacement: textContent,
		},
		md.Rule{
			Filter:      []string{"h1", "h2", "h3", "h4", "h5", "h6", "li", "blockquote", "pre"},
			Replacement: textBlock,
		},
		md.Rule{
			Filter: []string{"img"},
			Replacement: func(content string, selec *goquery.Selection, opt *md.Options) *string {
				return md.String("")
			},
		},
	)
	return conv
}

func textContent(content string, selec *goquery.Selection, opt *md.Options) *string {
	return md.String(content)
}

func textBlock(content string, selec *goquery.Selection, opt *md.Options) *string {
	return md.String("\n\n" + content + "\n\n")
}

type newsAPIResponse struct {
	Status   string           `json:"status"`
	Code     string           `json:"code"`
	Message  string           `json:"message"`
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Description *string `json:"description"`
}

var htmlTagPattern = regexp.MustCompile(`<[a-zA-Z/][^>]*>`)

// FetchTopHeadline returns the first article NewsAPI ranks for the category.
// An empty result is reported as ErrNoArticle, every other failure as *FetchError.
func (c *NewsAPIClient) FetchTopHeadline(ctx context.Context, category string) (*Article, error) {
	if !isCategory(category) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	article, err := c.fetch(ctx, category)
	if err != nil {
		log.Printf("Error fetching news: %v", err)
		return nil, &FetchError{Category: category, Err: err}
	}
	if article == nil {
		log.Printf("No news found in the %s category.", category)
		return nil, ErrNoArticle
	}
	return article, nil
}

func (c *NewsAPIClient) fetch(ctx context.Context, category string) (*Article, error) {
	endpoint := c.baseURL + "/top-headlines"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	q := url.Values{}
	q.Set("country", c.country)
	q.Set("category", category)
	q.Set("apiKey", c.apiKey)
	req.URL.RawQuery = q.Encode()

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var raw newsAPIResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, &HTTPError{StatusCode: resp.StatusCode, URL: endpoint}
		}
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	debugLog("NewsAPI response: http=%d status=%q articles=%d", resp.StatusCode, raw.Status, len(raw.Articles))

	if raw.Status != "ok" || len(raw.Articles) == 0 {
		if raw.Code != "" || raw.Message != "" {
			debugLog("NewsAPI error for %s: code=%q message=%q", category, raw.Code, raw.Message)
		}
		return nil, nil
	}

	first := raw.Articles[0]
	if first.Title == "" || first.URL == "" {
		return nil, fmt.Errorf("first article is missing title or url")
	}

	return &Article{
		Title:       first.Title,
		URL:         first.URL,
		Description: c.cleanDescription(first.Description),
	}, nil
}

// cleanDescription applies the placeholder for missing descriptions and turns
// HTML descriptions into text
func (c *NewsAPIClient) cleanDescription(description *string) string {
	if description == nil || strings.TrimSpace(*description) == "" {
		return PlaceholderDescription
	}

	text := strings.TrimSpace(*description)
	if htmlTagPattern.MatchString(text) {
		converted, err := c.converter.ConvertString(text)
		if err != nil {
			debugLog("could not convert description HTML: %v", err)
		} else {
			text = converted
		}
	}

	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return PlaceholderDescription
	}
	return text
}
