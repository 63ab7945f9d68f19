package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"
)

func newTestNewsClient(baseURL string) *NewsAPIClient {
	return NewNewsAPIClient("test-key", baseURL, "us")
}

func serveJSON(t *testing.T, status int, payload interface{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(payload)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchTopHeadlineFirstArticle(t *testing.T) {
	for _, category := range Categories {
		t.Run(category, func(t *testing.T) {
			var gotQuery map[string]string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotQuery = map[string]string{
					"path":     r.URL.Path,
					"country":  r.URL.Query().Get("country"),
					"category": r.URL.Query().Get("category"),
					"apiKey":   r.URL.Query().Get("apiKey"),
				}
				json.NewEncoder(w).Encode(map[string]interface{}{
					"status": "ok",
					"articles": []map[string]interface{}{
						{"title": "First " + category, "url": "https://example.com/1", "description": "First description."},
						{"title": "Second", "url": "https://example.com/2", "description": "Second description."},
					},
				})
			}))
			defer srv.Close()

			article, err := newTestNewsClient(srv.URL).FetchTopHeadline(context.Background(), category)

			assert.Equal(t, nil, err)
			assert.Equal(t, "First "+category, article.Title)
			assert.Equal(t, "https://example.com/1", article.URL)
			assert.Equal(t, "First description.", article.Description)

			assert.Equal(t, "/top-headlines", gotQuery["path"])
			assert.Equal(t, "us", gotQuery["country"])
			assert.Equal(t, category, gotQuery["category"])
			assert.Equal(t, "test-key", gotQuery["apiKey"])
		})
	}
}

func TestFetchTopHeadlineDescriptionPlaceholder(t *testing.T) {
	tests := []struct {
		name    string
		article map[string]interface{}
	}{
		{
			name:    "null description",
			article: map[string]interface{}{"title": "T", "url": "https://example.com", "description": nil},
		},
		{
			name:    "missing description",
			article: map[string]interface{}{"title": "T", "url": "https://example.com"},
		},
		{
			name:    "blank description",
			article: map[string]interface{}{"title": "T", "url": "https://example.com", "description": "   "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serveJSON(t, http.StatusOK, map[string]interface{}{
				"status":   "ok",
				"articles": []map[string]interface{}{tt.article},
			})

			article, err := newTestNewsClient(srv.URL).FetchTopHeadline(context.Background(), "science")

			assert.Equal(t, nil, err)
			assert.Equal(t, PlaceholderDescription, article.Description)
		})
	}
}

func TestFetchTopHeadlineNoArticle(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload map[string]interface{}
	}{
		{
			name:    "empty articles",
			status:  http.StatusOK,
			payload: map[string]interface{}{"status": "ok", "totalResults": 0, "articles": []interface{}{}},
		},
		{
			name:   "error status",
			status: http.StatusUnauthorized,
			payload: map[string]interface{}{
				"status":  "error",
				"code":    "apiKeyInvalid",
				"message": "Your API key is invalid or incorrect.",
			},
		},
		{
			name:   "non-ok status with articles",
			status: http.StatusOK,
			payload: map[string]interface{}{
				"status":   "degraded",
				"articles": []map[string]interface{}{{"title": "T", "url": "https://example.com"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serveJSON(t, tt.status, tt.payload)

			article, err := newTestNewsClient(srv.URL).FetchTopHeadline(context.Background(), "health")

			assert.Equal(t, (*Article)(nil), article)
			assert.Equal(t, true, errors.Is(err, ErrNoArticle))
		})
	}
}

func TestFetchTopHeadlineTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	article, err := newTestNewsClient(baseURL).FetchTopHeadline(context.Background(), "sports")

	assert.Equal(t, (*Article)(nil), article)
	var fetchErr *FetchError
	assert.Equal(t, true, errors.As(err, &fetchErr))
	assert.Equal(t, "sports", fetchErr.Category)
	assert.Equal(t, false, errors.Is(err, ErrNoArticle))
}

func TestFetchTopHeadlineMalformedResponse(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
	}{
		{name: "invalid json", status: http.StatusOK, body: "{not json"},
		{name: "missing url", status: http.StatusOK, body: `{"status":"ok","articles":[{"title":"T"}]}`},
		{name: "html error page", status: http.StatusBadGateway, body: "<html>bad gateway</html>", wantStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			article, err := newTestNewsClient(srv.URL).FetchTopHeadline(context.Background(), "business")

			assert.Equal(t, (*Article)(nil), article)
			var fetchErr *FetchError
			assert.Equal(t, true, errors.As(err, &fetchErr))

			if tt.wantStatus != 0 {
				var httpErr *HTTPError
				assert.Equal(t, true, errors.As(err, &httpErr))
				assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			}
		})
	}
}

func TestFetchTopHeadlineUnknownCategory(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	_, err := newTestNewsClient(srv.URL).FetchTopHeadline(context.Background(), "politics")

	assert.Equal(t, true, errors.Is(err, ErrUnknownCategory))
	assert.Equal(t, false, called)
}

func TestFetchTopHeadlineCleansHTMLDescription(t *testing.T) {
	srv := serveJSON(t, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"articles": []map[string]interface{}{
			{
				"title":       "T",
				"url":         "https://example.com",
				"description": "<p>Markets rallied\n\n on Friday.</p>",
			},
		},
	})

	article, err := newTestNewsClient(srv.URL).FetchTopHeadline(context.Background(), "business")

	assert.Equal(t, nil, err)
	assert.Equal(t, false, strings.Contains(article.Description, "<p>"))
	assert.Equal(t, "Markets rallied on Friday.", article.Description)
}

func TestCleanDescriptionStripsMarkup(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "link and bold",
			html:     `<p>Shares of <a href="https://ex.com/s">S&amp;P 500</a> firms rose 2% on <b>Friday</b> after_hours * trading.</p>`,
			expected: "Shares of S&P 500 firms rose 2% on Friday after_hours * trading.",
		},
		{
			name:     "emphasis and code",
			html:     `<p><em>Breaking:</em> the <strong>v2</strong> release of <code>libfoo</code> shipped.</p>`,
			expected: "Breaking: the v2 release of libfoo shipped.",
		},
		{
			name:     "heading and list",
			html:     `<h2>Update</h2><ul><li>Rates held</li><li>Stocks rose</li></ul>`,
			expected: "Update Rates held Stocks rose",
		},
		{
			name:     "image only",
			html:     `<img src="https://ex.com/a.png" alt="chart">`,
			expected: PlaceholderDescription,
		},
	}

	c := newTestNewsClient("http://unused")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.cleanDescription(&tt.html)

			assert.Equal(t, tt.expected, got)
			for _, marker := range []string{"[", "](", "**", "\\", "<"} {
				if tt.expected != PlaceholderDescription && strings.Contains(got, marker) {
					t.Errorf("cleanDescription() = %q contains %q", got, marker)
				}
			}
		})
	}
}
