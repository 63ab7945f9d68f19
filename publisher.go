package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
)

const defaultTweetEndpoint = "https://api.twitter.com/2/tweets"

// Publisher submits a single post
type Publisher interface {
	Publish(ctx context.Context, text string) error
}

// TwitterPublisher posts through the X/Twitter v2 API with OAuth 1.0a user
// context credentials
type TwitterPublisher struct {
	endpoint string
	client   *http.Client
}

// NewTwitterPublisher creates a publisher whose HTTP client signs every request
func NewTwitterPublisher(creds *Credentials, endpoint string) *TwitterPublisher {
	if endpoint == "" {
		endpoint = defaultTweetEndpoint
	}

	config := oauth1.NewConfig(creds.TwitterAPIKey, creds.TwitterAPISecret)
	token := oauth1.NewToken(creds.TwitterAccessToken, creds.TwitterAccessSecret)
	client := config.Client(oauth1.NoContext, token)
	client.Timeout = 30 * time.Second

	return &TwitterPublisher{
		endpoint: endpoint,
		client:   client,
	}
}

// ConsolePublisher prints posts instead of submitting them
type ConsolePublisher struct {
	out io.Writer
}

func (p *ConsolePublisher) Publish(ctx context.Context, text string) error {
	_, err := fmt.Fprintf(p.out, "\n%s\n", text)
	return err
}

type tweetRequest struct {
	Text string `json:"text"`
}

type tweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Publish posts text once. Failures are logged and returned as *PublishError.
func (p *TwitterPublisher) Publish(ctx context.Context, text string) error {
	id, err := p.post(ctx, text)
	if err != nil {
		log.Printf("Error posting to Twitter: %v", err)
		return &PublishError{Err: err}
	}

	debugLog("tweet id: %s", id)
	log.Printf("Successfully posted: %s", text)
	return nil
}

func (p *TwitterPublisher) post(ctx context.Context, text string) (string, error) {
	payload, err := json.Marshal(tweetRequest{Text: text})
	if err != nil {
		return "", fmt.Errorf("encoding tweet: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("posting tweet: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}

	var parsed tweetResponse
	jsonErr := json.Unmarshal(body, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &HTTPError{
			StatusCode: resp.StatusCode,
			URL:        p.endpoint,
			Detail:     apiErrorDetail(parsed, jsonErr == nil),
		}
	}
	if jsonErr != nil {
		return "", fmt.Errorf("decoding response: %w", jsonErr)
	}

	return parsed.Data.ID, nil
}

func apiErrorDetail(resp tweetResponse, parsed bool) string {
	if !parsed {
		return ""
	}
	if resp.Detail != "" {
		return resp.Detail
	}
	var messages []string
	for _, e := range resp.Errors {
		if e.Message != "" {
			messages = append(messages, e.Message)
		}
	}
	if len(messages) > 0 {
		return strings.Join(messages, "; ")
	}
	return resp.Title
}
