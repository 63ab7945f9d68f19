package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/aktagon/llmkit/anthropic"
	"github.com/aktagon/llmkit/anthropic/types"
)

const (
	defaultMinWords = 25
	defaultMaxWords = 50

	// greedyTopK restricts sampling to the most likely token. llmkit omits
	// zero-valued sampling fields, so temperature 0 alone is never sent.
	greedyTopK = 1
)

// Summarizer shortens free text to a bounded summary
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// promptFunc sends one system/user prompt pair and returns the completion text
type promptFunc func(systemPrompt, userPrompt string, settings types.RequestSettings) (string, error)

// LLMSummarizer summarizes descriptions with an Anthropic model. It is built
// once at startup and reused for every cycle.
type LLMSummarizer struct {
	prompt       promptFunc
	systemPrompt string
	settings     SummarizerSettings
}

// NewLLMSummarizer creates a summarizer with deterministic request settings
func NewLLMSummarizer(apiKey string, settings SummarizerSettings, systemPromptTemplate string) (*LLMSummarizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY", ErrMissingCredentials)
	}

	systemPrompt, err := renderSummarizerPrompt(systemPromptTemplate, settings)
	if err != nil {
		return nil, err
	}

	return &LLMSummarizer{
		prompt:       anthropicPrompt(apiKey),
		systemPrompt: systemPrompt,
		settings:     settings,
	}, nil
}

func anthropicPrompt(apiKey string) promptFunc {
	return func(systemPrompt, userPrompt string, settings types.RequestSettings) (string, error) {
		response, err := anthropic.PromptWithSettings(systemPrompt, userPrompt, "", apiKey, settings)
		if err != nil {
			return "", err
		}
		if len(response.Content) == 0 {
			return "", fmt.Errorf("no content in response")
		}
		return response.Content[0].Text, nil
	}
}

// renderSummarizerPrompt fills the word window into the prompt template
func renderSummarizerPrompt(template string, settings SummarizerSettings) (string, error) {
	if !strings.Contains(template, "{{.min_words}}") || !strings.Contains(template, "{{.max_words}}") {
		return "", fmt.Errorf("summarizer prompt template must contain {{.min_words}} and {{.max_words}} variables")
	}
	prompt := strings.ReplaceAll(template, "{{.min_words}}", strconv.Itoa(settings.MinWords))
	prompt = strings.ReplaceAll(prompt, "{{.max_words}}", strconv.Itoa(settings.MaxWords))
	return prompt, nil
}

// Summarize returns a summary of text bounded to the configured word window.
// Text already shorter than the minimum window is returned unchanged.
func (s *LLMSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	summary, err := s.summarize(ctx, text)
	if err != nil {
		log.Printf("Error summarizing news: %v", err)
		if errors.Is(err, ErrEmptyInput) {
			return "", err
		}
		return "", &SummarizeError{Err: err}
	}
	return summary, nil
}

func (s *LLMSummarizer) summarize(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyInput
	}

	if words := strings.Fields(text); len(words) < s.settings.MinWords {
		debugLog("description has %d words, below minimum %d; skipping model", len(words), s.settings.MinWords)
		return strings.Join(words, " "), nil
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	settings := types.RequestSettings{
		Model:       s.settings.Model,
		MaxTokens:   s.settings.MaxTokens,
		TopK:        greedyTopK,
	}

	log.Printf("→ Summarizing with %s...", s.settings.Model)
	completion, err := s.prompt(s.systemPrompt, text, settings)
	if err != nil {
		return "", fmt.Errorf("summarizer model failed: %w", err)
	}

	summary := clampWords(completion, s.settings.MaxWords)
	if summary == "" {
		return "", fmt.Errorf("model returned an empty summary")
	}

	log.Printf("✓ Summary: %d words", len(strings.Fields(summary)))
	return summary, nil
}

// clampWords collapses whitespace and keeps at most maxWords words
func clampWords(text string, maxWords int) string {
	words := strings.Fields(text)
	if maxWords > 0 && len(words) > maxWords {
		words = words[:maxWords]
	}
	return strings.Join(words, " ")
}
