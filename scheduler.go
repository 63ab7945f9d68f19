package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// DefaultInterval is the idle wait between cycles
const DefaultInterval = 35 * time.Minute

// Scheduler runs fetch → summarize → publish once per cycle, rotating
// through Categories with a fixed wait in between
type Scheduler struct {
	source     NewsSource
	summarizer Summarizer
	publisher  Publisher

	index    int
	interval time.Duration
	out      io.Writer
	sleep    sleepFunc
}

// NewScheduler creates a scheduler starting at the first category
func NewScheduler(source NewsSource, summarizer Summarizer, publisher Publisher) *Scheduler {
	return &Scheduler{
		source:     source,
		summarizer: summarizer,
		publisher:  publisher,
		interval:   DefaultInterval,
		out:        os.Stdout,
		sleep:      sleepContext,
	}
}

// Category returns the category the next cycle will use
func (s *Scheduler) Category() string {
	return Categories[s.index]
}

// SetCategory moves the rotation to category
func (s *Scheduler) SetCategory(category string) error {
	i := categoryIndex(category)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	s.index = i
	return nil
}

// Run repeats cycles until ctx is cancelled
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		s.RunCycle(ctx)

		if err := Countdown(ctx, s.out, int(s.interval/time.Second), s.sleep); err != nil {
			return err
		}
	}
}

// RunCycle processes the current category and advances the rotation.
// Failures end the cycle early and are reported in the result.
func (s *Scheduler) RunCycle(ctx context.Context) CycleResult {
	category := s.Category()
	defer s.advance()

	fmt.Fprintln(s.out)
	log.Printf("Fetching %s news...", category)

	result := s.process(ctx, category)
	switch result.Status {
	case StatusPosted:
		log.Printf("✓ Posted %s headline", category)
	case StatusError:
		log.Printf("✗ Failed %s: %v", category, result.Error)
	default:
		debugLog("cycle for %s skipped: %v", category, result.Error)
	}
	return result
}

func (s *Scheduler) process(ctx context.Context, category string) CycleResult {
	article, err := s.source.FetchTopHeadline(ctx, category)
	if err != nil {
		log.Printf("No valid news article found.")
		return CycleResult{Category: category, Status: StatusSkipped, Error: err}
	}

	summary, err := s.summarizer.Summarize(ctx, article.Description)
	if err != nil {
		log.Printf("Failed to generate news summary.")
		return CycleResult{Category: category, Status: StatusSkipped, Error: err}
	}

	post := ComposePost(article.Title, summary, article.URL)
	if err := s.publisher.Publish(ctx, post); err != nil {
		return CycleResult{Category: category, Status: StatusError, Post: post, Error: err}
	}

	return CycleResult{Category: category, Status: StatusPosted, Post: post}
}

func (s *Scheduler) advance() {
	s.index = (s.index + 1) % len(Categories)
}
