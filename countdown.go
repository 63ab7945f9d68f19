package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// clearWidth is wide enough to blank any countdown line
const clearWidth = 50

// sleepFunc blocks for d or until ctx is done
type sleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Countdown redraws "Next post in: MM:SS" once per second on a single line,
// then clears the line. It writes exactly seconds updates unless ctx is
// cancelled first.
func Countdown(ctx context.Context, w io.Writer, seconds int, sleep sleepFunc) error {
	defer clearLine(w)

	for remaining := seconds; remaining > 0; remaining-- {
		fmt.Fprintf(w, "\rNext post in: %s", formatRemaining(remaining))
		if err := sleep(ctx, time.Second); err != nil {
			return err
		}
	}
	return nil
}

func formatRemaining(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func clearLine(w io.Writer) {
	fmt.Fprint(w, "\r"+strings.Repeat(" ", clearWidth)+"\r")
}
