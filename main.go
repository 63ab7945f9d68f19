package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	apiKey               string
	settingsPath         string
	summarizerPromptPath string
	debugMode            bool
	debugEnabled         bool
)

// SetDebugMode enables or disables debug logging
func SetDebugMode(enabled bool) {
	debugEnabled = enabled
}

func debugLog(format string, args ...interface{}) {
	if debugEnabled {
		log.Printf("[DEBUG] "+format, args...)
	}
}

var rootCmd = &cobra.Command{
	Use:   "headline-bot",
	Short: "Posts summarized top headlines to X/Twitter",
	Long: `Fetches the top NewsAPI headline for a rotating category, summarizes it
with an LLM and posts the headline, summary and link every 35 minutes.`,
	Args:          cobra.NoArgs,
	RunE:          runLoop,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Post a headline every 35 minutes until interrupted",
	Args:  cobra.NoArgs,
	RunE:  runLoop,
}

var onceCmd = &cobra.Command{
	Use:   "once [category]",
	Short: "Run a single cycle and exit",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scheduler, err := buildScheduler(true)
		if err != nil {
			return err
		}
		return runSingleCycle(cmd.Context(), scheduler, args)
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview [category]",
	Short: "Fetch and summarize a headline, print the post without publishing",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scheduler, err := buildScheduler(false)
		if err != nil {
			return err
		}
		return runSingleCycle(cmd.Context(), scheduler, args)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("headline-bot %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Anthropic API key")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "Path to settings YAML file")
	rootCmd.PersistentFlags().StringVar(&summarizerPromptPath, "summarizer-prompt", "", "Path to custom summarizer prompt file")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if debugMode {
			SetDebugMode(true)
		}
	}

	rootCmd.AddCommand(runCmd, onceCmd, previewCmd, versionCmd)
}

func runLoop(cmd *cobra.Command, args []string) error {
	scheduler, err := buildScheduler(true)
	if err != nil {
		return err
	}

	log.Printf("Posting every %s across %d categories", DefaultInterval, len(Categories))
	err = scheduler.Run(cmd.Context())
	if errors.Is(err, context.Canceled) {
		log.Printf("Stopped")
		return nil
	}
	return err
}

func runSingleCycle(ctx context.Context, scheduler *Scheduler, args []string) error {
	if len(args) > 0 {
		if err := scheduler.SetCategory(args[0]); err != nil {
			return err
		}
	}

	result := scheduler.RunCycle(ctx)
	if result.Status != StatusPosted {
		return fmt.Errorf("%s cycle %s: %w", result.Category, result.Status, result.Error)
	}
	return nil
}

// buildScheduler validates credentials and constructs every component once.
// Without publishing, posts are printed to stdout instead.
func buildScheduler(publishing bool) (*Scheduler, error) {
	overrides := &ConfigOverrides{}
	if settingsPath != "" {
		overrides.SettingsPath = &settingsPath
	}
	if summarizerPromptPath != "" {
		overrides.SummarizerPromptPath = &summarizerPromptPath
	}

	config, err := NewConfig(overrides)
	if err != nil {
		return nil, err
	}

	creds := config.Credentials
	if apiKey != "" {
		creds.AnthropicAPIKey = apiKey
	}
	if err := creds.Validate(publishing); err != nil {
		return nil, err
	}

	promptTemplate, err := config.GetSummarizerPrompt()
	if err != nil {
		return nil, err
	}

	settings := config.Settings
	summarizer, err := NewLLMSummarizer(creds.AnthropicAPIKey, settings.Summarizer, promptTemplate)
	if err != nil {
		return nil, fmt.Errorf("creating summarizer: %w", err)
	}

	source := NewNewsAPIClient(creds.NewsAPIKey, settings.News.BaseURL, settings.News.Country)

	var publisher Publisher = &ConsolePublisher{out: os.Stdout}
	if publishing {
		publisher = NewTwitterPublisher(creds, settings.Publisher.Endpoint)
	}

	return NewScheduler(source, summarizer, publisher), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatal(err)
	}
}
