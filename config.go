package main

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigDir = ".headline-bot"

// ConfigOverrides allows overriding embedded defaults with file paths
type ConfigOverrides struct {
	SettingsPath         *string
	SummarizerPromptPath *string
}

//go:embed config/settings.yaml
var defaultSettings string

//go:embed config/summarizer-system-prompt.md
var defaultSummarizerPrompt string

// SummarizerSettings configures the summarization model
type SummarizerSettings struct {
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
	MinWords  int    `yaml:"min_words"`
	MaxWords  int    `yaml:"max_words"`
}

// Settings represents the YAML configuration structure
type Settings struct {
	News struct {
		BaseURL string `yaml:"base_url"`
		Country string `yaml:"country"`
	} `yaml:"news"`
	Summarizer SummarizerSettings `yaml:"summarizer"`
	Publisher  struct {
		Endpoint string `yaml:"endpoint"`
	} `yaml:"publisher"`
}

// Credentials holds the secrets required before the loop starts
type Credentials struct {
	TwitterAPIKey       string
	TwitterAPISecret    string
	TwitterAccessToken  string
	TwitterAccessSecret string
	TwitterBearerToken  string
	NewsAPIKey          string
	AnthropicAPIKey     string
}

// Config holds configuration and overrides
type Config struct {
	Settings    *Settings
	Credentials *Credentials
	Overrides   *ConfigOverrides
}

// GetConfigPath returns the full path to a config file
func GetConfigPath(filename string) string {
	return filepath.Join(defaultConfigDir, filename)
}

// NewConfig loads settings and credentials. Credential validation is left to
// the caller since preview mode needs only a subset.
func NewConfig(overrides *ConfigOverrides) (*Config, error) {
	var settings *Settings
	var err error
	if overrides != nil && overrides.SettingsPath != nil {
		// Explicit settings file must exist
		settings, err = loadSettingsRequired(*overrides.SettingsPath)
	} else {
		settings, err = loadSettings(GetConfigPath("settings.yaml"))
	}
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	return &Config{
		Settings:    settings,
		Credentials: LoadCredentials(),
		Overrides:   overrides,
	}, nil
}

// GetSummarizerPrompt returns the summarizer system prompt (from override file or embedded)
func (c *Config) GetSummarizerPrompt() (string, error) {
	if c.Overrides != nil && c.Overrides.SummarizerPromptPath != nil {
		data, err := os.ReadFile(*c.Overrides.SummarizerPromptPath)
		if err != nil {
			return "", fmt.Errorf("reading summarizer prompt %s: %w", *c.Overrides.SummarizerPromptPath, err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return strings.TrimSpace(defaultSummarizerPrompt), nil
}

// LoadCredentials reads credentials from the environment after loading .env
// if one is present.
func LoadCredentials() *Credentials {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Warning: could not load .env: %v", err)
	}

	return &Credentials{
		TwitterAPIKey:       os.Getenv("TWITTER_API_KEY"),
		TwitterAPISecret:    os.Getenv("TWITTER_API_SECRET"),
		TwitterAccessToken:  os.Getenv("TWITTER_ACCESS_TOKEN"),
		TwitterAccessSecret: os.Getenv("TWITTER_ACCESS_SECRET"),
		TwitterBearerToken:  os.Getenv("TWITTER_BEARER_TOKEN"),
		NewsAPIKey:          os.Getenv("NEWSAPI_KEY"),
		AnthropicAPIKey:     os.Getenv("ANTHROPIC_API_KEY"),
	}
}

// Validate reports every missing credential by its environment name. With
// publishing false the Twitter credentials are not required.
func (c *Credentials) Validate(publishing bool) error {
	required := []struct {
		name  string
		value string
	}{
		{"NEWSAPI_KEY", c.NewsAPIKey},
		{"ANTHROPIC_API_KEY", c.AnthropicAPIKey},
	}
	if publishing {
		required = append(required, []struct {
			name  string
			value string
		}{
			{"TWITTER_API_KEY", c.TwitterAPIKey},
			{"TWITTER_API_SECRET", c.TwitterAPISecret},
			{"TWITTER_ACCESS_TOKEN", c.TwitterAccessToken},
			{"TWITTER_ACCESS_SECRET", c.TwitterAccessSecret},
			{"TWITTER_BEARER_TOKEN", c.TwitterBearerToken},
		}...)
	}

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// loadSettings loads settings from a YAML file, falling back to the embedded
// defaults when the file doesn't exist
func loadSettings(settingsPath string) (*Settings, error) {
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		debugLog("settings file %s not found, using embedded defaults", settingsPath)
		data = []byte(defaultSettings)
	}
	return parseSettings(data)
}

// loadSettingsRequired loads settings from YAML file, failing if file doesn't exist
func loadSettingsRequired(settingsPath string) (*Settings, error) {
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return nil, err
	}
	return parseSettings(data)
}

func parseSettings(data []byte) (*Settings, error) {
	// Start from the embedded defaults so partial files only override what they set
	var settings Settings
	if err := yaml.Unmarshal([]byte(defaultSettings), &settings); err != nil {
		return nil, fmt.Errorf("parsing embedded settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parsing settings YAML: %w", err)
	}

	s := &settings.Summarizer
	if s.MinWords <= 0 {
		s.MinWords = defaultMinWords
	}
	if s.MaxWords < s.MinWords {
		log.Printf("Warning: summarizer.max_words is %d, defaulting to %d", s.MaxWords, defaultMaxWords)
		s.MaxWords = max(defaultMaxWords, s.MinWords)
	}

	return &settings, nil
}
