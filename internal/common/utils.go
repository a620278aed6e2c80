package common

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/dtnitsch/librarycloud-harvester/models"
	"github.com/dtnitsch/librarycloud-harvester/pkg/logger"
	"github.com/urfave/cli/v2"
)

// NewLogger builds the process logger from the global --verbose and --quiet flags.
func NewLogger(c *cli.Context) (logger.Logger, error) {
	return logger.New(logger.Config{Level: logger.Levels(c.Bool("verbose"), c.Bool("quiet"))})
}

// LoadConfig reads the --config file, if any, and applies every flag the user
// set on top of it.
func LoadConfig(c *cli.Context) (*models.HarvestConfig, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}
	if c.IsSet("base-url") {
		cfg.BaseURL = c.String("base-url")
	}
	if c.IsSet("q") {
		cfg.Query = c.String("q")
	}
	if c.IsSet("page-size") {
		cfg.PageSize = c.Int("page-size")
	}
	if c.IsSet("max-records") {
		cfg.MaxRecords = c.Int("max-records")
	}
	if c.IsSet("output") {
		cfg.Output = c.String("output")
	}
	if c.IsSet("delay") {
		cfg.Delay = c.Duration("delay")
	}
	if c.IsSet("timeout") {
		cfg.Timeout = c.Duration("timeout")
	}
	if c.IsSet("retries") {
		cfg.Retries = c.Int("retries")
	}
	if c.IsSet("user-agent") {
		cfg.UserAgent = c.String("user-agent")
	}
	if c.IsSet("cache-dir") {
		cfg.CacheDir = c.String("cache-dir")
	}
	if c.IsSet("cache-ttl") {
		cfg.CacheTTL = c.Duration("cache-ttl")
	}
	if c.IsSet("manifest") {
		cfg.Manifest = c.Bool("manifest")
	}
	if c.IsSet("detect-language") {
		cfg.DetectLanguage = c.Bool("detect-language")
	}
	if c.IsSet("untyped-names-as-corporate") {
		cfg.UntypedNamesAsCorporate = c.Bool("untyped-names-as-corporate")
	}

	cfg.BaseURL = SanitizeURL(cfg.BaseURL)
	if err := ValidateBaseURL(cfg.BaseURL); err != nil {
		return nil, err
	}
	return cfg, nil
}

var markdownLinkPattern = regexp.MustCompile(`^\[.*?\]\((https?://[^\)]+)\)$`)

// SanitizeURL performs basic cleanup on URLs to handle common copy-paste issues.
// Removes whitespace, trailing punctuation and markdown artifacts.
func SanitizeURL(rawURL string) string {
	cleaned := strings.TrimSpace(rawURL)

	// [text](url) -> url
	if matches := markdownLinkPattern.FindStringSubmatch(cleaned); len(matches) > 1 {
		cleaned = matches[1]
	}

	for _, char := range []string{",", ".", ")", "}", "]", "\"", "'", ">", ";"} {
		cleaned = strings.TrimSuffix(cleaned, char)
	}
	for _, char := range []string{"(", "[", "<", "\"", "'"} {
		cleaned = strings.TrimPrefix(cleaned, char)
	}

	return strings.TrimSpace(cleaned)
}

// ValidateBaseURL rejects anything that is not an absolute http(s) URL.
func ValidateBaseURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("base url is required")
	}
	if strings.Contains(rawURL, " ") {
		return fmt.Errorf("invalid base url %q: contains spaces", rawURL)
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid base url %q: %w", rawURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid base url %q: scheme must be http or https", rawURL)
	}
	if parsed.Host == "" || strings.ContainsAny(parsed.Host, "{}[]<>\"'") {
		return fmt.Errorf("invalid base url %q: bad host", rawURL)
	}
	return nil
}
