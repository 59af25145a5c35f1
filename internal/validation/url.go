// Package validation checks user-supplied URLs, paths and head markup
// before they reach configuration or rendered output.
package validation

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateURL accepts absolute http(s) URLs that can sit inside an HTML
// attribute. Query strings, including '&', are allowed.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("URL cannot be empty")
	}

	for _, r := range rawURL {
		if r <= ' ' || r == 0x7f {
			return fmt.Errorf("URL contains whitespace or control characters")
		}
	}

	dangerous := []string{"\"", "'", "<", ">", "`", "\\"}
	for _, char := range dangerous {
		if strings.Contains(rawURL, char) {
			return fmt.Errorf("URL contains dangerous character: %s", char)
		}
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: %q (only http/https allowed)", parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("URL must have a valid hostname")
	}

	return nil
}
