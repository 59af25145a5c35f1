package errors

import (
	"fmt"
	"strings"
)

// Suggestion is a hint for fixing an error.
type Suggestion struct {
	Title       string
	Description string
	Command     string
	Example     string
}

// SuggestionContext carries what the caller knows about the run.
type SuggestionContext struct {
	ConfigPath string
	PagePath   string
	// Aliases are the configured Flipp template aliases.
	Aliases []string
}

// Suggest returns hints for the code carried by err, nil when none apply.
func Suggest(err error, ctx *SuggestionContext) []Suggestion {
	if ctx == nil {
		ctx = &SuggestionContext{}
	}
	configPath := ctx.ConfigPath
	if configPath == "" {
		configPath = ".seo.yml"
	}

	switch {
	case HasCode(err, ErrCodeFlippKeyMissing):
		return []Suggestion{
			{
				Title:       "Set the Flipp signing key",
				Description: "Signed image URLs need the secret key of your Flipp account",
				Command:     "export SEO_SERVICES_FLIPP_KEY=<key>",
				Example:     "services:\n  flipp:\n    key: <key>",
			},
		}

	case HasCode(err, ErrCodeFlippTemplateMissing):
		suggestions := []Suggestion{
			{
				Title:       "Configure the template alias",
				Description: "Map the alias to a Flipp template id in " + configPath,
				Example:     "services:\n  flipp:\n    templates:\n      blog: <template-id>",
			},
		}
		if len(ctx.Aliases) > 0 {
			suggestions = append(suggestions, Suggestion{
				Title:       "Configured aliases",
				Description: strings.Join(ctx.Aliases, ", "),
			})
		}
		return suggestions

	case HasCode(err, ErrCodeFileNotFound):
		path := ctx.PagePath
		if path == "" {
			path = "page.yml"
		}
		return []Suggestion{
			{
				Title:       "Check the file path",
				Description: "Paths are resolved against the working directory",
				Command:     "ls -la " + path,
			},
		}

	case HasCode(err, ErrCodeConfigInvalid):
		return []Suggestion{
			{
				Title:       "Review the configuration",
				Description: "The error names the offending section",
				Command:     "cat " + configPath,
			},
		}

	case HasCode(err, ErrCodeDirectiveArgs):
		return []Suggestion{
			{
				Title:   "Call the directive with a supported argument list",
				Example: `{{ seo "title" }}  {{ seo "title" "About" }}  {{ seo "flipp" "blog" }}`,
			},
		}

	case HasCode(err, ErrCodeImageDecode):
		return []Suggestion{
			{
				Title:       "Use a PNG or JPEG source",
				Description: "Favicons are generated from a square image of at least 180px",
			},
		}
	}

	return nil
}

// FormatSuggestions renders title followed by numbered suggestions.
func FormatSuggestions(title string, suggestions []Suggestion) string {
	if len(suggestions) == 0 {
		return title
	}

	var output strings.Builder
	output.WriteString(title + "\n\n")
	output.WriteString("Suggestions:\n")

	for i, suggestion := range suggestions {
		output.WriteString(fmt.Sprintf("  %d. %s\n", i+1, suggestion.Title))
		if suggestion.Description != "" {
			output.WriteString(fmt.Sprintf("     %s\n", suggestion.Description))
		}
		if suggestion.Command != "" {
			output.WriteString(fmt.Sprintf("     Run: %s\n", suggestion.Command))
		}
		if suggestion.Example != "" {
			output.WriteString("     Example:\n")
			for _, line := range strings.Split(suggestion.Example, "\n") {
				output.WriteString("       " + line + "\n")
			}
		}
		output.WriteString("\n")
	}

	return output.String()
}

// EnhancedError wraps an error with suggestions.
type EnhancedError struct {
	OriginalError error
	Suggestions   []Suggestion
}

// Error implements the error interface.
func (e *EnhancedError) Error() string {
	return FormatSuggestions(e.OriginalError.Error(), e.Suggestions)
}

// Unwrap returns the original error.
func (e *EnhancedError) Unwrap() error {
	return e.OriginalError
}

// WithSuggestions attaches suggestions for err; err is returned unchanged
// when none apply.
func WithSuggestions(err error, ctx *SuggestionContext) error {
	if err == nil {
		return nil
	}
	suggestions := Suggest(err, ctx)
	if len(suggestions) == 0 {
		return err
	}
	return &EnhancedError{OriginalError: err, Suggestions: suggestions}
}
