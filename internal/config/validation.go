package config

import (
	"fmt"
	"strings"

	"github.com/conneroisu/seo/internal/validation"
)

// ValidationError names the offending field and value.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", ve.Field, ve.Message)
}

func invalid(field string, value interface{}, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)}
}

func validateSEOConfig(config *SEOConfig) error {
	if strings.Contains(config.Namespace, "::") || strings.ContainsAny(config.Namespace, " \t\n") {
		return invalid("seo.namespace", config.Namespace, "namespace must be a single word")
	}

	for key := range config.Defaults {
		if err := validateKey(key); err != nil {
			return invalid("seo.defaults", key, "%v", err)
		}
	}

	for name := range config.Extensions {
		if name == "" || strings.Contains(name, ".") {
			return invalid("seo.extensions", name, "extension name must be non-empty and contain no dots")
		}
	}

	for name, view := range config.Views {
		if strings.TrimSpace(view) == "" {
			return invalid("seo.views."+name, view, "view id cannot be empty")
		}
	}

	return nil
}

// validateKey rejects keys with empty segments such as "a..b" or ".title".
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	for _, segment := range strings.Split(key, ".") {
		if segment == "" {
			return fmt.Errorf("key %q has an empty segment", key)
		}
	}
	return nil
}

func validateFlippConfig(config *FlippConfig) error {
	if err := validation.ValidateURL(config.BaseURL); err != nil {
		return invalid("services.flipp.base_url", config.BaseURL, "%v", err)
	}

	for _, alias := range config.TemplateAliases() {
		if strings.ContainsAny(alias, " \t\n.") {
			return invalid("services.flipp.templates", alias, "alias cannot contain whitespace or dots")
		}
		if strings.TrimSpace(config.Templates[alias]) == "" {
			return invalid("services.flipp.templates."+alias, "", "template id cannot be empty")
		}
	}

	return nil
}

func validateFaviconConfig(config *FaviconConfig) error {
	if config.Source != "" {
		if err := validation.ValidateFileExtension(config.Source, []string{".png", ".jpg", ".jpeg"}); err != nil {
			return invalid("favicon.source", config.Source, "%v", err)
		}
	}

	if err := validation.ValidatePath(config.OutputDir); err != nil {
		return invalid("favicon.output_dir", config.OutputDir, "%v", err)
	}

	return nil
}

func validatePreviewConfig(config *PreviewConfig) error {
	// Port 0 lets the system pick one, which tests rely on.
	if config.Port < 0 || config.Port > 65535 {
		return invalid("preview.port", config.Port, "port %d is not in valid range 0-65535", config.Port)
	}

	if err := validation.ValidateHost(config.Host); err != nil {
		return invalid("preview.host", config.Host, "%v", err)
	}

	if err := validation.ValidateFileExtension(config.Page, []string{".yml", ".yaml"}); err != nil {
		return invalid("preview.page", config.Page, "page must be a YAML file: %v", err)
	}

	return nil
}

func validateLogConfig(config *LogConfig) error {
	switch strings.ToLower(config.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return invalid("log.level", config.Level, "unknown log level %q", config.Level)
	}

	switch strings.ToLower(config.Format) {
	case "text", "json":
	default:
		return invalid("log.format", config.Format, "format must be text or json")
	}

	return nil
}
