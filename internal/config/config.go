// Package config provides configuration management for seo using Viper for
// loading from files, environment variables, and command-line flags.
//
// The configuration system supports a .seo.yml file, environment variable
// overrides with the SEO_ prefix, defaults, and validation. It carries the
// site-wide tag defaults, Flipp signing settings, favicon generation paths,
// preview server settings, and logging options.
package config

import (
	"fmt"
	"sort"

	seoerrors "github.com/conneroisu/seo/internal/errors"
	"github.com/spf13/viper"
)

type Config struct {
	SEO      SEOConfig      `mapstructure:"seo"`
	Services ServicesConfig `mapstructure:"services"`
	Favicon  FaviconConfig  `mapstructure:"favicon"`
	Preview  PreviewConfig  `mapstructure:"preview"`
	Log      LogConfig      `mapstructure:"log"`
}

type SEOConfig struct {
	Namespace  string          `mapstructure:"namespace"`
	Site       string          `mapstructure:"site"`
	Extensions map[string]bool `mapstructure:"extensions"`
	// Defaults is keyed by dotted tag key. Viper nests dotted map keys, so
	// Load flattens them back.
	Defaults map[string]string `mapstructure:"-"`
	// Views maps an extension name to the view id rendered for it.
	Views map[string]string `mapstructure:"views"`
}

type ServicesConfig struct {
	Flipp FlippConfig `mapstructure:"flipp"`
}

type FlippConfig struct {
	Key       string            `mapstructure:"key"`
	BaseURL   string            `mapstructure:"base_url"`
	Templates map[string]string `mapstructure:"templates"`
}

type FaviconConfig struct {
	Source    string `mapstructure:"source"`
	OutputDir string `mapstructure:"output_dir"`
}

type PreviewConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Page string `mapstructure:"page"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TemplateAliases returns the configured Flipp aliases in sorted order.
func (c *FlippConfig) TemplateAliases() []string {
	aliases := make([]string, 0, len(c.Templates))
	for alias := range c.Templates {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, seoerrors.WrapConfig(err, seoerrors.ErrCodeConfigInvalid, "failed to decode configuration")
	}

	config.SEO.Defaults = flattenStrings("", viper.GetStringMap("seo.defaults"))

	// viper lowercases map keys; extension names and aliases are lower-case anyway.
	if config.SEO.Extensions == nil {
		config.SEO.Extensions = make(map[string]bool)
	}
	if config.SEO.Views == nil {
		config.SEO.Views = make(map[string]string)
	}
	if config.Services.Flipp.Templates == nil {
		config.Services.Flipp.Templates = make(map[string]string)
	}

	if config.SEO.Namespace == "" {
		config.SEO.Namespace = "seo"
	}
	if config.Services.Flipp.BaseURL == "" {
		config.Services.Flipp.BaseURL = "https://s.useflipp.com"
	}

	if config.Favicon.OutputDir == "" {
		config.Favicon.OutputDir = "public"
	}

	if config.Preview.Host == "" {
		config.Preview.Host = "localhost"
	}
	if !viper.IsSet("preview.port") {
		config.Preview.Port = 8080
	}
	if config.Preview.Page == "" {
		config.Preview.Page = "page.yml"
	}

	// The root --log-level flag wins over the config file.
	if viper.IsSet("log-level") {
		config.Log.Level = viper.GetString("log-level")
	}
	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "text"
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// flattenStrings turns viper's nested view of dotted keys back into
// "twitter.title" style keys.
func flattenStrings(prefix string, in map[string]interface{}) map[string]string {
	out := make(map[string]string)
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch typed := v.(type) {
		case map[string]interface{}:
			for nk, nv := range flattenStrings(key, typed) {
				out[nk] = nv
			}
		case nil:
			out[key] = ""
		default:
			out[key] = fmt.Sprint(typed)
		}
	}
	return out
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if err := validateSEOConfig(&config.SEO); err != nil {
		return wrapInvalid(err, "seo")
	}

	if err := validateFlippConfig(&config.Services.Flipp); err != nil {
		return wrapInvalid(err, "services.flipp")
	}

	if err := validateFaviconConfig(&config.Favicon); err != nil {
		return wrapInvalid(err, "favicon")
	}

	if err := validatePreviewConfig(&config.Preview); err != nil {
		return wrapInvalid(err, "preview")
	}

	if err := validateLogConfig(&config.Log); err != nil {
		return wrapInvalid(err, "log")
	}

	return nil
}

func wrapInvalid(err error, section string) error {
	return seoerrors.WrapConfig(err, seoerrors.ErrCodeConfigInvalid, "invalid configuration").
		WithContext("section", section)
}
