// Package cmd provides the command-line interface for seo with configuration
// management supporting multiple configuration sources.
//
// Configuration System:
//
//	Sources in order of precedence:
//	1. Command-line flags (--config, --port, etc.) - highest priority
//	2. SEO_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (SEO_SERVICES_FLIPP_KEY, etc.)
//	4. Configuration files (.seo.yml) - lowest priority
//
// Environment Variables:
//
//	SEO_CONFIG_FILE: Path to custom configuration file
//	SEO_SERVICES_FLIPP_KEY: Flipp signing key
//	SEO_PREVIEW_PORT: Override preview server port
//	And others following the SEO_<SECTION>_<OPTION> pattern
package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/conneroisu/seo/internal/config"
	"github.com/conneroisu/seo/internal/di"
	seoerrors "github.com/conneroisu/seo/internal/errors"
	"github.com/conneroisu/seo/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "seo",
	Short: "Manage SEO head tags for Go web applications",
	Long: `seo manages the title, Open Graph, Twitter and raw head tags of a page,
signs Flipp social image URLs, and generates favicons.

Quick Start:
  seo render --page page.yml      Render head tags for a page file
  seo inspect index.html          List the tags found in an HTML document
  seo flipp blog --title "Hello"  Print a signed Flipp image URL
  seo favicon logo.png            Generate favicon assets
  seo preview                     Serve a live preview of a page file

Documentation: https://github.com/conneroisu/seo`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// Errors are printed with fix suggestions.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", seoerrors.WithSuggestions(err, suggestionContext()))
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .seo.yml, can also use SEO_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig initializes the configuration system.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. SEO_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .seo.yml in current directory
//
// Every key can also be set from the environment with the SEO_ prefix and
// dots replaced by underscores (e.g., SEO_PREVIEW_PORT=9000).
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("SEO_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".seo")
	}

	viper.SetEnvPrefix("SEO")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// A missing config file is fine; defaults apply.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// app bundles what every command needs.
type app struct {
	config    *config.Config
	container *di.ServiceContainer
	logger    logging.Logger
}

// bootstrap loads configuration and initializes the service container.
// Callers must call close.
func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	container := di.NewServiceContainer(cfg)
	if err := container.Initialize(); err != nil {
		return nil, err
	}

	logger, err := container.GetLogger()
	if err != nil {
		return nil, err
	}

	return &app{config: cfg, container: container, logger: logger}, nil
}

func (a *app) close() {
	if err := a.container.Shutdown(context.Background()); err != nil {
		a.logger.Warn(context.Background(), err, "Error during container shutdown")
	}
}

func suggestionContext() *seoerrors.SuggestionContext {
	templates := viper.GetStringMapString("services.flipp.templates")
	aliases := make([]string, 0, len(templates))
	for alias := range templates {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)

	return &seoerrors.SuggestionContext{
		ConfigPath: viper.ConfigFileUsed(),
		PagePath:   viper.GetString("preview.page"),
		Aliases:    aliases,
	}
}

// commandContext is cmd's context, Background when cmd runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
