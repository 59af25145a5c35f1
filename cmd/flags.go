package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// StandardFlags provides consistent flag definitions across commands
type StandardFlags struct {
	// Page flags
	Page string `flag:"page" desc:"Page file (YAML)" default:""`

	// Server flags
	Port int    `flag:"port,p" desc:"Port to serve on" default:"8080"`
	Host string `flag:"host" desc:"Host to bind to" default:"localhost"`

	// Favicon flags
	OutputDir string `flag:"output,o" desc:"Directory for generated assets" default:""`
	Watch     bool   `flag:"watch,w" desc:"Regenerate when the source changes" default:"false"`

	// Flipp flags
	Data        string `flag:"data,d" desc:"Template data (JSON or @file.json)" default:""`
	Title       string `flag:"title" desc:"Template title" default:""`
	Description string `flag:"description" desc:"Template description" default:""`

	// Output flags
	Format string `flag:"format,f" desc:"Output format" default:""`
}

// AddStandardFlags adds standard flags to a command
func AddStandardFlags(cmd *cobra.Command, flagTypes ...string) *StandardFlags {
	flags := &StandardFlags{}

	for _, flagType := range flagTypes {
		switch flagType {
		case "page":
			addPageFlags(cmd, flags)
		case "server":
			addServerFlags(cmd, flags)
		case "favicon":
			addFaviconFlags(cmd, flags)
		case "flipp":
			addFlippFlags(cmd, flags)
		}
	}

	return flags
}

func addPageFlags(cmd *cobra.Command, flags *StandardFlags) {
	cmd.Flags().StringVar(&flags.Page, "page", "", "Page file (default from preview.page)")
	AddFlagValidation(cmd, "page", ValidateFileExists)
}

func addServerFlags(cmd *cobra.Command, flags *StandardFlags) {
	cmd.Flags().IntVarP(&flags.Port, "port", "p", 8080, "Port to serve on")
	cmd.Flags().StringVar(&flags.Host, "host", "localhost", "Host to bind to")
	AddFlagValidation(cmd, "port", ValidatePort)
}

func addFaviconFlags(cmd *cobra.Command, flags *StandardFlags) {
	cmd.Flags().StringVarP(&flags.OutputDir, "output", "o", "", "Directory for generated assets (default from favicon.output_dir)")
	cmd.Flags().BoolVarP(&flags.Watch, "watch", "w", false, "Regenerate when the source changes")
}

func addFlippFlags(cmd *cobra.Command, flags *StandardFlags) {
	cmd.Flags().StringVarP(&flags.Data, "data", "d", "", "Template data (JSON or @file.json)")
	cmd.Flags().StringVar(&flags.Title, "title", "", "Template title")
	cmd.Flags().StringVar(&flags.Description, "description", "", "Template description")
	AddFlagValidation(cmd, "data", func(value string) error {
		if strings.HasPrefix(value, "@") {
			return ValidateFileExists(strings.TrimPrefix(value, "@"))
		}
		return ValidateJSON(value)
	})
}

// AddFormatFlag adds --format restricted to formats; the first is the default.
func AddFormatFlag(cmd *cobra.Command, flags *StandardFlags, formats ...string) {
	cmd.Flags().StringVarP(&flags.Format, "format", "f", formats[0],
		fmt.Sprintf("Output format (%s)", strings.Join(formats, "|")))
	AddFlagValidation(cmd, "format", ValidateOneOf(formats...))
}

// ParseData returns the Flipp template data. --title and --description
// override the matching keys of --data.
func (f *StandardFlags) ParseData() (map[string]interface{}, error) {
	data := make(map[string]interface{})

	raw := f.Data
	if strings.HasPrefix(raw, "@") {
		filename := strings.TrimPrefix(raw, "@")
		content, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read data file %s: %w", filename, err)
		}
		raw = string(content)
	}

	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return nil, fmt.Errorf("invalid JSON in data: %w", err)
		}
	}

	if f.Title != "" {
		data["title"] = f.Title
	}
	if f.Description != "" {
		data["description"] = f.Description
	}

	return data, nil
}

// ValidateFlags validates flag combinations and values
func (f *StandardFlags) ValidateFlags() error {
	if f.Port < 0 || f.Port > 65535 {
		return fmt.Errorf("port must be between 0 and 65535, got %d", f.Port)
	}

	if f.Data != "" && !strings.HasPrefix(f.Data, "@") {
		if err := ValidateJSON(f.Data); err != nil {
			return err
		}
	}

	return nil
}

// AddFlagValidation adds validation for a specific flag
func AddFlagValidation(cmd *cobra.Command, flagName string, validator func(string) error) {
	flag := cmd.Flags().Lookup(flagName)
	if flag == nil {
		return
	}

	flag.Value = &validatingValue{
		Value:     flag.Value,
		validator: validator,
	}
}

type validatingValue struct {
	pflag.Value
	validator func(string) error
}

func (v *validatingValue) Set(val string) error {
	if v.validator != nil {
		if err := v.validator(val); err != nil {
			return err
		}
	}
	return v.Value.Set(val)
}

// ValidatePort accepts 0 (any free port) through 65535.
func ValidatePort(portStr string) error {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("invalid port number: %s", portStr)
	}

	if port < 0 || port > 65535 {
		return fmt.Errorf("port must be between 0 and 65535, got %d", port)
	}

	return nil
}

// File existence validation helper
func ValidateFileExists(filename string) error {
	if filename == "" {
		return nil // Empty is valid for optional files
	}

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", filename)
	}

	return nil
}

// JSON validation helper
func ValidateJSON(jsonStr string) error {
	if jsonStr == "" {
		return nil
	}

	var temp map[string]interface{}
	if err := json.Unmarshal([]byte(jsonStr), &temp); err != nil {
		return fmt.Errorf("invalid JSON object: %w", err)
	}

	return nil
}

// ValidateOneOf returns a validator accepting only the given values.
func ValidateOneOf(values ...string) func(string) error {
	return func(value string) error {
		for _, v := range values {
			if strings.EqualFold(v, value) {
				return nil
			}
		}
		return fmt.Errorf("invalid value %q, must be one of: %s", value, strings.Join(values, ", "))
	}
}
