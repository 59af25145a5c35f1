package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	seoerrors "github.com/conneroisu/seo/internal/errors"
	"github.com/conneroisu/seo/internal/render"
	"github.com/conneroisu/seo/internal/seo"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var inspectCmd = &cobra.Command{
	Use:     "inspect <file.html|->",
	Aliases: []string{"i"},
	Short:   "List the head tags found in an HTML document",
	Long: `List the title, Open Graph, Twitter, description and canonical tags of an
HTML document as tag keys. Other meta tags are listed as raw tags.

Examples:
  seo inspect index.html              # Table of recovered tags
  curl -s https://example.com | seo inspect - -f json`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

var inspectFlags = &StandardFlags{}

func init() {
	rootCmd.AddCommand(inspectCmd)

	AddFormatFlag(inspectCmd, inspectFlags, "table", "json", "yaml")
}

type inspectResult struct {
	Values  []inspectEntry `json:"values" yaml:"values"`
	RawTags []inspectEntry `json:"raw_tags" yaml:"raw_tags"`
}

type inspectEntry struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	var in io.Reader
	if args[0] == "-" {
		in = cmd.InOrStdin()
	} else {
		f, err := os.Open(args[0])
		if err != nil {
			return seoerrors.NewIOError(seoerrors.ErrCodeFileNotFound, "cannot open document", err).WithFile(args[0])
		}
		defer f.Close()
		in = f
	}

	pairs, rawTags, err := render.Inspect(in)
	if err != nil {
		return err
	}
	result := newInspectResult(pairs, rawTags)

	out := cmd.OutOrStdout()
	switch strings.ToLower(inspectFlags.Format) {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	case "yaml":
		return writeYAML(out, result)
	default:
		return outputInspectTable(out, result)
	}
}

func newInspectResult(pairs []seo.Pair, rawTags []seo.RawTag) inspectResult {
	result := inspectResult{
		Values:  make([]inspectEntry, 0, len(pairs)),
		RawTags: make([]inspectEntry, 0, len(rawTags)),
	}
	for _, p := range pairs {
		result.Values = append(result.Values, inspectEntry{Key: p.Key, Value: p.Value.String()})
	}
	for _, t := range rawTags {
		result.RawTags = append(result.RawTags, inspectEntry{Key: t.Key, Value: t.Markup})
	}
	return result
}

func outputInspectTable(out io.Writer, result inspectResult) error {
	if len(result.Values) == 0 && len(result.RawTags) == 0 {
		_, err := fmt.Fprintln(out, "No tags found.")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE\tKIND")
	fmt.Fprintln(w, "---\t-----\t----")

	for _, e := range result.Values {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Key, e.Value, kindLabel(e.Key))
	}
	for _, e := range result.RawTags {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Key, e.Value, "Raw")
	}

	return w.Flush()
}

// kindLabel names the extension of a key, "Core" for undotted keys.
func kindLabel(key string) string {
	prefix, _, ok := strings.Cut(key, ".")
	if !ok {
		return "Core"
	}
	return cases.Title(language.English).String(prefix)
}
