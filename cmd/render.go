package cmd

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/conneroisu/seo/internal/page"
	"github.com/conneroisu/seo/internal/render"
	"github.com/conneroisu/seo/internal/seo"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var renderCmd = &cobra.Command{
	Use:     "render",
	Aliases: []string{"r"},
	Short:   "Render the head tags of a page file",
	Long: `Render the head tags of a page file using the site defaults from the
configuration file.

Examples:
  seo render                         # Render preview.page as HTML
  seo render --page about.yml        # Render another page file
  seo render --page about.yml -f json # Dump the resolved tags as JSON`,
	RunE: runRender,
}

var renderFlags *StandardFlags

func init() {
	rootCmd.AddCommand(renderCmd)

	renderFlags = AddStandardFlags(renderCmd, "page")
	AddFormatFlag(renderCmd, renderFlags, "html", "json", "yaml")
}

func runRender(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	pagePath := renderFlags.Page
	if pagePath == "" {
		pagePath = a.config.Preview.Page
	}

	p, err := page.Load(pagePath)
	if err != nil {
		return err
	}

	m, err := a.container.GetManager()
	if err != nil {
		return err
	}
	if err := p.Apply(m); err != nil {
		return err
	}

	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()
	switch strings.ToLower(renderFlags.Format) {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(m.All())
	case "yaml":
		return writeYAML(out, snapshotNode(m.All()))
	default:
		views, err := a.container.GetViews()
		if err != nil {
			return err
		}
		for _, missing := range views.Missing(m) {
			a.logger.Warn(ctx, nil, "Extension has no view", "view", missing)
		}
		return render.Head(m, views).Render(ctx, out)
	}
}

// snapshotNode keeps the snapshot's key order, which a map would lose.
func snapshotNode(s seo.Snapshot) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	s.Each(func(key string, v seo.Value) {
		value := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
		if str, ok := v.Lookup(); ok {
			value = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: str}
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			value,
		)
	})
	return node
}

func writeYAML(w io.Writer, v interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}
