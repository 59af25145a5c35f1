package cmd

import (
	"fmt"

	"github.com/conneroisu/seo/internal/page"
	"github.com/spf13/cobra"
)

var flippCmd = &cobra.Command{
	Use:   "flipp <alias>",
	Short: "Print a signed Flipp image URL",
	Long: `Print the signed image URL for the Flipp template configured under alias
in services.flipp.templates. The signing key comes from services.flipp.key
or SEO_SERVICES_FLIPP_KEY.

Without --data, --title or --description the payload is the title and
description of --page (both null when no page is given).

Examples:
  seo flipp blog --title "Hello" --description "World"
  seo flipp blog --data '{"title":"Hello","author":"Ada"}'
  seo flipp blog --page about.yml`,
	Args: cobra.ExactArgs(1),
	RunE: runFlipp,
}

var flippFlags *StandardFlags

func init() {
	rootCmd.AddCommand(flippCmd)

	flippFlags = AddStandardFlags(flippCmd, "flipp", "page")
}

func runFlipp(cmd *cobra.Command, args []string) error {
	alias := args[0]

	if err := flippFlags.ValidateFlags(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	m, err := a.container.GetManager()
	if err != nil {
		return err
	}

	if flippFlags.Page != "" {
		p, err := page.Load(flippFlags.Page)
		if err != nil {
			return err
		}
		// The page's own flipp section is not invoked here.
		p.Flipp = nil
		if err := p.Apply(m); err != nil {
			return err
		}
	}

	data, err := flippFlags.ParseData()
	if err != nil {
		return err
	}

	var payload any
	if len(data) > 0 {
		payload = data
	}

	url, err := m.Flipp(alias, payload)
	if err != nil {
		return err
	}

	a.logger.Debug(commandContext(cmd), "Signed Flipp URL", "alias", alias)
	_, err = fmt.Fprintln(cmd.OutOrStdout(), url.String())
	return err
}
