package cmd

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/conneroisu/seo/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var previewCmd = &cobra.Command{
	Use:     "preview",
	Aliases: []string{"p", "serve"},
	Short:   "Serve a live preview of a page file",
	Long: `Serve the rendered head of a page file. The browser reloads whenever the
page file changes.

Routes:
  /          preview page with a table of resolved tags
  /head      head markup only
  /api/tags  resolved values and raw tags as JSON
  /metrics   Prometheus metrics

Examples:
  seo preview                        # Serve preview.page on localhost:8080
  seo preview --page about.yml -p 3000`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

var previewFlags *StandardFlags

func init() {
	rootCmd.AddCommand(previewCmd)

	previewFlags = AddStandardFlags(previewCmd, "page", "server")

	viper.BindPFlag("preview.page", previewCmd.Flags().Lookup("page"))
	viper.BindPFlag("preview.port", previewCmd.Flags().Lookup("port"))
	viper.BindPFlag("preview.host", previewCmd.Flags().Lookup("host"))
}

func runPreview(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	views, err := a.container.GetViews()
	if err != nil {
		return err
	}

	srv := server.New(server.Dependencies{
		Config:     a.config,
		NewManager: a.container.GetManager,
		Views:      views,
		Logger:     a.logger,
	})

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := net.JoinHostPort(a.config.Preview.Host, strconv.Itoa(a.config.Preview.Port))
	fmt.Fprintf(cmd.OutOrStdout(), "Previewing %s at http://%s\n", a.config.Preview.Page, addr)

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
