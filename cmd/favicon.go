package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	seoerrors "github.com/conneroisu/seo/internal/errors"
	"github.com/conneroisu/seo/internal/favicon"
	"github.com/conneroisu/seo/internal/watcher"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var faviconCmd = &cobra.Command{
	Use:   "favicon [source]",
	Short: "Generate favicon assets from an image",
	Long: `Generate favicon.ico, favicon.png and apple-touch-icon.png from a PNG or
JPEG image. Non-square images are centered on a transparent square.

The source defaults to favicon.source and the output directory to
favicon.output_dir.

Examples:
  seo favicon logo.png               # Write assets to ./public
  seo favicon logo.png -o static     # Write assets to ./static
  seo favicon logo.png --watch       # Regenerate whenever logo.png changes`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFavicon,
}

var faviconFlags *StandardFlags

func init() {
	rootCmd.AddCommand(faviconCmd)

	faviconFlags = AddStandardFlags(faviconCmd, "favicon")
	viper.BindPFlag("favicon.output_dir", faviconCmd.Flags().Lookup("output"))
}

func runFavicon(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	source := a.config.Favicon.Source
	if len(args) > 0 {
		source = args[0]
	}
	if source == "" {
		return seoerrors.NewValidationError(seoerrors.ErrCodeFileNotFound,
			"no favicon source given (argument or favicon.source)")
	}

	outputDir := a.config.Favicon.OutputDir
	if faviconFlags.OutputDir != "" {
		outputDir = faviconFlags.OutputDir
	}

	gen := &favicon.Generator{
		Source:    source,
		OutputDir: outputDir,
		Logger:    a.logger,
	}

	out := cmd.OutOrStdout()
	if err := generateFavicons(commandContext(cmd), gen, out); err != nil {
		return err
	}
	if !faviconFlags.Watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchFavicon(ctx, gen, out)
}

func generateFavicons(ctx context.Context, gen *favicon.Generator, out io.Writer) error {
	assets, err := gen.Generate(ctx)
	if err != nil {
		return err
	}
	for _, asset := range assets {
		fmt.Fprintf(out, "  %-22s %4dpx  %6d bytes  %s\n", asset.Name, asset.Size, asset.Bytes, asset.Path)
	}
	return nil
}

// watchFavicon regenerates on every change of the source until ctx is done.
// Failed regenerations are logged and do not stop the watch.
func watchFavicon(ctx context.Context, gen *favicon.Generator, out io.Writer) error {
	fw, err := watcher.NewFileWatcher(200*time.Millisecond, gen.Logger)
	if err != nil {
		return err
	}
	defer fw.Stop()

	if err := fw.AddFile(gen.Source); err != nil {
		return err
	}

	handler := seoerrors.NewErrorHandler(gen.Logger)
	fw.AddHandler(func(events []watcher.ChangeEvent) error {
		fmt.Fprintf(out, "Source changed (%s), regenerating...\n", watcher.Describe(events))
		if err := generateFavicons(ctx, gen, out); err != nil {
			handler.Handle(ctx, err)
		}
		return nil
	})

	if err := fw.Start(ctx); err != nil {
		return err
	}

	fmt.Fprintf(out, "Watching %s for changes... (Press Ctrl+C to stop)\n", gen.Source)
	<-ctx.Done()
	return nil
}
