package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shaderpatch/shaderpatch/internal/cli/ui"
	"github.com/shaderpatch/shaderpatch/internal/watch"
)

// NewWatchCommand creates the watch command
func NewWatchCommand(opts *globalOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild shaders whenever their inputs change",
		Long: `Build every shader, then watch the shader directory, the snippet
directory and the patch list.

  • A changed shader is rebuilt on its own, and only if its content changed
  • A changed patch list, snippet or extraction source reloads the patch
    list, re-runs the extract producers and rebuilds everything`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			e, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}
			cfg := e.Config()
			if output == "" {
				output = cfg.Shaders.Output
			}

			builder := watch.NewIncrementalBuilder(e, cfg, output, logger)
			report := func(result *watch.RebuildResult, err error) {
				if err != nil {
					fmt.Fprint(cmd.ErrOrStderr(), ui.ShaderError(err, color.NoColor))
				}
				if result != nil && len(result.Rebuilt) > 0 {
					ui.WriteSuccess(out, fmt.Sprintf("Rebuilt %d shader(s) in %s", len(result.Rebuilt), result.Duration), color.NoColor)
				}
			}

			report(builder.FullBuild())

			watcher, err := watch.NewFileWatcher(builder.Roots(), builder.Relevant, func(files []string) error {
				result, err := builder.HandleChanges(files)
				report(result, err)
				return nil
			}, logger)
			if err != nil {
				return err
			}
			if err := watcher.Start(); err != nil {
				return fmt.Errorf("failed to start watcher: %w", err)
			}

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			banner := color.New(color.FgCyan, color.Bold)
			fmt.Fprintln(out)
			banner.Fprintln(out, "shaderpatch watch")
			fmt.Fprintf(out, "   Shaders:  %s\n", cfg.Shaders.Dir)
			fmt.Fprintf(out, "   Snippets: %s\n", cfg.Snippets.Dir)
			fmt.Fprintf(out, "   Patches:  %s\n", cfg.Patches.File)
			fmt.Fprintf(out, "   Output:   %s\n", output)
			fmt.Fprintln(out)
			color.New(color.FgYellow).Fprintln(out, "Press Ctrl+C to stop")

			<-sigChan

			fmt.Fprintln(out, "\nShutting down...")
			if err := watcher.Stop(); err != nil {
				return fmt.Errorf("error stopping watcher: %w", err)
			}
			logger.Debug("watch stopped", zap.String("output", output))
			_ = logger.Sync()
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "out", "o", "", "Output directory (default: shaders.output)")

	return cmd
}
