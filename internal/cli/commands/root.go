package commands

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shaderpatch/shaderpatch/internal/cli/config"
	"github.com/shaderpatch/shaderpatch/internal/cli/ui"
	"github.com/shaderpatch/shaderpatch/internal/engine"
	"github.com/shaderpatch/shaderpatch/internal/logging"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// globalOptions are the persistent flags shared by every subcommand
type globalOptions struct {
	configPath string
	verbose    bool
	noColor    bool
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "shaderpatch",
		Short: "Patch and inject shader source before compilation",
		Long: color.CyanString(`shaderpatch - shader source patch and directive-injection engine

shaderpatch rewrites shader source according to an ordered, declarative
patch list and resolves #generated / #snippet directives, then prefixes
every stage with #define lines computed from project configuration.

Features:
  • Regex, token, start and end-of-file patches
  • Function extraction from one shader into another
  • Reusable snippet assets
  • Incremental rebuilds on file change`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default: ./shaderpatch.yml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Show debug logging")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	// Add subcommands
	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewInitCommand())
	rootCmd.AddCommand(NewBuildCommand(opts))
	rootCmd.AddCommand(NewDiffCommand(opts))
	rootCmd.AddCommand(NewExtractCommand(opts))
	rootCmd.AddCommand(NewListCommand(opts))
	rootCmd.AddCommand(NewWatchCommand(opts))
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the shaderpatch version, Git commit, build date, and Go version",
		Run: func(cmd *cobra.Command, args []string) {
			// Set GoVersion to actual runtime if not set at build time
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			kv := ui.NewKeyValueTable(cmd.OutOrStdout(), color.NoColor)
			kv.AddRow("shaderpatch version", Version)
			kv.AddRow("Git commit", GitCommit)
			kv.AddRow("Build date", BuildDate)
			kv.AddRow("Go version", goVer)
			kv.Render()
		},
	}
}

// load reads the configuration, applies command-line adjustments, and builds
// an engine with a logger honoring --verbose
func (o *globalOptions) load(cmd *cobra.Command, adjust ...func(*config.Config)) (*engine.Engine, *zap.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), ui.ConfigError(err.Error(), color.NoColor))
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	for _, fn := range adjust {
		fn(cfg)
	}

	logger := logging.New(o.verbose)
	e, err := engine.New(cfg, engine.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return e, logger, nil
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}
