package commands

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/shaderpatch/shaderpatch/internal/cli/config"
	"github.com/shaderpatch/shaderpatch/internal/cli/ui"
	perrors "github.com/shaderpatch/shaderpatch/internal/errors"
	"github.com/shaderpatch/shaderpatch/internal/utils"
)

// NewBuildCommand creates the build command
func NewBuildCommand(opts *globalOptions) *cobra.Command {
	var (
		output string
		debug  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "build [files...]",
		Short: "Patch and inject shaders and write the results",
		Long: `Process shader stages and write the compiler-ready source.

For every stage file (.vert .frag .geom .comp .tesc .tese) the build:
  1. Applies the patch list in order
  2. Resolves #generated and #snippet directives
  3. Inserts the #define prefix after the #version header

Without arguments every stage under shaders.dir is built. A failing shader
does not stop the others; all failures are reported at the end.`,
		Example: `  # Build every shader
  shaderpatch build

  # Build two shaders into a custom directory
  shaderpatch build shaders/water.frag shaders/sky.vert -o dist

  # Also write every resolved stage to debug.dir
  shaderpatch build --debug

  # Report errors as JSON (useful for tooling)
  shaderpatch build --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			startTime := time.Now()
			out := cmd.OutOrStdout()

			e, _, err := opts.load(cmd, func(cfg *config.Config) {
				if debug {
					cfg.Debug.Enabled = true
				}
			})
			if err != nil {
				return err
			}
			cfg := e.Config()
			if output == "" {
				output = cfg.Shaders.Output
			}

			names := make([]string, len(args))
			for i, arg := range args {
				names[i] = utils.ShaderName(cfg.Shaders.Dir, arg)
			}

			result, err := e.Build(output, names...)
			if result == nil {
				return err
			}

			var list perrors.ErrorList
			if err != nil {
				var ok bool
				if list, ok = err.(perrors.ErrorList); !ok {
					return err
				}
			}

			if asJSON && len(list) > 0 {
				text, jerr := list.ToJSON()
				if jerr != nil {
					return jerr
				}
				fmt.Fprintln(out, text)
				return fmt.Errorf("%d shader(s) failed", len(list))
			}

			for _, ee := range list {
				fmt.Fprint(cmd.ErrOrStderr(), ui.ShaderError(ee, color.NoColor))
				fmt.Fprintln(cmd.ErrOrStderr())
			}

			infoColor := color.New(color.FgCyan)
			for _, name := range result.Skipped {
				infoColor.Fprintf(out, "  skipped %s (not a shader stage)\n", name)
			}

			if len(list) > 0 {
				return fmt.Errorf("%d shader(s) failed, %d built", len(list), len(result.Written))
			}

			ui.WriteSuccess(out, fmt.Sprintf("Built %d shader(s) into %s in %s",
				len(result.Written), output, time.Since(startTime).Round(time.Millisecond)), color.NoColor)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "out", "o", "", "Output directory (default: shaders.output)")
	cmd.Flags().BoolVar(&debug, "debug", false, "Write resolved stages to debug.dir")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output errors in JSON format")

	return cmd
}
