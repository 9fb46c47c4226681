package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/shaderpatch/shaderpatch/internal/cli/ui"
	"github.com/shaderpatch/shaderpatch/internal/diff"
	"github.com/shaderpatch/shaderpatch/internal/inject"
	"github.com/shaderpatch/shaderpatch/internal/utils"
)

// NewDiffCommand creates the diff command
func NewDiffCommand(opts *globalOptions) *cobra.Command {
	var (
		unified bool
		stat    bool
		patched bool
	)

	cmd := &cobra.Command{
		Use:   "diff [files...]",
		Short: "Show what processing changes in each shader",
		Long: `Compare every shader with the source the build would write for it.

By default the comparison includes directive resolution and the #define
prefix. With --patched only the patch list is applied.`,
		Example: `  # Colored diff of every shader
  shaderpatch diff

  # Unified diff of one shader, patch list only
  shaderpatch diff shaders/water.frag --unified --patched

  # Just the line counts
  shaderpatch diff --stat`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			e, _, err := opts.load(cmd)
			if err != nil {
				return err
			}
			cfg := e.Config()

			var names []string
			if len(args) == 0 {
				if names, err = utils.FindShaderFiles(cfg.Shaders.Dir, cfg.IsShader); err != nil {
					return fmt.Errorf("failed to scan %s: %w", cfg.Shaders.Dir, err)
				}
			} else {
				for _, arg := range args {
					names = append(names, utils.ShaderName(cfg.Shaders.Dir, arg))
				}
			}

			fileColor := color.New(color.FgWhite, color.Bold)
			failed := 0
			changed := 0
			for _, name := range names {
				original, err := e.Source(name)
				if err != nil {
					return err
				}

				var processed string
				if _, isStage := inject.StageFromFilename(name); patched || !isStage {
					processed, err = e.Patched(name)
				} else {
					var ss *inject.StageSource
					if ss, err = e.Load(name); err == nil {
						processed = ss.Combined()
					}
				}
				if err != nil {
					failed++
					fmt.Fprint(cmd.ErrOrStderr(), ui.ShaderError(err, color.NoColor))
					continue
				}

				r := diff.Diff(original, processed)
				if !r.Changed {
					continue
				}
				changed++

				switch {
				case stat:
					fmt.Fprintf(out, "%s: %s\n", name, r.Stats())
				case unified:
					fmt.Fprint(out, r.UnifiedDiff(name))
				default:
					fileColor.Fprintln(out, name)
					fmt.Fprintln(out, r.String())
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d shader(s) failed", failed)
			}
			if changed == 0 {
				fmt.Fprintln(out, color.GreenString("No changes"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&unified, "unified", "u", false, "Print a unified diff")
	cmd.Flags().BoolVar(&stat, "stat", false, "Print only change counts")
	cmd.Flags().BoolVar(&patched, "patched", false, "Apply only the patch list")

	return cmd
}
