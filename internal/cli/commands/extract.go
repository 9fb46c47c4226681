package commands

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/shaderpatch/shaderpatch/internal/cli/ui"
	"github.com/shaderpatch/shaderpatch/internal/extract"
	"github.com/shaderpatch/shaderpatch/internal/utils"
)

var errFunctionNotFound = errors.New("function not found")

// NewExtractCommand creates the extract command
func NewExtractCommand(opts *globalOptions) *cobra.Command {
	var (
		raw  bool
		list bool
	)

	cmd := &cobra.Command{
		Use:   "extract <file> [function]",
		Short: "Print one function from a shader",
		Long: `Print the full text of a function, prototype and body, as the extract
producers in shaderpatch.yml would store it. The shader is patched first
unless --raw is given.`,
		Example: `  # Print dropletNoise from water.frag after patching
  shaderpatch extract shaders/water.frag dropletNoise

  # List every function defined in the file
  shaderpatch extract shaders/water.frag --list`,
		Args: func(cmd *cobra.Command, args []string) error {
			if list {
				return cobra.ExactArgs(1)(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			e, _, err := opts.load(cmd)
			if err != nil {
				return err
			}
			name := utils.ShaderName(e.Config().Shaders.Dir, args[0])

			var source string
			if raw {
				source, err = e.Source(name)
			} else {
				source, err = e.Patched(name)
			}
			if err != nil {
				return err
			}

			scanner := extract.NewScanner(source)
			if list {
				functions, err := scanner.Functions()
				if err != nil {
					return err
				}
				for _, fn := range functions {
					fmt.Fprintln(out, fn)
				}
				return nil
			}

			function := args[1]
			text, found, err := scanner.Find(function)
			if err != nil {
				return err
			}
			if !found {
				functions, _ := scanner.Functions()
				suggestions := ui.FindSimilar(function, functions, nil)
				fmt.Fprint(cmd.ErrOrStderr(), ui.FunctionNotFoundError(function, name, suggestions, color.NoColor))
				return fmt.Errorf("%s: %w: %s", name, errFunctionNotFound, function)
			}

			fmt.Fprint(out, text)
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Do not apply the patch list first")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "List function names instead")

	return cmd
}
