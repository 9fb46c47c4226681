package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/shaderpatch/shaderpatch/internal/cli/ui"
	"github.com/shaderpatch/shaderpatch/internal/patch"
)

// NewListCommand creates the list command
func NewListCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the loaded patches, defines and generated values",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			noColor := color.NoColor

			e, _, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if err := e.Reload(); err != nil {
				return err
			}
			cfg := e.Config()

			ui.Header(out, fmt.Sprintf("Patches (%s)", cfg.Patches.File), noColor)
			patches := e.Pipeline().Patches()
			if len(patches) == 0 {
				fmt.Fprintln(out, "  none")
			} else {
				table := ui.NewTable(out, []string{"#", "TYPE", "TARGET", "DETAIL"}, &ui.TableOptions{NoColor: noColor, MaxCellWidth: 60})
				for i, p := range patches {
					kind, target, detail := describe(p)
					table.AddRow(strconv.Itoa(i+1), kind, target, detail)
				}
				table.Render()
			}
			fmt.Fprintln(out)

			ui.Header(out, "Defines", noColor)
			if props := e.Injector().Properties(); len(props) == 0 {
				fmt.Fprintln(out, "  none")
			} else {
				kv := ui.NewKeyValueTable(out, noColor)
				for _, p := range props {
					kv.AddRow(p.Name, fmt.Sprintf("%s (%s)", p.Value(), p.Kind))
				}
				kv.Render()
			}
			fmt.Fprintln(out)

			ui.Header(out, "Generated values", noColor)
			store := e.Store()
			if store.Len() == 0 {
				fmt.Fprintln(out, "  none")
			} else {
				producers := make(map[string]string)
				for _, x := range e.Extractions() {
					producers[x.Key] = fmt.Sprintf("%s() from %s", x.Function, x.File)
				}
				table := ui.NewTable(out, []string{"KEY", "SOURCE", "LINES"}, &ui.TableOptions{NoColor: noColor})
				for _, key := range store.Keys() {
					value, _ := store.Get(key)
					source, ok := producers[key]
					if !ok {
						source = "config"
					}
					table.AddRow(key, source, strconv.Itoa(strings.Count(strings.TrimSuffix(value, "\n"), "\n")+1))
				}
				table.Render()
			}

			return nil
		},
	}

	return cmd
}

// describe summarizes a patch for the listing
func describe(p patch.Patch) (kind, target, detail string) {
	kind, target = "custom", "?"
	if d, ok := p.(patch.Describer); ok {
		kind, detail = d.Kind(), d.Describe()
	}
	if t, ok := p.(interface{ TargetDescription() string }); ok {
		target = t.TargetDescription()
	}
	return kind, target, detail
}
