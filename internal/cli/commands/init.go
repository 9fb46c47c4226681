package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/shaderpatch/shaderpatch/internal/cli/config"
	"github.com/shaderpatch/shaderpatch/internal/cli/ui"
	"github.com/shaderpatch/shaderpatch/internal/patchlist"
)

// askOne is swapped out in tests
var askOne = survey.AskOne

// NewInitCommand creates the init command
func NewInitCommand() *cobra.Command {
	var (
		yes   bool
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a shaderpatch.yml and an empty project layout",
		Long: `Create shaderpatch.yml, an empty patch list and the shader and snippet
directories. Locations are asked for interactively unless --yes is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			configPath := filepath.Join(root, config.FileNames[0])
			if _, err := os.Stat(configPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
			}

			cfg := config.DefaultConfig()
			if !yes {
				if err := promptConfig(cfg); err != nil {
					return err
				}
			}

			for _, dir := range []string{cfg.Shaders.Dir, cfg.Snippets.Dir} {
				if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
					return fmt.Errorf("failed to create %s: %w", dir, err)
				}
			}

			patchPath := filepath.Join(root, cfg.Patches.File)
			if _, err := os.Stat(patchPath); os.IsNotExist(err) {
				data, err := patchlist.Marshal(nil)
				if err != nil {
					return err
				}
				if err := os.WriteFile(patchPath, data, 0644); err != nil {
					return fmt.Errorf("failed to write %s: %w", patchPath, err)
				}
			}

			if err := config.Save(configPath, cfg); err != nil {
				return fmt.Errorf("failed to write %s: %w", configPath, err)
			}

			ui.WriteSuccess(out, fmt.Sprintf("Created %s", configPath), color.NoColor)
			fmt.Fprintf(out, "   Shaders:  %s\n", cfg.Shaders.Dir)
			fmt.Fprintf(out, "   Snippets: %s\n", cfg.Snippets.Dir)
			fmt.Fprintf(out, "   Patches:  %s\n", cfg.Patches.File)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Accept every default without prompting")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing shaderpatch.yml")

	return cmd
}

// promptConfig asks for the project locations, defaulting to the current values
func promptConfig(cfg *config.Config) error {
	questions := []struct {
		message string
		target  *string
	}{
		{"Shader directory:", &cfg.Shaders.Dir},
		{"Build output directory:", &cfg.Shaders.Output},
		{"Patch list file:", &cfg.Patches.File},
		{"Snippet directory:", &cfg.Snippets.Dir},
	}

	for _, q := range questions {
		prompt := &survey.Input{
			Message: q.message,
			Default: *q.target,
		}
		if err := askOne(prompt, q.target, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}

	prompt := &survey.Confirm{
		Message: "Write resolved stages for debugging?",
		Default: cfg.Debug.Enabled,
	}
	return askOne(prompt, &cfg.Debug.Enabled)
}
