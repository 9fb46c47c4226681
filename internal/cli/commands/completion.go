package commands

import (
	"github.com/spf13/cobra"
)

// NewCompletionCommand creates the completion command for shell completions
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `Generate shell completion script for the shaderpatch CLI.

To load completions:

Bash:

  $ source <(shaderpatch completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ shaderpatch completion bash > /etc/bash_completion.d/shaderpatch
  # macOS:
  $ shaderpatch completion bash > $(brew --prefix)/etc/bash_completion.d/shaderpatch

Zsh:

  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:

  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ shaderpatch completion zsh > "${fpath[1]}/_shaderpatch"

  # You will need to start a new shell for this setup to take effect.

Fish:

  $ shaderpatch completion fish | source

  # To load completions for each session, execute once:
  $ shaderpatch completion fish > ~/.config/fish/completions/shaderpatch.fish

PowerShell:

  PS> shaderpatch completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> shaderpatch completion powershell > shaderpatch.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := args[0]
			root := cmd.Root()
			out := cmd.OutOrStdout()

			switch shell {
			case "bash":
				return root.GenBashCompletion(out)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}
