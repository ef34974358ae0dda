package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// newCompletionCmd creates the completion command for generating shell completions.
func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for clade.

To load completions:

Bash:
  $ source <(clade completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ clade completion bash > /etc/bash_completion.d/clade
  # macOS:
  $ clade completion bash > $(brew --prefix)/etc/bash_completion.d/clade

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ clade completion zsh > "${fpath[1]}/_clade"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ clade completion fish | source

  # To load completions for each session, execute once:
  $ clade completion fish > ~/.config/fish/completions/clade.fish

PowerShell:
  PS> clade completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> clade completion powershell > clade.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}
