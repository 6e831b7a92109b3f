package cmd

import (
	"github.com/spf13/cobra"
)

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for hitcurl.

To load completions:

Bash:
  $ source <(hitcurl completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ hitcurl completion bash > /etc/bash_completion.d/hitcurl
  # macOS:
  $ hitcurl completion bash > $(brew --prefix)/etc/bash_completion.d/hitcurl

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ hitcurl completion zsh > "${fpath[1]}/_hitcurl"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ hitcurl completion fish | source

  # To load completions for each session, execute once:
  $ hitcurl completion fish > ~/.config/fish/completions/hitcurl.fish

PowerShell:
  PS> hitcurl completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> hitcurl completion powershell > hitcurl.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
