package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for clifixture.

To load completions:

BASH:
  $ source <(clifixture completion bash)

ZSH:
  $ clifixture completion zsh > "${fpath[1]}/_clifixture"

FISH:
  $ clifixture completion fish > ~/.config/fish/completions/clifixture.fish

POWERSHELL:
  PS> clifixture completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			switch args[0] {
			case "bash":
				err = cmd.Root().GenBashCompletion(outputWriter)
			case "zsh":
				err = cmd.Root().GenZshCompletion(outputWriter)
			case "fish":
				err = cmd.Root().GenFishCompletion(outputWriter, true)
			case "powershell":
				err = cmd.Root().GenPowerShellCompletion(outputWriter)
			}
			if err != nil {
				return fmt.Errorf("failed to generate %s completion: %w", args[0], err)
			}
			return nil
		},
	}
}
