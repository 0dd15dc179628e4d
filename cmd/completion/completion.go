/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package completion

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-inp/pkg/config"
	"jinr.ru/greenlab/go-inp/pkg/refdb"
)

const (
	Bash       = "bash"
	Zsh        = "zsh"
	Fish       = "fish"
	PowerShell = "powershell"
)

const completionExample = `
Save bash completion to a file
# go-inp completion > $HOME/.go-inp_completions

Apply completions to the current bash instance
# source <(go-inp completion)

Machine names of the reference data are completed too
# go-inp ports pac<TAB>

Zsh completion
# go-inp completion zsh > "${fpath[1]}/_go-inp"
`

// NewCommand creates a cobra command object for generating completion scripts
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:       fmt.Sprintf("completion [%s|%s|%s|%s]", Bash, Zsh, Fish, PowerShell),
		Short:     "Generate shell completion script, bash by default",
		Example:   completionExample,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{Bash, Zsh, Fish, PowerShell},
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := Bash
			if len(args) == 1 {
				shell = args[0]
			}
			out := cmd.OutOrStdout()
			switch shell {
			case Bash:
				return cmd.Root().GenBashCompletion(out)
			case Zsh:
				return cmd.Root().GenZshCompletion(out)
			case Fish:
				return cmd.Root().GenFishCompletion(out, true)
			case PowerShell:
				return cmd.Root().GenPowerShellCompletion(out)
			}
			return fmt.Errorf("unsupported shell %q", shell)
		},
	}
	return cmd
}

// Machines completes the first argument with machine names of the
// configured reference source
func Machines(cfg *config.Config) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		src, err := refdb.OpenSource(cfg.RefSourcePath())
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		defer src.Close()
		names, err := src.Machines()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		var matches []string
		for _, name := range names {
			if strings.HasPrefix(name, toComplete) {
				matches = append(matches, name)
			}
		}
		return matches, cobra.ShellCompDirectiveNoFileComp
	}
}
