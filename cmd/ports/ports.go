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

package ports

import (
	"fmt"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-inp/cmd/completion"
	"jinr.ru/greenlab/go-inp/cmd/output"
	"jinr.ru/greenlab/go-inp/pkg/config"
	"jinr.ru/greenlab/go-inp/pkg/refdb"
	"jinr.ru/greenlab/go-inp/pkg/replay"
)

const (
	FormatOptionName = "format"
)

func NewCommand(cfg *config.Config) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:               "ports <machine>",
		Short:             "List input ports and fields of a machine",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completion.Machines(cfg),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := refdb.OpenSource(cfg.RefSourcePath())
			if err != nil {
				return err
			}
			defer src.Close()
			ports, err := replay.ListPorts(src, args[0])
			if err != nil {
				return err
			}
			return output.Write(cmd.OutOrStdout(), ports, format)
		},
	}
	cmd.Flags().StringVar(&format, FormatOptionName, cfg.Format,
		fmt.Sprintf("Output format. One of: %s, %s", config.OutputFormatJSON, config.OutputFormatYAML))
	return cmd
}
