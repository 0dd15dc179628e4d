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

package header

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-inp/pkg/config"
	"jinr.ru/greenlab/go-inp/pkg/inp"
)

func NewCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "header <file.inp>",
		Short: "Validate and print the header of an INP file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			header, _, err := inp.ReadHeader(f)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), header)
			fmt.Fprintf(cmd.OutOrStdout(), "recorded: %s\n", header.BaseTime().Format(time.RFC3339))
			return nil
		},
	}
	return cmd
}
