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

package serve

import (
	"fmt"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-inp/pkg/command"
	"jinr.ru/greenlab/go-inp/pkg/config"
)

const (
	AddressOptionName       = "address"
	PortOptionName          = "port"
	MaxUploadSizeOptionName = "max-upload-size"
)

func NewCommand(cfg *config.Config) *cobra.Command {
	var (
		address       string
		port          int
		maxUploadSize int64
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if address != "" {
				cfg.Address = address
			}
			if port != 0 {
				cfg.Port = port
			}
			if maxUploadSize != 0 {
				cfg.MaxUploadSize = maxUploadSize
			}
			return command.StartApiServer(cfg)
		},
	}
	cmd.Flags().StringVar(&address, AddressOptionName, "", fmt.Sprintf("Address to bind. E.g. %s", config.DefaultApiAddress))
	cmd.Flags().IntVar(&port, PortOptionName, 0, fmt.Sprintf("Port number to bind. E.g. %d", config.DefaultApiPort))
	cmd.Flags().Int64Var(&maxUploadSize, MaxUploadSizeOptionName, 0, fmt.Sprintf("Upload size limit in bytes. E.g. %d", config.DefaultMaxUploadSize))
	return cmd
}
