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

package remote

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-inp/cmd/output"
	"jinr.ru/greenlab/go-inp/pkg/command"
	"jinr.ru/greenlab/go-inp/pkg/config"
	"jinr.ru/greenlab/go-inp/pkg/replay"
)

const (
	AddressOptionName = "address"
	PortOptionName    = "port"
	PortsOptionName   = "ports"
	SkipOptionName    = "skip"
	RawOptionName     = "raw"
	FormatOptionName  = "format"
)

// NewCommand groups commands that talk to a running API server
func NewCommand(cfg *config.Config) *cobra.Command {
	var (
		address string
		port    int
	)
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Use a running go-inp API server",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// cobra runs only the closest persistent hook
			if root := cmd.Root(); root.PersistentPreRunE != nil {
				if err := root.PersistentPreRunE(cmd, args); err != nil {
					return err
				}
			}
			if address != "" {
				cfg.Address = address
			}
			if port != 0 {
				cfg.Port = port
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&address, AddressOptionName, "", fmt.Sprintf("API server address. E.g. %s", config.DefaultApiAddress))
	cmd.PersistentFlags().IntVar(&port, PortOptionName, 0, fmt.Sprintf("API server port. E.g. %d", config.DefaultApiPort))
	cmd.AddCommand(NewDecodeCommand(cfg))
	cmd.AddCommand(NewPortsCommand(cfg))
	cmd.AddCommand(NewMachinesCommand(cfg))
	return cmd
}

func NewDecodeCommand(cfg *config.Config) *cobra.Command {
	var (
		ports  []int
		skip   int
		raw    bool
		format string
	)
	cmd := &cobra.Command{
		Use:   "decode <file.inp>",
		Short: "Upload an INP file and print the decoded replay",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed(PortsOptionName) {
				ports = cfg.Ports
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			result, err := command.NewApiClient(cfg).Decode(f, ports, skip, raw)
			if err != nil {
				return err
			}
			if err := output.Write(cmd.OutOrStdout(), result, format); err != nil {
				return err
			}
			if result.Termination == replay.TerminationError {
				return errors.New(result.Error)
			}
			return nil
		},
	}
	cmd.Flags().IntSliceVar(&ports, PortsOptionName, nil, "Port indices to resolve, all ports by default. E.g. 0,1")
	cmd.Flags().IntVar(&skip, SkipOptionName, cfg.SkipBytes, "Bytes of preamble to skip before the first frame")
	cmd.Flags().BoolVar(&raw, RawOptionName, false, "Payload is already decompressed")
	cmd.Flags().StringVar(&format, FormatOptionName, cfg.Format, "Output format. One of: json, yaml")
	return cmd
}

func NewPortsCommand(cfg *config.Config) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "ports <machine>",
		Short: "List input ports of a machine known to the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ports, err := command.NewApiClient(cfg).Ports(args[0])
			if err != nil {
				return err
			}
			return output.Write(cmd.OutOrStdout(), ports, format)
		},
	}
	cmd.Flags().StringVar(&format, FormatOptionName, cfg.Format, "Output format. One of: json, yaml")
	return cmd
}

func NewMachinesCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "machines",
		Short: "List machines known to the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			machines, err := command.NewApiClient(cfg).Machines()
			if err != nil {
				return err
			}
			for _, name := range machines {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	return cmd
}
