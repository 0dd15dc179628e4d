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

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-inp/cmd/completion"
	"jinr.ru/greenlab/go-inp/cmd/config"
	"jinr.ru/greenlab/go-inp/cmd/decode"
	"jinr.ru/greenlab/go-inp/cmd/header"
	"jinr.ru/greenlab/go-inp/cmd/ports"
	"jinr.ru/greenlab/go-inp/cmd/refdb"
	"jinr.ru/greenlab/go-inp/cmd/remote"
	"jinr.ru/greenlab/go-inp/cmd/serve"
	pkgconfig "jinr.ru/greenlab/go-inp/pkg/config"
	"jinr.ru/greenlab/go-inp/pkg/log"
)

const (
	LogLevelOptionName = "log-level"
	RefDBOptionName    = "refdb"
)

func NewRootCommand(out io.Writer) *cobra.Command {
	return newRootCommand(out, pkgconfig.NewDefaultConfig())
}

func newRootCommand(out io.Writer, cfg *pkgconfig.Config) *cobra.Command {
	var logLevel, refdbPath string
	cfg.Load()
	cmd := &cobra.Command{
		Use:           "go-inp",
		Short:         "Tool to decode MAME INP input recordings",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if refdbPath != "" {
				cfg.SetRefSource(refdbPath)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			log.Init(cmd.ErrOrStderr(), cfg.LogLevel)
			return nil
		},
	}
	cmd.SetOut(out)
	cmd.AddCommand(config.NewCommand(cfg))
	cmd.AddCommand(decode.NewCommand(cfg))
	cmd.AddCommand(header.NewCommand(cfg))
	cmd.AddCommand(ports.NewCommand(cfg))
	cmd.AddCommand(refdb.NewCommand(cfg))
	cmd.AddCommand(serve.NewCommand(cfg))
	cmd.AddCommand(remote.NewCommand(cfg))
	cmd.AddCommand(completion.NewCommand())
	cmd.PersistentFlags().StringVar(&logLevel, LogLevelOptionName, "", fmt.Sprintf("Log level. %s", log.HelpLevels))
	cmd.PersistentFlags().StringVar(&refdbPath, RefDBOptionName, "",
		"Reference data: a newline delimited export (plain, .gz, .zst) or a .db store")
	return cmd
}
