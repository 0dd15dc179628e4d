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

package refdb

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-inp/pkg/config"
	"jinr.ru/greenlab/go-inp/pkg/log"
	"jinr.ru/greenlab/go-inp/pkg/refdb"
)

const (
	StoreOptionName = "store"
	// Stdio as file name
	Stdio = "-"
)

func NewCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refdb",
		Short: "Manage input port reference data",
	}
	cmd.AddCommand(NewImportCommand(cfg))
	cmd.AddCommand(NewMigrateCommand())
	cmd.AddCommand(NewMachinesCommand(cfg))
	cmd.AddCommand(NewInfoCommand(cfg))
	return cmd
}

func NewImportCommand(cfg *config.Config) *cobra.Command {
	var store string
	cmd := &cobra.Command{
		Use:   "import [export]",
		Short: "Build the reference store from an export",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfg.RefDBConfig.Path
			if len(args) == 1 {
				path = args[0]
			}
			if store == "" {
				store = cfg.Store
			}
			if err := os.MkdirAll(filepath.Dir(store), 0755); err != nil {
				return err
			}
			log.Info("Loading reference export %s", path)
			db, err := refdb.LoadFile(path)
			if err != nil {
				return err
			}
			s, err := refdb.OpenStore(store, false)
			if err != nil {
				return err
			}
			n, err := s.Import(db)
			if closeErr := s.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d machines into %s\n", n, store)
			return nil
		},
	}
	cmd.Flags().StringVar(&store, StoreOptionName, "", fmt.Sprintf("Store file. Default from config: %s", config.DefaultRefStoreFile))
	return cmd
}

func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate <in> <out>",
		Short: "Rewrite an older reference export into the current shape",
		Long: `Rewrite an older reference export into the current shape.
Unwrapped port field maps get wrapped, numeric field types get their
symbolic names. The output is compressed by extension (.gz, .zst, .zlib),
- means stdin or stdout.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if args[0] != Stdio {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			var out io.Writer = cmd.OutOrStdout()
			var file *os.File
			if args[1] != Stdio {
				f, err := os.Create(args[1])
				if err != nil {
					return err
				}
				file = f
				out = f
			}
			w, err := refdb.NewWriter(out, args[1])
			if err != nil {
				return err
			}
			stats, err := refdb.Migrate(in, w)
			if closeErr := w.Close(); err == nil {
				err = closeErr
			}
			if file != nil {
				if closeErr := file.Close(); err == nil {
					err = closeErr
				}
			}
			if err != nil {
				return err
			}
			for _, skipped := range stats.Skipped {
				log.Warning("Skipped machine %s: %s", skipped.Machine, skipped.Reason)
			}
			log.Info("Migrated %d machines: %d ports wrapped, %d types converted, %d machines reordered, %d skipped",
				stats.Machines, stats.WrappedPorts, stats.ConvertedTypes, stats.Reordered, len(stats.Skipped))
			return nil
		},
	}
	return cmd
}

func NewMachinesCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "machines",
		Short: "List machines of the reference data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := refdb.OpenSource(cfg.RefSourcePath())
			if err != nil {
				return err
			}
			defer src.Close()
			machines, err := src.Machines()
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

func NewInfoCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print where the reference data comes from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfg.RefSourcePath()
			src, err := refdb.OpenSource(path)
			if err != nil {
				return err
			}
			defer src.Close()
			machines, err := src.Machines()
			if err != nil {
				return err
			}
			provenance := src.Provenance()
			fmt.Fprintf(cmd.OutOrStdout(), "source: %s\nmame_build: %s\nmame_config: %s\nmachines: %d\n",
				path, provenance.Build, provenance.Config, len(machines))
			return nil
		},
	}
	return cmd
}
