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

package decode

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-inp/cmd/output"
	"jinr.ru/greenlab/go-inp/pkg/config"
	"jinr.ru/greenlab/go-inp/pkg/inp"
	"jinr.ru/greenlab/go-inp/pkg/log"
	"jinr.ru/greenlab/go-inp/pkg/refdb"
	"jinr.ru/greenlab/go-inp/pkg/replay"
)

const (
	PortsOptionName             = "ports"
	SkipOptionName              = "skip"
	RawOptionName               = "raw"
	OutputOptionName            = "output"
	FormatOptionName            = "format"
	WriteDecompressedOptionName = "write-decompressed"
	// Stdout as output file name
	Stdout = "-"
)

const decodeExample = `
Decode all ports, the result goes to pacman.inp.json
# go-inp decode pacman.inp

Decode ports 0 and 2 and print YAML
# go-inp decode pacman.inp --ports 0,2 --format yaml -o -
`

// OutputPath is where the result goes when no output is given
func OutputPath(input, format string) string {
	return fmt.Sprintf("%s.%s", input, format)
}

func NewCommand(cfg *config.Config) *cobra.Command {
	var (
		ports             []int
		skip              int
		raw               bool
		out               string
		format            string
		writeDecompressed bool
	)
	cmd := &cobra.Command{
		Use:     "decode <file.inp>",
		Short:   "Decode an INP file into per frame control activity",
		Example: decodeExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if !cmd.Flags().Changed(PortsOptionName) {
				ports = cfg.Ports
			}
			format = strings.ToLower(format)
			if format != config.OutputFormatJSON && format != config.OutputFormatYAML {
				return config.ErrWrongOutputFormat{Format: format}
			}

			if writeDecompressed {
				path := inp.DecompressedPath(input)
				if err := inp.Decompress(input, path); err != nil {
					return err
				}
				log.Info("Decompressed payload written to %s", path)
			}

			src, err := refdb.OpenSource(cfg.RefSourcePath())
			if err != nil {
				return err
			}
			defer src.Close()

			result, decodeErr := replay.DecodeFile(input, src, replay.Options{
				Ports:     ports,
				SkipBytes: skip,
				Raw:       raw,
				Logger:    log.Default(),
			})
			if result == nil {
				return decodeErr
			}
			if result.Truncation != nil {
				log.Warning("Replay is truncated after %d frames", len(result.Frames))
			}

			if out == "" {
				out = OutputPath(input, format)
			}
			// frames decoded before a payload error are still written,
			// the command fails afterwards
			if err := writeResult(cmd, result, out, format); err != nil {
				return err
			}
			return decodeErr
		},
	}
	cmd.Flags().IntSliceVar(&ports, PortsOptionName, nil, "Port indices to resolve, all ports by default. E.g. 0,1")
	cmd.Flags().IntVar(&skip, SkipOptionName, cfg.SkipBytes, "Bytes of preamble to skip before the first frame")
	cmd.Flags().BoolVar(&raw, RawOptionName, false, "Payload is already decompressed")
	cmd.Flags().StringVarP(&out, OutputOptionName, "o", "", "Output file, - for stdout. Default <file.inp>.<format>")
	cmd.Flags().StringVar(&format, FormatOptionName, cfg.Format,
		fmt.Sprintf("Output format. One of: %s, %s", config.OutputFormatJSON, config.OutputFormatYAML))
	cmd.Flags().BoolVar(&writeDecompressed, WriteDecompressedOptionName, false,
		fmt.Sprintf("Also write header and decompressed payload to <file.inp>%s", inp.DecompressedSuffix))
	return cmd
}

func writeResult(cmd *cobra.Command, result *replay.Result, out, format string) error {
	if out == Stdout {
		return output.Write(cmd.OutOrStdout(), result, format)
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err = output.Write(f, result, format); err != nil {
		f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	log.Info("Result written to %s (%d frames, %s)", out, len(result.Frames), result.Termination)
	return nil
}
