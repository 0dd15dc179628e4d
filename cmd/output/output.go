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

package output

import (
	"io"
	"os"

	"golang.org/x/term"

	"jinr.ru/greenlab/go-inp/pkg/config"
)

// Writable is a value that can be printed in both output formats
type Writable interface {
	WriteJSON(w io.Writer, indent bool) error
	WriteYAML(w io.Writer) error
}

// IsTerminal tells if w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Write prints v in the given format. JSON is indented only for terminals.
func Write(w io.Writer, v Writable, format string) error {
	switch format {
	case config.OutputFormatYAML:
		return v.WriteYAML(w)
	case config.OutputFormatJSON, "":
		return v.WriteJSON(w, IsTerminal(w))
	}
	return config.ErrWrongOutputFormat{Format: format}
}
