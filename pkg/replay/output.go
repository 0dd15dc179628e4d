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

package replay

import (
	"encoding/json"
	"io"

	"sigs.k8s.io/yaml"
)

func writeJSON(w io.Writer, v interface{}, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v interface{}) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func (r *Result) WriteJSON(w io.Writer, indent bool) error {
	return writeJSON(w, r, indent)
}

func (r *Result) WriteYAML(w io.Writer) error {
	return writeYAML(w, r)
}

func (p PortList) WriteJSON(w io.Writer, indent bool) error {
	return writeJSON(w, p, indent)
}

func (p PortList) WriteYAML(w io.Writer) error {
	return writeYAML(w, p)
}
