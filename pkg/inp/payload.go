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

package inp

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zlib"
)

type nopCloser struct {
	io.Reader
}

func (nopCloser) Close() error { return nil }

// NewPayloadReader returns the frame stream that follows the header.
// The payload is zlib compressed unless raw is set. skip bytes of
// preamble are discarded before the first frame.
func NewPayloadReader(r io.Reader, raw bool, skip int) (io.ReadCloser, error) {
	var payload io.ReadCloser = nopCloser{r}
	if !raw {
		zr, err := zlib.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("could not open compressed payload: %w", err)
		}
		payload = zr
	}
	if skip > 0 {
		n, err := io.CopyN(io.Discard, payload, int64(skip))
		if err != nil {
			payload.Close()
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, ErrTruncatedStream{Frame: 1, Block: BlockPreamble, Want: skip, Got: int(n)}
			}
			return nil, err
		}
	}
	return payload, nil
}

// Decompress writes the header and the inflated payload of the INP file
// at inPath to outPath, so the frame stream can be inspected with a hex editor
func Decompress(inPath, outPath string) error {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	_, raw, err := ReadHeader(in)
	if err != nil {
		return err
	}
	payload, err := NewPayloadReader(in, false, 0)
	if err != nil {
		return err
	}
	defer payload.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if _, err = out.Write(raw); err == nil {
		_, err = io.Copy(out, payload)
	}
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("could not write %s: %w", outPath, err)
	}
	return nil
}

// DecompressedPath ...
func DecompressedPath(inPath string) string {
	return inPath + DecompressedSuffix
}
