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
	"errors"
	"fmt"
	"io"
	"os"

	"jinr.ru/greenlab/go-inp/pkg/inp"
	"jinr.ru/greenlab/go-inp/pkg/layers"
	"jinr.ru/greenlab/go-inp/pkg/log"
	"jinr.ru/greenlab/go-inp/pkg/refdb"
)

// Termination tells how the frame stream ended
type Termination string

const (
	TerminationCleanEnd  Termination = "clean-end"
	TerminationTruncated Termination = "truncated"
	// TerminationError means the payload could not be read to its end,
	// e.g. a corrupt deflate block or a failed checksum
	TerminationError Termination = "error"
)

// Options of a decode session
type Options struct {
	// Ports to resolve, all ports when empty
	Ports []int
	// SkipBytes of preamble in front of the first frame
	SkipBytes int
	// Raw is set when the payload is already inflated
	Raw bool
	// Logger receives progress messages, nil discards them
	Logger *log.Logger
}

// Result is a fully decoded replay
type Result struct {
	Header      *layers.Header          `json:"header"`
	Machine     string                  `json:"machine"`
	Provenance  refdb.Provenance        `json:"provenance"`
	Ports       []int                   `json:"ports"`
	Frames      []*ResolvedFrame        `json:"frames"`
	Termination Termination             `json:"termination"`
	Truncation  *inp.ErrTruncatedStream `json:"truncation,omitempty"`
	// Error describes why the replay stopped when Termination is "error"
	Error string `json:"error,omitempty"`
}

// Session decodes one INP file frame by frame. A session has a single
// owner and is not safe for concurrent use.
type Session struct {
	Header  *layers.Header
	Machine *refdb.Machine
	// Ports are the validated port indices resolved in every frame
	Ports []int

	provenance refdb.Provenance
	logger     *log.Logger
	input      io.Closer
	payload    io.ReadCloser
	dec        *inp.Decoder
	// err is set when the payload ends inside the preamble
	err    error
	closed bool
}

// Open reads and validates the header, looks up the machine and checks
// the requested ports before any payload byte is read. r is closed when
// Open fails, otherwise it is closed by Session.Close.
func Open(r io.ReadCloser, src refdb.Source, opts Options) (*Session, error) {
	s, err := open(r, src, opts)
	if err != nil {
		r.Close()
		return nil, err
	}
	return s, nil
}

func open(r io.ReadCloser, src refdb.Source, opts Options) (*Session, error) {
	header, _, err := inp.ReadHeader(r)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("Header: machine %s, version %s, recorded %s", header.Machine, header.Version(), header.BaseTime())

	machine, err := src.Lookup(header.Machine)
	if err != nil {
		return nil, err
	}
	ports, err := ValidatePorts(opts.Ports, machine.PortCount())
	if err != nil {
		return nil, err
	}

	s := &Session{
		Header:     header,
		Machine:    machine,
		Ports:      ports,
		provenance: src.Provenance(),
		logger:     opts.Logger,
		input:      r,
	}

	analogCount := machine.AnalogFieldCount()
	opts.Logger.Debug("Machine %s: %d ports, %d analog fields, resolving ports %v",
		machine.Name, machine.PortCount(), analogCount, ports)

	payload, err := inp.NewPayloadReader(r, opts.Raw, opts.SkipBytes)
	var truncated inp.ErrTruncatedStream
	switch {
	case errors.As(err, &truncated):
		s.err = truncated
		return s, nil
	case err != nil:
		return nil, err
	}
	s.payload = payload
	s.dec = inp.NewDecoder(payload, machine.PortCount(), analogCount)
	return s, nil
}

// Next decodes and resolves the next frame. It returns io.EOF after the
// last complete frame and inp.ErrTruncatedStream when the stream is cut short.
func (s *Session) Next() (*ResolvedFrame, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.closed {
		return nil, errors.New("session is closed")
	}
	frame, err := s.dec.Next()
	if err != nil {
		return nil, err
	}
	resolved := &ResolvedFrame{
		Index:      frame.Index,
		Seconds:    frame.Seconds,
		Subseconds: frame.Subseconds,
		Speed:      frame.Speed,
		Ports:      Resolve(frame.Digital, s.Machine.Ports, s.Ports),
	}
	s.logger.Debug("Frame #%d %d %d %d %v", resolved.Index, resolved.Seconds, resolved.Subseconds, resolved.Speed, resolved.Ports)
	return resolved, nil
}

// Run decodes the remaining frames. A truncated stream is not an error,
// it is reported in the result. On any other error the result holds the
// frames decoded so far with Termination "error", and it is returned
// together with the error.
func (s *Session) Run() (*Result, error) {
	asm := NewAssembler()
	result := &Result{
		Header:     s.Header,
		Machine:    s.Machine.Name,
		Provenance: s.provenance,
		Ports:      s.Ports,
	}
	for {
		frame, err := s.Next()
		if err == nil {
			asm.Append(frame)
			continue
		}

		result.Frames = asm.Frames()
		var truncated inp.ErrTruncatedStream
		switch {
		case errors.Is(err, io.EOF):
			result.Termination = TerminationCleanEnd
		case errors.As(err, &truncated):
			result.Termination = TerminationTruncated
			result.Truncation = &truncated
			s.logger.Warning("%s", truncated)
		default:
			err = fmt.Errorf("replay of %s stopped after %d frames: %w", s.Machine.Name, asm.Len(), err)
			result.Termination = TerminationError
			result.Error = err.Error()
			s.logger.Error("%s", err)
		}
		s.logger.Info("END OF REPLAY: %s, %d frames, %s", s.Machine.Name, asm.Len(), result.Termination)
		if result.Termination == TerminationError {
			return result, err
		}
		return result, nil
	}
}

// Close releases the payload and the input, it is safe to call twice.
// Only the error of closing the input is returned: the payload reader
// repeats on Close what Next already reported.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.payload != nil {
		s.payload.Close()
	}
	return s.input.Close()
}

// Decode runs a whole session over r and closes r. A failure to close r
// is returned along with the result when the replay itself succeeded.
func Decode(r io.ReadCloser, src refdb.Source, opts Options) (result *Result, err error) {
	s, err := Open(r, src, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := s.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("could not close input: %w", closeErr)
		}
	}()
	return s.Run()
}

// DecodeFile decodes the INP file at path
func DecodeFile(path string, src refdb.Source, opts Options) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	opts.Logger.Info("Decoding %s", path)
	return Decode(f, src, opts)
}
