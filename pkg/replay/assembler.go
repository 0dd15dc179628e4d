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

// ResolvedFrame is one frame of the replay with the controls held per port.
// JSON keys are kept short since a replay has tens of thousands of frames.
type ResolvedFrame struct {
	// Index is 1-based
	Index      int              `json:"f"`
	Seconds    uint32           `json:"s"`
	Subseconds uint64           `json:"as"`
	Speed      uint32           `json:"cs"`
	Ports      map[int][]string `json:"p"`
}

// Assembler collects resolved frames in decode order
type Assembler struct {
	frames []*ResolvedFrame
}

func NewAssembler() *Assembler {
	return &Assembler{frames: []*ResolvedFrame{}}
}

func (a *Assembler) Append(frame *ResolvedFrame) {
	a.frames = append(a.frames, frame)
}

// Frames returns a copy of the sequence, the frames themselves are shared
func (a *Assembler) Frames() []*ResolvedFrame {
	frames := make([]*ResolvedFrame, len(a.frames))
	copy(frames, a.frames)
	return frames
}

func (a *Assembler) Len() int {
	return len(a.frames)
}
