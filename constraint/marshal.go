// Copyright 2020 ConsenSys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package constraint

import (
	"io"

	"github.com/fxamacker/cbor/v2"
)

// countingWriter tracks how many bytes went through the cbor encoder.
type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}

// WriteTo encodes the system in cbor. Field elements are stored as their raw
// limbs, so the round-trip is exact.
func (s *System) WriteTo(w io.Writer) (int64, error) {
	cw := countingWriter{w: w}
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return cw.n, err
	}
	if err := enc.NewEncoder(&cw).Encode(s); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// ReadFrom decodes a cbor-encoded system, replacing the receiver's content.
func (s *System) ReadFrom(r io.Reader) (int64, error) {
	dm, err := cbor.DecOptions{MaxArrayElements: 134217728}.DecMode()
	if err != nil {
		return 0, err
	}
	cr := countingReader{r: r}
	if err := dm.NewDecoder(&cr).Decode(s); err != nil {
		return cr.n, err
	}
	return cr.n, nil
}
