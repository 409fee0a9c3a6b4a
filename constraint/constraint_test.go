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
	"bytes"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"
)

// mulSystem returns a circuit with one public input c and one gate enforcing
// a * b = c, wires [c, a, b].
func mulSystem() *System {
	var s System
	s.NbPublic = 1
	s.NbWires = 1
	var g Gate
	g.Qm.SetOne()
	g.Qo.SetOne().Neg(&g.Qo)
	g.L = 1
	g.R = 2
	g.O = 0
	s.AddGate(g)
	return &s
}

func TestValidate(t *testing.T) {
	assert := require.New(t)

	s := mulSystem()
	assert.NoError(s.Validate())

	// out of range wire
	bad := mulSystem()
	bad.Gates[0].R = 12
	assert.ErrorIs(bad.Validate(), ErrUnsatisfiableShape)

	// negative wire
	bad = mulSystem()
	bad.Gates[0].L = -1
	assert.ErrorIs(bad.Validate(), ErrUnsatisfiableShape)

	// a wire no gate touches
	bad = mulSystem()
	bad.NbWires = 5
	assert.ErrorIs(bad.Validate(), ErrUnsatisfiableShape)

	// more public inputs than wires
	bad = mulSystem()
	bad.NbPublic = bad.NbWires + 1
	assert.ErrorIs(bad.Validate(), ErrUnsatisfiableShape)

	// no wires at all
	var empty System
	assert.ErrorIs(empty.Validate(), ErrUnsatisfiableShape)
}

func TestIsSatisfied(t *testing.T) {
	assert := require.New(t)

	s := mulSystem()

	good := make(fr.Vector, 3)
	good[0].SetUint64(12)
	good[1].SetUint64(3)
	good[2].SetUint64(4)
	assert.True(s.IsSatisfied(good))

	bad := make(fr.Vector, 3)
	bad[0].SetUint64(13)
	bad[1].SetUint64(3)
	bad[2].SetUint64(4)
	assert.False(s.IsSatisfied(bad))

	// wrong witness length
	assert.False(s.IsSatisfied(good[:2]))

	// gate indexing outside the witness: reject, don't panic
	rogue := mulSystem()
	rogue.Gates[0].R = 100
	assert.False(rogue.IsSatisfied(good))

	rogue = mulSystem()
	rogue.Gates[0].L = -1
	assert.False(rogue.IsSatisfied(good))
}

func TestSerialization(t *testing.T) {
	assert := require.New(t)

	s := mulSystem()
	var g Gate
	g.Ql.SetOne()
	g.Qr.SetUint64(7)
	g.Qk.SetUint64(42).Neg(&g.Qk)
	g.L, g.R, g.O = 0, 1, 2
	s.AddGate(g)

	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	assert.NoError(err)

	var reconstructed System
	_, err = reconstructed.ReadFrom(&buf)
	assert.NoError(err)

	assert.Equal(s.NbWires, reconstructed.NbWires)
	assert.Equal(s.NbPublic, reconstructed.NbPublic)
	assert.Equal(len(s.Gates), len(reconstructed.Gates))
	for i := range s.Gates {
		assert.Equal(s.Gates[i], reconstructed.Gates[i])
	}
}
