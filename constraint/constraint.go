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

// Package constraint defines the gate/wire form a circuit front-end lowers
// to. Each gate constrains three wires with one equation
//
//	qL·a + qR·b + qM·a·b + qO·c + qK = 0
//
// and copy constraints are implied by reusing the same wire index in several
// gate slots.
package constraint

import (
	"errors"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/bits-and-blooms/bitset"
)

// ErrUnsatisfiableShape is returned when the structure of a system is broken:
// a wire index out of range, a wire no gate ever touches, or more public
// inputs than wires. No witness can satisfy such a system.
var ErrUnsatisfiableShape = errors.New("constraint: unsatisfiable system shape")

// Gate is one PLONK row. L, R, O index into the witness vector.
type Gate struct {
	Ql, Qr, Qm, Qo, Qk fr.Element
	L, R, O            int
}

// System is a full circuit in gate/wire form. The first NbPublic wires are
// the public inputs.
type System struct {
	Gates    []Gate
	NbWires  int
	NbPublic int
}

// AddGate appends a gate and grows NbWires to cover its wire indices.
func (s *System) AddGate(g Gate) {
	s.Gates = append(s.Gates, g)
	for _, w := range []int{g.L, g.R, g.O} {
		if w >= s.NbWires {
			s.NbWires = w + 1
		}
	}
}

// Validate checks the shape invariants of the system: public input count
// within bounds, every gate wire index in [0, NbWires), and every non-public
// wire referenced by at least one gate slot. Public wires need no gate of
// their own, the key derivation adds one row per public input.
func (s *System) Validate() error {
	if s.NbPublic < 0 || s.NbWires <= 0 || s.NbPublic > s.NbWires {
		return ErrUnsatisfiableShape
	}

	covered := bitset.New(uint(s.NbWires))
	for i := 0; i < s.NbPublic; i++ {
		covered.Set(uint(i))
	}
	for i := range s.Gates {
		g := &s.Gates[i]
		for _, w := range []int{g.L, g.R, g.O} {
			if !inRange(w, s.NbWires) {
				return ErrUnsatisfiableShape
			}
			covered.Set(uint(w))
		}
	}
	if !covered.All() {
		return ErrUnsatisfiableShape
	}
	return nil
}

// IsSatisfied reports whether the witness satisfies every gate equation.
// A witness of the wrong length never satisfies the system, nor does a system
// whose gates index outside the witness.
func (s *System) IsSatisfied(witness fr.Vector) bool {
	if len(witness) != s.NbWires {
		return false
	}
	var t, acc fr.Element
	for i := range s.Gates {
		g := &s.Gates[i]
		if !inRange(g.L, s.NbWires) || !inRange(g.R, s.NbWires) || !inRange(g.O, s.NbWires) {
			return false
		}
		a := &witness[g.L]
		b := &witness[g.R]
		c := &witness[g.O]

		acc.Mul(&g.Ql, a)
		t.Mul(&g.Qr, b)
		acc.Add(&acc, &t)
		t.Mul(a, b).Mul(&t, &g.Qm)
		acc.Add(&acc, &t)
		t.Mul(&g.Qo, c)
		acc.Add(&acc, &t)
		acc.Add(&acc, &g.Qk)

		if !acc.IsZero() {
			return false
		}
	}
	return true
}

func inRange(w, nbWires int) bool {
	return w >= 0 && w < nbWires
}
