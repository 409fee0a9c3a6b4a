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

package fft

import (
	"errors"
	"math/big"
	"math/bits"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

var (
	// ErrDomainSizeMismatch is returned when the length of the input vector
	// does not equal the domain cardinality.
	ErrDomainSizeMismatch = errors.New("fft: vector length does not match domain cardinality")

	// ErrDomainTooLarge is returned when the requested cardinality exceeds the
	// 2-adicity of the scalar field.
	ErrDomainTooLarge = errors.New("fft: domain cardinality exceeds the maximum 2-adic subgroup")
)

// Domain is a multiplicative subgroup of fr of cardinality a power of two,
// with precomputed data to run FFTs on it and on the coset u*<generator>.
//
// A Domain is immutable once created and safe for concurrent use.
type Domain struct {
	Cardinality            uint64
	CardinalityInv         fr.Element
	Generator              fr.Element
	GeneratorInv           fr.Element
	FrMultiplicativeGen    fr.Element // coset shifter u, generator of fr^*
	FrMultiplicativeGenInv fr.Element
}

// NewDomain returns the subgroup z^m=1 where m is the smallest power of two
// greater or equal to the provided size.
//
// The primitive root of unity is derived from a quadratic non residue of the
// field, so no curve-specific constant is hardcoded.
func NewDomain(m uint64) (*Domain, error) {

	cardinality := ecc.NextPowerOfTwo(m)
	logCardinality := uint64(bits.TrailingZeros64(cardinality))

	rMinusOne := new(big.Int).Sub(fr.Modulus(), big.NewInt(1))
	maxOrderRoot := uint64(rMinusOne.TrailingZeroBits())
	if logCardinality > maxOrderRoot {
		return nil, ErrDomainTooLarge
	}

	domain := &Domain{Cardinality: cardinality}

	// smallest multiplicative generator candidate: first quadratic non residue
	nqr := smallestQuadraticNonResidue()
	domain.FrMultiplicativeGen.Set(&nqr)
	domain.FrMultiplicativeGenInv.Inverse(&domain.FrMultiplicativeGen)

	// generator of the 2^maxOrderRoot torsion, then squared down to cardinality
	expo := new(big.Int).Rsh(rMinusOne, uint(maxOrderRoot))
	var rootOfUnity fr.Element
	rootOfUnity.Exp(nqr, expo)
	for i := logCardinality; i < maxOrderRoot; i++ {
		rootOfUnity.Square(&rootOfUnity)
	}
	domain.Generator.Set(&rootOfUnity)
	domain.GeneratorInv.Inverse(&domain.Generator)
	domain.CardinalityInv.SetUint64(cardinality).Inverse(&domain.CardinalityInv)

	return domain, nil
}

// smallestQuadraticNonResidue walks fr upward until g^((r-1)/2) != 1.
// Such a g has maximal 2-adic order, hence generates the full 2^s torsion.
func smallestQuadraticNonResidue() fr.Element {
	one := fr.One()
	half := new(big.Int).Rsh(new(big.Int).Sub(fr.Modulus(), big.NewInt(1)), 1)

	var g, tmp fr.Element
	g.SetOne()
	for {
		g.Add(&g, &one)
		tmp.Exp(g, half)
		if !tmp.IsOne() {
			return g
		}
	}
}
