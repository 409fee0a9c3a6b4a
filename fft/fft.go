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
	"math/big"
	"math/bits"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/consensys/plonk/internal/utils"
)

// Decimation describes the layout of the FFT input and output.
//
// DIF (decimation in frequency) maps natural order to bit-reversed order,
// DIT (decimation in time) maps bit-reversed order to natural order.
type Decimation uint8

const (
	DIT Decimation = iota
	DIF
)

// parallelize the butterfly stages only when there are enough independent blocks
const minBlocksParallel = 16

// FFT computes (in place) the discrete Fourier transform of a over the domain.
//
// If coset is set, the transform evaluates a over u*<g> instead of <g>, where u
// is the domain's FrMultiplicativeGen.
//
// len(a) must equal the domain cardinality, else ErrDomainSizeMismatch.
func (d *Domain) FFT(a []fr.Element, decimation Decimation, coset ...bool) error {
	if uint64(len(a)) != d.Cardinality {
		return ErrDomainSizeMismatch
	}
	onCoset := len(coset) > 0 && coset[0]

	if onCoset {
		// scale coefficient i by u^i; index layout depends on the decimation
		if decimation == DIF {
			scalePowers(a, d.FrMultiplicativeGen, false)
		} else {
			scalePowers(a, d.FrMultiplicativeGen, true)
		}
	}

	if decimation == DIF {
		difFFT(a, d.Generator)
	} else {
		ditFFT(a, d.Generator)
	}
	return nil
}

// FFTInverse computes (in place) the inverse discrete Fourier transform of a
// over the domain. See FFT for the layout conventions and the coset semantics.
func (d *Domain) FFTInverse(a []fr.Element, decimation Decimation, coset ...bool) error {
	if uint64(len(a)) != d.Cardinality {
		return ErrDomainSizeMismatch
	}
	onCoset := len(coset) > 0 && coset[0]

	if decimation == DIF {
		difFFT(a, d.GeneratorInv)
	} else {
		ditFFT(a, d.GeneratorInv)
	}

	// divide by the cardinality and undo the coset shift
	if onCoset {
		scaleUniform(a, d.CardinalityInv)
		// output coefficient i sits at position i (DIT) or rev(i) (DIF)
		scalePowers(a, d.FrMultiplicativeGenInv, decimation == DIF)
	} else {
		scaleUniform(a, d.CardinalityInv)
	}
	return nil
}

// BitReverse applies the bit-reversal permutation to a in place.
// len(a) must be a power of 2.
func BitReverse(a []fr.Element) {
	n := uint64(len(a))
	nn := uint64(64 - bits.TrailingZeros64(n))

	for i := uint64(0); i < n; i++ {
		irev := bits.Reverse64(i) >> nn
		if irev > i {
			a[i], a[irev] = a[irev], a[i]
		}
	}
}

// difFFT runs the Gentleman-Sande butterfly network: input in natural order,
// output in bit-reversed order.
func difFFT(a []fr.Element, w fr.Element) {
	n := len(a)
	stageRoots := stageRoots(w, n)

	stage := len(stageRoots) - 1
	for m := n >> 1; m >= 1; m >>= 1 {
		root := stageRoots[stage]
		stage--
		nbBlocks := n / (2 * m)

		butterflies := func(start, end int) {
			for b := start; b < end; b++ {
				k := b * 2 * m
				var wj, t fr.Element
				wj.SetOne()
				for j := 0; j < m; j++ {
					t.Sub(&a[k+j], &a[k+j+m])
					a[k+j].Add(&a[k+j], &a[k+j+m])
					a[k+j+m].Mul(&t, &wj)
					wj.Mul(&wj, &root)
				}
			}
		}
		if nbBlocks >= minBlocksParallel {
			utils.Parallelize(nbBlocks, butterflies)
		} else {
			butterflies(0, nbBlocks)
		}
	}
}

// ditFFT runs the Cooley-Tukey butterfly network: input in bit-reversed order,
// output in natural order.
func ditFFT(a []fr.Element, w fr.Element) {
	n := len(a)
	stageRoots := stageRoots(w, n)

	stage := 0
	for m := 1; m < n; m <<= 1 {
		root := stageRoots[stage]
		stage++
		nbBlocks := n / (2 * m)

		butterflies := func(start, end int) {
			for b := start; b < end; b++ {
				k := b * 2 * m
				var wj, t fr.Element
				wj.SetOne()
				for j := 0; j < m; j++ {
					t.Mul(&wj, &a[k+j+m])
					a[k+j+m].Sub(&a[k+j], &t)
					a[k+j].Add(&a[k+j], &t)
					wj.Mul(&wj, &root)
				}
			}
		}
		if nbBlocks >= minBlocksParallel {
			utils.Parallelize(nbBlocks, butterflies)
		} else {
			butterflies(0, nbBlocks)
		}
	}
}

// stageRoots returns the per-stage twiddle bases: stageRoots[s] has order
// 2^(s+1), stageRoots[last] == w (of order n).
func stageRoots(w fr.Element, n int) []fr.Element {
	logN := bits.TrailingZeros64(uint64(n))
	if logN == 0 {
		return nil
	}
	roots := make([]fr.Element, logN)
	roots[logN-1].Set(&w)
	for s := logN - 2; s >= 0; s-- {
		roots[s].Square(&roots[s+1])
	}
	return roots
}

// scalePowers multiplies coefficient i by g^i. If bitReversed is set, the
// coefficient i is stored at position rev(i).
func scalePowers(a []fr.Element, g fr.Element, bitReversed bool) {
	n := uint64(len(a))
	nn := uint64(64 - bits.TrailingZeros64(n))

	utils.Parallelize(len(a), func(start, end int) {
		var acc fr.Element
		acc.Exp(g, new(big.Int).SetInt64(int64(start)))
		for i := start; i < end; i++ {
			pos := uint64(i)
			if bitReversed {
				pos = bits.Reverse64(uint64(i)) >> nn
			}
			a[pos].Mul(&a[pos], &acc)
			acc.Mul(&acc, &g)
		}
	})
}

func scaleUniform(a []fr.Element, lambda fr.Element) {
	utils.Parallelize(len(a), func(start, end int) {
		for i := start; i < end; i++ {
			a[i].Mul(&a[i], &lambda)
		}
	})
}
