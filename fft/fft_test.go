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
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"
)

// evalNaive evaluates the polynomial with coefficients c at x with Horner's
// scheme.
func evalNaive(c []fr.Element, x fr.Element) fr.Element {
	var res fr.Element
	for i := len(c) - 1; i >= 0; i-- {
		res.Mul(&res, &x)
		res.Add(&res, &c[i])
	}
	return res
}

func randomVector(size int) []fr.Element {
	v := make([]fr.Element, size)
	for i := range v {
		v[i].SetRandom()
	}
	return v
}

func TestNewDomain(t *testing.T) {
	assert := require.New(t)

	d, err := NewDomain(5)
	assert.NoError(err)
	assert.Equal(uint64(8), d.Cardinality, "cardinality rounds up to a power of two")

	// generator has exact order 8
	var g fr.Element
	one := fr.One()
	g.Exp(d.Generator, big.NewInt(8))
	assert.True(g.Equal(&one))
	g.Exp(d.Generator, big.NewInt(4))
	assert.False(g.Equal(&one))

	// inverses
	var p fr.Element
	p.Mul(&d.Generator, &d.GeneratorInv)
	assert.True(p.Equal(&one))
	p.Mul(&d.FrMultiplicativeGen, &d.FrMultiplicativeGenInv)
	assert.True(p.Equal(&one))

	// the coset shifter is outside the subgroup
	g.Exp(d.FrMultiplicativeGen, big.NewInt(8))
	assert.False(g.Equal(&one))
}

func TestNewDomainTooLarge(t *testing.T) {
	rMinusOne := new(big.Int).Sub(fr.Modulus(), big.NewInt(1))
	maxOrderRoot := uint(rMinusOne.TrailingZeroBits())

	_, err := NewDomain(1 << (maxOrderRoot + 1))
	require.ErrorIs(t, err, ErrDomainTooLarge)
}

func TestDomainsShareTorsionChain(t *testing.T) {
	assert := require.New(t)

	small, err := NewDomain(8)
	assert.NoError(err)
	big4, err := NewDomain(32)
	assert.NoError(err)

	// the big generator raised to the ratio gives the small generator
	var g fr.Element
	g.Square(&big4.Generator).Square(&g)
	assert.True(g.Equal(&small.Generator))
	assert.True(big4.FrMultiplicativeGen.Equal(&small.FrMultiplicativeGen))
}

func TestFFTAgainstNaive(t *testing.T) {
	assert := require.New(t)

	d, err := NewDomain(16)
	assert.NoError(err)

	coeffs := randomVector(16)

	evals := make([]fr.Element, 16)
	copy(evals, coeffs)
	assert.NoError(d.FFT(evals, DIF))
	BitReverse(evals)

	var x fr.Element
	x.SetOne()
	for i := 0; i < 16; i++ {
		expected := evalNaive(coeffs, x)
		assert.True(evals[i].Equal(&expected), "mismatch at point %d", i)
		x.Mul(&x, &d.Generator)
	}
}

func TestFFTCosetAgainstNaive(t *testing.T) {
	assert := require.New(t)

	d, err := NewDomain(16)
	assert.NoError(err)

	coeffs := randomVector(16)

	evals := make([]fr.Element, 16)
	copy(evals, coeffs)
	assert.NoError(d.FFT(evals, DIF, true))
	BitReverse(evals)

	x := d.FrMultiplicativeGen
	for i := 0; i < 16; i++ {
		expected := evalNaive(coeffs, x)
		assert.True(evals[i].Equal(&expected), "mismatch at coset point %d", i)
		x.Mul(&x, &d.Generator)
	}
}

func TestFFTInverseRoundTrip(t *testing.T) {
	assert := require.New(t)

	for _, size := range []uint64{2, 8, 64, 256} {
		d, err := NewDomain(size)
		assert.NoError(err)

		coeffs := randomVector(int(size))

		// DIF forward, DIT backward
		buf := make([]fr.Element, size)
		copy(buf, coeffs)
		assert.NoError(d.FFT(buf, DIF))
		assert.NoError(d.FFTInverse(buf, DIT))
		for i := range coeffs {
			assert.True(buf[i].Equal(&coeffs[i]))
		}

		// natural order both ways on the coset
		copy(buf, coeffs)
		assert.NoError(d.FFT(buf, DIF, true))
		BitReverse(buf)
		assert.NoError(d.FFTInverse(buf, DIF, true))
		BitReverse(buf)
		for i := range coeffs {
			assert.True(buf[i].Equal(&coeffs[i]))
		}
	}
}

func TestFFTDecimationsAgree(t *testing.T) {
	assert := require.New(t)

	d, err := NewDomain(32)
	assert.NoError(err)

	coeffs := randomVector(32)

	a := make([]fr.Element, 32)
	copy(a, coeffs)
	assert.NoError(d.FFT(a, DIF))
	BitReverse(a)

	b := make([]fr.Element, 32)
	copy(b, coeffs)
	BitReverse(b)
	assert.NoError(d.FFT(b, DIT))

	for i := range a {
		assert.True(a[i].Equal(&b[i]))
	}
}

func TestFFTSizeMismatch(t *testing.T) {
	assert := require.New(t)

	d, err := NewDomain(16)
	assert.NoError(err)

	short := randomVector(8)
	assert.ErrorIs(d.FFT(short, DIF), ErrDomainSizeMismatch)
	assert.ErrorIs(d.FFTInverse(short, DIF), ErrDomainSizeMismatch)
}

func TestBitReverse(t *testing.T) {
	assert := require.New(t)

	v := randomVector(8)
	expectedOrder := []int{0, 4, 2, 6, 1, 5, 3, 7}

	got := make([]fr.Element, 8)
	copy(got, v)
	BitReverse(got)

	for i, j := range expectedOrder {
		assert.True(got[i].Equal(&v[j]))
	}
}
