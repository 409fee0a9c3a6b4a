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

package polynomial

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/consensys/plonk/fft"
)

func genFr() gopter.Gen {
	return func(genParams *gopter.GenParameters) *gopter.GenResult {
		var elmt fr.Element
		elmt.SetRandom()
		return gopter.NewGenResult(elmt, gopter.NoShrinker)
	}
}

func randomPolynomial(size int) Polynomial {
	p := make(Polynomial, size)
	for i := range p {
		p[i].SetRandom()
	}
	return p
}

func TestEvalHomomorphisms(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	properties.Property("(p+q)(x) == p(x)+q(x)", prop.ForAll(
		func(x fr.Element) bool {
			p := randomPolynomial(17)
			q := randomPolynomial(9)
			var sum Polynomial
			sum.Add(p, q)

			var expected fr.Element
			px := p.Eval(&x)
			qx := q.Eval(&x)
			expected.Add(&px, &qx)
			got := sum.Eval(&x)
			return got.Equal(&expected)
		},
		genFr(),
	))

	properties.Property("(p-q)(x) == p(x)-q(x)", prop.ForAll(
		func(x fr.Element) bool {
			p := randomPolynomial(11)
			q := randomPolynomial(23)
			var diff Polynomial
			diff.Sub(p, q)

			var expected fr.Element
			px := p.Eval(&x)
			qx := q.Eval(&x)
			expected.Sub(&px, &qx)
			got := diff.Eval(&x)
			return got.Equal(&expected)
		},
		genFr(),
	))

	properties.Property("(p*q)(x) == p(x)*q(x)", prop.ForAll(
		func(x fr.Element) bool {
			p := randomPolynomial(8)
			q := randomPolynomial(13)
			prod := Mul(p, q)

			var expected fr.Element
			px := p.Eval(&x)
			qx := q.Eval(&x)
			expected.Mul(&px, &qx)
			got := prod.Eval(&x)
			return got.Equal(&expected)
		},
		genFr(),
	))

	properties.Property("(v*p)(x) == v*p(x)", prop.ForAll(
		func(x, v fr.Element) bool {
			p := randomPolynomial(14)
			var scaled Polynomial
			scaled.ScalarMul(p, v)

			var expected fr.Element
			px := p.Eval(&x)
			expected.Mul(&px, &v)
			got := scaled.Eval(&x)
			return got.Equal(&expected)
		},
		genFr(),
		genFr(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestMulFFTMatchesSchoolbook(t *testing.T) {
	assert := require.New(t)

	for _, sizes := range [][2]int{{1, 1}, {4, 7}, {32, 32}, {100, 3}} {
		p := randomPolynomial(sizes[0])
		q := randomPolynomial(sizes[1])

		direct := Mul(p, q)
		viaFFT, err := MulFFT(p, q)
		assert.NoError(err)
		assert.True(direct.Equal(viaFFT))
	}
}

func TestDiv(t *testing.T) {
	assert := require.New(t)

	p1 := randomPolynomial(25)
	p2 := randomPolynomial(7)

	quo, rem, err := Div(p1, p2)
	assert.NoError(err)

	// p1 == quo*p2 + rem
	reconstructed := Mul(quo, p2)
	var sum Polynomial
	sum.Add(reconstructed, rem)
	assert.True(sum.Equal(p1))
	assert.Less(rem.Degree(), p2.Degree())
}

func TestDivByZero(t *testing.T) {
	p := randomPolynomial(5)
	zero := make(Polynomial, 3)
	_, _, err := Div(p, zero)
	require.ErrorIs(t, err, ErrDivisionByZero)
}

func TestExactDiv(t *testing.T) {
	assert := require.New(t)

	q := randomPolynomial(6)
	d := randomPolynomial(4)
	p := Mul(q, d)

	got, err := ExactDiv(p, d)
	assert.NoError(err)
	assert.True(got.Equal(q))

	// non-divisible dividend must be rejected, not truncated
	p[0].Add(&p[0], &d[1])
	_, err = ExactDiv(p, d)
	assert.ErrorIs(err, ErrInvalidQuotient)
}

func TestDivByXMinusA(t *testing.T) {
	assert := require.New(t)

	p := randomPolynomial(30)
	var a fr.Element
	a.SetRandom()

	// p - p(a) is divisible by X-a and the synthetic quotient matches the
	// generic exact division
	pa := p.Eval(&a)
	shifted := p.Clone()
	shifted[0].Sub(&shifted[0], &pa)

	q := DivByXMinusA(shifted, a)

	divisor := make(Polynomial, 2)
	divisor[0].Neg(&a)
	divisor[1].SetOne()
	expected, err := ExactDiv(shifted, divisor)
	assert.NoError(err)
	assert.True(q.Equal(expected))
}

func TestInterpolate(t *testing.T) {
	assert := require.New(t)

	domain, err := fft.NewDomain(32)
	assert.NoError(err)

	evals := make([]fr.Element, 32)
	for i := range evals {
		evals[i].SetRandom()
	}

	p, err := Interpolate(evals, domain)
	assert.NoError(err)

	var x fr.Element
	x.SetOne()
	for i := range evals {
		got := p.Eval(&x)
		assert.True(got.Equal(&evals[i]), "interpolant mismatch at point %d", i)
		x.Mul(&x, &domain.Generator)
	}

	// size mismatch propagates the domain error
	_, err = Interpolate(evals[:16], domain)
	assert.ErrorIs(err, fft.ErrDomainSizeMismatch)
}

func TestVanishing(t *testing.T) {
	assert := require.New(t)

	domain, err := fft.NewDomain(16)
	assert.NoError(err)

	z := Vanishing(domain)
	assert.Equal(int(domain.Cardinality), z.Degree())

	// vanishes on every domain point
	var x fr.Element
	x.SetOne()
	for i := uint64(0); i < domain.Cardinality; i++ {
		got := z.Eval(&x)
		assert.True(got.IsZero())
		x.Mul(&x, &domain.Generator)
	}

	// agrees with the closed form off the domain
	var v fr.Element
	v.SetRandom()
	expected := z.Eval(&v)
	got := EvalVanishing(domain, v)
	assert.True(got.Equal(&expected))
}

func TestDegree(t *testing.T) {
	assert := require.New(t)

	var zero Polynomial = make([]fr.Element, 4)
	assert.Equal(0, zero.Degree())

	p := make(Polynomial, 6)
	p[3].SetOne()
	assert.Equal(3, p.Degree())
}
