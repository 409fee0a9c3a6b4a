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

// Package polynomial provides dense univariate polynomials over the scalar
// field, in coefficient form of ascending degree.
package polynomial

import (
	"errors"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/consensys/plonk/fft"
)

var (
	// ErrInvalidQuotient is returned when an exact division leaves a nonzero
	// remainder. This signals a malformed dividend, never a recoverable state.
	ErrInvalidQuotient = errors.New("polynomial: division left a nonzero remainder")

	// ErrDivisionByZero is returned when the divisor is the zero polynomial.
	ErrDivisionByZero = errors.New("polynomial: division by the zero polynomial")
)

// Polynomial stores coefficients in ascending degree order: p[i]*X^i.
type Polynomial []fr.Element

// Degree returns the degree of p, with the convention deg(0) = 0.
func (p Polynomial) Degree() int {
	for i := len(p) - 1; i > 0; i-- {
		if !p[i].IsZero() {
			return i
		}
	}
	return 0
}

// Eval evaluates p at v using Horner's method.
func (p Polynomial) Eval(v *fr.Element) fr.Element {
	var r fr.Element
	for i := len(p) - 1; i >= 0; i-- {
		r.Mul(&r, v).Add(&r, &p[i])
	}
	return r
}

// Clone returns a deep copy of p.
func (p Polynomial) Clone() Polynomial {
	r := make(Polynomial, len(p))
	copy(r, p)
	return r
}

// Equal compares p and q as polynomials (trailing zeroes ignored).
func (p Polynomial) Equal(q Polynomial) bool {
	short, long := p, q
	if len(short) > len(long) {
		short, long = long, short
	}
	for i := range short {
		if !short[i].Equal(&long[i]) {
			return false
		}
	}
	for i := len(short); i < len(long); i++ {
		if !long[i].IsZero() {
			return false
		}
	}
	return true
}

// Add sets p to p1+p2 and returns p.
func (p *Polynomial) Add(p1, p2 Polynomial) *Polynomial {
	bigger, smaller := p1, p2
	if len(bigger) < len(smaller) {
		bigger, smaller = smaller, bigger
	}
	if len(*p) < len(bigger) {
		*p = append(*p, make(Polynomial, len(bigger)-len(*p))...)
	}
	*p = (*p)[:len(bigger)]
	copy(*p, bigger)
	for i := range smaller {
		(*p)[i].Add(&(*p)[i], &smaller[i])
	}
	return p
}

// Sub sets p to p1-p2 and returns p.
func (p *Polynomial) Sub(p1, p2 Polynomial) *Polynomial {
	n := len(p1)
	if len(p2) > n {
		n = len(p2)
	}
	r := make(Polynomial, n)
	copy(r, p1)
	for i := range p2 {
		r[i].Sub(&r[i], &p2[i])
	}
	*p = r
	return p
}

// ScalarMul sets p to v*p1 and returns p.
func (p *Polynomial) ScalarMul(p1 Polynomial, v fr.Element) *Polynomial {
	if len(*p) != len(p1) {
		*p = make(Polynomial, len(p1))
	}
	for i := range p1 {
		(*p)[i].Mul(&p1[i], &v)
	}
	return p
}

// Mul returns p1*p2, schoolbook. Suited to small operands; use MulFFT for
// large degrees.
func Mul(p1, p2 Polynomial) Polynomial {
	if len(p1) == 0 || len(p2) == 0 {
		return Polynomial{}
	}
	r := make(Polynomial, len(p1)+len(p2)-1)
	var t fr.Element
	for i := range p1 {
		if p1[i].IsZero() {
			continue
		}
		for j := range p2 {
			t.Mul(&p1[i], &p2[j])
			r[i+j].Add(&r[i+j], &t)
		}
	}
	return r
}

// MulFFT returns p1*p2 computed through an evaluation domain covering the
// product degree.
func MulFFT(p1, p2 Polynomial) (Polynomial, error) {
	if len(p1) == 0 || len(p2) == 0 {
		return Polynomial{}, nil
	}
	size := uint64(len(p1) + len(p2) - 1)
	domain, err := fft.NewDomain(size)
	if err != nil {
		return nil, err
	}

	a := make(Polynomial, domain.Cardinality)
	b := make(Polynomial, domain.Cardinality)
	copy(a, p1)
	copy(b, p2)

	if err := domain.FFT(a, fft.DIF); err != nil {
		return nil, err
	}
	if err := domain.FFT(b, fft.DIF); err != nil {
		return nil, err
	}
	for i := range a {
		a[i].Mul(&a[i], &b[i])
	}
	if err := domain.FFTInverse(a, fft.DIT); err != nil {
		return nil, err
	}
	return a[:size], nil
}

// Div returns the Euclidean quotient and remainder of p1 by p2.
func Div(p1, p2 Polynomial) (quotient, remainder Polynomial, err error) {
	d2 := p2.Degree()
	if d2 == 0 && p2[0].IsZero() {
		return nil, nil, ErrDivisionByZero
	}
	d1 := p1.Degree()
	if d1 < d2 {
		return Polynomial{}, p1.Clone(), nil
	}

	var leadInv fr.Element
	leadInv.Inverse(&p2[d2])

	rem := p1.Clone()[:d1+1]
	quotient = make(Polynomial, d1-d2+1)

	var t fr.Element
	for i := d1; i >= d2; i-- {
		quotient[i-d2].Mul(&rem[i], &leadInv)
		if quotient[i-d2].IsZero() {
			continue
		}
		for j := 0; j <= d2; j++ {
			t.Mul(&quotient[i-d2], &p2[j])
			rem[i-d2+j].Sub(&rem[i-d2+j], &t)
		}
	}
	return quotient, rem[:d2], nil
}

// ExactDiv returns p1/p2 and fails with ErrInvalidQuotient if p2 does not
// divide p1. Callers rely on this to surface constraint-system bugs instead of
// silently truncating the quotient.
func ExactDiv(p1, p2 Polynomial) (Polynomial, error) {
	q, r, err := Div(p1, p2)
	if err != nil {
		return nil, err
	}
	for i := range r {
		if !r[i].IsZero() {
			return nil, ErrInvalidQuotient
		}
	}
	return q, nil
}

// DivByXMinusA returns p/(X-a) by synthetic division, discarding the
// remainder. Used for KZG opening quotients where (X-a) | (p - p(a)).
func DivByXMinusA(p Polynomial, a fr.Element) Polynomial {
	if len(p) <= 1 {
		return Polynomial{}
	}
	q := make(Polynomial, len(p)-1)
	var t fr.Element
	q[len(q)-1].Set(&p[len(p)-1])
	for i := len(q) - 2; i >= 0; i-- {
		t.Mul(&q[i+1], &a)
		q[i].Add(&p[i+1], &t)
	}
	return q
}

// Interpolate returns the canonical form of the polynomial taking the given
// values on the domain. len(evaluations) must equal the domain cardinality.
func Interpolate(evaluations []fr.Element, domain *fft.Domain) (Polynomial, error) {
	p := make(Polynomial, len(evaluations))
	copy(p, evaluations)
	if err := domain.FFTInverse(p, fft.DIF); err != nil {
		return nil, err
	}
	fft.BitReverse(p)
	return p, nil
}

// Vanishing returns X^n - 1, the vanishing polynomial of the domain.
func Vanishing(domain *fft.Domain) Polynomial {
	z := make(Polynomial, domain.Cardinality+1)
	one := fr.One()
	z[0].Neg(&one)
	z[domain.Cardinality].SetOne()
	return z
}

// EvalVanishing returns v^n - 1 without materializing the polynomial.
func EvalVanishing(domain *fft.Domain, v fr.Element) fr.Element {
	var r fr.Element
	r.Set(&v)
	n := domain.Cardinality
	for n > 1 {
		r.Square(&r)
		n >>= 1
	}
	one := fr.One()
	r.Sub(&r, &one)
	return r
}
