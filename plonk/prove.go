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

package plonk

import (
	"math/big"
	"time"

	curve "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"golang.org/x/sync/errgroup"

	"github.com/consensys/plonk/constraint"
	"github.com/consensys/plonk/fft"
	"github.com/consensys/plonk/fiatshamir"
	"github.com/consensys/plonk/internal/utils"
	"github.com/consensys/plonk/kzg"
	"github.com/consensys/plonk/logger"
	"github.com/consensys/plonk/polynomial"
)

// Prove runs the five-round PLONK protocol on the witness. The run is
// deterministic: the same system, key and witness always produce the same
// proof bytes.
func Prove(system *constraint.System, pk *ProvingKey, fullWitness fr.Vector, opts ...Option) (*Proof, error) {
	log := logger.Logger().With().
		Str("curve", "bn254").
		Int("nbConstraints", len(system.Gates)).
		Str("backend", "plonk").Logger()
	start := time.Now()

	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	// a witness that violates a gate must never turn into a proof
	if !system.IsSatisfied(fullWitness) {
		return nil, ErrUnsatisfiedConstraint
	}

	var proof Proof
	sizeSystem := int(pk.DomainSmall.Cardinality)
	if len(pk.Kzg.G1) < sizeSystem {
		return nil, ErrDegreeOverflow
	}

	// round 1: wire polynomials
	ll, lr, lo := evaluateLROSmallDomain(system, pk, fullWitness)

	cl := toCanonical(ll, &pk.DomainSmall)
	cr := toCanonical(lr, &pk.DomainSmall)
	co := toCanonical(lo, &pk.DomainSmall)

	g := new(errgroup.Group)
	g.Go(func() (err error) { proof.LRO[0], err = kzg.Commit(cl, &pk.Kzg); return })
	g.Go(func() (err error) { proof.LRO[1], err = kzg.Commit(cr, &pk.Kzg); return })
	g.Go(func() (err error) { proof.LRO[2], err = kzg.Commit(co, &pk.Kzg); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fs := fiatshamir.NewTranscript(cfg.challengeHash, "gamma", "beta", "alpha", "zeta")
	if err := bindPublicData(&fs, "gamma", *pk.Vk, fullWitness[:system.NbPublic]); err != nil {
		return nil, err
	}
	gamma, err := deriveRandomness(&fs, "gamma", &proof.LRO[0], &proof.LRO[1], &proof.LRO[2])
	if err != nil {
		return nil, err
	}
	beta, err := deriveRandomness(&fs, "beta")
	if err != nil {
		return nil, err
	}

	// round 2: copy-constraint grand product
	cz := computeZCanonical(ll, lr, lo, pk, beta, gamma)
	if proof.Z, err = kzg.Commit(cz, &pk.Kzg); err != nil {
		return nil, err
	}
	alpha, err := deriveRandomness(&fs, "alpha", &proof.Z)
	if err != nil {
		return nil, err
	}

	// complete qk with the public input values
	lqkComplete := make([]fr.Element, sizeSystem)
	copy(lqkComplete, pk.LQk)
	for i := 0; i < system.NbPublic; i++ {
		lqkComplete[i].Set(&fullWitness[i])
	}
	cqkComplete := toCanonical(lqkComplete, &pk.DomainSmall)

	// round 3: quotient
	h, err := computeQuotientCanonical(pk, cl, cr, co, cz, cqkComplete, alpha, beta, gamma)
	if err != nil {
		return nil, err
	}
	g = new(errgroup.Group)
	for i := 0; i < 3; i++ {
		i := i
		g.Go(func() (err error) { proof.H[i], err = kzg.Commit(h[i], &pk.Kzg); return })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// round 4: evaluation point
	zeta, err := deriveRandomness(&fs, "zeta", &proof.H[0], &proof.H[1], &proof.H[2])
	if err != nil {
		return nil, err
	}

	// round 5: batched opening at zeta of every committed polynomial, plus
	// the grand product at the next domain point
	polys := []polynomial.Polynomial{
		cl, cr, co, cz,
		pk.Ql, pk.Qr, pk.Qm, pk.Qo, pk.CQk,
		pk.CS1, pk.CS2, pk.CS3,
		h[0], h[1], h[2],
	}
	digests := []kzg.Digest{
		proof.LRO[0], proof.LRO[1], proof.LRO[2], proof.Z,
		pk.Vk.Ql, pk.Vk.Qr, pk.Vk.Qm, pk.Vk.Qo, pk.Vk.Qk,
		pk.Vk.S[0], pk.Vk.S[1], pk.Vk.S[2],
		proof.H[0], proof.H[1], proof.H[2],
	}
	if proof.BatchedProof, err = kzg.BatchOpenSinglePoint(polys, digests, zeta, cfg.kzgFoldingHash, &pk.Kzg); err != nil {
		return nil, err
	}

	var zetaShifted fr.Element
	zetaShifted.Mul(&zeta, &pk.Vk.Generator)
	if proof.ZShiftedOpening, err = kzg.Open(cz, zetaShifted, &pk.Kzg); err != nil {
		return nil, err
	}

	log.Debug().Dur("took", time.Since(start)).Msg("prover done")
	return &proof, nil
}

// evaluateLROSmallDomain extracts the solution vectors l, r, o over the small
// domain: one placeholder row per public input, one row per gate, padding
// rows carry wire 0.
func evaluateLROSmallDomain(system *constraint.System, pk *ProvingKey, solution fr.Vector) ([]fr.Element, []fr.Element, []fr.Element) {
	s := int(pk.DomainSmall.Cardinality)

	l := make([]fr.Element, s)
	r := make([]fr.Element, s)
	o := make([]fr.Element, s)

	for i := 0; i < system.NbPublic; i++ {
		l[i].Set(&solution[i])
		r[i].Set(&solution[0])
		o[i].Set(&solution[0])
	}
	offset := system.NbPublic
	for i := range system.Gates {
		l[offset+i].Set(&solution[system.Gates[i].L])
		r[offset+i].Set(&solution[system.Gates[i].R])
		o[offset+i].Set(&solution[system.Gates[i].O])
	}
	for i := offset + len(system.Gates); i < s; i++ {
		l[i].Set(&solution[0])
		r[i].Set(&solution[0])
		o[i].Set(&solution[0])
	}

	return l, r, o
}

// toCanonical interpolates a Lagrange vector into coefficient form, leaving
// the input untouched.
func toCanonical(evaluations []fr.Element, domain *fft.Domain) polynomial.Polynomial {
	c := make(polynomial.Polynomial, len(evaluations))
	copy(c, evaluations)
	domain.FFTInverse(c, fft.DIF)
	fft.BitReverse(c)
	return c
}

// computeZCanonical computes the canonical form of the grand product
//
//	Z(ωⁱ) = Π_{k<i} (l_k+βωᵏ+γ)(r_k+βuωᵏ+γ)(o_k+βu²ωᵏ+γ) /
//	               (l_k+βs1(ωᵏ)+γ)(r_k+βs2(ωᵏ)+γ)(o_k+βs3(ωᵏ)+γ)
//
// with Z(1) = 1. Denominators are inverted in one batch.
func computeZCanonical(ll, lr, lo []fr.Element, pk *ProvingKey, beta, gamma fr.Element) polynomial.Polynomial {
	nbElmts := int(pk.DomainSmall.Cardinality)

	z := make(polynomial.Polynomial, nbElmts)
	gInvDeno := make([]fr.Element, nbElmts-1)
	z[0].SetOne()

	evaluationIDSmallDomain := getIDSmallDomain(&pk.DomainSmall)

	utils.Parallelize(nbElmts-1, func(start, end int) {
		var f [3]fr.Element
		var t [3]fr.Element
		for i := start; i < end; i++ {
			f[0].Mul(&evaluationIDSmallDomain[i], &beta).Add(&f[0], &ll[i]).Add(&f[0], &gamma)
			f[1].Mul(&evaluationIDSmallDomain[nbElmts+i], &beta).Add(&f[1], &lr[i]).Add(&f[1], &gamma)
			f[2].Mul(&evaluationIDSmallDomain[2*nbElmts+i], &beta).Add(&f[2], &lo[i]).Add(&f[2], &gamma)

			t[0].Mul(&pk.LS1[i], &beta).Add(&t[0], &ll[i]).Add(&t[0], &gamma)
			t[1].Mul(&pk.LS2[i], &beta).Add(&t[1], &lr[i]).Add(&t[1], &gamma)
			t[2].Mul(&pk.LS3[i], &beta).Add(&t[2], &lo[i]).Add(&t[2], &gamma)

			// per-step ratio, chained below
			z[i+1].Mul(&f[0], &f[1]).Mul(&z[i+1], &f[2])
			gInvDeno[i].Mul(&t[0], &t[1]).Mul(&gInvDeno[i], &t[2])
		}
	})

	gInvDeno = fr.BatchInvert(gInvDeno)

	for i := 1; i < nbElmts; i++ {
		z[i].Mul(&z[i], &z[i-1]).Mul(&z[i], &gInvDeno[i-1])
	}

	pk.DomainSmall.FFTInverse(z, fft.DIF)
	fft.BitReverse(z)
	return z
}

// evalCosetBig evaluates a canonical polynomial of degree < 4n on the big
// coset, returning the evaluations in natural order.
func evalCosetBig(p polynomial.Polynomial, domainBig *fft.Domain) []fr.Element {
	res := make([]fr.Element, domainBig.Cardinality)
	copy(res, p)
	domainBig.FFT(res, fft.DIF, true)
	fft.BitReverse(res)
	return res
}

// computeQuotientCanonical evaluates the full PLONK identity on the big
// coset, divides by the vanishing polynomial of the small domain and splits
// the quotient into three chunks of n coefficients.
//
// The numerator has degree at most 4n-4, so the 4n coset determines it
// exactly; a nonzero coefficient past 3n means the division was not exact,
// which only happens on a broken constraint system.
func computeQuotientCanonical(pk *ProvingKey, cl, cr, co, cz, cqkComplete polynomial.Polynomial, alpha, beta, gamma fr.Element) ([3]polynomial.Polynomial, error) {
	var h [3]polynomial.Polynomial

	nbElmts := int(pk.DomainBig.Cardinality)
	sizeSmall := int(pk.DomainSmall.Cardinality)
	ratio := nbElmts / sizeSmall

	evalL := evalCosetBig(cl, &pk.DomainBig)
	evalR := evalCosetBig(cr, &pk.DomainBig)
	evalO := evalCosetBig(co, &pk.DomainBig)
	evalZ := evalCosetBig(cz, &pk.DomainBig)
	evalQl := evalCosetBig(pk.Ql, &pk.DomainBig)
	evalQr := evalCosetBig(pk.Qr, &pk.DomainBig)
	evalQm := evalCosetBig(pk.Qm, &pk.DomainBig)
	evalQo := evalCosetBig(pk.Qo, &pk.DomainBig)
	evalQk := evalCosetBig(cqkComplete, &pk.DomainBig)
	evalS1 := evalCosetBig(pk.CS1, &pk.DomainBig)
	evalS2 := evalCosetBig(pk.CS2, &pk.DomainBig)
	evalS3 := evalCosetBig(pk.CS3, &pk.DomainBig)

	// L₁ over the coset: canonical form is 1/n on the first n coefficients
	evalL1 := make([]fr.Element, nbElmts)
	for i := 0; i < sizeSmall; i++ {
		evalL1[i].Set(&pk.DomainSmall.CardinalityInv)
	}
	pk.DomainBig.FFT(evalL1, fft.DIF, true)
	fft.BitReverse(evalL1)

	// Z_H(u·Gⁱ) = uⁿ·(Gⁿ)ⁱ - 1 is periodic with period ratio
	zhInv := make([]fr.Element, ratio)
	{
		var uN, gN, t fr.Element
		one := fr.One()
		bN := new(big.Int).SetInt64(int64(sizeSmall))
		uN.Exp(pk.DomainBig.FrMultiplicativeGen, bN)
		gN.Exp(pk.DomainBig.Generator, bN)
		t.Set(&uN)
		for i := 0; i < ratio; i++ {
			zhInv[i].Sub(&t, &one)
			t.Mul(&t, &gN)
		}
		zhInv = fr.BatchInvert(zhInv)
	}

	var uShift, uuShift fr.Element
	uShift.Set(&pk.DomainBig.FrMultiplicativeGen)
	uuShift.Square(&uShift)

	t := make(polynomial.Polynomial, nbElmts)
	utils.Parallelize(nbElmts, func(start, end int) {
		var x, gate, ord, boundary, tmp, f fr.Element
		x.Exp(pk.DomainBig.Generator, new(big.Int).SetInt64(int64(start)))
		x.Mul(&x, &pk.DomainBig.FrMultiplicativeGen)
		one := fr.One()
		for i := start; i < end; i++ {
			// gate constraint
			gate.Mul(&evalQl[i], &evalL[i])
			tmp.Mul(&evalQr[i], &evalR[i])
			gate.Add(&gate, &tmp)
			tmp.Mul(&evalL[i], &evalR[i]).Mul(&tmp, &evalQm[i])
			gate.Add(&gate, &tmp)
			tmp.Mul(&evalQo[i], &evalO[i])
			gate.Add(&gate, &tmp).Add(&gate, &evalQk[i])

			// permutation argument:
			// z(ωx)·Π(w+βsᵢ+γ) - z(x)·Π(w+βuⁱ⁻¹x+γ)
			ord.Mul(&evalS1[i], &beta).Add(&ord, &evalL[i]).Add(&ord, &gamma)
			tmp.Mul(&evalS2[i], &beta).Add(&tmp, &evalR[i]).Add(&tmp, &gamma)
			ord.Mul(&ord, &tmp)
			tmp.Mul(&evalS3[i], &beta).Add(&tmp, &evalO[i]).Add(&tmp, &gamma)
			ord.Mul(&ord, &tmp).Mul(&ord, &evalZ[(i+ratio)%nbElmts])

			f.Mul(&x, &beta).Add(&f, &evalL[i]).Add(&f, &gamma)
			tmp.Mul(&x, &beta).Mul(&tmp, &uShift).Add(&tmp, &evalR[i]).Add(&tmp, &gamma)
			f.Mul(&f, &tmp)
			tmp.Mul(&x, &beta).Mul(&tmp, &uuShift).Add(&tmp, &evalO[i]).Add(&tmp, &gamma)
			f.Mul(&f, &tmp).Mul(&f, &evalZ[i])
			ord.Sub(&ord, &f)

			// boundary: L₁(x)·(z(x)-1)
			boundary.Sub(&evalZ[i], &one).Mul(&boundary, &evalL1[i])

			t[i].Mul(&boundary, &alpha).Add(&t[i], &ord).
				Mul(&t[i], &alpha).Add(&t[i], &gate).
				Mul(&t[i], &zhInv[i%ratio])

			x.Mul(&x, &pk.DomainBig.Generator)
		}
	})

	pk.DomainBig.FFTInverse(t, fft.DIF, true)
	fft.BitReverse(t)

	for i := 3 * sizeSmall; i < nbElmts; i++ {
		if !t[i].IsZero() {
			return h, polynomial.ErrInvalidQuotient
		}
	}

	h[0] = t[:sizeSmall]
	h[1] = t[sizeSmall : 2*sizeSmall]
	h[2] = t[2*sizeSmall : 3*sizeSmall]
	return h, nil
}

// bindPublicData binds the circuit commitments and the public inputs to the
// transcript before the first challenge.
func bindPublicData(fs *fiatshamir.Transcript, challenge string, vk VerifyingKey, publicInputs []fr.Element) error {

	// permutation
	if err := fs.Bind(challenge, vk.S[0].Marshal()); err != nil {
		return err
	}
	if err := fs.Bind(challenge, vk.S[1].Marshal()); err != nil {
		return err
	}
	if err := fs.Bind(challenge, vk.S[2].Marshal()); err != nil {
		return err
	}

	// coefficients
	if err := fs.Bind(challenge, vk.Ql.Marshal()); err != nil {
		return err
	}
	if err := fs.Bind(challenge, vk.Qr.Marshal()); err != nil {
		return err
	}
	if err := fs.Bind(challenge, vk.Qm.Marshal()); err != nil {
		return err
	}
	if err := fs.Bind(challenge, vk.Qo.Marshal()); err != nil {
		return err
	}
	if err := fs.Bind(challenge, vk.Qk.Marshal()); err != nil {
		return err
	}

	// public inputs
	for i := range publicInputs {
		if err := fs.Bind(challenge, publicInputs[i].Marshal()); err != nil {
			return err
		}
	}

	return nil
}

// deriveRandomness binds the points to the transcript and squeezes the named
// challenge.
func deriveRandomness(fs *fiatshamir.Transcript, challenge string, points ...*curve.G1Affine) (fr.Element, error) {
	var buf [curve.SizeOfG1AffineUncompressed]byte
	var r fr.Element

	for _, p := range points {
		buf = p.RawBytes()
		if err := fs.Bind(challenge, buf[:]); err != nil {
			return r, err
		}
	}

	b, err := fs.ComputeChallenge(challenge)
	if err != nil {
		return r, err
	}
	r.SetBytes(b)
	return r, nil
}
