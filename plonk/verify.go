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

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/consensys/plonk/fiatshamir"
	"github.com/consensys/plonk/kzg"
	"github.com/consensys/plonk/logger"
)

// Verify checks a proof against a verifying key and the public part of the
// witness. It returns nil on accept and ErrInvalidProof on reject; a proof or
// witness of the wrong shape fails with ErrMalformedProof before any
// cryptographic check.
func Verify(proof *Proof, vk *VerifyingKey, publicWitness fr.Vector, opts ...Option) error {
	log := logger.Logger().With().
		Str("curve", "bn254").
		Str("backend", "plonk").Logger()
	start := time.Now()

	cfg, err := newConfig(opts...)
	if err != nil {
		return err
	}

	if len(proof.BatchedProof.ClaimedValues) != nbBatchedClaims {
		return ErrMalformedProof
	}
	if uint64(len(publicWitness)) != vk.NbPublicVariables {
		return ErrMalformedProof
	}

	// re-derive the challenges from the same transcript as the prover
	fs := fiatshamir.NewTranscript(cfg.challengeHash, "gamma", "beta", "alpha", "zeta")
	if err := bindPublicData(&fs, "gamma", *vk, publicWitness); err != nil {
		return err
	}
	gamma, err := deriveRandomness(&fs, "gamma", &proof.LRO[0], &proof.LRO[1], &proof.LRO[2])
	if err != nil {
		return err
	}
	beta, err := deriveRandomness(&fs, "beta")
	if err != nil {
		return err
	}
	alpha, err := deriveRandomness(&fs, "alpha", &proof.Z)
	if err != nil {
		return err
	}
	zeta, err := deriveRandomness(&fs, "zeta", &proof.H[0], &proof.H[1], &proof.H[2])
	if err != nil {
		return err
	}

	cv := proof.BatchedProof.ClaimedValues
	l, r, o, z := &cv[0], &cv[1], &cv[2], &cv[3]
	ql, qr, qm, qo, qk := &cv[4], &cv[5], &cv[6], &cv[7], &cv[8]
	s1, s2, s3 := &cv[9], &cv[10], &cv[11]
	h1, h2, h3 := &cv[12], &cv[13], &cv[14]
	zShifted := &proof.ZShiftedOpening.ClaimedValue

	// ζⁿ-1
	var zetaPowerN, zhZeta fr.Element
	one := fr.One()
	bN := new(big.Int).SetUint64(vk.Size)
	zetaPowerN.Exp(zeta, bN)
	zhZeta.Sub(&zetaPowerN, &one)

	pi := evalPublicInputPolynomial(vk, publicWitness, zeta, zhZeta)

	// gate constraint plus the public input contribution
	var gate, tmp fr.Element
	gate.Mul(ql, l)
	tmp.Mul(qr, r)
	gate.Add(&gate, &tmp)
	tmp.Mul(l, r).Mul(&tmp, qm)
	gate.Add(&gate, &tmp)
	tmp.Mul(qo, o)
	gate.Add(&gate, &tmp).Add(&gate, qk).Add(&gate, &pi)

	// permutation argument at ζ
	var ord, f fr.Element
	ord.Mul(s1, &beta).Add(&ord, l).Add(&ord, &gamma)
	tmp.Mul(s2, &beta).Add(&tmp, r).Add(&tmp, &gamma)
	ord.Mul(&ord, &tmp)
	tmp.Mul(s3, &beta).Add(&tmp, o).Add(&tmp, &gamma)
	ord.Mul(&ord, &tmp).Mul(&ord, zShifted)

	f.Mul(&zeta, &beta).Add(&f, l).Add(&f, &gamma)
	tmp.Mul(&zeta, &beta).Mul(&tmp, &vk.CosetShift).Add(&tmp, r).Add(&tmp, &gamma)
	f.Mul(&f, &tmp)
	tmp.Mul(&zeta, &beta).Mul(&tmp, &vk.CosetShift).Mul(&tmp, &vk.CosetShift).Add(&tmp, o).Add(&tmp, &gamma)
	f.Mul(&f, &tmp).Mul(&f, z)
	ord.Sub(&ord, &f)

	// boundary: L₁(ζ)·(z̄-1) with L₁(ζ) = (ζⁿ-1)/(n·(ζ-1))
	var lone, boundary fr.Element
	lone.Sub(&zeta, &one).Inverse(&lone).
		Mul(&lone, &zhZeta).Mul(&lone, &vk.SizeInv)
	boundary.Sub(z, &one).Mul(&boundary, &lone)

	// gate + α·ord + α²·boundary == (h̄₁ + ζⁿh̄₂ + ζ²ⁿh̄₃)·(ζⁿ-1)
	var lhs, rhs fr.Element
	lhs.Mul(&boundary, &alpha).Add(&lhs, &ord).
		Mul(&lhs, &alpha).Add(&lhs, &gate)

	rhs.Mul(h3, &zetaPowerN).Add(&rhs, h2).
		Mul(&rhs, &zetaPowerN).Add(&rhs, h1).
		Mul(&rhs, &zhZeta)

	if !lhs.Equal(&rhs) {
		return ErrInvalidProof
	}

	// one pairing for both opening proofs
	digests := []kzg.Digest{
		proof.LRO[0], proof.LRO[1], proof.LRO[2], proof.Z,
		vk.Ql, vk.Qr, vk.Qm, vk.Qo, vk.Qk,
		vk.S[0], vk.S[1], vk.S[2],
		proof.H[0], proof.H[1], proof.H[2],
	}
	foldedProof, foldedDigest, err := kzg.FoldProof(digests, &proof.BatchedProof, zeta, cfg.kzgFoldingHash)
	if err != nil {
		return err
	}

	var zetaShifted fr.Element
	zetaShifted.Mul(&zeta, &vk.Generator)

	if err := kzg.BatchVerifyMultiPoints(
		[]kzg.Digest{foldedDigest, proof.Z},
		[]kzg.OpeningProof{foldedProof, proof.ZShiftedOpening},
		[]fr.Element{zeta, zetaShifted},
		&vk.Kzg,
	); err != nil {
		return ErrInvalidProof
	}

	log.Debug().Dur("took", time.Since(start)).Msg("verifier done")
	return nil
}

// evalPublicInputPolynomial evaluates Σ wᵢ·Lᵢ(ζ) with one batch inversion,
// Lᵢ(ζ) = ωⁱ·(ζⁿ-1)/(n·(ζ-ωⁱ)).
func evalPublicInputPolynomial(vk *VerifyingKey, publicWitness []fr.Element, zeta, zhZeta fr.Element) fr.Element {
	var pi fr.Element
	if len(publicWitness) == 0 {
		return pi
	}

	dens := make([]fr.Element, len(publicWitness))
	var wPowI fr.Element
	wPowI.SetOne()
	for i := range dens {
		dens[i].Sub(&zeta, &wPowI)
		wPowI.Mul(&wPowI, &vk.Generator)
	}
	invDens := fr.BatchInvert(dens)

	var t fr.Element
	wPowI.SetOne()
	for i := range publicWitness {
		t.Mul(&wPowI, &invDens[i]).
			Mul(&t, &zhZeta).
			Mul(&t, &vk.SizeInv).
			Mul(&t, &publicWitness[i])
		pi.Add(&pi, &t)
		wPowI.Mul(&wPowI, &vk.Generator)
	}
	return pi
}
