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

// Package kzg implements the Kate-Zaverucha-Goldberg polynomial commitment
// scheme over BN254: a polynomial is committed as a single G1 point, and an
// opening at any point is proven with one more G1 point, verified with a
// pairing equation.
package kzg

import (
	"crypto/rand"
	"errors"
	"hash"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	curve "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/consensys/plonk/fiatshamir"
	"github.com/consensys/plonk/polynomial"
)

var (
	// ErrSrsTooSmall is returned when the SRS cannot accommodate the degree of
	// the committed polynomial.
	ErrSrsTooSmall = errors.New("kzg: polynomial degree exceeds the SRS")

	// ErrMinSRSSize is returned when the requested SRS holds fewer than two G1 powers.
	ErrMinSRSSize = errors.New("kzg: srs size must be at least 2")

	// ErrInvalidNbDigests is returned when the number of digests does not
	// match the number of polynomials, openings or points.
	ErrInvalidNbDigests = errors.New("kzg: number of digests is not the same as the number of polynomials")

	// ErrVerifyOpeningProof is the generic rejection of an opening proof: the
	// pairing equation does not hold.
	ErrVerifyOpeningProof = errors.New("kzg: can't verify opening proof")
)

// Digest commitment of a polynomial.
type Digest = curve.G1Affine

// ProvingKey is the part of the SRS needed to commit and open: the successive
// powers of tau in G1.
type ProvingKey struct {
	G1 []curve.G1Affine // [G₁ [τ]G₁ , [τ²]G₁, ... ]
}

// VerifyingKey is the part of the SRS needed to verify openings.
type VerifyingKey struct {
	G1 curve.G1Affine    // G₁
	G2 [2]curve.G2Affine // [G₂, [τ]G₂]
}

// SRS is the result of the trusted setup, shared read-only by every circuit up
// to its degree bound.
type SRS struct {
	Pk ProvingKey
	Vk VerifyingKey
}

// OpeningProof KZG proof for opening at a single point.
type OpeningProof struct {
	// H quotient polynomial (f - f(z))/(x-z) committed
	H curve.G1Affine

	// ClaimedValue purported value f(z)
	ClaimedValue fr.Element
}

// BatchOpeningProof opening proof for several polynomials at the same point.
type BatchOpeningProof struct {
	// H quotient polynomial Σᵢ γⁱ(fᵢ - fᵢ(z))/(x-z) committed
	H curve.G1Affine

	// ClaimedValues purported values fᵢ(z)
	ClaimedValues []fr.Element
}

// NewSRS returns the SRS of the given size built from the provided secret
// scalar. Callers owning the scalar are responsible for discarding it; tests
// and externally-run ceremonies use this entry point.
func NewSRS(size uint64, bTau *big.Int) (*SRS, error) {
	if size < 2 {
		return nil, ErrMinSRSSize
	}

	var srs SRS

	var tau fr.Element
	tau.SetBigInt(bTau)

	_, _, gen1Aff, gen2Aff := curve.Generators()
	srs.Pk.G1 = make([]curve.G1Affine, size)
	srs.Pk.G1[0] = gen1Aff
	srs.Vk.G1 = gen1Aff
	srs.Vk.G2[0] = gen2Aff
	srs.Vk.G2[1].ScalarMultiplication(&gen2Aff, bTau)

	taus := powers(tau, int(size)-1, tau)
	g1s := curve.BatchScalarMultiplicationG1(&gen1Aff, taus)
	copy(srs.Pk.G1[1:], g1s)

	return &srs, nil
}

// GenerateSRS draws a fresh secret scalar, builds the SRS supporting
// polynomials of degree up to maxDegree, and wipes the scalar on every exit
// path ("toxic waste"): it never escapes this function.
func GenerateSRS(maxDegree uint64) (*SRS, error) {
	bTau, err := rand.Int(rand.Reader, fr.Modulus())
	if err != nil {
		return nil, err
	}
	defer bTau.SetInt64(0)

	return NewSRS(maxDegree+1, bTau)
}

// Commit commits to a polynomial using a multi exponentiation with the SRS.
// It is assumed that the polynomial is in canonical form, in Montgomery form.
func Commit(p polynomial.Polynomial, pk *ProvingKey, nbTasks ...int) (Digest, error) {
	if len(p) == 0 || p.Degree() == 0 && p[0].IsZero() {
		var res Digest
		return res, nil // zero polynomial commits to the point at infinity
	}
	if len(p) > len(pk.G1) {
		return Digest{}, ErrSrsTooSmall
	}

	config := ecc.MultiExpConfig{}
	if len(nbTasks) > 0 {
		config.NbTasks = nbTasks[0]
	}

	var res Digest
	if _, err := res.MultiExp(pk.G1[:len(p)], p, config); err != nil {
		return Digest{}, err
	}
	return res, nil
}

// Open computes an opening proof of polynomial p at given point.
// The quotient (p - p(point))/(X - point) is an exact polynomial division.
func Open(p polynomial.Polynomial, point fr.Element, pk *ProvingKey) (OpeningProof, error) {
	if len(p) == 0 || len(p) > len(pk.G1) {
		return OpeningProof{}, ErrSrsTooSmall
	}

	res := OpeningProof{
		ClaimedValue: p.Eval(&point),
	}

	// (p - p(z))/(X - z) divides exactly, synthetic division suffices
	shifted := p.Clone()
	shifted[0].Sub(&shifted[0], &res.ClaimedValue)
	h := polynomial.DivByXMinusA(shifted, point)

	var err error
	if res.H, err = Commit(h, pk); err != nil {
		return OpeningProof{}, err
	}
	return res, nil
}

// Verify verifies a KZG opening proof at a single point, with the pairing
// equation
//
//	e(C - [y]G₁ + [z]π, G₂) * e(-π, [τ]G₂) == 1
func Verify(commitment *Digest, proof *OpeningProof, point fr.Element, vk *VerifyingKey) error {

	// [y]G₁
	var claimedValueG1 curve.G1Affine
	var bClaimedValue big.Int
	proof.ClaimedValue.BigInt(&bClaimedValue)
	claimedValueG1.ScalarMultiplication(&vk.G1, &bClaimedValue)

	// C - [y]G₁ + [z]π
	var totalG1, tmp curve.G1Affine
	var bPoint big.Int
	point.BigInt(&bPoint)
	claimedValueG1.Neg(&claimedValueG1)
	totalG1.Add(commitment, &claimedValueG1)
	tmp.ScalarMultiplication(&proof.H, &bPoint)
	totalG1.Add(&totalG1, &tmp)

	// -π
	var negH curve.G1Affine
	negH.Neg(&proof.H)

	check, err := curve.PairingCheck(
		[]curve.G1Affine{totalG1, negH},
		[]curve.G2Affine{vk.G2[0], vk.G2[1]},
	)
	if err != nil {
		return err
	}
	if !check {
		return ErrVerifyOpeningProof
	}
	return nil
}

// BatchOpenSinglePoint creates a batch opening proof of several polynomials at
// the same point. The folding challenge is derived from the transcript of the
// point, the digests and the claimed values, so prover and verifier agree on
// it without interaction.
func BatchOpenSinglePoint(polynomials []polynomial.Polynomial, digests []Digest, point fr.Element, hf hash.Hash, pk *ProvingKey) (BatchOpeningProof, error) {
	if len(polynomials) != len(digests) {
		return BatchOpeningProof{}, ErrInvalidNbDigests
	}

	var res BatchOpeningProof
	res.ClaimedValues = make([]fr.Element, len(polynomials))
	for i := range polynomials {
		res.ClaimedValues[i] = polynomials[i].Eval(&point)
	}

	gamma, err := deriveGamma(point, digests, res.ClaimedValues, hf)
	if err != nil {
		return BatchOpeningProof{}, err
	}

	// fold the polynomials and the claimed values with powers of gamma
	maxSize := 0
	for i := range polynomials {
		if len(polynomials[i]) > maxSize {
			maxSize = len(polynomials[i])
		}
	}
	foldedPolynomial := make(polynomial.Polynomial, maxSize)
	var foldedValue, acc, t fr.Element
	acc.SetOne()
	for i := range polynomials {
		for j := range polynomials[i] {
			t.Mul(&polynomials[i][j], &acc)
			foldedPolynomial[j].Add(&foldedPolynomial[j], &t)
		}
		t.Mul(&res.ClaimedValues[i], &acc)
		foldedValue.Add(&foldedValue, &t)
		acc.Mul(&acc, &gamma)
	}

	foldedPolynomial[0].Sub(&foldedPolynomial[0], &foldedValue)
	h := polynomial.DivByXMinusA(foldedPolynomial, point)

	if res.H, err = Commit(h, pk); err != nil {
		return BatchOpeningProof{}, err
	}
	return res, nil
}

// FoldProof folds a batch opening proof at a single point into an opening
// proof of the folded digest, re-deriving the folding challenge the same way
// the prover did.
func FoldProof(digests []Digest, batchOpeningProof *BatchOpeningProof, point fr.Element, hf hash.Hash) (OpeningProof, Digest, error) {
	if len(digests) != len(batchOpeningProof.ClaimedValues) {
		return OpeningProof{}, Digest{}, ErrInvalidNbDigests
	}

	gamma, err := deriveGamma(point, digests, batchOpeningProof.ClaimedValues, hf)
	if err != nil {
		return OpeningProof{}, Digest{}, err
	}

	gammas := powers(fr.One(), len(digests), gamma)

	var foldedDigest Digest
	if _, err := foldedDigest.MultiExp(digests, gammas, ecc.MultiExpConfig{}); err != nil {
		return OpeningProof{}, Digest{}, err
	}

	var foldedValue, t fr.Element
	for i := range batchOpeningProof.ClaimedValues {
		t.Mul(&batchOpeningProof.ClaimedValues[i], &gammas[i])
		foldedValue.Add(&foldedValue, &t)
	}

	return OpeningProof{H: batchOpeningProof.H, ClaimedValue: foldedValue}, foldedDigest, nil
}

// BatchVerifySinglePoint verifies a batch opening proof at a single point.
func BatchVerifySinglePoint(digests []Digest, batchOpeningProof *BatchOpeningProof, point fr.Element, hf hash.Hash, vk *VerifyingKey) error {
	proof, foldedDigest, err := FoldProof(digests, batchOpeningProof, point, hf)
	if err != nil {
		return err
	}
	return Verify(&foldedDigest, &proof, point, vk)
}

// BatchVerifyMultiPoints verifies several opening proofs at possibly distinct
// points with a single pairing check, folding the proofs with a random linear
// combination (verifier-side randomness, soundness-preserving).
func BatchVerifyMultiPoints(digests []Digest, proofs []OpeningProof, points []fr.Element, vk *VerifyingKey) error {
	if len(digests) != len(proofs) || len(digests) != len(points) {
		return ErrInvalidNbDigests
	}

	// nothing to fold
	if len(digests) == 1 {
		return Verify(&digests[0], &proofs[0], points[0], vk)
	}

	// sample the folding coefficients; the first one can stay 1
	lambdas := make([]fr.Element, len(digests))
	lambdas[0].SetOne()
	for i := 1; i < len(lambdas); i++ {
		if _, err := lambdas[i].SetRandom(); err != nil {
			return err
		}
	}

	// fold the quotients, the digests and the claimed values
	quotients := make([]curve.G1Affine, len(proofs))
	for i := range proofs {
		quotients[i] = proofs[i].H
	}
	var foldedQuotients curve.G1Affine
	if _, err := foldedQuotients.MultiExp(quotients, lambdas, ecc.MultiExpConfig{}); err != nil {
		return err
	}

	var foldedDigests curve.G1Affine
	if _, err := foldedDigests.MultiExp(digests, lambdas, ecc.MultiExpConfig{}); err != nil {
		return err
	}

	var foldedEval, t fr.Element
	scaledPoints := make([]fr.Element, len(points))
	for i := range points {
		t.Mul(&proofs[i].ClaimedValue, &lambdas[i])
		foldedEval.Add(&foldedEval, &t)
		scaledPoints[i].Mul(&points[i], &lambdas[i])
	}

	// Σ λᵢzᵢπᵢ
	var foldedPointsQuotients curve.G1Affine
	if _, err := foldedPointsQuotients.MultiExp(quotients, scaledPoints, ecc.MultiExpConfig{}); err != nil {
		return err
	}

	// ΣλᵢCᵢ - [Σλᵢyᵢ]G₁ + Σλᵢzᵢπᵢ
	var foldedEvalG1 curve.G1Affine
	var bFoldedEval big.Int
	foldedEval.BigInt(&bFoldedEval)
	foldedEvalG1.ScalarMultiplication(&vk.G1, &bFoldedEval)
	foldedEvalG1.Neg(&foldedEvalG1)
	foldedDigests.Add(&foldedDigests, &foldedEvalG1)
	foldedDigests.Add(&foldedDigests, &foldedPointsQuotients)

	foldedQuotients.Neg(&foldedQuotients)

	check, err := curve.PairingCheck(
		[]curve.G1Affine{foldedDigests, foldedQuotients},
		[]curve.G2Affine{vk.G2[0], vk.G2[1]},
	)
	if err != nil {
		return err
	}
	if !check {
		return ErrVerifyOpeningProof
	}
	return nil
}

// deriveGamma derives the folding challenge for batched openings from the
// transcript of the point, the digests and the claimed values.
func deriveGamma(point fr.Element, digests []Digest, claimedValues []fr.Element, hf hash.Hash) (fr.Element, error) {
	fs := fiatshamir.NewTranscript(hf, "gamma")
	if err := fs.Bind("gamma", point.Marshal()); err != nil {
		return fr.Element{}, err
	}
	for i := range digests {
		if err := fs.Bind("gamma", digests[i].Marshal()); err != nil {
			return fr.Element{}, err
		}
	}
	for i := range claimedValues {
		if err := fs.Bind("gamma", claimedValues[i].Marshal()); err != nil {
			return fr.Element{}, err
		}
	}
	gammaByte, err := fs.ComputeChallenge("gamma")
	if err != nil {
		return fr.Element{}, err
	}
	var gamma fr.Element
	gamma.SetBytes(gammaByte)
	return gamma, nil
}

// powers returns [first, first*x, ..., first*x^(n-1)]
func powers(first fr.Element, n int, x fr.Element) []fr.Element {
	res := make([]fr.Element, n)
	if n == 0 {
		return res
	}
	res[0].Set(&first)
	for i := 1; i < n; i++ {
		res[i].Mul(&res[i-1], &x)
	}
	return res
}
