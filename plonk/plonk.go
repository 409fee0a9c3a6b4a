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

// Package plonk implements the PLONK proving system: a universal SNARK with a
// one-time trusted setup shared by every circuit up to a degree bound.
//
// The lifecycle is Setup once per circuit, then Prove per witness and Verify
// per proof. Keys are immutable after Setup and safe to share across
// concurrent Prove and Verify calls.
package plonk

import (
	"errors"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/consensys/plonk/fft"
	"github.com/consensys/plonk/kzg"
)

var (
	// ErrDegreeOverflow is returned when a circuit needs polynomials of a
	// degree the field's 2-adic subgroups or the SRS cannot reach.
	ErrDegreeOverflow = errors.New("plonk: circuit size exceeds the supported degree")

	// ErrSrsTooSmall is returned by Setup when the SRS cannot commit
	// polynomials over the padded circuit domain.
	ErrSrsTooSmall = errors.New("plonk: srs is too small for the circuit")

	// ErrUnsatisfiedConstraint is returned by Prove when the witness violates
	// a gate equation. No proof is emitted for such a witness.
	ErrUnsatisfiedConstraint = errors.New("plonk: witness does not satisfy the constraint system")

	// ErrMalformedProof is returned by Verify when the proof or the public
	// witness has the wrong shape, before any cryptographic check runs.
	ErrMalformedProof = errors.New("plonk: malformed proof")

	// ErrInvalidProof is the verifier's reject outcome.
	ErrInvalidProof = errors.New("plonk: invalid proof")
)

// ProvingKey holds the circuit-specific prover material: selector and
// permutation polynomials in both bases, the evaluation domains and the SRS
// commitment powers.
type ProvingKey struct {
	Vk *VerifyingKey

	// selectors in canonical basis. CQk is missing the public input values,
	// the prover completes it per witness.
	Ql, Qr, Qm, Qo, CQk []fr.Element

	// qk in Lagrange basis, same public input gap as CQk
	LQk []fr.Element

	// position polynomials over the three cosets of the small domain,
	// in Lagrange and canonical basis
	LS1, LS2, LS3 []fr.Element
	CS1, CS2, CS3 []fr.Element

	// DomainSmall is the circuit domain, DomainBig the 4x coset domain the
	// quotient is computed on.
	DomainSmall, DomainBig fft.Domain

	// Permutation of the 3*n wire slots encoding the copy constraints
	Permutation []int64

	Kzg kzg.ProvingKey
}

// VerifyingKey holds the commitments to the circuit polynomials and the
// domain metadata. It is small and intended for public distribution.
type VerifyingKey struct {
	Size              uint64
	SizeInv           fr.Element
	Generator         fr.Element
	NbPublicVariables uint64

	// CosetShift generates the wire-slot cosets of the permutation argument
	CosetShift fr.Element

	S                  [3]kzg.Digest
	Ql, Qr, Qm, Qo, Qk kzg.Digest

	Kzg kzg.VerifyingKey
}

// NbPublicWitness returns the number of public inputs the verifier expects.
func (vk *VerifyingKey) NbPublicWitness() int {
	return int(vk.NbPublicVariables)
}

// Proof is a complete PLONK proof. Its size does not depend on the circuit.
type Proof struct {
	// commitments to the wire polynomials l, r, o
	LRO [3]kzg.Digest

	// commitment to the copy-constraint grand product
	Z kzg.Digest

	// commitments to the three quotient chunks
	H [3]kzg.Digest

	// opening of every committed polynomial at zeta
	BatchedProof kzg.BatchOpeningProof

	// opening of the grand product at zeta*omega
	ZShiftedOpening kzg.OpeningProof
}

// number of claimed evaluations in the batched opening:
// l, r, o, z, ql, qr, qm, qo, qk, s1, s2, s3, h1, h2, h3
const nbBatchedClaims = 15
