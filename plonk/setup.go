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
	"errors"
	"fmt"
	"time"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"golang.org/x/sync/errgroup"

	"github.com/consensys/plonk/constraint"
	"github.com/consensys/plonk/fft"
	"github.com/consensys/plonk/kzg"
	"github.com/consensys/plonk/logger"
)

// Setup derives the proving and verifying keys of a circuit from the SRS.
//
// The circuit is padded with no-op rows to the next power of two, public
// inputs get one placeholder row each (ql=-1, qk completed per witness by the
// prover), and the copy constraints are turned into the permutation
// polynomials of the coset-based permutation argument.
func Setup(system *constraint.System, srs *kzg.SRS) (*ProvingKey, *VerifyingKey, error) {
	log := logger.Logger().With().
		Str("curve", "bn254").
		Int("nbConstraints", len(system.Gates)).
		Str("backend", "plonk").Logger()
	start := time.Now()

	if err := system.Validate(); err != nil {
		return nil, nil, err
	}

	var pk ProvingKey
	var vk VerifyingKey
	pk.Vk = &vk

	nbRows := len(system.Gates) + system.NbPublic
	domainSmall, err := fft.NewDomain(uint64(nbRows))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrDegreeOverflow, err)
	}
	domainBig, err := fft.NewDomain(4 * domainSmall.Cardinality)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrDegreeOverflow, err)
	}
	pk.DomainSmall = *domainSmall
	pk.DomainBig = *domainBig

	sizeSystem := int(domainSmall.Cardinality)
	if len(srs.Pk.G1) < sizeSystem {
		return nil, nil, ErrSrsTooSmall
	}
	pk.Kzg = srs.Pk
	vk.Kzg = srs.Vk

	vk.Size = domainSmall.Cardinality
	vk.SizeInv = domainSmall.CardinalityInv
	vk.Generator = domainSmall.Generator
	vk.NbPublicVariables = uint64(system.NbPublic)
	vk.CosetShift = domainSmall.FrMultiplicativeGen

	// selectors in Lagrange basis, one row per public input then one per gate,
	// zero padding up to the domain
	pk.Ql = make([]fr.Element, sizeSystem)
	pk.Qr = make([]fr.Element, sizeSystem)
	pk.Qm = make([]fr.Element, sizeSystem)
	pk.Qo = make([]fr.Element, sizeSystem)
	pk.CQk = make([]fr.Element, sizeSystem)
	pk.LQk = make([]fr.Element, sizeSystem)

	for i := 0; i < system.NbPublic; i++ {
		pk.Ql[i].SetOne().Neg(&pk.Ql[i])
	}
	offset := system.NbPublic
	for i := range system.Gates {
		g := &system.Gates[i]
		pk.Ql[offset+i].Set(&g.Ql)
		pk.Qr[offset+i].Set(&g.Qr)
		pk.Qm[offset+i].Set(&g.Qm)
		pk.Qo[offset+i].Set(&g.Qo)
		pk.CQk[offset+i].Set(&g.Qk)
		pk.LQk[offset+i].Set(&g.Qk)
	}

	pk.DomainSmall.FFTInverse(pk.Ql, fft.DIF)
	pk.DomainSmall.FFTInverse(pk.Qr, fft.DIF)
	pk.DomainSmall.FFTInverse(pk.Qm, fft.DIF)
	pk.DomainSmall.FFTInverse(pk.Qo, fft.DIF)
	pk.DomainSmall.FFTInverse(pk.CQk, fft.DIF)
	fft.BitReverse(pk.Ql)
	fft.BitReverse(pk.Qr)
	fft.BitReverse(pk.Qm)
	fft.BitReverse(pk.Qo)
	fft.BitReverse(pk.CQk)

	buildPermutation(system, &pk)
	computePermutationPolynomials(&pk)

	// commit the eight public polynomials
	g := new(errgroup.Group)
	g.Go(func() (err error) { vk.Ql, err = kzg.Commit(pk.Ql, &pk.Kzg); return })
	g.Go(func() (err error) { vk.Qr, err = kzg.Commit(pk.Qr, &pk.Kzg); return })
	g.Go(func() (err error) { vk.Qm, err = kzg.Commit(pk.Qm, &pk.Kzg); return })
	g.Go(func() (err error) { vk.Qo, err = kzg.Commit(pk.Qo, &pk.Kzg); return })
	g.Go(func() (err error) { vk.Qk, err = kzg.Commit(pk.CQk, &pk.Kzg); return })
	g.Go(func() (err error) { vk.S[0], err = kzg.Commit(pk.CS1, &pk.Kzg); return })
	g.Go(func() (err error) { vk.S[1], err = kzg.Commit(pk.CS2, &pk.Kzg); return })
	g.Go(func() (err error) { vk.S[2], err = kzg.Commit(pk.CS3, &pk.Kzg); return })
	if err := g.Wait(); err != nil {
		if errors.Is(err, kzg.ErrSrsTooSmall) {
			return nil, nil, ErrSrsTooSmall
		}
		return nil, nil, err
	}

	log.Debug().Dur("took", time.Since(start)).Msg("setup done")
	return &pk, &vk, nil
}

// buildPermutation builds the permutation of the 3*n wire slots.
//
// The wire slots are [l₀..lₙ₋₁, r₀..rₙ₋₁, o₀..oₙ₋₁]; slots carrying the same
// witness wire are chained into a cycle, so the permutation fixes exactly the
// copy constraints implied by wire reuse.
func buildPermutation(system *constraint.System, pk *ProvingKey) {
	sizeSolution := int(pk.DomainSmall.Cardinality)

	pk.Permutation = make([]int64, 3*sizeSolution)
	for i := range pk.Permutation {
		pk.Permutation[i] = -1
	}

	// slot -> witness wire. Placeholder rows bind their left slot to the
	// public wire; every other unset slot carries wire 0, matching the
	// padding values the prover fills in.
	lro := make([]int, 3*sizeSolution)
	for i := 0; i < system.NbPublic; i++ {
		lro[i] = i
	}
	offset := system.NbPublic
	for i := range system.Gates {
		lro[offset+i] = system.Gates[i].L
		lro[sizeSolution+offset+i] = system.Gates[i].R
		lro[2*sizeSolution+offset+i] = system.Gates[i].O
	}

	// chain the slots of each wire into a cycle
	cycle := make([]int64, system.NbWires)
	for i := range cycle {
		cycle[i] = -1
	}
	for i := range lro {
		if cycle[lro[i]] != -1 {
			pk.Permutation[i] = cycle[lro[i]]
		}
		cycle[lro[i]] = int64(i)
	}

	// close each cycle on its last slot
	for i := range pk.Permutation {
		if pk.Permutation[i] == -1 {
			pk.Permutation[i] = cycle[lro[i]]
		}
	}
}

// computePermutationPolynomials builds s1, s2, s3: the permutation expressed
// over the three cosets <1, u, u²>·H, in Lagrange and canonical basis.
func computePermutationPolynomials(pk *ProvingKey) {
	nbElmts := int(pk.DomainSmall.Cardinality)

	evaluationIDSmallDomain := getIDSmallDomain(&pk.DomainSmall)

	pk.LS1 = make([]fr.Element, nbElmts)
	pk.LS2 = make([]fr.Element, nbElmts)
	pk.LS3 = make([]fr.Element, nbElmts)
	for i := 0; i < nbElmts; i++ {
		pk.LS1[i].Set(&evaluationIDSmallDomain[pk.Permutation[i]])
		pk.LS2[i].Set(&evaluationIDSmallDomain[pk.Permutation[nbElmts+i]])
		pk.LS3[i].Set(&evaluationIDSmallDomain[pk.Permutation[2*nbElmts+i]])
	}

	pk.CS1 = make([]fr.Element, nbElmts)
	pk.CS2 = make([]fr.Element, nbElmts)
	pk.CS3 = make([]fr.Element, nbElmts)
	copy(pk.CS1, pk.LS1)
	copy(pk.CS2, pk.LS2)
	copy(pk.CS3, pk.LS3)
	pk.DomainSmall.FFTInverse(pk.CS1, fft.DIF)
	pk.DomainSmall.FFTInverse(pk.CS2, fft.DIF)
	pk.DomainSmall.FFTInverse(pk.CS3, fft.DIF)
	fft.BitReverse(pk.CS1)
	fft.BitReverse(pk.CS2)
	fft.BitReverse(pk.CS3)
}

// getIDSmallDomain returns the identity permutation support
// [1, ω, .., ωⁿ⁻¹, u, uω, .., uωⁿ⁻¹, u², u²ω, .., u²ωⁿ⁻¹].
func getIDSmallDomain(domain *fft.Domain) []fr.Element {
	res := make([]fr.Element, 3*domain.Cardinality)

	res[0].SetOne()
	res[domain.Cardinality].Set(&domain.FrMultiplicativeGen)
	res[2*domain.Cardinality].Square(&domain.FrMultiplicativeGen)

	for i := uint64(1); i < domain.Cardinality; i++ {
		res[i].Mul(&res[i-1], &domain.Generator)
		res[domain.Cardinality+i].Mul(&res[domain.Cardinality+i-1], &domain.Generator)
		res[2*domain.Cardinality+i].Mul(&res[2*domain.Cardinality+i-1], &domain.Generator)
	}

	return res
}
