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
	"encoding/binary"
	"io"

	curve "github.com/consensys/gnark-crypto/ecc/bn254"

	"github.com/consensys/plonk/fft"
)

// WriteTo writes binary encoding of the Proof
func (proof *Proof) WriteTo(w io.Writer) (int64, error) {
	enc := curve.NewEncoder(w)
	toEncode := []interface{}{
		&proof.LRO[0],
		&proof.LRO[1],
		&proof.LRO[2],
		&proof.Z,
		&proof.H[0],
		&proof.H[1],
		&proof.H[2],
		&proof.BatchedProof.H,
		proof.BatchedProof.ClaimedValues,
		&proof.ZShiftedOpening.H,
		&proof.ZShiftedOpening.ClaimedValue,
	}
	for _, v := range toEncode {
		if err := enc.Encode(v); err != nil {
			return enc.BytesWritten(), err
		}
	}
	return enc.BytesWritten(), nil
}

// ReadFrom reads binary representation of Proof from r
func (proof *Proof) ReadFrom(r io.Reader) (int64, error) {
	dec := curve.NewDecoder(r)
	toDecode := []interface{}{
		&proof.LRO[0],
		&proof.LRO[1],
		&proof.LRO[2],
		&proof.Z,
		&proof.H[0],
		&proof.H[1],
		&proof.H[2],
		&proof.BatchedProof.H,
		&proof.BatchedProof.ClaimedValues,
		&proof.ZShiftedOpening.H,
		&proof.ZShiftedOpening.ClaimedValue,
	}
	for _, v := range toDecode {
		if err := dec.Decode(v); err != nil {
			return dec.BytesRead(), err
		}
	}
	return dec.BytesRead(), nil
}

// WriteTo writes binary encoding of the VerifyingKey
func (vk *VerifyingKey) WriteTo(w io.Writer) (int64, error) {
	enc := curve.NewEncoder(w)
	toEncode := []interface{}{
		vk.Size,
		&vk.SizeInv,
		&vk.Generator,
		vk.NbPublicVariables,
		&vk.CosetShift,
		&vk.S[0],
		&vk.S[1],
		&vk.S[2],
		&vk.Ql,
		&vk.Qr,
		&vk.Qm,
		&vk.Qo,
		&vk.Qk,
	}
	for _, v := range toEncode {
		if err := enc.Encode(v); err != nil {
			return enc.BytesWritten(), err
		}
	}
	n, err := vk.Kzg.WriteTo(w)
	return enc.BytesWritten() + n, err
}

// ReadFrom reads binary representation of VerifyingKey from r
func (vk *VerifyingKey) ReadFrom(r io.Reader) (int64, error) {
	dec := curve.NewDecoder(r)
	toDecode := []interface{}{
		&vk.Size,
		&vk.SizeInv,
		&vk.Generator,
		&vk.NbPublicVariables,
		&vk.CosetShift,
		&vk.S[0],
		&vk.S[1],
		&vk.S[2],
		&vk.Ql,
		&vk.Qr,
		&vk.Qm,
		&vk.Qo,
		&vk.Qk,
	}
	for _, v := range toDecode {
		if err := dec.Decode(v); err != nil {
			return dec.BytesRead(), err
		}
	}
	n, err := vk.Kzg.ReadFrom(r)
	return dec.BytesRead() + n, err
}

// WriteTo writes binary encoding of the ProvingKey. The embedded verifying
// key and the KZG powers are included; domains are stored as their size only.
func (pk *ProvingKey) WriteTo(w io.Writer) (int64, error) {
	n, err := pk.Vk.WriteTo(w)
	if err != nil {
		return n, err
	}
	m, err := pk.Kzg.WriteTo(w)
	n += m
	if err != nil {
		return n, err
	}

	enc := curve.NewEncoder(w)
	toEncode := []interface{}{
		pk.DomainSmall.Cardinality,
		pk.Ql,
		pk.Qr,
		pk.Qm,
		pk.Qo,
		pk.CQk,
		pk.LQk,
		pk.LS1,
		pk.LS2,
		pk.LS3,
		pk.CS1,
		pk.CS2,
		pk.CS3,
	}
	for _, v := range toEncode {
		if err := enc.Encode(v); err != nil {
			return n + enc.BytesWritten(), err
		}
	}
	n += enc.BytesWritten()

	// permutation, fixed length 3*cardinality
	if err := binary.Write(w, binary.BigEndian, pk.Permutation); err != nil {
		return n, err
	}
	n += 8 * int64(len(pk.Permutation))
	return n, nil
}

// ReadFrom reads binary representation of ProvingKey from r, rebuilding the
// FFT domains from the stored size.
func (pk *ProvingKey) ReadFrom(r io.Reader) (int64, error) {
	pk.Vk = new(VerifyingKey)
	n, err := pk.Vk.ReadFrom(r)
	if err != nil {
		return n, err
	}
	m, err := pk.Kzg.ReadFrom(r)
	n += m
	if err != nil {
		return n, err
	}

	dec := curve.NewDecoder(r)
	var cardinality uint64
	if err := dec.Decode(&cardinality); err != nil {
		return n + dec.BytesRead(), err
	}
	domainSmall, err := fft.NewDomain(cardinality)
	if err != nil {
		return n + dec.BytesRead(), err
	}
	domainBig, err := fft.NewDomain(4 * cardinality)
	if err != nil {
		return n + dec.BytesRead(), err
	}
	pk.DomainSmall = *domainSmall
	pk.DomainBig = *domainBig

	toDecode := []interface{}{
		&pk.Ql,
		&pk.Qr,
		&pk.Qm,
		&pk.Qo,
		&pk.CQk,
		&pk.LQk,
		&pk.LS1,
		&pk.LS2,
		&pk.LS3,
		&pk.CS1,
		&pk.CS2,
		&pk.CS3,
	}
	for _, v := range toDecode {
		if err := dec.Decode(v); err != nil {
			return n + dec.BytesRead(), err
		}
	}
	n += dec.BytesRead()

	pk.Permutation = make([]int64, 3*cardinality)
	if err := binary.Read(r, binary.BigEndian, pk.Permutation); err != nil {
		return n, err
	}
	n += 8 * int64(len(pk.Permutation))
	return n, nil
}
