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

package kzg

import (
	"io"

	curve "github.com/consensys/gnark-crypto/ecc/bn254"
)

// WriteTo writes binary encoding of the ProvingKey
func (pk *ProvingKey) WriteTo(w io.Writer) (int64, error) {
	enc := curve.NewEncoder(w)
	if err := enc.Encode(pk.G1); err != nil {
		return enc.BytesWritten(), err
	}
	return enc.BytesWritten(), nil
}

// ReadFrom reads binary representation of ProvingKey from r
func (pk *ProvingKey) ReadFrom(r io.Reader) (int64, error) {
	dec := curve.NewDecoder(r)
	if err := dec.Decode(&pk.G1); err != nil {
		return dec.BytesRead(), err
	}
	return dec.BytesRead(), nil
}

// WriteTo writes binary encoding of the VerifyingKey
func (vk *VerifyingKey) WriteTo(w io.Writer) (int64, error) {
	enc := curve.NewEncoder(w)
	toEncode := []interface{}{
		&vk.G1,
		&vk.G2[0],
		&vk.G2[1],
	}
	for _, v := range toEncode {
		if err := enc.Encode(v); err != nil {
			return enc.BytesWritten(), err
		}
	}
	return enc.BytesWritten(), nil
}

// ReadFrom reads binary representation of VerifyingKey from r
func (vk *VerifyingKey) ReadFrom(r io.Reader) (int64, error) {
	dec := curve.NewDecoder(r)
	toDecode := []interface{}{
		&vk.G1,
		&vk.G2[0],
		&vk.G2[1],
	}
	for _, v := range toDecode {
		if err := dec.Decode(v); err != nil {
			return dec.BytesRead(), err
		}
	}
	return dec.BytesRead(), nil
}

// WriteTo writes binary encoding of the entire SRS
func (srs *SRS) WriteTo(w io.Writer) (int64, error) {
	n, err := srs.Pk.WriteTo(w)
	if err != nil {
		return n, err
	}
	m, err := srs.Vk.WriteTo(w)
	return n + m, err
}

// ReadFrom reads binary representation of the entire SRS from r
func (srs *SRS) ReadFrom(r io.Reader) (int64, error) {
	n, err := srs.Pk.ReadFrom(r)
	if err != nil {
		return n, err
	}
	m, err := srs.Vk.ReadFrom(r)
	return n + m, err
}

// WriteTo writes binary encoding of OpeningProof
func (proof *OpeningProof) WriteTo(w io.Writer) (int64, error) {
	enc := curve.NewEncoder(w)
	toEncode := []interface{}{
		&proof.H,
		&proof.ClaimedValue,
	}
	for _, v := range toEncode {
		if err := enc.Encode(v); err != nil {
			return enc.BytesWritten(), err
		}
	}
	return enc.BytesWritten(), nil
}

// ReadFrom reads binary representation of OpeningProof from r
func (proof *OpeningProof) ReadFrom(r io.Reader) (int64, error) {
	dec := curve.NewDecoder(r)
	toDecode := []interface{}{
		&proof.H,
		&proof.ClaimedValue,
	}
	for _, v := range toDecode {
		if err := dec.Decode(v); err != nil {
			return dec.BytesRead(), err
		}
	}
	return dec.BytesRead(), nil
}

// WriteTo writes binary encoding of BatchOpeningProof
func (proof *BatchOpeningProof) WriteTo(w io.Writer) (int64, error) {
	enc := curve.NewEncoder(w)
	if err := enc.Encode(&proof.H); err != nil {
		return enc.BytesWritten(), err
	}
	if err := enc.Encode(proof.ClaimedValues); err != nil {
		return enc.BytesWritten(), err
	}
	return enc.BytesWritten(), nil
}

// ReadFrom reads binary representation of BatchOpeningProof from r
func (proof *BatchOpeningProof) ReadFrom(r io.Reader) (int64, error) {
	dec := curve.NewDecoder(r)
	if err := dec.Decode(&proof.H); err != nil {
		return dec.BytesRead(), err
	}
	if err := dec.Decode(&proof.ClaimedValues); err != nil {
		return dec.BytesRead(), err
	}
	return dec.BytesRead(), nil
}
