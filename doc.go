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

// Package plonk provides a PLONK zero-knowledge proving system over BN254
// with KZG polynomial commitments.
//
// A circuit front-end lowers its circuits to the gate/wire form of the
// constraint package; the plonk package then offers the three library calls
// of the protocol lifecycle:
//
//   - plonk.Setup derives the proving and verifying keys of a circuit from a
//     structured reference string (kzg.NewSRS or kzg.GenerateSRS)
//   - plonk.Prove produces a proof from a full witness
//   - plonk.Verify checks a proof against the public inputs
//
// The supporting packages (fft, polynomial, kzg, fiatshamir) are usable on
// their own.
package plonk
