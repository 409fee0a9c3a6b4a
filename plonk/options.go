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
	"crypto/sha256"
	"hash"
)

// Option configures a Prove or Verify call. Prover and verifier must use the
// same options or the transcript diverges and verification fails.
type Option func(*config) error

type config struct {
	challengeHash  hash.Hash
	kzgFoldingHash hash.Hash
}

// WithChallengeHash sets the hash used by the Fiat-Shamir transcript deriving
// the protocol challenges. Defaults to sha256.
func WithChallengeHash(h hash.Hash) Option {
	return func(c *config) error {
		c.challengeHash = h
		return nil
	}
}

// WithKZGFoldingHash sets the hash used to derive the folding challenge of
// the batched KZG opening. Defaults to sha256.
func WithKZGFoldingHash(h hash.Hash) Option {
	return func(c *config) error {
		c.kzgFoldingHash = h
		return nil
	}
}

func newConfig(opts ...Option) (*config, error) {
	c := &config{
		challengeHash:  sha256.New(),
		kzgFoldingHash: sha256.New(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}
