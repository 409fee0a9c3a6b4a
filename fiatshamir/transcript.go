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

// Package fiatshamir removes interactivity from the protocol: challenges are
// derived by hashing the transcript of all prior messages.
//
// A Transcript is scoped to one proof instance and threaded explicitly through
// the rounds; concurrent proofs never share one.
package fiatshamir

import (
	"errors"
	"hash"
)

var (
	ErrChallengeNotFound            = errors.New("fiatshamir: challenge not registered in the transcript")
	ErrChallengeAlreadyComputed     = errors.New("fiatshamir: challenge already computed, cannot bind more data")
	ErrPreviousChallengeNotComputed = errors.New("fiatshamir: previous challenge must be computed first")
)

// Transcript handles the creation of challenges for Fiat Shamir.
// The challenges are registered at creation time, in order, and each one binds
// the value of the previous challenge plus the data bound to it.
type Transcript struct {
	h hash.Hash

	challengeOrder []string
	challenges     map[string]*challenge
}

type challenge struct {
	position   int
	bindings   [][]byte
	value      []byte
	isComputed bool
}

// NewTranscript returns a new transcript.
// h is the hash function that is used to compute the challenges.
// challengesID is the list of challenges, in the order they will be computed.
func NewTranscript(h hash.Hash, challengesID ...string) Transcript {
	t := Transcript{
		h:              h,
		challengeOrder: challengesID,
		challenges:     make(map[string]*challenge, len(challengesID)),
	}
	for i, id := range challengesID {
		t.challenges[id] = &challenge{position: i}
	}
	return t
}

// Bind binds the bValue to the challenge corresponding to challengeID. A
// challenge can bind several values before it is computed, but no value can
// be bound once the challenge is computed.
func (t *Transcript) Bind(challengeID string, bValue []byte) error {
	c, ok := t.challenges[challengeID]
	if !ok {
		return ErrChallengeNotFound
	}
	if c.isComputed {
		return ErrChallengeAlreadyComputed
	}
	b := make([]byte, len(bValue))
	copy(b, bValue)
	c.bindings = append(c.bindings, b)
	return nil
}

// ComputeChallenge computes the challenge corresponding to the given id.
// The challenge is:
//
//	h(id ∥ previousChallenge ∥ bindings...)
//
// Challenges must be computed in the order they were registered. A challenge
// is computed at most once; further calls return the recorded value.
func (t *Transcript) ComputeChallenge(challengeID string) ([]byte, error) {
	c, ok := t.challenges[challengeID]
	if !ok {
		return nil, ErrChallengeNotFound
	}
	if c.isComputed {
		res := make([]byte, len(c.value))
		copy(res, c.value)
		return res, nil
	}
	if c.position > 0 {
		prev := t.challenges[t.challengeOrder[c.position-1]]
		if !prev.isComputed {
			return nil, ErrPreviousChallengeNotComputed
		}
	}

	t.h.Reset()
	defer t.h.Reset()

	if _, err := t.h.Write([]byte(challengeID)); err != nil {
		return nil, err
	}
	if c.position > 0 {
		prev := t.challenges[t.challengeOrder[c.position-1]]
		if _, err := t.h.Write(prev.value); err != nil {
			return nil, err
		}
	}
	for _, b := range c.bindings {
		if _, err := t.h.Write(b); err != nil {
			return nil, err
		}
	}

	c.value = t.h.Sum(nil)
	c.isComputed = true
	c.bindings = nil

	res := make([]byte, len(c.value))
	copy(res, c.value)
	return res, nil
}
