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

package fiatshamir

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTranscriptDeterministic(t *testing.T) {
	assert := require.New(t)

	run := func() []byte {
		fs := NewTranscript(sha256.New(), "gamma", "beta")
		assert.NoError(fs.Bind("gamma", []byte("commitment")))
		g, err := fs.ComputeChallenge("gamma")
		assert.NoError(err)
		return g
	}

	assert.Equal(run(), run(), "same transcript must give the same challenge")
}

func TestTranscriptBindingChangesChallenge(t *testing.T) {
	assert := require.New(t)

	fs1 := NewTranscript(sha256.New(), "gamma")
	assert.NoError(fs1.Bind("gamma", []byte{0xaa}))
	c1, err := fs1.ComputeChallenge("gamma")
	assert.NoError(err)

	fs2 := NewTranscript(sha256.New(), "gamma")
	assert.NoError(fs2.Bind("gamma", []byte{0xab}))
	c2, err := fs2.ComputeChallenge("gamma")
	assert.NoError(err)

	assert.NotEqual(c1, c2)
}

func TestTranscriptChaining(t *testing.T) {
	assert := require.New(t)

	// beta depends on gamma even with no bindings of its own
	fs1 := NewTranscript(sha256.New(), "gamma", "beta")
	assert.NoError(fs1.Bind("gamma", []byte{0x01}))
	_, err := fs1.ComputeChallenge("gamma")
	assert.NoError(err)
	b1, err := fs1.ComputeChallenge("beta")
	assert.NoError(err)

	fs2 := NewTranscript(sha256.New(), "gamma", "beta")
	assert.NoError(fs2.Bind("gamma", []byte{0x02}))
	_, err = fs2.ComputeChallenge("gamma")
	assert.NoError(err)
	b2, err := fs2.ComputeChallenge("beta")
	assert.NoError(err)

	assert.NotEqual(b1, b2)
}

func TestTranscriptOrdering(t *testing.T) {
	assert := require.New(t)

	fs := NewTranscript(sha256.New(), "gamma", "beta")
	_, err := fs.ComputeChallenge("beta")
	assert.ErrorIs(err, ErrPreviousChallengeNotComputed)

	_, err = fs.ComputeChallenge("gamma")
	assert.NoError(err)
	_, err = fs.ComputeChallenge("beta")
	assert.NoError(err)
}

func TestTranscriptUnknownChallenge(t *testing.T) {
	assert := require.New(t)

	fs := NewTranscript(sha256.New(), "gamma")
	assert.ErrorIs(fs.Bind("delta", []byte{0x01}), ErrChallengeNotFound)
	_, err := fs.ComputeChallenge("delta")
	assert.ErrorIs(err, ErrChallengeNotFound)
}

func TestTranscriptBindAfterCompute(t *testing.T) {
	assert := require.New(t)

	fs := NewTranscript(sha256.New(), "gamma")
	assert.NoError(fs.Bind("gamma", []byte{0x01}))
	c1, err := fs.ComputeChallenge("gamma")
	assert.NoError(err)

	assert.ErrorIs(fs.Bind("gamma", []byte{0x02}), ErrChallengeAlreadyComputed)

	// recomputing returns the recorded value
	c2, err := fs.ComputeChallenge("gamma")
	assert.NoError(err)
	assert.Equal(c1, c2)
}
