// Copyright 2026 GreenMatch Labs
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

package sqlite

import (
	"testing"

	"github.com/greenmatch-io/greenmatch/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProposalRoundTrip(t *testing.T) {
	store := setupTestStore(t)

	err := store.SetProposal(&models.Proposal{
		ProposalID:  1,
		Proposer:    "alice",
		Description: "raise matching fee",
		TargetParam: "matching-fee",
		TargetValue: 5,
		StartHeight: 100,
		EndHeight:   1540,
	}, nil)
	require.NoError(t, err)

	proposal, err := store.GetProposal(1, nil)
	require.NoError(t, err)
	assert.Equal(t, "alice", proposal.Proposer)
	assert.Equal(t, uint64(1540), proposal.EndHeight)
	assert.False(t, proposal.Executed)

	_, err = store.GetProposal(99, nil)
	assert.ErrorIs(t, err, models.ErrProposalNotFound)
}

func TestProposalTallyUpdate(t *testing.T) {
	store := setupTestStore(t)

	proposal := &models.Proposal{
		ProposalID:  2,
		Proposer:    "bob",
		Description: "lower matching fee",
		TargetParam: "matching-fee",
		TargetValue: 1,
		StartHeight: 100,
		EndHeight:   1540,
	}
	require.NoError(t, store.SetProposal(proposal, nil))

	// Update tallies through the upsert path
	proposal.YesWeight = 60
	proposal.NoWeight = 40
	proposal.Executed = true
	require.NoError(t, store.SetProposal(proposal, nil))

	stored, err := store.GetProposal(2, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(60), stored.YesWeight)
	assert.Equal(t, uint64(40), stored.NoWeight)
	assert.True(t, stored.Executed)
	// Immutable fields survive the upsert
	assert.Equal(t, "bob", stored.Proposer)
}

func TestGetOpenProposals(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.SetProposal(&models.Proposal{
		ProposalID:  3,
		Proposer:    "alice",
		Description: "a",
		TargetParam: "matching-fee",
		StartHeight: 0,
		EndHeight:   500,
	}, nil))
	require.NoError(t, store.SetProposal(&models.Proposal{
		ProposalID:  4,
		Proposer:    "alice",
		Description: "b",
		TargetParam: "matching-fee",
		StartHeight: 0,
		EndHeight:   2000,
	}, nil))

	open, err := store.GetOpenProposals(1000, nil)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, uint64(4), open[0].ProposalID)
}

func TestVoteUniqueness(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.SetVote(&models.Vote{
		ProposalID: 5,
		Voter:      "carol",
		Choice:     true,
		Weight:     10,
	}, nil))

	// Second vote by the same voter on the same proposal must fail
	err := store.SetVote(&models.Vote{
		ProposalID: 5,
		Voter:      "carol",
		Choice:     false,
		Weight:     20,
	}, nil)
	require.Error(t, err)

	// Same voter on another proposal is fine
	require.NoError(t, store.SetVote(&models.Vote{
		ProposalID: 6,
		Voter:      "carol",
		Choice:     false,
		Weight:     20,
	}, nil))

	vote, err := store.GetVote(5, "carol", nil)
	require.NoError(t, err)
	assert.True(t, vote.Choice)
	assert.Equal(t, uint64(10), vote.Weight)

	_, err = store.GetVote(5, "nobody", nil)
	assert.ErrorIs(t, err, models.ErrVoteNotFound)

	votes, err := store.GetVotesByProposal(5, nil)
	require.NoError(t, err)
	assert.Len(t, votes, 1)
}
