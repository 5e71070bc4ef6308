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

package matcher_test

import (
	"errors"
	"testing"

	"github.com/greenmatch-io/greenmatch/matcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createFeeProposal(
	t *testing.T,
	h *testHarness,
	value uint64,
) uint64 {
	t.Helper()
	proposalId, err := h.m.CreateProposal(
		"proposer", "adjust the matching fee", matcher.ParamMatchingFee, value,
	)
	require.NoError(t, err)
	return proposalId
}

func TestFeeGovernanceEndToEnd(t *testing.T) {
	h := setupTestMatcher(t)

	proposalId := createFeeProposal(t, h, 5)
	assert.Equal(t, uint64(1), proposalId)

	// 60% yes of 100 total passes at quorum 51
	require.NoError(t, h.m.Vote("alice", proposalId, true, 60))
	require.NoError(t, h.m.Vote("bob", proposalId, false, 40))

	h.height.height += matcher.DefaultProposalDuration
	require.NoError(t, h.m.ExecuteProposal("anyone", proposalId))

	totals, err := h.m.Totals()
	require.NoError(t, err)
	assert.Equal(t, uint64(5), totals.MatchingFee)

	proposal, err := h.m.Proposal(proposalId)
	require.NoError(t, err)
	assert.True(t, proposal.Executed)
	assert.Equal(t, uint64(60), proposal.YesWeight)
	assert.Equal(t, uint64(40), proposal.NoWeight)
}

func TestQuorumNotMet(t *testing.T) {
	h := setupTestMatcher(t)
	proposalId := createFeeProposal(t, h, 5)

	require.NoError(t, h.m.Vote("alice", proposalId, true, 40))
	require.NoError(t, h.m.Vote("bob", proposalId, false, 60))

	h.height.height += matcher.DefaultProposalDuration
	err := h.m.ExecuteProposal("anyone", proposalId)
	assert.ErrorIs(t, err, matcher.ErrGovernanceQuorumNotMet)

	proposal, err := h.m.Proposal(proposalId)
	require.NoError(t, err)
	assert.False(t, proposal.Executed)
}

func TestQuorumNoVotes(t *testing.T) {
	h := setupTestMatcher(t)
	proposalId := createFeeProposal(t, h, 5)

	h.height.height += matcher.DefaultProposalDuration
	err := h.m.ExecuteProposal("anyone", proposalId)
	assert.ErrorIs(t, err, matcher.ErrGovernanceQuorumNotMet)
}

func TestVoteOutsideWindow(t *testing.T) {
	h := setupTestMatcher(t)
	proposalId := createFeeProposal(t, h, 5)

	// Voting at exactly the end height is already outside the window
	h.height.height += matcher.DefaultProposalDuration
	err := h.m.Vote("alice", proposalId, true, 10)
	assert.ErrorIs(t, err, matcher.ErrProposalWindowExpired)
}

func TestVoteTwice(t *testing.T) {
	h := setupTestMatcher(t)
	proposalId := createFeeProposal(t, h, 5)

	require.NoError(t, h.m.Vote("alice", proposalId, true, 10))
	err := h.m.Vote("alice", proposalId, false, 10)
	assert.ErrorIs(t, err, matcher.ErrAlreadyProcessed)

	// Tally reflects only the first vote
	proposal, err := h.m.Proposal(proposalId)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), proposal.YesWeight)
	assert.Equal(t, uint64(0), proposal.NoWeight)
}

func TestVoteZeroWeight(t *testing.T) {
	h := setupTestMatcher(t)
	proposalId := createFeeProposal(t, h, 5)

	err := h.m.Vote("alice", proposalId, true, 0)
	assert.ErrorIs(t, err, matcher.ErrInvalidVote)
}

func TestStakeOracleOverridesWeight(t *testing.T) {
	var stake *mockStakeOracle
	h := setupTestMatcher(t, func(cfg *matcher.Config) {
		stake = &mockStakeOracle{weight: 75}
		cfg.StakeOracle = stake
	})
	proposalId := createFeeProposal(t, h, 5)

	// Caller-supplied weight is ignored in favor of the oracle's
	require.NoError(t, h.m.Vote("alice", proposalId, true, 9999))
	vote, err := h.m.VoteOf(proposalId, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(75), vote.Weight)

	// A voter with no stake cannot vote at all
	stake.weight = 0
	err = h.m.Vote("bob", proposalId, true, 50)
	assert.ErrorIs(t, err, matcher.ErrInvalidVote)

	stake.err = errors.New("oracle offline")
	err = h.m.Vote("carol", proposalId, true, 50)
	assert.ErrorIs(t, err, matcher.ErrInvalidVote)
}

func TestExecuteBeforeWindowCloses(t *testing.T) {
	h := setupTestMatcher(t)
	proposalId := createFeeProposal(t, h, 5)

	require.NoError(t, h.m.Vote("alice", proposalId, true, 100))
	err := h.m.ExecuteProposal("anyone", proposalId)
	assert.ErrorIs(t, err, matcher.ErrProposalWindowExpired)
}

func TestExecuteTwice(t *testing.T) {
	h := setupTestMatcher(t)
	proposalId := createFeeProposal(t, h, 5)

	require.NoError(t, h.m.Vote("alice", proposalId, true, 100))
	h.height.height += matcher.DefaultProposalDuration
	require.NoError(t, h.m.ExecuteProposal("anyone", proposalId))
	err := h.m.ExecuteProposal("anyone", proposalId)
	assert.ErrorIs(t, err, matcher.ErrAlreadyProcessed)
}

func TestExecuteUnrecognizedTarget(t *testing.T) {
	h := setupTestMatcher(t)

	proposalId, err := h.m.CreateProposal(
		"proposer", "change something else", "block-reward", 10,
	)
	require.NoError(t, err)
	require.NoError(t, h.m.Vote("alice", proposalId, true, 100))

	// Quorum is met, but the target name is still rejected
	h.height.height += matcher.DefaultProposalDuration
	err = h.m.ExecuteProposal("anyone", proposalId)
	assert.ErrorIs(t, err, matcher.ErrInvalidParameter)
}

func TestExecuteFeeTooHigh(t *testing.T) {
	h := setupTestMatcher(t)
	proposalId := createFeeProposal(t, h, 101)

	require.NoError(t, h.m.Vote("alice", proposalId, true, 100))
	h.height.height += matcher.DefaultProposalDuration
	err := h.m.ExecuteProposal("anyone", proposalId)
	assert.ErrorIs(t, err, matcher.ErrInvalidParameter)
}

func TestCreateProposalEmptyDescription(t *testing.T) {
	h := setupTestMatcher(t)

	_, err := h.m.CreateProposal(
		"proposer", "", matcher.ParamMatchingFee, 5,
	)
	assert.ErrorIs(t, err, matcher.ErrInvalidParameter)
}

func TestCountersIndependent(t *testing.T) {
	h := setupTestMatcher(t)

	matchId, err := h.m.CreateMatch(
		"user1", "flight-1", "greenco", "park-1", 100, "",
	)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), matchId)

	// Proposal ids do not share the match counter
	proposalId := createFeeProposal(t, h, 5)
	assert.Equal(t, uint64(1), proposalId)

	proposalId2 := createFeeProposal(t, h, 7)
	assert.Equal(t, uint64(2), proposalId2)
}

func TestOpenProposalsQuery(t *testing.T) {
	h := setupTestMatcher(t)
	proposalId := createFeeProposal(t, h, 5)

	open, err := h.m.OpenProposals()
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, proposalId, open[0].ProposalID)

	h.height.height += matcher.DefaultProposalDuration
	open, err = h.m.OpenProposals()
	require.NoError(t, err)
	assert.Empty(t, open)
}
