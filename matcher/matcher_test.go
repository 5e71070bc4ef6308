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
	"strings"
	"testing"

	"github.com/greenmatch-io/greenmatch/database/models"
	"github.com/greenmatch-io/greenmatch/matcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMatchScenario(t *testing.T) {
	h := setupTestMatcher(t)

	matchId, err := h.m.CreateMatch(
		"user1", "flight-1", "greenco", "park-1", 500, "x",
	)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), matchId)

	match, err := h.m.Match(matchId)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusActive, match.Status)
	assert.Equal(t, uint64(500), match.MatchedAmount)
	assert.Equal(t, "proof-1", match.ProofID)
	assert.Equal(t, uint64(100), match.CreatedAtHeight)

	totals, err := h.m.Totals()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), totals.MatchCounter)
	assert.Equal(t, uint64(500), totals.TotalMatched)

	// Proof receipt was written to the blob store in the same commit
	receipt, err := h.m.ProofReceipt(match.ContentHash)
	require.NoError(t, err)
	assert.Equal(t, matchId, receipt.MatchID)
	assert.Equal(t, uint64(500), receipt.Amount)
	assert.Equal(t, "user1", receipt.Recipient)

	// Collaborators were each called exactly once
	assert.Equal(t, 1, h.credit.burnCalls)
	assert.Equal(t, 1, h.project.useCalls)
	assert.Equal(t, 1, h.flight.markCalls)
	assert.Equal(t, 1, h.proof.mintCalls)

	// Same flight can never be matched again
	_, err = h.m.CreateMatch(
		"user1", "flight-1", "greenco", "park-2", 100, "",
	)
	assert.ErrorIs(t, err, matcher.ErrDoubleCounting)

	require.NoError(t, h.m.RetireMatch("user1", matchId))
	match, err = h.m.Match(matchId)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusRetired, match.Status)

	err = h.m.RetireMatch("user1", matchId)
	assert.ErrorIs(t, err, matcher.ErrAlreadyProcessed)

	// Retirement does not free the flight
	_, err = h.m.CreateMatch(
		"user1", "flight-1", "greenco", "park-1", 100, "",
	)
	assert.ErrorIs(t, err, matcher.ErrDoubleCounting)
}

func TestCreateMatchCounterMonotonic(t *testing.T) {
	h := setupTestMatcher(t)

	var total uint64
	for i, amount := range []uint64{100, 200, 300} {
		flightId := string(rune('a' + i))
		matchId, err := h.m.CreateMatch(
			"user1", flightId, "greenco", "park-1", amount, "",
		)
		require.NoError(t, err)
		assert.Equal(t, uint64(i+1), matchId) //nolint:gosec
		total += amount
	}
	totals, err := h.m.Totals()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), totals.MatchCounter)
	assert.Equal(t, total, totals.TotalMatched)

	usage, err := h.m.ProjectUsage("greenco", "park-1")
	require.NoError(t, err)
	require.NotNil(t, usage)
	assert.Equal(t, total, usage.UsedCapacity)
}

func TestCreateMatchPaused(t *testing.T) {
	h := setupTestMatcher(t)

	require.NoError(t, h.m.Pause(testAdmin))
	_, err := h.m.CreateMatch(
		"user1", "flight-1", "greenco", "park-1", 100, "",
	)
	assert.ErrorIs(t, err, matcher.ErrContractPaused)

	require.NoError(t, h.m.Unpause(testAdmin))
	_, err = h.m.CreateMatch(
		"user1", "flight-1", "greenco", "park-1", 100, "",
	)
	assert.NoError(t, err)
}

func TestCreateMatchZeroAmount(t *testing.T) {
	h := setupTestMatcher(t)

	_, err := h.m.CreateMatch(
		"user1", "flight-1", "greenco", "park-1", 0, "",
	)
	assert.ErrorIs(t, err, matcher.ErrInvalidAmount)
}

func TestCreateMatchAmountExceedsEmissions(t *testing.T) {
	h := setupTestMatcher(t)
	h.flight.emissions = 50

	_, err := h.m.CreateMatch(
		"user1", "flight-1", "greenco", "park-1", 100, "",
	)
	assert.ErrorIs(t, err, matcher.ErrInvalidAmount)
	// No burn happened
	assert.Equal(t, 0, h.credit.burnCalls)
}

func TestCreateMatchAmountExceedsCapacity(t *testing.T) {
	h := setupTestMatcher(t)
	h.project.capacity = 50

	_, err := h.m.CreateMatch(
		"user1", "flight-1", "greenco", "park-1", 100, "",
	)
	assert.ErrorIs(t, err, matcher.ErrInvalidAmount)
}

func TestCreateMatchFlightLookupFails(t *testing.T) {
	h := setupTestMatcher(t)
	h.flight.emissionsErr = errors.New("no such flight")

	_, err := h.m.CreateMatch(
		"user1", "flight-1", "greenco", "park-1", 100, "",
	)
	assert.ErrorIs(t, err, matcher.ErrInvalidFlightReference)
}

func TestCreateMatchProjectLookupFails(t *testing.T) {
	h := setupTestMatcher(t)
	h.project.capacityErr = errors.New("no such project")

	_, err := h.m.CreateMatch(
		"user1", "flight-1", "greenco", "park-1", 100, "",
	)
	assert.ErrorIs(t, err, matcher.ErrInvalidProjectReference)
}

func TestCreateMatchUnverifiedProject(t *testing.T) {
	h := setupTestMatcher(t)
	h.project.status = matcher.ProjectStatus{Active: true, Verified: false}

	_, err := h.m.CreateMatch(
		"user1", "flight-1", "greenco", "park-1", 100, "",
	)
	assert.ErrorIs(t, err, matcher.ErrProjectNotVerified)
}

func TestCreateMatchMetadataTooLong(t *testing.T) {
	h := setupTestMatcher(t)

	_, err := h.m.CreateMatch(
		"user1", "flight-1", "greenco", "park-1", 100,
		strings.Repeat("x", matcher.MaxMetadataLength+1),
	)
	assert.ErrorIs(t, err, matcher.ErrInvalidMetadata)
}

func TestCreateMatchBurnFails(t *testing.T) {
	h := setupTestMatcher(t)
	h.credit.burnErr = errors.New("balance too low")

	_, err := h.m.CreateMatch(
		"user1", "flight-1", "greenco", "park-1", 100, "",
	)
	assert.ErrorIs(t, err, matcher.ErrInsufficientCredits)

	// Atomicity: nothing was committed
	_, err = h.m.MatchByFlight("user1", "flight-1")
	assert.ErrorIs(t, err, models.ErrMatchNotFound)
	usage, err := h.m.ProjectUsage("greenco", "park-1")
	require.NoError(t, err)
	assert.Nil(t, usage)
	totals, err := h.m.Totals()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), totals.MatchCounter)
	assert.Equal(t, uint64(0), totals.TotalMatched)
}

func TestCreateMatchMintFails(t *testing.T) {
	h := setupTestMatcher(t)
	h.proof.mintErr = errors.New("issuer unavailable")

	_, err := h.m.CreateMatch(
		"user1", "flight-1", "greenco", "park-1", 100, "",
	)
	assert.ErrorIs(t, err, matcher.ErrProofIssuance)

	// Engine state is untouched even though earlier collaborator calls
	// succeeded
	totals, err := h.m.Totals()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), totals.MatchCounter)
	_, err = h.m.MatchByFlight("user1", "flight-1")
	assert.ErrorIs(t, err, models.ErrMatchNotFound)
}

func TestRetireMatchUnauthorized(t *testing.T) {
	h := setupTestMatcher(t)

	matchId, err := h.m.CreateMatch(
		"user1", "flight-1", "greenco", "park-1", 100, "",
	)
	require.NoError(t, err)

	err = h.m.RetireMatch("user2", matchId)
	assert.ErrorIs(t, err, matcher.ErrUnauthorized)
	err = h.m.RetireMatch("greenco", matchId)
	assert.ErrorIs(t, err, matcher.ErrUnauthorized)
}
