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
	"testing"

	"github.com/greenmatch-io/greenmatch/database/models"
	"github.com/greenmatch-io/greenmatch/matcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestMatch(t *testing.T, h *testHarness) uint64 {
	t.Helper()
	matchId, err := h.m.CreateMatch(
		"user1", "flight-1", "greenco", "park-1", 500, "",
	)
	require.NoError(t, err)
	return matchId
}

func TestDisputeLifecycleRestore(t *testing.T) {
	h := setupTestMatcher(t)
	matchId := createTestMatch(t, h)

	// The project owner may also dispute
	require.NoError(t, h.m.OpenDispute("greenco", matchId, "sensor mismatch"))

	match, err := h.m.Match(matchId)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusDisputed, match.Status)

	dispute, err := h.m.Dispute(matchId)
	require.NoError(t, err)
	assert.Equal(t, "greenco", dispute.Disputant)
	assert.False(t, dispute.Resolved)

	require.NoError(
		t,
		h.m.ResolveDispute(testAdmin, matchId, "records corrected", true),
	)
	match, err = h.m.Match(matchId)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusActive, match.Status)

	dispute, err = h.m.Dispute(matchId)
	require.NoError(t, err)
	assert.True(t, dispute.Resolved)
	require.NotNil(t, dispute.Resolution)
	assert.Equal(t, "records corrected", *dispute.Resolution)

	// Resolution is permanent
	err = h.m.ResolveDispute(testAdmin, matchId, "again", false)
	assert.ErrorIs(t, err, matcher.ErrAlreadyProcessed)
}

func TestDisputeResolveRetires(t *testing.T) {
	h := setupTestMatcher(t)
	matchId := createTestMatch(t, h)

	require.NoError(t, h.m.OpenDispute("user1", matchId, "wrong project"))
	require.NoError(
		t,
		h.m.ResolveDispute(testAdmin, matchId, "claim upheld", false),
	)

	match, err := h.m.Match(matchId)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusRetired, match.Status)
}

func TestOpenDisputeUnauthorized(t *testing.T) {
	h := setupTestMatcher(t)
	matchId := createTestMatch(t, h)

	err := h.m.OpenDispute("stranger", matchId, "nope")
	assert.ErrorIs(t, err, matcher.ErrUnauthorized)
}

func TestOpenDisputeTwice(t *testing.T) {
	h := setupTestMatcher(t)
	matchId := createTestMatch(t, h)

	require.NoError(t, h.m.OpenDispute("user1", matchId, "first"))
	err := h.m.OpenDispute("greenco", matchId, "second")
	assert.ErrorIs(t, err, matcher.ErrAlreadyProcessed)
}

func TestOpenDisputeAfterResolution(t *testing.T) {
	h := setupTestMatcher(t)
	matchId := createTestMatch(t, h)

	require.NoError(t, h.m.OpenDispute("user1", matchId, "first"))
	require.NoError(t, h.m.ResolveDispute(testAdmin, matchId, "fixed", true))

	// One dispute per match, ever
	err := h.m.OpenDispute("user1", matchId, "second")
	assert.ErrorIs(t, err, matcher.ErrAlreadyProcessed)
}

func TestOpenDisputeOnRetiredMatch(t *testing.T) {
	h := setupTestMatcher(t)
	matchId := createTestMatch(t, h)

	require.NoError(t, h.m.RetireMatch("user1", matchId))
	err := h.m.OpenDispute("user1", matchId, "too late")
	assert.ErrorIs(t, err, matcher.ErrAlreadyProcessed)
}

func TestResolveDisputeNotAdmin(t *testing.T) {
	h := setupTestMatcher(t)
	matchId := createTestMatch(t, h)

	require.NoError(t, h.m.OpenDispute("user1", matchId, "reason"))
	err := h.m.ResolveDispute("user1", matchId, "self-serve", true)
	assert.ErrorIs(t, err, matcher.ErrNotAdmin)
}

func TestOpenDisputesQuery(t *testing.T) {
	h := setupTestMatcher(t)
	matchId := createTestMatch(t, h)

	require.NoError(t, h.m.OpenDispute("user1", matchId, "reason"))
	open, err := h.m.OpenDisputes()
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, matchId, open[0].MatchID)

	require.NoError(t, h.m.ResolveDispute(testAdmin, matchId, "done", true))
	open, err = h.m.OpenDisputes()
	require.NoError(t, err)
	assert.Empty(t, open)
}
