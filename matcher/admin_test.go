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

func TestSetAdminTransfers(t *testing.T) {
	h := setupTestMatcher(t)

	require.NoError(t, h.m.SetAdmin(testAdmin, "admin2"))

	// The old admin no longer holds the role
	err := h.m.Pause(testAdmin)
	assert.ErrorIs(t, err, matcher.ErrNotAdmin)
	require.NoError(t, h.m.Pause("admin2"))

	totals, err := h.m.Totals()
	require.NoError(t, err)
	assert.Equal(t, "admin2", totals.Admin)
	assert.True(t, totals.Paused)
}

func TestSetAdminNotAdmin(t *testing.T) {
	h := setupTestMatcher(t)

	err := h.m.SetAdmin("user1", "user1")
	assert.ErrorIs(t, err, matcher.ErrNotAdmin)
}

func TestSetAdminEmpty(t *testing.T) {
	h := setupTestMatcher(t)

	err := h.m.SetAdmin(testAdmin, "")
	assert.ErrorIs(t, err, matcher.ErrInvalidParameter)
}

func TestPauseBlocksOnlyMatchCreation(t *testing.T) {
	h := setupTestMatcher(t)
	matchId := createTestMatch(t, h)

	require.NoError(t, h.m.Pause(testAdmin))

	_, err := h.m.CreateMatch(
		"user1", "flight-2", "greenco", "park-1", 100, "",
	)
	assert.ErrorIs(t, err, matcher.ErrContractPaused)

	// Disputes, governance and retirement remain available while paused
	require.NoError(t, h.m.OpenDispute("user1", matchId, "reason"))
	require.NoError(t, h.m.ResolveDispute(testAdmin, matchId, "ok", true))
	_, err = h.m.CreateProposal(
		"proposer", "fee change", matcher.ParamMatchingFee, 5,
	)
	require.NoError(t, err)
	require.NoError(t, h.m.RetireMatch("user1", matchId))
}

func TestSetCollaborator(t *testing.T) {
	h := setupTestMatcher(t)

	for kind, addr := range map[string]string{
		models.CollaboratorFlightSource:  "http://flights.local",
		models.CollaboratorProjectSource: "http://projects.local",
		models.CollaboratorCreditLedger:  "http://credits.local",
		models.CollaboratorProofIssuer:   "http://proofs.local",
		models.CollaboratorStakeOracle:   "http://stake.local",
	} {
		require.NoError(t, h.m.SetCollaborator(testAdmin, kind, addr))
	}

	totals, err := h.m.Totals()
	require.NoError(t, err)
	assert.Equal(t, "http://flights.local", totals.FlightSourceAddress)
	assert.Equal(t, "http://projects.local", totals.ProjectSourceAddress)
	assert.Equal(t, "http://credits.local", totals.CreditLedgerAddress)
	assert.Equal(t, "http://proofs.local", totals.ProofIssuerAddress)
	assert.Equal(t, "http://stake.local", totals.StakeOracleAddress)
}

func TestSetCollaboratorUnknownKind(t *testing.T) {
	h := setupTestMatcher(t)

	err := h.m.SetCollaborator(testAdmin, "weather-source", "http://x")
	assert.ErrorIs(t, err, matcher.ErrInvalidParameter)
}

func TestSetCollaboratorNotAdmin(t *testing.T) {
	h := setupTestMatcher(t)

	err := h.m.SetCollaborator(
		"user1",
		models.CollaboratorFlightSource,
		"http://x",
	)
	assert.ErrorIs(t, err, matcher.ErrNotAdmin)
}

func TestAddMatchCollaborator(t *testing.T) {
	h := setupTestMatcher(t)
	matchId := createTestMatch(t, h)

	require.NoError(t, h.m.AddMatchCollaborator(
		"user1",
		matchId,
		"auditor-1",
		"auditor",
		[]string{"read", "comment"},
	))

	collabs, err := h.m.MatchCollaborators(matchId)
	require.NoError(t, err)
	require.Len(t, collabs, 1)
	assert.Equal(t, "auditor-1", collabs[0].Collaborator)
	assert.Equal(t, "auditor", collabs[0].Role)
	assert.Equal(t, "read,comment", collabs[0].Permissions)
	assert.Equal(t, uint64(100), collabs[0].AddedAtHeight)
}

func TestAddMatchCollaboratorNotOwner(t *testing.T) {
	h := setupTestMatcher(t)
	matchId := createTestMatch(t, h)

	err := h.m.AddMatchCollaborator(
		"greenco", matchId, "auditor-1", "auditor", nil,
	)
	assert.ErrorIs(t, err, matcher.ErrUnauthorized)
}

func TestAddMatchCollaboratorTooManyPermissions(t *testing.T) {
	h := setupTestMatcher(t)
	matchId := createTestMatch(t, h)

	err := h.m.AddMatchCollaborator(
		"user1",
		matchId,
		"auditor-1",
		"auditor",
		[]string{"a", "b", "c", "d", "e", "f"},
	)
	assert.ErrorIs(t, err, matcher.ErrInvalidParameter)
}
