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

func TestDisputeLifecycle(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetDispute(1, nil)
	assert.ErrorIs(t, err, models.ErrDisputeNotFound)

	require.NoError(t, store.SetDispute(&models.Dispute{
		MatchID:   1,
		Disputant: "greenco",
		Reason:    "sensor data mismatch",
	}, nil))

	open, err := store.GetOpenDisputes(nil)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, uint64(1), open[0].MatchID)

	// Resolve through the upsert path
	resolution := "restored after audit"
	require.NoError(t, store.SetDispute(&models.Dispute{
		MatchID:    1,
		Disputant:  "greenco",
		Reason:     "sensor data mismatch",
		Resolved:   true,
		Resolution: &resolution,
	}, nil))

	dispute, err := store.GetDispute(1, nil)
	require.NoError(t, err)
	assert.True(t, dispute.Resolved)
	require.NotNil(t, dispute.Resolution)
	assert.Equal(t, resolution, *dispute.Resolution)

	open, err = store.GetOpenDisputes(nil)
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestEngineStateRoundTrip(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetEngineState(nil)
	assert.ErrorIs(t, err, models.ErrEngineStateNotFound)

	require.NoError(t, store.SetEngineState(&models.EngineState{
		Admin:               "admin-1",
		FlightSourceAddress: "http://flights.local",
		MatchCounter:        3,
		ProposalCounter:     1,
		TotalMatched:        1500,
		MatchingFee:         2,
	}, nil))

	state, err := store.GetEngineState(nil)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", state.Admin)
	assert.Equal(t, uint64(3), state.MatchCounter)

	// Updates overwrite the singleton row
	state.Paused = true
	state.MatchCounter = 4
	require.NoError(t, store.SetEngineState(state, nil))

	state, err = store.GetEngineState(nil)
	require.NoError(t, err)
	assert.True(t, state.Paused)
	assert.Equal(t, uint64(4), state.MatchCounter)
}

func TestMatchCollaborators(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.SetMatchCollaborator(&models.MatchCollaborator{
		MatchID:       7,
		Collaborator:  "auditor-1",
		Role:          "auditor",
		Permissions:   "read,annotate",
		AddedAtHeight: 100,
	}, nil))

	// Re-adding refreshes role and tags instead of duplicating
	require.NoError(t, store.SetMatchCollaborator(&models.MatchCollaborator{
		MatchID:       7,
		Collaborator:  "auditor-1",
		Role:          "lead-auditor",
		Permissions:   "read,annotate,resolve",
		AddedAtHeight: 200,
	}, nil))

	collaborators, err := store.GetMatchCollaborators(7, nil)
	require.NoError(t, err)
	require.Len(t, collaborators, 1)
	assert.Equal(t, "lead-auditor", collaborators[0].Role)
	assert.Equal(t, uint64(200), collaborators[0].AddedAtHeight)
}
