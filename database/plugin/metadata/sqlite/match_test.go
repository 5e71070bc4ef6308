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

func TestMatchRoundTrip(t *testing.T) {
	store := setupTestStore(t)

	err := store.SetMatch(&models.Match{
		MatchID:         1,
		FlightOwner:     "alice",
		FlightID:        "fl-100",
		ProjectOwner:    "greenco",
		ProjectID:       "park-7",
		MatchedAmount:   500,
		ProofID:         "proof-1",
		ContentHash:     []byte("hash1234567890123456789012345678"),
		CreatedAtHeight: 42,
		Metadata:        "quarterly offset",
		Status:          models.MatchStatusActive,
	}, nil)
	require.NoError(t, err)

	match, err := store.GetMatch(1, nil)
	require.NoError(t, err)
	assert.Equal(t, "alice", match.FlightOwner)
	assert.Equal(t, uint64(500), match.MatchedAmount)
	assert.Equal(t, models.MatchStatusActive, match.Status)

	byFlight, err := store.GetMatchByFlight("alice", "fl-100", nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), byFlight.MatchID)

	_, err = store.GetMatch(99, nil)
	assert.ErrorIs(t, err, models.ErrMatchNotFound)

	_, err = store.GetMatchByFlight("alice", "fl-999", nil)
	assert.ErrorIs(t, err, models.ErrMatchNotFound)
}

func TestMatchFlightUniqueness(t *testing.T) {
	store := setupTestStore(t)

	base := models.Match{
		FlightOwner:   "bob",
		FlightID:      "fl-200",
		ProjectOwner:  "greenco",
		ProjectID:     "park-7",
		MatchedAmount: 100,
		ProofID:       "proof-2",
		ContentHash:   []byte("hash"),
		Status:        models.MatchStatusActive,
	}
	first := base
	first.MatchID = 10
	require.NoError(t, store.SetMatch(&first, nil))

	// Same flight, different match id must violate the unique index
	second := base
	second.MatchID = 11
	err := store.SetMatch(&second, nil)
	require.Error(t, err)
}

func TestSetMatchStatus(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.SetMatch(&models.Match{
		MatchID:       20,
		FlightOwner:   "carol",
		FlightID:      "fl-300",
		ProjectOwner:  "greenco",
		ProjectID:     "park-9",
		MatchedAmount: 250,
		ProofID:       "proof-3",
		ContentHash:   []byte("hash"),
		Status:        models.MatchStatusActive,
	}, nil))

	require.NoError(
		t,
		store.SetMatchStatus(20, models.MatchStatusRetired, nil),
	)
	match, err := store.GetMatch(20, nil)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusRetired, match.Status)

	// Unknown match
	err = store.SetMatchStatus(999, models.MatchStatusRetired, nil)
	assert.ErrorIs(t, err, models.ErrMatchNotFound)
}

func TestProjectUsageAccumulates(t *testing.T) {
	store := setupTestStore(t)

	// No usage yet
	usage, err := store.GetProjectUsage("greenco", "park-1", nil)
	require.NoError(t, err)
	assert.Nil(t, usage)

	require.NoError(t, store.AddProjectUsage("greenco", "park-1", 300, nil))
	require.NoError(t, store.AddProjectUsage("greenco", "park-1", 200, nil))

	usage, err = store.GetProjectUsage("greenco", "park-1", nil)
	require.NoError(t, err)
	require.NotNil(t, usage)
	assert.Equal(t, uint64(500), usage.UsedCapacity)
	assert.Equal(t, uint64(500), usage.TotalMatched)

	// Separate projects accumulate independently
	require.NoError(t, store.AddProjectUsage("greenco", "park-2", 50, nil))
	usage, err = store.GetProjectUsage("greenco", "park-2", nil)
	require.NoError(t, err)
	require.NotNil(t, usage)
	assert.Equal(t, uint64(50), usage.UsedCapacity)
}
