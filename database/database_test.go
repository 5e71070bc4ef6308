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

package database_test

import (
	"errors"
	"testing"

	"github.com/greenmatch-io/greenmatch/database"
	"github.com/greenmatch-io/greenmatch/database/models"
	_ "github.com/greenmatch-io/greenmatch/database/plugin/blob/badger"
	"github.com/greenmatch-io/greenmatch/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDatabase(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.New(database.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close() //nolint:errcheck
	})
	return db
}

func TestTransactionAtomicity(t *testing.T) {
	db := setupTestDatabase(t)

	boom := errors.New("boom")
	err := db.Transaction(true).Do(func(txn *database.Txn) error {
		if err := db.SetMatch(&models.Match{
			MatchID:       1,
			FlightOwner:   "alice",
			FlightID:      "fl-1",
			ProjectOwner:  "greenco",
			ProjectID:     "park-1",
			MatchedAmount: 100,
			ProofID:       "proof-1",
			ContentHash:   []byte("hash"),
			Status:        models.MatchStatusActive,
		}, txn); err != nil {
			return err
		}
		if err := db.SetProofReceipt(&database.ProofReceipt{
			MatchID:     1,
			Amount:      100,
			ContentHash: []byte("hash"),
			ProofID:     "proof-1",
			Recipient:   "alice",
		}, txn); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// Neither store saw the writes
	_, err = db.GetMatch(1, nil)
	assert.ErrorIs(t, err, models.ErrMatchNotFound)
	_, err = db.GetProofReceipt([]byte("hash"), nil)
	assert.ErrorIs(t, err, types.ErrBlobKeyNotFound)
}

func TestTransactionCommitBothStores(t *testing.T) {
	db := setupTestDatabase(t)

	err := db.Transaction(true).Do(func(txn *database.Txn) error {
		if err := db.SetMatch(&models.Match{
			MatchID:       2,
			FlightOwner:   "bob",
			FlightID:      "fl-2",
			ProjectOwner:  "greenco",
			ProjectID:     "park-2",
			MatchedAmount: 250,
			ProofID:       "proof-2",
			ContentHash:   []byte("hash-2"),
			Status:        models.MatchStatusActive,
		}, txn); err != nil {
			return err
		}
		return db.SetProofReceipt(&database.ProofReceipt{
			MatchID:     2,
			Amount:      250,
			ContentHash: []byte("hash-2"),
			ProofID:     "proof-2",
			Recipient:   "bob",
		}, txn)
	})
	require.NoError(t, err)

	match, err := db.GetMatch(2, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(250), match.MatchedAmount)

	receipt, err := db.GetProofReceipt([]byte("hash-2"), nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), receipt.MatchID)
	assert.Equal(t, "bob", receipt.Recipient)
	assert.Equal(t, "proof-2", receipt.ProofID)

	// Both stores carry the same commit timestamp
	metadataTs, err := db.Metadata().GetCommitTimestamp()
	require.NoError(t, err)
	blobTs, err := db.Blob().GetCommitTimestamp()
	require.NoError(t, err)
	assert.Equal(t, metadataTs, blobTs)
	assert.Positive(t, metadataTs)
}

func TestReleaseIsIdempotent(t *testing.T) {
	db := setupTestDatabase(t)

	txn := db.Transaction(false)
	txn.Release()
	// A second release is a no-op
	txn.Release()
	require.NoError(t, txn.Rollback())
}
