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

	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *MetadataStoreSqlite {
	t.Helper()
	store, err := New("", nil, nil)
	require.NoError(t, err)
	require.NoError(t, store.Start())
	t.Cleanup(func() {
		store.Close() //nolint:errcheck
	})
	return store
}

func TestCommitTimestamp(t *testing.T) {
	store := setupTestStore(t)

	// No timestamp recorded yet
	ts, err := store.GetCommitTimestamp()
	require.NoError(t, err)
	require.Equal(t, int64(0), ts)

	require.NoError(t, store.SetCommitTimestamp(nil, 123456))
	ts, err = store.GetCommitTimestamp()
	require.NoError(t, err)
	require.Equal(t, int64(123456), ts)

	// Overwrite
	require.NoError(t, store.SetCommitTimestamp(nil, 654321))
	ts, err = store.GetCommitTimestamp()
	require.NoError(t, err)
	require.Equal(t, int64(654321), ts)
}

func TestTransactionRollback(t *testing.T) {
	store := setupTestStore(t)

	txn := store.Transaction()
	require.NoError(t, store.SetCommitTimestamp(txn, 999))
	require.NoError(t, txn.Rollback())

	ts, err := store.GetCommitTimestamp()
	require.NoError(t, err)
	require.Equal(t, int64(0), ts)
}
