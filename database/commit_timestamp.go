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

package database

import (
	"fmt"
)

// CommitTimestampError indicates that the two stores were not committed
// together, most likely from a crash between the blob and metadata
// commits
type CommitTimestampError struct {
	MetadataTimestamp int64
	BlobTimestamp     int64
}

func (e CommitTimestampError) Error() string {
	return fmt.Sprintf(
		"commit timestamp mismatch: %d (metadata) != %d (blob)",
		e.MetadataTimestamp,
		e.BlobTimestamp,
	)
}

func (d *Database) checkCommitTimestamp() error {
	// Get value from metadata
	metadataTimestamp, metadataErr := d.Metadata().GetCommitTimestamp()
	if metadataErr != nil {
		return fmt.Errorf(
			"failed to get metadata timestamp from plugin: %w",
			metadataErr,
		)
	}
	// No timestamp in the database
	if metadataTimestamp <= 0 {
		return nil
	}
	// Get value from blob
	blobTimestamp, blobErr := d.Blob().GetCommitTimestamp()
	if blobErr != nil {
		return fmt.Errorf(
			"failed to get blob timestamp from plugin: %w",
			blobErr,
		)
	}
	// Compare values
	if blobTimestamp != metadataTimestamp {
		return CommitTimestampError{
			MetadataTimestamp: metadataTimestamp,
			BlobTimestamp:     blobTimestamp,
		}
	}
	return nil
}

// RecoverCommitTimestamp resolves a torn commit between the two stores.
// The blob store commits first, so a mismatch means the blob store
// carries writes from a commit that never landed in metadata. Engine
// records live in metadata and reference blob receipts, never the
// reverse, so orphaned blob entries are harmless. Committing an empty
// coordinated transaction realigns the timestamps.
func (d *Database) RecoverCommitTimestamp() error {
	txn := d.Transaction(true)
	if err := txn.Do(func(txn *Txn) error { return nil }); err != nil {
		return fmt.Errorf("failed to realign commit timestamps: %w", err)
	}
	return nil
}

func (d *Database) updateCommitTimestamp(txn *Txn, timestamp int64) error {
	// Update metadata
	if err := d.Metadata().SetCommitTimestamp(txn.Metadata(), timestamp); err != nil {
		return err
	}
	// Update blob
	if err := d.Blob().SetCommitTimestamp(txn.Blob(), timestamp); err != nil {
		return err
	}
	return nil
}
