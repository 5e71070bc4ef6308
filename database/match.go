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

	"github.com/greenmatch-io/greenmatch/database/models"
	"github.com/greenmatch-io/greenmatch/database/types"
)

// SetMatch persists a new match record
func (d *Database) SetMatch(match *models.Match, txn *Txn) error {
	owned := false
	if txn == nil {
		txn = d.MetadataTxn(true)
		owned = true
		defer func() {
			if owned {
				txn.Rollback() //nolint:errcheck
			}
		}()
	}
	if err := d.metadata.SetMatch(match, txn.Metadata()); err != nil {
		return fmt.Errorf("failed to set match: %w", err)
	}
	if owned {
		if err := txn.Commit(); err != nil {
			return fmt.Errorf("commit transaction: %w", err)
		}
		owned = false
	}
	return nil
}

// SetMatchStatus updates the status of an existing match
func (d *Database) SetMatchStatus(
	matchId uint64,
	status string,
	txn *Txn,
) error {
	owned := false
	if txn == nil {
		txn = d.MetadataTxn(true)
		owned = true
		defer func() {
			if owned {
				txn.Rollback() //nolint:errcheck
			}
		}()
	}
	if err := d.metadata.SetMatchStatus(matchId, status, txn.Metadata()); err != nil {
		return fmt.Errorf("failed to set match status: %w", err)
	}
	if owned {
		if err := txn.Commit(); err != nil {
			return fmt.Errorf("commit transaction: %w", err)
		}
		owned = false
	}
	return nil
}

// GetMatch returns a match by its id
func (d *Database) GetMatch(
	matchId uint64,
	txn *Txn,
) (*models.Match, error) {
	var metadataTxn types.Txn
	if txn != nil {
		metadataTxn = txn.Metadata()
	}
	return d.metadata.GetMatch(matchId, metadataTxn)
}

// GetMatchByFlight returns the match for a flight, if one exists
func (d *Database) GetMatchByFlight(
	flightOwner string,
	flightId string,
	txn *Txn,
) (*models.Match, error) {
	var metadataTxn types.Txn
	if txn != nil {
		metadataTxn = txn.Metadata()
	}
	return d.metadata.GetMatchByFlight(flightOwner, flightId, metadataTxn)
}

// GetMatchesByProject returns all matches backed by a project
func (d *Database) GetMatchesByProject(
	projectOwner string,
	projectId string,
	txn *Txn,
) ([]models.Match, error) {
	var metadataTxn types.Txn
	if txn != nil {
		metadataTxn = txn.Metadata()
	}
	return d.metadata.GetMatchesByProject(projectOwner, projectId, metadataTxn)
}
