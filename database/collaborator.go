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

// SetMatchCollaborator records advisory collaborator metadata on a match
func (d *Database) SetMatchCollaborator(
	collaborator *models.MatchCollaborator,
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
	if err := d.metadata.SetMatchCollaborator(
		collaborator,
		txn.Metadata(),
	); err != nil {
		return fmt.Errorf("failed to set match collaborator: %w", err)
	}
	if owned {
		if err := txn.Commit(); err != nil {
			return fmt.Errorf("commit transaction: %w", err)
		}
		owned = false
	}
	return nil
}

// GetMatchCollaborators returns all collaborator annotations on a match
func (d *Database) GetMatchCollaborators(
	matchId uint64,
	txn *Txn,
) ([]models.MatchCollaborator, error) {
	var metadataTxn types.Txn
	if txn != nil {
		metadataTxn = txn.Metadata()
	}
	return d.metadata.GetMatchCollaborators(matchId, metadataTxn)
}
