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
	"fmt"

	"github.com/greenmatch-io/greenmatch/database/models"
	"github.com/greenmatch-io/greenmatch/database/types"
	"gorm.io/gorm/clause"
)

// SetMatchCollaborator records advisory collaborator metadata on a
// match. Re-adding the same collaborator refreshes its role and tags.
func (d *MetadataStoreSqlite) SetMatchCollaborator(
	collaborator *models.MatchCollaborator,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return fmt.Errorf("resolveDB failed in SetMatchCollaborator: %w", err)
	}
	result := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "match_id"},
			{Name: "collaborator"},
		},
		DoUpdates: clause.AssignmentColumns(
			[]string{"role", "permissions", "added_at_height"},
		),
	}).Create(collaborator)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// GetMatchCollaborators returns all collaborator annotations on a match
func (d *MetadataStoreSqlite) GetMatchCollaborators(
	matchId uint64,
	txn types.Txn,
) ([]models.MatchCollaborator, error) {
	var ret []models.MatchCollaborator
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, fmt.Errorf("resolveDB failed in GetMatchCollaborators: %w", err)
	}
	result := db.
		Where("match_id = ?", matchId).
		Order("id ASC").
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}
