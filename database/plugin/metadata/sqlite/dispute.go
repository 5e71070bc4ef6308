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
	"errors"
	"fmt"

	"github.com/greenmatch-io/greenmatch/database/models"
	"github.com/greenmatch-io/greenmatch/database/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SetDispute creates or updates the dispute record for a match. The
// unique index on match_id means an update only ever touches the
// resolution fields.
func (d *MetadataStoreSqlite) SetDispute(
	dispute *models.Dispute,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return fmt.Errorf("resolveDB failed in SetDispute: %w", err)
	}
	result := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "match_id"}},
		DoUpdates: clause.AssignmentColumns(
			[]string{"resolved", "resolution"},
		),
	}).Create(dispute)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// GetDispute returns the dispute for a match
func (d *MetadataStoreSqlite) GetDispute(
	matchId uint64,
	txn types.Txn,
) (*models.Dispute, error) {
	ret := &models.Dispute{}
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, fmt.Errorf("resolveDB failed in GetDispute: %w", err)
	}
	result := db.First(ret, "match_id = ?", matchId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrDisputeNotFound
		}
		return nil, result.Error
	}
	return ret, nil
}

// GetOpenDisputes returns all unresolved disputes, ordered by match id
func (d *MetadataStoreSqlite) GetOpenDisputes(
	txn types.Txn,
) ([]models.Dispute, error) {
	var ret []models.Dispute
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, fmt.Errorf("resolveDB failed in GetOpenDisputes: %w", err)
	}
	result := db.
		Where("resolved = ?", false).
		Order("match_id ASC").
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}
