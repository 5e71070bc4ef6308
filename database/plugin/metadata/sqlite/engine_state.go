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

// GetEngineState returns the singleton engine state row
func (d *MetadataStoreSqlite) GetEngineState(
	txn types.Txn,
) (*models.EngineState, error) {
	ret := &models.EngineState{}
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, fmt.Errorf("resolveDB failed in GetEngineState: %w", err)
	}
	result := db.First(ret, "id = ?", models.EngineStateRowID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrEngineStateNotFound
		}
		return nil, result.Error
	}
	return ret, nil
}

// SetEngineState writes the singleton engine state row
func (d *MetadataStoreSqlite) SetEngineState(
	state *models.EngineState,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return fmt.Errorf("resolveDB failed in SetEngineState: %w", err)
	}
	state.ID = models.EngineStateRowID
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(state)
	if result.Error != nil {
		return result.Error
	}
	return nil
}
