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
)

// SetMatch persists a new match record. The unique indexes on match_id
// and (flight_owner, flight_id) surface any ledger-level violation as
// a constraint error.
func (d *MetadataStoreSqlite) SetMatch(
	match *models.Match,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return fmt.Errorf("resolveDB failed in SetMatch: %w", err)
	}
	if result := db.Create(match); result.Error != nil {
		return result.Error
	}
	return nil
}

// SetMatchStatus updates the status of an existing match
func (d *MetadataStoreSqlite) SetMatchStatus(
	matchId uint64,
	status string,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return fmt.Errorf("resolveDB failed in SetMatchStatus: %w", err)
	}
	result := db.Model(&models.Match{}).
		Where("match_id = ?", matchId).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrMatchNotFound
	}
	return nil
}

// GetMatch returns a match by its id
func (d *MetadataStoreSqlite) GetMatch(
	matchId uint64,
	txn types.Txn,
) (*models.Match, error) {
	ret := &models.Match{}
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, fmt.Errorf("resolveDB failed in GetMatch: %w", err)
	}
	result := db.First(ret, "match_id = ?", matchId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrMatchNotFound
		}
		return nil, result.Error
	}
	return ret, nil
}

// GetMatchByFlight returns the match for a flight, if one exists
func (d *MetadataStoreSqlite) GetMatchByFlight(
	flightOwner string,
	flightId string,
	txn types.Txn,
) (*models.Match, error) {
	ret := &models.Match{}
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, fmt.Errorf("resolveDB failed in GetMatchByFlight: %w", err)
	}
	result := db.First(
		ret,
		"flight_owner = ? AND flight_id = ?",
		flightOwner,
		flightId,
	)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrMatchNotFound
		}
		return nil, result.Error
	}
	return ret, nil
}

// GetMatchesByProject returns all matches backed by a project, ordered
// by match id
func (d *MetadataStoreSqlite) GetMatchesByProject(
	projectOwner string,
	projectId string,
	txn types.Txn,
) ([]models.Match, error) {
	var ret []models.Match
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, fmt.Errorf("resolveDB failed in GetMatchesByProject: %w", err)
	}
	result := db.
		Where("project_owner = ? AND project_id = ?", projectOwner, projectId).
		Order("match_id ASC").
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}
