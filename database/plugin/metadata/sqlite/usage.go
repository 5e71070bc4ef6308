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

// AddProjectUsage accumulates consumed capacity for a project. Usage
// rows are never decremented.
func (d *MetadataStoreSqlite) AddProjectUsage(
	projectOwner string,
	projectId string,
	amount uint64,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return fmt.Errorf("resolveDB failed in AddProjectUsage: %w", err)
	}
	tmpUsage := models.ProjectUsage{
		ProjectOwner: projectOwner,
		ProjectID:    projectId,
		UsedCapacity: amount,
		TotalMatched: amount,
	}
	result := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "project_owner"},
			{Name: "project_id"},
		},
		DoUpdates: clause.Assignments(map[string]any{
			"used_capacity": gorm.Expr("used_capacity + ?", amount),
			"total_matched": gorm.Expr("total_matched + ?", amount),
		}),
	}).Create(&tmpUsage)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// GetProjectUsage returns accumulated usage for a project. A project
// with no usage yet returns nil with no error.
func (d *MetadataStoreSqlite) GetProjectUsage(
	projectOwner string,
	projectId string,
	txn types.Txn,
) (*models.ProjectUsage, error) {
	ret := &models.ProjectUsage{}
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, fmt.Errorf("resolveDB failed in GetProjectUsage: %w", err)
	}
	result := db.First(
		ret,
		"project_owner = ? AND project_id = ?",
		projectOwner,
		projectId,
	)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}
