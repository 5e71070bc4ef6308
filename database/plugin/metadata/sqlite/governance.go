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

// SetProposal creates or updates a proposal. Only the vote tallies and
// the executed flag ever change after creation.
func (d *MetadataStoreSqlite) SetProposal(
	proposal *models.Proposal,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return fmt.Errorf("resolveDB failed in SetProposal: %w", err)
	}
	result := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "proposal_id"}},
		DoUpdates: clause.AssignmentColumns(
			[]string{"yes_weight", "no_weight", "executed"},
		),
	}).Create(proposal)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// GetProposal returns a proposal by its id
func (d *MetadataStoreSqlite) GetProposal(
	proposalId uint64,
	txn types.Txn,
) (*models.Proposal, error) {
	ret := &models.Proposal{}
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, fmt.Errorf("resolveDB failed in GetProposal: %w", err)
	}
	result := db.First(ret, "proposal_id = ?", proposalId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrProposalNotFound
		}
		return nil, result.Error
	}
	return ret, nil
}

// GetOpenProposals returns proposals still inside their voting window
// at the given height
func (d *MetadataStoreSqlite) GetOpenProposals(
	currentHeight uint64,
	txn types.Txn,
) ([]models.Proposal, error) {
	var ret []models.Proposal
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, fmt.Errorf("resolveDB failed in GetOpenProposals: %w", err)
	}
	result := db.
		Where("end_height > ?", currentHeight).
		Order("proposal_id ASC").
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// SetVote persists a vote. Votes are immutable; the unique index on
// (proposal_id, voter) rejects a second vote from the same voter.
func (d *MetadataStoreSqlite) SetVote(
	vote *models.Vote,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return fmt.Errorf("resolveDB failed in SetVote: %w", err)
	}
	if result := db.Create(vote); result.Error != nil {
		return result.Error
	}
	return nil
}

// GetVote returns the vote cast by a voter on a proposal
func (d *MetadataStoreSqlite) GetVote(
	proposalId uint64,
	voter string,
	txn types.Txn,
) (*models.Vote, error) {
	ret := &models.Vote{}
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, fmt.Errorf("resolveDB failed in GetVote: %w", err)
	}
	result := db.First(
		ret,
		"proposal_id = ? AND voter = ?",
		proposalId,
		voter,
	)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrVoteNotFound
		}
		return nil, result.Error
	}
	return ret, nil
}

// GetVotesByProposal returns all votes cast on a proposal
func (d *MetadataStoreSqlite) GetVotesByProposal(
	proposalId uint64,
	txn types.Txn,
) ([]models.Vote, error) {
	var ret []models.Vote
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, fmt.Errorf("resolveDB failed in GetVotesByProposal: %w", err)
	}
	result := db.
		Where("proposal_id = ?", proposalId).
		Order("id ASC").
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}
