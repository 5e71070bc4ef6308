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

// SetProposal creates or updates a proposal
func (d *Database) SetProposal(proposal *models.Proposal, txn *Txn) error {
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
	if err := d.metadata.SetProposal(proposal, txn.Metadata()); err != nil {
		return fmt.Errorf("failed to set proposal: %w", err)
	}
	if owned {
		if err := txn.Commit(); err != nil {
			return fmt.Errorf("commit transaction: %w", err)
		}
		owned = false
	}
	return nil
}

// GetProposal returns a proposal by its id
func (d *Database) GetProposal(
	proposalId uint64,
	txn *Txn,
) (*models.Proposal, error) {
	var metadataTxn types.Txn
	if txn != nil {
		metadataTxn = txn.Metadata()
	}
	return d.metadata.GetProposal(proposalId, metadataTxn)
}

// GetOpenProposals returns proposals still inside their voting window
func (d *Database) GetOpenProposals(
	currentHeight uint64,
	txn *Txn,
) ([]models.Proposal, error) {
	var metadataTxn types.Txn
	if txn != nil {
		metadataTxn = txn.Metadata()
	}
	return d.metadata.GetOpenProposals(currentHeight, metadataTxn)
}

// SetVote persists a vote
func (d *Database) SetVote(vote *models.Vote, txn *Txn) error {
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
	if err := d.metadata.SetVote(vote, txn.Metadata()); err != nil {
		return fmt.Errorf("failed to set vote: %w", err)
	}
	if owned {
		if err := txn.Commit(); err != nil {
			return fmt.Errorf("commit transaction: %w", err)
		}
		owned = false
	}
	return nil
}

// GetVote returns the vote cast by a voter on a proposal
func (d *Database) GetVote(
	proposalId uint64,
	voter string,
	txn *Txn,
) (*models.Vote, error) {
	var metadataTxn types.Txn
	if txn != nil {
		metadataTxn = txn.Metadata()
	}
	return d.metadata.GetVote(proposalId, voter, metadataTxn)
}

// GetVotesByProposal returns all votes cast on a proposal
func (d *Database) GetVotesByProposal(
	proposalId uint64,
	txn *Txn,
) ([]models.Vote, error) {
	var metadataTxn types.Txn
	if txn != nil {
		metadataTxn = txn.Metadata()
	}
	return d.metadata.GetVotesByProposal(proposalId, metadataTxn)
}
