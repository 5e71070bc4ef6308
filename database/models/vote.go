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

package models

import "errors"

var ErrVoteNotFound = errors.New("vote not found")

// Vote is a single weighted vote on a proposal, immutable once cast.
// The unique index enforces one vote per voter per proposal.
type Vote struct {
	ID         uint   `gorm:"primarykey"`
	ProposalID uint64 `gorm:"uniqueIndex:idx_vote_proposal_voter,priority:1;not null"`
	Voter      string `gorm:"uniqueIndex:idx_vote_proposal_voter,priority:2;size:128;not null"`
	Choice     bool   `gorm:"not null"`
	Weight     uint64 `gorm:"not null"`
}

// TableName returns the table name
func (Vote) TableName() string {
	return "vote"
}
