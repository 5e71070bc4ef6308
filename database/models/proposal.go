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

var ErrProposalNotFound = errors.New("proposal not found")

// Proposal is a parameter-change proposal. It is votable from creation
// until end_height (exclusive) and executable once after that.
// Immutable once created except for the vote tallies and the executed
// flag.
type Proposal struct {
	ID          uint   `gorm:"primarykey"`
	ProposalID  uint64 `gorm:"uniqueIndex;not null"`
	Proposer    string `gorm:"size:128;not null"`
	Description string `gorm:"size:512;not null"`
	TargetParam string `gorm:"size:64;not null"`
	TargetValue uint64 `gorm:"not null"`
	StartHeight uint64 `gorm:"not null"`
	EndHeight   uint64 `gorm:"index;not null"`
	YesWeight   uint64 `gorm:"not null"`
	NoWeight    uint64 `gorm:"not null"`
	Executed    bool   `gorm:"not null"`
}

// TableName returns the table name
func (Proposal) TableName() string {
	return "proposal"
}
