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

var ErrMatchNotFound = errors.New("match not found")

// Match statuses. A match starts active and leaves that state only
// through retirement or the dispute state machine.
const (
	MatchStatusActive   = "active"
	MatchStatusRetired  = "retired"
	MatchStatusDisputed = "disputed"
)

// Match links one flight's emissions to one project's offset capacity.
// The unique index on (flight_owner, flight_id) is the double-counting
// guard: at most one match ever exists per flight, regardless of the
// match's later status.
type Match struct {
	ID              uint   `gorm:"primarykey"`
	MatchID         uint64 `gorm:"uniqueIndex;not null"`
	FlightOwner     string `gorm:"uniqueIndex:idx_match_flight,priority:1;size:128;not null"`
	FlightID        string `gorm:"uniqueIndex:idx_match_flight,priority:2;size:128;not null"`
	ProjectOwner    string `gorm:"index:idx_match_project,priority:1;size:128;not null"`
	ProjectID       string `gorm:"index:idx_match_project,priority:2;size:128;not null"`
	MatchedAmount   uint64 `gorm:"not null"`
	ProofID         string `gorm:"size:128;not null"`
	ContentHash     []byte `gorm:"size:32;not null"`
	CreatedAtHeight uint64 `gorm:"not null"`
	Metadata        string `gorm:"size:256"`
	Status          string `gorm:"index;not null"`
}

// TableName returns the table name
func (Match) TableName() string {
	return "match"
}
