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

// MatchCollaborator is advisory metadata attached to a match by its
// flight owner. Permissions hold up to five comma-separated tags; the
// engine records but never enforces them.
type MatchCollaborator struct {
	ID            uint   `gorm:"primarykey"`
	MatchID       uint64 `gorm:"uniqueIndex:idx_match_collaborator,priority:1;not null"`
	Collaborator  string `gorm:"uniqueIndex:idx_match_collaborator,priority:2;size:128;not null"`
	Role          string `gorm:"size:64;not null"`
	Permissions   string `gorm:"size:256"`
	AddedAtHeight uint64 `gorm:"not null"`
}

// TableName returns the table name
func (MatchCollaborator) TableName() string {
	return "match_collaborator"
}
