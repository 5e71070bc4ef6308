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

var ErrDisputeNotFound = errors.New("dispute not found")

// Dispute records a challenge against a match. At most one dispute ever
// exists per match; once resolved it stays resolved.
type Dispute struct {
	ID         uint    `gorm:"primarykey"`
	MatchID    uint64  `gorm:"uniqueIndex;not null"`
	Disputant  string  `gorm:"size:128;not null"`
	Reason     string  `gorm:"size:512;not null"`
	Resolved   bool    `gorm:"not null"`
	Resolution *string `gorm:"size:512"`
}

// TableName returns the table name
func (Dispute) TableName() string {
	return "dispute"
}
