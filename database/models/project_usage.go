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

// ProjectUsage accumulates consumed offset capacity per project. Values
// only ever increase; capacity consumption is permanent once credits
// are burned, even if the backing match is later retired or disputed.
type ProjectUsage struct {
	ID           uint   `gorm:"primarykey"`
	ProjectOwner string `gorm:"uniqueIndex:idx_usage_project,priority:1;size:128;not null"`
	ProjectID    string `gorm:"uniqueIndex:idx_usage_project,priority:2;size:128;not null"`
	UsedCapacity uint64 `gorm:"not null"`
	TotalMatched uint64 `gorm:"not null"`
}

// TableName returns the table name
func (ProjectUsage) TableName() string {
	return "project_usage"
}
