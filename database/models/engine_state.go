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

var ErrEngineStateNotFound = errors.New("engine state not found")

// EngineStateRowID is the fixed primary key of the singleton row
const EngineStateRowID = 1

// Collaborator kinds recognized by the engine configuration
const (
	CollaboratorFlightSource  = "flight-source"
	CollaboratorProjectSource = "project-source"
	CollaboratorCreditLedger  = "credit-ledger"
	CollaboratorProofIssuer   = "proof-issuer"
	CollaboratorStakeOracle   = "stake-oracle"
)

// EngineState is the process-wide engine configuration and counters,
// stored as a single row. Mutated only by the admin or by successful
// governance execution. Match and proposal ids come from independent
// monotonic counters.
type EngineState struct {
	ID                   uint   `gorm:"primarykey"`
	Admin                string `gorm:"size:128;not null"`
	Paused               bool   `gorm:"not null"`
	FlightSourceAddress  string `gorm:"size:256"`
	ProjectSourceAddress string `gorm:"size:256"`
	CreditLedgerAddress  string `gorm:"size:256"`
	ProofIssuerAddress   string `gorm:"size:256"`
	StakeOracleAddress   string `gorm:"size:256"`
	MatchCounter         uint64 `gorm:"not null"`
	ProposalCounter      uint64 `gorm:"not null"`
	TotalMatched         uint64 `gorm:"not null"`
	MatchingFee          uint64 `gorm:"not null"`
}

// TableName returns the table name
func (EngineState) TableName() string {
	return "engine_state"
}
