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

package matcher

// FlightSource resolves aviation emission records. MarkFlightOffset
// must be idempotency-guarded by the collaborator against double
// marking.
type FlightSource interface {
	FlightEmissions(owner string, flightId string) (uint64, error)
	MarkFlightOffset(owner string, flightId string) error
}

// ProjectStatus is the verification state of a greening project as
// reported by the project source
type ProjectStatus struct {
	Active   bool
	Verified bool
}

// ProjectSource resolves urban-greening project capacity records
type ProjectSource interface {
	ProjectSequestration(owner string, projectId string) (uint64, error)
	ProjectStatus(owner string, projectId string) (ProjectStatus, error)
	UseProjectCapacity(owner string, projectId string, amount uint64) error
}

// CreditLedger burns fungible offset credits from a sender
type CreditLedger interface {
	Burn(amount uint64, sender string) error
}

// ProofIssuer mints the unique proof token for a committed match
type ProofIssuer interface {
	Mint(recipient string, contentHash []byte, metadata string) (string, error)
}

// StakeOracle reports the governance vote weight of a voter. When
// configured, its weight overrides any caller-supplied weight.
type StakeOracle interface {
	VoteWeight(voter string) (uint64, error)
}

// HeightSource reports the current height of the external ledger
// counter. The engine only reads it, never advances it.
type HeightSource interface {
	Height() (uint64, error)
}
