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

package event

const (
	MatchCreatedEventType     = EventType("match.created")
	MatchRetiredEventType     = EventType("match.retired")
	DisputeOpenedEventType    = EventType("dispute.opened")
	DisputeResolvedEventType  = EventType("dispute.resolved")
	ProposalCreatedEventType  = EventType("proposal.created")
	VoteCastEventType         = EventType("vote.cast")
	ProposalExecutedEventType = EventType("proposal.executed")
)

// MatchCreatedEvent is emitted after a match record and its proof
// receipt have been committed
type MatchCreatedEvent struct {
	FlightOwner  string
	FlightID     string
	ProjectOwner string
	ProjectID    string
	ProofID      string
	ContentHash  []byte
	MatchID      uint64
	Amount       uint64
	Fee          uint64
}

// MatchRetiredEvent is emitted when a match is retired
type MatchRetiredEvent struct {
	Caller  string
	MatchID uint64
}

// DisputeOpenedEvent is emitted when a dispute is opened against a match
type DisputeOpenedEvent struct {
	Disputant string
	Reason    string
	MatchID   uint64
}

// DisputeResolvedEvent is emitted when a dispute is resolved
type DisputeResolvedEvent struct {
	Resolution string
	MatchID    uint64
	Upheld     bool
}

// ProposalCreatedEvent is emitted when a governance proposal is created
type ProposalCreatedEvent struct {
	Proposer    string
	TargetParam string
	ProposalID  uint64
	TargetValue uint64
	StartHeight uint64
	EndHeight   uint64
}

// VoteCastEvent is emitted when a vote is recorded on a proposal
type VoteCastEvent struct {
	Voter      string
	ProposalID uint64
	Weight     uint64
	Choice     bool
}

// ProposalExecutedEvent is emitted when a proposal is executed after its
// voting window closes
type ProposalExecutedEvent struct {
	TargetParam string
	ProposalID  uint64
	TargetValue uint64
	YesWeight   uint64
	NoWeight    uint64
	Passed      bool
}
