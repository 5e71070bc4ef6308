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

package api

// ErrorResponse is the standard error body
type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

// RootResponse is returned from GET /
type RootResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
}

// HealthResponse is returned from GET /health
type HealthResponse struct {
	IsHealthy bool `json:"is_healthy"`
}

type createMatchRequest struct {
	FlightID     string `json:"flight_id"`
	ProjectOwner string `json:"project_owner"`
	ProjectID    string `json:"project_id"`
	Metadata     string `json:"metadata"`
	Amount       uint64 `json:"amount"`
}

type createMatchResponse struct {
	MatchID uint64 `json:"match_id"`
}

// MatchResponse is the JSON projection of a match record
type MatchResponse struct {
	FlightOwner   string `json:"flight_owner"`
	FlightID      string `json:"flight_id"`
	ProjectOwner  string `json:"project_owner"`
	ProjectID     string `json:"project_id"`
	ProofID       string `json:"proof_id"`
	ContentHash   string `json:"content_hash"`
	Metadata      string `json:"metadata,omitempty"`
	Status        string `json:"status"`
	MatchID       uint64 `json:"match_id"`
	MatchedAmount uint64 `json:"matched_amount"`
	CreatedAt     uint64 `json:"created_at"`
}

type openDisputeRequest struct {
	Reason string `json:"reason"`
}

type resolveDisputeRequest struct {
	Resolution string `json:"resolution"`
	Restore    bool   `json:"restore"`
}

// DisputeResponse is the JSON projection of a dispute record
type DisputeResponse struct {
	Disputant  string  `json:"disputant"`
	Reason     string  `json:"reason"`
	Resolution *string `json:"resolution,omitempty"`
	MatchID    uint64  `json:"match_id"`
	Resolved   bool    `json:"resolved"`
}

type createProposalRequest struct {
	Description string `json:"description"`
	TargetParam string `json:"target_param"`
	TargetValue uint64 `json:"target_value"`
}

type createProposalResponse struct {
	ProposalID uint64 `json:"proposal_id"`
}

// ProposalResponse is the JSON projection of a proposal record
type ProposalResponse struct {
	Proposer    string `json:"proposer"`
	Description string `json:"description"`
	TargetParam string `json:"target_param"`
	ProposalID  uint64 `json:"proposal_id"`
	TargetValue uint64 `json:"target_value"`
	StartHeight uint64 `json:"start_height"`
	EndHeight   uint64 `json:"end_height"`
	YesWeight   uint64 `json:"yes_weight"`
	NoWeight    uint64 `json:"no_weight"`
	Executed    bool   `json:"executed"`
}

type voteRequest struct {
	Choice bool   `json:"choice"`
	Weight uint64 `json:"weight"`
}

// VoteResponse is the JSON projection of a vote record
type VoteResponse struct {
	Voter      string `json:"voter"`
	ProposalID uint64 `json:"proposal_id"`
	Weight     uint64 `json:"weight"`
	Choice     bool   `json:"choice"`
}

// UsageResponse is the JSON projection of project usage
type UsageResponse struct {
	ProjectOwner string `json:"project_owner"`
	ProjectID    string `json:"project_id"`
	UsedCapacity uint64 `json:"used_capacity"`
	TotalMatched uint64 `json:"total_matched"`
}

// TotalsResponse is the aggregate engine state snapshot
type TotalsResponse struct {
	Admin                string `json:"admin"`
	FlightSourceAddress  string `json:"flight_source_address"`
	ProjectSourceAddress string `json:"project_source_address"`
	CreditLedgerAddress  string `json:"credit_ledger_address"`
	ProofIssuerAddress   string `json:"proof_issuer_address"`
	StakeOracleAddress   string `json:"stake_oracle_address"`
	MatchCounter         uint64 `json:"match_counter"`
	ProposalCounter      uint64 `json:"proposal_counter"`
	TotalMatched         uint64 `json:"total_matched"`
	MatchingFee          uint64 `json:"matching_fee"`
	Paused               bool   `json:"paused"`
}

// ProofReceiptResponse is the JSON projection of a proof receipt
type ProofReceiptResponse struct {
	ContentHash string `json:"content_hash"`
	ProofID     string `json:"proof_id"`
	Recipient   string `json:"recipient"`
	MatchID     uint64 `json:"match_id"`
	Amount      uint64 `json:"amount"`
	Height      uint64 `json:"height"`
}

type setAdminRequest struct {
	NewAdmin string `json:"new_admin"`
}

type setCollaboratorRequest struct {
	Kind    string `json:"kind"`
	Address string `json:"address"`
}

type addMatchCollaboratorRequest struct {
	Collaborator string   `json:"collaborator"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions"`
}

// MatchCollaboratorResponse is the JSON projection of a collaborator
// annotation
type MatchCollaboratorResponse struct {
	Collaborator string `json:"collaborator"`
	Role         string `json:"role"`
	Permissions  string `json:"permissions,omitempty"`
	MatchID      uint64 `json:"match_id"`
	AddedAt      uint64 `json:"added_at"`
}
