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

import (
	"fmt"

	"github.com/greenmatch-io/greenmatch/database"
	"github.com/greenmatch-io/greenmatch/database/models"
)

// Totals is the aggregate engine state snapshot
type Totals struct {
	Admin                string
	FlightSourceAddress  string
	ProjectSourceAddress string
	CreditLedgerAddress  string
	ProofIssuerAddress   string
	StakeOracleAddress   string
	MatchCounter         uint64
	ProposalCounter      uint64
	TotalMatched         uint64
	MatchingFee          uint64
	Paused               bool
}

// Match returns a match by id
func (m *Matcher) Match(matchId uint64) (*models.Match, error) {
	return m.db.GetMatch(matchId, nil)
}

// MatchByFlight returns the match for a flight, if any
func (m *Matcher) MatchByFlight(
	flightOwner string,
	flightId string,
) (*models.Match, error) {
	return m.db.GetMatchByFlight(flightOwner, flightId, nil)
}

// MatchesByProject returns all matches backed by a project
func (m *Matcher) MatchesByProject(
	projectOwner string,
	projectId string,
) ([]models.Match, error) {
	return m.db.GetMatchesByProject(projectOwner, projectId, nil)
}

// Dispute returns the dispute for a match
func (m *Matcher) Dispute(matchId uint64) (*models.Dispute, error) {
	return m.db.GetDispute(matchId, nil)
}

// OpenDisputes returns all unresolved disputes
func (m *Matcher) OpenDisputes() ([]models.Dispute, error) {
	return m.db.GetOpenDisputes(nil)
}

// Proposal returns a proposal by id
func (m *Matcher) Proposal(proposalId uint64) (*models.Proposal, error) {
	return m.db.GetProposal(proposalId, nil)
}

// OpenProposals returns proposals whose voting window is still open at
// the current height
func (m *Matcher) OpenProposals() ([]models.Proposal, error) {
	height, err := m.height()
	if err != nil {
		return nil, err
	}
	return m.db.GetOpenProposals(height, nil)
}

// VoteOf returns the vote cast by a voter on a proposal
func (m *Matcher) VoteOf(
	proposalId uint64,
	voter string,
) (*models.Vote, error) {
	return m.db.GetVote(proposalId, voter, nil)
}

// ProjectUsage returns accumulated usage for a project, or nil if the
// project has never been matched
func (m *Matcher) ProjectUsage(
	projectOwner string,
	projectId string,
) (*models.ProjectUsage, error) {
	return m.db.GetProjectUsage(projectOwner, projectId, nil)
}

// MatchCollaborators returns the advisory collaborator annotations on a
// match
func (m *Matcher) MatchCollaborators(
	matchId uint64,
) ([]models.MatchCollaborator, error) {
	return m.db.GetMatchCollaborators(matchId, nil)
}

// ProofReceipt returns the blob-store audit copy of an issued proof
func (m *Matcher) ProofReceipt(
	contentHash []byte,
) (*database.ProofReceipt, error) {
	return m.db.GetProofReceipt(contentHash, nil)
}

// Totals returns the aggregate engine state snapshot
func (m *Matcher) Totals() (*Totals, error) {
	state, err := m.db.GetEngineState(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load engine state: %w", err)
	}
	return &Totals{
		Admin:                state.Admin,
		FlightSourceAddress:  state.FlightSourceAddress,
		ProjectSourceAddress: state.ProjectSourceAddress,
		CreditLedgerAddress:  state.CreditLedgerAddress,
		ProofIssuerAddress:   state.ProofIssuerAddress,
		StakeOracleAddress:   state.StakeOracleAddress,
		MatchCounter:         state.MatchCounter,
		ProposalCounter:      state.ProposalCounter,
		TotalMatched:         state.TotalMatched,
		MatchingFee:          state.MatchingFee,
		Paused:               state.Paused,
	}, nil
}
