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

import (
	"github.com/greenmatch-io/greenmatch/database"
	"github.com/greenmatch-io/greenmatch/database/models"
	"github.com/greenmatch-io/greenmatch/matcher"
)

// Engine is the interface the API server uses to drive the matching
// engine. This decouples the HTTP layer from the concrete Matcher and
// enables testing with mock implementations.
type Engine interface {
	CreateMatch(
		caller string,
		flightId string,
		projectOwner string,
		projectId string,
		amount uint64,
		metadata string,
	) (uint64, error)
	RetireMatch(caller string, matchId uint64) error
	OpenDispute(caller string, matchId uint64, reason string) error
	ResolveDispute(
		caller string,
		matchId uint64,
		resolution string,
		restore bool,
	) error
	CreateProposal(
		proposer string,
		description string,
		targetParam string,
		targetValue uint64,
	) (uint64, error)
	Vote(voter string, proposalId uint64, choice bool, weight uint64) error
	ExecuteProposal(caller string, proposalId uint64) error
	SetAdmin(caller string, newAdmin string) error
	Pause(caller string) error
	Unpause(caller string) error
	SetCollaborator(caller string, kind string, address string) error
	AddMatchCollaborator(
		caller string,
		matchId uint64,
		collaborator string,
		role string,
		permissions []string,
	) error

	Match(matchId uint64) (*models.Match, error)
	MatchByFlight(flightOwner, flightId string) (*models.Match, error)
	MatchesByProject(projectOwner, projectId string) ([]models.Match, error)
	Dispute(matchId uint64) (*models.Dispute, error)
	OpenDisputes() ([]models.Dispute, error)
	Proposal(proposalId uint64) (*models.Proposal, error)
	OpenProposals() ([]models.Proposal, error)
	VoteOf(proposalId uint64, voter string) (*models.Vote, error)
	ProjectUsage(projectOwner, projectId string) (*models.ProjectUsage, error)
	MatchCollaborators(matchId uint64) ([]models.MatchCollaborator, error)
	ProofReceipt(contentHash []byte) (*database.ProofReceipt, error)
	Totals() (*matcher.Totals, error)
}
