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

package metadata

import (
	"fmt"
	"log/slog"

	"github.com/greenmatch-io/greenmatch/database/models"
	"github.com/greenmatch-io/greenmatch/database/plugin"
	"github.com/greenmatch-io/greenmatch/database/plugin/metadata/sqlite"
	"github.com/greenmatch-io/greenmatch/database/types"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// MetadataStore is the relational half of the database: the match
// ledger, dispute records, governance state, and engine configuration.
// All accessors accept a types.Txn so that multi-record updates can
// share one transaction; a nil Txn runs against the base handle.
type MetadataStore interface {
	// Database
	Close() error
	DB() *gorm.DB
	GetCommitTimestamp() (int64, error)
	SetCommitTimestamp(types.Txn, int64) error
	Transaction() types.Txn

	// Match ledger
	SetMatch(*models.Match, types.Txn) error
	SetMatchStatus(
		uint64, // matchId
		string, // status
		types.Txn,
	) error
	GetMatch(
		uint64, // matchId
		types.Txn,
	) (*models.Match, error)
	GetMatchByFlight(
		string, // flightOwner
		string, // flightId
		types.Txn,
	) (*models.Match, error)
	GetMatchesByProject(
		string, // projectOwner
		string, // projectId
		types.Txn,
	) ([]models.Match, error)

	// Project usage
	AddProjectUsage(
		string, // projectOwner
		string, // projectId
		uint64, // amount
		types.Txn,
	) error
	GetProjectUsage(
		string, // projectOwner
		string, // projectId
		types.Txn,
	) (*models.ProjectUsage, error)

	// Disputes
	SetDispute(*models.Dispute, types.Txn) error
	GetDispute(
		uint64, // matchId
		types.Txn,
	) (*models.Dispute, error)
	GetOpenDisputes(types.Txn) ([]models.Dispute, error)

	// Governance
	SetProposal(*models.Proposal, types.Txn) error
	GetProposal(
		uint64, // proposalId
		types.Txn,
	) (*models.Proposal, error)
	GetOpenProposals(
		uint64, // currentHeight
		types.Txn,
	) ([]models.Proposal, error)
	SetVote(*models.Vote, types.Txn) error
	GetVote(
		uint64, // proposalId
		string, // voter
		types.Txn,
	) (*models.Vote, error)
	GetVotesByProposal(
		uint64, // proposalId
		types.Txn,
	) ([]models.Vote, error)

	// Match collaborators
	SetMatchCollaborator(*models.MatchCollaborator, types.Txn) error
	GetMatchCollaborators(
		uint64, // matchId
		types.Txn,
	) ([]models.MatchCollaborator, error)

	// Engine state
	GetEngineState(types.Txn) (*models.EngineState, error)
	SetEngineState(*models.EngineState, types.Txn) error
}

// New returns the named metadata plugin, started and ready for use
func New(
	pluginName, dataDir string,
	logger *slog.Logger,
	promRegistry prometheus.Registerer,
) (MetadataStore, error) {
	switch pluginName {
	case "sqlite":
		return sqlite.New(dataDir, logger, promRegistry)
	default:
		// Fall back to the plugin registry for out-of-tree stores
		p, err := plugin.StartPlugin(plugin.PluginTypeMetadata, pluginName)
		if err != nil {
			return nil, err
		}
		store, ok := p.(MetadataStore)
		if !ok {
			return nil, fmt.Errorf(
				"plugin '%s' does not implement MetadataStore interface",
				pluginName,
			)
		}
		return store, nil
	}
}
