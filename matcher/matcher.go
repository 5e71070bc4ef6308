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
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/greenmatch-io/greenmatch/database"
	"github.com/greenmatch-io/greenmatch/database/models"
	"github.com/greenmatch-io/greenmatch/event"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/blake2b"
)

const (
	// MaxMetadataLength is the maximum length of match metadata
	MaxMetadataLength = 256
	// MaxCollaboratorPermissions is the maximum number of permission
	// tags on a match collaborator annotation
	MaxCollaboratorPermissions = 5
	// MaxMatchingFee is the upper bound for the matching fee, in
	// percentage points
	MaxMatchingFee = 100

	// DefaultQuorumPercent is the minimum percentage of cast weighted
	// votes that must be "yes" for a proposal to pass
	DefaultQuorumPercent = 51
	// DefaultProposalDuration is the length of the voting window in
	// height units
	DefaultProposalDuration = 1440

	// ParamMatchingFee is the only governance target parameter the
	// engine recognizes
	ParamMatchingFee = "matching-fee"
)

// Config is the engine configuration. Database, the four collaborator
// sources and HeightSource are required; StakeOracle is optional.
type Config struct {
	Logger           *slog.Logger
	Database         *database.Database
	EventBus         *event.EventBus
	PromRegistry     prometheus.Registerer
	FlightSource     FlightSource
	ProjectSource    ProjectSource
	CreditLedger     CreditLedger
	ProofIssuer      ProofIssuer
	StakeOracle      StakeOracle
	HeightSource     HeightSource
	InitialAdmin     string
	QuorumPercent    uint64
	ProposalDuration uint64
}

// Matcher is the CreditMatcher engine: match ledger, dispute state
// machine, governance, and admin control. All mutating operations are
// serialized by a single mutex and run inside one coordinated database
// transaction with rollback-on-error.
type Matcher struct {
	logger           *slog.Logger
	db               *database.Database
	eventBus         *event.EventBus
	metrics          *engineMetrics
	flightSource     FlightSource
	projectSource    ProjectSource
	creditLedger     CreditLedger
	proofIssuer      ProofIssuer
	stakeOracle      StakeOracle
	heightSource     HeightSource
	quorumPercent    uint64
	proposalDuration uint64
	mutex            sync.Mutex
}

// New creates the engine from a Config, loading the persisted engine
// state or initializing it with the configured admin on first run
func New(cfg Config) (*Matcher, error) {
	if cfg.Database == nil {
		return nil, errors.New("no database provided")
	}
	if cfg.FlightSource == nil || cfg.ProjectSource == nil ||
		cfg.CreditLedger == nil || cfg.ProofIssuer == nil {
		return nil, errors.New("all four collaborator sources are required")
	}
	if cfg.HeightSource == nil {
		return nil, errors.New("no height source provided")
	}
	if cfg.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if cfg.QuorumPercent == 0 {
		cfg.QuorumPercent = DefaultQuorumPercent
	}
	if cfg.ProposalDuration == 0 {
		cfg.ProposalDuration = DefaultProposalDuration
	}
	m := &Matcher{
		logger:           cfg.Logger.With("component", "matcher"),
		db:               cfg.Database,
		eventBus:         cfg.EventBus,
		flightSource:     cfg.FlightSource,
		projectSource:    cfg.ProjectSource,
		creditLedger:     cfg.CreditLedger,
		proofIssuer:      cfg.ProofIssuer,
		stakeOracle:      cfg.StakeOracle,
		heightSource:     cfg.HeightSource,
		quorumPercent:    cfg.QuorumPercent,
		proposalDuration: cfg.ProposalDuration,
	}
	if cfg.PromRegistry != nil {
		m.metrics = registerEngineMetrics(cfg.PromRegistry)
	}
	if _, err := m.db.GetEngineState(nil); err != nil {
		if !errors.Is(err, models.ErrEngineStateNotFound) {
			return nil, fmt.Errorf("failed to load engine state: %w", err)
		}
		if cfg.InitialAdmin == "" {
			return nil, errors.New("no initial admin configured")
		}
		if err := m.db.SetEngineState(
			&models.EngineState{Admin: cfg.InitialAdmin},
			nil,
		); err != nil {
			return nil, fmt.Errorf("failed to initialize engine state: %w", err)
		}
		m.logger.Info(
			"initialized engine state",
			"admin", cfg.InitialAdmin,
		)
	}
	return m, nil
}

// proofContentHash derives the unique identifying hash of a proof token
// from the match id and matched amount. Match id monotonicity makes the
// hash unique per match.
func proofContentHash(matchId uint64, amount uint64) []byte {
	buf := make([]byte, 16)
	binary.BigEndian.PutUint64(buf[0:8], matchId)
	binary.BigEndian.PutUint64(buf[8:16], amount)
	sum := blake2b.Sum256(buf)
	return sum[:]
}

func (m *Matcher) publish(eventType event.EventType, data any) {
	if m.eventBus == nil {
		return
	}
	m.eventBus.Publish(eventType, event.NewEvent(eventType, data))
}

func (m *Matcher) height() (uint64, error) {
	height, err := m.heightSource.Height()
	if err != nil {
		return 0, fmt.Errorf("failed to read height: %w", err)
	}
	return height, nil
}

// CreateMatch links a flight's emissions to a project's offset capacity
// and issues a proof token. Preconditions are checked in a fixed order
// and the first failure aborts with no state change; the credit burn,
// capacity consumption, flight marking and proof mint all happen before
// any record is committed.
func (m *Matcher) CreateMatch(
	caller string,
	flightId string,
	projectOwner string,
	projectId string,
	amount uint64,
	metadata string,
) (uint64, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	var matchId uint64
	var fee uint64
	var contentHash []byte
	var proofId string
	txn := m.db.Transaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		state, err := m.db.GetEngineState(txn)
		if err != nil {
			return fmt.Errorf("failed to load engine state: %w", err)
		}
		if state.Paused {
			return ErrContractPaused
		}
		// One match per flight, ever
		_, err = m.db.GetMatchByFlight(caller, flightId, txn)
		if err == nil {
			return ErrDoubleCounting
		}
		if !errors.Is(err, models.ErrMatchNotFound) {
			return fmt.Errorf("failed to check flight index: %w", err)
		}
		emissions, err := m.flightSource.FlightEmissions(caller, flightId)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidFlightReference, err)
		}
		if emissions < amount {
			return fmt.Errorf(
				"%w: amount %d exceeds flight emissions %d",
				ErrInvalidAmount,
				amount,
				emissions,
			)
		}
		capacity, err := m.projectSource.ProjectSequestration(
			projectOwner,
			projectId,
		)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidProjectReference, err)
		}
		if capacity < amount {
			return fmt.Errorf(
				"%w: amount %d exceeds project capacity %d",
				ErrInvalidAmount,
				amount,
				capacity,
			)
		}
		status, err := m.projectSource.ProjectStatus(projectOwner, projectId)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidProjectReference, err)
		}
		if !status.Active || !status.Verified {
			return ErrProjectNotVerified
		}
		if amount == 0 {
			return fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
		}
		if len(metadata) > MaxMetadataLength {
			return fmt.Errorf(
				"%w: metadata exceeds %d characters",
				ErrInvalidMetadata,
				MaxMetadataLength,
			)
		}
		if err := m.creditLedger.Burn(amount, caller); err != nil {
			return fmt.Errorf("%w: %w", ErrInsufficientCredits, err)
		}
		if err := m.projectSource.UseProjectCapacity(
			projectOwner,
			projectId,
			amount,
		); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidAmount, err)
		}
		if err := m.flightSource.MarkFlightOffset(caller, flightId); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidFlightReference, err)
		}
		matchId = state.MatchCounter + 1
		contentHash = proofContentHash(matchId, amount)
		proofId, err = m.proofIssuer.Mint(caller, contentHash, metadata)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrProofIssuance, err)
		}
		height, err := m.height()
		if err != nil {
			return err
		}
		fee = amount * state.MatchingFee / 100
		if err := m.db.SetMatch(&models.Match{
			MatchID:         matchId,
			FlightOwner:     caller,
			FlightID:        flightId,
			ProjectOwner:    projectOwner,
			ProjectID:       projectId,
			MatchedAmount:   amount,
			ProofID:         proofId,
			ContentHash:     contentHash,
			CreatedAtHeight: height,
			Metadata:        metadata,
			Status:          models.MatchStatusActive,
		}, txn); err != nil {
			return err
		}
		if err := m.db.AddProjectUsage(
			projectOwner,
			projectId,
			amount,
			txn,
		); err != nil {
			return err
		}
		state.MatchCounter = matchId
		state.TotalMatched += amount
		if err := m.db.SetEngineState(state, txn); err != nil {
			return err
		}
		return m.db.SetProofReceipt(&database.ProofReceipt{
			ContentHash: contentHash,
			ProofID:     proofId,
			Recipient:   caller,
			MatchID:     matchId,
			Amount:      amount,
			Height:      height,
		}, txn)
	})
	m.metrics.observe("create_match", err)
	if err != nil {
		return 0, err
	}
	m.metrics.observeMatched(amount)
	m.logger.Info(
		"match created",
		"match_id", matchId,
		"flight_owner", caller,
		"flight_id", flightId,
		"project_owner", projectOwner,
		"project_id", projectId,
		"amount", amount,
	)
	m.publish(event.MatchCreatedEventType, event.MatchCreatedEvent{
		FlightOwner:  caller,
		FlightID:     flightId,
		ProjectOwner: projectOwner,
		ProjectID:    projectId,
		ProofID:      proofId,
		ContentHash:  contentHash,
		MatchID:      matchId,
		Amount:       amount,
		Fee:          fee,
	})
	return matchId, nil
}

// RetireMatch transitions an active match to retired. Only the flight
// owner may retire, and only from active status. Retirement never frees
// the flight for re-matching.
func (m *Matcher) RetireMatch(caller string, matchId uint64) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	txn := m.db.Transaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		match, err := m.db.GetMatch(matchId, txn)
		if err != nil {
			return err
		}
		if match.FlightOwner != caller {
			return fmt.Errorf(
				"%w: only the flight owner may retire a match",
				ErrUnauthorized,
			)
		}
		if match.Status != models.MatchStatusActive {
			return fmt.Errorf(
				"%w: match is %s",
				ErrAlreadyProcessed,
				match.Status,
			)
		}
		return m.db.SetMatchStatus(matchId, models.MatchStatusRetired, txn)
	})
	m.metrics.observe("retire_match", err)
	if err != nil {
		return err
	}
	m.logger.Info("match retired", "match_id", matchId, "caller", caller)
	m.publish(event.MatchRetiredEventType, event.MatchRetiredEvent{
		Caller:  caller,
		MatchID: matchId,
	})
	return nil
}
