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

package greenmatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/greenmatch-io/greenmatch/api"
	"github.com/greenmatch-io/greenmatch/database"
	"github.com/greenmatch-io/greenmatch/database/models"
	"github.com/greenmatch-io/greenmatch/event"
	"github.com/greenmatch-io/greenmatch/matcher"
	"github.com/greenmatch-io/greenmatch/sources"
)

type Node struct {
	eventBus      *event.EventBus
	db            *database.Database
	engine        *matcher.Matcher
	api           *api.Api
	apiCancel     context.CancelFunc
	shutdownFuncs []func(context.Context) error
	config        Config
	done          chan struct{}
	shutdownOnce  sync.Once
}

func New(cfg Config) (*Node, error) {
	eventBus := event.NewEventBus(cfg.promRegistry, cfg.logger)
	n := &Node{
		config:   cfg,
		eventBus: eventBus,
		done:     make(chan struct{}),
	}
	if err := n.configValidate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return n, nil
}

func (n *Node) Run() error {
	// Configure tracing
	if n.config.tracing {
		if err := n.setupTracing(); err != nil {
			return err
		}
	}
	// Load database
	dbNeedsRecovery := false
	db, err := database.New(database.Config{
		DataDir:        n.config.dataDir,
		Logger:         n.config.logger,
		PromRegistry:   n.config.promRegistry,
		BlobPlugin:     n.config.blobPlugin,
		MetadataPlugin: n.config.metadataPlugin,
	})
	if db == nil {
		n.config.logger.Error(
			"failed to create database",
			"error",
			"empty database returned",
		)
		return errors.New("empty database returned")
	}
	n.db = db
	if err != nil {
		var dbErr database.CommitTimestampError
		if !errors.As(err, &dbErr) {
			return fmt.Errorf("failed to open database: %w", err)
		}
		n.config.logger.Warn(
			"database initialization error, needs recovery",
			"error",
			err,
		)
		dbNeedsRecovery = true
	}
	// Run DB recovery if needed
	if dbNeedsRecovery {
		if err := n.db.RecoverCommitTimestamp(); err != nil {
			return fmt.Errorf("failed to recover database: %w", err)
		}
	}
	// Load engine
	engine, err := matcher.New(matcher.Config{
		Logger:       n.config.logger,
		Database:     n.db,
		EventBus:     n.eventBus,
		PromRegistry: n.config.promRegistry,
		FlightSource: sources.NewFlightClient(
			n.collaboratorAddress(
				func(s *models.EngineState) string { return s.FlightSourceAddress },
				n.config.flightSourceAddress,
			),
		),
		ProjectSource: sources.NewProjectClient(
			n.collaboratorAddress(
				func(s *models.EngineState) string { return s.ProjectSourceAddress },
				n.config.projectSourceAddress,
			),
		),
		CreditLedger: sources.NewCreditClient(
			n.collaboratorAddress(
				func(s *models.EngineState) string { return s.CreditLedgerAddress },
				n.config.creditLedgerAddress,
			),
		),
		ProofIssuer: sources.NewProofClient(
			n.collaboratorAddress(
				func(s *models.EngineState) string { return s.ProofIssuerAddress },
				n.config.proofIssuerAddress,
			),
		),
		StakeOracle:      n.stakeOracle(),
		HeightSource:     n.heightSource(),
		InitialAdmin:     n.config.initialAdmin,
		QuorumPercent:    n.config.quorumPercent,
		ProposalDuration: n.config.proposalDuration,
	})
	if err != nil {
		return fmt.Errorf("failed to load matching engine: %w", err)
	}
	n.engine = engine
	// Start API listener
	if n.config.apiListenAddress != "" {
		n.api = api.New(
			api.Config{
				ListenAddress:  n.config.apiListenAddress,
				MaxConnections: n.config.apiMaxConnections,
			},
			n.engine,
			n.config.logger,
		)
		apiCtx, apiCancel := context.WithCancel(context.Background())
		n.apiCancel = apiCancel
		if err := n.api.Start(apiCtx); err != nil {
			apiCancel()
			return err
		}
	}

	// Wait for shutdown signal
	<-n.done
	return nil
}

// Engine returns the matching engine instance. It is only available
// after Run has been called
func (n *Node) Engine() *matcher.Matcher {
	return n.engine
}

// collaboratorAddress builds an address resolver that prefers the
// stored engine state address and falls back to the configured
// bootstrap address. Resolution happens per call, so admin address
// updates take effect without rebuilding the client
func (n *Node) collaboratorAddress(
	get func(*models.EngineState) string,
	fallback string,
) sources.AddressFunc {
	return func() string {
		state, err := n.db.GetEngineState(nil)
		if err == nil {
			if addr := get(state); addr != "" {
				return addr
			}
		}
		return fallback
	}
}

// stakeOracle returns the stake oracle client, or nil when no oracle
// address is configured. A nil oracle means votes carry the
// caller-supplied weight
func (n *Node) stakeOracle() matcher.StakeOracle {
	resolve := n.collaboratorAddress(
		func(s *models.EngineState) string { return s.StakeOracleAddress },
		n.config.stakeOracleAddress,
	)
	if resolve() == "" {
		return nil
	}
	return sources.NewStakeClient(resolve)
}

func (n *Node) heightSource() matcher.HeightSource {
	if n.config.heightSource != nil {
		return n.config.heightSource
	}
	return clockHeightSource{}
}

func (n *Node) Stop() error {
	var err error
	n.shutdownOnce.Do(func() {
		err = n.shutdown()
	})
	return err
}

func (n *Node) shutdown() error {
	// Create shutdown context with timeout (default 30s if not configured)
	shutdownTimeout := 30 * time.Second
	if n.config.shutdownTimeout > 0 {
		shutdownTimeout = n.config.shutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var err error

	n.config.logger.Debug("starting graceful shutdown")

	// Phase 1: Stop accepting new work
	n.config.logger.Debug("shutdown phase 1: stopping new work")

	if n.api != nil {
		if stopErr := n.api.Stop(ctx); stopErr != nil {
			err = errors.Join(err, fmt.Errorf("api shutdown: %w", stopErr))
		}
	}
	if n.apiCancel != nil {
		n.apiCancel()
	}

	// Phase 2: Flush state and close database
	n.config.logger.Debug("shutdown phase 2: flushing state")

	if n.db != nil {
		if closeErr := n.db.Close(); closeErr != nil {
			err = errors.Join(
				err,
				fmt.Errorf("database close: %w", closeErr),
			)
		}
	}

	// Phase 3: Cleanup resources
	n.config.logger.Debug("shutdown phase 3: cleanup resources")

	// Call registered shutdown functions
	for _, fn := range n.shutdownFuncs {
		if fnErr := fn(ctx); fnErr != nil {
			err = errors.Join(err, fmt.Errorf("shutdown function: %w", fnErr))
		}
	}
	n.shutdownFuncs = nil

	if n.eventBus != nil {
		n.eventBus.Stop()
	}

	n.config.logger.Debug("graceful shutdown complete")
	close(n.done)
	return err
}
