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
	"strings"

	"github.com/greenmatch-io/greenmatch/database"
	"github.com/greenmatch-io/greenmatch/database/models"
)

// withEngineState runs an admin-gated mutation of the engine state
// inside a transaction
func (m *Matcher) withEngineState(
	caller string,
	fn func(state *models.EngineState) error,
) error {
	txn := m.db.Transaction(true)
	return txn.Do(func(txn *database.Txn) error {
		state, err := m.db.GetEngineState(txn)
		if err != nil {
			return fmt.Errorf("failed to load engine state: %w", err)
		}
		if caller != state.Admin {
			return ErrNotAdmin
		}
		if err := fn(state); err != nil {
			return err
		}
		return m.db.SetEngineState(state, txn)
	})
}

// SetAdmin transfers the admin role to a new principal
func (m *Matcher) SetAdmin(caller string, newAdmin string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	err := m.withEngineState(caller, func(state *models.EngineState) error {
		if newAdmin == "" {
			return fmt.Errorf(
				"%w: admin must not be empty",
				ErrInvalidParameter,
			)
		}
		state.Admin = newAdmin
		return nil
	})
	m.metrics.observe("set_admin", err)
	if err != nil {
		return err
	}
	m.logger.Info("admin transferred", "new_admin", newAdmin)
	return nil
}

// Pause blocks match creation. Retirement, disputes, governance and
// reads remain available while paused.
func (m *Matcher) Pause(caller string) error {
	return m.setPaused(caller, true)
}

// Unpause re-enables match creation
func (m *Matcher) Unpause(caller string) error {
	return m.setPaused(caller, false)
}

func (m *Matcher) setPaused(caller string, paused bool) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	err := m.withEngineState(caller, func(state *models.EngineState) error {
		state.Paused = paused
		return nil
	})
	m.metrics.observe("set_paused", err)
	if err != nil {
		return err
	}
	m.logger.Info("pause flag updated", "paused", paused)
	return nil
}

// SetCollaborator updates the address of one of the external
// collaborators in the engine configuration
func (m *Matcher) SetCollaborator(
	caller string,
	kind string,
	address string,
) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	err := m.withEngineState(caller, func(state *models.EngineState) error {
		switch kind {
		case models.CollaboratorFlightSource:
			state.FlightSourceAddress = address
		case models.CollaboratorProjectSource:
			state.ProjectSourceAddress = address
		case models.CollaboratorCreditLedger:
			state.CreditLedgerAddress = address
		case models.CollaboratorProofIssuer:
			state.ProofIssuerAddress = address
		case models.CollaboratorStakeOracle:
			state.StakeOracleAddress = address
		default:
			return fmt.Errorf(
				"%w: unknown collaborator kind %q",
				ErrInvalidParameter,
				kind,
			)
		}
		return nil
	})
	m.metrics.observe("set_collaborator", err)
	if err != nil {
		return err
	}
	m.logger.Info(
		"collaborator address updated",
		"kind", kind,
		"address", address,
	)
	return nil
}

// AddMatchCollaborator records advisory collaborator metadata on a
// match. Flight-owner gated; the engine does not enforce the recorded
// permissions.
func (m *Matcher) AddMatchCollaborator(
	caller string,
	matchId uint64,
	collaborator string,
	role string,
	permissions []string,
) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	txn := m.db.Transaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		match, err := m.db.GetMatch(matchId, txn)
		if err != nil {
			return err
		}
		if caller != match.FlightOwner {
			return fmt.Errorf(
				"%w: only the flight owner may add collaborators",
				ErrUnauthorized,
			)
		}
		if len(permissions) > MaxCollaboratorPermissions {
			return fmt.Errorf(
				"%w: at most %d permission tags",
				ErrInvalidParameter,
				MaxCollaboratorPermissions,
			)
		}
		height, err := m.height()
		if err != nil {
			return err
		}
		return m.db.SetMatchCollaborator(&models.MatchCollaborator{
			MatchID:       matchId,
			Collaborator:  collaborator,
			Role:          role,
			Permissions:   strings.Join(permissions, ","),
			AddedAtHeight: height,
		}, txn)
	})
	m.metrics.observe("add_match_collaborator", err)
	if err != nil {
		return err
	}
	m.logger.Info(
		"match collaborator added",
		"match_id", matchId,
		"collaborator", collaborator,
		"role", role,
	)
	return nil
}
