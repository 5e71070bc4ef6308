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
	"errors"
	"fmt"

	"github.com/greenmatch-io/greenmatch/database"
	"github.com/greenmatch-io/greenmatch/database/models"
	"github.com/greenmatch-io/greenmatch/event"
)

// OpenDispute records a dispute against an active match and moves the
// match to disputed. Only the flight owner or the project owner of the
// match may open one, and a match can be disputed at most once, ever.
func (m *Matcher) OpenDispute(
	caller string,
	matchId uint64,
	reason string,
) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	txn := m.db.Transaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		match, err := m.db.GetMatch(matchId, txn)
		if err != nil {
			return err
		}
		if caller != match.FlightOwner && caller != match.ProjectOwner {
			return fmt.Errorf(
				"%w: only the flight or project owner may dispute",
				ErrUnauthorized,
			)
		}
		_, err = m.db.GetDispute(matchId, txn)
		if err == nil {
			return fmt.Errorf("%w: match already disputed", ErrAlreadyProcessed)
		}
		if !errors.Is(err, models.ErrDisputeNotFound) {
			return fmt.Errorf("failed to check for existing dispute: %w", err)
		}
		if match.Status != models.MatchStatusActive {
			return fmt.Errorf(
				"%w: match is %s",
				ErrAlreadyProcessed,
				match.Status,
			)
		}
		if err := m.db.SetDispute(&models.Dispute{
			MatchID:   matchId,
			Disputant: caller,
			Reason:    reason,
		}, txn); err != nil {
			return err
		}
		return m.db.SetMatchStatus(matchId, models.MatchStatusDisputed, txn)
	})
	m.metrics.observe("open_dispute", err)
	if err != nil {
		return err
	}
	m.logger.Info(
		"dispute opened",
		"match_id", matchId,
		"disputant", caller,
	)
	m.publish(event.DisputeOpenedEventType, event.DisputeOpenedEvent{
		Disputant: caller,
		Reason:    reason,
		MatchID:   matchId,
	})
	return nil
}

// ResolveDispute closes a dispute. Admin only. The match transitions to
// active when restore is true, retired otherwise; this is the only path
// out of the disputed status, and resolution is permanent.
func (m *Matcher) ResolveDispute(
	caller string,
	matchId uint64,
	resolution string,
	restore bool,
) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	txn := m.db.Transaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		state, err := m.db.GetEngineState(txn)
		if err != nil {
			return fmt.Errorf("failed to load engine state: %w", err)
		}
		if caller != state.Admin {
			return ErrNotAdmin
		}
		dispute, err := m.db.GetDispute(matchId, txn)
		if err != nil {
			return err
		}
		if dispute.Resolved {
			return fmt.Errorf(
				"%w: dispute already resolved",
				ErrAlreadyProcessed,
			)
		}
		dispute.Resolved = true
		dispute.Resolution = &resolution
		if err := m.db.SetDispute(dispute, txn); err != nil {
			return err
		}
		newStatus := models.MatchStatusRetired
		if restore {
			newStatus = models.MatchStatusActive
		}
		return m.db.SetMatchStatus(matchId, newStatus, txn)
	})
	m.metrics.observe("resolve_dispute", err)
	if err != nil {
		return err
	}
	m.logger.Info(
		"dispute resolved",
		"match_id", matchId,
		"restore", restore,
	)
	m.publish(event.DisputeResolvedEventType, event.DisputeResolvedEvent{
		Resolution: resolution,
		MatchID:    matchId,
		Upheld:     !restore,
	})
	return nil
}
