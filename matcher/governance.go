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

// CreateProposal opens a governance proposal. The voting window starts
// immediately and spans the configured proposal duration. Proposal ids
// come from their own monotonic counter, independent of match ids.
func (m *Matcher) CreateProposal(
	proposer string,
	description string,
	targetParam string,
	targetValue uint64,
) (uint64, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	var proposalId uint64
	var startHeight, endHeight uint64
	txn := m.db.Transaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		if description == "" {
			return fmt.Errorf(
				"%w: description must not be empty",
				ErrInvalidParameter,
			)
		}
		state, err := m.db.GetEngineState(txn)
		if err != nil {
			return fmt.Errorf("failed to load engine state: %w", err)
		}
		height, err := m.height()
		if err != nil {
			return err
		}
		proposalId = state.ProposalCounter + 1
		startHeight = height
		endHeight = height + m.proposalDuration
		if err := m.db.SetProposal(&models.Proposal{
			ProposalID:  proposalId,
			Proposer:    proposer,
			Description: description,
			TargetParam: targetParam,
			TargetValue: targetValue,
			StartHeight: startHeight,
			EndHeight:   endHeight,
		}, txn); err != nil {
			return err
		}
		state.ProposalCounter = proposalId
		return m.db.SetEngineState(state, txn)
	})
	m.metrics.observe("create_proposal", err)
	if err != nil {
		return 0, err
	}
	m.logger.Info(
		"proposal created",
		"proposal_id", proposalId,
		"proposer", proposer,
		"target_param", targetParam,
		"end_height", endHeight,
	)
	m.publish(event.ProposalCreatedEventType, event.ProposalCreatedEvent{
		Proposer:    proposer,
		TargetParam: targetParam,
		ProposalID:  proposalId,
		TargetValue: targetValue,
		StartHeight: startHeight,
		EndHeight:   endHeight,
	})
	return proposalId, nil
}

// Vote records a weighted vote on a proposal. Votes are accepted only
// inside the voting window and at most once per voter. When a stake
// oracle is configured its reported weight overrides the caller-
// supplied weight.
func (m *Matcher) Vote(
	voter string,
	proposalId uint64,
	choice bool,
	weight uint64,
) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	var finalWeight uint64
	txn := m.db.Transaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		proposal, err := m.db.GetProposal(proposalId, txn)
		if err != nil {
			return err
		}
		height, err := m.height()
		if err != nil {
			return err
		}
		if height < proposal.StartHeight || height >= proposal.EndHeight {
			return fmt.Errorf(
				"%w: height %d outside [%d, %d)",
				ErrProposalWindowExpired,
				height,
				proposal.StartHeight,
				proposal.EndHeight,
			)
		}
		if m.stakeOracle != nil {
			stakeWeight, err := m.stakeOracle.VoteWeight(voter)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidVote, err)
			}
			weight = stakeWeight
		}
		if weight == 0 {
			return fmt.Errorf("%w: weight must be positive", ErrInvalidVote)
		}
		_, err = m.db.GetVote(proposalId, voter, txn)
		if err == nil {
			return fmt.Errorf("%w: voter already voted", ErrAlreadyProcessed)
		}
		if !errors.Is(err, models.ErrVoteNotFound) {
			return fmt.Errorf("failed to check for existing vote: %w", err)
		}
		if err := m.db.SetVote(&models.Vote{
			ProposalID: proposalId,
			Voter:      voter,
			Choice:     choice,
			Weight:     weight,
		}, txn); err != nil {
			return err
		}
		if choice {
			proposal.YesWeight += weight
		} else {
			proposal.NoWeight += weight
		}
		finalWeight = weight
		return m.db.SetProposal(proposal, txn)
	})
	m.metrics.observe("vote", err)
	if err != nil {
		return err
	}
	m.logger.Info(
		"vote cast",
		"proposal_id", proposalId,
		"voter", voter,
		"choice", choice,
		"weight", finalWeight,
	)
	m.publish(event.VoteCastEventType, event.VoteCastEvent{
		Voter:      voter,
		ProposalID: proposalId,
		Weight:     finalWeight,
		Choice:     choice,
	})
	return nil
}

// ExecuteProposal applies a passed proposal after its voting window has
// closed. A proposal passes when yes outweighs no and the yes share of
// total cast weight meets the quorum percentage. Only the matching-fee
// parameter is a recognized target, and its value is capped at 100.
func (m *Matcher) ExecuteProposal(caller string, proposalId uint64) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	var targetParam string
	var targetValue, yesWeight, noWeight uint64
	txn := m.db.Transaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		proposal, err := m.db.GetProposal(proposalId, txn)
		if err != nil {
			return err
		}
		height, err := m.height()
		if err != nil {
			return err
		}
		if height < proposal.EndHeight {
			return fmt.Errorf(
				"%w: voting open until height %d",
				ErrProposalWindowExpired,
				proposal.EndHeight,
			)
		}
		if proposal.Executed {
			return fmt.Errorf(
				"%w: proposal already executed",
				ErrAlreadyProcessed,
			)
		}
		totalWeight := proposal.YesWeight + proposal.NoWeight
		if totalWeight == 0 || proposal.YesWeight <= proposal.NoWeight ||
			proposal.YesWeight*100/totalWeight < m.quorumPercent {
			return fmt.Errorf(
				"%w: yes=%d no=%d quorum=%d%%",
				ErrGovernanceQuorumNotMet,
				proposal.YesWeight,
				proposal.NoWeight,
				m.quorumPercent,
			)
		}
		if proposal.TargetParam != ParamMatchingFee {
			return fmt.Errorf(
				"%w: unrecognized target %q",
				ErrInvalidParameter,
				proposal.TargetParam,
			)
		}
		if proposal.TargetValue > MaxMatchingFee {
			return fmt.Errorf(
				"%w: matching fee %d exceeds %d",
				ErrInvalidParameter,
				proposal.TargetValue,
				MaxMatchingFee,
			)
		}
		state, err := m.db.GetEngineState(txn)
		if err != nil {
			return fmt.Errorf("failed to load engine state: %w", err)
		}
		state.MatchingFee = proposal.TargetValue
		if err := m.db.SetEngineState(state, txn); err != nil {
			return err
		}
		proposal.Executed = true
		if err := m.db.SetProposal(proposal, txn); err != nil {
			return err
		}
		targetParam = proposal.TargetParam
		targetValue = proposal.TargetValue
		yesWeight = proposal.YesWeight
		noWeight = proposal.NoWeight
		return nil
	})
	m.metrics.observe("execute_proposal", err)
	if err != nil {
		return err
	}
	m.logger.Info(
		"proposal executed",
		"proposal_id", proposalId,
		"target_param", targetParam,
		"target_value", targetValue,
	)
	m.publish(event.ProposalExecutedEventType, event.ProposalExecutedEvent{
		TargetParam: targetParam,
		ProposalID:  proposalId,
		TargetValue: targetValue,
		YesWeight:   yesWeight,
		NoWeight:    noWeight,
		Passed:      true,
	})
	return nil
}
