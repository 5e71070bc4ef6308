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

import "errors"

// Engine error kinds. Every mutating operation either succeeds or
// returns exactly one of these (possibly wrapped with context), with no
// observable state change.
var (
	// ErrUnauthorized is returned when the caller is not allowed to
	// perform the operation on the named record
	ErrUnauthorized = errors.New("caller not authorized")

	// ErrNotAdmin is returned when an admin-gated operation is invoked
	// by a caller other than the current admin
	ErrNotAdmin = errors.New("caller is not the admin")

	// ErrInvalidFlightReference is returned when the flight source
	// cannot resolve or mark the referenced flight
	ErrInvalidFlightReference = errors.New("invalid flight reference")

	// ErrInvalidProjectReference is returned when the project source
	// cannot resolve the referenced project
	ErrInvalidProjectReference = errors.New("invalid project reference")

	// ErrInsufficientCredits is returned when the credit ledger refuses
	// to burn the requested amount from the caller
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrDoubleCounting is returned when a match already exists for the
	// flight
	ErrDoubleCounting = errors.New("flight already matched")

	// ErrInvalidAmount is returned for a zero amount, an amount
	// exceeding reported emissions or capacity, or a refused capacity
	// consumption
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrContractPaused is returned when match creation is attempted
	// while the engine is paused
	ErrContractPaused = errors.New("engine is paused")

	// ErrAlreadyProcessed is returned on re-retire, re-dispute, re-vote
	// and re-execute attempts
	ErrAlreadyProcessed = errors.New("already processed")

	// ErrProjectNotVerified is returned when the project is not both
	// active and verified
	ErrProjectNotVerified = errors.New("project not active and verified")

	// ErrInvalidMetadata is returned when match metadata exceeds the
	// length limit
	ErrInvalidMetadata = errors.New("invalid metadata")

	// ErrGovernanceQuorumNotMet is returned when a proposal fails its
	// quorum check at execution time
	ErrGovernanceQuorumNotMet = errors.New("governance quorum not met")

	// ErrInvalidVote is returned for a vote with zero weight
	ErrInvalidVote = errors.New("invalid vote")

	// ErrProposalWindowExpired is returned for votes outside the voting
	// window and for execution before the window closes
	ErrProposalWindowExpired = errors.New("outside proposal voting window")

	// ErrInvalidParameter is returned for an unrecognized governance
	// target, an out-of-range target value, or malformed operation input
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrProofIssuance is returned when the proof issuer fails to mint
	ErrProofIssuance = errors.New("proof issuance failed")
)
