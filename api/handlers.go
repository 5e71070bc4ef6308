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
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/greenmatch-io/greenmatch/database/models"
	"github.com/greenmatch-io/greenmatch/database/types"
	"github.com/greenmatch-io/greenmatch/matcher"
)

const apiVersion = "0.1.0"

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,errchkjson
	json.NewEncoder(w).Encode(v)
}

// writeError writes a standard error response
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{
		StatusCode: status,
		Error:      http.StatusText(status),
		Message:    message,
	})
}

// writeEngineError maps an engine error kind to an HTTP status
func (a *Api) writeEngineError(w http.ResponseWriter, err error) {
	writeError(w, statusForError(err), err.Error())
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, matcher.ErrUnauthorized),
		errors.Is(err, matcher.ErrNotAdmin):
		return http.StatusForbidden
	case errors.Is(err, matcher.ErrDoubleCounting),
		errors.Is(err, matcher.ErrAlreadyProcessed),
		errors.Is(err, matcher.ErrProposalWindowExpired):
		return http.StatusConflict
	case errors.Is(err, matcher.ErrInvalidAmount),
		errors.Is(err, matcher.ErrInvalidMetadata),
		errors.Is(err, matcher.ErrInvalidVote),
		errors.Is(err, matcher.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, matcher.ErrInvalidFlightReference),
		errors.Is(err, matcher.ErrInvalidProjectReference),
		errors.Is(err, matcher.ErrProjectNotVerified),
		errors.Is(err, matcher.ErrInsufficientCredits),
		errors.Is(err, matcher.ErrGovernanceQuorumNotMet):
		return http.StatusUnprocessableEntity
	case errors.Is(err, matcher.ErrContractPaused):
		return http.StatusServiceUnavailable
	case errors.Is(err, matcher.ErrProofIssuance):
		return http.StatusBadGateway
	case errors.Is(err, models.ErrMatchNotFound),
		errors.Is(err, models.ErrDisputeNotFound),
		errors.Is(err, models.ErrProposalNotFound),
		errors.Is(err, models.ErrVoteNotFound),
		errors.Is(err, types.ErrBlobKeyNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// caller extracts the authenticated caller identity from the request
// header; empty means unauthenticated
func caller(r *http.Request) string {
	return r.Header.Get(CallerHeader)
}

func requireCaller(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := caller(r)
	if id == "" {
		writeError(
			w,
			http.StatusUnauthorized,
			"missing "+CallerHeader+" header",
		)
		return "", false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}

func pathId(w http.ResponseWriter, r *http.Request, name string) (uint64, bool) {
	id, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed "+name)
		return 0, false
	}
	return id, true
}

func matchToResponse(match *models.Match) MatchResponse {
	return MatchResponse{
		FlightOwner:   match.FlightOwner,
		FlightID:      match.FlightID,
		ProjectOwner:  match.ProjectOwner,
		ProjectID:     match.ProjectID,
		ProofID:       match.ProofID,
		ContentHash:   hex.EncodeToString(match.ContentHash),
		Metadata:      match.Metadata,
		Status:        match.Status,
		MatchID:       match.MatchID,
		MatchedAmount: match.MatchedAmount,
		CreatedAt:     match.CreatedAtHeight,
	}
}

func disputeToResponse(dispute *models.Dispute) DisputeResponse {
	return DisputeResponse{
		Disputant:  dispute.Disputant,
		Reason:     dispute.Reason,
		Resolution: dispute.Resolution,
		MatchID:    dispute.MatchID,
		Resolved:   dispute.Resolved,
	}
}

func proposalToResponse(proposal *models.Proposal) ProposalResponse {
	return ProposalResponse{
		Proposer:    proposal.Proposer,
		Description: proposal.Description,
		TargetParam: proposal.TargetParam,
		ProposalID:  proposal.ProposalID,
		TargetValue: proposal.TargetValue,
		StartHeight: proposal.StartHeight,
		EndHeight:   proposal.EndHeight,
		YesWeight:   proposal.YesWeight,
		NoWeight:    proposal.NoWeight,
		Executed:    proposal.Executed,
	}
}

func (a *Api) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, RootResponse{
		Service: "greenmatch",
		Version: apiVersion,
	})
}

func (a *Api) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{IsHealthy: true})
}

func (a *Api) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req createMatchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	matchId, err := a.engine.CreateMatch(
		id,
		req.FlightID,
		req.ProjectOwner,
		req.ProjectID,
		req.Amount,
		req.Metadata,
	)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createMatchResponse{MatchID: matchId})
}

func (a *Api) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	matchId, ok := pathId(w, r, "id")
	if !ok {
		return
	}
	match, err := a.engine.Match(matchId)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matchToResponse(match))
}

func (a *Api) handleGetMatchByFlight(w http.ResponseWriter, r *http.Request) {
	match, err := a.engine.MatchByFlight(
		r.PathValue("owner"),
		r.PathValue("flightId"),
	)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matchToResponse(match))
}

func (a *Api) handleRetireMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := requireCaller(w, r)
	if !ok {
		return
	}
	matchId, ok := pathId(w, r, "id")
	if !ok {
		return
	}
	if err := a.engine.RetireMatch(id, matchId); err != nil {
		a.writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *Api) handleOpenDispute(w http.ResponseWriter, r *http.Request) {
	id, ok := requireCaller(w, r)
	if !ok {
		return
	}
	matchId, ok := pathId(w, r, "id")
	if !ok {
		return
	}
	var req openDisputeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := a.engine.OpenDispute(id, matchId, req.Reason); err != nil {
		a.writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *Api) handleResolveDispute(w http.ResponseWriter, r *http.Request) {
	id, ok := requireCaller(w, r)
	if !ok {
		return
	}
	matchId, ok := pathId(w, r, "id")
	if !ok {
		return
	}
	var req resolveDisputeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := a.engine.ResolveDispute(
		id,
		matchId,
		req.Resolution,
		req.Restore,
	); err != nil {
		a.writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *Api) handleGetDispute(w http.ResponseWriter, r *http.Request) {
	matchId, ok := pathId(w, r, "id")
	if !ok {
		return
	}
	dispute, err := a.engine.Dispute(matchId)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, disputeToResponse(dispute))
}

func (a *Api) handleOpenDisputes(w http.ResponseWriter, _ *http.Request) {
	disputes, err := a.engine.OpenDisputes()
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	ret := make([]DisputeResponse, 0, len(disputes))
	for i := range disputes {
		ret = append(ret, disputeToResponse(&disputes[i]))
	}
	writeJSON(w, http.StatusOK, ret)
}

func (a *Api) handleCreateProposal(w http.ResponseWriter, r *http.Request) {
	id, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req createProposalRequest
	if !decodeBody(w, r, &req) {
		return
	}
	proposalId, err := a.engine.CreateProposal(
		id,
		req.Description,
		req.TargetParam,
		req.TargetValue,
	)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(
		w,
		http.StatusCreated,
		createProposalResponse{ProposalID: proposalId},
	)
}

func (a *Api) handleGetProposal(w http.ResponseWriter, r *http.Request) {
	proposalId, ok := pathId(w, r, "id")
	if !ok {
		return
	}
	proposal, err := a.engine.Proposal(proposalId)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, proposalToResponse(proposal))
}

func (a *Api) handleOpenProposals(w http.ResponseWriter, _ *http.Request) {
	proposals, err := a.engine.OpenProposals()
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	ret := make([]ProposalResponse, 0, len(proposals))
	for i := range proposals {
		ret = append(ret, proposalToResponse(&proposals[i]))
	}
	writeJSON(w, http.StatusOK, ret)
}

func (a *Api) handleVote(w http.ResponseWriter, r *http.Request) {
	id, ok := requireCaller(w, r)
	if !ok {
		return
	}
	proposalId, ok := pathId(w, r, "id")
	if !ok {
		return
	}
	var req voteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := a.engine.Vote(
		id,
		proposalId,
		req.Choice,
		req.Weight,
	); err != nil {
		a.writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *Api) handleGetVote(w http.ResponseWriter, r *http.Request) {
	proposalId, ok := pathId(w, r, "id")
	if !ok {
		return
	}
	vote, err := a.engine.VoteOf(proposalId, r.PathValue("voter"))
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, VoteResponse{
		Voter:      vote.Voter,
		ProposalID: vote.ProposalID,
		Weight:     vote.Weight,
		Choice:     vote.Choice,
	})
}

func (a *Api) handleExecuteProposal(w http.ResponseWriter, r *http.Request) {
	id, ok := requireCaller(w, r)
	if !ok {
		return
	}
	proposalId, ok := pathId(w, r, "id")
	if !ok {
		return
	}
	if err := a.engine.ExecuteProposal(id, proposalId); err != nil {
		a.writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *Api) handleGetProjectUsage(w http.ResponseWriter, r *http.Request) {
	owner := r.PathValue("owner")
	projectId := r.PathValue("projectId")
	usage, err := a.engine.ProjectUsage(owner, projectId)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	if usage == nil {
		// Never matched; report zero usage
		writeJSON(w, http.StatusOK, UsageResponse{
			ProjectOwner: owner,
			ProjectID:    projectId,
		})
		return
	}
	writeJSON(w, http.StatusOK, UsageResponse{
		ProjectOwner: usage.ProjectOwner,
		ProjectID:    usage.ProjectID,
		UsedCapacity: usage.UsedCapacity,
		TotalMatched: usage.TotalMatched,
	})
}

func (a *Api) handleGetMatchesByProject(
	w http.ResponseWriter,
	r *http.Request,
) {
	matches, err := a.engine.MatchesByProject(
		r.PathValue("owner"),
		r.PathValue("projectId"),
	)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	ret := make([]MatchResponse, 0, len(matches))
	for i := range matches {
		ret = append(ret, matchToResponse(&matches[i]))
	}
	writeJSON(w, http.StatusOK, ret)
}

func (a *Api) handleGetTotals(w http.ResponseWriter, _ *http.Request) {
	totals, err := a.engine.Totals()
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TotalsResponse{
		Admin:                totals.Admin,
		FlightSourceAddress:  totals.FlightSourceAddress,
		ProjectSourceAddress: totals.ProjectSourceAddress,
		CreditLedgerAddress:  totals.CreditLedgerAddress,
		ProofIssuerAddress:   totals.ProofIssuerAddress,
		StakeOracleAddress:   totals.StakeOracleAddress,
		MatchCounter:         totals.MatchCounter,
		ProposalCounter:      totals.ProposalCounter,
		TotalMatched:         totals.TotalMatched,
		MatchingFee:          totals.MatchingFee,
		Paused:               totals.Paused,
	})
}

func (a *Api) handleGetProofReceipt(w http.ResponseWriter, r *http.Request) {
	contentHash, err := hex.DecodeString(r.PathValue("hash"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed content hash")
		return
	}
	receipt, err := a.engine.ProofReceipt(contentHash)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ProofReceiptResponse{
		ContentHash: hex.EncodeToString(receipt.ContentHash),
		ProofID:     receipt.ProofID,
		Recipient:   receipt.Recipient,
		MatchID:     receipt.MatchID,
		Amount:      receipt.Amount,
		Height:      receipt.Height,
	})
}

func (a *Api) handleSetAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req setAdminRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := a.engine.SetAdmin(id, req.NewAdmin); err != nil {
		a.writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *Api) handlePause(w http.ResponseWriter, r *http.Request) {
	id, ok := requireCaller(w, r)
	if !ok {
		return
	}
	if err := a.engine.Pause(id); err != nil {
		a.writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *Api) handleUnpause(w http.ResponseWriter, r *http.Request) {
	id, ok := requireCaller(w, r)
	if !ok {
		return
	}
	if err := a.engine.Unpause(id); err != nil {
		a.writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *Api) handleSetCollaborator(w http.ResponseWriter, r *http.Request) {
	id, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req setCollaboratorRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := a.engine.SetCollaborator(id, req.Kind, req.Address); err != nil {
		a.writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *Api) handleGetMatchCollaborators(
	w http.ResponseWriter,
	r *http.Request,
) {
	matchId, ok := pathId(w, r, "id")
	if !ok {
		return
	}
	collabs, err := a.engine.MatchCollaborators(matchId)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	ret := make([]MatchCollaboratorResponse, 0, len(collabs))
	for _, c := range collabs {
		ret = append(ret, MatchCollaboratorResponse{
			Collaborator: c.Collaborator,
			Role:         c.Role,
			Permissions:  c.Permissions,
			MatchID:      c.MatchID,
			AddedAt:      c.AddedAtHeight,
		})
	}
	writeJSON(w, http.StatusOK, ret)
}

func (a *Api) handleAddMatchCollaborator(
	w http.ResponseWriter,
	r *http.Request,
) {
	id, ok := requireCaller(w, r)
	if !ok {
		return
	}
	matchId, ok := pathId(w, r, "id")
	if !ok {
		return
	}
	var req addMatchCollaboratorRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := a.engine.AddMatchCollaborator(
		id,
		matchId,
		req.Collaborator,
		req.Role,
		req.Permissions,
	); err != nil {
		a.writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}
