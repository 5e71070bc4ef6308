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

package sources

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlightClient(t *testing.T) {
	var markCalls int
	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/flights/user1/fl-1/emissions":
				assert.Equal(t, http.MethodGet, r.Method)
				//nolint:errcheck,errchkjson
				json.NewEncoder(w).Encode(
					flightEmissionsResponse{Emissions: 1200},
				)
			case "/flights/user1/fl-1/offset":
				assert.Equal(t, http.MethodPost, r.Method)
				markCalls++
				if markCalls > 1 {
					// Registry rejects double marking
					http.Error(w, "already offset", http.StatusConflict)
					return
				}
				w.WriteHeader(http.StatusNoContent)
			default:
				http.NotFound(w, r)
			}
		}),
	)
	defer srv.Close()

	c := NewFlightClient(StaticAddress(srv.URL))
	emissions, err := c.FlightEmissions("user1", "fl-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1200), emissions)

	require.NoError(t, c.MarkFlightOffset("user1", "fl-1"))
	err = c.MarkFlightOffset("user1", "fl-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already offset")

	_, err = c.FlightEmissions("user1", "unknown")
	require.Error(t, err)
}

func TestProjectClient(t *testing.T) {
	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/projects/greenco/park-1/sequestration":
				//nolint:errcheck,errchkjson
				json.NewEncoder(w).Encode(
					projectSequestrationResponse{Sequestration: 5000},
				)
			case "/projects/greenco/park-1/status":
				//nolint:errcheck,errchkjson
				json.NewEncoder(w).Encode(
					projectStatusResponse{Active: true, Verified: true},
				)
			case "/projects/greenco/park-1/use":
				var req useCapacityRequest
				require.NoError(
					t,
					json.NewDecoder(r.Body).Decode(&req),
				)
				assert.Equal(t, uint64(300), req.Amount)
				w.WriteHeader(http.StatusNoContent)
			default:
				http.NotFound(w, r)
			}
		}),
	)
	defer srv.Close()

	c := NewProjectClient(StaticAddress(srv.URL))
	capacity, err := c.ProjectSequestration("greenco", "park-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(5000), capacity)

	status, err := c.ProjectStatus("greenco", "park-1")
	require.NoError(t, err)
	assert.True(t, status.Active)
	assert.True(t, status.Verified)

	require.NoError(t, c.UseProjectCapacity("greenco", "park-1", 300))
}

func TestCreditClient(t *testing.T) {
	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/burn", r.URL.Path)
			var req burnRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if req.Amount > 100 {
				http.Error(
					w,
					"balance too low",
					http.StatusUnprocessableEntity,
				)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		}),
	)
	defer srv.Close()

	c := NewCreditClient(StaticAddress(srv.URL))
	require.NoError(t, c.Burn(100, "user1"))

	err := c.Burn(101, "user1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "balance too low")
}

func TestProofClient(t *testing.T) {
	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/mint", r.URL.Path)
			var req mintRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "user1", req.Recipient)
			assert.Equal(t, "cafe", req.ContentHash)
			//nolint:errcheck,errchkjson
			json.NewEncoder(w).Encode(mintResponse{ProofID: "proof-9"})
		}),
	)
	defer srv.Close()

	c := NewProofClient(StaticAddress(srv.URL))
	proofId, err := c.Mint("user1", []byte{0xca, 0xfe}, "meta")
	require.NoError(t, err)
	assert.Equal(t, "proof-9", proofId)
}

func TestStakeClient(t *testing.T) {
	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/stake/alice", r.URL.Path)
			//nolint:errcheck,errchkjson
			json.NewEncoder(w).Encode(stakeResponse{Weight: 42})
		}),
	)
	defer srv.Close()

	c := NewStakeClient(StaticAddress(srv.URL))
	weight, err := c.VoteWeight("alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), weight)
}

func TestAddressFuncIndirection(t *testing.T) {
	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			//nolint:errcheck,errchkjson
			json.NewEncoder(w).Encode(stakeResponse{Weight: 1})
		}),
	)
	defer srv.Close()

	// Address updates take effect between calls
	addr := ""
	c := NewStakeClient(func() string { return addr })
	_, err := c.VoteWeight("alice")
	require.Error(t, err)

	addr = srv.URL
	_, err = c.VoteWeight("alice")
	require.NoError(t, err)
}
