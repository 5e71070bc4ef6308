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

package matcher_test

import (
	"testing"

	"github.com/greenmatch-io/greenmatch/database"
	_ "github.com/greenmatch-io/greenmatch/database/plugin/blob/badger"
	"github.com/greenmatch-io/greenmatch/matcher"
	"github.com/stretchr/testify/require"
)

type mockFlightSource struct {
	emissions    uint64
	emissionsErr error
	markErr      error
	markCalls    int
}

func (f *mockFlightSource) FlightEmissions(
	owner string,
	flightId string,
) (uint64, error) {
	if f.emissionsErr != nil {
		return 0, f.emissionsErr
	}
	return f.emissions, nil
}

func (f *mockFlightSource) MarkFlightOffset(
	owner string,
	flightId string,
) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.markCalls++
	return nil
}

type mockProjectSource struct {
	capacity    uint64
	capacityErr error
	status      matcher.ProjectStatus
	statusErr   error
	useErr      error
	useCalls    int
}

func (p *mockProjectSource) ProjectSequestration(
	owner string,
	projectId string,
) (uint64, error) {
	if p.capacityErr != nil {
		return 0, p.capacityErr
	}
	return p.capacity, nil
}

func (p *mockProjectSource) ProjectStatus(
	owner string,
	projectId string,
) (matcher.ProjectStatus, error) {
	if p.statusErr != nil {
		return matcher.ProjectStatus{}, p.statusErr
	}
	return p.status, nil
}

func (p *mockProjectSource) UseProjectCapacity(
	owner string,
	projectId string,
	amount uint64,
) error {
	if p.useErr != nil {
		return p.useErr
	}
	p.useCalls++
	return nil
}

type mockCreditLedger struct {
	burnErr   error
	burned    uint64
	burnCalls int
}

func (c *mockCreditLedger) Burn(amount uint64, sender string) error {
	if c.burnErr != nil {
		return c.burnErr
	}
	c.burnCalls++
	c.burned += amount
	return nil
}

type mockProofIssuer struct {
	proofId   string
	mintErr   error
	mintCalls int
}

func (p *mockProofIssuer) Mint(
	recipient string,
	contentHash []byte,
	metadata string,
) (string, error) {
	if p.mintErr != nil {
		return "", p.mintErr
	}
	p.mintCalls++
	return p.proofId, nil
}

type mockStakeOracle struct {
	weight uint64
	err    error
}

func (s *mockStakeOracle) VoteWeight(voter string) (uint64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.weight, nil
}

type mockHeightSource struct {
	height uint64
	err    error
}

func (h *mockHeightSource) Height() (uint64, error) {
	if h.err != nil {
		return 0, h.err
	}
	return h.height, nil
}

type testHarness struct {
	m       *matcher.Matcher
	db      *database.Database
	flight  *mockFlightSource
	project *mockProjectSource
	credit  *mockCreditLedger
	proof   *mockProofIssuer
	stake   *mockStakeOracle
	height  *mockHeightSource
}

const testAdmin = "admin"

func setupTestMatcher(
	t *testing.T,
	opts ...func(*matcher.Config),
) *testHarness {
	t.Helper()
	db, err := database.New(database.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close() //nolint:errcheck
	})
	h := &testHarness{
		db: db,
		flight: &mockFlightSource{
			emissions: 1000,
		},
		project: &mockProjectSource{
			capacity: 2000,
			status:   matcher.ProjectStatus{Active: true, Verified: true},
		},
		credit: &mockCreditLedger{},
		proof:  &mockProofIssuer{proofId: "proof-1"},
		stake:  &mockStakeOracle{},
		height: &mockHeightSource{height: 100},
	}
	cfg := matcher.Config{
		Database:      db,
		FlightSource:  h.flight,
		ProjectSource: h.project,
		CreditLedger:  h.credit,
		ProofIssuer:   h.proof,
		HeightSource:  h.height,
		InitialAdmin:  testAdmin,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	h.m, err = matcher.New(cfg)
	require.NoError(t, err)
	return h
}
