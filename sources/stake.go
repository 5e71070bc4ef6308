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
	"fmt"
	"net/url"
)

// StakeClient is the HTTP adapter for the stake oracle collaborator.
// Corresponds to GET /stake/{voter}.
type StakeClient struct {
	client
}

// NewStakeClient creates a stake oracle client
func NewStakeClient(
	address AddressFunc,
	opts ...ClientOption,
) *StakeClient {
	return &StakeClient{client: newClient(address, opts...)}
}

type stakeResponse struct {
	Weight uint64 `json:"weight"`
}

// VoteWeight returns the governance vote weight of a voter
func (c *StakeClient) VoteWeight(voter string) (uint64, error) {
	var resp stakeResponse
	if err := c.getJSON(
		"/stake/"+url.PathEscape(voter),
		&resp,
	); err != nil {
		return 0, fmt.Errorf("getting stake for %s: %w", voter, err)
	}
	return resp.Weight, nil
}
