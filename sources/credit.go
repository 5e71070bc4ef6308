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

import "fmt"

// CreditClient is the HTTP adapter for the fungible credit ledger
// collaborator. Corresponds to POST /burn.
type CreditClient struct {
	client
}

// NewCreditClient creates a credit ledger client
func NewCreditClient(
	address AddressFunc,
	opts ...ClientOption,
) *CreditClient {
	return &CreditClient{client: newClient(address, opts...)}
}

type burnRequest struct {
	Sender string `json:"sender"`
	Amount uint64 `json:"amount"`
}

// Burn burns credits from a sender's balance
func (c *CreditClient) Burn(amount uint64, sender string) error {
	if err := c.postJSON(
		"/burn",
		burnRequest{Sender: sender, Amount: amount},
		nil,
	); err != nil {
		return fmt.Errorf("burning %d credits from %s: %w", amount, sender, err)
	}
	return nil
}
