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
	"encoding/hex"
	"fmt"
)

// ProofClient is the HTTP adapter for the proof issuer collaborator.
// Corresponds to POST /mint.
type ProofClient struct {
	client
}

// NewProofClient creates a proof issuer client
func NewProofClient(
	address AddressFunc,
	opts ...ClientOption,
) *ProofClient {
	return &ProofClient{client: newClient(address, opts...)}
}

type mintRequest struct {
	Recipient   string `json:"recipient"`
	ContentHash string `json:"content_hash"`
	Metadata    string `json:"metadata,omitempty"`
}

type mintResponse struct {
	ProofID string `json:"proof_id"`
}

// Mint issues a proof token keyed by the content hash
func (c *ProofClient) Mint(
	recipient string,
	contentHash []byte,
	metadata string,
) (string, error) {
	var resp mintResponse
	if err := c.postJSON(
		"/mint",
		mintRequest{
			Recipient:   recipient,
			ContentHash: hex.EncodeToString(contentHash),
			Metadata:    metadata,
		},
		&resp,
	); err != nil {
		return "", fmt.Errorf("minting proof for %s: %w", recipient, err)
	}
	return resp.ProofID, nil
}
