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

// Package sources provides HTTP client adapters for the external
// collaborators of the matching engine: the flight registry, the
// project registry, the credit ledger, the proof issuer and the stake
// oracle. Base URLs are resolved through an AddressFunc on every call
// so that admin updates to collaborator addresses take effect without
// re-wiring.
package sources

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxResponseBytes = 1 << 20

// AddressFunc resolves the current base URL of a collaborator
type AddressFunc func() string

// StaticAddress returns an AddressFunc for a fixed base URL
func StaticAddress(baseURL string) AddressFunc {
	return func() string {
		return baseURL
	}
}

// ClientOption is a functional option for configuring a collaborator
// client
type ClientOption func(*client)

// WithHTTPClient sets a custom *http.Client for the collaborator client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// client is the shared HTTP plumbing for all collaborator adapters
type client struct {
	address    AddressFunc
	httpClient *http.Client
}

func newClient(address AddressFunc, opts ...ClientOption) client {
	c := client{
		address: address,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c *client) url(path string) (string, error) {
	base := c.address()
	if base == "" {
		return "", errors.New("no collaborator address configured")
	}
	return strings.TrimRight(base, "/") + path, nil
}

// getJSON performs a GET and decodes the JSON response into out
func (c *client) getJSON(path string, out any) error {
	reqURL, err := c.url(path)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, out)
}

// postJSON performs a POST with a JSON body and optionally decodes the
// JSON response into out
func (c *client) postJSON(path string, body any, out any) error {
	reqURL, err := c.url(path)
	if err != nil {
		return err
	}
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}
	req, err := http.NewRequest(http.MethodPost, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.do(req, out)
}

func (c *client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf(
			"unexpected status %d: %s",
			resp.StatusCode,
			string(bodyBytes),
		)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(
		io.LimitReader(resp.Body, maxResponseBytes),
	).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
