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

	"github.com/greenmatch-io/greenmatch/matcher"
)

// ProjectClient is the HTTP adapter for the project registry
// collaborator
type ProjectClient struct {
	client
}

// NewProjectClient creates a project registry client
func NewProjectClient(
	address AddressFunc,
	opts ...ClientOption,
) *ProjectClient {
	return &ProjectClient{client: newClient(address, opts...)}
}

type projectSequestrationResponse struct {
	Sequestration uint64 `json:"sequestration"`
}

type projectStatusResponse struct {
	Active   bool `json:"active"`
	Verified bool `json:"verified"`
}

type useCapacityRequest struct {
	Amount uint64 `json:"amount"`
}

// ProjectSequestration returns the verified sequestration capacity of
// a project
func (c *ProjectClient) ProjectSequestration(
	owner string,
	projectId string,
) (uint64, error) {
	var resp projectSequestrationResponse
	if err := c.getJSON(
		fmt.Sprintf(
			"/projects/%s/%s/sequestration",
			url.PathEscape(owner),
			url.PathEscape(projectId),
		),
		&resp,
	); err != nil {
		return 0, fmt.Errorf(
			"getting sequestration for project %s/%s: %w",
			owner,
			projectId,
			err,
		)
	}
	return resp.Sequestration, nil
}

// ProjectStatus returns the verification state of a project
func (c *ProjectClient) ProjectStatus(
	owner string,
	projectId string,
) (matcher.ProjectStatus, error) {
	var resp projectStatusResponse
	if err := c.getJSON(
		fmt.Sprintf(
			"/projects/%s/%s/status",
			url.PathEscape(owner),
			url.PathEscape(projectId),
		),
		&resp,
	); err != nil {
		return matcher.ProjectStatus{}, fmt.Errorf(
			"getting status for project %s/%s: %w",
			owner,
			projectId,
			err,
		)
	}
	return matcher.ProjectStatus{
		Active:   resp.Active,
		Verified: resp.Verified,
	}, nil
}

// UseProjectCapacity consumes offset capacity from a project. The
// registry rejects consumption beyond the verified capacity.
func (c *ProjectClient) UseProjectCapacity(
	owner string,
	projectId string,
	amount uint64,
) error {
	if err := c.postJSON(
		fmt.Sprintf(
			"/projects/%s/%s/use",
			url.PathEscape(owner),
			url.PathEscape(projectId),
		),
		useCapacityRequest{Amount: amount},
		nil,
	); err != nil {
		return fmt.Errorf(
			"using capacity for project %s/%s: %w",
			owner,
			projectId,
			err,
		)
	}
	return nil
}
