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

// FlightClient is the HTTP adapter for the flight registry
// collaborator. Corresponds to GET /flights/{owner}/{id}/emissions and
// POST /flights/{owner}/{id}/offset.
type FlightClient struct {
	client
}

// NewFlightClient creates a flight registry client
func NewFlightClient(
	address AddressFunc,
	opts ...ClientOption,
) *FlightClient {
	return &FlightClient{client: newClient(address, opts...)}
}

type flightEmissionsResponse struct {
	Emissions uint64 `json:"emissions"`
}

// FlightEmissions returns the recorded emissions for a flight
func (c *FlightClient) FlightEmissions(
	owner string,
	flightId string,
) (uint64, error) {
	var resp flightEmissionsResponse
	if err := c.getJSON(
		fmt.Sprintf(
			"/flights/%s/%s/emissions",
			url.PathEscape(owner),
			url.PathEscape(flightId),
		),
		&resp,
	); err != nil {
		return 0, fmt.Errorf(
			"getting emissions for flight %s/%s: %w",
			owner,
			flightId,
			err,
		)
	}
	return resp.Emissions, nil
}

// MarkFlightOffset marks a flight as offset in the registry. The
// registry guards against double marking.
func (c *FlightClient) MarkFlightOffset(
	owner string,
	flightId string,
) error {
	if err := c.postJSON(
		fmt.Sprintf(
			"/flights/%s/%s/offset",
			url.PathEscape(owner),
			url.PathEscape(flightId),
		),
		nil,
		nil,
	); err != nil {
		return fmt.Errorf(
			"marking flight %s/%s offset: %w",
			owner,
			flightId,
			err,
		)
	}
	return nil
}
