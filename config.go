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

package greenmatch

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/greenmatch-io/greenmatch/matcher"
	"github.com/prometheus/client_golang/prometheus"
)

type Config struct {
	promRegistry         prometheus.Registerer
	logger               *slog.Logger
	heightSource         matcher.HeightSource
	dataDir              string
	blobPlugin           string
	metadataPlugin       string
	initialAdmin         string
	flightSourceAddress  string
	projectSourceAddress string
	creditLedgerAddress  string
	proofIssuerAddress   string
	stakeOracleAddress   string
	quorumPercent        uint64
	proposalDuration     uint64
	shutdownTimeout      time.Duration
	apiMaxConnections    int
	tracing              bool
	tracingStdout        bool
	// API listen address (empty = disabled)
	apiListenAddress string
}

func (n *Node) configValidate() error {
	if n.config.quorumPercent > 100 {
		return fmt.Errorf(
			"invalid quorum percentage: %d",
			n.config.quorumPercent,
		)
	}
	if n.config.apiMaxConnections < 0 {
		return fmt.Errorf(
			"invalid API connection limit: %d",
			n.config.apiMaxConnections,
		)
	}
	return nil
}

// ConfigOptionFunc is a type that represents functions that modify the Node config
type ConfigOptionFunc func(*Config)

// NewConfig creates a new greenmatch config with the specified options
func NewConfig(opts ...ConfigOptionFunc) Config {
	c := Config{
		// Default logger will throw away logs
		// We do this so we don't have to add guards around every log operation
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	// Apply options
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithLogger specifies the logger to use. This defaults to discarding log output
func WithLogger(logger *slog.Logger) ConfigOptionFunc {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithDatabasePath specifies the persistent data directory to use. The default is to store everything in memory
func WithDatabasePath(dataDir string) ConfigOptionFunc {
	return func(c *Config) {
		c.dataDir = dataDir
	}
}

// WithBlobPlugin specifies the blob storage plugin to use.
func WithBlobPlugin(plugin string) ConfigOptionFunc {
	return func(c *Config) {
		c.blobPlugin = plugin
	}
}

// WithMetadataPlugin specifies the metadata storage plugin to use.
func WithMetadataPlugin(plugin string) ConfigOptionFunc {
	return func(c *Config) {
		c.metadataPlugin = plugin
	}
}

// WithPrometheusRegistry specifies a prometheus.Registerer instance to add metrics to. In most cases, prometheus.DefaultRegistry would be
// a good choice to get metrics working
func WithPrometheusRegistry(registry prometheus.Registerer) ConfigOptionFunc {
	return func(c *Config) {
		c.promRegistry = registry
	}
}

// WithInitialAdmin specifies the admin identity used when initializing
// a fresh engine state. It is ignored when the database already carries
// an engine state row
func WithInitialAdmin(admin string) ConfigOptionFunc {
	return func(c *Config) {
		c.initialAdmin = admin
	}
}

// WithQuorumPercent specifies the governance quorum as a percentage of
// total vote weight. The default is 51
func WithQuorumPercent(percent uint64) ConfigOptionFunc {
	return func(c *Config) {
		c.quorumPercent = percent
	}
}

// WithProposalDuration specifies the governance voting window length in
// heights. The default is 1440
func WithProposalDuration(duration uint64) ConfigOptionFunc {
	return func(c *Config) {
		c.proposalDuration = duration
	}
}

// WithHeightSource specifies the external height counter the engine
// reads. This defaults to a wall-clock derived source
func WithHeightSource(hs matcher.HeightSource) ConfigOptionFunc {
	return func(c *Config) {
		c.heightSource = hs
	}
}

// WithFlightSourceAddress specifies the bootstrap base URL for the
// flight registry collaborator. An address set through the admin API
// takes precedence once stored
func WithFlightSourceAddress(addr string) ConfigOptionFunc {
	return func(c *Config) {
		c.flightSourceAddress = addr
	}
}

// WithProjectSourceAddress specifies the bootstrap base URL for the
// project registry collaborator
func WithProjectSourceAddress(addr string) ConfigOptionFunc {
	return func(c *Config) {
		c.projectSourceAddress = addr
	}
}

// WithCreditLedgerAddress specifies the bootstrap base URL for the
// credit ledger collaborator
func WithCreditLedgerAddress(addr string) ConfigOptionFunc {
	return func(c *Config) {
		c.creditLedgerAddress = addr
	}
}

// WithProofIssuerAddress specifies the bootstrap base URL for the
// proof issuer collaborator
func WithProofIssuerAddress(addr string) ConfigOptionFunc {
	return func(c *Config) {
		c.proofIssuerAddress = addr
	}
}

// WithStakeOracleAddress specifies the bootstrap base URL for the stake
// oracle. When no oracle address is configured anywhere, votes use the
// caller-supplied weight
func WithStakeOracleAddress(addr string) ConfigOptionFunc {
	return func(c *Config) {
		c.stakeOracleAddress = addr
	}
}

// WithApiListenAddress specifies the listen
// address for the REST API server. An empty
// string disables the server. The default is
// empty (disabled).
func WithApiListenAddress(addr string) ConfigOptionFunc {
	return func(c *Config) {
		c.apiListenAddress = addr
	}
}

// WithApiMaxConnections specifies the maximum number of concurrent API
// connections. Default is 256
func WithApiMaxConnections(maxConns int) ConfigOptionFunc {
	return func(c *Config) {
		c.apiMaxConnections = maxConns
	}
}

// WithTracing enables tracing. By default, spans are submitted to a HTTP(s) endpoint using OTLP. This can be configured
// using the OTEL_EXPORTER_OTLP_* env vars documented in the README for [go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp]
func WithTracing(tracing bool) ConfigOptionFunc {
	return func(c *Config) {
		c.tracing = tracing
	}
}

// WithTracingStdout enables tracing output to stdout. This also requires tracing to enabled separately. This is mostly useful for debugging
func WithTracingStdout(stdout bool) ConfigOptionFunc {
	return func(c *Config) {
		c.tracingStdout = stdout
	}
}

// WithShutdownTimeout specifies the timeout for graceful shutdown. The default is 30 seconds
func WithShutdownTimeout(timeout time.Duration) ConfigOptionFunc {
	return func(c *Config) {
		c.shutdownTimeout = timeout
	}
}
