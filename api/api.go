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
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/net/netutil"
)

const defaultMaxConnections = 256

// CallerHeader carries the authenticated caller identity on mutating
// requests. Authentication itself happens upstream (reverse proxy or
// gateway); the engine only consumes the resolved identity.
const CallerHeader = "X-GreenMatch-Caller"

// Config is the API server configuration
type Config struct {
	ListenAddress  string
	MaxConnections int
}

// Api is the REST admin/query surface of the matching engine
type Api struct {
	config     Config
	logger     *slog.Logger
	engine     Engine
	httpServer *http.Server
	mu         sync.Mutex
}

// New creates a new API server instance
func New(cfg Config, engine Engine, logger *slog.Logger) *Api {
	if logger == nil {
		logger = slog.New(
			slog.NewJSONHandler(io.Discard, nil),
		)
	}
	logger = logger.With("component", "api")
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = ":8080"
	}
	if cfg.MaxConnections == 0 {
		cfg.MaxConnections = defaultMaxConnections
	}
	return &Api{
		config: cfg,
		logger: logger,
		engine: engine,
	}
}

// Start starts the HTTP server in a background goroutine
func (a *Api) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.httpServer != nil {
		a.mu.Unlock()
		return errors.New("server already started")
	}

	server := &http.Server{
		Addr:              a.config.ListenAddress,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 60 * time.Second,
	}
	a.httpServer = server
	a.mu.Unlock()

	// Start the server with deterministic error detection
	if err := a.startServer(server); err != nil {
		a.mu.Lock()
		a.httpServer = nil
		a.mu.Unlock()
		return err
	}

	a.logger.Info(
		"API listener started on " + a.config.ListenAddress,
	)

	// Monitor context for cancellation
	go func() {
		<-ctx.Done()
		a.mu.Lock()
		srv := a.httpServer
		a.httpServer = nil
		a.mu.Unlock()

		if srv != nil {
			a.logger.Debug(
				"context cancelled, shutting down API server",
			)
			//nolint:contextcheck
			shutdownCtx, cancel := context.WithTimeout(
				context.Background(),
				30*time.Second,
			)
			defer cancel()
			//nolint:contextcheck
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Error(
					"failed to shutdown API server on context cancellation",
					"error", err,
				)
			}
		}
	}()

	return nil
}

// Stop gracefully shuts down the HTTP server
func (a *Api) Stop(ctx context.Context) error {
	a.mu.Lock()
	srv := a.httpServer
	a.httpServer = nil
	a.mu.Unlock()

	if srv != nil {
		a.logger.Debug("shutting down API server")
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown API server: %w", err)
		}
	}
	return nil
}

// Handler returns the route mux for the API. Exposed separately so
// tests can drive it through httptest without a listener.
func (a *Api) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", a.handleRoot)
	mux.HandleFunc("GET /health", a.handleHealth)

	mux.HandleFunc("POST /api/v1/matches", a.handleCreateMatch)
	mux.HandleFunc("GET /api/v1/matches/{id}", a.handleGetMatch)
	mux.HandleFunc("POST /api/v1/matches/{id}/retire", a.handleRetireMatch)
	mux.HandleFunc(
		"GET /api/v1/matches/flight/{owner}/{flightId}",
		a.handleGetMatchByFlight,
	)
	mux.HandleFunc(
		"POST /api/v1/matches/{id}/dispute",
		a.handleOpenDispute,
	)
	mux.HandleFunc(
		"POST /api/v1/matches/{id}/dispute/resolve",
		a.handleResolveDispute,
	)
	mux.HandleFunc("GET /api/v1/matches/{id}/dispute", a.handleGetDispute)
	mux.HandleFunc(
		"GET /api/v1/matches/{id}/collaborators",
		a.handleGetMatchCollaborators,
	)
	mux.HandleFunc(
		"POST /api/v1/matches/{id}/collaborators",
		a.handleAddMatchCollaborator,
	)
	mux.HandleFunc("GET /api/v1/disputes", a.handleOpenDisputes)

	mux.HandleFunc("POST /api/v1/proposals", a.handleCreateProposal)
	mux.HandleFunc("GET /api/v1/proposals", a.handleOpenProposals)
	mux.HandleFunc("GET /api/v1/proposals/{id}", a.handleGetProposal)
	mux.HandleFunc("POST /api/v1/proposals/{id}/votes", a.handleVote)
	mux.HandleFunc(
		"GET /api/v1/proposals/{id}/votes/{voter}",
		a.handleGetVote,
	)
	mux.HandleFunc(
		"POST /api/v1/proposals/{id}/execute",
		a.handleExecuteProposal,
	)

	mux.HandleFunc(
		"GET /api/v1/projects/{owner}/{projectId}/usage",
		a.handleGetProjectUsage,
	)
	mux.HandleFunc(
		"GET /api/v1/projects/{owner}/{projectId}/matches",
		a.handleGetMatchesByProject,
	)
	mux.HandleFunc("GET /api/v1/totals", a.handleGetTotals)
	mux.HandleFunc("GET /api/v1/proofs/{hash}", a.handleGetProofReceipt)

	mux.HandleFunc("POST /api/v1/admin", a.handleSetAdmin)
	mux.HandleFunc("POST /api/v1/admin/pause", a.handlePause)
	mux.HandleFunc("POST /api/v1/admin/unpause", a.handleUnpause)
	mux.HandleFunc(
		"POST /api/v1/admin/collaborators",
		a.handleSetCollaborator,
	)
	return mux
}

// startServer starts the HTTP server with deterministic error
// detection. It binds the listening socket first so port conflicts are
// detected immediately, then serves in a background goroutine. The
// listener is capped to the configured connection limit.
func (a *Api) startServer(server *http.Server) error {
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen for API server: %w", err)
	}
	ln = netutil.LimitListener(ln, a.config.MaxConnections)
	go func() {
		if err := server.Serve(ln); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("API server error", "error", err)
		}
	}()
	return nil
}
