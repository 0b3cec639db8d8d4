// Package mcp provides an MCP (Model Context Protocol) server for mvca.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/logging"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/ratelimit"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/store"
)

// Server wraps the MCP SDK server and exposes community tools.
type Server struct {
	server       *sdk.Server
	store        store.CommunityStore
	logger       *slog.Logger
	toolLimiters ratelimit.ToolLimiters
}

// Config holds server configuration.
type Config struct {
	Name    string        // Server name (e.g., "mvca")
	Version string        // Server version
	Backend store.Backend // Community store backend
	DataDir string        // Data directory (usually <root>/.mvca)
	Logger  *slog.Logger
}

// NewServer creates a new MCP server backed by the configured store.
func NewServer(cfg *Config) (*Server, error) {
	communityStore, err := store.Open(cfg.Backend, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open community store: %w", err)
	}

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &sdk.ServerOptions{
		Instructions: "Generate elite/mass communities, estimate the accuracy of their majority vote, and inspect their influence structure.",
	})

	s := &Server{
		server:       mcpServer,
		store:        communityStore,
		logger:       logging.OrDiscard(cfg.Logger),
		toolLimiters: ratelimit.NewToolLimiters(),
	}
	s.registerTools()

	return s, nil
}

// Run starts the MCP server over stdio transport.
// This blocks until the client disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	notifySignals(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	err := s.server.Run(ctx, &sdk.StdioTransport{})

	s.store.Close()
	return err
}

// Close closes the server and releases resources.
func (s *Server) Close() error {
	return s.store.Close()
}
