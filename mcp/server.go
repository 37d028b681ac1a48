// ABOUTME: Model Context Protocol server exposing the block store to MCP clients over stdio.
// ABOUTME: Tools list routes and read or replace a route's blocks; routes are also readable resources.
package mcp

import (
	"context"
	"errors"

	"github.com/2389-research/blocksite/logging"
	"github.com/2389-research/blocksite/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// Server is the MCP server for a block store.
type Server struct {
	store  *store.Store
	logger *zap.Logger
	server *mcp.Server
}

// NewServer creates an MCP server backed by st. version is reported to clients.
func NewServer(st *store.Store, version string, logger *zap.Logger) (*Server, error) {
	if st == nil {
		return nil, errors.New("store must not be nil")
	}

	impl := &mcp.Implementation{
		Name:    "blocksite",
		Version: version,
	}

	s := &Server{
		store:  st,
		logger: logging.OrNop(logger),
		server: mcp.NewServer(impl, nil),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run serves MCP over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
