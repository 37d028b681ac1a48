// ABOUTME: MCP tool handlers for listing routes and reading or saving a route's blocks.
// ABOUTME: Documents cross the wire as JSON text in the same shape as the content files.
package mcp

import (
	"context"
	"fmt"

	"github.com/2389-research/blocksite/content"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// ListRoutesInput is the (empty) input schema for list_routes.
type ListRoutesInput struct{}

// RouteOutput describes one entry of the routes index.
type RouteOutput struct {
	Path     string   `json:"path"`
	Name     string   `json:"name"`
	BlockIDs []string `json:"blockIds"`
}

// ListRoutesOutput is the output schema for list_routes.
type ListRoutesOutput struct {
	Routes []RouteOutput `json:"routes"`
}

// GetBlocksInput is the input schema for get_blocks.
type GetBlocksInput struct {
	Route       string `json:"route" jsonschema:"route name from the routes index, e.g. homepage"`
	WithDefault bool   `json:"with_default,omitempty" jsonschema:"substitute the seed content when the route has no blocks"`
}

// DocumentOutput carries a content document as pretty-printed JSON text.
type DocumentOutput struct {
	Route    string `json:"route"`
	Count    int    `json:"count"`
	Document string `json:"document"`
}

// SaveBlocksInput is the input schema for save_blocks.
type SaveBlocksInput struct {
	Route    string `json:"route" jsonschema:"route name from the routes index"`
	Document string `json:"document" jsonschema:"JSON text of a content document with a blocks array of id, type and props objects; blocks without an id get one"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_routes",
		Description: "List the routes index: URL path, route name, and content file for each page",
	}, s.handleListRoutes)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_blocks",
		Description: "Read the ordered blocks stored for a route",
	}, s.handleGetBlocks)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "save_blocks",
		Description: "Replace every block of a route with the given document",
	}, s.handleSaveBlocks)
}

func (s *Server) handleListRoutes(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListRoutesInput,
) (*mcp.CallToolResult, ListRoutesOutput, error) {
	routes := s.store.LoadRoutes()
	out := ListRoutesOutput{Routes: make([]RouteOutput, len(routes))}
	for i, r := range routes {
		ids := r.BlockIDs
		if ids == nil {
			ids = []string{}
		}
		out.Routes[i] = RouteOutput{Path: r.Path, Name: r.Name, BlockIDs: ids}
	}
	return nil, out, nil
}

func (s *Server) handleGetBlocks(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input GetBlocksInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	blocks, err := s.store.LoadRouteBlocks(input.Route)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	if input.WithDefault {
		blocks = s.store.DefaultIfEmpty(input.Route, blocks)
	}

	data, err := content.MarshalDocument(content.NewDocument(blocks))
	if err != nil {
		return nil, DocumentOutput{}, fmt.Errorf("encoding document: %w", err)
	}
	return nil, DocumentOutput{Route: input.Route, Count: len(blocks), Document: string(data)}, nil
}

func (s *Server) handleSaveBlocks(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SaveBlocksInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	doc, err := content.ParseDocument([]byte(input.Document))
	if err != nil {
		return nil, DocumentOutput{}, err
	}

	blocks := content.EnsureBlockIDs(doc.Blocks)
	if err := s.store.SaveBlocks(input.Route, blocks); err != nil {
		return nil, DocumentOutput{}, err
	}
	s.logger.Info("blocks saved via mcp", zap.String("route", input.Route), zap.Int("blocks", len(blocks)))

	data, err := content.MarshalDocument(content.NewDocument(blocks))
	if err != nil {
		return nil, DocumentOutput{}, fmt.Errorf("encoding document: %w", err)
	}
	return nil, DocumentOutput{Route: input.Route, Count: len(blocks), Document: string(data)}, nil
}
