// ABOUTME: MCP resources exposing the routes index and each route's content document.
// ABOUTME: URIs use the blocksite:// scheme: blocksite://routes and blocksite://routes/{name}.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/2389-research/blocksite/content"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const uriScheme = "blocksite://"

func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "routes",
		Name:        "routes",
		Description: "The routes index",
		MIMEType:    "application/json",
	}, s.handleRoutesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "routes/{name}",
		Name:        "route-document",
		Description: "Content document of a route",
		MIMEType:    "application/json",
	}, s.handleRouteDocumentResource)
}

func (s *Server) handleRoutesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(s.store.LoadRoutes(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding routes: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func (s *Server) handleRouteDocumentResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	name := extractRouteName(req.Params.URI)
	if name == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	blocks, err := s.store.LoadRouteBlocks(name)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	data, err := content.MarshalDocument(content.NewDocument(blocks))
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractRouteName returns the {name} segment of blocksite://routes/{name}.
func extractRouteName(uri string) string {
	const prefix = uriScheme + "routes/"
	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	name := strings.TrimPrefix(uri, prefix)
	if name == "" || strings.Contains(name, "/") {
		return ""
	}
	return name
}
