package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/fwojciec/docsnap"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool names.
const (
	ToolSearch     = "docs_search"
	ToolFetch      = "docs_fetch"
	ToolGetPage    = "docs_get_page"
	ToolGetSection = "docs_get_section"
)

// SearchInput is the input schema for the docs_search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"free-text search query"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results, 1 to 20 (default 5)"`
}

// FetchInput is the input schema for the docs_fetch and docs_get_page tools.
type FetchInput struct {
	Route string `json:"route" jsonschema:"page route (e.g. /docs/intro) or full URL from a search result"`
}

// SectionInput is the input schema for the docs_get_section tool.
type SectionInput struct {
	Route     string `json:"route" jsonschema:"page route or full URL"`
	HeadingID string `json:"headingId" jsonschema:"heading anchor id (e.g. installation)"`
}

// searchInputSchema is the inferred SearchInput schema with limit bounded
// to the range the query service serves.
func searchInputSchema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[SearchInput](nil)
	if err != nil {
		return nil, err
	}
	limit, ok := schema.Properties["limit"]
	if !ok {
		return nil, docsnap.Errorf(docsnap.EINTERNAL, "search input schema has no limit property")
	}
	minimum, maximum := 1.0, float64(docsnap.MaxSearchLimit)
	limit.Minimum = &minimum
	limit.Maximum = &maximum
	return schema, nil
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() error {
	searchSchema, err := searchInputSchema()
	if err != nil {
		return fmt.Errorf("search input schema: %w", err)
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolSearch,
		Description: "Search the documentation. Returns ranked pages with snippets and matching section headings.",
		InputSchema: searchSchema,
	}, s.HandleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolFetch,
		Description: "Read a full documentation page with its table of contents.",
	}, s.HandleFetch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolGetPage,
		Description: "Alias of docs_fetch.",
	}, s.HandleFetch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolGetSection,
		Description: "Read one section of a page by heading id. Lists the available headings when the id is unknown.",
	}, s.HandleGetSection)
	return nil
}

// HandleSearch handles the docs_search tool invocation.
func (s *Server) HandleSearch(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, any, error) {
	results, err := s.query.Search(ctx, input.Query, input.Limit)
	if err != nil {
		return s.toolError(ToolSearch, err)
	}
	return textResult(docsnap.FormatSearchResults(input.Query, results)), nil, nil
}

// HandleFetch handles the docs_fetch and docs_get_page tool invocations.
func (s *Server) HandleFetch(ctx context.Context, _ *mcp.CallToolRequest, input FetchInput) (*mcp.CallToolResult, any, error) {
	doc, err := s.query.GetDocument(ctx, input.Route)
	if docsnap.ErrorCode(err) == docsnap.ENOTFOUND {
		return textResult(docsnap.FormatPageNotFound(input.Route)), nil, nil
	} else if err != nil {
		return s.toolError(ToolFetch, err)
	}
	return textResult(docsnap.FormatDocument(doc)), nil, nil
}

// HandleGetSection handles the docs_get_section tool invocation.
func (s *Server) HandleGetSection(ctx context.Context, _ *mcp.CallToolRequest, input SectionInput) (*mcp.CallToolResult, any, error) {
	section, err := s.query.GetSection(ctx, input.Route, input.HeadingID)

	var nf *docsnap.SectionNotFoundError
	switch {
	case errors.As(err, &nf):
		return textResult(docsnap.FormatSectionNotFound(nf)), nil, nil
	case docsnap.ErrorCode(err) == docsnap.ENOTFOUND:
		return textResult(docsnap.FormatPageNotFound(input.Route)), nil, nil
	case err != nil:
		return s.toolError(ToolGetSection, err)
	}
	return textResult(docsnap.FormatSection(section)), nil, nil
}

// toolError reports caller errors as a tool result and returns anything
// else as a handler error.
func (s *Server) toolError(tool string, err error) (*mcp.CallToolResult, any, error) {
	if docsnap.ErrorCode(err) == docsnap.EINVALID {
		s.logger.Debug("invalid tool call", "tool", tool, "err", err)
		result := textResult(docsnap.ErrorMessage(err))
		result.IsError = true
		return result, nil, nil
	}
	s.logger.Error("tool call failed", "tool", tool, "err", err)
	return nil, nil, err
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
