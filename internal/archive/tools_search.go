package archive

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/codetome/linepack/internal/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchArgument defines search parameters.
type SearchArgument struct {
	Query    string `json:"query" jsonschema_description:"Search query (supports wildcards and phrases)"`
	Root     string `json:"root,omitempty" jsonschema_description:"Filter by source root path (e.g., /home/user/src/project)"`
	Language string `json:"language,omitempty" jsonschema_description:"Filter by language (e.g., go, python, javascript)"`
}

// SearchHandler handles the search MCP tool.
type SearchHandler struct {
	service *Service
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(service *Service) *SearchHandler {
	return &SearchHandler{
		service: service,
	}
}

// Handle executes the search and returns formatted results.
func (h *SearchHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SearchArgument) (*mcp.CallToolResult, any, error) {
	if !h.service.IsReady() {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: "Search is not available. The source roots are still being packed. Please try again later."},
			},
			IsError: true,
		}, nil, nil
	}

	if strings.TrimSpace(args.Query) == "" {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: "Query cannot be empty"},
			},
			IsError: true,
		}, nil, nil
	}

	alias, err := h.service.GetIndexAlias()
	if err != nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to access indexes: %s", err)},
			},
			IsError: true,
		}, nil, nil
	}

	searchQuery := h.buildQuery(args)

	searchReq := bleve.NewSearchRequest(searchQuery)
	searchReq.Size = h.service.GetSettings().MaxResults
	searchReq.Fields = []string{domain.PackedFieldRoot, domain.PackedFieldFilePath, domain.PackedFieldLanguage, domain.PackedFieldContent}
	searchReq.Highlight = bleve.NewHighlight()
	searchReq.Highlight.AddField(domain.PackedFieldContent)

	results, err := alias.Search(searchReq)
	if err != nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Search failed: %s", err)},
			},
			IsError: true,
		}, nil, nil
	}

	return h.formatResults(results, args.Query), nil, nil
}

// buildQuery constructs a Bleve query from search arguments.
func (h *SearchHandler) buildQuery(args SearchArgument) query.Query {
	contentQuery := bleve.NewMatchQuery(args.Query)
	contentQuery.SetField(domain.PackedFieldContent)

	// Path matches rank higher than body matches
	pathQuery := bleve.NewMatchQuery(args.Query)
	pathQuery.SetField(domain.PackedFieldFilePath)
	pathQuery.SetBoost(3.0)

	searchQuery := bleve.NewDisjunctionQuery(contentQuery, pathQuery)

	if args.Root == "" && args.Language == "" {
		return searchQuery
	}

	must := []query.Query{searchQuery}

	if args.Root != "" {
		rootQuery := bleve.NewTermQuery(args.Root)
		rootQuery.SetField(domain.PackedFieldRoot)
		must = append(must, rootQuery)
	}

	if args.Language != "" {
		langQuery := bleve.NewTermQuery(strings.ToLower(args.Language))
		langQuery.SetField(domain.PackedFieldLanguage)
		must = append(must, langQuery)
	}

	return bleve.NewConjunctionQuery(must...)
}

// formatResults formats Bleve search results for MCP response.
func (h *SearchHandler) formatResults(results *bleve.SearchResult, queryStr string) *mcp.CallToolResult {
	if results.Total == 0 {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("No results found for query: %s", queryStr)},
			},
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d results for '%s':\n\n", results.Total, queryStr))

	for i, hit := range results.Hits {
		root := ""
		filePath := ""
		if val, ok := hit.Fields[domain.PackedFieldRoot].(string); ok {
			root = val
		}
		if val, ok := hit.Fields[domain.PackedFieldFilePath].(string); ok {
			filePath = val
		}

		sb.WriteString(fmt.Sprintf("### %d. %s:%s\n", i+1, root, filePath))
		sb.WriteString(fmt.Sprintf("**Score**: %.4f\n\n", hit.Score))

		if len(hit.Fragments) > 0 {
			if fragments, ok := hit.Fragments[domain.PackedFieldContent]; ok {
				sb.WriteString("```\n")
				for _, fragment := range fragments {
					sb.WriteString(fragment)
					sb.WriteString("\n")
				}
				sb.WriteString("```\n")
			}
		}

		sb.WriteString("\n")
	}

	if results.Total > uint64(len(results.Hits)) {
		sb.WriteString(fmt.Sprintf("... and %d more results\n", results.Total-uint64(len(results.Hits))))
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: sb.String()},
		},
	}
}

// GetToolDefinition returns the MCP tool definition.
func (h *SearchHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "search_pack",
		Description: "Search packed source roots using full-text search over reconstructed file content",
	}
}

// RegisterSearchTool registers the search tool with an MCP server.
func RegisterSearchTool(server *mcp.Server, service *Service) {
	handler := NewSearchHandler(service)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
