package archive

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// StatsArgument defines stats parameters.
type StatsArgument struct {
	Root string `json:"root,omitempty" jsonschema_description:"Limit the report to one source root path"`
}

// StatsHandler handles the pack stats MCP tool.
type StatsHandler struct {
	service *Service
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(service *Service) *StatsHandler {
	return &StatsHandler{
		service: service,
	}
}

// Handle reports per-root pack state from the manifest and indexes.
func (h *StatsHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args StatsArgument) (*mcp.CallToolResult, any, error) {
	manifest := h.service.GetManifest()
	rootIDs := manifest.GetRootIDs()

	if args.Root != "" {
		wanted := DisplayToRootID(args.Root)
		filtered := rootIDs[:0]
		for _, id := range rootIDs {
			if id == wanted {
				filtered = append(filtered, id)
			}
		}
		rootIDs = filtered
		if len(rootIDs) == 0 {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					&mcp.TextContent{Text: fmt.Sprintf("Root not found in pack: %s", args.Root)},
				},
				IsError: true,
			}, nil, nil
		}
	}

	if len(rootIDs) == 0 {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: "No roots have been packed yet"},
			},
		}, nil, nil
	}

	sort.Strings(rootIDs)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Pack status for %d root(s):\n\n", len(rootIDs)))

	for _, rootID := range rootIDs {
		state := manifest.GetRootState(rootID)

		sb.WriteString(fmt.Sprintf("### %s\n", RootIDToDisplay(rootID)))
		sb.WriteString(fmt.Sprintf("- **Files packed**: %d\n", state.FileCount))
		if original, estimated := state.Totals(); original > 0 && estimated > 0 {
			sb.WriteString(fmt.Sprintf("- **Original size**: %.2f KB\n", float64(original)/1024))
			sb.WriteString(fmt.Sprintf("- **Estimated packed size**: %.2f KB\n", float64(estimated)/1024))
			sb.WriteString(fmt.Sprintf("- **Ratio**: %.2fx\n", float64(original)/float64(estimated)))
		}
		if !state.LastPacked.IsZero() {
			sb.WriteString(fmt.Sprintf("- **Last packed**: %s\n", state.LastPacked.Format("2006-01-02 15:04:05 MST")))
		}
		if state.RunID != "" {
			sb.WriteString(fmt.Sprintf("- **Run ID**: %s\n", state.RunID))
		}
		if state.Error != "" {
			sb.WriteString(fmt.Sprintf("- **Last error**: %s\n", state.Error))
		}
		sb.WriteString("\n")
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: sb.String()},
		},
	}, nil, nil
}

// GetToolDefinition returns the MCP tool definition.
func (h *StatsHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "pack_stats",
		Description: "Report pack status per source root: file counts, last pack time, and errors",
	}
}

// RegisterStatsTool registers the stats tool with an MCP server.
func RegisterStatsTool(server *mcp.Server, service *Service) {
	handler := NewStatsHandler(service)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
