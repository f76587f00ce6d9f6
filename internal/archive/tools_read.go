package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/codetome/linepack/internal/codec"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ReadArgument defines read parameters.
type ReadArgument struct {
	Root string `json:"root" jsonschema_description:"Source root path (e.g., /home/user/src/project)"`
	Path string `json:"path" jsonschema_description:"File path relative to the source root"`
}

// ReadHandler handles the read MCP tool. It reads the stored container and
// returns the reconstructed text, never touching the original source tree.
type ReadHandler struct {
	service *Service
}

// NewReadHandler creates a new read handler.
func NewReadHandler(service *Service) *ReadHandler {
	return &ReadHandler{
		service: service,
	}
}

// Handle reads a packed file and returns its reconstructed content.
func (h *ReadHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ReadArgument) (*mcp.CallToolResult, any, error) {
	if !h.service.IsReady() {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: "Read is not available. The source roots are still being packed. Please try again later."},
			},
			IsError: true,
		}, nil, nil
	}

	if strings.TrimSpace(args.Root) == "" {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: "Root cannot be empty"},
			},
			IsError: true,
		}, nil, nil
	}

	if strings.TrimSpace(args.Path) == "" {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: "Path cannot be empty"},
			},
			IsError: true,
		}, nil, nil
	}

	if err := validatePath(args.Path); err != nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Invalid path: %s", err)},
			},
			IsError: true,
		}, nil, nil
	}

	rootID := DisplayToRootID(args.Root)
	containerPath := h.service.ContainerPath(rootID, filepath.Clean(args.Path))

	// Ensure the resolved path stays inside the root's pack directory
	packDir := filepath.Join(h.service.GetSettings().BaseDir, "packs", rootID)
	if !strings.HasPrefix(containerPath, packDir) {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: "Path traversal detected"},
			},
			IsError: true,
		}, nil, nil
	}

	if _, err := os.Stat(containerPath); os.IsNotExist(err) {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("File not found in pack: %s", args.Path)},
			},
			IsError: true,
		}, nil, nil
	}

	doc, err := ReadContainer(containerPath)
	if err != nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Error reading packed file: %s", err)},
			},
			IsError: true,
		}, nil, nil
	}

	records, err := codec.Decode(doc)
	if err != nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Error decoding packed file: %s", err)},
			},
			IsError: true,
		}, nil, nil
	}

	lines := make([]string, len(records))
	language := ""
	for i, rec := range records {
		lines[i] = rec.Text
		if language == "" && rec.Language != "" {
			language = rec.Language
		}
	}
	content := strings.Join(lines, "\n")

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**File**: `%s`\n", args.Path))
	sb.WriteString(fmt.Sprintf("**Root**: %s\n", args.Root))
	sb.WriteString(fmt.Sprintf("**Lines**: %d\n", len(records)))
	sb.WriteString(fmt.Sprintf("**Patterns**: %d exact, %d semantic\n\n",
		doc.Metadata.PatternCount, doc.Metadata.SemanticCount))
	sb.WriteString(fmt.Sprintf("```%s\n%s\n```", language, content))

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: sb.String()},
		},
	}, nil, nil
}

// validatePath performs security validation on the path.
func validatePath(path string) error {
	cleaned := filepath.Clean(path)

	if filepath.IsAbs(cleaned) {
		return fmt.Errorf("absolute paths are not allowed")
	}

	if strings.HasPrefix(cleaned, "..") || strings.Contains(cleaned, "/..") || strings.Contains(cleaned, "\\..") {
		return fmt.Errorf("path traversal is not allowed")
	}

	return nil
}

// GetToolDefinition returns the MCP tool definition.
func (h *ReadHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "read_packed",
		Description: "Read the reconstructed content of a file from the pack archive",
	}
}

// RegisterReadTool registers the read tool with an MCP server.
func RegisterReadTool(server *mcp.Server, service *Service) {
	handler := NewReadHandler(service)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
