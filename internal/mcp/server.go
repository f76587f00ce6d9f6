package mcp

import (
	"github.com/codetome/linepack/internal/archive"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ServerConfig contains configuration for creating an MCP server
type ServerConfig struct {
	Name    string
	Version string
	PackSvc *archive.Service
}

// CreateServer creates and configures the MCP server
func CreateServer(cfg ServerConfig) *mcp.Server {
	s := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	if cfg.PackSvc != nil {
		archive.RegisterSearchTool(s, cfg.PackSvc)
		archive.RegisterReadTool(s, cfg.PackSvc)
		archive.RegisterStatsTool(s, cfg.PackSvc)
	}

	return s
}
