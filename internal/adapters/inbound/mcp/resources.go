package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tsukasaI/fini/internal/domain"
	"github.com/tsukasaI/fini/internal/domain/normalize"
)

const configURI = "fini://config"

// registerResources registers all fini MCP resources on the given server.
func registerResources(s *server.MCPServer, p *project) {
	s.AddResource(
		mcplib.NewResource(
			configURI,
			"Effective Config",
			mcplib.WithResourceDescription("Normalize settings in effect for the project, after merging its config file over the defaults"),
			mcplib.WithMIMEType("application/json"),
		),
		handleConfigResource(p),
	)
}

type effectiveConfig struct {
	Path      string           `json:"path,omitempty"`
	Exclude   []string         `json:"exclude,omitempty"`
	Normalize normalize.Config `json:"normalize"`
}

func handleConfigResource(p *project) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		fileCfg, path, err := p.config()
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}

		data, err := json.MarshalIndent(effectiveConfig{
			Path:      path,
			Exclude:   fileCfg.Exclude,
			Normalize: domain.MergeNormalizeConfig(domain.CLIOptions{}, &fileCfg.Normalize),
		}, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling config: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      configURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}
