package mcp

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tsukasaI/fini/internal/adapters/outbound/config"
	"github.com/tsukasaI/fini/internal/adapters/outbound/gitinfo"
	"github.com/tsukasaI/fini/internal/adapters/outbound/scanner"
	"github.com/tsukasaI/fini/internal/application"
	"github.com/tsukasaI/fini/internal/domain"
)

// NewFiniMCPServer creates an MCP server with all fini tools and resources
// registered. projectPath is the root that file arguments are resolved
// against and where the project config is looked up.
func NewFiniMCPServer(projectPath string) (*server.MCPServer, error) {
	p, err := newProject(projectPath)
	if err != nil {
		return nil, err
	}

	s := server.NewMCPServer(
		"fini",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, p)
	registerResources(s, p)

	return s, nil
}

// project binds the MCP handlers to one directory. Stdout belongs to the
// protocol, so the logger is discarded.
type project struct {
	root     string
	realRoot string
	loader   *config.Loader
	svc      *application.RunService
}

func newProject(path string) (*project, error) {
	root, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	return &project{
		root:     root,
		realRoot: realRoot,
		loader:   config.New(),
		svc:      application.NewRunService(scanner.New(gitinfo.New()), log.New(io.Discard)),
	}, nil
}

// config loads the project config fresh on every call so edits are picked
// up without restarting the server.
func (p *project) config() (domain.FileConfig, string, error) {
	return p.loader.LoadFrom(p.root)
}

// resolve maps a project-relative path to an absolute one, refusing paths
// that escape the project root either lexically or through a symlink.
func (p *project) resolve(rel string) (string, error) {
	abs := filepath.Clean(filepath.Join(p.root, rel))
	if filepath.IsAbs(rel) {
		abs = filepath.Clean(rel)
	}
	if !within(p.root, abs) {
		return "", fmt.Errorf("%s is outside the project root", rel)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", rel, err)
		}
		return "", fmt.Errorf("resolving %s: %w", rel, err)
	}
	if !within(p.realRoot, resolved) {
		return "", fmt.Errorf("%s is outside the project root", rel)
	}
	return resolved, nil
}

func within(root, path string) bool {
	r, err := filepath.Rel(root, path)
	return err == nil && r != ".." && !strings.HasPrefix(r, ".."+string(filepath.Separator))
}
