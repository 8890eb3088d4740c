package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tsukasaI/fini/internal/adapters/outbound/tui"
	"github.com/tsukasaI/fini/internal/domain"
)

// registerTools registers all fini MCP tools on the given server.
func registerTools(s *server.MCPServer, p *project) {
	// 1. fini_normalize
	s.AddTool(
		mcplib.NewTool("fini_normalize",
			mcplib.WithDescription("Normalize a piece of text and return the result with every problem found. Uses the project config; arguments override it."),
			mcplib.WithString("content",
				mcplib.Required(),
				mcplib.Description("Text to normalize"),
			),
			mcplib.WithNumber("max_blank_lines", mcplib.Description("Maximum consecutive blank lines")),
			mcplib.WithNumber("max_line_length", mcplib.Description("Flag lines longer than this many characters")),
			mcplib.WithBoolean("fix_code_blocks", mcplib.Description("Remove markdown code fence lines")),
			mcplib.WithBoolean("keep_zero_width", mcplib.Description("Keep zero-width characters")),
			mcplib.WithBoolean("keep_leading_blanks", mcplib.Description("Keep leading blank lines")),
			mcplib.WithBoolean("strict_debug", mcplib.Description("Also flag console.error and eprintln!")),
			mcplib.WithBoolean("no_detect_todos", mcplib.Description("Do not flag TODO comments")),
			mcplib.WithBoolean("no_detect_fixmes", mcplib.Description("Do not flag FIXME comments")),
			mcplib.WithBoolean("no_detect_debug", mcplib.Description("Do not flag debug statements")),
			mcplib.WithBoolean("no_detect_secrets", mcplib.Description("Do not flag potential secrets")),
		),
		handleNormalize(p),
	)

	// 2. fini_check_file
	s.AddTool(
		mcplib.NewTool("fini_check_file",
			mcplib.WithDescription("Report what fini would change in a project file, without writing it"),
			mcplib.WithString("file",
				mcplib.Required(),
				mcplib.Description("Path to the file, relative to the project root"),
			),
		),
		handleFile(p, true),
	)

	// 3. fini_fix_file
	s.AddTool(
		mcplib.NewTool("fini_fix_file",
			mcplib.WithDescription("Normalize a project file in place and report what changed"),
			mcplib.WithString("file",
				mcplib.Required(),
				mcplib.Description("Path to the file, relative to the project root"),
			),
		),
		handleFile(p, false),
	)
}

type normalizeResult struct {
	Content  string               `json:"content"`
	Changed  bool                 `json:"changed"`
	Problems []domain.ProblemView `json:"problems"`
	Diff     string               `json:"diff,omitempty"`
}

func handleNormalize(p *project) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		content, err := request.RequireString("content")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		overrides, err := toolOverrides(request)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		fileCfg, _, err := p.config()
		if err != nil {
			return errorResult(fmt.Sprintf("loading config: %v", err)), nil
		}

		res, err := p.svc.NormalizeReader(strings.NewReader(content), domain.MergeNormalizeConfig(overrides, &fileCfg.Normalize))
		if err != nil {
			return errorResult(err.Error()), nil
		}

		return jsonResult(normalizeResult{
			Content:  res.Content,
			Changed:  res.HasChanges(),
			Problems: domain.NewProblemViews(res.Problems),
			Diff:     tui.UnifiedDiff("content", res.Original, res.Content),
		})
	}
}

type fileResult struct {
	domain.FileReport
	Diff string `json:"diff,omitempty"`
}

func handleFile(p *project, check bool) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		file, err := request.RequireString("file")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		abs, err := p.resolve(file)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		fileCfg, _, err := p.config()
		if err != nil {
			return errorResult(fmt.Sprintf("loading config: %v", err)), nil
		}

		report := p.svc.ProcessFile(abs, check, domain.MergeNormalizeConfig(domain.CLIOptions{}, &fileCfg.Normalize))
		if report.Status == domain.StatusError {
			return errorResult(report.Error), nil
		}
		report.Path = file

		result := fileResult{FileReport: report}
		if report.Result != nil {
			result.Diff = tui.UnifiedDiff(file, report.Result.Original, report.Result.Content)
		}
		return jsonResult(result)
	}
}

// toolOverrides reads the optional normalize arguments. Only arguments that
// are present override the project config.
func toolOverrides(request mcplib.CallToolRequest) (domain.CLIOptions, error) {
	args := request.GetArguments()
	var o domain.CLIOptions

	intArg := func(name string, lo int) (*int, error) {
		if _, ok := args[name]; !ok {
			return nil, nil
		}
		v := request.GetInt(name, 0)
		if v < lo {
			return nil, fmt.Errorf("%s must be >= %d, got %d", name, lo, v)
		}
		return &v, nil
	}
	boolArg := func(name string) *bool {
		if _, ok := args[name]; !ok {
			return nil
		}
		v := request.GetBool(name, false)
		return &v
	}

	var err error
	if o.MaxBlankLines, err = intArg("max_blank_lines", 0); err != nil {
		return o, err
	}
	if o.MaxLineLength, err = intArg("max_line_length", 1); err != nil {
		return o, err
	}
	o.FixCodeBlocks = boolArg("fix_code_blocks")
	o.KeepZeroWidth = boolArg("keep_zero_width")
	o.KeepLeadingBlanks = boolArg("keep_leading_blanks")
	o.StrictDebug = boolArg("strict_debug")
	o.NoDetectTodos = boolArg("no_detect_todos")
	o.NoDetectFixmes = boolArg("no_detect_fixmes")
	o.NoDetectDebug = boolArg("no_detect_debug")
	o.NoDetectSecrets = boolArg("no_detect_secrets")
	return o, nil
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
