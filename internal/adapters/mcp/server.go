// Package mcp exposes the environment operations as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"strings"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.trai.ch/warren/internal/core/domain"
	"go.trai.ch/warren/internal/core/ports"
	"go.trai.ch/zerr"
)

// ServerName is the implementation name announced to clients.
const ServerName = "warren"

// Tool names.
const (
	ToolCreate    = "create_venv"
	ToolDelete    = "delete_venv"
	ToolList      = "list_venvs"
	ToolDescribe  = "describe_venv"
	ToolInstall   = "install_packages"
	ToolUninstall = "uninstall_packages"
	ToolPackages  = "list_packages"
)

// Service is the set of operations published as tools.
type Service interface {
	Create(ctx context.Context, name, python string) (*domain.Report, error)
	Delete(ctx context.Context, name string, force bool) (*domain.Report, error)
	Details(ctx context.Context) (*domain.Report, error)
	Describe(ctx context.Context, name, text string) (*domain.Report, error)
	Install(ctx context.Context, name string, packages []string) (*domain.Report, error)
	Uninstall(ctx context.Context, name string, packages []string) (*domain.Report, error)
	Packages(ctx context.Context, name string) (*domain.Report, error)
}

// Server publishes a Service over MCP.
type Server struct {
	svc    Service
	logger ports.Logger
	mcp    *server.MCPServer
}

// NewServer creates a Server with every tool registered.
func NewServer(svc Service, logger ports.Logger, version string) *Server {
	s := &Server{
		svc:    svc,
		logger: logger,
		mcp: server.NewMCPServer(ServerName, version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
			server.WithInstructions("Manage isolated Python virtual environments and their packages."),
		),
	}
	s.registerTools()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// Serve answers requests read from in on out until ctx is cancelled or in is closed.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(log.New(logWriter{logger: s.logger}, "", 0))

	s.logger.Info("serving tools on stdio", "tools", len(s.mcp.ListTools()))
	if err := stdio.Listen(ctx, in, out); err != nil && ctx.Err() == nil {
		return zerr.Wrap(err, "tool server stopped")
	}
	return nil
}

func (s *Server) registerTools() {
	envOption := mcpgo.WithString("env",
		mcpgo.Description("Environment name. Defaults to the configured default environment."),
	)
	packagesOption := mcpgo.WithArray("packages",
		mcpgo.Required(),
		mcpgo.Description("Package specifiers, for example \"numpy==1.26.4\" or \"requests[socks]\"."),
		mcpgo.WithStringItems(),
	)

	s.mcp.AddTool(mcpgo.NewTool(ToolCreate,
		mcpgo.WithDescription("Create a virtual environment. Reports \"exists\" when it is already present."),
		mcpgo.WithString("name", mcpgo.Description("Environment name. Defaults to the configured default environment.")),
		mcpgo.WithString("python", mcpgo.Description("Interpreter version such as \"3.12\", or an interpreter command or path.")),
	), s.handle(ToolCreate, func(ctx context.Context, req mcpgo.CallToolRequest) (*domain.Report, error) {
		return s.svc.Create(ctx, req.GetString("name", ""), req.GetString("python", ""))
	}))

	s.mcp.AddTool(mcpgo.NewTool(ToolDelete,
		mcpgo.WithDescription("Delete a virtual environment. The default environment requires force."),
		mcpgo.WithDestructiveHintAnnotation(true),
		mcpgo.WithString("name", mcpgo.Description("Environment name. Defaults to the configured default environment.")),
		mcpgo.WithBoolean("force", mcpgo.Description("Confirm deletion of the default environment.")),
	), s.handle(ToolDelete, func(ctx context.Context, req mcpgo.CallToolRequest) (*domain.Report, error) {
		return s.svc.Delete(ctx, req.GetString("name", ""), req.GetBool("force", false))
	}))

	s.mcp.AddTool(mcpgo.NewTool(ToolList,
		mcpgo.WithDescription("List virtual environments with interpreter version, package count and description."),
		mcpgo.WithReadOnlyHintAnnotation(true),
	), s.handle(ToolList, func(ctx context.Context, _ mcpgo.CallToolRequest) (*domain.Report, error) {
		return s.svc.Details(ctx)
	}))

	s.mcp.AddTool(mcpgo.NewTool(ToolDescribe,
		mcpgo.WithDescription("Set the description of an existing virtual environment."),
		mcpgo.WithString("name", mcpgo.Required(), mcpgo.Description("Environment name.")),
		mcpgo.WithString("description", mcpgo.Required(), mcpgo.Description("Free-form description.")),
	), s.handle(ToolDescribe, func(ctx context.Context, req mcpgo.CallToolRequest) (*domain.Report, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return nil, invalidArgument(err)
		}
		text, err := req.RequireString("description")
		if err != nil {
			return nil, invalidArgument(err)
		}
		return s.svc.Describe(ctx, name, text)
	}))

	s.mcp.AddTool(mcpgo.NewTool(ToolInstall,
		mcpgo.WithDescription("Install packages, creating the environment when it does not exist."),
		packagesOption,
		envOption,
	), s.handle(ToolInstall, func(ctx context.Context, req mcpgo.CallToolRequest) (*domain.Report, error) {
		pkgs, err := req.RequireStringSlice("packages")
		if err != nil {
			return nil, invalidArgument(err)
		}
		return s.svc.Install(ctx, req.GetString("env", ""), pkgs)
	}))

	s.mcp.AddTool(mcpgo.NewTool(ToolUninstall,
		mcpgo.WithDescription("Uninstall packages from an existing environment."),
		mcpgo.WithDestructiveHintAnnotation(true),
		packagesOption,
		envOption,
	), s.handle(ToolUninstall, func(ctx context.Context, req mcpgo.CallToolRequest) (*domain.Report, error) {
		pkgs, err := req.RequireStringSlice("packages")
		if err != nil {
			return nil, invalidArgument(err)
		}
		return s.svc.Uninstall(ctx, req.GetString("env", ""), pkgs)
	}))

	s.mcp.AddTool(mcpgo.NewTool(ToolPackages,
		mcpgo.WithDescription("List the packages installed in an environment with their versions."),
		mcpgo.WithReadOnlyHintAnnotation(true),
		envOption,
	), s.handle(ToolPackages, func(ctx context.Context, req mcpgo.CallToolRequest) (*domain.Report, error) {
		return s.svc.Packages(ctx, req.GetString("env", ""))
	}))
}

type reportFunc func(ctx context.Context, req mcpgo.CallToolRequest) (*domain.Report, error)

// handle adapts fn to a tool handler. Reports are returned as JSON text and structured content;
// error reports and failures are flagged with isError.
func (s *Server) handle(tool string, fn reportFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
		s.logger.Debug("tool called", "tool", tool)

		report, err := fn(ctx, req)
		if err != nil {
			if !domain.IsInvalidInput(err) {
				s.logger.Error(err, "tool", tool)
			}
			return mcpgo.NewToolResultError(err.Error()), nil
		}

		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return nil, zerr.Wrap(err, "failed to encode report")
		}

		result := mcpgo.NewToolResultStructured(report, string(data))
		result.IsError = report.Status == domain.StatusError
		return result, nil
	}
}

func invalidArgument(err error) error {
	return zerr.Wrap(domain.ErrInvalidInput, err.Error())
}

// logWriter forwards the protocol server's own log lines to the application logger.
type logWriter struct {
	logger ports.Logger
}

func (w logWriter) Write(p []byte) (int, error) {
	w.logger.Warn(strings.TrimSpace(string(p)), "component", "mcp")
	return len(p), nil
}
