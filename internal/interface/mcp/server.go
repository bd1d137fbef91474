package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/YoshitsuguKoike/deetodo/internal/app"
	"github.com/YoshitsuguKoike/deetodo/internal/application/port/input"
	"github.com/YoshitsuguKoike/deetodo/internal/buildinfo"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/model"
	"github.com/YoshitsuguKoike/deetodo/internal/interface/mcp/tools"
)

// ServerName is reported to clients during initialization
const ServerName = "deetodo"

// Server exposes the task use cases as MCP tools
type Server struct {
	mcpServer *mcp.Server
	handler   *tools.Handler
	logger    app.Logger
}

// NewServer creates a new deetodo MCP server. A nil today uses the system date.
func NewServer(tasks input.TaskUseCase, today func() model.Date, logger app.Logger) *Server {
	if logger == nil {
		logger = app.GetLogger()
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    ServerName,
			Version: buildinfo.GetVersion(),
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		handler:   tools.NewHandler(tasks, today, logger),
		logger:    logger,
	}

	s.registerTools()
	return s
}

// registerTools adds all MCP tools to the server
func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, tools.AddTaskTool(), s.handler.HandleAddTask)
	mcp.AddTool(s.mcpServer, tools.CompleteTaskTool(), s.handler.HandleCompleteTask)
	mcp.AddTool(s.mcpServer, tools.ReopenTaskTool(), s.handler.HandleReopenTask)
	mcp.AddTool(s.mcpServer, tools.RemoveTaskTool(), s.handler.HandleRemoveTask)
	mcp.AddTool(s.mcpServer, tools.EditTaskTool(), s.handler.HandleEditTask)
	mcp.AddTool(s.mcpServer, tools.SetRecurrenceTool(), s.handler.HandleSetRecurrence)

	mcp.AddTool(s.mcpServer, tools.ListTasksTool(), s.handler.HandleListTasks)
	mcp.AddTool(s.mcpServer, tools.SearchTasksTool(), s.handler.HandleSearchTasks)
	mcp.AddTool(s.mcpServer, tools.GetTaskTool(), s.handler.HandleGetTask)
	mcp.AddTool(s.mcpServer, tools.ListTagsTool(), s.handler.HandleListTags)
	mcp.AddTool(s.mcpServer, tools.ListProjectsTool(), s.handler.HandleListProjects)
	mcp.AddTool(s.mcpServer, tools.DependenciesTool(), s.handler.HandleDependencies)
	mcp.AddTool(s.mcpServer, tools.StatsTool(), s.handler.HandleStats)
}

// MCPServer returns the underlying SDK server
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}

// Run serves over stdio until the client disconnects or ctx is done
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp: serving over stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
