package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	dreamjournal "github.com/unowned-ai/dreamjournal/pkg"
	"github.com/unowned-ai/dreamjournal/pkg/journal"
)

type DreamMCPServer struct {
	mcpServer *server.MCPServer
	svc       *journal.Service
}

// NewDreamMCPServer builds an MCP server over svc with every journal tool
// registered.
func NewDreamMCPServer(svc *journal.Service) *DreamMCPServer {
	s := server.NewMCPServer(
		"Dream Journal MCP Server",
		dreamjournal.Version,
		server.WithLogging(),
		server.WithRecovery(),
	)
	RegisterTools(s, svc)
	return &DreamMCPServer{mcpServer: s, svc: svc}
}

// RegisterTools adds every journal tool to s.
func RegisterTools(s *server.MCPServer, svc *journal.Service) {
	RegisterPingTool(s)
	RegisterAnalyzeDreamTool(s, svc)
	RegisterRecordDreamTool(s, svc)
	RegisterRecordAudioDreamTool(s, svc)
	RegisterListDreamsTool(s, svc)
	RegisterGetDreamTool(s, svc)
	RegisterSearchDreamsTool(s, svc)
	RegisterDeleteDreamTool(s, svc)
	RegisterStatisticsTool(s, svc)
	RegisterInsightsTool(s, svc)
	RegisterKeywordsTool(s, svc)
	RegisterExportDreamsTool(s, svc)
	RegisterImportDreamsTool(s, svc)
}

// ToolNames lists the registered tools in registration order.
var ToolNames = []string{
	"ping", "analyze_dream", "record_dream", "record_audio_dream", "list_dreams", "get_dream",
	"search_dreams", "delete_dream", "dream_statistics", "dream_insights", "dream_keywords",
	"export_dreams", "import_dreams",
}

// Start runs the stdio event loop.
func (s *DreamMCPServer) Start() error {
	return server.ServeStdio(s.mcpServer)
}

// MCPRawServer exposes the raw mcp-go server.
func (s *DreamMCPServer) MCPRawServer() *server.MCPServer {
	return s.mcpServer
}
