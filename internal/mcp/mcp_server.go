// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/retailops/auditpulse/schema"
)

// Dataset is the scored audit data the MCP tools serve from. It is built
// once at startup from the configured wave files.
type Dataset struct {
	Results   []schema.StoreWaveResult
	Hierarchy *schema.Hierarchy
	WaveKey   string
}

// NewMCPServer initializes and configures the AuditPulse MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(ds *Dataset) *server.MCPServer {
	s := server.NewMCPServer(
		"AuditPulse Reporting Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{ds: ds}

	// --- 1. Tool: get_store_scores ---
	s.AddTool(mcp.NewTool("get_store_scores",
		mcp.WithDescription("List scored stores for the latest wave, worst composite first."),
		mcp.WithString("region", mcp.Description("Filter stores by region name.")),
		mcp.WithString("site_code", mcp.Description("Return a single store by site code.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleGetStoreScores)

	// --- 2. Tool: get_hierarchy_rollup ---
	s.AddTool(mcp.NewTool("get_hierarchy_rollup",
		mcp.WithDescription("Aggregate composite scores at national, region or branch level."),
		mcp.WithString("level", mcp.Description("Hierarchy level to report. Defaults to all levels."), mcp.Enum("national", "region", "branch")),
	), h.handleGetHierarchyRollup)

	// --- 3. Tool: get_action_plan ---
	s.AddTool(mcp.NewTool("get_action_plan",
		mcp.WithDescription("Derive the ranked remedial action plan for one store."),
		mcp.WithString("site_code", mcp.Description("Site code of the store."), mcp.Required()),
	), h.handleGetActionPlan)

	// --- 4. Tool: get_qualitative_feedback ---
	s.AddTool(mcp.NewTool("get_qualitative_feedback",
		mcp.WithDescription("List annotated shopper feedback from the latest wave."),
		mcp.WithString("sentiment", mcp.Description("Filter by sentiment."), mcp.Enum("positive", "negative", "neutral")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of entries returned.")),
	), h.handleGetQualitativeFeedback)

	return s
}

// StartMCPServer starts the AuditPulse MCP server.
func StartMCPServer(_ context.Context, ds *Dataset) error {
	s := NewMCPServer(ds)
	return server.ServeStdio(s)
}
