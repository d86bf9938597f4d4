package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailops/auditpulse/core/agg"
	mcp_internal "github.com/retailops/auditpulse/internal/mcp"
	"github.com/retailops/auditpulse/schema"
)

func testDataset() *mcp_internal.Dataset {
	wave := schema.Wave{Name: "Wave 3", Year: 2024}
	results := []schema.StoreWaveResult{
		{
			SiteCode:  "ST001",
			SiteName:  "Rawamangun",
			Region:    "JAKARTA",
			Branch:    "JAKARTA 1",
			Wave:      wave,
			Composite: 72.0,
			Sections: map[schema.Letter]schema.SectionScore{
				schema.SectionB: {Letter: schema.SectionB, Score: 60, Applicable: true, Positive: 3, Negative: 2},
			},
		},
		{
			SiteCode:  "ST002",
			SiteName:  "Kelapa Gading",
			Region:    "MEDAN",
			Branch:    "MEDAN 1",
			Wave:      wave,
			Composite: 95.0,
			Sections: map[schema.Letter]schema.SectionScore{
				schema.SectionB: {Letter: schema.SectionB, Score: 100, Applicable: true, Positive: 5},
			},
		},
	}
	h := agg.BuildHierarchy(results, []schema.Wave{wave})
	return &mcp_internal.Dataset{Results: results, Hierarchy: h, WaveKey: wave.Key()}
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func TestMCPServer_GetStoreScores(t *testing.T) {
	s := mcp_internal.NewMCPServer(testDataset())

	res := callTool(t, s, "get_store_scores", map[string]any{})
	require.False(t, res.IsError)

	var scores []map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &scores))
	require.Len(t, scores, 2)
	assert.Equal(t, "ST001", scores[0]["site_code"], "worst composite ranks first")
	assert.Equal(t, "At Risk", scores[0]["label"])
}

func TestMCPServer_GetStoreScores_UnknownSite(t *testing.T) {
	s := mcp_internal.NewMCPServer(testDataset())

	res := callTool(t, s, "get_store_scores", map[string]any{"site_code": "ST404"})
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "ST404")
}

func TestMCPServer_GetHierarchyRollup(t *testing.T) {
	s := mcp_internal.NewMCPServer(testDataset())

	res := callTool(t, s, "get_hierarchy_rollup", map[string]any{"level": "region"})
	require.False(t, res.IsError)

	var nodes []map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &nodes))
	require.Len(t, nodes, 2)
	assert.Equal(t, "JAKARTA", nodes[0]["name"])
	assert.Equal(t, "MEDAN", nodes[1]["name"])
}

func TestMCPServer_GetActionPlan(t *testing.T) {
	s := mcp_internal.NewMCPServer(testDataset())

	res := callTool(t, s, "get_action_plan", map[string]any{"site_code": "ST001"})
	require.False(t, res.IsError)

	var plan []map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &plan))
	assert.GreaterOrEqual(t, len(plan), 3, "plan always carries a minimum set of actions")
}

func TestMCPServer_GetActionPlan_UnknownSite(t *testing.T) {
	s := mcp_internal.NewMCPServer(testDataset())

	res := callTool(t, s, "get_action_plan", map[string]any{"site_code": "ST404"})
	assert.True(t, res.IsError)
}
