package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/retailops/auditpulse/core"
	"github.com/retailops/auditpulse/internal/contract"
	"github.com/retailops/auditpulse/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	ds *Dataset
}

func (h *toolHandler) handleGetStoreScores(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	region := request.GetString("region", "")
	siteCode := request.GetString("site_code", "")
	limit := request.GetInt("limit", 0)

	type scoredStore struct {
		Rank  int    `json:"rank"`
		Label string `json:"label"`
		schema.StoreWaveResult
	}

	var matched []schema.StoreWaveResult
	for _, r := range h.ds.Results {
		if siteCode != "" && r.SiteCode != siteCode {
			continue
		}
		if region != "" && r.Region != region {
			continue
		}
		matched = append(matched, r)
	}
	if siteCode != "" && len(matched) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("no store with site code %q in the loaded waves", siteCode)), nil
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Composite != matched[j].Composite {
			return matched[i].Composite < matched[j].Composite
		}
		return matched[i].SiteCode < matched[j].SiteCode
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	output := make([]scoredStore, len(matched))
	for i, r := range matched {
		output[i] = scoredStore{
			Rank:            i + 1,
			Label:           contract.GetPlainLabel(r.Composite),
			StoreWaveResult: r,
		}
	}

	jsonData, _ := json.MarshalIndent(output, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetHierarchyRollup(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	level := request.GetString("level", "")

	type rollupNode struct {
		Level  string  `json:"level"`
		Name   string  `json:"name"`
		Score  float64 `json:"score"`
		Label  string  `json:"label"`
		Stores int     `json:"stores"`
	}

	var nodes []rollupNode
	appendNode := func(lvl, name string, node schema.LevelNode) {
		agg, ok := node[h.ds.WaveKey]
		if !ok || agg.Count == 0 {
			return
		}
		mean := agg.Mean()
		nodes = append(nodes, rollupNode{
			Level:  lvl,
			Name:   name,
			Score:  mean,
			Label:  contract.GetPlainLabel(mean),
			Stores: agg.Count,
		})
	}

	if level == "" || level == "national" {
		appendNode("national", "NATIONAL", h.ds.Hierarchy.National)
	}
	if level == "" || level == "region" {
		for _, name := range sortedKeys(h.ds.Hierarchy.Regions) {
			appendNode("region", name, h.ds.Hierarchy.Regions[name])
		}
	}
	if level == "" || level == "branch" {
		for _, name := range sortedKeys(h.ds.Hierarchy.Branches) {
			appendNode("branch", name, h.ds.Hierarchy.Branches[name])
		}
	}

	jsonData, _ := json.MarshalIndent(nodes, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetActionPlan(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	siteCode := request.GetString("site_code", "")
	store, ok := h.ds.Hierarchy.Stores[siteCode]
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("no store with site code %q in the loaded waves", siteCode)), nil
	}

	national := h.ds.Hierarchy.National[h.ds.WaveKey]
	plan := core.DerivePlan(store, h.ds.WaveKey, national, h.ds.Hierarchy.Qualitative)

	jsonData, _ := json.MarshalIndent(plan, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetQualitativeFeedback(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sentiment := request.GetString("sentiment", "")
	limit := request.GetInt("limit", 0)

	var matched []schema.QualitativeEntry
	for _, entry := range h.ds.Hierarchy.Qualitative {
		if sentiment != "" && string(entry.Sentiment) != sentiment {
			continue
		}
		matched = append(matched, entry)
	}
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	jsonData, _ := json.MarshalIndent(matched, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func sortedKeys(m map[string]schema.LevelNode) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
