// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/contract"
)

// NewMCPServer initializes and configures the risk analysis MCP server
// without starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Function Risk Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		client:  client,
		mgr:     mgr,
	}

	// --- 1. Tool: get_function_hotspots ---
	s.AddTool(mcp.NewTool("get_function_hotspots",
		mcp.WithDescription("Analyze a repository at a commit and return the highest-risk functions with their score drivers."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository (defaults to the configured repository).")),
		mcp.WithString("ref", mcp.Description("Commit, branch or tag to analyze. Defaults to HEAD.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleGetFunctionHotspots)

	// --- 2. Tool: get_file_hotspots ---
	s.AddTool(mcp.NewTool("get_file_hotspots",
		mcp.WithDescription("Analyze a repository at a commit and return per-file risk rollups."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository.")),
		mcp.WithString("ref", mcp.Description("Commit, branch or tag to analyze. Defaults to HEAD.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleGetFileHotspots)

	// --- 3. Tool: compare_snapshots ---
	s.AddTool(mcp.NewTool("compare_snapshots",
		mcp.WithDescription("Compare per-function risk between two Git references and return the delta, including rename hints and coupling changes."),
		mcp.WithString("base_ref", mcp.Description("The base reference for comparison."), mcp.Required()),
		mcp.WithString("target_ref", mcp.Description("The target reference for comparison. Defaults to HEAD.")),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository.")),
	), h.handleCompareSnapshots)

	// --- 4. Tool: get_coupling ---
	s.AddTool(mcp.NewTool("get_coupling",
		mcp.WithDescription("Mine co-change coupling between files and classify each pair against the static import graph."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository.")),
		mcp.WithString("ref", mcp.Description("Commit, branch or tag to analyze. Defaults to HEAD.")),
		mcp.WithNumber("min_co_changes", mcp.Description("Minimum times a pair must change together to be reported.")),
	), h.handleGetCoupling)

	// --- 5. Tool: list_snapshots ---
	s.AddTool(mcp.NewTool("list_snapshots",
		mcp.WithDescription("List stored analysis snapshots, newest first."),
	), h.handleListSnapshots)

	return s
}

// StartMCPServer starts the risk analysis MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, client, mgr)
	return server.ServeStdio(s)
}
