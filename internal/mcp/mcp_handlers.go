package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Stephen-Collins-tech/hotspots-sub001/core"
	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/contract"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	client  contract.GitClient
	mgr     contract.CacheManager
}

// cloneWith applies the shared repo_path/ref arguments.
func (h *toolHandler) cloneWith(request mcp.CallToolRequest) *contract.Config {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("repo_path", ""); p != "" {
		cfg.RepoPath = p
	}
	if r := request.GetString("ref", ""); r != "" {
		cfg.Ref = r
	}
	return cfg
}

func (h *toolHandler) handleGetFunctionHotspots(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.cloneWith(request)
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}

	snap, err := core.NewAnalyzer(cfg, h.client, h.mgr).BuildSnapshot(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	ranked := core.RankFunctions(snap.Functions, cfg.ResultLimit)
	jsonData, _ := json.MarshalIndent(ranked, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetFileHotspots(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.cloneWith(request)
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}

	snap, err := core.NewAnalyzer(cfg, h.client, h.mgr).BuildSnapshot(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	files := snap.Files
	if cfg.ResultLimit > 0 && len(files) > cfg.ResultLimit {
		files = files[:cfg.ResultLimit]
	}
	jsonData, _ := json.MarshalIndent(files, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleCompareSnapshots(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.cloneWith(request)
	cfg.BaseRef = request.GetString("base_ref", "")
	cfg.TargetRef = request.GetString("target_ref", "HEAD")

	if cfg.BaseRef == "" {
		return mcp.NewToolResultError("base_ref is required"), nil
	}

	delta, err := core.NewAnalyzer(cfg, h.client, h.mgr).BuildDelta(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(delta, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetCoupling(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.cloneWith(request)
	if m := request.GetInt("min_co_changes", 0); m > 0 {
		cfg.CouplingMinCount = m
	}

	snap, err := core.NewAnalyzer(cfg, h.client, h.mgr).BuildSnapshot(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(snap.CoChange, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListSnapshots(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store := h.mgr.GetSnapshotStore()
	if store == nil {
		return mcp.NewToolResultError("no snapshot store configured"), nil
	}

	metas, err := store.List()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing snapshots failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(metas, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
