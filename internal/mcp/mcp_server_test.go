package mcp_test

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/contract"
	mcp_internal "github.com/Stephen-Collins-tech/hotspots-sub001/internal/mcp"
	"github.com/Stephen-Collins-tech/hotspots-sub001/schema"
)

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	baseCfg := &contract.Config{
		RepoPath:         ".",
		Ref:              "HEAD",
		Workers:          1,
		ResultLimit:      10,
		ComputedWeights:  schema.GetDefaultWeights(),
		DriverPercentile: schema.DefaultDriverPercentile,
	}

	// Dummy collaborators; these tests only exercise validation paths that
	// fail before any analysis starts.
	var client contract.GitClient
	var mgr contract.CacheManager
	s := mcp_internal.NewMCPServer(baseCfg, client, mgr)

	ctx := context.Background()

	t.Run("compare_snapshots missing base_ref", func(t *testing.T) {
		tool := s.GetTool("compare_snapshots")
		require.NotNil(t, tool, "Tool compare_snapshots should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "compare_snapshots",
				Arguments: map[string]any{
					"base_ref": "", // Missing required
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "base_ref is required")
	})

	t.Run("all tools registered", func(t *testing.T) {
		for _, name := range []string{
			"get_function_hotspots",
			"get_file_hotspots",
			"compare_snapshots",
			"get_coupling",
			"list_snapshots",
		} {
			assert.NotNil(t, s.GetTool(name), "Tool %s should exist", name)
		}
	})
}
