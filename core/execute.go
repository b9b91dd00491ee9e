// Package core has core logic for extraction, scoring and ranking.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/contract"
	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/gitclient"
	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/outwriter"
	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/parquet"
	"github.com/Stephen-Collins-tech/hotspots-sub001/schema"
)

// ExecutorFunc defines the function signature for executing different analysis views.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// ExecuteFunctions runs the full analysis and prints the ranked function view.
// It serves as the main entry point for the 'functions' command.
func ExecuteFunctions(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	analyzer := NewAnalyzer(cfg, gitclient.NewLocalGitClient(), mgr)
	snapshot, err := analyzer.BuildSnapshot(ctx)
	if err != nil {
		return err
	}
	ranked := RankFunctions(snapshot.Functions, cfg.ResultLimit)
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteFunctions(ranked, cfg, duration)
}

// ExecuteFiles runs the full analysis and prints the ranked file view.
func ExecuteFiles(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	analyzer := NewAnalyzer(cfg, gitclient.NewLocalGitClient(), mgr)
	snapshot, err := analyzer.BuildSnapshot(ctx)
	if err != nil {
		return err
	}
	ranked := RankFiles(snapshot.Files, cfg.ResultLimit)
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteFiles(ranked, cfg, duration)
}

// ExecuteModules runs the full analysis and prints module instability results.
func ExecuteModules(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	analyzer := NewAnalyzer(cfg, gitclient.NewLocalGitClient(), mgr)
	snapshot, err := analyzer.BuildSnapshot(ctx)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteModules(snapshot.Modules, cfg)
}

// ExecuteCoupling runs the full analysis and prints co-change coupling pairs.
func ExecuteCoupling(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	analyzer := NewAnalyzer(cfg, gitclient.NewLocalGitClient(), mgr)
	snapshot, err := analyzer.BuildSnapshot(ctx)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteCoupling(snapshot.CoChange, cfg)
}

// ExecuteSnapshot builds a snapshot for the configured ref, persists it when
// a store is available, and prints a summary.
func ExecuteSnapshot(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	analyzer := NewAnalyzer(cfg, gitclient.NewLocalGitClient(), mgr)
	snapshot, err := analyzer.SnapshotAtRef(ctx, cfg.Ref)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteSnapshot(snapshot, cfg, duration)
}

// ExecuteDelta builds snapshots for the base and target refs and prints the
// per-function, per-file and coupling deltas between them.
func ExecuteDelta(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	analyzer := NewAnalyzer(cfg, gitclient.NewLocalGitClient(), mgr)
	delta, err := analyzer.BuildDelta(ctx)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteDelta(delta, cfg, duration)
}

// ExecuteMetrics prints the scoring factor definitions and active weights.
// No Git analysis is performed.
func ExecuteMetrics(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	weights := cfg.ComputedWeights
	if len(weights) == 0 {
		weights = schema.GetDefaultWeights()
	}
	return outwriter.NewOutWriter().WriteMetrics(weights, cfg)
}

// ExecuteSnapshotExport builds (or loads) the snapshot for the configured ref
// and writes its function and coupling rows to Parquet files next to the
// requested output path.
func ExecuteSnapshotExport(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	if cfg.OutputFile == "" {
		return errors.New("--output-file is required for export")
	}

	analyzer := NewAnalyzer(cfg, gitclient.NewLocalGitClient(), mgr)
	snapshot, err := analyzer.SnapshotAtRef(ctx, cfg.Ref)
	if err != nil {
		return err
	}

	functionRows := parquet.FunctionRows(snapshot)
	functionsFile := cfg.OutputFile + ".functions.parquet"
	if err := parquet.WriteFunctionRowsParquet(functionRows, functionsFile); err != nil {
		return fmt.Errorf("failed to write function rows: %w", err)
	}
	fmt.Printf("Exported %d function rows to: %s\n", len(functionRows), functionsFile)

	couplingRows := parquet.CouplingRows(snapshot)
	couplingFile := cfg.OutputFile + ".coupling.parquet"
	if err := parquet.WriteCouplingRowsParquet(couplingRows, couplingFile); err != nil {
		return fmt.Errorf("failed to write coupling rows: %w", err)
	}
	fmt.Printf("Exported %d coupling rows to: %s\n", len(couplingRows), couplingFile)

	return nil
}
