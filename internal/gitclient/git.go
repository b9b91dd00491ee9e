// Package gitclient implements the version-control provider by executing
// the local 'git' binary installed on the machine.
package gitclient

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/sourcegraph/go-diff/diff"

	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/contract"
)

// commitDelimiter separates per-commit records in log output. Chosen to not
// collide with diff content.
const commitDelimiter = "\x1dCOMMIT\x1d"

// LocalGitClient implements contract.GitClient with the local git binary.
type LocalGitClient struct{}

var _ contract.GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout output.
func (c *LocalGitClient) Run(_ context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.Command("git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s. If this is not a Git repository, verify the path or run 'git init'", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// GetRepoRoot implements the GitClient interface.
func (c *LocalGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	out, err := c.Run(ctx, contextPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// ResolveCommit implements the GitClient interface.
func (c *LocalGitClient) ResolveCommit(ctx context.Context, repoPath string, ref string) (string, error) {
	out, err := c.Run(ctx, repoPath, "rev-parse", "--verify", ref+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("cannot resolve ref %q: %w", ref, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// GetCommitTime implements the GitClient interface.
func (c *LocalGitClient) GetCommitTime(ctx context.Context, repoPath string, ref string) (time.Time, error) {
	out, err := c.Run(ctx, repoPath, "log", "-n", "1", "--pretty=format:%cI", ref)
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, strings.TrimSpace(string(out)))
}

// GetCommitParents implements the GitClient interface.
func (c *LocalGitClient) GetCommitParents(ctx context.Context, repoPath string, ref string) ([]string, error) {
	out, err := c.Run(ctx, repoPath, "log", "-n", "1", "--pretty=format:%P", ref)
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(strings.TrimSpace(string(out)))
	return fields, nil
}

// ListFilesAtRef implements the GitClient interface.
func (c *LocalGitClient) ListFilesAtRef(ctx context.Context, repoPath string, ref string) ([]string, error) {
	out, err := c.Run(ctx, repoPath, "ls-tree", "-r", "--name-only", ref)
	if err != nil {
		return nil, err
	}
	files := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(files) == 1 && files[0] == "" {
		return []string{}, nil
	}
	return files, nil
}

// ReadFileAtRef implements the GitClient interface.
func (c *LocalGitClient) ReadFileAtRef(ctx context.Context, repoPath string, ref string, path string) ([]byte, error) {
	return c.Run(ctx, repoPath, "show", ref+":"+path)
}

// GetFileDiffLog implements the GitClient interface. It walks the commit
// history for one file inside the window, oldest first, and parses each
// commit's zero-context unified diff into hunk summaries.
func (c *LocalGitClient) GetFileDiffLog(ctx context.Context, repoPath string, path string, startTime, endTime time.Time) ([]contract.FileCommitDiff, error) {
	args := []string{
		"log",
		"--reverse",
		"--no-merges",
		"-p",
		"--unified=0",
		"--pretty=format:" + commitDelimiter + "%H|%cI",
	}
	if !startTime.IsZero() {
		args = append(args, "--since="+startTime.Format(time.RFC3339))
	}
	if !endTime.IsZero() {
		args = append(args, "--until="+endTime.Format(time.RFC3339))
	}
	args = append(args, "--", path)

	out, err := c.Run(ctx, repoPath, args...)
	if err != nil {
		return nil, err
	}
	return parseFileDiffLog(out)
}

// parseFileDiffLog splits delimited log -p output into per-commit diffs.
func parseFileDiffLog(out []byte) ([]contract.FileCommitDiff, error) {
	var results []contract.FileCommitDiff
	for _, record := range strings.Split(string(out), commitDelimiter) {
		record = strings.TrimSpace(record)
		if record == "" {
			continue
		}
		header, body, _ := strings.Cut(record, "\n")
		sha, timeStr, ok := strings.Cut(strings.TrimSpace(header), "|")
		if !ok {
			continue
		}
		commitTime, err := time.Parse(time.RFC3339, strings.TrimSpace(timeStr))
		if err != nil {
			return nil, fmt.Errorf("bad commit time %q: %w", timeStr, err)
		}
		fcd := contract.FileCommitDiff{
			CommitSHA:  sha,
			CommitTime: commitTime,
		}
		if idx := strings.Index(body, "diff --git"); idx >= 0 {
			fileDiffs, err := diff.NewMultiFileDiffReader(strings.NewReader(body[idx:])).ReadAllFiles()
			if err != nil {
				// A malformed diff for one commit skips that commit, not
				// the whole log.
				contract.LogWarn(fmt.Sprintf("unparseable diff at %s", sha), err)
			} else {
				for _, fd := range fileDiffs {
					for _, h := range fd.Hunks {
						fcd.Hunks = append(fcd.Hunks, summarizeHunk(h))
					}
				}
			}
		}
		results = append(results, fcd)
	}
	return results, nil
}

// summarizeHunk reduces a parsed hunk to its new-side span and line counts.
func summarizeHunk(h *diff.Hunk) contract.DiffHunk {
	out := contract.DiffHunk{
		NewStart: int(h.NewStartLine),
		NewLines: int(h.NewLines),
	}
	for _, line := range strings.Split(string(h.Body), "\n") {
		switch {
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			out.LinesAdded++
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			out.LinesDeleted++
		}
	}
	return out
}

// GetCommitFileSets implements the GitClient interface. Used for co-change
// mining: each record is one commit with the files it touched.
func (c *LocalGitClient) GetCommitFileSets(ctx context.Context, repoPath string, startTime, endTime time.Time) ([]contract.CommitFileSet, error) {
	args := []string{
		"log",
		"--no-merges",
		"--name-only",
		"--pretty=format:" + commitDelimiter + "%H|%cI",
	}
	if !startTime.IsZero() {
		args = append(args, "--since="+startTime.Format(time.RFC3339))
	}
	if !endTime.IsZero() {
		args = append(args, "--until="+endTime.Format(time.RFC3339))
	}

	out, err := c.Run(ctx, repoPath, args...)
	if err != nil {
		return nil, err
	}
	return parseCommitFileSets(out)
}

func parseCommitFileSets(out []byte) ([]contract.CommitFileSet, error) {
	var results []contract.CommitFileSet
	for _, record := range strings.Split(string(out), commitDelimiter) {
		record = strings.TrimSpace(record)
		if record == "" {
			continue
		}
		lines := strings.Split(record, "\n")
		sha, timeStr, ok := strings.Cut(strings.TrimSpace(lines[0]), "|")
		if !ok {
			continue
		}
		commitTime, err := time.Parse(time.RFC3339, strings.TrimSpace(timeStr))
		if err != nil {
			return nil, fmt.Errorf("bad commit time %q: %w", timeStr, err)
		}
		cfs := contract.CommitFileSet{
			CommitSHA:  sha,
			CommitTime: commitTime,
		}
		for _, l := range lines[1:] {
			l = strings.TrimSpace(l)
			if l != "" {
				cfs.Files = append(cfs.Files, l)
			}
		}
		results = append(results, cfs)
	}
	return results, nil
}
