// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/Stephen-Collins-tech/hotspots-sub001/schema"
)

// GitClient defines the Git operations needed by history collection.
// This allows the core analysis logic to be tested without a real git executable.
type GitClient interface {
	// Run executes a git command and returns the combined output.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// --- Reference Resolution ---

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// ResolveCommit resolves a ref (branch, tag, short hash) to a full commit hash.
	ResolveCommit(ctx context.Context, repoPath string, ref string) (string, error)

	// GetCommitTime returns the committer time of the given ref.
	GetCommitTime(ctx context.Context, repoPath string, ref string) (time.Time, error)

	// GetCommitParents returns the parent hashes of the given ref.
	GetCommitParents(ctx context.Context, repoPath string, ref string) ([]string, error)

	// --- File State ---

	// ListFilesAtRef returns all tracked files in the repository at a reference.
	ListFilesAtRef(ctx context.Context, repoPath string, ref string) ([]string, error)

	// ReadFileAtRef returns the content of one file at a reference.
	ReadFileAtRef(ctx context.Context, repoPath string, ref string, path string) ([]byte, error)

	// --- History ---

	// GetFileDiffLog returns per-commit unified diffs for one file inside the
	// window, oldest first. Each entry carries the commit hash and time.
	GetFileDiffLog(ctx context.Context, repoPath string, path string, startTime, endTime time.Time) ([]FileCommitDiff, error)

	// GetCommitFileSets returns, for each commit in the window, the set of
	// files it touched. Used for co-change mining.
	GetCommitFileSets(ctx context.Context, repoPath string, startTime, endTime time.Time) ([]CommitFileSet, error)
}

// FileCommitDiff is the parsed diff of one file in one commit.
type FileCommitDiff struct {
	CommitSHA  string
	CommitTime time.Time
	Hunks      []DiffHunk
}

// DiffHunk is one hunk of a unified diff against the new side of the file.
type DiffHunk struct {
	NewStart     int // 1-based first line of the hunk in the new file
	NewLines     int
	LinesAdded   int
	LinesDeleted int
}

// CommitFileSet is the set of analyzable files touched by one commit.
type CommitFileSet struct {
	CommitSHA  string
	CommitTime time.Time
	Files      []string
}

// LanguageAdapter extracts functions, decision points, call sites and import
// references from one source file. Adapters are stateless and safe for
// concurrent use.
type LanguageAdapter interface {
	// Language returns the language this adapter handles.
	Language() schema.Language

	// Extensions returns the file extensions (with dot) this adapter claims.
	Extensions() []string

	// ExtractFile parses source and returns every analyzable unit in it.
	// A parse failure returns an error and the file is skipped, never fatal.
	ExtractFile(ctx context.Context, path string, source []byte) (*FileExtract, error)
}

// FileExtract is the adapter output for one source file.
type FileExtract struct {
	File      string
	Language  schema.Language
	Functions []FunctionExtract
	Imports   []string // Import strings as written in the source
}

// FunctionExtract is one analyzable unit before metric computation.
type FunctionExtract struct {
	Function       schema.Function
	DecisionPoints []schema.DecisionPoint
	Calls          []CallSite
	Body           string
	Unmodeled      int // Syntax nodes the adapter could not classify
}

// CallSite is one call expression inside a function body.
type CallSite struct {
	Callee   string // Name as written (possibly qualified, e.g. pkg.Fn or obj.method)
	Line     int
	Receiver string // Qualifier before the final name, empty for bare calls
}

// ImportResolver maps import strings to repo-relative file paths so that
// co-change pairs can be checked for a static dependency.
type ImportResolver interface {
	// Resolve returns the repo-relative files an import string refers to,
	// or nil when the import points outside the repository.
	Resolve(fromFile string, importStr string) []string
}

// CacheManager defines the interface for managing persistence stores.
type CacheManager interface {
	GetChurnStore() ChurnStore
	GetSnapshotStore() SnapshotStore
}

// ChurnStore caches per-function churn records keyed by function identity,
// content hash and analysis window. Entries are invalidated implicitly: a
// changed body changes the content hash and therefore the key.
type ChurnStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// SnapshotStore persists complete snapshots keyed by commit hash.
// Snapshots are immutable once stored.
type SnapshotStore interface {
	// Put stores a snapshot. Storing the same commit twice is an error.
	Put(snapshot *schema.Snapshot) error

	// Get loads the snapshot for a commit hash, or nil when absent.
	Get(commitSHA string) (*schema.Snapshot, error)

	// List returns stored commit hashes with timestamps, newest first.
	List() ([]schema.SnapshotMeta, error)

	// Delete removes one stored snapshot.
	Delete(commitSHA string) error

	GetStatus() (schema.CacheStatus, error)
	Close() error
}
