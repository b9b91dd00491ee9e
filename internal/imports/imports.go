// Package imports maps import strings to repository files and maintains the
// file-level static dependency graph used by coupling classification.
package imports

import (
	"path"
	"sort"
	"strings"

	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/contract"
)

// Resolver resolves import strings against the snapshot's file set. It is
// built once per snapshot and is read-only afterwards, so concurrent use is
// safe.
type Resolver struct {
	files map[string]bool

	// byDir groups files by their containing directory, for Go package
	// imports which target a directory rather than a file.
	byDir map[string][]string

	// modulePrefix is the Go module path from go.mod, when present, so
	// absolute module-internal imports resolve without guessing.
	modulePrefix string
}

var _ contract.ImportResolver = &Resolver{}

// NewResolver builds a resolver over the repo-relative file list.
// goModContent may be nil when the repo has no go.mod at its root.
func NewResolver(files []string, goModContent []byte) *Resolver {
	r := &Resolver{
		files: make(map[string]bool, len(files)),
		byDir: make(map[string][]string),
	}
	for _, f := range files {
		r.files[f] = true
		dir := path.Dir(f)
		if dir == "." {
			dir = ""
		}
		r.byDir[dir] = append(r.byDir[dir], f)
	}
	r.modulePrefix = parseModulePath(goModContent)
	return r
}

// parseModulePath extracts the module directive from go.mod content.
func parseModulePath(content []byte) string {
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, "module "); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}

// Resolve returns the repo-relative files an import string refers to, or nil
// when the import points outside the repository.
func (r *Resolver) Resolve(fromFile string, importStr string) []string {
	switch {
	case strings.HasSuffix(fromFile, ".go"):
		return r.resolveGo(importStr)
	case strings.HasSuffix(fromFile, ".py"):
		return r.resolvePython(fromFile, importStr)
	default:
		return r.resolveECMA(fromFile, importStr)
	}
}

// resolveGo maps a Go import path to the files of the imported package
// directory. Module-internal imports strip the module prefix; otherwise the
// path's trailing segments are matched against repo directories.
func (r *Resolver) resolveGo(importStr string) []string {
	if r.modulePrefix != "" {
		if rest, ok := strings.CutPrefix(importStr, r.modulePrefix); ok {
			dir := strings.TrimPrefix(rest, "/")
			return r.goFilesIn(dir)
		}
		return nil
	}
	// No go.mod: try progressively shorter suffixes of the import path as
	// a repo directory.
	segs := strings.Split(importStr, "/")
	for i := 0; i < len(segs); i++ {
		dir := strings.Join(segs[i:], "/")
		if files := r.goFilesIn(dir); files != nil {
			return files
		}
	}
	return nil
}

func (r *Resolver) goFilesIn(dir string) []string {
	var out []string
	for _, f := range r.byDir[dir] {
		if strings.HasSuffix(f, ".go") && !strings.HasSuffix(f, "_test.go") {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}

// resolvePython maps a dotted module path to a file. Relative imports
// (leading dots) walk up from the importing file's package.
func (r *Resolver) resolvePython(fromFile, importStr string) []string {
	base := ""
	mod := importStr
	if strings.HasPrefix(importStr, ".") {
		dots := 0
		for dots < len(importStr) && importStr[dots] == '.' {
			dots++
		}
		mod = importStr[dots:]
		base = path.Dir(fromFile)
		for i := 1; i < dots; i++ {
			base = path.Dir(base)
		}
		if base == "." {
			base = ""
		}
	}

	rel := strings.ReplaceAll(mod, ".", "/")
	candidates := []string{
		path.Join(base, rel) + ".py",
		path.Join(base, rel, "__init__.py"),
	}
	// Absolute imports may also be rooted anywhere on the source path;
	// try the repo root form when the package-relative one misses.
	if base != "" {
		candidates = append(candidates, rel+".py", path.Join(rel, "__init__.py"))
	}
	for _, c := range candidates {
		if r.files[c] {
			return []string{c}
		}
	}
	return nil
}

var ecmaExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}

// resolveECMA maps a relative module specifier to a file, trying the usual
// extension and index-file conventions. Bare specifiers (packages) resolve
// to nothing inside the repo.
func (r *Resolver) resolveECMA(fromFile, importStr string) []string {
	if !strings.HasPrefix(importStr, ".") {
		return nil
	}
	target := path.Join(path.Dir(fromFile), importStr)

	if r.files[target] {
		return []string{target}
	}
	for _, ext := range ecmaExtensions {
		if r.files[target+ext] {
			return []string{target + ext}
		}
	}
	for _, ext := range ecmaExtensions {
		idx := path.Join(target, "index"+ext)
		if r.files[idx] {
			return []string{idx}
		}
	}
	return nil
}

// FileGraph is the resolved file-level dependency graph. Edges run from the
// importing file to each file its imports resolve to.
type FileGraph struct {
	edges map[string]map[string]bool
}

// BuildFileGraph resolves every extract's import list into file edges.
func BuildFileGraph(resolver contract.ImportResolver, extracts []*contract.FileExtract) *FileGraph {
	g := &FileGraph{edges: make(map[string]map[string]bool)}
	for _, fx := range extracts {
		for _, imp := range fx.Imports {
			for _, to := range resolver.Resolve(fx.File, imp) {
				if to == fx.File {
					continue
				}
				g.addEdge(fx.File, to)
			}
		}
	}
	return g
}

func (g *FileGraph) addEdge(from, to string) {
	if g.edges[from] == nil {
		g.edges[from] = make(map[string]bool)
	}
	g.edges[from][to] = true
}

// AddEdge records a file dependency discovered outside import parsing, such
// as a resolved cross-file call.
func (g *FileGraph) AddEdge(from, to string) {
	if from != to {
		g.addEdge(from, to)
	}
}

// HasDep reports whether a static dependency exists from a to b or from b
// to a, directly or transitively.
func (g *FileGraph) HasDep(a, b string) bool {
	return g.reaches(a, b) || g.reaches(b, a)
}

// reaches runs a DFS from from, looking for to.
func (g *FileGraph) reaches(from, to string) bool {
	seen := make(map[string]bool)
	stack := []string{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		for next := range g.edges[cur] {
			if next == to {
				return true
			}
			if !seen[next] {
				stack = append(stack, next)
			}
		}
	}
	return false
}

// Afferent and Efferent count module-boundary crossings for instability.
// moduleOf maps a file to its module key (usually top-level directory).

// CountCrossings tallies incoming and outgoing edges per module.
func (g *FileGraph) CountCrossings(moduleOf func(string) string) (afferent, efferent map[string]int) {
	afferent = make(map[string]int)
	efferent = make(map[string]int)
	for from, tos := range g.edges {
		mFrom := moduleOf(from)
		for to := range tos {
			mTo := moduleOf(to)
			if mFrom == mTo {
				continue
			}
			efferent[mFrom]++
			afferent[mTo]++
		}
	}
	return afferent, efferent
}

// ModuleOfFile returns the top-level directory of a repo-relative path, or
// "(root)" for files at the repository root. This is the default module
// granularity for instability reporting.
func ModuleOfFile(file string) string {
	if i := strings.IndexByte(file, '/'); i >= 0 {
		return file[:i]
	}
	return "(root)"
}
