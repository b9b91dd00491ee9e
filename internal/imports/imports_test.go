package imports

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/contract"
)

func TestResolveGoWithModulePath(t *testing.T) {
	files := []string{
		"go.mod",
		"internal/store/store.go",
		"internal/store/store_test.go",
		"cmd/app/main.go",
	}
	gomod := []byte("module example.com/proj\n\ngo 1.25\n")
	r := NewResolver(files, gomod)

	got := r.Resolve("cmd/app/main.go", "example.com/proj/internal/store")
	assert.Equal(t, []string{"internal/store/store.go"}, got)

	assert.Nil(t, r.Resolve("cmd/app/main.go", "fmt"))
	assert.Nil(t, r.Resolve("cmd/app/main.go", "github.com/other/dep"))
}

func TestResolveGoWithoutModulePath(t *testing.T) {
	files := []string{"pkg/util/util.go", "main.go"}
	r := NewResolver(files, nil)

	got := r.Resolve("main.go", "anything.invalid/proj/pkg/util")
	assert.Equal(t, []string{"pkg/util/util.go"}, got)
}

func TestResolvePython(t *testing.T) {
	files := []string{
		"app/core/engine.py",
		"app/core/__init__.py",
		"app/helpers.py",
		"tools/run.py",
	}
	r := NewResolver(files, nil)

	assert.Equal(t, []string{"app/helpers.py"}, r.Resolve("tools/run.py", "app.helpers"))
	assert.Equal(t, []string{"app/core/__init__.py"}, r.Resolve("tools/run.py", "app.core"))
	assert.Equal(t, []string{"app/core/engine.py"}, r.Resolve("app/helpers.py", ".core.engine"))
	assert.Equal(t, []string{"app/helpers.py"}, r.Resolve("app/core/engine.py", "..helpers"))
	assert.Nil(t, r.Resolve("tools/run.py", "os.path"))
}

func TestResolveECMA(t *testing.T) {
	files := []string{
		"src/index.ts",
		"src/util.ts",
		"src/widgets/index.tsx",
		"src/legacy.js",
	}
	r := NewResolver(files, nil)

	assert.Equal(t, []string{"src/util.ts"}, r.Resolve("src/index.ts", "./util"))
	assert.Equal(t, []string{"src/widgets/index.tsx"}, r.Resolve("src/index.ts", "./widgets"))
	assert.Equal(t, []string{"src/legacy.js"}, r.Resolve("src/widgets/index.tsx", "../legacy"))
	assert.Nil(t, r.Resolve("src/index.ts", "react"))
}

func TestFileGraphTransitiveDep(t *testing.T) {
	files := []string{"a.py", "b.py", "c.py", "d.py"}
	r := NewResolver(files, nil)
	extracts := []*contract.FileExtract{
		{File: "a.py", Imports: []string{"b"}},
		{File: "b.py", Imports: []string{"c"}},
		{File: "d.py", Imports: nil},
	}
	g := BuildFileGraph(r, extracts)

	assert.True(t, g.HasDep("a.py", "b.py"))
	assert.True(t, g.HasDep("b.py", "a.py")) // either direction counts
	assert.True(t, g.HasDep("a.py", "c.py")) // transitive
	assert.False(t, g.HasDep("a.py", "d.py"))
}

func TestFileGraphSelfEdgeIgnored(t *testing.T) {
	r := NewResolver([]string{"a.py"}, nil)
	g := BuildFileGraph(r, []*contract.FileExtract{{File: "a.py", Imports: []string{"a"}}})
	assert.False(t, g.HasDep("a.py", "a.py"))
}

func TestCountCrossings(t *testing.T) {
	files := []string{"core/a.py", "core/b.py", "web/h.py"}
	r := NewResolver(files, nil)
	extracts := []*contract.FileExtract{
		{File: "core/a.py", Imports: []string{"core.b"}}, // intra-module, ignored
		{File: "web/h.py", Imports: []string{"core.a"}},
	}
	g := BuildFileGraph(r, extracts)

	aff, eff := g.CountCrossings(ModuleOfFile)
	assert.Equal(t, 1, aff["core"])
	assert.Equal(t, 1, eff["web"])
	assert.Zero(t, eff["core"])
}

func TestModuleOfFile(t *testing.T) {
	assert.Equal(t, "internal", ModuleOfFile("internal/store/store.go"))
	assert.Equal(t, "(root)", ModuleOfFile("main.go"))
}
