package callgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/contract"
	"github.com/Stephen-Collins-tech/hotspots-sub001/schema"
)

func calls(names ...string) []contract.CallSite {
	sites := make([]contract.CallSite, len(names))
	for i, n := range names {
		sites[i] = contract.CallSite{Callee: n}
	}
	return sites
}

func TestFanOutDeduplication(t *testing.T) {
	// A calls nothing; B calls A twice; C calls A and B.
	g := Build([]Node{
		{ID: "x.go::A", File: "x.go", Name: "A"},
		{ID: "x.go::B", File: "x.go", Name: "B", Calls: calls("A", "A")},
		{ID: "x.go::C", File: "x.go", Name: "C", Calls: calls("A", "B")},
	})
	m := g.Metrics(nil)

	assert.Equal(t, 0, m["x.go::A"].FanOut)
	assert.Equal(t, 1, m["x.go::B"].FanOut)
	assert.Equal(t, 2, m["x.go::C"].FanOut)

	assert.Equal(t, 2, m["x.go::A"].FanIn)
	assert.Equal(t, 1, m["x.go::B"].FanIn)
	assert.Equal(t, 0, m["x.go::C"].FanIn)
}

func TestResolutionSameFileFirst(t *testing.T) {
	// Two functions named helper in different files; the caller in a.go must
	// bind to its own file's helper.
	g := Build([]Node{
		{ID: "a.go::helper", File: "a.go", Name: "helper"},
		{ID: "b.go::helper", File: "b.go", Name: "helper"},
		{ID: "a.go::run", File: "a.go", Name: "run", Calls: calls("helper")},
	})
	m := g.Metrics(nil)

	assert.Equal(t, 1, m["a.go::helper"].FanIn)
	assert.Equal(t, 0, m["b.go::helper"].FanIn)
}

func TestResolutionGlobalUnique(t *testing.T) {
	g := Build([]Node{
		{ID: "a.go::run", File: "a.go", Name: "run", Calls: calls("helper", "Printf")},
		{ID: "b.go::helper", File: "b.go", Name: "helper"},
	})
	m := g.Metrics(nil)

	assert.Equal(t, 1, m["a.go::run"].FanOut)
	assert.Equal(t, 1, m["b.go::helper"].FanIn)
	// One of two call sites resolved
	assert.InDelta(t, 0.5, g.ResolutionRatio(), 1e-9)
}

func TestResolutionAmbiguousCreatesNoEdge(t *testing.T) {
	// Same name in two other files, no same-file candidate: ambiguous.
	g := Build([]Node{
		{ID: "a.go::run", File: "a.go", Name: "run", Calls: calls("helper")},
		{ID: "b.go::helper", File: "b.go", Name: "helper"},
		{ID: "c.go::helper", File: "c.go", Name: "helper"},
	})
	m := g.Metrics(nil)

	assert.Equal(t, 0, m["a.go::run"].FanOut)
	assert.Equal(t, 0, m["b.go::helper"].FanIn)
	assert.Equal(t, 0, m["c.go::helper"].FanIn)
	assert.Zero(t, g.ResolutionRatio())
}

func TestSelfCallIgnored(t *testing.T) {
	g := Build([]Node{
		{ID: "a.go::rec", File: "a.go", Name: "rec", Calls: calls("rec")},
	})
	m := g.Metrics(nil)

	assert.Equal(t, 0, m["a.go::rec"].FanOut)
	assert.False(t, m["a.go::rec"].Cyclic)
	assert.Equal(t, 1, m["a.go::rec"].SCCSize)
}

func TestCycleDetection(t *testing.T) {
	// a <-> b form a cycle; c sits outside calling into it.
	g := Build([]Node{
		{ID: "x.go::a", File: "x.go", Name: "a", Calls: calls("b")},
		{ID: "x.go::b", File: "x.go", Name: "b", Calls: calls("a")},
		{ID: "x.go::c", File: "x.go", Name: "c", Calls: calls("a")},
	})
	m := g.Metrics(nil)

	assert.True(t, m["x.go::a"].Cyclic)
	assert.True(t, m["x.go::b"].Cyclic)
	assert.False(t, m["x.go::c"].Cyclic)
	assert.Equal(t, 2, m["x.go::a"].SCCSize)
	assert.Equal(t, 2, m["x.go::b"].SCCSize)
}

func TestCondensationDepth(t *testing.T) {
	// c -> b -> a chain: c is a leaf caller, a is the deepest dependency.
	g := Build([]Node{
		{ID: "x.go::a", File: "x.go", Name: "a"},
		{ID: "x.go::b", File: "x.go", Name: "b", Calls: calls("a")},
		{ID: "x.go::c", File: "x.go", Name: "c", Calls: calls("b", "a")},
	})
	m := g.Metrics(nil)

	assert.Equal(t, 0, m["x.go::c"].Depth)
	assert.Equal(t, 1, m["x.go::b"].Depth)
	assert.Equal(t, 2, m["x.go::a"].Depth)
}

func TestCondensationDepthCollapsesCycle(t *testing.T) {
	// entry -> (a <-> b) -> sink: the cycle collapses to one condensation
	// node, so sink is two levels deep, not three.
	g := Build([]Node{
		{ID: "x.go::entry", File: "x.go", Name: "entry", Calls: calls("a")},
		{ID: "x.go::a", File: "x.go", Name: "a", Calls: calls("b")},
		{ID: "x.go::b", File: "x.go", Name: "b", Calls: calls("a", "sink")},
		{ID: "x.go::sink", File: "x.go", Name: "sink"},
	})
	m := g.Metrics(nil)

	assert.Equal(t, 0, m["x.go::entry"].Depth)
	assert.Equal(t, 1, m["x.go::a"].Depth)
	assert.Equal(t, 1, m["x.go::b"].Depth)
	assert.Equal(t, 2, m["x.go::sink"].Depth)
}

func TestNeighborChurn(t *testing.T) {
	g := Build([]Node{
		{ID: "x.go::caller", File: "x.go", Name: "caller", Calls: calls("a", "b", "a")},
		{ID: "x.go::a", File: "x.go", Name: "a"},
		{ID: "x.go::b", File: "x.go", Name: "b"},
	})
	churn := map[string]schema.ChurnRecord{
		"x.go::a": {LinesAdded: 10, LinesDeleted: 5},
		"x.go::b": {LinesAdded: 2},
	}
	m := g.Metrics(churn)

	// Deduplicated callees: a counted once despite two call sites.
	assert.Equal(t, 17, m["x.go::caller"].NeighborChurn)
	assert.Equal(t, 0, m["x.go::a"].NeighborChurn)
}

func TestCrossFileEdges(t *testing.T) {
	g := Build([]Node{
		{ID: "a.go::run", File: "a.go", Name: "run", Calls: calls("helper", "local")},
		{ID: "a.go::local", File: "a.go", Name: "local"},
		{ID: "b.go::helper", File: "b.go", Name: "helper"},
	})

	var pairs [][2]string
	g.CrossFileEdges(func(from, to string) {
		pairs = append(pairs, [2]string{from, to})
	})
	require.Len(t, pairs, 1)
	assert.Equal(t, [2]string{"a.go", "b.go"}, pairs[0])
}

func TestEmptyGraph(t *testing.T) {
	g := Build(nil)
	assert.Zero(t, g.Len())
	assert.Equal(t, 1.0, g.ResolutionRatio())
	assert.Empty(t, g.Metrics(nil))
}
