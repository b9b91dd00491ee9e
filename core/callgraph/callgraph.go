// Package callgraph resolves intra-repository call edges and derives each
// function's graph position: fan-in, fan-out, cyclic membership, dependency
// depth, and neighbor churn.
package callgraph

import (
	"sort"

	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/contract"
	"github.com/Stephen-Collins-tech/hotspots-sub001/schema"
)

// Node is one function entering the graph build.
type Node struct {
	ID    string
	File  string
	Name  string
	Calls []contract.CallSite
}

// Graph is an arena of function nodes addressed by index, with deduplicated
// edge lists. Immutable once built.
type Graph struct {
	ids   []string
	files []string
	index map[string]int

	out [][]int // caller index -> sorted distinct callee indices
	in  [][]int // callee index -> sorted distinct caller indices

	totalCalls    int
	resolvedCalls int
}

// Build resolves call sites against the snapshot's own function set. A call
// resolves to a function in the same file first; otherwise to the single
// function with that name in the repo. Ambiguous or external targets create
// no edge but count toward the resolution ratio. Self-calls are ignored.
func Build(nodes []Node) *Graph {
	g := &Graph{
		ids:   make([]string, len(nodes)),
		files: make([]string, len(nodes)),
		index: make(map[string]int, len(nodes)),
		out:   make([][]int, len(nodes)),
		in:    make([][]int, len(nodes)),
	}
	for i, n := range nodes {
		g.ids[i] = n.ID
		g.files[i] = n.File
		g.index[n.ID] = i
	}

	// Name lookup tables: per-file and repo-wide.
	byFileName := make(map[string]map[string][]int)
	byName := make(map[string][]int)
	for i, n := range nodes {
		if byFileName[n.File] == nil {
			byFileName[n.File] = make(map[string][]int)
		}
		byFileName[n.File][n.Name] = append(byFileName[n.File][n.Name], i)
		byName[n.Name] = append(byName[n.Name], i)
	}

	outSets := make([]map[int]bool, len(nodes))
	inSets := make([]map[int]bool, len(nodes))

	for i, n := range nodes {
		for _, call := range n.Calls {
			g.totalCalls++
			target, ok := resolveCall(byFileName[n.File], byName, call.Callee)
			if !ok {
				continue
			}
			g.resolvedCalls++
			if target == i {
				continue
			}
			if outSets[i] == nil {
				outSets[i] = make(map[int]bool)
			}
			if inSets[target] == nil {
				inSets[target] = make(map[int]bool)
			}
			outSets[i][target] = true
			inSets[target][i] = true
		}
	}

	for i := range nodes {
		g.out[i] = sortedKeys(outSets[i])
		g.in[i] = sortedKeys(inSets[i])
	}
	return g
}

// resolveCall finds the target index for a callee name, or false when the
// call is external, dynamic, or ambiguous.
func resolveCall(sameFile map[string][]int, global map[string][]int, callee string) (int, bool) {
	if candidates := sameFile[callee]; len(candidates) == 1 {
		return candidates[0], true
	}
	if candidates := global[callee]; len(candidates) == 1 {
		return candidates[0], true
	}
	return 0, false
}

func sortedKeys(set map[int]bool) []int {
	if len(set) == 0 {
		return nil
	}
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.ids)
}

// ResolutionRatio returns resolved calls / total call sites, 1.0 when there
// are no call sites at all.
func (g *Graph) ResolutionRatio() float64 {
	if g.totalCalls == 0 {
		return 1.0
	}
	return float64(g.resolvedCalls) / float64(g.totalCalls)
}

// Edges visits every resolved caller/callee pair once, in index order.
func (g *Graph) Edges(visit func(callerID, calleeID string)) {
	for i, callees := range g.out {
		for _, j := range callees {
			visit(g.ids[i], g.ids[j])
		}
	}
}

// CrossFileEdges visits resolved edges whose endpoints live in different
// files, for static-dependency annotation of co-change pairs.
func (g *Graph) CrossFileEdges(visit func(callerFile, calleeFile string)) {
	for i, callees := range g.out {
		for _, j := range callees {
			if g.files[i] != g.files[j] {
				visit(g.files[i], g.files[j])
			}
		}
	}
}

// Metrics computes the per-function graph metrics. churnByID supplies each
// function's churn for the neighbor-churn aggregation; absent entries count
// as zero.
func (g *Graph) Metrics(churnByID map[string]schema.ChurnRecord) map[string]schema.GraphMetrics {
	comp, compCount := g.stronglyConnected()
	compSizes := make([]int, compCount)
	for _, c := range comp {
		compSizes[c]++
	}
	compDepth := g.condensationDepth(comp, compCount)

	metrics := make(map[string]schema.GraphMetrics, len(g.ids))
	for i, id := range g.ids {
		neighborChurn := 0
		for _, j := range g.out[i] {
			neighborChurn += churnByID[g.ids[j]].Total()
		}
		size := compSizes[comp[i]]
		metrics[id] = schema.GraphMetrics{
			FanIn:         len(g.in[i]),
			FanOut:        len(g.out[i]),
			SCCSize:       size,
			Cyclic:        size > 1,
			Depth:         compDepth[comp[i]],
			NeighborChurn: neighborChurn,
		}
	}
	return metrics
}

// stronglyConnected runs Tarjan's algorithm iteratively and returns each
// node's component id plus the component count. Component ids come out in
// reverse topological order: an edge u->v across components always has
// comp[v] < comp[u].
func (g *Graph) stronglyConnected() (comp []int, count int) {
	n := len(g.ids)
	comp = make([]int, n)
	for i := range comp {
		comp[i] = -1
	}

	indices := make([]int, n)
	lowlinks := make([]int, n)
	onStack := make([]bool, n)
	for i := range indices {
		indices[i] = -1
	}

	var stack []int
	next := 0

	// Explicit DFS frame: node plus position in its adjacency list.
	type frame struct {
		node int
		edge int
	}

	for root := 0; root < n; root++ {
		if indices[root] != -1 {
			continue
		}
		frames := []frame{{node: root}}
		indices[root] = next
		lowlinks[root] = next
		next++
		stack = append(stack, root)
		onStack[root] = true

		for len(frames) > 0 {
			f := &frames[len(frames)-1]
			v := f.node

			if f.edge < len(g.out[v]) {
				w := g.out[v][f.edge]
				f.edge++
				if indices[w] == -1 {
					indices[w] = next
					lowlinks[w] = next
					next++
					stack = append(stack, w)
					onStack[w] = true
					frames = append(frames, frame{node: w})
				} else if onStack[w] {
					if indices[w] < lowlinks[v] {
						lowlinks[v] = indices[w]
					}
				}
				continue
			}

			// v's subtree is done; pop a component if v is a root.
			if lowlinks[v] == indices[v] {
				for {
					w := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[w] = false
					comp[w] = count
					if w == v {
						break
					}
				}
				count++
			}

			frames = frames[:len(frames)-1]
			if len(frames) > 0 {
				parent := frames[len(frames)-1].node
				if lowlinks[v] < lowlinks[parent] {
					lowlinks[parent] = lowlinks[v]
				}
			}
		}
	}
	return comp, count
}

// condensationDepth returns the longest path length from any leaf (component
// with no callers) to each component in the acyclic condensation. Relies on
// Tarjan's reverse-topological component numbering: walking component ids
// from high to low visits callers before their callees.
func (g *Graph) condensationDepth(comp []int, count int) []int {
	// Distinct condensation edges, caller component -> callee component.
	compEdges := make(map[int]map[int]bool)
	for i, callees := range g.out {
		for _, j := range callees {
			if comp[i] == comp[j] {
				continue
			}
			if compEdges[comp[i]] == nil {
				compEdges[comp[i]] = make(map[int]bool)
			}
			compEdges[comp[i]][comp[j]] = true
		}
	}

	depth := make([]int, count)
	for c := count - 1; c >= 0; c-- {
		for callee := range compEdges[c] {
			if d := depth[c] + 1; d > depth[callee] {
				depth[callee] = d
			}
		}
	}
	return depth
}
