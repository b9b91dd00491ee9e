// Package cfg computes structural metrics from extracted decision points.
package cfg

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/Stephen-Collins-tech/hotspots-sub001/schema"
)

// ComputeMetrics derives the raw structural metrics for one function from
// its decision-point list and line span.
//
// Cyclomatic complexity is the modified McCabe count: 1 for the entry path
// plus 1 per decision point. Short-circuit operators, ternaries, switch arms
// (every arm, wildcard and default included, plus guards) and exception
// handlers all count.
//
// Nesting depth is the maximum structural depth reached: a function whose
// deepest construct sits at depth d has ND d+1, and a function with no
// structural decision points has ND 0. Non-structural points (short-circuit,
// ternary, guards) never deepen nesting.
func ComputeMetrics(points []schema.DecisionPoint, startLine, endLine, unmodeled int) schema.RawMetrics {
	m := schema.RawMetrics{
		CC:        1 + len(points),
		Unmodeled: unmodeled,
	}
	for _, p := range points {
		if !p.Kind.Structural() {
			continue
		}
		if d := p.Depth + 1; d > m.ND {
			m.ND = d
		}
	}
	if endLine >= startLine {
		m.LOC = endLine - startLine + 1
	}
	return m
}

// StructuralHash hashes the ordered decision-kind sequence of a function.
// Two functions with identical control-flow shape share a structural hash
// even when their bodies differ, which is what identity disambiguation
// needs: it survives renames of locals but separates overloads.
func StructuralHash(points []schema.DecisionPoint) string {
	var sb strings.Builder
	for i, p := range points {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(string(p.Kind))
	}
	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// ContentHash hashes the exact body text of a function. Used to invalidate
// cached churn records when the body changes.
func ContentHash(body string) string {
	sum := sha256.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])
}

// FunctionID builds the stable identifier for a unit: the repo-relative
// file path joined to the declared name with "::". When taken is true for
// the plain ID (a same-file name collision), the caller appends a
// structural-hash suffix via DisambiguateID instead.
func FunctionID(file, name string) string {
	return file + "::" + name
}

// DisambiguateID extends a colliding function ID with a short structural
// hash suffix so overloads and redeclarations stay distinct.
func DisambiguateID(file, name, structHash string) string {
	suffix := structHash
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return FunctionID(file, name) + "@" + suffix
}
