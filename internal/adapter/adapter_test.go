package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/contract"
	"github.com/Stephen-Collins-tech/hotspots-sub001/schema"
)

// byName indexes extracted functions for order-independent assertions.
func byName(t *testing.T, fx *contract.FileExtract) map[string]contract.FunctionExtract {
	t.Helper()
	out := make(map[string]contract.FunctionExtract, len(fx.Functions))
	for _, f := range fx.Functions {
		out[f.Function.Name] = f
	}
	return out
}

func countKind(points []schema.DecisionPoint, kind schema.DecisionKind) int {
	n := 0
	for _, p := range points {
		if p.Kind == kind {
			n++
		}
	}
	return n
}

func TestGoAdapterExtract(t *testing.T) {
	src := []byte(`package p

import (
	"fmt"
	"strings"
)

func simple() int { return 1 }

func branchy(a, b bool) int {
	if a && b {
		return 1
	}
	return 0
}

func switcher(x int) string {
	switch x {
	case 1:
		return "one"
	case 2:
		return "two"
	default:
		return "many"
	}
}

func caller() {
	simple()
	simple()
	branchy(true, false)
	fmt.Println(strings.ToUpper("x"))
}
`)

	fx, err := NewGoAdapter().ExtractFile(context.Background(), "p/code.go", src)
	require.NoError(t, err)
	require.Len(t, fx.Functions, 4)
	assert.Equal(t, []string{"fmt", "strings"}, fx.Imports)

	fns := byName(t, fx)

	assert.Empty(t, fns["simple"].DecisionPoints)

	branchy := fns["branchy"]
	assert.Equal(t, 1, countKind(branchy.DecisionPoints, schema.KindBranch))
	assert.Equal(t, 1, countKind(branchy.DecisionPoints, schema.KindShortCircuit))

	switcher := fns["switcher"]
	// Every arm counts, default included.
	assert.Equal(t, 3, countKind(switcher.DecisionPoints, schema.KindCaseArm))

	var callees []string
	for _, c := range fns["caller"].Calls {
		callees = append(callees, c.Callee)
	}
	assert.Contains(t, callees, "simple")
	assert.Contains(t, callees, "branchy")
	assert.Contains(t, callees, "Println")
	assert.Contains(t, callees, "ToUpper")
}

func TestGoAdapterInlinesFuncLiterals(t *testing.T) {
	src := []byte(`package p

func launcher(xs []int) {
	go func() {
		for _, x := range xs {
			if x > 0 {
				use(x)
			}
		}
	}()
}
`)
	fx, err := NewGoAdapter().ExtractFile(context.Background(), "p/launch.go", src)
	require.NoError(t, err)
	require.Len(t, fx.Functions, 1)

	launcher := fx.Functions[0]
	assert.Equal(t, "launcher", launcher.Function.Name)
	// The literal's body belongs to launcher.
	assert.Equal(t, 1, countKind(launcher.DecisionPoints, schema.KindLoop))
	assert.Equal(t, 1, countKind(launcher.DecisionPoints, schema.KindBranch))
}

func TestGoAdapterNestingDepth(t *testing.T) {
	src := []byte(`package p

func deep(xs []int) int {
	total := 0
	for _, x := range xs {
		if x > 0 {
			if x > 10 {
				total += x
			}
		}
	}
	return total
}
`)
	fx, err := NewGoAdapter().ExtractFile(context.Background(), "p/deep.go", src)
	require.NoError(t, err)
	require.Len(t, fx.Functions, 1)

	maxDepth := 0
	for _, p := range fx.Functions[0].DecisionPoints {
		if p.Depth > maxDepth {
			maxDepth = p.Depth
		}
	}
	// for at 0, if at 1, inner if at 2.
	assert.Equal(t, 2, maxDepth)
}

func TestPythonAdapterExtract(t *testing.T) {
	src := []byte(`import os
from collections import defaultdict

def ternary(x):
    return 1 if x else 2

def guard(a, b):
    if a and b:
        return 1
    return 0

def handler(items):
    try:
        for i in items:
            process(i)
    except ValueError:
        return None
`)
	fx, err := NewPythonAdapter().ExtractFile(context.Background(), "pkg/mod.py", src)
	require.NoError(t, err)
	require.Len(t, fx.Functions, 3)
	assert.Equal(t, []string{"os", "collections"}, fx.Imports)

	fns := byName(t, fx)

	// One ternary -> one decision point.
	assert.Equal(t, 1, countKind(fns["ternary"].DecisionPoints, schema.KindConditional))
	assert.Len(t, fns["ternary"].DecisionPoints, 1)

	guard := fns["guard"]
	assert.Equal(t, 1, countKind(guard.DecisionPoints, schema.KindBranch))
	assert.Equal(t, 1, countKind(guard.DecisionPoints, schema.KindShortCircuit))

	handler := fns["handler"]
	assert.Equal(t, 1, countKind(handler.DecisionPoints, schema.KindLoop))
	assert.Equal(t, 1, countKind(handler.DecisionPoints, schema.KindCatch))
	require.Len(t, handler.Calls, 1)
	assert.Equal(t, "process", handler.Calls[0].Callee)
}

func TestTypeScriptAdapterExtract(t *testing.T) {
	src := []byte(`import { readFile } from "fs";

function pick(x: number): string {
  switch (x) {
    case 1:
      return "one";
    case 2:
      return "two";
    default:
      return "many";
  }
}

const choose = (flag: boolean) => (flag ? "yes" : "no");

function outer() {
  const inner = () => {
    if (ready) {
      readFile("x");
    }
  };
  inner();
}
`)
	fx, err := NewTypeScriptAdapter().ExtractFile(context.Background(), "src/pick.ts", src)
	require.NoError(t, err)
	assert.Equal(t, []string{"fs"}, fx.Imports)

	fns := byName(t, fx)
	require.Contains(t, fns, "pick")
	require.Contains(t, fns, "choose")
	require.Contains(t, fns, "inner")
	require.Contains(t, fns, "outer")

	// Three-arm switch, wildcard arm included.
	assert.Equal(t, 3, countKind(fns["pick"].DecisionPoints, schema.KindCaseArm))

	// Arrow assigned to a const gets its variable name; ternary counts once.
	assert.Equal(t, 1, countKind(fns["choose"].DecisionPoints, schema.KindConditional))

	// The nested arrow is a separate unit; its branch is not outer's.
	assert.Equal(t, 1, countKind(fns["inner"].DecisionPoints, schema.KindBranch))
	assert.Empty(t, fns["outer"].DecisionPoints)

	var outerCalls []string
	for _, c := range fns["outer"].Calls {
		outerCalls = append(outerCalls, c.Callee)
	}
	assert.Equal(t, []string{"inner"}, outerCalls)
}

func TestJavaScriptAdapterShortCircuit(t *testing.T) {
	src := []byte(`function f(a, b, c) {
  if (a && b) {
    return 1;
  }
  return c ?? 0;
}
`)
	fx, err := NewJavaScriptAdapter().ExtractFile(context.Background(), "lib/f.js", src)
	require.NoError(t, err)
	require.Len(t, fx.Functions, 1)

	points := fx.Functions[0].DecisionPoints
	assert.Equal(t, 1, countKind(points, schema.KindBranch))
	assert.Equal(t, 2, countKind(points, schema.KindShortCircuit))
}

func TestRegistryForFile(t *testing.T) {
	r := DefaultRegistry(nil)
	assert.Equal(t, schema.LangGo, r.ForFile("a/b/c.go").Language())
	assert.Equal(t, schema.LangPython, r.ForFile("x.py").Language())
	assert.Equal(t, schema.LangTypeScript, r.ForFile("x.tsx").Language())
	assert.Equal(t, schema.LangJavaScript, r.ForFile("x.mjs").Language())
	assert.Nil(t, r.ForFile("README.md"))

	limited := DefaultRegistry([]schema.Language{schema.LangGo})
	assert.Nil(t, limited.ForFile("x.py"))
	assert.NotNil(t, limited.ForFile("x.go"))
}

func TestAdapterRespectsSizeLimit(t *testing.T) {
	big := make([]byte, MaxFileSize+1)
	_, err := NewGoAdapter().ExtractFile(context.Background(), "big.go", big)
	assert.Error(t, err)
}

func TestFunctionSpanAndBody(t *testing.T) {
	src := []byte(`package p

func spanned() {
	_ = 1
}
`)
	fx, err := NewGoAdapter().ExtractFile(context.Background(), "p/span.go", src)
	require.NoError(t, err)
	require.Len(t, fx.Functions, 1)

	f := fx.Functions[0]
	assert.Equal(t, 3, f.Function.StartLine)
	assert.Equal(t, 5, f.Function.EndLine)
	assert.Contains(t, f.Body, "func spanned()")
	assert.Equal(t, "spanned()", f.Function.Signature)
}

func TestGoAdapterSalvagesBranchesNearSyntaxError(t *testing.T) {
	src := []byte(`package p

func damaged(a int) int {
	@@ @@
	if a > 0 {
		if a > 1 {
			return 2
		}
	}
	return a
}
`)
	fx, err := NewGoAdapter().ExtractFile(context.Background(), "p/damaged.go", src)
	require.NoError(t, err)
	require.Len(t, fx.Functions, 1)

	damaged := fx.Functions[0]
	assert.Equal(t, "damaged", damaged.Function.Name)
	assert.GreaterOrEqual(t, damaged.Unmodeled, 1)

	// Both well-formed branches must survive the broken region, and the
	// inner one keeps its nesting level.
	assert.Equal(t, 2, countKind(damaged.DecisionPoints, schema.KindBranch))
	maxDepth := 0
	for _, p := range damaged.DecisionPoints {
		if p.Depth > maxDepth {
			maxDepth = p.Depth
		}
	}
	assert.GreaterOrEqual(t, maxDepth, 1)
}
