package adapter

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/Stephen-Collins-tech/hotspots-sub001/schema"
)

// NewGoAdapter returns the adapter for Go sources.
//
// Go policy notes: func literals are inlined into the enclosing function,
// because idiomatic Go uses them as control-flow fragments (defer bodies,
// goroutine launches) rather than named units. Every switch and select arm
// counts, default arms included. Go has no ternary and no exception handler.
func NewGoAdapter() *Adapter {
	return &Adapter{spec: &langSpec{
		language:   schema.LangGo,
		extensions: []string{".go"},
		sitterLang: golang.GetLanguage(),
		functionKinds: map[string]bool{
			"function_declaration": true,
			"method_declaration":   true,
			"func_literal":         true,
		},
		inlineFunctionKinds: map[string]bool{
			"func_literal": true,
		},
		decisionKinds: map[string]schema.DecisionKind{
			"if_statement":       schema.KindBranch,
			"for_statement":      schema.KindLoop,
			"expression_case":    schema.KindCaseArm,
			"type_case":          schema.KindCaseArm,
			"communication_case": schema.KindCaseArm,
			"default_case":       schema.KindCaseArm,
		},
		binaryExprKind:  "binary_expression",
		shortCircuitOps: map[string]bool{"&&": true, "||": true},
		callKind:        "call_expression",
		callTarget:      "function",
		extractName:     goFunctionName,
		extractImports:  goImports,
	}}
}

func goFunctionName(node *sitter.Node, src []byte) string {
	if name := fieldNameOf(node, src); name != "" {
		return name
	}
	return assignedName(node, src)
}

// goImports collects import paths from all import declarations in the file.
func goImports(root *sitter.Node, src []byte) []string {
	var out []string
	for i := 0; i < int(root.NamedChildCount()); i++ {
		decl := root.NamedChild(i)
		if decl.Type() != "import_declaration" {
			continue
		}
		var visit func(n *sitter.Node)
		visit = func(n *sitter.Node) {
			if n.Type() == "import_spec" {
				if p := n.ChildByFieldName("path"); p != nil {
					out = append(out, strings.Trim(nodeText(p, src), `"`))
				}
				return
			}
			for j := 0; j < int(n.NamedChildCount()); j++ {
				visit(n.NamedChild(j))
			}
		}
		visit(decl)
	}
	return out
}
