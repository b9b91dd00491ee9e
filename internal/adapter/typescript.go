package adapter

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/Stephen-Collins-tech/hotspots-sub001/schema"
)

// NewTypeScriptAdapter returns the adapter for plain TypeScript sources.
//
// TS/JS policy notes: arrow functions and function expressions are separate
// units, named after the variable or property they are assigned to when one
// exists. Every switch case counts, default included. The nullish coalescing
// operator short-circuits and counts like && and ||.
func NewTypeScriptAdapter() *Adapter {
	return &Adapter{spec: ecmaSpec(schema.LangTypeScript, []string{".ts"}, typescript.GetLanguage())}
}

// NewTSXAdapter returns the adapter for .tsx sources, which need the JSX
// variant of the TypeScript grammar.
func NewTSXAdapter() *Adapter {
	return &Adapter{spec: ecmaSpec(schema.LangTypeScript, []string{".tsx"}, tsx.GetLanguage())}
}

// NewJavaScriptAdapter returns the adapter for JavaScript sources.
func NewJavaScriptAdapter() *Adapter {
	return &Adapter{spec: ecmaSpec(schema.LangJavaScript, []string{".js", ".jsx", ".mjs", ".cjs"}, javascript.GetLanguage())}
}

// ecmaSpec is the shared capability table for the ECMAScript-family
// grammars, which agree on all the node types used here.
func ecmaSpec(lang schema.Language, exts []string, sl *sitter.Language) *langSpec {
	return &langSpec{
		language:   lang,
		extensions: exts,
		sitterLang: sl,
		functionKinds: map[string]bool{
			"function_declaration":           true,
			"generator_function_declaration": true,
			"method_definition":              true,
			"arrow_function":                 true,
			"function":                       true,
			"function_expression":            true,
			"generator_function":             true,
		},
		// Anonymous functions are separate units in this family.
		inlineFunctionKinds: map[string]bool{},
		decisionKinds: map[string]schema.DecisionKind{
			"if_statement":       schema.KindBranch,
			"for_statement":      schema.KindLoop,
			"for_in_statement":   schema.KindLoop,
			"while_statement":    schema.KindLoop,
			"do_statement":       schema.KindLoop,
			"switch_case":        schema.KindCaseArm,
			"switch_default":     schema.KindCaseArm,
			"catch_clause":       schema.KindCatch,
			"ternary_expression": schema.KindConditional,
		},
		binaryExprKind:  "binary_expression",
		shortCircuitOps: map[string]bool{"&&": true, "||": true, "??": true},
		callKind:        "call_expression",
		callTarget:      "function",
		extractName:     ecmaFunctionName,
		extractImports:  ecmaImports,
	}
}

func ecmaFunctionName(node *sitter.Node, src []byte) string {
	if name := fieldNameOf(node, src); name != "" {
		return name
	}
	return assignedName(node, src)
}

// ecmaImports collects module specifiers from import statements and bare
// require calls at any nesting level.
func ecmaImports(root *sitter.Node, src []byte) []string {
	var out []string
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		switch n.Type() {
		case "import_statement":
			if s := n.ChildByFieldName("source"); s != nil {
				out = append(out, strings.Trim(nodeText(s, src), "\"'`"))
			}
			return
		case "call_expression":
			// require("mod") / import("mod")
			fn := n.ChildByFieldName("function")
			args := n.ChildByFieldName("arguments")
			if fn != nil && args != nil && args.NamedChildCount() == 1 {
				callee := nodeText(fn, src)
				arg := args.NamedChild(0)
				if (callee == "require" || callee == "import") && arg.Type() == "string" {
					out = append(out, strings.Trim(nodeText(arg, src), "\"'`"))
				}
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			visit(n.NamedChild(i))
		}
	}
	visit(root)
	return out
}
