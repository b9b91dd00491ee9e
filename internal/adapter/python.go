package adapter

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/Stephen-Collins-tech/hotspots-sub001/schema"
)

// NewPythonAdapter returns the adapter for Python sources.
//
// Python policy notes: lambdas are inlined into the enclosing function since
// they hold at most one expression; nested def statements open their own
// units. An elif clause is a branch of its own. A match case with a guard
// emits the arm point plus a guard point.
func NewPythonAdapter() *Adapter {
	return &Adapter{spec: &langSpec{
		language:   schema.LangPython,
		extensions: []string{".py"},
		sitterLang: python.GetLanguage(),
		functionKinds: map[string]bool{
			"function_definition": true,
			"lambda":              true,
		},
		inlineFunctionKinds: map[string]bool{
			"lambda": true,
		},
		decisionKinds: map[string]schema.DecisionKind{
			"if_statement":           schema.KindBranch,
			"elif_clause":            schema.KindBranch,
			"for_statement":          schema.KindLoop,
			"while_statement":        schema.KindLoop,
			"except_clause":          schema.KindCatch,
			"conditional_expression": schema.KindConditional,
			"case_clause":            schema.KindCaseArm,
			"boolean_operator":       schema.KindShortCircuit,
		},
		guardedCaseKind: "case_clause",
		guardField:      "guard",
		callKind:        "call",
		callTarget:      "function",
		extractName: func(node *sitter.Node, src []byte) string {
			return fieldNameOf(node, src)
		},
		extractImports: pythonImports,
	}}
}

// pythonImports collects module names from import and from-import
// statements anywhere in the file, including ones nested inside functions.
func pythonImports(root *sitter.Node, src []byte) []string {
	var out []string
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		switch n.Type() {
		case "import_statement":
			for i := 0; i < int(n.NamedChildCount()); i++ {
				c := n.NamedChild(i)
				switch c.Type() {
				case "dotted_name":
					out = append(out, nodeText(c, src))
				case "aliased_import":
					if name := c.ChildByFieldName("name"); name != nil {
						out = append(out, nodeText(name, src))
					}
				}
			}
			return
		case "import_from_statement":
			if m := n.ChildByFieldName("module_name"); m != nil {
				out = append(out, nodeText(m, src))
			}
			return
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			visit(n.NamedChild(i))
		}
	}
	visit(root)
	return out
}
