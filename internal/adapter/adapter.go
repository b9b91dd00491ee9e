// Package adapter extracts functions, decision points, call sites and import
// references from source files using tree-sitter grammars.
//
// All languages share one walker; per-language behavior lives in a langSpec
// capability table (node kind mappings, anonymous-function policy, import
// extraction). Adapters are stateless: every ExtractFile call creates its
// own tree-sitter parser, so one adapter instance is safe for concurrent use
// across worker goroutines.
package adapter

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/contract"
	"github.com/Stephen-Collins-tech/hotspots-sub001/schema"
)

// MaxFileSize is the largest source file an adapter will parse (10MB).
// Larger files are skipped with an error, never fatal to the run.
const MaxFileSize = 10 * 1024 * 1024

// AnonymousName is the placeholder name for unnamed units.
const AnonymousName = "<anonymous>"

// langSpec is the capability table that parameterizes the shared walker for
// one language.
type langSpec struct {
	language   schema.Language
	extensions []string
	sitterLang *sitter.Language

	// functionKinds are node types that open a new analyzable unit.
	functionKinds map[string]bool

	// inlineFunctionKinds are function-like nodes folded into the enclosing
	// unit instead of starting their own (e.g. Go func literals). A node
	// of this kind at top level still opens a unit so its body is not lost.
	inlineFunctionKinds map[string]bool

	// decisionKinds maps decision node types to their classification.
	decisionKinds map[string]schema.DecisionKind

	// binaryExprKind is the node type checked for short-circuit operators,
	// with shortCircuitOps holding the qualifying operator spellings.
	binaryExprKind  string
	shortCircuitOps map[string]bool

	// callKind is the call-expression node type; callTarget names the field
	// holding the callee expression.
	callKind   string
	callTarget string

	// guardedCaseKind marks arm nodes that may carry a guard in the field
	// named by guardField. A present guard emits an extra decision point.
	guardedCaseKind string
	guardField      string

	// extractName resolves the declared name of a function node, or ""
	// when the node is anonymous.
	extractName func(node *sitter.Node, src []byte) string

	// extractImports collects import strings from the file root.
	extractImports func(root *sitter.Node, src []byte) []string
}

// Adapter implements contract.LanguageAdapter over one langSpec.
type Adapter struct {
	spec *langSpec
}

// Language returns the handled language.
func (a *Adapter) Language() schema.Language { return a.spec.language }

// Extensions returns the claimed file extensions.
func (a *Adapter) Extensions() []string { return a.spec.extensions }

// ExtractFile parses source and returns every analyzable unit in it.
func (a *Adapter) ExtractFile(ctx context.Context, path string, source []byte) (*contract.FileExtract, error) {
	if len(source) > MaxFileSize {
		return nil, fmt.Errorf("file %s exceeds size limit (%d bytes)", path, len(source))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	parser.SetLanguage(a.spec.sitterLang)
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("parse %s: no syntax tree", path)
	}

	out := &contract.FileExtract{
		File:     path,
		Language: a.spec.language,
	}
	if a.spec.extractImports != nil {
		out.Imports = a.spec.extractImports(root, source)
	}

	w := &walker{spec: a.spec, src: source, file: path}
	w.walk(root, nil, 0)
	out.Functions = w.functions
	return out, nil
}

// walker carries the traversal state for one file.
type walker struct {
	spec      *langSpec
	src       []byte
	file      string
	functions []contract.FunctionExtract
}

// walk visits node within the unit current (nil at file scope). depth is the
// structural nesting level inside that unit.
func (w *walker) walk(node *sitter.Node, current *contract.FunctionExtract, depth int) {
	kind := node.Type()

	if kind == "ERROR" {
		if current != nil {
			current.Unmodeled++
		}
		// tree-sitter often salvages well-formed statements inside an
		// ERROR region; keep walking them so their decision points still
		// count toward CC and nesting.
		for i := 0; i < int(node.NamedChildCount()); i++ {
			w.walk(node.NamedChild(i), current, depth)
		}
		return
	}

	if w.spec.functionKinds[kind] {
		inline := w.spec.inlineFunctionKinds[kind]
		if !inline || current == nil {
			w.enterUnit(node)
			return
		}
		// Inline policy: fall through so the literal's body lands in the
		// enclosing unit at the current depth.
	}

	if current != nil {
		if dk, ok := w.classifyDecision(node); ok {
			current.DecisionPoints = append(current.DecisionPoints, schema.DecisionPoint{
				Kind:  dk,
				Line:  int(node.StartPoint().Row) + 1,
				Depth: depth,
			})
			if dk == schema.KindCaseArm && kind == w.spec.guardedCaseKind && w.spec.guardField != "" {
				if g := node.ChildByFieldName(w.spec.guardField); g != nil {
					current.DecisionPoints = append(current.DecisionPoints, schema.DecisionPoint{
						Kind:  schema.KindCaseGuard,
						Line:  int(node.StartPoint().Row) + 1,
						Depth: depth,
					})
				}
			}
			childDepth := depth
			if dk.Structural() {
				childDepth++
			}
			for i := 0; i < int(node.NamedChildCount()); i++ {
				w.walk(node.NamedChild(i), current, childDepth)
			}
			return
		}

		if kind == w.spec.callKind {
			if cs, ok := w.extractCall(node); ok {
				current.Calls = append(current.Calls, cs)
			}
		}
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		w.walk(node.NamedChild(i), current, depth)
	}
}

// enterUnit opens a new analyzable unit rooted at node and walks its body.
func (w *walker) enterUnit(node *sitter.Node) {
	name := ""
	if w.spec.extractName != nil {
		name = w.spec.extractName(node, w.src)
	}
	if name == "" {
		name = AnonymousName
	}

	fe := contract.FunctionExtract{
		Function: schema.Function{
			File:      w.file,
			Name:      name,
			Signature: buildSignature(node, name, w.src),
			Language:  w.spec.language,
			StartLine: int(node.StartPoint().Row) + 1,
			EndLine:   int(node.EndPoint().Row) + 1,
		},
		Body: string(w.src[node.StartByte():node.EndByte()]),
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		w.walk(node.NamedChild(i), &fe, 0)
	}
	w.functions = append(w.functions, fe)
}

// classifyDecision maps a node to its decision kind, if any. Binary
// expressions only qualify when the operator short-circuits.
func (w *walker) classifyDecision(node *sitter.Node) (schema.DecisionKind, bool) {
	kind := node.Type()
	if kind == w.spec.binaryExprKind && w.spec.binaryExprKind != "" {
		op := binaryOperator(node, w.src)
		if w.spec.shortCircuitOps[op] {
			return schema.KindShortCircuit, true
		}
		return "", false
	}
	dk, ok := w.spec.decisionKinds[kind]
	return dk, ok
}

// extractCall pulls the callee name and receiver qualifier from a call node.
func (w *walker) extractCall(node *sitter.Node) (contract.CallSite, bool) {
	target := node.ChildByFieldName(w.spec.callTarget)
	if target == nil {
		return contract.CallSite{}, false
	}
	name, receiver := calleeParts(target, w.src)
	if name == "" {
		return contract.CallSite{}, false
	}
	return contract.CallSite{
		Callee:   name,
		Line:     int(node.StartPoint().Row) + 1,
		Receiver: receiver,
	}, true
}

// calleeParts splits a callee expression into the final name and its
// qualifier. pkg.Fn yields ("Fn", "pkg"); a bare identifier yields itself.
func calleeParts(target *sitter.Node, src []byte) (name, receiver string) {
	switch target.Type() {
	case "identifier", "field_identifier", "property_identifier", "type_identifier":
		return nodeText(target, src), ""
	case "selector_expression":
		// Go: operand "." field
		if f := target.ChildByFieldName("field"); f != nil {
			name = nodeText(f, src)
		}
		if op := target.ChildByFieldName("operand"); op != nil {
			receiver = nodeText(op, src)
		}
		return name, receiver
	case "member_expression":
		// TS/JS: object "." property
		if f := target.ChildByFieldName("property"); f != nil {
			name = nodeText(f, src)
		}
		if op := target.ChildByFieldName("object"); op != nil {
			receiver = nodeText(op, src)
		}
		return name, receiver
	case "attribute":
		// Python: object "." attribute
		if f := target.ChildByFieldName("attribute"); f != nil {
			name = nodeText(f, src)
		}
		if op := target.ChildByFieldName("object"); op != nil {
			receiver = nodeText(op, src)
		}
		return name, receiver
	case "parenthesized_expression":
		if inner := target.NamedChild(0); inner != nil {
			return calleeParts(inner, src)
		}
	}
	return "", ""
}

// binaryOperator returns the operator token text of a binary expression by
// scanning the unnamed children between the operands.
func binaryOperator(node *sitter.Node, src []byte) string {
	if op := node.ChildByFieldName("operator"); op != nil {
		return nodeText(op, src)
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		if !c.IsNamed() {
			return nodeText(c, src)
		}
	}
	return ""
}

// buildSignature renders "name(params)" from the declaration node.
func buildSignature(node *sitter.Node, name string, src []byte) string {
	if p := node.ChildByFieldName("parameters"); p != nil {
		return name + nodeText(p, src)
	}
	return name
}

func nodeText(node *sitter.Node, src []byte) string {
	return string(src[node.StartByte():node.EndByte()])
}

// fieldNameOf returns the text of the node's "name" field, or "".
func fieldNameOf(node *sitter.Node, src []byte) string {
	if n := node.ChildByFieldName("name"); n != nil {
		return nodeText(n, src)
	}
	return ""
}

// assignedName walks up from an anonymous function node to find the variable
// or property it is assigned to, e.g. `const handler = () => {...}`.
func assignedName(node *sitter.Node, src []byte) string {
	parent := node.Parent()
	if parent == nil {
		return ""
	}
	switch parent.Type() {
	case "variable_declarator", "var_spec":
		return fieldNameOf(parent, src)
	case "expression_list":
		// Go short variable declaration: x := func() {...}
		if gp := parent.Parent(); gp != nil && gp.Type() == "short_var_declaration" {
			if l := gp.ChildByFieldName("left"); l != nil && l.NamedChildCount() > 0 {
				return nodeText(l.NamedChild(0), src)
			}
		}
	case "pair":
		if k := parent.ChildByFieldName("key"); k != nil {
			return strings.Trim(nodeText(k, src), `"'`)
		}
	case "assignment_expression", "assignment":
		if l := parent.ChildByFieldName("left"); l != nil {
			return nodeText(l, src)
		}
	case "public_field_definition":
		if n := parent.ChildByFieldName("name"); n != nil {
			return nodeText(n, src)
		}
	}
	return ""
}

// Registry maps file extensions to adapters.
type Registry struct {
	byExt map[string]contract.LanguageAdapter
}

// NewRegistry builds a registry over the given adapters. Later adapters win
// extension conflicts, though the built-in set has none.
func NewRegistry(adapters ...contract.LanguageAdapter) *Registry {
	r := &Registry{byExt: make(map[string]contract.LanguageAdapter)}
	for _, a := range adapters {
		for _, ext := range a.Extensions() {
			r.byExt[ext] = a
		}
	}
	return r
}

// DefaultRegistry returns a registry with all built-in language adapters,
// optionally restricted to the given languages.
func DefaultRegistry(languages []schema.Language) *Registry {
	all := []contract.LanguageAdapter{
		NewGoAdapter(),
		NewPythonAdapter(),
		NewTypeScriptAdapter(),
		NewTSXAdapter(),
		NewJavaScriptAdapter(),
	}
	if len(languages) == 0 {
		return NewRegistry(all...)
	}
	want := make(map[schema.Language]bool, len(languages))
	for _, l := range languages {
		want[l] = true
	}
	var filtered []contract.LanguageAdapter
	for _, a := range all {
		if want[a.Language()] {
			filtered = append(filtered, a)
		}
	}
	return NewRegistry(filtered...)
}

// ForFile returns the adapter claiming the file's extension, or nil.
func (r *Registry) ForFile(path string) contract.LanguageAdapter {
	return r.byExt[strings.ToLower(filepath.Ext(path))]
}

// Languages returns the registered languages in no particular order.
func (r *Registry) Languages() []schema.Language {
	seen := make(map[schema.Language]bool)
	var out []schema.Language
	for _, a := range r.byExt {
		if !seen[a.Language()] {
			seen[a.Language()] = true
			out = append(out, a.Language())
		}
	}
	return out
}
