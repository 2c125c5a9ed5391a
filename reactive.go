package tendril

import (
	"sort"

	"github.com/jward/tendril/ast"
)

// ReactiveVariableReference classifies one occurrence of a compiler-macro
// reactive local. Records are always identifier-keyed: macro bindings are
// simple or destructured-to-identifier locals, never member targets.
type ReactiveVariableReference struct {
	Node *ast.Identifier
	// Escape is true when the occurrence is, through direct array/object/
	// spread literal nesting, an argument of an escape-hint (`$$`) call.
	Escape bool
	// Method is the macro name the binding traces back to ("$" for the
	// destructure-all macro).
	Method string
	// Define is the macro call that produced the binding.
	Define *ast.CallExpression
	// Declaration is the declaring statement when the resolved variable
	// has exactly one declaration-type definition; nil otherwise.
	Declaration *ast.VariableDeclaration
}

// ReactiveVariableReferences is the read-only query surface over one
// program's reactive-variable classification.
type ReactiveVariableReferences struct {
	refs map[*ast.Identifier]*ReactiveVariableReference
}

// Get returns the record attached to id, or nil.
func (m *ReactiveVariableReferences) Get(id *ast.Identifier) *ReactiveVariableReference {
	return m.refs[id]
}

// Len returns the number of classified identifiers.
func (m *ReactiveVariableReferences) Len() int { return len(m.refs) }

// All returns every record ordered by source position.
func (m *ReactiveVariableReferences) All() []*ReactiveVariableReference {
	out := make([]*ReactiveVariableReference, 0, len(m.refs))
	for _, r := range m.refs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return positionLess(out[i].Node, out[j].Node)
	})
	return out
}

// ExtractReactiveVariableReferences classifies every occurrence of a
// compiler-macro reactive local. The result is memoized on ctx.
func ExtractReactiveVariableReferences(ctx *Context) *ReactiveVariableReferences {
	if cached, ok := ctx.reactives[ctx.Program]; ok {
		return cached
	}
	ex := &reactiveVariableExtractor{
		ctx:       ctx,
		refs:      make(map[*ast.Identifier]*ReactiveVariableReference),
		processed: make(map[*ast.Identifier]bool),
		escapes:   &escapeHintDetector{ctx: ctx},
	}
	for _, name := range macroNames {
		for _, def := range ctx.macroCalls(name) {
			ex.processDefinition(def)
		}
	}
	result := &ReactiveVariableReferences{refs: ex.refs}
	ctx.reactives[ctx.Program] = result
	return result
}

type reactiveVariableExtractor struct {
	ctx       *Context
	refs      map[*ast.Identifier]*ReactiveVariableReference
	processed map[*ast.Identifier]bool
	escapes   *escapeHintDetector
}

// processDefinition accepts only macro calls initializing a variable
// declarator; inline macro calls bind nothing. The destructure-all macro
// binds every identifier anywhere in its pattern; single-value macros bind
// only a bare identifier.
func (ex *reactiveVariableExtractor) processDefinition(def definition) {
	declarator, ok := def.node.Parent().(*ast.VariableDeclarator)
	if !ok || declarator.Init != def.node {
		return
	}
	if def.method == "$" {
		for _, id := range ast.PatternIdentifiers(declarator.ID) {
			ex.processIdentifier(id, def)
		}
		return
	}
	if id, ok := declarator.ID.(*ast.Identifier); ok {
		ex.processIdentifier(id, def)
	}
}

// processIdentifier records every occurrence of the bound variable other
// than its own declaration slot. Reactive variables are tracked as flat
// name occurrences: no pass-through chaining across re-assignments.
func (ex *reactiveVariableExtractor) processIdentifier(id *ast.Identifier, def definition) {
	if ex.processed[id] {
		return
	}
	ex.processed[id] = true
	variable := ex.ctx.Scopes.FindVariable(id)
	if variable == nil {
		return
	}
	declaration := singleDeclaration(variable)
	for _, ref := range variable.References {
		rid := ref.Identifier
		if variable.DefNames(rid) {
			continue
		}
		if _, exists := ex.refs[rid]; exists {
			continue
		}
		ex.refs[rid] = &ReactiveVariableReference{
			Node:        rid,
			Escape:      ex.escapes.escaped(rid),
			Method:      def.method,
			Define:      def.node,
			Declaration: declaration,
		}
	}
}

// escapeHintDetector answers whether a node sits inside an escape-hint
// (`$$`) call. The call set is computed lazily, once per extraction pass;
// each query then walks the node's ancestors, which is cheap relative to
// precomputing per identifier.
type escapeHintDetector struct {
	ctx *Context
	// calls is nil until the first query.
	calls map[*ast.CallExpression]bool
}

// escaped walks upward from node while the chain stays inside
// non-computing literal nesting: array elements, object property values
// (including shorthand), and spreads. Reaching a call expression decides
// the answer: true iff it is an escape-hint call and the walked node is
// one of its direct arguments. Any other parent shape terminates the walk
// unescaped.
func (d *escapeHintDetector) escaped(node ast.Node) bool {
	if d.calls == nil {
		d.calls = make(map[*ast.CallExpression]bool)
		for _, def := range d.ctx.macroCalls(escapeHintName) {
			d.calls[def.node] = true
		}
	}
	target := node
	for {
		switch parent := target.Parent().(type) {
		case *ast.ArrayExpression, *ast.ObjectExpression, *ast.SpreadElement:
			target = parent
		case *ast.Property:
			if parent.Value != target {
				return false
			}
			target = parent
		case *ast.CallExpression:
			if !d.calls[parent] {
				return false
			}
			for _, arg := range parent.Arguments {
				if arg == target {
					return true
				}
			}
			return false
		default:
			return false
		}
	}
}
