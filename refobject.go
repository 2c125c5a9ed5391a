package tendril

import (
	"sort"

	"github.com/jward/tendril/ast"
	"github.com/jward/tendril/props"
	"github.com/jward/tendril/scope"
)

// RefObjectKind discriminates the three shapes a ref-object reference
// record can take.
type RefObjectKind int

const (
	// RefObjectIdentifier is a plain occurrence of a bound identifier.
	RefObjectIdentifier RefObjectKind = iota
	// RefObjectExpression is a factory call used inline, or a member access
	// traced back to a toRefs destructuring.
	RefObjectExpression
	// RefObjectPattern is a nested object pattern receiving a whole
	// reactive shape.
	RefObjectPattern
)

func (k RefObjectKind) String() string {
	switch k {
	case RefObjectIdentifier:
		return "identifier"
	case RefObjectExpression:
		return "expression"
	case RefObjectPattern:
		return "pattern"
	}
	return "unknown"
}

// Role tags whether an occurrence reads the value (expression position) or
// is itself being written to (pattern position).
type Role int

const (
	RoleExpression Role = iota
	RolePattern
)

func (r Role) String() string {
	if r == RolePattern {
		return "pattern"
	}
	return "expression"
}

// RefObjectReference classifies one AST node's participation in a
// factory-call binding.
type RefObjectReference struct {
	Kind RefObjectKind
	// Node is the classified node: an identifier, a member/call
	// expression, or an object pattern, per Kind.
	Node ast.Node
	Role Role
	// Method is the canonical factory name the binding traces back to.
	Method string
	// Define is the factory call that produced the value. It is always a
	// call discovered by the definition-site scan, never synthesized.
	Define *ast.CallExpression
	// Declaration is the declaring statement when the resolved variable
	// has exactly one declaration-type definition; nil otherwise. Only
	// identifier-kind records carry it.
	Declaration *ast.VariableDeclaration
}

// RefObjectReferences is the read-only query surface over one program's
// ref-object classification.
type RefObjectReferences struct {
	refs map[ast.Node]*RefObjectReference
}

// Get returns the record attached to node, or nil.
func (m *RefObjectReferences) Get(node ast.Node) *RefObjectReference {
	return m.refs[node]
}

// Len returns the number of classified nodes.
func (m *RefObjectReferences) Len() int { return len(m.refs) }

// All returns every record ordered by source position. The map itself
// guarantees only point lookups; this ordering exists for tooling output.
func (m *RefObjectReferences) All() []*RefObjectReference {
	out := make([]*RefObjectReference, 0, len(m.refs))
	for _, r := range m.refs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return positionLess(out[i].Node, out[j].Node)
	})
	return out
}

// ExtractRefObjectReferences classifies every node participating in a
// factory-call ("ref object") binding. The result is memoized on ctx:
// repeated calls return the same surface.
func ExtractRefObjectReferences(ctx *Context) *RefObjectReferences {
	if cached, ok := ctx.refObjects[ctx.Program]; ok {
		return cached
	}
	ex := &refObjectExtractor{
		ctx:       ctx,
		refs:      make(map[ast.Node]*RefObjectReference),
		processed: make(map[*ast.Identifier]bool),
		visited:   make(map[ast.Node]bool),
	}
	for _, def := range ctx.factoryCalls() {
		ex.processDefinition(def)
	}
	result := &RefObjectReferences{refs: ex.refs}
	ctx.refObjects[ctx.Program] = result
	return result
}

type refObjectExtractor struct {
	ctx  *Context
	refs map[ast.Node]*RefObjectReference
	// processed guards identifiers so each is classified at most once even
	// when reachable through multiple destructuring or re-assignment
	// paths; it also bounds the mutual pattern/expression recursion.
	processed map[*ast.Identifier]bool
	// visited guards toRefs pattern decomposition the same way.
	visited map[ast.Node]bool
}

func (ex *refObjectExtractor) add(ref *RefObjectReference) {
	// First writer wins; the processed guards make conflicting rewrites
	// vacuous rather than merely harmless.
	if _, exists := ex.refs[ref.Node]; !exists {
		ex.refs[ref.Node] = ref
	}
}

// processDefinition locates the binding target of a discovered factory
// call and dispatches on its shape.
func (ex *refObjectExtractor) processDefinition(def definition) {
	var pattern ast.Node
	switch parent := def.node.Parent().(type) {
	case *ast.VariableDeclarator:
		if parent.Init == def.node {
			pattern = parent.ID
		}
	case *ast.AssignmentExpression:
		if parent.Operator == "=" && parent.Right == def.node {
			pattern = parent.Left
		}
	}
	if pattern == nil {
		// The call result is used inline. toRefs with no destructuring
		// target binds nothing nameable and is dropped.
		if def.method != "toRefs" {
			ex.add(&RefObjectReference{
				Kind:   RefObjectExpression,
				Node:   def.node,
				Role:   RoleExpression,
				Method: def.method,
				Define: def.node,
			})
		}
		return
	}
	ex.processPattern(pattern, def)
}

// processPattern decomposes a binding target. Array patterns, rest
// elements, and member targets have no trackable binding and drop out.
func (ex *refObjectExtractor) processPattern(node ast.Node, def definition) {
	if def.method == "toRefs" {
		ex.processToRefs(node, def)
		return
	}
	switch n := node.(type) {
	case *ast.Identifier:
		ex.processIdentifier(n, def)
	case *ast.ObjectPattern:
		// The whole pattern receives the reactive value; its properties
		// are not tracked individually for non-toRefs methods.
		ex.add(&RefObjectReference{
			Kind:   RefObjectPattern,
			Node:   n,
			Role:   RolePattern,
			Method: def.method,
			Define: def.node,
		})
	case *ast.AssignmentPattern:
		ex.processPattern(n.Left, def)
	}
}

// processToRefs delegates decomposition to the property-reference
// extractor: every property the pattern names, and every subsequent access
// rooted at it, classifies individually.
func (ex *refObjectExtractor) processToRefs(pattern ast.Node, def definition) {
	if ex.visited[pattern] {
		return
	}
	ex.visited[pattern] = true
	for _, acc := range props.FromPattern(ex.ctx.Scopes, pattern) {
		switch acc.Kind {
		case props.AccessExpression:
			ex.processExpression(acc.Node, def)
		case props.AccessPattern:
			ex.add(&RefObjectReference{
				Kind:   RefObjectPattern,
				Node:   acc.Node,
				Role:   RolePattern,
				Method: def.method,
				Define: def.node,
			})
		}
	}
}

// processExpression classifies a value-producing node, following
// pass-through re-assignment into a fresh pattern instead of recording
// when the node is consumed by `const x = <node>` or `x = <node>`.
func (ex *refObjectExtractor) processExpression(node ast.Node, def definition) {
	if target := passthroughTarget(node); target != nil {
		ex.processPattern(target, def)
		return
	}
	kind := RefObjectExpression
	if _, ok := node.(*ast.Identifier); ok {
		kind = RefObjectIdentifier
	}
	ex.add(&RefObjectReference{
		Kind:   kind,
		Node:   node,
		Role:   RoleExpression,
		Method: def.method,
		Define: def.node,
	})
}

// processIdentifier classifies every occurrence of the variable bound by
// id across the program.
func (ex *refObjectExtractor) processIdentifier(id *ast.Identifier, def definition) {
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
		if ref.IsRead() && !ref.IsWrite() {
			if target := passthroughTarget(rid); target != nil {
				ex.processPattern(target, def)
				continue
			}
		}
		role := RoleExpression
		if ref.IsWrite() {
			role = RolePattern
		}
		ex.add(&RefObjectReference{
			Kind:        RefObjectIdentifier,
			Node:        rid,
			Role:        role,
			Method:      def.method,
			Define:      def.node,
			Declaration: declaration,
		})
	}
}

// passthroughTarget returns the pattern that re-receives the value read at
// node through a new declaration or a plain assignment, or nil when node
// is not consumed that way.
func passthroughTarget(node ast.Node) ast.Node {
	switch parent := node.Parent().(type) {
	case *ast.VariableDeclarator:
		if parent.Init == node {
			return parent.ID
		}
	case *ast.AssignmentExpression:
		if parent.Operator == "=" && parent.Right == node {
			return parent.Left
		}
	}
	return nil
}

// singleDeclaration returns the declaring statement of a variable with
// exactly one declaration-type definition, else nil.
func singleDeclaration(v *scope.Variable) *ast.VariableDeclaration {
	if len(v.Defs) != 1 || v.Defs[0].Kind != scope.DefVariable {
		return nil
	}
	decl, _ := v.Defs[0].Parent.(*ast.VariableDeclaration)
	return decl
}

// positionLess orders nodes by source position.
func positionLess(a, b ast.Node) bool {
	as, bs := a.Span().Start, b.Span().Start
	if as.Line != bs.Line {
		return as.Line < bs.Line
	}
	if as.Column != bs.Column {
		return as.Column < bs.Column
	}
	ae, be := a.Span().End, b.Span().End
	if ae.Line != be.Line {
		return ae.Line < be.Line
	}
	return ae.Column < be.Column
}
