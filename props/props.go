// Package props enumerates property accesses rooted at an object
// destructuring pattern: for each property the pattern names, every place
// the destructured value is subsequently used.
//
// The reactivity engine consumes it for `toRefs` bindings only, but the
// extraction itself is generic: it follows identifier bindings through the
// scope graph, chases aliases created by re-assignment, and reports nested
// destructuring as pattern accesses.
package props

import (
	"github.com/jward/tendril/ast"
	"github.com/jward/tendril/scope"
)

// AccessKind tags how a property's value is touched.
type AccessKind int

const (
	// AccessExpression is a value use: a member read rooted at the binding,
	// or a bare use of the binding itself.
	AccessExpression AccessKind = iota
	// AccessPattern is a further object destructuring of the value.
	AccessPattern
)

// Access is one recorded touch of a destructured property's value.
type Access struct {
	Kind AccessKind
	// Node is the touched node: a *ast.MemberExpression or *ast.Identifier
	// for AccessExpression, an *ast.ObjectPattern for AccessPattern.
	Node ast.Node
	// Property is the property name the access traces back to.
	Property string
}

// FromPattern enumerates accesses for pattern, which may be an object
// pattern, an identifier bound to the whole shape, or a default-value
// wrapper around either. Unsupported shapes yield no accesses.
func FromPattern(scopes *scope.Analysis, pattern ast.Node) []Access {
	e := &extractor{scopes: scopes, seen: make(map[*scope.Variable]bool)}
	e.pattern(pattern, "")
	return e.accesses
}

type extractor struct {
	scopes *scope.Analysis
	// seen guards by variable, not identifier node: aliasing can reach the
	// same variable through several nodes and must not re-walk it.
	seen     map[*scope.Variable]bool
	accesses []Access
}

func (e *extractor) emit(kind AccessKind, node ast.Node, property string) {
	e.accesses = append(e.accesses, Access{Kind: kind, Node: node, Property: property})
}

func (e *extractor) pattern(n ast.Node, property string) {
	switch n := n.(type) {
	case *ast.Identifier:
		e.binding(n, property)
	case *ast.ObjectPattern:
		for _, p := range n.Properties {
			switch p := p.(type) {
			case *ast.Property:
				name := propertyName(p)
				e.value(p.Value, name)
			case *ast.RestElement:
				// Rest receives the remaining shape; its uses are accesses
				// to unnamed properties.
				e.pattern(p.Argument, property)
			}
		}
	case *ast.AssignmentPattern:
		e.pattern(n.Left, property)
	}
}

// value handles the right side of one pattern property.
func (e *extractor) value(n ast.Node, property string) {
	switch n := n.(type) {
	case *ast.Identifier:
		e.binding(n, property)
	case *ast.ObjectPattern:
		e.emit(AccessPattern, n, property)
	case *ast.AssignmentPattern:
		e.value(n.Left, property)
	}
}

// binding follows every reference of a bound identifier and records how the
// value is touched: member reads, bare uses, aliasing re-assignments, and
// further destructuring.
func (e *extractor) binding(id *ast.Identifier, property string) {
	variable := e.scopes.FindVariable(id)
	if variable == nil || e.seen[variable] {
		return
	}
	e.seen[variable] = true
	for _, ref := range variable.References {
		rid := ref.Identifier
		if variable.DefNames(rid) || ref.Init {
			continue
		}
		if !ref.IsRead() {
			// A plain overwrite replaces the binding; it is not an access
			// to the destructured value.
			continue
		}
		switch parent := rid.Parent().(type) {
		case *ast.MemberExpression:
			if parent.Object == rid {
				e.emit(AccessExpression, parent, property)
				continue
			}
			e.emit(AccessExpression, rid, property)
		case *ast.VariableDeclarator:
			if parent.Init == rid {
				e.target(parent.ID, property)
				continue
			}
			e.emit(AccessExpression, rid, property)
		case *ast.AssignmentExpression:
			if parent.Operator == "=" && parent.Right == rid {
				e.target(parent.Left, property)
				continue
			}
			e.emit(AccessExpression, rid, property)
		default:
			e.emit(AccessExpression, rid, property)
		}
	}
}

// target handles a pattern that re-receives the value through `const x = y`
// or `x = y`.
func (e *extractor) target(n ast.Node, property string) {
	switch n := n.(type) {
	case *ast.Identifier:
		e.binding(n, property)
	case *ast.ObjectPattern:
		e.emit(AccessPattern, n, property)
	case *ast.AssignmentPattern:
		e.target(n.Left, property)
	}
}

func propertyName(p *ast.Property) string {
	if p.Computed {
		return ""
	}
	switch key := p.Key.(type) {
	case *ast.Identifier:
		return key.Name
	case *ast.Literal:
		if s, ok := key.Value.(string); ok {
			return s
		}
		return key.Raw
	}
	return ""
}
