// Package scope resolves lexical scoping for the ast package's trees:
// which identifier occurrences bind, read, or write which variables.
//
// The model follows the usual JavaScript scope-manager shape: a tree of
// scopes (global, function, block), variables with their definitions and
// references, and unresolved references surfaced as Through on every scope
// they escape. Resolution runs after the full traversal, so declaration
// order within a scope never affects binding.
package scope

import "github.com/jward/tendril/ast"

// Kind labels a scope.
type Kind int

const (
	GlobalScope Kind = iota
	FunctionScope
	BlockScope
)

func (k Kind) String() string {
	switch k {
	case GlobalScope:
		return "global"
	case FunctionScope:
		return "function"
	case BlockScope:
		return "block"
	}
	return "unknown"
}

// DefKind labels how a variable was introduced.
type DefKind int

const (
	// DefVariable is a var/let/const declarator.
	DefVariable DefKind = iota
	// DefFunction is a function declaration or named function expression.
	DefFunction
	// DefParameter is a function parameter.
	DefParameter
	// DefImport is an import specifier binding.
	DefImport
)

// Definition records one introduction of a variable.
type Definition struct {
	Kind DefKind
	// Name is the defining identifier node.
	Name *ast.Identifier
	// Node is the defining construct: *ast.VariableDeclarator, function
	// node, or import specifier.
	Node ast.Node
	// Parent is the enclosing statement where one exists: the
	// *ast.VariableDeclaration for variable defs, the
	// *ast.ImportDeclaration for import defs, nil otherwise.
	Parent ast.Node
}

// Variable is a named binding with all of its definitions and references.
type Variable struct {
	Name       string
	Scope      *Scope
	Defs       []*Definition
	References []*Reference
}

// DefNames reports whether id is one of the variable's defining identifier
// nodes.
func (v *Variable) DefNames(id *ast.Identifier) bool {
	for _, d := range v.Defs {
		if d.Name == id {
			return true
		}
	}
	return false
}

type refFlag int

const (
	flagRead refFlag = 1 << iota
	flagWrite
)

// Reference is one read/write occurrence of a name.
type Reference struct {
	Identifier *ast.Identifier
	From       *Scope
	// Resolved is the variable this occurrence binds to, nil when the name
	// never resolves (a global or a typo).
	Resolved *Variable
	// Init marks the write produced by a declarator's own initializer.
	Init bool

	flags refFlag
}

// IsRead reports whether the occurrence reads the variable's value.
func (r *Reference) IsRead() bool { return r.flags&flagRead != 0 }

// IsWrite reports whether the occurrence stores into the variable.
func (r *Reference) IsWrite() bool { return r.flags&flagWrite != 0 }

// IsReadWrite reports a compound access such as `x += 1` or `x++`.
func (r *Reference) IsReadWrite() bool { return r.flags == flagRead|flagWrite }

// Scope is one lexical region.
type Scope struct {
	Kind     Kind
	Block    ast.Node
	Upper    *Scope
	Children []*Scope
	// Variables in declaration order; Names indexes them.
	Variables []*Variable
	Names     map[string]*Variable
	// References that occur lexically within this scope (not nested scopes).
	References []*Reference
	// Through holds references that escaped this scope unresolved. On the
	// global scope these are the program's unresolved names.
	Through []*Reference
}

// Analysis is the resolved scope graph for one program.
type Analysis struct {
	Global *Scope

	defs map[*ast.Identifier]*Variable
	refs map[*ast.Identifier]*Reference
}

// FindVariable resolves an identifier node to its variable: defining
// identifiers resolve through their definition, reference identifiers
// through their binding. Returns nil for unresolved or non-variable
// identifiers (property names, labels).
func (a *Analysis) FindVariable(id *ast.Identifier) *Variable {
	if v, ok := a.defs[id]; ok {
		return v
	}
	if r, ok := a.refs[id]; ok {
		return r.Resolved
	}
	return nil
}

// ReferenceAt returns the reference record for an identifier occurrence, or
// nil when the identifier is not a variable reference.
func (a *Analysis) ReferenceAt(id *ast.Identifier) *Reference {
	return a.refs[id]
}
