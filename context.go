package tendril

import (
	"github.com/jward/tendril/ast"
	"github.com/jward/tendril/scope"
)

// Context carries one parsed program, its scope graph, and the memoized
// extraction results. Construct one per program; it replaces any notion of
// process-global caches, so test isolation is just "make a new Context".
//
// The caches are keyed by the program root node: repeated extraction calls
// against the same Context and program reuse one computed map, and a
// Context can never serve records for a different program's nodes.
type Context struct {
	Program *ast.Program
	Scopes  *scope.Analysis

	refObjects map[*ast.Program]*RefObjectReferences
	reactives  map[*ast.Program]*ReactiveVariableReferences
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithScopes supplies a precomputed scope graph instead of running the
// resolver. The graph must have been built from the same program.
func WithScopes(scopes *scope.Analysis) ContextOption {
	return func(c *Context) {
		c.Scopes = scopes
	}
}

// NewContext builds the analysis context for a program, resolving scopes
// unless WithScopes supplied them.
func NewContext(program *ast.Program, opts ...ContextOption) *Context {
	c := &Context{
		Program:    program,
		refObjects: make(map[*ast.Program]*RefObjectReferences),
		reactives:  make(map[*ast.Program]*ReactiveVariableReferences),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.Scopes == nil {
		c.Scopes = scope.Analyze(program)
	}
	return c
}
