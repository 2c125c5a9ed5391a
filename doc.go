// Package tendril resolves reactivity references in JavaScript programs
// written against the Vue-style reactivity dialect: factory calls (`ref`,
// `computed`, `toRef`, `customRef`, `shallowRef`, `toRefs`) that produce
// ref objects, and compiler macros (`$ref`, `$computed`, `$shallowRef`,
// `$customRef`, `$toRef`, `$`) that produce auto-unwrapped reactive locals.
//
// Given a parsed program with resolved scoping, tendril classifies every
// identifier, member expression, or destructuring pattern that participates
// in one of these bindings: is it the binding's declaration, a read, a
// write, or a destructured sub-binding, and which factory call does it
// trace back to. It performs no diagnostics and no rewriting; it is a pure
// query provider for tools that do.
//
// # Pipeline
//
//  1. Parse: the parser package converts JavaScript source to an
//     estree-shaped tree via tree-sitter.
//  2. Resolve: the scope package builds the scope graph (variables,
//     read/write references, unresolved names).
//  3. Extract: ExtractRefObjectReferences and
//     ExtractReactiveVariableReferences scan factory and macro call sites,
//     decompose their binding patterns, and classify every occurrence of
//     every bound identifier, following re-assignment chains.
//
// # Usage
//
//	program, err := parser.Parse(ctx, source)
//	if err != nil { ... }
//
//	actx := tendril.NewContext(program)
//	refs := tendril.ExtractRefObjectReferences(actx)
//	if r := refs.Get(node); r != nil {
//	    // r.Method, r.Define, r.Role, ...
//	}
//
// Both extraction entry points memoize per program on the Context: calling
// either twice returns the same query surface. Analysis is single-threaded
// and synchronous; a Context must not be shared across goroutines while
// extraction is in flight.
//
// Unsupported or unrecognized shapes (array patterns of a factory result,
// rest elements, bare member-expression targets, inline macro calls) never
// fail — they simply produce no records.
package tendril
