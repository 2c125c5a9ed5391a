package tendril

import (
	"github.com/jward/tendril/ast"
	"github.com/jward/tendril/scope"
)

// Recognized vocabulary. Fixed by the dialect, not configurable.
const (
	vueModuleName  = "vue"
	vueGlobalName  = "Vue"
	escapeHintName = "$$"
)

// factoryNames are the reactive-cell constructors; every call site of one
// is a candidate definition site.
var factoryNames = map[string]bool{
	"ref":        true,
	"computed":   true,
	"toRef":      true,
	"customRef":  true,
	"shallowRef": true,
	"toRefs":     true,
}

// macroNames are the compiler macros, recognized by convention whether or
// not anything declares them. Order fixes discovery order.
var macroNames = []string{"$ref", "$computed", "$shallowRef", "$customRef", "$toRef", "$"}

// definition is one discovered definition site: a recognized call and its
// canonical method name.
type definition struct {
	node   *ast.CallExpression
	method string
}

// factoryCalls scans for calls to the recognized factory names. Module
// programs resolve them through imports of the vue module (named, aliased,
// or namespace access); script programs through the Vue global object.
func (c *Context) factoryCalls() []definition {
	if c.Program.SourceType == "script" {
		return c.globalFactoryCalls()
	}
	return c.moduleFactoryCalls()
}

func (c *Context) moduleFactoryCalls() []definition {
	var defs []definition
	for _, stmt := range c.Program.Body {
		imp, ok := stmt.(*ast.ImportDeclaration)
		if !ok || imp.Source == nil || imp.Source.Value != vueModuleName {
			continue
		}
		for _, spec := range imp.Specifiers {
			switch spec := spec.(type) {
			case *ast.ImportSpecifier:
				if !factoryNames[spec.Imported.Name] {
					continue
				}
				defs = append(defs, c.calleeCalls(spec.Local, spec.Imported.Name)...)
			case *ast.ImportNamespaceSpecifier:
				defs = append(defs, c.namespaceCalls(c.bindingReferences(spec.Local))...)
			}
		}
	}
	return defs
}

// globalFactoryCalls finds `Vue.ref(...)`-style calls through the Vue
// global, whether Vue resolves to a declared binding or stays unresolved.
func (c *Context) globalFactoryCalls() []definition {
	return c.namespaceCalls(c.nameOccurrences(vueGlobalName))
}

// calleeCalls returns the calls whose callee is a read reference of the
// variable bound by local.
func (c *Context) calleeCalls(local *ast.Identifier, method string) []definition {
	var defs []definition
	for _, id := range c.bindingReferences(local) {
		if call, ok := id.Parent().(*ast.CallExpression); ok && call.Callee == id {
			defs = append(defs, definition{node: call, method: method})
		}
	}
	return defs
}

// namespaceCalls filters identifier occurrences down to
// `<id>.<factory>(...)` call sites.
func (c *Context) namespaceCalls(ids []*ast.Identifier) []definition {
	var defs []definition
	for _, id := range ids {
		member, ok := id.Parent().(*ast.MemberExpression)
		if !ok || member.Object != id || member.Computed {
			continue
		}
		prop, ok := member.Property.(*ast.Identifier)
		if !ok || !factoryNames[prop.Name] {
			continue
		}
		if call, ok := member.Parent().(*ast.CallExpression); ok && call.Callee == member {
			defs = append(defs, definition{node: call, method: prop.Name})
		}
	}
	return defs
}

// bindingReferences returns the read-reference identifiers of the variable
// defined by id.
func (c *Context) bindingReferences(id *ast.Identifier) []*ast.Identifier {
	variable := c.Scopes.FindVariable(id)
	if variable == nil {
		return nil
	}
	return readIdentifiers(variable)
}

// nameOccurrences merges the occurrences of a name: read references of the
// globally declared binding, if any, plus every unresolved reference with
// that literal name. Compiler macros and globals are recognized this way —
// by convention, not declaration.
func (c *Context) nameOccurrences(name string) []*ast.Identifier {
	var ids []*ast.Identifier
	if v := c.Scopes.Global.Names[name]; v != nil {
		ids = append(ids, readIdentifiers(v)...)
	}
	for _, ref := range c.Scopes.Global.Through {
		if ref.Identifier.Name == name && ref.IsRead() {
			ids = append(ids, ref.Identifier)
		}
	}
	return ids
}

// macroCalls finds calls to an ambient compiler macro by name.
func (c *Context) macroCalls(name string) []definition {
	var defs []definition
	for _, id := range c.nameOccurrences(name) {
		if call, ok := id.Parent().(*ast.CallExpression); ok && call.Callee == id {
			defs = append(defs, definition{node: call, method: name})
		}
	}
	return defs
}

func readIdentifiers(v *scope.Variable) []*ast.Identifier {
	var ids []*ast.Identifier
	for _, ref := range v.References {
		if ref.IsRead() {
			ids = append(ids, ref.Identifier)
		}
	}
	return ids
}
