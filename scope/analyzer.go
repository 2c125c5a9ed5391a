package scope

import "github.com/jward/tendril/ast"

// Analyze builds the scope graph for a program. It never fails: constructs
// it does not model simply contribute no variables or references.
func Analyze(program *ast.Program) *Analysis {
	a := &analyzer{
		analysis: &Analysis{
			defs: make(map[*ast.Identifier]*Variable),
			refs: make(map[*ast.Identifier]*Reference),
		},
	}
	a.analysis.Global = a.push(GlobalScope, program)
	for _, stmt := range program.Body {
		a.visit(stmt)
	}
	a.pop()
	a.resolve()
	return a.analysis
}

type analyzer struct {
	analysis *Analysis
	current  *Scope
	allRefs  []*Reference
}

func (a *analyzer) push(kind Kind, block ast.Node) *Scope {
	s := &Scope{
		Kind:  kind,
		Block: block,
		Upper: a.current,
		Names: make(map[string]*Variable),
	}
	if a.current != nil {
		a.current.Children = append(a.current.Children, s)
	}
	a.current = s
	return s
}

func (a *analyzer) pop() {
	a.current = a.current.Upper
}

// hoistTarget returns the scope a `var` or function declaration lands in.
func (a *analyzer) hoistTarget() *Scope {
	for s := a.current; ; s = s.Upper {
		if s.Kind != BlockScope {
			return s
		}
	}
}

func (a *analyzer) declare(s *Scope, id *ast.Identifier, kind DefKind, node, parent ast.Node) *Variable {
	v := s.Names[id.Name]
	if v == nil {
		v = &Variable{Name: id.Name, Scope: s}
		s.Names[id.Name] = v
		s.Variables = append(s.Variables, v)
	}
	v.Defs = append(v.Defs, &Definition{Kind: kind, Name: id, Node: node, Parent: parent})
	a.analysis.defs[id] = v
	return v
}

func (a *analyzer) addReference(id *ast.Identifier, flags refFlag, init bool) {
	r := &Reference{Identifier: id, From: a.current, Init: init, flags: flags}
	a.current.References = append(a.current.References, r)
	a.analysis.refs[id] = r
	a.allRefs = append(a.allRefs, r)
}

// resolve binds every collected reference by walking its lexical chain.
// Unresolved references accumulate on the Through list of each scope they
// escape, ending at the global scope.
func (a *analyzer) resolve() {
	for _, r := range a.allRefs {
		name := r.Identifier.Name
		for s := r.From; s != nil; s = s.Upper {
			if v, ok := s.Names[name]; ok {
				r.Resolved = v
				v.References = append(v.References, r)
				break
			}
			s.Through = append(s.Through, r)
		}
	}
}

// bindingPattern walks a declaration pattern, declaring each bound
// identifier via declare and visiting default values and computed keys as
// ordinary expressions.
func (a *analyzer) bindingPattern(n ast.Node, declare func(*ast.Identifier)) {
	switch n := n.(type) {
	case *ast.Identifier:
		declare(n)
	case *ast.ObjectPattern:
		for _, p := range n.Properties {
			switch p := p.(type) {
			case *ast.Property:
				if p.Computed && p.Key != nil {
					a.visit(p.Key)
				}
				a.bindingPattern(p.Value, declare)
			case *ast.RestElement:
				a.bindingPattern(p.Argument, declare)
			}
		}
	case *ast.ArrayPattern:
		for _, el := range n.Elements {
			if el != nil {
				a.bindingPattern(el, declare)
			}
		}
	case *ast.AssignmentPattern:
		a.bindingPattern(n.Left, declare)
		a.visit(n.Right)
	case *ast.RestElement:
		a.bindingPattern(n.Argument, declare)
	case *ast.MemberExpression:
		a.visit(n)
	}
}

// assignPattern walks an assignment target, recording write references for
// identifiers and expression reads for everything else.
func (a *analyzer) assignPattern(n ast.Node) {
	switch n := n.(type) {
	case *ast.Identifier:
		a.addReference(n, flagWrite, false)
	case *ast.ObjectPattern:
		for _, p := range n.Properties {
			switch p := p.(type) {
			case *ast.Property:
				if p.Computed && p.Key != nil {
					a.visit(p.Key)
				}
				a.assignPattern(p.Value)
			case *ast.RestElement:
				a.assignPattern(p.Argument)
			}
		}
	case *ast.ArrayPattern:
		for _, el := range n.Elements {
			if el != nil {
				a.assignPattern(el)
			}
		}
	case *ast.AssignmentPattern:
		a.assignPattern(n.Left)
		a.visit(n.Right)
	case *ast.RestElement:
		a.assignPattern(n.Argument)
	case *ast.MemberExpression:
		a.visit(n)
	}
}

func (a *analyzer) visitFunction(block ast.Node, name *ast.Identifier, params []ast.Node, body ast.Node) {
	a.push(FunctionScope, block)
	if name != nil {
		// Named function expressions bind their own name inside themselves.
		a.declare(a.current, name, DefFunction, block, nil)
	}
	for _, p := range params {
		a.bindingPattern(p, func(id *ast.Identifier) {
			a.declare(a.current, id, DefParameter, p, nil)
		})
	}
	switch body := body.(type) {
	case *ast.BlockStatement:
		// The body block shares the function scope.
		for _, stmt := range body.Body {
			a.visit(stmt)
		}
	case nil:
	default:
		a.visit(body)
	}
	a.pop()
}

func (a *analyzer) visitDeclaration(n *ast.VariableDeclaration) {
	target := a.current
	kind := DefVariable
	if n.Kind == "var" {
		target = a.hoistTarget()
	}
	for _, d := range n.Declarations {
		hasInit := d.Init != nil
		a.bindingPattern(d.ID, func(id *ast.Identifier) {
			a.declare(target, id, kind, d, n)
			if hasInit {
				a.addReference(id, flagWrite, true)
			}
		})
		if hasInit {
			a.visit(d.Init)
		}
	}
}

func (a *analyzer) visit(n ast.Node) {
	if n == nil {
		return
	}
	switch n := n.(type) {
	case *ast.VariableDeclaration:
		a.visitDeclaration(n)
	case *ast.FunctionDeclaration:
		if n.ID != nil {
			a.declare(a.current, n.ID, DefFunction, n, nil)
		}
		a.visitFunction(n, nil, n.Params, n.Body)
	case *ast.FunctionExpression:
		a.visitFunction(n, n.ID, n.Params, n.Body)
	case *ast.ArrowFunctionExpression:
		a.visitFunction(n, nil, n.Params, n.Body)
	case *ast.BlockStatement:
		a.push(BlockScope, n)
		for _, stmt := range n.Body {
			a.visit(stmt)
		}
		a.pop()
	case *ast.ForStatement:
		a.push(BlockScope, n)
		a.visit(n.Init)
		a.visit(n.Test)
		a.visit(n.Update)
		a.visit(n.Body)
		a.pop()
	case *ast.ForInStatement:
		a.push(BlockScope, n)
		switch left := n.Left.(type) {
		case *ast.VariableDeclaration:
			target := a.current
			if left.Kind == "var" {
				target = a.hoistTarget()
			}
			for _, d := range left.Declarations {
				a.bindingPattern(d.ID, func(id *ast.Identifier) {
					a.declare(target, id, DefVariable, d, left)
					a.addReference(id, flagWrite, true)
				})
			}
		default:
			a.assignPattern(n.Left)
		}
		a.visit(n.Right)
		a.visit(n.Body)
		a.pop()
	case *ast.AssignmentExpression:
		if n.Operator == "=" {
			a.assignPattern(n.Left)
		} else if id, ok := n.Left.(*ast.Identifier); ok {
			a.addReference(id, flagRead|flagWrite, false)
		} else {
			a.visit(n.Left)
		}
		a.visit(n.Right)
	case *ast.UpdateExpression:
		if id, ok := n.Argument.(*ast.Identifier); ok {
			a.addReference(id, flagRead|flagWrite, false)
		} else {
			a.visit(n.Argument)
		}
	case *ast.Identifier:
		a.addReference(n, flagRead, false)
	case *ast.MemberExpression:
		a.visit(n.Object)
		if n.Computed {
			a.visit(n.Property)
		}
	case *ast.Property:
		if n.Computed && n.Key != nil {
			a.visit(n.Key)
		}
		a.visit(n.Value)
	case *ast.ImportDeclaration:
		for _, spec := range n.Specifiers {
			switch spec := spec.(type) {
			case *ast.ImportSpecifier:
				a.declare(a.current, spec.Local, DefImport, spec, n)
			case *ast.ImportDefaultSpecifier:
				a.declare(a.current, spec.Local, DefImport, spec, n)
			case *ast.ImportNamespaceSpecifier:
				a.declare(a.current, spec.Local, DefImport, spec, n)
			}
		}
	case *ast.Literal, *ast.TemplateLiteral:
		for _, c := range ast.Children(n) {
			a.visit(c)
		}
	default:
		for _, c := range ast.Children(n) {
			a.visit(c)
		}
	}
}
