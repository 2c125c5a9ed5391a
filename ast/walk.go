package ast

// Children returns a node's direct children in source order. Nil slots
// (array holes, absent clauses) are omitted.
func Children(n Node) []Node {
	var out []Node
	add := func(nodes ...Node) {
		for _, c := range nodes {
			if c != nil {
				out = append(out, c)
			}
		}
	}
	switch n := n.(type) {
	case *Program:
		add(n.Body...)
	case *TemplateLiteral:
		add(n.Expressions...)
	case *ObjectExpression:
		add(n.Properties...)
	case *Property:
		add(n.Key, n.Value)
	case *ArrayExpression:
		add(n.Elements...)
	case *SpreadElement:
		add(n.Argument)
	case *MemberExpression:
		add(n.Object, n.Property)
	case *CallExpression:
		add(n.Callee)
		add(n.Arguments...)
	case *NewExpression:
		add(n.Callee)
		add(n.Arguments...)
	case *AssignmentExpression:
		add(n.Left, n.Right)
	case *UpdateExpression:
		add(n.Argument)
	case *BinaryExpression:
		add(n.Left, n.Right)
	case *LogicalExpression:
		add(n.Left, n.Right)
	case *UnaryExpression:
		add(n.Argument)
	case *ConditionalExpression:
		add(n.Test, n.Consequent, n.Alternate)
	case *SequenceExpression:
		add(n.Expressions...)
	case *FunctionDeclaration:
		if n.ID != nil {
			add(n.ID)
		}
		add(n.Params...)
		add(n.Body)
	case *FunctionExpression:
		if n.ID != nil {
			add(n.ID)
		}
		add(n.Params...)
		add(n.Body)
	case *ArrowFunctionExpression:
		add(n.Params...)
		add(n.Body)
	case *ObjectPattern:
		add(n.Properties...)
	case *ArrayPattern:
		add(n.Elements...)
	case *AssignmentPattern:
		add(n.Left, n.Right)
	case *RestElement:
		add(n.Argument)
	case *VariableDeclaration:
		for _, d := range n.Declarations {
			add(d)
		}
	case *VariableDeclarator:
		add(n.ID, n.Init)
	case *ExpressionStatement:
		add(n.Expression)
	case *BlockStatement:
		add(n.Body...)
	case *ReturnStatement:
		add(n.Argument)
	case *IfStatement:
		add(n.Test, n.Consequent, n.Alternate)
	case *ForStatement:
		add(n.Init, n.Test, n.Update, n.Body)
	case *ForInStatement:
		add(n.Left, n.Right, n.Body)
	case *WhileStatement:
		add(n.Test, n.Body)
	case *ImportDeclaration:
		add(n.Specifiers...)
		if n.Source != nil {
			add(n.Source)
		}
	case *ImportSpecifier:
		add(n.Imported)
		if n.Local != n.Imported {
			add(n.Local)
		}
	case *ImportDefaultSpecifier:
		add(n.Local)
	case *ImportNamespaceSpecifier:
		add(n.Local)
	case *ExportNamedDeclaration:
		add(n.Declaration)
	case *ExportDefaultDeclaration:
		add(n.Declaration)
	}
	return out
}

// SetParents wires parent links for the whole subtree rooted at n. The
// parser calls it once per program; trees built by hand in tests must call
// it before analysis.
func SetParents(n Node) {
	for _, c := range Children(n) {
		c.setParent(n)
		SetParents(c)
	}
}

// Walk visits n and every descendant in depth-first source order. Returning
// false from fn prunes the subtree below the current node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}

// PatternIdentifiers collects every identifier bound by a destructuring
// pattern, in source order: plain identifiers, object/array pattern
// elements, default-value left sides, and rest arguments. Computed keys and
// default-value expressions contribute nothing.
func PatternIdentifiers(pattern Node) []*Identifier {
	var ids []*Identifier
	var visit func(Node)
	visit = func(n Node) {
		switch n := n.(type) {
		case *Identifier:
			ids = append(ids, n)
		case *ObjectPattern:
			for _, p := range n.Properties {
				switch p := p.(type) {
				case *Property:
					visit(p.Value)
				case *RestElement:
					visit(p.Argument)
				}
			}
		case *ArrayPattern:
			for _, el := range n.Elements {
				if el != nil {
					visit(el)
				}
			}
		case *AssignmentPattern:
			visit(n.Left)
		case *RestElement:
			visit(n.Argument)
		}
	}
	if pattern != nil {
		visit(pattern)
	}
	return ids
}
