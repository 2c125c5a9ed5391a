// Package parser turns JavaScript source into the ast package's tree using
// the tree-sitter grammar bundled with go-tree-sitter.
//
// Conversion is deliberately lossy at the edges: grammar constructs outside
// the analysis subset (classes, labeled statements, with, ...) convert to
// nothing, and ERROR nodes are dropped. The analysis layer treats absence as
// "no record", so a partially converted tree degrades to sparser results
// rather than failing.
package parser

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/jward/tendril/ast"
)

// Option configures a Parse call.
type Option func(*config)

type config struct {
	sourceType string
}

// WithSourceType sets the program's source type: "module" (default) resolves
// factory calls through ESM imports, "script" through the Vue global.
func WithSourceType(sourceType string) Option {
	return func(c *config) {
		c.sourceType = sourceType
	}
}

// Parse parses src and returns the converted program with parent links set.
func Parse(ctx context.Context, src []byte, opts ...Option) (*ast.Program, error) {
	cfg := config{sourceType: "module"}
	for _, opt := range opts {
		opt(&cfg)
	}

	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(javascript.GetLanguage())

	tree, err := p.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse javascript: %w", err)
	}
	defer tree.Close()

	c := &converter{src: src}
	program := &ast.Program{
		NodeBase:   c.at(tree.RootNode()),
		SourceType: cfg.sourceType,
	}
	for i := 0; i < int(tree.RootNode().NamedChildCount()); i++ {
		if stmt := c.statement(tree.RootNode().NamedChild(i)); stmt != nil {
			program.Body = append(program.Body, stmt)
		}
	}
	ast.SetParents(program)
	return program, nil
}

type converter struct {
	src []byte
}

func (c *converter) at(n *sitter.Node) ast.NodeBase {
	return ast.At(
		ast.Position{Line: int(n.StartPoint().Row) + 1, Column: int(n.StartPoint().Column)},
		ast.Position{Line: int(n.EndPoint().Row) + 1, Column: int(n.EndPoint().Column)},
	)
}

func (c *converter) text(n *sitter.Node) string {
	return n.Content(c.src)
}

// statement converts a statement-position node; nil means "not represented".
func (c *converter) statement(n *sitter.Node) ast.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "expression_statement":
		expr := c.expression(n.NamedChild(0))
		if expr == nil {
			return nil
		}
		return &ast.ExpressionStatement{NodeBase: c.at(n), Expression: expr}
	case "lexical_declaration", "variable_declaration":
		return c.variableDeclaration(n)
	case "statement_block":
		return c.block(n)
	case "return_statement":
		ret := &ast.ReturnStatement{NodeBase: c.at(n)}
		if n.NamedChildCount() > 0 {
			ret.Argument = c.expression(n.NamedChild(0))
		}
		return ret
	case "if_statement":
		stmt := &ast.IfStatement{
			NodeBase:   c.at(n),
			Test:       c.expression(n.ChildByFieldName("condition")),
			Consequent: c.statement(n.ChildByFieldName("consequence")),
		}
		if alt := n.ChildByFieldName("alternative"); alt != nil {
			// else_clause wraps the alternate statement.
			if alt.Type() == "else_clause" && alt.NamedChildCount() > 0 {
				stmt.Alternate = c.statement(alt.NamedChild(0))
			} else {
				stmt.Alternate = c.statement(alt)
			}
		}
		return stmt
	case "for_statement":
		stmt := &ast.ForStatement{NodeBase: c.at(n), Body: c.statement(n.ChildByFieldName("body"))}
		if init := n.ChildByFieldName("initializer"); init != nil {
			switch init.Type() {
			case "lexical_declaration", "variable_declaration":
				stmt.Init = c.variableDeclaration(init)
			case "expression_statement":
				stmt.Init = c.expression(init.NamedChild(0))
			}
		}
		if cond := n.ChildByFieldName("condition"); cond != nil && cond.Type() == "expression_statement" {
			stmt.Test = c.expression(cond.NamedChild(0))
		}
		if inc := n.ChildByFieldName("increment"); inc != nil {
			stmt.Update = c.expression(inc)
		}
		return stmt
	case "for_in_statement":
		stmt := &ast.ForInStatement{
			NodeBase: c.at(n),
			Right:    c.expression(n.ChildByFieldName("right")),
			Body:     c.statement(n.ChildByFieldName("body")),
		}
		if op := n.ChildByFieldName("operator"); op != nil {
			stmt.Of = c.text(op) == "of"
		}
		left := n.ChildByFieldName("left")
		if kind := n.ChildByFieldName("kind"); kind != nil {
			decl := &ast.VariableDeclaration{NodeBase: c.at(n), Kind: c.text(kind)}
			decl.Declarations = append(decl.Declarations, &ast.VariableDeclarator{
				NodeBase: c.at(left),
				ID:       c.pattern(left),
			})
			stmt.Left = decl
		} else {
			stmt.Left = c.pattern(left)
		}
		return stmt
	case "while_statement":
		return &ast.WhileStatement{
			NodeBase: c.at(n),
			Test:     c.expression(n.ChildByFieldName("condition")),
			Body:     c.statement(n.ChildByFieldName("body")),
		}
	case "import_statement":
		return c.importDeclaration(n)
	case "export_statement":
		if decl := n.ChildByFieldName("declaration"); decl != nil {
			inner := c.statement(decl)
			if inner == nil {
				return nil
			}
			return &ast.ExportNamedDeclaration{NodeBase: c.at(n), Declaration: inner}
		}
		if value := n.ChildByFieldName("value"); value != nil {
			expr := c.expression(value)
			if expr == nil {
				return nil
			}
			return &ast.ExportDefaultDeclaration{NodeBase: c.at(n), Declaration: expr}
		}
		return nil
	case "function_declaration", "generator_function_declaration":
		return c.functionDeclaration(n)
	case "empty_statement", "comment":
		return nil
	}
	return nil
}

func (c *converter) block(n *sitter.Node) *ast.BlockStatement {
	blk := &ast.BlockStatement{NodeBase: c.at(n)}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if stmt := c.statement(n.NamedChild(i)); stmt != nil {
			blk.Body = append(blk.Body, stmt)
		}
	}
	return blk
}

func (c *converter) variableDeclaration(n *sitter.Node) *ast.VariableDeclaration {
	kind := "var"
	if n.Type() == "lexical_declaration" {
		// First token is `let` or `const`.
		kind = c.text(n.Child(0))
	}
	decl := &ast.VariableDeclaration{NodeBase: c.at(n), Kind: kind}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() != "variable_declarator" {
			continue
		}
		d := &ast.VariableDeclarator{
			NodeBase: c.at(child),
			ID:       c.pattern(child.ChildByFieldName("name")),
		}
		if value := child.ChildByFieldName("value"); value != nil {
			d.Init = c.expression(value)
		}
		if d.ID != nil {
			decl.Declarations = append(decl.Declarations, d)
		}
	}
	return decl
}

func (c *converter) importDeclaration(n *sitter.Node) *ast.ImportDeclaration {
	imp := &ast.ImportDeclaration{NodeBase: c.at(n)}
	if src := n.ChildByFieldName("source"); src != nil {
		imp.Source = c.stringLiteral(src)
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		clause := n.NamedChild(i)
		if clause.Type() != "import_clause" {
			continue
		}
		for j := 0; j < int(clause.NamedChildCount()); j++ {
			item := clause.NamedChild(j)
			switch item.Type() {
			case "identifier":
				imp.Specifiers = append(imp.Specifiers, &ast.ImportDefaultSpecifier{
					NodeBase: c.at(item),
					Local:    c.identifier(item),
				})
			case "namespace_import":
				// `* as name` — the identifier is the only named child.
				if item.NamedChildCount() > 0 {
					id := item.NamedChild(0)
					imp.Specifiers = append(imp.Specifiers, &ast.ImportNamespaceSpecifier{
						NodeBase: c.at(item),
						Local:    c.identifier(id),
					})
				}
			case "named_imports":
				for k := 0; k < int(item.NamedChildCount()); k++ {
					spec := item.NamedChild(k)
					if spec.Type() != "import_specifier" {
						continue
					}
					name := spec.ChildByFieldName("name")
					if name == nil {
						continue
					}
					imported := c.identifier(name)
					local := imported
					if alias := spec.ChildByFieldName("alias"); alias != nil {
						local = c.identifier(alias)
					}
					imp.Specifiers = append(imp.Specifiers, &ast.ImportSpecifier{
						NodeBase: c.at(spec),
						Imported: imported,
						Local:    local,
					})
				}
			}
		}
	}
	return imp
}

func (c *converter) functionDeclaration(n *sitter.Node) *ast.FunctionDeclaration {
	fn := &ast.FunctionDeclaration{NodeBase: c.at(n)}
	if name := n.ChildByFieldName("name"); name != nil {
		fn.ID = c.identifier(name)
	}
	fn.Params = c.params(n.ChildByFieldName("parameters"))
	if body := n.ChildByFieldName("body"); body != nil {
		fn.Body = c.block(body)
	}
	return fn
}

func (c *converter) params(n *sitter.Node) []ast.Node {
	if n == nil {
		return nil
	}
	var out []ast.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if p := c.pattern(n.NamedChild(i)); p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (c *converter) identifier(n *sitter.Node) *ast.Identifier {
	return &ast.Identifier{NodeBase: c.at(n), Name: c.text(n)}
}

func (c *converter) stringLiteral(n *sitter.Node) *ast.Literal {
	raw := c.text(n)
	value := raw
	if len(raw) >= 2 {
		value = raw[1 : len(raw)-1]
	}
	return &ast.Literal{NodeBase: c.at(n), Value: value, Raw: raw}
}

// pattern converts a binding/assignment-target-position node.
func (c *converter) pattern(n *sitter.Node) ast.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "identifier", "shorthand_property_identifier_pattern":
		return c.identifier(n)
	case "object_pattern":
		return c.objectPattern(n)
	case "array_pattern":
		pat := &ast.ArrayPattern{NodeBase: c.at(n)}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			pat.Elements = append(pat.Elements, c.pattern(n.NamedChild(i)))
		}
		return pat
	case "assignment_pattern", "object_assignment_pattern":
		return &ast.AssignmentPattern{
			NodeBase: c.at(n),
			Left:     c.pattern(n.ChildByFieldName("left")),
			Right:    c.expression(n.ChildByFieldName("right")),
		}
	case "rest_pattern":
		if n.NamedChildCount() == 0 {
			return nil
		}
		return &ast.RestElement{NodeBase: c.at(n), Argument: c.pattern(n.NamedChild(0))}
	case "member_expression", "subscript_expression":
		return c.expression(n)
	case "parenthesized_expression":
		if n.NamedChildCount() > 0 {
			return c.pattern(n.NamedChild(0))
		}
		return nil
	}
	return nil
}

func (c *converter) objectPattern(n *sitter.Node) *ast.ObjectPattern {
	pat := &ast.ObjectPattern{NodeBase: c.at(n)}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "pair_pattern":
			prop := &ast.Property{NodeBase: c.at(child)}
			prop.Key, prop.Computed = c.propertyKey(child.ChildByFieldName("key"))
			prop.Value = c.pattern(child.ChildByFieldName("value"))
			if prop.Value != nil {
				pat.Properties = append(pat.Properties, prop)
			}
		case "shorthand_property_identifier_pattern":
			id := c.identifier(child)
			pat.Properties = append(pat.Properties, &ast.Property{
				NodeBase:  c.at(child),
				Key:       &ast.Identifier{NodeBase: c.at(child), Name: id.Name},
				Value:     id,
				Shorthand: true,
			})
		case "object_assignment_pattern":
			// `{ a = default }` — left is the shorthand identifier.
			left := child.ChildByFieldName("left")
			value := c.pattern(child)
			if left == nil || value == nil {
				continue
			}
			pat.Properties = append(pat.Properties, &ast.Property{
				NodeBase:  c.at(child),
				Key:       &ast.Identifier{NodeBase: c.at(left), Name: c.text(left)},
				Value:     value,
				Shorthand: true,
			})
		case "rest_pattern":
			if child.NamedChildCount() > 0 {
				pat.Properties = append(pat.Properties, &ast.RestElement{
					NodeBase: c.at(child),
					Argument: c.pattern(child.NamedChild(0)),
				})
			}
		}
	}
	return pat
}

func (c *converter) propertyKey(n *sitter.Node) (ast.Node, bool) {
	if n == nil {
		return nil, false
	}
	switch n.Type() {
	case "property_identifier":
		return c.identifier(n), false
	case "string":
		return c.stringLiteral(n), false
	case "number":
		return &ast.Literal{NodeBase: c.at(n), Raw: c.text(n)}, false
	case "computed_property_name":
		if n.NamedChildCount() > 0 {
			return c.expression(n.NamedChild(0)), true
		}
		return nil, true
	}
	return nil, false
}

// expression converts an expression-position node; nil means "not
// represented".
func (c *converter) expression(n *sitter.Node) ast.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "identifier", "shorthand_property_identifier":
		return c.identifier(n)
	case "number":
		return &ast.Literal{NodeBase: c.at(n), Raw: c.text(n)}
	case "string":
		return c.stringLiteral(n)
	case "true":
		return &ast.Literal{NodeBase: c.at(n), Value: true, Raw: "true"}
	case "false":
		return &ast.Literal{NodeBase: c.at(n), Value: false, Raw: "false"}
	case "null":
		return &ast.Literal{NodeBase: c.at(n), Raw: "null"}
	case "undefined":
		return &ast.Literal{NodeBase: c.at(n), Raw: "undefined"}
	case "regex":
		return &ast.Literal{NodeBase: c.at(n), Raw: c.text(n)}
	case "template_string":
		tpl := &ast.TemplateLiteral{NodeBase: c.at(n)}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if child.Type() == "template_substitution" && child.NamedChildCount() > 0 {
				if expr := c.expression(child.NamedChild(0)); expr != nil {
					tpl.Expressions = append(tpl.Expressions, expr)
				}
			}
		}
		return tpl
	case "object":
		obj := &ast.ObjectExpression{NodeBase: c.at(n)}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			switch child.Type() {
			case "pair":
				prop := &ast.Property{NodeBase: c.at(child)}
				prop.Key, prop.Computed = c.propertyKey(child.ChildByFieldName("key"))
				prop.Value = c.expression(child.ChildByFieldName("value"))
				if prop.Value != nil {
					obj.Properties = append(obj.Properties, prop)
				}
			case "shorthand_property_identifier":
				id := c.identifier(child)
				obj.Properties = append(obj.Properties, &ast.Property{
					NodeBase:  c.at(child),
					Key:       &ast.Identifier{NodeBase: c.at(child), Name: id.Name},
					Value:     id,
					Shorthand: true,
				})
			case "spread_element":
				if child.NamedChildCount() > 0 {
					if arg := c.expression(child.NamedChild(0)); arg != nil {
						obj.Properties = append(obj.Properties, &ast.SpreadElement{
							NodeBase: c.at(child),
							Argument: arg,
						})
					}
				}
			}
		}
		return obj
	case "array":
		arr := &ast.ArrayExpression{NodeBase: c.at(n)}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if child.Type() == "spread_element" {
				if child.NamedChildCount() > 0 {
					if arg := c.expression(child.NamedChild(0)); arg != nil {
						arr.Elements = append(arr.Elements, &ast.SpreadElement{
							NodeBase: c.at(child),
							Argument: arg,
						})
					}
				}
				continue
			}
			arr.Elements = append(arr.Elements, c.expression(child))
		}
		return arr
	case "member_expression":
		member := &ast.MemberExpression{
			NodeBase: c.at(n),
			Object:   c.expression(n.ChildByFieldName("object")),
		}
		if prop := n.ChildByFieldName("property"); prop != nil {
			member.Property = c.identifier(prop)
		}
		member.Optional = strings.Contains(c.text(n), "?.")
		if member.Object == nil || member.Property == nil {
			return nil
		}
		return member
	case "subscript_expression":
		member := &ast.MemberExpression{
			NodeBase: c.at(n),
			Object:   c.expression(n.ChildByFieldName("object")),
			Property: c.expression(n.ChildByFieldName("index")),
			Computed: true,
		}
		if member.Object == nil || member.Property == nil {
			return nil
		}
		return member
	case "call_expression":
		call := &ast.CallExpression{
			NodeBase: c.at(n),
			Callee:   c.expression(n.ChildByFieldName("function")),
		}
		if call.Callee == nil {
			return nil
		}
		call.Arguments = c.arguments(n.ChildByFieldName("arguments"))
		return call
	case "new_expression":
		ne := &ast.NewExpression{
			NodeBase: c.at(n),
			Callee:   c.expression(n.ChildByFieldName("constructor")),
		}
		if ne.Callee == nil {
			return nil
		}
		ne.Arguments = c.arguments(n.ChildByFieldName("arguments"))
		return ne
	case "assignment_expression":
		left := c.pattern(n.ChildByFieldName("left"))
		right := c.expression(n.ChildByFieldName("right"))
		if left == nil || right == nil {
			return nil
		}
		return &ast.AssignmentExpression{NodeBase: c.at(n), Operator: "=", Left: left, Right: right}
	case "augmented_assignment_expression":
		left := c.expression(n.ChildByFieldName("left"))
		right := c.expression(n.ChildByFieldName("right"))
		if left == nil || right == nil {
			return nil
		}
		op := "+="
		if o := n.ChildByFieldName("operator"); o != nil {
			op = c.text(o)
		}
		return &ast.AssignmentExpression{NodeBase: c.at(n), Operator: op, Left: left, Right: right}
	case "update_expression":
		arg := c.expression(n.ChildByFieldName("argument"))
		if arg == nil {
			return nil
		}
		upd := &ast.UpdateExpression{NodeBase: c.at(n), Argument: arg}
		if op := n.ChildByFieldName("operator"); op != nil {
			upd.Operator = c.text(op)
			upd.Prefix = op.StartByte() < n.ChildByFieldName("argument").StartByte()
		}
		return upd
	case "binary_expression":
		left := c.expression(n.ChildByFieldName("left"))
		right := c.expression(n.ChildByFieldName("right"))
		if left == nil || right == nil {
			return nil
		}
		op := ""
		if o := n.ChildByFieldName("operator"); o != nil {
			op = c.text(o)
		}
		switch op {
		case "&&", "||", "??":
			return &ast.LogicalExpression{NodeBase: c.at(n), Operator: op, Left: left, Right: right}
		}
		return &ast.BinaryExpression{NodeBase: c.at(n), Operator: op, Left: left, Right: right}
	case "unary_expression", "await_expression":
		op := "await"
		var argNode *sitter.Node
		if n.Type() == "unary_expression" {
			if o := n.ChildByFieldName("operator"); o != nil {
				op = c.text(o)
			}
			argNode = n.ChildByFieldName("argument")
		} else if n.NamedChildCount() > 0 {
			argNode = n.NamedChild(0)
		}
		arg := c.expression(argNode)
		if arg == nil {
			return nil
		}
		return &ast.UnaryExpression{NodeBase: c.at(n), Operator: op, Argument: arg}
	case "ternary_expression":
		test := c.expression(n.ChildByFieldName("condition"))
		cons := c.expression(n.ChildByFieldName("consequence"))
		alt := c.expression(n.ChildByFieldName("alternative"))
		if test == nil || cons == nil || alt == nil {
			return nil
		}
		return &ast.ConditionalExpression{NodeBase: c.at(n), Test: test, Consequent: cons, Alternate: alt}
	case "sequence_expression":
		seq := &ast.SequenceExpression{NodeBase: c.at(n)}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if expr := c.expression(n.NamedChild(i)); expr != nil {
				seq.Expressions = append(seq.Expressions, expr)
			}
		}
		return seq
	case "parenthesized_expression":
		if n.NamedChildCount() > 0 {
			return c.expression(n.NamedChild(0))
		}
		return nil
	case "arrow_function":
		arrow := &ast.ArrowFunctionExpression{NodeBase: c.at(n)}
		if single := n.ChildByFieldName("parameter"); single != nil {
			if p := c.pattern(single); p != nil {
				arrow.Params = append(arrow.Params, p)
			}
		} else {
			arrow.Params = c.params(n.ChildByFieldName("parameters"))
		}
		if body := n.ChildByFieldName("body"); body != nil {
			if body.Type() == "statement_block" {
				arrow.Body = c.block(body)
			} else {
				arrow.Body = c.expression(body)
			}
		}
		return arrow
	case "function", "function_expression", "generator_function":
		fn := &ast.FunctionExpression{NodeBase: c.at(n)}
		if name := n.ChildByFieldName("name"); name != nil {
			fn.ID = c.identifier(name)
		}
		fn.Params = c.params(n.ChildByFieldName("parameters"))
		if body := n.ChildByFieldName("body"); body != nil {
			fn.Body = c.block(body)
		}
		return fn
	}
	return nil
}

func (c *converter) arguments(n *sitter.Node) []ast.Node {
	if n == nil {
		return nil
	}
	var out []ast.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "spread_element" {
			if child.NamedChildCount() > 0 {
				if arg := c.expression(child.NamedChild(0)); arg != nil {
					out = append(out, &ast.SpreadElement{NodeBase: c.at(child), Argument: arg})
				}
			}
			continue
		}
		if expr := c.expression(child); expr != nil {
			out = append(out, expr)
		}
	}
	return out
}
