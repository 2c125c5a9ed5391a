// Package ast defines an estree-shaped syntax tree for JavaScript programs.
//
// The node set covers the declaration, destructuring, and expression forms
// the reactivity analysis needs; syntax outside that subset is simply absent
// from the tree. Every node carries a parent link (wired by SetParents) and
// 1-based line / 0-based column positions.
package ast

// Position is a point in the source file. Line is 1-based, Column 0-based,
// following the LSP convention used by tree-sitter points.
type Position struct {
	Line   int
	Column int
}

// Loc is a node's source span.
type Loc struct {
	Start Position
	End   Position
}

// Node is implemented by every syntax node.
type Node interface {
	// Type returns the estree node-type name, e.g. "MemberExpression".
	Type() string
	// Parent returns the enclosing node, or nil for the Program root.
	Parent() Node
	// Span returns the node's source location.
	Span() Loc

	setParent(Node)
}

// NodeBase carries the location and parent link embedded in every node.
// Builders set Loc at construction time; parent links are wired afterwards
// by SetParents.
type NodeBase struct {
	parent Node
	Loc    Loc
}

func (b *NodeBase) Parent() Node     { return b.parent }
func (b *NodeBase) Span() Loc        { return b.Loc }
func (b *NodeBase) setParent(p Node) { b.parent = p }

// At returns a NodeBase spanning the given positions.
func At(start, end Position) NodeBase { return NodeBase{Loc: Loc{Start: start, End: end}} }

// Program is the root node. SourceType is "module" or "script".
type Program struct {
	NodeBase
	SourceType string
	Body       []Node
}

func (*Program) Type() string { return "Program" }

// Identifier is a name occurrence: a binding, a reference, or a non-computed
// property name.
type Identifier struct {
	NodeBase
	Name string
}

func (*Identifier) Type() string { return "Identifier" }

// Literal is a primitive literal. Value holds the decoded Go value where the
// parser produces one (strings, bools, nil); Raw always holds source text.
type Literal struct {
	NodeBase
	Value any
	Raw   string
}

func (*Literal) Type() string { return "Literal" }

// TemplateLiteral keeps only its substitution expressions; the raw quasis do
// not participate in reference analysis.
type TemplateLiteral struct {
	NodeBase
	Expressions []Node
}

func (*TemplateLiteral) Type() string { return "TemplateLiteral" }

// ObjectExpression's Properties hold *Property and *SpreadElement nodes.
type ObjectExpression struct {
	NodeBase
	Properties []Node
}

func (*ObjectExpression) Type() string { return "ObjectExpression" }

// Property is a key/value member of an ObjectExpression or ObjectPattern.
// In pattern position, Value is itself a pattern.
type Property struct {
	NodeBase
	Key       Node
	Value     Node
	Computed  bool
	Shorthand bool
}

func (*Property) Type() string { return "Property" }

// ArrayExpression's Elements may contain nil holes and *SpreadElement nodes.
type ArrayExpression struct {
	NodeBase
	Elements []Node
}

func (*ArrayExpression) Type() string { return "ArrayExpression" }

// SpreadElement is `...arg` in array/object literals and call arguments.
type SpreadElement struct {
	NodeBase
	Argument Node
}

func (*SpreadElement) Type() string { return "SpreadElement" }

// MemberExpression is `object.property` or `object[property]` (Computed).
type MemberExpression struct {
	NodeBase
	Object   Node
	Property Node
	Computed bool
	Optional bool
}

func (*MemberExpression) Type() string { return "MemberExpression" }

// CallExpression is a call. Arguments may contain *SpreadElement nodes.
type CallExpression struct {
	NodeBase
	Callee    Node
	Arguments []Node
	Optional  bool
}

func (*CallExpression) Type() string { return "CallExpression" }

// NewExpression is `new Callee(...)`.
type NewExpression struct {
	NodeBase
	Callee    Node
	Arguments []Node
}

func (*NewExpression) Type() string { return "NewExpression" }

// AssignmentExpression covers plain `=` and compound operators (`+=`, ...).
type AssignmentExpression struct {
	NodeBase
	Operator string
	Left     Node
	Right    Node
}

func (*AssignmentExpression) Type() string { return "AssignmentExpression" }

// UpdateExpression is `++x`, `x++`, `--x`, `x--`.
type UpdateExpression struct {
	NodeBase
	Operator string
	Argument Node
	Prefix   bool
}

func (*UpdateExpression) Type() string { return "UpdateExpression" }

// BinaryExpression is an infix arithmetic/comparison expression.
type BinaryExpression struct {
	NodeBase
	Operator string
	Left     Node
	Right    Node
}

func (*BinaryExpression) Type() string { return "BinaryExpression" }

// LogicalExpression is `&&`, `||`, `??`.
type LogicalExpression struct {
	NodeBase
	Operator string
	Left     Node
	Right    Node
}

func (*LogicalExpression) Type() string { return "LogicalExpression" }

// UnaryExpression is a prefix operator expression (`!x`, `typeof x`, ...).
type UnaryExpression struct {
	NodeBase
	Operator string
	Argument Node
}

func (*UnaryExpression) Type() string { return "UnaryExpression" }

// ConditionalExpression is `test ? consequent : alternate`.
type ConditionalExpression struct {
	NodeBase
	Test       Node
	Consequent Node
	Alternate  Node
}

func (*ConditionalExpression) Type() string { return "ConditionalExpression" }

// SequenceExpression is a comma expression.
type SequenceExpression struct {
	NodeBase
	Expressions []Node
}

func (*SequenceExpression) Type() string { return "SequenceExpression" }

// FunctionDeclaration declares a named function in the enclosing scope.
type FunctionDeclaration struct {
	NodeBase
	ID     *Identifier
	Params []Node
	Body   Node
}

func (*FunctionDeclaration) Type() string { return "FunctionDeclaration" }

// FunctionExpression is a (possibly named) function literal.
type FunctionExpression struct {
	NodeBase
	ID     *Identifier
	Params []Node
	Body   Node
}

func (*FunctionExpression) Type() string { return "FunctionExpression" }

// ArrowFunctionExpression's Body is a BlockStatement or a bare expression.
type ArrowFunctionExpression struct {
	NodeBase
	Params []Node
	Body   Node
}

func (*ArrowFunctionExpression) Type() string { return "ArrowFunctionExpression" }

// ObjectPattern is an object destructuring target. Properties hold *Property
// (with pattern Values) and *RestElement nodes.
type ObjectPattern struct {
	NodeBase
	Properties []Node
}

func (*ObjectPattern) Type() string { return "ObjectPattern" }

// ArrayPattern is an array destructuring target. Elements may contain nil
// holes.
type ArrayPattern struct {
	NodeBase
	Elements []Node
}

func (*ArrayPattern) Type() string { return "ArrayPattern" }

// AssignmentPattern is a default-value pattern: `left = right`.
type AssignmentPattern struct {
	NodeBase
	Left  Node
	Right Node
}

func (*AssignmentPattern) Type() string { return "AssignmentPattern" }

// RestElement is `...argument` in a pattern or parameter list.
type RestElement struct {
	NodeBase
	Argument Node
}

func (*RestElement) Type() string { return "RestElement" }

// VariableDeclaration is a `var`/`let`/`const` statement.
type VariableDeclaration struct {
	NodeBase
	Kind         string
	Declarations []*VariableDeclarator
}

func (*VariableDeclaration) Type() string { return "VariableDeclaration" }

// VariableDeclarator binds one pattern, optionally with an initializer.
type VariableDeclarator struct {
	NodeBase
	ID   Node
	Init Node
}

func (*VariableDeclarator) Type() string { return "VariableDeclarator" }

// ExpressionStatement wraps an expression in statement position.
type ExpressionStatement struct {
	NodeBase
	Expression Node
}

func (*ExpressionStatement) Type() string { return "ExpressionStatement" }

// BlockStatement is `{ ... }` in statement position.
type BlockStatement struct {
	NodeBase
	Body []Node
}

func (*BlockStatement) Type() string { return "BlockStatement" }

// ReturnStatement's Argument may be nil.
type ReturnStatement struct {
	NodeBase
	Argument Node
}

func (*ReturnStatement) Type() string { return "ReturnStatement" }

// IfStatement's Alternate may be nil.
type IfStatement struct {
	NodeBase
	Test       Node
	Consequent Node
	Alternate  Node
}

func (*IfStatement) Type() string { return "IfStatement" }

// ForStatement is a classic three-clause loop; any clause may be nil.
type ForStatement struct {
	NodeBase
	Init   Node
	Test   Node
	Update Node
	Body   Node
}

func (*ForStatement) Type() string { return "ForStatement" }

// ForInStatement covers `for (left in right)`; Of distinguishes `for...of`.
type ForInStatement struct {
	NodeBase
	Left  Node
	Right Node
	Body  Node
	Of    bool
}

func (f *ForInStatement) Type() string {
	if f.Of {
		return "ForOfStatement"
	}
	return "ForInStatement"
}

// WhileStatement is a `while` loop.
type WhileStatement struct {
	NodeBase
	Test Node
	Body Node
}

func (*WhileStatement) Type() string { return "WhileStatement" }

// ImportDeclaration is an ESM import statement.
type ImportDeclaration struct {
	NodeBase
	Specifiers []Node
	Source     *Literal
}

func (*ImportDeclaration) Type() string { return "ImportDeclaration" }

// ImportSpecifier is `{ imported as local }` (Imported == Local when not
// aliased).
type ImportSpecifier struct {
	NodeBase
	Imported *Identifier
	Local    *Identifier
}

func (*ImportSpecifier) Type() string { return "ImportSpecifier" }

// ImportDefaultSpecifier is the `local` in `import local from "m"`.
type ImportDefaultSpecifier struct {
	NodeBase
	Local *Identifier
}

func (*ImportDefaultSpecifier) Type() string { return "ImportDefaultSpecifier" }

// ImportNamespaceSpecifier is the `local` in `import * as local from "m"`.
type ImportNamespaceSpecifier struct {
	NodeBase
	Local *Identifier
}

func (*ImportNamespaceSpecifier) Type() string { return "ImportNamespaceSpecifier" }

// ExportNamedDeclaration keeps only its inner declaration; specifier-only
// exports carry nothing the analysis consumes.
type ExportNamedDeclaration struct {
	NodeBase
	Declaration Node
}

func (*ExportNamedDeclaration) Type() string { return "ExportNamedDeclaration" }

// ExportDefaultDeclaration is `export default <expr>`.
type ExportDefaultDeclaration struct {
	NodeBase
	Declaration Node
}

func (*ExportDefaultDeclaration) Type() string { return "ExportDefaultDeclaration" }
