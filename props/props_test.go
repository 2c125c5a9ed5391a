package props

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/tendril/ast"
	"github.com/jward/tendril/parser"
	"github.com/jward/tendril/scope"
)

// patternAccesses parses src, takes the first declarator's pattern, and
// extracts its accesses.
func patternAccesses(t *testing.T, src string) []Access {
	t.Helper()
	program, err := parser.Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	scopes := scope.Analyze(program)

	decl, ok := program.Body[0].(*ast.VariableDeclaration)
	require.True(t, ok)
	return FromPattern(scopes, decl.Declarations[0].ID)
}

func TestFromPattern_MemberReads(t *testing.T) {
	accesses := patternAccesses(t, `
const { count } = source
count.value++
log(count.value)
`)
	require.Len(t, accesses, 2)
	for _, acc := range accesses {
		assert.Equal(t, AccessExpression, acc.Kind)
		assert.Equal(t, "count", acc.Property)
		member, ok := acc.Node.(*ast.MemberExpression)
		require.True(t, ok)
		assert.Equal(t, "value", member.Property.(*ast.Identifier).Name)
	}
}

func TestFromPattern_BareUse(t *testing.T) {
	accesses := patternAccesses(t, `
const { count } = source
log(count)
`)
	require.Len(t, accesses, 1)
	assert.Equal(t, AccessExpression, accesses[0].Kind)
	_, ok := accesses[0].Node.(*ast.Identifier)
	assert.True(t, ok)
}

func TestFromPattern_RenamedProperty(t *testing.T) {
	accesses := patternAccesses(t, `
const { count: c } = source
c.value
`)
	require.Len(t, accesses, 1)
	// The access traces back to the source property name, not the alias.
	assert.Equal(t, "count", accesses[0].Property)
}

func TestFromPattern_StringKey(t *testing.T) {
	accesses := patternAccesses(t, `
const { 'my-count': c } = source
c.value
`)
	require.Len(t, accesses, 1)
	assert.Equal(t, "my-count", accesses[0].Property)
}

func TestFromPattern_NestedPatternEmitsPattern(t *testing.T) {
	accesses := patternAccesses(t, `
const { outer: { inner } } = source
`)
	require.Len(t, accesses, 1)
	assert.Equal(t, AccessPattern, accesses[0].Kind)
	assert.Equal(t, "outer", accesses[0].Property)
	_, ok := accesses[0].Node.(*ast.ObjectPattern)
	assert.True(t, ok)
}

func TestFromPattern_AliasChasing(t *testing.T) {
	accesses := patternAccesses(t, `
const { count } = source
const c = count
c.value
`)
	require.Len(t, accesses, 1)
	member, ok := accesses[0].Node.(*ast.MemberExpression)
	require.True(t, ok)
	assert.Equal(t, "c", member.Object.(*ast.Identifier).Name)
	assert.Equal(t, "count", accesses[0].Property)
}

func TestFromPattern_AliasDestructureEmitsPattern(t *testing.T) {
	accesses := patternAccesses(t, `
const { count } = source
const { value } = count
`)
	require.Len(t, accesses, 1)
	assert.Equal(t, AccessPattern, accesses[0].Kind)
	assert.Equal(t, "count", accesses[0].Property)
}

func TestFromPattern_OverwriteIsNotAccess(t *testing.T) {
	accesses := patternAccesses(t, `
let { count } = source
count = fresh()
`)
	assert.Empty(t, accesses)
}

func TestFromPattern_DefaultValue(t *testing.T) {
	accesses := patternAccesses(t, `
const { count = 0 } = source
count.value
`)
	require.Len(t, accesses, 1)
	assert.Equal(t, "count", accesses[0].Property)
}

func TestFromPattern_RestElement(t *testing.T) {
	accesses := patternAccesses(t, `
const { count, ...others } = source
others.extra
`)
	require.Len(t, accesses, 1)
	assert.Equal(t, AccessExpression, accesses[0].Kind)
	// Rest accesses carry no single property name.
	assert.Equal(t, "", accesses[0].Property)
}

func TestFromPattern_WholeBindingIdentifier(t *testing.T) {
	accesses := patternAccesses(t, `
const state = source
state.count
state.total
`)
	require.Len(t, accesses, 2)
	// The whole-shape binding reports member accesses without a root
	// property name.
	for _, acc := range accesses {
		assert.Equal(t, "", acc.Property)
	}
}

func TestFromPattern_CyclicAliasTerminates(t *testing.T) {
	accesses := patternAccesses(t, `
let { count } = source
let c = count
c = c
c.value
`)
	require.Len(t, accesses, 1)
	assert.Equal(t, "count", accesses[0].Property)
}

func TestFromPattern_UnsupportedShapes(t *testing.T) {
	program, err := parser.Parse(context.Background(), []byte(`const [a] = source`))
	require.NoError(t, err)
	scopes := scope.Analyze(program)
	pattern := program.Body[0].(*ast.VariableDeclaration).Declarations[0].ID
	assert.Empty(t, FromPattern(scopes, pattern))
	assert.Empty(t, FromPattern(scopes, nil))
}
