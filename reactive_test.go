package tendril

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReactive_SimpleMacro(t *testing.T) {
	ctx := newTestContext(t, `
let count = $ref(0)
count++
console.log(count)
`)
	refs := ExtractReactiveVariableReferences(ctx)
	require.Equal(t, 2, refs.Len())
	for _, r := range refs.All() {
		assert.Equal(t, "count", r.Node.Name)
		assert.Equal(t, "$ref", r.Method)
		assert.False(t, r.Escape)
		require.NotNil(t, r.Define)
		require.NotNil(t, r.Declaration)
	}
}

func TestReactive_MacroNeedsNoDeclaration(t *testing.T) {
	// Macros are ambient: no import, no binding, still recognized.
	ctx := newTestContext(t, `
const double = $computed(() => 1)
double
`)
	refs := ExtractReactiveVariableReferences(ctx)
	require.Equal(t, 1, refs.Len())
	assert.Equal(t, "$computed", refs.All()[0].Method)
}

func TestReactive_InlineMacroBindsNothing(t *testing.T) {
	ctx := newTestContext(t, `
use($ref(0))
`)
	assert.Equal(t, 0, ExtractReactiveVariableReferences(ctx).Len())
}

func TestReactive_DestructureMacro(t *testing.T) {
	ctx := newTestContext(t, `
const { x, y: { z } } = $(useMouse())
move(x, z)
`)
	refs := ExtractReactiveVariableReferences(ctx)
	require.Equal(t, 2, refs.Len())
	names := []string{refs.All()[0].Node.Name, refs.All()[1].Node.Name}
	assert.Equal(t, []string{"x", "z"}, names)
	for _, r := range refs.All() {
		assert.Equal(t, "$", r.Method)
	}
}

func TestReactive_SingleValueMacroRejectsPattern(t *testing.T) {
	ctx := newTestContext(t, `
const { x } = $ref(obj)
x
`)
	assert.Equal(t, 0, ExtractReactiveVariableReferences(ctx).Len())
}

func TestReactive_EscapeDirectArgument(t *testing.T) {
	ctx := newTestContext(t, `
let a = $ref(1)
$$(a)
watchEffect(() => a)
`)
	refs := ExtractReactiveVariableReferences(ctx)
	all := refs.All()
	require.Len(t, all, 2)
	assert.True(t, all[0].Escape)
	assert.False(t, all[1].Escape)
}

func TestReactive_EscapeThroughLiteralNesting(t *testing.T) {
	ctx := newTestContext(t, `
let a = $ref(1)
$$([a, { b: a }, ...[a]])
`)
	refs := ExtractReactiveVariableReferences(ctx)
	require.Equal(t, 3, refs.Len())
	for _, r := range refs.All() {
		assert.True(t, r.Escape, "occurrence at %d:%d", r.Node.Span().Start.Line, r.Node.Span().Start.Column)
	}
}

func TestReactive_EscapeStopsAtOtherCalls(t *testing.T) {
	// A computation between the occurrence and the hint breaks the chain;
	// the hint wrapping an occurrence directly always escapes it.
	ctx := newTestContext(t, `
let a = $ref(1)
$$(foo(a))
foo($$(a))
`)
	refs := ExtractReactiveVariableReferences(ctx)
	all := refs.All()
	require.Len(t, all, 2)
	assert.False(t, all[0].Escape)
	assert.True(t, all[1].Escape)
}

func TestReactive_EscapeStopsAtPropertyKey(t *testing.T) {
	ctx := newTestContext(t, `
let a = $ref(1)
$$({ [a]: 1 })
`)
	refs := ExtractReactiveVariableReferences(ctx)
	require.Equal(t, 1, refs.Len())
	// Computed keys compute; only property values carry the chain.
	assert.False(t, refs.All()[0].Escape)
}

func TestReactive_NoPassThroughChaining(t *testing.T) {
	// Unlike ref-object tracking, macro locals do not chain through
	// re-assignment; the alias read itself records, the alias does not.
	ctx := newTestContext(t, `
let a = $ref(1)
const b = a
b
`)
	refs := ExtractReactiveVariableReferences(ctx)
	require.Equal(t, 1, refs.Len())
	assert.Equal(t, "a", refs.All()[0].Node.Name)
}

func TestReactive_Memoized(t *testing.T) {
	ctx := newTestContext(t, `
let a = $ref(1)
a
`)
	first := ExtractReactiveVariableReferences(ctx)
	require.Same(t, first, ExtractReactiveVariableReferences(ctx))
}

func TestReactive_GetByIdentifier(t *testing.T) {
	ctx := newTestContext(t, `
let a = $ref(1)
a
`)
	refs := ExtractReactiveVariableReferences(ctx)
	require.Equal(t, 1, refs.Len())
	r := refs.All()[0]
	assert.Same(t, r, refs.Get(r.Node))
}

func TestReactive_SeparateFromRefObjects(t *testing.T) {
	// The two extractors track disjoint vocabularies over one program.
	ctx := newTestContext(t, `
import { ref } from 'vue'
const a = ref(1)
let b = $ref(2)
a.value
b
`)
	refObjects := ExtractRefObjectReferences(ctx)
	reactives := ExtractReactiveVariableReferences(ctx)
	require.Equal(t, 1, refObjects.Len())
	require.Equal(t, 1, reactives.Len())
	assert.Equal(t, "ref", refObjects.All()[0].Method)
	assert.Equal(t, "$ref", reactives.All()[0].Method)
}
