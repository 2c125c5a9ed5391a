package tendril

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/tendril/ast"
	"github.com/jward/tendril/parser"
)

func newTestContext(t *testing.T, src string, opts ...parser.Option) *Context {
	t.Helper()
	program, err := parser.Parse(context.Background(), []byte(src), opts...)
	require.NoError(t, err)
	return NewContext(program)
}

// identifierRecords groups a surface's identifier-kind records by name.
func identifierRecords(refs *RefObjectReferences) map[string][]*RefObjectReference {
	out := make(map[string][]*RefObjectReference)
	for _, r := range refs.All() {
		if id, ok := r.Node.(*ast.Identifier); ok {
			out[id.Name] = append(out[id.Name], r)
		}
	}
	return out
}

func TestRefObject_SimpleBinding(t *testing.T) {
	ctx := newTestContext(t, `
import { ref } from 'vue'
const count = ref(0)
count.value++
console.log(count.value)
`)
	refs := ExtractRefObjectReferences(ctx)
	require.Equal(t, 2, refs.Len())

	byName := identifierRecords(refs)
	require.Len(t, byName["count"], 2)
	for _, r := range byName["count"] {
		assert.Equal(t, RefObjectIdentifier, r.Kind)
		assert.Equal(t, RoleExpression, r.Role)
		assert.Equal(t, "ref", r.Method)
		require.NotNil(t, r.Define)
		require.NotNil(t, r.Declaration)
		assert.Equal(t, "const", r.Declaration.Kind)
	}
}

func TestRefObject_DeclarationSlotNotRecorded(t *testing.T) {
	ctx := newTestContext(t, `
import { ref } from 'vue'
const count = ref(0)
`)
	refs := ExtractRefObjectReferences(ctx)
	assert.Equal(t, 0, refs.Len())
}

func TestRefObject_AliasedImport(t *testing.T) {
	ctx := newTestContext(t, `
import { ref as createRef } from 'vue'
const a = createRef(1)
a.value
`)
	refs := ExtractRefObjectReferences(ctx)
	require.Equal(t, 1, refs.Len())
	r := refs.All()[0]
	// Method is the canonical imported name, not the local alias.
	assert.Equal(t, "ref", r.Method)
	assert.Equal(t, RefObjectIdentifier, r.Kind)
}

func TestRefObject_OtherModuleIgnored(t *testing.T) {
	ctx := newTestContext(t, `
import { ref } from 'not-vue'
const a = ref(1)
a.value
`)
	assert.Equal(t, 0, ExtractRefObjectReferences(ctx).Len())
}

func TestRefObject_NonFactoryImportIgnored(t *testing.T) {
	ctx := newTestContext(t, `
import { watch } from 'vue'
const a = watch(1)
a.value
`)
	assert.Equal(t, 0, ExtractRefObjectReferences(ctx).Len())
}

func TestRefObject_NamespaceImport(t *testing.T) {
	ctx := newTestContext(t, `
import * as vue from 'vue'
const a = vue.shallowRef(1)
a.value
`)
	refs := ExtractRefObjectReferences(ctx)
	require.Equal(t, 1, refs.Len())
	assert.Equal(t, "shallowRef", refs.All()[0].Method)
}

func TestRefObject_ScriptModeVueGlobal(t *testing.T) {
	src := `
const a = Vue.ref(1)
a.value
`
	script := newTestContext(t, src, parser.WithSourceType("script"))
	refs := ExtractRefObjectReferences(script)
	require.Equal(t, 1, refs.Len())
	assert.Equal(t, "ref", refs.All()[0].Method)

	// Module programs resolve factories through imports only.
	module := newTestContext(t, src)
	assert.Equal(t, 0, ExtractRefObjectReferences(module).Len())
}

func TestRefObject_InlineCallRecordsExpression(t *testing.T) {
	ctx := newTestContext(t, `
import { computed } from 'vue'
use(computed(() => 1))
`)
	refs := ExtractRefObjectReferences(ctx)
	require.Equal(t, 1, refs.Len())
	r := refs.All()[0]
	assert.Equal(t, RefObjectExpression, r.Kind)
	assert.Equal(t, RoleExpression, r.Role)
	assert.Equal(t, "computed", r.Method)
	// The record's node is the definition call itself.
	assert.Same(t, ast.Node(r.Define), r.Node)
}

func TestRefObject_InlineToRefsDropped(t *testing.T) {
	ctx := newTestContext(t, `
import { toRefs } from 'vue'
use(toRefs(state))
`)
	assert.Equal(t, 0, ExtractRefObjectReferences(ctx).Len())
}

func TestRefObject_ToRefsMemberAccess(t *testing.T) {
	ctx := newTestContext(t, `
import { toRefs } from 'vue'
const { count } = toRefs(state)
count.value++
`)
	refs := ExtractRefObjectReferences(ctx)
	require.Equal(t, 1, refs.Len())
	r := refs.All()[0]
	// The whole member access classifies, not the bare identifier.
	member, ok := r.Node.(*ast.MemberExpression)
	require.True(t, ok)
	assert.Equal(t, "count", member.Object.(*ast.Identifier).Name)
	assert.Equal(t, RefObjectExpression, r.Kind)
	assert.Equal(t, "toRefs", r.Method)
}

func TestRefObject_ToRefsNestedPattern(t *testing.T) {
	ctx := newTestContext(t, `
import { toRefs } from 'vue'
const { a: { b } } = toRefs(state)
`)
	refs := ExtractRefObjectReferences(ctx)
	require.Equal(t, 1, refs.Len())
	r := refs.All()[0]
	assert.Equal(t, RefObjectPattern, r.Kind)
	assert.Equal(t, RolePattern, r.Role)
	_, ok := r.Node.(*ast.ObjectPattern)
	assert.True(t, ok)
}

func TestRefObject_ToRefsAliasPassThrough(t *testing.T) {
	ctx := newTestContext(t, `
import { toRefs } from 'vue'
const { count } = toRefs(state)
const c = count
c.value
`)
	refs := ExtractRefObjectReferences(ctx)
	require.Equal(t, 1, refs.Len())
	member, ok := refs.All()[0].Node.(*ast.MemberExpression)
	require.True(t, ok)
	assert.Equal(t, "c", member.Object.(*ast.Identifier).Name)
}

func TestRefObject_PassThroughDeclaration(t *testing.T) {
	ctx := newTestContext(t, `
import { ref } from 'vue'
const a = ref(1)
const b = a
b.value
`)
	refs := ExtractRefObjectReferences(ctx)
	// The re-assignment read chains into b; only b's occurrence records.
	require.Equal(t, 1, refs.Len())
	r := refs.All()[0]
	id, ok := r.Node.(*ast.Identifier)
	require.True(t, ok)
	assert.Equal(t, "b", id.Name)
	assert.Equal(t, "ref", r.Method)
	require.NotNil(t, r.Declaration)
}

func TestRefObject_PassThroughAssignment(t *testing.T) {
	ctx := newTestContext(t, `
import { ref } from 'vue'
const a = ref(1)
let b
b = a
b.value
`)
	refs := ExtractRefObjectReferences(ctx)
	byName := identifierRecords(refs)
	require.Len(t, byName["b"], 2)
	// The assignment target writes; the member access reads.
	assert.Equal(t, RolePattern, byName["b"][0].Role)
	assert.Equal(t, RoleExpression, byName["b"][1].Role)
	assert.Empty(t, byName["a"])
}

func TestRefObject_WriteOccurrenceRolePattern(t *testing.T) {
	ctx := newTestContext(t, `
import { ref } from 'vue'
let a = ref(1)
a = other
`)
	refs := ExtractRefObjectReferences(ctx)
	require.Equal(t, 1, refs.Len())
	r := refs.All()[0]
	assert.Equal(t, RolePattern, r.Role)
	assert.Equal(t, RefObjectIdentifier, r.Kind)
}

func TestRefObject_CompoundAssignmentRolePattern(t *testing.T) {
	ctx := newTestContext(t, `
import { ref } from 'vue'
let a = ref(1)
a += 1
`)
	refs := ExtractRefObjectReferences(ctx)
	require.Equal(t, 1, refs.Len())
	assert.Equal(t, RolePattern, refs.All()[0].Role)
}

func TestRefObject_ObjectPatternWholeRecord(t *testing.T) {
	ctx := newTestContext(t, `
import { computed } from 'vue'
const { value } = computed(getter)
`)
	refs := ExtractRefObjectReferences(ctx)
	require.Equal(t, 1, refs.Len())
	r := refs.All()[0]
	assert.Equal(t, RefObjectPattern, r.Kind)
	assert.Equal(t, RolePattern, r.Role)
}

func TestRefObject_ArrayPatternUnsupported(t *testing.T) {
	ctx := newTestContext(t, `
import { ref } from 'vue'
const [a, b] = ref([1, 2])
a.value
`)
	assert.Equal(t, 0, ExtractRefObjectReferences(ctx).Len())
}

func TestRefObject_OccurrenceClassifiedOnce(t *testing.T) {
	// Two aliases of the same cell converge on the same occurrences.
	ctx := newTestContext(t, `
import { ref } from 'vue'
const a = ref(1)
const b = a
const c = a
b.value
c.value
`)
	refs := ExtractRefObjectReferences(ctx)
	assert.Equal(t, 2, refs.Len())
	for _, r := range refs.All() {
		assert.Equal(t, RefObjectIdentifier, r.Kind)
	}
}

func TestRefObject_Memoized(t *testing.T) {
	ctx := newTestContext(t, `
import { ref } from 'vue'
const a = ref(1)
a.value
`)
	first := ExtractRefObjectReferences(ctx)
	second := ExtractRefObjectReferences(ctx)
	require.Same(t, first, second)

	// A fresh context recomputes from scratch.
	other := NewContext(ctx.Program, WithScopes(ctx.Scopes))
	assert.NotSame(t, first, ExtractRefObjectReferences(other))
}

func TestRefObject_GetByNode(t *testing.T) {
	ctx := newTestContext(t, `
import { ref } from 'vue'
const a = ref(1)
a.value
`)
	refs := ExtractRefObjectReferences(ctx)
	require.Equal(t, 1, refs.Len())
	node := refs.All()[0].Node
	assert.Same(t, refs.All()[0], refs.Get(node))
	assert.Nil(t, refs.Get(ctx.Program))
}

func TestRefObject_AllOrderedByPosition(t *testing.T) {
	ctx := newTestContext(t, `
import { ref } from 'vue'
const a = ref(1)
const b = ref(2)
b.value
a.value
`)
	refs := ExtractRefObjectReferences(ctx)
	all := refs.All()
	require.Len(t, all, 2)
	assert.Equal(t, "b", all[0].Node.(*ast.Identifier).Name)
	assert.Equal(t, "a", all[1].Node.(*ast.Identifier).Name)
}

func TestRefObject_UseInsideFunction(t *testing.T) {
	ctx := newTestContext(t, `
import { ref } from 'vue'
const count = ref(0)
function inc() {
  count.value++
}
`)
	refs := ExtractRefObjectReferences(ctx)
	require.Equal(t, 1, refs.Len())
	assert.Equal(t, "count", refs.All()[0].Node.(*ast.Identifier).Name)
}

func TestRefObject_ShadowedNameNotTracked(t *testing.T) {
	ctx := newTestContext(t, `
import { ref } from 'vue'
const count = ref(0)
function other() {
  let count = 1
  count++
}
`)
	// The inner count is a different variable.
	assert.Equal(t, 0, ExtractRefObjectReferences(ctx).Len())
}
