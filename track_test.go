package tendril

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/tendril/parser"
)

func methodsOf(defs []definition) []string {
	out := make([]string, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.method)
	}
	return out
}

func TestFactoryCalls_NamedImports(t *testing.T) {
	ctx := newTestContext(t, `
import { ref, computed, watch } from 'vue'
const a = ref(1)
const b = computed(() => a.value)
watch(a, () => {})
`)
	defs := ctx.factoryCalls()
	assert.ElementsMatch(t, []string{"ref", "computed"}, methodsOf(defs))
}

func TestFactoryCalls_ImportedButUncalled(t *testing.T) {
	ctx := newTestContext(t, `
import { ref } from 'vue'
const fns = [ref]
`)
	// A non-call read of the factory binding is not a definition site.
	assert.Empty(t, ctx.factoryCalls())
}

func TestFactoryCalls_AliasKeepsCanonicalName(t *testing.T) {
	ctx := newTestContext(t, `
import { shallowRef as sr } from 'vue'
const a = sr(1)
`)
	defs := ctx.factoryCalls()
	require.Len(t, defs, 1)
	assert.Equal(t, "shallowRef", defs[0].method)
}

func TestFactoryCalls_NamespaceMemberCalls(t *testing.T) {
	ctx := newTestContext(t, `
import * as vue from 'vue'
const a = vue.ref(1)
const b = vue.custom(1)
vue.toRef(a, 'x')
`)
	defs := ctx.factoryCalls()
	assert.ElementsMatch(t, []string{"ref", "toRef"}, methodsOf(defs))
}

func TestFactoryCalls_ComputedMemberIgnored(t *testing.T) {
	ctx := newTestContext(t, `
import * as vue from 'vue'
const a = vue['ref'](1)
`)
	assert.Empty(t, ctx.factoryCalls())
}

func TestFactoryCalls_ScriptModeGlobal(t *testing.T) {
	ctx := newTestContext(t, `
const a = Vue.ref(1)
const b = Vue.computed(() => a.value)
`, parser.WithSourceType("script"))
	defs := ctx.factoryCalls()
	assert.ElementsMatch(t, []string{"ref", "computed"}, methodsOf(defs))
}

func TestFactoryCalls_ScriptModeDeclaredVueBinding(t *testing.T) {
	// A declared Vue binding resolves; occurrences still count.
	ctx := newTestContext(t, `
const Vue = globalThis.Vue
const a = Vue.ref(1)
`, parser.WithSourceType("script"))
	defs := ctx.factoryCalls()
	require.Len(t, defs, 1)
	assert.Equal(t, "ref", defs[0].method)
}

func TestMacroCalls_UnresolvedByConvention(t *testing.T) {
	ctx := newTestContext(t, `
let a = $ref(0)
let b = $shallowRef(0)
plain(a, b)
`)
	assert.Len(t, ctx.macroCalls("$ref"), 1)
	assert.Len(t, ctx.macroCalls("$shallowRef"), 1)
	assert.Empty(t, ctx.macroCalls("$computed"))
}

func TestMacroCalls_ShadowedNameStillCounts(t *testing.T) {
	// A user-declared $ref is still the macro by name; recognition is
	// purely conventional.
	ctx := newTestContext(t, `
const $ref = makeRef
let a = $ref(0)
`)
	assert.Len(t, ctx.macroCalls("$ref"), 1)
}
