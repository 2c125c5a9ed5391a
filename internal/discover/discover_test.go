package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root string, rel string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("const a = 1\n"), 0o644))
	return path
}

func relPaths(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("app.js"))
	assert.True(t, Supported("mod.mjs"))
	assert.True(t, Supported("legacy.CJS"))
	assert.False(t, Supported("style.css"))
	assert.False(t, Supported("component.jsx"))
	assert.False(t, Supported("noext"))
}

func TestFiles_FindsJavaScript(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.js")
	writeFile(t, root, "lib/util.mjs")
	writeFile(t, root, "readme.md")

	paths, err := Files(root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"app.js", "lib/util.mjs"}, relPaths(t, root, paths))
}

func TestFiles_SkipsBuildDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.js")
	writeFile(t, root, "node_modules/dep/index.js")
	writeFile(t, root, "dist/bundle.js")
	writeFile(t, root, "vendor/lib.js")

	paths, err := Files(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"app.js"}, relPaths(t, root, paths))
}

func TestFiles_SkipsHiddenDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.js")
	writeFile(t, root, ".cache/gen.js")

	paths, err := Files(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"app.js"}, relPaths(t, root, paths))
}

func TestFiles_HonorsGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.js")
	writeFile(t, root, "generated.js")
	writeFile(t, root, "out/extra.js")
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("generated.js\nout/\n"), 0o644))

	paths, err := Files(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"app.js"}, relPaths(t, root, paths))
}

func TestFiles_EmptyDirectory(t *testing.T) {
	paths, err := Files(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, paths)
}
