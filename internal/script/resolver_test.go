package script

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, path string, mode os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\necho hi\n"), mode))
}

func TestResolve_FindsExecutable(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, filepath.Join(dir, "deploy"), 0o755)

	r := NewResolver(dir)
	desc, ok := r.Resolve("deploy")
	require.True(t, ok)
	assert.Equal(t, "deploy", desc.Name)
	assert.True(t, filepath.IsAbs(desc.Path))
	assert.Equal(t, "deploy", filepath.Base(desc.Path))
}

func TestResolve_Nested(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, filepath.Join(dir, "ops", "deep", "restart"), 0o755)

	desc, ok := NewResolver(dir).Resolve("restart")
	require.True(t, ok)
	assert.Contains(t, desc.Path, filepath.Join("ops", "deep", "restart"))
}

func TestResolve_FirstMatchInWalkOrder(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, filepath.Join(dir, "b", "run"), 0o755)
	writeScript(t, filepath.Join(dir, "a", "run"), 0o755)

	desc, ok := NewResolver(dir).Resolve("run")
	require.True(t, ok)
	assert.Equal(t, "a", filepath.Base(filepath.Dir(desc.Path)))
}

func TestResolve_SkipsNonExecutable(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, filepath.Join(dir, "a", "job"), 0o644)
	writeScript(t, filepath.Join(dir, "b", "job"), 0o755)

	desc, ok := NewResolver(dir).Resolve("job")
	require.True(t, ok)
	assert.Equal(t, "b", filepath.Base(filepath.Dir(desc.Path)))

	writeScript(t, filepath.Join(dir, "readme"), 0o644)
	_, ok = NewResolver(dir).Resolve("readme")
	assert.False(t, ok)
}

func TestResolve_DirectoryNeverMatches(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "tools"), 0o755))
	writeScript(t, filepath.Join(dir, "tools", "x"), 0o755)

	_, ok := NewResolver(dir).Resolve("tools")
	assert.False(t, ok)
}

func TestResolve_RejectsTraversal(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "scripts")
	writeScript(t, filepath.Join(dir, "ok"), 0o755)
	writeScript(t, filepath.Join(parent, "outside"), 0o755)

	r := NewResolver(dir)
	for _, name := range []string{"../outside", "..", ".", "", "/bin/sh", "ok/", "sub/ok", `..\outside`, "ok\x00"} {
		_, ok := r.Resolve(name)
		assert.False(t, ok, "name %q must not resolve", name)
	}
}

func TestResolve_SymlinkOutsideRejected(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "scripts")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	writeScript(t, filepath.Join(parent, "evil"), 0o755)
	require.NoError(t, os.Symlink(filepath.Join(parent, "evil"), filepath.Join(dir, "evil")))

	_, ok := NewResolver(dir).Resolve("evil")
	assert.False(t, ok)
}

func TestResolve_SymlinkInsideAccepted(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, filepath.Join(dir, "lib", "real"), 0o755)
	require.NoError(t, os.Symlink(filepath.Join(dir, "lib", "real"), filepath.Join(dir, "alias")))

	desc, ok := NewResolver(dir).Resolve("alias")
	require.True(t, ok)
	assert.Equal(t, "alias", filepath.Base(desc.Path))
}

func TestResolve_SkipsGitDirectory(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, filepath.Join(dir, ".git", "hooks", "post-merge"), 0o755)

	_, ok := NewResolver(dir).Resolve("post-merge")
	assert.False(t, ok)
}

func TestResolve_MissingOrEmptyDirectory(t *testing.T) {
	_, ok := NewResolver(filepath.Join(t.TempDir(), "missing")).Resolve("anything")
	assert.False(t, ok)

	_, ok = NewResolver(t.TempDir()).Resolve("missing")
	assert.False(t, ok)
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, filepath.Join(dir, "a", "run"), 0o755)
	writeScript(t, filepath.Join(dir, "b", "run"), 0o755)
	writeScript(t, filepath.Join(dir, "deploy"), 0o755)
	writeScript(t, filepath.Join(dir, "notes.txt"), 0o644)

	r := NewResolver(dir)
	scripts, err := r.List()
	require.NoError(t, err)

	var names []string
	for _, s := range scripts {
		names = append(names, s.Name)
	}
	assert.ElementsMatch(t, []string{"run", "deploy"}, names)

	_, err = NewResolver(filepath.Join(dir, "missing")).List()
	assert.Error(t, err)
}

func TestList_RelativeToResolvedRoot(t *testing.T) {
	target := t.TempDir()
	writeScript(t, filepath.Join(target, "ops", "restart"), 0o755)

	link := filepath.Join(t.TempDir(), "scripts")
	require.NoError(t, os.Symlink(target, link))

	scripts, err := NewResolver(link).List()
	require.NoError(t, err)
	require.Len(t, scripts, 1)
	assert.Equal(t, filepath.Join("ops", "restart"), scripts[0].Rel)

	desc, ok := NewResolver(link).Resolve("restart")
	require.True(t, ok)
	assert.Equal(t, filepath.Join("ops", "restart"), desc.Rel)
}

func TestExists(t *testing.T) {
	assert.True(t, NewResolver(t.TempDir()).Exists())
	assert.False(t, NewResolver(filepath.Join(t.TempDir(), "nope")).Exists())
}
