package compile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wkalt/fbc/compile"
)

func writeSchema(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "base.fbs", `namespace N; table Base {}`)
	main := writeSchema(t, dir, "main.fbs", `
		include "base.fbs";
		namespace N;
		table Main { b: Base; }
		root_type Main;
	`)

	units, err := compile.LoadFiles([]string{main}, nil)
	require.NoError(t, err)
	require.Len(t, units, 2)
	// Dependencies come first.
	require.Equal(t, filepath.Join(dir, "base.fbs"), units[0].Name)

	schema, err := compile.Compile(units...)
	require.NoError(t, err)
	require.Contains(t, schema.RefByName, "N.Base")
	require.Equal(t, schema.RefByName["N.Main"], schema.Root)
}

func TestLoadFilesIncludeDirs(t *testing.T) {
	shared := t.TempDir()
	writeSchema(t, shared, "common/types.fbs", `namespace Shared; table Common {}`)

	dir := t.TempDir()
	main := writeSchema(t, dir, "main.fbs", `
		include "common/types.fbs";
		table Main { c: Shared.Common; }
	`)

	_, err := compile.LoadFiles([]string{main}, nil)
	require.Error(t, err)

	units, err := compile.LoadFiles([]string{main}, []string{shared})
	require.NoError(t, err)
	require.Len(t, units, 2)
}

func TestLoadFilesDiamondInclude(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "shared.fbs", `table Shared {}`)
	writeSchema(t, dir, "left.fbs", `include "shared.fbs"; table Left { s: Shared; }`)
	writeSchema(t, dir, "right.fbs", `include "shared.fbs"; table Right { s: Shared; }`)
	main := writeSchema(t, dir, "main.fbs", `
		include "left.fbs";
		include "right.fbs";
		table Main { l: Left; r: Right; }
	`)

	units, err := compile.LoadFiles([]string{main}, nil)
	require.NoError(t, err)
	// shared.fbs loads once despite two include paths to it.
	require.Len(t, units, 4)

	_, err = compile.Compile(units...)
	require.NoError(t, err)
}

func TestLoadFilesIncludeCycle(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "a.fbs", `include "b.fbs"; table A {}`)
	b := writeSchema(t, dir, "b.fbs", `include "a.fbs"; table B { a: A; }`)

	units, err := compile.LoadFiles([]string{b}, nil)
	require.NoError(t, err)
	require.Len(t, units, 2)

	_, err = compile.Compile(units...)
	require.NoError(t, err)
}

func TestLoadFilesMissingFile(t *testing.T) {
	_, err := compile.LoadFiles([]string{"/does/not/exist.fbs"}, nil)
	require.Error(t, err)
}

func TestLoadFilesParseErrorsAreCollected(t *testing.T) {
	dir := t.TempDir()
	a := writeSchema(t, dir, "a.fbs", `table {`)
	b := writeSchema(t, dir, "b.fbs", `namespace ;`)

	_, err := compile.LoadFiles([]string{a, b}, nil)
	var list compile.ErrorList
	require.ErrorAs(t, err, &list)
	require.Len(t, list, 2)
}
