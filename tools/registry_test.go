package tools

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveMatchesDeclaredName(t *testing.T) {
	reg := NewRegistry(t.TempDir())

	require.NoError(t, reg.Upsert("echo_hello", Definition{
		Example: "<tool>echo_hello</tool>",
		Script:  "function echo_hello() {\n    echo hello\n}",
	}))

	def, err := reg.Resolve("echo_hello")
	require.NoError(t, err)
	assert.Equal(t, "echo_hello", def.Name)
}

func TestResolveEnforcesNameBoundary(t *testing.T) {
	reg := NewRegistry(t.TempDir())

	require.NoError(t, reg.Upsert("foobar", Definition{
		Script: "function foobar() {\n    echo foobar\n}",
	}))

	// "foo" is a prefix of a declared name but declares nothing itself
	_, err := reg.Resolve("foo")
	assert.ErrorIs(t, err, ErrToolNotFound)

	require.NoError(t, reg.Upsert("foo", Definition{
		Script: "function foo() {\n    echo foo\n}",
	}))

	def, err := reg.Resolve("foo")
	require.NoError(t, err)
	assert.Equal(t, "foo", def.Name)

	def, err = reg.Resolve("foobar")
	require.NoError(t, err)
	assert.Equal(t, "foobar", def.Name)
}

func TestResolveUnknownTool(t *testing.T) {
	reg := NewRegistry(t.TempDir())

	_, err := reg.Resolve("missing")
	assert.ErrorIs(t, err, ErrToolNotFound)
}

func TestRegistryLastWriteWins(t *testing.T) {
	reg := NewRegistry(t.TempDir())

	require.NoError(t, reg.Upsert("probe", Definition{Script: "function probe { uptime }"}))
	require.NoError(t, reg.Upsert("probe", Definition{Script: "function probe { uname -a }"}))

	defs, err := reg.LoadAll()
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "function probe { uname -a }", defs["probe"].Script)
}

func TestRegistryDelete(t *testing.T) {
	reg := NewRegistry(t.TempDir())

	require.NoError(t, reg.Upsert("probe", Definition{Script: "function probe { uptime }"}))
	require.NoError(t, reg.Delete("probe"))

	defs, err := reg.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, defs)
}

func TestDeclaresFunction(t *testing.T) {
	tests := []struct {
		name   string
		script string
		tool   string
		want   bool
	}{
		{"space boundary", "function probe {\n}", "probe", true},
		{"paren boundary", "function probe() {\n}", "probe", true},
		{"newline boundary", "function probe\n{\n}", "probe", true},
		{"exact end of script", "function probe", "probe", true},
		{"prefix of longer name", "function probes {\n}", "probe", false},
		{"declaration not at start", "# comment\nfunction probe {\n}", "probe", false},
		{"no declaration", "echo probe", "probe", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeclaresFunction(tt.script, tt.tool))
		})
	}
}

func TestCatalogText(t *testing.T) {
	assert.Equal(t, NoToolsNotice, CatalogText(nil))

	defs := map[string]Definition{
		"disk_usage": {Name: "disk_usage", Example: "<tool>disk_usage /</tool>"},
		"cpu_info":   {Name: "cpu_info", Example: "<tool>cpu_info</tool>"},
	}

	want := "- cpu_info: <tool>cpu_info</tool>\n- disk_usage: <tool>disk_usage /</tool>\n"
	assert.Equal(t, want, CatalogText(defs))
}

func TestRenderSystemPrompt(t *testing.T) {
	defs := map[string]Definition{
		"probe": {Name: "probe", Example: "<tool>probe</tool>"},
	}

	got := RenderSystemPrompt("You may call:\n{tools}", defs)
	assert.Equal(t, "You may call:\n- probe: <tool>probe</tool>\n", got)

	// No placeholder, no substitution
	assert.Equal(t, "plain prompt", RenderSystemPrompt("plain prompt", defs))
}

func TestResolveOnlyTouchesRegistryFile(t *testing.T) {
	dir := t.TempDir()
	reg := NewRegistry(dir)

	_, err := reg.Resolve("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrToolNotFound))
}
