package shellenv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnv(t *testing.T) {
	t.Setenv("REEF_TEST_VAR", "from-process")
	env := NewEnv()

	v, ok := env.Get("REEF_TEST_VAR")
	require.True(t, ok)
	assert.Equal(t, "from-process", v)

	env.Set("REEF_TEST_VAR", "overridden")
	v, ok = env.Get("REEF_TEST_VAR")
	require.True(t, ok)
	assert.Equal(t, "overridden", v)
	assert.Equal(t, "from-process", os.Getenv("REEF_TEST_VAR"), "process env is untouched")

	env.Unset("REEF_TEST_VAR")
	_, ok = env.Get("REEF_TEST_VAR")
	assert.False(t, ok)

	env.Set("REEF_TEST_VAR", "back")
	v, ok = env.Get("REEF_TEST_VAR")
	require.True(t, ok)
	assert.Equal(t, "back", v)
}

func TestEnv_Names(t *testing.T) {
	t.Setenv("REEF_TEST_NAMES", "x")
	env := NewEnv()
	env.Set("REEF_OVERLAY_ONLY", "y")
	env.Unset("REEF_TEST_NAMES")

	names := env.Names()
	assert.Contains(t, names, "REEF_OVERLAY_ONLY")
	assert.NotContains(t, names, "REEF_TEST_NAMES")
	assert.IsIncreasing(t, names)
}

func TestUsers_Each(t *testing.T) {
	path := filepath.Join(t.TempDir(), "passwd")
	require.NoError(t, os.WriteFile(path, []byte(`
# comment
root:x:0:0:root:/root:/bin/sh
alice:x:1000:1000::/home/alice:/bin/sh
bob:x:1001:1001::/home/bob:/bin/sh
`), 0644))

	users := &Users{Path: path}
	var names []string
	require.NoError(t, users.Each(func(name string) bool {
		names = append(names, name)
		return true
	}))
	assert.Equal(t, []string{"root", "alice", "bob"}, names)
}

func TestUsers_EachStops(t *testing.T) {
	path := filepath.Join(t.TempDir(), "passwd")
	require.NoError(t, os.WriteFile(path, []byte("a:x:1:1::/home/a:/bin/sh\nb:x:2:2::/home/b:/bin/sh\n"), 0644))

	users := &Users{Path: path}
	var names []string
	require.NoError(t, users.Each(func(name string) bool {
		names = append(names, name)
		return false
	}))
	assert.Equal(t, []string{"a"}, names)
}

func TestUsers_EachMissingFile(t *testing.T) {
	users := &Users{Path: filepath.Join(t.TempDir(), "nope")}
	assert.Error(t, users.Each(func(string) bool { return true }))
}

func TestHomeDir(t *testing.T) {
	assert.NotEmpty(t, HomeDir("root"))
	assert.Empty(t, HomeDir("no-such-user-here"))
}

func TestResolver(t *testing.T) {
	r := Resolver{}

	assert.NotEmpty(t, r.Resolve("sh"))
	assert.Empty(t, r.Resolve("no-such-command-here"))

	dir := t.TempDir()
	path := filepath.Join(dir, "tool")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0755))
	assert.Equal(t, path, r.Resolve(path))
	assert.Empty(t, r.Resolve(filepath.Join(dir, "missing")))
}

func TestFuncTable(t *testing.T) {
	table := NewFuncTable(map[string]string{
		"reef_prompt": "Prompt renderer",
		"_helper":     "",
	})
	table.Add("greet", "Say hello")

	assert.Equal(t, []string{"greet", "reef_prompt"}, table.Names(false))
	assert.Equal(t, []string{"_helper", "greet", "reef_prompt"}, table.Names(true))
	assert.Equal(t, "Say hello", table.Description("greet"))
	assert.Equal(t, "", table.Description("unknown"))
}

func TestParseFuncTable(t *testing.T) {
	table := ParseFuncTable("greet\tSay hello\nbare\n\n_hidden\tinternal\n")

	assert.Equal(t, []string{"bare", "greet"}, table.Names(false))
	assert.Equal(t, "Say hello", table.Description("greet"))
	assert.Equal(t, "", table.Description("bare"))
	assert.Equal(t, "internal", table.Description("_hidden"))
}

func TestBuiltins(t *testing.T) {
	b := Builtins{}
	names := b.Names()
	assert.Contains(t, names, "cd")
	assert.Contains(t, names, "complete")
	assert.IsIncreasing(t, names)
	assert.Equal(t, "Change working directory", b.Description("cd"))
	assert.Equal(t, "", b.Description("unknown"))
}
