package completion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBuiltinArgs(t *testing.T) {
	req, err := ParseBuiltinArgs([]string{
		"-c", "git", "-s", "v", "-l", "verbose", "-d", "be loud", "-f",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"git"}, req.Commands)
	assert.Equal(t, []rune{'v'}, req.Shorts)
	assert.Equal(t, []string{"verbose"}, req.Longs)
	assert.Equal(t, "be loud", req.Description)
	assert.Equal(t, ModeNoFiles, req.Mode)
	assert.False(t, req.Erase)
}

func TestParseBuiltinArgs_Exclusive(t *testing.T) {
	req, err := ParseBuiltinArgs([]string{"-c", "git", "-s", "o", "-x", "-a", "a b c"})
	require.NoError(t, err)
	assert.Equal(t, ModeExclusive, req.Mode)
	assert.Equal(t, "a b c", req.Args)
}

func TestParseBuiltinArgs_RequireParameter(t *testing.T) {
	req, err := ParseBuiltinArgs([]string{"-c", "git", "-s", "o", "-r"})
	require.NoError(t, err)
	assert.Equal(t, ModeNoCommon, req.Mode)
}

func TestParseBuiltinArgs_Errors(t *testing.T) {
	_, err := ParseBuiltinArgs([]string{"-c", "git", "-s", "long"})
	assert.Error(t, err, "multi-character short option")

	_, err = ParseBuiltinArgs([]string{"-c", "git", "-A", "-u"})
	assert.Error(t, err, "conflicting authoritative flags")

	_, err = ParseBuiltinArgs([]string{"-c", "git", "stray"})
	assert.Error(t, err, "positional arguments are rejected")
}

func TestParseBuiltinArgs_DoComplete(t *testing.T) {
	req, err := ParseBuiltinArgs([]string{"-C", "git chec"})
	require.NoError(t, err)
	assert.True(t, req.DoCompleteSet)
	assert.Equal(t, "git chec", req.DoComplete)

	req, err = ParseBuiltinArgs([]string{"-C", ""})
	require.NoError(t, err)
	assert.True(t, req.DoCompleteSet, "empty -C still counts")
}

func TestApplyBuiltin_AddAndErase(t *testing.T) {
	eng := newTestEngine(t, testEngineOpts{})

	req, err := ParseBuiltinArgs([]string{"-c", "git", "-s", "v", "-l", "verbose", "-d", "be loud"})
	require.NoError(t, err)
	require.NoError(t, eng.ApplyBuiltin(req))

	entries := eng.Registry().Snapshot("git", "")
	require.Len(t, entries, 1)
	require.Len(t, entries[0].Rules, 2, "one rule per mentioned option")

	req, err = ParseBuiltinArgs([]string{"-c", "git", "-s", "v", "-e"})
	require.NoError(t, err)
	require.NoError(t, eng.ApplyBuiltin(req))

	entries = eng.Registry().Snapshot("git", "")
	require.Len(t, entries, 1)
	require.Len(t, entries[0].Rules, 1)
	assert.Equal(t, "verbose", entries[0].Rules[0].Option.Long)

	req, err = ParseBuiltinArgs([]string{"-c", "git", "-e"})
	require.NoError(t, err)
	require.NoError(t, eng.ApplyBuiltin(req))
	assert.Empty(t, eng.Registry().Snapshot("git", ""))
}

func TestApplyBuiltin_PositionalArgumentRule(t *testing.T) {
	eng := newTestEngine(t, testEngineOpts{})

	req, err := ParseBuiltinArgs([]string{"-c", "git", "-a", "add commit push", "-f"})
	require.NoError(t, err)
	require.NoError(t, eng.ApplyBuiltin(req))

	entries := eng.Registry().Snapshot("git", "")
	require.Len(t, entries, 1)
	require.Len(t, entries[0].Rules, 1)
	assert.True(t, entries[0].Rules[0].Option.IsArgument())
}

func TestApplyBuiltin_AuthoritativeOnly(t *testing.T) {
	eng := newTestEngine(t, testEngineOpts{})

	req, err := ParseBuiltinArgs([]string{"-c", "git", "-A"})
	require.NoError(t, err)
	require.NoError(t, eng.ApplyBuiltin(req))

	entries := eng.Registry().Snapshot("git", "")
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Authoritative)
	assert.Empty(t, entries[0].Rules, "no argument rule is implied")
}

func TestApplyBuiltin_Rejections(t *testing.T) {
	eng := newTestEngine(t, testEngineOpts{})

	req, err := ParseBuiltinArgs([]string{"-C", "git "})
	require.NoError(t, err)
	assert.Error(t, eng.ApplyBuiltin(req))

	req, err = ParseBuiltinArgs([]string{"-s", "v"})
	require.NoError(t, err)
	assert.Error(t, eng.ApplyBuiltin(req), "no command or path")
}
