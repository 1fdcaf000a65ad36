package expand

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reef-shell/reef/internal/completion"
)

func touch(t *testing.T, dir, name string, mode os.FileMode) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(""), mode))
}

func texts(cands []completion.Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Text
	}
	return out
}

func TestHasWildcard(t *testing.T) {
	assert.True(t, HasWildcard("*.go"))
	assert.True(t, HasWildcard("file?"))
	assert.True(t, HasWildcard("[ab]c"))
	assert.False(t, HasWildcard("plain"))
	assert.False(t, HasWildcard(`esc\*aped`))
}

func TestExpand_PrefixSuffix(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "readme.md", 0644)
	touch(t, dir, "reader.go", 0644)
	touch(t, dir, "other.go", 0644)

	x := New()
	got, err := x.Expand("read", completion.ExpandOptions{WorkingDir: dir})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.ElementsMatch(t, []string{"me.md", "er.go"}, texts(got))
	for _, c := range got {
		assert.False(t, c.Flags.ReplacesToken)
		assert.Equal(t, completion.MatchPrefix, c.Match.Kind)
	}
}

func TestExpand_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "src"), 0755))

	x := New()
	got, err := x.Expand("s", completion.ExpandOptions{WorkingDir: dir})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "rc/", got[0].Text)
	assert.True(t, got[0].Flags.NoSpace, "trailing slash suppresses the space")
}

func TestExpand_CaseInsensitiveReplacement(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "README.md", 0644)

	x := New()
	got, err := x.Expand("read", completion.ExpandOptions{WorkingDir: dir})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "README.md", got[0].Text)
	assert.True(t, got[0].Flags.ReplacesToken)
	assert.True(t, got[0].Flags.NoCase)
	assert.Equal(t, completion.MatchPrefixCI, got[0].Match.Kind)
}

func TestExpand_SubdirectoryKeepsTypedPrefix(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "src"), 0755))
	touch(t, filepath.Join(dir, "src"), "Main.go", 0644)

	x := New()
	got, err := x.Expand("src/main", completion.ExpandOptions{WorkingDir: dir})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "src/Main.go", got[0].Text, "replacement keeps the directory part verbatim")
	assert.True(t, got[0].Flags.ReplacesToken)
}

func TestExpand_Fuzzy(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "notification.go", 0644)

	x := New()
	got, err := x.Expand("ntf", completion.ExpandOptions{WorkingDir: dir})
	require.NoError(t, err)
	assert.Empty(t, got, "subsequence matching is off by default")

	got, err = x.Expand("ntf", completion.ExpandOptions{WorkingDir: dir, Fuzzy: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "notification.go", got[0].Text)
	assert.Equal(t, completion.MatchSubsequence, got[0].Match.Kind)
}

func TestExpand_DotFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, ".hidden", 0644)
	touch(t, dir, "shown", 0644)

	x := New()
	got, err := x.Expand("", completion.ExpandOptions{WorkingDir: dir})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "shown", got[0].Text)

	got, err = x.Expand(".h", completion.ExpandOptions{WorkingDir: dir})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "idden", got[0].Text)
}

func TestExpand_DirectoriesOnly(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "file", 0644)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder"), 0755))

	x := New()
	got, err := x.Expand("f", completion.ExpandOptions{WorkingDir: dir, DirectoriesOnly: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "older/", got[0].Text)
}

func TestExpand_ExecutablesOnly(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "script", 0755)
	touch(t, dir, "data", 0644)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	x := New()
	got, err := x.Expand("", completion.ExpandOptions{WorkingDir: dir, ExecutablesOnly: true})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"script", "sub/"}, texts(got), "directories stay visible")
}

func TestExpand_Wildcard(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.go", 0644)
	touch(t, dir, "b.go", 0644)
	touch(t, dir, "c.txt", 0644)

	x := New()
	got, err := x.Expand("*.go", completion.ExpandOptions{WorkingDir: dir})
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, c := range got {
		assert.True(t, c.Flags.ReplacesToken)
		assert.Equal(t, completion.MatchExact, c.Match.Kind)
		assert.Equal(t, ".go", filepath.Ext(c.Text))
	}
}

func TestExpand_WildcardSkipped(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.go", 0644)

	x := New()
	got, err := x.Expand("*.go", completion.ExpandOptions{WorkingDir: dir, SkipWildcards: true})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExpand_MissingDirectory(t *testing.T) {
	x := New()
	got, err := x.Expand("no/such/dir/x", completion.ExpandOptions{WorkingDir: t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSplitToken(t *testing.T) {
	dirPart, last := splitToken("src/main")
	assert.Equal(t, "src/", dirPart)
	assert.Equal(t, "main", last)

	dirPart, last = splitToken("main")
	assert.Equal(t, "", dirPart)
	assert.Equal(t, "main", last)

	dirPart, last = splitToken("/abs/")
	assert.Equal(t, "/abs/", dirPart)
	assert.Equal(t, "", last)
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, home, expandTilde("~"))
	assert.Equal(t, filepath.Join(home, "src"), expandTilde("~/src"))
	assert.Equal(t, "plain", expandTilde("plain"))
	assert.Equal(t, "~no-such-user/x", expandTilde("~no-such-user/x"))
}
