package completion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptionSpec_IsArgument(t *testing.T) {
	assert.True(t, OptionSpec{}.IsArgument())
	assert.False(t, OptionSpec{Short: 'v'}.IsArgument())
	assert.False(t, OptionSpec{Long: "verbose"}.IsArgument())
}

func TestResultMode_Bits(t *testing.T) {
	assert.False(t, ModeShared.noFiles())
	assert.False(t, ModeShared.noCommon())
	assert.True(t, ModeNoFiles.noFiles())
	assert.False(t, ModeNoFiles.noCommon())
	assert.False(t, ModeNoCommon.noFiles())
	assert.True(t, ModeNoCommon.noCommon())
	assert.True(t, ModeExclusive.noFiles())
	assert.True(t, ModeExclusive.noCommon())
}

func TestMatchOldStyle(t *testing.T) {
	rule := Rule{Option: OptionSpec{Long: "follow", OldStyle: true}}
	assert.True(t, matchOldStyle(rule, "-follow"))
	assert.False(t, matchOldStyle(rule, "--follow"))
	assert.False(t, matchOldStyle(rule, "-follo"))
	assert.False(t, matchOldStyle(Rule{Option: OptionSpec{Long: "follow"}}, "-follow"))
}

func TestMatchShortOrGNU(t *testing.T) {
	short := Rule{Option: OptionSpec{Short: 'v'}}
	long := Rule{Option: OptionSpec{Long: "color"}}
	old := Rule{Option: OptionSpec{Long: "color", OldStyle: true}}

	assert.True(t, matchShortOrGNU(short, "-v"))
	assert.True(t, matchShortOrGNU(short, "-xv"))
	assert.False(t, matchShortOrGNU(short, "--v"))
	assert.False(t, matchShortOrGNU(short, "-x"))

	assert.True(t, matchShortOrGNU(long, "--color"))
	assert.True(t, matchShortOrGNU(long, "--color=auto"))
	assert.False(t, matchShortOrGNU(long, "--col"))
	assert.False(t, matchShortOrGNU(old, "--color"))
}

func TestAttachedArg(t *testing.T) {
	tests := []struct {
		name     string
		rule     Rule
		tok      string
		wantArg  string
		wantHit  bool
	}{
		{
			name:    "bare short option",
			rule:    Rule{Option: OptionSpec{Short: 'v'}},
			tok:     "-v",
			wantArg: "",
			wantHit: true,
		},
		{
			name:    "glued short argument with require-parameter",
			rule:    Rule{Option: OptionSpec{Short: 'o'}, Mode: ModeNoCommon},
			tok:     "-ofile",
			wantArg: "file",
			wantHit: true,
		},
		{
			name:    "glued short argument without require-parameter",
			rule:    Rule{Option: OptionSpec{Short: 'o'}},
			tok:     "-ofile",
			wantArg: "",
			wantHit: false,
		},
		{
			name:    "gnu with value",
			rule:    Rule{Option: OptionSpec{Long: "color"}},
			tok:     "--color=auto",
			wantArg: "auto",
			wantHit: true,
		},
		{
			name:    "gnu with empty value",
			rule:    Rule{Option: OptionSpec{Long: "color"}},
			tok:     "--color=",
			wantArg: "",
			wantHit: true,
		},
		{
			name:    "gnu without equals",
			rule:    Rule{Option: OptionSpec{Long: "color"}},
			tok:     "--color",
			wantArg: "",
			wantHit: false,
		},
		{
			name:    "gnu name mismatch",
			rule:    Rule{Option: OptionSpec{Long: "color"}},
			tok:     "--colour=auto",
			wantArg: "",
			wantHit: false,
		},
		{
			name:    "old style never glues",
			rule:    Rule{Option: OptionSpec{Long: "color", OldStyle: true}},
			tok:     "--color=auto",
			wantArg: "",
			wantHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arg, hit := attachedArg(tt.rule, tt.tok)
			assert.Equal(t, tt.wantArg, arg)
			assert.Equal(t, tt.wantHit, hit)
		})
	}
}

func TestShortBundleOK(t *testing.T) {
	assert.True(t, shortBundleOK("-xvf", "xvf"))
	assert.False(t, shortBundleOK("-xz", "xvf"))
	assert.True(t, shortBundleOK("-v", "xvf"))
	assert.True(t, shortBundleOK("--long", "xvf"), "long options are not bundles")
	assert.True(t, shortBundleOK("-oanything", "o:"), "argument consumes the rest")
	assert.False(t, shortBundleOK("-zo", "o:"))
}
