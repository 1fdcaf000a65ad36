package rerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefinitionError(t *testing.T) {
	cause := errors.New("yaml: line 3")
	err := NewDefinitionError("/comp/git.yml", "invalid definition", cause)

	assert.Equal(t, "DEFINITION_ERROR", err.Code())
	assert.Equal(t, "/comp/git.yml", err.Path)
	assert.Equal(t, "invalid definition: yaml: line 3", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestDefinitionError_NoCause(t *testing.T) {
	err := NewDefinitionError("/comp/git.yml", "missing command", nil)
	assert.Equal(t, "missing command", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}

func TestLoadError(t *testing.T) {
	err := NewLoadError("git", "no definition found", nil)
	assert.Equal(t, "LOAD_ERROR", err.Code())
	assert.Equal(t, "git", err.Command)
}

func TestConfigError(t *testing.T) {
	err := NewConfigError("/etc/reef.yml", "bad value", nil)
	assert.Equal(t, "CONFIG_ERROR", err.Code())
	assert.Equal(t, "/etc/reef.yml", err.Path)
}

func TestOptionError(t *testing.T) {
	err := NewOptionError("--bogus", "Unknown option: '--bogus'")
	assert.Equal(t, "OPTION_ERROR", err.Code())
	assert.Equal(t, "--bogus", err.Option)
	assert.Equal(t, "Unknown option: '--bogus'", err.Error())
}

func TestErrorAsThroughWrapping(t *testing.T) {
	inner := NewDefinitionError("/comp/git.yml", "bad", nil)
	wrapped := fmt.Errorf("loading completions: %w", inner)

	var defErr *DefinitionError
	require.ErrorAs(t, wrapped, &defErr)
	assert.Equal(t, "/comp/git.yml", defErr.Path)

	var reefErr ReefError
	require.ErrorAs(t, wrapped, &reefErr)
	assert.Equal(t, "DEFINITION_ERROR", reefErr.Code())
}
