package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/relief-camps/pkg/utils"
)

func TestSessionKeeper_Persists(t *testing.T) {
	utils.StateHome = t.TempDir()
	t.Cleanup(func() { utils.StateHome = "" })

	keeper := NewSessionKeeper("test", true)
	token, err := keeper.Token()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, keeper.Set("tok-1"))

	reloaded := NewSessionKeeper("test", true)
	token, err = reloaded.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	other := NewSessionKeeper("prod", true)
	token, err = other.Token()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, reloaded.Clear())
	token, err = NewSessionKeeper("test", true).Token()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestSessionKeeper_MemoryOnly(t *testing.T) {
	utils.StateHome = t.TempDir()
	t.Cleanup(func() { utils.StateHome = "" })

	keeper := NewSessionKeeper("test", false)
	require.NoError(t, keeper.Set("tok-1"))

	token, err := keeper.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	token, err = NewSessionKeeper("test", true).Token()
	require.NoError(t, err)
	assert.Empty(t, token)
}
